package signaling

import (
	"fmt"

	"github.com/openmeet/avatarcall/room"
)

// Wire message types for the signaling protocol. One JSON envelope per
// message; Type selects which of the optional fields are meaningful.
const (
	// Client to server.
	typeJoin  = "join"
	typeLeave = "leave"

	// Server to client.
	typeJoined             = "joined-meeting"
	typeLeft               = "left-meeting"
	typeError              = "error"
	typeParticipantJoined  = "participant-joined"
	typeParticipantUpdated = "participant-updated"
	typeParticipantLeft    = "participant-left"
	typeActiveSpeaker      = "active-speaker-change"
	typeAppMessage         = "app-message"
	typeCounts             = "counts"
)

// envelope is the JSON wire frame.
type envelope struct {
	Type string `json:"type"`

	// join
	ConnectionID string `json:"connectionId,omitempty"`
	UserName     string `json:"userName,omitempty"`

	// participant lifecycle
	Participant *participantPayload `json:"participant,omitempty"`

	// active-speaker-change
	PeerID string `json:"peerId,omitempty"`

	// error
	Message string `json:"message,omitempty"`
	Fatal   bool   `json:"fatal,omitempty"`

	// app-message
	Data string `json:"data,omitempty"`

	// counts
	Present int `json:"present,omitempty"`
	Hidden  int `json:"hidden,omitempty"`
}

// participantPayload is the wire form of a participant snapshot.
type participantPayload struct {
	ID     string                  `json:"id"`
	Local  bool                    `json:"local,omitempty"`
	Tracks map[string]trackPayload `json:"tracks,omitempty"`
}

// trackPayload is the wire form of one track's state. State carries the
// provider's playability string verbatim.
type trackPayload struct {
	Present bool   `json:"present"`
	State   string `json:"state,omitempty"`
	Media   string `json:"media,omitempty"`
}

// toDomain converts the payload to a room.Participant. Track keys other
// than "video" and "audio" are dropped; the reconciler only renders
// those two kinds.
func (p *participantPayload) toDomain() room.Participant {
	participant := room.Participant{
		ID:     room.ParticipantID(p.ID),
		Local:  p.Local,
		Tracks: make(map[room.TrackKind]room.TrackState, len(p.Tracks)),
	}
	for name, track := range p.Tracks {
		var kind room.TrackKind
		switch name {
		case "video":
			kind = room.TrackVideo
		case "audio":
			kind = room.TrackAudio
		default:
			continue
		}
		participant.Tracks[kind] = room.TrackState{
			Kind:        kind,
			Present:     track.Present,
			Playability: room.Playability(track.State),
			Media:       room.MediaHandle(track.Media),
		}
	}
	return participant
}

// toEvent maps a server envelope to its room.Event. typeCounts has no
// event form and is handled before this is called; unknown types fail.
func (e *envelope) toEvent() (room.Event, error) {
	switch e.Type {
	case typeJoined:
		return room.JoinedMeeting{Local: e.participant()}, nil
	case typeLeft:
		return room.LeftMeeting{}, nil
	case typeError:
		return room.CallError{Reason: e.Message, Fatal: e.Fatal}, nil
	case typeParticipantJoined:
		return room.ParticipantJoined{Participant: e.participant()}, nil
	case typeParticipantUpdated:
		return room.ParticipantUpdated{Participant: e.participant()}, nil
	case typeParticipantLeft:
		return room.ParticipantLeft{Participant: e.participant()}, nil
	case typeActiveSpeaker:
		return room.ActiveSpeakerChange{PeerID: e.PeerID}, nil
	case typeAppMessage:
		return room.AppMessage{Payload: e.Data}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", e.Type)
	}
}

// participant returns the envelope's participant, or a zero value when
// the field is absent.
func (e *envelope) participant() room.Participant {
	if e.Participant == nil {
		return room.Participant{Tracks: map[room.TrackKind]room.TrackState{}}
	}
	return e.Participant.toDomain()
}
