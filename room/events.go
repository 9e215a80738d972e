package room

// Event is the closed set of signals a CallClient delivers to the
// controller. The union is sealed by the unexported marker method so the
// controller's dispatch switch stays exhaustive: adding an event kind is
// a deliberate in-package decision, not something an adapter can extend.
type Event interface {
	isEvent()
}

// JoinedMeeting is delivered once the client has joined a room.
// Local is the snapshot of the local participant at join time.
type JoinedMeeting struct {
	Local Participant
}

// LeftMeeting is delivered after the client has left the room, whether
// by request or after a fatal error. It is the authoritative cleanup
// signal: the call provider guarantees it follows every fatal error.
type LeftMeeting struct{}

// CallError is a client-reported error. Fatal errors are always followed
// by LeftMeeting, which performs the actual teardown.
type CallError struct {
	Reason string
	Fatal  bool
}

// ParticipantJoined is delivered when a participant enters the room.
type ParticipantJoined struct {
	Participant Participant
}

// ParticipantUpdated is delivered whenever a participant's track or
// device state changes.
type ParticipantUpdated struct {
	Participant Participant
}

// ParticipantLeft is delivered when a participant leaves the room.
type ParticipantLeft struct {
	Participant Participant
}

// ActiveSpeakerChange reports the provider's active-speaker decision.
// PeerID is forwarded verbatim and may name a participant that has
// already left; the empty string means nobody is speaking.
type ActiveSpeakerChange struct {
	PeerID string
}

// AppMessage carries a raw application-message payload.
type AppMessage struct {
	Payload string
}

func (JoinedMeeting) isEvent()       {}
func (LeftMeeting) isEvent()         {}
func (CallError) isEvent()           {}
func (ParticipantJoined) isEvent()   {}
func (ParticipantUpdated) isEvent()  {}
func (ParticipantLeft) isEvent()     {}
func (ActiveSpeakerChange) isEvent() {}
func (AppMessage) isEvent()          {}
