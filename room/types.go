package room

// ParticipantID is the opaque session identifier assigned by the call
// provider. It is unique and stable for the duration of a call.
type ParticipantID string

// TrackKind identifies a renderable media track kind.
type TrackKind uint8

const (
	// TrackVideo is a participant's camera track.
	TrackVideo TrackKind = iota
	// TrackAudio is a participant's microphone track.
	TrackAudio
)

// String returns a human-readable name for the track kind.
func (k TrackKind) String() string {
	switch k {
	case TrackVideo:
		return "video"
	case TrackAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// trackKinds is the fixed reconciliation order for track processing.
var trackKinds = [...]TrackKind{TrackVideo, TrackAudio}

// Playability is the track-level readiness signal reported by the call
// provider, distinct from mere presence: a track can exist without being
// currently playable.
//
// The set of values is open on the wire; anything not recognized below is
// treated as playable so an unknown provider state never blanks a feed.
type Playability string

const (
	// PlayabilityPlayable indicates the track is live and renderable.
	PlayabilityPlayable Playability = "playable"
	// PlayabilityOff indicates the sender disabled the track.
	PlayabilityOff Playability = "off"
	// PlayabilityInterrupted indicates a transient delivery interruption.
	PlayabilityInterrupted Playability = "interrupted"
	// PlayabilityBlocked indicates delivery is blocked (e.g. bandwidth).
	PlayabilityBlocked Playability = "blocked"
)

// Hidden reports whether a video track in this state should be hidden.
// Off, interrupted and blocked hide the surface; playable and any
// unrecognized value keep it visible.
func (p Playability) Hidden() bool {
	switch p {
	case PlayabilityOff, PlayabilityInterrupted, PlayabilityBlocked:
		return true
	default:
		return false
	}
}

// MediaHandle is an opaque, comparable reference to an underlying media
// source. The handle is owned by the call client; the reconciler only
// compares handles to decide whether a sink's current binding is stale.
// The zero value means "no media".
type MediaHandle string

// TrackState is the last reported state of one participant track.
type TrackState struct {
	Kind        TrackKind
	Present     bool
	Playability Playability
	// Media is set only when Present is true.
	Media MediaHandle
}

// Participant is the call provider's snapshot of one participant.
// Tracks carries only the kinds the originating event reported; absent
// kinds are left untouched by the reconciler.
type Participant struct {
	ID     ParticipantID
	Local  bool
	Tracks map[TrackKind]TrackState
}

// AppState is the coarse application status signaled out-of-band over the
// call's application-message channel.
type AppState uint8

const (
	// AppStateNone is the idle/unknown state.
	AppStateNone AppState = iota
	// AppStateListening indicates the avatar is listening.
	AppStateListening
	// AppStateThinking indicates the avatar is preparing a response.
	AppStateThinking
	// AppStateTalking indicates the avatar is speaking.
	AppStateTalking
)

// String returns the display label for the state.
func (s AppState) String() string {
	switch s {
	case AppStateListening:
		return "Listening"
	case AppStateThinking:
		return "Thinking"
	case AppStateTalking:
		return "Talking"
	default:
		return "None"
	}
}

// Application-message sentinel payloads. The mapping is closed: these
// exact strings and nothing else.
const (
	appMessageListening = "ApplicationState: 0"
	appMessageThinking  = "ApplicationState: 1"
	appMessageTalking   = "ApplicationState: 2"
)

// ParseAppState maps an application-message payload to an AppState by
// exact string match. Every non-matching payload, including the empty
// string and malformed or future-versioned variants, maps to
// AppStateNone. This is a closed mapping, not a parser.
func ParseAppState(payload string) AppState {
	switch payload {
	case appMessageListening:
		return AppStateListening
	case appMessageThinking:
		return AppStateThinking
	case appMessageTalking:
		return AppStateTalking
	default:
		return AppStateNone
	}
}
