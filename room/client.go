package room

import "context"

// JoinOptions carries the parameters for joining a room.
type JoinOptions struct {
	// RoomURL is the meeting URL returned by the session-creation
	// service.
	RoomURL string

	// UserName is the display name announced to the room.
	UserName string
}

// CallClient is the consumed surface of the external video-call SDK.
// It owns the network connection, the room membership and the media
// sources; this package only reads its state and asks it to join or
// leave.
//
// Event delivery is push-based: the client invokes a handler (see
// Controller.Dispatch) for every Event it produces. The query methods
// report the client's current state, which is the source of truth for
// local device flags and participant counts. The local camera/mic
// display must be derived from LocalVideoEnabled/LocalAudioEnabled at
// event time, never from an event's participant snapshot; the snapshot
// can lag the device state.
type CallClient interface {
	// Join connects to the room. It returns once the join request has
	// been issued; the JoinedMeeting event confirms membership.
	Join(ctx context.Context, opts JoinOptions) error

	// Leave disconnects from the room. The LeftMeeting event confirms
	// and carries the authoritative cleanup.
	Leave(ctx context.Context) error

	// LocalAudioEnabled reports whether the local microphone is live.
	LocalAudioEnabled() bool

	// LocalVideoEnabled reports whether the local camera is live.
	LocalVideoEnabled() bool

	// ParticipantCounts reports the provider's present and hidden
	// participant counts.
	ParticipantCounts() (present, hidden int)
}
