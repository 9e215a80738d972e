package room

import "errors"

// Sentinel errors for room package operations.
// These errors enable reliable error classification using errors.Is().

// Controller errors.
var (
	// ErrEmptyRoomURL indicates Join was called without a room URL.
	ErrEmptyRoomURL = errors.New("room URL is empty")

	// ErrCallActive indicates a join was attempted while a call is
	// already joining or joined.
	ErrCallActive = errors.New("call already active")

	// ErrNotInCall indicates Leave was called with no active call.
	ErrNotInCall = errors.New("no active call")
)

// Rendering errors.
var (
	// ErrRenderTargetMissing indicates a render command addressed a sink
	// that does not exist. Surfaces return it; the reconciler logs it
	// and carries on. It is never fatal and never propagated.
	ErrRenderTargetMissing = errors.New("render target missing")
)
