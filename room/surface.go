package room

// RenderSurface is the sink the reconciler and controller command.
// Implementations own the actual render targets (video surfaces, audio
// outputs, status displays); the core only decides when they change.
//
// Sink-addressed operations return ErrRenderTargetMissing (possibly
// wrapped) when no sink exists for the addressed participant and kind.
// Callers in this package log such failures and continue; they are
// never fatal.
type RenderSurface interface {
	// CreateVideoSink creates the video surface and its labeled
	// container for a participant.
	CreateVideoSink(id ParticipantID) error

	// CreateAudioSink creates the audio output for a participant.
	CreateAudioSink(id ParticipantID) error

	// AttachMedia binds a media source to the participant's sink of the
	// given kind, replacing any previous binding.
	AttachMedia(id ParticipantID, kind TrackKind, media MediaHandle) error

	// SetVideoVisible shows or hides the participant's video surface.
	// The container itself stays in place either way.
	SetVideoVisible(id ParticipantID, visible bool) error

	// ReleaseMedia stops and unbinds the media source of the given kind.
	// The sink's container is not removed.
	ReleaseMedia(id ParticipantID, kind TrackKind) error

	// RemoveParticipant releases all of the participant's media and
	// removes their containers.
	RemoveParticipant(id ParticipantID)

	// DestroyAll releases all media and removes every container.
	DestroyAll()

	// Scalar display state. These never fail; a surface that cannot
	// show a value drops it.
	SetParticipantCount(n int)
	SetActiveSpeaker(peerID string)
	SetCameraOn(on bool)
	SetMicOn(on bool)
	SetAppState(state AppState)

	// Call controls and error indicator.
	SetJoinEnabled(enabled bool)
	SetLeaveEnabled(enabled bool)
	ShowError(message string)
	ClearError()
}
