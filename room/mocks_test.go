package room

import (
	"context"
	"sync"
)

// attachRecord captures one AttachMedia command.
type attachRecord struct {
	id    ParticipantID
	kind  TrackKind
	media MediaHandle
}

// releaseRecord captures one ReleaseMedia command.
type releaseRecord struct {
	id   ParticipantID
	kind TrackKind
}

// mockSurface records every command it receives so tests can assert on
// the exact command stream.
type mockSurface struct {
	mu sync.Mutex

	videoSinks []ParticipantID
	audioSinks []ParticipantID
	attaches   []attachRecord
	releases   []releaseRecord
	visibility map[ParticipantID]bool
	removed    []ParticipantID
	destroyAll int

	counts       []int
	speakers     []string
	camera       []bool
	mic          []bool
	appStates    []AppState
	joinEnabled  []bool
	leaveEnabled []bool
	errorsShown  []string
	errorCleared int

	// failSinkOps forces sink-addressed operations to fail with
	// ErrRenderTargetMissing.
	failSinkOps bool
}

func newMockSurface() *mockSurface {
	return &mockSurface{
		visibility: make(map[ParticipantID]bool),
	}
}

func (s *mockSurface) CreateVideoSink(id ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSinkOps {
		return ErrRenderTargetMissing
	}
	s.videoSinks = append(s.videoSinks, id)
	return nil
}

func (s *mockSurface) CreateAudioSink(id ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSinkOps {
		return ErrRenderTargetMissing
	}
	s.audioSinks = append(s.audioSinks, id)
	return nil
}

func (s *mockSurface) AttachMedia(id ParticipantID, kind TrackKind, media MediaHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSinkOps {
		return ErrRenderTargetMissing
	}
	s.attaches = append(s.attaches, attachRecord{id: id, kind: kind, media: media})
	return nil
}

func (s *mockSurface) SetVideoVisible(id ParticipantID, visible bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSinkOps {
		return ErrRenderTargetMissing
	}
	s.visibility[id] = visible
	return nil
}

func (s *mockSurface) ReleaseMedia(id ParticipantID, kind TrackKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSinkOps {
		return ErrRenderTargetMissing
	}
	s.releases = append(s.releases, releaseRecord{id: id, kind: kind})
	return nil
}

func (s *mockSurface) RemoveParticipant(id ParticipantID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, id)
}

func (s *mockSurface) DestroyAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destroyAll++
}

func (s *mockSurface) SetParticipantCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = append(s.counts, n)
}

func (s *mockSurface) SetActiveSpeaker(peerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speakers = append(s.speakers, peerID)
}

func (s *mockSurface) SetCameraOn(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = append(s.camera, on)
}

func (s *mockSurface) SetMicOn(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mic = append(s.mic, on)
}

func (s *mockSurface) SetAppState(state AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appStates = append(s.appStates, state)
}

func (s *mockSurface) SetJoinEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joinEnabled = append(s.joinEnabled, enabled)
}

func (s *mockSurface) SetLeaveEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveEnabled = append(s.leaveEnabled, enabled)
}

func (s *mockSurface) ShowError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorsShown = append(s.errorsShown, message)
}

func (s *mockSurface) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorCleared++
}

// lastBool returns the most recent value of a recorded bool series, or
// fallback when nothing was recorded.
func lastBool(series []bool, fallback bool) bool {
	if len(series) == 0 {
		return fallback
	}
	return series[len(series)-1]
}

// lastInt returns the most recent value of a recorded int series, or -1.
func lastInt(series []int) int {
	if len(series) == 0 {
		return -1
	}
	return series[len(series)-1]
}

// mockCallClient is a stub CallClient with scriptable state.
type mockCallClient struct {
	mu sync.Mutex

	joinErr  error
	leaveErr error

	joinCalls  int
	leaveCalls int
	lastOpts   JoinOptions

	audioOn bool
	videoOn bool
	present int
	hidden  int
}

func (c *mockCallClient) Join(_ context.Context, opts JoinOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.joinCalls++
	c.lastOpts = opts
	return c.joinErr
}

func (c *mockCallClient) Leave(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaveCalls++
	return c.leaveErr
}

func (c *mockCallClient) LocalAudioEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.audioOn
}

func (c *mockCallClient) LocalVideoEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.videoOn
}

func (c *mockCallClient) ParticipantCounts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.present, c.hidden
}

func (c *mockCallClient) setCounts(present, hidden int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.present = present
	c.hidden = hidden
}

func (c *mockCallClient) setDevices(video, audio bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videoOn = video
	c.audioOn = audio
}
