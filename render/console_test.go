package render

import (
	"errors"
	"testing"

	"github.com/openmeet/avatarcall/room"
)

// TestConsoleSinkLifecycle verifies create, attach, release, remove.
func TestConsoleSinkLifecycle(t *testing.T) {
	c := NewConsole()

	if err := c.CreateVideoSink("P1"); err != nil {
		t.Fatalf("CreateVideoSink failed: %v", err)
	}
	if err := c.CreateAudioSink("P1"); err != nil {
		t.Fatalf("CreateAudioSink failed: %v", err)
	}

	// Idempotent creation.
	if err := c.CreateVideoSink("P1"); err != nil {
		t.Errorf("Repeated CreateVideoSink failed: %v", err)
	}

	if err := c.AttachMedia("P1", room.TrackVideo, "cam-1"); err != nil {
		t.Errorf("AttachMedia failed: %v", err)
	}
	if err := c.SetVideoVisible("P1", false); err != nil {
		t.Errorf("SetVideoVisible failed: %v", err)
	}
	if err := c.ReleaseMedia("P1", room.TrackVideo); err != nil {
		t.Errorf("ReleaseMedia failed: %v", err)
	}

	c.RemoveParticipant("P1")
	if err := c.AttachMedia("P1", room.TrackVideo, "cam-1"); !errors.Is(err, room.ErrRenderTargetMissing) {
		t.Errorf("Expected ErrRenderTargetMissing after removal, got %v", err)
	}
}

// TestConsoleMissingTargets verifies every sink-addressed operation
// reports ErrRenderTargetMissing for unknown participants.
func TestConsoleMissingTargets(t *testing.T) {
	c := NewConsole()

	if err := c.AttachMedia("ghost", room.TrackAudio, "m"); !errors.Is(err, room.ErrRenderTargetMissing) {
		t.Errorf("AttachMedia: expected ErrRenderTargetMissing, got %v", err)
	}
	if err := c.SetVideoVisible("ghost", true); !errors.Is(err, room.ErrRenderTargetMissing) {
		t.Errorf("SetVideoVisible: expected ErrRenderTargetMissing, got %v", err)
	}
	if err := c.ReleaseMedia("ghost", room.TrackVideo); !errors.Is(err, room.ErrRenderTargetMissing) {
		t.Errorf("ReleaseMedia: expected ErrRenderTargetMissing, got %v", err)
	}
}

// TestConsoleDestroyAll verifies the sweep clears every sink.
func TestConsoleDestroyAll(t *testing.T) {
	c := NewConsole()
	c.CreateVideoSink("P1")
	c.CreateAudioSink("P2")

	c.DestroyAll()

	if err := c.AttachMedia("P1", room.TrackVideo, "cam"); !errors.Is(err, room.ErrRenderTargetMissing) {
		t.Errorf("Expected ErrRenderTargetMissing after DestroyAll, got %v", err)
	}
	if err := c.AttachMedia("P2", room.TrackAudio, "mic"); !errors.Is(err, room.ErrRenderTargetMissing) {
		t.Errorf("Expected ErrRenderTargetMissing after DestroyAll, got %v", err)
	}
}

// TestConsoleSatisfiesRenderSurface pins the interface.
func TestConsoleSatisfiesRenderSurface(t *testing.T) {
	var _ room.RenderSurface = NewConsole()
}
