// Package render provides RenderSurface implementations. The shipped
// Console surface renders call state as structured log lines, which is
// what a headless operator terminal gets instead of video elements;
// richer surfaces implement room.RenderSurface the same way.
package render

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/openmeet/avatarcall/room"
)

// sink is one renderable target's console-side state.
type sink struct {
	media   room.MediaHandle
	visible bool
}

// Console implements room.RenderSurface on a terminal. Sinks are
// bookkeeping entries; "rendering" is a structured log line per state
// change, so a session transcript doubles as a render trace.
type Console struct {
	mu    sync.Mutex
	video map[room.ParticipantID]*sink
	audio map[room.ParticipantID]*sink
	log   *logrus.Entry
}

// NewConsole creates an empty console surface.
func NewConsole() *Console {
	return &Console{
		video: make(map[room.ParticipantID]*sink),
		audio: make(map[room.ParticipantID]*sink),
		log:   logrus.WithField("surface", "console"),
	}
}

// CreateVideoSink registers the participant's video target.
func (c *Console) CreateVideoSink(id room.ParticipantID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.video[id]; ok {
		return nil
	}
	c.video[id] = &sink{visible: true}
	c.log.WithField("participant", id).Info("Video sink created")
	return nil
}

// CreateAudioSink registers the participant's audio target.
func (c *Console) CreateAudioSink(id room.ParticipantID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.audio[id]; ok {
		return nil
	}
	c.audio[id] = &sink{}
	c.log.WithField("participant", id).Info("Audio sink created")
	return nil
}

// AttachMedia binds a media handle to the addressed sink.
func (c *Console) AttachMedia(id room.ParticipantID, kind room.TrackKind, media room.MediaHandle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	target, err := c.sinkLocked(id, kind)
	if err != nil {
		return err
	}
	target.media = media
	c.log.WithFields(logrus.Fields{
		"participant": id,
		"kind":        kind.String(),
		"media":       string(media),
	}).Info("Media attached")
	return nil
}

// SetVideoVisible shows or hides the participant's video target.
func (c *Console) SetVideoVisible(id room.ParticipantID, visible bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	target, err := c.sinkLocked(id, room.TrackVideo)
	if err != nil {
		return err
	}
	if target.visible != visible {
		target.visible = visible
		c.log.WithFields(logrus.Fields{
			"participant": id,
			"visible":     visible,
		}).Info("Video visibility changed")
	}
	return nil
}

// ReleaseMedia unbinds the addressed sink's media.
func (c *Console) ReleaseMedia(id room.ParticipantID, kind room.TrackKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	target, err := c.sinkLocked(id, kind)
	if err != nil {
		return err
	}
	if target.media != "" {
		target.media = ""
		c.log.WithFields(logrus.Fields{
			"participant": id,
			"kind":        kind.String(),
		}).Info("Media released")
	}
	return nil
}

// RemoveParticipant drops both of the participant's sinks.
func (c *Console) RemoveParticipant(id room.ParticipantID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.video, id)
	delete(c.audio, id)
	c.log.WithField("participant", id).Info("Participant removed")
}

// DestroyAll drops every sink.
func (c *Console) DestroyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.video = make(map[room.ParticipantID]*sink)
	c.audio = make(map[room.ParticipantID]*sink)
	c.log.Info("All sinks destroyed")
}

// SetParticipantCount renders the participant count.
func (c *Console) SetParticipantCount(n int) {
	c.log.WithField("count", n).Info("Participant count")
}

// SetActiveSpeaker renders the active speaker, "None" when empty.
func (c *Console) SetActiveSpeaker(peerID string) {
	if peerID == "" {
		peerID = "None"
	}
	c.log.WithField("speaker", peerID).Info("Active speaker")
}

// SetCameraOn renders the local camera state.
func (c *Console) SetCameraOn(on bool) {
	c.log.WithField("camera", onOff(on)).Info("Camera state")
}

// SetMicOn renders the local microphone state.
func (c *Console) SetMicOn(on bool) {
	c.log.WithField("mic", onOff(on)).Info("Microphone state")
}

// SetAppState renders the application state label.
func (c *Console) SetAppState(state room.AppState) {
	c.log.WithField("state", state.String()).Info("Application state")
}

// SetJoinEnabled renders the join control state.
func (c *Console) SetJoinEnabled(enabled bool) {
	c.log.WithField("enabled", enabled).Debug("Join control")
}

// SetLeaveEnabled renders the leave control state.
func (c *Console) SetLeaveEnabled(enabled bool) {
	c.log.WithField("enabled", enabled).Debug("Leave control")
}

// ShowError renders an error indicator.
func (c *Console) ShowError(message string) {
	c.log.WithField("message", message).Error("Call error")
}

// ClearError clears the error indicator.
func (c *Console) ClearError() {
	c.log.Debug("Error cleared")
}

// sinkLocked resolves a sink or reports it missing. Caller holds c.mu.
func (c *Console) sinkLocked(id room.ParticipantID, kind room.TrackKind) (*sink, error) {
	var targets map[room.ParticipantID]*sink
	switch kind {
	case room.TrackVideo:
		targets = c.video
	case room.TrackAudio:
		targets = c.audio
	default:
		return nil, fmt.Errorf("%w: unknown kind %s", room.ErrRenderTargetMissing, kind)
	}
	target, ok := targets[id]
	if !ok {
		return nil, fmt.Errorf("%w: no %s sink for %s", room.ErrRenderTargetMissing, kind, id)
	}
	return target, nil
}

func onOff(on bool) string {
	if on {
		return "On"
	}
	return "Off"
}
