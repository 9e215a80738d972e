package room

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// CallPhase is the controller's view of the call lifecycle.
type CallPhase uint8

const (
	// PhaseIdle means no call is active.
	PhaseIdle CallPhase = iota
	// PhaseJoining means a join request is outstanding.
	PhaseJoining
	// PhaseJoined means the room has been joined.
	PhaseJoined
	// PhaseLeaving means a leave request is outstanding.
	PhaseLeaving
)

// String returns a human-readable phase name.
func (p CallPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseJoining:
		return "joining"
	case PhaseJoined:
		return "joined"
	case PhaseLeaving:
		return "leaving"
	default:
		return "unknown"
	}
}

// Controller bridges a CallClient's event stream to the reconciler and
// owns the call lifecycle: Idle -> Joining -> Joined -> Leaving -> Idle,
// with Joined -> Idle directly when a fatal error is followed by the
// provider's LeftMeeting signal. Once joining has begun, no path skips
// the LeftMeeting cleanup.
type Controller struct {
	client     CallClient
	surface    RenderSurface
	reconciler *Reconciler

	userName string

	mu    sync.Mutex
	phase CallPhase
}

// NewController wires a controller (and its reconciler) to the given
// client and surface.
func NewController(client CallClient, surface RenderSurface) (*Controller, error) {
	if client == nil {
		return nil, errors.New("call client cannot be nil")
	}
	if surface == nil {
		return nil, errors.New("render surface cannot be nil")
	}

	reconciler, err := NewReconciler(surface, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create reconciler: %w", err)
	}

	return &Controller{
		client:     client,
		surface:    surface,
		reconciler: reconciler,
		phase:      PhaseIdle,
	}, nil
}

// SetUserName sets the display name announced on join.
func (c *Controller) SetUserName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userName = name
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() CallPhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Join requests room membership. An empty room URL fails with
// ErrEmptyRoomURL; a join while a call is active fails with
// ErrCallActive. The join control is disabled for the duration of the
// attempt and re-enabled on failure, so a join that errors out before
// reaching the network can always be retried.
func (c *Controller) Join(ctx context.Context, roomURL string) error {
	if strings.TrimSpace(roomURL) == "" {
		logrus.WithFields(logrus.Fields{
			"function": "Join",
		}).Error("Join requested with empty room URL")
		c.surface.ShowError("room URL is required")
		return ErrEmptyRoomURL
	}

	c.mu.Lock()
	if c.phase != PhaseIdle {
		phase := c.phase
		c.mu.Unlock()
		return fmt.Errorf("%w (phase %s)", ErrCallActive, phase)
	}
	c.phase = PhaseJoining
	userName := c.userName
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"room_url":  roomURL,
		"user_name": userName,
	}).Info("Joining room")

	c.surface.SetJoinEnabled(false)

	if err := c.client.Join(ctx, JoinOptions{RoomURL: roomURL, UserName: userName}); err != nil {
		logrus.WithFields(logrus.Fields{
			"room_url": roomURL,
			"error":    err.Error(),
		}).Error("Join request failed")
		c.surface.ShowError("could not join the room")
		c.surface.SetJoinEnabled(true)

		c.mu.Lock()
		c.phase = PhaseIdle
		c.mu.Unlock()
		return fmt.Errorf("join failed: %w", err)
	}

	return nil
}

// Leave requests disconnection and sweeps every sink and container off
// the surface. The sweep is deliberately blunt and independent of the
// reconciler's per-participant bookkeeping: leaving tears down the whole
// call. The authoritative display reset still arrives with LeftMeeting.
func (c *Controller) Leave(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseJoined && c.phase != PhaseJoining {
		c.mu.Unlock()
		return ErrNotInCall
	}
	c.phase = PhaseLeaving
	c.mu.Unlock()

	logrus.Info("Leaving room")

	err := c.client.Leave(ctx)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Leave request failed")
	}

	c.surface.DestroyAll()

	if err != nil {
		return fmt.Errorf("leave failed: %w", err)
	}
	return nil
}

// Dispatch routes one event to its handler. The switch is exhaustive
// over the sealed event union; adding a variant without a case here is
// meant to be caught in review, and an unknown value (impossible for
// in-package variants) is logged and dropped.
func (c *Controller) Dispatch(ev Event) {
	switch ev := ev.(type) {
	case JoinedMeeting:
		c.handleJoined(ev)
	case LeftMeeting:
		c.handleLeft()
	case CallError:
		c.handleError(ev)
	case ParticipantJoined:
		c.reconciler.ParticipantJoinedOrUpdated(ev.Participant)
	case ParticipantUpdated:
		c.reconciler.ParticipantJoinedOrUpdated(ev.Participant)
	case ParticipantLeft:
		c.reconciler.ParticipantGone(ev.Participant.ID)
	case ActiveSpeakerChange:
		c.reconciler.ActiveSpeakerChanged(ev.PeerID)
	case AppMessage:
		c.reconciler.AppMessageReceived(ev.Payload)
	default:
		logrus.WithFields(logrus.Fields{
			"event": fmt.Sprintf("%T", ev),
		}).Warn("Dropping unknown event")
	}
}

// handleJoined confirms membership: clear any stale error, flip the
// call controls, reconcile the local participant.
func (c *Controller) handleJoined(ev JoinedMeeting) {
	c.mu.Lock()
	c.phase = PhaseJoined
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"local_participant": ev.Local.ID,
	}).Info("Joined room")

	c.surface.ClearError()
	c.surface.SetJoinEnabled(false)
	c.surface.SetLeaveEnabled(true)

	c.reconciler.ParticipantJoinedOrUpdated(ev.Local)
}

// handleLeft performs the authoritative cleanup. Every path out of a
// call ends here, including fatal errors.
func (c *Controller) handleLeft() {
	c.mu.Lock()
	c.phase = PhaseIdle
	c.mu.Unlock()

	logrus.Info("Left room, resetting call state")

	c.surface.SetCameraOn(false)
	c.surface.SetMicOn(false)
	c.surface.SetParticipantCount(0)
	c.surface.SetActiveSpeaker("")
	c.surface.SetAppState(AppStateNone)
	c.surface.DestroyAll()
	c.surface.SetJoinEnabled(true)
	c.surface.SetLeaveEnabled(false)

	c.reconciler.Reset()
}

// handleError surfaces a client error. Fatal errors rely on the
// provider's guarantee that LeftMeeting follows and does the teardown.
func (c *Controller) handleError(ev CallError) {
	logrus.WithFields(logrus.Fields{
		"reason": ev.Reason,
		"fatal":  ev.Fatal,
	}).Error("Call client error")
	c.surface.ShowError(ev.Reason)
}
