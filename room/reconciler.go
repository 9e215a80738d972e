package room

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// sinkSet is the reconciler's bookkeeping for one participant: which
// sinks exist and which media handle each kind is currently bound to.
type sinkSet struct {
	video    bool
	audio    bool
	attached map[TrackKind]MediaHandle
}

// Reconciler maintains per-participant, per-track rendering intent and
// turns participant events into RenderSurface commands.
//
// Invariants it enforces:
//   - at most one sink per (participant, kind), created lazily
//   - a sink is only re-bound when the event carries a different media
//     handle than the one currently attached (suppresses redundant
//     re-attachment and the visible flicker it causes)
//   - the local participant's own audio is never attached, so the local
//     microphone is not looped back
//   - losing track presence releases the media binding but keeps the
//     participant's container until they leave
//
// Surface command failures are logged and swallowed; reconciliation
// never fails.
type Reconciler struct {
	surface RenderSurface
	client  CallClient

	mu           sync.Mutex
	participants map[ParticipantID]*sinkSet
}

// NewReconciler creates a reconciler commanding the given surface and
// reading live state from the given client.
func NewReconciler(surface RenderSurface, client CallClient) (*Reconciler, error) {
	if surface == nil {
		return nil, errors.New("render surface cannot be nil")
	}
	if client == nil {
		return nil, errors.New("call client cannot be nil")
	}
	return &Reconciler{
		surface:      surface,
		client:       client,
		participants: make(map[ParticipantID]*sinkSet),
	}, nil
}

// ParticipantJoinedOrUpdated reconciles one participant snapshot.
// It publishes the current participant count, ensures the participant's
// sinks exist, rebinds or releases track media, updates video
// visibility from playability, and refreshes the local camera/mic flags
// from the client's live device state.
func (r *Reconciler) ParticipantJoinedOrUpdated(p Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.publishCountLocked()

	state, ok := r.participants[p.ID]
	if !ok {
		state = &sinkSet{attached: make(map[TrackKind]MediaHandle)}
		r.participants[p.ID] = state
	}

	if !state.video {
		if err := r.surface.CreateVideoSink(p.ID); err != nil {
			logrus.WithFields(logrus.Fields{
				"participant": p.ID,
				"error":       err.Error(),
			}).Warn("Failed to create video sink")
		} else {
			state.video = true
		}
	}

	// The local microphone is never rendered, so the local participant
	// gets no audio sink at all.
	if !p.Local && !state.audio {
		if err := r.surface.CreateAudioSink(p.ID); err != nil {
			logrus.WithFields(logrus.Fields{
				"participant": p.ID,
				"error":       err.Error(),
			}).Warn("Failed to create audio sink")
		} else {
			state.audio = true
		}
	}

	for _, kind := range trackKinds {
		track, ok := p.Tracks[kind]
		if !ok {
			continue
		}
		r.reconcileTrackLocked(p, state, kind, track)
	}

	if p.Local {
		// Device state comes from the client, not the event snapshot;
		// the snapshot can lag a toggle that already happened.
		r.surface.SetCameraOn(r.client.LocalVideoEnabled())
		r.surface.SetMicOn(r.client.LocalAudioEnabled())
	}
}

// reconcileTrackLocked applies one track's presence, binding and
// visibility to the surface. Caller holds r.mu.
func (r *Reconciler) reconcileTrackLocked(p Participant, state *sinkSet, kind TrackKind, track TrackState) {
	log := logrus.WithFields(logrus.Fields{
		"participant": p.ID,
		"kind":        kind.String(),
	})

	if track.Present {
		if p.Local && kind == TrackAudio {
			log.Debug("Suppressing local audio attachment")
		} else if state.attached[kind] != track.Media {
			if err := r.surface.AttachMedia(p.ID, kind, track.Media); err != nil {
				log.WithField("error", err.Error()).Warn("Failed to attach media")
			} else {
				state.attached[kind] = track.Media
				log.WithField("media", string(track.Media)).Debug("Media attached")
			}
		}
	} else {
		if err := r.surface.ReleaseMedia(p.ID, kind); err != nil {
			log.WithField("error", err.Error()).Warn("Failed to release media")
		}
		delete(state.attached, kind)
	}

	if kind == TrackVideo {
		visible := !track.Playability.Hidden()
		if err := r.surface.SetVideoVisible(p.ID, visible); err != nil {
			log.WithField("error", err.Error()).Warn("Failed to update video visibility")
		}
	}
}

// ParticipantGone tears down a departed participant: both media
// bindings, the containers, and the bookkeeping. The participant count
// is republished afterwards.
func (r *Reconciler) ParticipantGone(id ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"participant": id,
	}).Info("Participant left, removing sinks")

	r.surface.RemoveParticipant(id)
	delete(r.participants, id)
	r.publishCountLocked()
}

// ActiveSpeakerChanged publishes the active speaker verbatim. The
// identifier is not cross-checked against known participants: the
// provider may report a speaker that has just left, and filtering here
// would only hide that.
func (r *Reconciler) ActiveSpeakerChanged(peerID string) {
	r.surface.SetActiveSpeaker(peerID)
}

// AppMessageReceived maps an application-message payload to an AppState
// and publishes it.
func (r *Reconciler) AppMessageReceived(payload string) {
	state := ParseAppState(payload)
	logrus.WithFields(logrus.Fields{
		"state": state.String(),
	}).Debug("Application state message")
	r.surface.SetAppState(state)
}

// Reset drops all per-participant bookkeeping. Called after the
// authoritative left-meeting cleanup; the surface sweep is the
// controller's job.
func (r *Reconciler) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants = make(map[ParticipantID]*sinkSet)
}

// publishCountLocked pushes present+hidden from the client's live
// counts. Caller holds r.mu.
func (r *Reconciler) publishCountLocked() {
	present, hidden := r.client.ParticipantCounts()
	r.surface.SetParticipantCount(present + hidden)
}
