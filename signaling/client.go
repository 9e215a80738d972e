// Package signaling implements the shipped Call Session Client: a
// WebSocket connection to the call provider's signaling endpoint that
// decodes JSON event envelopes into the room package's event union.
//
// The client satisfies room.CallClient. It keeps the provider-reported
// participant counts and the local device flags in client-side state so
// room's live queries answer without a round trip, and it upholds the
// provider contract that every fatal failure is followed by a
// left-meeting signal: when the connection dies abnormally the client
// synthesizes room.CallError{Fatal: true} and room.LeftMeeting itself,
// so the controller's cleanup path runs no matter how the transport
// went away.
package signaling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/openmeet/avatarcall/room"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// pongWait is the read deadline extension granted per pong.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = 54 * time.Second
	// readLimit caps inbound frame size.
	readLimit = 32768
)

// Sentinel errors for signaling client operations.
var (
	// ErrAlreadyConnected indicates Join was called on a live connection.
	ErrAlreadyConnected = errors.New("signaling connection already established")

	// ErrNotConnected indicates Leave was called without a connection.
	ErrNotConnected = errors.New("signaling connection not established")
)

// EventHandler receives every decoded event, in wire order, on the
// client's read goroutine.
type EventHandler func(room.Event)

// Client is a WebSocket signaling connection to one call room.
// It implements room.CallClient.
type Client struct {
	id string

	mu         sync.RWMutex
	conn       *websocket.Conn
	handler    EventHandler
	present    int
	hidden     int
	localVideo bool
	localAudio bool
	leaving    bool
	sawLeft    bool

	writeMu sync.Mutex
	done    chan struct{}
}

// NewClient creates an unconnected signaling client with a fresh
// connection identity.
func NewClient() *Client {
	return &Client{
		id: uuid.NewString(),
	}
}

// SetEventHandler registers the event handler. It must be set before
// Join; events arriving without a handler are dropped.
func (c *Client) SetEventHandler(handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = handler
}

// Join dials the room's signaling endpoint and announces the client.
// It returns once the join frame has been written; room membership is
// confirmed by the joined-meeting event.
func (c *Client) Join(ctx context.Context, opts room.JoinOptions) error {
	c.mu.Lock()
	if c.conn != nil {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.mu.Unlock()

	endpoint, err := signalURL(opts.RoomURL)
	if err != nil {
		return fmt.Errorf("invalid room URL: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"endpoint":      endpoint,
		"connection_id": c.id,
	}).Info("Dialing signaling endpoint")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("signaling dial failed: %w", err)
	}
	conn.SetReadLimit(readLimit)

	c.mu.Lock()
	c.conn = conn
	c.present = 0
	c.hidden = 0
	c.localVideo = false
	c.localAudio = false
	c.leaving = false
	c.sawLeft = false
	c.done = make(chan struct{})
	c.mu.Unlock()

	if err := c.writeEnvelope(envelope{
		Type:         typeJoin,
		ConnectionID: c.id,
		UserName:     opts.UserName,
	}); err != nil {
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
		return fmt.Errorf("failed to send join: %w", err)
	}

	go c.readPump(conn)
	go c.pingLoop(conn)

	return nil
}

// Leave announces departure. The server answers with left-meeting and
// closes; the read pump delivers that event and tears the state down.
func (c *Client) Leave(_ context.Context) error {
	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return ErrNotConnected
	}
	c.leaving = true
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"connection_id": c.id,
	}).Info("Leaving room")

	if err := c.writeEnvelope(envelope{Type: typeLeave, ConnectionID: c.id}); err != nil {
		return fmt.Errorf("failed to send leave: %w", err)
	}
	return nil
}

// LocalAudioEnabled reports the microphone state from the most recent
// local participant update (presence of the audio track).
func (c *Client) LocalAudioEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.localAudio
}

// LocalVideoEnabled reports the camera state from the most recent local
// participant update (presence of the video track).
func (c *Client) LocalVideoEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.localVideo
}

// ParticipantCounts reports the provider's present and hidden counts
// from the most recent counts envelope.
func (c *Client) ParticipantCounts() (present, hidden int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.present, c.hidden
}

// readPump decodes envelopes until the connection dies. On exit it
// closes the connection and, unless a left-meeting was delivered,
// synthesizes the fatal-error/left-meeting pair so downstream cleanup
// always runs.
func (c *Client) readPump(conn *websocket.Conn) {
	defer c.finishRead(conn)

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.RLock()
			deliberate := c.leaving || c.sawLeft
			c.mu.RUnlock()
			if !deliberate {
				logrus.WithFields(logrus.Fields{
					"connection_id": c.id,
					"error":         err.Error(),
				}).Warn("Signaling read failed")
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			logrus.WithFields(logrus.Fields{
				"connection_id": c.id,
				"error":         err.Error(),
			}).Warn("Dropping undecodable signaling frame")
			continue
		}

		c.handleEnvelope(env)
	}
}

// handleEnvelope updates client-side state and forwards the event.
func (c *Client) handleEnvelope(env envelope) {
	if env.Type == typeCounts {
		c.mu.Lock()
		c.present = env.Present
		c.hidden = env.Hidden
		c.mu.Unlock()
		return
	}

	// Local snapshots also refresh the device flags served to the
	// live queries.
	if env.Participant != nil && env.Participant.Local {
		video := env.Participant.Tracks["video"]
		audio := env.Participant.Tracks["audio"]
		c.mu.Lock()
		c.localVideo = video.Present
		c.localAudio = audio.Present
		c.mu.Unlock()
	}

	ev, err := env.toEvent()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"connection_id": c.id,
			"type":          env.Type,
		}).Warn("Dropping unknown signaling message")
		return
	}

	if _, ok := ev.(room.LeftMeeting); ok {
		c.mu.Lock()
		c.sawLeft = true
		c.mu.Unlock()
	}

	c.emit(ev)
}

// finishRead tears the connection down and synthesizes the cleanup
// events for abnormal termination.
func (c *Client) finishRead(conn *websocket.Conn) {
	c.mu.Lock()
	c.conn = nil
	sawLeft := c.sawLeft
	leaving := c.leaving
	done := c.done
	c.mu.Unlock()

	conn.Close()
	if done != nil {
		close(done)
	}

	if sawLeft {
		return
	}

	// The provider's contract is fatal-error-then-left-meeting; a dead
	// transport gets the same pair so cleanup always runs. A deliberate
	// leave whose confirmation never arrived still gets the left-meeting.
	if !leaving {
		logrus.WithFields(logrus.Fields{
			"connection_id": c.id,
		}).Error("Signaling connection lost, synthesizing teardown")
		c.emit(room.CallError{Reason: "signaling connection lost", Fatal: true})
	}
	c.emit(room.LeftMeeting{})
}

// pingLoop keeps the connection alive until the read pump finishes.
func (c *Client) pingLoop(conn *websocket.Conn) {
	c.mu.RLock()
	done := c.done
	c.mu.RUnlock()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// emit invokes the handler if one is registered.
func (c *Client) emit(ev room.Event) {
	c.mu.RLock()
	handler := c.handler
	c.mu.RUnlock()
	if handler != nil {
		handler(ev)
	}
}

// writeEnvelope serializes one frame. Writes are serialized by their
// own mutex; gorilla connections allow one concurrent writer.
func (c *Client) writeEnvelope(env envelope) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(env)
}

// signalURL maps a meeting URL to its signaling endpoint: same host and
// path, websocket scheme.
func signalURL(roomURL string) (string, error) {
	u, err := url.Parse(roomURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("room URL has no host")
	}
	return u.String(), nil
}
