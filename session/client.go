// Package session implements the client for the avatar session-creation
// service: a single HTTP POST that allocates a call room for the
// operator-supplied avatar parameters.
//
// The service owns all retry and error semantics; this client performs
// one attempt, classifies the response, and reports failures through
// sentinel errors usable with errors.Is().
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// startSessionPath is the session-creation endpoint.
const startSessionPath = "/startE2ESession"

// defaultTimeout bounds a session-creation attempt when the caller's
// context carries no deadline. Session startup allocates media
// resources remotely and can take a while.
const defaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response body is carried into
// the returned error.
const maxErrorBody = 512

// Sentinel errors for session service operations.
var (
	// ErrRemoteService indicates a non-2xx response from the service.
	ErrRemoteService = errors.New("session service request failed")

	// ErrUnauthorized indicates the service rejected the credentials
	// (HTTP 401). It wraps ErrRemoteService.
	ErrUnauthorized = fmt.Errorf("%w: invalid credentials", ErrRemoteService)

	// ErrMissingRoomURL indicates a 2xx response without a room URL.
	ErrMissingRoomURL = errors.New("session response missing room URL")
)

// Request carries the operator-supplied session parameters. All fields
// are passed to the service verbatim; validation is the service's job.
type Request struct {
	APIKey    string    `json:"apiKey"`
	FaceID    string    `json:"faceId"`
	Intro     string    `json:"intro"`
	Prompt    string    `json:"prompt"`
	TimeLimit TimeLimit `json:"timeLimit"`
	UserName  string    `json:"userName"`
	VoiceID   string    `json:"voiceId"`
}

// TimeLimit is the nested session duration limit, in seconds.
type TimeLimit struct {
	Limit int `json:"limit"`
}

// Session is a successfully created avatar session.
type Session struct {
	// RoomURL is the meeting URL of the allocated call room.
	RoomURL string `json:"roomUrl"`
}

// RoomName returns the room token derived from the meeting URL: its
// last path segment.
func (s *Session) RoomName() string {
	url := strings.TrimRight(s.RoomURL, "/")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		return url[i+1:]
	}
	return url
}

// Client talks to one session-creation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a session service client for the given base URL.
// A nil httpClient selects a default client with a 30 second timeout.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("base URL cannot be empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// StartSession performs the session-creation POST and returns the
// allocated session. Non-2xx responses fail with ErrRemoteService, or
// ErrUnauthorized for HTTP 401. No retry is performed.
func (c *Client) StartSession(ctx context.Context, req Request) (*Session, error) {
	logrus.WithFields(logrus.Fields{
		"function":   "StartSession",
		"face_id":    req.FaceID,
		"voice_id":   req.VoiceID,
		"user_name":  req.UserName,
		"time_limit": req.TimeLimit.Limit,
	}).Info("Requesting avatar session")

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+startSessionPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "StartSession",
			"error":    err.Error(),
		}).Error("Session request transport failure")
		return nil, fmt.Errorf("session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.classifyFailure(resp)
	}

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}
	if session.RoomURL == "" {
		return nil, ErrMissingRoomURL
	}

	logrus.WithFields(logrus.Fields{
		"function": "StartSession",
		"room":     session.RoomName(),
	}).Info("Avatar session created")

	return &session, nil
}

// classifyFailure maps a non-2xx response to the error taxonomy,
// carrying a truncated body for diagnosis.
func (c *Client) classifyFailure(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	logrus.WithFields(logrus.Fields{
		"function": "StartSession",
		"status":   resp.StatusCode,
		"body":     string(snippet),
	}).Error("Session service rejected request")

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return fmt.Errorf("%w: status %d: %s", ErrRemoteService, resp.StatusCode, strings.TrimSpace(string(snippet)))
}
