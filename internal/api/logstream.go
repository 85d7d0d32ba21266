// Package api provides the HTTP and WebSocket clients for the craftd
// supervisor daemon.
//
// This file contains the LogStreamClient for the server-log event channel:
// a push-based WebSocket subscription that emits one event per line a
// supervised server process writes. There is no replay of history on
// (re)subscribe; subscribers only see lines written after they attach.
package api

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// LogEvent is one server-log event from the stream: a single output line
// tagged with the instance that produced it. Lines arrive in per-instance
// FIFO order; there is no ordering relationship across instances.
type LogEvent struct {
	// InstanceID identifies the instance that wrote the line.
	InstanceID string

	// Line is the opaque log line, without trailing newline.
	Line string
}

// LogStreamClient handles the WebSocket subscription to craftd's server-log
// topic. Events for all instances arrive multiplexed on one connection and
// are routed by the consumer via LogEvent.InstanceID.
type LogStreamClient struct {
	// conn is the underlying WebSocket connection.
	conn *websocket.Conn

	// sessionID identifies this shell connection to craftd.
	sessionID string

	// mu protects concurrent access to the connection.
	mu sync.Mutex

	// done signals when the client should stop.
	done chan struct{}

	// events receives parsed server-log events.
	events chan LogEvent

	// errors receives connection errors.
	errors chan error

	// pingInterval is the interval between ping messages.
	pingInterval time.Duration

	// connected indicates if the connection is active.
	connected bool
}

// NewLogStreamClient creates a new LogStreamClient.
//
// Returns:
//   - *LogStreamClient: A new client instance
func NewLogStreamClient() *LogStreamClient {
	return &LogStreamClient{
		sessionID:    uuid.NewString(),
		done:         make(chan struct{}),
		events:       make(chan LogEvent, 256),
		errors:       make(chan error, 1),
		pingInterval: 25 * time.Second,
	}
}

// Connect establishes the WebSocket connection and subscribes to the
// server-log topic.
//
// Parameters:
//   - ctx: Context for cancellation (used for dial)
//   - wsURL: The WebSocket URL (e.g. "ws://127.0.0.1:5700/api/v1/events/logs")
//
// Returns:
//   - error: Any error that occurred during connection
func (c *LogStreamClient) Connect(ctx context.Context, wsURL string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return fmt.Errorf("already connected")
	}

	parsedURL, err := url.Parse(wsURL)
	if err != nil {
		return fmt.Errorf("invalid WebSocket URL: %w", err)
	}

	// Ensure we're using the WebSocket scheme
	if parsedURL.Scheme == "http" {
		parsedURL.Scheme = "ws"
	} else if parsedURL.Scheme == "https" {
		parsedURL.Scheme = "wss"
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 30 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, parsedURL.String(), nil)
	if err != nil {
		return fmt.Errorf("WebSocket connection failed: %w", err)
	}

	// Subscribe to the server-log topic before reading
	frame, _ := sjson.SetBytes([]byte(`{"type":"subscribe"}`), "topic", "server-log")
	frame, _ = sjson.SetBytes(frame, "session_id", c.sessionID)
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		conn.Close()
		return fmt.Errorf("failed to subscribe to server-log: %w", err)
	}

	c.conn = conn
	c.connected = true

	go c.readLoop()
	go c.pingLoop()

	return nil
}

// Events returns the channel on which server-log events are delivered.
// The channel is closed when the connection ends.
func (c *LogStreamClient) Events() <-chan LogEvent {
	return c.events
}

// Errors returns the channel on which connection errors are delivered.
func (c *LogStreamClient) Errors() <-chan error {
	return c.errors
}

// readLoop reads frames from the connection, parses server-log events, and
// delivers them on the events channel. Events arriving after Close are
// dropped, never delivered to freed state.
func (c *LogStreamClient) readLoop() {
	defer close(c.events)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				// Expected close, swallow the read error
			case c.errors <- err:
			default:
			}
			return
		}

		event := parseLogEvent(data)
		if event == nil {
			continue
		}

		select {
		case c.events <- *event:
		case <-c.done:
			return
		}
	}
}

// parseLogEvent extracts a LogEvent from a raw frame. Frames that are not
// server-log events (pongs, subscription acks, heartbeats) return nil.
// gjson keeps this tolerant of extra fields craftd may add.
func parseLogEvent(data []byte) *LogEvent {
	if topic := gjson.GetBytes(data, "topic"); topic.Exists() && topic.String() != "server-log" {
		return nil
	}

	instanceID := gjson.GetBytes(data, "payload.instance_id")
	if !instanceID.Exists() {
		// Some craftd builds flatten the payload
		instanceID = gjson.GetBytes(data, "instance_id")
	}
	if !instanceID.Exists() || instanceID.String() == "" {
		return nil
	}

	line := gjson.GetBytes(data, "payload.line")
	if !line.Exists() {
		line = gjson.GetBytes(data, "line")
	}
	if !line.Exists() {
		return nil
	}

	return &LogEvent{
		InstanceID: instanceID.String(),
		Line:       line.String(),
	}
}

// pingLoop sends periodic pings to keep the connection alive.
func (c *LogStreamClient) pingLoop() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.conn != nil {
				_ = c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
			c.mu.Unlock()
		}
	}
}

// Close releases the subscription and the underlying connection. Safe to
// call more than once.
//
// Returns:
//   - error: Any error from closing the connection
func (c *LogStreamClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false

	close(c.done)

	if c.conn != nil {
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
