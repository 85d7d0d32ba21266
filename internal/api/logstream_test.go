package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
)

func TestParseLogEvent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want *LogEvent
	}{
		{
			name: "enveloped event",
			data: `{"topic":"server-log","payload":{"instance_id":"gamma","line":"[INFO] Done"}}`,
			want: &LogEvent{InstanceID: "gamma", Line: "[INFO] Done"},
		},
		{
			name: "flattened event",
			data: `{"instance_id":"delta","line":"joined the game"}`,
			want: &LogEvent{InstanceID: "delta", Line: "joined the game"},
		},
		{
			name: "empty line is still an event",
			data: `{"topic":"server-log","payload":{"instance_id":"gamma","line":""}}`,
			want: &LogEvent{InstanceID: "gamma", Line: ""},
		},
		{
			name: "other topic ignored",
			data: `{"topic":"heartbeat","payload":{}}`,
			want: nil,
		},
		{
			name: "subscription ack ignored",
			data: `{"type":"subscribed","topic":"server-log"}`,
			want: nil,
		},
		{
			name: "missing instance id ignored",
			data: `{"topic":"server-log","payload":{"line":"orphan"}}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLogEvent([]byte(tt.data))
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("parseLogEvent = %+v, want %+v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("parseLogEvent = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestLogStreamClient connects to a fake craftd WebSocket endpoint, checks
// the subscribe frame, receives events, and verifies Close ends delivery.
func TestLogStreamClient(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// First frame must be the server-log subscription
		_, frame, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read subscribe: %v", err)
			return
		}
		if topic := gjson.GetBytes(frame, "topic").String(); topic != "server-log" {
			t.Errorf("subscribe topic = %q, want %q", topic, "server-log")
		}
		if gjson.GetBytes(frame, "session_id").String() == "" {
			t.Error("subscribe frame missing session_id")
		}

		conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"topic":"server-log","payload":{"instance_id":"alpha","line":"[INFO] Starting server"}}`))
		conn.WriteMessage(websocket.TextMessage,
			[]byte(`{"topic":"server-log","payload":{"instance_id":"beta","line":"[WARN] Can't keep up!"}}`))

		// Hold the connection open until the client closes it
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client := NewLogStreamClient()
	if err := client.Connect(context.Background(), wsURL); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	want := []LogEvent{
		{InstanceID: "alpha", Line: "[INFO] Starting server"},
		{InstanceID: "beta", Line: "[WARN] Can't keep up!"},
	}
	for i, w := range want {
		select {
		case got := <-client.Events():
			if got != w {
				t.Errorf("event %d = %+v, want %+v", i, got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	// Double close must be safe
	if err := client.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	// The events channel drains and closes after the connection ends
	select {
	case _, ok := <-client.Events():
		if ok {
			// A frame may have been in flight; the channel must still close
			select {
			case _, ok2 := <-client.Events():
				if ok2 {
					t.Error("events channel still open after Close")
				}
			case <-time.After(2 * time.Second):
				t.Error("events channel not closed after Close")
			}
		}
	case <-time.After(2 * time.Second):
		t.Error("events channel not closed after Close")
	}
}

func TestConnectTwice(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client := NewLogStreamClient()
	if err := client.Connect(context.Background(), wsURL); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	if err := client.Connect(context.Background(), wsURL); err == nil {
		t.Error("second Connect should fail while connected")
	}
}
