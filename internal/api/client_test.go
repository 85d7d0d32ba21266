package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListInstances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/instances" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer tok")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"instances": []Instance{
				{ID: "alpha", Name: "Alpha", Version: "1.21.4", Status: "stopped"},
				{ID: "beta", Name: "Beta", Version: "1.20.1", Loader: "velocity"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok")
	instances, err := client.ListInstances(context.Background())
	if err != nil {
		t.Fatalf("ListInstances: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("got %d instances, want 2", len(instances))
	}
	if instances[0].ID != "alpha" || instances[1].Loader != "velocity" {
		t.Errorf("unexpected instances: %+v", instances)
	}
}

func TestGetServerStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/instances/alpha/status" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "running"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	got, err := client.GetServerStatus(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("GetServerStatus: %v", err)
	}
	if got != "running" {
		t.Errorf("status = %q, want %q", got, "running")
	}
}

func TestGetServerUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Usage{CPUUsage: 42.5, MemoryUsage: 1 << 30})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	usage, err := client.GetServerUsage(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("GetServerUsage: %v", err)
	}
	if usage.CPUUsage != 42.5 || usage.MemoryUsage != 1<<30 {
		t.Errorf("unexpected usage: %+v", usage)
	}
}

func TestSendCommandBody(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %q, want POST", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	if err := client.SendCommand(context.Background(), "alpha", "say hello"); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}
	if body["command"] != "say hello" {
		t.Errorf("command body = %q, want %q", body["command"], "say hello")
	}
}

func TestAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantMsg    string
		notFound   bool
	}{
		{
			name:       "structured error",
			statusCode: http.StatusConflict,
			body:       `{"error":"instance is busy","detail":"a start is already in progress"}`,
			wantMsg:    "instance is busy: a start is already in progress",
		},
		{
			name:       "message field",
			statusCode: http.StatusBadRequest,
			body:       `{"message":"invalid loader"}`,
			wantMsg:    "invalid loader",
		},
		{
			name:       "missing instance",
			statusCode: http.StatusNotFound,
			body:       `{"error":"instance not found"}`,
			wantMsg:    "instance not found",
			notFound:   true,
		},
		{
			name:       "raw body fallback",
			statusCode: http.StatusInternalServerError,
			body:       `boom`,
			wantMsg:    "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")
			err := client.StartServer(context.Background(), "alpha")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("error type = %T, want *APIError", err)
			}
			if apiErr.StatusCode != tt.statusCode {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.statusCode)
			}
			if apiErr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", apiErr.Error(), tt.wantMsg)
			}
			if IsNotFound(err) != tt.notFound {
				t.Errorf("IsNotFound = %v, want %v", IsNotFound(err), tt.notFound)
			}
		})
	}
}

func TestLogStreamURL(t *testing.T) {
	tests := []struct {
		baseURL string
		want    string
	}{
		{"http://127.0.0.1:5700", "ws://127.0.0.1:5700/api/v1/events/logs"},
		{"https://craftd.example.com", "wss://craftd.example.com/api/v1/events/logs"},
	}

	for _, tt := range tests {
		t.Run(tt.baseURL, func(t *testing.T) {
			client := NewClient(tt.baseURL, "")
			if got := client.LogStreamURL(); got != tt.want {
				t.Errorf("LogStreamURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInstanceAddress(t *testing.T) {
	tests := []struct {
		name string
		inst Instance
		want string
	}{
		{"full address", Instance{IP: "10.0.0.5", Port: 25566}, "10.0.0.5:25566"},
		{"no address", Instance{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.Address(); got != tt.want {
				t.Errorf("Address() = %q, want %q", got, tt.want)
			}
		})
	}
}
