package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/config"
)

func newTestServer(t *testing.T, handler http.Handler) (*Server, *httptest.Server) {
	t.Helper()
	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)
	client := api.NewClient(backend.URL, "test-token")
	return NewServer(client, config.NewAliasTable(nil), "test"), backend
}

func TestLifecycleRequiresInstanceID(t *testing.T) {
	s, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the backend for invalid input")
	}))
	ctx := context.Background()

	_, out, err := s.handleStartInstance(ctx, nil, LifecycleInput{})
	if err != nil || out.Success || out.ErrorMessage == "" {
		t.Errorf("start with empty id: out=%+v err=%v", out, err)
	}

	_, out, err = s.handleStopInstance(ctx, nil, LifecycleInput{})
	if err != nil || out.Success {
		t.Errorf("stop with empty id: out=%+v err=%v", out, err)
	}

	_, rout, err := s.handleRestartInstance(ctx, nil, RestartInput{})
	if err != nil || rout.Success {
		t.Errorf("restart with empty id: out=%+v err=%v", rout, err)
	}

	_, sout, err := s.handleSendCommand(ctx, nil, SendCommandInput{InstanceID: "a", Command: ""})
	if err != nil || sout.Success {
		t.Errorf("send with empty command: out=%+v err=%v", sout, err)
	}
}

func TestListInstancesTool(t *testing.T) {
	s, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/instances" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"instances":[
			{"id":"a1","name":"smp","version":"1.21.1","loader":"paper","ip":"10.0.0.2","port":25565,"status":"running"},
			{"id":"b2","name":"lobby","version":"3.3.0","loader":"velocity","status":"stopped"}
		]}`)
	}))

	_, out, err := s.handleListInstances(context.Background(), nil, ListInstancesInput{})
	if err != nil {
		t.Fatalf("handleListInstances returned err: %v", err)
	}
	if out.Total != 2 || len(out.Instances) != 2 {
		t.Fatalf("Total = %d, want 2", out.Total)
	}
	if out.Instances[0].Address != "10.0.0.2:25565" {
		t.Errorf("Address = %q", out.Instances[0].Address)
	}
	if out.Instances[1].Status != "stopped" {
		t.Errorf("Status = %q", out.Instances[1].Status)
	}
}

func TestGetInstanceStatusToolIncludesUsageWhenRunning(t *testing.T) {
	s, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/instances/a1/status":
			fmt.Fprint(w, `{"status":"running"}`)
		case "/api/v1/instances/a1/usage":
			fmt.Fprint(w, `{"cpu_usage":12.5,"memory_usage":2048}`)
		default:
			http.NotFound(w, r)
		}
	}))

	_, out, err := s.handleGetInstanceStatus(context.Background(), nil, GetInstanceStatusInput{InstanceID: "a1"})
	if err != nil {
		t.Fatalf("handler returned err: %v", err)
	}
	if out.Status != "running" || out.CPUPercent != 12.5 || out.MemoryBytes != 2048 {
		t.Errorf("out = %+v", out)
	}
}

func TestSendCommandToolReportsTransition(t *testing.T) {
	s, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/instances":
			fmt.Fprint(w, `{"instances":[{"id":"p1","name":"lobby","loader":"velocity"}]}`)
		case "/api/v1/instances/p1/command":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["command"] != "end" {
				t.Errorf("command forwarded as %q", body["command"])
			}
			fmt.Fprint(w, `{}`)
		default:
			http.NotFound(w, r)
		}
	}))

	_, out, err := s.handleSendCommand(context.Background(), nil, SendCommandInput{InstanceID: "p1", Command: "end"})
	if err != nil {
		t.Fatalf("handler returned err: %v", err)
	}
	if !out.Success {
		t.Fatalf("out = %+v", out)
	}
	if out.ImpliedTransition != "stopping" {
		t.Errorf("ImpliedTransition = %q, want stopping (end is a stop on proxies)", out.ImpliedTransition)
	}
}

func TestDeleteInstanceToolRefusesActive(t *testing.T) {
	deleted := false
	s, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/v1/instances/a1/status":
			fmt.Fprint(w, `{"status":"running"}`)
		case r.Method == http.MethodDelete:
			deleted = true
			fmt.Fprint(w, `{}`)
		default:
			http.NotFound(w, r)
		}
	}))

	_, out, err := s.handleDeleteInstance(context.Background(), nil, DeleteInstanceInput{InstanceID: "a1"})
	if err != nil {
		t.Fatalf("handler returned err: %v", err)
	}
	if out.Success {
		t.Error("delete of a running instance must be refused")
	}
	if deleted {
		t.Error("DELETE request must not be issued for a running instance")
	}
}

func TestCreateInstanceToolValidation(t *testing.T) {
	s, _ := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the backend for invalid input")
	}))
	ctx := context.Background()

	_, out, _ := s.handleCreateInstance(ctx, nil, CreateInstanceInput{Version: "1.21.1"})
	if out.Success || out.ErrorMessage == "" {
		t.Errorf("missing name: %+v", out)
	}
	_, out, _ = s.handleCreateInstance(ctx, nil, CreateInstanceInput{Name: "smp"})
	if out.Success || out.ErrorMessage == "" {
		t.Errorf("missing version: %+v", out)
	}
}
