// Package mcp provides the MCP (Model Context Protocol) server implementation.
//
// This package implements an MCP server that exposes craftctl functionality
// as tools that can be called by AI agents via the MCP protocol.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/blockhaven/craftctl/internal/api"
	"github.com/blockhaven/craftctl/internal/config"
	"github.com/blockhaven/craftctl/internal/status"
)

// restartPollInterval is how often the restart tool re-checks the status
// while waiting for the stop half to complete.
const restartPollInterval = 2 * time.Second

// Server wraps the MCP server with craftctl-specific functionality.
type Server struct {
	mcpServer *mcp.Server
	client    *api.Client
	aliases   *config.AliasTable
	version   string
}

// NewServer creates a new craftctl MCP server.
//
// Parameters:
//   - client: The supervisor API client
//   - aliases: The command alias table for transition detection
//   - version: The CLI version string
//
// Returns:
//   - *Server: A new server instance
func NewServer(client *api.Client, aliases *config.AliasTable, version string) *Server {
	s := &Server{
		client:  client,
		aliases: aliases,
		version: version,
	}

	s.mcpServer = mcp.NewServer(
		&mcp.Implementation{
			Name:    "craftctl",
			Version: version,
		},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server over stdio.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: Any error that occurred during execution
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// registerTools registers all craftctl tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_instances",
		Description: "List all server instances with their identity, address, and last known status.",
	}, s.handleListInstances)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_instance_status",
		Description: "Get the authoritative live status of a server instance (stopped, starting, running, stopping, crashed), plus CPU and memory usage when it is running.",
	}, s.handleGetInstanceStatus)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_instance",
		Description: "Start a server instance. Returns immediately; the start completes asynchronously.",
	}, s.handleStartInstance)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "stop_instance",
		Description: "Stop a server instance. Returns immediately; the stop completes asynchronously.",
	}, s.handleStopInstance)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "restart_instance",
		Description: "Restart a server instance: stops it, waits for the stop to complete, then starts it again.",
	}, s.handleRestartInstance)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "send_command",
		Description: "Send a console command to a running server instance (e.g. 'say hello', 'whitelist add steve'). Reports whether the command triggers a lifecycle transition.",
	}, s.handleSendCommand)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_logs",
		Description: "Capture live console output from the server log stream for a few seconds and return the lines for one instance.",
	}, s.handleGetLogs)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_instance",
		Description: "Create a new server instance with a name, game version, and optional loader and port.",
	}, s.handleCreateInstance)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_instance",
		Description: "Permanently delete a server instance and its files. The instance must be stopped first.",
	}, s.handleDeleteInstance)
}

// ListInstancesInput defines the input parameters for the list_instances tool.
type ListInstancesInput struct{}

// InstanceInfo describes one instance in list_instances output.
type InstanceInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Loader  string `json:"loader,omitempty"`
	Address string `json:"address"`
	Status  string `json:"status"`
}

// ListInstancesOutput defines the output for the list_instances tool.
type ListInstancesOutput struct {
	Instances    []InstanceInfo `json:"instances"`
	Total        int            `json:"total"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// handleListInstances handles the list_instances tool call.
func (s *Server) handleListInstances(ctx context.Context, req *mcp.CallToolRequest, input ListInstancesInput) (*mcp.CallToolResult, ListInstancesOutput, error) {
	instances, err := s.client.ListInstances(ctx)
	if err != nil {
		return nil, ListInstancesOutput{
			Instances:    []InstanceInfo{},
			ErrorMessage: fmt.Sprintf("failed to list instances: %v", err),
		}, nil
	}

	out := make([]InstanceInfo, len(instances))
	for i, inst := range instances {
		out[i] = InstanceInfo{
			ID:      inst.ID,
			Name:    inst.Name,
			Version: inst.Version,
			Loader:  inst.Loader,
			Address: inst.Address(),
			Status:  inst.Status,
		}
	}

	return nil, ListInstancesOutput{Instances: out, Total: len(out)}, nil
}

// GetInstanceStatusInput defines the input parameters for the get_instance_status tool.
type GetInstanceStatusInput struct {
	InstanceID string `json:"instance_id" jsonschema:"The instance ID"`
}

// GetInstanceStatusOutput defines the output for the get_instance_status tool.
type GetInstanceStatusOutput struct {
	Status       string  `json:"status"`
	CPUPercent   float64 `json:"cpu_percent,omitempty"`
	MemoryBytes  uint64  `json:"memory_bytes,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// handleGetInstanceStatus handles the get_instance_status tool call.
func (s *Server) handleGetInstanceStatus(ctx context.Context, req *mcp.CallToolRequest, input GetInstanceStatusInput) (*mcp.CallToolResult, GetInstanceStatusOutput, error) {
	if input.InstanceID == "" {
		return nil, GetInstanceStatusOutput{
			Status:       "error",
			ErrorMessage: "instance_id is required",
		}, nil
	}

	raw, err := s.client.GetServerStatus(ctx, input.InstanceID)
	if err != nil {
		return nil, GetInstanceStatusOutput{
			Status:       "error",
			ErrorMessage: fmt.Sprintf("failed to get status: %v", err),
		}, nil
	}

	out := GetInstanceStatusOutput{Status: raw}
	if st, ok := status.Parse(raw); ok && st == status.StatusRunning {
		// Usage is only meaningful for a running server.
		if usage, err := s.client.GetServerUsage(ctx, input.InstanceID); err == nil && usage != nil {
			out.CPUPercent = usage.CPUUsage
			out.MemoryBytes = usage.MemoryUsage
		}
	}
	return nil, out, nil
}

// LifecycleInput defines the input for start_instance, stop_instance, and
// restart_instance.
type LifecycleInput struct {
	InstanceID string `json:"instance_id" jsonschema:"The instance ID"`
}

// LifecycleOutput defines the output for the lifecycle tools.
type LifecycleOutput struct {
	Success      bool   `json:"success"`
	InstanceID   string `json:"instance_id,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// handleStartInstance handles the start_instance tool call.
func (s *Server) handleStartInstance(ctx context.Context, req *mcp.CallToolRequest, input LifecycleInput) (*mcp.CallToolResult, LifecycleOutput, error) {
	if input.InstanceID == "" {
		return nil, LifecycleOutput{Success: false, ErrorMessage: "instance_id is required"}, nil
	}
	if err := s.client.StartServer(ctx, input.InstanceID); err != nil {
		return nil, LifecycleOutput{Success: false, ErrorMessage: err.Error()}, nil
	}
	return nil, LifecycleOutput{Success: true, InstanceID: input.InstanceID}, nil
}

// handleStopInstance handles the stop_instance tool call.
func (s *Server) handleStopInstance(ctx context.Context, req *mcp.CallToolRequest, input LifecycleInput) (*mcp.CallToolResult, LifecycleOutput, error) {
	if input.InstanceID == "" {
		return nil, LifecycleOutput{Success: false, ErrorMessage: "instance_id is required"}, nil
	}
	if err := s.client.StopServer(ctx, input.InstanceID); err != nil {
		return nil, LifecycleOutput{Success: false, ErrorMessage: err.Error()}, nil
	}
	return nil, LifecycleOutput{Success: true, InstanceID: input.InstanceID}, nil
}

// RestartInput defines the input for the restart_instance tool.
type RestartInput struct {
	InstanceID     string `json:"instance_id" jsonschema:"The instance ID"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"How long to wait for the stop half before giving up (default 60, max 300)"`
}

// handleRestartInstance handles the restart_instance tool call. The
// supervisor has no single restart call, so this stops the instance,
// polls until it reaches stopped, then starts it again.
func (s *Server) handleRestartInstance(ctx context.Context, req *mcp.CallToolRequest, input RestartInput) (*mcp.CallToolResult, LifecycleOutput, error) {
	if input.InstanceID == "" {
		return nil, LifecycleOutput{Success: false, ErrorMessage: "instance_id is required"}, nil
	}

	timeout := time.Duration(input.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if timeout > 300*time.Second {
		return nil, LifecycleOutput{Success: false, ErrorMessage: "timeout_seconds must be at most 300"}, nil
	}

	if err := s.client.StopServer(ctx, input.InstanceID); err != nil {
		return nil, LifecycleOutput{Success: false, ErrorMessage: fmt.Sprintf("stop failed: %v", err)}, nil
	}

	deadline := time.Now().Add(timeout)
	for {
		raw, err := s.client.GetServerStatus(ctx, input.InstanceID)
		if err == nil {
			if st, ok := status.Parse(raw); ok && st == status.StatusStopped {
				break
			}
		}
		if time.Now().After(deadline) {
			return nil, LifecycleOutput{
				Success:      false,
				ErrorMessage: fmt.Sprintf("instance did not stop within %s", timeout),
			}, nil
		}
		select {
		case <-ctx.Done():
			return nil, LifecycleOutput{Success: false, ErrorMessage: ctx.Err().Error()}, nil
		case <-time.After(restartPollInterval):
		}
	}

	if err := s.client.StartServer(ctx, input.InstanceID); err != nil {
		return nil, LifecycleOutput{Success: false, ErrorMessage: fmt.Sprintf("start failed: %v", err)}, nil
	}
	return nil, LifecycleOutput{Success: true, InstanceID: input.InstanceID}, nil
}

// SendCommandInput defines the input for the send_command tool.
type SendCommandInput struct {
	InstanceID string `json:"instance_id" jsonschema:"The instance ID"`
	Command    string `json:"command" jsonschema:"The console command to execute, without a leading slash"`
}

// SendCommandOutput defines the output for the send_command tool.
type SendCommandOutput struct {
	Success bool `json:"success"`

	// ImpliedTransition reports the lifecycle transition the command
	// triggers, if any ("stopping", "restarting").
	ImpliedTransition string `json:"implied_transition,omitempty"`
	ErrorMessage      string `json:"error_message,omitempty"`
}

// handleSendCommand handles the send_command tool call.
func (s *Server) handleSendCommand(ctx context.Context, req *mcp.CallToolRequest, input SendCommandInput) (*mcp.CallToolResult, SendCommandOutput, error) {
	if input.InstanceID == "" {
		return nil, SendCommandOutput{Success: false, ErrorMessage: "instance_id is required"}, nil
	}
	if input.Command == "" {
		return nil, SendCommandOutput{Success: false, ErrorMessage: "command is required"}, nil
	}

	// Resolve the loader so proxy-only aliases match correctly.
	loader := ""
	if instances, err := s.client.ListInstances(ctx); err == nil {
		for _, inst := range instances {
			if inst.ID == input.InstanceID {
				loader = inst.Loader
				break
			}
		}
	}

	if err := s.client.SendCommand(ctx, input.InstanceID, input.Command); err != nil {
		return nil, SendCommandOutput{Success: false, ErrorMessage: err.Error()}, nil
	}

	out := SendCommandOutput{Success: true}
	if intent := s.aliases.Lookup(loader, input.Command); intent != status.IntentNone {
		out.ImpliedTransition = string(intent)
	}
	return nil, out, nil
}

// GetLogsInput defines the input for the get_logs tool.
type GetLogsInput struct {
	InstanceID      string `json:"instance_id" jsonschema:"The instance ID"`
	DurationSeconds int    `json:"duration_seconds,omitempty" jsonschema:"How long to capture the live stream (default 3, max 30)"`
}

// GetLogsOutput defines the output for the get_logs tool.
type GetLogsOutput struct {
	Lines        []string `json:"lines"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

// handleGetLogs handles the get_logs tool call by subscribing to the
// supervisor's push log stream for a bounded window.
func (s *Server) handleGetLogs(ctx context.Context, req *mcp.CallToolRequest, input GetLogsInput) (*mcp.CallToolResult, GetLogsOutput, error) {
	if input.InstanceID == "" {
		return nil, GetLogsOutput{Lines: []string{}, ErrorMessage: "instance_id is required"}, nil
	}

	duration := time.Duration(input.DurationSeconds) * time.Second
	if duration <= 0 {
		duration = 3 * time.Second
	}
	if duration > 30*time.Second {
		return nil, GetLogsOutput{Lines: []string{}, ErrorMessage: "duration_seconds must be at most 30"}, nil
	}

	stream := api.NewLogStreamClient()
	if err := stream.Connect(ctx, s.client.LogStreamURL()); err != nil {
		return nil, GetLogsOutput{Lines: []string{}, ErrorMessage: fmt.Sprintf("log stream: %v", err)}, nil
	}
	defer stream.Close()

	var lines []string
	timer := time.NewTimer(duration)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, GetLogsOutput{Lines: lines, ErrorMessage: ctx.Err().Error()}, nil
		case <-timer.C:
			return nil, GetLogsOutput{Lines: lines}, nil
		case err := <-stream.Errors():
			return nil, GetLogsOutput{Lines: lines, ErrorMessage: fmt.Sprintf("log stream: %v", err)}, nil
		case ev, ok := <-stream.Events():
			if !ok {
				return nil, GetLogsOutput{Lines: lines}, nil
			}
			if ev.InstanceID == input.InstanceID {
				lines = append(lines, ev.Line)
			}
		}
	}
}

// CreateInstanceInput defines the input for the create_instance tool.
type CreateInstanceInput struct {
	Name    string `json:"name" jsonschema:"The instance name"`
	Version string `json:"version" jsonschema:"The game version, e.g. 1.21.1"`
	Loader  string `json:"loader,omitempty" jsonschema:"Server loader: vanilla, paper, fabric, forge, velocity, bungeecord, waterfall"`
	Port    int    `json:"port,omitempty" jsonschema:"Listen port (default 25565)"`
}

// CreateInstanceOutput defines the output for the create_instance tool.
type CreateInstanceOutput struct {
	Success      bool   `json:"success"`
	InstanceID   string `json:"instance_id,omitempty"`
	Name         string `json:"name,omitempty"`
	Address      string `json:"address,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// handleCreateInstance handles the create_instance tool call.
func (s *Server) handleCreateInstance(ctx context.Context, req *mcp.CallToolRequest, input CreateInstanceInput) (*mcp.CallToolResult, CreateInstanceOutput, error) {
	if input.Name == "" {
		return nil, CreateInstanceOutput{Success: false, ErrorMessage: "name is required"}, nil
	}
	if input.Version == "" {
		return nil, CreateInstanceOutput{Success: false, ErrorMessage: "version is required"}, nil
	}

	inst, err := s.client.CreateInstance(ctx, &api.CreateInstanceRequest{
		Name:    input.Name,
		Version: input.Version,
		Loader:  input.Loader,
		Port:    input.Port,
	})
	if err != nil {
		return nil, CreateInstanceOutput{Success: false, ErrorMessage: err.Error()}, nil
	}

	return nil, CreateInstanceOutput{
		Success:    true,
		InstanceID: inst.ID,
		Name:       inst.Name,
		Address:    inst.Address(),
	}, nil
}

// DeleteInstanceInput defines the input for the delete_instance tool.
type DeleteInstanceInput struct {
	InstanceID string `json:"instance_id" jsonschema:"The instance ID"`
}

// DeleteInstanceOutput defines the output for the delete_instance tool.
type DeleteInstanceOutput struct {
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// handleDeleteInstance handles the delete_instance tool call.
func (s *Server) handleDeleteInstance(ctx context.Context, req *mcp.CallToolRequest, input DeleteInstanceInput) (*mcp.CallToolResult, DeleteInstanceOutput, error) {
	if input.InstanceID == "" {
		return nil, DeleteInstanceOutput{Success: false, ErrorMessage: "instance_id is required"}, nil
	}

	// Refuse to delete a running instance.
	if raw, err := s.client.GetServerStatus(ctx, input.InstanceID); err == nil {
		if st, ok := status.Parse(raw); ok && status.IsActive(st) {
			return nil, DeleteInstanceOutput{
				Success:      false,
				ErrorMessage: fmt.Sprintf("instance is %s; stop it before deleting", raw),
			}, nil
		}
	}

	if err := s.client.DeleteInstance(ctx, input.InstanceID); err != nil {
		return nil, DeleteInstanceOutput{Success: false, ErrorMessage: err.Error()}, nil
	}
	return nil, DeleteInstanceOutput{Success: true}, nil
}
