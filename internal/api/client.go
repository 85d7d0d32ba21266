// Package api provides the HTTP and WebSocket clients for the craftd
// supervisor daemon.
//
// This package handles all communication with craftd: the instance
// directory, per-instance status and resource-usage queries, lifecycle
// actions, console commands, and the push-based server log stream.
// craftctl never touches server processes itself; everything goes through
// these remote calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the default craftd API base URL.
	DefaultBaseURL = "http://127.0.0.1:5700"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second
)

// Client is the craftd API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client.
//
// Parameters:
//   - baseURL: The craftd base URL (empty selects DefaultBaseURL)
//   - token: The bearer token for authentication (may be empty for local daemons)
//
// Returns:
//   - *Client: A new client instance
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// BaseURL returns the base URL used by this client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LogStreamURL returns the WebSocket URL of craftd's server-log event
// channel, derived from the client's base URL.
//
// Returns:
//   - string: The ws:// or wss:// URL for the log stream endpoint
func (c *Client) LogStreamURL() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/api/v1/events/logs"
	return u.String()
}

// APIError represents an error response from craftd.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

// Error returns a human-readable error message.
//
// Returns:
//   - string: The error message, with fallback to HTTP status if no message available
func (e *APIError) Error() string {
	if e.Message != "" && e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound reports whether err is an APIError for a missing resource,
// typically an instance that was deleted between poll ticks.
//
// Parameters:
//   - err: The error to inspect
//
// Returns:
//   - bool: True if err is a 404 APIError
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// doRequest performs an HTTP request with authentication.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "craftctl/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// parseResponse parses the response body into the target struct.
func parseResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)

		// Try to parse structured error response
		var errResp struct {
			Error   string `json:"error"`
			Detail  string `json:"detail"`
			Message string `json:"message"`
		}
		json.Unmarshal(body, &errResp)

		message := errResp.Error
		if message == "" {
			message = errResp.Message
		}
		detail := errResp.Detail

		// Fallback to raw body if no structured error found
		if message == "" && detail == "" {
			bodyStr := string(body)
			if len(bodyStr) > 200 {
				bodyStr = bodyStr[:200] + "..."
			}
			if bodyStr != "" {
				detail = bodyStr
			}
		}

		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Detail:     detail,
		}
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// Instance represents a server instance record from the craftd directory.
// The engine only ever reads these fields and locally refreshes Status;
// everything else is owned by craftd.
type Instance struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Path        string `json:"path"`
	CreatedAt   string `json:"created_at"`
	LastRun     string `json:"last_run,omitempty"`
	Loader      string `json:"loader,omitempty"`
	Provider    string `json:"provider,omitempty"`
	IP          string `json:"ip,omitempty"`
	Port        int    `json:"port,omitempty"`
	Description string `json:"description,omitempty"`
	Capacity    int    `json:"capacity,omitempty"`

	// Status is a cache of the last poll result, not authoritative in
	// isolation. The directory may report a stale value here; the Status
	// Poller refreshes it.
	Status string `json:"status,omitempty"`
}

// Address returns the instance's network address as host:port, or "" when
// the record carries neither.
func (i *Instance) Address() string {
	if i.IP == "" && i.Port == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", i.IP, i.Port)
}

// Usage represents one resource usage reading for a running instance.
type Usage struct {
	// CPUUsage is the CPU load as a percentage of one core.
	CPUUsage float64 `json:"cpu_usage"`

	// MemoryUsage is the resident memory in bytes.
	MemoryUsage uint64 `json:"memory_usage"`
}

// ListInstances fetches the full instance directory.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - []Instance: The ordered list of known instances
//   - error: Any error that occurred
func (c *Client) ListInstances(ctx context.Context) ([]Instance, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/instances", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Instances []Instance `json:"instances"`
	}
	if err := parseResponse(resp, &result); err != nil {
		return nil, err
	}

	return result.Instances, nil
}

// GetServerStatus queries the authoritative status of one instance.
//
// Parameters:
//   - ctx: Context for cancellation
//   - instanceID: The instance to query
//
// Returns:
//   - string: The raw status string (stopped, starting, running, stopping, crashed)
//   - error: Any error that occurred
func (c *Client) GetServerStatus(ctx context.Context, instanceID string) (string, error) {
	resp, err := c.doRequest(ctx, "GET",
		fmt.Sprintf("/api/v1/instances/%s/status", url.PathEscape(instanceID)), nil)
	if err != nil {
		return "", err
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := parseResponse(resp, &result); err != nil {
		return "", err
	}

	return result.Status, nil
}

// GetServerUsage queries the current resource usage of one instance.
// Only meaningful while the instance is running.
//
// Parameters:
//   - ctx: Context for cancellation
//   - instanceID: The instance to query
//
// Returns:
//   - *Usage: The usage reading
//   - error: Any error that occurred
func (c *Client) GetServerUsage(ctx context.Context, instanceID string) (*Usage, error) {
	resp, err := c.doRequest(ctx, "GET",
		fmt.Sprintf("/api/v1/instances/%s/usage", url.PathEscape(instanceID)), nil)
	if err != nil {
		return nil, err
	}

	var result Usage
	if err := parseResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// StartServer asks craftd to start an instance.
//
// Parameters:
//   - ctx: Context for cancellation
//   - instanceID: The instance to start
//
// Returns:
//   - error: Any error that occurred (a rejected start returns an APIError)
func (c *Client) StartServer(ctx context.Context, instanceID string) error {
	resp, err := c.doRequest(ctx, "POST",
		fmt.Sprintf("/api/v1/instances/%s/start", url.PathEscape(instanceID)), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// StopServer asks craftd to stop an instance.
//
// Parameters:
//   - ctx: Context for cancellation
//   - instanceID: The instance to stop
//
// Returns:
//   - error: Any error that occurred (a rejected stop returns an APIError)
func (c *Client) StopServer(ctx context.Context, instanceID string) error {
	resp, err := c.doRequest(ctx, "POST",
		fmt.Sprintf("/api/v1/instances/%s/stop", url.PathEscape(instanceID)), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// SendCommand sends a console command to a running instance.
//
// Parameters:
//   - ctx: Context for cancellation
//   - instanceID: The target instance
//   - command: The console command text, without trailing newline
//
// Returns:
//   - error: Any error that occurred
func (c *Client) SendCommand(ctx context.Context, instanceID, command string) error {
	resp, err := c.doRequest(ctx, "POST",
		fmt.Sprintf("/api/v1/instances/%s/command", url.PathEscape(instanceID)),
		map[string]string{"command": command})
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// CreateInstanceRequest represents an instance creation request.
type CreateInstanceRequest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Loader  string `json:"loader,omitempty"`
	Port    int    `json:"port,omitempty"`
}

// CreateInstance asks craftd to create a new instance.
//
// Parameters:
//   - ctx: Context for cancellation
//   - req: The creation request
//
// Returns:
//   - *Instance: The created instance record
//   - error: Any error that occurred
func (c *Client) CreateInstance(ctx context.Context, req *CreateInstanceRequest) (*Instance, error) {
	resp, err := c.doRequest(ctx, "POST", "/api/v1/instances", req)
	if err != nil {
		return nil, err
	}

	var result Instance
	if err := parseResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// DeleteInstance asks craftd to delete an instance and its files.
//
// Parameters:
//   - ctx: Context for cancellation
//   - instanceID: The instance to delete
//
// Returns:
//   - error: Any error that occurred
func (c *Client) DeleteInstance(ctx context.Context, instanceID string) error {
	resp, err := c.doRequest(ctx, "DELETE",
		fmt.Sprintf("/api/v1/instances/%s", url.PathEscape(instanceID)), nil)
	if err != nil {
		return err
	}
	return parseResponse(resp, nil)
}

// Ping checks connectivity to craftd.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - string: The daemon version string reported by craftd
//   - error: Any error that occurred
func (c *Client) Ping(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, "GET", "/api/v1/ping", nil)
	if err != nil {
		return "", err
	}

	var result struct {
		Version string `json:"version"`
	}
	if err := parseResponse(resp, &result); err != nil {
		return "", err
	}

	return result.Version, nil
}
