package optimistic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNetwork indicates a transport failure: no response was received.
var ErrNetwork = errors.New("network error")

// maxErrorBodyBytes bounds how much of a failure body is surfaced to users.
const maxErrorBodyBytes = 4 << 10

// RemoteCommandError is a definitive non-2xx server response to a command.
type RemoteCommandError struct {
	Status  int
	Message string
}

func (e *RemoteCommandError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("command failed with status %d", e.Status)
	}
	return e.Message
}

// ValidationError is a local precondition failure raised before a command is
// issued. It never reaches the executor.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Route describes how commands of one kind reach the backend.
type Route struct {
	Method string
	// Path builds the request path from the command payload. Required.
	Path func(payload any) string
}

// Doer turns one command into exactly one network request.
type Doer interface {
	Do(ctx context.Context, cmd Command) ([]byte, error)
}

// Executor translates commands into HTTP requests. It is stateless and
// reentrant: commands for different fields may be in flight simultaneously.
type Executor struct {
	baseURL string
	client  *http.Client
	routes  map[Kind]Route
	header  http.Header
}

// NewExecutor creates an executor for the given API base URL. A nil client
// falls back to http.DefaultClient. The route table maps command kinds to
// endpoints; issuing a command of an unregistered kind is an error.
func NewExecutor(baseURL string, client *http.Client, routes map[Kind]Route) *Executor {
	if client == nil {
		client = http.DefaultClient
	}
	return &Executor{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		routes:  routes,
		header:  http.Header{},
	}
}

// SetHeader sets a header sent with every command request, such as
// an Authorization bearer token.
func (e *Executor) SetHeader(key, value string) {
	if e == nil {
		return
	}
	e.header.Set(key, value)
}

// Do issues the single network request for cmd. On a 2xx response it returns
// the raw body: the full authoritative entity, never a partial patch. On a
// non-2xx response it returns a *RemoteCommandError carrying the body text.
// Transport failures wrap ErrNetwork. Do never retries.
func (e *Executor) Do(ctx context.Context, cmd Command) ([]byte, error) {
	if e == nil {
		return nil, errors.New("executor is not configured")
	}
	route, ok := e.routes[cmd.Kind]
	if !ok {
		return nil, fmt.Errorf("no route registered for command kind %q", cmd.Kind)
	}
	if route.Path == nil {
		return nil, fmt.Errorf("route for command kind %q has no path builder", cmd.Kind)
	}

	var body io.Reader
	if cmd.Payload != nil {
		encoded, err := json.Marshal(cmd.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshal command payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, route.Method, e.baseURL+route.Path(cmd.Payload), body)
	if err != nil {
		return nil, fmt.Errorf("build command request: %w", err)
	}
	for key, values := range e.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &RemoteCommandError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(raw)),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrNetwork, err)
	}
	return raw, nil
}
