package optimistic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// networkFailureMessage is what users see when no server response arrived.
const networkFailureMessage = "Network error, please try again"

// Request describes one mutation to issue through a coordinator.
type Request[T any] struct {
	// Field names the slice of state this command owns while in flight.
	Field Field
	// Kind selects the executor route.
	Kind Kind
	// Payload is the command body sent to the server.
	Payload any
	// Validate, when set, runs against the pre-command value before the
	// command is created. A non-nil error blocks issuance entirely.
	Validate func(prev T) error
	// Apply produces the optimistic value shown until the server settles.
	Apply func(prev T) T
	// Revert restores this command's field on rollback. It receives the
	// snapshot taken before the optimistic apply and the state at rollback
	// time, and must change only the slice of state named by Field, so that
	// reverting never disturbs what other fields settled to in the meantime.
	// When nil the snapshot replaces the state wholesale, which is correct
	// only for stores whose commands all share one field.
	Revert func(snapshot, current T) T
	// Decode turns the server's authoritative body into the committed value.
	// When nil the body is unmarshaled as JSON into a zero T.
	Decode func(body []byte, prev T) (T, error)
	// Keys are invalidated after a successful commit, never on rollback.
	Keys []Key
	// SuccessMessage, when non-empty, is reported on commit.
	SuccessMessage string
}

// Settlement is the terminal outcome of one issued command.
type Settlement struct {
	Command   Command
	Committed bool
	Err       error
}

// Coordinator drives the optimistic lifecycle of commands against one store:
// snapshot, apply, settle, then commit or roll back.
type Coordinator[T any] struct {
	store    *Store[T]
	executor Doer
	cache    Invalidator
	notifier Notifier

	mu      sync.Mutex
	pending map[Field]pendingCommand[T]
}

// pendingCommand is the undo data retained for the newest in-flight command
// on one field.
type pendingCommand[T any] struct {
	commandID string
	snapshot  T
	revert    func(snapshot, current T) T
}

// NewCoordinator wires a coordinator to its store, executor, query cache and
// notification surface. Cache and notifier may be nil when a view has no
// dependent queries or no toast surface.
func NewCoordinator[T any](store *Store[T], executor Doer, cache Invalidator, notifier Notifier) (*Coordinator[T], error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if executor == nil {
		return nil, errors.New("executor is required")
	}
	return &Coordinator[T]{
		store:    store,
		executor: executor,
		cache:    cache,
		notifier: notifier,
		pending:  make(map[Field]pendingCommand[T]),
	}, nil
}

// Store returns the coordinated store.
func (c *Coordinator[T]) Store() *Store[T] {
	if c == nil {
		return nil
	}
	return c.store
}

// Issue validates, optimistically applies and dispatches one command.
//
// The optimistic value is observable from the store before Issue returns.
// The returned channel receives exactly one Settlement when the command
// commits or rolls back. A validation failure returns a *ValidationError
// and no command is created.
func (c *Coordinator[T]) Issue(ctx context.Context, req Request[T]) (<-chan Settlement, error) {
	if c == nil {
		return nil, errors.New("coordinator is not configured")
	}
	if req.Field == "" {
		return nil, errors.New("request field is required")
	}
	if req.Kind == "" {
		return nil, errors.New("request kind is required")
	}
	if req.Apply == nil {
		return nil, errors.New("request apply function is required")
	}

	prev := c.store.Get()
	if req.Validate != nil {
		if err := req.Validate(prev); err != nil {
			return nil, &ValidationError{Message: err.Error()}
		}
	}

	cmd := NewCommand(req.Kind, req.Payload)

	// The snapshot is the value immediately before this command's optimistic
	// apply. Registering it replaces any older pending command on the field:
	// from here on only this command may roll the field back.
	c.mu.Lock()
	c.pending[req.Field] = pendingCommand[T]{commandID: cmd.ID, snapshot: prev, revert: req.Revert}
	c.mu.Unlock()
	c.store.Set(req.Apply)

	settled := make(chan Settlement, 1)
	go c.settle(ctx, cmd, req, settled)
	return settled, nil
}

func (c *Coordinator[T]) settle(ctx context.Context, cmd Command, req Request[T], settled chan<- Settlement) {
	body, err := c.executor.Do(ctx, cmd)
	if err != nil {
		c.rollback(cmd, req.Field)
		c.reportFailure(err)
		settled <- Settlement{Command: cmd, Err: err}
		return
	}

	next, err := c.decode(body, req)
	if err != nil {
		c.rollback(cmd, req.Field)
		c.reportFailure(err)
		settled <- Settlement{Command: cmd, Err: err}
		return
	}

	// Server value replaces the optimistic value, even when identical.
	c.store.Set(func(T) T { return next })
	c.mu.Lock()
	if entry, ok := c.pending[req.Field]; ok && entry.commandID == cmd.ID {
		delete(c.pending, req.Field)
	}
	c.mu.Unlock()

	// Invalidation happens no earlier than commit and only on commit.
	if c.cache != nil && len(req.Keys) > 0 {
		c.cache.Invalidate(req.Keys...)
	}
	if c.notifier != nil && req.SuccessMessage != "" {
		c.notifier.ReportSuccess(req.SuccessMessage)
	}
	settled <- Settlement{Command: cmd, Committed: true}
}

func (c *Coordinator[T]) decode(body []byte, req Request[T]) (T, error) {
	prev := c.store.Get()
	if req.Decode != nil {
		next, err := req.Decode(body, prev)
		if err != nil {
			return prev, fmt.Errorf("decode server result: %w", err)
		}
		return next, nil
	}
	var next T
	if err := json.Unmarshal(body, &next); err != nil {
		return prev, fmt.Errorf("decode server result: %w", err)
	}
	return next, nil
}

// rollback restores the field's pre-command value, but only when the failing
// command is still the newest issued for the field. A newer pending command
// owns the field and its optimistic value must not be clobbered by an older
// failure. With a Revert the restore is scoped to the field, so outcomes
// other fields settled to while this command was in flight survive.
func (c *Coordinator[T]) rollback(cmd Command, field Field) {
	c.mu.Lock()
	entry, ok := c.pending[field]
	if !ok || entry.commandID != cmd.ID {
		c.mu.Unlock()
		return
	}
	delete(c.pending, field)
	c.mu.Unlock()

	if entry.revert != nil {
		c.store.Set(func(current T) T { return entry.revert(entry.snapshot, current) })
		return
	}
	c.store.Set(func(T) T { return entry.snapshot })
}

// reportFailure surfaces one command failure exactly once. Server failure
// bodies are shown verbatim; transport failures get a generic message.
func (c *Coordinator[T]) reportFailure(err error) {
	if c.notifier == nil {
		return
	}
	var remote *RemoteCommandError
	switch {
	case errors.As(err, &remote):
		c.notifier.ReportFailure(remote.Error())
	case errors.Is(err, ErrNetwork):
		c.notifier.ReportFailure(networkFailureMessage)
	default:
		c.notifier.ReportFailure(err.Error())
	}
}
