package optimistic

import (
	"time"

	"github.com/google/uuid"
)

// Kind tags which field or entity a command mutates. The executor's route
// table maps each kind to an endpoint and method.
type Kind string

// Field identifies the slice of local state a command owns while in flight.
// Commands on distinct fields are fully independent; commands on the same
// field contend for its pending snapshot.
type Field string

// Command is one user-intended mutation of a single field or entity.
// It is immutable once created.
type Command struct {
	ID       string
	Kind     Kind
	Payload  any
	IssuedAt time.Time
}

// NewCommand creates a command carrying the payload for one mutation.
func NewCommand(kind Kind, payload any) Command {
	return Command{
		ID:       uuid.NewString(),
		Kind:     kind,
		Payload:  payload,
		IssuedAt: time.Now().UTC(),
	}
}
