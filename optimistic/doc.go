// Package optimistic coordinates optimistic mutations against a remote API.
//
// A view holds its working copy of an entity in a Store. User actions are
// issued as Commands through a Coordinator: the change is applied to the
// Store before the server confirms it, exactly one HTTP request is sent, and
// the command settles as either committed (the server's authoritative entity
// replaces the local value and dependent query keys are invalidated) or
// rolled back (the field's pre-command value is restored and the failure is
// reported once). Failed commands are never retried automatically; recovery
// is re-issuing the action.
//
// Snapshots are tracked per field. When commands race on the same field the
// newest issued command owns it: a rollback is applied only if the failing
// command is still the most recent one issued for its field, so a slow
// failure cannot clobber a newer optimistic value.
package optimistic
