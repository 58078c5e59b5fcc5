package client

import (
	"context"
	"fmt"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/optimistic"
)

// PrefsView is the caller's notification preference matrix, coordinated so a
// toggle is visible immediately and settled against the server afterwards.
type PrefsView struct {
	client *Client
	coord  *optimistic.Coordinator[domain.PrefsMatrix]
}

// PrefsView creates a view over the token holder's preference matrix. Call
// Load before reading or toggling.
func (c *Client) PrefsView() (*PrefsView, error) {
	store := optimistic.NewStore(domain.DefaultPrefsMatrix())
	coord, err := optimistic.NewCoordinator(store, c.executor, c.cache, c.notifier)
	if err != nil {
		return nil, fmt.Errorf("build prefs coordinator: %w", err)
	}
	return &PrefsView{client: c, coord: coord}, nil
}

// Load fetches the matrix and replaces the view's state with it.
func (v *PrefsView) Load(ctx context.Context) error {
	matrix, err := fetchCached(ctx, v.client.cache, keyPrefs, func(ctx context.Context) (domain.PrefsMatrix, error) {
		var m domain.PrefsMatrix
		if err := v.client.get(ctx, "/api/v1/settings/notifications", &m); err != nil {
			return nil, err
		}
		return m, nil
	})
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	v.coord.Store().Set(func(domain.PrefsMatrix) domain.PrefsMatrix { return matrix.Clone() })
	return nil
}

// Matrix returns the current matrix, optimistic values included.
func (v *PrefsView) Matrix() domain.PrefsMatrix {
	return v.coord.Store().Get().Clone()
}

type togglePayload struct {
	Category domain.Category `json:"category"`
	Channel  domain.Channel  `json:"channel"`
	Enabled  bool            `json:"enabled"`
}

// Toggle flips one category/channel cell. The new value is readable from
// Matrix before Toggle returns; the channel settles with the server outcome.
func (v *PrefsView) Toggle(ctx context.Context, category domain.Category, channel domain.Channel, enabled bool) (<-chan optimistic.Settlement, error) {
	return v.coord.Issue(ctx, optimistic.Request[domain.PrefsMatrix]{
		Field:   optimistic.Field(fmt.Sprintf("pref/%s/%s", category, channel)),
		Kind:    kindTogglePref,
		Payload: togglePayload{Category: category, Channel: channel, Enabled: enabled},
		Validate: func(domain.PrefsMatrix) error {
			if !category.Valid() {
				return fmt.Errorf("unknown notification category %q", category)
			}
			if !channel.Valid() {
				return fmt.Errorf("unknown notification channel %q", channel)
			}
			return nil
		},
		Apply: func(prev domain.PrefsMatrix) domain.PrefsMatrix {
			next := prev.Clone()
			if next[category] == nil {
				next[category] = make(map[domain.Channel]bool, len(domain.Channels()))
			}
			next[category][channel] = enabled
			return next
		},
		Revert: func(snapshot, current domain.PrefsMatrix) domain.PrefsMatrix {
			next := current.Clone()
			if next[category] == nil {
				next[category] = make(map[domain.Channel]bool, len(domain.Channels()))
			}
			next[category][channel] = snapshot[category][channel]
			return next
		},
		Keys:           []optimistic.Key{keyPrefs},
		SuccessMessage: "Notification preference saved",
	})
}
