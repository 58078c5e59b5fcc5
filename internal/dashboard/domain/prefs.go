package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrPrefInvalidCategory indicates an unknown matrix row.
	ErrPrefInvalidCategory = errors.New("notification category is invalid")
	// ErrPrefInvalidChannel indicates an unknown matrix column.
	ErrPrefInvalidChannel = errors.New("notification channel is invalid")
)

// PrefsService owns the notification preference matrix of each member.
type PrefsService struct {
	store PrefsStore
}

// NewPrefsService constructs preference use-cases.
func NewPrefsService(store PrefsStore) *PrefsService {
	return &PrefsService{store: store}
}

// GetMatrix returns the member's full preference matrix, with defaults for
// cells never toggled.
func (s *PrefsService) GetMatrix(ctx context.Context, orgID, memberID string) (PrefsMatrix, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("prefs store is not configured")
	}
	stored, err := s.store.ListPrefs(ctx, orgID, memberID)
	if err != nil {
		return nil, fmt.Errorf("list prefs: %w", err)
	}

	matrix := DefaultPrefsMatrix()
	for category, channels := range stored {
		for channel, enabled := range channels {
			if row, ok := matrix[category]; ok {
				if _, ok := row[channel]; ok {
					row[channel] = enabled
				}
			}
		}
	}
	return matrix, nil
}

// ToggleInput identifies one matrix cell and its new value.
type ToggleInput struct {
	Category Category
	Channel  Channel
	Enabled  bool
}

// Toggle flips one cell and returns the whole updated matrix, never a
// partial patch.
func (s *PrefsService) Toggle(ctx context.Context, orgID, memberID string, input ToggleInput) (PrefsMatrix, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("prefs store is not configured")
	}
	if !input.Category.Valid() {
		return nil, ErrPrefInvalidCategory
	}
	if !input.Channel.Valid() {
		return nil, ErrPrefInvalidChannel
	}
	if err := s.store.SetPref(ctx, orgID, memberID, input.Category, input.Channel, input.Enabled); err != nil {
		return nil, fmt.Errorf("set pref: %w", err)
	}
	return s.GetMatrix(ctx, orgID, memberID)
}
