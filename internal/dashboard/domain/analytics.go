package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrAnalyticsInvalidRange indicates a malformed or inverted date range.
var ErrAnalyticsInvalidRange = errors.New("analytics date range is invalid")

const (
	dayLayout           = "2006-01-02"
	defaultSummaryRange = 30 // days
)

// AnalyticsService aggregates traffic, revenue and audience stats.
type AnalyticsService struct {
	store  AnalyticsStore
	events EventStore
	clock  func() time.Time
}

// NewAnalyticsService constructs analytics use-cases.
func NewAnalyticsService(store AnalyticsStore, events EventStore, clock func() time.Time) *AnalyticsService {
	if clock == nil {
		clock = time.Now
	}
	return &AnalyticsService{store: store, events: events, clock: clock}
}

// Summary aggregates org stats between fromDay and toDay inclusive, both
// YYYY-MM-DD. An empty range defaults to the trailing thirty days.
func (s *AnalyticsService) Summary(ctx context.Context, orgID, fromDay, toDay string) (AnalyticsSummary, error) {
	if s == nil || s.store == nil {
		return AnalyticsSummary{}, errors.New("analytics store is not configured")
	}

	if fromDay == "" && toDay == "" {
		now := s.clock().UTC()
		toDay = now.Format(dayLayout)
		fromDay = now.AddDate(0, 0, -defaultSummaryRange).Format(dayLayout)
	}
	from, err := time.Parse(dayLayout, fromDay)
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("%w: %v", ErrAnalyticsInvalidRange, err)
	}
	to, err := time.Parse(dayLayout, toDay)
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("%w: %v", ErrAnalyticsInvalidRange, err)
	}
	if to.Before(from) {
		return AnalyticsSummary{}, ErrAnalyticsInvalidRange
	}

	summary, err := s.store.SummarizeStats(ctx, orgID, fromDay, toDay)
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("summarize stats: %w", err)
	}
	return summary, nil
}

// Demographics returns the audience breakdown of one org event.
func (s *AnalyticsService) Demographics(ctx context.Context, orgID, eventID string) ([]DemographicRow, error) {
	if s == nil || s.store == nil || s.events == nil {
		return nil, errors.New("analytics service is not configured")
	}
	if _, err := s.events.GetEvent(ctx, orgID, eventID); err != nil {
		return nil, err
	}
	rows, err := s.store.ListDemographics(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list demographics: %w", err)
	}
	return rows, nil
}
