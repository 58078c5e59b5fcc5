package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/tikdhq/tikd/internal/platform/cursor"
	"github.com/tikdhq/tikd/internal/platform/id"
)

var (
	// ErrEventTitleRequired indicates an event needs a title.
	ErrEventTitleRequired = errors.New("event title is required")
	// ErrEventSlugTaken indicates the slug is already used within the org.
	ErrEventSlugTaken = errors.New("event slug is already in use")
	// ErrEventInvalidTimeRange indicates the event ends before it starts.
	ErrEventInvalidTimeRange = errors.New("event ends before it starts")
	// ErrEventInvalidStatus indicates an unknown lifecycle status.
	ErrEventInvalidStatus = errors.New("event status is invalid")
	// ErrEventInvalidTransition indicates a disallowed status change.
	ErrEventInvalidTransition = errors.New("event status transition is not allowed")
	// ErrEventPublishNeedsTickets indicates publish requires a visible ticket type.
	ErrEventPublishNeedsTickets = errors.New("publishing requires at least one visible ticket type")
	// ErrInvalidPageToken indicates a malformed or mismatched page token.
	ErrInvalidPageToken = errors.New("page token is invalid")
)

const (
	defaultEventPageSize = 20
	maxEventPageSize     = 100
)

// EventService owns event lifecycle behavior for one organization's listings.
type EventService struct {
	store   EventStore
	tickets TicketStore
	clock   func() time.Time
	newID   func() (string, error)
}

// NewEventService constructs event use-cases.
func NewEventService(store EventStore, tickets TicketStore, clock func() time.Time, newID func() (string, error)) *EventService {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &EventService{store: store, tickets: tickets, clock: clock, newID: newID}
}

// ListEventsInput configures one page of an event listing.
type ListEventsInput struct {
	Status    EventStatus
	Search    string
	PageSize  int
	PageToken string
}

// EventPage is one page of events plus the token for the next page.
type EventPage struct {
	Events        []Event `json:"events"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// ListEvents returns org events newest-first, filtered and paginated. Page
// tokens are bound to the filter that minted them.
func (s *EventService) ListEvents(ctx context.Context, orgID string, input ListEventsInput) (EventPage, error) {
	if s == nil || s.store == nil {
		return EventPage{}, errors.New("event store is not configured")
	}
	if input.Status != "" && !input.Status.Valid() {
		return EventPage{}, ErrEventInvalidStatus
	}

	size := input.PageSize
	if size <= 0 {
		size = defaultEventPageSize
	}
	if size > maxEventPageSize {
		size = maxEventPageSize
	}

	filter := EventFilter{Status: input.Status, Search: strings.TrimSpace(input.Search)}
	filterKey := fmt.Sprintf("status=%s search=%s", filter.Status, strings.ToLower(filter.Search))

	var after *EventCursor
	if input.PageToken != "" {
		decoded, err := cursor.Decode(input.PageToken)
		if err != nil {
			return EventPage{}, fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
		}
		if err := cursor.ValidateFilterHash(decoded, filterKey); err != nil {
			return EventPage{}, fmt.Errorf("%w: %v", ErrInvalidPageToken, err)
		}
		after = &EventCursor{
			CreatedAt: time.UnixMilli(decoded.CreatedAtMillis).UTC(),
			ID:        decoded.LastID,
		}
	}

	// Fetch one extra row to learn whether a next page exists.
	rows, err := s.store.ListEvents(ctx, orgID, filter, size+1, after)
	if err != nil {
		return EventPage{}, fmt.Errorf("list events: %w", err)
	}

	page := EventPage{Events: rows}
	if len(rows) > size {
		page.Events = rows[:size]
		last := page.Events[size-1]
		token, err := cursor.Encode(cursor.New(last.CreatedAt.UnixMilli(), last.ID, filterKey))
		if err != nil {
			return EventPage{}, fmt.Errorf("encode page token: %w", err)
		}
		page.NextPageToken = token
	}
	return page, nil
}

// CreateEventInput describes a new event listing.
type CreateEventInput struct {
	Title         string
	Slug          string
	Venue         string
	City          string
	StartsAt      time.Time
	EndsAt        time.Time
	CoverImageURL string
}

// CreateEvent creates a draft event.
func (s *EventService) CreateEvent(ctx context.Context, orgID string, input CreateEventInput) (Event, error) {
	if s == nil || s.store == nil {
		return Event{}, errors.New("event store is not configured")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Event{}, ErrEventTitleRequired
	}
	if !input.EndsAt.IsZero() && !input.StartsAt.IsZero() && input.EndsAt.Before(input.StartsAt) {
		return Event{}, ErrEventInvalidTimeRange
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	taken, err := s.store.CountEventSlug(ctx, orgID, slug, "")
	if err != nil {
		return Event{}, fmt.Errorf("check event slug: %w", err)
	}
	if taken > 0 {
		return Event{}, ErrEventSlugTaken
	}

	eventID, err := s.newID()
	if err != nil {
		return Event{}, fmt.Errorf("generate event id: %w", err)
	}
	now := s.clock().UTC()
	event := Event{
		ID:            eventID,
		OrgID:         orgID,
		Title:         title,
		Slug:          slug,
		Venue:         strings.TrimSpace(input.Venue),
		City:          strings.TrimSpace(input.City),
		Status:        EventStatusDraft,
		StartsAt:      input.StartsAt.UTC(),
		EndsAt:        input.EndsAt.UTC(),
		CoverImageURL: strings.TrimSpace(input.CoverImageURL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.PutEvent(ctx, event); err != nil {
		return Event{}, fmt.Errorf("put event: %w", err)
	}
	return event, nil
}

// GetEvent loads one org event.
func (s *EventService) GetEvent(ctx context.Context, orgID, eventID string) (Event, error) {
	if s == nil || s.store == nil {
		return Event{}, errors.New("event store is not configured")
	}
	return s.store.GetEvent(ctx, orgID, eventID)
}

// UpdateEventInput carries partial event changes. Nil fields are untouched.
type UpdateEventInput struct {
	Title         *string
	Slug          *string
	Venue         *string
	City          *string
	StartsAt      *time.Time
	EndsAt        *time.Time
	CoverImageURL *string
	Status        *EventStatus
}

// allowedEventTransitions maps each status to the statuses it may move to
// through UpdateEvent. Publishing is a dedicated operation.
var allowedEventTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:     {EventStatusCancelled},
	EventStatusPublished: {EventStatusEnded, EventStatusCancelled},
}

// UpdateEvent applies a partial update and returns the full updated event.
func (s *EventService) UpdateEvent(ctx context.Context, orgID, eventID string, input UpdateEventInput) (Event, error) {
	if s == nil || s.store == nil {
		return Event{}, errors.New("event store is not configured")
	}
	event, err := s.store.GetEvent(ctx, orgID, eventID)
	if err != nil {
		return Event{}, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return Event{}, ErrEventTitleRequired
		}
		event.Title = title
	}
	if input.Slug != nil {
		slug := Slugify(*input.Slug)
		if slug != event.Slug {
			taken, err := s.store.CountEventSlug(ctx, orgID, slug, event.ID)
			if err != nil {
				return Event{}, fmt.Errorf("check event slug: %w", err)
			}
			if taken > 0 {
				return Event{}, ErrEventSlugTaken
			}
			event.Slug = slug
		}
	}
	if input.Venue != nil {
		event.Venue = strings.TrimSpace(*input.Venue)
	}
	if input.City != nil {
		event.City = strings.TrimSpace(*input.City)
	}
	if input.StartsAt != nil {
		event.StartsAt = input.StartsAt.UTC()
	}
	if input.EndsAt != nil {
		event.EndsAt = input.EndsAt.UTC()
	}
	if !event.EndsAt.IsZero() && !event.StartsAt.IsZero() && event.EndsAt.Before(event.StartsAt) {
		return Event{}, ErrEventInvalidTimeRange
	}
	if input.CoverImageURL != nil {
		event.CoverImageURL = strings.TrimSpace(*input.CoverImageURL)
	}
	if input.Status != nil && *input.Status != event.Status {
		next := *input.Status
		if !next.Valid() {
			return Event{}, ErrEventInvalidStatus
		}
		if !transitionAllowed(event.Status, next) {
			return Event{}, ErrEventInvalidTransition
		}
		event.Status = next
	}

	event.UpdatedAt = s.clock().UTC()
	if err := s.store.PutEvent(ctx, event); err != nil {
		return Event{}, fmt.Errorf("put event: %w", err)
	}
	return event, nil
}

// PublishEvent moves a draft event live. The event needs at least one
// visible ticket type before it can be published.
func (s *EventService) PublishEvent(ctx context.Context, orgID, eventID string) (Event, error) {
	if s == nil || s.store == nil || s.tickets == nil {
		return Event{}, errors.New("event service is not configured")
	}
	event, err := s.store.GetEvent(ctx, orgID, eventID)
	if err != nil {
		return Event{}, err
	}
	if event.Status != EventStatusDraft {
		return Event{}, ErrEventInvalidTransition
	}

	tickets, err := s.tickets.ListTicketTypes(ctx, event.ID)
	if err != nil {
		return Event{}, fmt.Errorf("list ticket types: %w", err)
	}
	visible := false
	for _, ticket := range tickets {
		if !ticket.Hidden {
			visible = true
			break
		}
	}
	if !visible {
		return Event{}, ErrEventPublishNeedsTickets
	}

	event.Status = EventStatusPublished
	event.UpdatedAt = s.clock().UTC()
	if err := s.store.PutEvent(ctx, event); err != nil {
		return Event{}, fmt.Errorf("put event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an org event and, through the store, its ticket types.
func (s *EventService) DeleteEvent(ctx context.Context, orgID, eventID string) error {
	if s == nil || s.store == nil {
		return errors.New("event store is not configured")
	}
	return s.store.DeleteEvent(ctx, orgID, eventID)
}

func transitionAllowed(from, to EventStatus) bool {
	for _, allowed := range allowedEventTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Slugify lowercases text and collapses non-alphanumeric runs into hyphens.
func Slugify(text string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}
