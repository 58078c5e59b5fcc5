package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tikdhq/tikd/internal/platform/id"
)

var (
	// ErrTicketNameRequired indicates a ticket type needs a name.
	ErrTicketNameRequired = errors.New("ticket type name is required")
	// ErrTicketInvalidPrice indicates a negative price.
	ErrTicketInvalidPrice = errors.New("ticket price must not be negative")
	// ErrTicketInvalidQuantity indicates a non-positive quantity.
	ErrTicketInvalidQuantity = errors.New("ticket quantity must be positive")
	// ErrTicketQuantityBelowSold indicates quantity would fall under sold count.
	ErrTicketQuantityBelowSold = errors.New("ticket quantity cannot drop below sold count")
	// ErrTicketHasSales indicates a ticket type with sales cannot be deleted.
	ErrTicketHasSales = errors.New("ticket type with sales cannot be deleted")
	// ErrTicketInvalidCurrency indicates the currency is not a 3-letter code.
	ErrTicketInvalidCurrency = errors.New("ticket currency must be a 3-letter code")
)

const defaultMaxPerOrder = 10

// TicketService owns ticket type lifecycle behavior.
type TicketService struct {
	store  TicketStore
	events EventStore
	clock  func() time.Time
	newID  func() (string, error)
}

// NewTicketService constructs ticket type use-cases.
func NewTicketService(store TicketStore, events EventStore, clock func() time.Time, newID func() (string, error)) *TicketService {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &TicketService{store: store, events: events, clock: clock, newID: newID}
}

// ListTicketTypes returns an event's ticket types, checking org ownership.
func (s *TicketService) ListTicketTypes(ctx context.Context, orgID, eventID string) ([]TicketType, error) {
	if s == nil || s.store == nil || s.events == nil {
		return nil, errors.New("ticket service is not configured")
	}
	if _, err := s.events.GetEvent(ctx, orgID, eventID); err != nil {
		return nil, err
	}
	return s.store.ListTicketTypes(ctx, eventID)
}

// CreateTicketTypeInput describes a new ticket tier.
type CreateTicketTypeInput struct {
	Name         string
	PriceCents   int64
	Currency     string
	Quantity     int64
	SalesStartAt time.Time
	SalesEndAt   time.Time
	MaxPerOrder  int64
	Hidden       bool
}

// CreateTicketType adds a tier to an org event.
func (s *TicketService) CreateTicketType(ctx context.Context, orgID, eventID string, input CreateTicketTypeInput) (TicketType, error) {
	if s == nil || s.store == nil || s.events == nil {
		return TicketType{}, errors.New("ticket service is not configured")
	}
	if _, err := s.events.GetEvent(ctx, orgID, eventID); err != nil {
		return TicketType{}, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return TicketType{}, ErrTicketNameRequired
	}
	if input.PriceCents < 0 {
		return TicketType{}, ErrTicketInvalidPrice
	}
	if input.Quantity <= 0 {
		return TicketType{}, ErrTicketInvalidQuantity
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if len(currency) != 3 {
		return TicketType{}, ErrTicketInvalidCurrency
	}
	maxPerOrder := input.MaxPerOrder
	if maxPerOrder <= 0 {
		maxPerOrder = defaultMaxPerOrder
	}

	ticketID, err := s.newID()
	if err != nil {
		return TicketType{}, fmt.Errorf("generate ticket type id: %w", err)
	}
	ticket := TicketType{
		ID:           ticketID,
		EventID:      eventID,
		Name:         name,
		PriceCents:   input.PriceCents,
		Currency:     currency,
		Quantity:     input.Quantity,
		Sold:         0,
		SalesStartAt: input.SalesStartAt.UTC(),
		SalesEndAt:   input.SalesEndAt.UTC(),
		MaxPerOrder:  maxPerOrder,
		Hidden:       input.Hidden,
	}
	if err := s.store.PutTicketType(ctx, ticket); err != nil {
		return TicketType{}, fmt.Errorf("put ticket type: %w", err)
	}
	return ticket, nil
}

// UpdateTicketTypeInput carries partial tier changes. Nil fields are untouched.
type UpdateTicketTypeInput struct {
	Name         *string
	PriceCents   *int64
	Quantity     *int64
	SalesStartAt *time.Time
	SalesEndAt   *time.Time
	MaxPerOrder  *int64
	Hidden       *bool
}

// UpdateTicketType applies a partial update, keeping sold count within quantity.
func (s *TicketService) UpdateTicketType(ctx context.Context, orgID, ticketID string, input UpdateTicketTypeInput) (TicketType, error) {
	ticket, err := s.getOrgTicket(ctx, orgID, ticketID)
	if err != nil {
		return TicketType{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return TicketType{}, ErrTicketNameRequired
		}
		ticket.Name = name
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return TicketType{}, ErrTicketInvalidPrice
		}
		ticket.PriceCents = *input.PriceCents
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return TicketType{}, ErrTicketInvalidQuantity
		}
		if *input.Quantity < ticket.Sold {
			return TicketType{}, ErrTicketQuantityBelowSold
		}
		ticket.Quantity = *input.Quantity
	}
	if input.SalesStartAt != nil {
		ticket.SalesStartAt = input.SalesStartAt.UTC()
	}
	if input.SalesEndAt != nil {
		ticket.SalesEndAt = input.SalesEndAt.UTC()
	}
	if input.MaxPerOrder != nil && *input.MaxPerOrder > 0 {
		ticket.MaxPerOrder = *input.MaxPerOrder
	}
	if input.Hidden != nil {
		ticket.Hidden = *input.Hidden
	}

	if err := s.store.PutTicketType(ctx, ticket); err != nil {
		return TicketType{}, fmt.Errorf("put ticket type: %w", err)
	}
	return ticket, nil
}

// DeleteTicketType removes a tier that has no sales yet.
func (s *TicketService) DeleteTicketType(ctx context.Context, orgID, ticketID string) error {
	ticket, err := s.getOrgTicket(ctx, orgID, ticketID)
	if err != nil {
		return err
	}
	if ticket.Sold > 0 {
		return ErrTicketHasSales
	}
	return s.store.DeleteTicketType(ctx, ticket.ID)
}

// getOrgTicket loads a ticket type and verifies its event belongs to the org.
func (s *TicketService) getOrgTicket(ctx context.Context, orgID, ticketID string) (TicketType, error) {
	if s == nil || s.store == nil || s.events == nil {
		return TicketType{}, errors.New("ticket service is not configured")
	}
	ticket, err := s.store.GetTicketType(ctx, ticketID)
	if err != nil {
		return TicketType{}, err
	}
	if _, err := s.events.GetEvent(ctx, orgID, ticket.EventID); err != nil {
		return TicketType{}, err
	}
	return ticket, nil
}
