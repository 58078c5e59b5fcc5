package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tikdhq/tikd/internal/platform/id"
)

var (
	// ErrPaymentMethodUnknown indicates the method does not belong to the org.
	ErrPaymentMethodUnknown = errors.New("payment method is not registered")
	// ErrPaymentInvalidKind indicates an unknown payout destination kind.
	ErrPaymentInvalidKind = errors.New("payment method kind is invalid")
)

// PaymentService owns payout configuration behavior.
type PaymentService struct {
	store PaymentStore
	newID func() (string, error)
}

// NewPaymentService constructs payment use-cases.
func NewPaymentService(store PaymentStore, newID func() (string, error)) *PaymentService {
	if newID == nil {
		newID = id.NewID
	}
	return &PaymentService{store: store, newID: newID}
}

// GetSettings returns the org's payout configuration.
func (s *PaymentService) GetSettings(ctx context.Context, orgID string) (PaymentSettings, error) {
	if s == nil || s.store == nil {
		return PaymentSettings{}, errors.New("payment store is not configured")
	}
	return s.store.GetPaymentSettings(ctx, orgID)
}

// AddMethodInput describes a new payout destination.
type AddMethodInput struct {
	Kind  PaymentMethodKind
	Label string
	Last4 string
}

// AddMethod registers a payout destination for the org.
func (s *PaymentService) AddMethod(ctx context.Context, orgID string, input AddMethodInput) (PaymentSettings, error) {
	if s == nil || s.store == nil {
		return PaymentSettings{}, errors.New("payment store is not configured")
	}
	if input.Kind != PaymentMethodCard && input.Kind != PaymentMethodBank {
		return PaymentSettings{}, ErrPaymentInvalidKind
	}
	methodID, err := s.newID()
	if err != nil {
		return PaymentSettings{}, fmt.Errorf("generate method id: %w", err)
	}
	method := PaymentMethod{
		ID:    methodID,
		Kind:  input.Kind,
		Label: strings.TrimSpace(input.Label),
		Last4: strings.TrimSpace(input.Last4),
	}
	if err := s.store.PutPaymentMethod(ctx, orgID, method); err != nil {
		return PaymentSettings{}, fmt.Errorf("put payment method: %w", err)
	}
	return s.store.GetPaymentSettings(ctx, orgID)
}

// SetDefault marks one registered method as the payout default and returns
// the full updated settings.
func (s *PaymentService) SetDefault(ctx context.Context, orgID, methodID string) (PaymentSettings, error) {
	if s == nil || s.store == nil {
		return PaymentSettings{}, errors.New("payment store is not configured")
	}
	settings, err := s.store.GetPaymentSettings(ctx, orgID)
	if err != nil {
		return PaymentSettings{}, err
	}
	known := false
	for _, method := range settings.Methods {
		if method.ID == methodID {
			known = true
			break
		}
	}
	if !known {
		return PaymentSettings{}, ErrPaymentMethodUnknown
	}
	if err := s.store.SetDefaultPaymentMethod(ctx, orgID, methodID); err != nil {
		return PaymentSettings{}, fmt.Errorf("set default payment method: %w", err)
	}
	settings.DefaultMethodID = methodID
	return settings, nil
}
