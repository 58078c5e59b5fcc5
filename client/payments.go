package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/optimistic"
)

// PaymentsView is the org's payout configuration, coordinated so a default
// method change is visible immediately and settled against the server.
type PaymentsView struct {
	client *Client
	coord  *optimistic.Coordinator[domain.PaymentSettings]
}

// PaymentsView creates a view over the org's payment settings. Call Load
// before reading or mutating.
func (c *Client) PaymentsView() (*PaymentsView, error) {
	store := optimistic.NewStore(domain.PaymentSettings{})
	coord, err := optimistic.NewCoordinator(store, c.executor, c.cache, c.notifier)
	if err != nil {
		return nil, fmt.Errorf("build payments coordinator: %w", err)
	}
	return &PaymentsView{client: c, coord: coord}, nil
}

// Load fetches the payment settings and replaces the view's state with them.
func (v *PaymentsView) Load(ctx context.Context) error {
	settings, err := fetchCached(ctx, v.client.cache, keyPayments, func(ctx context.Context) (domain.PaymentSettings, error) {
		var s domain.PaymentSettings
		if err := v.client.get(ctx, "/api/v1/settings/payments", &s); err != nil {
			return domain.PaymentSettings{}, err
		}
		return s, nil
	})
	if err != nil {
		return fmt.Errorf("load payment settings: %w", err)
	}
	v.coord.Store().Set(func(domain.PaymentSettings) domain.PaymentSettings { return settings })
	return nil
}

// Settings returns the current payment settings, optimistic values included.
func (v *PaymentsView) Settings() domain.PaymentSettings {
	return v.coord.Store().Get()
}

type setDefaultPayload struct {
	MethodID string `json:"methodId"`
}

// SetDefault marks one registered method as the payout default. Unknown
// method IDs are rejected locally before any command is issued.
func (v *PaymentsView) SetDefault(ctx context.Context, methodID string) (<-chan optimistic.Settlement, error) {
	return v.coord.Issue(ctx, optimistic.Request[domain.PaymentSettings]{
		Field:   "payments/default",
		Kind:    kindSetDefaultPayment,
		Payload: setDefaultPayload{MethodID: methodID},
		Validate: func(prev domain.PaymentSettings) error {
			if methodID == "" {
				return errors.New("method ID is required")
			}
			for _, method := range prev.Methods {
				if method.ID == methodID {
					return nil
				}
			}
			return fmt.Errorf("payment method %q is not registered", methodID)
		},
		Apply: func(prev domain.PaymentSettings) domain.PaymentSettings {
			prev.DefaultMethodID = methodID
			return prev
		},
		Revert: func(snapshot, current domain.PaymentSettings) domain.PaymentSettings {
			current.DefaultMethodID = snapshot.DefaultMethodID
			return current
		},
		Keys:           []optimistic.Key{keyPayments},
		SuccessMessage: "Default payment method updated",
	})
}
