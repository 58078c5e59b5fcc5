// Package api exposes the dashboard's HTTP JSON interface. Success responses
// carry the full updated entity; failure bodies are plain-text messages the
// client can surface verbatim.
package api

import (
	"errors"
	"net/http"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	apperrors "github.com/tikdhq/tikd/internal/platform/errors"
	"github.com/tikdhq/tikd/internal/platform/httpx"
	"github.com/tikdhq/tikd/internal/platform/requestctx"
)

// Services bundles the domain services the API dispatches to.
type Services struct {
	Events    *domain.EventService
	Tickets   *domain.TicketService
	Team      *domain.TeamService
	Prefs     *domain.PrefsService
	Payments  *domain.PaymentService
	Analytics *domain.AnalyticsService
}

type handlers struct {
	svc Services
}

// NewHandler builds the dashboard API handler with the provided middleware
// applied around the whole mux.
func NewHandler(svc Services, middleware ...httpx.Middleware) http.Handler {
	mux := http.NewServeMux()
	registerRoutes(mux, handlers{svc: svc})
	return httpx.Chain(mux, middleware...)
}

// invalidInputErrors are domain failures caused by bad request data.
var invalidInputErrors = []error{
	domain.ErrEventTitleRequired,
	domain.ErrEventInvalidTimeRange,
	domain.ErrEventInvalidStatus,
	domain.ErrInvalidPageToken,
	domain.ErrTicketNameRequired,
	domain.ErrTicketInvalidPrice,
	domain.ErrTicketInvalidQuantity,
	domain.ErrTicketInvalidCurrency,
	domain.ErrMemberNameRequired,
	domain.ErrMemberEmailRequired,
	domain.ErrMemberInvalidRole,
	domain.ErrMemberInvalidStatus,
	domain.ErrPrefInvalidCategory,
	domain.ErrPrefInvalidChannel,
	domain.ErrPaymentInvalidKind,
	domain.ErrAnalyticsInvalidRange,
}

// conflictErrors are domain failures caused by the current state of the org.
var conflictErrors = []error{
	domain.ErrEventSlugTaken,
	domain.ErrEventInvalidTransition,
	domain.ErrEventPublishNeedsTickets,
	domain.ErrTicketQuantityBelowSold,
	domain.ErrTicketHasSales,
	domain.ErrMemberEmailTaken,
	domain.ErrMemberOwnerInvite,
	domain.ErrLastOwner,
	domain.ErrPaymentMethodUnknown,
}

// writeError maps domain sentinels onto typed statuses before writing the
// plain-text body.
func (h handlers) writeError(w http.ResponseWriter, err error) {
	httpx.WriteError(w, mapDomainError(err))
}

func mapDomainError(err error) error {
	if err == nil {
		return nil
	}
	var appErr apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, domain.ErrNotFound) {
		return apperrors.E(apperrors.KindNotFound, err.Error())
	}
	for _, sentinel := range invalidInputErrors {
		if errors.Is(err, sentinel) {
			return apperrors.E(apperrors.KindInvalidInput, err.Error())
		}
	}
	for _, sentinel := range conflictErrors {
		if errors.Is(err, sentinel) {
			return apperrors.E(apperrors.KindConflict, err.Error())
		}
	}
	return err
}

// actor extracts the authenticated identity or fails with 401.
func actor(r *http.Request) (requestctx.Actor, error) {
	identity, ok := requestctx.ActorFromContext(httpx.RequestContext(r))
	if !ok || identity.OrgID == "" {
		return requestctx.Actor{}, apperrors.E(apperrors.KindUnauthorized, "authentication required")
	}
	return identity, nil
}

// teamManager extracts the actor and requires a role allowed to manage the
// roster.
func teamManager(r *http.Request) (requestctx.Actor, error) {
	identity, err := actor(r)
	if err != nil {
		return requestctx.Actor{}, err
	}
	if !domain.Role(identity.Role).CanManageTeam() {
		return requestctx.Actor{}, apperrors.E(apperrors.KindForbidden, "team management requires an owner or admin role")
	}
	return identity, nil
}
