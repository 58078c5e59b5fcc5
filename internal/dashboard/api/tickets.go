package api

import (
	"net/http"
	"time"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/internal/platform/httpx"
)

func (h handlers) handleListTicketTypes(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	tickets, err := h.svc.Tickets.ListTicketTypes(httpx.RequestContext(r), identity.OrgID, r.PathValue("eventID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if tickets == nil {
		tickets = []domain.TicketType{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, tickets)
}

type createTicketTypeRequest struct {
	Name         string    `json:"name"`
	PriceCents   int64     `json:"priceCents"`
	Currency     string    `json:"currency"`
	Quantity     int64     `json:"quantity"`
	SalesStartAt time.Time `json:"salesStartAt"`
	SalesEndAt   time.Time `json:"salesEndAt"`
	MaxPerOrder  int64     `json:"maxPerOrder"`
	Hidden       bool      `json:"hidden"`
}

func (h handlers) handleCreateTicketType(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req createTicketTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	ticket, err := h.svc.Tickets.CreateTicketType(httpx.RequestContext(r), identity.OrgID, r.PathValue("eventID"), domain.CreateTicketTypeInput{
		Name:         req.Name,
		PriceCents:   req.PriceCents,
		Currency:     req.Currency,
		Quantity:     req.Quantity,
		SalesStartAt: req.SalesStartAt,
		SalesEndAt:   req.SalesEndAt,
		MaxPerOrder:  req.MaxPerOrder,
		Hidden:       req.Hidden,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, ticket)
}

type updateTicketTypeRequest struct {
	Name         *string    `json:"name"`
	PriceCents   *int64     `json:"priceCents"`
	Quantity     *int64     `json:"quantity"`
	SalesStartAt *time.Time `json:"salesStartAt"`
	SalesEndAt   *time.Time `json:"salesEndAt"`
	MaxPerOrder  *int64     `json:"maxPerOrder"`
	Hidden       *bool      `json:"hidden"`
}

func (h handlers) handleUpdateTicketType(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req updateTicketTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	ticket, err := h.svc.Tickets.UpdateTicketType(httpx.RequestContext(r), identity.OrgID, r.PathValue("ticketID"), domain.UpdateTicketTypeInput{
		Name:         req.Name,
		PriceCents:   req.PriceCents,
		Quantity:     req.Quantity,
		SalesStartAt: req.SalesStartAt,
		SalesEndAt:   req.SalesEndAt,
		MaxPerOrder:  req.MaxPerOrder,
		Hidden:       req.Hidden,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, ticket)
}

func (h handlers) handleDeleteTicketType(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.svc.Tickets.DeleteTicketType(httpx.RequestContext(r), identity.OrgID, r.PathValue("ticketID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
