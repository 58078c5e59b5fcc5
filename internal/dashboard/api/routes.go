package api

import "net/http"

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc("GET /healthz", h.handleHealth)

	mux.HandleFunc("GET /api/v1/events", h.handleListEvents)
	mux.HandleFunc("POST /api/v1/events", h.handleCreateEvent)
	mux.HandleFunc("GET /api/v1/events/{eventID}", h.handleGetEvent)
	mux.HandleFunc("PATCH /api/v1/events/{eventID}", h.handleUpdateEvent)
	mux.HandleFunc("DELETE /api/v1/events/{eventID}", h.handleDeleteEvent)
	mux.HandleFunc("POST /api/v1/events/{eventID}/publish", h.handlePublishEvent)

	mux.HandleFunc("GET /api/v1/events/{eventID}/ticket-types", h.handleListTicketTypes)
	mux.HandleFunc("POST /api/v1/events/{eventID}/ticket-types", h.handleCreateTicketType)
	mux.HandleFunc("PATCH /api/v1/ticket-types/{ticketID}", h.handleUpdateTicketType)
	mux.HandleFunc("DELETE /api/v1/ticket-types/{ticketID}", h.handleDeleteTicketType)

	mux.HandleFunc("GET /api/v1/team", h.handleListMembers)
	mux.HandleFunc("POST /api/v1/team/invites", h.handleInviteMember)
	mux.HandleFunc("PATCH /api/v1/team/{memberID}/role", h.handleUpdateMemberRole)
	mux.HandleFunc("PATCH /api/v1/team/{memberID}/status", h.handleUpdateMemberStatus)
	mux.HandleFunc("DELETE /api/v1/team/{memberID}", h.handleRemoveMember)

	mux.HandleFunc("GET /api/v1/settings/notifications", h.handleGetPrefs)
	mux.HandleFunc("PATCH /api/v1/settings/notifications", h.handleTogglePref)

	mux.HandleFunc("GET /api/v1/settings/payments", h.handleGetPaymentSettings)
	mux.HandleFunc("POST /api/v1/settings/payments/methods", h.handleAddPaymentMethod)
	mux.HandleFunc("PATCH /api/v1/settings/payments/default", h.handleSetDefaultPaymentMethod)

	mux.HandleFunc("GET /api/v1/analytics/summary", h.handleAnalyticsSummary)
	mux.HandleFunc("GET /api/v1/events/{eventID}/analytics/demographics", h.handleEventDemographics)
}
