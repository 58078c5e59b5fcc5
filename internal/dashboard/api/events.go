package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	apperrors "github.com/tikdhq/tikd/internal/platform/errors"
	"github.com/tikdhq/tikd/internal/platform/httpx"
)

func (h handlers) handleListEvents(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	query := r.URL.Query()
	input := domain.ListEventsInput{
		Status:    domain.EventStatus(strings.TrimSpace(query.Get("status"))),
		Search:    query.Get("search"),
		PageToken: query.Get("pageToken"),
	}
	if raw := strings.TrimSpace(query.Get("pageSize")); raw != "" {
		size, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			h.writeError(w, apperrors.E(apperrors.KindInvalidInput, "pageSize must be an integer"))
			return
		}
		input.PageSize = size
	}

	page, err := h.svc.Events.ListEvents(httpx.RequestContext(r), identity.OrgID, input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, page)
}

type createEventRequest struct {
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Venue         string    `json:"venue"`
	City          string    `json:"city"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
	CoverImageURL string    `json:"coverImageUrl"`
}

func (h handlers) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req createEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	event, err := h.svc.Events.CreateEvent(httpx.RequestContext(r), identity.OrgID, domain.CreateEventInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Venue:         req.Venue,
		City:          req.City,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		CoverImageURL: req.CoverImageURL,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, event)
}

func (h handlers) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	event, err := h.svc.Events.GetEvent(httpx.RequestContext(r), identity.OrgID, r.PathValue("eventID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, event)
}

type updateEventRequest struct {
	Title         *string             `json:"title"`
	Slug          *string             `json:"slug"`
	Venue         *string             `json:"venue"`
	City          *string             `json:"city"`
	StartsAt      *time.Time          `json:"startsAt"`
	EndsAt        *time.Time          `json:"endsAt"`
	CoverImageURL *string             `json:"coverImageUrl"`
	Status        *domain.EventStatus `json:"status"`
}

func (h handlers) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req updateEventRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	event, err := h.svc.Events.UpdateEvent(httpx.RequestContext(r), identity.OrgID, r.PathValue("eventID"), domain.UpdateEventInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Venue:         req.Venue,
		City:          req.City,
		StartsAt:      req.StartsAt,
		EndsAt:        req.EndsAt,
		CoverImageURL: req.CoverImageURL,
		Status:        req.Status,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, event)
}

func (h handlers) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.svc.Events.DeleteEvent(httpx.RequestContext(r), identity.OrgID, r.PathValue("eventID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h handlers) handlePublishEvent(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	event, err := h.svc.Events.PublishEvent(httpx.RequestContext(r), identity.OrgID, r.PathValue("eventID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, event)
}
