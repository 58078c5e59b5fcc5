package api

import (
	"net/http"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/internal/platform/httpx"
)

func (h handlers) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	matrix, err := h.svc.Prefs.GetMatrix(httpx.RequestContext(r), identity.OrgID, identity.MemberID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, matrix)
}

type togglePrefRequest struct {
	Category domain.Category `json:"category"`
	Channel  domain.Channel  `json:"channel"`
	Enabled  bool            `json:"enabled"`
}

// handleTogglePref flips one matrix cell and responds with the whole matrix.
func (h handlers) handleTogglePref(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req togglePrefRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	matrix, err := h.svc.Prefs.Toggle(httpx.RequestContext(r), identity.OrgID, identity.MemberID, domain.ToggleInput{
		Category: req.Category,
		Channel:  req.Channel,
		Enabled:  req.Enabled,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, matrix)
}
