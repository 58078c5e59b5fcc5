package api

import (
	"net/http"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/internal/platform/httpx"
)

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h handlers) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	query := r.URL.Query()
	summary, err := h.svc.Analytics.Summary(httpx.RequestContext(r), identity.OrgID, query.Get("from"), query.Get("to"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if summary.Days == nil {
		summary.Days = []domain.DailyStat{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, summary)
}

func (h handlers) handleEventDemographics(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	rows, err := h.svc.Analytics.Demographics(httpx.RequestContext(r), identity.OrgID, r.PathValue("eventID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if rows == nil {
		rows = []domain.DemographicRow{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, rows)
}
