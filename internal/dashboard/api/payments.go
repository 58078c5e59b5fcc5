package api

import (
	"net/http"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/internal/platform/httpx"
)

func (h handlers) handleGetPaymentSettings(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	settings, err := h.svc.Payments.GetSettings(httpx.RequestContext(r), identity.OrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if settings.Methods == nil {
		settings.Methods = []domain.PaymentMethod{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, settings)
}

type addPaymentMethodRequest struct {
	Kind  domain.PaymentMethodKind `json:"kind"`
	Label string                   `json:"label"`
	Last4 string                   `json:"last4"`
}

func (h handlers) handleAddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	identity, err := teamManager(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req addPaymentMethodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	settings, err := h.svc.Payments.AddMethod(httpx.RequestContext(r), identity.OrgID, domain.AddMethodInput{
		Kind:  req.Kind,
		Label: req.Label,
		Last4: req.Last4,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, settings)
}

type setDefaultPaymentMethodRequest struct {
	MethodID string `json:"methodId"`
}

func (h handlers) handleSetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	identity, err := teamManager(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req setDefaultPaymentMethodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	settings, err := h.svc.Payments.SetDefault(httpx.RequestContext(r), identity.OrgID, req.MethodID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, settings)
}
