package api

import (
	"net/http"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/internal/platform/httpx"
)

func (h handlers) handleListMembers(w http.ResponseWriter, r *http.Request) {
	identity, err := actor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	members, err := h.svc.Team.ListMembers(httpx.RequestContext(r), identity.OrgID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if members == nil {
		members = []domain.TeamMember{}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, members)
}

type inviteMemberRequest struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

func (h handlers) handleInviteMember(w http.ResponseWriter, r *http.Request) {
	identity, err := teamManager(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req inviteMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	member, err := h.svc.Team.InviteMember(httpx.RequestContext(r), identity.OrgID, domain.InviteMemberInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusCreated, member)
}

type updateMemberRoleRequest struct {
	Role domain.Role `json:"role"`
}

func (h handlers) handleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	identity, err := teamManager(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req updateMemberRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	member, err := h.svc.Team.UpdateMemberRole(httpx.RequestContext(r), identity.OrgID, r.PathValue("memberID"), req.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, member)
}

type updateMemberStatusRequest struct {
	Status domain.MemberStatus `json:"status"`
}

func (h handlers) handleUpdateMemberStatus(w http.ResponseWriter, r *http.Request) {
	identity, err := teamManager(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req updateMemberStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	member, err := h.svc.Team.UpdateMemberStatus(httpx.RequestContext(r), identity.OrgID, r.PathValue("memberID"), req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, member)
}

func (h handlers) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	identity, err := teamManager(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.svc.Team.RemoveMember(httpx.RequestContext(r), identity.OrgID, r.PathValue("memberID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
