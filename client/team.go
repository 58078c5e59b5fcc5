package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/optimistic"
)

// TeamView is the org's member roster, coordinated so invites, role and
// status changes and removals show up immediately and settle afterwards.
// Commands for the same member share one field, so only the newest in-flight
// command on a member may roll it back.
type TeamView struct {
	client *Client
	coord  *optimistic.Coordinator[[]domain.TeamMember]
}

// TeamView creates a view over the org's roster. Call Load before mutating.
func (c *Client) TeamView() (*TeamView, error) {
	store := optimistic.NewStore[[]domain.TeamMember](nil)
	coord, err := optimistic.NewCoordinator(store, c.executor, c.cache, c.notifier)
	if err != nil {
		return nil, fmt.Errorf("build team coordinator: %w", err)
	}
	return &TeamView{client: c, coord: coord}, nil
}

// Load fetches the roster and replaces the view's state with it.
func (v *TeamView) Load(ctx context.Context) error {
	members, err := fetchCached(ctx, v.client.cache, keyTeam, func(ctx context.Context) ([]domain.TeamMember, error) {
		var roster []domain.TeamMember
		if err := v.client.get(ctx, "/api/v1/team", &roster); err != nil {
			return nil, err
		}
		return roster, nil
	})
	if err != nil {
		return fmt.Errorf("load team: %w", err)
	}
	v.coord.Store().Set(func([]domain.TeamMember) []domain.TeamMember {
		return append([]domain.TeamMember(nil), members...)
	})
	return nil
}

// Members returns the current roster, optimistic entries included.
func (v *TeamView) Members() []domain.TeamMember {
	return append([]domain.TeamMember(nil), v.coord.Store().Get()...)
}

type invitePayload struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Invite adds a pending member. Until the server settles, the roster shows a
// placeholder entry whose ID the commit replaces with the server-issued one.
func (v *TeamView) Invite(ctx context.Context, name, email string, role domain.Role) (<-chan optimistic.Settlement, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	placeholderID := "pending:" + email

	return v.coord.Issue(ctx, optimistic.Request[[]domain.TeamMember]{
		Field:   optimistic.Field("team/invite/" + email),
		Kind:    kindInviteMember,
		Payload: invitePayload{Name: name, Email: email, Role: role},
		Validate: func(prev []domain.TeamMember) error {
			if email == "" {
				return errors.New("invite email is required")
			}
			if !role.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			for _, member := range prev {
				if member.Email == email {
					return fmt.Errorf("%s is already on the team", email)
				}
			}
			return nil
		},
		Apply: func(prev []domain.TeamMember) []domain.TeamMember {
			return append(cloneRoster(prev), domain.TeamMember{
				ID:     placeholderID,
				Name:   name,
				Email:  email,
				Role:   role,
				Status: domain.MemberStatusPending,
			})
		},
		Revert: revertMember(placeholderID),
		Decode: func(body []byte, prev []domain.TeamMember) ([]domain.TeamMember, error) {
			var created domain.TeamMember
			if err := json.Unmarshal(body, &created); err != nil {
				return nil, err
			}
			return replaceMember(removeMember(prev, placeholderID), created), nil
		},
		Keys:           []optimistic.Key{keyTeam},
		SuccessMessage: "Invite sent to " + email,
	})
}

type changeRolePayload struct {
	MemberID string      `json:"-"`
	Role     domain.Role `json:"role"`
}

// ChangeRole updates one member's role. Demoting the roster's only owner is
// rejected locally before any command is issued.
func (v *TeamView) ChangeRole(ctx context.Context, memberID string, role domain.Role) (<-chan optimistic.Settlement, error) {
	return v.coord.Issue(ctx, optimistic.Request[[]domain.TeamMember]{
		Field:   optimistic.Field("team/" + memberID),
		Kind:    kindChangeMemberRole,
		Payload: changeRolePayload{MemberID: memberID, Role: role},
		Validate: func(prev []domain.TeamMember) error {
			member, ok := findMember(prev, memberID)
			if !ok {
				return fmt.Errorf("member %q is not in the roster", memberID)
			}
			if !role.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			if member.Role == domain.RoleOwner && role != domain.RoleOwner && countOwners(prev) == 1 {
				return errors.New("an organization needs at least one owner")
			}
			return nil
		},
		Apply: func(prev []domain.TeamMember) []domain.TeamMember {
			next := cloneRoster(prev)
			for i := range next {
				if next[i].ID == memberID {
					next[i].Role = role
				}
			}
			return next
		},
		Revert:         revertMember(memberID),
		Decode:         decodeMemberInto,
		Keys:           []optimistic.Key{keyTeam},
		SuccessMessage: "Role updated",
	})
}

type changeStatusPayload struct {
	MemberID string              `json:"-"`
	Status   domain.MemberStatus `json:"status"`
}

// ChangeStatus updates one member's membership status.
func (v *TeamView) ChangeStatus(ctx context.Context, memberID string, status domain.MemberStatus) (<-chan optimistic.Settlement, error) {
	return v.coord.Issue(ctx, optimistic.Request[[]domain.TeamMember]{
		Field:   optimistic.Field("team/" + memberID),
		Kind:    kindChangeMemberStatus,
		Payload: changeStatusPayload{MemberID: memberID, Status: status},
		Validate: func(prev []domain.TeamMember) error {
			if _, ok := findMember(prev, memberID); !ok {
				return fmt.Errorf("member %q is not in the roster", memberID)
			}
			if !status.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			return nil
		},
		Apply: func(prev []domain.TeamMember) []domain.TeamMember {
			next := cloneRoster(prev)
			for i := range next {
				if next[i].ID == memberID {
					next[i].Status = status
				}
			}
			return next
		},
		Revert:         revertMember(memberID),
		Decode:         decodeMemberInto,
		Keys:           []optimistic.Key{keyTeam},
		SuccessMessage: "Status updated",
	})
}

type removeMemberPayload struct {
	MemberID string `json:"-"`
}

// Remove deletes one member from the roster. The server responds with no
// body, so the optimistic removal stands on commit.
func (v *TeamView) Remove(ctx context.Context, memberID string) (<-chan optimistic.Settlement, error) {
	return v.coord.Issue(ctx, optimistic.Request[[]domain.TeamMember]{
		Field:   optimistic.Field("team/" + memberID),
		Kind:    kindRemoveMember,
		Payload: removeMemberPayload{MemberID: memberID},
		Validate: func(prev []domain.TeamMember) error {
			member, ok := findMember(prev, memberID)
			if !ok {
				return fmt.Errorf("member %q is not in the roster", memberID)
			}
			if member.Role == domain.RoleOwner && countOwners(prev) == 1 {
				return errors.New("an organization needs at least one owner")
			}
			return nil
		},
		Apply: func(prev []domain.TeamMember) []domain.TeamMember {
			return removeMember(prev, memberID)
		},
		Revert: revertMember(memberID),
		Decode: func(_ []byte, prev []domain.TeamMember) ([]domain.TeamMember, error) {
			return removeMember(prev, memberID), nil
		},
		Keys:           []optimistic.Key{keyTeam},
		SuccessMessage: "Member removed",
	})
}

// revertMember restores one member's pre-command entry into the current
// roster: put back as the snapshot had it, or dropped when the snapshot
// never held it. Other members' entries are left exactly as they settled.
func revertMember(memberID string) func(snapshot, current []domain.TeamMember) []domain.TeamMember {
	return func(snapshot, current []domain.TeamMember) []domain.TeamMember {
		if member, ok := findMember(snapshot, memberID); ok {
			return replaceMember(current, member)
		}
		return removeMember(current, memberID)
	}
}

// decodeMemberInto merges a single-member response body into the roster.
func decodeMemberInto(body []byte, prev []domain.TeamMember) ([]domain.TeamMember, error) {
	var member domain.TeamMember
	if err := json.Unmarshal(body, &member); err != nil {
		return nil, err
	}
	return replaceMember(prev, member), nil
}

func cloneRoster(roster []domain.TeamMember) []domain.TeamMember {
	return append([]domain.TeamMember(nil), roster...)
}

func findMember(roster []domain.TeamMember, memberID string) (domain.TeamMember, bool) {
	for _, member := range roster {
		if member.ID == memberID {
			return member, true
		}
	}
	return domain.TeamMember{}, false
}

func countOwners(roster []domain.TeamMember) int {
	owners := 0
	for _, member := range roster {
		if member.Role == domain.RoleOwner {
			owners++
		}
	}
	return owners
}

func replaceMember(roster []domain.TeamMember, member domain.TeamMember) []domain.TeamMember {
	next := cloneRoster(roster)
	for i := range next {
		if next[i].ID == member.ID {
			next[i] = member
			return next
		}
	}
	return append(next, member)
}

func removeMember(roster []domain.TeamMember, memberID string) []domain.TeamMember {
	next := make([]domain.TeamMember, 0, len(roster))
	for _, member := range roster {
		if member.ID != memberID {
			next = append(next, member)
		}
	}
	return next
}
