package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tikdhq/tikd/internal/platform/id"
)

var (
	// ErrMemberNameRequired indicates an invite needs a display name.
	ErrMemberNameRequired = errors.New("member name is required")
	// ErrMemberEmailRequired indicates an invite needs an email.
	ErrMemberEmailRequired = errors.New("member email is required")
	// ErrMemberEmailTaken indicates the email already belongs to an org member.
	ErrMemberEmailTaken = errors.New("member email is already on the team")
	// ErrMemberInvalidRole indicates an unknown role.
	ErrMemberInvalidRole = errors.New("member role is invalid")
	// ErrMemberInvalidStatus indicates an unknown membership status.
	ErrMemberInvalidStatus = errors.New("member status is invalid")
	// ErrMemberOwnerInvite indicates owners cannot be created through invites.
	ErrMemberOwnerInvite = errors.New("owners cannot be invited directly")
	// ErrLastOwner indicates the org's only owner cannot be demoted or removed.
	ErrLastOwner = errors.New("organization needs at least one owner")
)

// TeamService owns team membership lifecycle behavior.
type TeamService struct {
	store TeamStore
	clock func() time.Time
	newID func() (string, error)
}

// NewTeamService constructs team use-cases.
func NewTeamService(store TeamStore, clock func() time.Time, newID func() (string, error)) *TeamService {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &TeamService{store: store, clock: clock, newID: newID}
}

// ListMembers returns the org roster.
func (s *TeamService) ListMembers(ctx context.Context, orgID string) ([]TeamMember, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("team store is not configured")
	}
	return s.store.ListMembers(ctx, orgID)
}

// InviteMemberInput describes one team invitation.
type InviteMemberInput struct {
	Name  string
	Email string
	Role  Role
}

// InviteMember adds a pending member to the org roster.
func (s *TeamService) InviteMember(ctx context.Context, orgID string, input InviteMemberInput) (TeamMember, error) {
	if s == nil || s.store == nil {
		return TeamMember{}, errors.New("team store is not configured")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return TeamMember{}, ErrMemberNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return TeamMember{}, ErrMemberEmailRequired
	}
	if !input.Role.Valid() {
		return TeamMember{}, ErrMemberInvalidRole
	}
	if input.Role == RoleOwner {
		return TeamMember{}, ErrMemberOwnerInvite
	}

	_, err := s.store.GetMemberByEmail(ctx, orgID, email)
	switch {
	case err == nil:
		return TeamMember{}, ErrMemberEmailTaken
	case !errors.Is(err, ErrNotFound):
		return TeamMember{}, fmt.Errorf("check member email: %w", err)
	}

	memberID, err := s.newID()
	if err != nil {
		return TeamMember{}, fmt.Errorf("generate member id: %w", err)
	}
	member := TeamMember{
		ID:        memberID,
		OrgID:     orgID,
		Name:      name,
		Email:     email,
		Role:      input.Role,
		Status:    MemberStatusPending,
		InvitedAt: s.clock().UTC(),
	}
	if err := s.store.PutMember(ctx, member); err != nil {
		return TeamMember{}, fmt.Errorf("put member: %w", err)
	}
	return member, nil
}

// UpdateMemberRole changes a member's role. The last remaining owner cannot
// be demoted.
func (s *TeamService) UpdateMemberRole(ctx context.Context, orgID, memberID string, role Role) (TeamMember, error) {
	if s == nil || s.store == nil {
		return TeamMember{}, errors.New("team store is not configured")
	}
	if !role.Valid() {
		return TeamMember{}, ErrMemberInvalidRole
	}
	member, err := s.store.GetMember(ctx, orgID, memberID)
	if err != nil {
		return TeamMember{}, err
	}
	if member.Role == role {
		return member, nil
	}
	if member.Role == RoleOwner {
		owners, err := s.store.CountOwners(ctx, orgID)
		if err != nil {
			return TeamMember{}, fmt.Errorf("count owners: %w", err)
		}
		if owners <= 1 {
			return TeamMember{}, ErrLastOwner
		}
	}

	member.Role = role
	if err := s.store.PutMember(ctx, member); err != nil {
		return TeamMember{}, fmt.Errorf("put member: %w", err)
	}
	return member, nil
}

// UpdateMemberStatus changes membership state. Activating a pending member
// stamps their join time.
func (s *TeamService) UpdateMemberStatus(ctx context.Context, orgID, memberID string, status MemberStatus) (TeamMember, error) {
	if s == nil || s.store == nil {
		return TeamMember{}, errors.New("team store is not configured")
	}
	if !status.Valid() {
		return TeamMember{}, ErrMemberInvalidStatus
	}
	member, err := s.store.GetMember(ctx, orgID, memberID)
	if err != nil {
		return TeamMember{}, err
	}
	if member.Status == status {
		return member, nil
	}

	member.Status = status
	if status == MemberStatusActive && member.JoinedAt == nil {
		joined := s.clock().UTC()
		member.JoinedAt = &joined
	}
	if err := s.store.PutMember(ctx, member); err != nil {
		return TeamMember{}, fmt.Errorf("put member: %w", err)
	}
	return member, nil
}

// RemoveMember deletes a member from the roster. The last remaining owner
// cannot be removed. The store cascades the member's preferences.
func (s *TeamService) RemoveMember(ctx context.Context, orgID, memberID string) error {
	if s == nil || s.store == nil {
		return errors.New("team store is not configured")
	}
	member, err := s.store.GetMember(ctx, orgID, memberID)
	if err != nil {
		return err
	}
	if member.Role == RoleOwner {
		owners, err := s.store.CountOwners(ctx, orgID)
		if err != nil {
			return fmt.Errorf("count owners: %w", err)
		}
		if owners <= 1 {
			return ErrLastOwner
		}
	}
	return s.store.DeleteMember(ctx, orgID, memberID)
}
