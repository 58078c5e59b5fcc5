package domain

import (
	"context"
	"time"
)

// EventFilter narrows event listings. Zero values match everything.
type EventFilter struct {
	Status EventStatus
	Search string
}

// EventCursor is the keyset position of the last row on the prior page.
type EventCursor struct {
	CreatedAt time.Time
	ID        string
}

// OrgStore persists organizations.
type OrgStore interface {
	PutOrganization(ctx context.Context, org Organization) error
	GetOrganization(ctx context.Context, id string) (Organization, error)
}

// EventStore persists events. List returns rows newest-first, strictly after
// the cursor when one is given.
type EventStore interface {
	PutEvent(ctx context.Context, event Event) error
	GetEvent(ctx context.Context, orgID, id string) (Event, error)
	ListEvents(ctx context.Context, orgID string, filter EventFilter, limit int, after *EventCursor) ([]Event, error)
	DeleteEvent(ctx context.Context, orgID, id string) error
	// CountEventSlug counts events in the org using slug, excluding excludeID.
	CountEventSlug(ctx context.Context, orgID, slug, excludeID string) (int, error)
}

// TicketStore persists ticket types.
type TicketStore interface {
	PutTicketType(ctx context.Context, ticket TicketType) error
	GetTicketType(ctx context.Context, id string) (TicketType, error)
	ListTicketTypes(ctx context.Context, eventID string) ([]TicketType, error)
	DeleteTicketType(ctx context.Context, id string) error
}

// TeamStore persists team members. DeleteMember cascades the member's
// notification preferences.
type TeamStore interface {
	PutMember(ctx context.Context, member TeamMember) error
	GetMember(ctx context.Context, orgID, id string) (TeamMember, error)
	GetMemberByEmail(ctx context.Context, orgID, email string) (TeamMember, error)
	ListMembers(ctx context.Context, orgID string) ([]TeamMember, error)
	DeleteMember(ctx context.Context, orgID, id string) error
	CountOwners(ctx context.Context, orgID string) (int, error)
}

// PrefsStore persists notification preference cells. Missing cells fall back
// to the default matrix.
type PrefsStore interface {
	ListPrefs(ctx context.Context, orgID, memberID string) (PrefsMatrix, error)
	SetPref(ctx context.Context, orgID, memberID string, category Category, channel Channel, enabled bool) error
}

// PaymentStore persists payout configuration.
type PaymentStore interface {
	GetPaymentSettings(ctx context.Context, orgID string) (PaymentSettings, error)
	PutPaymentMethod(ctx context.Context, orgID string, method PaymentMethod) error
	SetDefaultPaymentMethod(ctx context.Context, orgID, methodID string) error
}

// AnalyticsStore persists and aggregates traffic, sales and demographic rows.
type AnalyticsStore interface {
	PutDailyStat(ctx context.Context, stat DailyStat) error
	SummarizeStats(ctx context.Context, orgID, fromDay, toDay string) (AnalyticsSummary, error)
	PutDemographicRow(ctx context.Context, row DemographicRow) error
	ListDemographics(ctx context.Context, eventID string) ([]DemographicRow, error)
}
