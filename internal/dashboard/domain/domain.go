// Package domain holds the dashboard's entities and the services that
// enforce their lifecycle rules.
package domain

import (
	"errors"
	"time"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// EventStatus is the publication lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusEnded     EventStatus = "ended"
	EventStatusCancelled EventStatus = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusEnded, EventStatusCancelled:
		return true
	}
	return false
}

// Role is a team member's permission level within an organization.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RolePromoter Role = "promoter"
)

// Valid reports whether the role is a known permission level.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RolePromoter:
		return true
	}
	return false
}

// CanManageTeam reports whether the role may invite, remove, or re-role
// other members.
func (r Role) CanManageTeam() bool {
	return r == RoleOwner || r == RoleAdmin
}

// MemberStatus is a team member's membership state.
type MemberStatus string

const (
	MemberStatusActive  MemberStatus = "active"
	MemberStatusPending MemberStatus = "pending"
)

// Valid reports whether the status is a known membership state.
func (s MemberStatus) Valid() bool {
	return s == MemberStatusActive || s == MemberStatusPending
}

// Organization is one tenant of the dashboard.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is one organization-owned event listing.
type Event struct {
	ID            string      `json:"id"`
	OrgID         string      `json:"orgId"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Venue         string      `json:"venue"`
	City          string      `json:"city"`
	Status        EventStatus `json:"status"`
	StartsAt      time.Time   `json:"startsAt"`
	EndsAt        time.Time   `json:"endsAt"`
	CoverImageURL string      `json:"coverImageUrl,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// TicketType is one purchasable tier of an event.
type TicketType struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	Name         string    `json:"name"`
	PriceCents   int64     `json:"priceCents"`
	Currency     string    `json:"currency"`
	Quantity     int64     `json:"quantity"`
	Sold         int64     `json:"sold"`
	SalesStartAt time.Time `json:"salesStartAt"`
	SalesEndAt   time.Time `json:"salesEndAt"`
	MaxPerOrder  int64     `json:"maxPerOrder"`
	Hidden       bool      `json:"hidden"`
}

// TeamMember is one person's membership in an organization.
type TeamMember struct {
	ID        string       `json:"id"`
	OrgID     string       `json:"orgId"`
	UserID    string       `json:"userId"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      Role         `json:"role"`
	Status    MemberStatus `json:"status"`
	InvitedAt time.Time    `json:"invitedAt"`
	JoinedAt  *time.Time   `json:"joinedAt,omitempty"`
}

// Category is one notification topic row in the preference matrix.
type Category string

const (
	CategoryReminders Category = "reminders"
	CategorySales     Category = "sales"
	CategoryPayouts   Category = "payouts"
	CategoryTeam      Category = "team"
)

// Categories lists matrix rows in display order.
func Categories() []Category {
	return []Category{CategoryReminders, CategorySales, CategoryPayouts, CategoryTeam}
}

// Valid reports whether the category is a known matrix row.
func (c Category) Valid() bool {
	switch c {
	case CategoryReminders, CategorySales, CategoryPayouts, CategoryTeam:
		return true
	}
	return false
}

// Channel is one notification delivery column in the preference matrix.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// Channels lists matrix columns in display order.
func Channels() []Channel {
	return []Channel{ChannelEmail, ChannelSMS, ChannelPush}
}

// Valid reports whether the channel is a known matrix column.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelSMS || c == ChannelPush
}

// PrefsMatrix is a member's notification preference matrix. Every known
// category/channel cell is always present.
type PrefsMatrix map[Category]map[Channel]bool

// DefaultPrefsMatrix returns the matrix new members start from: email on,
// sms and push off.
func DefaultPrefsMatrix() PrefsMatrix {
	matrix := make(PrefsMatrix, len(Categories()))
	for _, category := range Categories() {
		matrix[category] = map[Channel]bool{
			ChannelEmail: true,
			ChannelSMS:   false,
			ChannelPush:  false,
		}
	}
	return matrix
}

// Clone returns a deep copy of the matrix.
func (m PrefsMatrix) Clone() PrefsMatrix {
	clone := make(PrefsMatrix, len(m))
	for category, channels := range m {
		row := make(map[Channel]bool, len(channels))
		for channel, enabled := range channels {
			row[channel] = enabled
		}
		clone[category] = row
	}
	return clone
}

// PaymentMethodKind distinguishes payout destinations.
type PaymentMethodKind string

const (
	PaymentMethodCard PaymentMethodKind = "card"
	PaymentMethodBank PaymentMethodKind = "bank"
)

// PaymentMethod is one registered payout destination.
type PaymentMethod struct {
	ID    string            `json:"id"`
	Kind  PaymentMethodKind `json:"kind"`
	Label string            `json:"label"`
	Last4 string            `json:"last4"`
}

// PaymentSettings is an organization's payout configuration.
type PaymentSettings struct {
	OrgID           string          `json:"orgId"`
	DefaultMethodID string          `json:"defaultMethodId"`
	Methods         []PaymentMethod `json:"methods"`
}

// DailyStat is one day of aggregated traffic and sales for an organization.
type DailyStat struct {
	OrgID        string `json:"-"`
	EventID      string `json:"eventId,omitempty"`
	Day          string `json:"day"` // YYYY-MM-DD
	PageViews    int64  `json:"pageViews"`
	TicketsSold  int64  `json:"ticketsSold"`
	RevenueCents int64  `json:"revenueCents"`
}

// AnalyticsSummary aggregates stats over a date range.
type AnalyticsSummary struct {
	RevenueCents int64       `json:"revenueCents"`
	PageViews    int64       `json:"pageViews"`
	TicketsSold  int64       `json:"ticketsSold"`
	Days         []DailyStat `json:"days"`
}

// DemographicKind distinguishes demographic breakdown groupings.
type DemographicKind string

const (
	DemographicAge  DemographicKind = "age"
	DemographicCity DemographicKind = "city"
)

// DemographicRow is one bucket of an event's audience breakdown.
type DemographicRow struct {
	EventID string          `json:"-"`
	Kind    DemographicKind `json:"kind"`
	Bucket  string          `json:"bucket"`
	Count   int64           `json:"count"`
}
