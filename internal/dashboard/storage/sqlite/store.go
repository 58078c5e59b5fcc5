// Package sqlite provides SQLite-backed persistence for the dashboard.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/internal/dashboard/storage/sqlite/migrations"
	sqlitemigrate "github.com/tikdhq/tikd/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for dashboard state. It implements
// every store interface the domain services depend on.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a dashboard SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := ensureForeignKeysEnabled(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

func ensureForeignKeysEnabled(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("sqlite db is required")
	}
	var enabled int
	if err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return fmt.Errorf("check sqlite foreign key pragma: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("sqlite foreign keys are disabled")
	}
	return nil
}

func (s *Store) ready() error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

type scanner func(dest ...any) error

// PutOrganization upserts one organization row.
func (s *Store) PutOrganization(ctx context.Context, org domain.Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(org.ID) == "" {
		return fmt.Errorf("organization id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO organizations (id, name, slug, created_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		slug = excluded.slug,
		created_at = excluded.created_at
	`, org.ID, org.Name, org.Slug, toMillis(org.CreatedAt))
	if err != nil {
		return fmt.Errorf("put organization: %w", err)
	}
	return nil
}

// GetOrganization loads one organization by id.
func (s *Store) GetOrganization(ctx context.Context, id string) (domain.Organization, error) {
	if err := ctx.Err(); err != nil {
		return domain.Organization{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Organization{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, slug, created_at
FROM organizations
WHERE id = ?
`, id)
	var org domain.Organization
	var createdAt int64
	if err := row.Scan(&org.ID, &org.Name, &org.Slug, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Organization{}, domain.ErrNotFound
		}
		return domain.Organization{}, fmt.Errorf("get organization: %w", err)
	}
	org.CreatedAt = fromMillis(createdAt)
	return org, nil
}

const eventColumns = `id, org_id, title, slug, venue, city, status, starts_at, ends_at, cover_image_url, created_at, updated_at`

func scanEvent(scan scanner) (domain.Event, error) {
	var event domain.Event
	var startsAt, endsAt, createdAt, updatedAt int64
	if err := scan(
		&event.ID,
		&event.OrgID,
		&event.Title,
		&event.Slug,
		&event.Venue,
		&event.City,
		&event.Status,
		&startsAt,
		&endsAt,
		&event.CoverImageURL,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Event{}, err
	}
	event.StartsAt = fromMillis(startsAt)
	event.EndsAt = fromMillis(endsAt)
	event.CreatedAt = fromMillis(createdAt)
	event.UpdatedAt = fromMillis(updatedAt)
	return event, nil
}

// PutEvent upserts one event row.
func (s *Store) PutEvent(ctx context.Context, event domain.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(event.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if strings.TrimSpace(event.OrgID) == "" {
		return fmt.Errorf("event org id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO events (
		id, org_id, title, slug, venue, city, status, starts_at, ends_at, cover_image_url, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		org_id = excluded.org_id,
		title = excluded.title,
		slug = excluded.slug,
		venue = excluded.venue,
		city = excluded.city,
		status = excluded.status,
		starts_at = excluded.starts_at,
		ends_at = excluded.ends_at,
		cover_image_url = excluded.cover_image_url,
		created_at = excluded.created_at,
		updated_at = excluded.updated_at
	`,
		event.ID,
		event.OrgID,
		event.Title,
		event.Slug,
		event.Venue,
		event.City,
		string(event.Status),
		toMillis(event.StartsAt),
		toMillis(event.EndsAt),
		event.CoverImageURL,
		toMillis(event.CreatedAt),
		toMillis(event.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put event: %w", err)
	}
	return nil
}

// GetEvent loads one org event by id.
func (s *Store) GetEvent(ctx context.Context, orgID, id string) (domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return domain.Event{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Event{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+eventColumns+`
FROM events
WHERE org_id = ? AND id = ?
`, orgID, id)
	event, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListEvents lists org events newest-first, strictly after the cursor when
// one is given.
func (s *Store) ListEvents(ctx context.Context, orgID string, filter domain.EventFilter, limit int, after *domain.EventCursor) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	query := `
SELECT ` + eventColumns + `
FROM events
WHERE org_id = ?`
	args := []any{orgID}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Search != "" {
		query += ` AND LOWER(title) LIKE ?`
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if after != nil {
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		args = append(args, toMillis(after.CreatedAt), toMillis(after.CreatedAt), after.ID)
	}
	query += `
ORDER BY created_at DESC, id DESC
LIMIT ?`
	args = append(args, limit)

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Event, 0, limit)
	for rows.Next() {
		event, scanErr := scanEvent(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan event row: %w", scanErr)
		}
		results = append(results, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}
	return results, nil
}

// DeleteEvent removes one org event. Ticket types and demographic rows
// cascade with it.
func (s *Store) DeleteEvent(ctx context.Context, orgID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM events
WHERE org_id = ? AND id = ?
`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountEventSlug counts org events using slug, excluding excludeID.
func (s *Store) CountEventSlug(ctx context.Context, orgID, slug, excludeID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}

	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `
SELECT COUNT(1)
FROM events
WHERE org_id = ? AND slug = ? AND id != ?
`, orgID, slug, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count event slug: %w", err)
	}
	return count, nil
}

const ticketColumns = `id, event_id, name, price_cents, currency, quantity, sold, sales_start_at, sales_end_at, max_per_order, hidden`

func scanTicketType(scan scanner) (domain.TicketType, error) {
	var ticket domain.TicketType
	var salesStartAt, salesEndAt int64
	var hidden int
	if err := scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.Name,
		&ticket.PriceCents,
		&ticket.Currency,
		&ticket.Quantity,
		&ticket.Sold,
		&salesStartAt,
		&salesEndAt,
		&ticket.MaxPerOrder,
		&hidden,
	); err != nil {
		return domain.TicketType{}, err
	}
	ticket.SalesStartAt = fromMillis(salesStartAt)
	ticket.SalesEndAt = fromMillis(salesEndAt)
	ticket.Hidden = hidden != 0
	return ticket, nil
}

// PutTicketType upserts one ticket type row.
func (s *Store) PutTicketType(ctx context.Context, ticket domain.TicketType) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(ticket.ID) == "" {
		return fmt.Errorf("ticket type id is required")
	}
	if strings.TrimSpace(ticket.EventID) == "" {
		return fmt.Errorf("ticket type event id is required")
	}

	hidden := 0
	if ticket.Hidden {
		hidden = 1
	}
	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO ticket_types (
		id, event_id, name, price_cents, currency, quantity, sold, sales_start_at, sales_end_at, max_per_order, hidden
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		event_id = excluded.event_id,
		name = excluded.name,
		price_cents = excluded.price_cents,
		currency = excluded.currency,
		quantity = excluded.quantity,
		sold = excluded.sold,
		sales_start_at = excluded.sales_start_at,
		sales_end_at = excluded.sales_end_at,
		max_per_order = excluded.max_per_order,
		hidden = excluded.hidden
	`,
		ticket.ID,
		ticket.EventID,
		ticket.Name,
		ticket.PriceCents,
		ticket.Currency,
		ticket.Quantity,
		ticket.Sold,
		toMillis(ticket.SalesStartAt),
		toMillis(ticket.SalesEndAt),
		ticket.MaxPerOrder,
		hidden,
	)
	if err != nil {
		return fmt.Errorf("put ticket type: %w", err)
	}
	return nil
}

// GetTicketType loads one ticket type by id.
func (s *Store) GetTicketType(ctx context.Context, id string) (domain.TicketType, error) {
	if err := ctx.Err(); err != nil {
		return domain.TicketType{}, err
	}
	if err := s.ready(); err != nil {
		return domain.TicketType{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+ticketColumns+`
FROM ticket_types
WHERE id = ?
`, id)
	ticket, err := scanTicketType(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TicketType{}, domain.ErrNotFound
		}
		return domain.TicketType{}, fmt.Errorf("get ticket type: %w", err)
	}
	return ticket, nil
}

// ListTicketTypes lists an event's ticket types ordered by id.
func (s *Store) ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+ticketColumns+`
FROM ticket_types
WHERE event_id = ?
ORDER BY id ASC
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	defer rows.Close()

	var results []domain.TicketType
	for rows.Next() {
		ticket, scanErr := scanTicketType(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan ticket type row: %w", scanErr)
		}
		results = append(results, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticket type rows: %w", err)
	}
	return results, nil
}

// DeleteTicketType removes one ticket type by id.
func (s *Store) DeleteTicketType(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM ticket_types
WHERE id = ?
`, id)
	if err != nil {
		return fmt.Errorf("delete ticket type: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ticket type rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const memberColumns = `id, org_id, user_id, name, email, role, status, invited_at, joined_at`

func scanMember(scan scanner) (domain.TeamMember, error) {
	var member domain.TeamMember
	var invitedAt int64
	var joinedAt sql.NullInt64
	if err := scan(
		&member.ID,
		&member.OrgID,
		&member.UserID,
		&member.Name,
		&member.Email,
		&member.Role,
		&member.Status,
		&invitedAt,
		&joinedAt,
	); err != nil {
		return domain.TeamMember{}, err
	}
	member.InvitedAt = fromMillis(invitedAt)
	if joinedAt.Valid {
		value := fromMillis(joinedAt.Int64)
		member.JoinedAt = &value
	}
	return member, nil
}

// PutMember upserts one team member row.
func (s *Store) PutMember(ctx context.Context, member domain.TeamMember) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(member.ID) == "" {
		return fmt.Errorf("member id is required")
	}
	if strings.TrimSpace(member.OrgID) == "" {
		return fmt.Errorf("member org id is required")
	}

	var joinedAt sql.NullInt64
	if member.JoinedAt != nil {
		joinedAt = sql.NullInt64{Int64: toMillis(*member.JoinedAt), Valid: true}
	}
	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO team_members (
		id, org_id, user_id, name, email, role, status, invited_at, joined_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		org_id = excluded.org_id,
		user_id = excluded.user_id,
		name = excluded.name,
		email = excluded.email,
		role = excluded.role,
		status = excluded.status,
		invited_at = excluded.invited_at,
		joined_at = excluded.joined_at
	`,
		member.ID,
		member.OrgID,
		member.UserID,
		member.Name,
		member.Email,
		string(member.Role),
		string(member.Status),
		toMillis(member.InvitedAt),
		joinedAt,
	)
	if err != nil {
		return fmt.Errorf("put member: %w", err)
	}
	return nil
}

// GetMember loads one org member by id.
func (s *Store) GetMember(ctx context.Context, orgID, id string) (domain.TeamMember, error) {
	if err := ctx.Err(); err != nil {
		return domain.TeamMember{}, err
	}
	if err := s.ready(); err != nil {
		return domain.TeamMember{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+memberColumns+`
FROM team_members
WHERE org_id = ? AND id = ?
`, orgID, id)
	member, err := scanMember(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TeamMember{}, domain.ErrNotFound
		}
		return domain.TeamMember{}, fmt.Errorf("get member: %w", err)
	}
	return member, nil
}

// GetMemberByEmail loads one org member by email.
func (s *Store) GetMemberByEmail(ctx context.Context, orgID, email string) (domain.TeamMember, error) {
	if err := ctx.Err(); err != nil {
		return domain.TeamMember{}, err
	}
	if err := s.ready(); err != nil {
		return domain.TeamMember{}, err
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT `+memberColumns+`
FROM team_members
WHERE org_id = ? AND email = ?
`, orgID, email)
	member, err := scanMember(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TeamMember{}, domain.ErrNotFound
		}
		return domain.TeamMember{}, fmt.Errorf("get member by email: %w", err)
	}
	return member, nil
}

// ListMembers lists org members ordered by id.
func (s *Store) ListMembers(ctx context.Context, orgID string) ([]domain.TeamMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT `+memberColumns+`
FROM team_members
WHERE org_id = ?
ORDER BY id ASC
`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var results []domain.TeamMember
	for rows.Next() {
		member, scanErr := scanMember(rows.Scan)
		if scanErr != nil {
			return nil, fmt.Errorf("scan member row: %w", scanErr)
		}
		results = append(results, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member rows: %w", err)
	}
	return results, nil
}

// DeleteMember removes one org member. The member's notification preference
// rows cascade with it.
func (s *Store) DeleteMember(ctx context.Context, orgID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM team_members
WHERE org_id = ? AND id = ?
`, orgID, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete member rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountOwners counts the org's owner-role members.
func (s *Store) CountOwners(ctx context.Context, orgID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}

	var count int
	if err := s.sqlDB.QueryRowContext(ctx, `
SELECT COUNT(1)
FROM team_members
WHERE org_id = ? AND role = ?
`, orgID, string(domain.RoleOwner)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count owners: %w", err)
	}
	return count, nil
}

// ListPrefs returns the member's stored preference cells. Cells never written
// are absent from the returned matrix.
func (s *Store) ListPrefs(ctx context.Context, orgID, memberID string) (domain.PrefsMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT category, channel, enabled
FROM notification_prefs
WHERE org_id = ? AND member_id = ?
`, orgID, memberID)
	if err != nil {
		return nil, fmt.Errorf("list prefs: %w", err)
	}
	defer rows.Close()

	matrix := make(domain.PrefsMatrix)
	for rows.Next() {
		var category domain.Category
		var channel domain.Channel
		var enabled int
		if err := rows.Scan(&category, &channel, &enabled); err != nil {
			return nil, fmt.Errorf("scan pref row: %w", err)
		}
		if matrix[category] == nil {
			matrix[category] = make(map[domain.Channel]bool)
		}
		matrix[category][channel] = enabled != 0
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pref rows: %w", err)
	}
	return matrix, nil
}

// SetPref upserts one preference cell.
func (s *Store) SetPref(ctx context.Context, orgID, memberID string, category domain.Category, channel domain.Channel, enabled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	value := 0
	if enabled {
		value = 1
	}
	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO notification_prefs (org_id, member_id, category, channel, enabled)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(org_id, member_id, category, channel) DO UPDATE SET
		enabled = excluded.enabled
	`, orgID, memberID, string(category), string(channel), value)
	if err != nil {
		return fmt.Errorf("set pref: %w", err)
	}
	return nil
}

// GetPaymentSettings loads the org's payout configuration. An org with no
// methods yet gets empty settings, not an error.
func (s *Store) GetPaymentSettings(ctx context.Context, orgID string) (domain.PaymentSettings, error) {
	if err := ctx.Err(); err != nil {
		return domain.PaymentSettings{}, err
	}
	if err := s.ready(); err != nil {
		return domain.PaymentSettings{}, err
	}

	settings := domain.PaymentSettings{OrgID: orgID}
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT default_method_id
FROM payment_settings
WHERE org_id = ?
`, orgID).Scan(&settings.DefaultMethodID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.PaymentSettings{}, fmt.Errorf("get payment settings: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, kind, label, last4
FROM payment_methods
WHERE org_id = ?
ORDER BY rowid ASC
`, orgID)
	if err != nil {
		return domain.PaymentSettings{}, fmt.Errorf("list payment methods: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var method domain.PaymentMethod
		if err := rows.Scan(&method.ID, &method.Kind, &method.Label, &method.Last4); err != nil {
			return domain.PaymentSettings{}, fmt.Errorf("scan payment method row: %w", err)
		}
		settings.Methods = append(settings.Methods, method)
	}
	if err := rows.Err(); err != nil {
		return domain.PaymentSettings{}, fmt.Errorf("iterate payment method rows: %w", err)
	}
	return settings, nil
}

// PutPaymentMethod upserts one payout destination.
func (s *Store) PutPaymentMethod(ctx context.Context, orgID string, method domain.PaymentMethod) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(method.ID) == "" {
		return fmt.Errorf("payment method id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO payment_methods (id, org_id, kind, label, last4)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		org_id = excluded.org_id,
		kind = excluded.kind,
		label = excluded.label,
		last4 = excluded.last4
	`, method.ID, orgID, string(method.Kind), method.Label, method.Last4)
	if err != nil {
		return fmt.Errorf("put payment method: %w", err)
	}
	return nil
}

// SetDefaultPaymentMethod records the org's default payout destination.
func (s *Store) SetDefaultPaymentMethod(ctx context.Context, orgID, methodID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO payment_settings (org_id, default_method_id)
	VALUES (?, ?)
	ON CONFLICT(org_id) DO UPDATE SET
		default_method_id = excluded.default_method_id
	`, orgID, methodID)
	if err != nil {
		return fmt.Errorf("set default payment method: %w", err)
	}
	return nil
}

// PutDailyStat upserts one day of traffic and sales for an org event.
func (s *Store) PutDailyStat(ctx context.Context, stat domain.DailyStat) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(stat.OrgID) == "" {
		return fmt.Errorf("daily stat org id is required")
	}
	if strings.TrimSpace(stat.Day) == "" {
		return fmt.Errorf("daily stat day is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO daily_stats (org_id, event_id, day, page_views, tickets_sold, revenue_cents)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(org_id, event_id, day) DO UPDATE SET
		page_views = excluded.page_views,
		tickets_sold = excluded.tickets_sold,
		revenue_cents = excluded.revenue_cents
	`, stat.OrgID, stat.EventID, stat.Day, stat.PageViews, stat.TicketsSold, stat.RevenueCents)
	if err != nil {
		return fmt.Errorf("put daily stat: %w", err)
	}
	return nil
}

// SummarizeStats aggregates org stats per day over the inclusive range,
// oldest day first.
func (s *Store) SummarizeStats(ctx context.Context, orgID, fromDay, toDay string) (domain.AnalyticsSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.AnalyticsSummary{}, err
	}
	if err := s.ready(); err != nil {
		return domain.AnalyticsSummary{}, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT day, SUM(page_views), SUM(tickets_sold), SUM(revenue_cents)
FROM daily_stats
WHERE org_id = ? AND day >= ? AND day <= ?
GROUP BY day
ORDER BY day ASC
`, orgID, fromDay, toDay)
	if err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("summarize stats: %w", err)
	}
	defer rows.Close()

	var summary domain.AnalyticsSummary
	for rows.Next() {
		day := domain.DailyStat{OrgID: orgID}
		if err := rows.Scan(&day.Day, &day.PageViews, &day.TicketsSold, &day.RevenueCents); err != nil {
			return domain.AnalyticsSummary{}, fmt.Errorf("scan daily stat row: %w", err)
		}
		summary.Days = append(summary.Days, day)
		summary.PageViews += day.PageViews
		summary.TicketsSold += day.TicketsSold
		summary.RevenueCents += day.RevenueCents
	}
	if err := rows.Err(); err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("iterate daily stat rows: %w", err)
	}
	return summary, nil
}

// PutDemographicRow upserts one audience bucket for an event.
func (s *Store) PutDemographicRow(ctx context.Context, row domain.DemographicRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(row.EventID) == "" {
		return fmt.Errorf("demographic event id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
	INSERT INTO event_demographics (event_id, kind, bucket, count)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(event_id, kind, bucket) DO UPDATE SET
		count = excluded.count
	`, row.EventID, string(row.Kind), row.Bucket, row.Count)
	if err != nil {
		return fmt.Errorf("put demographic row: %w", err)
	}
	return nil
}

// ListDemographics lists an event's audience buckets grouped by kind.
func (s *Store) ListDemographics(ctx context.Context, eventID string) ([]domain.DemographicRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT kind, bucket, count
FROM event_demographics
WHERE event_id = ?
ORDER BY kind ASC, bucket ASC
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list demographics: %w", err)
	}
	defer rows.Close()

	var results []domain.DemographicRow
	for rows.Next() {
		row := domain.DemographicRow{EventID: eventID}
		if err := rows.Scan(&row.Kind, &row.Bucket, &row.Count); err != nil {
			return nil, fmt.Errorf("scan demographic row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demographic rows: %w", err)
	}
	return results, nil
}
