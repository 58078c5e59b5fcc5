// Package seed populates a development database with a demo organization.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/tikdhq/tikd/internal/auth"
	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/internal/dashboard/storage/sqlite"
	entrypoint "github.com/tikdhq/tikd/internal/platform/cmd"
	"github.com/tikdhq/tikd/internal/platform/requestctx"
)

// Config holds seed command configuration.
type Config struct {
	DBPath     string `env:"TIKD_DB_PATH"`
	AuthSecret string `env:"TIKD_AUTH_SECRET"`
	AuthIssuer string `env:"TIKD_AUTH_ISSUER" envDefault:"tikd"`
	Days       int    `env:"TIKD_SEED_DAYS" envDefault:"30"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the dashboard SQLite database")
	fs.IntVar(&cfg.Days, "days", cfg.Days, "Days of analytics history to generate")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "dashboard.db")
	}
	if cfg.Days <= 0 {
		cfg.Days = 30
	}
	return cfg, nil
}

// Run seeds the database and prints a development access token.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if strings.TrimSpace(cfg.AuthSecret) == "" {
		return errors.New("auth secret is required to mint a dev token")
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	owner, err := Apply(ctx, store, time.Now().UTC(), cfg.Days)
	if err != nil {
		return err
	}

	token, err := auth.Mint(auth.Config{
		Issuer: cfg.AuthIssuer,
		Secret: []byte(cfg.AuthSecret),
	}, requestctx.Actor{OrgID: owner.OrgID, MemberID: owner.ID, Role: string(owner.Role)})
	if err != nil {
		return fmt.Errorf("mint dev token: %w", err)
	}

	fmt.Fprintf(out, "seeded org %s into %s\n", owner.OrgID, cfg.DBPath)
	fmt.Fprintf(out, "dev token (owner %s):\n%s\n", owner.Email, token)
	return nil
}

// Apply writes the demo dataset and returns the seeded owner member. It is
// idempotent: rerunning replaces the same rows.
func Apply(ctx context.Context, store *sqlite.Store, now time.Time, days int) (domain.TeamMember, error) {
	if store == nil {
		return domain.TeamMember{}, errors.New("store is required")
	}
	now = now.UTC()

	org := domain.Organization{
		ID:        "org-demo",
		Name:      "Moonlight Events",
		Slug:      "moonlight-events",
		CreatedAt: now.AddDate(-1, 0, 0),
	}
	if err := store.PutOrganization(ctx, org); err != nil {
		return domain.TeamMember{}, err
	}

	joined := org.CreatedAt.Add(24 * time.Hour)
	owner := domain.TeamMember{
		ID:        "mem-owner",
		OrgID:     org.ID,
		UserID:    "user-owner",
		Name:      "Olivia Duarte",
		Email:     "olivia@moonlight.events",
		Role:      domain.RoleOwner,
		Status:    domain.MemberStatusActive,
		InvitedAt: org.CreatedAt,
		JoinedAt:  &joined,
	}
	members := []domain.TeamMember{
		owner,
		{
			ID: "mem-admin", OrgID: org.ID, UserID: "user-admin",
			Name: "Marco Lins", Email: "marco@moonlight.events",
			Role: domain.RoleAdmin, Status: domain.MemberStatusActive,
			InvitedAt: org.CreatedAt, JoinedAt: &joined,
		},
		{
			ID: "mem-promoter", OrgID: org.ID,
			Name: "Rita Campos", Email: "rita@moonlight.events",
			Role: domain.RolePromoter, Status: domain.MemberStatusPending,
			InvitedAt: now.AddDate(0, 0, -3),
		},
	}
	for _, member := range members {
		if err := store.PutMember(ctx, member); err != nil {
			return domain.TeamMember{}, err
		}
	}

	events := []domain.Event{
		{
			ID: "evt-harbor", OrgID: org.ID, Title: "Harbor Lights Festival",
			Slug: "harbor-lights-festival", Venue: "Pier 9", City: "Lisbon",
			Status:   domain.EventStatusPublished,
			StartsAt: now.AddDate(0, 1, 0), EndsAt: now.AddDate(0, 1, 2),
			CreatedAt: now.AddDate(0, -2, 0), UpdatedAt: now.AddDate(0, 0, -7),
		},
		{
			ID: "evt-loft", OrgID: org.ID, Title: "Loft Sessions",
			Slug: "loft-sessions", Venue: "The Loft", City: "Porto",
			Status:   domain.EventStatusDraft,
			StartsAt: now.AddDate(0, 2, 0), EndsAt: now.AddDate(0, 2, 0).Add(6 * time.Hour),
			CreatedAt: now.AddDate(0, 0, -10), UpdatedAt: now.AddDate(0, 0, -10),
		},
	}
	for _, event := range events {
		if err := store.PutEvent(ctx, event); err != nil {
			return domain.TeamMember{}, err
		}
	}

	tickets := []domain.TicketType{
		{
			ID: "tkt-harbor-ga", EventID: "evt-harbor", Name: "General Admission",
			PriceCents: 4500, Currency: "EUR", Quantity: 800, Sold: 512,
			SalesStartAt: now.AddDate(0, -2, 0), SalesEndAt: now.AddDate(0, 1, 0),
			MaxPerOrder: 10,
		},
		{
			ID: "tkt-harbor-vip", EventID: "evt-harbor", Name: "VIP",
			PriceCents: 12000, Currency: "EUR", Quantity: 80, Sold: 44,
			SalesStartAt: now.AddDate(0, -2, 0), SalesEndAt: now.AddDate(0, 1, 0),
			MaxPerOrder: 4,
		},
		{
			ID: "tkt-loft-early", EventID: "evt-loft", Name: "Early Bird",
			PriceCents: 2500, Currency: "EUR", Quantity: 120,
			SalesStartAt: now, SalesEndAt: now.AddDate(0, 2, 0),
			MaxPerOrder: 6, Hidden: true,
		},
	}
	for _, ticket := range tickets {
		if err := store.PutTicketType(ctx, ticket); err != nil {
			return domain.TeamMember{}, err
		}
	}

	if err := store.PutPaymentMethod(ctx, org.ID, domain.PaymentMethod{
		ID: "pm-bank", Kind: domain.PaymentMethodBank, Label: "Payout account", Last4: "0917",
	}); err != nil {
		return domain.TeamMember{}, err
	}
	if err := store.SetDefaultPaymentMethod(ctx, org.ID, "pm-bank"); err != nil {
		return domain.TeamMember{}, err
	}

	for offset := 0; offset < days; offset++ {
		day := now.AddDate(0, 0, -offset)
		sold := int64(3 + offset%7)
		stat := domain.DailyStat{
			OrgID:        org.ID,
			EventID:      "evt-harbor",
			Day:          day.Format("2006-01-02"),
			PageViews:    int64(200 + 37*(offset%11)),
			TicketsSold:  sold,
			RevenueCents: sold * 4500,
		}
		if err := store.PutDailyStat(ctx, stat); err != nil {
			return domain.TeamMember{}, err
		}
	}

	demographics := []domain.DemographicRow{
		{EventID: "evt-harbor", Kind: domain.DemographicAge, Bucket: "18-24", Count: 180},
		{EventID: "evt-harbor", Kind: domain.DemographicAge, Bucket: "25-34", Count: 260},
		{EventID: "evt-harbor", Kind: domain.DemographicAge, Bucket: "35-44", Count: 90},
		{EventID: "evt-harbor", Kind: domain.DemographicCity, Bucket: "Lisbon", Count: 340},
		{EventID: "evt-harbor", Kind: domain.DemographicCity, Bucket: "Porto", Count: 120},
	}
	for _, row := range demographics {
		if err := store.PutDemographicRow(ctx, row); err != nil {
			return domain.TeamMember{}, err
		}
	}

	return owner, nil
}
