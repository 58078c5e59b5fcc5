package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/internal/dashboard/storage/sqlite"
	"github.com/tikdhq/tikd/internal/platform/httpx"
	"github.com/tikdhq/tikd/internal/platform/requestctx"
)

// withActor injects an authenticated identity the way the app's auth
// middleware would.
func withActor(identity requestctx.Actor) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestctx.WithActor(r.Context(), identity)))
		})
	}
}

func newTestHandler(t *testing.T, identity requestctx.Actor) (http.Handler, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Fatalf("close store: %v", closeErr)
		}
	})

	svc := Services{
		Events:    domain.NewEventService(store, store, nil, nil),
		Tickets:   domain.NewTicketService(store, store, nil, nil),
		Team:      domain.NewTeamService(store, nil, nil),
		Prefs:     domain.NewPrefsService(store),
		Payments:  domain.NewPaymentService(store, nil),
		Analytics: domain.NewAnalyticsService(store, store, nil),
	}

	var middleware []httpx.Middleware
	if identity.OrgID != "" {
		middleware = append(middleware, withActor(identity))
	}
	return NewHandler(svc, middleware...), store
}

func seedTestOrg(t *testing.T, store *sqlite.Store, orgID string) {
	t.Helper()
	if err := store.PutOrganization(context.Background(), domain.Organization{
		ID:        orgID,
		Name:      "Org " + orgID,
		Slug:      orgID,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed org: %v", err)
	}
}

func doJSON(t *testing.T, handler http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	if err := json.Unmarshal(recorder.Body.Bytes(), &value); err != nil {
		t.Fatalf("decode response body %q: %v", recorder.Body.String(), err)
	}
	return value
}

func TestHealthzNeedsNoAuth(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t, requestctx.Actor{})
	recorder := doJSON(t, handler, http.MethodGet, "/healthz", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
}

func TestEventsRequireAuth(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(t, requestctx.Actor{})
	recorder := doJSON(t, handler, http.MethodGet, "/api/v1/events", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", recorder.Code)
	}
}

func TestEventLifecycleOverHTTP(t *testing.T) {
	t.Parallel()

	identity := requestctx.Actor{OrgID: "org-1", MemberID: "mem-1", Role: string(domain.RoleOwner)}
	handler, store := newTestHandler(t, identity)
	seedTestOrg(t, store, "org-1")

	created := doJSON(t, handler, http.MethodPost, "/api/v1/events", map[string]any{
		"title": "Riverside Sessions",
		"venue": "Riverside Hall",
		"city":  "Porto",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create event: expected 201, got %d body %s", created.Code, created.Body.String())
	}
	event := decodeBody[domain.Event](t, created)
	if event.Slug != "riverside-sessions" || event.Status != domain.EventStatusDraft {
		t.Fatalf("unexpected created event %+v", event)
	}

	// Publishing before any visible ticket type exists is a conflict.
	blocked := doJSON(t, handler, http.MethodPost, "/api/v1/events/"+event.ID+"/publish", nil)
	if blocked.Code != http.StatusConflict {
		t.Fatalf("publish without tickets: expected 409, got %d", blocked.Code)
	}
	if !strings.Contains(blocked.Body.String(), "ticket") {
		t.Fatalf("expected plain-text reason, got %q", blocked.Body.String())
	}

	ticketCreated := doJSON(t, handler, http.MethodPost, "/api/v1/events/"+event.ID+"/ticket-types", map[string]any{
		"name":       "General Admission",
		"priceCents": 3500,
		"currency":   "eur",
		"quantity":   300,
	})
	if ticketCreated.Code != http.StatusCreated {
		t.Fatalf("create ticket type: expected 201, got %d body %s", ticketCreated.Code, ticketCreated.Body.String())
	}
	ticket := decodeBody[domain.TicketType](t, ticketCreated)
	if ticket.Currency != "EUR" {
		t.Fatalf("expected normalized currency, got %q", ticket.Currency)
	}

	published := doJSON(t, handler, http.MethodPost, "/api/v1/events/"+event.ID+"/publish", nil)
	if published.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d body %s", published.Code, published.Body.String())
	}
	if decodeBody[domain.Event](t, published).Status != domain.EventStatusPublished {
		t.Fatal("expected published status")
	}

	updated := doJSON(t, handler, http.MethodPatch, "/api/v1/events/"+event.ID, map[string]any{
		"city": "Lisbon",
	})
	if updated.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d body %s", updated.Code, updated.Body.String())
	}
	full := decodeBody[domain.Event](t, updated)
	if full.City != "Lisbon" || full.Title != "Riverside Sessions" {
		t.Fatalf("expected full entity with patched city, got %+v", full)
	}

	listed := doJSON(t, handler, http.MethodGet, "/api/v1/events?status=published", nil)
	if listed.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", listed.Code)
	}
	page := decodeBody[domain.EventPage](t, listed)
	if len(page.Events) != 1 || page.Events[0].ID != event.ID {
		t.Fatalf("unexpected listing %+v", page)
	}

	deleted := doJSON(t, handler, http.MethodDelete, "/api/v1/events/"+event.ID, nil)
	if deleted.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", deleted.Code)
	}
	missing := doJSON(t, handler, http.MethodGet, "/api/v1/events/"+event.ID, nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", missing.Code)
	}
}

func TestEventSlugConflictIsPlainText(t *testing.T) {
	t.Parallel()

	identity := requestctx.Actor{OrgID: "org-1", MemberID: "mem-1", Role: string(domain.RoleOwner)}
	handler, store := newTestHandler(t, identity)
	seedTestOrg(t, store, "org-1")

	first := doJSON(t, handler, http.MethodPost, "/api/v1/events", map[string]any{"title": "Gala Night"})
	if first.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", first.Code)
	}
	second := doJSON(t, handler, http.MethodPost, "/api/v1/events", map[string]any{"title": "Gala Night"})
	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate slug: expected 409, got %d", second.Code)
	}
	if contentType := second.Header().Get("Content-Type"); !strings.HasPrefix(contentType, "text/plain") {
		t.Fatalf("expected plain-text error, got %q", contentType)
	}
	if !strings.Contains(second.Body.String(), "slug") {
		t.Fatalf("unexpected error body %q", second.Body.String())
	}
}

func TestTeamMutationsRequireManagerRole(t *testing.T) {
	t.Parallel()

	identity := requestctx.Actor{OrgID: "org-1", MemberID: "mem-1", Role: string(domain.RolePromoter)}
	handler, store := newTestHandler(t, identity)
	seedTestOrg(t, store, "org-1")

	listed := doJSON(t, handler, http.MethodGet, "/api/v1/team", nil)
	if listed.Code != http.StatusOK {
		t.Fatalf("promoters may read roster, got %d", listed.Code)
	}

	invited := doJSON(t, handler, http.MethodPost, "/api/v1/team/invites", map[string]any{
		"name": "Ana", "email": "ana@example.com", "role": "manager",
	})
	if invited.Code != http.StatusForbidden {
		t.Fatalf("promoter invite: expected 403, got %d", invited.Code)
	}
}

func TestTeamInviteRoleAndLastOwnerGuard(t *testing.T) {
	t.Parallel()

	identity := requestctx.Actor{OrgID: "org-1", MemberID: "mem-owner", Role: string(domain.RoleOwner)}
	handler, store := newTestHandler(t, identity)
	seedTestOrg(t, store, "org-1")
	if err := store.PutMember(context.Background(), domain.TeamMember{
		ID: "mem-owner", OrgID: "org-1", Name: "Olivia", Email: "olivia@example.com",
		Role: domain.RoleOwner, Status: domain.MemberStatusActive,
		InvitedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed owner: %v", err)
	}

	invited := doJSON(t, handler, http.MethodPost, "/api/v1/team/invites", map[string]any{
		"name": "Ana", "email": "Ana@Example.com", "role": "manager",
	})
	if invited.Code != http.StatusCreated {
		t.Fatalf("invite: expected 201, got %d body %s", invited.Code, invited.Body.String())
	}
	member := decodeBody[domain.TeamMember](t, invited)
	if member.Email != "ana@example.com" || member.Status != domain.MemberStatusPending {
		t.Fatalf("unexpected invited member %+v", member)
	}

	promoted := doJSON(t, handler, http.MethodPatch, "/api/v1/team/"+member.ID+"/role", map[string]any{"role": "admin"})
	if promoted.Code != http.StatusOK {
		t.Fatalf("role change: expected 200, got %d body %s", promoted.Code, promoted.Body.String())
	}

	demoted := doJSON(t, handler, http.MethodPatch, "/api/v1/team/mem-owner/role", map[string]any{"role": "manager"})
	if demoted.Code != http.StatusConflict {
		t.Fatalf("last owner demotion: expected 409, got %d", demoted.Code)
	}

	removed := doJSON(t, handler, http.MethodDelete, "/api/v1/team/"+member.ID, nil)
	if removed.Code != http.StatusNoContent {
		t.Fatalf("remove member: expected 204, got %d", removed.Code)
	}
}

func TestTogglePrefReturnsWholeMatrix(t *testing.T) {
	t.Parallel()

	identity := requestctx.Actor{OrgID: "org-1", MemberID: "mem-1", Role: string(domain.RoleManager)}
	handler, store := newTestHandler(t, identity)
	seedTestOrg(t, store, "org-1")
	if err := store.PutMember(context.Background(), domain.TeamMember{
		ID: "mem-1", OrgID: "org-1", Name: "Ana", Email: "ana@example.com",
		Role: domain.RoleManager, Status: domain.MemberStatusActive,
		InvitedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	recorder := doJSON(t, handler, http.MethodPatch, "/api/v1/settings/notifications", map[string]any{
		"category": "sales", "channel": "sms", "enabled": true,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d body %s", recorder.Code, recorder.Body.String())
	}
	matrix := decodeBody[domain.PrefsMatrix](t, recorder)
	if len(matrix) != len(domain.Categories()) {
		t.Fatalf("expected whole matrix, got %d rows", len(matrix))
	}
	if !matrix[domain.CategorySales][domain.ChannelSMS] {
		t.Fatal("expected toggled cell to be enabled")
	}
	if !matrix[domain.CategoryReminders][domain.ChannelEmail] {
		t.Fatal("expected untouched cells to keep defaults")
	}

	invalid := doJSON(t, handler, http.MethodPatch, "/api/v1/settings/notifications", map[string]any{
		"category": "gossip", "channel": "sms", "enabled": true,
	})
	if invalid.Code != http.StatusBadRequest {
		t.Fatalf("invalid category: expected 400, got %d", invalid.Code)
	}
}

func TestPaymentDefaultRequiresKnownMethod(t *testing.T) {
	t.Parallel()

	identity := requestctx.Actor{OrgID: "org-1", MemberID: "mem-1", Role: string(domain.RoleAdmin)}
	handler, store := newTestHandler(t, identity)
	seedTestOrg(t, store, "org-1")

	unknown := doJSON(t, handler, http.MethodPatch, "/api/v1/settings/payments/default", map[string]any{"methodId": "pm-missing"})
	if unknown.Code != http.StatusConflict {
		t.Fatalf("unknown method: expected 409, got %d body %s", unknown.Code, unknown.Body.String())
	}

	added := doJSON(t, handler, http.MethodPost, "/api/v1/settings/payments/methods", map[string]any{
		"kind": "bank", "label": "Payout account", "last4": "0001",
	})
	if added.Code != http.StatusCreated {
		t.Fatalf("add method: expected 201, got %d body %s", added.Code, added.Body.String())
	}
	settings := decodeBody[domain.PaymentSettings](t, added)
	if len(settings.Methods) != 1 {
		t.Fatalf("expected one method, got %+v", settings)
	}

	set := doJSON(t, handler, http.MethodPatch, "/api/v1/settings/payments/default", map[string]any{
		"methodId": settings.Methods[0].ID,
	})
	if set.Code != http.StatusOK {
		t.Fatalf("set default: expected 200, got %d", set.Code)
	}
	if decodeBody[domain.PaymentSettings](t, set).DefaultMethodID != settings.Methods[0].ID {
		t.Fatal("expected default to stick")
	}
}

func TestAnalyticsSummaryAndDemographics(t *testing.T) {
	t.Parallel()

	identity := requestctx.Actor{OrgID: "org-1", MemberID: "mem-1", Role: string(domain.RoleOwner)}
	handler, store := newTestHandler(t, identity)
	seedTestOrg(t, store, "org-1")

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := store.PutEvent(context.Background(), domain.Event{
		ID: "evt-1", OrgID: "org-1", Title: "Gala", Slug: "gala", Status: domain.EventStatusPublished,
		StartsAt: now, EndsAt: now, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	for day, views := range map[string]int64{"2026-06-01": 120, "2026-06-02": 90} {
		if err := store.PutDailyStat(context.Background(), domain.DailyStat{
			OrgID: "org-1", EventID: "evt-1", Day: day, PageViews: views, TicketsSold: 3, RevenueCents: 9000,
		}); err != nil {
			t.Fatalf("seed stat %s: %v", day, err)
		}
	}
	if err := store.PutDemographicRow(context.Background(), domain.DemographicRow{
		EventID: "evt-1", Kind: domain.DemographicAge, Bucket: "25-34", Count: 42,
	}); err != nil {
		t.Fatalf("seed demographic: %v", err)
	}

	summaryRec := doJSON(t, handler, http.MethodGet, "/api/v1/analytics/summary?from=2026-06-01&to=2026-06-30", nil)
	if summaryRec.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d body %s", summaryRec.Code, summaryRec.Body.String())
	}
	summary := decodeBody[domain.AnalyticsSummary](t, summaryRec)
	if summary.PageViews != 210 || summary.TicketsSold != 6 || len(summary.Days) != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	badRange := doJSON(t, handler, http.MethodGet, "/api/v1/analytics/summary?from=2026-06-30&to=2026-06-01", nil)
	if badRange.Code != http.StatusBadRequest {
		t.Fatalf("inverted range: expected 400, got %d", badRange.Code)
	}

	demoRec := doJSON(t, handler, http.MethodGet, "/api/v1/events/evt-1/analytics/demographics", nil)
	if demoRec.Code != http.StatusOK {
		t.Fatalf("demographics: expected 200, got %d", demoRec.Code)
	}
	rows := decodeBody[[]domain.DemographicRow](t, demoRec)
	if len(rows) != 1 || rows[0].Bucket != "25-34" {
		t.Fatalf("unexpected demographics %+v", rows)
	}
}

func TestUnknownFieldsRejected(t *testing.T) {
	t.Parallel()

	identity := requestctx.Actor{OrgID: "org-1", MemberID: "mem-1", Role: string(domain.RoleOwner)}
	handler, store := newTestHandler(t, identity)
	seedTestOrg(t, store, "org-1")

	recorder := doJSON(t, handler, http.MethodPost, "/api/v1/events", map[string]any{
		"title": "Gala", "surprise": true,
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: expected 400, got %d body %s", recorder.Code, recorder.Body.String())
	}
}

func TestEventPaginationOverHTTP(t *testing.T) {
	t.Parallel()

	identity := requestctx.Actor{OrgID: "org-1", MemberID: "mem-1", Role: string(domain.RoleOwner)}
	handler, store := newTestHandler(t, identity)
	seedTestOrg(t, store, "org-1")

	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	for idx := 0; idx < 5; idx++ {
		if err := store.PutEvent(context.Background(), domain.Event{
			ID: fmt.Sprintf("evt-%d", idx), OrgID: "org-1",
			Title: fmt.Sprintf("Show %d", idx), Slug: fmt.Sprintf("show-%d", idx),
			Status:   domain.EventStatusDraft,
			StartsAt: base, EndsAt: base,
			CreatedAt: base.Add(time.Duration(idx) * time.Hour),
			UpdatedAt: base.Add(time.Duration(idx) * time.Hour),
		}); err != nil {
			t.Fatalf("seed event %d: %v", idx, err)
		}
	}

	first := doJSON(t, handler, http.MethodGet, "/api/v1/events?pageSize=2", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first page: expected 200, got %d", first.Code)
	}
	page := decodeBody[domain.EventPage](t, first)
	if len(page.Events) != 2 || page.Events[0].ID != "evt-4" || page.NextPageToken == "" {
		t.Fatalf("unexpected first page %+v", page)
	}

	second := doJSON(t, handler, http.MethodGet, "/api/v1/events?pageSize=2&pageToken="+page.NextPageToken, nil)
	if second.Code != http.StatusOK {
		t.Fatalf("second page: expected 200, got %d body %s", second.Code, second.Body.String())
	}
	next := decodeBody[domain.EventPage](t, second)
	if len(next.Events) != 2 || next.Events[0].ID != "evt-2" {
		t.Fatalf("unexpected second page %+v", next)
	}

	// Tokens are bound to the filter that minted them.
	mismatched := doJSON(t, handler, http.MethodGet, "/api/v1/events?pageSize=2&status=draft&pageToken="+page.NextPageToken, nil)
	if mismatched.Code != http.StatusBadRequest {
		t.Fatalf("filter-mismatched token: expected 400, got %d", mismatched.Code)
	}
}
