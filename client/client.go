// Package client is a typed Go client for the Tikd dashboard API. Reads are
// plain HTTP calls; settings and team mutations run through optimistic
// coordinators so callers see their change immediately and the server value
// or a rollback afterwards.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tikdhq/tikd/internal/dashboard/domain"
	"github.com/tikdhq/tikd/optimistic"
)

// Command kinds issued by the client's views.
const (
	kindTogglePref         optimistic.Kind = "prefs.toggle"
	kindInviteMember       optimistic.Kind = "team.invite"
	kindChangeMemberRole   optimistic.Kind = "team.change_role"
	kindChangeMemberStatus optimistic.Kind = "team.change_status"
	kindRemoveMember       optimistic.Kind = "team.remove"
	kindSetDefaultPayment  optimistic.Kind = "payments.set_default"
)

// Cache keys for the query results mutations invalidate.
const (
	keyPrefs    optimistic.Key = "settings/notifications"
	keyTeam     optimistic.Key = "team"
	keyPayments optimistic.Key = "settings/payments"
)

// Options configures a dashboard API client.
type Options struct {
	// BaseURL is the server root, such as https://api.tikd.example.
	BaseURL string
	// Token is the bearer access token scoping requests to one org.
	Token string
	// HTTPClient overrides http.DefaultClient when set.
	HTTPClient *http.Client
	// Notifier receives commit and rollback messages. Defaults to
	// optimistic.LogNotifier when nil.
	Notifier optimistic.Notifier
}

// Client calls the dashboard API on behalf of one organization member.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	executor *optimistic.Executor
	cache    *optimistic.QueryCache
	notifier optimistic.Notifier
}

// New creates a client for the given server and access token.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("base URL is required")
	}
	if strings.TrimSpace(opts.Token) == "" {
		return nil, errors.New("access token is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = optimistic.LogNotifier{}
	}

	executor := optimistic.NewExecutor(opts.BaseURL, httpClient, commandRoutes())
	executor.SetHeader("Authorization", "Bearer "+opts.Token)

	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		token:    opts.Token,
		http:     httpClient,
		executor: executor,
		cache:    optimistic.NewQueryCache(),
		notifier: notifier,
	}, nil
}

// commandRoutes maps every mutation kind the views issue to its endpoint.
func commandRoutes() map[optimistic.Kind]optimistic.Route {
	return map[optimistic.Kind]optimistic.Route{
		kindTogglePref: {
			Method: http.MethodPatch,
			Path:   func(any) string { return "/api/v1/settings/notifications" },
		},
		kindInviteMember: {
			Method: http.MethodPost,
			Path:   func(any) string { return "/api/v1/team/invites" },
		},
		kindChangeMemberRole: {
			Method: http.MethodPatch,
			Path: func(payload any) string {
				return "/api/v1/team/" + url.PathEscape(payload.(changeRolePayload).MemberID) + "/role"
			},
		},
		kindChangeMemberStatus: {
			Method: http.MethodPatch,
			Path: func(payload any) string {
				return "/api/v1/team/" + url.PathEscape(payload.(changeStatusPayload).MemberID) + "/status"
			},
		},
		kindRemoveMember: {
			Method: http.MethodDelete,
			Path: func(payload any) string {
				return "/api/v1/team/" + url.PathEscape(payload.(removeMemberPayload).MemberID)
			},
		},
		kindSetDefaultPayment: {
			Method: http.MethodPatch,
			Path:   func(any) string { return "/api/v1/settings/payments/default" },
		},
	}
}

// get issues one authenticated GET and decodes a 2xx JSON body into out.
// Non-2xx responses surface as *optimistic.RemoteCommandError so reads and
// commands fail the same way.
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", optimistic.ErrNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response body: %v", optimistic.ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &optimistic.RemoteCommandError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(body)),
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// fetchCached reads one query result through the client's shared cache.
// Committed mutations invalidate their keys, so the first read after a
// commit refetches from the server.
func fetchCached[T any](ctx context.Context, cache *optimistic.QueryCache, key optimistic.Key, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := cache.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache entry %q holds %T", key, value)
	}
	return typed, nil
}

// ListEventsOptions filters and paginates an event listing.
type ListEventsOptions struct {
	Status    domain.EventStatus
	Search    string
	PageSize  int
	PageToken string
}

// ListEvents returns one page of the org's events, newest first.
func (c *Client) ListEvents(ctx context.Context, opts ListEventsOptions) (domain.EventPage, error) {
	query := url.Values{}
	if opts.Status != "" {
		query.Set("status", string(opts.Status))
	}
	if opts.Search != "" {
		query.Set("search", opts.Search)
	}
	if opts.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.PageToken != "" {
		query.Set("pageToken", opts.PageToken)
	}
	path := "/api/v1/events"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page domain.EventPage
	if err := c.get(ctx, path, &page); err != nil {
		return domain.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	return page, nil
}

// GetEvent returns one event by ID.
func (c *Client) GetEvent(ctx context.Context, eventID string) (domain.Event, error) {
	var event domain.Event
	if err := c.get(ctx, "/api/v1/events/"+url.PathEscape(eventID), &event); err != nil {
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// ListTicketTypes returns an event's ticket tiers.
func (c *Client) ListTicketTypes(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	var tickets []domain.TicketType
	if err := c.get(ctx, "/api/v1/events/"+url.PathEscape(eventID)+"/ticket-types", &tickets); err != nil {
		return nil, fmt.Errorf("list ticket types: %w", err)
	}
	return tickets, nil
}

// AnalyticsSummary returns aggregated stats over an inclusive day range.
// Days are YYYY-MM-DD.
func (c *Client) AnalyticsSummary(ctx context.Context, from, to string) (domain.AnalyticsSummary, error) {
	query := url.Values{"from": {from}, "to": {to}}
	var summary domain.AnalyticsSummary
	if err := c.get(ctx, "/api/v1/analytics/summary?"+query.Encode(), &summary); err != nil {
		return domain.AnalyticsSummary{}, fmt.Errorf("analytics summary: %w", err)
	}
	return summary, nil
}

// EventDemographics returns an event's audience breakdown.
func (c *Client) EventDemographics(ctx context.Context, eventID string) ([]domain.DemographicRow, error) {
	var rows []domain.DemographicRow
	if err := c.get(ctx, "/api/v1/events/"+url.PathEscape(eventID)+"/analytics/demographics", &rows); err != nil {
		return nil, fmt.Errorf("event demographics: %w", err)
	}
	return rows, nil
}
