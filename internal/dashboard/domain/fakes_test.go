package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// fakeStore is an in-memory implementation of the domain store interfaces.
type fakeStore struct {
	mu           sync.Mutex
	orgs         map[string]Organization
	events       map[string]Event
	tickets      map[string]TicketType
	members      map[string]TeamMember
	prefs        map[string]bool // orgID/memberID/category/channel
	methods      map[string][]PaymentMethod
	defaults     map[string]string
	stats        []DailyStat
	demographics []DemographicRow
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orgs:     make(map[string]Organization),
		events:   make(map[string]Event),
		tickets:  make(map[string]TicketType),
		members:  make(map[string]TeamMember),
		prefs:    make(map[string]bool),
		methods:  make(map[string][]PaymentMethod),
		defaults: make(map[string]string),
	}
}

func (f *fakeStore) PutOrganization(_ context.Context, org Organization) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orgs[org.ID] = org
	return nil
}

func (f *fakeStore) GetOrganization(_ context.Context, id string) (Organization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	org, ok := f.orgs[id]
	if !ok {
		return Organization{}, ErrNotFound
	}
	return org, nil
}

func (f *fakeStore) PutEvent(_ context.Context, event Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.ID] = event
	return nil
}

func (f *fakeStore) GetEvent(_ context.Context, orgID, id string) (Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok || event.OrgID != orgID {
		return Event{}, ErrNotFound
	}
	return event, nil
}

func (f *fakeStore) ListEvents(_ context.Context, orgID string, filter EventFilter, limit int, after *EventCursor) ([]Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rows []Event
	for _, event := range f.events {
		if event.OrgID != orgID {
			continue
		}
		if filter.Status != "" && event.Status != filter.Status {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(event.Title), strings.ToLower(filter.Search)) {
			continue
		}
		rows = append(rows, event)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	if after != nil {
		trimmed := rows[:0]
		for _, event := range rows {
			if event.CreatedAt.After(after.CreatedAt) {
				continue
			}
			if event.CreatedAt.Equal(after.CreatedAt) && event.ID >= after.ID {
				continue
			}
			trimmed = append(trimmed, event)
		}
		rows = trimmed
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeStore) DeleteEvent(_ context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok || event.OrgID != orgID {
		return ErrNotFound
	}
	delete(f.events, id)
	for ticketID, ticket := range f.tickets {
		if ticket.EventID == id {
			delete(f.tickets, ticketID)
		}
	}
	return nil
}

func (f *fakeStore) CountEventSlug(_ context.Context, orgID, slug, excludeID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, event := range f.events {
		if event.OrgID == orgID && event.Slug == slug && event.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) PutTicketType(_ context.Context, ticket TicketType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets[ticket.ID] = ticket
	return nil
}

func (f *fakeStore) GetTicketType(_ context.Context, id string) (TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return TicketType{}, ErrNotFound
	}
	return ticket, nil
}

func (f *fakeStore) ListTicketTypes(_ context.Context, eventID string) ([]TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []TicketType
	for _, ticket := range f.tickets {
		if ticket.EventID == eventID {
			rows = append(rows, ticket)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (f *fakeStore) DeleteTicketType(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeStore) PutMember(_ context.Context, member TeamMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[member.ID] = member
	return nil
}

func (f *fakeStore) GetMember(_ context.Context, orgID, id string) (TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.members[id]
	if !ok || member.OrgID != orgID {
		return TeamMember{}, ErrNotFound
	}
	return member, nil
}

func (f *fakeStore) GetMemberByEmail(_ context.Context, orgID, email string) (TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, member := range f.members {
		if member.OrgID == orgID && member.Email == email {
			return member, nil
		}
	}
	return TeamMember{}, ErrNotFound
}

func (f *fakeStore) ListMembers(_ context.Context, orgID string) ([]TeamMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []TeamMember
	for _, member := range f.members {
		if member.OrgID == orgID {
			rows = append(rows, member)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (f *fakeStore) DeleteMember(_ context.Context, orgID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	member, ok := f.members[id]
	if !ok || member.OrgID != orgID {
		return ErrNotFound
	}
	delete(f.members, id)
	prefix := orgID + "/" + id + "/"
	for key := range f.prefs {
		if strings.HasPrefix(key, prefix) {
			delete(f.prefs, key)
		}
	}
	return nil
}

func (f *fakeStore) CountOwners(_ context.Context, orgID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, member := range f.members {
		if member.OrgID == orgID && member.Role == RoleOwner {
			count++
		}
	}
	return count, nil
}

func prefKey(orgID, memberID string, category Category, channel Channel) string {
	return fmt.Sprintf("%s/%s/%s/%s", orgID, memberID, category, channel)
}

func (f *fakeStore) ListPrefs(_ context.Context, orgID, memberID string) (PrefsMatrix, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	matrix := make(PrefsMatrix)
	for _, category := range Categories() {
		for _, channel := range Channels() {
			if enabled, ok := f.prefs[prefKey(orgID, memberID, category, channel)]; ok {
				if matrix[category] == nil {
					matrix[category] = make(map[Channel]bool)
				}
				matrix[category][channel] = enabled
			}
		}
	}
	return matrix, nil
}

func (f *fakeStore) SetPref(_ context.Context, orgID, memberID string, category Category, channel Channel, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefs[prefKey(orgID, memberID, category, channel)] = enabled
	return nil
}

func (f *fakeStore) GetPaymentSettings(_ context.Context, orgID string) (PaymentSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return PaymentSettings{
		OrgID:           orgID,
		DefaultMethodID: f.defaults[orgID],
		Methods:         append([]PaymentMethod(nil), f.methods[orgID]...),
	}, nil
}

func (f *fakeStore) PutPaymentMethod(_ context.Context, orgID string, method PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.methods[orgID] = append(f.methods[orgID], method)
	return nil
}

func (f *fakeStore) SetDefaultPaymentMethod(_ context.Context, orgID, methodID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.defaults[orgID] = methodID
	return nil
}

func (f *fakeStore) PutDailyStat(_ context.Context, stat DailyStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = append(f.stats, stat)
	return nil
}

func (f *fakeStore) SummarizeStats(_ context.Context, orgID, fromDay, toDay string) (AnalyticsSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byDay := make(map[string]*DailyStat)
	for _, stat := range f.stats {
		if stat.OrgID != orgID || stat.Day < fromDay || stat.Day > toDay {
			continue
		}
		row, ok := byDay[stat.Day]
		if !ok {
			row = &DailyStat{OrgID: orgID, Day: stat.Day}
			byDay[stat.Day] = row
		}
		row.PageViews += stat.PageViews
		row.TicketsSold += stat.TicketsSold
		row.RevenueCents += stat.RevenueCents
	}
	var summary AnalyticsSummary
	var days []string
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		row := byDay[day]
		summary.Days = append(summary.Days, *row)
		summary.PageViews += row.PageViews
		summary.TicketsSold += row.TicketsSold
		summary.RevenueCents += row.RevenueCents
	}
	return summary, nil
}

func (f *fakeStore) PutDemographicRow(_ context.Context, row DemographicRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.demographics = append(f.demographics, row)
	return nil
}

func (f *fakeStore) ListDemographics(_ context.Context, eventID string) ([]DemographicRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []DemographicRow
	for _, row := range f.demographics {
		if row.EventID == eventID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func sequentialIDGenerator(ids ...string) func() (string, error) {
	index := 0
	return func() (string, error) {
		if index >= len(ids) {
			return "", fmt.Errorf("id generator exhausted after %d ids", len(ids))
		}
		next := ids[index]
		index++
		return next, nil
	}
}
