package dashboard

import (
	"context"
	"testing"
	"time"

	"highspirit-app-go/internal/domain/membership"
)

type fakeDashboardRepo struct {
	current     []CurrentMembership
	total       int64
	joinedToday int64
	dues        []BoxingDue
	calls       int
}

func (f *fakeDashboardRepo) CurrentMemberships(ctx context.Context) ([]CurrentMembership, error) {
	f.calls++
	return f.current, nil
}

func (f *fakeDashboardRepo) CountCustomers(ctx context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakeDashboardRepo) CountJoinedOn(ctx context.Context, day time.Time) (int64, error) {
	return f.joinedToday, nil
}

func (f *fakeDashboardRepo) BoxingDues(ctx context.Context, limit int) ([]BoxingDue, int64, error) {
	items := f.dues
	if len(items) > limit {
		items = items[:limit]
	}
	return items, int64(len(f.dues)), nil
}

type mapCache struct {
	items map[string]Summary
}

func (c *mapCache) Get(ctx context.Context, key string) (*Summary, bool) {
	item, ok := c.items[key]
	if !ok {
		return nil, false
	}
	return &item, true
}

func (c *mapCache) Set(ctx context.Context, key string, summary Summary, ttl time.Duration) {
	c.items[key] = summary
}

func (c *mapCache) Delete(ctx context.Context, key string) {
	delete(c.items, key)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func current(id string, start time.Time, duration int) CurrentMembership {
	return CurrentMembership{
		CustomerID: id,
		FullName:   "Customer " + id,
		Membership: membership.Membership{ID: "m-" + id, CustomerID: id, StartDate: start, Duration: duration, IsActive: true},
	}
}

func testCalendar(today time.Time) membership.Calendar {
	return membership.NewCalendar(time.UTC, 7).WithNow(func() time.Time { return today.Add(9 * time.Hour) })
}

func TestSummaryClassifiesLatestMemberships(t *testing.T) {
	today := day(2024, 6, 10)
	repo := &fakeDashboardRepo{
		total:       5,
		joinedToday: 1,
		current: []CurrentMembership{
			current("a", day(2024, 5, 1), 1),  // expired 2024-06-01
			current("b", day(2024, 4, 5), 2),  // expired 2024-06-05
			current("c", day(2024, 5, 12), 1), // expiring 2024-06-12
			current("d", day(2024, 6, 1), 3),  // active
		},
		dues: []BoxingDue{{MemberID: "x", DueAmount: 900}},
	}
	svc := NewService(repo, testCalendar(today), nil, 0)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if summary.Active != 2 || summary.Expired != 2 || summary.ExpiringSoon != 1 {
		t.Fatalf("unexpected counts: active=%d expired=%d soon=%d", summary.Active, summary.Expired, summary.ExpiringSoon)
	}
	if summary.NoMembership != 1 || summary.JoinedToday != 1 || summary.TotalCustomers != 5 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if len(summary.ExpiredMembers) != 2 || summary.ExpiredMembers[0].CustomerID != "a" {
		t.Fatalf("expected oldest expiry first, got %+v", summary.ExpiredMembers)
	}
	if summary.ExpiredMembers[0].DueDays != 9 {
		t.Fatalf("expected 9 due days, got %d", summary.ExpiredMembers[0].DueDays)
	}
	if len(summary.ExpiringMembers) != 1 || summary.ExpiringMembers[0].CustomerID != "c" {
		t.Fatalf("unexpected expiring list: %+v", summary.ExpiringMembers)
	}
	if summary.BoxingDueCount != 1 || len(summary.BoxingDues) != 1 {
		t.Fatalf("unexpected boxing dues: %+v", summary.BoxingDues)
	}
}

func TestSummaryLimitsTopLists(t *testing.T) {
	today := day(2024, 6, 10)
	repo := &fakeDashboardRepo{}
	for i := 0; i < 8; i++ {
		repo.current = append(repo.current, current(string(rune('a'+i)), day(2024, 1, 1+i), 1))
	}
	repo.total = int64(len(repo.current))
	svc := NewService(repo, testCalendar(today), nil, 0)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if summary.Expired != 8 || len(summary.ExpiredMembers) != 5 {
		t.Fatalf("expected 8 expired and 5 listed, got %d and %d", summary.Expired, len(summary.ExpiredMembers))
	}
	if summary.ExpiringMembers == nil || summary.BoxingDues == nil {
		t.Fatalf("expected empty lists, not nil")
	}
}

func TestSummaryUsesCache(t *testing.T) {
	today := day(2024, 6, 10)
	repo := &fakeDashboardRepo{current: []CurrentMembership{current("a", day(2024, 6, 1), 1)}, total: 1}
	cache := &mapCache{items: make(map[string]Summary)}
	svc := NewService(repo, testCalendar(today), cache, time.Minute)

	if _, err := svc.Summary(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := svc.Summary(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if repo.calls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.calls)
	}
	if _, ok := cache.items["dashboard:summary:2024-06-10"]; !ok {
		t.Fatalf("expected summary cached under the club date")
	}
}

func TestSummaryWithoutTTLSkipsCache(t *testing.T) {
	repo := &fakeDashboardRepo{}
	cache := &mapCache{items: make(map[string]Summary)}
	svc := NewService(repo, testCalendar(day(2024, 6, 10)), cache, 0)

	svc.Summary(context.Background())
	svc.Summary(context.Background())
	if repo.calls != 2 || len(cache.items) != 0 {
		t.Fatalf("expected cache bypass, calls=%d cached=%d", repo.calls, len(cache.items))
	}
}

func TestInvalidateRebuildsSummary(t *testing.T) {
	repo := &fakeDashboardRepo{current: []CurrentMembership{current("a", day(2024, 6, 1), 1)}, total: 1}
	cache := &mapCache{items: make(map[string]Summary)}
	svc := NewService(repo, testCalendar(day(2024, 6, 10)), cache, time.Minute)

	if _, err := svc.Summary(context.Background()); err != nil {
		t.Fatalf("first call: %v", err)
	}
	repo.total = 2
	svc.Invalidate(context.Background())
	if len(cache.items) != 0 {
		t.Fatalf("expected cache to be emptied, got %d entries", len(cache.items))
	}

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if repo.calls != 2 || summary.TotalCustomers != 2 {
		t.Fatalf("expected rebuilt summary with 2 customers, got calls=%d total=%d", repo.calls, summary.TotalCustomers)
	}
}
