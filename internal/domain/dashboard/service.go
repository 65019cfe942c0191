package dashboard

import (
	"context"
	"sort"
	"time"

	"highspirit-app-go/internal/domain/membership"
)

type Service struct {
	repo     Repository
	calendar membership.Calendar
	cache    Cache
	cacheTTL time.Duration
	topCount int
	now      func() time.Time
}

func NewService(repo Repository, calendar membership.Calendar, cache Cache, cacheTTL time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		repo:     repo,
		calendar: calendar,
		cache:    cache,
		cacheTTL: cacheTTL,
		topCount: defaultTopCount,
		now:      time.Now,
	}
}

// Summary classifies every customer by its latest membership. Results are
// cached per club date for cacheTTL.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	today := s.calendar.Today()
	key := cacheKey(today)

	if s.cacheTTL > 0 {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return *cached, nil
		}
	}

	summary, err := s.build(ctx, today)
	if err != nil {
		return Summary{}, err
	}

	if s.cacheTTL > 0 {
		s.cache.Set(ctx, key, summary, s.cacheTTL)
	}
	return summary, nil
}

// Invalidate drops today's cached summary so the next read sees writes made
// since it was built.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cacheTTL <= 0 {
		return
	}
	s.cache.Delete(ctx, cacheKey(s.calendar.Today()))
}

func (s *Service) build(ctx context.Context, today time.Time) (Summary, error) {
	total, err := s.repo.CountCustomers(ctx)
	if err != nil {
		return Summary{}, err
	}

	joined, err := s.repo.CountJoinedOn(ctx, today)
	if err != nil {
		return Summary{}, err
	}

	current, err := s.repo.CurrentMemberships(ctx)
	if err != nil {
		return Summary{}, err
	}

	dues, dueCount, err := s.repo.BoxingDues(ctx, s.topCount)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Today:          today,
		TotalCustomers: total,
		JoinedToday:    joined,
		BoxingDueCount: dueCount,
		BoxingDues:     dues,
		GeneratedAt:    s.now().UTC(),
	}
	if summary.BoxingDues == nil {
		summary.BoxingDues = []BoxingDue{}
	}

	var expired, expiring []MemberExpiry
	for _, row := range current {
		view := row.Membership.Evaluate(today, s.calendar.WindowDays())
		item := MemberExpiry{
			CustomerID: row.CustomerID,
			FullName:   row.FullName,
			Phone:      row.Phone,
			PlanName:   view.PlanName,
			StartDate:  view.StartDate,
			ExpireDate: view.ExpireDate,
			DueDays:    view.DueDaysComputed,
			Status:     view.Status,
		}

		switch view.Status {
		case membership.StatusExpired:
			summary.Expired++
			expired = append(expired, item)
		case membership.StatusExpiringSoon:
			summary.Active++
			summary.ExpiringSoon++
			expiring = append(expiring, item)
		default:
			summary.Active++
		}
	}

	summary.NoMembership = total - int64(len(current))
	if summary.NoMembership < 0 {
		summary.NoMembership = 0
	}

	sort.SliceStable(expired, func(i, j int) bool {
		return expired[i].ExpireDate.Before(expired[j].ExpireDate)
	})
	sort.SliceStable(expiring, func(i, j int) bool {
		return expiring[i].ExpireDate.Before(expiring[j].ExpireDate)
	})

	summary.ExpiredMembers = top(expired, s.topCount)
	summary.ExpiringMembers = top(expiring, s.topCount)

	return summary, nil
}

func top(items []MemberExpiry, n int) []MemberExpiry {
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		return []MemberExpiry{}
	}
	return items
}
