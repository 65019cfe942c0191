package membership

import (
	"testing"
	"time"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"leap february", date(2024, 1, 31), 1, date(2024, 2, 29)},
		{"common february", date(2023, 1, 31), 1, date(2023, 2, 28)},
		{"thirty day month", date(2024, 3, 31), 1, date(2024, 4, 30)},
		{"year rollover", date(2024, 11, 30), 3, date(2025, 2, 28)},
		{"plain", date(2024, 1, 1), 1, date(2024, 2, 1)},
		{"twelve months", date(2024, 2, 29), 12, date(2025, 2, 28)},
		{"zero months", date(2024, 5, 17), 0, date(2024, 5, 17)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonths(tt.start, tt.months)
			if !got.Equal(tt.want) {
				t.Fatalf("AddMonths(%s, %d) = %s, want %s", tt.start.Format("2006-01-02"), tt.months, got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestAddMonthsIgnoresClockAndZone(t *testing.T) {
	loc := time.FixedZone("NPT", 5*3600+45*60)
	start := time.Date(2024, 1, 31, 23, 30, 0, 0, loc)

	got := AddMonths(start, 1)
	if !got.Equal(date(2024, 2, 29)) {
		t.Fatalf("expected 2024-02-29, got %s", got)
	}
}

func TestDueDays(t *testing.T) {
	expire := date(2024, 2, 1)

	if got := DueDays(expire, date(2024, 1, 25)); got != 0 {
		t.Fatalf("expected 0 before expiry, got %d", got)
	}
	if got := DueDays(expire, expire); got != 0 {
		t.Fatalf("expected 0 on expiry day, got %d", got)
	}
	if got := DueDays(expire, date(2024, 2, 5)); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := DueDays(expire, date(2024, 3, 1)); got != 29 {
		t.Fatalf("expected 29 across leap february, got %d", got)
	}
}

func TestClassify(t *testing.T) {
	today := date(2024, 6, 10)

	tests := []struct {
		name   string
		expire time.Time
		want   Status
	}{
		{"expired yesterday", date(2024, 6, 9), StatusExpired},
		{"expires today", today, StatusExpiringSoon},
		{"window edge", date(2024, 6, 17), StatusExpiringSoon},
		{"past window", date(2024, 6, 18), StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.expire, today, 7)
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}

	if !StatusExpiringSoon.IsActive() || !StatusActive.IsActive() || StatusExpired.IsActive() {
		t.Fatalf("expiring soon must count as active and expired must not")
	}
}

func TestEvaluateExpiredScenario(t *testing.T) {
	m := Membership{StartDate: date(2024, 1, 1), Duration: 1}

	view := m.Evaluate(date(2024, 2, 5), 7)
	if !view.ExpireDate.Equal(date(2024, 2, 1)) {
		t.Fatalf("expected expire 2024-02-01, got %s", view.ExpireDate)
	}
	if view.DueDaysComputed != 4 {
		t.Fatalf("expected 4 due days, got %d", view.DueDaysComputed)
	}
	if view.Status != StatusExpired {
		t.Fatalf("expected expired, got %s", view.Status)
	}
}

func TestCalendarTodayUsesClubZone(t *testing.T) {
	loc := time.FixedZone("NPT", 5*3600+45*60)
	instant := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	cal := NewCalendar(loc, 7).WithNow(func() time.Time { return instant })
	if got := cal.Today(); !got.Equal(date(2024, 3, 2)) {
		t.Fatalf("expected club date 2024-03-02, got %s", got)
	}
}
