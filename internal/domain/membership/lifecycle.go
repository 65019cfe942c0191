package membership

import "time"

const hoursPerDay = 24

type Status string

const (
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
)

// IsActive reports whether the membership has not expired yet.
// Expiring-soon memberships are still active.
func (s Status) IsActive() bool {
	return s == StatusActive || s == StatusExpiringSoon
}

// DateOf drops the clock part of t and returns the same calendar day at UTC midnight.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// AddMonths advances date by whole calendar months. When the target month is
// shorter than the source day the result is clamped to its last day, so
// Jan 31 + 1 month is Feb 28 (or Feb 29 in a leap year).
func AddMonths(date time.Time, months int) time.Time {
	date = DateOf(date)
	year, month, day := date.Date()

	firstOfTarget := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := daysIn(firstOfTarget.Year(), firstOfTarget.Month())
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}

func ExpireDate(start time.Time, durationMonths int) time.Time {
	return AddMonths(start, durationMonths)
}

// DueDays is the number of whole days today is past expire, never negative.
func DueDays(expire, today time.Time) int {
	days := daysBetween(DateOf(expire), DateOf(today))
	if days < 0 {
		return 0
	}
	return days
}

// Classify evaluates an expiry date against today. windowDays bounds the
// inclusive expiring-soon window [today, today+windowDays].
func Classify(expire, today time.Time, windowDays int) Status {
	expire = DateOf(expire)
	today = DateOf(today)

	if DueDays(expire, today) > 0 {
		return StatusExpired
	}
	if !expire.After(today.AddDate(0, 0, windowDays)) {
		return StatusExpiringSoon
	}
	return StatusActive
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / hoursPerDay)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Calendar resolves "today" in the club's time zone and evaluates memberships
// against it.
type Calendar struct {
	loc        *time.Location
	now        func() time.Time
	windowDays int
}

func NewCalendar(loc *time.Location, windowDays int) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	if windowDays < 0 {
		windowDays = 0
	}
	return Calendar{loc: loc, now: time.Now, windowDays: windowDays}
}

// WithNow returns a copy of the calendar reading time from now.
func (c Calendar) WithNow(now func() time.Time) Calendar {
	c.now = now
	return c
}

func (c Calendar) Today() time.Time {
	now := c.now
	if now == nil {
		now = time.Now
	}
	loc := c.loc
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(now().In(loc))
}

func (c Calendar) WindowDays() int {
	return c.windowDays
}

func (c Calendar) Evaluate(m Membership) MembershipView {
	return m.Evaluate(c.Today(), c.windowDays)
}
