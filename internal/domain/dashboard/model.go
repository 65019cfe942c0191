package dashboard

import (
	"time"

	"highspirit-app-go/internal/domain/membership"
)

const (
	defaultTopCount = 5
	cacheKeyPrefix  = "dashboard:summary:"
)

// CurrentMembership is the latest membership of one customer together with
// the customer fields the dashboard shows.
type CurrentMembership struct {
	CustomerID string
	FullName   string
	Phone      string
	JoinDate   time.Time
	Membership membership.Membership
}

type MemberExpiry struct {
	CustomerID string            `json:"customer_id"`
	FullName   string            `json:"full_name"`
	Phone      string            `json:"phone"`
	PlanName   string            `json:"plan_name"`
	StartDate  time.Time         `json:"start_date"`
	ExpireDate time.Time         `json:"expire_date"`
	DueDays    int               `json:"due_days"`
	Status     membership.Status `json:"status"`
}

type BoxingDue struct {
	MemberID        string `json:"member_id"`
	Name            string `json:"name"`
	GuardianContact string `json:"guardian_contact"`
	DueAmount       int    `json:"due_amount"`
}

// Summary is cached as JSON, so every field carries a tag.
type Summary struct {
	Today           time.Time      `json:"today"`
	TotalCustomers  int64          `json:"total_customers"`
	Active          int64          `json:"active"`
	Expired         int64          `json:"expired"`
	ExpiringSoon    int64          `json:"expiring_soon"`
	JoinedToday     int64          `json:"joined_today"`
	NoMembership    int64          `json:"no_membership"`
	ExpiredMembers  []MemberExpiry `json:"expired_members"`
	ExpiringMembers []MemberExpiry `json:"expiring_members"`
	BoxingDueCount  int64          `json:"boxing_due_count"`
	BoxingDues      []BoxingDue    `json:"boxing_dues"`
	GeneratedAt     time.Time      `json:"generated_at"`
}
