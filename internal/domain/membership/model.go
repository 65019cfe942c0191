package membership

import "time"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Customer struct {
	ID          string     `gorm:"type:uuid;primaryKey"`
	FullName    string     `gorm:"not null"`
	Phone       string     `gorm:"not null;default:''"`
	Email       *string    `gorm:"column:email"`
	Address     string     `gorm:"not null;default:''"`
	Gender      string     `gorm:"not null;default:''"`
	BloodGroup  string     `gorm:"not null;default:''"`
	WeightKG    *float64   `gorm:"column:weight_kg;type:numeric(6,2)"`
	Height      string     `gorm:"not null;default:''"`
	Occupation  string     `gorm:"not null;default:''"`
	Shift       string     `gorm:"not null;default:''"`
	Remarks     string     `gorm:"not null;default:''"`
	JoinDate    time.Time  `gorm:"type:date;not null"`
	DateOfBirth *time.Time `gorm:"type:date"`
	Photo       []byte     `gorm:"type:bytea"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

// Membership is a plan period bought by a customer. Expiry and due days are
// derived from StartDate and Duration on read and never stored.
type Membership struct {
	ID         string    `gorm:"type:uuid;primaryKey"`
	CustomerID string    `gorm:"type:uuid;index;not null"`
	PlanName   string    `gorm:"not null;default:''"`
	PaidPrice  int       `gorm:"not null;default:0"`
	StartDate  time.Time `gorm:"type:date;not null"`
	Duration   int       `gorm:"not null;default:1"`
	IsActive   bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Membership) TableName() string {
	return "customer_memberships"
}

func (m Membership) ExpireDate() time.Time {
	return ExpireDate(m.StartDate, m.Duration)
}

func (m Membership) Evaluate(today time.Time, windowDays int) MembershipView {
	expire := m.ExpireDate()
	return MembershipView{
		Membership:      m,
		ExpireDate:      expire,
		DueDaysComputed: DueDays(expire, today),
		Status:          Classify(expire, today, windowDays),
	}
}

type MembershipView struct {
	Membership
	ExpireDate      time.Time
	DueDaysComputed int
	Status          Status
}

// CustomerSummary pairs a customer with its current (latest start date) membership.
type CustomerSummary struct {
	Customer
	Current *MembershipView
}

type CustomerDetail struct {
	Customer
	Current     *MembershipView
	Memberships []MembershipView
}

type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterActive  StatusFilter = "active"
	FilterExpired StatusFilter = "expired"
	FilterSoon    StatusFilter = "soon"
)

func ParseStatusFilter(value string) (StatusFilter, bool) {
	switch StatusFilter(value) {
	case "", FilterAll:
		return FilterAll, true
	case FilterActive, FilterExpired, FilterSoon:
		return StatusFilter(value), true
	default:
		return "", false
	}
}

type SortOrder string

const (
	SortName       SortOrder = "name"
	SortNameDesc   SortOrder = "name_desc"
	SortExpire     SortOrder = "expire"
	SortExpireDesc SortOrder = "expire_desc"
)

func ParseSortOrder(value string) (SortOrder, bool) {
	switch SortOrder(value) {
	case "", SortName:
		return SortName, true
	case SortNameDesc, SortExpire, SortExpireDesc:
		return SortOrder(value), true
	default:
		return "", false
	}
}

// ListQuery is what callers ask for; ListFilter is what the repository runs.
type ListQuery struct {
	Search   string
	Filter   StatusFilter
	Sort     SortOrder
	Page     int
	PageSize int
}

type ListFilter struct {
	Search    string
	Status    StatusFilter
	Sort      SortOrder
	Today     time.Time
	WindowEnd time.Time
	Limit     int
	Offset    int
}

type CustomerPage struct {
	Items      []CustomerSummary
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

type CustomerProfileInput struct {
	FullName    string
	Phone       string
	Email       *string
	Address     string
	Gender      string
	BloodGroup  string
	WeightKG    *float64
	Height      string
	Occupation  string
	Shift       string
	Remarks     string
	DateOfBirth *time.Time
	Photo       []byte
}

type CreateCustomerInput struct {
	Profile  CustomerProfileInput
	JoinDate *time.Time
	Plan     PlanInput
}

type PlanInput struct {
	PlanName  string
	PaidPrice int
	StartDate *time.Time
	Duration  int
}

type UpdateCustomerInput struct {
	ID        string
	Profile   CustomerProfileInput
	PlanName  *string
	PaidPrice *int
}

type AddMembershipInput struct {
	CustomerID string
	PlanName   string
	PaidPrice  int
	StartDate  time.Time
	Duration   int
}

type RenewInput struct {
	CustomerID string
	PlanName   string
	PaidPrice  int
	Duration   int
}
