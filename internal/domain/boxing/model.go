package boxing

import "time"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	DefaultPerMonthClass = "0+0+0+0"
)

// Member is a boxing-section enrollee. It has no relation to gym customers.
type Member struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"not null"`
	JoinDate        time.Time `gorm:"type:date;not null"`
	GuardianName    string    `gorm:"not null;default:''"`
	GuardianContact string    `gorm:"not null;default:''"`
	PerMonthClass   string    `gorm:"not null;default:'0+0+0+0'"`
	CashAmount      int       `gorm:"not null;default:0"`
	EsewaAmount     int       `gorm:"not null;default:0"`
	DueAmount       int       `gorm:"not null;default:0"`
	Price           int       `gorm:"not null;default:0"`
	Remarks         string    `gorm:"not null;default:''"`
	Photo           []byte    `gorm:"type:bytea"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "boxing_members"
}

// TotalPaid is the derived price, cash plus e-wallet.
func (m Member) TotalPaid() int {
	return m.CashAmount + m.EsewaAmount
}

type ListQuery struct {
	Search   string
	Page     int
	PageSize int
}

type ListFilter struct {
	Search string
	Limit  int
	Offset int
}

type MemberPage struct {
	Items      []Member
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// DueList is the dues notification: the largest outstanding dues and how many
// members owe anything at all.
type DueList struct {
	Items []Member
	Count int64
}

type MemberInput struct {
	Name            string
	JoinDate        *time.Time
	GuardianName    string
	GuardianContact string
	PerMonthClass   string
	CashAmount      int
	EsewaAmount     int
	DueAmount       int
	Remarks         string
	Photo           []byte
}

type UpdateMemberInput struct {
	ID string
	MemberInput
}
