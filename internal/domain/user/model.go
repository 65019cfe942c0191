package user

import "time"

type Role string

const (
	RoleOwner Role = "owner"
	RoleStaff Role = "staff"
)

// User is a staff account that can sign in to the back office.
type User struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'owner'"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// Claims is what a session token carries.
type Claims struct {
	UserID    string
	Username  string
	Role      Role
	ExpiresAt time.Time
}

type OwnerSeed struct {
	Username     string
	Password     string
	PasswordHash string
}
