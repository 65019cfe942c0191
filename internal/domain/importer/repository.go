package importer

import (
	"context"
	"time"

	"highspirit-app-go/internal/domain/boxing"
	"highspirit-app-go/internal/domain/membership"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// CustomerExists matches on exact full name and join day.
	CustomerExists(ctx context.Context, fullName string, joinDate time.Time) (bool, error)
	CreateCustomer(ctx context.Context, customer *membership.Customer, initial *membership.Membership) error

	// BoxingMemberExists matches on exact name, guardian contact and join day.
	BoxingMemberExists(ctx context.Context, name, guardianContact string, joinDate time.Time) (bool, error)
	CreateBoxingMember(ctx context.Context, member *boxing.Member) error
}
