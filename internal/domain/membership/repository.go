package membership

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// Customer operations
	ListCustomers(ctx context.Context, filter ListFilter) ([]Customer, int64, error)
	ListAllCustomers(ctx context.Context) ([]Customer, error)
	GetCustomerByID(ctx context.Context, customerID string) (*Customer, error)
	LockCustomer(ctx context.Context, customerID string) (*Customer, error)
	CreateCustomer(ctx context.Context, customer *Customer) error
	UpdateCustomer(ctx context.Context, customer *Customer) error
	DeleteCustomer(ctx context.Context, customerID string) (bool, error)

	// Membership operations
	ListMemberships(ctx context.Context, customerID string) ([]Membership, error)
	CurrentMemberships(ctx context.Context, customerIDs []string) (map[string]Membership, error)
	CreateMembership(ctx context.Context, membership *Membership) error
	UpdateMembershipPlan(ctx context.Context, membership *Membership) error
	DeactivateMemberships(ctx context.Context, customerID string) (int64, error)
	DeleteMembershipsByCustomer(ctx context.Context, customerID string) error
}
