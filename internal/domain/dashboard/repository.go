package dashboard

import (
	"context"
	"time"
)

type Repository interface {
	CurrentMemberships(ctx context.Context) ([]CurrentMembership, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountJoinedOn(ctx context.Context, day time.Time) (int64, error)
	BoxingDues(ctx context.Context, limit int) ([]BoxingDue, int64, error)
}
