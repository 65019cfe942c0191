package user

import "context"

type Repository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, userID string) (*User, error)
	// CreateIfAbsent inserts the user unless the username is taken and
	// reports whether a row was written.
	CreateIfAbsent(ctx context.Context, user *User) (bool, error)
}
