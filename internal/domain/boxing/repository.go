package boxing

import "context"

type Repository interface {
	ListMembers(ctx context.Context, filter ListFilter) ([]Member, int64, error)
	GetMemberByID(ctx context.Context, memberID string) (*Member, error)
	CreateMember(ctx context.Context, member *Member) error
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, memberID string) (bool, error)
	ListDue(ctx context.Context, limit int) ([]Member, int64, error)
}
