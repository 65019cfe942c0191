package boxing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultDueLimit = 5

type Service struct {
	repo  Repository
	today func() time.Time
}

// NewService takes the club's civil-date clock so a member created without a
// join date gets the same "today" as the rest of the app.
func NewService(repo Repository, today func() time.Time) *Service {
	return &Service{repo: repo, today: today}
}

func (s *Service) ListMembers(ctx context.Context, query ListQuery) (*MemberPage, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	items, total, err := s.repo.ListMembers(ctx, ListFilter{
		Search: strings.TrimSpace(query.Search),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, err
	}

	return &MemberPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}

func (s *Service) GetMember(ctx context.Context, memberID string) (*Member, error) {
	return s.repo.GetMemberByID(ctx, memberID)
}

func (s *Service) CreateMember(ctx context.Context, input MemberInput) (*Member, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	member := Member{ID: uuid.NewString()}
	s.apply(&member, input)
	if input.JoinDate == nil {
		member.JoinDate = s.today()
	}

	if err := s.repo.CreateMember(ctx, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// UpdateMember rewrites the member and recomputes Price. A missing photo keeps
// the stored one, a missing join date keeps the stored date.
func (s *Service) UpdateMember(ctx context.Context, input UpdateMemberInput) (*Member, error) {
	if err := validateInput(input.MemberInput); err != nil {
		return nil, err
	}

	member, err := s.repo.GetMemberByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	photo := member.Photo
	joinDate := member.JoinDate
	s.apply(member, input.MemberInput)
	if len(input.Photo) == 0 {
		member.Photo = photo
	}
	if input.JoinDate == nil {
		member.JoinDate = joinDate
	}

	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *Service) DeleteMember(ctx context.Context, memberID string) error {
	deleted, err := s.repo.DeleteMember(ctx, memberID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}

func (s *Service) MemberPhoto(ctx context.Context, memberID string) ([]byte, error) {
	member, err := s.repo.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if len(member.Photo) == 0 {
		return nil, ErrPhotoNotFound
	}
	return member.Photo, nil
}

// ListDue returns members with an outstanding due, largest first.
func (s *Service) ListDue(ctx context.Context, limit int) (*DueList, error) {
	if limit <= 0 {
		limit = defaultDueLimit
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	items, count, err := s.repo.ListDue(ctx, limit)
	if err != nil {
		return nil, err
	}
	return &DueList{Items: items, Count: count}, nil
}

func (s *Service) apply(member *Member, input MemberInput) {
	member.Name = strings.TrimSpace(input.Name)
	member.GuardianName = strings.TrimSpace(input.GuardianName)
	member.GuardianContact = strings.TrimSpace(input.GuardianContact)
	member.PerMonthClass = strings.TrimSpace(input.PerMonthClass)
	if member.PerMonthClass == "" {
		member.PerMonthClass = DefaultPerMonthClass
	}
	member.CashAmount = input.CashAmount
	member.EsewaAmount = input.EsewaAmount
	member.DueAmount = input.DueAmount
	member.Price = member.TotalPaid()
	member.Remarks = strings.TrimSpace(input.Remarks)
	member.Photo = input.Photo
	if input.JoinDate != nil {
		member.JoinDate = civilDate(*input.JoinDate)
	}
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateInput(input MemberInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.CashAmount < 0 || input.EsewaAmount < 0 || input.DueAmount < 0 {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidInput)
	}
	return nil
}
