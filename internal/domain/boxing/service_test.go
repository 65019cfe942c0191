package boxing

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"
)

type fakeBoxingRepo struct {
	members map[string]*Member
}

func newFakeBoxingRepo() *fakeBoxingRepo {
	return &fakeBoxingRepo{members: make(map[string]*Member)}
}

func (r *fakeBoxingRepo) ListMembers(ctx context.Context, filter ListFilter) ([]Member, int64, error) {
	items := make([]Member, 0, len(r.members))
	for _, m := range r.members {
		items = append(items, *m)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	total := int64(len(items))
	if filter.Offset >= len(items) {
		return []Member{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[filter.Offset:end], total, nil
}

func (r *fakeBoxingRepo) GetMemberByID(ctx context.Context, memberID string) (*Member, error) {
	m, ok := r.members[memberID]
	if !ok {
		return nil, ErrMemberNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeBoxingRepo) CreateMember(ctx context.Context, member *Member) error {
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeBoxingRepo) UpdateMember(ctx context.Context, member *Member) error {
	copied := *member
	r.members[member.ID] = &copied
	return nil
}

func (r *fakeBoxingRepo) DeleteMember(ctx context.Context, memberID string) (bool, error) {
	if _, ok := r.members[memberID]; !ok {
		return false, nil
	}
	delete(r.members, memberID)
	return true, nil
}

func (r *fakeBoxingRepo) ListDue(ctx context.Context, limit int) ([]Member, int64, error) {
	var items []Member
	for _, m := range r.members {
		if m.DueAmount > 0 {
			items = append(items, *m)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].DueAmount > items[j].DueAmount })
	count := int64(len(items))
	if len(items) > limit {
		items = items[:limit]
	}
	return items, count, nil
}

func fixedToday() time.Time {
	return time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC)
}

func TestCreateMemberComputesPriceAndDefaults(t *testing.T) {
	svc := NewService(newFakeBoxingRepo(), fixedToday)

	member, err := svc.CreateMember(context.Background(), MemberInput{
		Name:        " Ram ",
		CashAmount:  1500,
		EsewaAmount: 500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if member.Name != "Ram" {
		t.Fatalf("expected trimmed name, got %q", member.Name)
	}
	if member.Price != 2000 {
		t.Fatalf("expected price 2000, got %d", member.Price)
	}
	if member.PerMonthClass != DefaultPerMonthClass {
		t.Fatalf("expected default class, got %q", member.PerMonthClass)
	}
	if !member.JoinDate.Equal(fixedToday()) {
		t.Fatalf("expected join date today, got %s", member.JoinDate)
	}
}

func TestCreateMemberRejectsInvalidInput(t *testing.T) {
	svc := NewService(newFakeBoxingRepo(), fixedToday)

	if _, err := svc.CreateMember(context.Background(), MemberInput{Name: " "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}
	if _, err := svc.CreateMember(context.Background(), MemberInput{Name: "Ram", DueAmount: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative due, got %v", err)
	}
}

func TestUpdateMemberRecomputesPriceAndKeepsPhoto(t *testing.T) {
	repo := newFakeBoxingRepo()
	svc := NewService(repo, fixedToday)

	joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created, err := svc.CreateMember(context.Background(), MemberInput{
		Name:        "Shyam",
		JoinDate:    &joined,
		CashAmount:  1000,
		EsewaAmount: 1000,
		Photo:       []byte{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateMember(context.Background(), UpdateMemberInput{
		ID: created.ID,
		MemberInput: MemberInput{
			Name:        "Shyam",
			CashAmount:  3000,
			EsewaAmount: 250,
			DueAmount:   500,
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != 3250 {
		t.Fatalf("expected price 3250, got %d", updated.Price)
	}
	if len(updated.Photo) != 3 {
		t.Fatalf("expected stored photo to be kept")
	}
	if !updated.JoinDate.Equal(joined) {
		t.Fatalf("expected join date to be kept, got %s", updated.JoinDate)
	}
}

func TestUpdateUnknownMember(t *testing.T) {
	svc := NewService(newFakeBoxingRepo(), fixedToday)

	_, err := svc.UpdateMember(context.Background(), UpdateMemberInput{ID: "missing", MemberInput: MemberInput{Name: "X"}})
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMember(t *testing.T) {
	svc := NewService(newFakeBoxingRepo(), fixedToday)
	created, _ := svc.CreateMember(context.Background(), MemberInput{Name: "Hari"})

	if err := svc.DeleteMember(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteMember(context.Background(), created.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListDueOrdersByAmount(t *testing.T) {
	svc := NewService(newFakeBoxingRepo(), fixedToday)
	for i, due := range []int{0, 300, 1200, 50, 700, 900, 100} {
		if _, err := svc.CreateMember(context.Background(), MemberInput{Name: string(rune('A' + i)), DueAmount: due}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	dues, err := svc.ListDue(context.Background(), 0)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if dues.Count != 6 {
		t.Fatalf("expected 6 members with dues, got %d", dues.Count)
	}
	if len(dues.Items) != 5 || dues.Items[0].DueAmount != 1200 || dues.Items[4].DueAmount != 100 {
		t.Fatalf("unexpected due list: %+v", dues.Items)
	}
}

func TestListMembersPaginates(t *testing.T) {
	svc := NewService(newFakeBoxingRepo(), fixedToday)
	for _, name := range []string{"A", "B", "C", "D"} {
		svc.CreateMember(context.Background(), MemberInput{Name: name})
	}

	page, err := svc.ListMembers(context.Background(), ListQuery{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 4 || page.TotalPages != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
}
