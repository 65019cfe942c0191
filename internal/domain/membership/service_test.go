package membership

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeMembershipRepo runs one transaction at a time, which is what the
// customer row lock gives Renew in Postgres.
type fakeMembershipRepo struct {
	txMu        sync.Mutex
	customers   map[string]*Customer
	memberships []*Membership
	locks       int
	seq         int
	inTx        bool
	calls       []string
}

func newFakeMembershipRepo() *fakeMembershipRepo {
	return &fakeMembershipRepo{customers: make(map[string]*Customer)}
}

func (r *fakeMembershipRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.inTx = true
	r.calls = append(r.calls, "begin")
	err := fn(r)
	if err != nil {
		r.calls = append(r.calls, "rollback")
	} else {
		r.calls = append(r.calls, "commit")
	}
	r.inTx = false
	return err
}

func (r *fakeMembershipRepo) record(call string) {
	if !r.inTx {
		call += " outside tx"
	}
	r.calls = append(r.calls, call)
}

func (r *fakeMembershipRepo) ListCustomers(ctx context.Context, filter ListFilter) ([]Customer, int64, error) {
	var items []Customer
	for _, customer := range r.customers {
		if filter.Search != "" && !strings.Contains(strings.ToLower(customer.FullName), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, *customer)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].FullName < items[j].FullName })

	total := int64(len(items))
	if filter.Offset >= len(items) {
		return []Customer{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[filter.Offset:end], total, nil
}

func (r *fakeMembershipRepo) ListAllCustomers(ctx context.Context) ([]Customer, error) {
	items, _, err := r.ListCustomers(ctx, ListFilter{Limit: len(r.customers)})
	return items, err
}

func (r *fakeMembershipRepo) GetCustomerByID(ctx context.Context, customerID string) (*Customer, error) {
	customer, ok := r.customers[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	copied := *customer
	return &copied, nil
}

func (r *fakeMembershipRepo) LockCustomer(ctx context.Context, customerID string) (*Customer, error) {
	r.record("lock")
	r.locks++
	return r.GetCustomerByID(ctx, customerID)
}

func (r *fakeMembershipRepo) CreateCustomer(ctx context.Context, customer *Customer) error {
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeMembershipRepo) UpdateCustomer(ctx context.Context, customer *Customer) error {
	if _, ok := r.customers[customer.ID]; !ok {
		return ErrCustomerNotFound
	}
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeMembershipRepo) DeleteCustomer(ctx context.Context, customerID string) (bool, error) {
	if _, ok := r.customers[customerID]; !ok {
		return false, nil
	}
	delete(r.customers, customerID)
	return true, nil
}

func (r *fakeMembershipRepo) ListMemberships(ctx context.Context, customerID string) ([]Membership, error) {
	var items []Membership
	for _, m := range r.memberships {
		if m.CustomerID == customerID {
			items = append(items, *m)
		}
	}
	sort.Slice(items, func(i, j int) bool { return isLater(items[i], items[j]) })
	return items, nil
}

func (r *fakeMembershipRepo) CurrentMemberships(ctx context.Context, customerIDs []string) (map[string]Membership, error) {
	result := make(map[string]Membership)
	for _, id := range customerIDs {
		items, _ := r.ListMemberships(ctx, id)
		if len(items) > 0 {
			result[id] = items[0]
		}
	}
	return result, nil
}

func (r *fakeMembershipRepo) CreateMembership(ctx context.Context, membership *Membership) error {
	r.record("create membership")
	r.seq++
	membership.CreatedAt = time.Date(2024, 1, 1, 0, 0, r.seq, 0, time.UTC)
	copied := *membership
	r.memberships = append(r.memberships, &copied)
	return nil
}

func (r *fakeMembershipRepo) UpdateMembershipPlan(ctx context.Context, membership *Membership) error {
	for _, m := range r.memberships {
		if m.ID == membership.ID {
			m.PlanName = membership.PlanName
			m.PaidPrice = membership.PaidPrice
			return nil
		}
	}
	return ErrMembershipNotFound
}

func (r *fakeMembershipRepo) DeactivateMemberships(ctx context.Context, customerID string) (int64, error) {
	r.record("deactivate")
	var count int64
	for _, m := range r.memberships {
		if m.CustomerID == customerID && m.IsActive {
			m.IsActive = false
			count++
		}
	}
	return count, nil
}

func (r *fakeMembershipRepo) DeleteMembershipsByCustomer(ctx context.Context, customerID string) error {
	kept := r.memberships[:0]
	for _, m := range r.memberships {
		if m.CustomerID != customerID {
			kept = append(kept, m)
		}
	}
	r.memberships = kept
	return nil
}

func (r *fakeMembershipRepo) activeCount(customerID string) int {
	count := 0
	for _, m := range r.memberships {
		if m.CustomerID == customerID && m.IsActive {
			count++
		}
	}
	return count
}

func newTestService(repo Repository, today time.Time) *Service {
	cal := NewCalendar(time.UTC, 7).WithNow(func() time.Time { return today.Add(10 * time.Hour) })
	return NewService(repo, cal)
}

func createTestCustomer(t *testing.T, svc *Service, name string, start time.Time, duration int) *CustomerDetail {
	t.Helper()

	created, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{
		Profile: CustomerProfileInput{FullName: name, Phone: "9800000000"},
		Plan:    PlanInput{PlanName: "Gym", PaidPrice: 2500, StartDate: &start, Duration: duration},
	})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return created
}

func TestCreateCustomerCreatesActiveMembership(t *testing.T) {
	repo := newFakeMembershipRepo()
	today := date(2024, 2, 5)
	svc := newTestService(repo, today)

	created := createTestCustomer(t, svc, "  Sita Sharma ", date(2024, 1, 1), 1)

	if created.FullName != "Sita Sharma" {
		t.Fatalf("expected trimmed name, got %q", created.FullName)
	}
	if !created.JoinDate.Equal(today) {
		t.Fatalf("expected join date today, got %s", created.JoinDate)
	}
	if created.Current == nil || !created.Current.IsActive {
		t.Fatalf("expected active current membership")
	}
	if created.Current.DueDaysComputed != 4 || created.Current.Status != StatusExpired {
		t.Fatalf("expected expired with 4 due days, got %d %s", created.Current.DueDaysComputed, created.Current.Status)
	}
}

func TestCreateCustomerValidatesInput(t *testing.T) {
	svc := newTestService(newFakeMembershipRepo(), date(2024, 2, 5))

	_, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{
		Profile: CustomerProfileInput{FullName: "  "},
		Plan:    PlanInput{Duration: 1},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank name, got %v", err)
	}

	_, err = svc.CreateCustomer(context.Background(), CreateCustomerInput{
		Profile: CustomerProfileInput{FullName: "Ram"},
		Plan:    PlanInput{Duration: 0},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero duration, got %v", err)
	}
}

func TestRenewTwiceLeavesOnlyNewestActive(t *testing.T) {
	repo := newFakeMembershipRepo()
	today := date(2024, 3, 10)
	svc := newTestService(repo, today)

	created := createTestCustomer(t, svc, "Hari", date(2024, 1, 1), 1)

	first, err := svc.Renew(context.Background(), RenewInput{CustomerID: created.ID, PlanName: "Gym", PaidPrice: 2500, Duration: 1})
	if err != nil {
		t.Fatalf("first renew: %v", err)
	}
	second, err := svc.Renew(context.Background(), RenewInput{CustomerID: created.ID, PlanName: "Gym+Cardio", PaidPrice: 4000, Duration: 3})
	if err != nil {
		t.Fatalf("second renew: %v", err)
	}

	if got := repo.activeCount(created.ID); got != 1 {
		t.Fatalf("expected exactly one active membership, got %d", got)
	}
	for _, m := range repo.memberships {
		if m.IsActive && m.ID != second.ID {
			t.Fatalf("expected newest membership to be active, got %s", m.ID)
		}
		if m.ID == first.ID && m.IsActive {
			t.Fatalf("expected first renewal to be deactivated")
		}
	}
	if !second.StartDate.Equal(today) {
		t.Fatalf("expected renewal to start today, got %s", second.StartDate)
	}
	if !second.ExpireDate.Equal(date(2024, 6, 10)) {
		t.Fatalf("expected expiry 2024-06-10, got %s", second.ExpireDate)
	}
	if repo.locks < 2 {
		t.Fatalf("expected customer row to be locked on every renewal")
	}

	current, err := svc.CurrentMembership(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("current membership: %v", err)
	}
	if current.PlanName != "Gym+Cardio" {
		t.Fatalf("expected latest renewal as current, got %q", current.PlanName)
	}
}

func TestRenewLocksThenDeactivatesThenInserts(t *testing.T) {
	repo := newFakeMembershipRepo()
	svc := newTestService(repo, date(2024, 3, 10))

	created := createTestCustomer(t, svc, "Gita", date(2024, 1, 1), 1)
	repo.calls = nil

	if _, err := svc.Renew(context.Background(), RenewInput{CustomerID: created.ID, Duration: 1}); err != nil {
		t.Fatalf("renew: %v", err)
	}

	want := []string{"begin", "lock", "deactivate", "create membership", "commit"}
	if strings.Join(repo.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("expected calls %v, got %v", want, repo.calls)
	}
}

func TestAddMembershipUnknownCustomerStopsAtLock(t *testing.T) {
	repo := newFakeMembershipRepo()
	svc := newTestService(repo, date(2024, 3, 10))

	_, err := svc.AddMembership(context.Background(), AddMembershipInput{
		CustomerID: "missing",
		StartDate:  date(2024, 3, 1),
		Duration:   1,
	})
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}

	want := []string{"begin", "lock", "rollback"}
	if strings.Join(repo.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("expected calls %v, got %v", want, repo.calls)
	}
}

func TestConcurrentRenewsLeaveOneActive(t *testing.T) {
	repo := newFakeMembershipRepo()
	svc := newTestService(repo, date(2024, 3, 10))

	created := createTestCustomer(t, svc, "Ram", date(2024, 1, 1), 1)

	const renewals = 8
	var wg sync.WaitGroup
	errs := make(chan error, renewals)
	for i := 0; i < renewals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Renew(context.Background(), RenewInput{CustomerID: created.ID, PlanName: "Gym", Duration: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("renew: %v", err)
		}
	}
	if got := repo.activeCount(created.ID); got != 1 {
		t.Fatalf("expected exactly one active membership, got %d", got)
	}
	if got := len(repo.memberships); got != renewals+1 {
		t.Fatalf("expected %d memberships, got %d", renewals+1, got)
	}
	if repo.locks != renewals {
		t.Fatalf("expected %d locks, got %d", renewals, repo.locks)
	}
}

func TestRenewUnknownCustomer(t *testing.T) {
	svc := newTestService(newFakeMembershipRepo(), date(2024, 3, 10))

	_, err := svc.Renew(context.Background(), RenewInput{CustomerID: "missing", Duration: 1})
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected customer not found, got %v", err)
	}
}

func TestCurrentMembershipPicksLatestStartDate(t *testing.T) {
	repo := newFakeMembershipRepo()
	svc := newTestService(repo, date(2024, 6, 1))

	created := createTestCustomer(t, svc, "Gita", date(2024, 5, 1), 1)
	// A back-dated insert must not become current.
	repo.memberships = append(repo.memberships, &Membership{ID: "old", CustomerID: created.ID, StartDate: date(2023, 1, 1), Duration: 12})

	current, err := svc.CurrentMembership(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("current membership: %v", err)
	}
	if !current.StartDate.Equal(date(2024, 5, 1)) {
		t.Fatalf("expected latest start date, got %s", current.StartDate)
	}
	if current.Status != StatusExpiringSoon {
		t.Fatalf("expected expiring soon, got %s", current.Status)
	}
}

func TestUpdateCustomerEditsProfileAndCurrentPlan(t *testing.T) {
	repo := newFakeMembershipRepo()
	svc := newTestService(repo, date(2024, 6, 1))
	created := createTestCustomer(t, svc, "Bikash", date(2024, 5, 1), 1)

	plan := "Boxing+Gym"
	price := 5000
	updated, err := svc.UpdateCustomer(context.Background(), UpdateCustomerInput{
		ID:        created.ID,
		Profile:   CustomerProfileInput{FullName: "Bikash Rai", Phone: "9811111111", Shift: "Morning"},
		PlanName:  &plan,
		PaidPrice: &price,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FullName != "Bikash Rai" || updated.Shift != "Morning" {
		t.Fatalf("profile not updated: %+v", updated.Customer)
	}
	if updated.Current == nil || updated.Current.PlanName != plan || updated.Current.PaidPrice != price {
		t.Fatalf("current plan not updated: %+v", updated.Current)
	}
	if !updated.JoinDate.Equal(created.JoinDate) {
		t.Fatalf("join date must not change on edit")
	}
}

func TestUpdateCustomerKeepsPhotoWhenNotReplaced(t *testing.T) {
	repo := newFakeMembershipRepo()
	svc := newTestService(repo, date(2024, 6, 1))
	created := createTestCustomer(t, svc, "Photo", date(2024, 5, 1), 1)
	repo.customers[created.ID].Photo = []byte{0xff, 0xd8}

	if _, err := svc.UpdateCustomer(context.Background(), UpdateCustomerInput{
		ID:      created.ID,
		Profile: CustomerProfileInput{FullName: "Photo"},
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	photo, err := svc.CustomerPhoto(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("photo: %v", err)
	}
	if len(photo) != 2 {
		t.Fatalf("expected photo to be kept, got %v", photo)
	}
}

func TestDeleteCustomerRemovesMemberships(t *testing.T) {
	repo := newFakeMembershipRepo()
	svc := newTestService(repo, date(2024, 6, 1))
	created := createTestCustomer(t, svc, "Delete Me", date(2024, 5, 1), 1)

	if err := svc.DeleteCustomer(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.memberships) != 0 {
		t.Fatalf("expected memberships to be removed, got %d", len(repo.memberships))
	}
	if err := svc.DeleteCustomer(context.Background(), created.ID); !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestListCustomersPaginates(t *testing.T) {
	repo := newFakeMembershipRepo()
	svc := newTestService(repo, date(2024, 6, 1))
	for _, name := range []string{"A", "B", "C"} {
		createTestCustomer(t, svc, name, date(2024, 5, 1), 1)
	}

	page, err := svc.ListCustomers(context.Background(), ListQuery{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 3 || page.TotalPages != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected page: total=%d pages=%d items=%d", page.Total, page.TotalPages, len(page.Items))
	}
	if page.Items[0].FullName != "C" || page.Items[0].Current == nil {
		t.Fatalf("expected C with current membership, got %+v", page.Items[0])
	}
}
