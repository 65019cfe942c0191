package membership

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	calendar Calendar
}

func NewService(repo Repository, calendar Calendar) *Service {
	return &Service{repo: repo, calendar: calendar}
}

func (s *Service) Calendar() Calendar {
	return s.calendar
}

// Customer operations

func (s *Service) ListCustomers(ctx context.Context, query ListQuery) (*CustomerPage, error) {
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

	status := query.Filter
	if status == "" {
		status = FilterAll
	}
	sort := query.Sort
	if sort == "" {
		sort = SortName
	}

	today := s.calendar.Today()
	filter := ListFilter{
		Search:    strings.TrimSpace(query.Search),
		Status:    status,
		Sort:      sort,
		Today:     today,
		WindowEnd: today.AddDate(0, 0, s.calendar.WindowDays()),
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	}

	customers, total, err := s.repo.ListCustomers(ctx, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.summarize(ctx, customers)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	return &CustomerPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// ExportCustomers returns every customer with its current membership, ordered by name.
func (s *Service) ExportCustomers(ctx context.Context) ([]CustomerSummary, error) {
	customers, err := s.repo.ListAllCustomers(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, customers)
}

func (s *Service) GetCustomer(ctx context.Context, customerID string) (*CustomerDetail, error) {
	customer, err := s.repo.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	memberships, err := s.repo.ListMemberships(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return s.detail(*customer, memberships), nil
}

func (s *Service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerDetail, error) {
	if err := validateProfile(input.Profile); err != nil {
		return nil, err
	}
	if err := validatePlan(input.Plan.PaidPrice, input.Plan.Duration); err != nil {
		return nil, err
	}

	today := s.calendar.Today()
	joinDate := today
	if input.JoinDate != nil {
		joinDate = DateOf(*input.JoinDate)
	}
	startDate := joinDate
	if input.Plan.StartDate != nil {
		startDate = DateOf(*input.Plan.StartDate)
	}

	customer := Customer{
		ID:       uuid.NewString(),
		JoinDate: joinDate,
	}
	applyProfile(&customer, input.Profile)

	membership := Membership{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		PlanName:   strings.TrimSpace(input.Plan.PlanName),
		PaidPrice:  input.Plan.PaidPrice,
		StartDate:  startDate,
		Duration:   input.Plan.Duration,
		IsActive:   true,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateCustomer(ctx, &customer); err != nil {
			return err
		}
		return tx.CreateMembership(ctx, &membership)
	})
	if err != nil {
		return nil, err
	}

	return s.detail(customer, []Membership{membership}), nil
}

// UpdateCustomer rewrites the profile and, when given, the plan name and paid
// price of the current membership.
func (s *Service) UpdateCustomer(ctx context.Context, input UpdateCustomerInput) (*CustomerDetail, error) {
	if err := validateProfile(input.Profile); err != nil {
		return nil, err
	}
	if input.PaidPrice != nil && *input.PaidPrice < 0 {
		return nil, fmt.Errorf("%w: paid price must not be negative", ErrInvalidInput)
	}

	var updated Customer
	var memberships []Membership

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		customer, err := tx.LockCustomer(ctx, input.ID)
		if err != nil {
			return err
		}

		photo := customer.Photo
		applyProfile(customer, input.Profile)
		if len(input.Profile.Photo) == 0 {
			customer.Photo = photo
		}
		customer.UpdatedAt = time.Now().UTC()

		if err := tx.UpdateCustomer(ctx, customer); err != nil {
			return err
		}

		if input.PlanName != nil || input.PaidPrice != nil {
			current, err := tx.CurrentMemberships(ctx, []string{customer.ID})
			if err != nil {
				return err
			}
			if m, ok := current[customer.ID]; ok {
				if input.PlanName != nil {
					m.PlanName = strings.TrimSpace(*input.PlanName)
				}
				if input.PaidPrice != nil {
					m.PaidPrice = *input.PaidPrice
				}
				m.UpdatedAt = time.Now().UTC()
				if err := tx.UpdateMembershipPlan(ctx, &m); err != nil {
					return err
				}
			}
		}

		items, err := tx.ListMemberships(ctx, customer.ID)
		if err != nil {
			return err
		}

		updated = *customer
		memberships = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.detail(updated, memberships), nil
}

func (s *Service) DeleteCustomer(ctx context.Context, customerID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeleteMembershipsByCustomer(ctx, customerID); err != nil {
			return err
		}
		deleted, err := tx.DeleteCustomer(ctx, customerID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrCustomerNotFound
		}
		return nil
	})
}

func (s *Service) CustomerPhoto(ctx context.Context, customerID string) ([]byte, error) {
	customer, err := s.repo.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(customer.Photo) == 0 {
		return nil, ErrPhotoNotFound
	}
	return customer.Photo, nil
}

// Membership operations

// CurrentMembership returns the latest-start-date membership of a customer.
func (s *Service) CurrentMembership(ctx context.Context, customerID string) (*MembershipView, error) {
	if _, err := s.repo.GetCustomerByID(ctx, customerID); err != nil {
		return nil, err
	}

	current, err := s.repo.CurrentMemberships(ctx, []string{customerID})
	if err != nil {
		return nil, err
	}

	m, ok := current[customerID]
	if !ok {
		return nil, ErrMembershipNotFound
	}

	view := s.calendar.Evaluate(m)
	return &view, nil
}

// AddMembership deactivates every active membership of the customer and
// inserts the new one as the only active membership. The customer row is
// locked for the duration so concurrent calls serialise.
func (s *Service) AddMembership(ctx context.Context, input AddMembershipInput) (*MembershipView, error) {
	if err := validatePlan(input.PaidPrice, input.Duration); err != nil {
		return nil, err
	}
	if input.StartDate.IsZero() {
		return nil, fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}

	membership := Membership{
		ID:         uuid.NewString(),
		CustomerID: input.CustomerID,
		PlanName:   strings.TrimSpace(input.PlanName),
		PaidPrice:  input.PaidPrice,
		StartDate:  DateOf(input.StartDate),
		Duration:   input.Duration,
		IsActive:   true,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.LockCustomer(ctx, input.CustomerID); err != nil {
			return err
		}
		if _, err := tx.DeactivateMemberships(ctx, input.CustomerID); err != nil {
			return err
		}
		return tx.CreateMembership(ctx, &membership)
	})
	if err != nil {
		return nil, err
	}

	view := s.calendar.Evaluate(membership)
	return &view, nil
}

// Renew starts a new membership today.
func (s *Service) Renew(ctx context.Context, input RenewInput) (*MembershipView, error) {
	return s.AddMembership(ctx, AddMembershipInput{
		CustomerID: input.CustomerID,
		PlanName:   input.PlanName,
		PaidPrice:  input.PaidPrice,
		StartDate:  s.calendar.Today(),
		Duration:   input.Duration,
	})
}

// Helpers

func (s *Service) summarize(ctx context.Context, customers []Customer) ([]CustomerSummary, error) {
	if len(customers) == 0 {
		return []CustomerSummary{}, nil
	}

	customerIDs := make([]string, 0, len(customers))
	for _, customer := range customers {
		customerIDs = append(customerIDs, customer.ID)
	}

	current, err := s.repo.CurrentMemberships(ctx, customerIDs)
	if err != nil {
		return nil, err
	}

	today := s.calendar.Today()
	items := make([]CustomerSummary, 0, len(customers))
	for _, customer := range customers {
		item := CustomerSummary{Customer: customer}
		if m, ok := current[customer.ID]; ok {
			view := m.Evaluate(today, s.calendar.WindowDays())
			item.Current = &view
		}
		items = append(items, item)
	}

	return items, nil
}

func (s *Service) detail(customer Customer, memberships []Membership) *CustomerDetail {
	today := s.calendar.Today()

	views := make([]MembershipView, 0, len(memberships))
	var current *MembershipView
	for _, m := range memberships {
		view := m.Evaluate(today, s.calendar.WindowDays())
		views = append(views, view)
		if current == nil || isLater(view.Membership, current.Membership) {
			picked := view
			current = &picked
		}
	}

	return &CustomerDetail{
		Customer:    customer,
		Current:     current,
		Memberships: views,
	}
}

// isLater orders memberships by start date, then creation time.
func isLater(a, b Membership) bool {
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func applyProfile(customer *Customer, profile CustomerProfileInput) {
	customer.FullName = strings.TrimSpace(profile.FullName)
	customer.Phone = strings.TrimSpace(profile.Phone)
	customer.Email = trimmedOrNil(profile.Email)
	customer.Address = strings.TrimSpace(profile.Address)
	customer.Gender = strings.TrimSpace(profile.Gender)
	customer.BloodGroup = strings.TrimSpace(profile.BloodGroup)
	customer.WeightKG = profile.WeightKG
	customer.Height = strings.TrimSpace(profile.Height)
	customer.Occupation = strings.TrimSpace(profile.Occupation)
	customer.Shift = strings.TrimSpace(profile.Shift)
	customer.Remarks = strings.TrimSpace(profile.Remarks)
	customer.Photo = profile.Photo
	if profile.DateOfBirth != nil {
		dob := DateOf(*profile.DateOfBirth)
		customer.DateOfBirth = &dob
	} else {
		customer.DateOfBirth = nil
	}
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Validation helpers

func validateProfile(profile CustomerProfileInput) error {
	if strings.TrimSpace(profile.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}
	if profile.WeightKG != nil && *profile.WeightKG < 0 {
		return fmt.Errorf("%w: weight must not be negative", ErrInvalidInput)
	}
	return nil
}

func validatePlan(paidPrice, duration int) error {
	if duration < 1 {
		return fmt.Errorf("%w: duration must be at least one month", ErrInvalidInput)
	}
	if paidPrice < 0 {
		return fmt.Errorf("%w: paid price must not be negative", ErrInvalidInput)
	}
	return nil
}
