package membership

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	membershipdomain "highspirit-app-go/internal/domain/membership"
)

// currentJoin attaches the latest-start-date membership of every customer as cur.
const currentJoin = `LEFT JOIN LATERAL (
	SELECT cm.start_date, cm.duration
	FROM customer_memberships cm
	WHERE cm.customer_id = c.id
	ORDER BY cm.start_date DESC, cm.created_at DESC
	LIMIT 1
) cur ON TRUE`

// Postgres clamps month-end when adding months to a date, which matches
// membership.AddMonths.
const expireExpr = "(cur.start_date + make_interval(months => cur.duration))::date"

// Photos are only loaded by id.
var listColumns = []string{
	"c.id", "c.full_name", "c.phone", "c.email", "c.address", "c.gender",
	"c.blood_group", "c.weight_kg", "c.height", "c.occupation", "c.shift",
	"c.remarks", "c.join_date", "c.date_of_birth", "c.created_at", "c.updated_at",
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(membershipdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// Customer operations

func (r *PostgresRepository) ListCustomers(ctx context.Context, filter membershipdomain.ListFilter) ([]membershipdomain.Customer, int64, error) {
	query := r.db.WithContext(ctx).Table("customers AS c").Joins(currentJoin)

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query = query.Where("(c.full_name ILIKE ? OR c.phone ILIKE ?)", pattern, pattern)
	}

	switch filter.Status {
	case membershipdomain.FilterActive:
		query = query.Where(expireExpr+" >= ?", filter.Today)
	case membershipdomain.FilterExpired:
		query = query.Where(expireExpr+" < ?", filter.Today)
	case membershipdomain.FilterSoon:
		query = query.Where(expireExpr+" BETWEEN ? AND ?", filter.Today, filter.WindowEnd)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case membershipdomain.SortNameDesc:
		query = query.Order("c.full_name DESC")
	case membershipdomain.SortExpire:
		query = query.Order(expireExpr + " ASC NULLS LAST")
	case membershipdomain.SortExpireDesc:
		query = query.Order(expireExpr + " DESC NULLS LAST")
	default:
		query = query.Order("c.full_name ASC")
	}
	query = query.Order("c.id")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []membershipdomain.Customer
	if err := query.Select(listColumns).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PostgresRepository) ListAllCustomers(ctx context.Context) ([]membershipdomain.Customer, error) {
	var items []membershipdomain.Customer
	if err := r.db.WithContext(ctx).
		Table("customers AS c").
		Select(listColumns).
		Order("c.full_name ASC, c.id").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetCustomerByID(ctx context.Context, customerID string) (*membershipdomain.Customer, error) {
	if uuid.Validate(customerID) != nil {
		return nil, membershipdomain.ErrCustomerNotFound
	}

	var customer membershipdomain.Customer
	if err := r.db.WithContext(ctx).Where("id = ?", customerID).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membershipdomain.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// LockCustomer loads the customer with SELECT ... FOR UPDATE. Only meaningful
// inside Transaction.
func (r *PostgresRepository) LockCustomer(ctx context.Context, customerID string) (*membershipdomain.Customer, error) {
	if uuid.Validate(customerID) != nil {
		return nil, membershipdomain.ErrCustomerNotFound
	}

	var customer membershipdomain.Customer
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", customerID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, membershipdomain.ErrCustomerNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func (r *PostgresRepository) CreateCustomer(ctx context.Context, customer *membershipdomain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *PostgresRepository) UpdateCustomer(ctx context.Context, customer *membershipdomain.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&membershipdomain.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"full_name":     customer.FullName,
			"phone":         customer.Phone,
			"email":         customer.Email,
			"address":       customer.Address,
			"gender":        customer.Gender,
			"blood_group":   customer.BloodGroup,
			"weight_kg":     customer.WeightKG,
			"height":        customer.Height,
			"occupation":    customer.Occupation,
			"shift":         customer.Shift,
			"remarks":       customer.Remarks,
			"date_of_birth": customer.DateOfBirth,
			"photo":         customer.Photo,
			"updated_at":    customer.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return membershipdomain.ErrCustomerNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCustomer(ctx context.Context, customerID string) (bool, error) {
	if uuid.Validate(customerID) != nil {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&membershipdomain.Customer{}, "id = ?", customerID)
	return result.RowsAffected > 0, result.Error
}

// Membership operations

func (r *PostgresRepository) ListMemberships(ctx context.Context, customerID string) ([]membershipdomain.Membership, error) {
	var items []membershipdomain.Membership
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("start_date DESC, created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) CurrentMemberships(ctx context.Context, customerIDs []string) (map[string]membershipdomain.Membership, error) {
	result := make(map[string]membershipdomain.Membership, len(customerIDs))
	if len(customerIDs) == 0 {
		return result, nil
	}

	var items []membershipdomain.Membership
	if err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (customer_id) *
		FROM customer_memberships
		WHERE customer_id IN ?
		ORDER BY customer_id, start_date DESC, created_at DESC`, customerIDs).
		Scan(&items).Error; err != nil {
		return nil, err
	}

	for _, item := range items {
		result[item.CustomerID] = item
	}
	return result, nil
}

func (r *PostgresRepository) CreateMembership(ctx context.Context, membership *membershipdomain.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *PostgresRepository) UpdateMembershipPlan(ctx context.Context, membership *membershipdomain.Membership) error {
	result := r.db.WithContext(ctx).
		Model(&membershipdomain.Membership{}).
		Where("id = ?", membership.ID).
		Updates(map[string]interface{}{
			"plan_name":  membership.PlanName,
			"paid_price": membership.PaidPrice,
			"updated_at": membership.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return membershipdomain.ErrMembershipNotFound
	}
	return nil
}

func (r *PostgresRepository) DeactivateMemberships(ctx context.Context, customerID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&membershipdomain.Membership{}).
		Where("customer_id = ? AND is_active", customerID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": gorm.Expr("NOW()"),
		})
	return result.RowsAffected, result.Error
}

func (r *PostgresRepository) DeleteMembershipsByCustomer(ctx context.Context, customerID string) error {
	if uuid.Validate(customerID) != nil {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&membershipdomain.Membership{}, "customer_id = ?", customerID).Error
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
