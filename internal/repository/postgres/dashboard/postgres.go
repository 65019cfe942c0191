package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	dashboarddomain "highspirit-app-go/internal/domain/dashboard"
	membershipdomain "highspirit-app-go/internal/domain/membership"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type currentRow struct {
	MembershipID string    `gorm:"column:membership_id"`
	CustomerID   string    `gorm:"column:customer_id"`
	FullName     string    `gorm:"column:full_name"`
	Phone        string    `gorm:"column:phone"`
	JoinDate     time.Time `gorm:"column:join_date"`
	PlanName     string    `gorm:"column:plan_name"`
	PaidPrice    int       `gorm:"column:paid_price"`
	StartDate    time.Time `gorm:"column:start_date"`
	Duration     int       `gorm:"column:duration"`
	IsActive     bool      `gorm:"column:is_active"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (r *PostgresRepository) CurrentMemberships(ctx context.Context) ([]dashboarddomain.CurrentMembership, error) {
	var rows []currentRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (cm.customer_id)
			cm.id AS membership_id,
			cm.customer_id,
			c.full_name,
			c.phone,
			c.join_date,
			cm.plan_name,
			cm.paid_price,
			cm.start_date,
			cm.duration,
			cm.is_active,
			cm.created_at
		FROM customer_memberships cm
		JOIN customers c ON c.id = cm.customer_id
		ORDER BY cm.customer_id, cm.start_date DESC, cm.created_at DESC`).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]dashboarddomain.CurrentMembership, 0, len(rows))
	for _, row := range rows {
		items = append(items, dashboarddomain.CurrentMembership{
			CustomerID: row.CustomerID,
			FullName:   row.FullName,
			Phone:      row.Phone,
			JoinDate:   row.JoinDate,
			Membership: membershipdomain.Membership{
				ID:         row.MembershipID,
				CustomerID: row.CustomerID,
				PlanName:   row.PlanName,
				PaidPrice:  row.PaidPrice,
				StartDate:  row.StartDate,
				Duration:   row.Duration,
				IsActive:   row.IsActive,
				CreatedAt:  row.CreatedAt,
			},
		})
	}
	return items, nil
}

func (r *PostgresRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&membershipdomain.Customer{}).Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CountJoinedOn(ctx context.Context, day time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&membershipdomain.Customer{}).
		Where("join_date = ?", day).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) BoxingDues(ctx context.Context, limit int) ([]dashboarddomain.BoxingDue, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("boxing_members").
		Where("due_amount > 0").
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var items []dashboarddomain.BoxingDue
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id AS member_id, name, guardian_contact, due_amount
		FROM boxing_members
		WHERE due_amount > 0
		ORDER BY due_amount DESC, name ASC
		LIMIT ?`, limit).
		Scan(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}
