package importer

import (
	"context"
	"time"

	"gorm.io/gorm"

	boxingdomain "highspirit-app-go/internal/domain/boxing"
	importerdomain "highspirit-app-go/internal/domain/importer"
	membershipdomain "highspirit-app-go/internal/domain/membership"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(importerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CustomerExists(ctx context.Context, fullName string, joinDate time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&membershipdomain.Customer{}).
		Where("full_name = ? AND join_date = ?", fullName, joinDate).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateCustomer(ctx context.Context, customer *membershipdomain.Customer, initial *membershipdomain.Membership) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(initial).Error
}

func (r *PostgresRepository) BoxingMemberExists(ctx context.Context, name, guardianContact string, joinDate time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&boxingdomain.Member{}).
		Where("name = ? AND guardian_contact = ? AND join_date = ?", name, guardianContact, joinDate).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateBoxingMember(ctx context.Context, member *boxingdomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}
