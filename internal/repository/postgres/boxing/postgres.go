package boxing

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	boxingdomain "highspirit-app-go/internal/domain/boxing"
)

var listColumns = []string{
	"id", "name", "join_date", "guardian_name", "guardian_contact", "per_month_class",
	"cash_amount", "esewa_amount", "due_amount", "price", "remarks", "created_at", "updated_at",
}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListMembers(ctx context.Context, filter boxingdomain.ListFilter) ([]boxingdomain.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&boxingdomain.Member{})

	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query = query.Where("(name ILIKE ? OR guardian_name ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("join_date DESC, created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var items []boxingdomain.Member
	if err := query.Select(listColumns).Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Ids that are not UUIDs cannot exist and would fail the uuid cast in SQL.
func (r *PostgresRepository) GetMemberByID(ctx context.Context, memberID string) (*boxingdomain.Member, error) {
	if uuid.Validate(memberID) != nil {
		return nil, boxingdomain.ErrMemberNotFound
	}

	var member boxingdomain.Member
	if err := r.db.WithContext(ctx).Where("id = ?", memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, boxingdomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) CreateMember(ctx context.Context, member *boxingdomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *boxingdomain.Member) error {
	result := r.db.WithContext(ctx).
		Model(&boxingdomain.Member{}).
		Where("id = ?", member.ID).
		Updates(map[string]interface{}{
			"name":             member.Name,
			"join_date":        member.JoinDate,
			"guardian_name":    member.GuardianName,
			"guardian_contact": member.GuardianContact,
			"per_month_class":  member.PerMonthClass,
			"cash_amount":      member.CashAmount,
			"esewa_amount":     member.EsewaAmount,
			"due_amount":       member.DueAmount,
			"price":            member.Price,
			"remarks":          member.Remarks,
			"photo":            member.Photo,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return boxingdomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, memberID string) (bool, error) {
	if uuid.Validate(memberID) != nil {
		return false, nil
	}
	result := r.db.WithContext(ctx).Delete(&boxingdomain.Member{}, "id = ?", memberID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListDue(ctx context.Context, limit int) ([]boxingdomain.Member, int64, error) {
	query := r.db.WithContext(ctx).Model(&boxingdomain.Member{}).Where("due_amount > 0")

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var items []boxingdomain.Member
	if err := query.
		Select(listColumns).
		Order("due_amount DESC, name ASC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, count, nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
