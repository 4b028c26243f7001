package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
	"github.com/meomeocoj/user-intent-classisifer/internal/domain/repository"
)

type decisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new decision audit log repository
func NewDecisionRepository(db *gorm.DB) repository.DecisionRepository {
	return &decisionRepository{db: db}
}

func (r *decisionRepository) Create(ctx context.Context, record *entity.DecisionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *decisionRepository) ListRecent(ctx context.Context, limit, offset int) ([]*entity.DecisionRecord, int64, error) {
	var records []*entity.DecisionRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.DecisionRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *decisionRepository) CountByRoute(ctx context.Context, route entity.Route) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.DecisionRecord{}).
		Where("route = ?", route).
		Count(&count).Error
	return count, err
}
