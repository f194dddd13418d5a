package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"geolocation-service/internal/model"
)

type ServiceAreaRepository struct {
	db *gorm.DB
}

func NewServiceAreaRepository(db *gorm.DB) *ServiceAreaRepository {
	return &ServiceAreaRepository{db: db}
}

func (r *ServiceAreaRepository) Create(ctx context.Context, area *model.ServiceArea) error {
	return r.db.WithContext(ctx).Create(area).Error
}

func (r *ServiceAreaRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ServiceArea, error) {
	var area model.ServiceArea
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&area).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &area, nil
}

func (r *ServiceAreaRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, activeOnly bool) ([]model.ServiceArea, error) {
	var areas []model.ServiceArea
	query := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("created_at ASC").Find(&areas).Error
	return areas, err
}

func (r *ServiceAreaRepository) ListActive(ctx context.Context) ([]model.ServiceArea, error) {
	var areas []model.ServiceArea
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&areas).Error
	return areas, err
}

// Deactivate soft-disables the area. Areas are never hard-deleted so that
// historical route optimizations and events keep valid references.
func (r *ServiceAreaRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.ServiceArea{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
