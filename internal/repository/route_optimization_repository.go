package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"geolocation-service/internal/model"
)

type RouteOptimizationRepository struct {
	db *gorm.DB
}

func NewRouteOptimizationRepository(db *gorm.DB) *RouteOptimizationRepository {
	return &RouteOptimizationRepository{db: db}
}

func (r *RouteOptimizationRepository) Create(ctx context.Context, route *model.RouteOptimization) error {
	return r.db.WithContext(ctx).Create(route).Error
}

func (r *RouteOptimizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.RouteOptimization, error) {
	var route model.RouteOptimization
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&route).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &route, nil
}

func (r *RouteOptimizationRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]model.RouteOptimization, error) {
	var routes []model.RouteOptimization
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&routes).Error
	return routes, err
}

// UpdateStatus is the only mutation path for a persisted route.
func (r *RouteOptimizationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RouteStatus) error {
	return r.db.WithContext(ctx).Model(&model.RouteOptimization{}).
		Where("id = ?", id).
		Update("status", status).Error
}
