package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"geolocation-service/internal/model"
)

type LocationEventRepository struct {
	db *gorm.DB
}

func NewLocationEventRepository(db *gorm.DB) *LocationEventRepository {
	return &LocationEventRepository{db: db}
}

func (r *LocationEventRepository) Create(ctx context.Context, event *model.LocationEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *LocationEventRepository) ListByProvider(ctx context.Context, providerID uuid.UUID, limit int) ([]model.LocationEvent, error) {
	var events []model.LocationEvent
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
