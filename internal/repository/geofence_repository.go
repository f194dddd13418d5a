package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"geolocation-service/internal/model"
)

type GeofenceRepository struct {
	db *gorm.DB
}

func NewGeofenceRepository(db *gorm.DB) *GeofenceRepository {
	return &GeofenceRepository{db: db}
}

func (r *GeofenceRepository) Create(ctx context.Context, geofence *model.Geofence) error {
	return r.db.WithContext(ctx).Create(geofence).Error
}

func (r *GeofenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Geofence, error) {
	var geofence model.Geofence
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&geofence).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &geofence, nil
}

func (r *GeofenceRepository) ListActive(ctx context.Context) ([]model.Geofence, error) {
	var geofences []model.Geofence
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&geofences).Error
	return geofences, err
}

func (r *GeofenceRepository) List(ctx context.Context) ([]model.Geofence, error) {
	var geofences []model.Geofence
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&geofences).Error
	return geofences, err
}

func (r *GeofenceRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Geofence{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
