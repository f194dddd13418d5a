package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"geolocation-service/internal/model"
)

type ProviderLocationRepository struct {
	db *gorm.DB
}

func NewProviderLocationRepository(db *gorm.DB) *ProviderLocationRepository {
	return &ProviderLocationRepository{db: db}
}

func (r *ProviderLocationRepository) GetActiveByProvider(ctx context.Context, providerID uuid.UUID) (*model.ProviderLocation, error) {
	var location model.ProviderLocation
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND is_active = ?", providerID, true).
		Order("timestamp DESC").
		First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

// ReplaceActive deactivates the provider's current fix and inserts the new one
// in a single transaction, so at most one row stays active per provider.
func (r *ProviderLocationRepository) ReplaceActive(ctx context.Context, location *model.ProviderLocation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.ProviderLocation{}).
			Where("provider_id = ? AND is_active = ?", location.ProviderID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(location).Error
	})
}

func (r *ProviderLocationRepository) ListRecentByProvider(ctx context.Context, providerID uuid.UUID, limit int) ([]model.ProviderLocation, error) {
	var locations []model.ProviderLocation
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&locations).Error
	return locations, err
}
