package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"geolocation-service/internal/model"
)

type ServiceRequestRepository struct {
	db *gorm.DB
}

func NewServiceRequestRepository(db *gorm.DB) *ServiceRequestRepository {
	return &ServiceRequestRepository{db: db}
}

// GetByIDs returns the found requests preserving the caller's id order.
// Missing ids are silently skipped; the service layer decides whether an
// empty result is an error.
func (r *ServiceRequestRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ServiceRequest, error) {
	var requests []model.ServiceRequest
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&requests).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]model.ServiceRequest, len(requests))
	for _, req := range requests {
		byID[req.ID] = req
	}

	ordered := make([]model.ServiceRequest, 0, len(requests))
	for _, id := range ids {
		if req, ok := byID[id]; ok {
			ordered = append(ordered, req)
		}
	}
	return ordered, nil
}

func (r *ServiceRequestRepository) ProviderHasCategory(ctx context.Context, providerID, categoryID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProviderCategory{}).
		Where("provider_id = ? AND category_id = ?", providerID, categoryID).
		Count(&count).Error
	return count > 0, err
}
