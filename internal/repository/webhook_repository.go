package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"geolocation-service/internal/model"
)

type WebhookRepository struct {
	db *gorm.DB
}

func NewWebhookRepository(db *gorm.DB) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) CreateSubscription(ctx context.Context, sub *model.WebhookSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *WebhookRepository) ListSubscriptions(ctx context.Context) ([]model.WebhookSubscription, error) {
	var subs []model.WebhookSubscription
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&subs).Error
	return subs, err
}

func (r *WebhookRepository) ActiveSubscriptionsForEvent(ctx context.Context, eventType string) ([]model.WebhookSubscription, error) {
	var subs []model.WebhookSubscription
	err := r.db.WithContext(ctx).
		Where("event_type = ? AND is_active = ?", eventType, true).
		Find(&subs).Error
	return subs, err
}

func (r *WebhookRepository) EnqueueDelivery(ctx context.Context, delivery *model.WebhookDelivery) error {
	return r.db.WithContext(ctx).Create(delivery).Error
}

func (r *WebhookRepository) FetchDueDeliveries(ctx context.Context, limit int) ([]model.WebhookDelivery, error) {
	var deliveries []model.WebhookDelivery
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_attempt_at <= ?", model.DeliveryStatusPending, time.Now()).
		Order("next_attempt_at ASC").
		Limit(limit).
		Find(&deliveries).Error
	return deliveries, err
}

func (r *WebhookRepository) MarkDelivered(ctx context.Context, id uuid.UUID, responseCode int) error {
	return r.db.WithContext(ctx).Model(&model.WebhookDelivery{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        model.DeliveryStatusDelivered,
			"attempts":      gorm.Expr("attempts + 1"),
			"response_code": responseCode,
		}).Error
}

func (r *WebhookRepository) MarkRetry(ctx context.Context, id uuid.UUID, nextAttemptAt time.Time, lastError string, responseCode int) error {
	return r.db.WithContext(ctx).Model(&model.WebhookDelivery{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":        gorm.Expr("attempts + 1"),
			"next_attempt_at": nextAttemptAt,
			"last_error":      lastError,
			"response_code":   responseCode,
		}).Error
}

func (r *WebhookRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, responseCode int) error {
	return r.db.WithContext(ctx).Model(&model.WebhookDelivery{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        model.DeliveryStatusFailed,
			"attempts":      gorm.Expr("attempts + 1"),
			"last_error":    lastError,
			"response_code": responseCode,
		}).Error
}
