package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

type WebhookSubscription struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	EventType string    `gorm:"type:varchar(100);not null;index" json:"event_type"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	Secret    string    `gorm:"type:text;not null;default:''" json:"-"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}

func (s *WebhookSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type WebhookDelivery struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	SubscriptionID uuid.UUID      `gorm:"type:uuid;not null" json:"subscription_id"`
	EventType      string         `gorm:"type:varchar(100);not null" json:"event_type"`
	URL            string         `gorm:"type:text;not null" json:"url"`
	Secret         string         `gorm:"type:text;not null;default:''" json:"-"`
	Payload        datatypes.JSON `gorm:"not null" json:"payload"`
	Status         DeliveryStatus `gorm:"type:delivery_status;not null;default:pending" json:"status"`
	Attempts       int            `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt  time.Time      `gorm:"not null;default:now()" json:"next_attempt_at"`
	LastError      *string        `gorm:"type:text" json:"last_error,omitempty"`
	ResponseCode   *int           `json:"response_code,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}

func (d *WebhookDelivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.NextAttemptAt.IsZero() {
		d.NextAttemptAt = time.Now()
	}
	return nil
}
