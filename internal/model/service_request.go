package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	UrgencyNormal = "normal"
	UrgencyUrgent = "urgent"
)

// ServiceRequest is owned by the marketplace core. This service only reads it
// as routing input.
type ServiceRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Latitude      float64    `gorm:"not null" json:"latitude"`
	Longitude     float64    `gorm:"not null" json:"longitude"`
	Urgency       string     `gorm:"type:varchar(20);not null;default:normal" json:"urgency"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ServiceRequest) TableName() string {
	return "service_requests"
}

// ProviderCategory links a provider to a service category. Owned by the
// marketplace core; read here for the advisory category filter.
type ProviderCategory struct {
	ProviderID uuid.UUID `gorm:"type:uuid;primaryKey" json:"provider_id"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey" json:"category_id"`
}

func (ProviderCategory) TableName() string {
	return "provider_categories"
}
