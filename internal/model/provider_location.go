package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const LocationSourceGPS = "gps"

type ProviderLocation struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"provider_id"`
	Latitude   float64   `gorm:"not null" json:"latitude"`
	Longitude  float64   `gorm:"not null" json:"longitude"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	Address    *string   `gorm:"type:text" json:"address,omitempty"`
	Timestamp  time.Time `gorm:"not null;default:now()" json:"timestamp"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	Source     string    `gorm:"type:varchar(32);not null;default:gps" json:"source"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ProviderLocation) TableName() string {
	return "provider_locations"
}

func (l *ProviderLocation) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	return nil
}
