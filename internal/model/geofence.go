package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"geolocation-service/internal/geo"
)

type Geofence struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	CenterLat    float64   `gorm:"not null" json:"center_lat"`
	CenterLng    float64   `gorm:"not null" json:"center_lng"`
	RadiusKm     float64   `gorm:"not null" json:"radius_km"`
	GeofenceType string    `gorm:"type:varchar(50);not null;default:zone" json:"geofence_type"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Geofence) TableName() string {
	return "geofences"
}

func (g *Geofence) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

func (g *Geofence) Contains(lat, lng float64) bool {
	return geo.WithinCircle(lat, lng, g.CenterLat, g.CenterLng, g.RadiusKm)
}
