package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"geolocation-service/internal/geo"
)

type ServiceArea struct {
	ID              uuid.UUID                      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ProviderID      uuid.UUID                      `gorm:"type:uuid;not null;index" json:"provider_id"`
	Name            string                         `gorm:"type:varchar(255);not null" json:"name"`
	CenterLat       float64                        `gorm:"not null" json:"center_lat"`
	CenterLng       float64                        `gorm:"not null" json:"center_lng"`
	RadiusKm        float64                        `gorm:"not null" json:"radius_km"`
	Priority        int                            `gorm:"not null;default:1" json:"priority"`
	MaxDailyJobs    int                            `gorm:"not null;default:10" json:"max_daily_jobs"`
	TravelCostPerKm float64                        `gorm:"not null;default:0" json:"travel_cost_per_km"`
	PolygonCoords   datatypes.JSONSlice[geo.Point] `json:"polygon_coords,omitempty"`
	IsActive        bool                           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time                      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ServiceArea) TableName() string {
	return "service_areas"
}

func (a *ServiceArea) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Contains reports whether the point falls inside the area. The polygon
// boundary wins over the circle when both are declared.
func (a *ServiceArea) Contains(lat, lng float64) bool {
	if len(a.PolygonCoords) >= 3 {
		return geo.WithinPolygon(lat, lng, a.PolygonCoords)
	}
	return geo.WithinCircle(lat, lng, a.CenterLat, a.CenterLng, a.RadiusKm)
}
