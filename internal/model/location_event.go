package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LocationEventType string

const (
	LocationEventEnterGeofence LocationEventType = "enter_geofence"
	LocationEventExitGeofence  LocationEventType = "exit_geofence"
)

// LocationEvent is an append-only audit record. Rows are never updated.
type LocationEvent struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ProviderID uuid.UUID         `gorm:"type:uuid;not null;index" json:"provider_id"`
	EventType  LocationEventType `gorm:"type:location_event_type;not null" json:"event_type"`
	Latitude   float64           `gorm:"not null" json:"latitude"`
	Longitude  float64           `gorm:"not null" json:"longitude"`
	GeofenceID uuid.UUID         `gorm:"type:uuid;not null;index" json:"geofence_id"`
	Metadata   datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (LocationEvent) TableName() string {
	return "location_events"
}

func (e *LocationEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
