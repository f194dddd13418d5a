package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RouteStatus string

const (
	RouteStatusPlanned    RouteStatus = "planned"
	RouteStatusInProgress RouteStatus = "in_progress"
	RouteStatusCompleted  RouteStatus = "completed"
	RouteStatusCancelled  RouteStatus = "cancelled"
)

const AlgorithmNearestNeighbor = "nearest_neighbor"

// Waypoint is one ordered stop in an optimized route.
type Waypoint struct {
	RequestID uuid.UUID `json:"request_id"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Title     string    `json:"title"`
	Urgency   string    `json:"urgency"`
}

type RouteOptimization struct {
	ID                       uuid.UUID                     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ProviderID               uuid.UUID                     `gorm:"type:uuid;not null;index" json:"provider_id"`
	Date                     time.Time                     `gorm:"type:date;not null" json:"date"`
	StartLat                 float64                       `gorm:"not null" json:"start_lat"`
	StartLng                 float64                       `gorm:"not null" json:"start_lng"`
	TotalDistanceKm          float64                       `gorm:"not null" json:"total_distance_km"`
	EstimatedDurationMinutes int                           `gorm:"not null" json:"estimated_duration_minutes"`
	Algorithm                string                        `gorm:"type:varchar(50);not null" json:"algorithm"`
	Waypoints                datatypes.JSONSlice[Waypoint] `gorm:"not null" json:"waypoints"`
	Status                   RouteStatus                   `gorm:"type:route_status;not null;default:planned;index" json:"status"`
	CreatedAt                time.Time                     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                time.Time                     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RouteOptimization) TableName() string {
	return "route_optimizations"
}

func (r *RouteOptimization) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// CanTransitionTo encodes the status state machine. Re-asserting the current
// status is accepted so status updates stay idempotent.
func (r *RouteOptimization) CanTransitionTo(next RouteStatus) bool {
	if r.Status == next {
		return true
	}
	switch r.Status {
	case RouteStatusPlanned:
		return next == RouteStatusInProgress || next == RouteStatusCancelled
	case RouteStatusInProgress:
		return next == RouteStatusCompleted || next == RouteStatusCancelled
	default:
		return false
	}
}
