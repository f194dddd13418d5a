package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"geolocation-service/internal/model"
)

type GeofenceStore interface {
	Create(ctx context.Context, geofence *model.Geofence) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Geofence, error)
	ListActive(ctx context.Context) ([]model.Geofence, error)
	List(ctx context.Context) ([]model.Geofence, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type LocationEventStore interface {
	Create(ctx context.Context, event *model.LocationEvent) error
	ListByProvider(ctx context.Context, providerID uuid.UUID, limit int) ([]model.LocationEvent, error)
}

// EventPublisher fans an event out to webhook subscribers.
type EventPublisher interface {
	Emit(ctx context.Context, eventType string, data interface{})
}

const (
	EventEnteredGeofence = "location.entered_geofence"
	EventExitedGeofence  = "location.exited_geofence"
)

type LocationService struct {
	locationStore LocationStore
	geofenceStore GeofenceStore
	eventStore    LocationEventStore
	publisher     EventPublisher
}

func NewLocationService(
	locationStore LocationStore,
	geofenceStore GeofenceStore,
	eventStore LocationEventStore,
	publisher EventPublisher,
) *LocationService {
	return &LocationService{
		locationStore: locationStore,
		geofenceStore: geofenceStore,
		eventStore:    eventStore,
		publisher:     publisher,
	}
}

type UpdateLocationInput struct {
	Latitude  float64
	Longitude float64
	Accuracy  *float64
	Address   *string
}

// UpdateLocation records a new GPS fix for the provider and runs geofence
// detection against the fix it supersedes. Last write wins; callers push on
// their own cadence.
func (s *LocationService) UpdateLocation(ctx context.Context, principal model.Principal, input UpdateLocationInput) (*model.ProviderLocation, []model.LocationEvent, error) {
	if !principal.IsProvider() || principal.ProviderID == nil {
		return nil, nil, ErrPermissionDenied
	}
	if !validCoordinates(input.Latitude, input.Longitude) {
		return nil, nil, ErrInvalidInput
	}

	providerID := *principal.ProviderID

	previous, err := s.locationStore.GetActiveByProvider(ctx, providerID)
	if err != nil {
		return nil, nil, err
	}

	location := &model.ProviderLocation{
		ProviderID: providerID,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		Accuracy:   input.Accuracy,
		Address:    input.Address,
		Timestamp:  time.Now(),
		IsActive:   true,
		Source:     model.LocationSourceGPS,
	}
	if err := s.locationStore.ReplaceActive(ctx, location); err != nil {
		return nil, nil, err
	}

	var prevLat, prevLng *float64
	if previous != nil {
		prevLat = &previous.Latitude
		prevLng = &previous.Longitude
	}

	events, err := s.CheckGeofenceEvents(ctx, providerID, input.Latitude, input.Longitude, prevLat, prevLng)
	if err != nil {
		return nil, nil, err
	}

	return location, events, nil
}

// CheckGeofenceEvents compares the new position against every active geofence
// and emits enter/exit events for boundary crossings. Geofences are evaluated
// independently, so one fix can produce several events. Repeating an
// identical fix produces none.
func (s *LocationService) CheckGeofenceEvents(ctx context.Context, providerID uuid.UUID, lat, lng float64, prevLat, prevLng *float64) ([]model.LocationEvent, error) {
	geofences, err := s.geofenceStore.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var events []model.LocationEvent
	for _, geofence := range geofences {
		currentlyInside := geofence.Contains(lat, lng)
		previouslyInside := false
		if prevLat != nil && prevLng != nil {
			previouslyInside = geofence.Contains(*prevLat, *prevLng)
		}

		var eventType model.LocationEventType
		switch {
		case currentlyInside && !previouslyInside:
			eventType = model.LocationEventEnterGeofence
		case !currentlyInside && previouslyInside:
			eventType = model.LocationEventExitGeofence
		default:
			continue
		}

		event := model.LocationEvent{
			ProviderID: providerID,
			EventType:  eventType,
			Latitude:   lat,
			Longitude:  lng,
			GeofenceID: geofence.ID,
			Metadata: datatypes.JSONMap{
				"geofence_name": geofence.Name,
				"geofence_type": geofence.GeofenceType,
			},
		}
		if err := s.eventStore.Create(ctx, &event); err != nil {
			return nil, err
		}

		webhookType := EventEnteredGeofence
		if eventType == model.LocationEventExitGeofence {
			webhookType = EventExitedGeofence
		}
		if s.publisher != nil {
			s.publisher.Emit(ctx, webhookType, event)
		}

		events = append(events, event)
	}

	return events, nil
}

func (s *LocationService) ListProviderEvents(ctx context.Context, principal model.Principal, limit int) ([]model.LocationEvent, error) {
	if !principal.IsProvider() || principal.ProviderID == nil {
		return nil, ErrPermissionDenied
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.eventStore.ListByProvider(ctx, *principal.ProviderID, limit)
}

type CreateGeofenceInput struct {
	Name         string
	CenterLat    float64
	CenterLng    float64
	RadiusKm     float64
	GeofenceType string
}

func (s *LocationService) CreateGeofence(ctx context.Context, principal model.Principal, input CreateGeofenceInput) (*model.Geofence, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if input.Name == "" || input.RadiusKm <= 0 {
		return nil, ErrInvalidInput
	}
	if !validCoordinates(input.CenterLat, input.CenterLng) {
		return nil, ErrInvalidInput
	}

	geofence := &model.Geofence{
		Name:         input.Name,
		CenterLat:    input.CenterLat,
		CenterLng:    input.CenterLng,
		RadiusKm:     input.RadiusKm,
		GeofenceType: input.GeofenceType,
		IsActive:     true,
	}
	if geofence.GeofenceType == "" {
		geofence.GeofenceType = "zone"
	}

	if err := s.geofenceStore.Create(ctx, geofence); err != nil {
		return nil, err
	}
	return geofence, nil
}

func (s *LocationService) ListGeofences(ctx context.Context, principal model.Principal) ([]model.Geofence, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.geofenceStore.List(ctx)
}

func (s *LocationService) DeactivateGeofence(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	if !principal.IsAdmin() {
		return ErrPermissionDenied
	}
	if _, err := s.geofenceStore.GetByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.geofenceStore.Deactivate(ctx, id)
}
