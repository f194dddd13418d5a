package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"geolocation-service/internal/config"
	"geolocation-service/internal/geo"
	"geolocation-service/internal/model"
)

type RouteStore interface {
	Create(ctx context.Context, route *model.RouteOptimization) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.RouteOptimization, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]model.RouteOptimization, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.RouteStatus) error
}

type RequestStore interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.ServiceRequest, error)
}

const EventRouteOptimized = "route.optimized"

type RoutingService struct {
	routeStore    RouteStore
	requestStore  RequestStore
	locationStore LocationStore
	publisher     EventPublisher
	cfg           config.RoutingConfig
}

func NewRoutingService(
	routeStore RouteStore,
	requestStore RequestStore,
	locationStore LocationStore,
	publisher EventPublisher,
	cfg config.RoutingConfig,
) *RoutingService {
	return &RoutingService{
		routeStore:    routeStore,
		requestStore:  requestStore,
		locationStore: locationStore,
		publisher:     publisher,
		cfg:           cfg,
	}
}

type OptimizeRouteInput struct {
	RequestIDs    []uuid.UUID
	StartLocation *geo.Point
}

// OptimizeRoute orders the given service requests with an urgency-weighted
// nearest-neighbor pass and persists the result. The urgency multiplier only
// biases which stop is picked next; reported distance and duration always use
// the raw travelled distance. Nothing is written when any lookup fails.
func (s *RoutingService) OptimizeRoute(ctx context.Context, principal model.Principal, input OptimizeRouteInput) (*model.RouteOptimization, error) {
	if !principal.IsProvider() || principal.ProviderID == nil {
		return nil, ErrPermissionDenied
	}
	if len(input.RequestIDs) == 0 {
		return nil, ErrInvalidInput
	}

	providerID := *principal.ProviderID

	start, err := s.resolveStart(ctx, providerID, input.StartLocation)
	if err != nil {
		return nil, err
	}

	requests, err := s.requestStore.GetByIDs(ctx, input.RequestIDs)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, ErrRequestsNotFound
	}

	waypoints, totalDistance := s.nearestNeighborOrder(*start, requests)

	durationMinutes := int(math.Round(totalDistance/s.cfg.AverageSpeedKmh*60 + float64(len(waypoints)*s.cfg.ServiceTimeMin)))

	route := &model.RouteOptimization{
		ProviderID:               providerID,
		Date:                     time.Now().Truncate(24 * time.Hour),
		StartLat:                 start.Lat,
		StartLng:                 start.Lng,
		TotalDistanceKm:          totalDistance,
		EstimatedDurationMinutes: durationMinutes,
		Algorithm:                model.AlgorithmNearestNeighbor,
		Waypoints:                waypoints,
		Status:                   model.RouteStatusPlanned,
	}
	if err := s.routeStore.Create(ctx, route); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Emit(ctx, EventRouteOptimized, route)
	}

	return route, nil
}

func (s *RoutingService) resolveStart(ctx context.Context, providerID uuid.UUID, explicit *geo.Point) (*geo.Point, error) {
	if explicit != nil {
		if !validCoordinates(explicit.Lat, explicit.Lng) {
			return nil, ErrInvalidInput
		}
		return explicit, nil
	}

	location, err := s.locationStore.GetActiveByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, ErrNoLocation
	}
	return &geo.Point{Lat: location.Latitude, Lng: location.Longitude}, nil
}

// nearestNeighborOrder greedily visits the unvisited request with the lowest
// weighted distance. Urgent requests look closer by the configured multiplier,
// but the accumulated total is always the raw distance. Ties keep the
// first-seen request for determinism.
func (s *RoutingService) nearestNeighborOrder(start geo.Point, requests []model.ServiceRequest) ([]model.Waypoint, float64) {
	unvisited := make([]model.ServiceRequest, len(requests))
	copy(unvisited, requests)

	current := start
	waypoints := make([]model.Waypoint, 0, len(requests))
	totalDistance := 0.0

	for len(unvisited) > 0 {
		bestIdx := 0
		bestWeighted := math.Inf(1)
		bestRaw := 0.0

		for i, req := range unvisited {
			raw := geo.DistanceKm(current.Lat, current.Lng, req.Latitude, req.Longitude)
			weighted := raw
			if req.Urgency == model.UrgencyUrgent {
				weighted = raw * s.cfg.UrgencyMultiplier
			}
			if weighted < bestWeighted {
				bestWeighted = weighted
				bestRaw = raw
				bestIdx = i
			}
		}

		next := unvisited[bestIdx]
		waypoints = append(waypoints, model.Waypoint{
			RequestID: next.ID,
			Lat:       next.Latitude,
			Lng:       next.Longitude,
			Title:     next.Title,
			Urgency:   next.Urgency,
		})
		totalDistance += bestRaw
		current = geo.Point{Lat: next.Latitude, Lng: next.Longitude}
		unvisited = append(unvisited[:bestIdx], unvisited[bestIdx+1:]...)
	}

	return waypoints, totalDistance
}

func (s *RoutingService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.RouteOptimization, error) {
	route, err := s.routeStore.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !s.canAccessRoute(principal, route) {
		return nil, ErrPermissionDenied
	}
	return route, nil
}

func (s *RoutingService) ListMine(ctx context.Context, principal model.Principal) ([]model.RouteOptimization, error) {
	if !principal.IsProvider() || principal.ProviderID == nil {
		return nil, ErrPermissionDenied
	}
	return s.routeStore.ListByProvider(ctx, *principal.ProviderID)
}

// UpdateStatus applies one edge of the route state machine. Re-asserting the
// current status succeeds without a write; any other illegal edge is
// rejected.
func (s *RoutingService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.RouteStatus) (*model.RouteOptimization, error) {
	switch status {
	case model.RouteStatusPlanned, model.RouteStatusInProgress, model.RouteStatusCompleted, model.RouteStatusCancelled:
	default:
		return nil, ErrInvalidInput
	}

	route, err := s.routeStore.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if !s.canAccessRoute(principal, route) {
		return nil, ErrPermissionDenied
	}
	if !route.CanTransitionTo(status) {
		return nil, ErrInvalidTransition
	}

	if route.Status != status {
		if err := s.routeStore.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}
		route.Status = status
	}

	return route, nil
}

func (s *RoutingService) canAccessRoute(principal model.Principal, route *model.RouteOptimization) bool {
	if principal.IsAdmin() {
		return true
	}
	return principal.IsProvider() && principal.ProviderID != nil && route.ProviderID == *principal.ProviderID
}
