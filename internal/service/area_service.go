package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"geolocation-service/internal/geo"
	"geolocation-service/internal/model"
)

type ServiceAreaStore interface {
	Create(ctx context.Context, area *model.ServiceArea) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ServiceArea, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID, activeOnly bool) ([]model.ServiceArea, error)
	ListActive(ctx context.Context) ([]model.ServiceArea, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type CategoryStore interface {
	ProviderHasCategory(ctx context.Context, providerID, categoryID uuid.UUID) (bool, error)
}

type LocationStore interface {
	GetActiveByProvider(ctx context.Context, providerID uuid.UUID) (*model.ProviderLocation, error)
	ReplaceActive(ctx context.Context, location *model.ProviderLocation) error
	ListRecentByProvider(ctx context.Context, providerID uuid.UUID, limit int) ([]model.ProviderLocation, error)
}

const (
	defaultPriority      = 1
	defaultMaxDailyJobs  = 10
	defaultMaxDistanceKm = 50
	recentFixesWindow    = 100
)

type AreaService struct {
	areaStore     ServiceAreaStore
	categoryStore CategoryStore
	locationStore LocationStore
}

func NewAreaService(areaStore ServiceAreaStore, categoryStore CategoryStore, locationStore LocationStore) *AreaService {
	return &AreaService{
		areaStore:     areaStore,
		categoryStore: categoryStore,
		locationStore: locationStore,
	}
}

type CreateServiceAreaInput struct {
	Name            string
	CenterLat       float64
	CenterLng       float64
	RadiusKm        float64
	Priority        *int
	MaxDailyJobs    *int
	TravelCostPerKm *float64
	PolygonCoords   []geo.Point
}

func (s *AreaService) CreateServiceArea(ctx context.Context, principal model.Principal, input CreateServiceAreaInput) (*model.ServiceArea, error) {
	if !principal.IsProvider() || principal.ProviderID == nil {
		return nil, ErrPermissionDenied
	}
	if input.Name == "" {
		return nil, ErrInvalidInput
	}
	if !validCoordinates(input.CenterLat, input.CenterLng) {
		return nil, ErrInvalidInput
	}
	if len(input.PolygonCoords) == 0 && input.RadiusKm <= 0 {
		return nil, ErrInvalidInput
	}
	if len(input.PolygonCoords) > 0 && len(input.PolygonCoords) < 3 {
		return nil, ErrInvalidInput
	}

	area := &model.ServiceArea{
		ProviderID:    *principal.ProviderID,
		Name:          input.Name,
		CenterLat:     input.CenterLat,
		CenterLng:     input.CenterLng,
		RadiusKm:      input.RadiusKm,
		Priority:      defaultPriority,
		MaxDailyJobs:  defaultMaxDailyJobs,
		PolygonCoords: input.PolygonCoords,
		IsActive:      true,
	}
	if input.Priority != nil {
		if *input.Priority < 1 {
			return nil, ErrInvalidInput
		}
		area.Priority = *input.Priority
	}
	if input.MaxDailyJobs != nil {
		area.MaxDailyJobs = *input.MaxDailyJobs
	}
	if input.TravelCostPerKm != nil {
		area.TravelCostPerKm = *input.TravelCostPerKm
	}

	if err := s.areaStore.Create(ctx, area); err != nil {
		return nil, err
	}
	return area, nil
}

func (s *AreaService) ListMyAreas(ctx context.Context, principal model.Principal) ([]model.ServiceArea, error) {
	if !principal.IsProvider() || principal.ProviderID == nil {
		return nil, ErrPermissionDenied
	}
	return s.areaStore.ListByProvider(ctx, *principal.ProviderID, false)
}

func (s *AreaService) DeactivateArea(ctx context.Context, principal model.Principal, id uuid.UUID) error {
	area, err := s.areaStore.GetByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if !principal.IsAdmin() {
		if !principal.IsProvider() || principal.ProviderID == nil || area.ProviderID != *principal.ProviderID {
			return ErrPermissionDenied
		}
	}
	return s.areaStore.Deactivate(ctx, id)
}

// AreaMatch is a service area annotated with its distance from a query point.
type AreaMatch struct {
	model.ServiceArea
	DistanceKm float64 `json:"distance_km"`
}

type FindProvidersInput struct {
	Latitude      float64
	Longitude     float64
	CategoryID    *uuid.UUID
	MaxDistanceKm float64
}

// FindProvidersInArea returns every active area containing the point, sorted
// ascending by distance from the point to the area center. The category
// filter is advisory: it narrows by provider capability and never affects
// the distance computation.
func (s *AreaService) FindProvidersInArea(ctx context.Context, input FindProvidersInput) ([]AreaMatch, error) {
	if !validCoordinates(input.Latitude, input.Longitude) {
		return nil, ErrInvalidInput
	}
	maxDistance := input.MaxDistanceKm
	if maxDistance <= 0 {
		maxDistance = defaultMaxDistanceKm
	}

	areas, err := s.areaStore.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]AreaMatch, 0, len(areas))
	for _, area := range areas {
		if !area.Contains(input.Latitude, input.Longitude) {
			continue
		}
		distance := geo.DistanceKm(input.Latitude, input.Longitude, area.CenterLat, area.CenterLng)
		if distance > maxDistance {
			continue
		}
		if input.CategoryID != nil {
			ok, err := s.categoryStore.ProviderHasCategory(ctx, area.ProviderID, *input.CategoryID)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		matches = append(matches, AreaMatch{ServiceArea: area, DistanceKm: distance})
	}

	// Stable sort keeps insertion order on distance ties.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	return matches, nil
}

type CoverageStats struct {
	TotalAreas       int        `json:"total_areas"`
	TotalCoverageKm2 float64    `json:"total_coverage_km2"`
	AvgRadiusKm      float64    `json:"avg_radius_km"`
	RecentFixes      int        `json:"recent_fixes"`
	LastFixAt        *time.Time `json:"last_fix_at,omitempty"`
}

// GetProviderCoverageStats aggregates active areas as the sum of circle
// surfaces. Overlapping areas are deliberately double-counted; the number is
// an estimate, not a union.
func (s *AreaService) GetProviderCoverageStats(ctx context.Context, principal model.Principal) (*CoverageStats, error) {
	if !principal.IsProvider() || principal.ProviderID == nil {
		return nil, ErrPermissionDenied
	}

	areas, err := s.areaStore.ListByProvider(ctx, *principal.ProviderID, true)
	if err != nil {
		return nil, err
	}

	stats := &CoverageStats{TotalAreas: len(areas)}
	for _, area := range areas {
		stats.TotalCoverageKm2 += math.Pi * area.RadiusKm * area.RadiusKm
		stats.AvgRadiusKm += area.RadiusKm
	}
	if len(areas) > 0 {
		stats.AvgRadiusKm /= float64(len(areas))
	}

	fixes, err := s.locationStore.ListRecentByProvider(ctx, *principal.ProviderID, recentFixesWindow)
	if err != nil {
		return nil, err
	}
	stats.RecentFixes = len(fixes)
	if len(fixes) > 0 {
		latest := fixes[0].Timestamp
		stats.LastFixAt = &latest
	}

	return stats, nil
}
