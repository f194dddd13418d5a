package service

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geolocation-service/internal/geo"
	"geolocation-service/internal/model"
)

func newAreaFixture() (*AreaService, *fakeAreaStore, *fakeCategoryStore, *fakeLocationStore) {
	areaStore := &fakeAreaStore{}
	categoryStore := &fakeCategoryStore{links: map[uuid.UUID][]uuid.UUID{}}
	locationStore := newFakeLocationStore()
	svc := NewAreaService(areaStore, categoryStore, locationStore)
	return svc, areaStore, categoryStore, locationStore
}

func seedArea(store *fakeAreaStore, providerID uuid.UUID, name string, lat, lng, radiusKm float64, active bool) model.ServiceArea {
	area := model.ServiceArea{
		ProviderID: providerID,
		Name:       name,
		CenterLat:  lat,
		CenterLng:  lng,
		RadiusKm:   radiusKm,
		Priority:   1,
		IsActive:   active,
	}
	_ = store.Create(context.Background(), &area)
	return store.areas[len(store.areas)-1]
}

func TestCreateServiceAreaDefaults(t *testing.T) {
	svc, _, _, _ := newAreaFixture()

	area, err := svc.CreateServiceArea(context.Background(), providerPrincipal(uuid.New()), CreateServiceAreaInput{
		Name:      "North side",
		CenterLat: -34.56,
		CenterLng: -58.45,
		RadiusKm:  12,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, area.Priority)
	assert.Equal(t, 10, area.MaxDailyJobs)
	assert.Zero(t, area.TravelCostPerKm)
	assert.True(t, area.IsActive)
}

func TestCreateServiceAreaValidation(t *testing.T) {
	svc, _, _, _ := newAreaFixture()
	principal := providerPrincipal(uuid.New())

	_, err := svc.CreateServiceArea(context.Background(), principal, CreateServiceAreaInput{
		Name: "no radius", CenterLat: 0, CenterLng: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateServiceArea(context.Background(), principal, CreateServiceAreaInput{
		Name: "bad lat", CenterLat: 95, CenterLng: 0, RadiusKm: 5,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateServiceArea(context.Background(), principal, CreateServiceAreaInput{
		Name: "thin polygon", CenterLat: 0, CenterLng: 0, RadiusKm: 5,
		PolygonCoords: []geo.Point{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Polygon areas do not need a radius.
	_, err = svc.CreateServiceArea(context.Background(), principal, CreateServiceAreaInput{
		Name: "polygon", CenterLat: 0, CenterLng: 0,
		PolygonCoords: []geo.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 0}},
	})
	assert.NoError(t, err)
}

func TestFindProvidersInAreaSortsByDistance(t *testing.T) {
	svc, areaStore, _, _ := newAreaFixture()

	far := seedArea(areaStore, uuid.New(), "far", 0.2, 0, 30, true)
	near := seedArea(areaStore, uuid.New(), "near", 0.05, 0, 30, true)
	inactive := seedArea(areaStore, uuid.New(), "inactive", 0.01, 0, 30, false)
	tooSmall := seedArea(areaStore, uuid.New(), "too small", 0.5, 0.5, 1, true)

	matches, err := svc.FindProvidersInArea(context.Background(), FindProvidersInput{Latitude: 0, Longitude: 0})
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, near.ID, matches[0].ID)
	assert.Equal(t, far.ID, matches[1].ID)
	assert.Less(t, matches[0].DistanceKm, matches[1].DistanceKm)

	for _, match := range matches {
		assert.NotEqual(t, inactive.ID, match.ID)
		assert.NotEqual(t, tooSmall.ID, match.ID)
	}
}

func TestFindProvidersInAreaCategoryFilter(t *testing.T) {
	svc, areaStore, categoryStore, _ := newAreaFixture()

	plumber := uuid.New()
	electrician := uuid.New()
	plumbing := uuid.New()
	categoryStore.links[plumber] = []uuid.UUID{plumbing}

	seedArea(areaStore, plumber, "plumber zone", 0, 0, 20, true)
	seedArea(areaStore, electrician, "electrician zone", 0.01, 0, 20, true)

	matches, err := svc.FindProvidersInArea(context.Background(), FindProvidersInput{
		Latitude: 0, Longitude: 0, CategoryID: &plumbing,
	})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, plumber, matches[0].ProviderID)
}

func TestFindProvidersInAreaMaxDistanceCap(t *testing.T) {
	svc, areaStore, _, _ := newAreaFixture()

	// Area contains the point but its center sits ~67 km away, beyond the
	// default 50 km cap.
	seedArea(areaStore, uuid.New(), "huge", 0.6, 0, 100, true)

	matches, err := svc.FindProvidersInArea(context.Background(), FindProvidersInput{Latitude: 0, Longitude: 0})
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = svc.FindProvidersInArea(context.Background(), FindProvidersInput{
		Latitude: 0, Longitude: 0, MaxDistanceKm: 80,
	})
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestFindProvidersInAreaRejectsBadCoordinates(t *testing.T) {
	svc, _, _, _ := newAreaFixture()

	_, err := svc.FindProvidersInArea(context.Background(), FindProvidersInput{Latitude: -120, Longitude: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCoverageStats(t *testing.T) {
	svc, areaStore, _, locationStore := newAreaFixture()
	providerID := uuid.New()
	principal := providerPrincipal(providerID)

	seedArea(areaStore, providerID, "a", 0, 0, 2, true)
	seedArea(areaStore, providerID, "b", 1, 1, 4, true)
	seedArea(areaStore, providerID, "retired", 2, 2, 8, false)

	require.NoError(t, locationStore.ReplaceActive(context.Background(), &model.ProviderLocation{
		ProviderID: providerID, Latitude: 0, Longitude: 0, IsActive: true,
	}))
	require.NoError(t, locationStore.ReplaceActive(context.Background(), &model.ProviderLocation{
		ProviderID: providerID, Latitude: 1, Longitude: 1, IsActive: true,
	}))

	stats, err := svc.GetProviderCoverageStats(context.Background(), principal)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalAreas)
	assert.InDelta(t, math.Pi*(4+16), stats.TotalCoverageKm2, 1e-9)
	assert.InDelta(t, 3, stats.AvgRadiusKm, 1e-9)
	assert.Equal(t, 2, stats.RecentFixes)
	require.NotNil(t, stats.LastFixAt)
}

func TestDeactivateAreaOwnership(t *testing.T) {
	svc, areaStore, _, _ := newAreaFixture()
	owner := uuid.New()
	area := seedArea(areaStore, owner, "mine", 0, 0, 5, true)

	err := svc.DeactivateArea(context.Background(), providerPrincipal(uuid.New()), area.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, svc.DeactivateArea(context.Background(), providerPrincipal(owner), area.ID))

	got, err := areaStore.GetByID(context.Background(), area.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}
