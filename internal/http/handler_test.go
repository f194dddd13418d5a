package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"geolocation-service/internal/config"
	"geolocation-service/internal/http/middleware"
	"geolocation-service/internal/model"
	"geolocation-service/internal/service"
)

type stubAreaStore struct{ areas []model.ServiceArea }

func (s *stubAreaStore) Create(_ context.Context, area *model.ServiceArea) error {
	if area.ID == uuid.Nil {
		area.ID = uuid.New()
	}
	s.areas = append(s.areas, *area)
	return nil
}

func (s *stubAreaStore) GetByID(_ context.Context, id uuid.UUID) (*model.ServiceArea, error) {
	for i := range s.areas {
		if s.areas[i].ID == id {
			area := s.areas[i]
			return &area, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAreaStore) ListByProvider(_ context.Context, providerID uuid.UUID, _ bool) ([]model.ServiceArea, error) {
	var out []model.ServiceArea
	for _, area := range s.areas {
		if area.ProviderID == providerID {
			out = append(out, area)
		}
	}
	return out, nil
}

func (s *stubAreaStore) ListActive(_ context.Context) ([]model.ServiceArea, error) {
	var out []model.ServiceArea
	for _, area := range s.areas {
		if area.IsActive {
			out = append(out, area)
		}
	}
	return out, nil
}

func (s *stubAreaStore) Deactivate(_ context.Context, _ uuid.UUID) error { return nil }

type stubCategoryStore struct{}

func (stubCategoryStore) ProviderHasCategory(_ context.Context, _, _ uuid.UUID) (bool, error) {
	return true, nil
}

type stubLocationStore struct{ active map[uuid.UUID]*model.ProviderLocation }

func (s *stubLocationStore) GetActiveByProvider(_ context.Context, providerID uuid.UUID) (*model.ProviderLocation, error) {
	return s.active[providerID], nil
}

func (s *stubLocationStore) ReplaceActive(_ context.Context, location *model.ProviderLocation) error {
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	copied := *location
	s.active[location.ProviderID] = &copied
	return nil
}

func (s *stubLocationStore) ListRecentByProvider(_ context.Context, _ uuid.UUID, _ int) ([]model.ProviderLocation, error) {
	return nil, nil
}

type stubGeofenceStore struct{}

func (stubGeofenceStore) Create(_ context.Context, g *model.Geofence) error { return nil }
func (stubGeofenceStore) GetByID(_ context.Context, _ uuid.UUID) (*model.Geofence, error) {
	return nil, gorm.ErrRecordNotFound
}
func (stubGeofenceStore) ListActive(_ context.Context) ([]model.Geofence, error) { return nil, nil }
func (stubGeofenceStore) List(_ context.Context) ([]model.Geofence, error)       { return nil, nil }
func (stubGeofenceStore) Deactivate(_ context.Context, _ uuid.UUID) error        { return nil }

type stubEventStore struct{}

func (stubEventStore) Create(_ context.Context, _ *model.LocationEvent) error { return nil }
func (stubEventStore) ListByProvider(_ context.Context, _ uuid.UUID, _ int) ([]model.LocationEvent, error) {
	return nil, nil
}

type stubRouteStore struct{ routes map[uuid.UUID]*model.RouteOptimization }

func (s *stubRouteStore) Create(_ context.Context, route *model.RouteOptimization) error {
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}
	copied := *route
	s.routes[route.ID] = &copied
	return nil
}

func (s *stubRouteStore) GetByID(_ context.Context, id uuid.UUID) (*model.RouteOptimization, error) {
	if route, ok := s.routes[id]; ok {
		copied := *route
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRouteStore) ListByProvider(_ context.Context, _ uuid.UUID) ([]model.RouteOptimization, error) {
	return nil, nil
}

func (s *stubRouteStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.RouteStatus) error {
	if route, ok := s.routes[id]; ok {
		route.Status = status
	}
	return nil
}

type stubRequestStore struct{ requests []model.ServiceRequest }

func (s *stubRequestStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]model.ServiceRequest, error) {
	byID := make(map[uuid.UUID]model.ServiceRequest)
	for _, req := range s.requests {
		byID[req.ID] = req
	}
	var out []model.ServiceRequest
	for _, id := range ids {
		if req, ok := byID[id]; ok {
			out = append(out, req)
		}
	}
	return out, nil
}

type stubSubscriptionStore struct{}

func (stubSubscriptionStore) CreateSubscription(_ context.Context, s *model.WebhookSubscription) error {
	return nil
}
func (stubSubscriptionStore) ListSubscriptions(_ context.Context) ([]model.WebhookSubscription, error) {
	return nil, nil
}

type noopPublisher struct{}

func (noopPublisher) Emit(_ context.Context, _ string, _ interface{}) {}

type fixture struct {
	router     http.Handler
	routeStore *stubRouteStore
	providerID uuid.UUID
}

func newFixture(requests []model.ServiceRequest) *fixture {
	providerID := uuid.New()
	principal := model.Principal{
		UserID:     uuid.New(),
		ProviderID: &providerID,
		Role:       model.RoleProvider,
	}

	routeStore := &stubRouteStore{routes: map[uuid.UUID]*model.RouteOptimization{}}
	locationStore := &stubLocationStore{active: map[uuid.UUID]*model.ProviderLocation{}}

	routingCfg := config.RoutingConfig{AverageSpeedKmh: 40, ServiceTimeMin: 30, UrgencyMultiplier: 0.7}

	areaService := service.NewAreaService(&stubAreaStore{}, stubCategoryStore{}, locationStore)
	locationService := service.NewLocationService(locationStore, stubGeofenceStore{}, stubEventStore{}, noopPublisher{})
	routingService := service.NewRoutingService(routeStore, &stubRequestStore{requests: requests}, locationStore, noopPublisher{}, routingCfg)
	webhookService := service.NewWebhookService(stubSubscriptionStore{})

	handler := NewHandler(areaService, locationService, routingService, webhookService, zerolog.Nop())
	router := NewRouter(handler, middleware.SetPrincipal(principal), "test")

	return &fixture{router: router, routeStore: routeStore, providerID: providerID}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestOptimizeRouteEndToEnd(t *testing.T) {
	requests := []model.ServiceRequest{
		{ID: uuid.New(), Title: "Leaky faucet", Latitude: -34.60, Longitude: -58.38, Urgency: model.UrgencyNormal},
		{ID: uuid.New(), Title: "Broken heater", Latitude: -34.61, Longitude: -58.40, Urgency: model.UrgencyUrgent},
		{ID: uuid.New(), Title: "Paint hallway", Latitude: -34.59, Longitude: -58.37, Urgency: model.UrgencyNormal},
	}
	f := newFixture(requests)

	rec := f.do(t, http.MethodPost, "/api/geolocation/optimize-route", map[string]interface{}{
		"request_ids": []string{
			requests[0].ID.String(),
			requests[1].ID.String(),
			requests[2].ID.String(),
		},
		"start_location": map[string]float64{"lat": -34.58, "lng": -58.36},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Optimization model.RouteOptimization `json:"optimization"`
			Waypoints    []model.Waypoint        `json:"waypoints"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Len(t, resp.Data.Waypoints, 3)
	assert.Equal(t, model.RouteStatusPlanned, resp.Data.Optimization.Status)
	assert.Greater(t, resp.Data.Optimization.TotalDistanceKm, 0.0)
}

func TestOptimizeRouteWithoutLocationFails(t *testing.T) {
	request := model.ServiceRequest{ID: uuid.New(), Title: "A", Latitude: 0, Longitude: 0}
	f := newFixture([]model.ServiceRequest{request})

	rec := f.do(t, http.MethodPost, "/api/geolocation/optimize-route", map[string]interface{}{
		"request_ids": []string{request.ID.String()},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouteStatusLifecycle(t *testing.T) {
	request := model.ServiceRequest{ID: uuid.New(), Title: "A", Latitude: 0.01, Longitude: 0.01}
	f := newFixture([]model.ServiceRequest{request})

	rec := f.do(t, http.MethodPost, "/api/geolocation/optimize-route", map[string]interface{}{
		"request_ids":    []string{request.ID.String()},
		"start_location": map[string]float64{"lat": 0, "lng": 0},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data struct {
			Optimization model.RouteOptimization `json:"optimization"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	routeID := created.Data.Optimization.ID

	patch := func(status string) *httptest.ResponseRecorder {
		return f.do(t, http.MethodPatch,
			fmt.Sprintf("/api/geolocation/route-optimizations/%s", routeID),
			map[string]string{"status": status})
	}

	assert.Equal(t, http.StatusOK, patch("in_progress").Code)
	assert.Equal(t, http.StatusOK, patch("completed").Code)

	// Completed routes are terminal.
	rec = patch("cancelled")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateLocationEndpoint(t *testing.T) {
	f := newFixture(nil)

	rec := f.do(t, http.MethodPost, "/api/geolocation/location", map[string]interface{}{
		"latitude":  -34.60,
		"longitude": -58.38,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Location model.ProviderLocation `json:"location"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, f.providerID, resp.Data.Location.ProviderID)
	assert.True(t, resp.Data.Location.IsActive)
}

func TestFindProvidersInAreaEndpoint(t *testing.T) {
	f := newFixture(nil)

	// Seed an area through the handler itself.
	rec := f.do(t, http.MethodPost, "/api/geolocation/service-areas", map[string]interface{}{
		"name":       "Central",
		"center_lat": -34.60,
		"center_lng": -58.38,
		"radius_km":  15.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/geolocation/providers-in-area?latitude=-34.61&longitude=-58.40", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []struct {
			Name       string  `json:"name"`
			DistanceKm float64 `json:"distance_km"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Central", resp.Data[0].Name)
	assert.Greater(t, resp.Data[0].DistanceKm, 0.0)
}
