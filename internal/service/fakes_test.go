package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"geolocation-service/internal/model"
)

type fakeAreaStore struct {
	areas []model.ServiceArea
}

func (f *fakeAreaStore) Create(_ context.Context, area *model.ServiceArea) error {
	if area.ID == uuid.Nil {
		area.ID = uuid.New()
	}
	f.areas = append(f.areas, *area)
	return nil
}

func (f *fakeAreaStore) GetByID(_ context.Context, id uuid.UUID) (*model.ServiceArea, error) {
	for i := range f.areas {
		if f.areas[i].ID == id {
			area := f.areas[i]
			return &area, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAreaStore) ListByProvider(_ context.Context, providerID uuid.UUID, activeOnly bool) ([]model.ServiceArea, error) {
	var out []model.ServiceArea
	for _, area := range f.areas {
		if area.ProviderID != providerID {
			continue
		}
		if activeOnly && !area.IsActive {
			continue
		}
		out = append(out, area)
	}
	return out, nil
}

func (f *fakeAreaStore) ListActive(_ context.Context) ([]model.ServiceArea, error) {
	var out []model.ServiceArea
	for _, area := range f.areas {
		if area.IsActive {
			out = append(out, area)
		}
	}
	return out, nil
}

func (f *fakeAreaStore) Deactivate(_ context.Context, id uuid.UUID) error {
	for i := range f.areas {
		if f.areas[i].ID == id {
			f.areas[i].IsActive = false
		}
	}
	return nil
}

type fakeCategoryStore struct {
	links map[uuid.UUID][]uuid.UUID
}

func (f *fakeCategoryStore) ProviderHasCategory(_ context.Context, providerID, categoryID uuid.UUID) (bool, error) {
	for _, id := range f.links[providerID] {
		if id == categoryID {
			return true, nil
		}
	}
	return false, nil
}

type fakeLocationStore struct {
	mu      sync.Mutex
	active  map[uuid.UUID]*model.ProviderLocation
	history map[uuid.UUID][]model.ProviderLocation
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{
		active:  make(map[uuid.UUID]*model.ProviderLocation),
		history: make(map[uuid.UUID][]model.ProviderLocation),
	}
}

func (f *fakeLocationStore) GetActiveByProvider(_ context.Context, providerID uuid.UUID) (*model.ProviderLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if loc, ok := f.active[providerID]; ok {
		copied := *loc
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeLocationStore) ReplaceActive(_ context.Context, location *model.ProviderLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if location.ID == uuid.Nil {
		location.ID = uuid.New()
	}
	if prev, ok := f.active[location.ProviderID]; ok {
		prev.IsActive = false
	}
	copied := *location
	f.active[location.ProviderID] = &copied
	f.history[location.ProviderID] = append([]model.ProviderLocation{copied}, f.history[location.ProviderID]...)
	return nil
}

func (f *fakeLocationStore) ListRecentByProvider(_ context.Context, providerID uuid.UUID, limit int) ([]model.ProviderLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fixes := f.history[providerID]
	if len(fixes) > limit {
		fixes = fixes[:limit]
	}
	return fixes, nil
}

type fakeGeofenceStore struct {
	geofences []model.Geofence
}

func (f *fakeGeofenceStore) Create(_ context.Context, geofence *model.Geofence) error {
	if geofence.ID == uuid.Nil {
		geofence.ID = uuid.New()
	}
	f.geofences = append(f.geofences, *geofence)
	return nil
}

func (f *fakeGeofenceStore) GetByID(_ context.Context, id uuid.UUID) (*model.Geofence, error) {
	for i := range f.geofences {
		if f.geofences[i].ID == id {
			geofence := f.geofences[i]
			return &geofence, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGeofenceStore) ListActive(_ context.Context) ([]model.Geofence, error) {
	var out []model.Geofence
	for _, geofence := range f.geofences {
		if geofence.IsActive {
			out = append(out, geofence)
		}
	}
	return out, nil
}

func (f *fakeGeofenceStore) List(_ context.Context) ([]model.Geofence, error) {
	return f.geofences, nil
}

func (f *fakeGeofenceStore) Deactivate(_ context.Context, id uuid.UUID) error {
	for i := range f.geofences {
		if f.geofences[i].ID == id {
			f.geofences[i].IsActive = false
		}
	}
	return nil
}

type fakeEventStore struct {
	events []model.LocationEvent
}

func (f *fakeEventStore) Create(_ context.Context, event *model.LocationEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeEventStore) ListByProvider(_ context.Context, providerID uuid.UUID, limit int) ([]model.LocationEvent, error) {
	var out []model.LocationEvent
	for _, event := range f.events {
		if event.ProviderID == providerID {
			out = append(out, event)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakePublisher struct {
	emitted []string
}

func (f *fakePublisher) Emit(_ context.Context, eventType string, _ interface{}) {
	f.emitted = append(f.emitted, eventType)
}

type fakeRouteStore struct {
	routes map[uuid.UUID]*model.RouteOptimization
}

func newFakeRouteStore() *fakeRouteStore {
	return &fakeRouteStore{routes: make(map[uuid.UUID]*model.RouteOptimization)}
}

func (f *fakeRouteStore) Create(_ context.Context, route *model.RouteOptimization) error {
	if route.ID == uuid.Nil {
		route.ID = uuid.New()
	}
	copied := *route
	f.routes[route.ID] = &copied
	return nil
}

func (f *fakeRouteStore) GetByID(_ context.Context, id uuid.UUID) (*model.RouteOptimization, error) {
	if route, ok := f.routes[id]; ok {
		copied := *route
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRouteStore) ListByProvider(_ context.Context, providerID uuid.UUID) ([]model.RouteOptimization, error) {
	var out []model.RouteOptimization
	for _, route := range f.routes {
		if route.ProviderID == providerID {
			out = append(out, *route)
		}
	}
	return out, nil
}

func (f *fakeRouteStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.RouteStatus) error {
	if route, ok := f.routes[id]; ok {
		route.Status = status
	}
	return nil
}

type fakeRequestStore struct {
	requests []model.ServiceRequest
}

func (f *fakeRequestStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]model.ServiceRequest, error) {
	byID := make(map[uuid.UUID]model.ServiceRequest, len(f.requests))
	for _, req := range f.requests {
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

func providerPrincipal(providerID uuid.UUID) model.Principal {
	return model.Principal{
		UserID:     uuid.New(),
		ProviderID: &providerID,
		Role:       model.RoleProvider,
	}
}

func adminPrincipal() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.RoleAdmin}
}
