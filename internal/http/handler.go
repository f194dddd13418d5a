package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"geolocation-service/internal/geo"
	"geolocation-service/internal/http/middleware"
	"geolocation-service/internal/model"
	"geolocation-service/internal/service"
)

type Handler struct {
	areaService     *service.AreaService
	locationService *service.LocationService
	routingService  *service.RoutingService
	webhookService  *service.WebhookService
	log             zerolog.Logger
}

func NewHandler(
	areaService *service.AreaService,
	locationService *service.LocationService,
	routingService *service.RoutingService,
	webhookService *service.WebhookService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		areaService:     areaService,
		locationService: locationService,
		routingService:  routingService,
		webhookService:  webhookService,
		log:             log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	api := r.Group("/api/geolocation")
	api.Use(authMiddleware)

	api.POST("/location", h.updateLocation)
	api.GET("/location-events", h.listLocationEvents)
	api.GET("/providers-in-area", h.findProvidersInArea)

	api.POST("/service-areas", h.createServiceArea)
	api.GET("/service-areas", h.listServiceAreas)
	api.PUT("/service-areas/:id/deactivate", h.deactivateServiceArea)
	api.GET("/coverage-stats", h.coverageStats)

	api.POST("/optimize-route", h.optimizeRoute)
	api.GET("/route-optimizations", h.listRouteOptimizations)
	api.GET("/route-optimizations/:id", h.getRouteOptimization)
	api.PATCH("/route-optimizations/:id", h.updateRouteStatus)

	admin := api.Group("/")
	{
		admin.POST("/geofences", h.createGeofence)
		admin.GET("/geofences", h.listGeofences)
		admin.PUT("/geofences/:id/deactivate", h.deactivateGeofence)
		admin.POST("/webhook-subscriptions", h.createWebhookSubscription)
		admin.GET("/webhook-subscriptions", h.listWebhookSubscriptions)
	}
}

func (h *Handler) updateLocation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
		Accuracy  *float64 `json:"accuracy"`
		Address   *string  `json:"address"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	location, events, err := h.locationService.UpdateLocation(c.Request.Context(), principal, service.UpdateLocationInput{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Accuracy:  req.Accuracy,
		Address:   req.Address,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{
		"location": location,
		"events":   events,
	}))
}

func (h *Handler) listLocationEvents(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid limit"))
			return
		}
		limit = parsed
	}

	events, err := h.locationService.ListProviderEvents(c.Request.Context(), principal, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(events))
}

func (h *Handler) findProvidersInArea(c *gin.Context) {
	if _, ok := middleware.MustPrincipal(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(c.Query("latitude")), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid latitude"))
		return
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(c.Query("longitude")), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid longitude"))
		return
	}

	input := service.FindProvidersInput{
		Latitude:  latitude,
		Longitude: longitude,
	}

	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid category id"))
			return
		}
		input.CategoryID = &categoryID
	}

	if raw := strings.TrimSpace(c.Query("max_distance_km")); raw != "" {
		maxDistance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid max distance"))
			return
		}
		input.MaxDistanceKm = maxDistance
	}

	matches, err := h.areaService.FindProvidersInArea(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(matches))
}

func (h *Handler) createServiceArea(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		Name            string      `json:"name" binding:"required"`
		CenterLat       *float64    `json:"center_lat" binding:"required"`
		CenterLng       *float64    `json:"center_lng" binding:"required"`
		RadiusKm        float64     `json:"radius_km"`
		Priority        *int        `json:"priority"`
		MaxDailyJobs    *int        `json:"max_daily_jobs"`
		TravelCostPerKm *float64    `json:"travel_cost_per_km"`
		PolygonCoords   []geo.Point `json:"polygon_coords"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	area, err := h.areaService.CreateServiceArea(c.Request.Context(), principal, service.CreateServiceAreaInput{
		Name:            req.Name,
		CenterLat:       *req.CenterLat,
		CenterLng:       *req.CenterLng,
		RadiusKm:        req.RadiusKm,
		Priority:        req.Priority,
		MaxDailyJobs:    req.MaxDailyJobs,
		TravelCostPerKm: req.TravelCostPerKm,
		PolygonCoords:   req.PolygonCoords,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(area))
}

func (h *Handler) listServiceAreas(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	areas, err := h.areaService.ListMyAreas(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(areas))
}

func (h *Handler) deactivateServiceArea(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid service area id"))
		return
	}

	if err := h.areaService.DeactivateArea(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"message": "service area deactivated"}))
}

func (h *Handler) coverageStats(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	stats, err := h.areaService.GetProviderCoverageStats(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) optimizeRoute(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		RequestIDs    []string   `json:"request_ids" binding:"required"`
		StartLocation *geo.Point `json:"start_location"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	requestIDs := make([]uuid.UUID, 0, len(req.RequestIDs))
	for _, raw := range req.RequestIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid request id"))
			return
		}
		requestIDs = append(requestIDs, id)
	}

	route, err := h.routingService.OptimizeRoute(c.Request.Context(), principal, service.OptimizeRouteInput{
		RequestIDs:    requestIDs,
		StartLocation: req.StartLocation,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{
		"optimization": route,
		"waypoints":    route.Waypoints,
	}))
}

func (h *Handler) listRouteOptimizations(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	routes, err := h.routingService.ListMine(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(routes))
}

func (h *Handler) getRouteOptimization(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid route id"))
		return
	}

	route, err := h.routingService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(route))
}

func (h *Handler) updateRouteStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid route id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	route, err := h.routingService.UpdateStatus(c.Request.Context(), principal, id, model.RouteStatus(strings.ToLower(req.Status)))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(route))
}

func (h *Handler) createGeofence(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		Name         string   `json:"name" binding:"required"`
		CenterLat    *float64 `json:"center_lat" binding:"required"`
		CenterLng    *float64 `json:"center_lng" binding:"required"`
		RadiusKm     float64  `json:"radius_km" binding:"required"`
		GeofenceType string   `json:"geofence_type"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	geofence, err := h.locationService.CreateGeofence(c.Request.Context(), principal, service.CreateGeofenceInput{
		Name:         req.Name,
		CenterLat:    *req.CenterLat,
		CenterLng:    *req.CenterLng,
		RadiusKm:     req.RadiusKm,
		GeofenceType: req.GeofenceType,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(geofence))
}

func (h *Handler) listGeofences(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	geofences, err := h.locationService.ListGeofences(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(geofences))
}

func (h *Handler) deactivateGeofence(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid geofence id"))
		return
	}

	if err := h.locationService.DeactivateGeofence(c.Request.Context(), principal, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"message": "geofence deactivated"}))
}

func (h *Handler) createWebhookSubscription(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	var req struct {
		EventType string `json:"event_type" binding:"required"`
		URL       string `json:"url" binding:"required"`
		Secret    string `json:"secret"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	sub, err := h.webhookService.CreateSubscription(c.Request.Context(), principal, service.CreateSubscriptionInput{
		EventType: req.EventType,
		URL:       req.URL,
		Secret:    req.Secret,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(sub))
}

func (h *Handler) listWebhookSubscriptions(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing principal"))
		return
	}

	subs, err := h.webhookService.ListSubscriptions(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(subs))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrRequestsNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNoLocation):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
