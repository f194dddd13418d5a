package main

import (
	"fmt"
	"os"

	"geolocation-service/internal/auth"
	"geolocation-service/internal/config"
	"geolocation-service/internal/db"
	httphandler "geolocation-service/internal/http"
	"geolocation-service/internal/http/middleware"
	"geolocation-service/internal/logger"
	"geolocation-service/internal/repository"
	"geolocation-service/internal/service"
	"geolocation-service/internal/webhooks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.Environment)

	database, err := db.New(cfg, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect database")
	}

	areaRepo := repository.NewServiceAreaRepository(database)
	locationRepo := repository.NewProviderLocationRepository(database)
	geofenceRepo := repository.NewGeofenceRepository(database)
	eventRepo := repository.NewLocationEventRepository(database)
	routeRepo := repository.NewRouteOptimizationRepository(database)
	requestRepo := repository.NewServiceRequestRepository(database)
	webhookRepo := repository.NewWebhookRepository(database)

	publisher := webhooks.NewPublisher(webhookRepo, appLogger)

	areaService := service.NewAreaService(areaRepo, requestRepo, locationRepo)
	locationService := service.NewLocationService(locationRepo, geofenceRepo, eventRepo, publisher)
	routingService := service.NewRoutingService(routeRepo, requestRepo, locationRepo, publisher, cfg.Routing)
	webhookService := service.NewWebhookService(webhookRepo)

	worker := webhooks.NewWorker(webhookRepo, cfg.Webhook, appLogger)
	worker.Start()
	defer worker.Stop()

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(areaService, locationService, routingService, webhookService, appLogger)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	appLogger.Info().Str("addr", addr).Msg("starting geolocation service")

	if err := router.Run(addr); err != nil {
		appLogger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
