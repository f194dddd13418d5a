package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'route_status') THEN
			CREATE TYPE route_status AS ENUM ('planned', 'in_progress', 'completed', 'cancelled');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'location_event_type') THEN
			CREATE TYPE location_event_type AS ENUM ('enter_geofence', 'exit_geofence');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'delivery_status') THEN
			CREATE TYPE delivery_status AS ENUM ('pending', 'delivered', 'failed');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS service_areas (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		provider_id UUID NOT NULL,
		name VARCHAR(255) NOT NULL,
		center_lat DOUBLE PRECISION NOT NULL,
		center_lng DOUBLE PRECISION NOT NULL,
		radius_km DOUBLE PRECISION NOT NULL,
		priority INT NOT NULL DEFAULT 1,
		max_daily_jobs INT NOT NULL DEFAULT 10,
		travel_cost_per_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		polygon_coords JSONB,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_service_areas_provider_id ON service_areas (provider_id);`,
	`CREATE INDEX IF NOT EXISTS idx_service_areas_is_active ON service_areas (is_active);`,
	`CREATE TABLE IF NOT EXISTS provider_locations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		provider_id UUID NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		accuracy DOUBLE PRECISION,
		address TEXT,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		source VARCHAR(32) NOT NULL DEFAULT 'gps',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_provider_locations_provider_id ON provider_locations (provider_id);`,
	`CREATE INDEX IF NOT EXISTS idx_provider_locations_active ON provider_locations (provider_id, is_active);`,
	`CREATE TABLE IF NOT EXISTS geofences (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		center_lat DOUBLE PRECISION NOT NULL,
		center_lng DOUBLE PRECISION NOT NULL,
		radius_km DOUBLE PRECISION NOT NULL,
		geofence_type VARCHAR(50) NOT NULL DEFAULT 'zone',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_geofences_is_active ON geofences (is_active);`,
	`CREATE TABLE IF NOT EXISTS location_events (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		provider_id UUID NOT NULL,
		event_type location_event_type NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		geofence_id UUID NOT NULL REFERENCES geofences(id),
		metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_location_events_provider_id ON location_events (provider_id);`,
	`CREATE INDEX IF NOT EXISTS idx_location_events_geofence_id ON location_events (geofence_id);`,
	`CREATE INDEX IF NOT EXISTS idx_location_events_created_at ON location_events (created_at);`,
	`CREATE TABLE IF NOT EXISTS route_optimizations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		provider_id UUID NOT NULL,
		date DATE NOT NULL,
		start_lat DOUBLE PRECISION NOT NULL,
		start_lng DOUBLE PRECISION NOT NULL,
		total_distance_km DOUBLE PRECISION NOT NULL,
		estimated_duration_minutes INT NOT NULL,
		algorithm VARCHAR(50) NOT NULL,
		waypoints JSONB NOT NULL,
		status route_status NOT NULL DEFAULT 'planned',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_route_optimizations_provider_id ON route_optimizations (provider_id);`,
	`CREATE INDEX IF NOT EXISTS idx_route_optimizations_status ON route_optimizations (status);`,
	// service_requests and provider_categories belong to the marketplace core.
	// Created here only so the service can run against an empty database.
	`CREATE TABLE IF NOT EXISTS service_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		title VARCHAR(255) NOT NULL,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		urgency VARCHAR(20) NOT NULL DEFAULT 'normal',
		scheduled_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS provider_categories (
		provider_id UUID NOT NULL,
		category_id UUID NOT NULL,
		PRIMARY KEY (provider_id, category_id)
	);`,
	`CREATE TABLE IF NOT EXISTS webhook_subscriptions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		event_type VARCHAR(100) NOT NULL,
		url TEXT NOT NULL,
		secret TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_subscriptions_event_type ON webhook_subscriptions (event_type);`,
	`CREATE TABLE IF NOT EXISTS webhook_deliveries (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		subscription_id UUID NOT NULL REFERENCES webhook_subscriptions(id),
		event_type VARCHAR(100) NOT NULL,
		url TEXT NOT NULL,
		secret TEXT NOT NULL DEFAULT '',
		payload JSONB NOT NULL,
		status delivery_status NOT NULL DEFAULT 'pending',
		attempts INT NOT NULL DEFAULT 0,
		next_attempt_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_error TEXT,
		response_code INT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_due ON webhook_deliveries (status, next_attempt_at);`,
	`CREATE OR REPLACE FUNCTION set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_service_areas_updated_at') THEN
			CREATE TRIGGER trg_service_areas_updated_at
				BEFORE UPDATE ON service_areas
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_route_optimizations_updated_at') THEN
			CREATE TRIGGER trg_route_optimizations_updated_at
				BEFORE UPDATE ON route_optimizations
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_webhook_deliveries_updated_at') THEN
			CREATE TRIGGER trg_webhook_deliveries_updated_at
				BEFORE UPDATE ON webhook_deliveries
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
