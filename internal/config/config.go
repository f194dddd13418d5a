package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type WebhookConfig struct {
	SweepInterval  time.Duration
	MaxAttempts    int
	RequestTimeout time.Duration
}

type RoutingConfig struct {
	AverageSpeedKmh   float64
	ServiceTimeMin    int
	UrgencyMultiplier float64
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Webhook     WebhookConfig
	Routing     RoutingConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Webhook: WebhookConfig{
			SweepInterval:  v.GetDuration("WEBHOOK_SWEEP_INTERVAL"),
			MaxAttempts:    v.GetInt("WEBHOOK_MAX_ATTEMPTS"),
			RequestTimeout: v.GetDuration("WEBHOOK_REQUEST_TIMEOUT"),
		},
		Routing: RoutingConfig{
			AverageSpeedKmh:   v.GetFloat64("ROUTING_AVERAGE_SPEED_KMH"),
			ServiceTimeMin:    v.GetInt("ROUTING_SERVICE_TIME_MIN"),
			UrgencyMultiplier: v.GetFloat64("ROUTING_URGENCY_MULTIPLIER"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Webhook.SweepInterval == 0 {
		cfg.Webhook.SweepInterval = 5 * time.Minute
	}
	if cfg.Webhook.MaxAttempts == 0 {
		cfg.Webhook.MaxAttempts = 10
	}
	if cfg.Webhook.RequestTimeout == 0 {
		cfg.Webhook.RequestTimeout = 5 * time.Second
	}
	if cfg.Routing.AverageSpeedKmh == 0 {
		cfg.Routing.AverageSpeedKmh = 40
	}
	if cfg.Routing.ServiceTimeMin == 0 {
		cfg.Routing.ServiceTimeMin = 30
	}
	if cfg.Routing.UrgencyMultiplier == 0 {
		cfg.Routing.UrgencyMultiplier = 0.7
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Routing.UrgencyMultiplier <= 0 || cfg.Routing.UrgencyMultiplier > 1 {
		return fmt.Errorf("ROUTING_URGENCY_MULTIPLIER must be in (0, 1]")
	}
	return nil
}
