package app

import (
	"github.com/ostrauer/briefshelf-backend/internal/http/middleware"
	"github.com/ostrauer/briefshelf-backend/internal/pkg/envutil"
)

type Config struct {
	Port        string
	Environment string
	Version     string

	// StaticDir is where the built dashboard frontend lives; empty runs the
	// API headless behind a separate frontend host.
	StaticDir string

	Gate middleware.GateConfig
}

func LoadConfig() Config {
	return Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
		StaticDir:   envutil.String("DASHBOARD_DIST", ""),
		Gate:        middleware.GateConfigFromEnv(),
	}
}
