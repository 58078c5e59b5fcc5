// Package dashboard parses dashboard service flags and launches the service.
package dashboard

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tikdhq/tikd/internal/dashboard/app"
	entrypoint "github.com/tikdhq/tikd/internal/platform/cmd"
)

// Config holds dashboard command configuration.
type Config struct {
	Port       int    `env:"TIKD_PORT" envDefault:"8080"`
	DBPath     string `env:"TIKD_DB_PATH"`
	AuthSecret string `env:"TIKD_AUTH_SECRET"`
	AuthIssuer string `env:"TIKD_AUTH_ISSUER" envDefault:"tikd"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The dashboard HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the dashboard SQLite database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = filepath.Join("data", "dashboard.db")
	}
	return cfg, nil
}

// Run starts the dashboard HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDashboard, func(context.Context) error {
		return app.Run(ctx, app.Options{
			Addr:       fmt.Sprintf(":%d", cfg.Port),
			DBPath:     cfg.DBPath,
			AuthSecret: cfg.AuthSecret,
			AuthIssuer: cfg.AuthIssuer,
		})
	})
}
