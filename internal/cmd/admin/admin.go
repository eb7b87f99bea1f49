// Package admin parses admin command flags and serves the ledger API.
package admin

import (
	"context"
	"flag"
	"log"

	"github.com/Newpaw/aivoice-flow-with-mcp/internal/platform/config"
	adminservice "github.com/Newpaw/aivoice-flow-with-mcp/internal/services/admin/service"
	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/storage/sqlite"
)

// Config holds admin command configuration.
type Config struct {
	Addr   string `env:"OFFER_FLOW_ADMIN_ADDR" envDefault:"localhost:8090"`
	DBPath string `env:"OFFER_FLOW_DB_PATH"    envDefault:"data/mock_external_service.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "admin HTTP server address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite path for the upgrade request ledger")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the admin server over the SQLite-backed ledger.
func Run(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close ledger store: %v", err)
		}
	}()

	server := adminservice.New(store, adminservice.NewMetrics("offer_flow_admin"))
	return server.Run(ctx, cfg.Addr)
}
