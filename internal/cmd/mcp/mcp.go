// Package mcp parses flow MCP command flags and selects stdio or HTTP
// transport.
package mcp

import (
	"context"
	"flag"
	"log"

	"github.com/Newpaw/aivoice-flow-with-mcp/internal/platform/config"
	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/domain"
	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/service"
	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/storage/sqlite"
)

// Config holds flow MCP command configuration.
type Config struct {
	DBPath    string `env:"OFFER_FLOW_DB_PATH"        envDefault:"data/mock_external_service.db"`
	HTTPAddr  string `env:"OFFER_FLOW_MCP_HTTP_ADDR"  envDefault:"localhost:8000"`
	HTTPPath  string `env:"OFFER_FLOW_MCP_PATH"       envDefault:"/mcp"`
	Transport string `env:"OFFER_FLOW_MCP_TRANSPORT"  envDefault:"stdio"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite path for the upgrade request ledger")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.StringVar(&cfg.HTTPPath, "http-path", cfg.HTTPPath, "HTTP mount path for the MCP endpoint")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the flow MCP server with the SQLite-backed ledger.
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

	server := service.New(
		domain.NewMockDirectory(),
		store,
		domain.NewInMemoryRegistry(domain.DefaultRegistryCapacity),
	)
	return server.Run(ctx, service.Config{
		Transport: service.TransportKind(cfg.Transport),
		HTTPAddr:  cfg.HTTPAddr,
		HTTPPath:  cfg.HTTPPath,
	})
}
