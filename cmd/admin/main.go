package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	admincmd "github.com/Newpaw/aivoice-flow-with-mcp/internal/cmd/admin"
	"github.com/Newpaw/aivoice-flow-with-mcp/internal/platform/config"
)

// main starts the admin server over the upgrade request ledger.
func main() {
	cfg, err := admincmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[ADMIN] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := admincmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve admin: %v", err)
	}
}
