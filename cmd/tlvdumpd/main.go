// Command tlvdumpd serves the TL dumper over HTTP.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/danmuck/tlvdump/internal/config"
	"github.com/danmuck/tlvdump/internal/inspect"
	"github.com/danmuck/tlvdump/internal/observability"
)

func main() {
	path := flag.String("config", "", "server config path (defaults built in when empty)")
	flag.Parse()

	logger := observability.InitLogger("tlvdumpd")

	cfg := config.DefaultServerConfig()
	if *path != "" {
		loaded, err := config.LoadServerConfig(*path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "tlvdumpd: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	srv, err := inspect.New(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tlvdumpd: %v\n", err)
		os.Exit(1)
	}
	if err := srv.Serve(); err != nil {
		logger.Error().Err(err).Msg("inspect server stopped")
		os.Exit(1)
	}
}
