package main

import (
	"flag"
	"log"

	"github.com/danmuck/tlvdump/internal/config"
)

func main() {
	kind := flag.String("kind", "server", "config kind: server|cli")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing server config file")
	input := flag.String("input", "", "config path for validation (defaults to cmd/tlvdumpd/config.toml)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		if *kind != "server" {
			log.Fatalf("validation supports kind=server only; run tlvdump -config for cli files")
		}
		path := *input
		if path == "" {
			path = "cmd/tlvdumpd/config.toml"
		}
		if _, err := config.LoadServerConfig(path); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated %s config at %s", *kind, path)
		return
	}

	target := *output
	if target == "" {
		switch *kind {
		case "server":
			target = "cmd/tlvdumpd/config.toml"
		case "cli":
			target = "cmd/tlvdump/config.toml"
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
	}

	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, target)
}
