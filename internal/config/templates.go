package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "server":
		return serverTemplate, nil
	case "cli":
		return cliTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const serverTemplate = `name = "tlvdumpd"
addr = ":9400"
cors_origins = ["http://localhost:3000"]
max_body_bytes = 4194304

[decode]
max_depth = 512
max_vector_len = 65536
max_inflated_bytes = 16777216
extra_layers = []
`

const cliTemplate = `max_depth = 512
max_vector_len = 65536
max_inflated_bytes = 16777216
extra_layers = []
log_level = "warn"
`
