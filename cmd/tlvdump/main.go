// Command tlvdump renders a TL word buffer read from a file or stdin.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/tlvdump/internal/logging"
	"github.com/danmuck/tlvdump/internal/protocol"
	"github.com/danmuck/tlvdump/internal/protocol/dump"
)

type options struct {
	in       string
	hex      bool
	tag      string
	vcons    string
	level    int
	config   string
	logLevel string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("tlvdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "-", "input file, - for stdin")
	fs.BoolVar(&opts.hex, "hex", false, "input is hex text (whitespace ignored)")
	fs.StringVar(&opts.tag, "tag", "", "force the outer tag (0x hex or decimal); default reads it from the stream")
	fs.StringVar(&opts.vcons, "vcons", "", "element tag when -tag is a bare vector")
	fs.IntVar(&opts.level, "level", 0, "starting indentation level")
	fs.StringVar(&opts.config, "config", "", "optional TOML option file")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level override: trace|debug|info|warn|error|off")
	err := fs.Parse(args)
	return opts, err
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	cfg := defaultCLIConfig()
	if opts.config != "" {
		if cfg, err = loadCLIConfig(opts.config); err != nil {
			fmt.Fprintf(stderr, "tlvdump: %v\n", err)
			return 2
		}
	}
	if opts.logLevel != "" {
		lvl, ok := logging.ParseLevel(opts.logLevel)
		if !ok {
			fmt.Fprintf(stderr, "tlvdump: unknown log level %q\n", opts.logLevel)
			return 2
		}
		cfg.LogLevel = lvl
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Out: stderr})
	cfg.Options.Logger = &logger

	var tag, vcons protocol.Tag
	if opts.tag != "" {
		if tag, err = protocol.ParseTag(opts.tag); err != nil {
			fmt.Fprintf(stderr, "tlvdump: %v\n", err)
			return 2
		}
	}
	if opts.vcons != "" {
		if vcons, err = protocol.ParseTag(opts.vcons); err != nil {
			fmt.Fprintf(stderr, "tlvdump: %v\n", err)
			return 2
		}
	}

	raw, err := readInput(opts.in, opts.hex, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "tlvdump: %v\n", err)
		return 1
	}

	out, err := dump.New(cfg.Options).DumpBytes(raw, tag, opts.level, vcons)
	if err != nil {
		logger.Debug().Str("kind", protocol.Classify(err)).Int("bytes", len(raw)).Msg("dump failed")
		if out != "" {
			fmt.Fprintf(stderr, "%s\n", out)
		}
		fmt.Fprintf(stderr, "tlvdump: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}

func readInput(path string, isHex bool, stdin io.Reader) ([]byte, error) {
	var (
		raw []byte
		err error
	)
	if path == "" || path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if !isHex {
		return raw, nil
	}
	b, err := hex.DecodeString(strings.Join(strings.Fields(string(raw)), ""))
	if err != nil {
		return nil, fmt.Errorf("decode hex input: %w", err)
	}
	return b, nil
}
