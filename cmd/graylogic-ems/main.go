// Gray Logic EMS - heating system command gateway
//
// This is the main entry point of the gateway. It serves the command API
// over HTTP and MQTT and offers console subcommands to inspect and call
// the commands of the configured devices.
//
//	graylogic-ems [--config path] serve
//	graylogic-ems [--config path] commands [-v] [device]
//	graylogic-ems [--config path] devices
//	graylogic-ems [--config path] call <path> [value]
//	graylogic-ems hash-password <password>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/logging"
	_ "github.com/nerrad567/gray-logic-ems/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// errUsage is returned for a command line that names no known subcommand.
var errUsage = errors.New("usage: graylogic-ems [--config path] serve|commands|devices|call|hash-password|version")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the global flags.
type options struct {
	configPath string
	verbose    bool
}

// run parses args and runs the selected subcommand, writing console output
// to stdout. Without a subcommand the gateway is served.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	var opts options
	flags := pflag.NewFlagSet("graylogic-ems", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.StringVarP(&opts.configPath, "config", "c", getConfigPath(), "path to the configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "list commands with their descriptions")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	rest := flags.Args()
	subcommand := "serve"
	if len(rest) > 0 {
		subcommand, rest = rest[0], rest[1:]
	}

	switch subcommand {
	case "version":
		fmt.Fprintf(stdout, "graylogic-ems %s (commit %s, built %s)\n", version, commit, date)
		return nil
	case "hash-password":
		return hashPassword(stdout, rest)
	case "serve", "commands", "devices", "call":
	default:
		return fmt.Errorf("%w: unknown subcommand %q", errUsage, subcommand)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	switch subcommand {
	case "commands":
		return listCommands(stdout, cfg, rest, opts.verbose)
	case "devices":
		return listDevices(stdout, cfg)
	case "call":
		return callCommand(ctx, stdout, cfg, rest)
	default:
		log := logging.New(cfg.Logging, version)
		log.Info("starting Gray Logic EMS",
			"version", version,
			"commit", commit,
			"build_date", date,
			"config", opts.configPath,
		)
		return serve(ctx, cfg, log)
	}
}

// getConfigPath returns the configuration file path.
// Uses GRAYLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
