package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nerrad567/gray-logic-ems/internal/audit"
	"github.com/nerrad567/gray-logic-ems/internal/auth"
	"github.com/nerrad567/gray-logic-ems/internal/command"
	"github.com/nerrad567/gray-logic-ems/internal/console"
	"github.com/nerrad567/gray-logic-ems/internal/device"
	"github.com/nerrad567/gray-logic-ems/internal/gateway"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/logging"
)

// errCommandFailed is returned by call when the command does not succeed.
var errCommandFailed = errors.New("command failed")

// consoleLogger only reports errors, keeping console output readable.
func consoleLogger(cfg *config.Config) *logging.Logger {
	logCfg := cfg.Logging
	logCfg.Level = "error"
	logCfg.Output = "stderr"
	return logging.New(logCfg, version)
}

// listCommands prints the commands of the named device types, or of every
// type that has commands.
func listCommands(w io.Writer, cfg *config.Config, args []string, verbose bool) error {
	stack, err := buildGateway(cfg, consoleLogger(cfg))
	if err != nil {
		return err
	}

	var types []device.Type
	for _, name := range args {
		t := device.TypeFromName(name)
		if !stack.dispatcher.DeviceHasCommands(t) {
			return fmt.Errorf("unknown device %q", name)
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		for _, t := range device.AllTypes() {
			if stack.dispatcher.DeviceHasCommands(t) {
				types = append(types, t)
			}
		}
	}

	for _, t := range types {
		if verbose {
			fmt.Fprint(w, console.Commands(t, stack.commands.List(t)))
		} else {
			fmt.Fprint(w, console.CommandNames(t, stack.commands.Names(t, false)))
		}
	}
	return nil
}

// listDevices prints the device catalogue.
func listDevices(w io.Writer, cfg *config.Config) error {
	stack, err := buildGateway(cfg, consoleLogger(cfg))
	if err != nil {
		return err
	}
	fmt.Fprint(w, console.Devices(stack.devices.List()))
	return nil
}

// callCommand runs one command with admin rights, e.g.
//
//	graylogic-ems call thermostat/hc2/seltemp 21.5
//
// The path is relative to the API root. Nothing is persisted: the catalogue
// lives in memory for the duration of the call.
func callCommand(ctx context.Context, w io.Writer, cfg *config.Config, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: call <path> [value]", errUsage)
	}

	stack, err := buildGateway(cfg, consoleLogger(cfg))
	if err != nil {
		return err
	}

	body := map[string]any{}
	if len(args) == 2 {
		body["value"] = args[1]
	}

	res := stack.service.Execute(ctx, gateway.Request{
		Source: audit.SourceConsole,
		Path:   "api/" + strings.TrimPrefix(args[0], "/"),
		Body:   body,
		Admin:  true,
	})
	fmt.Fprint(w, console.Result(res.Code, res.Output))

	if res.Code != command.OK {
		return fmt.Errorf("%w: %s", errCommandFailed, res.Code)
	}
	return nil
}

// hashPassword prints the argon2id hash for security.admin.password_hash.
func hashPassword(w io.Writer, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: hash-password <password>", errUsage)
	}
	hash, err := auth.HashPassword(args[0])
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	fmt.Fprintln(w, hash)
	return nil
}
