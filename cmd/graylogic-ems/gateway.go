package main

import (
	"fmt"

	"github.com/nerrad567/gray-logic-ems/internal/command"
	"github.com/nerrad567/gray-logic-ems/internal/device"
	"github.com/nerrad567/gray-logic-ems/internal/gateway"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/logging"
)

// gatewayStack is the command path shared by every transport.
type gatewayStack struct {
	devices    *device.Registry
	commands   *command.Registry
	dispatcher *command.Dispatcher
	service    *gateway.Service
}

// buildGateway loads the device catalogue and registers its commands.
func buildGateway(cfg *config.Config, log *logging.Logger) (*gatewayStack, error) {
	devs, readOnly, err := device.LoadFile(cfg.Gateway.DevicesFile)
	if err != nil {
		return nil, fmt.Errorf("loading devices: %w", err)
	}

	devices := device.NewRegistry()
	devices.SetLogger(log.Component("devices"))
	for _, d := range devs {
		devices.Add(d)
	}
	devices.SetReadOnlyMode(cfg.Gateway.ReadOnly || readOnly)

	commands := command.NewRegistry()
	commands.SetLogger(log.Component("commands"))

	dispatcher := command.NewDispatcher(commands, devices, command.Options{
		TopicBase:          cfg.Gateway.TopicBase,
		TemperatureSensors: cfg.Gateway.Sensors.Temperature,
		AnalogSensors:      cfg.Gateway.Sensors.Analog,
		MaxReferenceLength: cfg.Gateway.MaxReferenceLength,
	})
	dispatcher.SetLogger(log.Component("dispatcher"))

	service := gateway.NewService(dispatcher, cfg.Gateway.TopicBase)
	service.SetLogger(log.Component("gateway"))

	registered := gateway.Bootstrap(devices, commands, gateway.BootstrapOptions{
		Version:   version,
		TopicBase: cfg.Gateway.TopicBase,
		OnWrite:   service.RecordWrite,
	})
	log.Info("commands registered",
		"devices", devices.Count(),
		"commands", registered,
		"readonly", devices.ReadOnlyMode(),
	)

	return &gatewayStack{
		devices:    devices,
		commands:   commands,
		dispatcher: dispatcher,
		service:    service,
	}, nil
}
