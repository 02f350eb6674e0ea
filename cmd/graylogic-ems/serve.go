package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-ems/internal/api"
	"github.com/nerrad567/gray-logic-ems/internal/audit"
	"github.com/nerrad567/gray-logic-ems/internal/auth"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-ems/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-ems/internal/mqttcmd"
)

// serve runs the gateway until ctx is cancelled.
//
// Deferred Close() calls run in reverse order: MQTT, API server, InfluxDB,
// database.
func serve(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	stack, err := buildGateway(cfg, log)
	if err != nil {
		return err
	}
	auditRepo := audit.NewSQLiteRepository(db.DB)
	stack.service.SetAudit(auditRepo)

	influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		stack.service.SetMetrics(influxClient)
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	}

	if err := auth.CheckAdminHash(cfg.Security.Admin.PasswordHash); err != nil {
		return fmt.Errorf("security.admin.password_hash: %w", err)
	}
	authenticator := auth.NewAuthenticator(
		cfg.Security.Admin.Username,
		cfg.Security.Admin.PasswordHash,
		cfg.Security.JWT.Secret,
		cfg.GetAccessTokenTTL(),
	)
	if cfg.Security.Admin.PasswordHash == "" {
		log.Warn("no admin password hash configured, login is disabled")
	}

	server, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log.Component("api"),
		Service: stack.service,
		Auth:    authenticator,
		Audit:   auditRepo,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	stack.service.SetEvents(server.Hub())
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		var handler *mqttcmd.Handler
		mqttClient, handler, err = startMQTT(ctx, cfg, stack, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if stopErr := handler.Stop(); stopErr != nil {
				log.Warn("error unsubscribing MQTT commands", "error", stopErr)
			}
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
	} else {
		log.Info("MQTT disabled")
	}

	if err := healthCheck(ctx, db, server, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal", "api", server.Addr())

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// startMQTT connects to the broker and subscribes the command handler.
func startMQTT(ctx context.Context, cfg *config.Config, stack *gatewayStack, log *logging.Logger) (*mqtt.Client, *mqttcmd.Handler, error) {
	client, err := mqtt.Connect(cfg.MQTT, mqtt.Topics{Base: cfg.Gateway.TopicBase})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	mqttLog := log.Component("mqtt")
	client.SetLogger(mqttLog)
	client.SetOnConnect(func() {
		mqttLog.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		mqttLog.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	// #nosec G115 -- qos is validated to 0..2
	handler := mqttcmd.New(client, stack.service, client.Topics(), byte(cfg.MQTT.QoS))
	handler.SetLogger(log.Component("mqttcmd"))
	if err := handler.Start(ctx); err != nil {
		client.Close() //nolint:errcheck // already failing
		return nil, nil, fmt.Errorf("starting MQTT command handler: %w", err)
	}
	log.Info("listening for MQTT commands", "topic", client.Topics().Commands())

	return client, handler, nil
}

// healthCheck verifies all infrastructure connections are healthy.
// mqttClient and influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, server *api.Server, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
