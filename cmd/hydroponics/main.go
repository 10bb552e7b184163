// Hydroponics Core - multi-tenant hydroponic telemetry API
//
// This is the main entry point for the hydroponics service. Owners manage
// their hydroponic systems and the sensor readings recorded against them
// through a JSON HTTP API; committed changes are optionally mirrored to an
// MQTT event bus and InfluxDB.
//
// Commands:
//
//	hydroponics [serve]              run the API server (default)
//	hydroponics token <owner-id>     print a signed access token
//	hydroponics delete-owner <id>    remove an owner with its systems and readings
//	hydroponics migrate [status|up|down]
//	                                 show, apply or roll back schema migrations
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	_ "github.com/nerrad567/hydroponics-core/migrations"

	"github.com/nerrad567/hydroponics-core/internal/api"
	"github.com/nerrad567/hydroponics-core/internal/audit"
	"github.com/nerrad567/hydroponics-core/internal/auth"
	"github.com/nerrad567/hydroponics-core/internal/hydroponics"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/config"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/database"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/logging"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/hydroponics-core/internal/telemetry"
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

// errUsage marks errors caused by bad command-line input.
var errUsage = errors.New("usage")

func main() {
	// Cancel on Ctrl+C and SIGTERM so serve can shut down gracefully.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run parses args and dispatches to a command, separated from main for
// testability. Command output goes to stdout; logs go where the logging
// config sends them.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	var (
		configPath  string
		ttl         time.Duration
		showVersion bool
	)

	flagSet := pflag.NewFlagSet("hydroponics", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&configPath, "config", "c", getConfigPath(), "path to the YAML configuration file")
	flagSet.DurationVar(&ttl, "ttl", 0, "token lifetime for the token command (default from security.jwt.access_token_ttl)")
	flagSet.BoolVar(&showVersion, "version", false, "print version information and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, flagSet)
			return nil
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if showVersion {
		fmt.Fprintf(stdout, "hydroponics %s (commit %s, built %s)\n", version, commit, date)
		return nil
	}

	command, rest := "serve", flagSet.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	switch command {
	case "serve":
		if len(rest) > 0 {
			return fmt.Errorf("%w: serve takes no arguments, got %q", errUsage, rest[0])
		}
		return serve(ctx, configPath)
	case "token":
		ownerID, err := singleArg(command, rest)
		if err != nil {
			return err
		}
		return printToken(stdout, configPath, ownerID, ttl)
	case "delete-owner":
		ownerID, err := singleArg(command, rest)
		if err != nil {
			return err
		}
		return deleteOwner(ctx, stdout, configPath, ownerID)
	case "migrate":
		action, err := migrateAction(rest)
		if err != nil {
			return err
		}
		return migrate(ctx, stdout, configPath, action)
	case "help":
		printHelp(stdout, flagSet)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
}

func singleArg(command string, args []string) (string, error) {
	if len(args) != 1 || args[0] == "" {
		return "", fmt.Errorf("%w: %s requires exactly one owner id", errUsage, command)
	}
	return args[0], nil
}

// migrateAction validates the migrate subcommand, defaulting to status.
func migrateAction(args []string) (string, error) {
	if len(args) == 0 {
		return "status", nil
	}
	if len(args) == 1 {
		switch args[0] {
		case "status", "up", "down":
			return args[0], nil
		}
	}
	return "", fmt.Errorf("%w: migrate takes one of status, up or down", errUsage)
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `Hydroponics Core - multi-tenant hydroponic telemetry API.

Usage:
  hydroponics [flags] [serve]
  hydroponics [flags] token <owner-id>
  hydroponics [flags] delete-owner <owner-id>
  hydroponics [flags] migrate [status|up|down]

The configuration path defaults to %s and may be set with HYDRO_CONFIG.

Flags:
%s`, defaultConfigPath, flagSet.FlagUsages())
}

// getConfigPath returns the configuration file path.
// Uses HYDRO_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HYDRO_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// serve runs the API server until ctx is cancelled.
//
// Startup order is database, event bus, time series, then HTTP. Deferred
// closes run in reverse so in-flight requests finish before their
// dependencies go away.
func serve(ctx context.Context, configPath string) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting hydroponics core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	logging.SetDefault(log)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	service := hydroponics.NewService(db)
	service.SetLogger(log.With("component", "hydroponics"))

	var notifiers telemetry.Multi

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log.With("component", "mqtt"))
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
			"readings_topic", mqttClient.Topics().AllReadings(),
			"events_topic", mqttClient.Topics().AllEvents(),
		)
		notifiers = append(notifiers, telemetry.NewMQTTNotifier(mqttClient, mqttClient.Topics(), mqttClient.QoS()))
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		notifiers = append(notifiers, telemetry.NewInfluxNotifier(influxClient))
	} else {
		log.Info("InfluxDB disabled")
	}

	if len(notifiers) > 0 {
		service.SetNotifier(notifiers)
	}

	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	auditRepo := audit.NewSQLiteRepository(db)
	deps := api.Deps{
		Config:    cfg.API,
		Security:  cfg.Security,
		Logger:    log.With("component", "api"),
		DB:        db,
		Service:   service,
		Audit:     audit.NewRecorder(auditRepo, log.With("component", "audit"), "api"),
		AuditRepo: auditRepo,
		Version:   version,
	}
	// Interface fields stay nil when a client is disabled.
	if mqttClient != nil {
		deps.MQTT = mqttClient
	}
	if influxClient != nil {
		deps.Influx = influxClient
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// openDB opens the configured SQLite database without touching its schema.
func openDB(cfg *config.Config, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Info("database connected", "path", db.Path())
	return db, nil
}

// openDatabase opens and migrates the configured SQLite database.
func openDatabase(ctx context.Context, cfg *config.Config, log *logging.Logger) (*database.DB, error) {
	db, err := openDB(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete")
	return db, nil
}

// healthCheck verifies all infrastructure connections are healthy.
// mqttClient and influxClient are nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
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

// printToken writes a signed access token for ownerID. Tokens normally come
// from the identity provider; this is for operators and local testing.
func printToken(w io.Writer, configPath, ownerID string, ttl time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if ttl <= 0 {
		ttl = cfg.GetAccessTokenTTL()
	}

	token, err := auth.GenerateAccessToken(ownerID, cfg.Security.JWT.Secret, cfg.Security.JWT.Issuer, ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}
	fmt.Fprintln(w, token)
	return nil
}

// deleteOwner removes ownerID and, through the foreign keys, every system
// and reading they own. The audit entry is written in the same transaction.
func deleteOwner(ctx context.Context, w io.Writer, configPath, ownerID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(cfg.Logging, version)

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // nothing left to do on failure

	err = db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := auth.NewOwnerStore(tx).Delete(ctx, ownerID); err != nil {
			return err
		}
		return audit.NewSQLiteRepository(tx).Create(ctx, &audit.AuditLog{
			Action:     audit.ActionDelete,
			EntityType: audit.EntityOwner,
			EntityID:   ownerID,
			OwnerID:    ownerID,
			Source:     "cli",
		})
	})
	if errors.Is(err, auth.ErrOwnerNotFound) {
		return fmt.Errorf("owner %q: %w", ownerID, err)
	}
	if err != nil {
		return fmt.Errorf("deleting owner: %w", err)
	}

	log.Info("owner deleted", "owner", ownerID)
	fmt.Fprintf(w, "deleted owner %s\n", ownerID)
	return nil
}

// migrate applies ("up") or rolls back the newest ("down") schema migration,
// then prints which migrations are applied and which are pending. "status"
// only prints.
func migrate(ctx context.Context, w io.Writer, configPath, action string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log := logging.New(cfg.Logging, version)

	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // nothing left to do on failure

	switch action {
	case "up":
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		log.Info("database migrations complete")
	case "down":
		if err := db.MigrateDown(ctx); err != nil {
			return fmt.Errorf("rolling back migration: %w", err)
		}
		log.Info("latest migration rolled back")
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		return err
	}
	for _, m := range applied {
		fmt.Fprintf(w, "applied  %s  %s\n", m.Version, m.AppliedAt.UTC().Format(time.RFC3339))
	}
	for _, m := range pending {
		fmt.Fprintf(w, "pending  %s  %s\n", m.Version, m.Name)
	}
	return nil
}
