package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relay_governor/internal/handlers"
	"relay_governor/internal/logger"
	"relay_governor/internal/repository"
	"relay_governor/internal/repository/db"
	"relay_governor/internal/server"
	"relay_governor/internal/service"

	"github.com/spf13/viper"
)

const defaultThermostatTick = 1 * time.Second

func main() {
	// load config.yml first so the log level can come from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"))

	// open DB
	sqliteDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqliteDB.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqliteDB)
	services := service.NewService(repos, log, serviceConfig())
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start thermostat loop (via composed service)
	if viper.GetBool("thermostat.enabled") {
		go services.Thermostat.Run(ctx, thermostatTick())
	}

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// serviceConfig assembles the service tunables from viper.
func serviceConfig() service.Config {
	return service.Config{
		Relay: service.RelayConfig{
			InitialOn:  viper.GetBool("relay.initial_on"),
			MinimumOn:  time.Duration(viper.GetInt("relay.min_on_ms")) * time.Millisecond,
			MinimumOff: time.Duration(viper.GetInt("relay.min_off_ms")) * time.Millisecond,
			// wall clock truncated to a wrapping 32-bit millisecond counter
			Now: func() uint32 { return uint32(time.Now().UnixMilli()) },
		},
		Thermostat: service.ThermostatConfig{
			Enabled:     viper.GetBool("thermostat.enabled"),
			LowC:        viper.GetFloat64("thermostat.low_c"),
			HighC:       viper.GetFloat64("thermostat.high_c"),
			StartC:      viper.GetFloat64("thermostat.start_c"),
			HeatCPerSec: viper.GetFloat64("thermostat.heat_c_per_sec"),
			CoolCPerSec: viper.GetFloat64("thermostat.cool_c_per_sec"),
		},
		Auth: service.AuthConfig{
			SigningKey: viper.GetString("auth.signing_key"),
			TokenTTL:   viper.GetDuration("auth.token_ttl"),
		},
	}
}

func thermostatTick() time.Duration {
	if tick := viper.GetDuration("thermostat.tick"); tick > 0 {
		return tick
	}
	return defaultThermostatTick
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
