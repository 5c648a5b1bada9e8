package service

import (
	"context"
	"time"

	relaygov "relay_governor"
	"relay_governor/internal/logger"
	"relay_governor/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Relay exposes control operations on the dwell-constrained relay.
// A rejected request (dwell time not yet elapsed, or an actuation handler
// failure) returns an error and leaves the relay untouched.
type Relay interface {
	TurnOn(ctx context.Context) error
	TurnOff(ctx context.Context) error
	Toggle(ctx context.Context) error
}

// Monitoring exposes the read-only relay snapshot.
type Monitoring interface {
	GetState(ctx context.Context) (relaygov.RelaySnapshot, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]relaygov.RelayEvent, error)
}

// Thermostat runs the background bang-bang loop that drives the relay from
// a simulated temperature. Stop via context cancellation in main() for
// graceful shutdown.
type Thermostat interface {
	Run(ctx context.Context, tick time.Duration)
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "SWITCH_ON", "SWITCH_OFF", "REJECTED", "ERROR", "TELEMETRY"
}

// Config carries the tunables main() reads from the config file.
type Config struct {
	Relay      RelayConfig
	Thermostat ThermostatConfig
	Auth       AuthConfig
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Relay
	Monitoring
	EventLog
	Thermostat
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, log *logger.Logger, cfg Config) *Service {
	relay := NewRelayService(cfg.Relay, repos.StateRepo, repos.EventRepo, log)
	return &Service{
		Relay:         relay,
		Monitoring:    NewMonitoringService(repos.StateRepo, cfg.Relay),
		EventLog:      NewEventLogService(repos.EventRepo),
		Thermostat:    NewThermostatService(cfg.Thermostat, relay, log),
		Authorization: NewAuthService(repos.Auth, cfg.Auth),
	}
}
