package service

import (
	"context"
	"errors"
	"time"

	"relay_governor/internal/bangbang"
	"relay_governor/internal/logger"
)

// ----------- Simulation constants -----------
const (
	AmbientC           = 15.0 // temperature the room falls back to °C
	DefaultLowC        = 19.0 // turn the relay on below this °C
	DefaultHighC       = 21.0 // turn the relay off above this °C
	DefaultHeatCPerSec = 0.5  // °C per second while the relay is on
	DefaultCoolCPerSec = 0.2  // °C per second while the relay is off
)

// ThermostatConfig tunes the simulated heat loop.
type ThermostatConfig struct {
	Enabled     bool
	LowC        float64 // zero -> DefaultLowC
	HighC       float64 // zero -> DefaultHighC
	StartC      float64 // zero -> midpoint of the band
	HeatCPerSec float64 // zero -> DefaultHeatCPerSec
	CoolCPerSec float64 // zero -> DefaultCoolCPerSec
}

// switchable is the slice of the relay service the thermostat drives.
type switchable interface {
	TurnOn(ctx context.Context) error
	TurnOff(ctx context.Context) error
	IsOn() bool
}

// ThermostatService is a bang-bang heat loop over a simulated room: the
// temperature rises while the relay is on and falls toward ambient while
// it is off. Crossing the band requests a switch; dwell rejections are
// expected near tight setpoints and are only logged.
type ThermostatService struct {
	relay switchable
	log   *logger.Logger

	lowC, highC float64
	heatRate    float64
	coolRate    float64
	tempC       float64
}

func NewThermostatService(cfg ThermostatConfig, relay switchable, log *logger.Logger) *ThermostatService {
	low := cfg.LowC
	if low == 0 {
		low = DefaultLowC
	}
	high := cfg.HighC
	if high == 0 {
		high = DefaultHighC
	}
	start := cfg.StartC
	if start == 0 {
		start = (low + high) / 2
	}
	heat := cfg.HeatCPerSec
	if heat == 0 {
		heat = DefaultHeatCPerSec
	}
	cool := cfg.CoolCPerSec
	if cool == 0 {
		cool = DefaultCoolCPerSec
	}
	return &ThermostatService{
		relay:    relay,
		log:      log,
		lowC:     low,
		highC:    high,
		heatRate: heat,
		coolRate: cool,
		tempC:    start,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *ThermostatService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			elapsed := now.Sub(prev).Seconds()
			prev = now

			on := s.relay.IsOn()
			s.tempC = advanceTemp(s.tempC, on, elapsed, s.heatRate, s.coolRate)

			switch decide(on, s.tempC, s.lowC, s.highC) {
			case actionOn:
				s.apply(ctx, s.relay.TurnOn, "on", now)
			case actionOff:
				s.apply(ctx, s.relay.TurnOff, "off", now)
			}
		}
	}
}

func (s *ThermostatService) apply(ctx context.Context, op func(context.Context) error, target string, now time.Time) {
	err := op(ctx)
	if err == nil {
		if s.log != nil {
			s.log.Infow("thermostat_switched", "target", target, "temp_c", s.tempC)
		}
		return
	}
	var constrained *bangbang.ConstraintError
	if errors.As(err, &constrained) {
		// dwell window still open; try again next tick
		if s.log != nil {
			s.log.Debugw("thermostat_switch_deferred", "target", target, "temp_c", s.tempC)
		}
		return
	}
	if s.log != nil {
		s.log.Errorw("thermostat_switch_failed", "target", target, "err", err)
	}
}

type action int

const (
	actionNone action = iota
	actionOn
	actionOff
)

// decide picks the bang-bang action for the current temperature.
func decide(on bool, tempC, lowC, highC float64) action {
	switch {
	case !on && tempC <= lowC:
		return actionOn
	case on && tempC >= highC:
		return actionOff
	default:
		return actionNone
	}
}

// advanceTemp integrates the room temperature over elapsed seconds.
// Cooling never drops below ambient.
func advanceTemp(tempC float64, on bool, elapsedSec, heatRate, coolRate float64) float64 {
	if on {
		return tempC + heatRate*elapsedSec
	}
	next := tempC - coolRate*elapsedSec
	if next < AmbientC {
		return AmbientC
	}
	return next
}
