package bangbang

import "relay_governor/internal/logger"

// assessDelta computes the elapsed milliseconds between two counter
// readings. When later < prior the counter has wrapped (or the clock was
// reset); the true width of the wrap cannot be recovered from two samples,
// so the delta is conservatively taken to be later itself, as if the
// counter had just restarted from zero. This leans toward permitting a
// transition sooner rather than blocking it until the counter catches up.
//
// The log parameter may be nil; emission is purely diagnostic.
func assessDelta(log *logger.Logger, prior, later uint32) uint32 {
	if later < prior {
		if log != nil {
			log.Warnw("counter_overrun_assumed",
				"prior_ms", prior, "later_ms", later, "delta_ms", later)
		}
		return later
	}

	delta := later - prior
	if log != nil {
		log.Debugw("time_delta_assessed",
			"prior_ms", prior, "later_ms", later, "delta_ms", delta)
	}
	return delta
}
