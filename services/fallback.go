package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"macro_dashboard_backend/models"
)

// Source is one candidate fetch for an indicator. Fetch may return a partial
// observation together with an error when the source yielded some fields but
// not a usable value (e.g. a calendar page that only knew the next release
// date); the resolver carries those fields forward onto a later success.
type Source struct {
	Name  string
	Fetch func(ctx context.Context) (*models.Observation, error)
}

// Resolver tries candidate sources for an indicator in priority order.
// Each source sits behind its own circuit breaker so a page that has been
// failing for a while is skipped quickly instead of burning its timeout
// every cycle.
type Resolver struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewResolver() *Resolver {
	return &Resolver{breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

func (r *Resolver) breaker(name string) *gobreaker.CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cb, ok := r.breakers[name]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	r.breakers[name] = cb
	return cb
}

// Resolve invokes sources in order and returns the first well-formed
// observation, with date fields spliced in from earlier failed candidates
// when the winner lacks them. Exhaustion returns nil: the caller keeps the
// cache's last known good value and the indicator simply goes stale.
func (r *Resolver) Resolve(ctx context.Context, sources []Source) *models.Observation {
	var spliceDate, spliceNext string

	for _, src := range sources {
		res, err := r.breaker(src.Name).Execute(func() (interface{}, error) {
			return src.Fetch(ctx)
		})
		obs, _ := res.(*models.Observation)

		if err != nil || !obs.HasValue() {
			if obs != nil {
				if spliceDate == "" {
					spliceDate = obs.Date
				}
				if spliceNext == "" {
					spliceNext = obs.NextDate
				}
			}
			log.Debug().Str("source", src.Name).Err(err).Msg("source skipped")
			continue
		}

		out := *obs
		if out.Date == "" {
			out.Date = spliceDate
		}
		if out.NextDate == "" {
			out.NextDate = spliceNext
		}
		return &out
	}
	return nil
}
