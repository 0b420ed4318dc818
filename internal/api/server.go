package api

import (
	"os"
	"strconv"

	"golang.org/x/time/rate"

	"ecolog/internal/carbon"
	"ecolog/internal/geo"
)

type Server struct {
	Geo    *geo.Dataset
	Carbon *carbon.Engine
	Broker EventBroker
	Runs   *RunCache

	// limiter throttles optimization launches; nil means unlimited
	limiter *rate.Limiter
}

// NewServer wires the dataset, rule engine, broker and run cache. If
// REDIS_URL is set the broker runs over Redis Pub/Sub, otherwise in-memory.
func NewServer() (*Server, error) {
	d, err := geo.Load()
	if err != nil {
		return nil, err
	}

	var broker EventBroker
	if os.Getenv("REDIS_URL") != "" {
		if rb, err := NewRedisBroker(); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}

	s := &Server{
		Geo:    d,
		Carbon: carbon.NewEngine(d),
		Broker: broker,
		Runs:   NewRunCache(100),
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil && rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
		}
	}
	return s, nil
}

func (s *Server) allowRun() bool {
	return s.limiter == nil || s.limiter.Allow()
}
