package api

import (
	"context"
	"log"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"maintopt/internal/auth"
	"maintopt/internal/config"
	"maintopt/internal/store"
)

// Server holds the handler dependencies. Handlers are methods so tests can
// build one around the in-memory store.
type Server struct {
	Store  store.Store
	Auth   *auth.Verifier
	Broker EventBroker
	Tuning config.Tuning

	RateRPS   float64
	RateBurst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewServer wires the server from configuration. An empty DATABASE_URL
// selects the in-memory store; a Redis URL that fails to parse falls back
// to the in-memory broker so a bad cache never blocks startup.
func NewServer(cfg *config.Config) (*Server, error) {
	var s store.Store
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		s = store.NewMemory()
	} else {
		sp, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := sp.Migrate(context.Background()); err != nil {
			return nil, err
		}
		s = sp
	}

	var broker EventBroker
	if cfg.RedisURL != "" {
		if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
			broker = rb
		} else {
			log.Printf("redis broker unavailable, using in-memory: %v", err)
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		return nil, err
	}

	return &Server{
		Store:     s,
		Auth:      auth.NewVerifier(cfg.Auth.Mode, cfg.Auth.Secret),
		Broker:    broker,
		Tuning:    tuning,
		RateRPS:   cfg.Rate.RPS,
		RateBurst: cfg.Rate.Burst,
		limiters:  map[string]*rate.Limiter{},
	}, nil
}
