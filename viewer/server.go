package viewer

import (
	"context"
	"fmt"
	"time"

	"cgmview/viewer/defs"
	"cgmview/viewer/pkg/http"
	"cgmview/viewer/pkg/metrics"
	"cgmview/viewer/pkg/mg"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	Store    *mg.MongoStore
	Renderer *Renderer
	HTTP     *http.HttpServer

	Addr     string
	Logger   *zap.Logger
	Location *time.Location
}

func New(cfg defs.Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defs.TimeoutInterval)
	defer cancel()

	ms, err := mg.New(ctx, cfg.Mongo, cfg.Logger)
	if err != nil {
		return nil, err
	}

	fetcher := &StoreFetcher{
		Store:    ms,
		Logger:   cfg.Logger,
		Lookback: time.Duration(cfg.Charts.LookbackDays) * 24 * time.Hour,
	}
	m := metrics.New(prometheus.NewRegistry())
	renderer := &Renderer{
		Fetcher: fetcher,
		Options: OptionsFromConfig(cfg, loc),
		Logger:  cfg.Logger,
		Metrics: m,
	}

	cfg.Logger.Debug("finished server setup", zap.Any("config", cfg))

	return &Server{
		Store:    ms,
		Renderer: renderer,
		HTTP:     http.New(renderer, cfg.HTTP.StaticDir, m.Handler(), cfg.Logger),
		Addr:     cfg.HTTP.Addr,
		Logger:   cfg.Logger,
		Location: loc,
	}, nil
}

// Run serves until the listener fails, then drops the mongo connection.
func (s *Server) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), defs.TimeoutInterval)
	if err := s.Store.Ping(ctx); err != nil {
		s.Logger.Warn("mongo not reachable yet", zap.Error(err))
	}
	cancel()

	err := s.HTTP.Run(s.Addr)

	ctx, cancel = context.WithTimeout(context.Background(), defs.TimeoutInterval)
	defer cancel()
	if derr := s.Store.Disconnect(ctx); derr != nil {
		s.Logger.Debug("unable to disconnect from mongo", zap.Error(derr))
	}
	return err
}
