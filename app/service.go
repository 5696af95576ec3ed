package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/trafficpredict/api"
	"github.com/kilianp07/trafficpredict/config"
	"github.com/kilianp07/trafficpredict/core/catalog"
	coremetrics "github.com/kilianp07/trafficpredict/core/metrics"
	"github.com/kilianp07/trafficpredict/core/monitoring"
	"github.com/kilianp07/trafficpredict/core/prediction"
	"github.com/kilianp07/trafficpredict/infra/logger"
	"github.com/kilianp07/trafficpredict/infra/metrics"
	inframon "github.com/kilianp07/trafficpredict/infra/monitoring"
	"github.com/kilianp07/trafficpredict/internal/eventbus"
)

// Service serves the prediction endpoint and records every prediction in the
// configured metrics sinks.
type Service struct {
	cfg     *config.Config
	logs    *logger.Factory
	log     logger.Logger
	monitor monitoring.Monitor
	engine  *prediction.CongestionPredictor
	sink    coremetrics.MetricsSink
	bus     *eventbus.Bus
	handler http.Handler
}

// NewLoggerFactory builds the logging backend described by cfg. A non-nil
// console writer replaces stdout when no log file is configured.
func NewLoggerFactory(cfg config.LoggingConfig, console io.Writer) (*logger.Factory, error) {
	opts := logger.Options{
		Level:      cfg.Level,
		Format:     cfg.Format,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
	}
	if cfg.File == "" {
		opts.Writer = console
	}
	if len(cfg.Suppress) > 0 {
		opts.Filters = append(opts.Filters, logger.SuppressFilter(cfg.Suppress...))
	}
	return logger.NewFactory(opts)
}

// NewPredictor builds the congestion predictor from the predictor and server
// sections. Defaults for hour and day type follow the server timezone.
func NewPredictor(cfg *config.Config) (*prediction.CongestionPredictor, error) {
	loc, err := cfg.Server.Location()
	if err != nil {
		return nil, err
	}
	return prediction.NewCongestionPredictor(
		prediction.WithRouteTable(cfg.Predictor.RouteTable()),
		prediction.WithSource(cfg.Predictor.Source()),
		prediction.WithReferenceRoute(cfg.Predictor.ReferenceRoute),
		prediction.WithClock(func() time.Time { return time.Now().In(loc) }),
	), nil
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logs, err := NewLoggerFactory(cfg.Logging, nil)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	log := logs.New("service")

	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}

	engine, err := NewPredictor(cfg)
	if err != nil {
		return nil, fmt.Errorf("predictor: %w", err)
	}

	sink, err := coremetrics.NewMetricsSinkWith(cfg.Metrics.Sinks, metrics.SinkOverrides(logs.New("mqtt"), mon))
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	handler := api.NewRouter(api.Deps{
		Engine:  engine,
		Catalog: catalog.Default(),
		Bus:     bus,
		Logger:  logs.New("api"),
		Monitor: mon,
	})

	return &Service{
		cfg:     cfg,
		logs:    logs,
		log:     log,
		monitor: mon,
		engine:  engine,
		sink:    sink,
		bus:     bus,
		handler: handler,
	}, nil
}

// Handler returns the HTTP handler of the service.
func (s *Service) Handler() http.Handler { return s.handler }

// Engine returns the predictor used by the service.
func (s *Service) Engine() *prediction.CongestionPredictor { return s.engine }

// Run serves HTTP until ctx is canceled, then shuts the server down gracefully.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	collected := metrics.StartEventCollector(ctx, s.bus, s.sink, s.logs.New("metrics"))

	if addr := s.cfg.Metrics.PrometheusAddress; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr, nil); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         s.cfg.Server.Address,
		Handler:      s.handler,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSeconds) * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-errCh:
		runErr = err
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), time.Duration(s.cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutdown: %w", err)
	}
	cancel()
	<-collected
	return runErr
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	s.monitor.Flush(2 * time.Second)
	type closer interface{ Close() }
	if c, ok := s.sink.(closer); ok {
		c.Close()
	}
	if m, ok := s.sink.(*coremetrics.MultiSink); ok {
		for _, sub := range m.Sinks {
			if c, ok := sub.(closer); ok {
				c.Close()
			}
		}
	}
	return s.logs.Close()
}
