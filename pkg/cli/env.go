package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/iboying/activestore/internal/models"
	"github.com/iboying/activestore/pkg/attrs"
	"github.com/iboying/activestore/pkg/config"
	"github.com/iboying/activestore/pkg/logging"
	"github.com/iboying/activestore/pkg/model"
	"github.com/iboying/activestore/pkg/persist"
	"github.com/iboying/activestore/pkg/request"
	"github.com/iboying/activestore/pkg/store"
)

// env is what a command needs at run time: effective configuration, logger,
// persistence backend and request metrics.
type env struct {
	opts     *globalOptions
	cfg      *config.Config
	logger   *slog.Logger
	backend  persist.Backend
	registry *prometheus.Registry
	metrics  *request.Metrics
	observer *store.MetricsObserver
}

// load builds the run-time environment. Callers must close it.
func (o *globalOptions) load(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.apiURL != "" {
		cfg.Set("api.url", o.apiURL, config.SourceFlag)
	}
	if o.token != "" {
		cfg.Set("api.token", o.token, config.SourceFlag)
	}
	if o.logLevel != "" {
		cfg.Set("log.level", o.logLevel, config.SourceFlag)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.FromSettings(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())

	backend, err := persist.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics, err := request.NewMetrics(registry)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	logger.Debug("configuration loaded", "path", cfg.Path, "api", cfg.API.URL, "storage", cfg.Storage.Backend)
	return &env{
		opts:     o,
		cfg:      cfg,
		logger:   logger,
		backend:  backend,
		registry: registry,
		metrics:  metrics,
		observer: store.NewMetricsObserver(),
	}, nil
}

func (e *env) close() {
	snap := e.observer.Snapshot()
	e.logger.Debug("store operations", "total", snap.TotalOperations(), "errors", snap.ErrorCount,
		"latency", snap.TotalLatency, "requests", e.requestCount())
	if err := e.backend.Close(); err != nil {
		e.logger.Warn("failed to close storage", "error", err)
	}
}

// requestCount sums the request counter across labels.
func (e *env) requestCount() float64 {
	families, err := e.registry.Gather()
	if err != nil {
		return 0
	}
	var total float64
	for _, f := range families {
		if f.GetName() != "activestore_requests_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func (e *env) clientOptions() []request.Option {
	opts := []request.Option{
		request.WithLogger(e.logger),
		request.WithMetrics(e.metrics),
		request.WithToken(e.cfg.API.Token),
	}
	if e.cfg.API.Timeout > 0 {
		opts = append(opts, request.WithTimeout(e.cfg.API.Timeout))
	}
	return opts
}

// resolve finds the model named name: a configured declaration first, then
// a built-in blueprint matched by type name, ignoring case.
func (e *env) resolve(name string) (*model.Model, error) {
	var (
		bp    *model.Blueprint
		mc    model.Config
		typed bool
	)
	if decl, ok := e.cfg.Models[name]; ok {
		c, err := decl.ModelConfig()
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", name, err)
		}
		mc = c
		if decl.Type != "" {
			b, ok := models.Lookup(decl.Type)
			if !ok {
				return nil, fmt.Errorf("model %s: %w type %q", name, ErrUnknownModel, decl.Type)
			}
			bp, typed = &b, true
		} else if mc.Name == "" {
			mc.Name = name
		}
	} else {
		for _, t := range models.Types() {
			if strings.EqualFold(t, name) {
				b, _ := models.Lookup(t)
				bp, typed = &b, true
				break
			}
		}
		if !typed {
			return nil, fmt.Errorf("%w %q (see: activestore models)", ErrUnknownModel, name)
		}
	}

	if parents := e.parentOverrides(); parents != nil {
		mc.Parents = parents
	}
	mc.BaseURL = e.cfg.API.URL
	if mc.RootPath == "" {
		mc.RootPath = e.cfg.API.RootPath
	}

	opt := model.WithClientOptions(e.clientOptions()...)
	if typed {
		return bp.New(mc, opt)
	}
	return model.New(mc, opt)
}

func (e *env) parentOverrides() []model.Parent {
	if len(e.opts.parents) == 0 {
		return nil
	}
	parents := make([]model.Parent, len(e.opts.parents))
	for i, p := range e.opts.parents {
		parents[i] = model.Parent{Type: p.Key, ID: p.Value}
	}
	return parents
}

// store returns a store bound to the model named name. The API URL must be
// configured.
func (e *env) store(name string) (*store.Store[attrs.Attributes], error) {
	if e.cfg.API.URL == "" {
		return nil, ErrNoAPIURL
	}
	m, err := e.resolve(name)
	if err != nil {
		return nil, err
	}
	s := store.New[attrs.Attributes](store.WithLogger(e.logger), store.WithObserver(e.observer))
	if err := s.InitWithModel(m); err != nil {
		return nil, err
	}
	return s, nil
}

// withEnv wraps a command body with environment setup and teardown.
func (o *globalOptions) withEnv(fn func(cmd *cobra.Command, e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := o.load(cmd)
		if err != nil {
			return err
		}
		defer e.close()
		return formatAPIError(fn(cmd, e, args))
	}
}
