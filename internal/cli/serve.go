package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roadnet/pkg/api"
	"github.com/matzehuels/roadnet/pkg/cache"
	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/observability"
	"github.com/matzehuels/roadnet/pkg/pipeline"
)

// serveOpts holds the flags of the serve command. The flag tag names the
// flag in validation errors.
type serveOpts struct {
	Addr      string `flag:"addr" validate:"required,hostname_port"`
	Profile   string `flag:"profile"`
	RedisURL  string `flag:"redis" validate:"omitempty,url,startswith=redis"`
	NoCache   bool   `flag:"no-cache"`
	NoMetrics bool   `flag:"no-metrics"`
	MaxBody   int64  `flag:"max-body" validate:"gt=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("flag")
	})
	return v
}

// validateServeOpts checks the flags before anything is opened and reports
// the first bad one.
func validateServeOpts(opts serveOpts) error {
	err := validate.Struct(opts)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return errors.New(errors.ErrCodeInvalidInput, "--%s is required", e.Field())
	case "hostname_port":
		return errors.New(errors.ErrCodeInvalidInput, "--%s %q: want host:port", e.Field(), e.Value())
	case "url", "startswith":
		return errors.New(errors.ErrCodeInvalidInput, "--%s %q: want a redis:// or rediss:// URL", e.Field(), e.Value())
	case "gt":
		return errors.New(errors.ErrCodeInvalidInput, "--%s must be positive, got %v", e.Field(), e.Value())
	}
	return errors.New(errors.ErrCodeInvalidInput, "--%s: failed %s check", e.Field(), e.Tag())
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{Addr: ":8080", MaxBody: api.DefaultMaxBodyBytes}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Long: `Serve the pipeline over HTTP.

Routes:
  POST /v1/normalize   OSMnx JSON in, keyed graph out (?format=json|gob)
  POST /v1/render      OSMnx JSON in, DOT or SVG out (?format=dot|svg)
  GET  /v1/speed       resolve one edge speed (?value=...&class=...)
  GET  /v1/profile     the active speed profile
  GET  /healthz        liveness and build info
  GET  /metrics        prometheus metrics

Results are cached in the local cache directory, or in redis with --redis so
that several instances share one cache. The server stops gracefully on
SIGINT or SIGTERM.`,
		Example: `  roadnet serve --addr :9000
  roadnet serve --redis redis://localhost:6379/0 --profile urban.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", opts.Addr, "listen address")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "speed profile (TOML or YAML) overriding the built-in road class speeds")
	cmd.Flags().StringVar(&opts.RedisURL, "redis", "", "redis URL for a shared cache (redis://host:port/db)")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.NoMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().Int64Var(&opts.MaxBody, "max-body", opts.MaxBody, "maximum request body size in bytes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	if err := validateServeOpts(opts); err != nil {
		return err
	}
	p, err := loadProfile(opts.Profile)
	if err != nil {
		return err
	}

	store, keyer, err := c.serverCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	var metrics *observability.Metrics
	if !opts.NoMetrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = observability.NewMetrics(reg)
		observability.Register(metrics)
		defer observability.Reset()
	}

	srv := api.NewServer(api.Config{
		Runner:       runner,
		Profile:      p,
		Logger:       c.Logger,
		Metrics:      metrics,
		MaxBodyBytes: opts.MaxBody,
	})

	printInfo("Serving on %s", opts.Addr)
	if opts.Profile != "" {
		printDetail("profile: %s", opts.Profile)
	}

	err = srv.ListenAndServe(ctx, opts.Addr)
	if stderrors.Is(err, context.Canceled) {
		printSuccess("Server stopped")
		return nil
	}
	return err
}

// serverCache picks the cache backend for serve: redis when a URL is given,
// the local file cache otherwise.
func (c *CLI) serverCache(ctx context.Context, opts serveOpts) (cache.Cache, cache.Keyer, error) {
	if opts.NoCache {
		return cache.NewNullCache(), nil, nil
	}
	if opts.RedisURL == "" {
		store, err := newCache(false)
		return store, nil, err
	}

	store, err := cache.NewRedisCache(ctx, opts.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	c.Logger.Info("using redis cache", "addr", store.Addr())
	return cache.NewCompressed(store), cache.NewScopedKeyer(nil, appName+":"), nil
}
