package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-degrees/pkg/api"
	"github.com/dd0wney/cluso-degrees/pkg/api/middleware"
	"github.com/dd0wney/cluso-degrees/pkg/auth"
	"github.com/dd0wney/cluso-degrees/pkg/config"
	"github.com/dd0wney/cluso-degrees/pkg/logging"
)

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting server",
		logging.String("addr", a.cfg.Server.Addr),
		logging.Int("max_depth", a.cfg.Search.MaxDepth),
	)

	opts, err := serverOptions(a.cfg)
	if err != nil {
		return err
	}
	server, err := api.NewServer(a.store, a.searcher, a.registry, a.logger, opts)
	if err != nil {
		return err
	}
	return server.Run(ctx)
}

// serverOptions maps the server config onto API options.
// CORS, rate limiting and authentication stay off unless configured.
func serverOptions(cfg *config.Config) (api.Options, error) {
	opts := api.Options{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		GraphQLMaxDepth: cfg.Server.GraphQLMaxDepth,
		HSTSMaxAge:      cfg.Server.HSTSMaxAge,
		MemoryLimit:     cfg.Server.MemoryLimit,
	}

	if len(cfg.Server.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.CORSOrigins
		opts.CORS = cors
	}

	if rl := cfg.Server.RateLimit; rl.RequestsPerSecond > 0 {
		limit := middleware.DefaultRateLimitConfig()
		limit.RequestsPerSecond = rl.RequestsPerSecond
		if rl.Burst > 0 {
			limit.BurstSize = rl.Burst
		}
		opts.RateLimit = limit
	}

	if cfg.Server.Auth.Enabled() {
		validator, err := newValidator(cfg.Server.Auth)
		if err != nil {
			return api.Options{}, err
		}
		opts.Auth = validator
	}
	return opts, nil
}

// newValidator accepts JWTs when a secret is set and API keys when hashes are
func newValidator(cfg config.AuthConfig) (auth.TokenValidator, error) {
	var validators auth.Chain
	if cfg.JWTSecret != "" {
		jwtManager, err := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
		if err != nil {
			return nil, err
		}
		validators = append(validators, jwtManager)
	}
	if len(cfg.APIKeyHashes) > 0 {
		keys, err := auth.NewAPIKeyValidator(cfg.APIKeyHashes)
		if err != nil {
			return nil, err
		}
		validators = append(validators, keys)
	}
	return validators, nil
}
