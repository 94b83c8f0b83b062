package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathbuddy/internal/config"
	"github.com/abhisek/mathbuddy/internal/diagnostic"
	"github.com/abhisek/mathbuddy/internal/llm"
	"github.com/abhisek/mathbuddy/internal/metrics"
	"github.com/abhisek/mathbuddy/internal/server"
	"github.com/abhisek/mathbuddy/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tutoring and diagnostic HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		bank, err := loadBank(cfg)
		if err != nil {
			return err
		}

		sessions, closeSessions, err := newSessionStore(ctx, cfg.Sessions)
		if err != nil {
			return err
		}
		defer closeSessions()

		m := metrics.New()

		provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(),
			llm.WithLogger(log.With("component", "llm")),
			llm.WithObserver(m),
		)
		if err != nil {
			return fmt.Errorf("llm provider: %w (set MATHBUDDY_LLM_PROVIDER=mock to run without a model)", err)
		}

		diag := diagnostic.NewEngine(bank, sessions,
			diagnostic.WithLogger(log.With("component", "diagnostic")),
			diagnostic.WithRecorder(diagnostic.StoreRecorder{
				Results: st.ResultRepo(),
				Events:  st.EventRepo(),
			}),
		)
		tut := tutor.NewEngine(provider,
			tutor.WithLogger(log.With("component", "tutor")),
			tutor.WithConfig(tutor.Config{
				MaxTokens:   cfg.LLM.MaxTokens,
				Temperature: cfg.LLM.Temperature,
			}),
			tutor.WithMalformedCounter(m.MalformedFrame),
		)

		srv := server.New(server.Config{
			CORSOrigins:       cfg.Server.CORSOrigins,
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			ShutdownTimeout:   cfg.Server.ShutdownTimeout,
			Debug:             cfg.LogMode == "dev",
		}, server.Deps{
			Diagnostic: diag,
			Tutor:      tut,
			Metrics:    m,
			Logger:     log,
			Health:     st.DB().PingContext,
		})

		log.Info("starting server",
			"addr", cfg.Server.Addr,
			"provider", provider.Name(),
			"model", provider.ModelID(),
			"session_store", cfg.Sessions.Backend,
			"questions", bank.Len(),
		)
		if err := srv.Run(ctx, cfg.Server.Addr); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Info("server stopped")
		return nil
	},
}

// newSessionStore builds the configured session store and a function that
// releases it.
func newSessionStore(ctx context.Context, cfg config.SessionConfig) (diagnostic.SessionStore, func(), error) {
	switch cfg.Backend {
	case "redis":
		rdb, err := diagnostic.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("session store: %w", err)
		}
		return diagnostic.NewRedisStore(rdb, cfg.Redis.Prefix, cfg.TTL), func() { _ = rdb.Close() }, nil
	default:
		return diagnostic.NewMemoryStore(cfg.MaxSessions, cfg.TTL), func() {}, nil
	}
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides MATHBUDDY_ADDR)")
}
