package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathbuddy/internal/config"
	"github.com/abhisek/mathbuddy/internal/logger"
	"github.com/abhisek/mathbuddy/internal/questionbank"
	"github.com/abhisek/mathbuddy/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mathbuddy",
	Short: "AI math tutor and diagnostic quiz for kids",
	Long: "MathBuddy runs a grade-aware diagnostic quiz and a streaming AI tutor " +
		"that coaches children toward answers without giving them away.",
	SilenceUsage: true,
}

// Execute runs the root command. ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHBUDDY_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides MATHBUDDY_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev or prod")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the configuration file and environment, then applies
// the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		cfg.LogMode = m
	}
	return cfg, cfg.Validate()
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATHBUDDY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database named by cfg, or the default one.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath := cfg.DB
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = p
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// openStoreFromFlags opens the database for commands that need nothing
// else from the configuration.
func openStoreFromFlags(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}

func loadBank(cfg config.Config) (*questionbank.Bank, error) {
	if cfg.BankPath == "" {
		return questionbank.Default(), nil
	}
	b, err := questionbank.LoadFile(cfg.BankPath)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	return b, nil
}

// quietLogger returns a dev logger in dev mode and a no-op logger
// otherwise, so interactive commands keep a clean terminal.
func quietLogger(cfg config.Config) *logger.Logger {
	if cfg.LogMode != "dev" {
		return logger.NewNop()
	}
	log, err := logger.New("dev")
	if err != nil {
		return logger.NewNop()
	}
	return log
}
