package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/jchantrell/waddb/internal/config"
	"github.com/jchantrell/waddb/internal/wad"
)

var (
	cfg     *config.Config
	cfgFile string

	archives   []string
	policy     string
	dbPath     string
	logLevel   string
	logFormat  string
	noProgress bool
	keepGoing  bool
)

var rootCmd = &cobra.Command{
	Use:   "waddb",
	Short: "Doom WAD archive inspection and extraction tool",
	Long: `waddb opens one or more Doom-engine WAD archives in load order and
resolves lumps by name across all of them.

Archives are stacked: when several contain a lump with the same name, the
override policy decides which one wins. With "first" the earliest loaded
archive wins, with "last" a later patch archive overrides the base archive.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("archives") {
			cfg.Archives = archives
		}
		if cmd.Flags().Changed("policy") {
			cfg.Policy = policy
		}
		if cmd.Flags().Changed("database") {
			cfg.Database = dbPath
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)

		slog.Debug("Configuration",
			"archives", cfg.Archives,
			"policy", cfg.Policy,
			"database", cfg.Database,
			"log_level", cfg.LogLevel,
			"log_format", cfg.LogFormat)

		return nil
	},
}

// openManager loads the configured archives in order. With --keep-going,
// archives that fail to open are logged and skipped.
func openManager() (*wad.Manager, error) {
	if len(cfg.Archives) == 0 {
		return nil, errors.New("no archives configured, use --archives or the archives config key")
	}

	p, err := wad.ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}

	m := wad.NewManager(wad.WithPolicy(p))
	for _, path := range cfg.Archives {
		if err := m.AddArchive(path); err != nil {
			if keepGoing {
				slog.Warn("Skipping archive", "path", path, "error", err)
				continue
			}
			m.Close()
			return nil, fmt.Errorf("adding archive: %w", err)
		}
	}

	if m.Len() == 0 {
		return nil, errors.New("none of the configured archives could be opened")
	}

	slog.Debug("Archives loaded", "count", m.Len(), "policy", p)
	return m, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is waddb.yaml in home or pwd)")
	rootCmd.PersistentFlags().StringSliceVarP(&archives, "archives", "a", []string{}, "comma-separated list of archives in load order")
	rootCmd.PersistentFlags().StringVar(&policy, "policy", "", "override policy when archives share a lump name (first, last)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "database", "d", "", "catalog database file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
	rootCmd.PersistentFlags().BoolVar(&keepGoing, "keep-going", false, "skip archives that fail to open instead of aborting")
}
