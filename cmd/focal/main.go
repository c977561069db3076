// Package main is the entry point for the Focal CLI application.
// Focal analyzes schedules against an attention budget model: per-type
// budgets, context-switch costs, focus fragmentation, and role rules.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhalvorsen/focal/internal/attention"
	"github.com/dhalvorsen/focal/internal/config"
	"github.com/dhalvorsen/focal/internal/data"
	"github.com/dhalvorsen/focal/internal/logging"
	"github.com/dhalvorsen/focal/internal/metrics"
	"github.com/dhalvorsen/focal/internal/server"
)

var (
	version = "0.1.0"
	cfgPath string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "focal",
		Short: "Focal - attention budget analysis for schedules",
		Long: `Focal evaluates schedules against an attention budget model.
It scores daily budgets per attention type, prices context switches,
detects focus fragmentation, and checks role-specific rules.

Run the HTTP service:     focal serve
Analyze a schedule file:  focal analyze schedule.json
Configuration:            focal config show`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.focal/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Focal v%s\n", version)
		},
	})

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration from the flag path or the default
// location and validates it.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if cfgPath != "" {
		cfg, err = config.LoadFromPath(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Focal HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				File:    cfg.Logging.File,
				Console: true,
			})
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}
			defer logger.Close()
			log := logger.Component("server")

			store, err := data.NewDB(cfg.Storage.DataDir)
			if err != nil {
				return fmt.Errorf("open audit store: %w", err)
			}
			defer store.Close()

			srv := server.New(cfg, store, metrics.NewCollector(), *log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-errCh
		},
	}
}

// analyzeInput is the schedule file format for the analyze command.
type analyzeInput struct {
	Items       []attention.Item      `json:"items"`
	Preferences attention.Preferences `json:"preferences"`
	Date        string                `json:"date,omitempty"`
}

func analyzeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <schedule.json>",
		Short: "Analyze a schedule file and print warnings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read schedule: %w", err)
			}

			var input analyzeInput
			if err := json.Unmarshal(raw, &input); err != nil {
				return fmt.Errorf("parse schedule: %w", err)
			}

			day := time.Now().UTC().Truncate(24 * time.Hour)
			if input.Date != "" {
				day, err = time.Parse("2006-01-02", input.Date)
				if err != nil {
					return fmt.Errorf("parse date %q: %w", input.Date, err)
				}
			} else if len(input.Items) > 0 && !input.Items[0].Start.IsZero() {
				y, m, d := input.Items[0].Start.Date()
				day = time.Date(y, m, d, 0, 0, 0, 0, input.Items[0].Start.Location())
			}

			analysis := attention.AnalyzeBudget(input.Items, input.Preferences, day)
			fragmentation := attention.DetectFragmentation(input.Items)

			warnings := mergeWarnings(analysis.Warnings, fragmentation)

			if asJSON {
				out := map[string]interface{}{
					"analysis":      analysis,
					"fragmentation": fragmentation,
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Overall score: %d/100\n", analysis.OverallScore)
			fmt.Fprintf(cmd.OutOrStdout(), "Context switches: %d (cost %.1f, %s)\n",
				analysis.Switches.TotalSwitches, analysis.Switches.CostScore, analysis.Switches.Severity)
			if len(warnings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No warnings.")
				return nil
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s (severity %d)\n", w.Level, w.Title, w.Severity)
				if w.Suggestion != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", w.Suggestion)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print full analysis as JSON")
	return cmd
}

// mergeWarnings combines warning lists into a fresh severity-sorted slice.
// Sorting a slice that aliases an input's backing array would reorder the
// input in place, so the merge always copies.
func mergeWarnings(lists ...[]attention.Warning) []attention.Warning {
	merged := []attention.Warning{}
	for _, list := range lists {
		merged = append(merged, list...)
	}
	attention.SortWarnings(merged)
	return merged
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage Focal configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgPath
			if path == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				path = home + "/.focal/config.yaml"
			}
			if err := config.Default().SaveToPath(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	})

	return cmd
}
