// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"fjacquet/cash-forecast/internal/config"
	"fjacquet/cash-forecast/internal/container"
	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/validation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Format string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before any subcommand runs.
	AppConfig *config.Config

	// AppContainer holds the dependencies wired from AppConfig.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "cash-forecast",
		Short: "A CLI tool to expand budgets and project cash positions.",
		Long: `cash-forecast expands recurring budget entries into dated occurrences
and projects the opening and closing cash position of each reporting period,
carrying overdue receivables and payables into the first future period.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to cash-forecast!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			if err := ApplyFlags(cfg); err != nil {
				return err
			}

			Log = config.ConfigureLoggingFromConfig(cfg)
			Log.SetOutput(cmd.ErrOrStderr())

			c, err := container.NewContainer(cfg, container.WithLogger(GetLogrusAdapter()))
			if err != nil {
				return fmt.Errorf("failed to initialize container: %w", err)
			}
			AppConfig = cfg
			AppContainer = c
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.Warnf("Failed to close container: %v", err)
				}
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Data directory holding budget, transactions and accounts files")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (stdout when empty)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "", "Output format: csv, json or yaml")
}

// ApplyFlags overrides configuration values with the shared flags.
func ApplyFlags(cfg *config.Config) error {
	if SharedFlags.Input != "" {
		if err := validation.IsValidDataDirectory(SharedFlags.Input); err != nil {
			return err
		}
		cfg.Data.Directory = SharedFlags.Input
	}
	if SharedFlags.Format != "" {
		if err := validation.IsValidOutputFormat(SharedFlags.Format); err != nil {
			return err
		}
		cfg.Output.Format = strings.ToLower(SharedFlags.Format)
	}
	return nil
}

// GetLogrusAdapter returns the shared logger behind the logging.Logger
// interface.
func GetLogrusAdapter() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// GetContainer returns the application container, or nil before the root
// command has run.
func GetContainer() *container.Container {
	return AppContainer
}

// GetConfig returns the loaded configuration, or nil before the root
// command has run.
func GetConfig() *config.Config {
	return AppConfig
}
