// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/periods"
	"fjacquet/cash-forecast/internal/validation"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FORECAST_LOG_LEVEL.
const EnvPrefix = "FORECAST"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Recurrence struct {
		MaxOccurrences int `mapstructure:"max_occurrences" yaml:"max_occurrences"`
	} `mapstructure:"recurrence" yaml:"recurrence"`

	Projection struct {
		PeriodType            string  `mapstructure:"period_type" yaml:"period_type"`
		PeriodCount           int     `mapstructure:"period_count" yaml:"period_count"`
		UTCOffsetMinutes      int     `mapstructure:"utc_offset_minutes" yaml:"utc_offset_minutes"`
		IncludeClosedAccounts bool    `mapstructure:"include_closed_accounts" yaml:"include_closed_accounts"`
		RemainderTolerance    float64 `mapstructure:"remainder_tolerance" yaml:"remainder_tolerance"`
	} `mapstructure:"projection" yaml:"projection"`

	Data struct {
		Directory        string `mapstructure:"directory" yaml:"directory"`
		AccountsFile     string `mapstructure:"accounts_file" yaml:"accounts_file"`
		BudgetFile       string `mapstructure:"budget_file" yaml:"budget_file"`
		TransactionsFile string `mapstructure:"transactions_file" yaml:"transactions_file"`
	} `mapstructure:"data" yaml:"data"`

	Output struct {
		Format    string `mapstructure:"format" yaml:"format"`
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"output" yaml:"output"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.cash-forecast")
	v.AddConfigPath(".cash-forecast")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration obtained from defaults alone, ignoring
// config files and the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Recurrence defaults
	v.SetDefault("recurrence.max_occurrences", 10000)

	// Projection defaults
	v.SetDefault("projection.period_type", string(periods.Month))
	v.SetDefault("projection.period_count", 12)
	v.SetDefault("projection.utc_offset_minutes", 0)
	v.SetDefault("projection.include_closed_accounts", true)
	v.SetDefault("projection.remainder_tolerance", 0.001)

	// Data defaults
	v.SetDefault("data.directory", "")
	v.SetDefault("data.accounts_file", "accounts.csv")
	v.SetDefault("data.budget_file", "budget.yaml")
	v.SetDefault("data.transactions_file", "transactions.yaml")

	// Output defaults
	v.SetDefault("output.format", "csv")
	v.SetDefault("output.delimiter", ",")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Recurrence.MaxOccurrences < 1 {
		return fmt.Errorf("recurrence.max_occurrences must be positive, got: %d", config.Recurrence.MaxOccurrences)
	}

	if _, err := periods.ParseType(config.Projection.PeriodType); err != nil {
		return fmt.Errorf("invalid projection.period_type: %s", config.Projection.PeriodType)
	}

	if config.Projection.PeriodCount < 1 {
		return fmt.Errorf("projection.period_count must be positive, got: %d", config.Projection.PeriodCount)
	}

	// Real-world offsets run from UTC-12 to UTC+14.
	if config.Projection.UTCOffsetMinutes < -12*60 || config.Projection.UTCOffsetMinutes > 14*60 {
		return fmt.Errorf("projection.utc_offset_minutes out of range: %d", config.Projection.UTCOffsetMinutes)
	}

	if config.Projection.RemainderTolerance < 0 {
		return fmt.Errorf("projection.remainder_tolerance must not be negative, got: %f", config.Projection.RemainderTolerance)
	}

	if err := validation.IsValidOutputFormat(config.Output.Format); err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	if len(config.Output.Delimiter) != 1 {
		return fmt.Errorf("output delimiter must be a single character, got: %s", config.Output.Delimiter)
	}

	return nil
}

// Delimiter returns the configured CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	if c.Output.Delimiter == "" {
		return ','
	}
	return rune(c.Output.Delimiter[0])
}

// PeriodType returns the configured projection period type, falling back to
// months.
func (c *Config) PeriodType() periods.Type {
	t, err := periods.ParseType(c.Projection.PeriodType)
	if err != nil {
		return periods.Month
	}
	return t
}

// Tolerance returns the remainder tolerance as a decimal.
func (c *Config) Tolerance() decimal.Decimal {
	return decimal.NewFromFloat(c.Projection.RemainderTolerance)
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()
	logging.Configure(logger, config.Log.Level, config.Log.Format)
	return logger
}
