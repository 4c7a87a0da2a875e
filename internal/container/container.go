// Package container provides dependency injection for the cash-forecast
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/cash-forecast/internal/config"
	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/projector"
	"fjacquet/cash-forecast/internal/recurrence"
	"fjacquet/cash-forecast/internal/report"
	"fjacquet/cash-forecast/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	loader    store.Loader
	expander  *recurrence.Expander
	projector *projector.Projector
	generator *report.Generator
	clock     dateutils.Clock
}

// Option overrides a dependency built by NewContainer.
type Option func(*Container)

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLoader replaces the file-backed dataset loader.
func WithLoader(loader store.Loader) Option {
	return func(c *Container) {
		if loader != nil {
			c.loader = loader
		}
	}
}

// WithClock replaces the clock used to compute "today".
func WithClock(clock dateutils.Clock) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer creates and wires all application dependencies.
//
// Parameters:
//   - cfg: Application configuration
//   - opts: Optional overrides, mostly for tests
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{
		config: cfg,
		logger: logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format),
		clock:  dateutils.NewClock(cfg.Projection.UTCOffsetMinutes),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = store.NewDatasetStore(
			cfg.Data.Directory,
			cfg.Data.BudgetFile,
			cfg.Data.TransactionsFile,
			cfg.Data.AccountsFile,
			c.logger,
		)
	}

	c.expander = recurrence.NewExpander(
		recurrence.WithMaxOccurrences(cfg.Recurrence.MaxOccurrences),
		recurrence.WithLogger(c.logger),
	)
	c.projector = projector.New(
		projector.WithTolerance(cfg.Tolerance()),
		projector.WithLogger(c.logger),
	)
	c.generator = report.NewGenerator(cfg.Delimiter(), c.logger)

	c.logger.Debug("Container initialized successfully",
		logging.F("max_occurrences", c.expander.MaxOccurrences()),
		logging.F(logging.FieldPeriodType, cfg.Projection.PeriodType),
		logging.F(logging.FieldInputDir, cfg.Data.Directory))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLoader returns the dataset loader.
func (c *Container) GetLoader() store.Loader {
	return c.loader
}

// GetExpander returns the recurrence expander configured with the
// occurrence ceiling.
func (c *Container) GetExpander() *recurrence.Expander {
	return c.expander
}

// GetProjector returns the cash-position projector.
func (c *Container) GetProjector() *projector.Projector {
	return c.projector
}

// GetGenerator returns the report generator.
func (c *Container) GetGenerator() *report.Generator {
	return c.generator
}

// GetClock returns the clock providing today's date at the configured offset.
func (c *Container) GetClock() dateutils.Clock {
	return c.clock
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
