// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/cash-forecast/internal/container"
	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/logging"

	"github.com/spf13/cobra"
)

// ErrNoContainer is returned when a command runs before the root command
// wired its dependencies.
var ErrNoContainer = errors.New("container not initialized")

// RequireContainer returns c, or ErrNoContainer when it is nil.
func RequireContainer(c *container.Container) (*container.Container, error) {
	if c == nil {
		return nil, ErrNoContainer
	}
	return c, nil
}

// Context returns the command's context, or a background context when the
// command was invoked directly rather than through Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ParseDateFlag parses the value of a date flag. An empty value yields
// fallback.
func ParseDateFlag(name, value string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	date, err := dateutils.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return date, nil
}

// WriteOutput writes a rendered report to outputFile, or to w when
// outputFile is empty.
func WriteOutput(c *container.Container, w io.Writer, outputFile string, data []byte) error {
	if outputFile == "" {
		_, err := w.Write(data)
		return err
	}
	if err := c.GetGenerator().WriteFile(outputFile, data); err != nil {
		c.GetLogger().WithError(err).Error("Failed to write report",
			logging.F(logging.FieldOutputFile, outputFile))
		return err
	}
	return nil
}
