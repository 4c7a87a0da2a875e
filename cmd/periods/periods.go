// Package periods handles the period navigation command
package periods

import (
	"fmt"
	"strings"

	"fjacquet/cash-forecast/cmd/common"
	"fjacquet/cash-forecast/cmd/root"
	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/models"
	"fjacquet/cash-forecast/internal/periods"

	"github.com/spf13/cobra"
)

// weekType selects seven-day periods, which have no year/month anchor of
// their own.
const weekType = "week"

var (
	periodType string
	anchor     string
	shift      int
	count      int
)

// Cmd represents the periods command
var Cmd = &cobra.Command{
	Use:   "periods",
	Short: "Show period bounds and labels",
	Long: `Show the bounds and label of reporting periods starting at an anchor month.
Supported types are month, bimester, quarter, semester, year and week.
--shift moves the anchor forward or backward by whole periods before listing.`,
	RunE: periodsFunc,
}

func init() {
	Cmd.Flags().StringVarP(&periodType, "type", "t", "", "Period type (defaults to projection.period_type)")
	Cmd.Flags().StringVarP(&anchor, "anchor", "a", "", "Anchor month as YYYY-MM (defaults to the current month)")
	Cmd.Flags().IntVar(&shift, "shift", 0, "Number of periods to move the anchor by")
	Cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of consecutive periods to list")
}

func periodsFunc(cmd *cobra.Command, args []string) error {
	c, err := common.RequireContainer(root.GetContainer())
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	logger := c.GetLogger().WithField(logging.FieldOperation, "periods")

	if count < 1 {
		return fmt.Errorf("--count must be positive, got %d", count)
	}

	today := c.GetClock().Today()
	a := periods.AnchorOf(today)
	if anchor != "" {
		if a, err = periods.ParseAnchor(anchor); err != nil {
			return fmt.Errorf("invalid --anchor: %w", err)
		}
	}

	var grid []models.Period
	typeName := strings.ToLower(strings.TrimSpace(periodType))
	if typeName == weekType {
		start := dateutils.NewDate(a.Year, a.Month, 1)
		if anchor == "" {
			start = today
		}
		grid = periods.Weeks(start.AddDate(0, 0, 7*shift), count)
	} else {
		t := cfg.PeriodType()
		if typeName != "" {
			if t, err = periods.ParseType(typeName); err != nil {
				return fmt.Errorf("invalid --type: %w", err)
			}
		}
		grid = periods.Grid(t, periods.Shift(t, a, shift), count)
		typeName = string(t)
	}

	logger.Debug("Computed period grid",
		logging.F(logging.FieldPeriodType, typeName),
		logging.F(logging.FieldCount, len(grid)),
		logging.F(logging.FieldRangeStart, dateutils.ToISODate(grid[0].Start)))

	data, err := c.GetGenerator().Periods(grid, cfg.Output.Format)
	if err != nil {
		return err
	}
	return common.WriteOutput(c, cmd.OutOrStdout(), root.SharedFlags.Output, data)
}
