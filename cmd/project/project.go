// Package project handles the cash-position projection command
package project

import (
	"fmt"

	"fjacquet/cash-forecast/cmd/common"
	"fjacquet/cash-forecast/cmd/root"
	"fjacquet/cash-forecast/internal/aggregate"
	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/periods"
	"fjacquet/cash-forecast/internal/projector"

	"github.com/spf13/cobra"
)

var (
	fromMonth  string
	count      int
	periodType string
	todayDate  string
	byCategory bool
)

// Cmd represents the project command
var Cmd = &cobra.Command{
	Use:   "project",
	Short: "Project opening and closing cash per period",
	Long: `Project the opening and closing cash position of consecutive periods.
Periods up to the one containing today use actual payments; later periods use
the planned budget. Unsettled transactions due before today are carried into
the first future period. With --by-category the command prints the budget
and actual totals of each category per period instead of the balances.`,
	RunE: projectFunc,
}

func init() {
	Cmd.Flags().StringVar(&fromMonth, "from", "", "First month as YYYY-MM (defaults to the current month)")
	Cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of periods (defaults to projection.period_count)")
	Cmd.Flags().StringVarP(&periodType, "period-type", "t", "", "Period type (defaults to projection.period_type)")
	Cmd.Flags().StringVar(&todayDate, "today", "", "Date treated as today (defaults to the configured clock)")
	Cmd.Flags().BoolVar(&byCategory, "by-category", false, "Print per-category budget and actual totals for each period")
}

func projectFunc(cmd *cobra.Command, args []string) error {
	c, err := common.RequireContainer(root.GetContainer())
	if err != nil {
		return err
	}
	cfg := c.GetConfig()
	logger := c.GetLogger().WithField(logging.FieldOperation, "project")

	today, err := common.ParseDateFlag("today", todayDate, c.GetClock().Today())
	if err != nil {
		return err
	}

	t := cfg.PeriodType()
	if periodType != "" {
		if t, err = periods.ParseType(periodType); err != nil {
			return fmt.Errorf("invalid --period-type: %w", err)
		}
	}

	n := cfg.Projection.PeriodCount
	if count != 0 {
		n = count
	}
	if n < 1 {
		return fmt.Errorf("--count must be positive, got %d", n)
	}

	anchor := periods.AnchorOf(today)
	if fromMonth != "" {
		if anchor, err = periods.ParseAnchor(fromMonth); err != nil {
			return fmt.Errorf("invalid --from: %w", err)
		}
	}
	grid := periods.Grid(t, anchor, n)

	ds, err := c.GetLoader().LoadDataset(common.Context(cmd))
	if err != nil {
		return err
	}

	occurrences, err := c.GetExpander().ExpandAll(ds.Budget, grid[0].Start, grid[len(grid)-1].LastDay())
	if err != nil {
		return err
	}

	accounts := ds.Accounts
	if !cfg.Projection.IncludeClosedAccounts {
		accounts = projector.FilterOpenAccounts(accounts)
	}

	p := c.GetProjector()
	for _, tx := range p.Overdue(ds.Transactions, today) {
		logger.Info("Overdue transaction",
			logging.F(logging.FieldTransaction, tx.ID),
			logging.F(logging.FieldAmount, tx.Direction.Signed(tx.Remainder()).String()),
			logging.F("due_date", dateutils.ToISODate(tx.Date)))
	}

	totals := aggregate.NewGeneralTotals(occurrences, ds.Transactions)
	balances := p.Project(grid, accounts, ds.Transactions, totals, today)

	logger.Info("Projection complete",
		logging.F(logging.FieldPeriodType, string(t)),
		logging.F(logging.FieldCount, len(balances)),
		logging.F("today", dateutils.ToISODate(today)))

	var data []byte
	if byCategory {
		data, err = c.GetGenerator().Breakdown(totals.Breakdown(grid), cfg.Output.Format)
	} else {
		data, err = c.GetGenerator().Projection(balances, cfg.Output.Format)
	}
	if err != nil {
		return err
	}
	return common.WriteOutput(c, cmd.OutOrStdout(), root.SharedFlags.Output, data)
}
