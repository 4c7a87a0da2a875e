// Package occurrences handles the budget expansion command
package occurrences

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/cash-forecast/cmd/common"
	"fjacquet/cash-forecast/cmd/root"
	"fjacquet/cash-forecast/internal/aggregate"
	"fjacquet/cash-forecast/internal/container"
	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/models"
	"fjacquet/cash-forecast/internal/periods"
	"fjacquet/cash-forecast/internal/store"

	"github.com/spf13/cobra"
)

var (
	budgetFile string
	fromDate   string
	toDate     string
	entryID    string
	perType    string
)

// Cmd represents the occurrences command
var Cmd = &cobra.Command{
	Use:   "occurrences",
	Short: "Expand budget entries into dated occurrences",
	Long: `Expand every recurring budget entry into the dates it falls on between
--from and --to, both inclusive. Monthly and longer frequencies keep the
original day of month, clamped to the last day of shorter months. With --per
the occurrences are summed per category in each period covering the range.`,
	RunE: occurrencesFunc,
}

func init() {
	Cmd.Flags().StringVarP(&budgetFile, "budget", "b", "", "Budget file (defaults to data.budget_file in the data directory)")
	Cmd.Flags().StringVar(&fromDate, "from", "", "First day of the range (defaults to today)")
	Cmd.Flags().StringVar(&toDate, "to", "", "Last day of the range (defaults to one year after --from)")
	Cmd.Flags().StringVar(&entryID, "entry", "", "Only expand the budget entry with this id")
	Cmd.Flags().StringVar(&perType, "per", "", "Sum occurrences per category and period of this type (month, bimester, quarter, semester, year)")
}

func occurrencesFunc(cmd *cobra.Command, args []string) error {
	c, err := common.RequireContainer(root.GetContainer())
	if err != nil {
		return err
	}
	logger := c.GetLogger().WithField(logging.FieldOperation, "occurrences")

	from, err := common.ParseDateFlag("from", fromDate, c.GetClock().Today())
	if err != nil {
		return err
	}
	to, err := common.ParseDateFlag("to", toDate, from.AddDate(1, 0, 0))
	if err != nil {
		return err
	}
	var t periods.Type
	if perType != "" {
		if t, err = periods.ParseType(perType); err != nil {
			return fmt.Errorf("invalid --per: %w", err)
		}
	}

	entries, err := loadBudget(c)
	if err != nil {
		return err
	}
	if entryID != "" {
		entries = filterEntries(entries, entryID)
		if len(entries) == 0 {
			return fmt.Errorf("no budget entry with id %q", entryID)
		}
	}

	occurrences, err := c.GetExpander().ExpandAll(entries, from, to)
	if err != nil {
		return err
	}
	logger.Info("Expanded budget",
		logging.F(logging.FieldCount, len(occurrences)),
		logging.F(logging.FieldRangeStart, dateutils.ToISODate(from)),
		logging.F(logging.FieldRangeEnd, dateutils.ToISODate(to)))

	format := c.GetConfig().Output.Format
	var data []byte
	if perType != "" {
		grid := periods.Covering(t, from, to)
		data, err = c.GetGenerator().Breakdown(aggregate.NewGeneralTotals(occurrences, nil).Breakdown(grid), format)
	} else {
		data, err = c.GetGenerator().Occurrences(occurrences, format)
	}
	if err != nil {
		return err
	}
	return common.WriteOutput(c, cmd.OutOrStdout(), root.SharedFlags.Output, data)
}

// loadBudget reads --budget when given, otherwise the configured budget
// file through the container's loader.
func loadBudget(c *container.Container) ([]models.BudgetEntry, error) {
	if budgetFile == "" {
		return c.GetLoader().LoadBudget()
	}
	path, err := filepath.Abs(budgetFile)
	if err != nil {
		return nil, fmt.Errorf("invalid --budget: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("invalid --budget: %w", err)
	}
	return store.NewDatasetStore("", path, "", "", c.GetLogger()).LoadBudget()
}

func filterEntries(entries []models.BudgetEntry, id string) []models.BudgetEntry {
	var out []models.BudgetEntry
	for _, e := range entries {
		if e.ID == id {
			out = append(out, e)
		}
	}
	return out
}
