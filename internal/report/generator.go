// Package report renders projections, occurrences and period grids as CSV,
// JSON or YAML.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/cash-forecast/internal/aggregate"
	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/logging"
	"fjacquet/cash-forecast/internal/models"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type balanceRow struct {
	Period       string `csv:"period" json:"period" yaml:"period"`
	Start        string `csv:"start" json:"start" yaml:"start"`
	End          string `csv:"end" json:"end" yaml:"end"`
	Basis        string `csv:"basis" json:"basis" yaml:"basis"`
	Opening      string `csv:"opening" json:"opening" yaml:"opening"`
	Inflow       string `csv:"inflow" json:"inflow" yaml:"inflow"`
	Outflow      string `csv:"outflow" json:"outflow" yaml:"outflow"`
	CarryForward string `csv:"carry_forward" json:"carry_forward" yaml:"carry_forward"`
	Closing      string `csv:"closing" json:"closing" yaml:"closing"`
}

type occurrenceRow struct {
	Date      string `csv:"date" json:"date" yaml:"date"`
	EntryID   string `csv:"entry_id" json:"entry_id" yaml:"entry_id"`
	Label     string `csv:"label" json:"label" yaml:"label"`
	Category  string `csv:"category" json:"category" yaml:"category"`
	Direction string `csv:"direction" json:"direction" yaml:"direction"`
	Amount    string `csv:"amount" json:"amount" yaml:"amount"`
}

type periodRow struct {
	Label string `csv:"label" json:"label" yaml:"label"`
	Start string `csv:"start" json:"start" yaml:"start"`
	End   string `csv:"end" json:"end" yaml:"end"`
}

type categoryRow struct {
	Period    string `csv:"period" json:"period" yaml:"period"`
	Start     string `csv:"start" json:"start" yaml:"start"`
	End       string `csv:"end" json:"end" yaml:"end"`
	Category  string `csv:"category" json:"category" yaml:"category"`
	Direction string `csv:"direction" json:"direction" yaml:"direction"`
	Budget    string `csv:"budget" json:"budget" yaml:"budget"`
	Actual    string `csv:"actual" json:"actual" yaml:"actual"`
}

// Generator renders report rows in the supported formats.
type Generator struct {
	delimiter rune
	logger    logging.Logger
}

// NewGenerator creates a Generator writing CSV with the given delimiter.
func NewGenerator(delimiter rune, logger logging.Logger) *Generator {
	if delimiter == 0 {
		delimiter = ','
	}
	return &Generator{
		delimiter: delimiter,
		logger:    logging.OrNop(logger).WithField("component", "ReportGenerator"),
	}
}

// Projection renders period balances. Amounts are written with two
// decimals; End is the last day inside the period.
func (g *Generator) Projection(balances []models.PeriodBalance, format string) ([]byte, error) {
	rows := make([]balanceRow, 0, len(balances))
	for _, b := range balances {
		basis := "actual"
		if b.Projected {
			basis = "planned"
		}
		rows = append(rows, balanceRow{
			Period:       b.Period.Label,
			Start:        dateutils.ToISODate(b.Period.Start),
			End:          dateutils.ToISODate(b.Period.LastDay()),
			Basis:        basis,
			Opening:      b.Opening.StringFixed(2),
			Inflow:       b.Inflow.StringFixed(2),
			Outflow:      b.Outflow.StringFixed(2),
			CarryForward: b.CarryForward.StringFixed(2),
			Closing:      b.Closing.StringFixed(2),
		})
	}
	return render(g, rows, format)
}

// Occurrences renders expanded budget occurrences. Amounts are signed by
// direction.
func (g *Generator) Occurrences(occurrences []models.Occurrence, format string) ([]byte, error) {
	rows := make([]occurrenceRow, 0, len(occurrences))
	for _, o := range occurrences {
		rows = append(rows, occurrenceRow{
			Date:      dateutils.ToISODate(o.Date),
			EntryID:   o.EntryID,
			Label:     o.Label,
			Category:  o.Category,
			Direction: string(o.Direction),
			Amount:    o.SignedAmount().StringFixed(2),
		})
	}
	return render(g, rows, format)
}

// Periods renders a period grid with inclusive end dates.
func (g *Generator) Periods(periods []models.Period, format string) ([]byte, error) {
	rows := make([]periodRow, 0, len(periods))
	for _, p := range periods {
		rows = append(rows, periodRow{
			Label: p.Label,
			Start: dateutils.ToISODate(p.Start),
			End:   dateutils.ToISODate(p.LastDay()),
		})
	}
	return render(g, rows, format)
}

// Breakdown renders per-category totals, one row per period, direction and
// category.
func (g *Generator) Breakdown(lines []aggregate.CategoryLine, format string) ([]byte, error) {
	rows := make([]categoryRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, categoryRow{
			Period:    l.Period.Label,
			Start:     dateutils.ToISODate(l.Period.Start),
			End:       dateutils.ToISODate(l.Period.LastDay()),
			Category:  l.Category,
			Direction: string(l.Direction),
			Budget:    l.Totals.Budget.StringFixed(2),
			Actual:    l.Totals.Actual.StringFixed(2),
		})
	}
	return render(g, rows, format)
}

// WriteFile writes data to path, creating the parent directory.
func (g *Generator) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	if err := os.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}
	g.logger.Info("Wrote report",
		logging.F(logging.FieldOutputFile, path),
		logging.F("bytes", len(data)))
	return nil
}

func render[T any](g *Generator, rows []T, format string) ([]byte, error) {
	g.logger.Debug("Rendering report",
		logging.F(logging.FieldFormat, format),
		logging.F(logging.FieldCount, len(rows)))
	switch strings.ToLower(format) {
	case FormatCSV:
		return g.renderCSV(rows)
	case FormatJSON:
		out, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal JSON report")
			return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(rows)
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal YAML report")
			return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) renderCSV(rows interface{}) ([]byte, error) {
	var buf bytes.Buffer
	csvWriter := csv.NewWriter(&buf)
	csvWriter.Comma = g.delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal CSV report")
		return nil, fmt.Errorf("failed to marshal CSV report: %w", err)
	}
	return buf.Bytes(), nil
}
