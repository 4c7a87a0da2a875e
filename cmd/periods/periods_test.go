package periods

import (
	"bytes"
	"testing"
	"time"

	"fjacquet/cash-forecast/cmd/common"
	"fjacquet/cash-forecast/cmd/root"
	"fjacquet/cash-forecast/internal/config"
	"fjacquet/cash-forecast/internal/container"
	"fjacquet/cash-forecast/internal/dateutils"
	"fjacquet/cash-forecast/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, cfg *config.Config) *logging.MockLogger {
	t.Helper()
	logger := logging.NewMockLogger()
	clock := dateutils.Clock{Now: func() time.Time { return time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC) }}
	c, err := container.NewContainer(cfg, container.WithLogger(logger), container.WithClock(clock))
	require.NoError(t, err)

	originalContainer := root.AppContainer
	originalFlags := root.SharedFlags
	root.AppContainer = c
	root.SharedFlags = root.CommonFlags{}
	periodType, anchor, shift, count = "", "", 0, 1
	t.Cleanup(func() {
		root.AppContainer = originalContainer
		root.SharedFlags = originalFlags
		periodType, anchor, shift, count = "", "", 0, 1
	})
	return logger
}

func run(t *testing.T) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	err := periodsFunc(cmd, nil)
	return out.String(), err
}

func TestPeriodsCommand_Metadata(t *testing.T) {
	assert.Equal(t, "periods", Cmd.Use)
	assert.NotNil(t, Cmd.RunE)
	for _, name := range []string{"type", "anchor", "shift", "count"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
}

func TestPeriodsCommand(t *testing.T) {
	tests := []struct {
		name       string
		periodType string
		anchor     string
		shift      int
		count      int
		want       string
	}{
		{
			name: "configured type and current month",
			want: "label,start,end\nMay 2024,2024-05-01,2024-05-31\n",
		},
		{
			name:       "quarters from anchor",
			periodType: "quarter",
			anchor:     "2024-05",
			count:      2,
			want:       "label,start,end\nQ2 2024,2024-04-01,2024-06-30\nQ3 2024,2024-07-01,2024-09-30\n",
		},
		{
			name:       "previous semester rolls over the year",
			periodType: "semester",
			anchor:     "2024-01",
			shift:      -1,
			want:       "label,start,end\nS2 2023,2023-07-01,2023-12-31\n",
		},
		{
			name:       "next bimester rolls over the year",
			periodType: "bimonthly",
			anchor:     "2024-12",
			shift:      1,
			want:       "label,start,end\nB1 2025,2025-01-01,2025-02-28\n",
		},
		{
			name:       "weeks from anchor month",
			periodType: "week",
			anchor:     "2024-01",
			shift:      1,
			count:      2,
			want:       "label,start,end\nW02 2024,2024-01-08,2024-01-14\nW03 2024,2024-01-15,2024-01-21\n",
		},
		{
			name:       "current week",
			periodType: "WEEK",
			want:       "label,start,end\nW19 2024,2024-05-06,2024-05-12\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t, config.Default())
			periodType, anchor, shift = tt.periodType, tt.anchor, tt.shift
			if tt.count != 0 {
				count = tt.count
			}

			out, err := run(t)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestPeriodsCommand_JSON(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Format = "json"
	cfg.Projection.PeriodType = "year"
	logger := setup(t, cfg)

	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, `"label": "2024"`)
	assert.Contains(t, out, `"end": "2024-12-31"`)

	pt, ok := logger.FieldValue("Computed period grid", logging.FieldPeriodType)
	require.True(t, ok)
	assert.Equal(t, "year", pt)
}

func TestPeriodsCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func()
		wantErr string
	}{
		{"bad type", func() { periodType = "fortnight" }, "invalid --type"},
		{"bad anchor", func() { anchor = "May 2024" }, "invalid --anchor"},
		{"zero count", func() { count = 0 }, "--count must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t, config.Default())
			tt.prepare()

			_, err := run(t)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPeriodsCommand_NoContainer(t *testing.T) {
	original := root.AppContainer
	root.AppContainer = nil
	defer func() { root.AppContainer = original }()

	_, err := run(t)
	assert.ErrorIs(t, err, common.ErrNoContainer)
}
