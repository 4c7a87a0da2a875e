package root_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/cash-forecast/cmd/root"
	"fjacquet/cash-forecast/internal/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	root.Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "cash-forecast", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "project cash positions")
	assert.Contains(t, root.Cmd.Long, "overdue receivables and payables")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
	}{
		{"input", "i"},
		{"output", "o"},
		{"format", "f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestApplyFlags(t *testing.T) {
	original := root.SharedFlags
	defer func() { root.SharedFlags = original }()

	dir := t.TempDir()
	cfg := config.Default()
	root.SharedFlags = root.CommonFlags{Input: dir, Format: "JSON"}
	require.NoError(t, root.ApplyFlags(cfg))
	assert.Equal(t, dir, cfg.Data.Directory)
	assert.Equal(t, "json", cfg.Output.Format)

	cfg = config.Default()
	root.SharedFlags = root.CommonFlags{}
	require.NoError(t, root.ApplyFlags(cfg))
	assert.Equal(t, "", cfg.Data.Directory)
	assert.Equal(t, "csv", cfg.Output.Format)

	root.SharedFlags = root.CommonFlags{Format: "xml"}
	err := root.ApplyFlags(config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")

	root.SharedFlags = root.CommonFlags{Input: filepath.Join(dir, "absent")}
	err = root.ApplyFlags(config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data directory does not exist")
}

func TestRootCommand_PersistentPreRunE(t *testing.T) {
	originalConfig := root.AppConfig
	originalContainer := root.AppContainer
	originalFlags := root.SharedFlags
	defer func() {
		root.AppConfig = originalConfig
		root.AppContainer = originalContainer
		root.SharedFlags = originalFlags
	}()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	root.SharedFlags = root.CommonFlags{Input: dir}

	var stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&stderr)

	require.NoError(t, root.Cmd.PersistentPreRunE(cmd, nil))
	require.NotNil(t, root.GetConfig())
	require.NotNil(t, root.GetContainer())
	assert.Equal(t, dir, root.GetConfig().Data.Directory)
	assert.NotNil(t, root.GetContainer().GetProjector())

	assert.NotPanics(t, func() {
		root.Cmd.PersistentPostRun(cmd, nil)
	})
}

func TestRootCommand_PersistentPreRunE_BadFormat(t *testing.T) {
	originalFlags := root.SharedFlags
	defer func() { root.SharedFlags = originalFlags }()

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	root.SharedFlags = root.CommonFlags{Format: "pdf"}
	err = root.Cmd.PersistentPreRunE(&cobra.Command{}, nil)
	assert.Error(t, err)
}

func TestGetLogrusAdapter(t *testing.T) {
	assert.NotNil(t, root.GetLogrusAdapter())
}

func TestCommonFlags_Structure(t *testing.T) {
	flags := root.CommonFlags{
		Input:  "data",
		Output: "projection.csv",
		Format: "csv",
	}

	assert.Equal(t, "data", flags.Input)
	assert.Equal(t, "projection.csv", flags.Output)
	assert.Equal(t, "csv", flags.Format)
}
