package main

import (
	"fmt"
	"os"

	"fjacquet/cash-forecast/cmd/occurrences"
	"fjacquet/cash-forecast/cmd/periods"
	"fjacquet/cash-forecast/cmd/project"
	"fjacquet/cash-forecast/cmd/root"
	"fjacquet/cash-forecast/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	config.LoadEnv()

	// 2. Configure the global log level before any logger is created
	logLevel := config.LogLevelFromEnv()
	logrus.SetLevel(logLevel)
	root.Log.SetLevel(logLevel)

	// 3. Initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(occurrences.Cmd)
	root.Cmd.AddCommand(project.Cmd)
	root.Cmd.AddCommand(periods.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
