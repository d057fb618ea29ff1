package cmd

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var configPath string
var verboseMode bool

var rootCmd = &cobra.Command{
	Use:   "insightql",
	Short: "Ask natural-language questions about a transactions dataset",
	Long: `insightql answers natural-language analytics questions about a tabular
transactions dataset. A planner model breaks the question into SQL tasks,
each task runs against the dataset in an embedded engine, and a narrator
model turns the combined results into a leadership-ready answer.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() hclog.Logger {
	level := hclog.Warn
	if verboseMode {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:  "insightql",
		Level: level,
	})
}
