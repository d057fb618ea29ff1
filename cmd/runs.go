package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"insightql/config"
	"insightql/store"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage recorded pipeline runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle()
		if err != nil {
			return err
		}
		defer bundle.Close()

		runs, err := bundle.Runs.ListRuns(runsLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, run := range runs {
			fmt.Printf("%s  %-9s  %s  %s\n",
				run.ID, run.Status, run.StartedAt.Format("2006-01-02 15:04:05"), run.Question)
		}
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one run with its task results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := openBundle()
		if err != nil {
			return err
		}
		defer bundle.Close()

		run, err := bundle.Runs.GetRun(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Run:      %s\n", run.ID)
		fmt.Printf("Status:   %s\n", run.Status)
		fmt.Printf("Question: %s\n", run.Question)
		if run.Error != nil {
			fmt.Printf("Error:    %s\n", *run.Error)
		}

		tasks, err := bundle.Runs.GetRunTasks(run.ID)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			fmt.Printf("\n[%d] %s\n", task.Position, task.TaskName)
			fmt.Printf("    %s\n", task.SQLQuery)
			if task.Error != nil {
				fmt.Printf("    error: %s\n", *task.Error)
			}
		}

		if run.Answer != "" {
			fmt.Printf("\n%s\n", run.Answer)
		}
		return nil
	},
}

func openBundle() (*store.Bundle, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Storage == nil || cfg.Storage.Backend == "memory" {
		return nil, fmt.Errorf("run history requires a sqlite storage block")
	}
	return store.NewBundle(cfg.Storage)
}

func init() {
	runsCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "path to config file or directory")
	runsListCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to list")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
