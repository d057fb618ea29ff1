package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"insightql/config"
	"insightql/insight"
	"insightql/render"
	"insightql/store"
)

var showTasks bool
var streamAnswer bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question about the configured dataset",
	Long: `Plans SQL tasks for the question, runs them against the dataset and
prints a narrated answer. Use --tasks to also print each task's rows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := args[0]
		logger := newLogger()

		cfg, err := config.LoadAndValidate(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		bundle, err := store.NewBundle(cfg.Storage)
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		defer bundle.Close()

		pipeline, err := insight.BuildPipeline(cmd.Context(), cfg, bundle.Runs, logger)
		if err != nil {
			return err
		}

		var resp *insight.Response
		if streamAnswer {
			resp, err = pipeline.RunStream(cmd.Context(), question, func(chunk string) {
				fmt.Print(chunk)
			})
			fmt.Println()
		} else {
			resp, err = pipeline.Run(cmd.Context(), question)
		}
		if err != nil {
			return err
		}

		renderer := render.NewRenderer()

		if showTasks {
			for _, task := range resp.ResponseJSON.Tasks {
				fmt.Fprintln(os.Stdout, renderer.TaskTable(task))
			}
		}

		if !streamAnswer {
			fmt.Fprintln(os.Stdout, renderer.Answer(resp.Answer))
		}

		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&configPath, "config", "c", ".", "path to config file or directory")
	askCmd.Flags().BoolVarP(&verboseMode, "verbose", "v", false, "enable debug logging")
	askCmd.Flags().BoolVar(&showTasks, "tasks", false, "print each task's result rows")
	askCmd.Flags().BoolVar(&streamAnswer, "stream", false, "stream the answer as it is generated")
	rootCmd.AddCommand(askCmd)
}
