package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"insightql/config"
	"insightql/httpapi"
	"insightql/insight"
	"insightql/store"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serves the pipeline over HTTP: POST /api/ask for one-shot answers,
GET /api/ask/stream for a websocket that streams the answer, and
GET /api/runs for run history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		addr := serveAddr
		if addr == "" {
			addr = cfg.Server.ListenAddr()
		}

		server := httpapi.NewServer(pipeline, bundle.Runs, logger)
		return server.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", ".", "path to config file or directory")
	serveCmd.Flags().BoolVarP(&verboseMode, "verbose", "v", false, "enable debug logging")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides the server block)")
	rootCmd.AddCommand(serveCmd)
}
