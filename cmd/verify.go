package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"insightql/config"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the configuration",
	Long:  `Loads and validates the config, then prints a summary of what it resolved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate(configPath)
		if err != nil {
			return fmt.Errorf("config is invalid: %w", err)
		}

		fmt.Println("Config is valid.")
		fmt.Println()

		if len(cfg.Variables) > 0 {
			fmt.Println("Variables:")
			for _, v := range cfg.Variables {
				resolved := ""
				if val, ok := cfg.ResolvedVars[v.Name]; ok && val.AsString() == "" {
					resolved = "  (warning: unresolved, no value set)"
				}
				fmt.Printf("  %s%s\n", v.Name, resolved)
			}
			fmt.Println()
		}

		fmt.Println("Models:")
		for _, m := range cfg.Models {
			fmt.Printf("  %s (%s / %s)\n", m.Name, m.Provider, m.ModelID)
		}
		fmt.Println()

		p := cfg.Pipeline
		fmt.Println("Pipeline:")
		fmt.Printf("  dataset: %s\n", p.Dataset)
		fmt.Printf("  table:   %s\n", p.Table)
		fmt.Printf("  model:   %s\n", p.Model)
		fmt.Printf("  tasks:   up to %d per question\n", p.MaxTasks)

		if cfg.Storage != nil {
			fmt.Println()
			fmt.Printf("Storage: %s", cfg.Storage.Backend)
			if cfg.Storage.Path != "" {
				fmt.Printf(" (%s)", cfg.Storage.Path)
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&configPath, "config", "c", ".", "path to config file or directory")
	rootCmd.AddCommand(verifyCmd)
}
