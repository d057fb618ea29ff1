package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"insightql/config"
)

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "Manage configuration variables",
	Long:  `Manage variables stored in ~/.insightql/vars.txt that config files reference as vars.{name}.`,
}

var varsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all variables",
	RunE: func(cmd *cobra.Command, args []string) error {
		vars, err := config.LoadVarsFromFile()
		if err != nil {
			return err
		}

		if len(vars) == 0 {
			fmt.Println("No variables set.")
			return nil
		}

		keys := make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			value := vars[k]
			if isSecretName(k) {
				value = maskValue(value)
			}
			fmt.Printf("%s=%s\n", k, value)
		}
		return nil
	},
}

var varsGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Get a variable's value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.GetVar(args[0])
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var varsSetCmd = &cobra.Command{
	Use:   "set [name] [value]",
	Short: "Set a variable",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetVar(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Set %s\n", args[0])
		return nil
	},
}

var varsDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a variable",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetVar(args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

// isSecretName guesses whether a variable holds a credential based on
// common suffix conventions
func isSecretName(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range []string{"_key", "_token", "_secret", "_password", "_api_key"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func maskValue(value string) string {
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

func init() {
	varsCmd.AddCommand(varsListCmd)
	varsCmd.AddCommand(varsGetCmd)
	varsCmd.AddCommand(varsSetCmd)
	varsCmd.AddCommand(varsDeleteCmd)
	rootCmd.AddCommand(varsCmd)
}
