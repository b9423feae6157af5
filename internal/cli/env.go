package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show environment variables the backend needs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()

		vars := requiredEnvVars(cfg)
		if len(vars) == 0 {
			fmt.Fprintf(out, "Backend %q needs no environment variables.\n", cfg.Backend.Provider)
			return nil
		}

		for _, name := range vars {
			state := "missing"
			if os.Getenv(name) != "" {
				state = "set"
			}
			fmt.Fprintf(out, "%-36s %s\n", name, state)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
