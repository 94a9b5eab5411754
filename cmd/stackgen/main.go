// Command stackgen scaffolds Senza definition files for well-known
// application patterns, prompting for the values it cannot look up.
//
// Usage:
//
//	stackgen init postgres my-cluster.yaml     Scaffold an HA PostgreSQL cluster
//	stackgen init webapp my-app.yaml           Scaffold a multi-region web application
//	stackgen patterns                          List available patterns
//	stackgen version                           Show version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "stackgen",
		Short:         "Scaffold Senza definition files from application patterns",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newPatternsCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("stackgen %s\n", version)
		},
	}
}
