package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/goliatone/stackgen/pkg/pattern/postgres"
	"github.com/goliatone/stackgen/pkg/pattern/webapp"
)

// patternNames lists the patterns init can scaffold, without wiring the
// prompt and cloud collaborators a live pattern needs.
func patternNames() []string {
	names := []string{postgres.PatternName, webapp.PatternName}
	sort.Strings(names)
	return names
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List available application patterns",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range patternNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
