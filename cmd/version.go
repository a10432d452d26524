package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	Version string
	Commit  string
	BuiltAt string
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of smoketest",
		Long:  `All software has versions. This is smoketest's`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "smoketest, version %s (commit %s), built at %s\n",
				styleHighlight.Render(orUnknown(Version)),
				styleHighlight.Render(orUnknown(Commit)),
				styleHighlight.Render(orUnknown(BuiltAt)),
			)
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
