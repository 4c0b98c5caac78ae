package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpane/internal/logging"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print version information",
		GroupID: groupSetup,
		Long:    `Print the version, commit hash, and build date of mdpane.`,
		Args:    exactArgs(0),
		Run: func(cmd *cobra.Command, _ []string) {
			logging.NewCommandOutput(cmd.OutOrStdout()).Info("mdpane",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
			)
		},
	}
}
