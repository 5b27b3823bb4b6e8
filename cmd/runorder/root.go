package main

import (
	"io"

	"github.com/spf13/cobra"
)

// newRootCmd wires every subcommand. Output streams and the environment are
// injected so commands can be exercised in-process.
func newRootCmd(stdout, stderr io.Writer, getenv func(string) string) *cobra.Command {
	root := &cobra.Command{
		Use:           "runorder",
		Short:         "Author, migrate and serve matchday running orders",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newServeCmd(getenv),
		newMigrateCmd(),
		newOrderCmd(),
		newValidateCmd(),
		newTimecodeCmd(),
	)
	return root
}
