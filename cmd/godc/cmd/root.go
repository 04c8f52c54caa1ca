package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "godc [files...]",
	Short: "An arbitrary-precision reverse-Polish calculator",
	Long: `godc is a Go implementation of dc, the reverse-Polish desk
calculator: a stack machine operating on arbitrary-precision rationals,
with named register storage, nested macro execution, and conditional
dispatch.

Invoking godc directly with files, -e, or no arguments behaves exactly
like "godc run"; the explicit subcommand exists for discoverability.`,
	Version: Version,
	RunE:    runPrograms,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}
