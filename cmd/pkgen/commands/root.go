package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/logger"
)

// Exit codes
const (
	exitFailure     = 1
	exitDiagnostics = 2
	exitOutOfDate   = 3
)

var jsonLogs bool

// RootCmd is the pkgen command
var RootCmd = &cobra.Command{
	Use:   "pkgen",
	Short: "PatternKit source generators",
	Long: `pkgen - generate C# design-pattern implementations from declaration manifests.

Manifests (YAML, TOML or JSON) describe the declarations of a compilation
unit and the pattern markers applied to them. Each marked declaration is
expanded into one or more generated source documents.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (PKGEN_* prefix)
3. Project config (pkgen.toml, searched upward from the working directory)
4. User config (~/.pkgen/config.toml)
5. Default values

Examples:
  pkgen generate shapes.yaml -o Generated     # Write documents to a directory
  pkgen check shapes.yaml -o Generated        # Fail if Generated is out of date
  pkgen watch shapes.yaml                     # Regenerate on every save
  pkgen explain PKST002                       # Describe a diagnostic`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	RootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON on stderr")

	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(ExplainCmd)
	RootCmd.AddCommand(SimulateCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(VersionCmd)
}

// ExitCode maps an error returned by a command to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.IsDiagnostics(err):
		return exitDiagnostics
	case errors.IsOutOfDate(err):
		return exitOutOfDate
	}
	return exitFailure
}
