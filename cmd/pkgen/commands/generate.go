package commands

import (
	"github.com/spf13/cobra"
)

var generateFlags passFlags

// GenerateCmd runs one generation pass
var GenerateCmd = &cobra.Command{
	Use:   "generate <manifest>...",
	Short: "Generate pattern implementations from manifests",
	Long: `Run every generator over the declarations in the given manifests.

Documents are written to the output directory, or to stdout as a txtar
archive or JSON report. Diagnostics are printed to stderr; the command
fails when any of them is an error (or a warning, with
generate.fail_on_warning).

Examples:
  pkgen generate shapes.yaml                       # Write to ./Generated
  pkgen generate a.yaml b.toml -o src/Generated    # Merge two manifests
  pkgen generate shapes.yaml --format txtar        # Print an archive
  pkgen generate shapes.yaml --cache .pkgen/cache.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateFlags.bind(GenerateCmd, true)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := generateFlags.loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.pass(cmd.Context(), args, nil)
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics); err != nil {
		return err
	}
	if err := s.write(cmd.OutOrStdout(), res, generateFlags.verbose); err != nil {
		return err
	}
	return s.verdict(res)
}
