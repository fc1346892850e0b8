package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/patternkit/output"
)

var checkFlags passFlags

// CheckCmd compares a fresh pass with the files on disk
var CheckCmd = &cobra.Command{
	Use:   "check <manifest>...",
	Short: "Check that generated files are up to date",
	Long: `Run a generation pass without writing anything and compare the result
with the output directory. Exits non-zero when a document is missing or
differs, or when a generated file is no longer produced.

Only files starting with the auto-generated marker are considered stale;
hand-written files in the directory are ignored.

Examples:
  pkgen check shapes.yaml -o Generated    # Use in CI after generate`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkFlags.bind(CheckCmd, false)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := checkFlags.loadConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Output.Format = string(output.Files)
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
	if err := s.verdict(res); err != nil {
		return err
	}

	cmp, err := output.CompareDir(cfg.Output.Dir, cfg.Output.Extension, res.Documents)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, group := range []struct {
		label string
		names []string
	}{
		{"missing", cmp.Missing},
		{"changed", cmp.Changed},
		{"stale", cmp.Stale},
	} {
		for _, name := range group.names {
			fmt.Fprintf(w, "%-8s %s\n", group.label, name)
		}
	}
	if cmp.UpToDate() {
		pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("%s is up to date (%d documents)", cfg.Output.Dir, len(res.Documents))
	}
	return cmp.Err()
}
