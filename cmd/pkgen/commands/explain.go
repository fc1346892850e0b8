package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/generator"
)

// ExplainCmd describes diagnostics
var ExplainCmd = &cobra.Command{
	Use:   "explain [ID|prefix]",
	Short: "Describe diagnostic IDs",
	Long: `List every diagnostic the generators can report, or describe one.

An argument that is a full ID (PKST002) shows that descriptor; a prefix
(PKST) lists the descriptors of one generator.

Examples:
  pkgen explain           # All diagnostics
  pkgen explain PKPRX     # Proxy diagnostics
  pkgen explain PKGEN008  # One diagnostic`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

func runExplain(cmd *cobra.Command, args []string) error {
	catalog, err := generator.Default().Catalog()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()

	if len(args) == 1 {
		query := strings.ToUpper(args[0])
		if d, ok := catalog.Lookup(query); ok {
			fmt.Fprintf(w, "%s (%s): %s\n", d.ID, d.Severity, d.Title)
			fmt.Fprintf(w, "  message: %s\n", d.Format)
			return nil
		}
		var matched []diag.Descriptor
		for _, d := range catalog.All() {
			if diag.Prefix(d.ID) == query {
				matched = append(matched, d)
			}
		}
		if len(matched) == 0 {
			return errors.WithHint(
				errors.Wrapf(errors.ErrNotFound, "diagnostic %s", args[0]),
				"run 'pkgen explain' to list every ID")
		}
		return descriptorTable(cmd, matched)
	}
	return descriptorTable(cmd, catalog.All())
}

func descriptorTable(cmd *cobra.Command, ds []diag.Descriptor) error {
	data := pterm.TableData{{"ID", "Severity", "Title"}}
	for _, d := range ds {
		data = append(data, []string{d.ID, d.Severity.String(), d.Title})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
}
