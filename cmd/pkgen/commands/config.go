package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/patternkit/config"
	"github.com/teranos/patternkit/errors"
)

// ConfigCmd groups configuration subcommands
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect pkgen configuration",
	Long: `Display the resolved pkgen configuration and where it comes from.

Examples:
  pkgen config show                  # Resolved configuration as TOML
  pkgen config show --format json    # ... as JSON
  pkgen config where                 # Files consulted`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration",
	RunE:  runConfigShow,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runConfigWhere,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	data, err := cfg.Marshal(configFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	candidates := []string{}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, config.UserDir, config.UserFile))
	}
	if wd, err := os.Getwd(); err == nil {
		if project := config.FindProjectConfig(wd); project != "" {
			candidates = append(candidates, project)
		} else {
			fmt.Fprintf(w, "  - %s (not found in %s or any parent)\n", config.ProjectFile, wd)
		}
	}

	loaded := map[string]bool{}
	for _, f := range config.Files() {
		loaded[f] = true
	}
	for _, path := range candidates {
		if loaded[path] {
			pterm.Success.WithWriter(w).Println(path)
		} else {
			fmt.Fprintf(w, "  - %s (missing)\n", path)
		}
	}
	fmt.Fprintln(w, "  + PKGEN_* environment variables")
	return nil
}
