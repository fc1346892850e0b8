package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/patternkit/cmd/pkgen/commands"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/logger"
)

func main() {
	defer logger.Sync()
	if err := commands.RootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.WithWriter(os.Stderr).Println(hint)
		}
		os.Exit(commands.ExitCode(err))
	}
}
