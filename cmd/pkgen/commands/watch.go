package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/patternkit/generator"
	"github.com/teranos/patternkit/watch"
)

var watchFlags passFlags

// WatchCmd regenerates whenever a manifest changes
var WatchCmd = &cobra.Command{
	Use:   "watch <manifest>...",
	Short: "Regenerate on every manifest change",
	Long: `Run a generation pass, then watch the manifests and run another pass
after each burst of changes (debounced by watch.debounce_ms).

Candidates whose declaration and dependencies did not change are reused
from the previous pass. Errors are reported and watching continues.
Stop with Ctrl-C.

Examples:
  pkgen watch shapes.yaml -o Generated
  PKGEN_WATCH_DEBOUNCE_MS=50 pkgen watch a.yaml b.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchFlags.bind(WatchCmd, false)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := watchFlags.loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var prev *generator.Result
	once := func(ctx context.Context) error {
		res, err := s.pass(ctx, args, prev)
		if err != nil {
			return err
		}
		if err := printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics); err != nil {
			return err
		}
		if err := s.write(cmd.OutOrStdout(), res, false); err != nil {
			return err
		}
		prev = res
		return s.verdict(res)
	}

	if err := once(ctx); err != nil {
		pterm.Warning.WithWriter(cmd.ErrOrStderr()).Println(err.Error())
	}

	w, err := watch.New(args, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, s.log)
	if err != nil {
		return err
	}
	defer w.Close()

	pterm.Info.WithWriter(cmd.ErrOrStderr()).Printfln("Watching %d manifests", len(args))
	return w.Run(ctx, func(ctx context.Context) error {
		err := once(ctx)
		if err != nil {
			pterm.Warning.WithWriter(cmd.ErrOrStderr()).Println(err.Error())
		}
		return err
	})
}
