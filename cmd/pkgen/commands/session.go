package commands

import (
	"context"
	"io"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teranos/patternkit/cache"
	"github.com/teranos/patternkit/config"
	"github.com/teranos/patternkit/diag"
	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/generator"
	"github.com/teranos/patternkit/logger"
	"github.com/teranos/patternkit/manifest"
	"github.com/teranos/patternkit/metrics"
	"github.com/teranos/patternkit/output"
)

// passFlags are the flags shared by generate, check and watch. A flag
// overrides the configuration only when it was set explicitly.
type passFlags struct {
	dir         string
	format      string
	ext         string
	cachePath   string
	metricsFile string
	prune       bool
	verbose     bool
}

func (f *passFlags) bind(cmd *cobra.Command, formats bool) {
	cmd.Flags().StringVarP(&f.dir, "output", "o", "", "Output directory (default from output.dir)")
	cmd.Flags().StringVar(&f.ext, "ext", "", "Generated file extension (default from output.extension)")
	cmd.Flags().StringVar(&f.cachePath, "cache", "", "Enable the generation cache at this SQLite path")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after each pass")
	if formats {
		cmd.Flags().StringVar(&f.format, "format", "", "Output format: files, txtar, json")
		cmd.Flags().BoolVar(&f.prune, "prune", false, "Remove generated files no longer produced")
		cmd.Flags().BoolVar(&f.verbose, "candidates", false, "Include per-candidate results in json output")
	}
}

func (f *passFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.Output.Dir = f.dir
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("ext") {
		cfg.Output.Extension = f.ext
	}
	if changed("cache") {
		cfg.Cache.Enabled = f.cachePath != ""
		cfg.Cache.Path = f.cachePath
	}
	if changed("metrics-file") {
		cfg.Metrics.File = f.metricsFile
	}
	if changed("prune") {
		cfg.Output.Prune = f.prune
	}
	if cfg.Output.Extension == "" {
		cfg.Output.Extension = output.DefaultExtension
	}
	return cfg.Validate()
}

// loadConfig resolves configuration and applies the command's flags
func (f *passFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loaded, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	cfg := *loaded
	if err := f.apply(cmd, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// session owns the driver and its optional cache and metrics for the
// lifetime of one command.
type session struct {
	cfg     *config.Config
	driver  *generator.Driver
	cache   *cache.SQLite
	metrics *metrics.Collector
	log     *zap.SugaredLogger
	stderr  io.Writer
}

func newSession(cfg *config.Config, stderr io.Writer) (*session, error) {
	s := &session{cfg: cfg, log: logger.ComponentLogger("pkgen"), stderr: stderr}
	opts := []generator.Option{generator.WithLogger(logger.ComponentLogger("driver"))}

	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.Cache.Path, logger.ComponentLogger("cache"))
		if err != nil {
			return nil, err
		}
		s.cache = c
		opts = append(opts, generator.WithCache(c))
	}
	if cfg.Metrics.File != "" {
		s.metrics = metrics.New()
		opts = append(opts, generator.WithObserver(s.metrics))
	}
	s.driver = generator.New(generator.Default(), opts...)
	return s, nil
}

// pass loads the manifests and runs the driver. prev enables reuse of
// candidates untouched since the previous pass.
func (s *session) pass(ctx context.Context, paths []string, prev *generator.Result) (*generator.Result, error) {
	raw, err := manifest.Load(ctx, logger.ComponentLogger("manifest"), paths...)
	if err != nil {
		return nil, err
	}
	res, err := s.driver.Run(ctx, raw, generator.Options{Previous: prev})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		if err := s.metrics.WriteTextfile(s.cfg.Metrics.File); err != nil {
			s.log.Warnw("Failed to write metrics", logger.FieldPath, s.cfg.Metrics.File, logger.FieldError, err)
		}
	}
	return res, nil
}

func (s *session) close() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Close(); err != nil {
		s.log.Warnw("Failed to close cache", logger.FieldError, err)
	}
}

// write delivers the documents of res in the configured format.
// Directory output is summarised on stderr; txtar and json go to stdout.
func (s *session) write(stdout io.Writer, res *generator.Result, verbose bool) error {
	out := s.cfg.Output
	format, err := output.ParseFormat(out.Format)
	if err != nil {
		return err
	}
	switch format {
	case output.Txtar:
		_, err := stdout.Write(output.Archive(res.Unit, res.Documents))
		return errors.Wrap(err, "write archive")
	case output.JSON:
		b, err := output.Marshal(res, verbose)
		if err != nil {
			return err
		}
		_, err = stdout.Write(b)
		return errors.Wrap(err, "write report")
	}

	start := time.Now()
	wr, err := output.WriteDir(out.Dir, out.Extension, res.Documents, out.Prune)
	if err != nil {
		return err
	}
	s.log.Debugw("Wrote documents",
		logger.FieldPath, out.Dir,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	pterm.Success.WithWriter(s.stderr).Printfln("Generated %d documents in %s (%d written, %d unchanged, %d removed)",
		len(res.Documents), out.Dir, len(wr.Written), len(wr.Unchanged), len(wr.Removed))
	return nil
}

// verdict turns the diagnostics of a pass into the command's error
func (s *session) verdict(res *generator.Result) error {
	errs, warnings := diag.Count(res.Diagnostics)
	if errs > 0 {
		return errors.WithHint(
			errors.Wrapf(errors.ErrDiagnostics, "%d errors, %d warnings", errs, warnings),
			"run 'pkgen explain <ID>' for details on a diagnostic")
	}
	if warnings > 0 && s.cfg.Generate.FailOnWarning {
		return errors.WithHint(
			errors.Wrapf(errors.ErrDiagnostics, "%d warnings", warnings),
			"generate.fail_on_warning is set")
	}
	return nil
}

// printDiagnostics renders diagnostics as a table on w
func printDiagnostics(w io.Writer, ds []diag.Diagnostic) error {
	if len(ds) == 0 {
		return nil
	}
	data := pterm.TableData{{"Location", "Severity", "ID", "Message"}}
	for _, d := range ds {
		data = append(data, []string{d.Location.String(), d.Severity.String(), d.ID, d.Message})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
}
