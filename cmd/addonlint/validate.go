package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"addonlint/internal/compat"
	"addonlint/internal/config"
	"addonlint/internal/diag"
	"addonlint/internal/diagfmt"
	"addonlint/internal/driver"
	"addonlint/internal/metrics"
	"addonlint/internal/rules"
	"addonlint/internal/suppress"
	"addonlint/internal/trace"
	"addonlint/internal/version"
)

// errValidationFailed is returned silently once diagnostics are printed.
var errValidationFailed = errors.New("validation failed")

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flags] <file|directory|package.xpi>",
		Short: "Validate an add-on file, directory or package",
		Long: `Validate checks JavaScript and markup for unsafe DOM usage, privileged
API misuse and APIs removed in specific Gecko versions. Settings come from
the nearest addonlint.toml; flags override them.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
	f := cmd.Flags()
	f.String("config", "", "path to addonlint.toml (default: search upward from the input)")
	f.String("format", "pretty", "output format (pretty|json|sarif|short)")
	f.Int("jobs", 0, "max parallel workers (0=auto)")
	f.Int("max-depth", 0, "nested content-script depth limit (0=default)")
	f.StringArray("override", nil, "rule override key=value (repeatable)")
	f.StringArray("target", nil, "target application app=constraint (repeatable)")
	f.StringArray("suppress", nil, "CEL expression dropping matching diagnostics (repeatable)")
	f.StringArray("exclude", nil, "extra doublestar exclude pattern (repeatable)")
	f.Bool("no-warnings", false, "only report errors")
	f.Bool("warnings-as-errors", false, "treat warnings as errors")
	f.Bool("dedup", false, "drop repeated findings at the same location")
	f.Bool("disk-cache", false, "cache per-file results on disk")
	f.String("metrics-file", "", "write Prometheus metrics to this file")
	f.String("ui", "auto", "progress UI (auto|on|off)")
	f.Bool("watch", false, "re-validate when files change")
	f.Bool("fullpath", false, "emit absolute file paths in output")
	return cmd
}

// validateSettings is the merged view of addonlint.toml and flags.
type validateSettings struct {
	format           string
	jobs             int
	maxDepth         int
	maxDiagnostics   int
	include          []string
	exclude          []string
	overrides        map[string]string
	targets          compat.TargetSet
	suppress         []string
	noWarnings       bool
	warningsAsErrors bool
	dedup            bool
	diskCache        bool
	metricsFile      string
	ui               uiMode
	watch            bool
	fullPath         bool
	quiet            bool
	timings          bool
	configPath       string
}

func loadConfig(cmd *cobra.Command, input string) (config.Config, error) {
	explicit, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	if explicit != "" {
		return config.Load(explicit)
	}
	return config.Discover(input)
}

// resolveSettings applies flags over cfg. A flag wins only when it was set
// on the command line; otherwise the file value, then the flag default.
func resolveSettings(cmd *cobra.Command, cfg config.Config) (validateSettings, error) {
	flags := cmd.Flags()
	global := cmd.Root().PersistentFlags()
	var errs []error
	getString := func(name string) string {
		v, err := flags.GetString(name)
		errs = append(errs, err)
		return v
	}
	getInt := func(name string) int {
		v, err := flags.GetInt(name)
		errs = append(errs, err)
		return v
	}
	getBool := func(name string) bool {
		v, err := flags.GetBool(name)
		errs = append(errs, err)
		return v
	}
	getArray := func(name string) []string {
		v, err := flags.GetStringArray(name)
		errs = append(errs, err)
		return v
	}

	s := validateSettings{
		format:           cfg.Report.Format,
		jobs:             cfg.Validate.Jobs,
		maxDepth:         cfg.Validate.MaxDepth,
		include:          cfg.Validate.Include,
		exclude:          slices.Concat(cfg.Validate.Exclude, getArray("exclude")),
		overrides:        map[string]string{},
		suppress:         slices.Concat(cfg.Suppress.Expressions, getArray("suppress")),
		noWarnings:       getBool("no-warnings"),
		warningsAsErrors: getBool("warnings-as-errors"),
		dedup:            getBool("dedup"),
		diskCache:        getBool("disk-cache"),
		metricsFile:      cfg.Report.MetricsFile,
		watch:            getBool("watch"),
		fullPath:         getBool("fullpath"),
		configPath:       cfg.Path,
	}
	if s.format == "" || flags.Changed("format") {
		s.format = getString("format")
	}
	if flags.Changed("jobs") {
		s.jobs = getInt("jobs")
	}
	if flags.Changed("max-depth") {
		s.maxDepth = getInt("max-depth")
	}
	if flags.Changed("metrics-file") {
		s.metricsFile = getString("metrics-file")
	}

	maxDiag, err := global.GetInt("max-diagnostics")
	errs = append(errs, err)
	s.maxDiagnostics = maxDiag
	if !global.Changed("max-diagnostics") && cfg.Defined("validate", "max_diagnostics") {
		s.maxDiagnostics = cfg.Validate.MaxDiagnostics
	}
	s.quiet, err = global.GetBool("quiet")
	errs = append(errs, err)
	s.timings, err = global.GetBool("timings")
	errs = append(errs, err)

	mode, err := readUIMode(getString("ui"))
	errs = append(errs, err)
	s.ui = mode

	for k, v := range cfg.Overrides {
		s.overrides[k] = v
	}
	for _, raw := range getArray("override") {
		k, v := rules.ParseOverride(raw)
		if k == "" {
			errs = append(errs, fmt.Errorf("invalid --override %q (expected key=value)", raw))
			continue
		}
		s.overrides[k] = v
	}

	s.targets, err = cfg.TargetSet()
	errs = append(errs, err)
	for _, raw := range getArray("target") {
		app, constraint, err := compat.ParseTarget(raw)
		if err == nil {
			err = s.targets.Add(app, constraint)
		}
		errs = append(errs, err)
	}

	if !slices.Contains(config.Formats, s.format) {
		errs = append(errs, fmt.Errorf("unknown format %q (expected pretty|json|sarif|short)", s.format))
	}
	if s.jobs < 0 || s.maxDepth < 0 || s.maxDiagnostics < 0 {
		errs = append(errs, errors.New("--jobs, --max-depth and --max-diagnostics must not be negative"))
	}
	return s, errors.Join(errs...)
}

func runValidate(cmd *cobra.Command, args []string) error {
	input := args[0]
	cfg, err := loadConfig(cmd, input)
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}
	if s.watch {
		return watchAndValidate(cmd, input, s)
	}

	failed, err := validateOnce(cmd, input, s)
	if err != nil {
		return err
	}
	if failed {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errValidationFailed
	}
	return nil
}

// validateOnce runs one validation and renders it. It reports whether the
// run should fail the process.
func validateOnce(cmd *cobra.Command, input string, s validateSettings) (bool, error) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	set, err := suppress.Compile(s.suppress, s.overrides)
	if err != nil {
		return false, err
	}
	m := metrics.New()
	var cache *driver.DiskCache
	if s.diskCache {
		if cache, err = driver.OpenDiskCache("addonlint"); err != nil {
			return false, err
		}
	}

	opts := driver.Options{
		Include:        s.include,
		Exclude:        s.exclude,
		Jobs:           s.jobs,
		MaxDiagnostics: s.maxDiagnostics,
		MaxDepth:       s.maxDepth,
		Overrides:      rules.NewOverrides(s.overrides),
		Targets:        s.targets,
		Suppress:       set,
		Metrics:        m,
		Dedup:          s.dedup,
		Cache:          cache,
		Timings:        s.timings,
	}

	var res *driver.Result
	if shouldUseTUI(s.ui, s.format, s.quiet) {
		res, err = runValidateWithUI(ctx, out, "addonlint: "+filepath.Base(input), input, opts)
	} else {
		res, err = driver.ValidatePath(ctx, input, opts)
	}
	if err != nil {
		return false, err
	}

	items := res.Diagnostics()
	if s.noWarnings {
		items = slices.DeleteFunc(items, func(d diag.Diagnostic) bool { return d.Severity < diag.SevError })
	}
	summary := diagfmt.Summarize(items)
	summary.Files = len(res.Files)
	summary.Dropped = res.Dropped()
	summary.Suppressed = set.Suppressed()
	if n := set.EvalErrors(); n > 0 {
		trace.Note(ctx, "suppress", fmt.Sprintf("%d expression evaluation errors", n))
	}

	if err := render(cmd, out, items, summary, s); err != nil {
		return false, fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), res)
	}
	if s.metricsFile != "" {
		if err := m.WriteTextfile(s.metricsFile); err != nil {
			return false, err
		}
	}
	return summary.Errors > 0 || (s.warningsAsErrors && summary.Warnings > 0), nil
}

func render(cmd *cobra.Command, out io.Writer, items []diag.Diagnostic, summary diagfmt.Summary, s validateSettings) error {
	pathMode := diagfmt.PathModeAuto
	if s.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch s.format {
	case "json":
		return diagfmt.JSON(out, items, summary, diagfmt.JSONOpts{PathMode: pathMode, Indent: true})
	case "sarif":
		return diagfmt.Sarif(out, items, rules.Catalog(), diagfmt.SarifRunMeta{
			ToolName:       "addonlint",
			ToolVersion:    version.Version,
			InvocationArgs: os.Args[1:],
			PathMode:       pathMode,
		})
	case "short":
		return diagfmt.Short(out, items, pathMode, "")
	}

	color, err := useColor(cmd)
	if err != nil {
		return err
	}
	if err := diagfmt.Pretty(out, items, diagfmt.PrettyOpts{
		Color:           color,
		PathMode:        pathMode,
		ShowContext:     true,
		ShowDescription: !s.quiet,
	}); err != nil {
		return err
	}
	if s.quiet {
		return nil
	}
	return diagfmt.PrettySummary(out, summary, color)
}
