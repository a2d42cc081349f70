package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"

	"mlssa/internal/config"
	"mlssa/internal/driver"
	diag "mlssa/internal/errors"
)

// errCompilationFailed is returned once the diagnostics have been printed
var errCompilationFailed = errors.New("compilation failed")

type options struct {
	configPath string
	validate   bool
	verbose    int
	optimized  bool
	stats      bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "mlssa",
		Short:         "Build the SSA form of MATLAB functions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addCommonFlags(cmd.PersistentFlags(), opts)

	cmd.AddCommand(newBuildCommand(opts), newCheckCommand(opts))
	return cmd
}

func addCommonFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	flags.BoolVar(&opts.validate, "validate", false, "validate every constructed body")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	flags.BoolVar(&opts.stats, "stats", false, "print construction metrics")
}

func newBuildCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build FILE...",
		Short: "Print the SSA form of every function",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, true)
		},
	}
	cmd.Flags().BoolVar(&opts.optimized, "optimized", false, "print bodies after the pass pipeline")
	return cmd
}

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Report diagnostics without printing SSA",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, false)
		},
	}
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("validate") {
		cfg.Validate = opts.validate
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbosity = opts.verbose
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *options, paths []string, printSSA bool) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	commonlog.Configure(cfg.Verbosity, nil)

	registry := prometheus.NewRegistry()
	metrics, err := driver.NewMetrics(registry)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	driverOpts := []driver.Option{driver.WithMetrics(metrics)}
	if !printSSA {
		// build prints every body already
		driverOpts = append(driverOpts, driver.WithDumpWriter(out))
	}
	d := driver.New(cfg, driverOpts...)

	startTime := time.Now()
	failed := false
	for _, path := range paths {
		c, err := d.CompileFile(context.Background(), path)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.ErrOrStderr(), c.Diagnostics.Format(c.Source))
		for _, fn := range c.Functions {
			if fn.Err != nil {
				if _, reported := diag.AsDiagnostic(fn.Err); !reported {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", color.RedString("error"), fn.Err)
				}
			}
			if printSSA {
				printBody(out, fn, opts.optimized)
			}
		}
		failed = failed || c.HasErrors()
	}

	if opts.stats {
		if err := printStats(cmd.ErrOrStderr(), registry); err != nil {
			return err
		}
	}

	duration := formatDuration(time.Since(startTime))
	if failed {
		fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("Compilation failed after %s", duration))
		return errCompilationFailed
	}
	fmt.Fprintln(cmd.ErrOrStderr(), color.GreenString("Successfully processed %d file(s) in %s", len(paths), duration))
	return nil
}

func printBody(w io.Writer, fn *driver.FunctionResult, optimized bool) {
	body := fn.Body
	if optimized {
		body = fn.Optimized
	}
	if body == nil {
		return
	}
	fmt.Fprintln(w, body)
}

// printStats writes the counters and histogram totals gathered from registry
func printStats(w io.Writer, registry *prometheus.Registry) error {
	families, err := registry.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics")
	}

	var lines []string
	for _, family := range families {
		for _, m := range family.GetMetric() {
			label := ""
			for _, pair := range m.GetLabel() {
				label += fmt.Sprintf("{%s=%q}", pair.GetName(), pair.GetValue())
			}

			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s%s %g", family.GetName(), label, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s_count %d", family.GetName(), h.GetSampleCount()))
				lines = append(lines, fmt.Sprintf("%s_sum %g", family.GetName(), h.GetSampleSum()))
			}
		}
	}

	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}
