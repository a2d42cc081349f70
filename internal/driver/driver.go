// Package driver compiles whole source files: it parses them, builds every
// function body in parallel and runs the post-construction pipeline.
package driver

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"mlssa/internal/ast"
	"mlssa/internal/builder"
	"mlssa/internal/config"
	"mlssa/internal/directive"
	diag "mlssa/internal/errors"
	"mlssa/internal/parser"
	"mlssa/internal/ssa"
)

var log = commonlog.GetLogger("mlssa.driver")

// FunctionResult is the outcome of building one function or script body
type FunctionResult struct {
	Name        string
	Body        *ssa.FunctionBody // As produced by construction; nil when aborted
	Optimized   *ssa.FunctionBody // Copy of Body after the pipeline ran
	Diagnostics *diag.Collector
	Err         error // Construction abort, validation or pipeline failure
}

// Compilation holds everything produced for one source file
type Compilation struct {
	Path        string
	Source      string
	File        *ast.File
	Functions   []*FunctionResult
	Diagnostics *diag.Collector // Parse diagnostics followed by each function's, in source order
}

// HasErrors reports whether the file failed to parse or any body failed
func (c *Compilation) HasErrors() bool {
	if c.Diagnostics.HasErrors() {
		return true
	}
	for _, fn := range c.Functions {
		if fn.Err != nil {
			return true
		}
	}
	return false
}

type Driver struct {
	cfg      *config.Config
	pipeline *ssa.Pipeline
	metrics  *Metrics
	dump     io.Writer
}

type Option func(*Driver)

// WithMetrics records construction metrics
func WithMetrics(m *Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// WithDumpWriter sets where bodies marked with dump_ssa are printed
func WithDumpWriter(w io.Writer) Option {
	return func(d *Driver) { d.dump = w }
}

// WithPipeline replaces the default pass pipeline
func WithPipeline(p *ssa.Pipeline) Option {
	return func(d *Driver) { d.pipeline = p }
}

func New(cfg *config.Config, opts ...Option) *Driver {
	if cfg == nil {
		cfg = config.Default()
	}

	d := &Driver{cfg: cfg, pipeline: ssa.NewPipeline()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) CompileFile(ctx context.Context, path string) (*Compilation, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return d.CompileSource(ctx, path, string(source))
}

// CompileSource parses source and builds each of its bodies. Diagnostics are
// part of the result; the error is set only when the work itself failed.
func (d *Driver) CompileSource(ctx context.Context, path, source string) (*Compilation, error) {
	c := &Compilation{
		Path:        path,
		Source:      source,
		Diagnostics: diag.NewCollector(path),
	}

	file, err := parser.ParseSource(path, source)
	if err != nil {
		var pe parser.ParseError
		if !errors.As(err, &pe) {
			return nil, errors.Wrapf(err, "parsing %s", path)
		}
		c.Diagnostics.EmitError(pe.Position, diag.ParseError, pe.Message)
		return c, nil
	}
	c.File = file

	type job struct {
		name string
		run  func(diag.Reporter, builder.DirectiveParser) (*ssa.FunctionBody, error)
	}
	var jobs []job
	if len(file.Script) > 0 {
		jobs = append(jobs, job{
			name: "",
			run: func(r diag.Reporter, dp builder.DirectiveParser) (*ssa.FunctionBody, error) {
				return builder.BuildScript(file.Script, d.cfg, r, dp)
			},
		})
	}
	for _, fn := range file.Functions {
		jobs = append(jobs, job{
			name: fn.Name.Value,
			run: func(r diag.Reporter, dp builder.DirectiveParser) (*ssa.FunctionBody, error) {
				return builder.BuildFunction(fn, d.cfg, r, dp)
			},
		})
	}

	c.Functions = make([]*FunctionResult, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if d.cfg.Workers > 0 {
		g.SetLimit(d.cfg.Workers)
	}

	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result := &FunctionResult{Name: j.name, Diagnostics: diag.NewCollector(path)}
			start := time.Now()
			result.Body, result.Err = j.run(result.Diagnostics, directive.NewParser(result.Diagnostics))
			if result.Err == nil {
				result.Err = d.finish(result)
			}
			d.metrics.observe(result, time.Since(start))

			c.Functions[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "compiling %s", path)
	}

	for _, fn := range c.Functions {
		c.Diagnostics.Merge(fn.Diagnostics)
	}
	d.dumpBodies(c)

	return c, nil
}

// finish validates a freshly built body and runs the pipeline on a copy
func (d *Driver) finish(result *FunctionResult) error {
	if result.Diagnostics.HasErrors() {
		return nil
	}

	if d.cfg.Validate {
		if err := ssa.Validate(result.Body); err != nil {
			return errors.Wrapf(err, "constructed body of %s", displayName(result.Name))
		}
	}

	optimized := result.Body.Copy()
	if err := d.pipeline.Run(optimized); err != nil {
		return errors.Wrapf(err, "optimizing %s", displayName(result.Name))
	}
	result.Optimized = optimized

	log.Debugf("finished %s", displayName(result.Name))
	return nil
}

func (d *Driver) dumpBodies(c *Compilation) {
	if d.dump == nil {
		return
	}
	for _, fn := range c.Functions {
		if fn.Body == nil || !ssa.HasProperty[ssa.DumpSsaProperty](fn.Body.Properties) {
			continue
		}
		fmt.Fprintln(d.dump, fn.Body)
	}
}

func displayName(name string) string {
	if name == "" {
		return "<script>"
	}
	return name
}
