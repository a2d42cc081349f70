package directive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"mlssa/internal/ast"
	"mlssa/internal/builder"
	"mlssa/internal/config"
	"mlssa/internal/errors"
	"mlssa/internal/ssa"
)

var log = commonlog.GetLogger("mlssa.directive")

// Definition describes one directive accepted in a marker comment
type Definition struct {
	Name        string         // Keyword following the marker (e.g. "specialize")
	Pattern     *regexp.Regexp // Matches the whole directive body; nil for bare keywords
	Usage       string         // Shown in hovers and completions
	Description string
	handle      func(p *Parser, d directiveCall) error
}

type directiveCall struct {
	stmt   *ast.CommentStmt
	ctx    *builder.BlockContext
	groups []string
}

const identifier = `[a-zA-Z][a-zA-Z0-9_]*`

// Definitions lists every directive in the order they are documented
var Definitions = []*Definition{
	{
		Name:        "specialize",
		Pattern:     regexp.MustCompile(`^specialize\s+(` + identifier + `)$`),
		Usage:       "specialize <variable>",
		Description: "Generate a version of the function for the value of a scalar input",
		handle:      (*Parser).specialize,
	},
	{
		Name:        "by_ref",
		Pattern:     regexp.MustCompile(`^by_ref\s+(.*)$`),
		Usage:       "by_ref <name>[, <name>...]",
		Description: "Pass a variable that is both an input and an output by reference",
		handle:      (*Parser).byRef,
	},
	{
		Name:        "assume_indices_in_range",
		Usage:       "assume_indices_in_range",
		Description: "Skip bounds checks on matrix accesses",
		handle: func(p *Parser, d directiveCall) error {
			d.ctx.AddInstruction(&ssa.AssumeIndicesInRangeDirectiveInstruction{})
			return nil
		},
	},
	{
		Name:        "assume_matrix_sizes_match",
		Usage:       "assume_matrix_sizes_match",
		Description: "Skip size checks on element-wise operations",
		handle: func(p *Parser, d directiveCall) error {
			d.ctx.AddInstruction(&ssa.AssumeMatrixSizesMatchDirectiveInstruction{})
			return nil
		},
	},
	{
		Name:        "disable",
		Pattern:     regexp.MustCompile(`^disable\s+(.*)$`),
		Usage:       "disable <pass>[, <pass>...]",
		Description: "Turn off optimization passes for this function",
		handle:      (*Parser).disable,
	},
	{
		Name:        "export",
		Pattern:     regexp.MustCompile(`^export(?:\s+([a-zA-Z_][a-zA-Z0-9_]*))?$`),
		Usage:       "export [abi_name]",
		Description: "Expose the function under a stable ABI name",
		handle:      (*Parser).export,
	},
	{
		Name:        "dump_ssa",
		Usage:       "dump_ssa",
		Description: "Print the function after SSA construction",
		handle:      (*Parser).dumpSsa,
	},
	{
		Name:        "parallel",
		Usage:       "parallel",
		Description: "Mark the next loop as infusible",
		handle:      (*Parser).infusible,
	},
	{
		Name:        "infusible",
		Usage:       "infusible",
		Description: "Mark the next loop as infusible",
		handle:      (*Parser).infusible,
	},
	{
		Name:        "estimated_iterations",
		Pattern:     regexp.MustCompile(`^estimated_iterations\s+(.*)$`),
		Usage:       "estimated_iterations <count>",
		Description: "Hint the trip count of the next loop",
		handle:      (*Parser).estimatedIterations,
	},
}

var (
	byRefList = regexp.MustCompile(`^` + identifier + `\s*(,\s*` + identifier + `\s*)*$`)
	passName  = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	count     = regexp.MustCompile(`^[0-9]+$`)
)

// Names returns the keyword of every directive
func Names() []string {
	names := make([]string, len(Definitions))
	for i, d := range Definitions {
		names[i] = d.Name
	}
	return names
}

// Lookup finds a directive by keyword
func Lookup(name string) (*Definition, bool) {
	for _, d := range Definitions {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

// Parser applies directive comments while a function is being built
type Parser struct {
	reporter errors.Reporter
}

func NewParser(reporter errors.Reporter) *Parser {
	return &Parser{reporter: reporter}
}

// ParseDirective implements builder.DirectiveParser
func (p *Parser) ParseDirective(stmt *ast.CommentStmt, ctx *builder.BlockContext, cfg *config.Config) error {
	body := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(stmt.Text), cfg.DirectiveMarker))
	keyword, _, _ := strings.Cut(body, " ")
	keyword, _, _ = strings.Cut(keyword, "\t")

	definition, ok := Lookup(keyword)
	if !ok {
		return p.report(errors.UnrecognizedDirective(keyword, stmt.Pos, Names()))
	}

	call := directiveCall{stmt: stmt, ctx: ctx}
	if definition.Pattern != nil {
		groups := definition.Pattern.FindStringSubmatch(body)
		if groups == nil {
			return p.fail(stmt, errors.UnrecognizedDirectiveError, "invalid format for directive, expected '%s%s'", cfg.DirectiveMarker, definition.Usage)
		}
		call.groups = groups[1:]
	} else if body != definition.Name {
		return p.fail(stmt, errors.UnrecognizedDirectiveError, "directive '%s' takes no arguments", definition.Name)
	}

	log.Debugf("applying %s at line %d", definition.Name, stmt.Pos.Line)
	return definition.handle(p, call)
}

func (p *Parser) report(diagnostic errors.CompilerError) error {
	err := p.reporter.Report(diagnostic)
	if err != nil && errors.CategoryOf(diagnostic.Code).Fatal() {
		return err
	}
	return nil
}

func (p *Parser) fail(stmt *ast.CommentStmt, category errors.Category, format string, args ...interface{}) error {
	err := p.reporter.EmitError(stmt.Pos, category, fmt.Sprintf(format, args...))
	if category.Fatal() {
		return err
	}
	return nil
}

func (p *Parser) specialize(d directiveCall) error {
	if d.ctx.BlockID() != 0 {
		return p.fail(d.stmt, errors.CorrectnessError, "specialize directive must be in the function header")
	}
	if d.ctx.Body().InputIndex(d.groups[0]) < 0 {
		return p.fail(d.stmt, errors.CorrectnessError, "specialize: '%s' is not a function input", d.groups[0])
	}

	d.ctx.PrependInstruction(&ssa.SpecializeDirectiveInstruction{Variable: d.groups[0]})
	d.ctx.PrependInstruction(&ssa.LineInstruction{Line: d.stmt.Pos.Line})
	return nil
}

func (p *Parser) byRef(d directiveCall) error {
	names := strings.TrimSpace(d.groups[0])
	if !byRefList.MatchString(names) {
		return p.fail(d.stmt, errors.UnrecognizedDirectiveError, "invalid format for directive: by_ref %s", names)
	}

	body := d.ctx.Body()
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if err := body.AddByRef(name); err != nil {
			if ferr := p.fail(d.stmt, errors.ParseError, "by_ref: %v", err); ferr != nil {
				return ferr
			}
		}
	}
	return nil
}

func (p *Parser) disable(d directiveCall) error {
	for _, field := range strings.Split(d.groups[0], ",") {
		pass := strings.TrimSpace(field)
		if !passName.MatchString(pass) {
			log.Warningf("ignoring invalid pass name %q at line %d", pass, d.stmt.Pos.Line)
			continue
		}
		d.ctx.AddInstruction(&ssa.DisableOptimizationDirectiveInstruction{Pass: pass})
	}
	return nil
}

func (p *Parser) export(d directiveCall) error {
	body := d.ctx.Body()
	if ssa.HasProperty[ssa.ExportProperty](body.Properties) {
		return p.fail(d.stmt, errors.CorrectnessError, "duplicated export directive")
	}

	body.AddProperty(ssa.ExportProperty{ABIName: d.groups[0]})
	return nil
}

func (p *Parser) dumpSsa(d directiveCall) error {
	body := d.ctx.Body()
	if ssa.HasProperty[ssa.DumpSsaProperty](body.Properties) {
		return p.fail(d.stmt, errors.CorrectnessError, "duplicated dump_ssa directive")
	}

	body.AddProperty(ssa.DumpSsaProperty{})
	return nil
}

func (p *Parser) infusible(d directiveCall) error {
	d.ctx.AddLoopProperty(ssa.InfusibleProperty{})
	return nil
}

func (p *Parser) estimatedIterations(d directiveCall) error {
	value := strings.TrimSpace(d.groups[0])
	if !count.MatchString(value) {
		return p.fail(d.stmt, errors.CorrectnessError, "estimated_iterations requires an integer iteration count, got '%s'", value)
	}

	iterations, err := strconv.Atoi(value)
	if err != nil {
		return p.fail(d.stmt, errors.CorrectnessError, "estimated_iterations: %v", err)
	}
	d.ctx.AddLoopProperty(ssa.EstimatedIterationsProperty{Iterations: iterations})
	return nil
}
