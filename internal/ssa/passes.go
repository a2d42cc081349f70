package ssa

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mlssa.ssa")

// Pass represents a single transformation or check over a function body
type Pass interface {
	Name() string
	Description() string
	Apply(body *FunctionBody) (bool, error) // Returns true if changes were made
}

// Pipeline manages the sequence of passes run after construction
type Pipeline struct {
	passes []Pass
}

// NewPipeline creates a pipeline with the default passes
func NewPipeline() *Pipeline {
	pipeline := &Pipeline{}

	pipeline.AddPass(&CommentElimination{})
	pipeline.AddPass(&Validator{})

	return pipeline
}

// AddPass adds a pass to the pipeline
func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

func (p *Pipeline) Passes() []Pass {
	return p.passes
}

// Run executes every pass not disabled in the body. It stops at the first error.
func (p *Pipeline) Run(body *FunctionBody) error {
	disabled := DisabledPasses(body)
	log.Infof("running %d passes on %s", len(p.passes), displayName(body))

	for _, pass := range p.passes {
		if disabled.Contains(pass.Name()) {
			log.Infof("  - %s: disabled", pass.Name())
			continue
		}
		changed, err := pass.Apply(body)
		if err != nil {
			return errors.Wrapf(err, "pass %s", pass.Name())
		}
		if changed {
			log.Infof("  - %s: applied", pass.Name())
		} else {
			log.Debugf("  - %s: no changes", pass.Name())
		}
	}
	return nil
}

func displayName(body *FunctionBody) string {
	if body.Name == "" {
		return "<script>"
	}
	return body.Name
}

// CommentElimination drops comment instructions
type CommentElimination struct{}

func (ce *CommentElimination) Name() string {
	return "comment_elimination"
}

func (ce *CommentElimination) Description() string {
	return "Removes source comments that no later stage needs"
}

func (ce *CommentElimination) Apply(body *FunctionBody) (bool, error) {
	changed := false
	for _, block := range body.Blocks {
		kept := block.Instructions[:0]
		for _, inst := range block.Instructions {
			if _, ok := inst.(*CommentInstruction); ok {
				changed = true
				continue
			}
			kept = append(kept, inst)
		}
		block.Instructions = kept
	}
	return changed, nil
}

// DisabledPasses collects the pass names turned off by disable directives
func DisabledPasses(body *FunctionBody) mapset.Set[string] {
	disabled := mapset.NewThreadUnsafeSet[string]()
	for _, inst := range InstructionsOf[*DisableOptimizationDirectiveInstruction](body) {
		disabled.Add(inst.Pass)
	}
	return disabled
}
