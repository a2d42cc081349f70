package builder

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	iradix "github.com/hashicorp/go-immutable-radix/v2"

	"mlssa/internal/ssa"
)

// EndContext tells `end` which value is being indexed and at which position
type EndContext struct {
	Cause          string
	ReferencedName string
	IndexPosition  int
	IndexCount     int
}

// loopExits collects the contexts that leave one loop. Every context spawned
// inside the loop body shares the same collector.
type loopExits struct {
	breaks    []*BlockContext
	continues []*BlockContext
}

// BlockContext is the builder state for one path through the function: the
// block receiving instructions and the current SSA name of every variable.
// A nil *BlockContext is a path that does not continue.
type BlockContext struct {
	body    *ssa.FunctionBody
	block   *ssa.Block
	blockID int

	// names maps source variables to their current versioned name. The tree
	// is persistent, so copying a context never aliases a sibling's bindings.
	names *iradix.Tree[string]
	root  bool

	globals        mapset.Set[string]
	exits          *loopExits
	loopProperties *[]ssa.LoopProperty

	ends []EndContext
	line int
}

func newRootContext(body *ssa.FunctionBody) *BlockContext {
	block := ssa.NewBlock()
	return &BlockContext{
		body:           body,
		block:          block,
		blockID:        body.AddBlock(block),
		names:          iradix.New[string](),
		root:           true,
		globals:        mapset.NewThreadUnsafeSet[string](),
		loopProperties: new([]ssa.LoopProperty),
	}
}

// child creates a context over a new block that starts with the parent's
// bindings. Pending loop properties stay with the parent.
func (c *BlockContext) child(root bool) *BlockContext {
	block := ssa.NewBlock()
	return &BlockContext{
		body:           c.body,
		block:          block,
		blockID:        c.body.AddBlock(block),
		names:          c.names,
		root:           root,
		globals:        c.globals,
		exits:          c.exits,
		loopProperties: new([]ssa.LoopProperty),
		ends:           slices.Clone(c.ends),
		line:           c.line,
	}
}

// loopChild creates the header context of a new loop with its own exit collector
func (c *BlockContext) loopChild() *BlockContext {
	ctx := c.child(false)
	ctx.exits = &loopExits{}
	return ctx
}

// shadow creates a context writing to the same block with independent bindings
func (c *BlockContext) shadow() *BlockContext {
	ctx := *c
	ctx.root = false
	ctx.loopProperties = new([]ssa.LoopProperty)
	ctx.ends = slices.Clone(c.ends)
	return &ctx
}

func (c *BlockContext) Body() *ssa.FunctionBody { return c.body }
func (c *BlockContext) Block() *ssa.Block       { return c.block }
func (c *BlockContext) BlockID() int            { return c.blockID }

// IsRoot reports whether the context is at the top level of the function
func (c *BlockContext) IsRoot() bool { return c.root }

func (c *BlockContext) Line() int { return c.line }

// CurrentName returns the SSA name currently bound to a source variable
func (c *BlockContext) CurrentName(variable string) (string, bool) {
	return c.names.Get([]byte(variable))
}

func (c *BlockContext) HasVariable(variable string) bool {
	_, ok := c.CurrentName(variable)
	return ok
}

func (c *BlockContext) setCurrentName(variable, name string) {
	c.names, _, _ = c.names.Insert([]byte(variable), name)
}

// Variables returns every bound source variable in lexical order
func (c *BlockContext) Variables() []string {
	variables := make([]string, 0, c.names.Len())
	c.names.Root().Walk(func(k []byte, _ string) bool {
		variables = append(variables, string(k))
		return false
	})
	return variables
}

func (c *BlockContext) IsGlobal(variable string) bool {
	return c.globals.Contains(variable)
}

func (c *BlockContext) AddGlobal(variable string) {
	c.globals.Add(variable)
}

func (c *BlockContext) AddInstruction(inst ssa.Instruction) {
	c.block.Add(inst)
}

func (c *BlockContext) PrependInstruction(inst ssa.Instruction) {
	c.block.Prepend(inst)
}

// AddLoopProperty queues a property for the next for loop
func (c *BlockContext) AddLoopProperty(p ssa.LoopProperty) {
	*c.loopProperties = append(*c.loopProperties, p)
}

// PendingLoopProperties returns the properties waiting for a loop
func (c *BlockContext) PendingLoopProperties() []ssa.LoopProperty {
	return *c.loopProperties
}

// takeLoopProperties returns and clears the pending properties
func (c *BlockContext) takeLoopProperties() []ssa.LoopProperty {
	props := *c.loopProperties
	*c.loopProperties = nil
	return props
}

func (c *BlockContext) PushEndContext(cause, referencedName string, position, count int) {
	c.ends = append(c.ends, EndContext{
		Cause:          cause,
		ReferencedName: referencedName,
		IndexPosition:  position,
		IndexCount:     count,
	})
}

func (c *BlockContext) PopEndContext() {
	c.ends = c.ends[:len(c.ends)-1]
}

// CurrentEndContext returns the innermost indexing frame
func (c *BlockContext) CurrentEndContext() (EndContext, bool) {
	if len(c.ends) == 0 {
		return EndContext{}, false
	}
	return c.ends[len(c.ends)-1], true
}

// SetLine emits a line marker when the source line changes
func (c *BlockContext) SetLine(line int) {
	if line <= 0 || line == c.line {
		return
	}
	c.line = line
	c.AddInstruction(&ssa.LineInstruction{Line: line})
}

// doBreak registers the context as an exit of the enclosing loop
func (c *BlockContext) doBreak() bool {
	if c.exits == nil {
		return false
	}
	c.exits.breaks = append(c.exits.breaks, c)
	return true
}

// doContinue registers the context as a back edge of the enclosing loop
func (c *BlockContext) doContinue() bool {
	if c.exits == nil {
		return false
	}
	c.exits.continues = append(c.exits.continues, c)
	return true
}
