package ssa

import (
	"fmt"
	"iter"
	"slices"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// FunctionBody owns the blocks of one function. Block 0 is the entry block and
// a block's id is its index.
type FunctionBody struct {
	Name       string // Empty for script bodies
	FirstLine  int
	Blocks     []*Block
	Properties []FunctionProperty

	inputNames  []string // "" marks an ignored parameter
	outputNames []string
	byRef       mapset.Set[string]
	temporaries map[string]int
}

// InstructionLocation addresses one instruction inside a FunctionBody
type InstructionLocation struct {
	BlockID int
	Index   int
}

func (l InstructionLocation) String() string {
	return fmt.Sprintf("#%d:%d", l.BlockID, l.Index)
}

// NewFunctionBody creates an empty body
func NewFunctionBody(name string, firstLine int, inputNames, outputNames []string) *FunctionBody {
	return &FunctionBody{
		Name:        name,
		FirstLine:   firstLine,
		inputNames:  slices.Clone(inputNames),
		outputNames: slices.Clone(outputNames),
		byRef:       mapset.NewThreadUnsafeSet[string](),
		temporaries: make(map[string]int),
	}
}

// AddBlock appends a block and returns its id
func (f *FunctionBody) AddBlock(block *Block) int {
	f.Blocks = append(f.Blocks, block)
	return len(f.Blocks) - 1
}

func (f *FunctionBody) Block(id int) *Block {
	return f.Blocks[id]
}

func (f *FunctionBody) NumBlocks() int {
	return len(f.Blocks)
}

// MakeTemporary returns a name unique within this body for the given tag
func (f *FunctionBody) MakeTemporary(tag string) string {
	f.temporaries[tag]++
	return fmt.Sprintf("$%s$%d", tag, f.temporaries[tag])
}

// InputNames returns the parameter names; ignored parameters are empty strings
func (f *FunctionBody) InputNames() []string  { return f.inputNames }
func (f *FunctionBody) OutputNames() []string { return f.outputNames }

// InputIndex returns the position of a named parameter, or -1
func (f *FunctionBody) InputIndex(name string) int {
	if name == "" {
		return -1
	}
	return slices.Index(f.inputNames, name)
}

func (f *FunctionBody) OutputIndex(name string) int {
	return slices.Index(f.outputNames, name)
}

// AddByRef marks name as passed by reference. The name must be both an input
// and an output.
func (f *FunctionBody) AddByRef(name string) error {
	if f.InputIndex(name) < 0 || f.OutputIndex(name) < 0 {
		return errors.Errorf("%s must be both an input and an output to be passed by reference", name)
	}
	if !f.byRef.Add(name) {
		return errors.Errorf("%s is already passed by reference", name)
	}
	return nil
}

func (f *FunctionBody) IsByRef(name string) bool {
	return f.byRef.Contains(name)
}

// ByRef returns the by-reference names in output order
func (f *FunctionBody) ByRef() []string {
	var names []string
	for _, out := range f.outputNames {
		if f.byRef.Contains(out) {
			names = append(names, out)
		}
	}
	return names
}

// LastByRefOutputIndex returns the highest output position passed by reference, or -1
func (f *FunctionBody) LastByRefOutputIndex() int {
	last := -1
	for i, out := range f.outputNames {
		if f.byRef.Contains(out) {
			last = i
		}
	}
	return last
}

func (f *FunctionBody) AddProperty(p FunctionProperty) {
	f.Properties = append(f.Properties, p)
}

// Block surgery

func (f *FunctionBody) RenameVariables(mapping map[string]string) {
	for _, block := range f.Blocks {
		block.RenameVariables(mapping)
	}
}

// RenameBlocks substitutes block ids in every instruction
func (f *FunctionBody) RenameBlocks(oldIDs, newIDs []int) {
	if len(oldIDs) != len(newIDs) {
		panic("RenameBlocks: id lists differ in length")
	}
	for _, block := range f.Blocks {
		block.RenameBlocks(oldIDs, newIDs)
	}
}

func (f *FunctionBody) BreakBlock(originalBlock, startBlock, endBlock int) {
	for _, block := range f.Blocks {
		block.BreakBlock(originalBlock, startBlock, endBlock)
	}
}

// RemoveBlocks deletes blocks and compacts the ids of the survivors.
// Removed ids first move to negative placeholders so that no removed id can
// collide with a survivor while the survivors shift down.
func (f *FunctionBody) RemoveBlocks(ids ...int) {
	removed := mapset.NewThreadUnsafeSet(ids...)
	if removed.Cardinality() == 0 {
		return
	}
	sorted := removed.ToSlice()
	sort.Ints(sorted)

	// First pass: removed ids become phony ids
	phony := make([]int, len(sorted))
	for i, id := range sorted {
		phony[i] = -id - 1
	}
	f.RenameBlocks(sorted, phony)

	// Second pass: drop the blocks
	kept := make([]*Block, 0, len(f.Blocks)-len(sorted))
	var oldIDs, newIDs []int
	for id, block := range f.Blocks {
		if removed.Contains(id) {
			continue
		}
		if id != len(kept) {
			oldIDs = append(oldIDs, id)
			newIDs = append(newIDs, len(kept))
		}
		kept = append(kept, block)
	}
	f.Blocks = kept

	// Third pass: shift survivors down
	f.RenameBlocks(oldIDs, newIDs)
}

// Instruction access

func (f *FunctionBody) InstructionAt(loc InstructionLocation) Instruction {
	return f.Blocks[loc.BlockID].Instructions[loc.Index]
}

func (f *FunctionBody) SetInstructionAt(loc InstructionLocation, inst Instruction) {
	f.Blocks[loc.BlockID].ReplaceAt(loc.Index, inst)
}

func (f *FunctionBody) RemoveInstructionAt(loc InstructionLocation) {
	f.Blocks[loc.BlockID].RemoveAt(loc.Index)
}

// All iterates over every instruction in block order
func (f *FunctionBody) All() iter.Seq2[InstructionLocation, Instruction] {
	return func(yield func(InstructionLocation, Instruction) bool) {
		for blockID, block := range f.Blocks {
			for index, inst := range block.Instructions {
				if !yield(InstructionLocation{BlockID: blockID, Index: index}, inst) {
					return
				}
			}
		}
	}
}

// InstructionsOf iterates over the instructions of one kind
func InstructionsOf[T Instruction](f *FunctionBody) iter.Seq2[InstructionLocation, T] {
	return func(yield func(InstructionLocation, T) bool) {
		for loc, inst := range f.All() {
			if t, ok := inst.(T); ok {
				if !yield(loc, t) {
					return
				}
			}
		}
	}
}

// Copy returns a deep copy of the body, including temporary counters
func (f *FunctionBody) Copy() *FunctionBody {
	body := NewFunctionBody(f.Name, f.FirstLine, f.inputNames, f.outputNames)
	for _, block := range f.Blocks {
		body.AddBlock(block.Copy())
	}
	body.Properties = slices.Clone(f.Properties)
	body.byRef = f.byRef.Clone()
	for tag, n := range f.temporaries {
		body.temporaries[tag] = n
	}
	return body
}

func (f *FunctionBody) String() string {
	return Print(f)
}
