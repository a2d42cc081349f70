package ssa

import (
	"slices"

	"github.com/mitchellh/copystructure"
)

// Block is a basic block: an ordered list of instructions. A block without an
// ending instruction falls through to whatever follows it structurally.
type Block struct {
	Instructions []Instruction
}

// NewBlock creates an empty block
func NewBlock() *Block {
	return &Block{}
}

// Add appends an instruction
func (b *Block) Add(inst Instruction) {
	b.Instructions = append(b.Instructions, inst)
}

func (b *Block) AddAll(insts []Instruction) {
	b.Instructions = append(b.Instructions, insts...)
}

// Prepend inserts an instruction at the start of the block
func (b *Block) Prepend(inst Instruction) {
	b.Insert(0, inst)
}

func (b *Block) PrependAll(insts []Instruction) {
	b.InsertAll(0, insts)
}

// Insert places an instruction before the one at index
func (b *Block) Insert(index int, inst Instruction) {
	b.Instructions = slices.Insert(b.Instructions, index, inst)
}

func (b *Block) InsertAll(index int, insts []Instruction) {
	b.Instructions = slices.Insert(b.Instructions, index, insts...)
}

// RemoveAt deletes the instruction at index
func (b *Block) RemoveAt(index int) {
	b.Instructions = slices.Delete(b.Instructions, index, index+1)
}

// RemoveLast deletes the last instruction, if any
func (b *Block) RemoveLast() {
	if len(b.Instructions) > 0 {
		b.Instructions = b.Instructions[:len(b.Instructions)-1]
	}
}

// RemoveFrom deletes every instruction from index to the end of the block
func (b *Block) RemoveFrom(index int) {
	b.Instructions = b.Instructions[:index]
}

// ReplaceAt swaps the instruction at index for inst
func (b *Block) ReplaceAt(index int, inst Instruction) {
	b.Instructions[index] = inst
}

// ReplaceWith splices insts in place of the instruction at index
func (b *Block) ReplaceWith(index int, insts []Instruction) {
	b.Instructions = slices.Replace(b.Instructions, index, index+1, insts...)
}

// EndingInstruction returns the last instruction if it ends the block
func (b *Block) EndingInstruction() (Instruction, bool) {
	if len(b.Instructions) == 0 {
		return nil, false
	}
	last := b.Instructions[len(b.Instructions)-1]
	if !last.IsEnding() {
		return nil, false
	}
	return last, true
}

// HasSideEffects reports whether any instruction must be kept regardless of uses
func (b *Block) HasSideEffects() bool {
	for _, inst := range b.Instructions {
		switch inst.Effect() {
		case HasSideEffect, ControlFlow, ValidationSideEffect:
			return true
		}
	}
	return false
}

// UsesVariable reports whether any instruction reads name
func (b *Block) UsesVariable(name string) bool {
	for _, inst := range b.Instructions {
		if slices.Contains(inst.Inputs(), name) {
			return true
		}
	}
	return false
}

// AddAssignment appends output = input
func (b *Block) AddAssignment(output, input string) {
	b.Add(&AssignmentInstruction{Output: output, Kind: FromVariable, Source: input})
}

func (b *Block) AddComment(text string) {
	b.Add(&CommentInstruction{Text: text})
}

func (b *Block) RenameVariables(mapping map[string]string) {
	for _, inst := range b.Instructions {
		inst.RenameVariables(mapping)
	}
}

func (b *Block) RenameBlocks(oldIDs, newIDs []int) {
	for _, inst := range b.Instructions {
		inst.RenameBlocks(oldIDs, newIDs)
	}
}

func (b *Block) BreakBlock(originalBlock, startBlock, endBlock int) {
	for _, inst := range b.Instructions {
		inst.BreakBlock(originalBlock, startBlock, endBlock)
	}
}

// Copy returns a deep copy of the block
func (b *Block) Copy() *Block {
	return copystructure.Must(copystructure.Copy(b)).(*Block)
}

// CopyInstruction returns a deep copy of a single instruction
func CopyInstruction(inst Instruction) Instruction {
	return copystructure.Must(copystructure.Copy(inst)).(Instruction)
}

func (b *Block) String() string {
	p := NewPrinter()
	p.printBlock(b)
	return p.output.String()
}
