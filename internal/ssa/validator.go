package ssa

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// Validator checks structural properties every constructed body must satisfy:
// each variable is defined once, phis are well formed and lead their block,
// ending instructions come last, referenced blocks exist, used variables are
// defined somewhere, the entry block never reads before it writes, phis after
// a branch only name the branch ends, and loop header phis name the outer block.
type Validator struct{}

func (v *Validator) Name() string {
	return "validator"
}

func (v *Validator) Description() string {
	return "Checks that the body is in well formed SSA form"
}

func (v *Validator) Apply(body *FunctionBody) (bool, error) {
	return false, Validate(body)
}

// ValidationError describes the first violated property
type ValidationError struct {
	Function string
	Message  string
}

func (e *ValidationError) Error() string {
	return "invalid SSA in " + e.Function + ": " + e.Message
}

func violation(body *FunctionBody, format string, args ...interface{}) error {
	return errors.WithStack(&ValidationError{
		Function: displayName(body),
		Message:  errors.Errorf(format, args...).Error(),
	})
}

// Validate runs every check and returns the first violation found
func Validate(body *FunctionBody) error {
	declared := mapset.NewThreadUnsafeSet[string]()
	used := mapset.NewThreadUnsafeSet[string]()

	for _, block := range body.Blocks {
		for index, inst := range block.Instructions {
			for _, output := range inst.Outputs() {
				if !declared.Add(output) {
					return violation(body, "variable %s is declared multiple times", output)
				}
			}
			used.Append(inst.Inputs()...)

			if phi, ok := inst.(*PhiInstruction); ok {
				if len(phi.Variables) == 0 {
					return violation(body, "found phi without any inputs")
				}
				if len(phi.Variables) != len(phi.SourceBlocks) {
					return violation(body, "phi has %d inputs but %d source blocks: %s",
						len(phi.Variables), len(phi.SourceBlocks), phi)
				}
				if mapset.NewThreadUnsafeSet(phi.SourceBlocks...).Cardinality() != len(phi.SourceBlocks) {
					return violation(body, "phi has duplicated input blocks: %s", phi)
				}
			}

			if inst.IsEnding() && index != len(block.Instructions)-1 {
				return violation(body, "found ending instruction in middle of block: %s", inst)
			}

			for _, target := range inst.TargetBlocks() {
				if target < 0 || target >= len(body.Blocks) {
					return violation(body, "found reference to missing block #%d (of %d) in %s",
						target, len(body.Blocks), inst)
				}
			}
		}
	}

	if missing := used.Difference(declared); missing.Cardinality() > 0 {
		names := missing.ToSlice()
		return violation(body, "variable %s is used but never declared", names[0])
	}

	for _, block := range body.Blocks {
		allowPhi := true
		for _, inst := range block.Instructions {
			if inst.Effect() == LineMarker {
				continue
			}
			if _, ok := inst.(*PhiInstruction); ok {
				if !allowPhi {
					return violation(body, "phi instruction not at the beginning of block: %s", inst)
				}
			} else {
				allowPhi = false
			}
		}
	}

	// Later blocks may legitimately read names defined further down (loop
	// back edges), the entry block may not.
	if len(body.Blocks) > 0 {
		available := mapset.NewThreadUnsafeSet[string]()
		for _, inst := range body.Blocks[0].Instructions {
			for _, input := range inst.Inputs() {
				if !available.Contains(input) {
					return violation(body, "used variable %s has not been declared before use", input)
				}
			}
			available.Append(inst.Outputs()...)
		}
	}

	for blockID, block := range body.Blocks {
		for _, inst := range block.Instructions {
			switch inst := inst.(type) {
			case *BranchInstruction:
				trueEnd := BlockEnd(body, inst.TrueBlock)
				falseEnd := BlockEnd(body, inst.FalseBlock)
				for _, phi := range phis(body.Blocks[inst.EndBlock]) {
					for _, source := range phi.SourceBlocks {
						if source != trueEnd && source != falseEnd {
							return violation(body, "invalid phi node after branch: %s, valid blocks are #%d, #%d",
								phi, trueEnd, falseEnd)
						}
					}
				}
			case *ForInstruction:
				for _, phi := range phis(body.Blocks[inst.LoopBlock]) {
					found := false
					for _, source := range phi.SourceBlocks {
						if source == blockID {
							found = true
						}
					}
					if !found {
						return violation(body, "invalid phi node in loop: %s does not reference outer block #%d",
							phi, blockID)
					}
				}
			}
		}
	}

	for blockID, block := range body.Blocks {
		usedInBlock := mapset.NewThreadUnsafeSet[string]()
		for _, inst := range block.Instructions {
			for _, output := range inst.Outputs() {
				if usedInBlock.Contains(output) {
					return violation(body, "variable %s is used in block #%d before being declared", output, blockID)
				}
			}
			if _, ok := inst.(*PhiInstruction); !ok {
				usedInBlock.Append(inst.Inputs()...)
			}
		}
	}

	return nil
}

func phis(block *Block) []*PhiInstruction {
	var result []*PhiInstruction
	for _, inst := range block.Instructions {
		if phi, ok := inst.(*PhiInstruction); ok {
			result = append(result, phi)
		}
	}
	return result
}

// EndBlock returns the block control reaches after the structure an ending
// instruction opens, if it has one
func EndBlock(inst Instruction) (int, bool) {
	switch inst := inst.(type) {
	case *BranchInstruction:
		return inst.EndBlock, true
	case *WhileInstruction:
		return inst.EndBlock, true
	case *ForInstruction:
		return inst.EndBlock, true
	}
	return 0, false
}

// BlockEnd follows nested structures from blockID to the block where its
// straight-line execution finishes
func BlockEnd(body *FunctionBody, blockID int) int {
	ending, ok := body.Blocks[blockID].EndingInstruction()
	if !ok {
		return blockID
	}
	if end, ok := EndBlock(ending); ok {
		return BlockEnd(body, end)
	}
	return blockID
}
