package ssa

// This file implements variable and block renaming for all instruction types.
// RenameBlocks substitutes all ids simultaneously: oldIDs[i] becomes newIDs[i].

func renameVariable(mapping map[string]string, name string) string {
	if renamed, ok := mapping[name]; ok {
		return renamed
	}
	return name
}

func renameVariableList(mapping map[string]string, names []string) {
	for i, name := range names {
		names[i] = renameVariable(mapping, name)
	}
}

func renameBlock(id int, oldIDs, newIDs []int) int {
	for i, old := range oldIDs {
		if old == id {
			return newIDs[i]
		}
	}
	return id
}

// Variable renaming

func (i *ArgumentInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
}

func (i *AssignmentInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
	if i.Kind == FromVariable {
		i.Source = renameVariable(m, i.Source)
	}
}

func (i *BuiltinVariableInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
}

func (i *CommentInstruction) RenameVariables(map[string]string) {}
func (i *LineInstruction) RenameVariables(map[string]string)    {}

func (i *PhiInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
	renameVariableList(m, i.Variables)
}

func (i *BranchInstruction) RenameVariables(m map[string]string) {
	i.Condition = renameVariable(m, i.Condition)
}

func (i *WhileInstruction) RenameVariables(map[string]string) {}

func (i *ForInstruction) RenameVariables(m map[string]string) {
	i.Start = renameVariable(m, i.Start)
	i.Interval = renameVariable(m, i.Interval)
	i.End = renameVariable(m, i.End)
}

func (i *BreakInstruction) RenameVariables(map[string]string)    {}
func (i *ContinueInstruction) RenameVariables(map[string]string) {}

func (i *IterInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
}

func (i *ReadGlobalInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
}

func (i *WriteGlobalInstruction) RenameVariables(m map[string]string) {
	i.Input = renameVariable(m, i.Input)
}

func (i *MatrixGetInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
	i.Matrix = renameVariable(m, i.Matrix)
	renameVariableList(m, i.Indices)
}

func (i *MatrixSetInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
	i.Matrix = renameVariable(m, i.Matrix)
	renameVariableList(m, i.Indices)
	i.Value = renameVariable(m, i.Value)
}

func (i *CellGetInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
	i.Cell = renameVariable(m, i.Cell)
	renameVariableList(m, i.Indices)
}

func (i *CellSetInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
	i.Cell = renameVariable(m, i.Cell)
	renameVariableList(m, i.Indices)
	i.Value = renameVariable(m, i.Value)
}

func (i *CellMakeRowInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
	renameVariableList(m, i.Values)
}

func (i *EndInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
	i.Matrix = renameVariable(m, i.Matrix)
}

func (i *UntypedFunctionCallInstruction) RenameVariables(m map[string]string) {
	renameVariableList(m, i.Results)
	renameVariableList(m, i.Args)
}

func (i *StringInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
}

func (i *VerticalFlattenInstruction) RenameVariables(m map[string]string) {
	i.Output = renameVariable(m, i.Output)
	i.Input = renameVariable(m, i.Input)
}

func (i *ValidateBooleanInstruction) RenameVariables(m map[string]string) {
	i.Input = renameVariable(m, i.Input)
}

func (i *ValidateAtLeastOneEmptyMatrixInstruction) RenameVariables(m map[string]string) {
	renameVariableList(m, i.Values)
}

func (i *SpecializeDirectiveInstruction) RenameVariables(map[string]string) {}

func (i *AssumeIndicesInRangeDirectiveInstruction) RenameVariables(map[string]string)   {}
func (i *AssumeMatrixSizesMatchDirectiveInstruction) RenameVariables(map[string]string) {}
func (i *DisableOptimizationDirectiveInstruction) RenameVariables(map[string]string)    {}

// Block renaming

func (i *PhiInstruction) RenameBlocks(oldIDs, newIDs []int) {
	for idx, id := range i.SourceBlocks {
		i.SourceBlocks[idx] = renameBlock(id, oldIDs, newIDs)
	}
}

func (i *BranchInstruction) RenameBlocks(oldIDs, newIDs []int) {
	i.TrueBlock = renameBlock(i.TrueBlock, oldIDs, newIDs)
	i.FalseBlock = renameBlock(i.FalseBlock, oldIDs, newIDs)
	i.EndBlock = renameBlock(i.EndBlock, oldIDs, newIDs)
}

func (i *WhileInstruction) RenameBlocks(oldIDs, newIDs []int) {
	i.LoopBlock = renameBlock(i.LoopBlock, oldIDs, newIDs)
	i.EndBlock = renameBlock(i.EndBlock, oldIDs, newIDs)
}

func (i *ForInstruction) RenameBlocks(oldIDs, newIDs []int) {
	i.LoopBlock = renameBlock(i.LoopBlock, oldIDs, newIDs)
	i.EndBlock = renameBlock(i.EndBlock, oldIDs, newIDs)
}

func (i *ArgumentInstruction) RenameBlocks([]int, []int)                        {}
func (i *AssignmentInstruction) RenameBlocks([]int, []int)                      {}
func (i *BuiltinVariableInstruction) RenameBlocks([]int, []int)                 {}
func (i *CommentInstruction) RenameBlocks([]int, []int)                         {}
func (i *LineInstruction) RenameBlocks([]int, []int)                            {}
func (i *BreakInstruction) RenameBlocks([]int, []int)                           {}
func (i *ContinueInstruction) RenameBlocks([]int, []int)                        {}
func (i *IterInstruction) RenameBlocks([]int, []int)                            {}
func (i *ReadGlobalInstruction) RenameBlocks([]int, []int)                      {}
func (i *WriteGlobalInstruction) RenameBlocks([]int, []int)                     {}
func (i *MatrixGetInstruction) RenameBlocks([]int, []int)                       {}
func (i *MatrixSetInstruction) RenameBlocks([]int, []int)                       {}
func (i *CellGetInstruction) RenameBlocks([]int, []int)                         {}
func (i *CellSetInstruction) RenameBlocks([]int, []int)                         {}
func (i *CellMakeRowInstruction) RenameBlocks([]int, []int)                     {}
func (i *EndInstruction) RenameBlocks([]int, []int)                             {}
func (i *UntypedFunctionCallInstruction) RenameBlocks([]int, []int)             {}
func (i *StringInstruction) RenameBlocks([]int, []int)                          {}
func (i *VerticalFlattenInstruction) RenameBlocks([]int, []int)                 {}
func (i *ValidateBooleanInstruction) RenameBlocks([]int, []int)                 {}
func (i *ValidateAtLeastOneEmptyMatrixInstruction) RenameBlocks([]int, []int)   {}
func (i *SpecializeDirectiveInstruction) RenameBlocks([]int, []int)             {}
func (i *AssumeIndicesInRangeDirectiveInstruction) RenameBlocks([]int, []int)   {}
func (i *AssumeMatrixSizesMatchDirectiveInstruction) RenameBlocks([]int, []int) {}
func (i *DisableOptimizationDirectiveInstruction) RenameBlocks([]int, []int)    {}

// Block splitting. When a block is split in two, phis that named the original
// block as a predecessor now come from the end half.

func (i *PhiInstruction) BreakBlock(originalBlock, startBlock, endBlock int) {
	for idx, id := range i.SourceBlocks {
		if id == originalBlock {
			i.SourceBlocks[idx] = endBlock
		}
	}
}

func (i *ArgumentInstruction) BreakBlock(int, int, int)                        {}
func (i *AssignmentInstruction) BreakBlock(int, int, int)                      {}
func (i *BuiltinVariableInstruction) BreakBlock(int, int, int)                 {}
func (i *CommentInstruction) BreakBlock(int, int, int)                         {}
func (i *LineInstruction) BreakBlock(int, int, int)                            {}
func (i *BranchInstruction) BreakBlock(int, int, int)                          {}
func (i *WhileInstruction) BreakBlock(int, int, int)                           {}
func (i *ForInstruction) BreakBlock(int, int, int)                             {}
func (i *BreakInstruction) BreakBlock(int, int, int)                           {}
func (i *ContinueInstruction) BreakBlock(int, int, int)                        {}
func (i *IterInstruction) BreakBlock(int, int, int)                            {}
func (i *ReadGlobalInstruction) BreakBlock(int, int, int)                      {}
func (i *WriteGlobalInstruction) BreakBlock(int, int, int)                     {}
func (i *MatrixGetInstruction) BreakBlock(int, int, int)                       {}
func (i *MatrixSetInstruction) BreakBlock(int, int, int)                       {}
func (i *CellGetInstruction) BreakBlock(int, int, int)                         {}
func (i *CellSetInstruction) BreakBlock(int, int, int)                         {}
func (i *CellMakeRowInstruction) BreakBlock(int, int, int)                     {}
func (i *EndInstruction) BreakBlock(int, int, int)                             {}
func (i *UntypedFunctionCallInstruction) BreakBlock(int, int, int)             {}
func (i *StringInstruction) BreakBlock(int, int, int)                          {}
func (i *VerticalFlattenInstruction) BreakBlock(int, int, int)                 {}
func (i *ValidateBooleanInstruction) BreakBlock(int, int, int)                 {}
func (i *ValidateAtLeastOneEmptyMatrixInstruction) BreakBlock(int, int, int)   {}
func (i *SpecializeDirectiveInstruction) BreakBlock(int, int, int)             {}
func (i *AssumeIndicesInRangeDirectiveInstruction) BreakBlock(int, int, int)   {}
func (i *AssumeMatrixSizesMatchDirectiveInstruction) BreakBlock(int, int, int) {}
func (i *DisableOptimizationDirectiveInstruction) BreakBlock(int, int, int)    {}
