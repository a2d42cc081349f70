package ssa

import "fmt"

// LoopProperty annotates a for loop. Properties are collected by directives that
// must immediately precede the loop.
type LoopProperty interface {
	String() string
	loopProperty()
}

// InfusibleProperty prevents the loop from being fused with its neighbours
type InfusibleProperty struct{}

// EstimatedIterationsProperty is a hint for later cost models
type EstimatedIterationsProperty struct {
	Iterations int
}

func (InfusibleProperty) loopProperty()           {}
func (EstimatedIterationsProperty) loopProperty() {}

func (InfusibleProperty) String() string { return "infusible" }
func (p EstimatedIterationsProperty) String() string {
	return fmt.Sprintf("estimated_iterations %d", p.Iterations)
}

// FunctionProperty is metadata attached to a whole function body
type FunctionProperty interface {
	String() string
	functionProperty()
}

// ExportProperty exposes the function under a stable ABI name
type ExportProperty struct {
	ABIName string
}

// DumpSsaProperty asks the driver to print the function after construction
type DumpSsaProperty struct{}

func (ExportProperty) functionProperty()  {}
func (DumpSsaProperty) functionProperty() {}

func (p ExportProperty) String() string {
	if p.ABIName == "" {
		return "export"
	}
	return "export " + p.ABIName
}

func (DumpSsaProperty) String() string { return "dump_ssa" }

// HasProperty reports whether a property of type T is present
func HasProperty[T any, P fmt.Stringer](properties []P) bool {
	for _, p := range properties {
		if _, ok := any(p).(T); ok {
			return true
		}
	}
	return false
}

// FindProperty returns the first property of type T
func FindProperty[T any, P fmt.Stringer](properties []P) (T, bool) {
	for _, p := range properties {
		if t, ok := any(p).(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
