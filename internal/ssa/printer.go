package ssa

import (
	"fmt"
	"strings"
)

// Printer provides pretty-printing for SSA function bodies
type Printer struct {
	indent int
	output strings.Builder
}

// NewPrinter creates a new SSA printer
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the string representation of a function body
func Print(body *FunctionBody) string {
	p := NewPrinter()
	p.printFunction(body)
	return p.output.String()
}

// Helper methods

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printFunction(body *FunctionBody) {
	if body.Name != "" {
		p.writeLine("Function %s", body.Name)
	} else {
		p.writeLine("Script")
	}

	if len(body.Properties) > 0 {
		props := make([]string, len(body.Properties))
		for i, prop := range body.Properties {
			props[i] = prop.String()
		}
		p.writeLine("[%s]", strings.Join(props, ", "))
	}

	if byRef := body.ByRef(); len(byRef) > 0 {
		p.writeLine("By Ref: [%s]", strings.Join(byRef, ", "))
	}

	for id, block := range body.Blocks {
		p.writeLine("block #%d:", id)
		p.indent++
		p.printBlock(block)
		p.indent--
	}
}

func (p *Printer) printBlock(block *Block) {
	for _, inst := range block.Instructions {
		p.writeLine("%s", inst.String())
	}
}
