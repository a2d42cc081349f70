package builder

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"mlssa/internal/ast"
	"mlssa/internal/config"
	"mlssa/internal/errors"
	"mlssa/internal/parser"
	"mlssa/internal/ssa"
)

var programVariables = []string{"a", "b", "c"}

// genStatements draws a random statement list over a, b and c
func genStatements(t *rapid.T, depth int, inLoop bool) string {
	var sb strings.Builder
	count := rapid.IntRange(0, 4).Draw(t, "count")
	for range count {
		sb.WriteString(genStatement(t, depth, inLoop))
		sb.WriteString("\n")
	}
	return sb.String()
}

func genStatement(t *rapid.T, depth int, inLoop bool) string {
	target := rapid.SampledFrom(programVariables).Draw(t, "target")
	source := rapid.SampledFrom(programVariables).Draw(t, "source")

	kinds := []string{"assign", "call", "index", "short"}
	if depth > 0 {
		kinds = append(kinds, "if", "for", "while")
	}
	if inLoop {
		kinds = append(kinds, "break", "continue")
	}

	switch rapid.SampledFrom(kinds).Draw(t, "kind") {
	case "assign":
		return fmt.Sprintf("%s = %s;", target, source)
	case "call":
		return fmt.Sprintf("%s = %s + 1;", target, source)
	case "index":
		return fmt.Sprintf("%s(end) = %s;", target, source)
	case "short":
		return fmt.Sprintf("%s = %s && %s;", target, source, target)
	case "if":
		return fmt.Sprintf("if %s\n%selse\n%send", source,
			genStatements(t, depth-1, inLoop), genStatements(t, depth-1, inLoop))
	case "for":
		return fmt.Sprintf("for i = 1:n\n%send", genStatements(t, depth-1, true))
	case "while":
		return fmt.Sprintf("while %s\n%send", source, genStatements(t, depth-1, true))
	case "break":
		return "break;"
	default:
		return "continue;"
	}
}

func TestConstructionProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		source := "function [a, b] = f(a, n)\n" + genStatements(t, 3, false) + "end\n"

		file, err := parser.ParseSource("prop.m", source)
		if err != nil {
			t.Fatalf("parse failed: %v\n%s", err, source)
		}

		collector := errors.NewCollector("prop.m")
		body, err := BuildFunction(file.Functions[0], config.Default(), collector, nil)
		if err != nil {
			t.Fatalf("build failed: %v\n%s", err, source)
		}
		if collector.HasErrors() {
			t.Fatalf("unexpected diagnostics: %v\n%s", collector.Diagnostics(), source)
		}

		if err := ssa.Validate(body); err != nil {
			t.Fatalf("%v\n%s\n%s", err, source, body)
		}

		for _, phi := range ssa.InstructionsOf[*ssa.PhiInstruction](body) {
			if len(phi.Variables) != len(phi.SourceBlocks) {
				t.Fatalf("phi arity mismatch in %s", phi)
			}
		}
	})
}

// genIndex draws an index expression over v that uses end at any depth
func genIndex(t *rapid.T, depth int) string {
	choices := []string{"end", "1", "end - 1"}
	if depth > 0 {
		choices = append(choices, "v(IDX)", "IDX + IDX", "v(IDX, IDX)")
	}
	expr := rapid.SampledFrom(choices).Draw(t, "index")
	for strings.Contains(expr, "IDX") {
		expr = strings.Replace(expr, "IDX", genIndex(t, depth-1), 1)
	}
	return expr
}

func TestEndStackReentry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		source := fmt.Sprintf("function x = f(v)\nx = v(%s);\nend\n", genIndex(t, 3))

		file, err := parser.ParseSource("end.m", source)
		if err != nil {
			t.Fatalf("parse failed: %v\n%s", err, source)
		}
		assign := file.Functions[0].Body[0].(*ast.AssignStmt)

		body := ssa.NewFunctionBody("f", 1, []string{"v"}, []string{"x"})
		b := newBuilder(body, config.Default(), errors.NewCollector("end.m"), nil)
		ctx := newRootContext(body)
		ctx.setCurrentName("v", "v$1")
		ctx.PushEndContext("outer", "w$1", 0, 1)

		end, err := b.buildExpr(ctx, assign.Value, []string{"x$1"})
		if err != nil || end == nil {
			t.Fatalf("build failed: %v\n%s", err, source)
		}
		if len(end.ends) != 1 {
			t.Fatalf("end stack has %d frames after %s", len(end.ends), source)
		}
		if frame, _ := end.CurrentEndContext(); frame.Cause != "outer" {
			t.Fatalf("outer frame replaced by %+v", frame)
		}
	})
}

func TestTemporariesAreUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		body := ssa.NewFunctionBody("f", 1, nil, nil)
		tags := rapid.SliceOf(rapid.SampledFrom([]string{"start", "condition", "x", "x$1", "end"})).Draw(t, "tags")

		seen := make(map[string]bool)
		for _, tag := range tags {
			name := body.MakeTemporary(tag)
			if seen[name] {
				t.Fatalf("temporary %s minted twice", name)
			}
			seen[name] = true
		}
	})
}
