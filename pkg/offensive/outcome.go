package offensive

import (
	"github.com/randalmurphal/offensive/pkg/offensive/result"
)

type outcomeKind int

const (
	outcomeContinue outcomeKind = iota
	outcomeOperand
	outcomeSettled
	outcomeUnary
	outcomeBinary
	outcomeUnwind
)

// Outcome is what an assertion or operator implementation hands back to the
// driver: nothing to add, an operand, an operator, or an instruction to
// unwind the expression stack because the result is already decided.
type Outcome struct {
	kind      outcomeKind
	predicate func(any) bool
	settled   result.Result
	unary     result.UnaryFunc
	binary    result.BinaryFunc
	depth     int
}

// Continue adds nothing to the expression. Structural assertions that only
// validate arguments, or push scopes, return it.
func Continue() Outcome {
	return Outcome{kind: outcomeContinue}
}

// Operand adds predicate as an operand. It is called with the value under
// test (the current subject), not with the value named by the operation's
// getter.
func Operand(predicate func(any) bool) Outcome {
	return Outcome{kind: outcomeOperand, predicate: predicate}
}

// Settled adds an operand whose Result is already known.
func Settled(r result.Result) Outcome {
	return Outcome{kind: outcomeSettled, settled: r}
}

// Unary registers an operator that transforms the next operand.
func Unary(apply result.UnaryFunc) Outcome {
	return Outcome{kind: outcomeUnary, unary: apply}
}

// Binary registers an operator that combines the accumulated result with
// the next operand.
func Binary(apply result.BinaryFunc) Outcome {
	return Outcome{kind: outcomeBinary, binary: apply}
}

// Aborted reports whether the outcome unwinds the evaluation. Implementations
// must return an aborted outcome unchanged.
func (o Outcome) Aborted() bool {
	return o.kind == outcomeUnwind
}

func (o Outcome) isOperand() bool {
	return o.kind == outcomeOperand || o.kind == outcomeSettled
}

func (o Outcome) isOperator() bool {
	return o.kind == outcomeUnary || o.kind == outcomeBinary
}

func unwindTo(depth int) Outcome {
	return Outcome{kind: outcomeUnwind, depth: depth}
}
