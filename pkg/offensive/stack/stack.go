// Package stack implements the expression stack: a small stack of scopes
// that folds operand results under the operators in effect and settles a
// single Result when it unwinds to depth zero.
//
// Within a scope operands combine with AND unless a binary operator is
// pending, in which case that operator combines the accumulated result with
// the next operand. Unary operators wait for the next operand and transform
// it before it is combined. A scope that is popped with at least one operand
// becomes an operand of its parent scope, so pending operators of the parent
// apply to the whole nested expression. An empty scope contributes nothing.
//
// All operands are evaluated, even after the outcome of a scope is known,
// so failure messages can describe the whole expression.
package stack

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/offensive/pkg/offensive/result"
)

// Sentinel errors for malformed stack usage. They indicate a bug in an
// assertion implementation, not a failed assertion.
var (
	// ErrScopeMismatch indicates Pop was called with a name other than the
	// one given to the matching Push.
	ErrScopeMismatch = errors.New("scope name mismatch")

	// ErrStackUnderflow indicates an operation on a stack with no open scope.
	ErrStackUnderflow = errors.New("no open scope")

	// ErrDanglingOperator indicates a scope was closed while an operator was
	// still waiting for its operand.
	ErrDanglingOperator = errors.New("operator without operand")

	// ErrTwoBinaryOperators indicates a binary operator was added while
	// another one was still waiting for its operand.
	ErrTwoBinaryOperators = errors.New("two binary operators before one assertion")
)

type pendingUnary struct {
	apply    result.UnaryFunc
	onResult func(bool)
}

type pendingBinary struct {
	apply    result.BinaryFunc
	onResult func(bool)
}

// frame is one scope opened by Push.
type frame struct {
	name     string
	acc      result.Result
	operands int
	unary    []pendingUnary
	binary   *pendingBinary

	// deferred pop state, see PopWhenReady
	armed       bool
	armedAt     int
	onBeforePop func()
}

func (f *frame) pending() bool {
	return len(f.unary) > 0 || f.binary != nil
}

func (f *frame) ready() bool {
	return f.armed && f.operands > f.armedAt && !f.pending()
}

// Stack folds operand results scope by scope.
// A Stack is not safe for concurrent use; it belongs to one evaluation.
type Stack struct {
	frames  []frame
	onFlush func(result.Result)
	settled result.Result
	flushes int
}

// New creates an empty stack. onFlush is called with the settled result
// every time the stack returns to depth zero.
func New(onFlush func(result.Result)) *Stack {
	return &Stack{onFlush: onFlush}
}

// Depth returns the number of open scopes.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Name returns the name of the innermost scope, or "" if none is open.
func (s *Stack) Name() string {
	if len(s.frames) == 0 {
		return ""
	}
	return s.frames[len(s.frames)-1].name
}

// Result returns the current result of the innermost scope. A scope without
// operands is satisfied. At depth zero it returns the last settled result.
func (s *Stack) Result() result.Result {
	if len(s.frames) == 0 {
		return s.settled
	}
	f := &s.frames[len(s.frames)-1]
	if f.operands == 0 {
		return result.Of(true)
	}
	return f.acc
}

// Settled returns the result of the last flush and whether a flush happened.
func (s *Stack) Settled() (result.Result, bool) {
	return s.settled, s.flushes > 0
}

// Push opens a new scope.
func (s *Stack) Push(name string) {
	s.frames = append(s.frames, frame{name: name})
}

// AddOperand evaluates thunk and combines its result into the innermost
// scope. onResult receives the operand's own outcome, before any pending
// unary operator is applied.
func (s *Stack) AddOperand(thunk func() result.Result, onResult func(bool)) error {
	if len(s.frames) == 0 {
		return fmt.Errorf("add operand: %w", ErrStackUnderflow)
	}
	r := thunk()
	if onResult != nil {
		onResult(r.Success)
	}
	s.combine(r)
	s.popReady()
	return nil
}

// AddUnary registers an operator that transforms the next operand of the
// innermost scope.
func (s *Stack) AddUnary(apply result.UnaryFunc, onResult func(bool)) error {
	if len(s.frames) == 0 {
		return fmt.Errorf("add unary operator: %w", ErrStackUnderflow)
	}
	f := &s.frames[len(s.frames)-1]
	f.unary = append(f.unary, pendingUnary{apply: apply, onResult: onResult})
	return nil
}

// AddBinary registers an operator that combines the accumulated result of
// the innermost scope with its next operand. Only one binary operator can
// wait at a time.
func (s *Stack) AddBinary(apply result.BinaryFunc, onResult func(bool)) error {
	if len(s.frames) == 0 {
		return fmt.Errorf("add binary operator: %w", ErrStackUnderflow)
	}
	f := &s.frames[len(s.frames)-1]
	if f.binary != nil {
		return ErrTwoBinaryOperators
	}
	f.binary = &pendingBinary{apply: apply, onResult: onResult}
	return nil
}

// Pop closes the innermost scope, which must have been opened with name.
func (s *Stack) Pop(name string) error {
	if len(s.frames) == 0 {
		return fmt.Errorf("pop %q: %w", name, ErrStackUnderflow)
	}
	f := &s.frames[len(s.frames)-1]
	if f.name != name {
		return fmt.Errorf("%w: pop %q while %q is innermost", ErrScopeMismatch, name, f.name)
	}
	if f.pending() {
		return fmt.Errorf("pop %q: %w", name, ErrDanglingOperator)
	}
	s.popFrame()
	s.popReady()
	return nil
}

// ForcePop closes the innermost scope without checking its name or pending
// operators. Used to unwind after an evaluation was cut short.
func (s *Stack) ForcePop() error {
	if len(s.frames) == 0 {
		return fmt.Errorf("force pop: %w", ErrStackUnderflow)
	}
	s.popFrame()
	s.popReady()
	return nil
}

// PopWhenReady arms the innermost scope, which must have been opened with
// name, to close itself as soon as an operand was added after this call and
// no operator is pending. onBeforePop runs right before that happens.
func (s *Stack) PopWhenReady(name string, onBeforePop func()) error {
	if len(s.frames) == 0 {
		return fmt.Errorf("pop %q when ready: %w", name, ErrStackUnderflow)
	}
	f := &s.frames[len(s.frames)-1]
	if f.name != name {
		return fmt.Errorf("%w: pop %q when ready while %q is innermost", ErrScopeMismatch, name, f.name)
	}
	f.armed = true
	f.armedAt = f.operands
	f.onBeforePop = onBeforePop
	return nil
}

// ResetScope forgets everything the innermost scope accumulated so far.
func (s *Stack) ResetScope() error {
	if len(s.frames) == 0 {
		return fmt.Errorf("reset: %w", ErrStackUnderflow)
	}
	f := &s.frames[len(s.frames)-1]
	f.acc = result.Result{}
	f.operands = 0
	f.unary = nil
	f.binary = nil
	f.armedAt = 0
	return nil
}

// combine folds r into the innermost scope, applying pending operators.
func (s *Stack) combine(r result.Result) {
	f := &s.frames[len(s.frames)-1]

	for i := len(f.unary) - 1; i >= 0; i-- {
		u := f.unary[i]
		r = u.apply(r)
		if u.onResult != nil {
			u.onResult(r.Success)
		}
	}
	f.unary = nil

	switch {
	case f.operands == 0:
		f.acc = r
	case f.binary != nil:
		f.acc = f.binary.apply(f.acc, r)
	default:
		f.acc = result.And(f.acc, r)
	}
	if f.binary != nil {
		if f.binary.onResult != nil {
			f.binary.onResult(f.acc.Success)
		}
		f.binary = nil
	}
	f.operands++
}

// popFrame removes the innermost scope and hands its result to the parent,
// or flushes when the stack becomes empty.
func (s *Stack) popFrame() {
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	r := f.acc
	if f.operands == 0 {
		r = result.Of(true)
	}
	if len(s.frames) == 0 {
		s.flush(r)
		return
	}
	if f.operands > 0 {
		s.combine(r)
	}
}

// popReady closes armed scopes whose operand has arrived, innermost first.
func (s *Stack) popReady() {
	for len(s.frames) > 0 {
		f := &s.frames[len(s.frames)-1]
		if !f.ready() {
			return
		}
		if f.onBeforePop != nil {
			f.onBeforePop()
		}
		s.popFrame()
	}
}

func (s *Stack) flush(r result.Result) {
	s.settled = r
	s.flushes++
	if s.onFlush != nil {
		s.onFlush(r)
	}
}
