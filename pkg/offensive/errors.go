package offensive

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/offensive/pkg/offensive/stack"
)

// ErrAssertionFailed is matched by every *AssertionError.
var ErrAssertionFailed = errors.New("assertion failed")

// Sentinel errors for malformed chains and assertion implementations.
// They are always wrapped in a *StructuralError.
var (
	// ErrScopeMismatch indicates Pop was called with a name other than the
	// one given to the matching Push.
	ErrScopeMismatch = stack.ErrScopeMismatch

	// ErrStackUnderflow indicates a scope operation with no open scope.
	ErrStackUnderflow = stack.ErrStackUnderflow

	// ErrDanglingOperator indicates a chain or scope ended with an operator
	// still waiting for its operand.
	ErrDanglingOperator = stack.ErrDanglingOperator

	// ErrTwoBinaryOperators indicates two binary operators were recorded
	// without an assertion between them.
	ErrTwoBinaryOperators = stack.ErrTwoBinaryOperators

	// ErrUnclosedScope indicates a chain was settled while a scope pushed by
	// an assertion was still open.
	ErrUnclosedScope = errors.New("scope left open")

	// ErrBadOutcome indicates an implementation returned an outcome that does
	// not fit its kind, such as an operand from an operator.
	ErrBadOutcome = errors.New("unexpected outcome")

	// ErrUnknownAssertion indicates a lookup of an unregistered assertion.
	ErrUnknownAssertion = errors.New("unknown assertion")

	// ErrUnknownOperator indicates a lookup of an unregistered operator.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrInvalidArgument indicates a built-in assertion got an argument it
	// cannot work with, or a registration was malformed.
	ErrInvalidArgument = errors.New("invalid argument")
)

// AssertionError reports that the value under test did not satisfy the chain.
type AssertionError struct {
	// Name is the name the value was checked under.
	Name string
	// Message describes the whole failed expression.
	Message string
	// ErrorName is the checker's error name (default "ContractError").
	ErrorName string
	// EvaluationID identifies the chain in logs, spans and the journal.
	EvaluationID string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return e.ErrorName + ": " + e.Message
}

// Unwrap returns ErrAssertionFailed for errors.Is support.
func (e *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}

// StructuralError reports a bug in a chain or an assertion implementation.
// It is never merged into an assertion failure message.
type StructuralError struct {
	// Op is the assertion, operator or scope operation that failed.
	Op string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return fmt.Sprintf("malformed check at %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StructuralError) Unwrap() error {
	return e.Err
}

// PanicError captures a panic raised by an assertion or operator
// implementation.
type PanicError struct {
	// Op is the assertion or operator that panicked.
	Op string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s panicked: %v", e.Op, e.Value)
}

// invalidArgument wraps the failure of an argument check.
func invalidArgument(err error) error {
	var failed *AssertionError
	if errors.As(err, &failed) {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, failed.Message)
	}
	return err
}
