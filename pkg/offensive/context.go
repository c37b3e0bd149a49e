package offensive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/offensive/pkg/offensive/observability"
	"github.com/randalmurphal/offensive/pkg/offensive/operation"
	"github.com/randalmurphal/offensive/pkg/offensive/result"
	"github.com/randalmurphal/offensive/pkg/offensive/stack"
)

// rootScope names the scope every Context opens on creation. The terminal
// call of the chain closes it.
const rootScope = "root"

// scope is one level of the recorder. Operations run while it is innermost
// are appended to owner's children; those from index first on belong to it.
type scope struct {
	owner    *operation.Operation
	first    int
	subjects int
}

// Context is the state of one assertion chain. It runs assertions and
// operators, records what ran, and feeds their operands to the expression
// stack.
//
// Assertion implementations receive the Context and may use its scope
// methods (Push, Pop, ForcePop, PopWhenReady, Reset, ResetOrFail) and
// NewCheck. A Context belongs to one goroutine.
type Context struct {
	checker *Checker
	onError func(*Context)
	nested  bool

	value any
	name  string

	root      *operation.Operation
	stack     *stack.Stack
	scopes    []scope
	current   *operation.Operation
	runDepths []int
	subjects  []operation.Getter

	err     error
	failure *AssertionError
	message string
	settled bool

	evaluationID string
	start        time.Time
	logger       *slog.Logger
	goctx        context.Context
	span         trace.Span

	assertions *AssertionContext
	operators  *OperatorContext
}

func newContext(checker *Checker, value any, name string, onError func(*Context)) *Context {
	root := operation.NewRoot()
	c := &Context{
		checker:  checker,
		onError:  onError,
		value:    value,
		name:     name,
		root:     root,
		scopes:   []scope{{owner: root, subjects: 1}},
		subjects: []operation.Getter{operation.Subject(name, value)},
		goctx:    context.Background(),
	}
	c.stack = stack.New(c.flush)
	c.stack.Push(rootScope)
	c.assertions = &AssertionContext{ctx: c}
	c.operators = &OperatorContext{ctx: c}
	return c
}

// Value returns the value under test.
func (c *Context) Value() any { return c.value }

// Name returns the name the value is checked under.
func (c *Context) Name() string { return c.name }

// EvaluationID identifies a top-level chain. Empty for NewCheck contexts.
func (c *Context) EvaluationID() string { return c.evaluationID }

// StackName returns the name of the innermost open scope.
func (c *Context) StackName() string { return c.stack.Name() }

// Depth returns the number of open scopes, including the root scope.
func (c *Context) Depth() int { return c.stack.Depth() }

// Result returns the current result of the innermost scope, or the settled
// result once the chain was terminated.
func (c *Context) Result() result.Result { return c.stack.Result() }

// Message returns the failure message. It is empty unless the chain was
// settled and failed.
func (c *Context) Message() string { return c.message }

// Operations returns the recorded top-level operations.
func (c *Context) Operations() []*operation.Operation { return c.root.Children }

// Subject returns the getter assertions currently examine.
func (c *Context) Subject() operation.Getter { return c.subjects[len(c.subjects)-1] }

// Is returns the assertion surface of the chain, for implementations that
// compose other assertions.
func (c *Context) Is() *AssertionContext { return c.assertions }

// Has is an alias of Is.
func (c *Context) Has() *AssertionContext { return c.assertions }

// NewCheck starts an independent chain, typically to validate the
// arguments of an assertion. Its result does not affect this chain.
func (c *Context) NewCheck(value any, name string) *AssertionContext {
	nested := newContext(c.checker, value, name, c.onError)
	nested.nested = true
	nested.logger = c.logger
	nested.goctx = c.goctx
	return nested.assertions
}

// Push opens a scope. Operations run until the matching pop are recorded
// as children of the running operation, and their operands combine into
// one operand of the enclosing scope.
func (c *Context) Push(name string) {
	if c.inactive() {
		return
	}
	owner := c.current
	if owner == nil {
		owner = c.scopes[len(c.scopes)-1].owner
	}
	c.scopes = append(c.scopes, scope{owner: owner, first: len(owner.Children), subjects: len(c.subjects)})
	c.stack.Push(name)
	observability.LogScope(c.logger, "push", name, c.stack.Depth())
}

// Pop closes the innermost scope, which must have been opened with name.
func (c *Context) Pop(name string) error {
	if c.inactive() {
		return c.err
	}
	if c.stack.Depth() <= 1 {
		return c.fail("pop", fmt.Errorf("pop %q: %w", name, ErrStackUnderflow))
	}
	if innermost := c.stack.Name(); innermost != name {
		return c.fail("pop", fmt.Errorf("%w: pop %q while %q is innermost", ErrScopeMismatch, name, innermost))
	}
	c.restoreScope()
	if err := c.stack.Pop(name); err != nil {
		return c.fail("pop", err)
	}
	observability.LogScope(c.logger, "pop", name, c.stack.Depth())
	return nil
}

// ForcePop closes the innermost scope whatever its name.
func (c *Context) ForcePop() error {
	if c.inactive() {
		return c.err
	}
	if c.stack.Depth() <= 1 {
		return c.fail("force pop", fmt.Errorf("force pop: %w", ErrStackUnderflow))
	}
	name := c.stack.Name()
	c.restoreScope()
	if err := c.stack.ForcePop(); err != nil {
		return c.fail("force pop", err)
	}
	observability.LogScope(c.logger, "force_pop", name, c.stack.Depth())
	return nil
}

// PopWhenReady closes the innermost scope, which must have been opened
// with name, right after the next operand was added to it and no operator
// is waiting. Assertions use it to apply the rest of the chain to a
// sub-value.
func (c *Context) PopWhenReady(name string) error {
	if c.inactive() {
		return c.err
	}
	if c.stack.Depth() <= 1 {
		return c.fail("pop when ready", fmt.Errorf("pop %q when ready: %w", name, ErrStackUnderflow))
	}
	err := c.stack.PopWhenReady(name, func() {
		c.restoreScope()
		observability.LogScope(c.logger, "auto_pop", name, c.stack.Depth()-1)
	})
	if err != nil {
		return c.fail("pop when ready", err)
	}
	return nil
}

// PushSubject makes getter the value examined by the following assertions
// until the innermost scope closes.
func (c *Context) PushSubject(getter operation.Getter) error {
	if c.inactive() {
		return c.err
	}
	if c.stack.Depth() <= 1 {
		return c.fail("push subject", fmt.Errorf("push subject %q outside a scope: %w", getter.Name(), ErrStackUnderflow))
	}
	c.subjects = append(c.subjects, getter)
	return nil
}

// Reset discards what the innermost scope recorded and accumulated so far.
func (c *Context) Reset() error {
	if c.inactive() {
		return c.err
	}
	top := c.scopes[len(c.scopes)-1]
	if err := c.stack.ResetScope(); err != nil {
		return c.fail("reset", err)
	}
	top.owner.Truncate(top.first)
	return nil
}

// ResetOrFail resets the innermost scope if its result is satisfied.
// Otherwise it returns an aborted outcome, which the implementation must
// return unchanged: the driver then unwinds the stack to where the running
// operation started and carries on with the chain.
func (c *Context) ResetOrFail() Outcome {
	if c.inactive() {
		return Continue()
	}
	if c.stack.Result().Success {
		_ = c.Reset()
		return Continue()
	}
	depth := 1
	if n := len(c.runDepths); n > 0 {
		depth = c.runDepths[n-1]
	}
	return unwindTo(depth)
}

func (c *Context) restoreScope() {
	top := c.scopes[len(c.scopes)-1]
	c.scopes = c.scopes[:len(c.scopes)-1]
	c.subjects = c.subjects[:top.subjects]
}

func (c *Context) record(op *operation.Operation) {
	c.scopes[len(c.scopes)-1].owner.Append(op)
}

func (c *Context) inactive() bool {
	return c.err != nil || c.settled
}

// fail records the first structural error. Later calls on the chain become
// no-ops and the terminal call returns it.
func (c *Context) fail(op string, err error) error {
	if c.err == nil {
		var structural *StructuralError
		if errors.As(err, &structural) {
			c.err = structural
		} else {
			c.err = &StructuralError{Op: op, Err: err}
		}
	}
	return c.err
}
