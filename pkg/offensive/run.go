package offensive

import (
	"fmt"
	"runtime/debug"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/offensive/pkg/offensive/errbuild"
	"github.com/randalmurphal/offensive/pkg/offensive/observability"
	"github.com/randalmurphal/offensive/pkg/offensive/operation"
	"github.com/randalmurphal/offensive/pkg/offensive/result"
	"github.com/randalmurphal/offensive/pkg/offensive/value"
)

// AssertionFunc implements an assertion. op is the recorded operation: the
// implementation may set its Getter or message. args are the arguments the
// assertion was called with.
//
// It returns Operand to add a check, Continue for no operand, or the
// aborted outcome of ResetOrFail. A non-nil error is a structural error.
type AssertionFunc func(op *operation.Operation, ctx *Context, args []any) (Outcome, error)

// OperatorFunc implements an operator. It returns Unary or Binary matching
// the kind it was registered with, or Continue.
type OperatorFunc func(op *operation.Operation, ctx *Context) (Outcome, error)

// Assert runs the registered assertion name against the current subject.
func (c *Context) Assert(name string, args ...any) *OperatorContext {
	if c.inactive() {
		return c.operators
	}
	entry, ok := c.checker.assertions.Get(name)
	if !ok {
		c.fail(name, fmt.Errorf("%w: %q", ErrUnknownAssertion, name))
		return c.operators
	}
	message, err := c.checker.expand(entry.template, entry.params, args)
	if err != nil {
		c.fail(name, err)
		return c.operators
	}
	c.assert(name, entry.impl, message, args)
	return c.operators
}

// AssertWith runs impl as an assertion without registering it.
func (c *Context) AssertWith(name string, impl AssertionFunc, args ...any) *OperatorContext {
	if c.inactive() {
		return c.operators
	}
	c.assert(name, impl, "", args)
	return c.operators
}

// Operator applies the registered operator name.
func (c *Context) Operator(name string) *AssertionContext {
	if c.inactive() {
		return c.assertions
	}
	entry, ok := c.checker.operators.Get(name)
	if !ok {
		c.fail(name, fmt.Errorf("%w: %q", ErrUnknownOperator, name))
		return c.assertions
	}
	c.operator(name, entry.kind, entry.impl, entry.template)
	return c.assertions
}

// OperatorWith applies impl as an operator of the given kind without
// registering it.
func (c *Context) OperatorWith(name string, kind operation.Kind, impl OperatorFunc) *AssertionContext {
	if c.inactive() {
		return c.assertions
	}
	if !kind.IsOperator() {
		c.fail(name, fmt.Errorf("%w: operator kind %s", ErrInvalidArgument, kind))
		return c.assertions
	}
	c.operator(name, kind, impl, name)
	return c.assertions
}

func (c *Context) assert(name string, impl AssertionFunc, message string, args []any) {
	op := operation.New(operation.KindAssertion, name, args)
	subject := c.Subject()
	op.Getter = subject
	op.SetMessage(message)

	out, ok := c.run(op, func() (Outcome, error) { return impl(op, c, args) })
	if !ok {
		return
	}
	switch {
	case out.kind == outcomeContinue:
	case out.isOperand():
		if err := c.stack.AddOperand(c.operand(op, subject, out), op.SetResult); err != nil {
			c.fail(name, err)
		}
	default:
		c.fail(name, fmt.Errorf("%w: assertion returned an operator", ErrBadOutcome))
	}
}

func (c *Context) operator(name string, kind operation.Kind, impl OperatorFunc, message string) {
	op := operation.New(kind, name, nil)
	op.SetMessage(message)

	out, ok := c.run(op, func() (Outcome, error) { return impl(op, c) })
	if !ok {
		return
	}
	var err error
	switch {
	case out.kind == outcomeContinue:
	case out.kind == outcomeUnary && kind == operation.KindUnary:
		err = c.stack.AddUnary(out.unary, op.SetResult)
	case out.kind == outcomeBinary && kind == operation.KindBinary:
		err = c.stack.AddBinary(out.binary, op.SetResult)
	default:
		err = fmt.Errorf("%w: %s operator returned a different outcome", ErrBadOutcome, kind)
	}
	if err != nil {
		c.fail(name, err)
	}
}

// run records op, makes it the running operation and calls the
// implementation. An aborted outcome is absorbed here: the stack is
// unwound to the depth op started at and the chain goes on.
func (c *Context) run(op *operation.Operation, call func() (Outcome, error)) (Outcome, bool) {
	c.record(op)
	previous := c.current
	c.current = op
	c.runDepths = append(c.runDepths, c.stack.Depth())

	out, err := c.safeCall(op.Name, call)

	c.runDepths = c.runDepths[:len(c.runDepths)-1]
	c.current = previous

	if err != nil {
		c.fail(op.Name, err)
		return Outcome{}, false
	}
	if c.err != nil {
		return Outcome{}, false
	}
	if out.Aborted() {
		c.unwind(op.Name, out.depth)
		return Continue(), true
	}
	return out, true
}

func (c *Context) safeCall(name string, call func() (Outcome, error)) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Op: name, Value: r, Stack: string(debug.Stack())}
		}
	}()
	return call()
}

// unwind force-pops scopes down to depth. The root scope is never popped.
func (c *Context) unwind(name string, depth int) {
	from := c.stack.Depth()
	for c.stack.Depth() > depth && c.stack.Depth() > 1 {
		c.restoreScope()
		if err := c.stack.ForcePop(); err != nil {
			c.fail(name, err)
			return
		}
	}
	observability.LogAbort(c.logger, name, from, c.stack.Depth())
	if !c.nested {
		c.checker.metrics.RecordAbort(c.goctx, name)
		c.checker.spans.AddSpanEvent(c.goctx, "abort",
			attribute.String("operation", name),
			attribute.Int("from_depth", from),
		)
	}
}

// operand builds the thunk the expression stack evaluates. The predicate
// sees the subject's value; the message describes op's getter.
func (c *Context) operand(op *operation.Operation, subject operation.Getter, out Outcome) func() result.Result {
	if out.kind == outcomeSettled {
		return func() result.Result { return out.settled }
	}
	return func() result.Result {
		ok := c.evaluate(op.Name, out.predicate, subject.Value())
		return result.New(ok, func() []result.Message { return describe(op) })
	}
}

func (c *Context) evaluate(name string, predicate func(any) bool, v any) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.fail(name, &PanicError{Op: name, Value: r, Stack: string(debug.Stack())})
			ok = false
		}
	}()
	return predicate(v)
}

func describe(op *operation.Operation) []result.Message {
	m := result.Message{Requirement: "be " + op.MessageText()}
	if op.Getter != nil {
		m.Object = op.Getter.Name()
		m.Value = value.Describe(op.Getter.Value())
		m.HasValue = true
	}
	return []result.Message{m}
}

// settle closes the root scope, which flushes the stack. It runs once; later
// calls return the same error.
func (c *Context) settle() error {
	if c.settled {
		return c.outcome()
	}
	if c.err == nil {
		if c.stack.Depth() > 1 {
			name := c.stack.Name()
			c.fail(name, fmt.Errorf("%w: %q", ErrUnclosedScope, name))
		} else if err := c.stack.Pop(rootScope); err != nil {
			c.fail("settle", err)
		}
	}
	c.settled = true
	if !c.nested {
		c.checker.finish(c)
	}
	return c.outcome()
}

func (c *Context) outcome() error {
	if c.err != nil {
		return c.err
	}
	if c.failure != nil {
		return c.failure
	}
	return nil
}

// flush receives the settled result when the stack returns to depth zero.
func (c *Context) flush(r result.Result) {
	if r.Success {
		return
	}
	msg, err := errbuild.Build(c.root.Children)
	if err != nil {
		c.fail("message", err)
		return
	}
	c.message = msg
	if c.onError != nil {
		c.onError(c)
	}
}
