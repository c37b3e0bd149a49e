package offensive

import (
	"fmt"
	"regexp"

	"github.com/randalmurphal/offensive/pkg/offensive/operation"
	"github.com/randalmurphal/offensive/pkg/offensive/value"
)

// Assertions registered here without a template set their message while
// they run, or leave it empty to be described by what they recorded.
var structureAssertions = map[string]assertionEntry{
	"property":    {impl: property},
	"length":      {impl: length},
	"elementThat": {impl: elementThat},
	"keyThat":     {impl: keyThat},
	"oneOf": {
		impl:     oneOf,
		template: "one of ${options}",
		params:   []string{"options"},
	},
	"matches": {
		impl:     matches,
		template: "matching ${pattern}",
		params:   []string{"pattern"},
	},
}

// property checks a named sub-value. An empty subject fails with the
// emptiness message alone.
func property(op *operation.Operation, ctx *Context, args []any) (Outcome, error) {
	raw, err := arg(op, args, 0)
	if err != nil {
		return Continue(), err
	}
	if err := ctx.NewCheck(raw, "propertyName").Is().AString().Err(); err != nil {
		return Continue(), invalidArgument(err)
	}
	name := raw.(string)

	ctx.Push("property")
	ctx.Is().Not().Empty()
	if out := ctx.ResetOrFail(); out.Aborted() {
		return out, nil
	}
	if err := ctx.Pop("property"); err != nil {
		return Continue(), err
	}

	op.Getter = operation.Property(op.Getter, name)
	if len(args) > 1 {
		expected := args[1]
		op.SetMessage(value.Describe(expected))
		return Operand(func(v any) bool {
			got, ok := value.Property(v, name)
			return ok && value.Equal(got, expected)
		}), nil
	}
	op.SetMessage("not undefined")
	return Operand(func(v any) bool {
		_, ok := value.Property(v, name)
		return ok
	}), nil
}

// length checks the length of the subject. Values without a length fail
// and are reported as "<name>.length ... got undefined".
func length(op *operation.Operation, ctx *Context, args []any) (Outcome, error) {
	n, err := arg(op, args, 0)
	if err != nil {
		return Continue(), err
	}
	if err := ctx.NewCheck(n, "requiredLength").Is().ANumber().Err(); err != nil {
		return Continue(), invalidArgument(err)
	}
	op.Getter = operation.Length(op.Getter)
	op.SetMessage(value.Describe(n))
	return Operand(func(v any) bool {
		got, ok := value.Len(v)
		return ok && value.Equal(got, n)
	}), nil
}

func oneOf(op *operation.Operation, _ *Context, args []any) (Outcome, error) {
	raw, err := arg(op, args, 0)
	if err != nil {
		return Continue(), err
	}
	options, ok := raw.([]any)
	if !ok {
		return Continue(), fmt.Errorf("%w: options must be a []any, got %T", ErrInvalidArgument, raw)
	}
	return Operand(func(v any) bool {
		for _, option := range options {
			if value.Equal(v, option) {
				return true
			}
		}
		return false
	}), nil
}

func matches(op *operation.Operation, ctx *Context, args []any) (Outcome, error) {
	raw, err := arg(op, args, 0)
	if err != nil {
		return Continue(), err
	}
	if err := ctx.NewCheck(raw, "pattern").Is().AString().Err(); err != nil {
		return Continue(), invalidArgument(err)
	}
	re, err := regexp.Compile(raw.(string))
	if err != nil {
		return Continue(), fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return Operand(func(v any) bool {
		s, ok := v.(string)
		return ok && re.MatchString(s)
	}), nil
}

// elementThat opens a scope in which the rest of the chain examines one
// element, up to and including the next assertion.
func elementThat(op *operation.Operation, ctx *Context, args []any) (Outcome, error) {
	raw, err := arg(op, args, 0)
	if err != nil {
		return Continue(), err
	}
	index, err := toIndex(ctx, raw)
	if err != nil {
		return Continue(), err
	}
	return narrow(ctx, "elementThat", "anArray", operation.Element(op.Getter, index))
}

// keyThat is elementThat for a map key or struct field.
func keyThat(op *operation.Operation, ctx *Context, args []any) (Outcome, error) {
	raw, err := arg(op, args, 0)
	if err != nil {
		return Continue(), err
	}
	if err := ctx.NewCheck(raw, "key").Is().AString().Err(); err != nil {
		return Continue(), invalidArgument(err)
	}
	return narrow(ctx, "keyThat", "anObject", operation.Property(op.Getter, raw.(string)))
}

// narrow checks the container with the given assertion, then re-targets
// the chain to sub until the next operand. When the container check fails
// it stays in the expression, joined to the sub-value check with "and".
func narrow(ctx *Context, scope, container string, sub operation.Getter) (Outcome, error) {
	ctx.Push(scope)
	ctx.Assert(container)
	if ctx.Result().Success {
		if err := ctx.Reset(); err != nil {
			return Continue(), err
		}
	} else {
		ctx.Operator("and")
	}
	if err := ctx.PushSubject(sub); err != nil {
		return Continue(), err
	}
	if err := ctx.PopWhenReady(scope); err != nil {
		return Continue(), err
	}
	return Continue(), nil
}

func toIndex(ctx *Context, raw any) (int, error) {
	if err := ctx.NewCheck(raw, "index").Is().ANumber().Err(); err != nil {
		return 0, invalidArgument(err)
	}
	d, _ := value.ToDecimal(raw)
	if !d.IsInteger() || d.Sign() < 0 {
		return 0, fmt.Errorf("%w: index must be a non-negative integer, got %s", ErrInvalidArgument, d)
	}
	return int(d.IntPart()), nil
}
