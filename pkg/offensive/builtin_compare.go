package offensive

import (
	"github.com/randalmurphal/offensive/pkg/offensive/operation"
	"github.com/randalmurphal/offensive/pkg/offensive/value"
)

var compareAssertions = map[string]assertionEntry{
	"greaterThan": {
		impl:     compareWith(func(c int) bool { return c > 0 }),
		template: "> ${than}",
		params:   []string{"than"},
	},
	"greaterThanOrEqualTo": {
		impl:     compareWith(func(c int) bool { return c >= 0 }),
		template: ">= ${than}",
		params:   []string{"than"},
	},
	"lessThan": {
		impl:     compareWith(func(c int) bool { return c < 0 }),
		template: "< ${than}",
		params:   []string{"than"},
	},
	"lessThanOrEqualTo": {
		impl:     compareWith(func(c int) bool { return c <= 0 }),
		template: "<= ${than}",
		params:   []string{"than"},
	},
	"zero":     {impl: signIs(func(c int) bool { return c == 0 }), template: "zero"},
	"positive": {impl: signIs(func(c int) bool { return c > 0 }), template: "positive"},
	"negative": {impl: signIs(func(c int) bool { return c < 0 }), template: "negative"},
}

// compareWith builds an ordering assertion against a numeric argument.
// Values that are not numbers never satisfy it.
func compareWith(accept func(int) bool) AssertionFunc {
	return func(op *operation.Operation, ctx *Context, args []any) (Outcome, error) {
		than, err := arg(op, args, 0)
		if err != nil {
			return Continue(), err
		}
		if err := ctx.NewCheck(than, "than").Is().ANumber().Err(); err != nil {
			return Continue(), invalidArgument(err)
		}
		return Operand(func(v any) bool {
			c, ok := value.Compare(v, than)
			return ok && accept(c)
		}), nil
	}
}

func signIs(accept func(int) bool) AssertionFunc {
	return predicate(func(v any) bool {
		d, ok := value.ToDecimal(v)
		return ok && accept(d.Sign())
	})
}
