package offensive

import (
	"reflect"

	"github.com/randalmurphal/offensive/pkg/offensive/operation"
	"github.com/randalmurphal/offensive/pkg/offensive/value"
)

func kindIs(kind string) AssertionFunc {
	return predicate(func(v any) bool { return value.Kind(v) == kind })
}

var typeAssertions = map[string]assertionEntry{
	"aNumber":   {impl: predicate(value.IsNumber), template: "a number"},
	"aString":   {impl: kindIs("string"), template: "a string"},
	"aBoolean":  {impl: kindIs("boolean"), template: "a boolean"},
	"anArray":   {impl: kindIs("array"), template: "an array"},
	"anObject":  {impl: kindIs("object"), template: "an object"},
	"aFunction": {impl: kindIs("function"), template: "a function"},
	"Nil":       {impl: predicate(value.IsNil), template: "nil"},
	"Null":      {impl: predicate(value.IsNil), template: "null"},
	"Empty":     {impl: predicate(value.IsEmpty), template: "empty"},
}

var valueAssertions = map[string]assertionEntry{
	"True":   {impl: predicate(func(v any) bool { return v == true }), template: "true"},
	"False":  {impl: predicate(func(v any) bool { return v == false }), template: "false"},
	"truthy": {impl: predicate(value.IsTruthy), template: "truthy"},
	"falsy":  {impl: predicate(func(v any) bool { return !value.IsTruthy(v) }), template: "falsy"},
	"exactly": {
		impl:     expectArg(exactly),
		template: "exactly ${expected}",
		params:   []string{"expected"},
	},
	"equal": {
		impl:     expectArg(value.Equal),
		template: "equal to ${expected}",
		params:   []string{"expected"},
	},
}

// exactly compares without numeric conversion: 1 and int64(1) differ.
func exactly(v, expected any) bool {
	if v == nil || expected == nil {
		return v == nil && expected == nil
	}
	if reflect.TypeOf(v) != reflect.TypeOf(expected) {
		return false
	}
	if reflect.TypeOf(v).Comparable() {
		return v == expected
	}
	return value.DeepEqual(v, expected)
}

// expectArg builds an assertion comparing the subject's value with the
// first argument.
func expectArg(match func(v, expected any) bool) AssertionFunc {
	return func(op *operation.Operation, _ *Context, args []any) (Outcome, error) {
		expected, err := arg(op, args, 0)
		if err != nil {
			return Continue(), err
		}
		return Operand(func(v any) bool { return match(v, expected) }), nil
	}
}
