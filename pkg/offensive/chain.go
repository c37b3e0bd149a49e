package offensive

import (
	"github.com/randalmurphal/offensive/pkg/offensive/result"
)

// AssertionContext is the chain position where an assertion, a unary
// operator or a connector is expected.
type AssertionContext struct {
	ctx *Context
}

// OperatorContext is the chain position after an assertion: a binary
// operator or a terminal call is expected.
type OperatorContext struct {
	ctx *Context
}

// Context returns the chain's evaluation context.
func (a *AssertionContext) Context() *Context { return a.ctx }

// Connectors only make chains read like sentences. They record nothing.

// Is is a connector.
func (a *AssertionContext) Is() *AssertionContext { return a }

// Has is a connector.
func (a *AssertionContext) Has() *AssertionContext { return a }

// Does is a connector.
func (a *AssertionContext) Does() *AssertionContext { return a }

// Which is a connector.
func (a *AssertionContext) Which() *AssertionContext { return a }

// That is a connector.
func (a *AssertionContext) That() *AssertionContext { return a }

// Not negates the next assertion.
func (a *AssertionContext) Not() *AssertionContext { return a.ctx.Operator("not") }

// Isnt is Is followed by Not.
func (a *AssertionContext) Isnt() *AssertionContext { return a.Not() }

// Doesnt is Does followed by Not.
func (a *AssertionContext) Doesnt() *AssertionContext { return a.Not() }

// Assert runs a registered assertion by name.
func (a *AssertionContext) Assert(name string, args ...any) *OperatorContext {
	return a.ctx.Assert(name, args...)
}

// AssertWith runs impl as an assertion without registering it.
func (a *AssertionContext) AssertWith(name string, impl AssertionFunc, args ...any) *OperatorContext {
	return a.ctx.AssertWith(name, impl, args...)
}

// Operator applies a registered unary operator by name.
func (a *AssertionContext) Operator(name string) *AssertionContext {
	return a.ctx.Operator(name)
}

// ANumber checks for a numeric value. NaN and infinities are not numbers.
func (a *AssertionContext) ANumber() *OperatorContext { return a.ctx.Assert("aNumber") }

// AString checks for a string.
func (a *AssertionContext) AString() *OperatorContext { return a.ctx.Assert("aString") }

// ABoolean checks for a bool.
func (a *AssertionContext) ABoolean() *OperatorContext { return a.ctx.Assert("aBoolean") }

// AnArray checks for a slice or an array.
func (a *AssertionContext) AnArray() *OperatorContext { return a.ctx.Assert("anArray") }

// AnObject checks for a map, a struct or a pointer to a struct.
func (a *AssertionContext) AnObject() *OperatorContext { return a.ctx.Assert("anObject") }

// AFunction checks for a func value.
func (a *AssertionContext) AFunction() *OperatorContext { return a.ctx.Assert("aFunction") }

// Nil checks for nil, typed nils included.
func (a *AssertionContext) Nil() *OperatorContext { return a.ctx.Assert("Nil") }

// Null is Nil, reported as "null".
func (a *AssertionContext) Null() *OperatorContext { return a.ctx.Assert("Null") }

// Empty checks for nil, a missing value or a zero length.
func (a *AssertionContext) Empty() *OperatorContext { return a.ctx.Assert("Empty") }

// True checks for exactly true.
func (a *AssertionContext) True() *OperatorContext { return a.ctx.Assert("True") }

// False checks for exactly false.
func (a *AssertionContext) False() *OperatorContext { return a.ctx.Assert("False") }

// Truthy checks that the value is not nil, false, zero or empty.
func (a *AssertionContext) Truthy() *OperatorContext { return a.ctx.Assert("truthy") }

// Falsy is the negation of Truthy.
func (a *AssertionContext) Falsy() *OperatorContext { return a.ctx.Assert("falsy") }

// Exactly checks for a value identical to expected: same type, same value.
func (a *AssertionContext) Exactly(expected any) *OperatorContext {
	return a.ctx.Assert("exactly", expected)
}

// Equal checks for a value equal to expected. Numbers compare by value
// regardless of type; everything else compares structurally.
func (a *AssertionContext) Equal(expected any) *OperatorContext {
	return a.ctx.Assert("equal", expected)
}

// EqualTo is Equal.
func (a *AssertionContext) EqualTo(expected any) *OperatorContext {
	return a.ctx.Assert("equalTo", expected)
}

// DeepEqual is Equal.
func (a *AssertionContext) DeepEqual(expected any) *OperatorContext {
	return a.ctx.Assert("deepEqual", expected)
}

// GreaterThan checks for a number greater than than.
func (a *AssertionContext) GreaterThan(than any) *OperatorContext {
	return a.ctx.Assert("greaterThan", than)
}

// Gt is GreaterThan.
func (a *AssertionContext) Gt(than any) *OperatorContext { return a.ctx.Assert("gt", than) }

// GreaterThanOrEqualTo checks for a number greater than or equal to than.
func (a *AssertionContext) GreaterThanOrEqualTo(than any) *OperatorContext {
	return a.ctx.Assert("greaterThanOrEqualTo", than)
}

// Gte is GreaterThanOrEqualTo.
func (a *AssertionContext) Gte(than any) *OperatorContext { return a.ctx.Assert("gte", than) }

// LessThan checks for a number less than than.
func (a *AssertionContext) LessThan(than any) *OperatorContext {
	return a.ctx.Assert("lessThan", than)
}

// Lt is LessThan.
func (a *AssertionContext) Lt(than any) *OperatorContext { return a.ctx.Assert("lt", than) }

// LessThanOrEqualTo checks for a number less than or equal to than.
func (a *AssertionContext) LessThanOrEqualTo(than any) *OperatorContext {
	return a.ctx.Assert("lessThanOrEqualTo", than)
}

// Lte is LessThanOrEqualTo.
func (a *AssertionContext) Lte(than any) *OperatorContext { return a.ctx.Assert("lte", than) }

// Zero checks for a number equal to zero.
func (a *AssertionContext) Zero() *OperatorContext { return a.ctx.Assert("zero") }

// Positive checks for a number greater than zero.
func (a *AssertionContext) Positive() *OperatorContext { return a.ctx.Assert("positive") }

// Negative checks for a number less than zero.
func (a *AssertionContext) Negative() *OperatorContext { return a.ctx.Assert("negative") }

// Property checks that the value has the named map key or exported field.
// With a second argument the property must also equal it.
// Empty values fail before the property is looked at.
func (a *AssertionContext) Property(name string, expected ...any) *OperatorContext {
	return a.ctx.Assert("property", propertyArgs(name, expected)...)
}

// Prop is Property.
func (a *AssertionContext) Prop(name string, expected ...any) *OperatorContext {
	return a.ctx.Assert("prop", propertyArgs(name, expected)...)
}

func propertyArgs(name string, expected []any) []any {
	args := []any{name}
	if len(expected) > 0 {
		args = append(args, expected[0])
	}
	return args
}

// Length checks the length of a string, slice, array, map or channel.
func (a *AssertionContext) Length(n int) *OperatorContext { return a.ctx.Assert("length", n) }

// Len is Length.
func (a *AssertionContext) Len(n int) *OperatorContext { return a.ctx.Assert("len", n) }

// OneOf checks that the value equals one of options.
func (a *AssertionContext) OneOf(options ...any) *OperatorContext {
	return a.ctx.Assert("oneOf", options)
}

// Matches checks a string against a regular expression.
func (a *AssertionContext) Matches(pattern string) *OperatorContext {
	return a.ctx.Assert("matches", pattern)
}

// ElementThat applies the next assertion to the index-th element:
//
//	Check(list, "list").Has().ElementThat(0).Which().Is().ANumber()
//
// A value that is not an array fails, and the message still names the
// element.
func (a *AssertionContext) ElementThat(index int) *AssertionContext {
	a.ctx.Assert("elementThat", index)
	return a
}

// KeyThat applies the next assertion to the value under key.
func (a *AssertionContext) KeyThat(key string) *AssertionContext {
	a.ctx.Assert("keyThat", key)
	return a
}

// Context returns the chain's evaluation context.
func (o *OperatorContext) Context() *Context { return o.ctx }

// And requires the next assertion to hold as well.
func (o *OperatorContext) And() *AssertionContext { return o.ctx.Operator("and") }

// With is And.
func (o *OperatorContext) With() *AssertionContext { return o.ctx.Operator("with") }

// Of is And.
func (o *OperatorContext) Of() *AssertionContext { return o.ctx.Operator("of") }

// Or accepts the expression so far or the next assertion.
func (o *OperatorContext) Or() *AssertionContext { return o.ctx.Operator("or") }

// Operator applies a registered binary operator by name.
func (o *OperatorContext) Operator(name string) *AssertionContext {
	return o.ctx.Operator(name)
}

// Err settles the chain. It returns nil when the value satisfied it, an
// *AssertionError when it did not, and a *StructuralError when the chain
// or an assertion implementation was malformed. Repeated calls return the
// same error.
func (o *OperatorContext) Err() error {
	return o.ctx.settle()
}

// Must settles the chain and panics with the error, if any.
func (o *OperatorContext) Must() {
	if err := o.ctx.settle(); err != nil {
		panic(err)
	}
}

// Result settles the chain and returns its Result. Its message names each
// failed operand on its own ("x must not be < 0; got -1") rather than the
// grouped sentence of Err.
func (o *OperatorContext) Result() result.Result {
	err := o.ctx.settle()
	if o.ctx.err != nil {
		return result.Of(false, result.Message{Requirement: err.Error()})
	}
	return o.ctx.Result()
}

// Message settles the chain and returns the failure message, or "" if the
// value satisfied it.
func (o *OperatorContext) Message() string {
	if err := o.ctx.settle(); o.ctx.err != nil {
		return err.Error()
	}
	return o.ctx.message
}
