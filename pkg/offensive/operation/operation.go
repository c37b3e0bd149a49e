// Package operation records what an assertion chain executed: every
// assertion and operator, in call order, with the operations nested inside
// it. The recorded tree is what failure messages are rebuilt from.
package operation

import (
	"strings"
)

// Kind tells assertions and operators apart.
type Kind int

const (
	// KindRoot is the synthetic operation holding a chain's top-level list.
	KindRoot Kind = iota

	// KindAssertion is a leaf check against a value.
	KindAssertion

	// KindUnary is a prefix operator such as "not".
	KindUnary

	// KindBinary is a connective such as "and" or "or".
	KindBinary
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindAssertion:
		return "assertion"
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// IsOperator reports whether k is a unary or binary operator.
func (k Kind) IsOperator() bool {
	return k == KindUnary || k == KindBinary
}

// Operation is one recorded step of an assertion chain.
type Operation struct {
	Kind Kind
	Name string
	Args []any

	// Children are the operations executed while this one was running, or
	// while a scope it pushed was open.
	Children []*Operation

	// Message holds the condition fragments (e.g. "a number", "> 0").
	// An operation without a message is a pure composite and is replaced by
	// its children when messages are built.
	Message []string

	// Getter names the sub-value an assertion examined. Nil for structural
	// assertions that do not inspect the tested value.
	Getter Getter

	result    bool
	hasResult bool
}

// New creates an operation of the given kind.
func New(kind Kind, name string, args []any) *Operation {
	if args == nil {
		args = []any{}
	}
	return &Operation{Kind: kind, Name: name, Args: args}
}

// NewRoot creates the holder of a chain's top-level operations.
func NewRoot() *Operation {
	return New(KindRoot, "", nil)
}

// SetMessage replaces the message fragments.
func (o *Operation) SetMessage(fragments ...string) {
	o.Message = fragments
}

// ClearMessage turns the operation into a pure composite.
func (o *Operation) ClearMessage() {
	o.Message = nil
}

// HasMessage reports whether any message fragment is non-empty.
func (o *Operation) HasMessage() bool {
	for _, f := range o.Message {
		if f != "" {
			return true
		}
	}
	return false
}

// MessageText joins the message fragments with spaces.
func (o *Operation) MessageText() string {
	parts := make([]string, 0, len(o.Message))
	for _, f := range o.Message {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}

// SetResult stores the settled boolean once the operation's operand (or
// operator application) was combined on the expression stack.
func (o *Operation) SetResult(success bool) {
	o.result = success
	o.hasResult = true
}

// Result returns the stored result and whether one was stored.
func (o *Operation) Result() (success, ok bool) {
	return o.result, o.hasResult
}

// Append records a child operation.
func (o *Operation) Append(child *Operation) {
	o.Children = append(o.Children, child)
}

// Truncate drops children from index n onwards.
func (o *Operation) Truncate(n int) {
	if n < 0 || n >= len(o.Children) {
		return
	}
	for i := n; i < len(o.Children); i++ {
		o.Children[i] = nil
	}
	o.Children = o.Children[:n]
}

// Walk visits o and its descendants depth-first. Returning false from fn
// skips the children of that operation.
func (o *Operation) Walk(fn func(*Operation) bool) {
	if !fn(o) {
		return
	}
	for _, child := range o.Children {
		child.Walk(fn)
	}
}

// Names returns the names of o's descendants in depth-first order.
func (o *Operation) Names() []string {
	var names []string
	for _, child := range o.Children {
		child.Walk(func(op *Operation) bool {
			names = append(names, op.Name)
			return true
		})
	}
	return names
}
