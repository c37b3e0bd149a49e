// Package result models the outcome of a single check: a success flag plus
// an explanation that is only rendered when somebody asks for it.
//
// Operators combine Results without touching their messages, so a chain that
// succeeds never pays for message building.
package result

import (
	"strings"
)

// Message is one "<object> must <requirement>; got <value>" statement.
type Message struct {
	// Object names the inspected value (e.g. "x" or "x.length").
	Object string
	// Requirement is the unmet condition, starting with its verb (e.g. "be 0").
	Requirement string
	// Value is the rendered current value. Only used when HasValue is set.
	Value    string
	HasValue bool
}

// String renders the message on its own.
func (m Message) String() string {
	return render([]Message{m}, "")
}

// Result is the outcome of evaluating an operand or a combination of operands.
type Result struct {
	// Success is true when the expression was satisfied.
	Success bool

	msg *lazy
}

type lazy struct {
	build func() []Message
	done  bool
	msgs  []Message
	text  string
	conj  string
}

func (l *lazy) resolve() {
	if l.done {
		return
	}
	l.done = true
	if l.build != nil {
		l.msgs = l.build()
	}
	l.text = render(l.msgs, l.conj)
}

// New returns a Result whose messages are produced by build on first use.
func New(success bool, build func() []Message) Result {
	return Result{Success: success, msg: &lazy{build: build}}
}

// Of returns a Result with precomputed messages.
func Of(success bool, msgs ...Message) Result {
	return Result{Success: success, msg: &lazy{build: func() []Message { return msgs }}}
}

// Messages returns the statements explaining this result.
func (r Result) Messages() []Message {
	if r.msg == nil {
		return nil
	}
	r.msg.resolve()
	return r.msg.msgs
}

// Message renders the explanation. Consecutive statements about the same
// object are merged ("x must be 0 or 1").
func (r Result) Message() string {
	if r.msg == nil {
		return ""
	}
	r.msg.resolve()
	return r.msg.text
}

// UnaryFunc transforms a single Result.
type UnaryFunc func(Result) Result

// BinaryFunc combines two Results.
type BinaryFunc func(lhs, rhs Result) Result

// Not negates a Result. Requirements get a "not" prefix.
func Not(operand Result) Result {
	return New(!operand.Success, func() []Message {
		in := operand.Messages()
		out := make([]Message, len(in))
		for i, m := range in {
			m.Requirement = "not " + m.Requirement
			out[i] = m
		}
		return out
	})
}

// And succeeds when both operands succeed. Its message explains the first
// failing operand only.
func And(lhs, rhs Result) Result {
	return New(lhs.Success && rhs.Success, func() []Message {
		if !lhs.Success {
			return lhs.Messages()
		}
		return rhs.Messages()
	})
}

// Or succeeds when any operand succeeds. Its message lists every operand,
// joined with "or".
func Or(operands ...Result) Result {
	success := false
	for _, op := range operands {
		success = success || op.Success
	}
	r := New(success, func() []Message {
		var msgs []Message
		for _, op := range operands {
			msgs = append(msgs, op.Messages()...)
		}
		return msgs
	})
	r.msg.conj = "or"
	return r
}

// OrPair is Or with the BinaryFunc signature.
func OrPair(lhs, rhs Result) Result {
	return Or(lhs, rhs)
}

// render joins messages with conj, merging runs that share an object so the
// object and the leading verb are written once.
func render(msgs []Message, conj string) string {
	if conj == "" {
		conj = "and"
	}
	var b strings.Builder
	var verb string
	for i, m := range msgs {
		sameObject := i > 0 && msgs[i-1].Object == m.Object
		if i > 0 {
			b.WriteString(" " + conj + " ")
		}
		requirement := m.Requirement
		if sameObject {
			if first, rest, ok := strings.Cut(requirement, " "); ok && first == verb {
				requirement = rest
			}
		} else {
			verb, _, _ = strings.Cut(requirement, " ")
			if m.Object != "" {
				b.WriteString(m.Object + " must ")
			}
		}
		b.WriteString(requirement)
		last := i == len(msgs)-1 || msgs[i+1].Object != m.Object
		if last && m.HasValue {
			b.WriteString("; got " + m.Value)
		}
	}
	return b.String()
}
