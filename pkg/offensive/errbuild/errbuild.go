// Package errbuild renders the failure message of an assertion chain from
// its recorded operation tree.
//
// Code here only runs after a chain has failed, so it favours a readable
// pipeline over speed. Each stage is a pure function over a list:
//
//  1. flatten: operations without a message are replaced by their children
//  2. merge: operator messages become prefixes of the next assertion
//  3. dedupe: consecutive assertions with the same target and message collapse
//  4. group: consecutive assertions on the same target share one sentence
//  5. render: "<binary> <target> must be <unary> <conditions>; got <value>"
package errbuild

import (
	"strings"

	"github.com/randalmurphal/offensive/pkg/offensive/operation"
	"github.com/randalmurphal/offensive/pkg/offensive/stack"
	"github.com/randalmurphal/offensive/pkg/offensive/value"
)

// ErrTwoBinaryOperators indicates two binary operators were recorded without
// an assertion between them. It is a bug in the chain's construction.
var ErrTwoBinaryOperators = stack.ErrTwoBinaryOperators

// operators holds the operator messages preceding an assertion.
type operators struct {
	unary  []string
	binary string
}

func (o operators) unaryPrefix() string {
	if len(o.unary) == 0 {
		return ""
	}
	return strings.Join(o.unary, " ") + " "
}

func (o operators) binaryPrefix() string {
	if o.binary == "" {
		return ""
	}
	return o.binary + " "
}

func (o operators) full() string {
	return o.binaryPrefix() + o.unaryPrefix()
}

// entry is an assertion together with its merged operators.
type entry struct {
	op   *operation.Operation
	ops  operators
	text string
}

func (e entry) target() string {
	if e.op.Getter == nil {
		return ""
	}
	return e.op.Getter.Name()
}

func (e entry) result() bool {
	ok, set := e.op.Result()
	return ok || !set
}

// group is a run of entries sharing one target.
type group struct {
	ops        operators
	getter     operation.Getter
	conditions []string
	result     bool
}

// Build renders the message for the given top-level operations.
func Build(ops []*operation.Operation) (string, error) {
	merged, err := merge(flatten(ops, nil))
	if err != nil {
		return "", err
	}
	groups := groupByTarget(dedupe(merged))
	if len(groups) > 0 {
		// nothing precedes the first group for its operator to join
		groups[0].ops.binary = ""
	}

	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		parts = append(parts, g.render())
	}
	return strings.Join(parts, " "), nil
}

func flatten(ops []*operation.Operation, out []*operation.Operation) []*operation.Operation {
	for _, op := range ops {
		if op.HasMessage() {
			out = append(out, op)
			continue
		}
		out = flatten(op.Children, out)
	}
	return out
}

func merge(ops []*operation.Operation) ([]entry, error) {
	var (
		out     []entry
		pending operators
	)
	for _, op := range ops {
		switch op.Kind {
		case operation.KindUnary:
			pending.unary = append(pending.unary, op.MessageText())
		case operation.KindBinary:
			if pending.binary != "" {
				return nil, ErrTwoBinaryOperators
			}
			pending.binary = op.MessageText()
		default:
			out = append(out, entry{op: op, ops: pending, text: op.MessageText()})
			pending = operators{}
		}
	}
	return out, nil
}

func dedupe(entries []entry) []entry {
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		if n := len(out); n > 0 && out[n-1].text == e.text && out[n-1].target() == e.target() {
			continue
		}
		out = append(out, e)
	}
	return out
}

func groupByTarget(entries []entry) []*group {
	var groups []*group
	for _, e := range entries {
		var current *group
		if n := len(groups); n > 0 && e.op.Getter != nil && groups[n-1].getter != nil &&
			groups[n-1].getter.Name() == e.target() {
			current = groups[n-1]
			current.conditions = append(current.conditions, e.ops.full()+e.text)
		} else {
			// the first assertion's operators belong to the whole group
			current = &group{ops: e.ops, getter: e.op.Getter, conditions: []string{e.text}, result: true}
			groups = append(groups, current)
		}
		current.result = current.result && e.result()
	}
	return groups
}

func (g *group) render() string {
	conditions := strings.Join(g.conditions, " ")
	if g.getter == nil {
		return g.ops.binaryPrefix() + g.ops.unaryPrefix() + conditions
	}
	return g.ops.binaryPrefix() + g.getter.Name() + " must be " + g.ops.unaryPrefix() + conditions +
		"; got " + value.Describe(g.getter.Value())
}
