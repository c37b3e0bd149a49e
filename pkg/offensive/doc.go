/*
Package offensive provides fluent assertion chains that fail with one
readable sentence.

# Overview

A chain checks a value against composable predicates:

	err := offensive.Check(port, "port").Is().ANumber().And().Gt(0).Err()
	// port = "80": ContractError: port must be a number and > 0; got "80"

Every assertion and operator a chain runs is recorded. When the chain
fails, the message is rebuilt from that record: consecutive conditions on
the same value share a sentence, operators become prefixes of the
condition they apply to, and the current value is appended.

# Basic Usage

Start a chain with Check, or with Checker.Check for a configured Checker,
and end it with a terminal call:

	func NewServer(addr string, workers int) (*Server, error) {
	    if err := offensive.Check(addr, "addr").Is().AString().And().Not().Empty().Err(); err != nil {
	        return nil, err
	    }
	    if err := offensive.Check(workers, "workers").Is().Positive().And().Lte(64).Err(); err != nil {
	        return nil, err
	    }
	    ...
	}

Err returns nil, an *AssertionError (matching ErrAssertionFailed) or a
*StructuralError for a malformed chain. Must panics instead of returning.
Result returns the settled result.Result.

# Operators

Operands combine with AND unless an operator says otherwise. Binary
operators fold left to right:

	offensive.Check(x, "x").Is().Zero().Or().Equal(1).Or().Equal(2).Err()
	// x = 5: ContractError: x must be zero or equal to 1 or equal to 2; got 5

Not negates the next assertion. Isnt is Is followed by Not.

# Sub-values

Property, Length, ElementThat and KeyThat examine parts of the value. The
message names the part:

	offensive.Check(user, "user").Has().Property("Name", "bob").Err()
	// ContractError: user.Name must be "bob"; got "alice"

	offensive.Check(ids, "ids").Has().ElementThat(0).Which().Is().Positive().Err()
	// ContractError: ids[0] must be positive; got -3

# Custom Assertions

Assertions and operators are looked up by name in the Checker's tables.
Register adds new ones. An implementation returns an Outcome: an operand,
Continue for nothing, or the result of Context.ResetOrFail:

	checker := offensive.New()
	_ = checker.Register("port", func(op *operation.Operation, ctx *offensive.Context, args []any) (offensive.Outcome, error) {
	    ctx.Push("port")
	    ctx.Is().ANumber()
	    if out := ctx.ResetOrFail(); out.Aborted() {
	        return out, nil
	    }
	    if err := ctx.Pop("port"); err != nil {
	        return offensive.Continue(), err
	    }
	    return offensive.Operand(func(v any) bool {
	        c, ok := value.Compare(v, 65535)
	        return ok && c <= 0
	    }), nil
	}, "a port")

	err := checker.Check(p, "p").Is().Assert("port").Err()

Scopes opened with Context.Push combine everything added inside them into
one operand of the enclosing scope. ResetOrFail discards what a scope
recorded when it is satisfied; otherwise the evaluation is cut short and
only the failed precondition is reported.

# Observability

Checkers log settled chains through log/slog, record OpenTelemetry metrics
and spans, and can journal failures to memory or SQLite. All of it is off
by default; see WithLogger, WithMetricsEnabled, WithTracing, WithJournal
and OptionsFromConfig.

# Thread Safety

A Checker and the package-level Check are safe for concurrent use. A chain
belongs to the goroutine that started it.
*/
package offensive
