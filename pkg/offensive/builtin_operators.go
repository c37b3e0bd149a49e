package offensive

import (
	"github.com/randalmurphal/offensive/pkg/offensive/operation"
	"github.com/randalmurphal/offensive/pkg/offensive/result"
)

var builtinOperators = map[string]operatorEntry{
	"not": {kind: operation.KindUnary, impl: unary(result.Not), template: "not"},
	"and": {kind: operation.KindBinary, impl: binary(result.And), template: "and"},
	"or":  {kind: operation.KindBinary, impl: binary(result.OrPair), template: "or"},
}

func unary(apply result.UnaryFunc) OperatorFunc {
	return func(_ *operation.Operation, _ *Context) (Outcome, error) {
		return Unary(apply), nil
	}
}

func binary(apply result.BinaryFunc) OperatorFunc {
	return func(_ *operation.Operation, _ *Context) (Outcome, error) {
		return Binary(apply), nil
	}
}
