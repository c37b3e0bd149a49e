package offensive

import (
	"fmt"
	"sync"

	"github.com/randalmurphal/offensive/pkg/offensive/operation"
	"github.com/randalmurphal/offensive/pkg/offensive/registry"
)

var (
	catalogOnce      sync.Once
	catalogAsserts   *registry.Registry[assertionEntry]
	catalogOperators *registry.Registry[operatorEntry]
)

// catalog returns the built-in tables. Checkers clone them, so the
// originals are never modified after this call.
func catalog() (*registry.Registry[assertionEntry], *registry.Registry[operatorEntry]) {
	catalogOnce.Do(func() {
		catalogAsserts = registry.New[assertionEntry]()
		catalogOperators = registry.New[operatorEntry]()

		for _, group := range []map[string]assertionEntry{
			typeAssertions,
			valueAssertions,
			compareAssertions,
			structureAssertions,
		} {
			must(catalogAsserts.RegisterMany(group))
		}
		must(catalogOperators.RegisterMany(builtinOperators))

		for alias, target := range assertionAliases {
			must(catalogAsserts.Alias(alias, target))
		}
		for alias, target := range operatorAliases {
			must(catalogOperators.Alias(alias, target))
		}
	})
	return catalogAsserts, catalogOperators
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("offensive: built-in catalogue: %v", err))
	}
}

// assertionAliases maps alternative names to built-in assertions.
var assertionAliases = map[string]string{
	"true":      "True",
	"false":     "False",
	"nil":       "Nil",
	"null":      "Null",
	"empty":     "Empty",
	"equalTo":   "equal",
	"deepEqual": "equal",
	"gt":        "greaterThan",
	"gte":       "greaterThanOrEqualTo",
	"lt":        "lessThan",
	"lte":       "lessThanOrEqualTo",
	"prop":      "property",
	"len":       "length",
}

// operatorAliases maps alternative names to built-in operators.
var operatorAliases = map[string]string{
	"with": "and",
	"of":   "and",
}

// predicate turns a check of the subject's value into an assertion.
func predicate(check func(any) bool) AssertionFunc {
	return func(_ *operation.Operation, _ *Context, _ []any) (Outcome, error) {
		return Operand(check), nil
	}
}

// arg returns the i-th argument or a structural error naming the assertion.
func arg(op *operation.Operation, args []any, i int) (any, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("%w: %s requires %d argument(s), got %d", ErrInvalidArgument, op.Name, i+1, len(args))
	}
	return args[i], nil
}
