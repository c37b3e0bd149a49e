package errbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/offensive/pkg/offensive/operation"
)

func assertion(getter operation.Getter, msg string) *operation.Operation {
	op := operation.New(operation.KindAssertion, "a", nil)
	op.Getter = getter
	op.SetMessage(msg)
	op.SetResult(false)
	return op
}

func unary(msg string) *operation.Operation {
	op := operation.New(operation.KindUnary, msg, nil)
	op.SetMessage(msg)
	return op
}

func binary(msg string) *operation.Operation {
	op := operation.New(operation.KindBinary, msg, nil)
	op.SetMessage(msg)
	return op
}

func composite(children ...*operation.Operation) *operation.Operation {
	op := operation.New(operation.KindAssertion, "composite", nil)
	op.Children = children
	return op
}

func TestBuild_OrJoining(t *testing.T) {
	obj0 := operation.Subject("obj0", 5)
	obj1 := operation.Subject("obj1", 6)

	tests := []struct {
		name string
		ops  []*operation.Operation
		want string
	}{
		{
			name: "same target",
			ops: []*operation.Operation{
				assertion(obj0, "0"), binary("or"), assertion(obj0, "1"), binary("or"), assertion(obj0, "2"),
			},
			want: "obj0 must be 0 or 1 or 2; got 5",
		},
		{
			name: "target changes for the last operand",
			ops: []*operation.Operation{
				assertion(obj0, "0"), binary("or"), assertion(obj0, "1"), binary("or"), assertion(obj1, "2"),
			},
			want: "obj0 must be 0 or 1; got 5 or obj1 must be 2; got 6",
		},
		{
			name: "target changes for the second operand",
			ops: []*operation.Operation{
				assertion(obj0, "0"), binary("or"), assertion(obj1, "1"), binary("or"), assertion(obj1, "2"),
			},
			want: "obj0 must be 0; got 5 or obj1 must be 1 or 2; got 6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.ops)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_UnaryPrefixes(t *testing.T) {
	arg := operation.Subject("arg", -1000000)

	got, err := Build([]*operation.Operation{unary("not"), assertion(arg, "< 0")})
	require.NoError(t, err)
	assert.Equal(t, "arg must be not < 0; got -1000000", got)

	got, err = Build([]*operation.Operation{
		assertion(arg, "a number"), binary("and"), unary("not"), assertion(arg, "< 0"),
	})
	require.NoError(t, err)
	assert.Equal(t, "arg must be a number and not < 0; got -1000000", got)
}

func TestBuild_FlattensComposites(t *testing.T) {
	x := operation.Subject("x", map[string]any{})

	got, err := Build([]*operation.Operation{
		composite(unary("not"), assertion(x, "empty")),
	})
	require.NoError(t, err)
	assert.Equal(t, "x must be not empty; got map[]", got)

	// composites nest
	got, err = Build([]*operation.Operation{
		assertion(x, "an object"),
		binary("and"),
		composite(composite(unary("not"), assertion(x, "empty"))),
	})
	require.NoError(t, err)
	assert.Equal(t, "x must be an object and not empty; got map[]", got)
}

func TestBuild_TwoBinaryOperators(t *testing.T) {
	x := operation.Subject("x", 1)
	_, err := Build([]*operation.Operation{
		assertion(x, "a number"), binary("and"), binary("or"), assertion(x, "> 0"),
	})
	require.ErrorIs(t, err, ErrTwoBinaryOperators)
}

func TestBuild_Deduplicates(t *testing.T) {
	x := operation.Subject("x", "a")
	got, err := Build([]*operation.Operation{
		assertion(x, "a number"), binary("and"), assertion(x, "a number"),
	})
	require.NoError(t, err)
	assert.Equal(t, `x must be a number; got "a"`, got)
}

func TestDedupe_Idempotent(t *testing.T) {
	x := operation.Subject("x", 1)
	y := operation.Subject("y", 2)
	merged, err := merge(flatten([]*operation.Operation{
		assertion(x, "a number"), assertion(x, "a number"), assertion(y, "a number"),
		assertion(y, "a number"), assertion(x, "a number"), assertion(x, "> 0"),
	}, nil))
	require.NoError(t, err)

	once := dedupe(merged)
	twice := dedupe(once)
	assert.Len(t, once, 4)
	assert.Equal(t, once, twice)
}

func TestBuild_AbsentGetterIsVerbatim(t *testing.T) {
	x := operation.Subject("x", 1)
	got, err := Build([]*operation.Operation{
		assertion(x, "a string"),
		binary("or"),
		assertion(nil, "requiredLength must be a number"),
		binary("or"),
		assertion(x, "empty"),
	})
	require.NoError(t, err)
	assert.Equal(t, "x must be a string; got 1 or requiredLength must be a number or x must be empty; got 1", got)
}

func TestBuild_LeadingBinaryOperatorIsDropped(t *testing.T) {
	x := operation.Subject("x", 5)
	tests := []struct {
		name string
		ops  []*operation.Operation
		want string
	}{
		{
			name: "discarded left operand",
			ops:  []*operation.Operation{composite(), binary("and"), assertion(x, "negative")},
			want: "x must be negative; got 5",
		},
		{
			name: "discarded left operand without getter",
			ops:  []*operation.Operation{composite(), binary("or"), assertion(nil, "index must be a number")},
			want: "index must be a number",
		},
		{
			name: "later groups keep their operator",
			ops: []*operation.Operation{
				composite(), binary("and"), assertion(x, "negative"),
				binary("or"), assertion(operation.Length(x), "3"),
			},
			want: "x must be negative; got 5 or x.length must be 3; got undefined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.ops)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuild_PropertyTargets(t *testing.T) {
	data := map[string]any{"foo": 1}
	x := operation.Subject("x", data)
	got, err := Build([]*operation.Operation{assertion(operation.Property(x, "foo"), "2")})
	require.NoError(t, err)
	assert.Equal(t, "x.foo must be 2; got 1", got)

	data["foo"] = 3
	got, err = Build([]*operation.Operation{assertion(operation.Property(x, "foo"), "2")})
	require.NoError(t, err)
	assert.Equal(t, "x.foo must be 2; got 3", got, "values are read at build time")
}

func TestGroupByTarget_Results(t *testing.T) {
	x := operation.Subject("x", 1)
	pass := assertion(x, "a number")
	pass.SetResult(true)
	merged, err := merge([]*operation.Operation{pass, binary("and"), assertion(x, "> 5")})
	require.NoError(t, err)

	groups := groupByTarget(merged)
	require.Len(t, groups, 1)
	assert.False(t, groups[0].result)
	assert.Equal(t, []string{"a number", "and > 5"}, groups[0].conditions)
}

func TestBuild_Empty(t *testing.T) {
	got, err := Build(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
