package offensive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/offensive/pkg/offensive/value"
)

// failure returns the message of an *AssertionError, failing the test for
// any other error.
func failure(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAssertionFailed)
	var failed *AssertionError
	require.ErrorAs(t, err, &failed)
	return failed.Message
}

// exactValue registers an assertion whose message is just the expected value.
func exactValue(t *testing.T, c *Checker) {
	t.Helper()
	require.NoError(t, c.Register("be", expectArg(value.Equal), "${expected}", "expected"))
}

func TestCheck_AndComposition(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		wantMsg string
	}{
		{"number above zero", 5, ""},
		{"float above zero", 0.5, ""},
		{"negative number", -1, "x must be a number and > 0; got -1"},
		{"zero", 0, "x must be a number and > 0; got 0"},
		{"string", "a", `x must be a number and > 0; got "a"`},
		{"nil", nil, "x must be a number and > 0; got nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.value, "x").Is().ANumber().And().Gt(0).Err()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantMsg, failure(t, err))
			assert.Equal(t, "ContractError: "+tt.wantMsg, err.Error())
		})
	}
}

func TestCheck_AndAliases(t *testing.T) {
	for _, op := range []string{"and", "with", "of"} {
		t.Run(op, func(t *testing.T) {
			err := Check(-1, "x").Is().ANumber().Operator(op).Positive().Err()
			assert.Equal(t, "x must be a number and positive; got -1", failure(t, err))
		})
	}

	err := Check(2, "x").Is().Positive().With().Lt(3).Of().Gte(2).Err()
	assert.NoError(t, err)
}

func TestCheck_OrJoining(t *testing.T) {
	c := New()
	exactValue(t, c)

	chain := func(v any) *OperatorContext {
		return c.Check(v, "x").Is().Assert("be", 0).Or().Assert("be", 1).Or().Assert("be", 2)
	}

	for _, v := range []any{0, 1, 2} {
		assert.NoError(t, chain(v).Err(), "value %v", v)
	}

	assert.Equal(t, "x must be 0 or 1 or 2; got 5", failure(t, chain(5).Err()))

	r := chain(5).Result()
	assert.False(t, r.Success)
	assert.Equal(t, "x must be 0 or 1 or 2; got 5", r.Message())
}

func TestCheck_OrFoldsLeftToRight(t *testing.T) {
	// (number or string) and positive
	err := Check("a", "x").Is().ANumber().Or().AString().And().Positive().Err()
	assert.Equal(t, `x must be a number or a string and positive; got "a"`, failure(t, err))

	assert.NoError(t, Check(3, "x").Is().AString().Or().ANumber().And().Positive().Err())
}

func TestCheck_Deduplicates(t *testing.T) {
	err := Check("a", "x").Is().ANumber().And().ANumber().Err()
	assert.Equal(t, `x must be a number; got "a"`, failure(t, err))
}

func TestCheck_LessThan(t *testing.T) {
	t.Run("is lt 0", func(t *testing.T) {
		tests := []struct {
			value any
			want  string
		}{
			{1000000, "arg must be < 0; got 1000000"},
			{1, "arg must be < 0; got 1"},
			{0, "arg must be < 0; got 0"},
			{true, "arg must be < 0; got true"},
			{false, "arg must be < 0; got false"},
			{nil, "arg must be < 0; got nil"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, failure(t, Check(tt.value, "arg").Is().Lt(0).Err()))
			assert.Equal(t, tt.want, Check(tt.value, "arg").Is().Lt(0).Result().Message())
		}
		assert.NoError(t, Check(-1, "arg").Is().Lt(0).Err())
	})

	t.Run("isnt lt 0", func(t *testing.T) {
		err := Check(-1000000, "arg").Isnt().Lt(0).Err()
		assert.Equal(t, "arg must be not < 0; got -1000000", failure(t, err))

		r := Check(-1000000, "arg").Isnt().Lt(0).Result()
		assert.False(t, r.Success)
		assert.Equal(t, "arg must not be < 0; got -1000000", r.Message())

		assert.NoError(t, Check(0, "arg").Isnt().Lt(0).Err())
		assert.NoError(t, Check(1, "arg").Isnt().Lt(0).Err())
	})
}

func TestCheck_DoubleNegation(t *testing.T) {
	assert.NoError(t, Check(1, "x").Is().Not().Not().Positive().Err())
	err := Check(1, "x").Is().Not().Not().Negative().Err()
	assert.Equal(t, "x must be not not negative; got 1", failure(t, err))
}

func TestCheck_PropertyPrecondition(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		chain   func(a *AssertionContext) *OperatorContext
		wantMsg string
	}{
		{
			name:    "empty object reports the emptiness",
			value:   map[string]any{},
			chain:   func(a *AssertionContext) *OperatorContext { return a.Property("foo") },
			wantMsg: "x must be not empty; got map[]",
		},
		{
			name:    "nil reports the emptiness",
			value:   nil,
			chain:   func(a *AssertionContext) *OperatorContext { return a.Property("foo") },
			wantMsg: "x must be not empty; got nil",
		},
		{
			name:  "defined property",
			value: map[string]any{"foo": 1},
			chain: func(a *AssertionContext) *OperatorContext { return a.Property("foo") },
		},
		{
			name:    "missing property",
			value:   map[string]any{"bar": 1},
			chain:   func(a *AssertionContext) *OperatorContext { return a.Property("foo") },
			wantMsg: "x.foo must be not undefined; got undefined",
		},
		{
			name:    "property with another value",
			value:   map[string]any{"foo": 1},
			chain:   func(a *AssertionContext) *OperatorContext { return a.Property("foo", 2) },
			wantMsg: "x.foo must be 2; got 1",
		},
		{
			name:  "property with the value",
			value: map[string]any{"foo": 2},
			chain: func(a *AssertionContext) *OperatorContext { return a.Prop("foo", 2) },
		},
		{
			name:    "struct field",
			value:   struct{ Name string }{Name: "alice"},
			chain:   func(a *AssertionContext) *OperatorContext { return a.Property("Name", "bob") },
			wantMsg: `x.Name must be "bob"; got "alice"`,
		},
		{
			name:  "precondition joins the chain",
			value: map[string]any{},
			chain: func(a *AssertionContext) *OperatorContext {
				return a.AnObject().And().Has().Property("foo")
			},
			wantMsg: "x must be an object and not empty; got map[]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.chain(Check(tt.value, "x").Has()).Err()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantMsg, failure(t, err))
		})
	}
}

func TestCheck_PropertyPassedPreconditionLeavesNoTrace(t *testing.T) {
	chain := Check(map[string]any{"foo": 1}, "x").Has().Property("foo")
	require.NoError(t, chain.Err())

	ops := chain.Context().Operations()
	require.Len(t, ops, 1)
	assert.Equal(t, "property", ops[0].Name)
	assert.Empty(t, ops[0].Children)
	assert.Equal(t, "x.foo", ops[0].Getter.Name())
}

func TestCheck_LengthAliasRoundTrip(t *testing.T) {
	values := []any{
		[]int{1, 2, 3},
		[]int{1},
		[]int{},
		"abc",
		"ab",
		map[string]int{"a": 1},
		[3]string{},
		5,
		nil,
	}

	for _, v := range values {
		long := Check(v, "x").Has().Length(3)
		short := Check(v, "x").Has().Len(3)
		longErr, shortErr := long.Err(), short.Err()

		assert.Equal(t, longErr == nil, shortErr == nil, "value %#v", v)
		assert.Equal(t, long.Message(), short.Message(), "value %#v", v)
	}

	assert.Equal(t, "x.length must be 3; got 0", Check([]int{}, "x").Has().Len(3).Message())
	assert.Equal(t, "x.length must be 3; got undefined", Check(5, "x").Has().Length(3).Message())
	assert.Empty(t, Check("abc", "x").Has().Length(3).Message())
}

func TestCheck_ElementThat(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		chain   func(a *AssertionContext) *OperatorContext
		wantMsg string
	}{
		{
			name:  "element passes",
			value: []any{1, "a"},
			chain: func(a *AssertionContext) *OperatorContext {
				return a.ElementThat(0).Which().Is().ANumber()
			},
		},
		{
			name:  "element fails",
			value: []any{1, "a"},
			chain: func(a *AssertionContext) *OperatorContext {
				return a.ElementThat(1).Which().Is().ANumber()
			},
			wantMsg: `list[1] must be a number; got "a"`,
		},
		{
			name:  "element out of range",
			value: []int{1},
			chain: func(a *AssertionContext) *OperatorContext {
				return a.ElementThat(3).Which().Is().ANumber()
			},
			wantMsg: "list[3] must be a number; got undefined",
		},
		{
			name:  "scope closes after one assertion",
			value: []int{1, 2},
			chain: func(a *AssertionContext) *OperatorContext {
				return a.ElementThat(0).Which().Is().ANumber().And().Has().Length(3)
			},
			wantMsg: "list[0] must be a number; got 1 and list.length must be 3; got 2",
		},
		{
			name:  "not an array",
			value: 5,
			chain: func(a *AssertionContext) *OperatorContext {
				return a.ElementThat(0).Which().Is().ANumber()
			},
			wantMsg: "list must be an array; got 5 and list[0] must be a number; got undefined",
		},
		{
			name:  "negated element",
			value: []int{-1},
			chain: func(a *AssertionContext) *OperatorContext {
				return a.Not().ElementThat(0).Which().Is().Negative()
			},
			wantMsg: "list[0] must be not negative; got -1",
		},
		{
			name:  "operators inside the element scope",
			value: []int{-1},
			chain: func(a *AssertionContext) *OperatorContext {
				return a.ElementThat(0).Which().Isnt().Negative()
			},
			wantMsg: "list[0] must be not negative; got -1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := tt.chain(Check(tt.value, "list").Has())
			err := chain.Err()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantMsg, failure(t, err))
			}
			assert.Equal(t, 0, chain.Context().Depth())
		})
	}
}

func TestCheck_KeyThat(t *testing.T) {
	cfg := map[string]any{"port": "80", "workers": 4}

	assert.NoError(t, Check(cfg, "cfg").Has().KeyThat("workers").Which().Is().Positive().Err())

	err := Check(cfg, "cfg").Has().KeyThat("port").That().Is().ANumber().Err()
	assert.Equal(t, `cfg.port must be a number; got "80"`, failure(t, err))

	err = Check([]int{}, "cfg").Has().KeyThat("port").That().Is().ANumber().Err()
	assert.Equal(t, "cfg must be an object; got [] and cfg.port must be a number; got undefined", failure(t, err))
}

func TestCheck_BuiltIns(t *testing.T) {
	type pair struct{ A, B int }

	tests := []struct {
		name  string
		chain func(a *AssertionContext) *OperatorContext
		pass  []any
		fail  []any
	}{
		{"ANumber", (*AssertionContext).ANumber, []any{1, -2.5, uint8(3)}, []any{"1", math.NaN(), math.Inf(1), nil}},
		{"AString", (*AssertionContext).AString, []any{"", "s"}, []any{1, []byte("s")}},
		{"ABoolean", (*AssertionContext).ABoolean, []any{true, false}, []any{0, "true"}},
		{"AnArray", (*AssertionContext).AnArray, []any{[]int{}, [2]int{}}, []any{"abc", map[string]int{}}},
		{"AnObject", (*AssertionContext).AnObject, []any{map[string]int{}, pair{}, &pair{}}, []any{[]int{}, 1}},
		{"AFunction", (*AssertionContext).AFunction, []any{func() {}}, []any{1, nil}},
		{"Nil", (*AssertionContext).Nil, []any{nil, (*int)(nil), []int(nil)}, []any{0, ""}},
		{"Null", (*AssertionContext).Null, []any{nil}, []any{false}},
		{"Empty", (*AssertionContext).Empty, []any{nil, "", []int{}, map[string]int{}}, []any{"a", []int{0}, 0}},
		{"True", (*AssertionContext).True, []any{true}, []any{1, "true", false}},
		{"False", (*AssertionContext).False, []any{false}, []any{0, nil, true}},
		{"Truthy", (*AssertionContext).Truthy, []any{1, "a", []int{1}, pair{}}, []any{0, "", nil, false, []int{}}},
		{"Falsy", (*AssertionContext).Falsy, []any{0, "", nil, false}, []any{1, "a"}},
		{"Zero", (*AssertionContext).Zero, []any{0, 0.0, int64(0)}, []any{1, "0", nil}},
		{"Positive", (*AssertionContext).Positive, []any{1, 0.1}, []any{0, -1, "1"}},
		{"Negative", (*AssertionContext).Negative, []any{-1, -0.1}, []any{0, 1}},
		{
			"Exactly",
			func(a *AssertionContext) *OperatorContext { return a.Exactly(1) },
			[]any{1},
			[]any{int64(1), 1.0, "1"},
		},
		{
			"Equal",
			func(a *AssertionContext) *OperatorContext { return a.Equal(1) },
			[]any{1, int64(1), 1.0},
			[]any{2, "1", nil},
		},
		{
			"DeepEqual",
			func(a *AssertionContext) *OperatorContext { return a.DeepEqual(pair{A: 1, B: 2}) },
			[]any{pair{A: 1, B: 2}},
			[]any{pair{A: 1}, &pair{A: 1, B: 2}},
		},
		{
			"EqualTo slices",
			func(a *AssertionContext) *OperatorContext { return a.EqualTo([]int{1, 2}) },
			[]any{[]int{1, 2}},
			[]any{[]int{2, 1}, []int64{1, 2}},
		},
		{
			"GreaterThan",
			func(a *AssertionContext) *OperatorContext { return a.GreaterThan(1) },
			[]any{2, 1.5},
			[]any{1, 0, "2"},
		},
		{
			"Gte",
			func(a *AssertionContext) *OperatorContext { return a.Gte(1) },
			[]any{1, 2},
			[]any{0.99},
		},
		{
			"LessThanOrEqualTo",
			func(a *AssertionContext) *OperatorContext { return a.LessThanOrEqualTo(1) },
			[]any{1, -5},
			[]any{1.01},
		},
		{
			"OneOf",
			func(a *AssertionContext) *OperatorContext { return a.OneOf("a", "b", 3) },
			[]any{"a", "b", 3, 3.0},
			[]any{"c", nil},
		},
		{
			"Matches",
			func(a *AssertionContext) *OperatorContext { return a.Matches("^[a-z]+$") },
			[]any{"abc"},
			[]any{"ABC", "", 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.pass {
				assert.NoError(t, tt.chain(Check(v, "x").Is()).Err(), "value %#v", v)
			}
			for _, v := range tt.fail {
				err := tt.chain(Check(v, "x").Is()).Err()
				assert.ErrorIs(t, err, ErrAssertionFailed, "value %#v", v)
			}
		})
	}
}

func TestCheck_BuiltInMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"one of", Check("c", "x").Is().OneOf("a", "b").Err(), `x must be one of [a b]; got "c"`},
		{"matching", Check("ABC", "x").Matches("^[a-z]+$").Err(), `x must be matching "^[a-z]+$"; got "ABC"`},
		{"exactly", Check(2, "x").Is().Exactly(1).Err(), "x must be exactly 1; got 2"},
		{"equal", Check("b", "x").Is().Equal("a").Err(), `x must be equal to "a"; got "b"`},
		{"gte", Check(1, "x").Is().Gte(2).Err(), "x must be >= 2; got 1"},
		{"nil", Check(0, "x").Is().Nil().Err(), "x must be nil; got 0"},
		{"truthy", Check("", "x").Is().Truthy().Err(), `x must be truthy; got ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, failure(t, tt.err))
		})
	}
}

func TestCheck_TerminalsSettleOnce(t *testing.T) {
	chain := Check(-1, "x").Is().Positive()

	first := chain.Err()
	second := chain.Err()
	require.Error(t, first)
	assert.Same(t, first, second)
	assert.Equal(t, "x must be positive; got -1", chain.Message())
	assert.False(t, chain.Result().Success)
	assert.Equal(t, 0, chain.Context().Depth())

	// calls after the terminal do nothing
	chain.And().Negative()
	assert.Same(t, first, chain.Err())
	assert.Len(t, chain.Context().Operations(), 1)
}

func TestCheck_Must(t *testing.T) {
	assert.NotPanics(t, func() { Check(1, "x").Is().Positive().Must() })
	assert.PanicsWithError(t, "ContractError: x must be positive; got 0", func() {
		Check(0, "x").Is().Positive().Must()
	})
}

func TestCheck_SuccessfulChainHasNoMessage(t *testing.T) {
	chain := Check(1, "x").Is().ANumber().And().Positive()
	r := chain.Result()
	assert.True(t, r.Success)
	assert.Empty(t, chain.Message())
	assert.NoError(t, chain.Err())
}
