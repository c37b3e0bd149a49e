package operation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/offensive/pkg/offensive/value"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "root", KindRoot.String())
	assert.Equal(t, "assertion", KindAssertion.String())
	assert.Equal(t, "unary", KindUnary.String())
	assert.Equal(t, "binary", KindBinary.String())
	assert.Equal(t, "unknown", Kind(42).String())

	assert.True(t, KindUnary.IsOperator())
	assert.True(t, KindBinary.IsOperator())
	assert.False(t, KindAssertion.IsOperator())
}

func TestOperation_Message(t *testing.T) {
	op := New(KindAssertion, "property", []any{"foo", 2})
	assert.False(t, op.HasMessage())

	op.SetMessage("", "")
	assert.False(t, op.HasMessage(), "blank fragments do not count")

	op.SetMessage("be", "", "2")
	assert.True(t, op.HasMessage())
	assert.Equal(t, "be 2", op.MessageText())

	op.ClearMessage()
	assert.False(t, op.HasMessage())
}

func TestOperation_Result(t *testing.T) {
	op := New(KindAssertion, "aNumber", nil)
	_, ok := op.Result()
	assert.False(t, ok)

	op.SetResult(false)
	got, ok := op.Result()
	assert.True(t, ok)
	assert.False(t, got)
}

func TestOperation_TruncateAndWalk(t *testing.T) {
	root := NewRoot()
	a := New(KindAssertion, "a", nil)
	a.Append(New(KindUnary, "not", nil))
	a.Append(New(KindAssertion, "Empty", nil))
	root.Append(a)
	root.Append(New(KindBinary, "and", nil))
	root.Append(New(KindAssertion, "b", nil))

	assert.Equal(t, []string{"a", "not", "Empty", "and", "b"}, root.Names())

	root.Truncate(1)
	assert.Equal(t, []string{"a", "not", "Empty"}, root.Names())

	root.Truncate(5)
	assert.Len(t, root.Children, 1)

	var visited []string
	root.Walk(func(op *Operation) bool {
		visited = append(visited, op.Name)
		return op.Kind == KindRoot
	})
	assert.Equal(t, []string{"", "a"}, visited)
}

func TestGetters(t *testing.T) {
	data := map[string]any{"foo": 1, "items": []int{4, 5}}
	subject := Subject("x", data)

	assert.Equal(t, "x", subject.Name())

	foo := Property(subject, "foo")
	assert.Equal(t, "x.foo", foo.Name())
	assert.Equal(t, 1, foo.Value())

	data["foo"] = 7
	assert.Equal(t, 7, foo.Value(), "getters read the current value")

	items := Property(subject, "items")
	assert.Equal(t, "x.items.length", Length(items).Name())
	assert.Equal(t, 2, Length(items).Value())

	second := Element(items, 1)
	assert.Equal(t, "x.items[1]", second.Name())
	assert.Equal(t, 5, second.Value())

	assert.True(t, value.IsUndefined(Element(items, 9).Value()))
	assert.True(t, value.IsUndefined(Length(Subject("n", 3)).Value()))
	assert.True(t, value.IsUndefined(Property(subject, "missing").Value()))
}
