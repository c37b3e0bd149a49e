package operation

import (
	"fmt"

	"github.com/randalmurphal/offensive/pkg/offensive/value"
)

// Getter describes which sub-value an assertion examined. Assertions that
// share a getter name are grouped into one sentence when messages are built.
type Getter interface {
	// Name is the printable path of the sub-value (e.g. "x.length").
	Name() string

	// Value reads the sub-value. It is called when the message is built, so
	// it reflects the value at that time.
	Value() any
}

type subjectGetter struct {
	name  string
	value any
}

// Subject is the getter of the value under test itself.
func Subject(name string, v any) Getter {
	return subjectGetter{name: name, value: v}
}

func (g subjectGetter) Name() string { return g.name }
func (g subjectGetter) Value() any   { return g.value }

type propertyGetter struct {
	parent Getter
	prop   string
}

// Property is the getter of a named property of parent's value.
func Property(parent Getter, prop string) Getter {
	return propertyGetter{parent: parent, prop: prop}
}

func (g propertyGetter) Name() string { return g.parent.Name() + "." + g.prop }

func (g propertyGetter) Value() any {
	v, _ := value.Property(g.parent.Value(), g.prop)
	return v
}

type lengthGetter struct {
	parent Getter
}

// Length is the getter of the length of parent's value. Values without a
// length read as value.Undefined.
func Length(parent Getter) Getter {
	return lengthGetter{parent: parent}
}

func (g lengthGetter) Name() string { return g.parent.Name() + ".length" }

func (g lengthGetter) Value() any {
	n, ok := value.Len(g.parent.Value())
	if !ok {
		return value.Undefined
	}
	return n
}

type elementGetter struct {
	parent Getter
	index  int
}

// Element is the getter of the index-th element of parent's value.
func Element(parent Getter, index int) Getter {
	return elementGetter{parent: parent, index: index}
}

func (g elementGetter) Name() string { return fmt.Sprintf("%s[%d]", g.parent.Name(), g.index) }

func (g elementGetter) Value() any {
	v, _ := value.Element(g.parent.Value(), g.index)
	return v
}
