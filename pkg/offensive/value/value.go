// Package value inspects arbitrary Go values on behalf of assertions:
// classification, emptiness, numeric ordering, deep equality, sub-value
// lookup and rendering for error messages.
package value

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

type undefined struct{}

// Undefined stands for a sub-value that does not exist, such as a missing
// map key or an index past the end of a slice.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Describe renders v for the "got <value>" part of a message.
func Describe(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case undefined:
		return "undefined"
	case string:
		return fmt.Sprintf("%q", val)
	case decimal.Decimal:
		return val.String()
	case error:
		return val.Error()
	}
	if IsNil(v) {
		return fmt.Sprintf("(%T)(nil)", v)
	}
	return fmt.Sprintf("%v", v)
}

// IsNil reports whether v is nil or a typed nil (pointer, map, slice,
// channel, function or interface).
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// IsEmpty reports whether v is nil, undefined or a zero-length string,
// slice, array, map or channel.
func IsEmpty(v any) bool {
	if IsNil(v) || IsUndefined(v) {
		return true
	}
	n, ok := Len(v)
	return ok && n == 0
}

// Len returns the length of strings, slices, arrays, maps and channels.
func Len(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), true
	}
	return 0, false
}

// IsTruthy returns whether a value is truthy.
// nil and Undefined are false, bools return their value, empty strings and
// collections are false, zero numbers are false, everything else is true.
func IsTruthy(v any) bool {
	if IsNil(v) || IsUndefined(v) {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	}
	if d, ok := ToDecimal(v); ok {
		return !d.IsZero()
	}
	if n, ok := Len(v); ok {
		return n != 0
	}
	return true
}

// IsNumber reports whether v is a Go numeric value (any int, uint or float
// kind, json.Number or decimal.Decimal). NaN is not a number.
func IsNumber(v any) bool {
	_, ok := ToDecimal(v)
	return ok
}

// ToDecimal converts numeric values to an exact decimal for comparison.
// Strings are not numbers.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return val, true
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		return d, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		if rv.Kind() == reflect.Float32 {
			return decimal.NewFromFloat32(float32(f)), true
		}
		return decimal.NewFromFloat(f), true
	}
	return decimal.Zero, false
}

// Compare orders two numeric values. ok is false if either is not a number.
func Compare(a, b any) (int, bool) {
	da, okA := ToDecimal(a)
	db, okB := ToDecimal(b)
	if !okA || !okB {
		return 0, false
	}
	return da.Cmp(db), true
}

// Equal compares numbers by value regardless of their Go type and
// everything else structurally.
func Equal(a, b any) bool {
	if c, ok := Compare(a, b); ok {
		return c == 0
	}
	return DeepEqual(a, b)
}

var allUnexported = cmp.Exporter(func(reflect.Type) bool { return true })

// DeepEqual compares values structurally, including unexported fields.
func DeepEqual(a, b any) bool {
	return cmp.Equal(a, b, allUnexported)
}

// Kind classifies v the way messages talk about it.
func Kind(v any) string {
	switch {
	case v == nil:
		return "nil"
	case IsUndefined(v):
		return "undefined"
	case IsNumber(v):
		return "number"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Pointer:
		if reflect.ValueOf(v).Elem().Kind() == reflect.Struct {
			return "object"
		}
	case reflect.Func:
		return "function"
	}
	return "other"
}

// Property looks up a named sub-value: a map key (for maps keyed by a
// string kind) or an exported struct field, through pointers.
func Property(v any, name string) (any, bool) {
	if IsNil(v) || IsUndefined(v) {
		return Undefined, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Undefined, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Undefined, false
		}
		got := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !got.IsValid() {
			return Undefined, false
		}
		return got.Interface(), true
	case reflect.Struct:
		field, ok := rv.Type().FieldByName(name)
		if !ok || !field.IsExported() {
			return Undefined, false
		}
		got, err := rv.FieldByIndexErr(field.Index)
		if err != nil {
			return Undefined, false
		}
		return got.Interface(), true
	}
	return Undefined, false
}

// Element returns the i-th element of a slice or array.
func Element(v any, i int) (any, bool) {
	if IsNil(v) || IsUndefined(v) {
		return Undefined, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if i < 0 || i >= rv.Len() {
			return Undefined, false
		}
		return rv.Index(i).Interface(), true
	}
	return Undefined, false
}
