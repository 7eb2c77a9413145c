package types

import (
	"regexp"
	"strconv"
	"strings"
)

// Type is a statically known type of an expression.
//
// Types are immutable values. Unions are only built through
// Combinator.Union, which keeps members flat, deduplicated and in a stable
// order so that String doubles as a structural identity.
type Type interface {
	isType()
	String() string
}

// Equal reports whether a and b describe the same type.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// MixedType is the top type.
type MixedType struct{}

func (MixedType) isType()        {}
func (MixedType) String() string { return "mixed" }

// NeverType is the bottom type.
type NeverType struct{}

func (NeverType) isType()        {}
func (NeverType) String() string { return "never" }

// NullType is the type of null.
type NullType struct{}

func (NullType) isType()        {}
func (NullType) String() string { return "null" }

// BooleanType is bool.
type BooleanType struct{}

func (BooleanType) isType()        {}
func (BooleanType) String() string { return "bool" }

// ConstantBooleanType is true or false.
type ConstantBooleanType struct {
	Value bool
}

func (ConstantBooleanType) isType() {}
func (t ConstantBooleanType) String() string {
	return strconv.FormatBool(t.Value)
}

// IntegerType is int.
type IntegerType struct{}

func (IntegerType) isType()        {}
func (IntegerType) String() string { return "int" }

// IntegerRangeType is int<min, max>. A nil bound is unbounded.
// Use NewIntegerRange to build one.
type IntegerRangeType struct {
	Min *int64
	Max *int64
}

func (IntegerRangeType) isType() {}
func (t IntegerRangeType) String() string {
	lo, hi := "min", "max"
	if t.Min != nil {
		lo = strconv.FormatInt(*t.Min, 10)
	}
	if t.Max != nil {
		hi = strconv.FormatInt(*t.Max, 10)
	}
	return "int<" + lo + ", " + hi + ">"
}

func (t IntegerRangeType) contains(v int64) bool {
	if t.Min != nil && v < *t.Min {
		return false
	}
	if t.Max != nil && v > *t.Max {
		return false
	}
	return true
}

func (t IntegerRangeType) containsRange(o IntegerRangeType) bool {
	if t.Min != nil && (o.Min == nil || *o.Min < *t.Min) {
		return false
	}
	if t.Max != nil && (o.Max == nil || *o.Max > *t.Max) {
		return false
	}
	return true
}

func (t IntegerRangeType) overlap(o IntegerRangeType) Type {
	lo, hi := t.Min, t.Max
	if o.Min != nil && (lo == nil || *o.Min > *lo) {
		lo = o.Min
	}
	if o.Max != nil && (hi == nil || *o.Max < *hi) {
		hi = o.Max
	}
	return NewIntegerRange(lo, hi)
}

// NewIntegerRange normalizes the bounds: an unbounded range is int, a
// single value is a constant and an empty range is never.
func NewIntegerRange(min, max *int64) Type {
	switch {
	case min == nil && max == nil:
		return IntegerType{}
	case min != nil && max != nil && *min == *max:
		return ConstantIntegerType{Value: *min}
	case min != nil && max != nil && *min > *max:
		return NeverType{}
	}
	return IntegerRangeType{Min: min, Max: max}
}

// IntPtr returns a pointer to v, for range bounds.
func IntPtr(v int64) *int64 {
	return &v
}

// ConstantIntegerType is a single integer value.
type ConstantIntegerType struct {
	Value int64
}

func (ConstantIntegerType) isType() {}
func (t ConstantIntegerType) String() string {
	return strconv.FormatInt(t.Value, 10)
}

// FloatType is float.
type FloatType struct{}

func (FloatType) isType()        {}
func (FloatType) String() string { return "float" }

// StringType is string.
type StringType struct{}

func (StringType) isType()        {}
func (StringType) String() string { return "string" }

// NonEmptyStringType is any string except ''.
type NonEmptyStringType struct{}

func (NonEmptyStringType) isType()        {}
func (NonEmptyStringType) String() string { return "non-empty-string" }

// NumericStringType is a string accepted by is_numeric.
type NumericStringType struct{}

func (NumericStringType) isType()        {}
func (NumericStringType) String() string { return "numeric-string" }

// ConstantStringType is a single string value.
type ConstantStringType struct {
	Value string
}

func (ConstantStringType) isType() {}
func (t ConstantStringType) String() string {
	return quote(t.Value)
}

// ResourceType is resource.
type ResourceType struct{}

func (ResourceType) isType()        {}
func (ResourceType) String() string { return "resource" }

// CallableType is callable.
type CallableType struct{}

func (CallableType) isType()        {}
func (CallableType) String() string { return "callable" }

// ObjectWithoutClassType is object.
type ObjectWithoutClassType struct{}

func (ObjectWithoutClassType) isType()        {}
func (ObjectWithoutClassType) String() string { return "object" }

// ObjectType is an instance of a named class or interface.
type ObjectType struct {
	ClassName string
}

func (ObjectType) isType() {}
func (t ObjectType) String() string {
	return t.ClassName
}

// ArrayType is a homogeneous array<Key, Item>.
type ArrayType struct {
	Key  Type
	Item Type
}

func (ArrayType) isType() {}
func (t ArrayType) String() string {
	if isMixed(t.Key) && isMixed(t.Item) {
		return "array"
	}
	return "array<" + t.Key.String() + ", " + t.Item.String() + ">"
}

// ConstantArrayType is an array with a known, ordered set of keys.
type ConstantArrayType struct {
	keys   []Type
	values []Type
}

// NewConstantArray builds a constant array. keys hold ConstantIntegerType or
// ConstantStringType values and must line up with values.
func NewConstantArray(keys, values []Type) ConstantArrayType {
	return ConstantArrayType{
		keys:   append([]Type(nil), keys...),
		values: append([]Type(nil), values...),
	}
}

func (ConstantArrayType) isType() {}
func (t ConstantArrayType) String() string {
	parts := make([]string, len(t.keys))
	for i, k := range t.keys {
		parts[i] = formatKey(k) + ": " + t.values[i].String()
	}
	return "array{" + strings.Join(parts, ", ") + "}"
}

// Keys returns a copy of the key types.
func (t ConstantArrayType) Keys() []Type {
	return append([]Type(nil), t.keys...)
}

// Values returns a copy of the value types.
func (t ConstantArrayType) Values() []Type {
	return append([]Type(nil), t.values...)
}

// Len returns the number of elements.
func (t ConstantArrayType) Len() int {
	return len(t.keys)
}

// HasKey reports whether key is one of the array's keys.
func (t ConstantArrayType) HasKey(key Type) bool {
	for _, k := range t.keys {
		if Equal(k, key) {
			return true
		}
	}
	return false
}

// IsList reports whether the keys are exactly 0, 1, ..., n-1 in order,
// which is the case when reindexing the values yields the same array.
func (t ConstantArrayType) IsList() bool {
	for i, k := range t.keys {
		ci, ok := k.(ConstantIntegerType)
		if !ok || ci.Value != int64(i) {
			return false
		}
	}
	return true
}

func (t ConstantArrayType) sameKeys(o ConstantArrayType) bool {
	if len(t.keys) != len(o.keys) {
		return false
	}
	for _, k := range t.keys {
		if !o.HasKey(k) {
			return false
		}
	}
	return true
}

func (t ConstantArrayType) valueAt(key Type) Type {
	for i, k := range t.keys {
		if Equal(k, key) {
			return t.values[i]
		}
	}
	return NeverType{}
}

// IterableType is iterable<Key, Value>: an array or a Traversable.
type IterableType struct {
	Key   Type
	Value Type
}

func (IterableType) isType() {}
func (t IterableType) String() string {
	if isMixed(t.Key) && isMixed(t.Value) {
		return "iterable"
	}
	return "iterable<" + t.Key.String() + ", " + t.Value.String() + ">"
}

// UnionType is a flat union of at least two non-union members.
type UnionType struct {
	types []Type
}

func (UnionType) isType() {}
func (t UnionType) String() string {
	parts := make([]string, len(t.types))
	for i, m := range t.types {
		parts[i] = m.String()
	}
	return strings.Join(parts, "|")
}

// Types returns a copy of the union members.
func (t UnionType) Types() []Type {
	return append([]Type(nil), t.types...)
}

// Members returns the union members of t, or t itself.
func Members(t Type) []Type {
	if u, ok := t.(UnionType); ok {
		return u.Types()
	}
	if _, ok := t.(NeverType); ok {
		return nil
	}
	return []Type{t}
}

// IsSingleValue reports whether t admits exactly one value.
func IsSingleValue(t Type) bool {
	switch t.(type) {
	case NullType, ConstantBooleanType, ConstantIntegerType, ConstantStringType:
		return true
	}
	return false
}

// IsNever reports whether t is the bottom type.
func IsNever(t Type) bool {
	_, ok := t.(NeverType)
	return ok
}

func isMixed(t Type) bool {
	_, ok := t.(MixedType)
	return ok
}

var (
	identPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	numericPattern = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)
)

func isNumericString(s string) bool {
	return numericPattern.MatchString(s)
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func formatKey(k Type) string {
	if cs, ok := k.(ConstantStringType); ok && identPattern.MatchString(cs.Value) {
		return cs.Value
	}
	return k.String()
}

// rank orders union members so that printing is stable.
func rank(t Type) int {
	switch t.(type) {
	case IntegerType, IntegerRangeType, ConstantIntegerType:
		return 0
	case FloatType:
		return 1
	case StringType, NonEmptyStringType, NumericStringType, ConstantStringType:
		return 2
	case BooleanType, ConstantBooleanType:
		return 3
	case ConstantArrayType, ArrayType:
		return 4
	case IterableType:
		return 5
	case ObjectWithoutClassType, ObjectType:
		return 6
	case CallableType:
		return 7
	case ResourceType:
		return 8
	case NullType:
		return 9
	default:
		return 10
	}
}
