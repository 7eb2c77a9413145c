package types

import (
	"math"
	"sort"
)

// Combinator implements the type algebra: union, intersection, removal and
// the supertype relation. It is safe for concurrent use once its class
// table is populated.
type Combinator struct {
	classes *ClassTable
}

// NewCombinator creates a combinator over classes. A nil table falls back
// to the built-in classes.
func NewCombinator(classes *ClassTable) *Combinator {
	if classes == nil {
		classes = NewClassTable()
	}
	return &Combinator{classes: classes}
}

// Classes returns the class table backing object subtyping.
func (c *Combinator) Classes() *ClassTable {
	return c.classes
}

// Union returns the smallest flat union covering all of ts.
func (c *Combinator) Union(ts ...Type) Type {
	var flat []Type
	for _, t := range ts {
		if t == nil {
			continue
		}
		if u, ok := t.(UnionType); ok {
			flat = append(flat, u.types...)
			continue
		}
		flat = append(flat, t)
	}

	var kept []Type
	for _, t := range flat {
		switch t.(type) {
		case NeverType:
			continue
		case MixedType:
			return MixedType{}
		}

		covered := false
		for _, k := range kept {
			if c.IsSuperTypeOf(k, t).Yes() {
				covered = true
				break
			}
		}
		if covered {
			continue
		}

		next := make([]Type, 0, len(kept)+1)
		for _, k := range kept {
			if !c.IsSuperTypeOf(t, k).Yes() {
				next = append(next, k)
			}
		}
		kept = append(next, t)
	}

	kept = mergeBooleans(kept)
	sort.SliceStable(kept, func(i, j int) bool {
		ri, rj := rank(kept[i]), rank(kept[j])
		if ri != rj {
			return ri < rj
		}
		return kept[i].String() < kept[j].String()
	})

	switch len(kept) {
	case 0:
		return NeverType{}
	case 1:
		return kept[0]
	default:
		return UnionType{types: kept}
	}
}

func mergeBooleans(ts []Type) []Type {
	hasTrue, hasFalse := false, false
	for _, t := range ts {
		if cb, ok := t.(ConstantBooleanType); ok {
			if cb.Value {
				hasTrue = true
			} else {
				hasFalse = true
			}
		}
	}
	if !hasTrue || !hasFalse {
		return ts
	}
	out := make([]Type, 0, len(ts)-1)
	for _, t := range ts {
		if _, ok := t.(ConstantBooleanType); ok {
			continue
		}
		out = append(out, t)
	}
	return append(out, BooleanType{})
}

// Intersect returns the values common to a and b.
func (c *Combinator) Intersect(a, b Type) Type {
	if u, ok := a.(UnionType); ok {
		parts := make([]Type, 0, len(u.types))
		for _, m := range u.types {
			parts = append(parts, c.Intersect(m, b))
		}
		return c.Union(parts...)
	}
	if u, ok := b.(UnionType); ok {
		parts := make([]Type, 0, len(u.types))
		for _, m := range u.types {
			parts = append(parts, c.Intersect(a, m))
		}
		return c.Union(parts...)
	}
	return c.meet(a, b)
}

func (c *Combinator) meet(a, b Type) Type {
	if IsNever(a) || IsNever(b) {
		return NeverType{}
	}
	if isMixed(a) {
		return b
	}
	if isMixed(b) {
		return a
	}
	if c.IsSuperTypeOf(a, b).Yes() {
		return b
	}
	if c.IsSuperTypeOf(b, a).Yes() {
		return a
	}

	switch at := a.(type) {
	case IntegerRangeType:
		if bt, ok := b.(IntegerRangeType); ok {
			return at.overlap(bt)
		}
	case ArrayType:
		switch bt := b.(type) {
		case ArrayType:
			return c.newArray(c.Intersect(at.Key, bt.Key), c.Intersect(at.Item, bt.Item))
		case IterableType:
			return c.newArray(c.Intersect(at.Key, bt.Key), c.Intersect(at.Item, bt.Value))
		case ConstantArrayType:
			return c.meetConstantArray(bt, at.Key, at.Item)
		}
	case IterableType:
		switch bt := b.(type) {
		case ArrayType:
			return c.newArray(c.Intersect(at.Key, bt.Key), c.Intersect(at.Value, bt.Item))
		case IterableType:
			key, value := c.Intersect(at.Key, bt.Key), c.Intersect(at.Value, bt.Value)
			if IsNever(key) || IsNever(value) {
				return NeverType{}
			}
			return IterableType{Key: key, Value: value}
		case ConstantArrayType:
			return c.meetConstantArray(bt, at.Key, at.Value)
		case ObjectType:
			return c.meetTraversable(bt)
		case ObjectWithoutClassType:
			return ObjectType{ClassName: ClassTraversable}
		}
	case ConstantArrayType:
		switch bt := b.(type) {
		case ArrayType:
			return c.meetConstantArray(at, bt.Key, bt.Item)
		case IterableType:
			return c.meetConstantArray(at, bt.Key, bt.Value)
		case ConstantArrayType:
			if !at.sameKeys(bt) {
				return NeverType{}
			}
			values := make([]Type, len(at.keys))
			for i, k := range at.keys {
				values[i] = c.Intersect(at.values[i], bt.valueAt(k))
				if IsNever(values[i]) {
					return NeverType{}
				}
			}
			return NewConstantArray(at.keys, values)
		}
	case ObjectType:
		switch b.(type) {
		case IterableType:
			return c.meetTraversable(at)
		case CallableType:
			return a
		}
	case ObjectWithoutClassType:
		switch b.(type) {
		case IterableType:
			return ObjectType{ClassName: ClassTraversable}
		case CallableType:
			return a
		}
	case CallableType:
		switch b.(type) {
		case StringType, NonEmptyStringType, ConstantStringType,
			ObjectType, ObjectWithoutClassType, ArrayType, ConstantArrayType:
			return b
		}
	case StringType, NonEmptyStringType, ConstantStringType:
		if _, ok := b.(CallableType); ok {
			return a
		}
	}

	// Unrelated classes are not modelled as intersection types.
	return NeverType{}
}

func (c *Combinator) meetTraversable(obj ObjectType) Type {
	if c.classes.IsSubtypeOf(obj.ClassName, ClassTraversable) {
		return obj
	}
	return NeverType{}
}

func (c *Combinator) meetConstantArray(arr ConstantArrayType, key, value Type) Type {
	values := make([]Type, len(arr.keys))
	for i, k := range arr.keys {
		if c.IsSuperTypeOf(key, k).No() {
			return NeverType{}
		}
		values[i] = c.Intersect(arr.values[i], value)
		if IsNever(values[i]) {
			return NeverType{}
		}
	}
	return NewConstantArray(arr.keys, values)
}

func (c *Combinator) newArray(key, item Type) Type {
	if IsNever(key) || IsNever(item) {
		return NeverType{}
	}
	return ArrayType{Key: key, Item: item}
}

// Remove returns from without the values of t.
func (c *Combinator) Remove(from, t Type) Type {
	if u, ok := from.(UnionType); ok {
		parts := make([]Type, 0, len(u.types))
		for _, m := range u.types {
			parts = append(parts, c.Remove(m, t))
		}
		return c.Union(parts...)
	}
	if u, ok := t.(UnionType); ok {
		result := from
		for _, m := range u.types {
			result = c.Remove(result, m)
		}
		return result
	}
	return c.removeAtom(from, t)
}

// RemoveNull returns t without null.
func (c *Combinator) RemoveNull(t Type) Type {
	return c.Remove(t, NullType{})
}

func (c *Combinator) removeAtom(from, t Type) Type {
	if IsNever(from) {
		return from
	}
	if c.IsSuperTypeOf(t, from).Yes() {
		return NeverType{}
	}

	switch ft := from.(type) {
	case BooleanType:
		if cb, ok := t.(ConstantBooleanType); ok {
			return ConstantBooleanType{Value: !cb.Value}
		}
	case StringType:
		if cs, ok := t.(ConstantStringType); ok && cs.Value == "" {
			return NonEmptyStringType{}
		}
	case IntegerRangeType:
		if ci, ok := t.(ConstantIntegerType); ok {
			if ft.Min != nil && *ft.Min == ci.Value {
				if ci.Value == math.MaxInt64 {
					return NeverType{}
				}
				return NewIntegerRange(IntPtr(ci.Value+1), ft.Max)
			}
			if ft.Max != nil && *ft.Max == ci.Value {
				if ci.Value == math.MinInt64 {
					return NeverType{}
				}
				return NewIntegerRange(ft.Min, IntPtr(ci.Value-1))
			}
		}
	}
	return from
}

// Arrays returns the array members of t when every member is an array,
// and nil otherwise.
func (c *Combinator) Arrays(t Type) []Type {
	switch t.(type) {
	case ArrayType, ConstantArrayType:
		return []Type{t}
	case UnionType:
		members := Members(t)
		for _, m := range members {
			switch m.(type) {
			case ArrayType, ConstantArrayType:
			default:
				return nil
			}
		}
		return members
	}
	return nil
}

// IterableKeyType returns the key type produced when iterating over t.
func (c *Combinator) IterableKeyType(t Type) Type {
	switch tt := t.(type) {
	case ArrayType:
		return tt.Key
	case ConstantArrayType:
		return c.Union(tt.keys...)
	case IterableType:
		return tt.Key
	case UnionType:
		parts := make([]Type, 0, len(tt.types))
		for _, m := range tt.types {
			parts = append(parts, c.IterableKeyType(m))
		}
		return c.Union(parts...)
	case MixedType, ObjectType, ObjectWithoutClassType:
		return MixedType{}
	}
	return NeverType{}
}

// IterableValueType returns the value type produced when iterating over t.
func (c *Combinator) IterableValueType(t Type) Type {
	switch tt := t.(type) {
	case ArrayType:
		return tt.Item
	case ConstantArrayType:
		return c.Union(tt.values...)
	case IterableType:
		return tt.Value
	case UnionType:
		parts := make([]Type, 0, len(tt.types))
		for _, m := range tt.types {
			parts = append(parts, c.IterableValueType(m))
		}
		return c.Union(parts...)
	case MixedType, ObjectType, ObjectWithoutClassType:
		return MixedType{}
	}
	return NeverType{}
}
