package types

// IsSuperTypeOf reports whether every value of b is also a value of a.
func (c *Combinator) IsSuperTypeOf(a, b Type) Trinary {
	if IsNever(b) {
		return Yes
	}
	if isMixed(a) {
		return Yes
	}
	if IsNever(a) {
		return No
	}
	if ub, ok := b.(UnionType); ok {
		results := make([]Trinary, len(ub.types))
		for i, m := range ub.types {
			results[i] = c.IsSuperTypeOf(a, m)
		}
		return ExtremeIdentity(results...)
	}
	if ua, ok := a.(UnionType); ok {
		result := No
		for _, m := range ua.types {
			result = result.Or(c.IsSuperTypeOf(m, b))
		}
		return result
	}
	if isMixed(b) {
		return Maybe
	}
	return c.atomSuperTypeOf(a, b)
}

func (c *Combinator) atomSuperTypeOf(a, b Type) Trinary {
	switch at := a.(type) {
	case NullType:
		_, ok := b.(NullType)
		return fromBool(ok)

	case BooleanType:
		switch b.(type) {
		case BooleanType, ConstantBooleanType:
			return Yes
		}

	case ConstantBooleanType:
		switch bt := b.(type) {
		case ConstantBooleanType:
			return fromBool(at.Value == bt.Value)
		case BooleanType:
			return Maybe
		}

	case IntegerType:
		switch b.(type) {
		case IntegerType, IntegerRangeType, ConstantIntegerType:
			return Yes
		}

	case IntegerRangeType:
		switch bt := b.(type) {
		case IntegerType:
			return Maybe
		case ConstantIntegerType:
			return fromBool(at.contains(bt.Value))
		case IntegerRangeType:
			if at.containsRange(bt) {
				return Yes
			}
			if IsNever(at.overlap(bt)) {
				return No
			}
			return Maybe
		}

	case ConstantIntegerType:
		switch bt := b.(type) {
		case ConstantIntegerType:
			return fromBool(at.Value == bt.Value)
		case IntegerType:
			return Maybe
		case IntegerRangeType:
			if bt.contains(at.Value) {
				return Maybe
			}
			return No
		}

	case FloatType:
		_, ok := b.(FloatType)
		return fromBool(ok)

	case StringType:
		switch b.(type) {
		case StringType, NonEmptyStringType, NumericStringType, ConstantStringType:
			return Yes
		case CallableType:
			return Maybe
		}

	case NonEmptyStringType:
		switch bt := b.(type) {
		case NonEmptyStringType, NumericStringType:
			return Yes
		case ConstantStringType:
			return fromBool(bt.Value != "")
		case StringType, CallableType:
			return Maybe
		}

	case NumericStringType:
		switch bt := b.(type) {
		case NumericStringType:
			return Yes
		case ConstantStringType:
			return fromBool(isNumericString(bt.Value))
		case StringType, NonEmptyStringType:
			return Maybe
		}

	case ConstantStringType:
		switch bt := b.(type) {
		case ConstantStringType:
			return fromBool(at.Value == bt.Value)
		case StringType, CallableType:
			return Maybe
		case NonEmptyStringType:
			return fromBool(at.Value != "").And(Maybe)
		case NumericStringType:
			return fromBool(isNumericString(at.Value)).And(Maybe)
		}

	case ResourceType:
		_, ok := b.(ResourceType)
		return fromBool(ok)

	case CallableType:
		switch bt := b.(type) {
		case CallableType:
			return Yes
		case ObjectType:
			if c.classes.IsSubtypeOf(bt.ClassName, ClassClosure) {
				return Yes
			}
			return Maybe
		case ObjectWithoutClassType, StringType, NonEmptyStringType, ConstantStringType,
			ArrayType, ConstantArrayType, IterableType:
			return Maybe
		}

	case ObjectWithoutClassType:
		switch b.(type) {
		case ObjectType, ObjectWithoutClassType:
			return Yes
		case CallableType, IterableType:
			return Maybe
		}

	case ObjectType:
		switch bt := b.(type) {
		case ObjectType:
			if c.classes.IsSubtypeOf(bt.ClassName, at.ClassName) {
				return Yes
			}
			if c.classes.MayIntersect(at.ClassName, bt.ClassName) {
				return Maybe
			}
			return No
		case ObjectWithoutClassType, CallableType:
			return Maybe
		case IterableType:
			if c.classes.MayIntersect(at.ClassName, ClassTraversable) {
				return Maybe
			}
			return No
		}

	case ArrayType:
		switch bt := b.(type) {
		case ArrayType:
			r := c.IsSuperTypeOf(at.Key, bt.Key).And(c.IsSuperTypeOf(at.Item, bt.Item))
			if r.No() {
				// both admit the empty array
				return Maybe
			}
			return r
		case ConstantArrayType:
			r := Yes
			for i, k := range bt.keys {
				r = r.And(c.IsSuperTypeOf(at.Key, k)).And(c.IsSuperTypeOf(at.Item, bt.values[i]))
			}
			return r
		case IterableType, CallableType:
			return Maybe
		}

	case ConstantArrayType:
		switch bt := b.(type) {
		case ConstantArrayType:
			if !at.sameKeys(bt) {
				return No
			}
			r := Yes
			for i, k := range at.keys {
				r = r.And(c.IsSuperTypeOf(at.values[i], bt.valueAt(k)))
			}
			return r
		case ArrayType:
			return c.constantArrayOverlaps(at, bt.Key, bt.Item)
		case IterableType:
			return c.constantArrayOverlaps(at, bt.Key, bt.Value)
		case CallableType:
			return Maybe
		}

	case IterableType:
		switch bt := b.(type) {
		case ArrayType:
			r := c.IsSuperTypeOf(at.Key, bt.Key).And(c.IsSuperTypeOf(at.Value, bt.Item))
			if r.No() {
				return Maybe
			}
			return r
		case IterableType:
			r := c.IsSuperTypeOf(at.Key, bt.Key).And(c.IsSuperTypeOf(at.Value, bt.Value))
			if r.No() {
				return Maybe
			}
			return r
		case ConstantArrayType:
			r := Yes
			for i, k := range bt.keys {
				r = r.And(c.IsSuperTypeOf(at.Key, k)).And(c.IsSuperTypeOf(at.Value, bt.values[i]))
			}
			return r
		case ObjectType:
			if c.classes.IsSubtypeOf(bt.ClassName, ClassTraversable) {
				if isMixed(at.Key) && isMixed(at.Value) {
					return Yes
				}
				return Maybe
			}
			if c.classes.MayIntersect(bt.ClassName, ClassTraversable) {
				return Maybe
			}
			return No
		case ObjectWithoutClassType, CallableType:
			return Maybe
		}
	}

	return No
}

// constantArrayOverlaps reports whether an array<key, value> may have
// exactly the shape of arr.
func (c *Combinator) constantArrayOverlaps(arr ConstantArrayType, key, value Type) Trinary {
	for i, k := range arr.keys {
		if c.IsSuperTypeOf(key, k).No() {
			return No
		}
		v := arr.values[i]
		if c.IsSuperTypeOf(value, v).No() && c.IsSuperTypeOf(v, value).No() {
			return No
		}
	}
	return Maybe
}
