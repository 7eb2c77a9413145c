package analysis

import (
	"math"
	"strconv"

	"github.com/gnolang/assertnarrow/internal/expr"
	"github.com/gnolang/assertnarrow/internal/refine"
	"github.com/gnolang/assertnarrow/internal/types"
)

// Specifier turns conditions into refinements. It understands the node
// shapes assertion predicates are rewritten into; anything else yields an
// empty refinement.
type Specifier struct {
	c *types.Combinator
}

// NewSpecifier creates a specifier over c.
func NewSpecifier(c *types.Combinator) *Specifier {
	return &Specifier{c: c}
}

// Create records that e has type t on the ctx branch. Literals are never
// refined.
func (s *Specifier) Create(e expr.Node, t types.Type, ctx refine.Context) refine.SpecifiedTypes {
	if e == nil || t == nil || expr.IsLiteral(e) {
		return refine.Empty()
	}
	entry := []refine.Entry{{Expr: e, Type: t}}
	if ctx.True() {
		return refine.New(entry, nil)
	}
	return refine.New(nil, entry)
}

// SpecifyTypesInCondition returns the refinement implied by cond evaluating
// to the ctx branch.
func (s *Specifier) SpecifyTypesInCondition(scope refine.Scope, cond expr.Node, ctx refine.Context) refine.SpecifiedTypes {
	switch n := cond.(type) {
	case expr.UnaryExpr:
		if n.Op == expr.OpNot {
			return s.SpecifyTypesInCondition(scope, n.Operand, ctx.Negate())
		}
	case expr.BinaryExpr:
		return s.binary(scope, n, ctx)
	case expr.FuncCall:
		return s.funcCall(scope, n, ctx)
	case expr.InstanceOf:
		class := s.c.Classes().Canonical(n.Class)
		return s.Create(n.Expr, types.ObjectType{ClassName: class}, ctx)
	}
	return refine.Empty()
}

func (s *Specifier) binary(scope refine.Scope, n expr.BinaryExpr, ctx refine.Context) refine.SpecifiedTypes {
	switch n.Op {
	case expr.OpAnd:
		left := s.SpecifyTypesInCondition(scope, n.Left, ctx)
		right := s.SpecifyTypesInCondition(scope, n.Right, ctx)
		if ctx.True() {
			return s.conjoin(left, right)
		}
		return s.disjoin(left, right)
	case expr.OpOr:
		left := s.SpecifyTypesInCondition(scope, n.Left, ctx)
		right := s.SpecifyTypesInCondition(scope, n.Right, ctx)
		if ctx.True() {
			return s.disjoin(left, right)
		}
		return s.conjoin(left, right)
	case expr.OpIdentical:
		return s.identical(scope, n.Left, n.Right, ctx)
	case expr.OpNotIdentical:
		return s.identical(scope, n.Left, n.Right, ctx.Negate())
	case expr.OpGreater, expr.OpGreaterOrEqual, expr.OpSmallerOrEqual:
		return s.comparison(scope, n, ctx)
	}
	return refine.Empty()
}

// conjoin merges refinements that both hold: sure types of a shared
// expression intersect, sure-not types union.
func (s *Specifier) conjoin(a, b refine.SpecifiedTypes) refine.SpecifiedTypes {
	return refine.New(
		mergeEntries(a.Sure(), b.Sure(), s.c.Intersect, true),
		mergeEntries(a.SureNot(), b.SureNot(), func(x, y types.Type) types.Type { return s.c.Union(x, y) }, true),
	)
}

// disjoin merges refinements of which at least one holds. Only expressions
// refined by both survive.
func (s *Specifier) disjoin(a, b refine.SpecifiedTypes) refine.SpecifiedTypes {
	return refine.New(
		mergeEntries(a.Sure(), b.Sure(), func(x, y types.Type) types.Type { return s.c.Union(x, y) }, false),
		mergeEntries(a.SureNot(), b.SureNot(), s.c.Intersect, false),
	)
}

func mergeEntries(a, b []refine.Entry, combine func(x, y types.Type) types.Type, keepUnshared bool) []refine.Entry {
	others := make(map[string]types.Type, len(b))
	for _, e := range b {
		others[e.Key()] = e.Type
	}

	var out []refine.Entry
	seen := make(map[string]bool, len(a))
	for _, e := range a {
		seen[e.Key()] = true
		if t, ok := others[e.Key()]; ok {
			out = append(out, refine.Entry{Expr: e.Expr, Type: combine(e.Type, t)})
			continue
		}
		if keepUnshared {
			out = append(out, e)
		}
	}
	if keepUnshared {
		for _, e := range b {
			if !seen[e.Key()] {
				out = append(out, e)
			}
		}
	}
	return out
}

func (s *Specifier) identical(scope refine.Scope, left, right expr.Node, ctx refine.Context) refine.SpecifiedTypes {
	if call, ok := expr.CallTo(right, expr.FuncArrayValues); ok && len(call.Args) == 1 && expr.Equal(call.Args[0], left) {
		return s.listCheck(scope, left, ctx)
	}
	if call, ok := expr.CallTo(left, expr.FuncArrayValues); ok && len(call.Args) == 1 && expr.Equal(call.Args[0], right) {
		return s.listCheck(scope, right, ctx)
	}
	if call, ok := sizeCall(left); ok {
		return s.sizeComparison(scope, call, relEq, right, ctx)
	}
	if call, ok := sizeCall(right); ok {
		return s.sizeComparison(scope, call, relEq, left, ctx)
	}

	leftType, rightType := scope.TypeOf(left), scope.TypeOf(right)
	if ctx.True() {
		return s.conjoin(s.Create(left, rightType, ctx), s.Create(right, leftType, ctx))
	}

	var result refine.SpecifiedTypes
	if types.IsSingleValue(rightType) {
		result = s.Create(left, rightType, ctx)
	}
	if types.IsSingleValue(leftType) {
		result = s.conjoin(result, s.Create(right, leftType, ctx))
	}
	return result
}

// listCheck handles `e === array_values(e)`: only arrays whose keys are
// 0..n-1 survive.
func (s *Specifier) listCheck(scope refine.Scope, e expr.Node, ctx refine.Context) refine.SpecifiedTypes {
	if !ctx.True() {
		return refine.Empty()
	}
	var lists []types.Type
	for _, m := range types.Members(scope.TypeOf(e)) {
		switch mt := m.(type) {
		case types.ConstantArrayType:
			if mt.IsList() {
				lists = append(lists, mt)
			}
		case types.ArrayType:
			key := s.c.Intersect(mt.Key, types.IntegerType{})
			if types.IsNever(key) {
				// only the empty array is a list
				lists = append(lists, types.NewConstantArray(nil, nil))
				continue
			}
			lists = append(lists, types.ArrayType{Key: key, Item: mt.Item})
		case types.MixedType:
			lists = append(lists, types.ArrayType{Key: types.IntegerType{}, Item: types.MixedType{}})
		}
	}
	return s.Create(e, s.c.Union(lists...), ctx)
}

type relation int

const (
	relEq relation = iota
	relGt
	relGe
	relLt
	relLe
)

func (r relation) holds(v, n int64) bool {
	switch r {
	case relEq:
		return v == n
	case relGt:
		return v > n
	case relGe:
		return v >= n
	case relLt:
		return v < n
	case relLe:
		return v <= n
	}
	return false
}

// flip returns the relation seen from the other operand.
func (r relation) flip() relation {
	switch r {
	case relGt:
		return relLt
	case relGe:
		return relLe
	case relLt:
		return relGt
	case relLe:
		return relGe
	}
	return r
}

// bounds returns the integer range satisfying `v r n`. ok is false when no
// int64 satisfies it.
func (r relation) bounds(n int64) (lo, hi *int64, ok bool) {
	switch r {
	case relEq:
		return types.IntPtr(n), types.IntPtr(n), true
	case relGt:
		if n == math.MaxInt64 {
			return nil, nil, false
		}
		return types.IntPtr(n + 1), nil, true
	case relGe:
		return types.IntPtr(n), nil, true
	case relLt:
		if n == math.MinInt64 {
			return nil, nil, false
		}
		return nil, types.IntPtr(n - 1), true
	case relLe:
		return nil, types.IntPtr(n), true
	}
	return nil, nil, true
}

func opRelation(op expr.BinaryOp) relation {
	switch op {
	case expr.OpGreater:
		return relGt
	case expr.OpGreaterOrEqual:
		return relGe
	case expr.OpSmallerOrEqual:
		return relLe
	}
	return relEq
}

func sizeCall(n expr.Node) (expr.FuncCall, bool) {
	call, ok := n.(expr.FuncCall)
	if !ok || len(call.Args) != 1 {
		return expr.FuncCall{}, false
	}
	if call.Func != expr.FuncCount && call.Func != expr.FuncStrlen {
		return expr.FuncCall{}, false
	}
	return call, true
}

func (s *Specifier) comparison(scope refine.Scope, n expr.BinaryExpr, ctx refine.Context) refine.SpecifiedTypes {
	if !ctx.True() {
		return refine.Empty()
	}
	rel := opRelation(n.Op)
	if call, ok := sizeCall(n.Left); ok {
		return s.sizeComparison(scope, call, rel, n.Right, ctx)
	}
	if call, ok := sizeCall(n.Right); ok {
		return s.sizeComparison(scope, call, rel.flip(), n.Left, ctx)
	}

	subject, bound := n.Left, n.Right
	if expr.IsLiteral(subject) {
		subject, bound, rel = bound, subject, rel.flip()
	}
	ci, ok := scope.TypeOf(bound).(types.ConstantIntegerType)
	if !ok {
		return refine.Empty()
	}
	var ints types.Type = types.NeverType{}
	if lo, hi, ok := rel.bounds(ci.Value); ok {
		ints = types.NewIntegerRange(lo, hi)
	}
	// non-integers compare by value, so they stay possible
	constraint := s.c.Union(ints, types.FloatType{}, types.StringType{})
	return s.Create(subject, constraint, ctx)
}

// sizeComparison handles count(x) or strlen(x) related to other by rel.
func (s *Specifier) sizeComparison(scope refine.Scope, call expr.FuncCall, rel relation, other expr.Node, ctx refine.Context) refine.SpecifiedTypes {
	if !ctx.True() {
		return refine.Empty()
	}
	subject := call.Args[0]
	ci, known := scope.TypeOf(other).(types.ConstantIntegerType)

	if call.Func == expr.FuncStrlen {
		if !known {
			return s.Create(subject, types.StringType{}, ctx)
		}
		return s.Create(subject, s.stringsOfLength(scope.TypeOf(subject), rel, ci.Value), ctx)
	}

	countable := s.c.Union(
		types.ArrayType{Key: types.MixedType{}, Item: types.MixedType{}},
		types.ObjectType{ClassName: types.ClassCountable},
	)
	if !known {
		return s.Create(subject, countable, ctx)
	}
	var kept []types.Type
	for _, m := range types.Members(scope.TypeOf(subject)) {
		if ca, ok := m.(types.ConstantArrayType); ok {
			if rel.holds(int64(ca.Len()), ci.Value) {
				kept = append(kept, ca)
			}
			continue
		}
		kept = append(kept, s.c.Intersect(m, countable))
	}
	return s.Create(subject, s.c.Union(kept...), ctx)
}

func (s *Specifier) stringsOfLength(current types.Type, rel relation, n int64) types.Type {
	var constants []types.Type
	sawConstant := false
	for _, m := range types.Members(current) {
		switch mt := m.(type) {
		case types.ConstantStringType:
			sawConstant = true
			if rel.holds(int64(len(mt.Value)), n) {
				constants = append(constants, mt)
			}
		case types.StringType, types.NonEmptyStringType, types.NumericStringType,
			types.CallableType, types.MixedType:
			return lengthConstraint(rel, n)
		}
	}
	if sawConstant {
		return s.c.Union(constants...)
	}
	return lengthConstraint(rel, n)
}

func lengthConstraint(rel relation, n int64) types.Type {
	lo, hi, ok := rel.bounds(n)
	switch {
	case !ok:
		return types.NeverType{}
	case hi != nil && *hi < 0, lo != nil && hi != nil && *lo > *hi:
		return types.NeverType{}
	case hi != nil && *hi == 0:
		return types.ConstantStringType{Value: ""}
	case lo != nil && *lo >= 1:
		return types.NonEmptyStringType{}
	}
	return types.StringType{}
}

// checkedType returns the type a single-argument is_* function tests for.
func (s *Specifier) checkedType(fn string) (types.Type, bool) {
	switch fn {
	case expr.FuncIsInt:
		return types.IntegerType{}, true
	case expr.FuncIsString:
		return types.StringType{}, true
	case expr.FuncIsFloat:
		return types.FloatType{}, true
	case expr.FuncIsBool:
		return types.BooleanType{}, true
	case expr.FuncIsObject:
		return types.ObjectWithoutClassType{}, true
	case expr.FuncIsResource:
		return types.ResourceType{}, true
	case expr.FuncIsCallable:
		return types.CallableType{}, true
	case expr.FuncIsArray:
		return types.ArrayType{Key: types.MixedType{}, Item: types.MixedType{}}, true
	case expr.FuncIsNumeric:
		return s.c.Union(types.IntegerType{}, types.FloatType{}, types.NumericStringType{}), true
	case expr.FuncIsScalar:
		return s.c.Union(types.IntegerType{}, types.FloatType{}, types.StringType{}, types.BooleanType{}), true
	}
	return nil, false
}

func (s *Specifier) funcCall(scope refine.Scope, call expr.FuncCall, ctx refine.Context) refine.SpecifiedTypes {
	if checked, ok := s.checkedType(call.Func); ok {
		if len(call.Args) != 1 {
			return refine.Empty()
		}
		return s.Create(call.Args[0], checked, ctx)
	}
	if len(call.Args) == 0 {
		return refine.Empty()
	}
	subject := call.Args[0]

	switch call.Func {
	case expr.FuncIsSubclassOf:
		if len(call.Args) < 2 {
			return refine.Empty()
		}
		object := types.Type(types.ObjectWithoutClassType{})
		if cs, ok := scope.TypeOf(call.Args[1]).(types.ConstantStringType); ok {
			object = types.ObjectType{ClassName: s.c.Classes().Canonical(cs.Value)}
		}
		return s.Create(subject, s.c.Union(object, types.StringType{}), ctx)

	case expr.FuncClassExists, expr.FuncInterfaceExists:
		if !ctx.True() {
			return refine.Empty()
		}
		return s.Create(subject, types.StringType{}, ctx)

	case expr.FuncMethodExists, expr.FuncPropertyExists:
		if !ctx.True() {
			return refine.Empty()
		}
		return s.Create(subject, s.c.Union(types.ObjectWithoutClassType{}, types.StringType{}), ctx)

	case expr.FuncInArray:
		if !ctx.True() || len(call.Args) < 2 {
			return refine.Empty()
		}
		value := s.c.IterableValueType(scope.TypeOf(call.Args[1]))
		switch value.(type) {
		case types.MixedType, types.NeverType:
			return refine.Empty()
		}
		return s.Create(subject, value, ctx)

	case expr.FuncArrayKeyExists:
		if len(call.Args) < 2 {
			return refine.Empty()
		}
		return s.keyExists(scope, subject, call.Args[1], ctx)
	}
	return refine.Empty()
}

// keyExists handles array_key_exists(key, arr). With a constant key,
// constant arrays are split by whether they hold it; the surviving shapes
// are recorded as sure types on either branch.
func (s *Specifier) keyExists(scope refine.Scope, key, arr expr.Node, ctx refine.Context) refine.SpecifiedTypes {
	anyArray := types.ArrayType{Key: types.MixedType{}, Item: types.MixedType{}}
	keyType := scope.TypeOf(key)
	switch keyType.(type) {
	case types.ConstantIntegerType, types.ConstantStringType:
	default:
		if ctx.True() {
			return s.Create(arr, anyArray, ctx)
		}
		return refine.Empty()
	}

	current := scope.TypeOf(arr)
	if _, ok := current.(types.MixedType); ok {
		if ctx.True() {
			return s.Create(arr, anyArray, ctx)
		}
		return refine.Empty()
	}

	var kept []types.Type
	for _, m := range types.Members(current) {
		if ca, ok := m.(types.ConstantArrayType); ok {
			if ca.HasKey(normalizeKey(keyType)) == ctx.True() {
				kept = append(kept, ca)
			}
			continue
		}
		if ctx.True() {
			kept = append(kept, s.c.Intersect(m, anyArray))
			continue
		}
		kept = append(kept, m)
	}
	return refine.New([]refine.Entry{{Expr: arr, Type: s.c.Union(kept...)}}, nil)
}

// normalizeKey applies the array key cast: canonical decimal integer
// strings become integers.
func normalizeKey(t types.Type) types.Type {
	cs, ok := t.(types.ConstantStringType)
	if !ok {
		return t
	}
	n, err := strconv.ParseInt(cs.Value, 10, 64)
	if err != nil || strconv.FormatInt(n, 10) != cs.Value {
		return t
	}
	return types.ConstantIntegerType{Value: n}
}
