package analysis

import (
	"math"
	"sort"
	"strconv"

	"github.com/gnolang/assertnarrow/internal/expr"
	"github.com/gnolang/assertnarrow/internal/refine"
	"github.com/gnolang/assertnarrow/internal/types"
)

// Scope maps variables to their types at one program point. Scopes are
// immutable: Assign and Filter return a new scope.
type Scope struct {
	c    *types.Combinator
	vars map[string]types.Type
}

var _ refine.Scope = (*Scope)(nil)

// NewScope creates an empty scope over c.
func NewScope(c *types.Combinator) *Scope {
	return &Scope{c: c, vars: make(map[string]types.Type)}
}

// Combinator returns the type algebra used by the scope.
func (s *Scope) Combinator() *types.Combinator {
	return s.c
}

// Assign returns a copy of s where name has type t.
func (s *Scope) Assign(name string, t types.Type) *Scope {
	next := s.clone()
	next.vars[name] = t
	return next
}

// Var returns the type of the named variable, or mixed when it is unknown.
func (s *Scope) Var(name string) types.Type {
	if t, ok := s.vars[name]; ok {
		return t
	}
	return types.MixedType{}
}

// Names returns the assigned variable names, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Scope) clone() *Scope {
	vars := make(map[string]types.Type, len(s.vars)+1)
	for k, v := range s.vars {
		vars[k] = v
	}
	return &Scope{c: s.c, vars: vars}
}

// TypeOf returns the statically known type of e.
func (s *Scope) TypeOf(e expr.Node) types.Type {
	switch n := e.(type) {
	case expr.VarExpr:
		return s.Var(n.Name)
	case expr.LiteralExpr:
		return literalType(n.Val)
	case expr.FuncCall:
		return s.callType(n)
	case expr.ArrayExpr:
		return s.arrayType(n)
	case expr.BinaryExpr, expr.UnaryExpr, expr.InstanceOf:
		return types.BooleanType{}
	}
	return types.MixedType{}
}

func literalType(v expr.Value) types.Type {
	switch val := v.(type) {
	case expr.IntValue:
		return types.ConstantIntegerType{Value: val.Val}
	case expr.BoolValue:
		return types.ConstantBooleanType{Value: val.Val}
	case expr.StringValue:
		return types.ConstantStringType{Value: val.Val}
	case expr.NullValue:
		return types.NullType{}
	}
	return types.MixedType{}
}

// arrayType types an array literal as a constant shape. Implicit keys
// continue after the largest integer key and a repeated key keeps its first
// position with the last value.
func (s *Scope) arrayType(n expr.ArrayExpr) types.Type {
	var keys, values []types.Type
	var next int64
	for _, item := range n.Items {
		var key types.Type = types.ConstantIntegerType{Value: next}
		if item.Key != nil {
			var ok bool
			if key, ok = arrayKey(s.TypeOf(item.Key)); !ok {
				return s.generalArrayType(n)
			}
		}
		if ci, ok := key.(types.ConstantIntegerType); ok && ci.Value >= next && ci.Value < math.MaxInt64 {
			next = ci.Value + 1
		}

		value := s.TypeOf(item.Value)
		replaced := false
		for i, k := range keys {
			if k.String() == key.String() {
				values[i] = value
				replaced = true
				break
			}
		}
		if !replaced {
			keys = append(keys, key)
			values = append(values, value)
		}
	}
	return types.NewConstantArray(keys, values)
}

func (s *Scope) generalArrayType(n expr.ArrayExpr) types.Type {
	var keys, values []types.Type
	for _, item := range n.Items {
		if item.Key != nil {
			keys = append(keys, s.TypeOf(item.Key))
		} else {
			keys = append(keys, types.IntegerType{})
		}
		values = append(values, s.TypeOf(item.Value))
	}
	key := s.c.Intersect(s.c.Union(keys...), s.c.Union(types.IntegerType{}, types.StringType{}))
	return types.ArrayType{Key: key, Item: s.c.Union(values...)}
}

// arrayKey returns the key a constant value is stored under. Decimal
// strings become integer keys.
func arrayKey(t types.Type) (types.Type, bool) {
	switch kt := t.(type) {
	case types.ConstantIntegerType:
		return kt, true
	case types.ConstantStringType:
		if v, err := strconv.ParseInt(kt.Value, 10, 64); err == nil && strconv.FormatInt(v, 10) == kt.Value {
			return types.ConstantIntegerType{Value: v}, true
		}
		return kt, true
	}
	return nil, false
}

func (s *Scope) callType(call expr.FuncCall) types.Type {
	switch call.Func {
	case expr.FuncCount, expr.FuncStrlen:
		return types.NewIntegerRange(types.IntPtr(0), nil)
	case expr.FuncArrayValues:
		if len(call.Args) == 1 {
			arg := s.TypeOf(call.Args[0])
			if s.c.Arrays(arg) != nil {
				return types.ArrayType{Key: types.IntegerType{}, Item: s.c.IterableValueType(arg)}
			}
		}
		return types.MixedType{}
	case expr.FuncIsInt, expr.FuncIsString, expr.FuncIsFloat, expr.FuncIsBool,
		expr.FuncIsNumeric, expr.FuncIsScalar, expr.FuncIsObject, expr.FuncIsResource,
		expr.FuncIsCallable, expr.FuncIsArray, expr.FuncIsSubclassOf, expr.FuncClassExists,
		expr.FuncInterfaceExists, expr.FuncArrayKeyExists, expr.FuncInArray,
		expr.FuncMethodExists, expr.FuncPropertyExists:
		return types.BooleanType{}
	}
	return types.MixedType{}
}

// Filter applies a refinement to the variables of s: each sure type is
// intersected with the current type and each sure-not type is removed from
// it. Entries for other expressions are ignored.
func (s *Scope) Filter(st refine.SpecifiedTypes) *Scope {
	next := s.clone()
	for _, e := range st.Sure() {
		if v, ok := e.Expr.(expr.VarExpr); ok {
			next.vars[v.Name] = s.c.Intersect(next.Var(v.Name), e.Type)
		}
	}
	for _, e := range st.SureNot() {
		if v, ok := e.Expr.(expr.VarExpr); ok {
			next.vars[v.Name] = s.c.Remove(next.Var(v.Name), e.Type)
		}
	}
	return next
}
