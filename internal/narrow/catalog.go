package narrow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnolang/assertnarrow/internal/expr"
	"github.com/gnolang/assertnarrow/internal/refine"
	"github.com/gnolang/assertnarrow/internal/types"
)

// BuildFunc rewrites the arguments of an assertion into the condition that
// holds once the assertion returned. A nil result means the arguments are
// not known precisely enough and the call narrows nothing.
type BuildFunc func(scope refine.Scope, args []expr.Node) expr.Node

// Predicate is a catalog entry. Build is only called with at least Arity
// arguments.
type Predicate struct {
	Name  string
	Arity int
	Build BuildFunc
}

// Catalog is an immutable set of predicates keyed by canonical name.
type Catalog struct {
	byName map[string]Predicate
	names  []string
}

// NewCatalog builds a catalog. It panics on a duplicate name, a missing
// builder or a non-positive arity, since those are programming errors in a
// static table.
func NewCatalog(preds ...Predicate) *Catalog {
	c := &Catalog{byName: make(map[string]Predicate, len(preds))}
	for _, p := range preds {
		if _, dup := c.byName[p.Name]; dup {
			panic(fmt.Sprintf("narrow: duplicate predicate %q", p.Name))
		}
		if p.Build == nil || p.Arity < 1 {
			panic(fmt.Sprintf("narrow: invalid predicate %q", p.Name))
		}
		c.byName[p.Name] = p
		c.names = append(c.names, p.Name)
	}
	sort.Strings(c.names)
	return c
}

// Lookup returns the predicate registered under a canonical name.
func (c *Catalog) Lookup(name string) (Predicate, bool) {
	p, ok := c.byName[name]
	return p, ok
}

// Names returns the canonical names, sorted.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of predicates.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Without returns a catalog lacking the named predicates. Unknown names are
// ignored.
func (c *Catalog) Without(names ...string) *Catalog {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	var kept []Predicate
	for _, n := range c.names {
		if !skip[n] {
			kept = append(kept, c.byName[n])
		}
	}
	return NewCatalog(kept...)
}

var defaultCatalog = NewCatalog(builtinPredicates()...)

// DefaultCatalog returns the catalog of Webmozart assertions.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func unary(name string, build func(value expr.Node) expr.Node) Predicate {
	return Predicate{
		Name:  name,
		Arity: 1,
		Build: func(_ refine.Scope, args []expr.Node) expr.Node {
			return build(args[0])
		},
	}
}

func binary(name string, build func(a, b expr.Node) expr.Node) Predicate {
	return Predicate{
		Name:  name,
		Arity: 2,
		Build: func(_ refine.Scope, args []expr.Node) expr.Node {
			return build(args[0], args[1])
		},
	}
}

func ternary(name string, build func(a, b, c expr.Node) expr.Node) Predicate {
	return Predicate{
		Name:  name,
		Arity: 3,
		Build: func(_ refine.Scope, args []expr.Node) expr.Node {
			return build(args[0], args[1], args[2])
		},
	}
}

func typeCheck(name, fn string) Predicate {
	return unary(name, func(v expr.Node) expr.Node {
		return expr.Call(fn, v)
	})
}

// literalString returns the value of e when its type is a single string.
func literalString(scope refine.Scope, e expr.Node) (string, bool) {
	cs, ok := scope.TypeOf(e).(types.ConstantStringType)
	if !ok {
		return "", false
	}
	return cs.Value, true
}

func className(name string) string {
	return strings.TrimPrefix(name, `\`)
}

// withClass builds a predicate whose second argument must be a literal
// class name.
func withClass(name string, build func(value expr.Node, class string) expr.Node) Predicate {
	return Predicate{
		Name:  name,
		Arity: 2,
		Build: func(scope refine.Scope, args []expr.Node) expr.Node {
			class, ok := literalString(scope, args[1])
			if !ok {
				return nil
			}
			return build(args[0], className(class))
		},
	}
}

// literalName builds a predicate whose only argument must be a literal
// string.
func literalName(name, fn string) Predicate {
	return Predicate{
		Name:  name,
		Arity: 1,
		Build: func(scope refine.Scope, args []expr.Node) expr.Node {
			if _, ok := literalString(scope, args[0]); !ok {
				return nil
			}
			return expr.Call(fn, args[0])
		},
	}
}

func orInstanceOf(v expr.Node, class string) expr.Node {
	return expr.Or(expr.Call(expr.FuncIsArray, v), expr.Instanceof(v, class))
}

func count(v expr.Node) expr.Node {
	return expr.Call(expr.FuncCount, v)
}

func strlen(v expr.Node) expr.Node {
	return expr.Call(expr.FuncStrlen, v)
}

func isString(v expr.Node) expr.Node {
	return expr.Call(expr.FuncIsString, v)
}

func inArray(needle, haystack expr.Node) expr.Node {
	return expr.Call(expr.FuncInArray, needle, haystack, expr.BoolLit(true))
}

func builtinPredicates() []Predicate {
	return []Predicate{
		typeCheck("integer", expr.FuncIsInt),
		unary("positiveInteger", func(v expr.Node) expr.Node {
			return expr.And(expr.Call(expr.FuncIsInt, v), expr.Greater(v, expr.IntLit(0)))
		}),
		typeCheck("string", expr.FuncIsString),
		unary("stringNotEmpty", func(v expr.Node) expr.Node {
			return expr.And(isString(v), expr.NotIdentical(v, expr.StrLit("")))
		}),
		typeCheck("float", expr.FuncIsFloat),
		typeCheck("integerish", expr.FuncIsNumeric),
		typeCheck("numeric", expr.FuncIsNumeric),
		unary("natural", func(v expr.Node) expr.Node {
			return expr.And(expr.Call(expr.FuncIsInt, v), expr.GreaterOrEqual(v, expr.IntLit(0)))
		}),
		typeCheck("boolean", expr.FuncIsBool),
		typeCheck("scalar", expr.FuncIsScalar),
		typeCheck("object", expr.FuncIsObject),
		typeCheck("resource", expr.FuncIsResource),
		typeCheck("isCallable", expr.FuncIsCallable),
		typeCheck("isArray", expr.FuncIsArray),
		unary("isIterable", func(v expr.Node) expr.Node {
			return orInstanceOf(v, types.ClassTraversable)
		}),
		unary("isList", func(v expr.Node) expr.Node {
			return expr.And(
				expr.Call(expr.FuncIsArray, v),
				expr.Identical(v, expr.Call(expr.FuncArrayValues, v)),
			)
		}),
		unary("isCountable", func(v expr.Node) expr.Node {
			return orInstanceOf(v, types.ClassCountable)
		}),
		unary("isArrayAccessible", func(v expr.Node) expr.Node {
			return orInstanceOf(v, types.ClassArrayAccess)
		}),
		withClass("isInstanceOf", func(v expr.Node, class string) expr.Node {
			return expr.Instanceof(v, class)
		}),
		withClass("notInstanceOf", func(v expr.Node, class string) expr.Node {
			return expr.Not(expr.Instanceof(v, class))
		}),
		withClass("implementsInterface", func(v expr.Node, class string) expr.Node {
			return expr.Instanceof(v, class)
		}),
		withClass("subclassOf", func(v expr.Node, class string) expr.Node {
			return expr.Call(expr.FuncIsSubclassOf, v, expr.StrLit(class))
		}),
		literalName("classExists", expr.FuncClassExists),
		literalName("interfaceExists", expr.FuncInterfaceExists),
		binary("keyExists", func(arr, key expr.Node) expr.Node {
			return expr.Call(expr.FuncArrayKeyExists, key, arr)
		}),
		binary("keyNotExists", func(arr, key expr.Node) expr.Node {
			return expr.Not(expr.Call(expr.FuncArrayKeyExists, key, arr))
		}),
		unary("validArrayKey", func(v expr.Node) expr.Node {
			return expr.Or(expr.Call(expr.FuncIsInt, v), isString(v))
		}),
		unary("true", func(v expr.Node) expr.Node {
			return expr.Identical(v, expr.BoolLit(true))
		}),
		unary("false", func(v expr.Node) expr.Node {
			return expr.Identical(v, expr.BoolLit(false))
		}),
		unary("null", func(v expr.Node) expr.Node {
			return expr.Identical(v, expr.NullLit())
		}),
		unary("notFalse", func(v expr.Node) expr.Node {
			return expr.NotIdentical(v, expr.BoolLit(false))
		}),
		unary("notNull", func(v expr.Node) expr.Node {
			return expr.NotIdentical(v, expr.NullLit())
		}),
		binary("same", expr.Identical),
		binary("notSame", expr.NotIdentical),
		binary("count", func(arr, n expr.Node) expr.Node {
			return expr.Identical(count(arr), n)
		}),
		binary("minCount", func(arr, lo expr.Node) expr.Node {
			return expr.GreaterOrEqual(count(arr), lo)
		}),
		binary("maxCount", func(arr, hi expr.Node) expr.Node {
			return expr.SmallerOrEqual(count(arr), hi)
		}),
		ternary("countBetween", func(arr, lo, hi expr.Node) expr.Node {
			return expr.And(
				expr.GreaterOrEqual(count(arr), lo),
				expr.SmallerOrEqual(count(arr), hi),
			)
		}),
		binary("length", func(v, n expr.Node) expr.Node {
			return expr.And(isString(v), expr.Identical(strlen(v), n))
		}),
		binary("minLength", func(v, lo expr.Node) expr.Node {
			return expr.And(isString(v), expr.GreaterOrEqual(strlen(v), lo))
		}),
		binary("maxLength", func(v, hi expr.Node) expr.Node {
			return expr.And(isString(v), expr.SmallerOrEqual(strlen(v), hi))
		}),
		ternary("lengthBetween", func(v, lo, hi expr.Node) expr.Node {
			return expr.And(
				isString(v),
				expr.And(
					expr.GreaterOrEqual(strlen(v), lo),
					expr.SmallerOrEqual(strlen(v), hi),
				),
			)
		}),
		binary("inArray", inArray),
		binary("oneOf", inArray),
		binary("methodExists", func(obj, method expr.Node) expr.Node {
			return expr.Call(expr.FuncMethodExists, obj, method)
		}),
		binary("propertyExists", func(obj, prop expr.Node) expr.Node {
			return expr.Call(expr.FuncPropertyExists, obj, prop)
		}),
	}
}
