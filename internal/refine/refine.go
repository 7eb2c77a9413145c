// Package refine holds the vocabulary shared by the narrowing engine and the
// host that turns conditions into type refinements.
package refine

import (
	"github.com/gnolang/assertnarrow/internal/expr"
	"github.com/gnolang/assertnarrow/internal/types"
)

// Context selects the branch a condition is assumed to hold on.
type Context int

const (
	Truthy Context = iota + 1
	Falsey
)

// Negate returns the opposite branch.
func (c Context) Negate() Context {
	if c == Truthy {
		return Falsey
	}
	return Truthy
}

// True reports whether c is the truthy branch.
func (c Context) True() bool {
	return c == Truthy
}

func (c Context) String() string {
	switch c {
	case Truthy:
		return "truthy"
	case Falsey:
		return "falsey"
	default:
		return "unknown"
	}
}

// Scope answers type queries at the program point of an assertion call.
type Scope interface {
	TypeOf(e expr.Node) types.Type
}

// Entry records a type for one expression.
type Entry struct {
	Expr expr.Node
	Type types.Type
}

// Key returns the identity of the refined expression.
func (e Entry) Key() string {
	return expr.Key(e.Expr)
}

// SpecifiedTypes is a refinement: the types expressions definitely have
// ("sure") and definitely lack ("sure-not") on one branch. Entries keep
// insertion order and there is at most one entry per expression on each
// side. The zero value is the empty refinement.
type SpecifiedTypes struct {
	sure    []Entry
	sureNot []Entry
}

// New builds a refinement. Later entries for an already present expression
// replace the earlier type in place.
func New(sure, sureNot []Entry) SpecifiedTypes {
	return SpecifiedTypes{sure: dedupe(sure), sureNot: dedupe(sureNot)}
}

// Empty returns the refinement that narrows nothing.
func Empty() SpecifiedTypes {
	return SpecifiedTypes{}
}

func dedupe(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]Entry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Key()]; ok {
			out[i].Type = e.Type
			continue
		}
		index[e.Key()] = len(out)
		out = append(out, e)
	}
	return out
}

// Sure returns a copy of the sure entries in insertion order.
func (s SpecifiedTypes) Sure() []Entry {
	return append([]Entry(nil), s.sure...)
}

// SureNot returns a copy of the sure-not entries in insertion order.
func (s SpecifiedTypes) SureNot() []Entry {
	return append([]Entry(nil), s.sureNot...)
}

// IsEmpty reports whether the refinement narrows nothing.
func (s SpecifiedTypes) IsEmpty() bool {
	return len(s.sure) == 0 && len(s.sureNot) == 0
}

// SureType returns the sure type recorded for e.
func (s SpecifiedTypes) SureType(e expr.Node) (types.Type, bool) {
	return lookup(s.sure, expr.Key(e))
}

// SureNotType returns the sure-not type recorded for e.
func (s SpecifiedTypes) SureNotType(e expr.Node) (types.Type, bool) {
	return lookup(s.sureNot, expr.Key(e))
}

func lookup(entries []Entry, key string) (types.Type, bool) {
	for _, e := range entries {
		if e.Key() == key {
			return e.Type, true
		}
	}
	return nil, false
}
