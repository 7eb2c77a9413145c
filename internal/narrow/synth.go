package narrow

import (
	"github.com/gnolang/assertnarrow/internal/expr"
	"github.com/gnolang/assertnarrow/internal/refine"
)

// Call is an assertion call site: the static method name and its argument
// expressions.
type Call struct {
	Name string
	Args []expr.Node
}

func (c Call) String() string {
	return expr.Call("Assert::"+c.Name, c.Args...).String()
}

// Synthesize returns the condition that holds after call returned, or nil
// when the call narrows nothing. The allNot assertions have no condition.
// Under the all prefix the condition is the per-element check; nullOr then
// applies to the container, not to the condition.
func (c *Catalog) Synthesize(scope refine.Scope, call Call) expr.Node {
	canonical, v := Describe(call.Name)
	if v.PerElementNegated {
		return nil
	}
	return c.synthesize(scope, canonical, v.NullTolerant && !v.PerElement, call.Args)
}

func (c *Catalog) synthesize(scope refine.Scope, canonical string, nullTolerant bool, args []expr.Node) expr.Node {
	p, ok := c.Lookup(canonical)
	if !ok || len(args) < p.Arity {
		return nil
	}
	built := p.Build(scope, args)
	if built == nil {
		return nil
	}
	if nullTolerant {
		return expr.Or(built, expr.Identical(args[0], expr.NullLit()))
	}
	return built
}
