package narrow

import (
	"go.uber.org/zap"

	"github.com/gnolang/assertnarrow/internal/expr"
	"github.com/gnolang/assertnarrow/internal/refine"
	"github.com/gnolang/assertnarrow/internal/types"
)

// AssertClass is the class whose static calls the extension narrows.
const AssertClass = `Webmozart\Assert\Assert`

// TypeSpecifier is the host engine that turns conditions into refinements.
type TypeSpecifier interface {
	SpecifyTypesInCondition(scope refine.Scope, cond expr.Node, ctx refine.Context) refine.SpecifiedTypes
	Create(e expr.Node, t types.Type, ctx refine.Context) refine.SpecifiedTypes
}

// Algebra is the part of the host type system the engine relies on.
type Algebra interface {
	Union(ts ...types.Type) types.Type
	Intersect(a, b types.Type) types.Type
	Remove(from, t types.Type) types.Type
	RemoveNull(t types.Type) types.Type
	IsSuperTypeOf(a, b types.Type) types.Trinary
	Arrays(t types.Type) []types.Type
	IterableKeyType(t types.Type) types.Type
	IterableValueType(t types.Type) types.Type
}

// Extension narrows the types of assertion call arguments. It holds no
// mutable state and is safe for concurrent use.
type Extension struct {
	specifier TypeSpecifier
	algebra   Algebra
	catalog   *Catalog
	logger    *zap.Logger
}

// Option configures an Extension.
type Option func(*Extension)

// WithLogger sets the logger used for debug traces of each call.
func WithLogger(logger *zap.Logger) Option {
	return func(x *Extension) {
		if logger != nil {
			x.logger = logger
		}
	}
}

// WithCatalog replaces the default catalog.
func WithCatalog(c *Catalog) Option {
	return func(x *Extension) {
		if c != nil {
			x.catalog = c
		}
	}
}

// WithDisabled turns the named canonical predicates off.
func WithDisabled(names ...string) Option {
	return func(x *Extension) {
		if len(names) > 0 {
			x.catalog = x.catalog.Without(names...)
		}
	}
}

// New creates an extension on top of a host specifier and type algebra.
func New(specifier TypeSpecifier, algebra Algebra, opts ...Option) *Extension {
	x := &Extension{
		specifier: specifier,
		algebra:   algebra,
		catalog:   defaultCatalog,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Class returns the asserting class name.
func (x *Extension) Class() string {
	return AssertClass
}

// Catalog returns the catalog in use.
func (x *Extension) Catalog() *Catalog {
	return x.catalog
}

// IsSupported reports whether a call named name with argc arguments is
// narrowed by the extension.
func (x *Extension) IsSupported(name string, argc int) bool {
	return x.catalog.Supports(name, argc)
}

// SpecifyTypes returns the refinement that holds after call returned. The
// error is non-nil only for an *InvariantError.
func (x *Extension) SpecifyTypes(scope refine.Scope, call Call) (refine.SpecifiedTypes, error) {
	log := x.logger.With(zap.String("call", call.Name), zap.Int("args", len(call.Args)))
	if !x.IsSupported(call.Name, len(call.Args)) {
		log.Debug("unsupported assertion")
		return refine.Empty(), nil
	}

	canonical, v := Describe(call.Name)
	if v.PerElementNegated {
		return x.handleAllNot(scope, call)
	}

	cond := x.catalog.synthesize(scope, canonical, v.NullTolerant && !v.PerElement, call.Args)
	if cond == nil {
		log.Debug("no condition for assertion", zap.String("predicate", canonical))
		return refine.Empty(), nil
	}
	log.Debug("synthesized condition", zap.Stringer("variant", v), zap.Stringer("condition", cond))

	specified := x.specifier.SpecifyTypesInCondition(scope, cond, refine.Truthy)
	if !v.PerElement {
		return specified, nil
	}
	return x.perElement(scope, call, specified, v.NullTolerant)
}

// perElement reuses the refined type of the container as the element type.
func (x *Extension) perElement(scope refine.Scope, call Call, specified refine.SpecifiedTypes, nullTolerant bool) (refine.SpecifiedTypes, error) {
	sure := specified.Sure()
	if len(sure) == 0 {
		if len(specified.SureNot()) > 0 {
			return refine.Empty(), &InvariantError{
				Call:   call.Name,
				Reason: "per-element condition produced only sure-not types",
			}
		}
		return specified, nil
	}

	first := sure[0]
	elementType := first.Type
	narrowed := x.narrowContainer(scope, first.Expr, func(types.Type) types.Type {
		return elementType
	})
	if !nullTolerant {
		return narrowed, nil
	}
	container, ok := narrowed.SureType(first.Expr)
	if !ok {
		return narrowed, nil
	}
	return x.specifier.Create(first.Expr, x.algebra.Union(container, types.NullType{}), refine.Truthy), nil
}
