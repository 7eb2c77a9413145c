package narrow

import (
	"go.uber.org/zap"

	"github.com/gnolang/assertnarrow/internal/expr"
	"github.com/gnolang/assertnarrow/internal/refine"
	"github.com/gnolang/assertnarrow/internal/types"
)

var anyIterable = types.IterableType{Key: types.MixedType{}, Value: types.MixedType{}}

// narrowContainer applies transform to the element type of the container e
// and records the resulting container type. Keys and shapes are kept. A
// type with no array or iterable part narrows nothing.
func (x *Extension) narrowContainer(scope refine.Scope, e expr.Node, transform func(types.Type) types.Type) refine.SpecifiedTypes {
	current := x.algebra.Intersect(scope.TypeOf(e), anyIterable)
	if types.IsNever(current) {
		x.logger.Debug("not a container", zap.Stringer("expr", e), zap.Stringer("type", scope.TypeOf(e)))
		return refine.Empty()
	}

	if arrays := x.algebra.Arrays(current); len(arrays) > 0 {
		narrowed := make([]types.Type, 0, len(arrays))
		for _, a := range arrays {
			switch at := a.(type) {
			case types.ConstantArrayType:
				values := at.Values()
				for i, v := range values {
					values[i] = transform(v)
				}
				narrowed = append(narrowed, types.NewConstantArray(at.Keys(), values))
			case types.ArrayType:
				narrowed = append(narrowed, types.ArrayType{Key: at.Key, Item: transform(at.Item)})
			}
		}
		return x.specifier.Create(e, x.algebra.Union(narrowed...), refine.Truthy)
	}

	if x.algebra.IsSuperTypeOf(anyIterable, current).Yes() {
		narrowed := types.IterableType{
			Key:   x.algebra.IterableKeyType(current),
			Value: transform(x.algebra.IterableValueType(current)),
		}
		return x.specifier.Create(e, narrowed, refine.Truthy)
	}

	x.logger.Debug("container shape not recognized", zap.Stringer("expr", e), zap.Stringer("type", current))
	return refine.Empty()
}
