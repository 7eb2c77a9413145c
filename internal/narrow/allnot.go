package narrow

import (
	"github.com/gnolang/assertnarrow/internal/refine"
	"github.com/gnolang/assertnarrow/internal/types"
)

// handleAllNot subtracts a type from every element of the container passed
// as first argument.
func (x *Extension) handleAllNot(scope refine.Scope, call Call) (refine.SpecifiedTypes, error) {
	if need, ok := allNotMinArgs[call.Name]; ok && len(call.Args) < need {
		return refine.Empty(), nil
	}

	switch call.Name {
	case AllNotNull:
		return x.narrowContainer(scope, call.Args[0], x.algebra.RemoveNull), nil

	case AllNotInstanceOf:
		class, ok := literalString(scope, call.Args[1])
		if !ok {
			return refine.Empty(), nil
		}
		object := types.ObjectType{ClassName: className(class)}
		return x.narrowContainer(scope, call.Args[0], func(t types.Type) types.Type {
			return x.algebra.Remove(t, object)
		}), nil

	case AllNotSame:
		value := scope.TypeOf(call.Args[1])
		return x.narrowContainer(scope, call.Args[0], func(t types.Type) types.Type {
			return x.algebra.Remove(t, value)
		}), nil
	}

	return refine.Empty(), &InvariantError{Call: call.Name, Reason: "not an allNot assertion"}
}
