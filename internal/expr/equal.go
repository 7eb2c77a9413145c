package expr

// Key returns the identity under which refinements for n are recorded.
// Two structurally equal expressions share a key.
func Key(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Node) bool {
	switch left := a.(type) {
	case LiteralExpr:
		right, ok := b.(LiteralExpr)
		if !ok {
			return false
		}
		return left.Val.Equal(right.Val)
	case VarExpr:
		right, ok := b.(VarExpr)
		if !ok {
			return false
		}
		return left.Name == right.Name
	case BinaryExpr:
		right, ok := b.(BinaryExpr)
		if !ok {
			return false
		}
		if left.Op != right.Op {
			return false
		}
		return Equal(left.Left, right.Left) && Equal(left.Right, right.Right)
	case UnaryExpr:
		right, ok := b.(UnaryExpr)
		if !ok {
			return false
		}
		if left.Op != right.Op {
			return false
		}
		return Equal(left.Operand, right.Operand)
	case FuncCall:
		right, ok := b.(FuncCall)
		if !ok {
			return false
		}
		if left.Func != right.Func || len(left.Args) != len(right.Args) {
			return false
		}
		for i := range left.Args {
			if !Equal(left.Args[i], right.Args[i]) {
				return false
			}
		}
		return true
	case ArrayExpr:
		right, ok := b.(ArrayExpr)
		if !ok || len(left.Items) != len(right.Items) {
			return false
		}
		for i, item := range left.Items {
			other := right.Items[i]
			if (item.Key == nil) != (other.Key == nil) {
				return false
			}
			if item.Key != nil && !Equal(item.Key, other.Key) {
				return false
			}
			if !Equal(item.Value, other.Value) {
				return false
			}
		}
		return true
	case InstanceOf:
		right, ok := b.(InstanceOf)
		if !ok {
			return false
		}
		return left.Class == right.Class && Equal(left.Expr, right.Expr)
	default:
		return false
	}
}

// IsLiteral reports whether n is a literal value.
func IsLiteral(n Node) bool {
	_, ok := n.(LiteralExpr)
	return ok
}

// CallTo returns n as a call to fn, if it is one.
func CallTo(n Node, fn string) (FuncCall, bool) {
	call, ok := n.(FuncCall)
	if !ok || call.Func != fn {
		return FuncCall{}, false
	}
	return call, true
}
