package expr

import "strings"

// Node represents an expression.
type Node interface {
	isNode()
	String() string
}

// Function names understood by type specifiers.
const (
	FuncIsInt           = "is_int"
	FuncIsString        = "is_string"
	FuncIsFloat         = "is_float"
	FuncIsBool          = "is_bool"
	FuncIsNumeric       = "is_numeric"
	FuncIsScalar        = "is_scalar"
	FuncIsObject        = "is_object"
	FuncIsResource      = "is_resource"
	FuncIsCallable      = "is_callable"
	FuncIsArray         = "is_array"
	FuncIsSubclassOf    = "is_subclass_of"
	FuncClassExists     = "class_exists"
	FuncInterfaceExists = "interface_exists"
	FuncArrayKeyExists  = "array_key_exists"
	FuncArrayValues     = "array_values"
	FuncInArray         = "in_array"
	FuncCount           = "count"
	FuncStrlen          = "strlen"
	FuncMethodExists    = "method_exists"
	FuncPropertyExists  = "property_exists"
)

// LiteralExpr represents a literal value (int, bool, string, null).
type LiteralExpr struct {
	Val Value
}

func (LiteralExpr) isNode() {}
func (e LiteralExpr) String() string {
	return e.Val.String()
}

// VarExpr represents a variable reference.
type VarExpr struct {
	Name string
}

func (VarExpr) isNode() {}
func (e VarExpr) String() string {
	return "$" + e.Name
}

// BinaryOp represents binary operators.
type BinaryOp int

const (
	_ BinaryOp = iota
	OpIdentical
	OpNotIdentical
	OpGreater
	OpGreaterOrEqual
	OpSmallerOrEqual
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpIdentical:
		return "==="
	case OpNotIdentical:
		return "!=="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpSmallerOrEqual:
		return "<="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Node
	Right Node
}

func (BinaryExpr) isNode() {}
func (e BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// UnaryOp represents unary operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "!"
	default:
		return "?"
	}
}

// UnaryExpr represents a unary expression.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Node
}

func (UnaryExpr) isNode() {}
func (e UnaryExpr) String() string {
	return e.Op.String() + e.Operand.String()
}

// FuncCall represents a call to a global function.
type FuncCall struct {
	Func string
	Args []Node
}

func (FuncCall) isNode() {}
func (e FuncCall) String() string {
	parts := make([]string, len(e.Args))
	for i, arg := range e.Args {
		parts[i] = arg.String()
	}
	return e.Func + "(" + strings.Join(parts, ", ") + ")"
}

// InstanceOf represents `expr instanceof Class`.
type InstanceOf struct {
	Expr  Node
	Class string
}

func (InstanceOf) isNode() {}
func (e InstanceOf) String() string {
	return "(" + e.Expr.String() + " instanceof " + e.Class + ")"
}

// ArrayItem is one entry of an array literal. Key is nil for an implicit
// key.
type ArrayItem struct {
	Key   Node
	Value Node
}

// ArrayExpr represents an array literal such as `['a', 'k' => 1]`.
type ArrayExpr struct {
	Items []ArrayItem
}

func (ArrayExpr) isNode() {}
func (e ArrayExpr) String() string {
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		if item.Key != nil {
			parts[i] = item.Key.String() + " => " + item.Value.String()
			continue
		}
		parts[i] = item.Value.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Helper functions to construct nodes

// Lit creates a literal expression from a value.
func Lit(v Value) Node {
	return LiteralExpr{Val: v}
}

// IntLit creates an integer literal expression.
func IntLit(v int64) Node {
	return LiteralExpr{Val: IntValue{Val: v}}
}

// BoolLit creates a boolean literal expression.
func BoolLit(v bool) Node {
	return LiteralExpr{Val: BoolValue{Val: v}}
}

// StrLit creates a string literal expression.
func StrLit(v string) Node {
	return LiteralExpr{Val: StringValue{Val: v}}
}

// NullLit creates a null literal expression.
func NullLit() Node {
	return LiteralExpr{Val: NullValue{}}
}

// List creates an array literal with implicit keys.
func List(values ...Node) Node {
	items := make([]ArrayItem, len(values))
	for i, v := range values {
		items[i] = ArrayItem{Value: v}
	}
	return ArrayExpr{Items: items}
}

// Var creates a variable reference expression.
func Var(name string) Node {
	return VarExpr{Name: name}
}

// Call creates a function call expression.
func Call(fn string, args ...Node) Node {
	return FuncCall{Func: fn, Args: args}
}

// Binary creates a binary expression.
func Binary(op BinaryOp, left, right Node) Node {
	return BinaryExpr{Op: op, Left: left, Right: right}
}

// Not creates a logical not expression.
func Not(e Node) Node {
	return UnaryExpr{Op: OpNot, Operand: e}
}

// And creates a logical and expression.
func And(left, right Node) Node {
	return BinaryExpr{Op: OpAnd, Left: left, Right: right}
}

// Or creates a logical or expression.
func Or(left, right Node) Node {
	return BinaryExpr{Op: OpOr, Left: left, Right: right}
}

// Identical creates a strict equality expression.
func Identical(left, right Node) Node {
	return BinaryExpr{Op: OpIdentical, Left: left, Right: right}
}

// NotIdentical creates a strict inequality expression.
func NotIdentical(left, right Node) Node {
	return BinaryExpr{Op: OpNotIdentical, Left: left, Right: right}
}

// Greater creates a `left > right` expression.
func Greater(left, right Node) Node {
	return BinaryExpr{Op: OpGreater, Left: left, Right: right}
}

// GreaterOrEqual creates a `left >= right` expression.
func GreaterOrEqual(left, right Node) Node {
	return BinaryExpr{Op: OpGreaterOrEqual, Left: left, Right: right}
}

// SmallerOrEqual creates a `left <= right` expression.
func SmallerOrEqual(left, right Node) Node {
	return BinaryExpr{Op: OpSmallerOrEqual, Left: left, Right: right}
}

// Instanceof creates an instanceof check.
func Instanceof(e Node, class string) Node {
	return InstanceOf{Expr: e, Class: class}
}
