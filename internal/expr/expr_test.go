package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeString(t *testing.T) {
	tests := []struct {
		name     string
		node     Node
		expected string
	}{
		{
			name:     "type check call",
			node:     Call(FuncIsInt, Var("value")),
			expected: "is_int($value)",
		},
		{
			name:     "null tolerant wrap",
			node:     Or(Call(FuncIsString, Var("v")), Identical(Var("v"), NullLit())),
			expected: "(is_string($v) || ($v === null))",
		},
		{
			name:     "negated instanceof",
			node:     Not(Instanceof(Var("o"), "Countable")),
			expected: "!($o instanceof Countable)",
		},
		{
			name:     "string literal with quote",
			node:     NotIdentical(Var("s"), StrLit("it's")),
			expected: `($s !== 'it\'s')`,
		},
		{
			name:     "count comparison",
			node:     GreaterOrEqual(Call(FuncCount, Var("list")), IntLit(2)),
			expected: "(count($list) >= 2)",
		},
		{
			name:     "in_array with a literal haystack",
			node:     Call(FuncInArray, Var("x"), List(StrLit("a"), StrLit("b")), BoolLit(true)),
			expected: "in_array($x, ['a', 'b'], true)",
		},
		{
			name:     "keyed array literal",
			node:     ArrayExpr{Items: []ArrayItem{{Key: StrLit("k"), Value: IntLit(1)}, {Value: NullLit()}}},
			expected: "['k' => 1, null]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.node.String())
		})
	}
}

func TestEqual(t *testing.T) {
	a := And(Call(FuncIsInt, Var("x")), Greater(Var("x"), IntLit(0)))
	b := And(Call(FuncIsInt, Var("x")), Greater(Var("x"), IntLit(0)))
	c := And(Call(FuncIsInt, Var("x")), Greater(Var("x"), IntLit(1)))

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.False(t, Equal(Var("x"), StrLit("x")))
	assert.True(t, Equal(Instanceof(Var("x"), "Foo"), Instanceof(Var("x"), "Foo")))
	assert.False(t, Equal(Instanceof(Var("x"), "Foo"), Instanceof(Var("x"), "Bar")))
	assert.Equal(t, Key(a), Key(b))

	assert.True(t, Equal(List(IntLit(1), StrLit("a")), List(IntLit(1), StrLit("a"))))
	assert.False(t, Equal(List(IntLit(1)), List(IntLit(1), IntLit(2))))
	keyed := ArrayExpr{Items: []ArrayItem{{Key: IntLit(0), Value: IntLit(1)}}}
	assert.False(t, Equal(List(IntLit(1)), keyed))
}

func TestCallTo(t *testing.T) {
	call, ok := CallTo(Call(FuncArrayValues, Var("l")), FuncArrayValues)
	assert.True(t, ok)
	assert.Len(t, call.Args, 1)

	_, ok = CallTo(Call(FuncCount, Var("l")), FuncArrayValues)
	assert.False(t, ok)

	_, ok = CallTo(Var("l"), FuncCount)
	assert.False(t, ok)
}
