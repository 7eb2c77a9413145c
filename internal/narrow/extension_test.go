package narrow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/assertnarrow/internal/analysis"
	"github.com/gnolang/assertnarrow/internal/expr"
	"github.com/gnolang/assertnarrow/internal/refine"
	"github.com/gnolang/assertnarrow/internal/types"
)

var (
	_ Algebra       = (*types.Combinator)(nil)
	_ TypeSpecifier = (*analysis.Specifier)(nil)
)

func newTestEnv(t *testing.T, vars map[string]string, opts ...Option) (*Extension, *analysis.Scope) {
	t.Helper()
	classes := types.NewClassTable()
	classes.Register(types.Class{Name: "Foo"})
	classes.Register(types.Class{Name: "Bar"})
	c := types.NewCombinator(classes)

	scope := analysis.NewScope(c)
	for name, typ := range vars {
		parsed, err := c.Parse(typ)
		require.NoError(t, err, name)
		scope = scope.Assign(name, parsed)
	}
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(analysis.NewSpecifier(c), c, opts...), scope
}

func vars(names ...string) []expr.Node {
	out := make([]expr.Node, len(names))
	for i, n := range names {
		out[i] = expr.Var(n)
	}
	return out
}

func TestSpecifyTypesPredicates(t *testing.T) {
	x := expr.Var("x")
	tests := []struct {
		name     string
		vars     map[string]string
		call     string
		args     []expr.Node
		expected string
	}{
		{"integer", map[string]string{"x": "string|int"}, "integer", []expr.Node{x}, "int"},
		{"positiveInteger", map[string]string{"x": "string|int"}, "positiveInteger", []expr.Node{x}, "int<1, max>"},
		{"natural", map[string]string{"x": "string|int"}, "natural", []expr.Node{x}, "int<0, max>"},
		{"string", map[string]string{"x": "string|int"}, "string", []expr.Node{x}, "string"},
		{"stringNotEmpty", map[string]string{"x": "string|int|null"}, "stringNotEmpty", []expr.Node{x}, "non-empty-string"},
		{"float", map[string]string{"x": "float|int"}, "float", []expr.Node{x}, "float"},
		{"integerish", map[string]string{"x": "string|int"}, "integerish", []expr.Node{x}, "int|numeric-string"},
		{"numeric", map[string]string{"x": "float|string|null"}, "numeric", []expr.Node{x}, "float|numeric-string"},
		{"boolean", map[string]string{"x": "bool|int"}, "boolean", []expr.Node{x}, "bool"},
		{"scalar", map[string]string{"x": "int|array<int, string>|null"}, "scalar", []expr.Node{x}, "int"},
		{"object", map[string]string{"x": "Foo|int"}, "object", []expr.Node{x}, "Foo"},
		{"resource", map[string]string{"x": "resource|string"}, "resource", []expr.Node{x}, "resource"},
		{"isCallable", map[string]string{"x": "string|int"}, "isCallable", []expr.Node{x}, "string"},
		{"isArray", map[string]string{"x": "array<int, string>|int"}, "isArray", []expr.Node{x}, "array<int, string>"},
		{"isIterable", map[string]string{"x": "array<int, string>|ArrayObject|int"}, "isIterable", []expr.Node{x}, "array<int, string>|ArrayObject"},
		{"isCountable", map[string]string{"x": "array<int, string>|ArrayObject|Foo"}, "isCountable", []expr.Node{x}, "array<int, string>|ArrayObject"},
		{"isArrayAccessible", map[string]string{"x": "array<int, string>|ArrayObject|int"}, "isArrayAccessible", []expr.Node{x}, "array<int, string>|ArrayObject"},
		{"isList keeps list shapes", map[string]string{"x": "array{0: string}|array{1: int}"}, "isList", []expr.Node{x}, "array{0: string}"},
		{"isList on string keys", map[string]string{"x": "array<string, int>"}, "isList", []expr.Node{x}, "array{}"},
		{"isList on plain array", map[string]string{"x": "array"}, "isList", []expr.Node{x}, "array<int, mixed>"},
		{"isInstanceOf", map[string]string{"x": "Foo|Bar|null"}, "isInstanceOf", []expr.Node{x, expr.StrLit("Foo")}, "Foo"},
		{"notInstanceOf", map[string]string{"x": "Foo|Bar|null"}, "notInstanceOf", []expr.Node{x, expr.StrLit("Foo")}, "Bar|null"},
		{"implementsInterface", map[string]string{"x": "ArrayObject|int"}, "implementsInterface", []expr.Node{x, expr.StrLit("Countable")}, "ArrayObject"},
		{"subclassOf", map[string]string{"x": "Foo|int|null"}, "subclassOf", []expr.Node{x, expr.StrLit("Foo")}, "Foo"},
		{"keyExists", map[string]string{"x": "array{a: int}|array{b: string}"}, "keyExists", []expr.Node{x, expr.StrLit("a")}, "array{a: int}"},
		{"keyNotExists", map[string]string{"x": "array{a: int}|array{b: string}"}, "keyNotExists", []expr.Node{x, expr.StrLit("a")}, "array{b: string}"},
		{"keyExists with numeric string", map[string]string{"x": "array{0: int}|array{a: int}"}, "keyExists", []expr.Node{x, expr.StrLit("0")}, "array{0: int}"},
		{"validArrayKey", map[string]string{"x": "int|string|float|null"}, "validArrayKey", []expr.Node{x}, "int|string"},
		{"true", map[string]string{"x": "bool|int"}, "true", []expr.Node{x}, "true"},
		{"false", map[string]string{"x": "bool|int"}, "false", []expr.Node{x}, "false"},
		{"null", map[string]string{"x": "string|null"}, "null", []expr.Node{x}, "null"},
		{"notFalse", map[string]string{"x": "string|false"}, "notFalse", []expr.Node{x}, "string"},
		{"notNull", map[string]string{"x": "string|null"}, "notNull", []expr.Node{x}, "string"},
		{"same", map[string]string{"x": "string|int"}, "same", []expr.Node{x, expr.StrLit("foo")}, "'foo'"},
		{"notSame", map[string]string{"x": "'foo'|'bar'", "y": "'foo'"}, "notSame", vars("x", "y"), "'bar'"},
		{"notSame at the top of the int range", map[string]string{"x": "int<9223372036854775807, max>", "y": "9223372036854775807"}, "notSame", vars("x", "y"), "never"},
		{"notSame trims the range bound", map[string]string{"x": "int<0, max>", "y": "0"}, "notSame", vars("x", "y"), "int<1, max>"},
		{"count", map[string]string{"x": "array{0: int}|array{0: int, 1: int}|null"}, "count", []expr.Node{x, expr.IntLit(2)}, "array{0: int, 1: int}"},
		{"minCount", map[string]string{"x": "array{}|array{0: int}"}, "minCount", []expr.Node{x, expr.IntLit(1)}, "array{0: int}"},
		{"maxCount", map[string]string{"x": "array{0: int}|array{0: int, 1: int}"}, "maxCount", []expr.Node{x, expr.IntLit(1)}, "array{0: int}"},
		{"countBetween", map[string]string{"x": "array{}|array{0: int}|array{0: int, 1: int, 2: int}"}, "countBetween", []expr.Node{x, expr.IntLit(1), expr.IntLit(2)}, "array{0: int}"},
		{"count on general array", map[string]string{"x": "array<int, string>|null"}, "count", []expr.Node{x, expr.IntLit(2)}, "array<int, string>"},
		{"length", map[string]string{"x": "string|int"}, "length", []expr.Node{x, expr.IntLit(3)}, "non-empty-string"},
		{"length zero", map[string]string{"x": "string|int"}, "length", []expr.Node{x, expr.IntLit(0)}, "''"},
		{"length of constants", map[string]string{"x": "'abc'|'de'"}, "length", []expr.Node{x, expr.IntLit(3)}, "'abc'"},
		{"minLength", map[string]string{"x": "string|null"}, "minLength", []expr.Node{x, expr.IntLit(1)}, "non-empty-string"},
		{"maxLength", map[string]string{"x": "string"}, "maxLength", []expr.Node{x, expr.IntLit(0)}, "''"},
		{"lengthBetween", map[string]string{"x": "'a'|'abc'|'abcd'"}, "lengthBetween", []expr.Node{x, expr.IntLit(2), expr.IntLit(3)}, "'abc'"},
		{"inArray", map[string]string{"x": "string", "y": "array{0: 'a', 1: 'b'}"}, "inArray", vars("x", "y"), "'a'|'b'"},
		{"oneOf", map[string]string{"x": "string|int", "y": "array<int, int>"}, "oneOf", vars("x", "y"), "int"},
		{"inArray with a literal haystack", map[string]string{"x": "string|int"}, "inArray", []expr.Node{x, expr.List(expr.StrLit("a"), expr.StrLit("b"))}, "'a'|'b'"},
		{"methodExists", map[string]string{"x": "Foo|int"}, "methodExists", []expr.Node{x, expr.StrLit("run")}, "Foo"},
		{"propertyExists", map[string]string{"x": "Foo|string|int"}, "propertyExists", []expr.Node{x, expr.StrLit("id")}, "string|Foo"},
		{"nullOr string", map[string]string{"x": "string|int|null"}, "nullOrString", []expr.Node{x}, "string|null"},
		{"nullOr positiveInteger", map[string]string{"x": "string|int|null"}, "nullOrPositiveInteger", []expr.Node{x}, "int<1, max>|null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, scope := newTestEnv(t, tt.vars)
			require.True(t, ext.IsSupported(tt.call, len(tt.args)))

			specified, err := ext.SpecifyTypes(scope, Call{Name: tt.call, Args: tt.args})
			require.NoError(t, err)
			require.False(t, specified.IsEmpty())

			assert.Equal(t, tt.expected, scope.Filter(specified).Var("x").String())
		})
	}
}

func TestSpecifyTypesPerElement(t *testing.T) {
	x := expr.Var("x")
	tests := []struct {
		name     string
		vars     map[string]string
		call     string
		args     []expr.Node
		expected string
	}{
		{"allNotNull on shape", map[string]string{"x": "array{0: string|null, 1: int}"}, AllNotNull, []expr.Node{x}, "array{0: string, 1: int}"},
		{"allNotNull on iterable", map[string]string{"x": "iterable<int, string|null>"}, AllNotNull, []expr.Node{x}, "iterable<int, string>"},
		{"allNotNull on nullable array", map[string]string{"x": "array<int, string|null>|null"}, AllNotNull, []expr.Node{x}, "array<int, string>"},
		{"allNotNull on several shapes", map[string]string{"x": "array{0: int|null}|array{a: string|null}"}, AllNotNull, []expr.Node{x}, "array{0: int}|array{a: string}"},
		{"allNotInstanceOf", map[string]string{"x": "array<int, Foo|Bar>"}, AllNotInstanceOf, []expr.Node{x, expr.StrLit("Foo")}, "array<int, Bar>"},
		{"allNotSame", map[string]string{"x": "array<int, 'a'|'b'>", "y": "'a'"}, AllNotSame, vars("x", "y"), "array<int, 'b'>"},
		{"allString", map[string]string{"x": "array<int, mixed>"}, "allString", []expr.Node{x}, "array<int, string>"},
		{"allInteger on iterable", map[string]string{"x": "iterable<string, mixed>"}, "allInteger", []expr.Node{x}, "iterable<string, int>"},
		{"allPositiveInteger keeps keys", map[string]string{"x": "array{0: int, 1: int|null}"}, "allPositiveInteger", []expr.Node{x}, "array{0: int<1, max>, 1: int<1, max>}"},
		{"allIsInstanceOf", map[string]string{"x": "array<int, Foo|Bar>"}, "allIsInstanceOf", []expr.Node{x, expr.StrLit("Foo")}, "array<int, Foo>"},
		{"nullOrAllString", map[string]string{"x": "array<int, mixed>|null"}, "nullOrAllString", []expr.Node{x}, "array<int, string>|null"},
		{"mixed container", map[string]string{}, "allString", []expr.Node{x}, "iterable<mixed, string>"},
		{"allCount reuses the container as element type", map[string]string{"x": "array<int, int>"}, "allCount", []expr.Node{x, expr.IntLit(2)}, "never"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, scope := newTestEnv(t, tt.vars)
			require.True(t, ext.IsSupported(tt.call, len(tt.args)))

			specified, err := ext.SpecifyTypes(scope, Call{Name: tt.call, Args: tt.args})
			require.NoError(t, err)

			sure := specified.Sure()
			require.Len(t, sure, 1)
			assert.Equal(t, "$x", sure[0].Key())
			assert.Empty(t, specified.SureNot())

			assert.Equal(t, tt.expected, scope.Filter(specified).Var("x").String())
		})
	}
}

func TestSpecifyTypesNarrowsNothing(t *testing.T) {
	x := expr.Var("x")
	tests := []struct {
		name string
		vars map[string]string
		call string
		args []expr.Node
	}{
		{"unsupported name", map[string]string{"x": "mixed"}, "uuid", []expr.Node{x}},
		{"too few arguments", map[string]string{"x": "mixed"}, "isInstanceOf", []expr.Node{x}},
		{"class not literal", map[string]string{"x": "Foo|Bar", "class": "string"}, "isInstanceOf", vars("x", "class")},
		{"allNot class not literal", map[string]string{"x": "array<int, Foo|Bar>", "class": "string"}, AllNotInstanceOf, vars("x", "class")},
		{"allNot outside fixed set", map[string]string{"x": "array<int, bool>"}, "allNotFalse", []expr.Node{x}},
		{"nullOr allNot", map[string]string{"x": "array<int, string|null>"}, "nullOrAllNotNull", []expr.Node{x}},
		{"per element on scalar", map[string]string{"x": "int"}, "allString", []expr.Node{x}},
		{"allNotNull on scalar", map[string]string{"x": "string|null"}, AllNotNull, []expr.Node{x}},
		{"per element on object", map[string]string{"x": "Foo"}, AllNotNull, []expr.Node{x}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, scope := newTestEnv(t, tt.vars)
			specified, err := ext.SpecifyTypes(scope, Call{Name: tt.call, Args: tt.args})
			require.NoError(t, err)
			assert.True(t, specified.IsEmpty())
		})
	}
}

func TestLiteralRequirementIsIdempotent(t *testing.T) {
	ext, scope := newTestEnv(t, map[string]string{"x": "Foo|Bar", "class": "string"})
	call := Call{Name: "isInstanceOf", Args: vars("x", "class")}

	first, err := ext.SpecifyTypes(scope, call)
	require.NoError(t, err)
	second, err := ext.SpecifyTypes(scope, call)
	require.NoError(t, err)

	assert.True(t, first.IsEmpty())
	assert.True(t, second.IsEmpty())
}

func TestContainerNarrowingFixedPoint(t *testing.T) {
	ext, scope := newTestEnv(t, map[string]string{"x": "array{0: string, 1: int}"})
	call := Call{Name: AllNotNull, Args: vars("x")}

	specified, err := ext.SpecifyTypes(scope, call)
	require.NoError(t, err)
	once := scope.Filter(specified)
	assert.Equal(t, "array{0: string, 1: int}", once.Var("x").String())

	again, err := ext.SpecifyTypes(once, call)
	require.NoError(t, err)
	assert.Equal(t, once.Var("x").String(), once.Filter(again).Var("x").String())
}

func TestDisabledPredicate(t *testing.T) {
	ext, scope := newTestEnv(t, map[string]string{"x": "string|int"}, WithDisabled("string"))

	assert.False(t, ext.IsSupported("string", 1))
	assert.False(t, ext.IsSupported("allString", 1))
	assert.True(t, ext.IsSupported("integer", 1))

	specified, err := ext.SpecifyTypes(scope, Call{Name: "string", Args: vars("x")})
	require.NoError(t, err)
	assert.True(t, specified.IsEmpty())
}

func TestExtensionClass(t *testing.T) {
	ext, _ := newTestEnv(t, nil)
	assert.Equal(t, `Webmozart\Assert\Assert`, ext.Class())
}

func TestHandleAllNotOutsideFixedSet(t *testing.T) {
	ext, scope := newTestEnv(t, map[string]string{"x": "array<int, bool>"})

	_, err := ext.handleAllNot(scope, Call{Name: "allNotFalse", Args: vars("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))

	var inv *InvariantError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "allNotFalse", inv.Call)
}

type mockSpecifier struct {
	mock.Mock
}

func (m *mockSpecifier) SpecifyTypesInCondition(scope refine.Scope, cond expr.Node, ctx refine.Context) refine.SpecifiedTypes {
	args := m.Called(scope, cond, ctx)
	return args.Get(0).(refine.SpecifiedTypes)
}

func (m *mockSpecifier) Create(e expr.Node, t types.Type, ctx refine.Context) refine.SpecifiedTypes {
	args := m.Called(e, t, ctx)
	return args.Get(0).(refine.SpecifiedTypes)
}

func TestPerElementSureNotOnlyIsInvariantViolation(t *testing.T) {
	c := types.NewCombinator(nil)
	scope := analysis.NewScope(c).Assign("x", c.MustParse("array<int, mixed>"))

	specifier := new(mockSpecifier)
	sureNot := refine.New(nil, []refine.Entry{{Expr: expr.Var("x"), Type: types.StringType{}}})
	specifier.On("SpecifyTypesInCondition", mock.Anything, mock.Anything, refine.Truthy).Return(sureNot)

	ext := New(specifier, c)
	_, err := ext.SpecifyTypes(scope, Call{Name: "allString", Args: vars("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariant)
	specifier.AssertExpectations(t)
	specifier.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestPerElementUsesFirstSureEntry(t *testing.T) {
	c := types.NewCombinator(nil)
	scope := analysis.NewScope(c).
		Assign("x", c.MustParse("array<int, mixed>")).
		Assign("y", c.MustParse("array<int, mixed>"))

	specifier := new(mockSpecifier)
	specified := refine.New([]refine.Entry{
		{Expr: expr.Var("x"), Type: types.IntegerType{}},
		{Expr: expr.Var("y"), Type: types.StringType{}},
	}, nil)
	specifier.On("SpecifyTypesInCondition", mock.Anything, mock.Anything, refine.Truthy).Return(specified)

	want := types.ArrayType{Key: types.IntegerType{}, Item: types.IntegerType{}}
	created := refine.New([]refine.Entry{{Expr: expr.Var("x"), Type: want}}, nil)
	matchesWant := mock.MatchedBy(func(t types.Type) bool { return types.Equal(t, want) })
	specifier.On("Create", expr.Var("x"), matchesWant, refine.Truthy).Return(created)

	ext := New(specifier, c)
	got, err := ext.SpecifyTypes(scope, Call{Name: "allSame", Args: vars("x", "y")})
	require.NoError(t, err)

	typ, ok := got.SureType(expr.Var("x"))
	require.True(t, ok)
	assert.Equal(t, "array<int, int>", typ.String())
	specifier.AssertExpectations(t)
}

func TestSpecifyTypesConcurrently(t *testing.T) {
	ext, scope := newTestEnv(t, map[string]string{
		"x": "array{0: string|null, 1: int}",
		"y": "string|int|null",
	})
	calls := []Call{
		{Name: AllNotNull, Args: vars("x")},
		{Name: "nullOrString", Args: vars("y")},
		{Name: "integer", Args: vars("y")},
		{Name: "allString", Args: vars("x")},
	}

	want := make([]string, len(calls))
	for i, call := range calls {
		specified, err := ext.SpecifyTypes(scope, call)
		require.NoError(t, err)
		want[i] = describe(specified)
	}

	got := make([]string, 64)
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(8)
	for i := range got {
		i := i
		g.Go(func() error {
			specified, err := ext.SpecifyTypes(scope, calls[i%len(calls)])
			if err != nil {
				return err
			}
			got[i] = describe(specified)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i := range got {
		if diff := cmp.Diff(want[i%len(calls)], got[i]); diff != "" {
			t.Errorf("call %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func describe(st refine.SpecifiedTypes) string {
	var out string
	for _, e := range st.Sure() {
		out += fmt.Sprintf("sure %s: %s\n", e.Key(), e.Type)
	}
	for _, e := range st.SureNot() {
		out += fmt.Sprintf("not %s: %s\n", e.Key(), e.Type)
	}
	return out
}
