package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a malformed type string.
type ParseError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid type %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokPipe
	tokLt
	tokGt
	tokComma
	tokColon
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

var punctuation = map[byte]tokenKind{
	'|': tokPipe,
	'<': tokLt,
	'>': tokGt,
	',': tokComma,
	':': tokColon,
	'{': tokLBrace,
	'}': tokRBrace,
	'(': tokLParen,
	')': tokRParen,
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '\\' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch) || ch == '-'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func lex(input string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case punctuation[ch] != tokEOF:
			tokens = append(tokens, token{kind: punctuation[ch], text: string(ch), pos: i})
			i++
		case isDigit(ch) || (ch == '-' && i+1 < len(input) && isDigit(input[i+1])):
			start := i
			i++
			for i < len(input) && isDigit(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokInt, text: input[start:i], pos: start})
		case isIdentStart(ch):
			start := i
			for i < len(input) && isIdentPart(input[i]) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: input[start:i], pos: start})
		case ch == '\'' || ch == '"':
			start := i
			value, next, err := lexQuoted(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: value, pos: start})
			i = next
		default:
			return nil, &ParseError{Input: input, Offset: i, Msg: fmt.Sprintf("unexpected character %q", ch)}
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(input)}), nil
}

func lexQuoted(input string, start int) (string, int, error) {
	quoteCh := input[start]
	var sb strings.Builder
	i := start + 1
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == '\\' && i+1 < len(input) && (input[i+1] == quoteCh || input[i+1] == '\\'):
			sb.WriteByte(input[i+1])
			i += 2
		case ch == quoteCh:
			return sb.String(), i + 1, nil
		default:
			sb.WriteByte(ch)
			i++
		}
	}
	return "", 0, &ParseError{Input: input, Offset: start, Msg: "unterminated string"}
}

type parser struct {
	c      *Combinator
	input  string
	tokens []token
	pos    int
}

// Parse reads a type written in the annotation syntax, for example
// `string|int|null`, `array{0: string|null, 1: int}`, `iterable<int, string>`,
// `int<1, max>`, `'literal'` or a class name.
func (c *Combinator) Parse(input string) (Type, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	p := &parser{c: c, input: input, tokens: tokens}
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %q", tok.text)
	}
	return t, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func (c *Combinator) MustParse(input string) Type {
	t, err := c.Parse(input)
	if err != nil {
		panic(err)
	}
	return t
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) accept(kind tokenKind) bool {
	if p.peek().kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) error {
	if tok := p.peek(); tok.kind != kind {
		return p.errorf(tok, "expected %s", what)
	}
	p.pos++
	return nil
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &ParseError{Input: p.input, Offset: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseUnion() (Type, error) {
	var members []Type
	for {
		t, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		members = append(members, t)
		if !p.accept(tokPipe) {
			break
		}
	}
	return p.c.Union(members...), nil
}

func (p *parser) parseAtom() (Type, error) {
	tok := p.next()
	switch tok.kind {
	case tokLParen:
		t, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return t, nil
	case tokInt:
		v, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid integer %q", tok.text)
		}
		return ConstantIntegerType{Value: v}, nil
	case tokString:
		return ConstantStringType{Value: tok.text}, nil
	case tokIdent:
		return p.parseNamed(tok)
	default:
		return nil, p.errorf(tok, "expected a type")
	}
}

func (p *parser) parseNamed(tok token) (Type, error) {
	switch strings.ToLower(tok.text) {
	case "mixed":
		return MixedType{}, nil
	case "never":
		return NeverType{}, nil
	case "null":
		return NullType{}, nil
	case "bool", "boolean":
		return BooleanType{}, nil
	case "true":
		return ConstantBooleanType{Value: true}, nil
	case "false":
		return ConstantBooleanType{Value: false}, nil
	case "int", "integer":
		if p.peek().kind == tokLt {
			return p.parseRange()
		}
		return IntegerType{}, nil
	case "float", "double":
		return FloatType{}, nil
	case "string":
		return StringType{}, nil
	case "non-empty-string":
		return NonEmptyStringType{}, nil
	case "numeric-string":
		return NumericStringType{}, nil
	case "array-key":
		return p.c.Union(IntegerType{}, StringType{}), nil
	case "scalar":
		return p.c.Union(IntegerType{}, FloatType{}, StringType{}, BooleanType{}), nil
	case "resource":
		return ResourceType{}, nil
	case "callable":
		return CallableType{}, nil
	case "object":
		return ObjectWithoutClassType{}, nil
	case "array":
		switch p.peek().kind {
		case tokLt:
			key, value, err := p.parseGenericPair(p.c.Union(IntegerType{}, StringType{}))
			if err != nil {
				return nil, err
			}
			return ArrayType{Key: key, Item: value}, nil
		case tokLBrace:
			return p.parseShape()
		}
		return ArrayType{Key: MixedType{}, Item: MixedType{}}, nil
	case "iterable":
		if p.peek().kind == tokLt {
			key, value, err := p.parseGenericPair(MixedType{})
			if err != nil {
				return nil, err
			}
			return IterableType{Key: key, Value: value}, nil
		}
		return IterableType{Key: MixedType{}, Value: MixedType{}}, nil
	}
	return ObjectType{ClassName: p.c.classes.Canonical(tok.text)}, nil
}

// parseGenericPair reads `<V>` or `<K, V>`.
func (p *parser) parseGenericPair(defaultKey Type) (Type, Type, error) {
	if err := p.expect(tokLt, "'<'"); err != nil {
		return nil, nil, err
	}
	first, err := p.parseUnion()
	if err != nil {
		return nil, nil, err
	}
	if p.accept(tokGt) {
		return defaultKey, first, nil
	}
	if err := p.expect(tokComma, "',' or '>'"); err != nil {
		return nil, nil, err
	}
	second, err := p.parseUnion()
	if err != nil {
		return nil, nil, err
	}
	if err := p.expect(tokGt, "'>'"); err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

func (p *parser) parseRange() (Type, error) {
	if err := p.expect(tokLt, "'<'"); err != nil {
		return nil, err
	}
	lo, err := p.parseBound("min")
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokComma, "','"); err != nil {
		return nil, err
	}
	hi, err := p.parseBound("max")
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokGt, "'>'"); err != nil {
		return nil, err
	}
	return NewIntegerRange(lo, hi), nil
}

func (p *parser) parseBound(open string) (*int64, error) {
	tok := p.next()
	switch {
	case tok.kind == tokIdent && tok.text == open:
		return nil, nil
	case tok.kind == tokInt:
		v, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid integer %q", tok.text)
		}
		return &v, nil
	}
	return nil, p.errorf(tok, "expected an integer or %q", open)
}

func (p *parser) parseShape() (Type, error) {
	if err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	var keys, values []Type
	for p.peek().kind != tokRBrace {
		key, err := p.parseShapeKey()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokColon, "':'"); err != nil {
			return nil, err
		}
		value, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, value)
		if !p.accept(tokComma) {
			break
		}
	}
	if err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return NewConstantArray(keys, values), nil
}

func (p *parser) parseShapeKey() (Type, error) {
	tok := p.next()
	switch tok.kind {
	case tokInt:
		v, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid integer %q", tok.text)
		}
		return ConstantIntegerType{Value: v}, nil
	case tokIdent, tokString:
		return ConstantStringType{Value: tok.text}, nil
	}
	return nil, p.errorf(tok, "expected an array key")
}
