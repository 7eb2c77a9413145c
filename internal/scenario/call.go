package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnolang/assertnarrow/internal/expr"
	"github.com/gnolang/assertnarrow/internal/narrow"
)

// CallParseError reports a malformed assertion call.
type CallParseError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *CallParseError) Error() string {
	return fmt.Sprintf("invalid call %q at offset %d: %s", e.Input, e.Offset, e.Msg)
}

// ParseCall reads an assertion call such as `Assert::allNotNull($x)` or
// `nullOrString($v)`. Arguments are variables, string, integer, boolean and
// null literals, array literals such as `['a', 'k' => 1]`, or `Foo::class`
// which reads as the string 'Foo'. The class
// qualifier is optional; when present it must name the assertion class.
func ParseCall(input string) (narrow.Call, error) {
	p := &callParser{input: input}
	p.skipSpace()

	name, err := p.name()
	if err != nil {
		return narrow.Call{}, err
	}
	if p.consume("::") {
		if !isAssertClass(name) {
			return narrow.Call{}, p.errorf(0, "%s is not the assertion class", name)
		}
		if name, err = p.name(); err != nil {
			return narrow.Call{}, err
		}
	}
	if strings.Contains(name, `\`) {
		return narrow.Call{}, p.errorf(0, "invalid method name %q", name)
	}

	args, err := p.arguments()
	if err != nil {
		return narrow.Call{}, err
	}
	p.skipSpace()
	p.consume(";")
	p.skipSpace()
	if !p.eof() {
		return narrow.Call{}, p.errorf(p.pos, "unexpected %q", p.input[p.pos:])
	}
	return narrow.Call{Name: name, Args: args}, nil
}

func isAssertClass(name string) bool {
	name = strings.TrimPrefix(name, `\`)
	return strings.EqualFold(name, narrow.AssertClass) || strings.EqualFold(name, "Assert")
}

type callParser struct {
	input string
	pos   int
}

func (p *callParser) errorf(offset int, format string, args ...any) error {
	return &CallParseError{Input: p.input, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *callParser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *callParser) skipSpace() {
	for !p.eof() && strings.IndexByte(" \t\r\n", p.input[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *callParser) consume(s string) bool {
	if strings.HasPrefix(p.input[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	return false
}

func isNameStart(ch byte) bool {
	return ch == '_' || ch == '\\' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNamePart(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}

// name reads an identifier, possibly namespaced.
func (p *callParser) name() (string, error) {
	start := p.pos
	if p.eof() || !isNameStart(p.input[p.pos]) {
		return "", p.errorf(start, "expected a name")
	}
	for !p.eof() && isNamePart(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos], nil
}

func (p *callParser) arguments() ([]expr.Node, error) {
	p.skipSpace()
	if !p.consume("(") {
		return nil, p.errorf(p.pos, "expected '('")
	}
	var args []expr.Node
	p.skipSpace()
	if p.consume(")") {
		return args, nil
	}
	for {
		p.skipSpace()
		arg, err := p.argument()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipSpace()
		if p.consume(")") {
			return args, nil
		}
		if !p.consume(",") {
			return nil, p.errorf(p.pos, "expected ',' or ')'")
		}
	}
}

func (p *callParser) argument() (expr.Node, error) {
	if p.eof() {
		return nil, p.errorf(p.pos, "expected an argument")
	}
	start := p.pos
	switch ch := p.input[p.pos]; {
	case ch == '$':
		p.pos++
		name, err := p.name()
		if err != nil || strings.Contains(name, `\`) {
			return nil, p.errorf(start, "invalid variable")
		}
		return expr.Var(name), nil

	case ch == '[':
		return p.array()

	case ch == '\'' || ch == '"':
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return expr.StrLit(s), nil

	case ch == '-' || (ch >= '0' && ch <= '9'):
		p.pos++
		for !p.eof() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
		}
		v, err := strconv.ParseInt(p.input[start:p.pos], 10, 64)
		if err != nil {
			return nil, p.errorf(start, "invalid integer %q", p.input[start:p.pos])
		}
		return expr.IntLit(v), nil

	case isNameStart(ch):
		name, _ := p.name()
		switch strings.ToLower(name) {
		case "true":
			return expr.BoolLit(true), nil
		case "false":
			return expr.BoolLit(false), nil
		case "null":
			return expr.NullLit(), nil
		}
		if p.consume("::class") {
			return expr.StrLit(strings.TrimPrefix(name, `\`)), nil
		}
		return nil, p.errorf(start, "unsupported argument %q", name)
	}
	return nil, p.errorf(start, "unexpected character %q", p.input[start])
}

// array reads a bracketed array literal. A trailing comma is allowed.
func (p *callParser) array() (expr.Node, error) {
	p.pos++
	var items []expr.ArrayItem
	for {
		p.skipSpace()
		if p.consume("]") {
			return expr.ArrayExpr{Items: items}, nil
		}
		start := p.pos
		value, err := p.argument()
		if err != nil {
			return nil, err
		}
		item := expr.ArrayItem{Value: value}
		p.skipSpace()
		if p.consume("=>") {
			if !isArrayKey(value) {
				return nil, p.errorf(start, "array key must be a string or integer")
			}
			p.skipSpace()
			if item.Value, err = p.argument(); err != nil {
				return nil, err
			}
			item.Key = value
			p.skipSpace()
		}
		items = append(items, item)
		if p.consume("]") {
			return expr.ArrayExpr{Items: items}, nil
		}
		if !p.consume(",") {
			return nil, p.errorf(p.pos, "expected ',' or ']'")
		}
	}
}

func isArrayKey(n expr.Node) bool {
	lit, ok := n.(expr.LiteralExpr)
	if !ok {
		return false
	}
	switch lit.Val.(type) {
	case expr.IntValue, expr.StringValue:
		return true
	}
	return false
}

// quoted reads a single or double quoted string. Only the quote character
// and the backslash can be escaped.
func (p *callParser) quoted() (string, error) {
	start := p.pos
	quote := p.input[p.pos]
	p.pos++
	var sb strings.Builder
	for !p.eof() {
		ch := p.input[p.pos]
		switch {
		case ch == '\\' && p.pos+1 < len(p.input) && (p.input[p.pos+1] == quote || p.input[p.pos+1] == '\\'):
			sb.WriteByte(p.input[p.pos+1])
			p.pos += 2
		case ch == quote:
			p.pos++
			return sb.String(), nil
		default:
			sb.WriteByte(ch)
			p.pos++
		}
	}
	return "", p.errorf(start, "unterminated string")
}
