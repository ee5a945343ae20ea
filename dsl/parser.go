// Package dsl parses grammar definition source into a grammar.Definition.
//
// A definition is a sequence of defines and rules:
//
//	define keywords: ["if", "else"];
//
//	Main: <name:ident> = <value:Expr> ~~~
//	Expr: <x:int> | <x:float> ~~~
//
// Rules end with "~~~". Elements are bare words (exact keywords), bare
// punctuation (exact symbols), or bracketed matchers: <ident>, <int>,
// <float>, <string>, <bool>, <sym[+]>, <kw[if]>, <s/regex/>, or a rule
// reference <Name>, each optionally named as <binding:...> and suffixed
// with ?, *, +, ** "sep" or ++ "sep". The rule named Main becomes the
// definition's entry pattern.
package dsl

import (
	"fmt"
	"strings"

	"github.com/dhamidi/grampa/grammar"
)

// Error is a positioned definition-parse error. Line and Column are
// 1-based.
type Error struct {
	Line   int
	Column int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// Parse parses definition source. A definition without a Main rule is an
// error; every other rule-name resolution is deferred to parse time.
func Parse(input string) (*grammar.Definition, error) {
	p := &parser{input: input, line: 1, col: 1}
	return p.parseTop()
}

type parser struct {
	input string
	pos   int
	line  int
	col   int
}

type state struct {
	pos  int
	line int
	col  int
}

func (p *parser) save() state     { return state{p.pos, p.line, p.col} }
func (p *parser) restore(s state) { p.pos, p.line, p.col = s.pos, s.line, s.col }
func (p *parser) eof() bool       { return p.pos >= len(p.input) }

func (p *parser) errf(format string, args ...any) *Error {
	return &Error{Line: p.line, Column: p.col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) peekByte() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) next() byte {
	if p.eof() {
		return 0
	}
	c := p.input[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return c
}

func (p *parser) eat(c byte) bool {
	if p.peekByte() == c {
		p.next()
		return true
	}
	return false
}

// lit consumes s when the input continues with it.
func (p *parser) lit(s string) bool {
	if strings.HasPrefix(p.input[p.pos:], s) {
		for range s {
			p.next()
		}
		return true
	}
	return false
}

// word consumes s only when it is not a prefix of a longer identifier.
func (p *parser) word(s string) bool {
	saved := p.save()
	if !p.lit(s) {
		return false
	}
	if isIdentChar(p.peekByte()) {
		p.restore(saved)
		return false
	}
	return true
}

func (p *parser) skipWS() {
	for !p.eof() {
		switch p.peekByte() {
		case ' ', '\t', '\r', '\n':
			p.next()
		default:
			return
		}
	}
}

func (p *parser) skipSpaces() {
	for p.peekByte() == ' ' || p.peekByte() == '\t' {
		p.next()
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (p *parser) ident() (string, bool) {
	if !isIdentStart(p.peekByte()) {
		return "", false
	}
	start := p.pos
	for isIdentChar(p.peekByte()) {
		p.next()
	}
	return p.input[start:p.pos], true
}

func (p *parser) parseTop() (*grammar.Definition, error) {
	rules := make(map[string][]grammar.Pattern)
	var defines []grammar.Define
	for {
		p.skipWS()
		if p.eof() {
			break
		}
		saved := p.save()
		def, ok, err := p.tryDefine()
		if err != nil {
			return nil, err
		}
		if ok {
			defines = append(defines, def)
			continue
		}
		p.restore(saved)
		name, pats, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		rules[name] = pats
	}
	entry, ok := rules["Main"]
	if !ok {
		return nil, &Error{Line: 1, Column: 1, Msg: "missing Main rule"}
	}
	delete(rules, "Main")
	return &grammar.Definition{Entry: entry, Rules: rules, Defines: defines}, nil
}

// tryDefine returns ok=false without consuming input when the source does
// not start a define, so the caller can retry it as a rule.
func (p *parser) tryDefine() (grammar.Define, bool, error) {
	var def grammar.Define
	if !p.word("define") {
		return def, false, nil
	}
	p.skipWS()
	name, ok := p.ident()
	if !ok {
		// "define" followed by ':' is a rule named define.
		return def, false, nil
	}
	p.skipWS()
	if !p.eat(':') {
		return def, false, p.errf("expected ':' after define %s", name)
	}
	value, err := p.parseValue()
	if err != nil {
		return def, false, err
	}
	p.skipWS()
	if !p.eat(';') {
		return def, false, p.errf("expected ';' after define %s", name)
	}
	return grammar.Define{Name: name, Value: value}, true, nil
}

func (p *parser) parseRule() (string, []grammar.Pattern, error) {
	name, ok := p.ident()
	if !ok {
		return "", nil, p.errf("expected rule name")
	}
	p.skipWS()
	if !p.eat(':') {
		return "", nil, p.errf("expected ':' after rule name %s", name)
	}
	var pats []grammar.Pattern
	for {
		p.skipWS()
		if p.lit("~~~") {
			break
		}
		if p.eof() {
			return "", nil, p.errf("missing '~~~' after rule %s", name)
		}
		pat, err := p.parsePattern()
		if err != nil {
			return "", nil, err
		}
		pats = append(pats, pat)
	}
	if len(pats) == 0 {
		return "", nil, p.errf("empty rule %s", name)
	}
	return name, pats, nil
}

func (p *parser) parsePattern() (grammar.Pattern, error) {
	elems, err := p.parseElements()
	if err != nil {
		return grammar.Pattern{}, err
	}
	p.skipWS()
	if p.eat('|') {
		fallback, err := p.parsePattern()
		if err != nil {
			return grammar.Pattern{}, err
		}
		return grammar.Pattern{Seq: elems, Fallback: &fallback}, nil
	}
	return grammar.Pattern{Seq: elems}, nil
}

func (p *parser) parseElements() ([]grammar.Element, error) {
	var elems []grammar.Element
	for {
		p.skipWS()
		c := p.peekByte()
		if p.eof() || c == '|' || c == '~' {
			break
		}
		el, err := p.parseElement()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if len(elems) == 0 {
		return nil, p.errf("expected pattern element")
	}
	return elems, nil
}

func (p *parser) parseElement() (grammar.Element, error) {
	c := p.peekByte()
	var el grammar.Element
	var err error
	switch {
	case c == '<':
		el, err = p.parseBracketed()
	case isIdentStart(c):
		id, _ := p.ident()
		el = grammar.Raw(id)
	case isBareSymbolChar(c):
		el = grammar.Symbol(p.bareSymbol())
	default:
		err = p.errf("unexpected character %q in pattern", c)
	}
	if err != nil {
		return grammar.Element{}, err
	}
	return p.parseRepeatSuffix(el)
}

// lexerSymbolChars is the symbol character class of the input lexer; bare
// punctuation in a grammar must lex as a single Symbol token to ever match.
const lexerSymbolChars = `-+*/=>\_.:,;<>!$%&?@`

func isBareSymbolChar(c byte) bool {
	if c == '|' || c == '~' || c == '<' {
		return false
	}
	return strings.IndexByte(lexerSymbolChars, c) >= 0
}

// bareSymbol reads a run of punctuation. ?, * and + terminate the run so
// they stay available as repeat suffixes; match them via <sym[...]> when
// they are part of a longer literal.
func (p *parser) bareSymbol() string {
	start := p.pos
	c := p.next()
	if c == '?' || c == '*' || c == '+' {
		return p.input[start:p.pos]
	}
	for !p.eof() {
		ch := p.peekByte()
		if ch == '?' || ch == '*' || ch == '+' || !isBareSymbolChar(ch) {
			break
		}
		p.next()
	}
	return p.input[start:p.pos]
}

func (p *parser) parseBracketed() (grammar.Element, error) {
	p.next() // '<'
	p.skipWS()

	binding := ""
	saved := p.save()
	if id, ok := p.ident(); ok {
		p.skipWS()
		if p.eat(':') {
			binding = id
			p.skipWS()
		} else {
			p.restore(saved)
		}
	}

	var el grammar.Element
	switch {
	case p.lit("sym["):
		start := p.pos
		for !p.eof() && p.peekByte() != ']' {
			p.next()
		}
		text := p.input[start:p.pos]
		if text == "" {
			return el, p.errf("expected symbol text in sym[...]")
		}
		if !p.eat(']') {
			return el, p.errf("expected ']' after symbol text")
		}
		el = grammar.Element{Matcher: grammar.Matcher{Kind: grammar.MatchSymbol, Text: text}, Binding: binding}

	case p.lit("kw["):
		p.skipWS()
		id, ok := p.ident()
		if !ok {
			return el, p.errf("expected keyword in kw[...]")
		}
		p.skipWS()
		if !p.eat(']') {
			return el, p.errf("expected ']' after keyword %s", id)
		}
		el = grammar.Element{Matcher: grammar.Matcher{Kind: grammar.MatchKeyword, Text: id}, Binding: binding}

	case p.lit("s/"):
		expr, err := p.regexBody()
		if err != nil {
			return el, err
		}
		p.next() // '/'
		el, err = grammar.Regex(binding, expr)
		if err != nil {
			return el, p.errf("invalid regex /%s/: %v", expr, err)
		}

	default:
		id, ok := p.ident()
		if !ok {
			return el, p.errf("expected matcher inside <...>")
		}
		switch id {
		case "ident":
			el = grammar.Ident(binding)
		case "int":
			el = grammar.Int(binding)
		case "float":
			el = grammar.Float(binding)
		case "string":
			el = grammar.Str(binding)
		case "bool":
			el = grammar.Bool(binding)
		default:
			el = grammar.Rule(binding, id)
		}
	}

	p.skipWS()
	if !p.eat('>') {
		return el, p.errf("expected '>' to close matcher")
	}
	return el, nil
}

func (p *parser) regexBody() (string, error) {
	var sb strings.Builder
	for !p.eof() {
		c := p.peekByte()
		if c == '/' {
			return sb.String(), nil
		}
		p.next()
		if c == '\\' && p.peekByte() == '/' {
			sb.WriteString(`\/`)
			p.next()
			continue
		}
		sb.WriteByte(c)
	}
	return "", p.errf("unterminated regex")
}

// parseRepeatSuffix reads an optional multiplicity after an element.
// ?, * and + must be attached; the separated forms ** "sep" and ++ "sep"
// may be preceded by spaces, so `a * b` keeps its bare `*` literal.
func (p *parser) parseRepeatSuffix(el grammar.Element) (grammar.Element, error) {
	switch p.peekByte() {
	case '?':
		p.next()
		return el.Opt(), nil
	case '*':
		p.next()
		if p.eat('*') {
			sep, err := p.separator()
			if err != nil {
				return el, err
			}
			return el.Star().Sep(sep), nil
		}
		return el.Star(), nil
	case '+':
		p.next()
		if p.eat('+') {
			sep, err := p.separator()
			if err != nil {
				return el, err
			}
			return el.Plus().Sep(sep), nil
		}
		return el.Plus(), nil
	}

	saved := p.save()
	p.skipSpaces()
	if p.lit("**") {
		sep, err := p.separator()
		if err != nil {
			return el, err
		}
		return el.Star().Sep(sep), nil
	}
	if p.lit("++") {
		sep, err := p.separator()
		if err != nil {
			return el, err
		}
		return el.Plus().Sep(sep), nil
	}
	p.restore(saved)
	return el, nil
}

func (p *parser) separator() (string, error) {
	p.skipSpaces()
	if !p.eat('"') {
		return "", p.errf("expected separator string after repeat")
	}
	s, err := p.stringBody()
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", p.errf("empty separator string")
	}
	return s, nil
}

// stringBody reads the remainder of a double-quoted string, unescaping
// \\ and \", including the closing quote.
func (p *parser) stringBody() (string, error) {
	var sb strings.Builder
	for !p.eof() {
		c := p.next()
		switch c {
		case '"':
			return sb.String(), nil
		case '\\':
			if p.eof() {
				return "", p.errf("unterminated escape in string")
			}
			e := p.next()
			if e != '\\' && e != '"' {
				return "", p.errf("invalid escape \\%c in string", e)
			}
			sb.WriteByte(e)
		default:
			sb.WriteByte(c)
		}
	}
	return "", p.errf("unterminated string")
}

func (p *parser) parseValue() (grammar.Value, error) {
	p.skipWS()
	c := p.peekByte()
	switch {
	case c == '[':
		p.next()
		var items []grammar.Value
		p.skipWS()
		if p.eat(']') {
			return grammar.Value{Kind: grammar.ValueList}, nil
		}
		for {
			item, err := p.parseValue()
			if err != nil {
				return grammar.Value{}, err
			}
			items = append(items, item)
			p.skipWS()
			if p.eat(',') {
				continue
			}
			if p.eat(']') {
				break
			}
			return grammar.Value{}, p.errf("expected ',' or ']' in list")
		}
		return grammar.Value{Kind: grammar.ValueList, List: items}, nil

	case c == '\'':
		p.next()
		ch := p.next()
		if ch == '\\' {
			e := p.next()
			if e != '\\' && e != '\'' {
				return grammar.Value{}, p.errf("invalid escape \\%c in char", e)
			}
			ch = e
		} else if ch == '\'' {
			return grammar.Value{}, p.errf("empty char literal")
		}
		if !p.eat('\'') {
			return grammar.Value{}, p.errf("unterminated char literal")
		}
		return grammar.Value{Kind: grammar.ValueChar, Text: string(ch)}, nil

	case c == '"':
		p.next()
		s, err := p.stringBody()
		if err != nil {
			return grammar.Value{}, err
		}
		return grammar.Value{Kind: grammar.ValueString, Text: s}, nil

	case isDigit(c):
		start := p.pos
		for isDigit(p.peekByte()) {
			p.next()
		}
		if p.eat('.') {
			for isDigit(p.peekByte()) {
				p.next()
			}
			return grammar.Value{Kind: grammar.ValueFloat, Text: p.input[start:p.pos]}, nil
		}
		return grammar.Value{Kind: grammar.ValueInt, Text: p.input[start:p.pos]}, nil

	case p.word("true"):
		return grammar.Value{Kind: grammar.ValueBool, Bool: true, Text: "true"}, nil

	case p.word("false"):
		return grammar.Value{Kind: grammar.ValueBool, Text: "false"}, nil
	}
	return grammar.Value{}, p.errf("expected value")
}
