// Package parse interprets a grammar definition against a token stream.
// The engine walks the definition's patterns with ordered-choice
// backtracking and accumulates named captures into a generic syntax tree.
// No code is generated; the grammar stays data for the life of the parse.
package parse

import (
	"fmt"

	"github.com/dhamidi/grampa/grammar"
	"github.com/dhamidi/grampa/lex"
)

// EntryRule is the name under which the definition's entry pattern runs.
const EntryRule = "Main"

// Engine interprets one grammar definition. An Engine is immutable and safe
// for concurrent use; every Parse call owns its own cursor and tree.
type Engine struct {
	def *grammar.Definition
}

func NewEngine(def *grammar.Definition) *Engine {
	return &Engine{def: def}
}

// Parse is shorthand for NewEngine(def).Parse(tokens).
func Parse(def *grammar.Definition, tokens []lex.Token) (*Node, error) {
	return NewEngine(def).Parse(tokens)
}

// Parse runs the entry pattern against the stream's start and returns the
// resulting tree, or a ParseError describing the deepest failure.
func (e *Engine) Parse(tokens []lex.Token) (*Node, error) {
	return e.ParseAt(NewCursor(tokens))
}

// ParseAt runs the entry pattern at the cursor's current position. On
// success the cursor rests after the last consumed token; on failure it is
// restored to its starting mark.
func (e *Engine) ParseAt(cursor *Cursor) (*Node, error) {
	r := &run{
		def:    e.def,
		cursor: cursor,
		active: make(map[activeKey]bool),
		rule:   EntryRule,
	}
	node, err := r.parsePatterns(e.def.Entry)
	if err != nil {
		return nil, r.report(err)
	}
	node.Rule = EntryRule
	return node, nil
}

type activeKey struct {
	rule string
	pos  int
}

// run holds the per-call state of one parse: the cursor, the set of active
// (rule, position) pairs guarding against recursion without progress, and
// the deepest recoverable failure seen so far for error reporting.
type run struct {
	def     *grammar.Definition
	cursor  *Cursor
	active  map[activeKey]bool
	rule    string
	deepest *ParseError
}

// fail records a recoverable failure at the current position. Backtracked
// failures are expected control flow; only the deepest one survives into
// the final report.
func (r *run) fail(code ErrorCode, expected string) *ParseError {
	found := "end of input"
	if tok, ok := r.cursor.Peek(); ok {
		found = fmt.Sprintf("%q", tok.Literal)
	}
	err := &ParseError{
		Code:       code,
		Rule:       r.rule,
		TokenIndex: r.cursor.Pos(),
		Expected:   expected,
		Found:      found,
	}
	if r.deepest == nil || err.TokenIndex >= r.deepest.TokenIndex {
		r.deepest = err
	}
	return err
}

// report turns the error that unwound out of the entry pattern into the
// parse's final result: fatal errors as-is, otherwise the deepest failure.
func (r *run) report(err error) error {
	pe, ok := err.(*ParseError)
	if !ok || !pe.recoverable() {
		return err
	}
	if r.deepest != nil {
		return r.deepest
	}
	return err
}

// parseRule resolves a rule by name and parses its body. Re-entering a rule
// at the same cursor position cannot terminate, so it fails instead of
// recursing forever.
func (r *run) parseRule(name string) (*Node, error) {
	pats, ok := r.def.Rule(name)
	if !ok {
		return nil, &ParseError{
			Code:       CodeUnknownRule,
			Rule:       r.rule,
			TokenIndex: r.cursor.Pos(),
			Expected:   name,
		}
	}
	key := activeKey{rule: name, pos: r.cursor.Pos()}
	if r.active[key] {
		return nil, &ParseError{
			Code:       CodeNoProgress,
			Rule:       name,
			TokenIndex: r.cursor.Pos(),
		}
	}
	r.active[key] = true
	defer delete(r.active, key)

	outer := r.rule
	r.rule = name
	defer func() { r.rule = outer }()

	node, err := r.parsePatterns(pats)
	if err != nil {
		return nil, err
	}
	node.Rule = name
	return node, nil
}

// parsePatterns parses a rule body: the concatenation of its pattern list.
// A failed pattern restores the cursor to the body's starting mark.
func (r *run) parsePatterns(pats []grammar.Pattern) (*Node, error) {
	mark := r.cursor.Mark()
	node := &Node{}
	for _, p := range pats {
		sub, err := r.parsePattern(p)
		if err != nil {
			r.cursor.Restore(mark)
			return nil, err
		}
		node.merge(sub)
	}
	return node, nil
}

// parsePattern parses an ordered-choice chain: the primary sequence first,
// then — however far the primary got — the fallback from the same mark.
// The first alternative that fully matches wins; its captures alone make
// up the result.
func (r *run) parsePattern(p grammar.Pattern) (*Node, error) {
	if p.Fallback == nil {
		return r.parseSequence(p.Seq)
	}
	mark := r.cursor.Mark()
	node, err := r.parseSequence(p.Seq)
	if err == nil {
		return node, nil
	}
	pe, ok := err.(*ParseError)
	if !ok || !pe.recoverable() {
		return nil, err
	}
	r.cursor.Restore(mark)
	return r.parsePattern(*p.Fallback)
}

// parseSequence attempts each element in declared order into a fresh
// accumulator. The first failing element aborts the whole sequence: the
// cursor rewinds to the sequence's starting mark and the accumulator is
// discarded, so no partial consumption or capture escapes.
func (r *run) parseSequence(elems []grammar.Element) (*Node, error) {
	mark := r.cursor.Mark()
	node := &Node{}
	for i := range elems {
		if err := r.parseElement(&elems[i], node); err != nil {
			r.cursor.Restore(mark)
			return nil, err
		}
	}
	return node, nil
}

func (r *run) parseElement(el *grammar.Element, node *Node) error {
	switch el.Mult {
	case grammar.MultOne:
		v, err := r.matchOnce(el)
		if err != nil {
			return err
		}
		r.bind(node, el, v)
		return nil

	case grammar.MultOptional:
		mark := r.cursor.Mark()
		v, err := r.matchOnce(el)
		if err != nil {
			pe, ok := err.(*ParseError)
			if !ok || !pe.recoverable() {
				return err
			}
			r.cursor.Restore(mark)
			r.bind(node, el, Absent())
			return nil
		}
		r.bind(node, el, v)
		return nil

	case grammar.MultZeroOrMore, grammar.MultOneOrMore:
		return r.parseRepeat(el, node)
	}
	return fmt.Errorf("unhandled multiplicity %d", el.Mult)
}

// parseRepeat matches the element as often as it will go. With a separator
// configured, the separator must match strictly between repetitions and
// never trail: each iteration marks before the separator, so a separator
// whose following element fails is rewound along with it.
func (r *run) parseRepeat(el *grammar.Element, node *Node) error {
	var items []Value
	var last *ParseError
	for {
		mark := r.cursor.Mark()
		if len(items) > 0 && el.Separator != "" {
			if err := r.matchSeparator(el.Separator); err != nil {
				pe, ok := err.(*ParseError)
				if !ok || !pe.recoverable() {
					return err
				}
				r.cursor.Restore(mark)
				last = pe
				break
			}
		}
		v, err := r.matchOnce(el)
		if err != nil {
			pe, ok := err.(*ParseError)
			if !ok || !pe.recoverable() {
				return err
			}
			r.cursor.Restore(mark)
			last = pe
			break
		}
		items = append(items, v)
		if r.cursor.Pos() == mark {
			// Zero-width match; repeating it again would never stop.
			break
		}
	}
	if el.Mult == grammar.MultOneOrMore && len(items) == 0 {
		if last != nil {
			return last
		}
		return r.fail(CodeTokenMismatch, el.Matcher.String())
	}
	r.bindList(node, el, items)
	return nil
}

func (r *run) matchSeparator(sep string) error {
	tok, ok := r.cursor.Peek()
	if !ok {
		return r.fail(CodeEndOfInput, fmt.Sprintf("separator %q", sep))
	}
	if tok.Literal != sep {
		return r.fail(CodeSeparatorMismatch, fmt.Sprintf("separator %q", sep))
	}
	r.cursor.Advance()
	return nil
}

// matchOnce attempts a single match of the element's matcher and returns
// the value it produces. Literal matchers return no bindable value.
func (r *run) matchOnce(el *grammar.Element) (Value, error) {
	m := &el.Matcher
	switch m.Kind {
	case grammar.MatchIdent, grammar.MatchInt, grammar.MatchFloat,
		grammar.MatchString, grammar.MatchBool:
		return r.matchBuiltin(m)

	case grammar.MatchRegex:
		tok, ok := r.cursor.Peek()
		if !ok {
			return Value{}, r.fail(CodeEndOfInput, m.String())
		}
		// Regexes apply to lexeme-bearing token kinds only.
		if tok.Kind != lex.TokenIdentifier && tok.Kind != lex.TokenSymbol {
			return Value{}, r.fail(CodeTokenMismatch, m.String())
		}
		if !m.Pattern.MatchString(tok.Literal) {
			return Value{}, r.fail(CodeTokenMismatch, m.String())
		}
		r.cursor.Advance()
		return Leaf(tok), nil

	case grammar.MatchKeyword:
		return r.matchLiteral(m, lex.TokenIdentifier)

	case grammar.MatchSymbol:
		return r.matchLiteral(m, lex.TokenSymbol)

	case grammar.MatchRaw:
		tok, ok := r.cursor.Peek()
		if !ok {
			return Value{}, r.fail(CodeEndOfInput, m.String())
		}
		// Bare words in a grammar are identifier-class lexemes; true and
		// false lex as Boolean, so both kinds qualify.
		if tok.Kind != lex.TokenIdentifier && tok.Kind != lex.TokenBoolean {
			return Value{}, r.fail(CodeTokenMismatch, m.String())
		}
		if tok.Literal != m.Text {
			return Value{}, r.fail(CodeTokenMismatch, m.String())
		}
		r.cursor.Advance()
		return Leaf(tok), nil

	case grammar.MatchRule:
		node, err := r.parseRule(m.Text)
		if err != nil {
			return Value{}, err
		}
		return Nested(node), nil
	}
	return Value{}, fmt.Errorf("unhandled matcher kind %d", m.Kind)
}

var builtinTokenKinds = map[grammar.MatcherKind]lex.TokenKind{
	grammar.MatchIdent: lex.TokenIdentifier,
	grammar.MatchInt:   lex.TokenInteger,
	grammar.MatchFloat: lex.TokenFloat,
	grammar.MatchBool:  lex.TokenBoolean,
	// MatchString has no counterpart in the closed token set; the matcher
	// is legal but can never succeed against this lexer's output.
}

func (r *run) matchBuiltin(m *grammar.Matcher) (Value, error) {
	tok, ok := r.cursor.Peek()
	if !ok {
		return Value{}, r.fail(CodeEndOfInput, m.String())
	}
	want, known := builtinTokenKinds[m.Kind]
	if !known || tok.Kind != want {
		return Value{}, r.fail(CodeTokenMismatch, m.String())
	}
	r.cursor.Advance()
	return Leaf(tok), nil
}

func (r *run) matchLiteral(m *grammar.Matcher, want lex.TokenKind) (Value, error) {
	tok, ok := r.cursor.Peek()
	if !ok {
		return Value{}, r.fail(CodeEndOfInput, m.String())
	}
	if tok.Kind != want || tok.Literal != m.Text {
		return Value{}, r.fail(CodeTokenMismatch, m.String())
	}
	r.cursor.Advance()
	return Leaf(tok), nil
}

// bind records a capture. Unnamed elements gate control flow only, and
// literal matchers are pure syntax: they never bind, named or not.
func (r *run) bind(node *Node, el *grammar.Element, v Value) {
	if el.Binding == "" || el.Matcher.Syntactic() {
		return
	}
	node.Set(el.Binding, v)
}

func (r *run) bindList(node *Node, el *grammar.Element, items []Value) {
	if el.Binding == "" || el.Matcher.Syntactic() {
		return
	}
	node.Set(el.Binding, List(items))
}
