// Package grammar defines the data model for grammar definitions: an entry
// pattern, a table of named rules, and a table of named constants. A
// Definition is plain data; the parse package interprets it against a token
// stream, and the dsl package produces it from grammar source text.
package grammar

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type MatcherKind int

const (
	MatchIdent MatcherKind = iota
	MatchInt
	MatchFloat
	MatchString
	MatchBool
	MatchRegex
	MatchKeyword
	MatchSymbol
	MatchRaw
	MatchRule
)

var matcherKindNames = map[MatcherKind]string{
	MatchIdent:   "ident",
	MatchInt:     "int",
	MatchFloat:   "float",
	MatchString:  "string",
	MatchBool:    "bool",
	MatchRegex:   "regex",
	MatchKeyword: "keyword",
	MatchSymbol:  "symbol",
	MatchRaw:     "raw",
	MatchRule:    "rule",
}

func (k MatcherKind) String() string {
	if name, ok := matcherKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Matcher is the test an element applies to a single token: a built-in token
// kind, a literal lexeme, a regular expression over the lexeme, or a
// reference to another rule.
type Matcher struct {
	Kind MatcherKind

	// Text holds the literal lexeme for MatchKeyword, MatchSymbol and
	// MatchRaw, and the rule name for MatchRule.
	Text string

	// Pattern is the compiled expression for MatchRegex, anchored so that it
	// must cover the entire lexeme.
	Pattern *regexp.Regexp
}

// Syntactic reports whether the matcher is pure syntax: literal matchers
// consume a token but never produce a capture, even when a binding name is
// present.
func (m Matcher) Syntactic() bool {
	switch m.Kind {
	case MatchKeyword, MatchSymbol, MatchRaw:
		return true
	}
	return false
}

func (m Matcher) String() string {
	switch m.Kind {
	case MatchIdent, MatchInt, MatchFloat, MatchString, MatchBool:
		return "<" + matcherKindNames[m.Kind] + ">"
	case MatchRegex:
		return "<s/" + m.Pattern.String() + "/>"
	case MatchKeyword:
		return "<kw[" + m.Text + "]>"
	case MatchSymbol:
		return "<sym[" + m.Text + "]>"
	case MatchRaw:
		return m.Text
	case MatchRule:
		return "<" + m.Text + ">"
	}
	return "<?>"
}

type Multiplicity int

const (
	MultOne Multiplicity = iota
	MultOptional
	MultZeroOrMore
	MultOneOrMore
)

// Element is one matchable unit in a sequence: a matcher plus an optional
// capture name, a multiplicity, and an optional separator for repetitions.
type Element struct {
	Matcher   Matcher
	Binding   string // capture name, "" for unnamed
	Mult      Multiplicity
	Separator string // literal text required between repetitions, "" for none
}

// Opt marks the element optional.
func (e Element) Opt() Element {
	e.Mult = MultOptional
	return e
}

// Star marks the element as repeating zero or more times.
func (e Element) Star() Element {
	e.Mult = MultZeroOrMore
	return e
}

// Plus marks the element as repeating one or more times.
func (e Element) Plus() Element {
	e.Mult = MultOneOrMore
	return e
}

// Sep sets the literal separator required between repetitions.
func (e Element) Sep(sep string) Element {
	e.Separator = sep
	return e
}

func (e Element) String() string {
	var sb strings.Builder
	if e.Binding != "" && e.Matcher.Kind != MatchRaw {
		inner := e.Matcher.String()
		sb.WriteString("<" + e.Binding + ":" + strings.TrimPrefix(strings.TrimSuffix(inner, ">"), "<") + ">")
	} else {
		sb.WriteString(e.Matcher.String())
	}
	switch e.Mult {
	case MultOptional:
		sb.WriteString("?")
	case MultZeroOrMore:
		if e.Separator != "" {
			fmt.Fprintf(&sb, " ** %q", e.Separator)
		} else {
			sb.WriteString("*")
		}
	case MultOneOrMore:
		if e.Separator != "" {
			fmt.Fprintf(&sb, " ++ %q", e.Separator)
		} else {
			sb.WriteString("+")
		}
	}
	return sb.String()
}

// Pattern is one rule-body alternative: a plain sequence of elements, or an
// ordered choice between that sequence and a fallback pattern. Fallback
// chains are right-recursive; the first alternative that fully matches wins.
type Pattern struct {
	Seq      []Element
	Fallback *Pattern
}

// Seq builds a plain sequence pattern.
func Seq(elems ...Element) Pattern {
	return Pattern{Seq: elems}
}

// Or appends a fallback at the end of the pattern's alternative chain.
func (p Pattern) Or(fallback Pattern) Pattern {
	if p.Fallback == nil {
		p.Fallback = &fallback
		return p
	}
	chained := p.Fallback.Or(fallback)
	p.Fallback = &chained
	return p
}

func (p Pattern) String() string {
	parts := make([]string, len(p.Seq))
	for i, e := range p.Seq {
		parts[i] = e.String()
	}
	s := strings.Join(parts, " ")
	if p.Fallback != nil {
		return s + " | " + p.Fallback.String()
	}
	return s
}

// Element constructors mirror the forms of the definition language.

func Ident(binding string) Element {
	return Element{Matcher: Matcher{Kind: MatchIdent}, Binding: binding}
}

func Int(binding string) Element {
	return Element{Matcher: Matcher{Kind: MatchInt}, Binding: binding}
}

func Float(binding string) Element {
	return Element{Matcher: Matcher{Kind: MatchFloat}, Binding: binding}
}

func Str(binding string) Element {
	return Element{Matcher: Matcher{Kind: MatchString}, Binding: binding}
}

func Bool(binding string) Element {
	return Element{Matcher: Matcher{Kind: MatchBool}, Binding: binding}
}

// Regex builds an element matching tokens whose entire lexeme matches expr.
func Regex(binding, expr string) (Element, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)\z`)
	if err != nil {
		return Element{}, fmt.Errorf("compile regex: %w", err)
	}
	return Element{Matcher: Matcher{Kind: MatchRegex, Pattern: re}, Binding: binding}, nil
}

func Keyword(text string) Element {
	return Element{Matcher: Matcher{Kind: MatchKeyword, Text: text}}
}

func Symbol(text string) Element {
	return Element{Matcher: Matcher{Kind: MatchSymbol, Text: text}}
}

func Raw(text string) Element {
	return Element{Matcher: Matcher{Kind: MatchRaw, Text: text}}
}

func Rule(binding, name string) Element {
	return Element{Matcher: Matcher{Kind: MatchRule, Text: name}, Binding: binding}
}

type ValueKind int

const (
	ValueChar ValueKind = iota
	ValueString
	ValueInt
	ValueFloat
	ValueBool
	ValueList
)

// Value is a constant declared under defines. Numeric values keep their
// source text; the engine never interprets them.
type Value struct {
	Kind ValueKind
	Text string // char, string, int or float text
	Bool bool
	List []Value
}

func (v Value) String() string {
	switch v.Kind {
	case ValueChar:
		return "'" + v.Text + "'"
	case ValueString:
		return fmt.Sprintf("%q", v.Text)
	case ValueInt, ValueFloat:
		return v.Text
	case ValueBool:
		return fmt.Sprintf("%v", v.Bool)
	case ValueList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "?"
}

// Define binds a name to a constant value.
type Define struct {
	Name  string
	Value Value
}

func (d Define) String() string {
	return "define " + d.Name + ": " + d.Value.String() + ";"
}

// Definition is a complete grammar: the entry pattern list, the named rule
// table, and the ordered constant table. It is read-only for the life of a
// parse and safe to share between concurrent parses.
type Definition struct {
	Entry   []Pattern
	Rules   map[string][]Pattern
	Defines []Define
}

// Rule looks up a rule body by name.
func (d *Definition) Rule(name string) ([]Pattern, bool) {
	pats, ok := d.Rules[name]
	return pats, ok
}

// Define looks up a constant by name. Constants are auxiliary data for
// grammar consumers; the engine does not interpolate them into matching.
func (d *Definition) Define(name string) (Value, bool) {
	for _, def := range d.Defines {
		if def.Name == name {
			return def.Value, true
		}
	}
	return Value{}, false
}

// RuleNames returns the rule names in sorted order.
func (d *Definition) RuleNames() []string {
	names := make([]string, 0, len(d.Rules))
	for name := range d.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the definition in canonical grammar source form: defines
// first, then the entry rule, then the remaining rules sorted by name.
func (d *Definition) String() string {
	var sb strings.Builder
	for _, def := range d.Defines {
		sb.WriteString(def.String())
		sb.WriteString("\n")
	}
	if len(d.Defines) > 0 {
		sb.WriteString("\n")
	}
	writeRule(&sb, "Main", d.Entry)
	for _, name := range d.RuleNames() {
		sb.WriteString("\n")
		writeRule(&sb, name, d.Rules[name])
	}
	return sb.String()
}

func writeRule(sb *strings.Builder, name string, pats []Pattern) {
	sb.WriteString(name + ":")
	for _, p := range pats {
		sb.WriteString(" " + p.String())
	}
	sb.WriteString(" ~~~\n")
}
