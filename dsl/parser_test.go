package dsl

import (
	"strings"
	"testing"

	"github.com/dhamidi/grampa/grammar"
)

func parse(t *testing.T, input string) *grammar.Definition {
	t.Helper()
	def, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return def
}

func TestParseSimpleRule(t *testing.T) {
	def := parse(t, `Main: <name:ident> = <value:int> ~~~`)

	if len(def.Entry) != 1 {
		t.Fatalf("entry patterns = %d, want 1", len(def.Entry))
	}
	seq := def.Entry[0].Seq
	if len(seq) != 3 {
		t.Fatalf("elements = %d, want 3", len(seq))
	}
	if seq[0].Matcher.Kind != grammar.MatchIdent || seq[0].Binding != "name" {
		t.Errorf("element 0 = %v, want <name:ident>", seq[0])
	}
	if seq[1].Matcher.Kind != grammar.MatchSymbol || seq[1].Matcher.Text != "=" {
		t.Errorf("element 1 = %v, want symbol =", seq[1])
	}
	if seq[2].Matcher.Kind != grammar.MatchInt || seq[2].Binding != "value" {
		t.Errorf("element 2 = %v, want <value:int>", seq[2])
	}
}

func TestParseBareWordIsRaw(t *testing.T) {
	def := parse(t, `Main: let <name:ident> ~~~`)

	el := def.Entry[0].Seq[0]
	if el.Matcher.Kind != grammar.MatchRaw || el.Matcher.Text != "let" {
		t.Errorf("element = %v, want raw let", el)
	}
}

func TestParseAlternatives(t *testing.T) {
	def := parse(t, `Main: <x:int> | <x:float> | <x:ident> ~~~`)

	pat := def.Entry[0]
	depth := 0
	for cur := &pat; cur != nil; cur = cur.Fallback {
		depth++
	}
	if depth != 3 {
		t.Errorf("alternative chain depth = %d, want 3", depth)
	}
	if pat.Fallback.Seq[0].Matcher.Kind != grammar.MatchFloat {
		t.Errorf("second alternative = %v, want float", pat.Fallback.Seq[0])
	}
}

func TestParseMultiplePatternsPerRule(t *testing.T) {
	def := parse(t, `Main: <a:int> <b:int> ~~~`)
	if len(def.Entry) != 1 || len(def.Entry[0].Seq) != 2 {
		t.Errorf("entry = %v, want one pattern of two elements", def.Entry)
	}
}

func TestParseRepeatSuffixes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		mult grammar.Multiplicity
		sep  string
	}{
		{"optional", `Main: <x:int>? ~~~`, grammar.MultOptional, ""},
		{"star", `Main: <x:int>* ~~~`, grammar.MultZeroOrMore, ""},
		{"plus", `Main: <x:int>+ ~~~`, grammar.MultOneOrMore, ""},
		{"star separated", `Main: <x:int> ** "," ~~~`, grammar.MultZeroOrMore, ","},
		{"plus separated", `Main: <x:int>++";" ~~~`, grammar.MultOneOrMore, ";"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := parse(t, tt.src)
			el := def.Entry[0].Seq[0]
			if el.Mult != tt.mult {
				t.Errorf("mult = %v, want %v", el.Mult, tt.mult)
			}
			if el.Separator != tt.sep {
				t.Errorf("separator = %q, want %q", el.Separator, tt.sep)
			}
		})
	}
}

func TestParseSpacedStarStaysLiteral(t *testing.T) {
	// A lone * with space on both sides is a symbol element, not a
	// repeat suffix.
	def := parse(t, `Main: <x:int> * <y:int> ~~~`)

	seq := def.Entry[0].Seq
	if len(seq) != 3 {
		t.Fatalf("elements = %d, want 3", len(seq))
	}
	if seq[0].Mult != grammar.MultOne {
		t.Errorf("x mult = %v, want one", seq[0].Mult)
	}
	if seq[1].Matcher.Kind != grammar.MatchSymbol || seq[1].Matcher.Text != "*" {
		t.Errorf("element 1 = %v, want symbol *", seq[1])
	}
}

func TestParseBracketedMatchers(t *testing.T) {
	def := parse(t, `Main: <kw[if]> <op:sym[->]> <word:s/[a-z]+/> <expr:Expr> <Term> ~~~`)

	seq := def.Entry[0].Seq
	if seq[0].Matcher.Kind != grammar.MatchKeyword || seq[0].Matcher.Text != "if" {
		t.Errorf("element 0 = %v, want kw[if]", seq[0])
	}
	if seq[1].Matcher.Kind != grammar.MatchSymbol || seq[1].Matcher.Text != "->" {
		t.Errorf("element 1 = %v, want sym[->]", seq[1])
	}
	if seq[2].Matcher.Kind != grammar.MatchRegex || seq[2].Binding != "word" {
		t.Errorf("element 2 = %v, want regex bound to word", seq[2])
	}
	if !seq[2].Matcher.Pattern.MatchString("abc") || seq[2].Matcher.Pattern.MatchString("abc1") {
		t.Errorf("regex %v must cover the whole lexeme", seq[2].Matcher.Pattern)
	}
	if seq[3].Matcher.Kind != grammar.MatchRule || seq[3].Matcher.Text != "Expr" || seq[3].Binding != "expr" {
		t.Errorf("element 3 = %v, want <expr:Expr>", seq[3])
	}
	if seq[4].Matcher.Kind != grammar.MatchRule || seq[4].Matcher.Text != "Term" || seq[4].Binding != "" {
		t.Errorf("element 4 = %v, want unbound <Term>", seq[4])
	}
}

func TestParseRegexEscapedSlash(t *testing.T) {
	def := parse(t, `Main: <path:s/[a-z]+\/[a-z]+/> ~~~`)

	re := def.Entry[0].Seq[0].Matcher.Pattern
	if !re.MatchString("foo/bar") {
		t.Errorf("regex %v should match foo/bar", re)
	}
}

func TestParseDefines(t *testing.T) {
	def := parse(t, `
define keywords: ["if", 'c', 3, 3.5, true];
define version: 2;

Main: <x:int> ~~~
`)

	if len(def.Defines) != 2 {
		t.Fatalf("defines = %d, want 2", len(def.Defines))
	}
	keywords, ok := def.Define("keywords")
	if !ok || keywords.Kind != grammar.ValueList || len(keywords.List) != 5 {
		t.Fatalf("keywords = %v %v", keywords, ok)
	}
	wantKinds := []grammar.ValueKind{
		grammar.ValueString, grammar.ValueChar, grammar.ValueInt,
		grammar.ValueFloat, grammar.ValueBool,
	}
	for i, item := range keywords.List {
		if item.Kind != wantKinds[i] {
			t.Errorf("item %d kind = %v, want %v", i, item.Kind, wantKinds[i])
		}
	}
	version, _ := def.Define("version")
	if version.Kind != grammar.ValueInt || version.Text != "2" {
		t.Errorf("version = %v, want int 2", version)
	}
}

func TestParseMultipleRules(t *testing.T) {
	def := parse(t, `
Main: <stmt:Stmt>+ ~~~
Stmt: <name:ident> = <value:Expr> ; ~~~
Expr: <x:int> | <x:float> ~~~
`)

	if len(def.Rules) != 2 {
		t.Fatalf("rules = %v, want Stmt and Expr", def.RuleNames())
	}
	if _, ok := def.Rule("Main"); ok {
		t.Error("Main must move to the entry pattern, not stay a rule")
	}
	stmt, ok := def.Rule("Stmt")
	if !ok || len(stmt[0].Seq) != 4 {
		t.Errorf("Stmt = %v", stmt)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"missing Main", `Expr: <x:int> ~~~`, "missing Main rule"},
		{"missing terminator", `Main: <x:int>`, "missing '~~~'"},
		{"empty rule", `Main: ~~~`, "empty rule"},
		{"unclosed matcher", `Main: <x:int ~~~`, "expected '>'"},
		{"unterminated regex", `Main: <s/[a-z]+> ~~~`, "unterminated regex"},
		{"empty separator", `Main: <x:int> ** "" ~~~`, "empty separator"},
		{"missing separator", `Main: <x:int> ** ~~~`, "expected separator string"},
		{"bad define", `define keywords ["if"];`, "expected ':'"},
		{"unterminated define", `define version: 2`, "expected ';'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %v, want substring %q", err, tt.msg)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("Main:\n  <x:int]\n~~~")
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Line != 2 {
		t.Errorf("line = %d, want 2", e.Line)
	}
}

func TestParseRuleNamedDefine(t *testing.T) {
	// "define" followed by ':' begins a rule, not a constant.
	def := parse(t, `
define: <x:int> ~~~
Main: <d:define> ~~~
`)
	if _, ok := def.Rule("define"); !ok {
		t.Errorf("rules = %v, want a rule named define", def.RuleNames())
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	src := `define keywords: ["if", "else"];

Main: <name:ident> <sym[=]> <value:Expr> ~~~

Expr: <x:int> ** "," | <x:float> ~~~
`
	first := parse(t, src)
	second := parse(t, first.String())
	if first.String() != second.String() {
		t.Errorf("canonical form is not a fixed point:\n%s\nvs\n%s", first, second)
	}
}
