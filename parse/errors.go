package parse

import "fmt"

type ErrorCode int

const (
	// CodeTokenMismatch: the current token's kind or lexeme failed an
	// element's matcher. Recoverable at alternative, optional and
	// repetition boundaries.
	CodeTokenMismatch ErrorCode = iota

	// CodeEndOfInput: a match was required but no significant token
	// remains. Handled like a token mismatch for backtracking.
	CodeEndOfInput

	// CodeSeparatorMismatch: the required separator failed between two
	// repetition attempts. Stops the repetition, keeping prior matches.
	CodeSeparatorMismatch

	// CodeUnknownRule: a rule reference names a rule absent from the
	// definition. A grammar authoring defect, fatal for the parse.
	CodeUnknownRule

	// CodeNoProgress: a rule was re-entered at the same position, so the
	// grammar cannot make progress (cyclic or left-recursive rules). Fatal.
	CodeNoProgress
)

var errorCodeNames = map[ErrorCode]string{
	CodeTokenMismatch:     "TokenMismatch",
	CodeEndOfInput:        "EndOfInput",
	CodeSeparatorMismatch: "SeparatorMismatch",
	CodeUnknownRule:       "UnknownRule",
	CodeNoProgress:        "NoProgress",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// ParseError reports the failure of a parse: the rule active at the point
// of failure, the cursor's significant-token index, and what was expected
// against what was found.
type ParseError struct {
	Code       ErrorCode
	Rule       string
	TokenIndex int
	Expected   string
	Found      string // token description, or "end of input"
}

func (e *ParseError) Error() string {
	switch e.Code {
	case CodeUnknownRule:
		return fmt.Sprintf("in rule %s: unknown rule %s", e.Rule, e.Expected)
	case CodeNoProgress:
		return fmt.Sprintf("rule %s recursed at token %d without consuming input", e.Rule, e.TokenIndex)
	}
	return fmt.Sprintf("in rule %s at token %d: expected %s, found %s", e.Rule, e.TokenIndex, e.Expected, e.Found)
}

// recoverable reports whether an enclosing alternative, optional or
// repetition boundary may absorb the failure. Unknown rules and
// non-progress are grammar defects and unwind the whole parse.
func (e *ParseError) recoverable() bool {
	switch e.Code {
	case CodeTokenMismatch, CodeEndOfInput, CodeSeparatorMismatch:
		return true
	}
	return false
}
