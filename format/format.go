// Package format renders parse results and grammar definitions for output:
// JSON, YAML, and an indented tree text form.
package format

import (
	"github.com/dhamidi/grampa/grammar"
	"github.com/dhamidi/grampa/lex"
	"github.com/dhamidi/grampa/parse"
)

// Encoder renders one syntax tree to its writer.
type Encoder interface {
	Encode(node *parse.Node) error
}

// DefinitionEncoder renders one grammar definition to its writer.
type DefinitionEncoder interface {
	EncodeDefinition(def *grammar.Definition) error
}

// valueData converts a capture into plain data: leaves become scalars
// typed by their token kind, lists become slices, nodes become nested
// field lists, Absent becomes nil.
func valueData(v parse.Value) any {
	switch v.Kind {
	case parse.ValueLeaf:
		return leafData(v.Token)
	case parse.ValueList:
		items := make([]any, len(v.List))
		for i, item := range v.List {
			items[i] = valueData(item)
		}
		return items
	case parse.ValueNode:
		return nodeData(v.Node)
	}
	return nil
}

func leafData(tok lex.Token) any {
	switch tok.Kind {
	case lex.TokenInteger:
		return tok.Int
	case lex.TokenFloat:
		return tok.Float
	case lex.TokenBoolean:
		return tok.Literal == "true"
	}
	return tok.Literal
}

type fieldData struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

type nodeShape struct {
	Rule   string      `json:"rule,omitempty" yaml:"rule,omitempty"`
	Fields []fieldData `json:"fields" yaml:"fields"`
}

func nodeData(n *parse.Node) nodeShape {
	fields := make([]fieldData, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = fieldData{Name: f.Name, Value: valueData(f.Value)}
	}
	return nodeShape{Rule: n.Rule, Fields: fields}
}
