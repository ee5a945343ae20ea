package parse

import (
	"fmt"
	"strings"

	"github.com/dhamidi/grampa/lex"
)

type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueLeaf
	ValueList
	ValueNode
)

var valueKindNames = map[ValueKind]string{
	ValueAbsent: "Absent",
	ValueLeaf:   "Leaf",
	ValueList:   "List",
	ValueNode:   "Node",
}

func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Value is one captured result: a leaf token, an ordered list of values
// from a repetition, a nested node from a named rule reference, or Absent
// for an optional element that did not match.
type Value struct {
	Kind  ValueKind
	Token lex.Token // ValueLeaf
	List  []Value   // ValueList
	Node  *Node     // ValueNode
}

func Absent() Value            { return Value{Kind: ValueAbsent} }
func Leaf(tok lex.Token) Value { return Value{Kind: ValueLeaf, Token: tok} }
func List(items []Value) Value { return Value{Kind: ValueList, List: items} }
func Nested(n *Node) Value     { return Value{Kind: ValueNode, Node: n} }

func (v Value) String() string {
	switch v.Kind {
	case ValueAbsent:
		return "absent"
	case ValueLeaf:
		return v.Token.Literal
	case ValueList:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ValueNode:
		return v.Node.String()
	}
	return "?"
}

// Field is one named capture of a node.
type Field struct {
	Name  string
	Value Value
}

// Node is a generic syntax-tree node: the rule that produced it and its
// named captures in first-write order. A duplicate name overwrites the
// earlier value but keeps its original position.
type Node struct {
	Rule   string
	Fields []Field
}

// Set records a capture, overwriting in place when the name exists.
func (n *Node) Set(name string, v Value) {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			n.Fields[i].Value = v
			return
		}
	}
	n.Fields = append(n.Fields, Field{Name: name, Value: v})
}

// Get returns the capture bound to name.
func (n *Node) Get(name string) (Value, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// merge folds another accumulator's fields into n, preserving write order.
func (n *Node) merge(other *Node) {
	for _, f := range other.Fields {
		n.Set(f.Name, f.Value)
	}
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int) {
	prefix := strings.Repeat("  ", indent)
	name := n.Rule
	if name == "" {
		name = "(anonymous)"
	}
	sb.WriteString(prefix + name + "\n")
	for _, f := range n.Fields {
		writeValueIndent(sb, f.Name, f.Value, indent+1)
	}
}

func writeValueIndent(sb *strings.Builder, label string, v Value, indent int) {
	prefix := strings.Repeat("  ", indent)
	switch v.Kind {
	case ValueNode:
		sb.WriteString(prefix + label + ":\n")
		v.Node.writeIndent(sb, indent+1)
	case ValueList:
		sb.WriteString(prefix + label + ":\n")
		for i, item := range v.List {
			writeValueIndent(sb, fmt.Sprintf("[%d]", i), item, indent+1)
		}
	default:
		sb.WriteString(prefix + label + ": " + v.String() + "\n")
	}
}
