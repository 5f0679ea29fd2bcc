package parsetree

import (
	"fmt"
	"strings"
)

// Node is one rule-tagged pair of the parse tree. Leaves carry the matched
// source text; interior nodes carry only children.
//
//	program
//	├── print_statement
//	│   ├── k_print "print"
//	│   └── expression
//	│       ├── integer "1"
//	│       ├── add "+"
//	│       └── integer "2"
//	└── EOI
type Node struct {
	Rule     Rule
	Text     string
	Line     int
	Children []*Node
}

// Leaf builds a childless node.
func Leaf(rule Rule, text string, line int) *Node {
	return &Node{Rule: rule, Text: text, Line: line}
}

// Branch builds an interior node. The line is taken from the first child.
func Branch(rule Rule, children ...*Node) *Node {
	n := &Node{Rule: rule, Children: children}
	if len(children) > 0 {
		n.Line = children[0].Line
	}
	return n
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

func (n *Node) String() string {
	if n.IsLeaf() && n.Text != "" {
		return fmt.Sprintf("%s(%q)", n.Rule, n.Text)
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("%s[%s]", n.Rule, strings.Join(parts, ", "))
}

// Pretty renders the subtree one node per line, indented by depth.
func (n *Node) Pretty() string {
	var sb strings.Builder
	n.pretty(&sb, 0)
	return sb.String()
}

func (n *Node) pretty(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Rule.String())
	if n.Text != "" {
		fmt.Fprintf(sb, " %q", n.Text)
	}
	sb.WriteByte('\n')
	for _, c := range n.Children {
		c.pretty(sb, depth+1)
	}
}
