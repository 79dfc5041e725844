// Package menu builds the nested menu tree from a flat collection of command
// descriptors. Trees are rebuilt from scratch on every build call; nothing in
// this package mutates an existing tree after it is returned.
package menu

import (
	"github.com/stagecraft-labs/pipemenu/internal/command"
)

// NodeKind discriminates the three node shapes in a menu tree.
type NodeKind int

const (
	// KindGroup is a sub-menu holding child nodes.
	KindGroup NodeKind = iota
	// KindLeaf is an invocable entry bound to a command descriptor.
	KindLeaf
	// KindDivider separates structural sections.
	KindDivider
)

func (k NodeKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindLeaf:
		return "leaf"
	case KindDivider:
		return "divider"
	default:
		return "unknown"
	}
}

// Node is one entry in a menu tree. Group nodes keep their children unique by
// label via the byLabel index, which is also how path walking reuses an
// existing group instead of creating a duplicate sibling.
type Node struct {
	Label string
	Kind  NodeKind

	// Command is set on leaf nodes only.
	Command *command.Descriptor

	// Tooltip carries explanatory text; on a disabled root it holds the
	// reason the menu is disabled.
	Tooltip string

	// Disabled marks an entry that is shown but not invocable.
	Disabled bool

	children []*Node
	byLabel  map[string]*Node
}

// NewRoot creates an empty group node to serve as a tree root.
func NewRoot(label string) *Node {
	return newGroup(label)
}

func newGroup(label string) *Node {
	return &Node{
		Label:   label,
		Kind:    KindGroup,
		byLabel: make(map[string]*Node),
	}
}

func newLeaf(label string, d *command.Descriptor) *Node {
	return &Node{
		Label:   label,
		Kind:    KindLeaf,
		Command: d,
		Tooltip: d.Properties.Tooltip,
	}
}

func newDivider() *Node {
	return &Node{Kind: KindDivider}
}

// Children returns the node's children in insertion order.
func (n *Node) Children() []*Node {
	return n.children
}

// Child returns the labelled child, if any. Dividers are not indexed.
func (n *Node) Child(label string) (*Node, bool) {
	c, ok := n.byLabel[label]
	return c, ok
}

// Len returns the number of children, dividers included.
func (n *Node) Len() int {
	return len(n.children)
}

// IsEmpty reports whether a group node has no children.
func (n *Node) IsEmpty() bool {
	return len(n.children) == 0
}

// ensureGroup returns the existing child group with the given label, creating
// it when absent. An existing leaf under the same label is left alone and a
// fresh group is not created over it; the caller sees the leaf returned and
// must treat that as a structural conflict.
func (n *Node) ensureGroup(label string) *Node {
	if c, ok := n.byLabel[label]; ok {
		return c
	}
	g := newGroup(label)
	n.attach(g)
	return g
}

// attach appends a child, indexing it by label unless it is a divider.
// A duplicate label replaces the index entry while both children stay in
// the list; callers keep labels unique within a parent.
func (n *Node) attach(c *Node) {
	n.children = append(n.children, c)
	if c.Kind != KindDivider {
		n.byLabel[c.Label] = c
	}
}

// attachDivider appends a divider, collapsing it when the previous child is
// already a divider or the group is still empty.
func (n *Node) attachDivider() {
	if len(n.children) == 0 {
		return
	}
	if n.children[len(n.children)-1].Kind == KindDivider {
		return
	}
	n.children = append(n.children, newDivider())
}

// Walk visits the node and all descendants depth-first in display order.
func (n *Node) Walk(visit func(node *Node, depth int)) {
	n.walk(visit, 0)
}

func (n *Node) walk(visit func(node *Node, depth int), depth int) {
	visit(n, depth)
	for _, c := range n.children {
		c.walk(visit, depth+1)
	}
}
