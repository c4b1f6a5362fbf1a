package css

import (
	"strings"

	"csscleaner/utils/debug"
)

// NodeType discriminates stylesheet nodes.
type NodeType int

const (
	NodeRule NodeType = iota
	NodeComment
	NodeAtRule
	NodeDecl
)

func (t NodeType) String() string {
	switch t {
	case NodeRule:
		return "rule"
	case NodeComment:
		return "comment"
	case NodeAtRule:
		return "atrule"
	case NodeDecl:
		return "decl"
	default:
		return "unknown"
	}
}

// Node is a single item of the stylesheet tree. Every node keeps enough raw
// text to be written back exactly as it was read.
type Node struct {
	Type NodeType
	Line int // source line of the first significant token, 1-based

	// Before is whitespace preceding the node.
	Before string

	// Raw is verbatim node text for comments, declarations and at-rules
	// without block (including terminating semicolon if any).
	Raw string

	// Text is comment content without delimiters and surrounding spaces.
	Text string

	// Selector is the rule selector list without comments. For at-rules it
	// holds the name including "@" and Params the rest of the prelude.
	Selector string
	Params   string

	// selector text as read, written back while Selector is not changed
	rawSelector    string
	parsedSelector string

	// Between is whitespace between prelude and opening brace.
	Between string

	Nodes []*Node
	// After is whitespace before closing brace.
	After string

	block   bool
	closed  bool
	removed bool
	parent  *Node
}

// Parent returns enclosing rule or at-rule, nil for top level nodes.
func (n *Node) Parent() *Node {
	return n.parent
}

// Remove takes node out of the stylesheet. Node stays reachable for the
// walk in progress, but is not serialized any more.
func (n *Node) Remove() {
	n.removed = true
}

// Removed reports whether Remove was called on node.
func (n *Node) Removed() bool {
	return n.removed
}

// Selectors returns comma separated members of the rule selector list,
// trimmed.
func (n *Node) Selectors() []string {
	if n.Type != NodeRule {
		return nil
	}
	parts := strings.Split(n.Selector, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		res = append(res, strings.TrimSpace(p))
	}
	return res
}

// Stylesheet is the root of the node tree.
type Stylesheet struct {
	Nodes []*Node
	// After is trailing whitespace of the stylesheet.
	After string
}

// WalkFunc is called for every node visited by Walk. Returning false stops the
// walk.
type WalkFunc func(n *Node) bool

// Walk visits all nodes depth first in document order: a node first, then its
// children. Removed nodes and their children are still visited when removal
// happens during the walk.
func (s *Stylesheet) Walk(fn WalkFunc) {
	walkNodes(s.Nodes, fn)
}

func walkNodes(nodes []*Node, fn WalkFunc) bool {
	for _, n := range nodes {
		if !fn(n) {
			return false
		}
		if len(n.Nodes) > 0 && !walkNodes(n.Nodes, fn) {
			return false
		}
	}
	return true
}

// Rules returns all not removed rule nodes in document order.
func (s *Stylesheet) Rules() []*Node {
	var rules []*Node
	s.Walk(func(n *Node) bool {
		if n.Type == NodeRule && !n.removed && !n.detached() {
			rules = append(rules, n)
		}
		return true
	})
	return rules
}

// detached reports whether one of the node ancestors was removed.
func (n *Node) detached() bool {
	for p := n.parent; p != nil; p = p.parent {
		if p.removed {
			return true
		}
	}
	return false
}

// String serializes stylesheet. Removing the first top level node hands its
// leading whitespace to the first node which survived.
func (s *Stylesheet) String() string {
	var sb strings.Builder

	first, shifted := true, false
	for _, n := range s.Nodes {
		if n.removed {
			if first {
				shifted = true
			}
			continue
		}
		before := n.Before
		if first && shifted {
			before = s.Nodes[0].Before
		}
		first = false
		sb.WriteString(before)
		n.write(&sb)
	}
	sb.WriteString(s.After)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch n.Type {
	case NodeComment, NodeDecl:
		sb.WriteString(n.Raw)
		return
	case NodeAtRule:
		if !n.block {
			sb.WriteString(n.Raw)
			return
		}
		sb.WriteString(n.Selector)
		sb.WriteString(n.Params)
	case NodeRule:
		if n.Selector == n.parsedSelector && n.rawSelector != "" {
			sb.WriteString(n.rawSelector)
		} else {
			sb.WriteString(n.Selector)
		}
	}
	sb.WriteString(n.Between)
	sb.WriteByte('{')
	for _, c := range n.Nodes {
		if c.removed {
			continue
		}
		sb.WriteString(c.Before)
		c.write(sb)
	}
	sb.WriteString(n.After)
	if n.closed {
		sb.WriteByte('}')
	}
}

// Dump renders node tree for debugging.
func (s *Stylesheet) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "stylesheet: %d nodes", len(s.Nodes))
	for _, n := range s.Nodes {
		n.dump(tw, 1)
	}
	return tw.String()
}

func (n *Node) dump(tw *debug.TreeWriter, depth int) {
	state := ""
	if n.removed {
		state = " (removed)"
	}
	tw.Line(depth, "%s line %d%s", n.Type, n.Line, state)
	switch n.Type {
	case NodeRule:
		tw.Field(depth+1, "selector", n.Selector)
	case NodeAtRule:
		tw.Field(depth+1, "name", n.Selector)
		tw.Field(depth+1, "params", strings.TrimSpace(n.Params))
	case NodeComment:
		tw.Field(depth+1, "text", n.Text)
	case NodeDecl:
		tw.Field(depth+1, "raw", n.Raw)
	}
	for _, c := range n.Nodes {
		c.dump(tw, depth+1)
	}
}
