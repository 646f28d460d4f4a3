package syntax

import (
	"fmt"
	"iter"
	"sort"
)

// Kind classifies a node.
type Kind uint8

// Node kinds.
const (
	KindOther Kind = iota
	KindCall
	KindBlock
	KindBody
	KindReturn
	KindBreak
	KindNext
	KindRescue
)

var kindNames = [...]string{
	KindOther:  "other",
	KindCall:   "call",
	KindBlock:  "block",
	KindBody:   "body",
	KindReturn: "return",
	KindBreak:  "break",
	KindNext:   "next",
	KindRescue: "rescue",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// NodeID indexes a node within its Tree.
type NodeID int32

// NoNode is returned where no node exists (e.g. the parent of the root).
const NoNode NodeID = -1

// Pos is a source position. Line and Column are 1-based; Column counts bytes.
type Pos struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a half-open source range.
type Span struct {
	Start Pos `json:"start"`
	End   Pos `json:"end"`
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Start.Line, s.Start.Column)
}

// Node is a single syntax node. Values returned by Tree are copies.
type Node struct {
	Kind Kind
	// Type is the parser's own node type (e.g. "if_modifier").
	Type string
	// Method is the called method name. Set for KindCall only.
	Method string
	// HasReceiver reports an explicit receiver (a.b vs b). KindCall only.
	HasReceiver bool
	Span        Span

	parent   NodeID
	children []NodeID
}

// Comment is a source comment, kept outside the node arena.
type Comment struct {
	Text string
	Span Span
}

// Tree is an immutable syntax tree for one source file.
type Tree struct {
	path     string
	nodes    []Node
	comments []Comment
}

// Path returns the file path the tree was parsed from.
func (t *Tree) Path() string { return t.path }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Root returns the root node, or NoNode for an empty tree.
func (t *Tree) Root() NodeID {
	if len(t.nodes) == 0 {
		return NoNode
	}
	return 0
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id NodeID) Node {
	return t.nodes[id]
}

// Kind is shorthand for t.Node(id).Kind.
func (t *Tree) Kind(id NodeID) Kind {
	if id == NoNode {
		return KindOther
	}
	return t.nodes[id].Kind
}

// Parent returns the parent of id, or NoNode for the root.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns the ordered children of id. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.nodes[id].children
}

// Comments returns the file's comments in source order.
func (t *Tree) Comments() []Comment {
	return t.comments
}

// Ancestors yields the parent chain of id, nearest first. id itself is not yielded.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for p := t.nodes[id].parent; p != NoNode; p = t.nodes[p].parent {
			if !yield(p) {
				return
			}
		}
	}
}

// Preorder yields id and all of its descendants, depth-first in source order.
func (t *Tree) Preorder(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if id == NoNode {
			return
		}
		stack := []NodeID{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			children := t.nodes[cur].children
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
}

// BlockCall returns the call that owns block, or NoNode if block is not a block.
func (t *Tree) BlockCall(block NodeID) NodeID {
	if t.Kind(block) != KindBlock {
		return NoNode
	}
	for _, c := range t.nodes[block].children {
		if t.nodes[c].Kind == KindCall {
			return c
		}
	}
	return NoNode
}

// BlockBody returns the body of block, or NoNode if it has none.
func (t *Tree) BlockBody(block NodeID) NodeID {
	if t.Kind(block) != KindBlock {
		return NoNode
	}
	for _, c := range t.nodes[block].children {
		if t.nodes[c].Kind == KindBody {
			return c
		}
	}
	return NoNode
}

// HasBody reports whether block has at least one statement.
func (t *Tree) HasBody(block NodeID) bool {
	body := t.BlockBody(block)
	return body != NoNode && len(t.nodes[body].children) > 0
}

// Builder assembles a Tree. Nodes must be added parent-first.
type Builder struct {
	path     string
	nodes    []Node
	comments []Comment
}

// NewBuilder creates a builder for the file at path.
func NewBuilder(path string) *Builder {
	return &Builder{path: path}
}

// Add appends n as the last child of parent and returns its id.
// Pass NoNode as parent for the root.
func (b *Builder) Add(parent NodeID, n Node) NodeID {
	id := NodeID(len(b.nodes))
	n.parent = parent
	n.children = nil
	b.nodes = append(b.nodes, n)
	if parent != NoNode {
		b.nodes[parent].children = append(b.nodes[parent].children, id)
	}
	return id
}

// AddComment records a comment.
func (b *Builder) AddComment(c Comment) {
	b.comments = append(b.comments, c)
}

// Tree finalizes the builder. The builder must not be used afterwards.
func (b *Builder) Tree() *Tree {
	sort.SliceStable(b.comments, func(i, j int) bool {
		return b.comments[i].Span.Start.Offset < b.comments[j].Span.Start.Offset
	})
	t := &Tree{path: b.path, nodes: b.nodes, comments: b.comments}
	b.nodes, b.comments = nil, nil
	return t
}
