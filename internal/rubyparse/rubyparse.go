package rubyparse

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/mpyw/transactionexit/internal/exitstmt"
	"github.com/mpyw/transactionexit/internal/syntax"
)

// File is a parsed Ruby source file.
type File struct {
	Tree *syntax.Tree
	// Errors holds the spans tree-sitter could not parse.
	Errors []syntax.Span
}

// ParseFile reads and parses the file at path.
func ParseFile(ctx context.Context, path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(ctx, path, src)
}

// Parse parses src. path is only recorded in the tree.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(ruby.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	c := &converter{src: src, b: syntax.NewBuilder(path)}
	c.push(true)
	c.convert(root, syntax.NoNode)

	// Missing tokens are often anonymous and never visited.
	if root.HasError() && len(c.errs) == 0 {
		c.errs = append(c.errs, span(root))
	}

	return &File{Tree: c.b.Tree(), Errors: c.errs}, nil
}

type converter struct {
	src    []byte
	b      *syntax.Builder
	errs   []syntax.Span
	scopes []scope
}

// scope holds the local variables known at the current point. Blocks open
// soft scopes that see their parents' locals. def, class and module open
// hard ones that do not.
type scope struct {
	locals map[string]bool
	hard   bool
}

func (c *converter) push(hard bool) {
	c.scopes = append(c.scopes, scope{locals: make(map[string]bool), hard: hard})
}

func (c *converter) pop() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *converter) declare(name string) {
	c.scopes[len(c.scopes)-1].locals[name] = true
}

func (c *converter) isLocal(name string) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if c.scopes[i].locals[name] {
			return true
		}
		if c.scopes[i].hard {
			return false
		}
	}
	return false
}

// hardScopes are node types whose bodies cannot see outer locals.
var hardScopes = map[string]bool{
	"method":           true,
	"singleton_method": true,
	"class":            true,
	"singleton_class":  true,
	"module":           true,
}

func (c *converter) convert(n *sitter.Node, parent syntax.NodeID) {
	if n.Type() == "ERROR" || n.IsMissing() {
		c.errs = append(c.errs, span(n))
	}

	switch n.Type() {
	case "comment":
		c.b.AddComment(syntax.Comment{Text: n.Content(c.src), Span: span(n)})

	case "call", "method_call":
		c.call(n, parent)

	case "lambda":
		c.lambda(n, parent)

	case "identifier":
		c.identifier(n, parent)

	default:
		id := c.b.Add(parent, syntax.Node{Kind: kindOf(n.Type()), Type: n.Type(), Span: span(n)})
		if hardScopes[n.Type()] {
			c.push(true)
			defer c.pop()
		}
		c.children(n, id)
	}
}

// identifier adds a bare identifier. It is a receiver-less call when it is
// read in expression position and no local of that name is in scope. Only
// throw matters here.
func (c *converter) identifier(n *sitter.Node, parent syntax.NodeID) {
	node := syntax.Node{Kind: syntax.KindOther, Type: n.Type(), Span: span(n)}
	name := n.Content(c.src)

	switch identifierRole(n) {
	case roleDeclare:
		c.declare(name)
	case roleExpr:
		if name == exitstmt.ThrowMethod && !c.isLocal(name) {
			node.Kind = syntax.KindCall
			node.Method = exitstmt.ThrowMethod
		}
	}

	c.b.Add(parent, node)
}

type role int

const (
	roleExpr    role = iota // read of a local or a call
	roleDeclare             // assignment target or parameter
	roleName                // method name or alias
)

// parameterTypes declare every identifier directly under them.
var parameterTypes = map[string]bool{
	"method_parameters":            true,
	"block_parameters":             true,
	"lambda_parameters":            true,
	"destructured_parameter":       true,
	"left_assignment_list":         true,
	"destructured_left_assignment": true,
	"rest_assignment":              true,
	"exception_variable":           true,
}

func identifierRole(n *sitter.Node) role {
	p := n.Parent()
	if p == nil {
		return roleExpr
	}

	switch typ := p.Type(); {
	case parameterTypes[typ]:
		return roleDeclare
	case typ == "assignment", typ == "operator_assignment":
		if isField(p, n, "left") {
			return roleDeclare
		}
	case typ == "optional_parameter", typ == "keyword_parameter",
		typ == "splat_parameter", typ == "hash_splat_parameter", typ == "block_parameter":
		if isField(p, n, "name") {
			return roleDeclare
		}
	case typ == "for":
		if isField(p, n, "pattern") {
			return roleDeclare
		}
	case typ == "method", typ == "singleton_method":
		if isField(p, n, "name") {
			return roleName
		}
	case typ == "alias", typ == "undef":
		return roleName
	}
	return roleExpr
}

func isField(parent, n *sitter.Node, field string) bool {
	f := parent.ChildByFieldName(field)
	return f != nil && sameNode(f, n)
}

func kindOf(typ string) syntax.Kind {
	switch typ {
	case "return":
		return syntax.KindReturn
	case "break":
		return syntax.KindBreak
	case "next":
		return syntax.KindNext
	case "rescue":
		return syntax.KindRescue
	default:
		return syntax.KindOther
	}
}

func (c *converter) children(n *sitter.Node, parent syntax.NodeID) {
	for i := range int(n.NamedChildCount()) {
		c.convert(n.NamedChild(i), parent)
	}
}

// call converts a call node. A call with a block becomes a Block wrapping
// the Call.
func (c *converter) call(n *sitter.Node, parent syntax.NodeID) {
	method, receiver := callee(n)

	name := "call" // recv.() has no method node
	callSpan := span(n)
	if method != nil {
		name = method.Content(c.src)
	}

	block := n.ChildByFieldName("block")
	if block == nil {
		id := c.b.Add(parent, syntax.Node{
			Kind:        syntax.KindCall,
			Type:        n.Type(),
			Method:      name,
			HasReceiver: receiver != nil,
			Span:        callSpan,
		})
		c.callChildren(n, id)
		return
	}

	// The call itself ends where its block starts.
	callSpan.End = lastEnd(n, block)

	blockID := c.b.Add(parent, syntax.Node{Kind: syntax.KindBlock, Type: block.Type(), Span: span(n)})
	callID := c.b.Add(blockID, syntax.Node{
		Kind:        syntax.KindCall,
		Type:        n.Type(),
		Method:      name,
		HasReceiver: receiver != nil,
		Span:        callSpan,
	})
	c.callChildren(n, callID)

	c.push(false)
	defer c.pop()
	c.blockContents(block, blockID)
}

// callee returns the method and receiver nodes of a call. Older grammars
// nest `recv.m` as a call inside the method field of a method_call.
func callee(n *sitter.Node) (method, receiver *sitter.Node) {
	method = n.ChildByFieldName("method")
	receiver = n.ChildByFieldName("receiver")
	if method != nil && method.Type() == "call" {
		receiver = method.ChildByFieldName("receiver")
		method = method.ChildByFieldName("method")
	}
	return method, receiver
}

// callChildren converts receiver, arguments and comments of a call,
// skipping the method name and the block.
func (c *converter) callChildren(n *sitter.Node, id syntax.NodeID) {
	for i := range int(n.ChildCount()) {
		child := n.Child(i)
		if !child.IsNamed() {
			continue
		}
		switch n.FieldNameForChild(i) {
		case "block":
			continue
		case "method":
			if child.Type() == "call" {
				c.callChildren(child, id)
			}
			continue
		}
		c.convert(child, id)
	}
}

func (c *converter) lambda(n *sitter.Node, parent syntax.NodeID) {
	blockID := c.b.Add(parent, syntax.Node{Kind: syntax.KindBlock, Type: n.Type(), Span: span(n)})

	callSpan := span(n)
	body := n.ChildByFieldName("body")
	if body != nil {
		callSpan.End = lastEnd(n, body)
	}
	c.b.Add(blockID, syntax.Node{Kind: syntax.KindCall, Type: n.Type(), Method: "lambda", Span: callSpan})

	c.push(false)
	defer c.pop()

	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		if body != nil && sameNode(child, body) {
			c.blockContents(child, blockID)
			continue
		}
		c.convert(child, blockID)
	}
}

// blockContents adds parameters and the Body of a block or do_block.
func (c *converter) blockContents(block *sitter.Node, blockID syntax.NodeID) {
	var stmts []*sitter.Node

	for i := range int(block.NamedChildCount()) {
		child := block.NamedChild(i)
		switch child.Type() {
		case "block_parameters", "lambda_parameters", "comment":
			c.convert(child, blockID)
		case "block_body", "body_statement":
			for j := range int(child.NamedChildCount()) {
				stmts = append(stmts, child.NamedChild(j))
			}
		default:
			stmts = append(stmts, child)
		}
	}

	var first, last *sitter.Node
	for _, s := range stmts {
		if s.Type() == "comment" {
			continue
		}
		if first == nil {
			first = s
		}
		last = s
	}

	if first == nil {
		for _, s := range stmts {
			c.convert(s, blockID)
		}
		return
	}

	bodySpan := syntax.Span{Start: span(first).Start, End: span(last).End}
	bodyID := c.b.Add(blockID, syntax.Node{Kind: syntax.KindBody, Type: "body", Span: bodySpan})
	for _, s := range stmts {
		c.convert(s, bodyID)
	}
}

// lastEnd returns the end of the last named child of n that precedes stop.
func lastEnd(n, stop *sitter.Node) syntax.Pos {
	end := span(n).Start
	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		if sameNode(child, stop) {
			break
		}
		end = span(child).End
	}
	return end
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func span(n *sitter.Node) syntax.Span {
	sp, ep := n.StartPoint(), n.EndPoint()
	return syntax.Span{
		Start: syntax.Pos{Offset: int(n.StartByte()), Line: int(sp.Row) + 1, Column: int(sp.Column) + 1},
		End:   syntax.Pos{Offset: int(n.EndByte()), Line: int(ep.Row) + 1, Column: int(ep.Column) + 1},
	}
}
