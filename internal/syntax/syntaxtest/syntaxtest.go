// Package syntaxtest builds small syntax trees for tests without a parser.
//
// Every node gets its own line, numbered in pre-order, so spans are unique
// and offenses can be told apart by line.
//
//	tree := syntaxtest.Build(
//	    syntaxtest.Block(syntaxtest.Call("transaction"),
//	        syntaxtest.Return(),
//	    ),
//	)
package syntaxtest

import "github.com/mpyw/transactionexit/internal/syntax"

// Spec describes a node to build.
type Spec struct {
	Kind     syntax.Kind
	Type     string
	Method   string
	Receiver bool
	Children []Spec
}

// Call is a receiver-less method call.
func Call(method string, args ...Spec) Spec {
	return Spec{Kind: syntax.KindCall, Type: "call", Method: method, Children: args}
}

// RecvCall is a method call with an explicit receiver.
func RecvCall(method string, args ...Spec) Spec {
	recv := Spec{Kind: syntax.KindOther, Type: "identifier"}
	return Spec{Kind: syntax.KindCall, Type: "call", Method: method, Receiver: true, Children: append([]Spec{recv}, args...)}
}

// Block wraps call with a block. No Body node is created when body is empty.
func Block(call Spec, body ...Spec) Spec {
	s := Spec{Kind: syntax.KindBlock, Type: "block", Children: []Spec{call}}
	if len(body) > 0 {
		s.Children = append(s.Children, Spec{Kind: syntax.KindBody, Type: "block_body", Children: body})
	}
	return s
}

// EmptyBodyBlock wraps call with a block whose Body node has no statements.
func EmptyBodyBlock(call Spec) Spec {
	return Spec{Kind: syntax.KindBlock, Type: "block", Children: []Spec{call, {Kind: syntax.KindBody, Type: "block_body"}}}
}

// Return is a return statement.
func Return(children ...Spec) Spec {
	return Spec{Kind: syntax.KindReturn, Type: "return", Children: children}
}

// Break is a break statement.
func Break(children ...Spec) Spec {
	return Spec{Kind: syntax.KindBreak, Type: "break", Children: children}
}

// Next is a next statement.
func Next() Spec {
	return Spec{Kind: syntax.KindNext, Type: "next"}
}

// Throw is a receiver-less throw call.
func Throw() Spec {
	return Call("throw", Other("simple_symbol"))
}

// Rescue is a rescue clause.
func Rescue(body ...Spec) Spec {
	return Spec{Kind: syntax.KindRescue, Type: "rescue", Children: body}
}

// Other is any other node.
func Other(typ string, children ...Spec) Spec {
	return Spec{Kind: syntax.KindOther, Type: typ, Children: children}
}

// Build creates a tree whose root is a "program" node holding stmts.
func Build(stmts ...Spec) *syntax.Tree {
	b := syntax.NewBuilder("test.rb")
	line := 0
	var add func(parent syntax.NodeID, s Spec)
	add = func(parent syntax.NodeID, s Spec) {
		line++
		id := b.Add(parent, syntax.Node{
			Kind:        s.Kind,
			Type:        s.Type,
			Method:      s.Method,
			HasReceiver: s.Receiver,
			Span: syntax.Span{
				Start: syntax.Pos{Offset: line * 100, Line: line, Column: 1},
				End:   syntax.Pos{Offset: line*100 + 10, Line: line, Column: 11},
			},
		})
		for _, c := range s.Children {
			add(id, c)
		}
	}
	add(syntax.NoNode, Other("program", stmts...))
	return b.Tree()
}

// Find returns the n-th (0-based, pre-order) node of the given kind, or
// syntax.NoNode.
func Find(t *syntax.Tree, kind syntax.Kind, n int) syntax.NodeID {
	for id := range t.Preorder(t.Root()) {
		if t.Kind(id) != kind {
			continue
		}
		if n == 0 {
			return id
		}
		n--
	}
	return syntax.NoNode
}

// FindCall returns the first call to method in pre-order, or syntax.NoNode.
func FindCall(t *syntax.Tree, method string) syntax.NodeID {
	for id := range t.Preorder(t.Root()) {
		if n := t.Node(id); n.Kind == syntax.KindCall && n.Method == method {
			return id
		}
	}
	return syntax.NoNode
}
