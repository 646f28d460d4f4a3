package exitstmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyw/transactionexit/internal/exitstmt"
	"github.com/mpyw/transactionexit/internal/syntax"
	. "github.com/mpyw/transactionexit/internal/syntax/syntaxtest"
)

func TestIsExit(t *testing.T) {
	tests := []struct {
		name string
		node syntax.Node
		want bool
	}{
		{"return", syntax.Node{Kind: syntax.KindReturn}, true},
		{"break", syntax.Node{Kind: syntax.KindBreak}, true},
		{"throw", syntax.Node{Kind: syntax.KindCall, Method: "throw"}, true},
		{"throw with receiver", syntax.Node{Kind: syntax.KindCall, Method: "throw", HasReceiver: true}, false},
		{"raise", syntax.Node{Kind: syntax.KindCall, Method: "raise"}, false},
		{"next", syntax.Node{Kind: syntax.KindNext}, false},
		{"rescue", syntax.Node{Kind: syntax.KindRescue}, false},
		{"identifier named throw", syntax.Node{Kind: syntax.KindOther, Type: "identifier", Method: "throw"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitstmt.IsExit(tt.node))
		})
	}
}

func TestScanFindsEveryOccurrenceInOrder(t *testing.T) {
	tree := Build(
		Block(Call("transaction"),
			Other("if_modifier", Return(), Call("cond")),
			Block(RecvCall("each"), Break()),
			Next(),
			Other("begin",
				Call("risky"),
				Rescue(Throw()),
			),
			Call("raise"),
			RecvCall("throw"),
			Return(Throw()),
		),
	)
	block := Find(tree, syntax.KindBlock, 0)
	body := tree.BlockBody(block)
	require.NotEqual(t, syntax.NoNode, body)

	found := exitstmt.Scan(tree, body)

	labels := make([]string, len(found))
	for i, id := range found {
		labels[i] = exitstmt.Label(tree.Node(id))
	}
	assert.Equal(t, []string{"return", "break", "throw", "return", "throw"}, labels)

	for i := 1; i < len(found); i++ {
		assert.Less(t, tree.Node(found[i-1]).Span.Start.Offset, tree.Node(found[i]).Span.Start.Offset)
	}
}

func TestScanEmpty(t *testing.T) {
	tree := Build(Block(Call("transaction"), Next(), Call("raise")))
	body := tree.BlockBody(Find(tree, syntax.KindBlock, 0))

	assert.Empty(t, exitstmt.Scan(tree, body))
}

func TestLabelUsesMethodText(t *testing.T) {
	assert.Equal(t, "return", exitstmt.Label(syntax.Node{Kind: syntax.KindReturn}))
	assert.Equal(t, "break", exitstmt.Label(syntax.Node{Kind: syntax.KindBreak}))
	assert.Equal(t, "throw", exitstmt.Label(syntax.Node{Kind: syntax.KindCall, Method: "throw"}))
}

func TestMessage(t *testing.T) {
	assert.Equal(t,
		"Exit statement `return` is not allowed. Use `raise` (rollback) or `next` (commit).",
		exitstmt.Message("return"),
	)
}
