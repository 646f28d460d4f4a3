package nesting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpyw/transactionexit/internal/allowlist"
	"github.com/mpyw/transactionexit/internal/nesting"
	"github.com/mpyw/transactionexit/internal/syntax"
	. "github.com/mpyw/transactionexit/internal/syntax/syntaxtest"
)

func TestIsLegitimatelyNested(t *testing.T) {
	custom, err := allowlist.New([]string{"custom_transaction"}, []string{"_lock$"})
	require.NoError(t, err)

	tests := []struct {
		name string
		tree *syntax.Tree
		want bool
	}{
		{
			name: "break directly in transaction",
			tree: Build(Block(Call("transaction"), Break())),
			want: false,
		},
		{
			name: "break in each inside transaction",
			tree: Build(Block(Call("transaction"), Block(RecvCall("each"), Break()))),
			want: true,
		},
		{
			name: "break in transaction inside with_lock",
			tree: Build(Block(RecvCall("with_lock"), Block(Call("transaction"), Break()))),
			want: false,
		},
		{
			name: "break in allow-listed exact name inside each",
			tree: Build(Block(Call("transaction"), Block(RecvCall("each"), Block(Call("custom_transaction"), Break())))),
			want: false,
		},
		{
			name: "break in allow-listed pattern",
			tree: Build(Block(Call("transaction"), Block(RecvCall("advisory_lock"), Break()))),
			want: false,
		},
		{
			name: "break nested in conditional inside map",
			tree: Build(Block(Call("transaction"), Block(RecvCall("map"), Other("if", Call("cond"), Break())))),
			want: true,
		},
		{
			name: "break with no enclosing block",
			tree: Build(Other("while", Call("cond"), Break())),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			brk := Find(tt.tree, syntax.KindBreak, 0)
			require.NotEqual(t, syntax.NoNode, brk)
			assert.Equal(t, tt.want, nesting.IsLegitimatelyNested(tt.tree, brk, custom))
		})
	}
}

func TestBlockWithoutOwningCall(t *testing.T) {
	b := syntax.NewBuilder("t.rb")
	root := b.Add(syntax.NoNode, syntax.Node{Type: "program"})
	block := b.Add(root, syntax.Node{Kind: syntax.KindBlock, Type: "block"})
	body := b.Add(block, syntax.Node{Kind: syntax.KindBody})
	brk := b.Add(body, syntax.Node{Kind: syntax.KindBreak})
	tree := b.Tree()

	assert.False(t, nesting.IsLegitimatelyNested(tree, brk, (*allowlist.AllowList)(nil)))
}
