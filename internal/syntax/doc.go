// Package syntax provides the immutable syntax tree the rule operates on.
//
// # Overview
//
// The tree is an arena: every node lives in a single slice and is addressed
// by its [NodeID]. Parent links are plain indices, so ancestor lookup never
// holds a reference into the tree and the whole document stays the only
// owner of its nodes.
//
// # Node Kinds
//
// [Kind] is closed. Only the shapes the rule cares about get their own kind;
// everything else is [KindOther] and keeps its parser type in [Node.Type]:
//
//	Kind         Ruby source                Notes
//	──────────   ────────────────────────   ─────────────────────────────
//	KindCall     foo, a.b(1), throw :x      Method, HasReceiver are set
//	KindBlock    a.b(1) { ... }             wraps its owning call
//	KindBody     (statements of a block)    empty blocks have no Body
//	KindReturn   return, return 1
//	KindBreak    break, break 1
//	KindNext     next
//	KindRescue   rescue Foo => e; ...; end  handler of begin/def/do-block
//
// # Block Shape
//
// A block node wraps the call that owns it, the same way Ruby's own parser
// represents `foo { ... }`:
//
//	Block
//	├── Call      (method "foo", receiver and arguments as children)
//	├── Other     (block parameters, optional)
//	└── Body      (statements, absent when the block is empty)
//
// Use [Tree.BlockCall] and [Tree.BlockBody] rather than indexing children
// directly.
//
// # Building
//
// Trees are produced by a [Builder]. Once [Builder.Tree] is called the
// result must not be modified; all accessors on [Tree] are read-only and safe
// for concurrent use.
package syntax
