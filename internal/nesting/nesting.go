// Package nesting decides whether a break belongs to an inner, unrelated block.
//
// A break ends the nearest enclosing block. When that block is passed to an
// ordinary method (each, map, loop, ...) the break only stops that iteration
// and the surrounding transaction still finishes normally:
//
//	transaction do
//	  items.each { |i| break if i.done? }   # exempt
//	end
//
// When the nearest block is itself transactional, the break escapes it:
//
//	with_lock do
//	  transaction { break if cond }         # reported
//	end
//
// Only breaks are classified here. return leaves the enclosing method and
// throw unwinds the stack regardless of how blocks are nested.
//
// The check is a heuristic. A break in a plain block whose result is used to
// leave the transaction indirectly is not reported.
package nesting

import "github.com/mpyw/transactionexit/internal/syntax"

// MethodMatcher tells transaction methods apart from other methods.
type MethodMatcher interface {
	IsTransactionMethod(name string) bool
}

// IsLegitimatelyNested reports whether brk is scoped to a non-transactional
// block and therefore must not be reported.
func IsLegitimatelyNested(t *syntax.Tree, brk syntax.NodeID, m MethodMatcher) bool {
	for id := range t.Ancestors(brk) {
		if t.Kind(id) != syntax.KindBlock {
			continue
		}
		call := t.BlockCall(id)
		if call == syntax.NoNode {
			return false
		}
		return !m.IsTransactionMethod(t.Node(call).Method)
	}
	return false
}
