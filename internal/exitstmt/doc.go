// Package exitstmt finds and labels exit statements.
//
// # Grammar
//
//	ExitStatement ::= return
//	                | break
//	                | throw ...        (call without explicit receiver)
//
// `next` is not an exit statement: it finishes the block normally and lets
// the transaction commit. `raise` is not one either: it is the supported way
// to roll back.
//
// # Scanning
//
// [Scan] walks the whole subtree of a block body, depth-first in source
// order. It descends into rescue handlers and nested blocks alike and never
// stops at the first match:
//
//	transaction do
//	  return if done?              # found
//	  items.each { |i| break }     # found (filtered later, see package nesting)
//	  begin
//	    risky!
//	  rescue
//	    throw :abort               # found
//	  end
//	end
//
// # Labels
//
// [Label] names an occurrence for the offense message: "return", "break",
// or the call's own method text for throw-like calls.
package exitstmt
