// Package allowlist decides which method calls open a transactional scope.
//
// # Overview
//
// Two names are always recognized:
//
//	transaction   ActiveRecord::Base.transaction, Model.transaction, ...
//	with_lock     record.with_lock { ... }
//
// Configuration extends the set with exact names (case-sensitive) and
// regular expressions (partial match, Ruby syntax). Configured entries only
// add to the built-ins; they never remove them.
//
// # Construction
//
// Patterns are compiled once in [New]. A pattern that does not compile is a
// configuration error returned as [*PatternError] before any file is read:
//
//	allow, err := allowlist.New(
//	    []string{"custom_transaction"},
//	    []string{`_transaction\z`},
//	)
//
// # Matching
//
// [AllowList.IsTransactionMethod] answers for a bare method name.
// [AllowList.InTransactionBlock] answers for a call node: the name must match
// AND the call must own a block with at least one statement.
//
//	transaction { return }         // match
//	transaction { }                // no match: empty body
//	transaction(&blk)              // no match: no block
//	transaction                    // no match: no block
//
// A nil *AllowList is valid and recognizes the built-ins only. The value is
// immutable after construction and safe to share across goroutines.
package allowlist
