// Package checker runs the transaction exit rule over one syntax tree.
//
// # Pipeline
//
// Every call node is visited in pre-order. For each one:
//
//	┌──────────────┐   ┌──────────────┐   ┌──────────────┐   ┌──────────────┐
//	│    match     │──▶│     scan     │──▶│    filter    │──▶│   classify   │
//	│  allowlist   │   │   exitstmt   │   │   nesting    │   │   exitstmt   │
//	│ InTransaction│   │     Scan     │   │ (break only) │   │ Label/Message│
//	│    Block     │   │              │   │              │   │              │
//	└──────────────┘   └──────────────┘   └──────────────┘   └──────────────┘
//
// # Duplicates
//
// Nested transactional scopes see the same exit statement more than once:
//
//	with_lock do
//	  transaction do
//	    return          # found from with_lock AND from transaction
//	  end
//	end
//
// An offense is emitted once per source span, at the first visit.
//
// # Directives
//
// With [WithDirectives], offenses suppressed by # transactionexit:ignore are
// dropped and, optionally, unused directives are reported with
// [CategoryUnusedIgnore].
//
// A Checker holds no per-file state and may be shared across goroutines.
package checker
