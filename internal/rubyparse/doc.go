// Package rubyparse turns Ruby source into a [syntax.Tree] using tree-sitter.
//
// # Mapping
//
//	tree-sitter node                       syntax node
//	─────────────────────────────────────  ─────────────────────────────
//	call (with block: field)               Block ─┬─ Call
//	                                              ├─ Other (parameters)
//	                                              └─ Body  (statements)
//	call (without block)                   Call
//	lambda  (-> { ... })                   Block with a "lambda" Call
//	identifier "throw"                     Call (no receiver)
//	return / break / next                  Return / Break / Next
//	rescue                                 Rescue
//	comment                                Tree.Comments, not a node
//	anything else                          Other (children kept)
//
// Brace blocks keep their statements in a block_body node and do-blocks in a
// body_statement node; both are flattened into the Body. A block with only
// comments gets no Body.
//
// # Errors
//
// tree-sitter recovers from syntax errors, so a broken file still yields a
// tree. The locations of ERROR and MISSING nodes are returned in
// [File.Errors] for the caller to log.
package rubyparse
