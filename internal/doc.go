// Package internal holds the implementation of transactionexit.
//
// # Architecture Overview
//
//	                      +--------------------+
//	                      | cmd/transactionexit|  Entry point
//	                      +---------+----------+
//	                                |
//	                      +---------v----------+
//	                      |      commands      |  cobra: check, watch, version
//	                      +---------+----------+
//	                                |
//	         +----------------------+----------------------+
//	         |                      |                      |
//	+--------v---------+  +---------v----------+  +--------v---------+
//	| transactionexit  |  |      baseline      |  |      report      |
//	| (flags + config) |  |  (accepted issues) |  | text/json/sarif  |
//	+--------+---------+  +--------------------+  +------------------+
//	         |
//	+--------v---------+
//	|      runner      |  Discovery and parallel files
//	+--------+---------+
//	         |
//	+--------v---------+      +------------------+
//	|    rubyparse     +----->|      syntax      |  Arena tree
//	+--------+---------+      +------------------+
//	         |
//	+--------v---------+
//	|     checker      |  Offenses, dedup, directives
//	+--------+---------+
//	         |
//	   +-----+------+------------+
//	   |            |            |
//	+--v------+ +---v------+ +---v-----+
//	|allowlist| | exitstmt | | nesting |
//	+---------+ +----------+ +---------+
//
// # Rule Stages
//
//   - [allowlist]: is this call the owner of a transactional block?
//   - [exitstmt]: which statements in the block body exit it?
//   - [nesting]: is a break only leaving an inner, non-transactional block?
//   - [checker]: ties the three together and removes duplicates.
//
// The stages only see [syntax] trees, so they are tested without a parser
// through [syntaxtest].
//
// [allowlist]: github.com/mpyw/transactionexit/internal/allowlist
// [exitstmt]: github.com/mpyw/transactionexit/internal/exitstmt
// [nesting]: github.com/mpyw/transactionexit/internal/nesting
// [checker]: github.com/mpyw/transactionexit/internal/checker
// [syntax]: github.com/mpyw/transactionexit/internal/syntax
// [syntaxtest]: github.com/mpyw/transactionexit/internal/syntax/syntaxtest
package internal
