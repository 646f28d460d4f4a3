// Package ignore provides # transactionexit:ignore directive parsing.
//
// # Overview
//
// The ignore directive suppresses offenses on a single line, for every exit
// statement or only for the listed ones.
//
// # Directive Placement
//
// The directive can appear on the line before or on the same line:
//
//	# transactionexit:ignore
//	return if done?                     # offense suppressed
//
//	return if done? # transactionexit:ignore
//
// # Statement-Specific Ignores
//
// List statement labels to ignore only those:
//
//	# transactionexit:ignore break
//	break if full?                      # suppressed
//
//	# transactionexit:ignore return,throw
//	return if done?                     # suppressed
//
// # Reasons
//
// Anything after " - " is a free-form reason and is not parsed:
//
//	# transactionexit:ignore - rollback is handled by the caller
//
// # Unused Directives
//
// Every entry remembers which labels it suppressed. [Map.Unused] lists the
// directives (or the listed labels of a directive) that never matched an
// offense, so stale directives can be reported.
package ignore
