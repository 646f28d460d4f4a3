// Package directive groups the comment directives understood by
// transactionexit.
//
// # Overview
//
//	directive/
//	└── ignore/    # # transactionexit:ignore directive
//
// # Directive Format
//
// Directives are Ruby comments of the form:
//
//	# transactionexit:<directive> [args] [- reason]
//
// Examples:
//
//	# transactionexit:ignore
//	# transactionexit:ignore return
//	# transactionexit:ignore break, throw - the caller rolls back
//
// # Ignore Directive
//
// Suppresses offenses on the same line or the line below:
//
//	# transactionexit:ignore
//	return if done?
//
//	return if done? # transactionexit:ignore
//
// Directives that suppress nothing are reported unless
// -report-unused-ignores=false is given. Directive handling as a whole is
// turned off with -ignore-directives=false.
package directive
