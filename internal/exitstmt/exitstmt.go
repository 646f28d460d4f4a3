package exitstmt

import (
	"fmt"

	"github.com/mpyw/transactionexit/internal/syntax"
)

// ThrowMethod is the method name of throw-like calls.
const ThrowMethod = "throw"

const messageFormat = "Exit statement `%s` is not allowed. Use `raise` (rollback) or `next` (commit)."

// IsThrowLike reports whether n is a call to throw without an explicit receiver.
func IsThrowLike(n syntax.Node) bool {
	return n.Kind == syntax.KindCall && !n.HasReceiver && n.Method == ThrowMethod
}

// IsExit reports whether n is an exit statement.
func IsExit(n syntax.Node) bool {
	switch n.Kind {
	case syntax.KindReturn, syntax.KindBreak:
		return true
	case syntax.KindCall:
		return IsThrowLike(n)
	default:
		return false
	}
}

// Scan returns every exit statement under body (body included) in source order.
func Scan(t *syntax.Tree, body syntax.NodeID) []syntax.NodeID {
	var found []syntax.NodeID
	for id := range t.Preorder(body) {
		if IsExit(t.Node(id)) {
			found = append(found, id)
		}
	}
	return found
}

// Label returns the statement text used in messages.
func Label(n syntax.Node) string {
	switch n.Kind {
	case syntax.KindReturn:
		return "return"
	case syntax.KindBreak:
		return "break"
	default:
		return n.Method
	}
}

// Message formats the offense message for a statement label.
func Message(label string) string {
	return fmt.Sprintf(messageFormat, label)
}
