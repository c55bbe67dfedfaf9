package lr

import (
	"fmt"

	"github.com/kdt3rd/lime/internal/grammar"
)

// ActionKind classifies a state's response to a lookahead. The last
// three values are internal bookkeeping produced by conflict resolution
// and compression and are skipped by emitters.
type ActionKind int

const (
	Shift ActionKind = iota
	Accept
	Reduce
	Error
	Conflict
	ShiftResolved
	ReduceResolved
	NotUsed
)

func (k ActionKind) String() string {
	switch k {
	case Shift:
		return "shift"
	case Accept:
		return "accept"
	case Reduce:
		return "reduce"
	case Error:
		return "error"
	case Conflict:
		return "conflict"
	case ShiftResolved:
		return "shift-resolved"
	case ReduceResolved:
		return "reduce-resolved"
	case NotUsed:
		return "not-used"
	default:
		return "unknown"
	}
}

// IsIgnored reports whether this kind is internal bookkeeping that code
// generators must skip.
func (k ActionKind) IsIgnored() bool {
	return k == ShiftResolved || k == ReduceResolved || k == NotUsed
}

// Action is a single (lookahead -> outcome) entry in a state's action
// list. Exactly one of State/Rule is meaningful, depending on Kind.
type Action struct {
	Kind      ActionKind
	Lookahead string
	State     *State        // set only when Kind == Shift
	Rule      *grammar.Rule // set only when Kind == Reduce
}

func (a Action) String() string {
	switch a.Kind {
	case Shift:
		return fmt.Sprintf("shift %s -> state %d", a.Lookahead, a.State.Index)
	case Reduce:
		return fmt.Sprintf("reduce %s on %s", a.Rule.String(), a.Lookahead)
	case Accept:
		return fmt.Sprintf("accept on %s", a.Lookahead)
	default:
		return fmt.Sprintf("%s on %s", a.Kind, a.Lookahead)
	}
}

// rank orders actions by (lookahead, kind, target). Target is the shift
// state's index for Shift, or the reduce rule's index for Reduce; other
// kinds sort by kind alone.
func (a Action) rank() (string, int, int) {
	target := -1
	switch a.Kind {
	case Shift:
		target = a.State.Index
	case Reduce:
		target = a.Rule.Index
	}
	return a.Lookahead, int(a.Kind), target
}
