package emit

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Report renders the `.out` human-readable grammar report: one
// "State N:" block per state, its configurations (basis only when
// basisOnly is set, else the full closure chain), each with its
// follow-set and propagation targets, then the state's action table
// rendered through rosed.InsertTableOpts.
func Report(v View, basisOnly bool) string {
	var b strings.Builder

	for _, st := range v.States() {
		fmt.Fprintf(&b, "State %d:\n", st.Index)

		for _, cfg := range st.Configs {
			if basisOnly && !cfg.IsBasis {
				continue
			}
			fmt.Fprintf(&b, "  %s\n     FollowSet: %s\n", cfg.Text, cfg.FollowSet)
			for _, target := range cfg.ForwardTargets {
				fmt.Fprintf(&b, "     To:   %s (%d)\n", target.LHS, target.State)
			}
			for _, target := range cfg.BackwardTargets {
				fmt.Fprintf(&b, "     From: %s (%d)\n", target.LHS, target.State)
			}
		}
		b.WriteString("\n")

		b.WriteString("  Actions:\n")
		b.WriteString(actionTable(st.Actions))
		b.WriteString("\n")
	}

	return b.String()
}

func actionTable(actions []ActionView) string {
	if len(actions) == 0 {
		return ""
	}

	data := [][]string{{"Lookahead", "Action"}}
	for _, a := range actions {
		data = append(data, []string{a.Lookahead, actionCell(a)})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 60, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String() + "\n"
}

func actionCell(a ActionView) string {
	switch a.Kind {
	case "shift":
		return fmt.Sprintf("SHIFT  %d", a.ShiftState)
	case "reduce":
		return fmt.Sprintf("REDUCE rule %d", a.ReduceRule)
	case "accept":
		return "ACCEPT"
	case "error":
		return "ERROR"
	case "conflict":
		return fmt.Sprintf("REDUCE rule %d ** PARSING CONFLICT **", a.ReduceRule)
	default:
		return strings.ToUpper(a.Kind)
	}
}
