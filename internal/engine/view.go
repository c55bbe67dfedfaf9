package engine

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kdt3rd/lime/internal/emit"
	"github.com/kdt3rd/lime/internal/lr"
	"github.com/kdt3rd/lime/internal/symbol"
)

// Symbols implements emit.View: every interned symbol, in index order.
func (g *Generator) Symbols() []emit.SymbolView {
	all := g.SymbolTable.All()
	out := make([]emit.SymbolView, len(all))
	for i, sym := range all {
		out[i] = emit.SymbolView{
			Name:       sym.Name,
			Index:      sym.Index,
			IsTerminal: sym.Kind == symbol.Terminal,
			Precedence: sym.Precedence,
			DataType:   sym.DataType,
			Destructor: sym.Destructor,
		}
	}
	return out
}

// Rules implements emit.View: every production, in index order.
func (g *Generator) Rules() []emit.RuleView {
	all := g.RuleTable.All()
	out := make([]emit.RuleView, len(all))
	for i, r := range all {
		rhs := make([]emit.RHSSymbolView, len(r.RHS))
		for j, entry := range r.RHS {
			rhs[j] = emit.RHSSymbolView{Name: entry.Name, Alias: entry.Alias}
		}
		out[i] = emit.RuleView{
			Index:      r.Index,
			LHS:        r.LHS,
			LHSAlias:   r.LHSAlias,
			RHS:        rhs,
			Code:       r.Code,
			CodeLine:   r.CodeLine,
			CanReduce:  r.CanReduce,
			Precedence: r.Precedence,
		}
	}
	return out
}

// States implements emit.View: every automaton state and its surfaced
// actions, in index order. ShiftResolved/ReduceResolved/NotUsed entries
// are internal bookkeeping and are skipped.
func (g *Generator) States() []emit.StateView {
	all := g.StateTable.All()
	out := make([]emit.StateView, len(all))
	for i, st := range all {
		basis := map[*lr.Config]bool{}
		for cfp := st.Basis; cfp != nil; cfp = cfp.NextBasis {
			basis[cfp] = true
		}

		var configs []emit.ConfigView
		for cfp := st.Config; cfp != nil; cfp = cfp.Next {
			configs = append(configs, emit.ConfigView{
				Text:            cfp.String(),
				FollowSet:       cfp.FollowSet.String(),
				IsBasis:         basis[cfp],
				ForwardTargets:  propTargets(cfp.ForwardProps),
				BackwardTargets: propTargets(cfp.BackwardProps),
			})
		}

		var actions []emit.ActionView
		for _, a := range st.Actions.All() {
			if a.Kind.IsIgnored() {
				continue
			}
			av := emit.ActionView{Lookahead: a.Lookahead, Kind: a.Kind.String()}
			switch a.Kind {
			case lr.Shift:
				av.ShiftState = a.State.Index
			case lr.Reduce:
				av.ReduceRule = a.Rule.Index
			case lr.Conflict:
				// A conflict produced from a shift/shift pair carries no rule.
				if a.Rule != nil {
					av.ReduceRule = a.Rule.Index
				}
			}
			actions = append(actions, av)
		}
		out[i] = emit.StateView{Index: st.Index, Configs: configs, Actions: actions}
	}
	return out
}

// propTargets projects a configuration's propagation links as
// (LHS, state-index) pairs for the report. Links recorded before a
// candidate state was discarded as a duplicate can point at
// configurations that never joined a state; those are skipped.
func propTargets(links []*lr.Config) []emit.PropTargetView {
	var out []emit.PropTargetView
	for _, target := range links {
		if target.State == nil {
			continue
		}
		out = append(out, emit.PropTargetView{LHS: target.Rule.LHS, State: target.State.Index})
	}
	return out
}

// Option implements emit.View: looks up a grammar-file %-declaration by
// name. basis_only, debug, source_file, and language are answered from
// the generator's own fields (flags rather than Settings-map entries)
// before the Settings map is consulted.
func (g *Generator) Option(name string) (string, bool) {
	switch name {
	case "basis_only":
		return strconv.FormatBool(g.BasisOnly), true
	case "debug":
		return strconv.FormatBool(g.Debug), true
	case "source_file":
		return g.SourceFile, true
	case "language":
		if g.Language != "" {
			return g.Language, true
		}
		return "", false
	}
	if setting, ok := g.Settings[name]; ok {
		return setting.Value, true
	}
	return "", false
}

// OutputPath implements emit.View: <OutputDir>/<source stem>.<ext>.
func (g *Generator) OutputPath(ext string) string {
	base := filepath.Base(g.SourceFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := g.OutputDir
	if dir == "" {
		dir = filepath.Dir(g.SourceFile)
	}
	return filepath.Join(dir, stem+"."+ext)
}
