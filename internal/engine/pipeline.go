package engine

import (
	"context"

	"github.com/kdt3rd/lime/internal/limerrors"
	"github.com/kdt3rd/lime/internal/lr"
	"github.com/kdt3rd/lime/internal/symbol"
)

// Process runs the full analysis pipeline in order: findFirstSets,
// findStates, findLinks, findFollowSets, findActions, and (unless
// compress is false, the --no-compress flag) compressTables. ctx is
// checked once per state constructed so a CLI-level timeout can abort
// a pathological grammar.
func (g *Generator) Process(ctx context.Context, compress bool) error {
	g.findFirstSets()

	if err := g.findStates(ctx); err != nil {
		return err
	}

	g.findLinks()
	g.findFollowSets()
	if err := g.findActions(); err != nil {
		return err
	}

	if compress {
		g.compressTables()
	}

	return nil
}

// findFirstSets delegates the lambda/FIRST/precedence analyses to the
// RuleTable.
func (g *Generator) findFirstSets() {
	g.RuleTable.ComputeLambdas()
	g.RuleTable.ComputeFirstSets()
	g.RuleTable.AssignPrecedences()
}

// findStates picks the start symbol, seeds the initial config list with
// every start-symbol rule (follow-set = {$}), and kicks off recursive
// state construction via getNextState.
func (g *Generator) findStates(ctx context.Context) error {
	startSym := g.getStartSymbol(true)
	if startSym == nil {
		g.Errors.Addf(limerrors.Fatal, g.SourceFile, 0, "no rules to choose as start rule")
		return nil
	}

	if g.RuleTable.IsOnRHS(startSym.Name) {
		g.Errors.Addf(limerrors.Warning, g.SourceFile, 0,
			"the start symbol %q occurs on the right-hand side of a rule; this will result in a parser which does not work properly",
			startSym.Name)
	}

	cl := lr.NewConfigList(g.SymbolTable, g.RuleTable)

	eot := g.SymbolTable.Nth(0).Name // the end-of-input sentinel sorts first
	for r := g.RuleTable.FirstRule(startSym.Name); r != nil; r = g.RuleTable.NextRule(r) {
		cfg := cl.AddWithBasis(r, 0)
		cfg.FollowSet.Add(eot)
	}

	_, err := g.getNextState(ctx, cl)
	return err
}

// getNextState looks the candidate's sorted basis up in the StateTable;
// on a hit, it merges backward propagation links into the surviving
// state and discards the candidate; on a miss, it computes the closure,
// registers a new state, and recurses via buildShifts.
func (g *Generator) getNextState(ctx context.Context, cl *lr.ConfigList) (*lr.State, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cl.SortBasis()
	basis := cl.Basis()

	if existing := g.StateTable.Find(basis); existing != nil {
		for sbp, tbp := existing.Basis, basis; sbp != nil && tbp != nil; sbp, tbp = sbp.NextBasis, tbp.NextBasis {
			sbp.MergePropLinks(tbp)
		}
		return existing, nil
	}

	cl.Closure()
	cl.Sort()

	state := g.StateTable.Add(basis, cl.Configs())

	if err := g.buildShifts(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// buildShifts computes a state's successors: every config starts
// Incomplete; for each still-Incomplete, non-final config, gather every
// other still-Incomplete config sharing the same dot-symbol, advance each
// by one dot into a fresh ConfigList (recording a backward propagation
// link from the new item to its contributor), recurse via getNextState,
// and append a Shift action on the shared symbol.
func (g *Generator) buildShifts(ctx context.Context, state *lr.State) error {
	for cfp := state.Config; cfp != nil; cfp = cfp.Next {
		cfp.Status = lr.StatusIncomplete
	}

	for cfp := state.Config; cfp != nil; cfp = cfp.Next {
		if cfp.Status == lr.StatusComplete {
			continue
		}

		x, ok := cfp.DotSymbol()
		if !ok {
			continue
		}

		cl := lr.NewConfigList(g.SymbolTable, g.RuleTable)

		for bcfp := cfp; bcfp != nil; bcfp = bcfp.Next {
			if bcfp.Status == lr.StatusComplete {
				continue
			}
			bx, ok := bcfp.DotSymbol()
			if !ok || bx != x {
				continue
			}

			bcfp.Status = lr.StatusComplete
			newCfg := cl.AddWithBasis(bcfp.Rule, bcfp.Dot+1)
			newCfg.AddBackwardPropLink(bcfp)
		}

		newState, err := g.getNextState(ctx, cl)
		if err != nil {
			return err
		}

		state.Actions.Add(lr.Action{Kind: lr.Shift, Lookahead: x, State: newState})
	}

	return nil
}

// findLinks flips every backward propagation link into its inverse
// forward link. After this pass only forward links are consulted.
func (g *Generator) findLinks() {
	for _, st := range g.StateTable.All() {
		for cfp := st.Config; cfp != nil; cfp = cfp.Next {
			cfp.State = st
			for _, source := range cfp.BackwardProps {
				source.AddForwardPropLink(cfp)
			}
		}
	}
}

// findFollowSets propagates follow-sets to a fixpoint across forward
// propagation links.
func (g *Generator) findFollowSets() {
	for _, st := range g.StateTable.All() {
		for cfp := st.Config; cfp != nil; cfp = cfp.Next {
			cfp.Status = lr.StatusIncomplete
		}
	}

	progress := true
	for progress {
		progress = false
		for _, st := range g.StateTable.All() {
			for cfp := st.Config; cfp != nil; cfp = cfp.Next {
				if cfp.Status == lr.StatusComplete {
					continue
				}
				for _, target := range cfp.ForwardProps {
					if target.FollowSet.Combine(cfp.FollowSet) {
						target.Status = lr.StatusIncomplete
						progress = true
					}
				}
				cfp.Status = lr.StatusComplete
			}
		}
	}
}

// findActions builds Reduce actions from each end-of-RHS config's
// follow-set, adds Accept in state 0, scans for shift-shift conflicts,
// sorts and resolves conflicts pairwise by precedence/associativity,
// then computes rule reducibility and reports rules that can never be
// reduced.
func (g *Generator) findActions() error {
	nSym := g.SymbolTable.Count()

	for _, st := range g.StateTable.All() {
		for cfp := st.Config; cfp != nil; cfp = cfp.Next {
			if !cfp.AtEnd() {
				continue
			}
			for j := 0; j < nSym; j++ {
				sp := g.SymbolTable.Nth(j)
				if (sp.Kind == symbol.Terminal || sp.Name == symbol.EndOfInput) && cfp.FollowSet.Has(sp.Name) {
					st.Actions.Add(lr.Action{Kind: lr.Reduce, Lookahead: sp.Name, Rule: cfp.Rule})
				}
			}
		}
	}

	if startSym := g.getStartSymbol(false); startSym != nil {
		if s0 := g.StateTable.Nth(0); s0 != nil {
			s0.Actions.Add(lr.Action{Kind: lr.Accept, Lookahead: startSym.Name})
		}
	}

	g.findShiftShiftConflicts()

	for _, st := range g.StateTable.All() {
		st.Actions.Sort()
		n := st.Actions.Len()
		for j := 0; j < n-1; j++ {
			act := st.Actions.Nth(j)
			for k := j + 1; k < n; k++ {
				nact := st.Actions.Nth(k)
				if err := g.resolveConflict(st, act, nact); err != nil {
					return err
				}
			}
		}
	}

	g.reportUnreducibleRules()
	return nil
}

// findShiftShiftConflicts scans, within each state, every pair of
// non-final configs that point the dot at the same RHS symbol and
// reports the pair when they were advanced into different successor
// states. buildShifts already groups every config sharing a dot-symbol
// into a single successor, so under correct construction this can never
// fire; it exists purely to guard against table corruption.
func (g *Generator) findShiftShiftConflicts() {
	// successor finds the state holding c advanced by one dot, through
	// the forward link findLinks flipped from buildShifts' backward link.
	successor := func(c *lr.Config) *lr.State {
		for _, t := range c.ForwardProps {
			if t.Rule == c.Rule && t.Dot == c.Dot+1 {
				return t.State
			}
		}
		return nil
	}

	for _, st := range g.StateTable.All() {
		var cfgs []*lr.Config
		for cfp := st.Config; cfp != nil; cfp = cfp.Next {
			cfgs = append(cfgs, cfp)
		}
		for i := 0; i < len(cfgs); i++ {
			if cfgs[i].AtEnd() {
				continue
			}
			xi, _ := cfgs[i].DotSymbol()
			for j := i + 1; j < len(cfgs); j++ {
				if cfgs[j].AtEnd() {
					continue
				}
				xj, _ := cfgs[j].DotSymbol()
				if xi == xj && successor(cfgs[i]) != successor(cfgs[j]) {
					g.Errors.Addf(limerrors.Semantic, g.SourceFile, 0,
						"unresolved shift/shift conflict between %q and %q", cfgs[i].Rule.String(), cfgs[j].Rule.String())
					g.Errors.AddConflict()
				}
			}
		}
	}
}

func (g *Generator) reportUnreducibleRules() {
	for _, r := range g.RuleTable.All() {
		r.SetCanReduce(false)
	}
	for _, st := range g.StateTable.All() {
		for _, act := range st.Actions.All() {
			if act.Kind == lr.Reduce {
				act.Rule.SetCanReduce(true)
			}
		}
	}
	for _, r := range g.RuleTable.All() {
		if r.CanReduce {
			continue
		}
		g.Errors.Addf(limerrors.Semantic, g.SourceFile, r.Line,
			"rule for %q:\n  %s\ncan not be reduced", r.LHS, r.String())
	}
}

// resolveConflict applies the precedence/associativity decision tables
// to a pair of actions sharing a lookahead. Unresolved conflicts are counted and
// described through the reporter; a non-nil error is returned only for
// the internal-error case of an unexpected associativity combination in
// resolveShiftReduce.
func (g *Generator) resolveConflict(st *lr.State, act, nact *lr.Action) error {
	if act.Lookahead != nact.Lookahead {
		return nil
	}

	switch {
	case act.Kind == lr.Shift && nact.Kind == lr.Reduce:
		return g.resolveShiftReduce(st, act, nact)
	case act.Kind == lr.Reduce && nact.Kind == lr.Reduce:
		g.resolveReduceReduce(st, act, nact)
		return nil
	case act.Kind == lr.Shift && nact.Kind == lr.Shift:
		nact.Kind = lr.Conflict
		g.Errors.AddConflictf("unresolved shift/shift conflict in state %d on %q", st.Index, act.Lookahead)
		return nil
	default:
		return nil
	}
}

func (g *Generator) resolveShiftReduce(st *lr.State, act, nact *lr.Action) error {
	symA, _ := g.SymbolTable.Find(act.Lookahead)
	symB := g.RuleTable.PrecedenceSymbol(nact.Rule)

	switch {
	case symB == nil || symA.Precedence < 0 || symB.Precedence < 0:
		g.Errors.AddConflictf("unresolved shift/reduce conflict in state %d on %q between %q and %q",
			st.Index, act.Lookahead, act.String(), nact.String())
		nact.Kind = lr.Conflict
		return nil
	case symA.Precedence > symB.Precedence:
		nact.Kind = lr.ReduceResolved
		return nil
	case symA.Precedence < symB.Precedence:
		act.Kind = lr.ShiftResolved
		return nil
	case symA.Assoc == symbol.AssocRight:
		nact.Kind = lr.ReduceResolved
		return nil
	case symA.Assoc == symbol.AssocLeft:
		act.Kind = lr.ShiftResolved
		return nil
	case symA.Assoc == symbol.AssocNone:
		g.Errors.AddConflictf("unresolved shift/reduce conflict in state %d on non-associative %q between %q and %q",
			st.Index, act.Lookahead, act.String(), nact.String())
		nact.Kind = lr.Conflict
		return nil
	default:
		return limerrors.Internal(
			"unexpected associativity combination resolving shift/reduce conflict on lookahead %q (precedence %d/%d, assoc %v)",
			act.Lookahead, symA.Precedence, symB.Precedence, symA.Assoc)
	}
}

func (g *Generator) resolveReduceReduce(st *lr.State, act, nact *lr.Action) {
	symA := g.RuleTable.PrecedenceSymbol(act.Rule)
	symB := g.RuleTable.PrecedenceSymbol(nact.Rule)

	switch {
	case symA == nil || symB == nil || symA.Precedence < 0 || symB.Precedence < 0 || symA.Precedence == symB.Precedence:
		g.Errors.AddConflictf("unresolved reduce/reduce conflict in state %d on %q between %q and %q",
			st.Index, act.Lookahead, act.String(), nact.String())
		nact.Kind = lr.Conflict
	case symA.Precedence > symB.Precedence:
		nact.Kind = lr.ReduceResolved
	default:
		act.Kind = lr.ShiftResolved
	}
}

// compressTables folds default-reduce actions in every state.
func (g *Generator) compressTables() {
	for _, st := range g.StateTable.All() {
		st.Compress(g.SymbolTable.DefaultName())
	}
}
