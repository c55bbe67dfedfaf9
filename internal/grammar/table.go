package grammar

import (
	"github.com/kdt3rd/lime/internal/symbol"
)

// Table holds every Rule in declaration order plus, for each LHS name, a
// singly-linked chain walked by FirstRule/NextRule. New rules are
// prepended to their LHS's chain, so FirstRule/NextRule walk a
// nonterminal's productions in *reverse* declaration order; the state
// construction depends on this ordering for legacy-compatible output
// (see DESIGN.md).
type Table struct {
	rules   []*Rule
	byLHS   map[string]*Rule // head of the per-LHS chain (most recent rule)
	Symbols *symbol.Table
}

// NewTable returns an empty RuleTable bound to the given SymbolTable; every
// LHS/RHS name mentioned by Create is interned there.
func NewTable(symbols *symbol.Table) *Table {
	return &Table{
		byLHS:   map[string]*Rule{},
		Symbols: symbols,
	}
}

// Create appends a new rule for lhs at the next dense index, and links it
// to the front of lhs's per-LHS chain.
func (t *Table) Create(lhs string) *Rule {
	t.Symbols.FindOrCreate(lhs)

	r := &Rule{Index: len(t.rules), LHS: lhs, Precedence: "", CanReduce: false}
	r.next = t.byLHS[lhs]
	t.byLHS[lhs] = r

	t.rules = append(t.rules, r)
	return r
}

// FirstRule returns the most recently declared rule for lhs, or nil.
func (t *Table) FirstRule(lhs string) *Rule {
	return t.byLHS[lhs]
}

// NextRule returns the rule declared immediately before r for the same
// LHS (i.e. the next link in the reverse-declaration chain), or nil.
func (t *Table) NextRule(r *Rule) *Rule {
	if r == nil {
		return nil
	}
	return r.next
}

// Nth returns the rule at declaration index i.
func (t *Table) Nth(i int) *Rule {
	if i < 0 || i >= len(t.rules) {
		return nil
	}
	return t.rules[i]
}

// Count returns the number of declared rules.
func (t *Table) Count() int {
	return len(t.rules)
}

// All returns every rule in declaration-index order.
func (t *Table) All() []*Rule {
	return t.rules
}

// IsOnRHS reports whether name appears in the RHS of any rule; used to
// diagnose a start symbol that recurses.
func (t *Table) IsOnRHS(name string) bool {
	for _, r := range t.rules {
		for _, entry := range r.RHS {
			if entry.Name == name {
				return true
			}
		}
	}
	return false
}

// AssignPrecedences fills in Rule.Precedence for every rule that has no
// explicit precedence symbol, by scanning its RHS left-to-right for the
// first symbol carrying a non-negative precedence.
func (t *Table) AssignPrecedences() {
	for _, r := range t.rules {
		if r.Precedence != "" {
			continue
		}
		for _, entry := range r.RHS {
			sym, ok := t.Symbols.Find(entry.Name)
			if !ok {
				continue
			}
			if sym.Precedence >= 0 {
				r.Precedence = sym.Name
				break
			}
		}
	}
}

// PrecedenceSymbol returns the Symbol bound to r's precedence, or nil if
// none is set.
func (t *Table) PrecedenceSymbol(r *Rule) *symbol.Symbol {
	if r.Precedence == "" {
		return nil
	}
	sym, _ := t.Symbols.Find(r.Precedence)
	return sym
}

// ComputeLambdas iterates to a fixpoint: a nonterminal is lambda iff some
// rule for it has every RHS symbol lambda (an empty RHS trivially
// qualifies). Terminals are never lambda.
func (t *Table) ComputeLambdas() {
	changed := true
	for changed {
		changed = false
		for _, r := range t.rules {
			lhsSym := mustFind(t.Symbols, r.LHS)
			if lhsSym.Lambda {
				continue
			}
			if t.rhsAllLambda(r) {
				lhsSym.Lambda = true
				changed = true
			}
		}
	}
}

func (t *Table) rhsAllLambda(r *Rule) bool {
	for _, entry := range r.RHS {
		sym := mustFind(t.Symbols, entry.Name)
		if sym.Kind == symbol.Terminal || !sym.Lambda {
			return false
		}
	}
	return true
}

// ComputeFirstSets iterates to a fixpoint: for each rule LHS -> X1...Xn,
// walk left to right; a terminal Xi contributes itself to FIRST(LHS) and
// stops the walk; Xi == LHS stops the walk unless LHS is lambda;
// otherwise FIRST(Xi) is unioned in, and the walk stops unless Xi is
// lambda.
func (t *Table) ComputeFirstSets() {
	changed := true
	for changed {
		changed = false
		for _, r := range t.rules {
			lhsSym := mustFind(t.Symbols, r.LHS)
			for _, entry := range r.RHS {
				xi := mustFind(t.Symbols, entry.Name)
				if xi.Kind == symbol.Terminal {
					if lhsSym.SetFirstSet(xi.Name) {
						changed = true
					}
					break
				}
				if xi.Name == lhsSym.Name {
					if !lhsSym.Lambda {
						break
					}
					continue
				}
				if lhsSym.UnionFirstSet(xi) {
					changed = true
				}
				if !xi.Lambda {
					break
				}
			}
		}
	}
}

func mustFind(symbols *symbol.Table, name string) *symbol.Symbol {
	sym, ok := symbols.Find(name)
	if !ok {
		// Every name reachable through a Rule's LHS/RHS was interned by
		// Table.Create/SetRHS; reaching here means an invariant was
		// broken upstream.
		panic("grammar: symbol " + name + " not interned")
	}
	return sym
}

// SetRHS installs r's right-hand side, interning every mentioned symbol.
func (t *Table) SetRHS(r *Rule, rhs []RHSEntry) {
	for _, entry := range rhs {
		t.Symbols.FindOrCreate(entry.Name)
	}
	r.RHS = rhs
}
