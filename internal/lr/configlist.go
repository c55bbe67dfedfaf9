package lr

import (
	"sort"

	"github.com/kdt3rd/lime/internal/grammar"
	"github.com/kdt3rd/lime/internal/symbol"
)

type configKey struct {
	rule int
	dot  int
}

// ConfigList is the scratch working set used while constructing one
// candidate state: it tracks a basis chain (kernel items only) and a full
// chain (basis plus closure), deduplicating by (rule index, dot).
type ConfigList struct {
	symbols *symbol.Table
	rules   *grammar.Table

	seen    map[configKey]*Config
	entries []*Config // full chain, insertion order until Sort
	basis   []*Config // basis chain, insertion order until SortBasis
}

// NewConfigList returns an empty scratch list bound to the given tables
// (needed by Closure to look up nonterminal productions and FIRST-sets).
func NewConfigList(symbols *symbol.Table, rules *grammar.Table) *ConfigList {
	return &ConfigList{symbols: symbols, rules: rules, seen: map[configKey]*Config{}}
}

// Reset clears the scratch list for reuse, without touching any Config
// already adopted by a State.
func (cl *ConfigList) Reset() {
	cl.seen = map[configKey]*Config{}
	cl.entries = nil
	cl.basis = nil
}

func (cl *ConfigList) add(rule *grammar.Rule, dot int, basis bool) *Config {
	key := configKey{rule.Index, dot}
	if c, ok := cl.seen[key]; ok {
		return c
	}
	c := &Config{Rule: rule, Dot: dot, FollowSet: symbol.NewFollowSet(), Status: StatusIncomplete}
	cl.seen[key] = c
	cl.entries = append(cl.entries, c)
	if basis {
		cl.basis = append(cl.basis, c)
	}
	return c
}

// Add inserts (rule, dot) into the full chain only (used by Closure for
// items produced by expanding a nonterminal).
func (cl *ConfigList) Add(rule *grammar.Rule, dot int) *Config {
	return cl.add(rule, dot, false)
}

// AddWithBasis inserts (rule, dot) into both the basis and full chains.
func (cl *ConfigList) AddWithBasis(rule *grammar.Rule, dot int) *Config {
	return cl.add(rule, dot, true)
}

// Basis returns the head of the basis chain (nil if empty).
func (cl *ConfigList) Basis() *Config {
	if len(cl.basis) == 0 {
		return nil
	}
	return cl.basis[0]
}

// Configs returns the head of the full chain (nil if empty).
func (cl *ConfigList) Configs() *Config {
	if len(cl.entries) == 0 {
		return nil
	}
	return cl.entries[0]
}

// SortBasis orders the basis chain by (rule index, dot) ascending and
// relinks NextBasis pointers to match.
func (cl *ConfigList) SortBasis() {
	sort.SliceStable(cl.basis, func(i, j int) bool {
		return less(cl.basis[i], cl.basis[j])
	})
	relink(cl.basis, func(c, next *Config) { c.NextBasis = next })
}

// Sort orders the full chain by (rule index, dot) ascending and relinks
// Next pointers to match.
func (cl *ConfigList) Sort() {
	sort.SliceStable(cl.entries, func(i, j int) bool {
		return less(cl.entries[i], cl.entries[j])
	})
	relink(cl.entries, func(c, next *Config) { c.Next = next })
}

func less(a, b *Config) bool {
	if a.Rule.Index != b.Rule.Index {
		return a.Rule.Index < b.Rule.Index
	}
	return a.Dot < b.Dot
}

func relink(items []*Config, setNext func(*Config, *Config)) {
	for i, c := range items {
		if i+1 < len(items) {
			setNext(c, items[i+1])
		} else {
			setNext(c, nil)
		}
	}
}

// Closure expands the full chain: for every item
// "A -> alpha . B beta" with B a nonterminal, for every rule "B -> gamma"
// add "B -> . gamma" to the list, with its initial follow-set computed by
// scanning beta left-to-right (FIRST-set union, stopping at the first
// non-lambda symbol); when beta is entirely lambda (or empty), a forward
// propagation link is recorded from the outer item straight to the new
// one, since the new item's follow-set will from then on simply track the
// outer item's.
func (cl *ConfigList) Closure() {
	for i := 0; i < len(cl.entries); i++ {
		outer := cl.entries[i]
		dotSym, ok := outer.DotSymbol()
		if !ok {
			continue
		}
		bSym, ok := cl.symbols.Find(dotSym)
		if !ok || bSym.Kind != symbol.Nonterminal {
			continue
		}

		for r := cl.rules.FirstRule(bSym.Name); r != nil; r = cl.rules.NextRule(r) {
			newCfg := cl.Add(r, 0)

			beta := outer.Rule.RHS[outer.Dot+1:]
			allLambda := true
			for _, entry := range beta {
				bsym, ok := cl.symbols.Find(entry.Name)
				if !ok {
					break
				}
				if bsym.Kind == symbol.Terminal {
					newCfg.FollowSet.Add(bsym.Name)
					allLambda = false
					break
				}
				newCfg.FollowSet.Combine(bsym.FirstSet)
				if !bsym.Lambda {
					allLambda = false
					break
				}
			}
			if allLambda {
				outer.AddForwardPropLink(newCfg)
			}
		}
	}
}
