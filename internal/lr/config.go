// Package lr implements the Lemon-style LR(0)/LALR(1) construction
// machinery: configurations (LR items) carrying per-item follow-sets
// and propagation links, states keyed by basis equality, and actions
// with precedence/associativity-driven conflict resolution. Lookaheads
// are never computed by building LR(1) item sets; instead propagation
// links are recorded during LR(0) construction and follow-sets are
// pushed across them to a fixpoint.
package lr

import (
	"github.com/kdt3rd/lime/internal/grammar"
	"github.com/kdt3rd/lime/internal/symbol"
)

// Status marks a Config's participation in a fixpoint sweep (build-shifts'
// same-state gather, or the follow-set propagation loop).
type Status int

const (
	StatusIncomplete Status = iota
	StatusComplete
)

// Config is an LR item: a rule plus a dot position, augmented with the
// follow-set and propagation links the Lemon-style construction needs.
// Next/NextBasis are singly-linked chain pointers owned by the State (or,
// transiently, the ConfigList scratch set building it); ForwardProps and
// BackwardProps are non-owning cross-references within the whole state
// graph and may form cycles, resolved by the follow-set fixpoint rather
// than by traversal order.
type Config struct {
	Rule *grammar.Rule
	Dot  int

	Next      *Config // full-chain link
	NextBasis *Config // basis-chain link

	FollowSet *symbol.FollowSet
	Status    Status

	ForwardProps  []*Config
	BackwardProps []*Config

	State *State // back-pointer, set once all states exist
}

// AtEnd reports whether the dot has reached the end of the rule's RHS,
// i.e. this item is ready to reduce.
func (c *Config) AtEnd() bool {
	return c.Dot >= len(c.Rule.RHS)
}

// DotSymbol returns the name of the RHS symbol immediately after the dot,
// and false if the dot is at the end.
func (c *Config) DotSymbol() (string, bool) {
	if c.AtEnd() {
		return "", false
	}
	return c.Rule.RHS[c.Dot].Name, true
}

// AddForwardPropLink records a forward propagation link from c to target:
// c's follow-set additions will be unioned into target's during the
// follow-set fixpoint.
func (c *Config) AddForwardPropLink(target *Config) {
	c.ForwardProps = append(c.ForwardProps, target)
}

// AddBackwardPropLink records a backward propagation link from c to
// source, later flipped to a forward link once all states exist.
func (c *Config) AddBackwardPropLink(source *Config) {
	c.BackwardProps = append(c.BackwardProps, source)
}

// MergePropLinks absorbs other's backward propagation links into c's own,
// used by GetNextState when a candidate state turns out to be a duplicate
// of one already in the StateTable.
func (c *Config) MergePropLinks(other *Config) {
	c.BackwardProps = append(c.BackwardProps, other.BackwardProps...)
}

func (c *Config) String() string {
	s := c.Rule.LHS + " ::="
	for i, entry := range c.Rule.RHS {
		if i == c.Dot {
			s += " ."
		}
		s += " " + entry.Name
	}
	if c.Dot == len(c.Rule.RHS) {
		s += " ."
	}
	return s
}
