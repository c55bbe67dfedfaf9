package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdt3rd/lime/internal/emit"
	"github.com/kdt3rd/lime/internal/grammar"
	"github.com/kdt3rd/lime/internal/lr"
	"github.com/kdt3rd/lime/internal/symbol"
)

func addRule(g *Generator, lhs string, rhs ...string) *grammar.Rule {
	r := g.RuleTable.Create(lhs)
	entries := make([]grammar.RHSEntry, len(rhs))
	for i, name := range rhs {
		entries[i] = grammar.RHSEntry{Name: name}
	}
	g.RuleTable.SetRHS(r, entries)
	return r
}

// Minimal arithmetic grammar: conflict-free tables.
func Test_ArithmeticGrammar_ConflictFree(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("calc.y")
	addRule(g, "expr", "expr", "PLUS", "term")
	addRule(g, "expr", "term")
	addRule(g, "term", "NUM")
	plus := g.SymbolTable.FindOrCreate("PLUS")
	plus.Precedence = 0

	err := g.Process(context.Background(), true)
	assert.NoError(err)
	assert.Equal(0, g.NumConflicts())

	exprSym, _ := g.SymbolTable.Find("expr")
	assert.False(exprSym.Lambda)

	termSym, _ := g.SymbolTable.Find("term")
	assert.True(termSym.FirstSet.Has("NUM"))
}

// A shift/reduce tie on a left-associative operator resolves to Reduce.
func Test_ShiftReduce_ResolvedByLeftAssoc(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("leftassoc.y")
	addRule(g, "e", "e", "PLUS", "e")
	addRule(g, "e", "NUM")
	plus := g.SymbolTable.FindOrCreate("PLUS")
	plus.Precedence = 0
	plus.Assoc = symbol.AssocLeft

	err := g.Process(context.Background(), true)
	assert.NoError(err)
	assert.Equal(0, g.NumConflicts())
}

// A shift/reduce conflict with no precedence declared stays unresolved.
func Test_ShiftReduce_UnresolvedWithoutPrecedence(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("noprec.y")
	addRule(g, "e", "e", "PLUS", "e")
	addRule(g, "e", "NUM")
	// No %left declared: PLUS keeps Precedence == -1.

	err := g.Process(context.Background(), true)
	assert.NoError(err)
	assert.Equal(1, g.NumConflicts())
}

// A shift/reduce tie on a %nonassoc operator is not resolvable: it
// stays a counted conflict rather than an internal error.
func Test_ShiftReduce_NonassocTieStaysConflict(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("nonassoc.y")
	addRule(g, "e", "e", "EQ", "e")
	addRule(g, "e", "NUM")
	eq := g.SymbolTable.FindOrCreate("EQ")
	eq.Precedence = 0
	eq.Assoc = symbol.AssocNone

	err := g.Process(context.Background(), true)
	assert.NoError(err)
	assert.Equal(1, g.NumConflicts())

	msgs := g.Errors.ConflictMessages()
	assert.NotEmpty(msgs)
	assert.Contains(msgs[0], "non-associative")
}

// Two rules reducing on the same lookahead with no precedence to break
// the tie count as one reduce/reduce conflict.
func Test_ReduceReduce_UnresolvedIsCounted(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("rr.y")
	addRule(g, "s", "a")
	addRule(g, "s", "b")
	addRule(g, "a", "X")
	addRule(g, "b", "X")

	err := g.Process(context.Background(), true)
	assert.NoError(err)
	assert.Equal(1, g.NumConflicts())

	msgs := g.Errors.ConflictMessages()
	assert.NotEmpty(msgs)
	assert.Contains(msgs[0], "reduce/reduce")
}

// A rule unreachable from the start symbol can never be reduced and is
// reported.
func Test_UnreducibleRule_Reported(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("orphan.y")
	addRule(g, "a", "b")
	addRule(g, "b", "B")
	addRule(g, "c", "C")

	err := g.Process(context.Background(), true)
	assert.NoError(err)

	found := false
	for _, d := range g.Errors.Diagnostics() {
		if strings.Contains(d.Error(), "\"c\"") && strings.Contains(d.Error(), "can not be reduced") {
			found = true
		}
	}
	assert.True(found, "expected an unreducible-rule diagnostic for c")
}

// A state whose reduce actions all target one rule collapses to a
// single {default} reduce.
func Test_DefaultReduceCompression(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("compress.y")
	addRule(g, "expr", "expr", "PLUS", "term")
	addRule(g, "expr", "term")
	addRule(g, "term", "NUM")
	plus := g.SymbolTable.FindOrCreate("PLUS")
	plus.Precedence = 0

	err := g.Process(context.Background(), true)
	assert.NoError(err)

	// Find the state that reduces "term -> NUM" and assert its reduce
	// actions collapsed to a single {default} entry.
	var sawDefault bool
	for _, st := range g.StateTable.All() {
		reduceCount := 0
		for _, a := range st.Actions.All() {
			if a.Kind == lr.Reduce && a.Rule.LHS == "term" {
				reduceCount++
				if a.Lookahead == "{default}" {
					sawDefault = true
				}
			}
		}
		if reduceCount > 0 {
			assert.Equal(1, reduceCount)
		}
	}
	assert.True(sawDefault, "expected term -> NUM to compress to a {default} reduce")
}

// Repeated runs over the same grammar must produce byte-identical
// reports and identical indices.
func Test_Determinism_RepeatedRunsProduceIdenticalReports(t *testing.T) {
	assert := assert.New(t)

	build := func() *Generator {
		g := NewGenerator("det.y")
		addRule(g, "expr", "expr", "PLUS", "term")
		addRule(g, "expr", "term")
		addRule(g, "term", "NUM")
		plus := g.SymbolTable.FindOrCreate("PLUS")
		plus.Precedence = 0
		plus.Assoc = symbol.AssocLeft

		err := g.Process(context.Background(), true)
		assert.NoError(err)
		return g
	}

	g1 := build()
	g2 := build()

	assert.Equal(emit.Report(g1, false), emit.Report(g2, false))
	assert.Equal(g1.StateTable.Count(), g2.StateTable.Count())
}

// A single-rule grammar builds with no conflicts, and state 0 carries
// the Accept action (keyed on the start symbol).
func Test_Boundary_SingleRuleGrammar(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("single.y")
	addRule(g, "s", "A")

	err := g.Process(context.Background(), false)
	assert.NoError(err)
	assert.Equal(0, g.NumConflicts())

	var sawAccept bool
	for _, a := range g.StateTable.Nth(0).Actions.All() {
		if a.Kind == lr.Accept {
			sawAccept = true
		}
	}
	assert.True(sawAccept, "state 0 should carry the Accept action")
}

// A start symbol that recurses on a RHS is reported as a warning but
// tables are still generated.
func Test_Boundary_RecursiveStartSymbolWarnsButBuilds(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("rec.y")
	addRule(g, "s", "s", "A")
	addRule(g, "s", "A")

	err := g.Process(context.Background(), false)
	assert.NoError(err)

	var warned bool
	for _, d := range g.Errors.Diagnostics() {
		if strings.Contains(d.Error(), "right-hand side") {
			warned = true
		}
	}
	assert.True(warned)
	assert.False(g.Errors.HasErrors(), "a recursive start symbol is a warning, not an error")
	assert.Greater(g.StateTable.Count(), 0)
}

func Test_Invariant_StateIndicesAreDenseFromZero(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("invariants.y")
	addRule(g, "expr", "expr", "PLUS", "term")
	addRule(g, "expr", "term")
	addRule(g, "term", "NUM")

	err := g.Process(context.Background(), false)
	assert.NoError(err)

	for i := 0; i < g.StateTable.Count(); i++ {
		assert.Equal(i, g.StateTable.Nth(i).Index)
	}
}

func Test_Invariant_FollowSetFixpointIsIdempotent(t *testing.T) {
	assert := assert.New(t)

	g := NewGenerator("idempotent.y")
	addRule(g, "expr", "expr", "PLUS", "term")
	addRule(g, "expr", "term")
	addRule(g, "term", "NUM")

	g.findFirstSets()
	assert.NoError(g.findStates(context.Background()))
	g.findLinks()
	g.findFollowSets()

	before := snapshotFollowSets(g)
	g.findFollowSets()
	after := snapshotFollowSets(g)

	assert.Equal(before, after)
}

func snapshotFollowSets(g *Generator) []string {
	var out []string
	for _, st := range g.StateTable.All() {
		for cfp := st.Config; cfp != nil; cfp = cfp.Next {
			out = append(out, cfp.FollowSet.String())
		}
	}
	return out
}
