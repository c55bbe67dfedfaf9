package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdt3rd/lime/internal/symbol"
)

func newTestTable() *Table {
	return NewTable(symbol.NewTable())
}

// Lambda propagation: s ::= a b . ; a ::= . ; a ::= A . ; b ::= B .
func Test_ComputeLambdas_EmptyProduction(t *testing.T) {
	assert := assert.New(t)

	tab := newTestTable()

	s := tab.Create("s")
	tab.SetRHS(s, []RHSEntry{{Name: "a"}, {Name: "b"}})

	a1 := tab.Create("a")
	tab.SetRHS(a1, nil)

	a2 := tab.Create("a")
	tab.SetRHS(a2, []RHSEntry{{Name: "A"}})

	b := tab.Create("b")
	tab.SetRHS(b, []RHSEntry{{Name: "B"}})

	tab.ComputeLambdas()

	aSym, _ := tab.Symbols.Find("a")
	bSym, _ := tab.Symbols.Find("b")
	sSym, _ := tab.Symbols.Find("s")

	assert.True(aSym.Lambda)
	assert.False(bSym.Lambda)
	assert.False(sSym.Lambda)
}

func Test_ComputeFirstSets_LambdaPropagation(t *testing.T) {
	assert := assert.New(t)

	tab := newTestTable()

	s := tab.Create("s")
	tab.SetRHS(s, []RHSEntry{{Name: "a"}, {Name: "b"}})

	a1 := tab.Create("a")
	tab.SetRHS(a1, nil)

	a2 := tab.Create("a")
	tab.SetRHS(a2, []RHSEntry{{Name: "A"}})

	b := tab.Create("b")
	tab.SetRHS(b, []RHSEntry{{Name: "B"}})

	tab.ComputeLambdas()
	tab.ComputeFirstSets()

	sSym, _ := tab.Symbols.Find("s")
	assert.True(sSym.FirstSet.Has("A"))
	assert.True(sSym.FirstSet.Has("B"))
	assert.Equal(2, sSym.FirstSet.Len())
}

func Test_ComputeFirstSets_MinimalArithmetic(t *testing.T) {
	assert := assert.New(t)

	tab := newTestTable()

	expr1 := tab.Create("expr")
	tab.SetRHS(expr1, []RHSEntry{{Name: "expr"}, {Name: "PLUS"}, {Name: "term"}})

	expr2 := tab.Create("expr")
	tab.SetRHS(expr2, []RHSEntry{{Name: "term"}})

	term := tab.Create("term")
	tab.SetRHS(term, []RHSEntry{{Name: "NUM"}})

	tab.ComputeLambdas()
	tab.ComputeFirstSets()

	exprSym, _ := tab.Symbols.Find("expr")
	termSym, _ := tab.Symbols.Find("term")

	assert.True(exprSym.FirstSet.Has("NUM"))
	assert.Equal(1, exprSym.FirstSet.Len())
	assert.True(termSym.FirstSet.Has("NUM"))
	assert.Equal(1, termSym.FirstSet.Len())
}

func Test_RuleTable_PrependsPerLHSChain(t *testing.T) {
	assert := assert.New(t)

	tab := newTestTable()

	first := tab.Create("a")
	second := tab.Create("a")

	// FirstRule walks in reverse declaration order, which the state
	// construction depends on (see DESIGN.md).
	assert.Same(second, tab.FirstRule("a"))
	assert.Same(first, tab.NextRule(second))
	assert.Nil(tab.NextRule(first))
}

func Test_RuleTable_DenseIndices(t *testing.T) {
	assert := assert.New(t)

	tab := newTestTable()
	tab.Create("a")
	tab.Create("b")
	tab.Create("c")

	for i := 0; i < tab.Count(); i++ {
		assert.Equal(i, tab.Nth(i).Index)
	}
}

func Test_IsOnRHS(t *testing.T) {
	assert := assert.New(t)

	tab := newTestTable()
	r := tab.Create("expr")
	tab.SetRHS(r, []RHSEntry{{Name: "NUM"}})

	assert.True(tab.IsOnRHS("NUM"))
	assert.False(tab.IsOnRHS("expr"))
}

func Test_AssignPrecedences_FirstPrecedentSymbolWins(t *testing.T) {
	assert := assert.New(t)

	tab := newTestTable()
	plus := tab.Symbols.FindOrCreate("PLUS")
	plus.Precedence = 1

	r := tab.Create("expr")
	tab.SetRHS(r, []RHSEntry{{Name: "expr"}, {Name: "PLUS"}, {Name: "expr"}})

	tab.AssignPrecedences()

	assert.Equal("PLUS", r.Precedence)
}
