package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewTable_HasSentinels(t *testing.T) {
	assert := assert.New(t)

	tab := NewTable()

	eot, ok := tab.Find(EndOfInput)
	assert.True(ok)
	assert.Equal(Terminal, eot.Kind)

	errSym, ok := tab.Find(ErrorTerminal)
	assert.True(ok)
	assert.Equal(Terminal, errSym.Kind)
}

func Test_FindOrCreate_ClassifiesByFirstChar(t *testing.T) {
	assert := assert.New(t)

	tab := NewTable()

	term := tab.FindOrCreate("NUM")
	assert.Equal(Terminal, term.Kind)

	nonterm := tab.FindOrCreate("expr")
	assert.Equal(Nonterminal, nonterm.Kind)
}

func Test_FindOrCreate_IsIdempotent(t *testing.T) {
	assert := assert.New(t)

	tab := NewTable()

	a := tab.FindOrCreate("expr")
	b := tab.FindOrCreate("expr")

	assert.Same(a, b)
	assert.Equal(tab.Count(), tab.Count())
}

func Test_Indices_AreDenseAndLexOrdered(t *testing.T) {
	assert := assert.New(t)

	tab := NewTable()
	tab.FindOrCreate("NUM")
	tab.FindOrCreate("expr")
	tab.FindOrCreate("PLUS")

	for i := 0; i < tab.Count(); i++ {
		sym := tab.Nth(i)
		assert.Equal(i, sym.Index)
		if i > 0 {
			assert.LessOrEqual(tab.Nth(i-1).Name, sym.Name)
		}
	}
}

func Test_AddDefault_OnlyOnce(t *testing.T) {
	assert := assert.New(t)

	tab := NewTable()

	assert.NoError(tab.AddDefault(DefaultPseudo))
	assert.ErrorIs(tab.AddDefault(DefaultPseudo), ErrDuplicateDefault)

	def, ok := tab.Find(DefaultPseudo)
	assert.True(ok)
	assert.Equal(DefaultPseudo, def.Name)
}

func Test_TerminalCount_TracksCreation(t *testing.T) {
	assert := assert.New(t)

	tab := NewTable()
	before := tab.TerminalCount()

	tab.FindOrCreate("NUM")
	tab.FindOrCreate("expr")

	assert.Equal(before+1, tab.TerminalCount())
}

func Test_FollowSet_AddReportsChange(t *testing.T) {
	assert := assert.New(t)

	fs := NewFollowSet()
	assert.True(fs.Add("NUM"))
	assert.False(fs.Add("NUM"))
	assert.True(fs.Has("NUM"))
	assert.Equal(1, fs.Len())
}

func Test_FollowSet_CombineReportsChange(t *testing.T) {
	assert := assert.New(t)

	a := NewFollowSet()
	a.Add("NUM")

	b := NewFollowSet()
	b.Add("NUM")
	b.Add("PLUS")

	assert.True(a.Combine(b))
	assert.False(a.Combine(b))
	assert.Equal(2, a.Len())
}
