package emitc_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdt3rd/lime/internal/emit"
	"github.com/kdt3rd/lime/internal/emit/emitc"
)

type fakeView struct{}

func (fakeView) Symbols() []emit.SymbolView {
	return []emit.SymbolView{
		{Name: "NUM", Index: 1, IsTerminal: true},
		{Name: "PLUS", Index: 2, IsTerminal: true},
		{Name: "expr", Index: 3, IsTerminal: false},
	}
}

func (fakeView) Rules() []emit.RuleView {
	return []emit.RuleView{
		{Index: 0, LHS: "expr", RHS: []emit.RHSSymbolView{{Name: "NUM"}}},
	}
}

func (fakeView) States() []emit.StateView {
	return []emit.StateView{
		{Index: 0, Actions: []emit.ActionView{{Lookahead: "NUM", Kind: "shift", ShiftState: 1}}},
		{Index: 1, Actions: []emit.ActionView{{Lookahead: "$", Kind: "reduce", ReduceRule: 0}}},
	}
}

func (fakeView) Option(name string) (string, bool) {
	switch name {
	case "name":
		return "calcparser", true
	case "token_prefix":
		return "TK_", true
	}
	return "", false
}

func (fakeView) OutputPath(ext string) string {
	return "calcparser." + ext
}

func Test_Emitter_WriteHeader_DefinesTerminalsWithPrefix(t *testing.T) {
	assert := assert.New(t)

	e := emitc.New(fakeView{})
	var buf bytes.Buffer
	assert.NoError(e.WriteHeader(&buf))

	out := buf.String()
	assert.True(strings.Contains(out, "#define TK_NUM 1"))
	assert.True(strings.Contains(out, "#define TK_PLUS 2"))
	assert.False(strings.Contains(out, "TK_expr"))
	assert.True(strings.Contains(out, "calcparserAlloc"))
}

func Test_Emitter_Write_ListsRulesAndStates(t *testing.T) {
	assert := assert.New(t)

	e := emitc.New(fakeView{})
	var buf bytes.Buffer
	assert.NoError(e.Write(&buf))

	out := buf.String()
	assert.True(strings.Contains(out, "expr ::= NUM"))
	assert.True(strings.Contains(out, "State 0"))
	assert.True(strings.Contains(out, "State 1"))
}
