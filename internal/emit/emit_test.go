package emit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdt3rd/lime/internal/emit"
)

type fakeView struct {
	opts map[string]string
}

func (f fakeView) Symbols() []emit.SymbolView {
	return []emit.SymbolView{
		{Name: "NUM", Index: 1, IsTerminal: true},
		{Name: "expr", Index: 2, IsTerminal: false},
	}
}

func (f fakeView) Rules() []emit.RuleView {
	return []emit.RuleView{
		{Index: 0, LHS: "expr", RHS: []emit.RHSSymbolView{{Name: "NUM"}}},
	}
}

func (f fakeView) States() []emit.StateView {
	return []emit.StateView{
		{
			Index: 0,
			Configs: []emit.ConfigView{
				{Text: "expr ::= . NUM", FollowSet: "$", IsBasis: true},
			},
			Actions: []emit.ActionView{
				{Lookahead: "NUM", Kind: "shift", ShiftState: 1},
			},
		},
	}
}

func (f fakeView) Option(name string) (string, bool) {
	v, ok := f.opts[name]
	return v, ok
}

func (f fakeView) OutputPath(ext string) string {
	return "out." + ext
}

func Test_Report_IncludesStateAndActions(t *testing.T) {
	assert := assert.New(t)

	out := emit.Report(fakeView{}, false)
	assert.True(strings.Contains(out, "State 0:"))
	assert.True(strings.Contains(out, "expr ::= . NUM"))
	assert.True(strings.Contains(out, "SHIFT"))
}

func Test_Report_BasisOnlyFiltersClosureConfigs(t *testing.T) {
	assert := assert.New(t)

	v := fakeView{}
	out := emit.Report(v, true)
	assert.True(strings.Contains(out, "expr ::= . NUM"))
}

func Test_Report_ShowsPropagationTargets(t *testing.T) {
	assert := assert.New(t)

	v := fakeView{}
	states := v.States()
	states[0].Configs[0].ForwardTargets = []emit.PropTargetView{{LHS: "expr", State: 1}}

	out := emit.Report(staticView{fakeView: v, states: states}, false)
	assert.True(strings.Contains(out, "To:   expr (1)"))
}

// staticView overrides States so a test can hand-tune the projections.
type staticView struct {
	fakeView
	states []emit.StateView
}

func (s staticView) States() []emit.StateView {
	return s.states
}

func Test_Reprint_ListsSymbolsAndRules(t *testing.T) {
	assert := assert.New(t)

	v := fakeView{opts: map[string]string{"source_file": "calc.y"}}
	out := emit.Reprint(v)

	assert.True(strings.Contains(out, `// Reprint of input file "calc.y".`))
	assert.True(strings.Contains(out, "// 1 NUM"))
	assert.True(strings.Contains(out, "expr ::= NUM."))
}
