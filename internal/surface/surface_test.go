package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdt3rd/lime/internal/engine"
)

func Test_Parse_SimpleGrammar_PopulatesRulesAndSymbols(t *testing.T) {
	assert := assert.New(t)

	src := `
%name calc

%left PLUS.

expr ::= expr PLUS term.
expr ::= term.
term ::= NUM.
`
	g := engine.NewGenerator("calc.y")
	p := NewParser(g)
	p.Parse(src)

	assert.False(g.Errors.HasErrors())
	assert.Equal(3, g.RuleTable.Count())
	assert.Equal("calc", g.Name())

	plus, ok := g.SymbolTable.Find("PLUS")
	assert.True(ok)
	assert.Equal(1, plus.Precedence)
}

func Test_Parse_RuleCode_AttachesToPrecedingRule(t *testing.T) {
	assert := assert.New(t)

	src := `
term ::= NUM. { result = NUM; }
`
	g := engine.NewGenerator("code.y")
	p := NewParser(g)
	p.Parse(src)

	assert.False(g.Errors.HasErrors())
	r := g.RuleTable.Nth(0)
	// Rule code preserves interior whitespace verbatim: only the outer
	// brace pair is stripped, unlike declaration values which are also
	// trimmed.
	assert.Equal(" result = NUM; ", r.Code)
}

func Test_Parse_LHSAndRHSAliases(t *testing.T) {
	assert := assert.New(t)

	src := `
expr(A) ::= expr(B) PLUS term(C).
`
	g := engine.NewGenerator("alias.y")
	p := NewParser(g)
	p.Parse(src)

	assert.False(g.Errors.HasErrors())
	r := g.RuleTable.Nth(0)
	assert.Equal("A", r.LHSAlias)
	assert.Equal("B", r.RHS[0].Alias)
	assert.Equal("C", r.RHS[2].Alias)
}

func Test_Parse_DuplicateDeclValue_ReportsError(t *testing.T) {
	assert := assert.New(t)

	src := `
%name first
%name second

expr ::= NUM.
`
	g := engine.NewGenerator("dup.y")
	p := NewParser(g)
	p.Parse(src)

	assert.True(g.Errors.HasErrors())
}

func Test_Parse_MissingArrow_ResyncsAfterRuleError(t *testing.T) {
	assert := assert.New(t)

	src := `
expr NUM.
term ::= NUM.
`
	g := engine.NewGenerator("err.y")
	p := NewParser(g)
	p.Parse(src)

	assert.True(g.Errors.HasErrors())
	assert.Equal(1, g.RuleTable.Count())
}

func Test_Parse_Destructor_And_Type_Declarations(t *testing.T) {
	assert := assert.New(t)

	src := `
%type term {int}
%destructor term {free($$);}

term ::= NUM.
`
	g := engine.NewGenerator("destr.y")
	p := NewParser(g)
	p.Parse(src)

	assert.False(g.Errors.HasErrors())
	sym, ok := g.SymbolTable.Find("term")
	assert.True(ok)
	assert.Equal("int", sym.DataType)
	assert.Equal("free($$);", sym.Destructor)
}
