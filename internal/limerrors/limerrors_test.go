package limerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Diagnostic_ErrorFormat_WithLine(t *testing.T) {
	assert := assert.New(t)

	d := New(Semantic, "grammar.y", 12, "rule for %q can not be reduced", "c")
	assert.Equal(`grammar.y (line 12): rule for "c" can not be reduced`, d.Error())
}

func Test_Diagnostic_ErrorFormat_NoLine(t *testing.T) {
	assert := assert.New(t)

	d := New(Fatal, "grammar.y", 0, "no rules to choose as start rule")
	assert.Equal("grammar.y: no rules to choose as start rule", d.Error())
}

func Test_Reporter_HasErrors_IgnoresWarnings(t *testing.T) {
	assert := assert.New(t)

	var r Reporter
	r.Addf(Warning, "grammar.y", 1, "start symbol occurs on RHS")
	assert.False(r.HasErrors())

	r.Addf(Semantic, "grammar.y", 2, "unreducible rule")
	assert.True(r.HasErrors())
}

func Test_Reporter_ConflictsAreSeparateFromErrors(t *testing.T) {
	assert := assert.New(t)

	var r Reporter
	r.AddConflict()
	r.AddConflict()

	assert.Equal(2, r.ConflictCount())
	assert.False(r.HasErrors())
	assert.Equal(0, r.Count())
}
