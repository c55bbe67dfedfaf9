// Package engine orchestrates the generator pipeline: lambda/FIRST
// computation, LR(0) state construction with propagation-link
// recording, the follow-set fixpoint, action-table construction and
// conflict resolution, and optional default-reduce compression.
package engine

import (
	"github.com/kdt3rd/lime/internal/grammar"
	"github.com/kdt3rd/lime/internal/limerrors"
	"github.com/kdt3rd/lime/internal/lr"
	"github.com/kdt3rd/lime/internal/symbol"
)

// Setting is one %-declaration value captured from the grammar file,
// e.g. %name, %start_symbol.
type Setting struct {
	Value string
	Line  int
}

// Generator is the explicit, single-owner context for one run: the
// symbol, rule, and state tables plus the diagnostic reporter, passed
// through every pipeline stage instead of living in package globals.
type Generator struct {
	SymbolTable *symbol.Table
	RuleTable   *grammar.Table
	StateTable  *lr.StateTable
	Errors      *limerrors.Reporter

	Settings map[string]Setting

	SourceFile string
	OutputDir  string
	BasisOnly  bool
	Language   string
	Debug      bool
}

// NewGenerator returns a Generator ready to have its grammar populated
// (via RuleTable.Create/SetRHS and SymbolTable.FindOrCreate, driven by
// internal/surface) and then Process()ed.
func NewGenerator(sourceFile string) *Generator {
	symbols := symbol.NewTable()

	// The {default} pseudo-symbol is always present; a fresh table
	// cannot already hold one.
	_ = symbols.AddDefault(symbol.DefaultPseudo)

	return &Generator{
		SymbolTable: symbols,
		RuleTable:   grammar.NewTable(symbols),
		StateTable:  lr.NewStateTable(),
		Errors:      &limerrors.Reporter{},
		Settings:    map[string]Setting{},
		SourceFile:  sourceFile,
	}
}

// NumConflicts returns the number of unresolved conflicts found during
// Process, used as the CLI's process exit code.
func (g *Generator) NumConflicts() int {
	return g.Errors.ConflictCount()
}

// getStartSymbol resolves the grammar's start symbol: an explicit
// %start_symbol setting if present and valid, else the LHS of rule 0.
// When adderr is true, a missing or invalid explicit setting is
// reported (a warning, not fatal -- the fallback still produces tables).
func (g *Generator) getStartSymbol(adderr bool) *symbol.Symbol {
	setting, explicit := g.Settings["start_symbol"]
	if explicit {
		if sym, ok := g.SymbolTable.Find(setting.Value); ok {
			return sym
		}
		var fallback *symbol.Symbol
		if g.RuleTable.Count() > 0 {
			fallback, _ = g.SymbolTable.Find(g.RuleTable.Nth(0).LHS)
		}
		if fallback != nil && adderr {
			g.Errors.Addf(limerrors.Warning, g.SourceFile, setting.Line,
				"the specified start symbol %q is not a nonterminal of the grammar; %q will be used instead",
				setting.Value, fallback.Name)
		}
		return fallback
	}

	if g.RuleTable.Count() > 0 {
		sym, _ := g.SymbolTable.Find(g.RuleTable.Nth(0).LHS)
		return sym
	}
	return nil
}

// Name returns the grammar's declared %name, or a default.
func (g *Generator) Name() string {
	if setting, ok := g.Settings["name"]; ok {
		return setting.Value
	}
	return "lime"
}
