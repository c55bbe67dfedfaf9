// Package emit defines the read-only contract code generators consume:
// a fixed view over the finished symbol/rule/state tables plus
// grammar-file configuration options. Backends are plain functions over
// the View rather than an inheritance hierarchy; cmd/lime selects one
// by language name.
package emit

// SymbolView is the read-only projection of a symbol an emitter needs.
type SymbolView struct {
	Name       string
	Index      int
	IsTerminal bool
	Precedence int
	DataType   string
	Destructor string
}

// RHSSymbolView is one RHS entry of a rule, with its optional alias.
type RHSSymbolView struct {
	Name  string
	Alias string
}

// RuleView is the read-only projection of a rule an emitter needs.
type RuleView struct {
	Index      int
	LHS        string
	LHSAlias   string
	RHS        []RHSSymbolView
	Code       string
	CodeLine   int
	CanReduce  bool
	Precedence string
}

// ActionView is the read-only projection of one action entry.
// NotUsed/ShiftResolved/ReduceResolved entries are never surfaced;
// "conflict" entries are retained for the report and must be skipped by
// code generators.
type ActionView struct {
	Lookahead  string
	Kind       string // "shift", "reduce", "accept", "error", "conflict"
	ShiftState int    // valid only when Kind == "shift"
	ReduceRule int    // valid only when Kind == "reduce" or "conflict"
}

// PropTargetView names one propagation-link target of a configuration,
// shown in the `.out` report as "LHS (state)" after "To:" or "From:".
type PropTargetView struct {
	LHS   string
	State int
}

// ConfigView is the read-only projection of one configuration (LR item)
// within a state, for the `.out` report (§6.2).
type ConfigView struct {
	Text      string // "LHS ::= alpha . beta", per lr.Config.String()
	FollowSet string
	IsBasis   bool

	ForwardTargets  []PropTargetView
	BackwardTargets []PropTargetView
}

// StateView is the read-only projection of one automaton state.
type StateView struct {
	Index   int
	Configs []ConfigView
	Actions []ActionView
}

// View is the fixed, read-only contract every emitter backend consumes.
// internal/engine.Generator implements this directly.
type View interface {
	Symbols() []SymbolView
	Rules() []RuleView
	States() []StateView

	// Option returns the value of a grammar-file %-declaration (name,
	// namespace, token_type, ...), and whether it was set at all.
	Option(name string) (string, bool)

	// OutputPath returns the path an emitter should write its output
	// file with the given extension to, derived from the source-file
	// stem and the configured output directory.
	OutputPath(ext string) string
}
