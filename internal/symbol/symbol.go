// Package symbol holds the interned vocabulary of a grammar: terminals and
// nonterminals, their precedence/associativity, FIRST-sets and lambda
// flags, and the follow-set type shared across the analysis engine.
package symbol

// Kind distinguishes a terminal from a nonterminal symbol.
type Kind int

const (
	Terminal Kind = iota
	Nonterminal
)

func (k Kind) String() string {
	if k == Terminal {
		return "terminal"
	}
	return "nonterminal"
}

// Assoc is the operator associativity of a symbol used in precedence-based
// conflict resolution.
type Assoc int

const (
	AssocUnknown Assoc = iota
	AssocLeft
	AssocRight
	AssocNone
)

// EndOfInput is the reserved end-of-input terminal name, always symbol
// index 0 by construction.
const EndOfInput = "$"

// DefaultPseudo is the pseudo-symbol used by default-reduce compression.
const DefaultPseudo = "{default}"

// ErrorTerminal is the predeclared terminal usable in RHS positions for
// error recovery.
const ErrorTerminal = "error"

// Symbol is one entry in the grammar's vocabulary. A symbol is created
// once, on first mention, and never destroyed before the generator run
// ends.
type Symbol struct {
	Name  string
	Index int
	Kind  Kind

	// Precedence is -1 when unset.
	Precedence int
	Assoc      Assoc

	FirstSet *FollowSet
	Lambda   bool

	Destructor     string
	DestructorLine int
	DataType       string
}

func newSymbol(name string, index int) *Symbol {
	kind := Nonterminal
	if name == ErrorTerminal || (len(name) > 0 && isTerminalStart(name[0])) {
		kind = Terminal
	}
	return &Symbol{
		Name:       name,
		Index:      index,
		Kind:       kind,
		Precedence: -1,
		Assoc:      AssocUnknown,
		FirstSet:   NewFollowSet(),
	}
}

func isTerminalStart(c byte) bool {
	// Kind is derived from the first character of the name: upper case
	// means terminal, lower case means nonterminal. "$" is carved out
	// as an always-terminal sentinel; "error" is carved out by name in
	// newSymbol since it starts with a lowercase letter.
	if c == '$' {
		return true
	}
	return c >= 'A' && c <= 'Z'
}

// SetFirstSet adds name to this symbol's FIRST-set, reporting whether it
// changed (the fixpoint signal used by RuleTable.ComputeFirstSets).
func (s *Symbol) SetFirstSet(name string) bool {
	return s.FirstSet.Add(name)
}

// UnionFirstSet unions other's FIRST-set into s's, reporting change.
func (s *Symbol) UnionFirstSet(other *Symbol) bool {
	return s.FirstSet.Combine(other.FirstSet)
}

func (s *Symbol) String() string {
	return s.Name
}
