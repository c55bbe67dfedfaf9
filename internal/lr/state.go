package lr

// State is a node of the LR automaton: a basis chain (kernel items), a
// full chain (basis plus closure), and the actions derived from it.
// States are identified globally by a monotonically increasing index
// assigned by StateTable.Add; index 0 is always the start state.
type State struct {
	Basis   *Config
	Config  *Config
	Index   int
	Actions ActionList
}

func newState(basis, config *Config, index int) *State {
	st := &State{Basis: basis, Config: config, Index: index}
	for c := config; c != nil; c = c.Next {
		c.State = st
	}
	return st
}

// Compress folds the state's reduce actions: if two or more Reduce
// actions all target the same rule and no other Reduce disagrees, the
// first is kept (retagged to the {default} pseudo-lookahead) and the
// rest are marked NotUsed.
func (s *State) Compress(defaultName string) {
	s.Actions.Compress(defaultName)
}
