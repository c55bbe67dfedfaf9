package lr

import "sort"

// ActionList is a state's ordered collection of actions.
type ActionList struct {
	items []Action
}

// Add appends a new action.
func (al *ActionList) Add(a Action) {
	al.items = append(al.items, a)
}

// Len returns the number of actions.
func (al *ActionList) Len() int {
	return len(al.items)
}

// Nth returns a pointer to the action at position i, so callers (conflict
// resolution) can mutate its Kind in place.
func (al *ActionList) Nth(i int) *Action {
	return &al.items[i]
}

// All returns every action, in current order.
func (al *ActionList) All() []Action {
	return al.items
}

// Sort imposes the lexicographic (lookahead, kind, target) order
// emitters and conflict resolution rely on.
func (al *ActionList) Sort() {
	sort.SliceStable(al.items, func(i, j int) bool {
		li, ki, ti := al.items[i].rank()
		lj, kj, tj := al.items[j].rank()
		if li != lj {
			return li < lj
		}
		if ki != kj {
			return ki < kj
		}
		return ti < tj
	})
}

// Compress folds repeated same-rule Reduce actions into a single
// {default}-lookahead Reduce. It only applies when every Reduce action
// in the list targets the same rule; the first is kept and retagged,
// the rest marked NotUsed, then the list is re-sorted.
func (al *ActionList) Compress(defaultName string) {
	var ruleIdx = -1
	reduceCount := 0
	uniform := true
	for i := range al.items {
		if al.items[i].Kind != Reduce {
			continue
		}
		reduceCount++
		if ruleIdx == -1 {
			ruleIdx = al.items[i].Rule.Index
		} else if al.items[i].Rule.Index != ruleIdx {
			uniform = false
		}
	}

	if reduceCount < 2 || !uniform {
		return
	}

	kept := false
	for i := range al.items {
		if al.items[i].Kind != Reduce {
			continue
		}
		if !kept {
			al.items[i].Lookahead = defaultName
			kept = true
			continue
		}
		al.items[i].Kind = NotUsed
	}

	al.Sort()
}
