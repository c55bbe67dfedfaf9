package symbol

import (
	"sort"
	"strings"
)

// FollowSet is an ordered set of terminal names. It backs both the
// follow-set attached to a Config (engine's lookahead computation) and the
// FIRST-set attached to a Symbol, so both need deterministic iteration for
// reproducible report output.
type FollowSet struct {
	members map[string]bool
	order   []string
}

// NewFollowSet returns an empty FollowSet ready for use.
func NewFollowSet() *FollowSet {
	return &FollowSet{members: map[string]bool{}}
}

// Add adds name to the set. It returns true if the set actually changed,
// the fixpoint signal FIRST-set and follow-set propagation depend on.
func (fs *FollowSet) Add(name string) bool {
	if fs.members[name] {
		return false
	}
	fs.members[name] = true
	fs.order = append(fs.order, name)
	return true
}

// Combine unions other into fs, returning true if fs changed.
func (fs *FollowSet) Combine(other *FollowSet) bool {
	if other == nil {
		return false
	}
	changed := false
	for _, name := range other.order {
		if fs.Add(name) {
			changed = true
		}
	}
	return changed
}

// Has returns whether name is a member of the set.
func (fs *FollowSet) Has(name string) bool {
	return fs.members[name]
}

// Len returns the number of members.
func (fs *FollowSet) Len() int {
	return len(fs.order)
}

// Sorted returns the set's members in ascending lexicographic order. Used
// wherever output must be deterministic regardless of insertion order.
func (fs *FollowSet) Sorted() []string {
	out := make([]string, len(fs.order))
	copy(out, fs.order)
	sort.Strings(out)
	return out
}

// String renders the set in insertion order, e.g. "{ PLUS NUM $ }".
func (fs *FollowSet) String() string {
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, name := range fs.order {
		sb.WriteString(name)
		sb.WriteString(" ")
	}
	sb.WriteString("}")
	return sb.String()
}
