package parse

import "github.com/dhamidi/mcfg/grammar"

// Derivation is one way an instance was produced: the rule applied and the
// right-hand instances it consumed. Lexical derivations have no children.
type Derivation struct {
	Rule     *grammar.Rule
	Children []grammar.Instance
}

// Forest maps every derived instance to all derivations that produced it.
// Shared sub-instances are stored once, which packs ambiguity.
type Forest struct {
	order   []grammar.Instance
	entries map[string][]Derivation
}

// NewForest returns an empty forest.
func NewForest() *Forest {
	return &Forest{entries: make(map[string][]Derivation)}
}

// Add records a derivation of inst.
func (f *Forest) Add(inst grammar.Instance, d Derivation) {
	key := inst.Key()
	if _, ok := f.entries[key]; !ok {
		f.order = append(f.order, inst)
	}
	f.entries[key] = append(f.entries[key], d)
}

// Derivations returns the derivations recorded for inst, in discovery order.
func (f *Forest) Derivations(inst grammar.Instance) []Derivation {
	return f.entries[inst.Key()]
}

// Instances returns every instance with at least one derivation.
func (f *Forest) Instances() []grammar.Instance {
	return f.order
}

// Len returns the number of instances in the forest.
func (f *Forest) Len() int {
	return len(f.order)
}

// IsAmbiguous reports whether inst has more than one derivation.
func (f *Forest) IsAmbiguous(inst grammar.Instance) bool {
	return len(f.entries[inst.Key()]) > 1
}
