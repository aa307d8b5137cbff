package parse

import "github.com/dhamidi/mcfg/grammar"

// Chart is the insertion-ordered set of instances derived so far. It only
// grows while a parse runs.
type Chart struct {
	items  []grammar.Instance
	keys   map[string]int
	byName map[string][]grammar.Instance
}

func newChart() *Chart {
	return &Chart{
		keys:   make(map[string]int),
		byName: make(map[string][]grammar.Instance),
	}
}

// Add inserts inst and reports whether it was new.
func (c *Chart) Add(inst grammar.Instance) bool {
	key := inst.Key()
	if _, ok := c.keys[key]; ok {
		return false
	}
	c.keys[key] = len(c.items)
	c.items = append(c.items, inst)
	return true
}

// Has reports whether an equal instance is in the chart.
func (c *Chart) Has(inst grammar.Instance) bool {
	_, ok := c.keys[inst.Key()]
	return ok
}

// Len returns the number of distinct instances.
func (c *Chart) Len() int {
	return len(c.items)
}

// Items returns the instances in insertion order.
func (c *Chart) Items() []grammar.Instance {
	return c.items
}

// markProcessed makes inst available as a partner for later agenda items.
func (c *Chart) markProcessed(inst grammar.Instance) {
	c.byName[inst.Name] = append(c.byName[inst.Name], inst)
}

// processed returns the entries named name that already left the agenda.
func (c *Chart) processed(name string) []grammar.Instance {
	return c.byName[name]
}

// agenda is a FIFO queue of instances waiting to trigger rule applications.
type agenda struct {
	queue []grammar.Instance
	head  int
}

func (a *agenda) push(inst grammar.Instance) {
	a.queue = append(a.queue, inst)
}

func (a *agenda) pop() (grammar.Instance, bool) {
	if a.head >= len(a.queue) {
		return grammar.Instance{}, false
	}
	inst := a.queue[a.head]
	a.queue[a.head] = grammar.Instance{}
	a.head++
	return inst, true
}
