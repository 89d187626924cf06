package region

import "github.com/vk/factorgrid/internal/graph"

// Counting is an integer counting number with an always-include sentinel.
// The sentinel stands in for the source formulation's infinite bump: a
// forced region stays required no matter which finite discounts are applied
// to it later.
type Counting struct {
	N      int
	Forced bool
}

// Required reports whether the region carries nonzero net multiplicity.
func (c Counting) Required() bool { return c.Forced || c.N != 0 }

// Multiplicity returns the entropy multiplicity the region contributes to
// the free-energy sum. Forced regions are counted exactly once.
func (c Counting) Multiplicity() int {
	if c.Forced {
		return 1
	}
	return c.N
}

// Entry is one row of a counting table: a region plus its counting number.
// Exactly one of Variable and Cluster is set.
type Entry struct {
	Variable *graph.Variable
	Cluster  *Cluster
	Counting Counting
}

// Table accumulates counting numbers over regions, unifying entries by
// region key. Discovery order is preserved for deterministic iteration.
type Table struct {
	entries map[Key]*Entry
	order   []Key
}

// NewTable creates an empty counting table.
func NewTable() *Table {
	return &Table{entries: make(map[Key]*Entry)}
}

// IncreaseVariable accumulates a finite bump on a variable's counting number.
func (t *Table) IncreaseVariable(v *graph.Variable, n int) {
	t.row(VariableKey(v), v, nil).Counting.N += n
}

// ForceVariable marks a variable as always included.
func (t *Table) ForceVariable(v *graph.Variable) {
	t.row(VariableKey(v), v, nil).Counting.Forced = true
}

// IncreaseCluster accumulates a finite bump on a cluster region. Regions
// naming the same (node, edge set) collapse to one entry.
func (t *Table) IncreaseCluster(c *Cluster, n int) {
	t.row(c.Key(), nil, c).Counting.N += n
}

// ForceCluster marks a cluster region as always included.
func (t *Table) ForceCluster(c *Cluster) {
	t.row(c.Key(), nil, c).Counting.Forced = true
}

// Get returns the counting number recorded for the key.
func (t *Table) Get(k Key) Counting {
	if e, ok := t.entries[k]; ok {
		return e.Counting
	}
	return Counting{}
}

// Entries returns all rows in discovery order.
func (t *Table) Entries() []*Entry {
	out := make([]*Entry, len(t.order))
	for i, k := range t.order {
		out[i] = t.entries[k]
	}
	return out
}

// Required returns the rows with nonzero net multiplicity, in discovery order.
func (t *Table) Required() []*Entry {
	var out []*Entry
	for _, k := range t.order {
		if e := t.entries[k]; e.Counting.Required() {
			out = append(out, e)
		}
	}
	return out
}

func (t *Table) row(k Key, v *graph.Variable, c *Cluster) *Entry {
	if e, ok := t.entries[k]; ok {
		return e
	}
	e := &Entry{Variable: v, Cluster: c}
	t.entries[k] = e
	t.order = append(t.order, k)
	return e
}
