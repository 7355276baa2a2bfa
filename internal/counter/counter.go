// Package counter holds the accumulate-only cells a scan fills in while it walks.
package counter

// Cell is a counter that can only grow. It is not synchronised: a cell belongs to the
// single goroutine running one scan, which mutates it from walker callbacks and reads it
// once the walk is over. A parallel walk would need atomic cells instead.
type Cell struct {
	v uint64
}

// Get returns the current value.
func (c *Cell) Get() uint64 { return c.v }

// Add increases the cell by delta.
func (c *Cell) Add(delta uint64) { c.v += delta }

// Inc adds one.
func (c *Cell) Inc() { c.v++ }
