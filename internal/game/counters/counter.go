package counters

import (
	"fmt"
	"strings"
)

// Counter is a named count on a card instance.
type Counter struct {
	Name  string
	Count int
}

// NewCounter creates a new counter with the given name and count.
func NewCounter(name string, count int) Counter {
	if count <= 0 {
		count = 1
	}
	return Counter{
		Name:  name,
		Count: count,
	}
}

// Counters is the set of counters on one card instance.
//
// The zero value is an empty, ready to use collection. Entries are kept in
// insertion order so that two identical games render identical logs.
type Counters struct {
	items []Counter
}

// Add adds amount counters of the given type.
func (cs *Counters) Add(ct CounterType, amount int) {
	cs.AddCounter(ct.CreateInstance(amount))
}

// AddCounter adds a counter to the collection.
// If a counter with the same name already exists, adds to its count.
func (cs *Counters) AddCounter(counter Counter) {
	if counter.Count <= 0 {
		return
	}
	for i := range cs.items {
		if cs.items[i].Name == counter.Name {
			cs.items[i].Count += counter.Count
			return
		}
	}
	cs.items = append(cs.items, counter)
}

// Remove removes up to amount counters of the given type.
// Returns true if any counters were removed.
func (cs *Counters) Remove(ct CounterType, amount int) bool {
	return cs.RemoveCounter(string(ct), amount)
}

// RemoveCounter removes the specified amount of counters of the given name.
// Will not allow count to go below 0. Returns true if any counters were removed.
func (cs *Counters) RemoveCounter(name string, amount int) bool {
	if amount <= 0 {
		return false
	}
	for i := range cs.items {
		if cs.items[i].Name != name {
			continue
		}
		cs.items[i].Count -= amount
		if cs.items[i].Count <= 0 {
			cs.items = append(cs.items[:i:i], cs.items[i+1:]...)
		}
		return true
	}
	return false
}

// Get returns the count of counters of the given type.
func (cs *Counters) Get(ct CounterType) int {
	return cs.GetCount(string(ct))
}

// GetCount returns the count of counters with the given name.
func (cs *Counters) GetCount(name string) int {
	for _, c := range cs.items {
		if c.Name == name {
			return c.Count
		}
	}
	return 0
}

// Has returns true if there are any counters of the given type.
func (cs *Counters) Has(ct CounterType) bool {
	return cs.Get(ct) > 0
}

// GetTotalCount returns the total number of all counters.
func (cs *Counters) GetTotalCount() int {
	total := 0
	for _, c := range cs.items {
		total += c.Count
	}
	return total
}

// Clear removes every counter.
func (cs *Counters) Clear() {
	cs.items = nil
}

// Copy creates a deep copy of the collection.
func (cs Counters) Copy() Counters {
	if len(cs.items) == 0 {
		return Counters{}
	}
	items := make([]Counter, len(cs.items))
	copy(items, cs.items)
	return Counters{items: items}
}

// String renders the counters as "name:count" pairs.
func (cs Counters) String() string {
	if len(cs.items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(cs.items))
	for _, c := range cs.items {
		parts = append(parts, fmt.Sprintf("%s:%d", c.Name, c.Count))
	}
	return strings.Join(parts, ",")
}
