package stats

import "sort"

// Mode is the most frequent value of a column and how often it occurred.
type Mode[T comparable] struct {
	Value T   `json:"value"`
	Count int `json:"count"`
}

// Count is one entry of a frequency table.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// counter tallies values, remembering the order they were first seen in.
type counter[K comparable] struct {
	order  []K
	counts map[K]int
}

func newCounter[K comparable]() *counter[K] {
	return &counter[K]{counts: map[K]int{}}
}

func (c *counter[K]) add(k K) {
	if _, ok := c.counts[k]; !ok {
		c.order = append(c.order, k)
	}
	c.counts[k]++
}

// mode returns the most frequent value. Among equal counts the first seen wins.
func (c *counter[K]) mode() (Mode[K], bool) {
	var best Mode[K]
	for _, k := range c.order {
		if n := c.counts[k]; n > best.Count {
			best = Mode[K]{Value: k, Count: n}
		}
	}
	return best, best.Count > 0
}

// sorted returns every value by descending count, ties in first seen order.
func (c *counter[K]) sorted(key func(K) string) []Count {
	out := make([]Count, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, Count{Value: key(k), Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
