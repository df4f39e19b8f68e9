package service

// orderedCounter accumulates per-key counts while remembering first-seen
// order, so iteration over the accumulated keys is deterministic. Keys are
// registered explicitly on first increment rather than relying on an
// auto-defaulting container.
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

// Inc adds one to the key's count, registering the key on first sight.
func (c *orderedCounter) Inc(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Count returns the key's count, zero if never incremented.
func (c *orderedCounter) Count(key string) int {
	return c.counts[key]
}

// Keys returns all keys in first-seen order.
func (c *orderedCounter) Keys() []string {
	return c.order
}

// Len returns the number of distinct keys.
func (c *orderedCounter) Len() int {
	return len(c.order)
}

// Peak returns the key with the highest count; ties go to the key seen
// first. Returns ("", 0) when the counter is empty.
func (c *orderedCounter) Peak() (string, int) {
	var peakKey string
	peakCount := 0
	for _, key := range c.order {
		if c.counts[key] > peakCount {
			peakKey = key
			peakCount = c.counts[key]
		}
	}
	return peakKey, peakCount
}
