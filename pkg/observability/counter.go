package observability

import (
	"slices"
	"sync"
)

// TemplateStats is one row of a [TemplateCounter] snapshot.
type TemplateStats struct {
	Name    string `json:"name"`
	Tries   int    `json:"tries"`
	Accepts int    `json:"accepts"`
	Chosen  int    `json:"chosen"`
}

// AcceptRate returns Accepts/Tries, or 0 when the template was never tried.
func (s TemplateStats) AcceptRate() float64 {
	if s.Tries == 0 {
		return 0
	}
	return float64(s.Accepts) / float64(s.Tries)
}

// TemplateCounter tallies template events. It is safe for concurrent use so
// one counter can observe a parallel batch.
type TemplateCounter struct {
	mu    sync.Mutex
	stats map[string]*TemplateStats
}

// NewTemplateCounter returns an empty counter.
func NewTemplateCounter() *TemplateCounter {
	return &TemplateCounter{stats: make(map[string]*TemplateStats)}
}

func (c *TemplateCounter) row(name string) *TemplateStats {
	s, ok := c.stats[name]
	if !ok {
		s = &TemplateStats{Name: name}
		c.stats[name] = s
	}
	return s
}

func (c *TemplateCounter) OnTemplateTry(name string) {
	c.mu.Lock()
	c.row(name).Tries++
	c.mu.Unlock()
}

func (c *TemplateCounter) OnTemplateAccept(name string) {
	c.mu.Lock()
	c.row(name).Accepts++
	c.mu.Unlock()
}

func (c *TemplateCounter) OnTemplateChoose(name string) {
	c.mu.Lock()
	c.row(name).Chosen++
	c.mu.Unlock()
}

// Snapshot returns a copy of all rows sorted by name.
func (c *TemplateCounter) Snapshot() []TemplateStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TemplateStats, 0, len(c.stats))
	for _, s := range c.stats {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b TemplateStats) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// Reset clears all counts.
func (c *TemplateCounter) Reset() {
	c.mu.Lock()
	clear(c.stats)
	c.mu.Unlock()
}
