package filter

// Row is the part of an output row filters look at.
type Row struct {
	Target string
	Status string
}

// Filter decides whether a row should be left out of the report.
type Filter interface {
	Name() string
	ShouldFilter(row Row) bool
}

// Chain applies multiple filters in order, short-circuiting on the first match.
type Chain struct {
	filters []Filter
}

// NewChain returns an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add appends a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Apply runs every filter against the row. Returns true and the filter
// name if the row should be filtered out.
func (c *Chain) Apply(row Row) (bool, string) {
	for _, f := range c.filters {
		if f.ShouldFilter(row) {
			return true, f.Name()
		}
	}
	return false, ""
}
