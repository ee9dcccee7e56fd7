package models

// GroupedEntries maps tag names to pages while remembering the order in which tags were first seen.
// The zero value is an empty grouping.
type GroupedEntries struct {
	entries map[string][]Page
	keys    []string
}

// NewGroupedEntries returns an empty grouping.
func NewGroupedEntries() *GroupedEntries {
	return &GroupedEntries{entries: make(map[string][]Page)}
}

// Add appends page to the group for tag, creating the group on first use.
func (g *GroupedEntries) Add(tag string, page Page) {
	if g.entries == nil {
		g.entries = make(map[string][]Page)
	}

	if _, ok := g.entries[tag]; !ok {
		g.keys = append(g.keys, tag)
	}

	g.entries[tag] = append(g.entries[tag], page)
}

// Tags returns group keys in first-encounter order.
func (g *GroupedEntries) Tags() []string {
	out := make([]string, len(g.keys))
	copy(out, g.keys)

	return out
}

// Entries returns the pages grouped under tag.
func (g *GroupedEntries) Entries(tag string) []Page {
	return g.entries[tag]
}

// Len returns the number of groups.
func (g *GroupedEntries) Len() int {
	return len(g.keys)
}

// Total returns the number of pages across all groups.
func (g *GroupedEntries) Total() int {
	n := 0
	for _, pages := range g.entries {
		n += len(pages)
	}

	return n
}
