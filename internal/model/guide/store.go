package guide

// Catalog exposes the static page content to handlers and the renderer.
type Catalog interface {
	Page() Page
	Panels() []Panel
	Suggestions() []string
	Suggestion(index int) (string, bool)
}

// MemoryCatalog implements Catalog with in-memory slices.
type MemoryCatalog struct {
	page        Page
	panels      []Panel
	suggestions []string
}

// NewMemoryCatalog returns a MemoryCatalog preloaded with the supplied content.
func NewMemoryCatalog(page Page, panels []Panel, suggestions []string) *MemoryCatalog {
	return &MemoryCatalog{
		page:        page,
		panels:      append([]Panel(nil), panels...),
		suggestions: append([]string(nil), suggestions...),
	}
}

// Seed returns the catalog shipped with the service.
func Seed() *MemoryCatalog {
	return NewMemoryCatalog(SeedPage(), SeedPanels(), SeedSuggestions())
}

// Page returns the page copy.
func (c *MemoryCatalog) Page() Page {
	return c.page
}

// Panels returns the informational panels.
func (c *MemoryCatalog) Panels() []Panel {
	return append([]Panel(nil), c.panels...)
}

// Suggestions returns the quick-suggestion questions in display order.
func (c *MemoryCatalog) Suggestions() []string {
	return append([]string(nil), c.suggestions...)
}

// Suggestion looks up a quick suggestion by its position.
func (c *MemoryCatalog) Suggestion(index int) (string, bool) {
	if index < 0 || index >= len(c.suggestions) {
		return "", false
	}
	return c.suggestions[index], true
}
