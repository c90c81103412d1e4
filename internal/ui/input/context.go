package input

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	Cursor      int
	Count       int
	Suggestions int
	Failed      bool
}

func (c *ModelContext) CurrentIndex() int { return c.Cursor }

func (c *ModelContext) TotalItems() int { return c.Count }

// HasPhoto reports whether the cursor is on a photo
func (c *ModelContext) HasPhoto() bool {
	return c.Cursor >= 0 && c.Cursor < c.Count
}

func (c *ModelContext) HasSuggestions() bool { return c.Suggestions > 0 }

func (c *ModelContext) Errored() bool { return c.Failed }
