package navigation

// Service moves a cursor over the rendered photo rows and keeps it inside
// the viewport
type Service struct {
	state     *State
	rowHeight int
	countFn   func() int
}

// NewService creates a new navigation service
func NewService() *Service {
	return &Service{
		state: &State{
			ViewportHeight: 5, // updated on the first resize
		},
		rowHeight: DefaultRowHeight,
	}
}

// SetCountFunction sets the function reporting how many rows exist
func (s *Service) SetCountFunction(fn func() int) {
	s.countFn = fn
}

// SetRowHeight sets the number of lines one row takes
func (s *Service) SetRowHeight(lines int) {
	if lines < 1 {
		lines = 1
	}
	s.rowHeight = lines
}

// GetCursor returns current cursor position
func (s *Service) GetCursor() int {
	return s.state.Cursor
}

// GetViewportOffset returns the first visible row
func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

// GetViewportHeight returns how many rows fit on screen
func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight updates the viewport from the terminal height in lines
func (s *Service) SetViewportHeight(height int) {
	rows := (height - ReservedLines) / s.rowHeight
	if rows < 1 {
		rows = 1
	}
	s.state.ViewportHeight = rows
	s.ensureVisible()
}

// VisibleRange returns the half-open range of rows on screen
func (s *Service) VisibleRange() (start, end int) {
	s.refresh()
	start = s.state.ViewportOffset
	end = start + s.state.ViewportHeight
	if end > s.state.Count {
		end = s.state.Count
	}
	if start > end {
		start = end
	}
	return start, end
}

// IsVisible reports whether row index is on screen
func (s *Service) IsVisible(index int) bool {
	start, end := s.VisibleRange()
	return index >= start && index < end
}

// Navigate handles navigation in a direction. Returns whether the cursor moved.
func (s *Service) Navigate(direction Direction) bool {
	s.refresh()
	oldCursor := s.state.Cursor

	switch direction {
	case DirectionUp:
		s.state.Cursor--
	case DirectionDown:
		s.state.Cursor++
	case DirectionPageUp:
		s.state.Cursor -= s.state.ViewportHeight
	case DirectionPageDown:
		s.state.Cursor += s.state.ViewportHeight
	case DirectionHome:
		s.state.Cursor = 0
	case DirectionEnd:
		s.state.Cursor = s.state.Count - 1
	}
	s.state.Cursor = s.clampIndex(s.state.Cursor)
	s.ensureVisible()

	return oldCursor != s.state.Cursor
}

// MoveToIndex moves cursor to specific index
func (s *Service) MoveToIndex(index int) {
	s.refresh()
	s.state.Cursor = s.clampIndex(index)
	s.ensureVisible()
}

// Reset moves back to the top, used when the result list is replaced
func (s *Service) Reset() {
	s.state.Cursor = 0
	s.state.ViewportOffset = 0
}

func (s *Service) refresh() {
	if s.countFn != nil {
		s.state.Count = s.countFn()
	}
}

func (s *Service) clampIndex(index int) int {
	if index >= s.state.Count {
		index = s.state.Count - 1
	}
	if index < 0 {
		return 0
	}
	return index
}

func (s *Service) ensureVisible() {
	if s.state.Cursor < s.state.ViewportOffset {
		s.state.ViewportOffset = s.state.Cursor
	} else if s.state.Cursor >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = s.state.Cursor - s.state.ViewportHeight + 1
	}
}
