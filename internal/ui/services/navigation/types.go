package navigation

// State holds all navigation-related state. Heights and offsets are
// counted in photo rows, not terminal lines.
type State struct {
	Cursor         int
	ViewportOffset int
	ViewportHeight int
	Count          int
}

// Direction represents movement directions
type Direction string

const (
	DirectionUp       Direction = "up"
	DirectionDown     Direction = "down"
	DirectionPageUp   Direction = "pageup"
	DirectionPageDown Direction = "pagedown"
	DirectionHome     Direction = "home"
	DirectionEnd      Direction = "end"
)

// ReservedLines is the chrome around the photo list: search box,
// suggestions, status bar and help line.
const ReservedLines = 8

// DefaultRowHeight is the number of lines one photo row occupies
const DefaultRowHeight = 2
