package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

// SubmitTextAction runs the typed search without waiting for the debounce
type SubmitTextAction struct {
	Text string
}

func (a SubmitTextAction) Type() string { return "submit_text" }

// ClearTextAction empties the search box, going back to the recent feed
type ClearTextAction struct{}

func (a ClearTextAction) Type() string { return "clear_text" }

// Suggestion actions
type MoveSuggestionAction struct {
	Delta int
}

func (a MoveSuggestionAction) Type() string { return "move_suggestion" }

type AcceptSuggestionAction struct{}

func (a AcceptSuggestionAction) Type() string { return "accept_suggestion" }

// Command actions
type OpenPhotoAction struct{}

func (a OpenPhotoAction) Type() string { return "open_photo" }

type ToggleInfoAction struct{}

func (a ToggleInfoAction) Type() string { return "toggle_info" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type RetryAction struct{}

func (a RetryAction) Type() string { return "retry" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
