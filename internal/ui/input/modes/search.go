package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"photogrip/internal/ui/input/types"
)

// SearchMode edits the query and drives the suggestion dropdown
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if ctx.HasSuggestions() {
		switch msg.String() {
		case "up", "ctrl+p":
			return []types.Action{types.MoveSuggestionAction{Delta: -1}}, true
		case "down", "ctrl+n":
			return []types.Action{types.MoveSuggestionAction{Delta: 1}}, true
		case "tab", "enter":
			return []types.Action{
				types.AcceptSuggestionAction{},
				types.ChangeModeAction{Mode: types.ModeNormal},
			}, true
		}
	}

	switch msg.String() {
	case "down":
		// leave the search box and continue browsing the results
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "ctrl+u":
		return []types.Action{types.ClearTextAction{}}, true
	}
	return m.TextInputMode.HandleKey(msg, ctx)
}
