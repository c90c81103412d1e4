package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"photogrip/internal/domain"
)

// User-facing messages
const (
	MsgNoPhotos   = "No photos are present matching this query"
	MsgError      = "Something went wrong, please try again!"
	MsgRetryHint  = "Press r to retry"
	MsgLoading    = "Loading photos..."
	MsgDegraded   = "suggestions off"
	MaxDropdown   = 5
	searchPrompt  = "Search: "
	titleText     = "photogrip"
	helpHintText  = "Press ? for help"
	defaultWidth  = 80
	defaultHeight = 24
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width            int
	Height           int
	SearchInput      string
	SearchFocused    bool
	Suggestions      []string
	SuggestionIndex  int
	Snapshot         domain.Snapshot
	Cursor           int
	ViewportOffset   int
	ViewportHeight   int
	Spinner          string
	ShowHelp         bool
	HelpScrollOffset int
	ShowInfo         bool
	InfoContent      string
	StatusMessage    string
	StorageDegraded  bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	photoRender *PhotoRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showURLs bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		photoRender: NewPhotoRenderer(styles, showURLs),
		popupRender: NewPopupRenderer(styles),
	}
}

// RowHeight is the number of lines one photo takes
func (r *Renderer) RowHeight() int {
	return r.photoRender.RowHeight()
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.Width <= 0 {
		state.Width = defaultWidth
	}
	if state.Height <= 0 {
		state.Height = defaultHeight
	}

	if state.ShowHelp {
		return r.popupRender.RenderPopup(r.RenderHelpContent(state.Height, state.HelpScrollOffset), state.Height, state.Width, r.styles.InfoBox)
	}
	if state.ShowInfo && state.InfoContent != "" {
		return r.popupRender.RenderPopup(state.InfoContent, state.Height, state.Width, r.styles.InfoBox)
	}

	content := &strings.Builder{}
	content.WriteString(r.renderTitle(state))
	content.WriteString("\n")
	content.WriteString(r.renderSearchBox(state))
	content.WriteString("\n")
	if dropdown := r.renderSuggestions(state); dropdown != "" {
		content.WriteString(dropdown)
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(r.renderMain(state))

	// Push the status and help lines to the bottom
	currentLines := strings.Count(content.String(), "\n") + 1
	availableLines := state.Height - 2
	paddingNeeded := availableLines - currentLines - 2
	if paddingNeeded > 0 {
		content.WriteString(strings.Repeat("\n", paddingNeeded))
	}
	content.WriteString("\n")
	content.WriteString(r.renderStatus(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(helpHintText))

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render(titleText)

	var indicators []string
	snap := state.Snapshot
	if snap.Loading {
		indicators = append(indicators, fmt.Sprintf("%s Loading page %d", state.Spinner, snap.Page))
	}
	if n := len(snap.Results); n > 0 {
		indicators = append(indicators, fmt.Sprintf("%d photos", n))
	}
	if state.StorageDegraded {
		indicators = append(indicators, r.styles.StatusWarning.Render(MsgDegraded))
	}
	if len(indicators) == 0 {
		return logo
	}

	rightContent := r.styles.Dim.Render(strings.Join(indicators, " | "))
	availableWidth := state.Width - 4
	paddingWidth := availableWidth - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + rightContent
	}
	return logo + "  " + rightContent
}

func (r *Renderer) renderSearchBox(state ViewState) string {
	prompt := r.styles.Prompt.Render(searchPrompt)
	if state.SearchFocused {
		prompt = r.styles.PromptFocused.Render(searchPrompt)
	}
	return prompt + state.SearchInput
}

// renderSuggestions shows the dropdown only while the search box has focus
func (r *Renderer) renderSuggestions(state ViewState) string {
	if !state.SearchFocused || len(state.Suggestions) == 0 {
		return ""
	}
	lines := make([]string, 0, MaxDropdown)
	for i, s := range state.Suggestions {
		if i == MaxDropdown {
			break
		}
		if i == state.SuggestionIndex {
			lines = append(lines, r.styles.SuggestionSelected.Render("› "+s))
		} else {
			lines = append(lines, r.styles.Suggestion.Render("  "+s))
		}
	}
	if extra := len(state.Suggestions) - MaxDropdown; extra > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("    +%d more", extra)))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderMain(state ViewState) string {
	snap := state.Snapshot
	switch {
	case snap.EmptyResult():
		return r.styles.Empty.Render(MsgNoPhotos)
	case snap.Errored && len(snap.Results) == 0:
		return r.styles.StatusError.Render(MsgError) + "\n" + r.styles.Dim.Render(MsgRetryHint)
	case len(snap.Results) == 0:
		return r.styles.StatusLoading.Render(state.Spinner + " " + MsgLoading)
	}
	return r.renderPhotoList(state)
}

// renderPhotoList renders the rows inside the viewport with scroll indicators
func (r *Renderer) renderPhotoList(state ViewState) string {
	photos := state.Snapshot.Results
	start := state.ViewportOffset
	if start > len(photos) {
		start = len(photos)
	}
	end := start + state.ViewportHeight
	if end > len(photos) {
		end = len(photos)
	}

	var lines []string
	if start > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", start)))
	}
	for i := start; i < end; i++ {
		lines = append(lines, r.photoRender.RenderPhoto(photos[i], i, i == state.Cursor, state.Width))
	}
	if below := len(photos) - end; below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	}

	snap := state.Snapshot
	switch {
	case snap.Loading:
		lines = append(lines, r.styles.StatusLoading.Render(state.Spinner+" "+MsgLoading))
	case snap.Errored:
		lines = append(lines, r.styles.StatusError.Render(MsgError+" "+MsgRetryHint))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderStatus(state ViewState) string {
	if state.StatusMessage != "" {
		return r.styles.StatusWarning.Render(state.StatusMessage)
	}
	snap := state.Snapshot
	feed := "Recent photos"
	if snap.Query != "" {
		feed = fmt.Sprintf("Results for %q", snap.Query)
	}
	return r.styles.Dim.Render(fmt.Sprintf("%s · page %d · %s", feed, snap.Page, snap.Status))
}
