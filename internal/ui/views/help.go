package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Navigation", []helpEntry{
		{"↑/↓, j/k", "Move between photos"},
		{"PgUp/PgDn", "Page up/down"},
		{"gg/G", "Go to top/bottom"},
	}},
	{"Search", []helpEntry{
		{"/, s", "Focus the search box"},
		{"↑/↓", "Pick a suggestion"},
		{"Tab, Enter", "Use the picked suggestion"},
		{"Enter", "Search now"},
		{"Ctrl+U", "Clear the search, back to recent photos"},
		{"Esc", "Leave the search box"},
	}},
	{"Photos", []helpEntry{
		{"Enter", "Open photo details in the pager"},
		{"i", "Show photo info"},
		{"r", "Retry after an error"},
	}},
	{"Other", []helpEntry{
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}},
}

// RenderHelpContentPlain renders the full help, used by the pager
func (r *Renderer) RenderHelpContentPlain() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render("photogrip Help"))
	help.WriteString("\n")

	for i, section := range helpSections {
		help.WriteString(sectionStyle.Render(section.title))
		help.WriteString("\n")
		for j, e := range section.entries {
			help.WriteString(fmt.Sprintf("  %s %s", keyStyle.Render(e.keys), descStyle.Render(e.desc)))
			if i < len(helpSections)-1 || j < len(section.entries)-1 {
				help.WriteString("\n")
			}
		}
	}
	return help.String()
}

// RenderHelpContent renders the help window of the given height, scrolled
// by scrollOffset lines
func (r *Renderer) RenderHelpContent(height int, scrollOffset int) string {
	lines := strings.Split(r.RenderHelpContentPlain(), "\n")
	totalLines := len(lines)

	// Account for popup border and padding
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	if totalLines <= visibleHeight {
		return strings.Join(lines, "\n")
	}

	maxOffset := totalLines - visibleHeight
	if scrollOffset > maxOffset {
		scrollOffset = maxOffset
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	endLine := scrollOffset + visibleHeight
	visible := lines[scrollOffset:endLine]

	if scrollOffset > 0 {
		visible[0] = r.styles.Scroll.Render("↑ (more above)")
	}
	if endLine < totalLines {
		visible[len(visible)-1] = r.styles.Scroll.Render("↓ (more below)")
	}
	return strings.Join(visible, "\n")
}
