package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title              lipgloss.Style
	Dim                lipgloss.Style
	Prompt             lipgloss.Style
	PromptFocused      lipgloss.Style
	Suggestion         lipgloss.Style
	SuggestionSelected lipgloss.Style
	PhotoTitle         lipgloss.Style
	PhotoIndex         lipgloss.Style
	URL                lipgloss.Style
	InfoBox            lipgloss.Style
	Help               lipgloss.Style
	Main               lipgloss.Style
	Scroll             lipgloss.Style
	SelectionBg        lipgloss.Style
	StatusError        lipgloss.Style
	StatusWarning      lipgloss.Style
	StatusLoading      lipgloss.Style
	StatusSuccess      lipgloss.Style
	Empty              lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Dim:                lipgloss.NewStyle().Faint(true),
		Prompt:             lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		PromptFocused:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
		Suggestion:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2),
		SuggestionSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Background(lipgloss.Color("238")).PaddingLeft(2),
		PhotoTitle:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		PhotoIndex:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		URL:                lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Faint(true),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Empty:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
	}
}
