package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"

	"photogrip/internal/domain"
)

// PhotoOps shows photo details outside the main view
type PhotoOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPhotoOps creates a new PhotoOps instance
func NewPhotoOps() *PhotoOps {
	return &PhotoOps{}
}

// SetProgram sets the program reference for terminal management
func (p *PhotoOps) SetProgram(program *tea.Program) {
	p.program = program
}

// PhotoDetails renders everything known about a photo
func PhotoDetails(photo domain.Photo, position, total int, query string) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Width(10)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	urlStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(photo.DisplayTitle()))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	feed := "recent photos"
	if query != "" {
		feed = fmt.Sprintf("search %q", query)
	}
	row("Position", fmt.Sprintf("%d of %d loaded (%s)", position, total, feed))
	row("ID", photo.ID)
	if photo.Owner != "" {
		row("Owner", photo.Owner)
	}
	row("Server", photo.Server)
	if photo.Farm != 0 {
		row("Farm", fmt.Sprintf("%d", photo.Farm))
	}
	row("Secret", photo.Secret)
	b.WriteString("\n")
	row("Image", urlStyle.Render(photo.URL()))
	row("Square", urlStyle.Render(domain.ImageURLSize(photo.Server, photo.ID, photo.Secret, domain.SizeSquare)))
	row("Medium", urlStyle.Render(domain.ImageURLSize(photo.Server, photo.ID, photo.Secret, domain.SizeMedium)))
	row("Large", urlStyle.Render(domain.ImageURLSize(photo.Server, photo.ID, photo.Secret, domain.SizeLarge)))
	if photo.Owner != "" {
		row("Page", urlStyle.Render(domain.PageURL(photo.Owner, photo.ID)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// ShowInPager shows content using the ov pager, taking over the terminal
// until the pager exits
func (p *PhotoOps) ShowInPager(content string) error {
	if p.program == nil {
		return errors.New("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return errors.Wrap(err, "release terminal")
	}
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return errors.Wrap(err, "open pager")
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
