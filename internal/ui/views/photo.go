package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"photogrip/internal/domain"
)

// PhotoRenderer renders one photo row
type PhotoRenderer struct {
	styles   *Styles
	showURLs bool
}

// NewPhotoRenderer creates a new photo renderer
func NewPhotoRenderer(styles *Styles, showURLs bool) *PhotoRenderer {
	return &PhotoRenderer{
		styles:   styles,
		showURLs: showURLs,
	}
}

// RowHeight is the number of lines RenderPhoto produces
func (r *PhotoRenderer) RowHeight() int {
	if r.showURLs {
		return 2
	}
	return 1
}

// RenderPhoto renders the photo at position index (0-based)
func (r *PhotoRenderer) RenderPhoto(photo domain.Photo, index int, isSelected bool, width int) string {
	if width <= 0 {
		width = 80
	}
	// container padding
	width -= 4

	marker := "  "
	if isSelected {
		marker = "▸ "
	}
	number := r.styles.PhotoIndex.Render(fmt.Sprintf("%4d.", index+1))
	title := ansi.Truncate(photo.DisplayTitle(), width-12, "…")

	titleStyle := r.styles.PhotoTitle
	if isSelected {
		titleStyle = titleStyle.Inherit(r.styles.SelectionBg).Bold(true)
	}
	line := marker + number + " " + titleStyle.Render(title)

	if !r.showURLs {
		return line
	}
	url := ansi.Truncate(photo.URL(), width-8, "…")
	return line + "\n" + strings.Repeat(" ", 8) + r.styles.URL.Render(url)
}
