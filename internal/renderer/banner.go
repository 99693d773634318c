package renderer

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Version is the editor version shown in the welcome banner.
const Version = "0.0.1"

// bannerPrefix is followed by the version string.
const bannerPrefix = "Pound Editor --- Version "

// Banner returns the welcome text cut to at most columns cells.
func Banner(columns int, version string) string {
	text := bannerPrefix + version
	if columns <= 0 {
		return ""
	}
	return runewidth.Truncate(text, columns, "")
}

// bannerLine returns the full banner row: the banner centered within
// columns, with a leading '~' when there is room for padding.
func bannerLine(columns int, version string) string {
	text := Banner(columns, version)
	padding := (columns - runewidth.StringWidth(text)) / 2
	if padding <= 0 {
		return text
	}

	var sb strings.Builder
	sb.Grow(padding + len(text))
	sb.WriteByte('~')
	sb.WriteString(strings.Repeat(" ", padding-1))
	sb.WriteString(text)
	return sb.String()
}
