package composer

import (
	"strings"

	"golang.org/x/image/font"
)

// WrapText greedily splits text into lines whose rendered width stays within
// maxWidth pixels. A word whose own width exceeds maxWidth is kept on a line
// of its own rather than split. Joining the returned lines with single spaces
// reconstructs the whitespace-normalized input.
func WrapText(face font.Face, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if font.MeasureString(face, candidate).Ceil() <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
