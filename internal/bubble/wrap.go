package bubble

import (
	"strings"

	"golang.org/x/text/width"
)

// Wrap splits text into lines of at most columns display columns. Lines
// break at the last space that fits; a word longer than a line is broken
// hard. East Asian wide characters count as two columns. Explicit newlines
// start a new line.
func Wrap(text string, columns int) []string {
	if columns < 1 {
		columns = 1
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		lines = wrapParagraph(lines, []rune(para), columns)
	}
	return lines
}

func wrapParagraph(lines []string, runes []rune, columns int) []string {
	start := 0
	for start < len(runes) {
		end, used := start, 0
		for end < len(runes) {
			w := runeColumns(runes[end])
			if used+w > columns && end > start {
				break
			}
			used += w
			end++
		}

		if end < len(runes) {
			for i := end; i > start; i-- {
				if runes[i] == ' ' {
					end = i
					break
				}
			}
		}

		lines = append(lines, string(runes[start:end]))
		start = end
		if start < len(runes) && runes[start] == ' ' {
			start++
		}
	}
	return lines
}

func runeColumns(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
