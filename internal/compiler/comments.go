package compiler

import "strings"

const (
	lineComment        = "//"
	blockCommentOpen   = "/*"
	blockCommentClose  = "*/"
	markupCommentOpen  = "<!--"
	markupCommentClose = "-->"
)

type commentMode int

const (
	modeCode commentMode = iota
	modeBlock
	modeMarkup
)

// StripComments removes line, block and markup comments from text.
// Block and markup comments may span lines. Lines left empty are dropped and
// every kept line ends with a newline.
func StripComments(text string) string {
	var out strings.Builder
	mode := modeCode

	for _, line := range splitLines(text) {
		var kept strings.Builder
		pos := 0

	scan:
		for pos < len(line) {
			switch mode {
			case modeBlock, modeMarkup:
				closer := blockCommentClose
				if mode == modeMarkup {
					closer = markupCommentClose
				}
				end := strings.Index(line[pos:], closer)
				if end < 0 {
					break scan
				}
				pos += end + len(closer)
				mode = modeCode

			default:
				idx, marker := nearestCommentMarker(line[pos:])
				if idx < 0 {
					kept.WriteString(line[pos:])
					break scan
				}
				kept.WriteString(line[pos : pos+idx])
				switch marker {
				case lineComment:
					break scan
				case blockCommentOpen:
					mode = modeBlock
				case markupCommentOpen:
					mode = modeMarkup
				}
				pos += idx + len(marker)
			}
		}

		if kept.Len() > 0 {
			out.WriteString(kept.String())
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// nearestCommentMarker returns the offset and text of the first comment opener
// in s. A line comment wins ties.
func nearestCommentMarker(s string) (int, string) {
	idx, marker := -1, ""
	for _, m := range []string{lineComment, blockCommentOpen, markupCommentOpen} {
		i := strings.Index(s, m)
		if i >= 0 && (idx < 0 || i < idx) {
			idx, marker = i, m
		}
	}
	return idx, marker
}

// splitLines splits on '\n' without producing a trailing empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
