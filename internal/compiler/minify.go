package compiler

import (
	"regexp"
	"strings"
)

var (
	interTagSpace = regexp.MustCompile(`>\s+<`)
	spaceRun      = regexp.MustCompile(`\s{2,}`)
)

// Minify flattens an expanded body onto a single line: newlines are removed,
// whitespace between adjacent tags is dropped and other runs of whitespace
// collapse to one space.
func Minify(body string) string {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "\n", "")
	body = interTagSpace.ReplaceAllString(body, "><")
	return spaceRun.ReplaceAllString(body, " ")
}
