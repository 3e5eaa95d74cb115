package compiler

import (
	"regexp"
	"sync"
)

// Section names understood in a source file.
const (
	SectionImport = "import"
	SectionStyle  = "style"
	SectionApp    = "app"
)

var sectionPatterns sync.Map

func sectionPattern(name string) *regexp.Regexp {
	if p, ok := sectionPatterns.Load(name); ok {
		return p.(*regexp.Regexp)
	}
	q := regexp.QuoteMeta(name)
	p := regexp.MustCompile(`<` + q + `(?:\s[^>]*)?>([\s\S]*?)</` + q + `>`)
	actual, _ := sectionPatterns.LoadOrStore(name, p)
	return actual.(*regexp.Regexp)
}

// ExtractSection returns the inner text of the first <name>...</name> pair in
// text, or "" when there is none. Attributes on the opening tag are ignored.
func ExtractSection(text, name string) string {
	m := sectionPattern(name).FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}
