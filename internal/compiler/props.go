package compiler

import (
	"regexp"
	"sort"
)

// Props binds attribute names to literal values for one component usage.
type Props map[string]string

var propPattern = regexp.MustCompile(`(\w+)\s*=\s*"([^"]*)"`)

// ParseProps reads every name="value" pair from attrs. Later duplicates win.
func ParseProps(attrs string) Props {
	props := Props{}
	for _, m := range propPattern.FindAllStringSubmatch(attrs, -1) {
		props[m[1]] = m[2]
	}
	return props
}

// names returns the prop names in lexicographic order.
func (p Props) names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
