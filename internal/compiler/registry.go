package compiler

import (
	"regexp"
	"sort"
)

// Component is a named template with the stylesheet fragment it ships with.
type Component struct {
	Name       string
	SourcePath string
	Template   string
	Style      string
}

// tagPatterns match the three usage forms of one component name.
type tagPatterns struct {
	// <Name attrs>child</Name>
	paired *regexp.Regexp
	// <Name @props={...} />
	propsSelfClosing *regexp.Regexp
	// <Name attrs />
	selfClosing *regexp.Regexp
}

func newTagPatterns(name string) tagPatterns {
	q := regexp.QuoteMeta(name)
	return tagPatterns{
		paired:           regexp.MustCompile(`<` + q + `(\s[^>]*[^/>]|\s)?>([\s\S]*?)</` + q + `>`),
		propsSelfClosing: regexp.MustCompile(`<` + q + `\s+@props=\{([\s\S]*?)\}\s*/>`),
		selfClosing:      regexp.MustCompile(`<` + q + `(\s[^>]*)?/>`),
	}
}

type registryEntry struct {
	component Component
	patterns  tagPatterns
}

// Registry maps component names to components for a single compilation.
// It is not safe for concurrent use.
type Registry struct {
	entries map[string]*registryEntry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registryEntry)}
}

// Register stores c under c.Name, replacing any earlier component with that
// name. It reports whether a component was replaced.
func (r *Registry) Register(c Component) bool {
	_, replaced := r.entries[c.Name]
	r.entries[c.Name] = &registryEntry{
		component: c,
		patterns:  newTagPatterns(c.Name),
	}
	return replaced
}

func (r *Registry) Lookup(name string) (Component, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Component{}, false
	}
	return e.component, true
}

// Names returns registered names in lexicographic order, which is the order
// the expander visits them in.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	return len(r.entries)
}
