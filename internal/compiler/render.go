package compiler

import (
	"regexp"
	"strings"
)

const childrenPlaceholder = "{children}"

var (
	dynamicAttrPattern = regexp.MustCompile(`(\w+)=\{([^}]+)\}`)

	// "literal" + props.name
	concatExprPattern = regexp.MustCompile(`^\s*"([^"]*)"\s*\+\s*props\.(\w+)\s*$`)
	// props.name
	propRefExprPattern = regexp.MustCompile(`^\s*props\.(\w+)\s*$`)
)

// Render instantiates a component template. Children replace {children} when
// non-empty, attr={...} bindings are resolved against props, then every
// {props.name} placeholder with a matching prop is substituted.
func Render(template string, props Props, children string) string {
	rendered := template
	if children != "" {
		rendered = strings.ReplaceAll(rendered, childrenPlaceholder, children)
	}

	rendered = bindDynamicAttrs(rendered, props)

	for _, name := range props.names() {
		rendered = strings.ReplaceAll(rendered, "{props."+name+"}", props[name])
	}
	return rendered
}

// bindDynamicAttrs rewrites attr={expr} bindings. A binding to an absent prop
// is dropped; an expression of any other shape is left as written.
func bindDynamicAttrs(text string, props Props) string {
	matches := dynamicAttrPattern.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		last = m[1]

		attr, expr := text[m[2]:m[3]], text[m[4]:m[5]]
		literal, propName, ok := classifyExpr(expr)
		if !ok {
			b.WriteString(text[m[0]:m[1]])
			continue
		}
		if value, found := props[propName]; found {
			b.WriteString(attr)
			b.WriteString(`="`)
			b.WriteString(literal)
			b.WriteString(value)
			b.WriteString(`"`)
		}
	}
	b.WriteString(text[last:])
	return b.String()
}

func classifyExpr(expr string) (literal, propName string, ok bool) {
	if m := concatExprPattern.FindStringSubmatch(expr); m != nil {
		return m[1], m[2], true
	}
	if m := propRefExprPattern.FindStringSubmatch(expr); m != nil {
		return "", m[1], true
	}
	return "", "", false
}
