package compiler

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gnituy18/elysiumx/internal/errors"
)

const (
	DefaultMaxPasses = 100
	DefaultMaxBytes  = 16 << 20
)

// Limits bound an expansion so that self-referencing components fail instead
// of growing the document forever.
type Limits struct {
	MaxPasses int
	MaxBytes  int
}

func (l Limits) withDefaults() Limits {
	if l.MaxPasses <= 0 {
		l.MaxPasses = DefaultMaxPasses
	}
	if l.MaxBytes <= 0 {
		l.MaxBytes = DefaultMaxBytes
	}
	return l
}

// Expansion is the outcome of rewriting a body to its fixed point.
type Expansion struct {
	Body          string
	Passes        int
	Substitutions int
}

// Expander rewrites component tags in a document body until no registered
// tag is left.
type Expander struct {
	registry *Registry
	limits   Limits
	logger   zerolog.Logger
}

func NewExpander(registry *Registry, limits Limits, logger zerolog.Logger) *Expander {
	return &Expander{
		registry: registry,
		limits:   limits.withDefaults(),
		logger:   logger,
	}
}

// Expand runs passes over body. Each pass visits every component in name
// order and applies the paired form, then the @props form, then the plain
// self-closing form, feeding each result into the next. Expansion stops after
// the first pass that substitutes nothing.
//
// MaxPasses bounds the passes that substitute; the final pass that confirms
// the fixed point is not counted. MaxBytes is enforced while a substitution
// is being written, so the body never grows far past it.
func (e *Expander) Expand(body string) (Expansion, error) {
	names := e.registry.Names()
	result := Expansion{Body: body}

	for {
		result.Passes++
		substituted := 0

		for _, name := range names {
			entry := e.registry.entries[name]
			tpl := entry.component.Template

			forms := []struct {
				pattern *regexp.Regexp
				render  func(groups func(int) string) string
			}{
				{entry.patterns.paired, func(groups func(int) string) string {
					return Render(tpl, ParseProps(groups(1)), groups(2))
				}},
				{entry.patterns.propsSelfClosing, func(groups func(int) string) string {
					return Render(tpl, ParseProps(groups(1)), "")
				}},
				{entry.patterns.selfClosing, func(groups func(int) string) string {
					return Render(tpl, ParseProps(groups(1)), "")
				}},
			}

			for _, form := range forms {
				out, n, size, ok := e.substitute(result.Body, name, form.pattern, form.render)
				if !ok {
					result.Substitutions += substituted
					return result, errors.Newf(errors.ErrExpansionLimit,
						"expanded document exceeds %d bytes during pass %d while expanding %s",
						e.limits.MaxBytes, result.Passes, name).
						WithDetail("passes", result.Passes).
						WithDetail("bytes", size).
						WithDetail("limit", e.limits.MaxBytes).
						WithDetail("component", name)
				}
				result.Body = out
				substituted += n
			}
		}

		result.Substitutions += substituted
		e.logger.Debug().
			Int("pass", result.Passes).
			Int("substitutions", substituted).
			Int("bytes", len(result.Body)).
			Msg("Expansion pass")

		if substituted == 0 {
			return result, nil
		}
		if result.Passes > e.limits.MaxPasses {
			return result, errors.Newf(errors.ErrExpansionLimit,
				"expansion still substituting after %d passes, components are nested deeper than the limit or reference themselves",
				e.limits.MaxPasses).
				WithDetail("passes", result.Passes).
				WithDetail("bytes", len(result.Body)).
				WithDetail("limit", e.limits.MaxPasses)
		}
	}
}

// substitute replaces every leftmost non-overlapping match of p in text with
// the output of render and returns the new text and the number of matches.
// It gives up as soon as the text written so far exceeds MaxBytes, returning
// ok false and the size reached; text is then left unchanged.
func (e *Expander) substitute(text, name string, p *regexp.Regexp, render func(groups func(int) string) string) (out string, n, size int, ok bool) {
	matches := p.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text, 0, len(text), true
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		groups := func(i int) string {
			if 2*i+1 >= len(m) || m[2*i] < 0 {
				return ""
			}
			return text[m[2*i]:m[2*i+1]]
		}
		b.WriteString(render(groups))
		last = m[1]

		if b.Len() > e.limits.MaxBytes {
			return text, 0, b.Len(), false
		}
		e.logger.Trace().Str("component", name).Int("offset", m[0]).Msg("Substituted component")
	}
	b.WriteString(text[last:])
	if b.Len() > e.limits.MaxBytes {
		return text, 0, b.Len(), false
	}
	return b.String(), len(matches), b.Len(), true
}
