// Package document assembles the final HTML page around an expanded body.
package document

import (
	_ "embed"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed reset.css
var resetCSS string

// ResetCSS returns the default stylesheet appended after the aggregated styles.
func ResetCSS() string {
	return resetCSS
}

// New builds the document tree: one <style> block in <head> holding styles
// (and the reset stylesheet when withReset is set) and body inserted verbatim
// into <body>.
func New(styles, body string, withReset bool) *html.Node {
	css := styles
	if withReset {
		css += resetCSS
	}

	style := element(atom.Style, text("\n"+css+"\n"))
	head := element(atom.Head, text("\n"), style, text("\n"))
	bodyNode := element(atom.Body, &html.Node{Type: html.RawNode, Data: "\n" + body + "\n"})
	root := element(atom.Html, text("\n"), head, text("\n"), bodyNode, text("\n"))

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(text("\n"))
	doc.AppendChild(root)
	return doc
}

// Assemble renders the document built by New to a string.
func Assemble(styles, body string, withReset bool) (string, error) {
	var b strings.Builder
	if err := Render(&b, New(styles, body, withReset)); err != nil {
		return "", err
	}
	return b.String(), nil
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// Render writes node and its descendants to w. It handles the node kinds New
// builds: document, doctype, raw, text and attribute-less elements. Raw nodes
// and the text of raw-text elements such as <style> are written without
// escaping.
func Render(w io.StringWriter, node *html.Node) error {
	switch node.Type {
	case html.DocumentNode:
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if err := Render(w, c); err != nil {
				return err
			}
		}

	case html.DoctypeNode:
		if _, err := w.WriteString("<!DOCTYPE " + node.Data + ">"); err != nil {
			return err
		}

	case html.RawNode:
		if _, err := w.WriteString(node.Data); err != nil {
			return err
		}

	case html.TextNode:
		if _, err := w.WriteString(html.EscapeString(node.Data)); err != nil {
			return err
		}

	case html.ElementNode:
		if _, err := w.WriteString("<" + node.Data + ">"); err != nil {
			return err
		}

		// https://html.spec.whatwg.org/#parsing-html-fragments
		rawText := isChildNodeRawText(node.Data)
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if rawText {
				if c.Type != html.TextNode {
					continue
				}
				if _, err := w.WriteString(c.Data); err != nil {
					return err
				}
				continue
			}
			if err := Render(w, c); err != nil {
				return err
			}
		}

		if _, err := w.WriteString("</" + node.Data + ">"); err != nil {
			return err
		}
	}

	return nil
}

// https://html.spec.whatwg.org/#parsing-html-fragments
func isChildNodeRawText(name string) bool {
	switch name {
	case "title", "textarea", "style", "xmp", "iframe", "noembed", "noframes", "script", "noscript":
		return true
	}
	return false
}
