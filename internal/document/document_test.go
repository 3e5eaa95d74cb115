package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func TestAssemble(t *testing.T) {
	out, err := Assemble("h1{color:red}", "<h1>Hi</h1>", false)
	require.NoError(t, err)

	want := "<!DOCTYPE html>\n<html>\n<head>\n<style>\nh1{color:red}\n</style>\n</head>\n<body>\n<h1>Hi</h1>\n</body>\n</html>"
	assert.Equal(t, want, out)
}

func TestAssembleWithReset(t *testing.T) {
	out, err := Assemble("p{color:blue}", "<p>x</p>", true)
	require.NoError(t, err)

	assert.Contains(t, out, "<style>\np{color:blue}"+ResetCSS()+"\n</style>")
	assert.True(t, strings.HasPrefix(ResetCSS(), "    body {"))
	assert.True(t, strings.HasSuffix(ResetCSS(), "}"))
}

func TestAssembleKeepsBodyVerbatim(t *testing.T) {
	body := `<a href="/x?a=1&b=2">{props.missing}</a>`
	out, err := Assemble("", body, false)
	require.NoError(t, err)

	assert.Contains(t, out, "<body>\n"+body+"\n</body>")
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		node *html.Node
		want string
	}{
		{
			name: "escapes text",
			node: element(atom.P, text("a < b")),
			want: "<p>a &lt; b</p>",
		},
		{
			name: "raw text element",
			node: element(atom.Script, text("if (a < b) {}")),
			want: "<script>if (a < b) {}</script>",
		},
		{
			name: "nested elements",
			node: element(atom.Head, text("\n"), element(atom.Style, text("a>b{}")), text("\n")),
			want: "<head>\n<style>a>b{}</style>\n</head>",
		},
		{
			name: "raw node",
			node: element(atom.Body, &html.Node{Type: html.RawNode, Data: "<b>&amp;</b>"}),
			want: "<body><b>&amp;</b></body>",
		},
		{
			name: "doctype",
			node: &html.Node{Type: html.DoctypeNode, Data: "html"},
			want: "<!DOCTYPE html>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			require.NoError(t, Render(&b, tt.node))
			assert.Equal(t, tt.want, b.String())
		})
	}
}
