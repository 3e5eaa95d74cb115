package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"trims", "  <p>x</p>\n", "<p>x</p>"},
		{"joins tags", "<div>\n  <p>x</p>\n</div>", "<div><p>x</p></div>"},
		{"collapses runs", "<p>a    b\t\tc</p>", "<p>a b c</p>"},
		{"single spaces kept", "<p>a b</p> <p>c</p>", "<p>a b</p><p>c</p>"},
		{"newline inside text removed", "<p>a\nb</p>", "<p>ab</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Minify(tt.body))
		})
	}
}
