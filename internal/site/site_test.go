package site

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnituy18/elysiumx/internal/compiler"
	"github.com/gnituy18/elysiumx/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newCompiler() *compiler.Compiler {
	return compiler.New(compiler.WithLogger(zerolog.Nop()), compiler.WithResetCSS(false))
}

func TestFindPages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.elx"), "<app>home</app>")
	writeFile(t, filepath.Join(dir, "blog", "post.elx"), "<app>post</app>")
	writeFile(t, filepath.Join(dir, "README.md"), "notes")

	pages, err := FindPages(dir, ".elx", zerolog.Nop())
	require.NoError(t, err)

	var paths []string
	for _, p := range pages {
		paths = append(paths, p.Path)
		assert.Equal(t, filepath.Join(dir, p.Path), p.Source)
	}
	sort.Strings(paths)
	assert.Equal(t, []string{filepath.Join("blog", "post.elx"), "index.elx"}, paths)
}

func TestFindPagesMissingDir(t *testing.T) {
	_, err := FindPages(filepath.Join(t.TempDir(), "nope"), ".elx", zerolog.Nop())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"index.elx", filepath.Join("gen", "index.html")},
		{filepath.Join("blog", "post.elx"), filepath.Join("gen", "blog", "post.html")},
		{"noext", filepath.Join("gen", "noext.html")},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, (&Page{Path: tt.path}).OutputPath("gen"))
		})
	}
}

func TestBuild(t *testing.T) {
	root := t.TempDir()
	pagesDir := filepath.Join(root, "pages")
	genDir := filepath.Join(root, "gen")

	writeFile(t, filepath.Join(root, "components", "card.elx"), "<style>.card{}</style><app><div>{children}</div></app>")
	writeFile(t, filepath.Join(pagesDir, "index.elx"),
		`<import><Card @src="../components/card"/></import><app><Card>home</Card></app>`)
	writeFile(t, filepath.Join(pagesDir, "blog", "post.elx"), `<app><Card>post</Card></app>`)

	pages, err := FindPages(pagesDir, ".elx", zerolog.Nop())
	require.NoError(t, err)

	b := &Builder{Compiler: newCompiler(), Gen: genDir, Jobs: 2, Logger: zerolog.Nop()}
	built, err := b.Build(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, built, 2)

	index, err := os.ReadFile(filepath.Join(genDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<body>\n<div>home</div>\n</body>")
	assert.Contains(t, string(index), ".card{}")

	// the post page never imports Card, so its usage is left alone
	post, err := os.ReadFile(filepath.Join(genDir, "blog", "post.html"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "<Card>post</Card>")
	assert.NotContains(t, string(post), ".card{}")
}

func TestBuildFailure(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pages", "index.elx"), `<import><Card @src="./missing"/></import><app></app>`)

	pages, err := FindPages(filepath.Join(root, "pages"), ".elx", zerolog.Nop())
	require.NoError(t, err)

	b := &Builder{Compiler: newCompiler(), Gen: filepath.Join(root, "gen"), Jobs: 1, Logger: zerolog.Nop()}
	_, err = b.Build(context.Background(), pages)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.html")
	require.NoError(t, WriteOutput(path, "<p>x</p>"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", string(data))

	blocker := filepath.Join(t.TempDir(), "file")
	writeFile(t, blocker, "x")
	err = WriteOutput(filepath.Join(blocker, "out.html"), "x")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))
}
