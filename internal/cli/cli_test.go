package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnituy18/elysiumx/internal/document"
	"github.com/gnituy18/elysiumx/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func newSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.elx"), `<style>h1{color:red}</style>
<import>
  <Card @src="./card" />
</import>
<app>
  <Card title="Hi">x</Card>
</app>`)
	writeFile(t, filepath.Join(dir, "card.elx"), "<style>p{color:blue}</style><app><h1>{props.title}</h1><p>{children}</p></app>")
	return dir
}

func TestBuildToFile(t *testing.T) {
	dir := newSite(t)
	out := filepath.Join(dir, "out", "index.html")

	_, err := run(t, "build", filepath.Join(dir, "index.elx"), out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<style>\nh1{color:red}\np{color:blue}\n"+document.ResetCSS()+"\n</style>")
	assert.Contains(t, html, "<body>\n<h1>Hi</h1><p>x</p>\n</body>")
}

func TestBuildToStdout(t *testing.T) {
	dir := newSite(t)

	stdout, err := run(t, "build", "--reset-css=false", filepath.Join(dir, "index.elx"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "<!DOCTYPE html>")
	assert.NotContains(t, stdout, "box-sizing")
}

func TestBuildMissingInput(t *testing.T) {
	_, err := run(t, "build", filepath.Join(t.TempDir(), "missing.elx"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIO))
}

func TestBuildExpansionLimitFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.elx"), `<import><Self @src="./self"/></import><app><Self></Self></app>`)
	writeFile(t, filepath.Join(dir, "self.elx"), "<app><b><Self></Self></b></app>")

	_, err := run(t, "build", "--max-passes", "2", filepath.Join(dir, "index.elx"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrExpansionLimit))
}

func TestBuildPages(t *testing.T) {
	root := t.TempDir()
	pages := filepath.Join(root, "pages")
	gen := filepath.Join(root, "gen")
	writeFile(t, filepath.Join(root, "components", "card.elx"), "<app><div>{children}</div></app>")
	writeFile(t, filepath.Join(pages, "index.elx"), `<import><Card @src="../components/card"/></import><app><Card>home</Card></app>`)
	writeFile(t, filepath.Join(pages, "about", "team.elx"), `<app><p>team</p></app>`)

	_, err := run(t, "build", "--pages", pages, "--gen", gen, "--jobs", "2")
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(gen, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<div>home</div>")

	team, err := os.ReadFile(filepath.Join(gen, "about", "team.html"))
	require.NoError(t, err)
	assert.Contains(t, string(team), "<p>team</p>")
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	dir := newSite(t)

	_, err := run(t, "build", "--extension", "elx", filepath.Join(dir, "index.elx"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestBuildWithConfigFile(t *testing.T) {
	dir := newSite(t)
	cfgPath := filepath.Join(dir, "elx.yaml")
	writeFile(t, cfgPath, "output:\n  minify: false\n  reset_css: false\n")

	stdout, err := run(t, "--config", cfgPath, "build", filepath.Join(dir, "index.elx"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "<body>\n  <h1>Hi</h1><p>x</p>\n\n\n</body>")
}

func TestConfigCommand(t *testing.T) {
	stdout, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[expand]")
	assert.Contains(t, stdout, "max_passes = 100")
}

func TestVersionCommand(t *testing.T) {
	stdout, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "elx version dev")
}

func TestWatchArgs(t *testing.T) {
	_, err := run(t, "watch", "only-input.elx")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
