// Package site finds pages under a pages directory and compiles each one into
// the matching path under a gen directory.
package site

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gnituy18/elysiumx/internal/compiler"
	"github.com/gnituy18/elysiumx/internal/errors"
)

// Page is one entry file found under the pages directory.
type Page struct {
	// Path is relative to the pages directory.
	Path string
	// Source is the path the compiler reads.
	Source string
}

// FindPages walks dirPages and returns every file with extension ext.
func FindPages(dirPages, ext string, logger zerolog.Logger) ([]*Page, error) {
	pages := []*Page{}
	err := filepath.WalkDir(dirPages, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(dirPages, path)
		if err != nil {
			return err
		}

		if filepath.Ext(path) != ext {
			logger.Info().Str("path", path).Msg("Skip non-page file")
			return nil
		}

		pages = append(pages, &Page{Path: relPath, Source: path})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIO, "failed to read pages directory: %s", dirPages).WithDetail("path", dirPages)
	}
	return pages, nil
}

// OutputPath mirrors the page's relative path into dirGen with an .html
// extension.
func (p *Page) OutputPath(dirGen string) string {
	relDir, file := filepath.Split(p.Path)
	name := strings.TrimSuffix(file, filepath.Ext(file))
	return filepath.Join(dirGen, relDir, name+".html")
}

// Built is the outcome of compiling one page.
type Built struct {
	Page   *Page
	Output string
	Result *compiler.Result
}

// Builder compiles pages concurrently. Every page gets its own compilation,
// so pages never see each other's components or styles.
type Builder struct {
	Compiler *compiler.Compiler
	Gen      string
	Jobs     int
	Logger   zerolog.Logger
}

// Build compiles and writes every page. The first failure cancels pages that
// have not started yet and is returned.
func (b *Builder) Build(ctx context.Context, pages []*Page) ([]Built, error) {
	built := make([]Built, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	if b.Jobs > 0 {
		g.SetLimit(b.Jobs)
	}

	for i, page := range pages {
		i, page := i, page
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := b.Compiler.CompileFile(page.Source)
			if err != nil {
				return err
			}

			out := page.OutputPath(b.Gen)
			if err := WriteOutput(out, res.HTML); err != nil {
				return err
			}

			b.Logger.Info().Str("page", page.Path).Str("output", out).Msg("Built page")
			built[i] = Built{Page: page, Output: out, Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return built, nil
}

// WriteOutput writes html to path, creating parent directories.
func WriteOutput(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create directory for %s", path).WithDetail("path", path)
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path).WithDetail("path", path)
	}
	return nil
}
