package site

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// BuildFunc compiles and reports the files the output depends on. It should
// return the files to watch even when it fails.
type BuildFunc func() (sources []string, err error)

// Watcher reruns a build whenever one of its source files changes.
type Watcher struct {
	Debounce time.Duration
	Logger   zerolog.Logger
	// Roots are directories watched recursively. Any file created, written,
	// renamed or removed below a root triggers a build, so new pages are
	// picked up even when the last build failed to list them.
	Roots []string
	// OnBuild, when set, is called after every build once the watch set has
	// been updated.
	OnBuild func(sources []string, err error)
}

// Run builds once, then again after each burst of changes to the sources,
// until ctx is done. Build failures are logged and do not stop watching.
func (w *Watcher) Run(ctx context.Context, build BuildFunc) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	files := map[string]bool{}
	dirs := map[string]bool{}

	rebuild := func() {
		sources, err := build()
		if err != nil {
			w.Logger.Error().Err(err).Msg("Build failed")
		}

		for _, src := range sources {
			abs, absErr := filepath.Abs(src)
			if absErr != nil {
				continue
			}
			files[abs] = true

			dir := filepath.Dir(abs)
			if dirs[dir] {
				continue
			}
			if addErr := fw.Add(dir); addErr != nil {
				w.Logger.Warn().Err(addErr).Str("dir", dir).Msg("Cannot watch directory")
				continue
			}
			dirs[dir] = true
		}

		if w.OnBuild != nil {
			w.OnBuild(sources, err)
		}
	}

	addTree := func(root string) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			if dirs[abs] {
				return nil
			}
			if err := fw.Add(abs); err != nil {
				return err
			}
			dirs[abs] = true
			return nil
		})
		if err != nil {
			w.Logger.Warn().Err(err).Str("dir", root).Msg("Cannot watch directory")
		}
	}

	roots := make([]string, 0, len(w.Roots))
	for _, root := range w.Roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			w.Logger.Warn().Err(err).Str("dir", root).Msg("Cannot watch directory")
			continue
		}
		roots = append(roots, abs)
		addTree(abs)
	}

	underRoot := func(path string) bool {
		for _, root := range roots {
			if rel, err := filepath.Rel(root, path); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	rebuild()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(ev.Name)
			switch {
			case underRoot(abs):
				if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if ev.Has(fsnotify.Create) {
					if info, err := os.Stat(abs); err == nil && info.IsDir() {
						addTree(abs)
					}
				}
			case files[abs]:
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
			default:
				continue
			}
			w.Logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("Source changed")

			if timer == nil {
				timer = time.NewTimer(w.Debounce)
			} else {
				timer.Reset(w.Debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn().Err(err).Msg("Watch error")

		case <-fire:
			fire = nil
			rebuild()
		}
	}
}
