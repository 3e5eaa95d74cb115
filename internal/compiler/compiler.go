// Package compiler turns an .elx entry file and the components it imports
// into a single HTML document.
package compiler

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gnituy18/elysiumx/internal/document"
	"github.com/gnituy18/elysiumx/internal/errors"
	"github.com/gnituy18/elysiumx/internal/logging"
)

// DefaultExtension is appended to every import path.
const DefaultExtension = ".elx"

// FileSystem is the read access the compiler needs.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

type Option func(*Compiler)

func WithFileSystem(fsys FileSystem) Option {
	return func(c *Compiler) { c.fsys = fsys }
}

func WithExtension(ext string) Option {
	return func(c *Compiler) { c.extension = ext }
}

func WithMaxPasses(n int) Option {
	return func(c *Compiler) { c.limits.MaxPasses = n }
}

func WithMaxBytes(n int) Option {
	return func(c *Compiler) { c.limits.MaxBytes = n }
}

// WithMinify controls whether the body is flattened to one line.
func WithMinify(on bool) Option {
	return func(c *Compiler) { c.minify = on }
}

// WithResetCSS controls whether the default reset stylesheet is emitted.
func WithResetCSS(on bool) Option {
	return func(c *Compiler) { c.resetCSS = on }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// Compiler holds compilation settings. It keeps no per-file state, so one
// Compiler may compile many files concurrently.
type Compiler struct {
	fsys      FileSystem
	extension string
	limits    Limits
	minify    bool
	resetCSS  bool
	logger    zerolog.Logger
}

func New(opts ...Option) *Compiler {
	c := &Compiler{
		fsys:      OSFileSystem{},
		extension: DefaultExtension,
		minify:    true,
		resetCSS:  true,
		logger:    logging.GetLogger("compiler"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.limits = c.limits.withDefaults()
	return c
}

// Result is a compiled document together with what went into it.
type Result struct {
	HTML   string
	Body   string
	Styles string

	// Components lists registered component names in expansion order.
	Components []string
	// Sources lists the entry file followed by every imported file read.
	Sources []string
	Passes  int
}

// compilation is the state owned by one CompileFile call.
type compilation struct {
	fsys      FileSystem
	extension string
	registry  *Registry
	styles    strings.Builder
	sources   []string
	logger    zerolog.Logger
}

// CompileFile compiles the entry file at path. Missing or unreadable files
// fail with an IO error; malformed markup never does.
func (c *Compiler) CompileFile(path string) (*Result, error) {
	logger := c.logger.With().Str("entry", path).Logger()
	done := logging.LogOperationStart(logger, "compile")
	defer done()

	comp := &compilation{
		fsys:      c.fsys,
		extension: c.extension,
		registry:  NewRegistry(),
		logger:    logger,
	}

	content, err := comp.readFile(path)
	if err != nil {
		return nil, err
	}

	comp.styles.WriteString(StripComments(ExtractSection(content, SectionStyle)))

	if imports := ExtractSection(content, SectionImport); imports != "" {
		if err := comp.resolveImports(StripComments(imports), path); err != nil {
			return nil, err
		}
	}

	app := StripComments(ExtractSection(content, SectionApp))
	expansion, err := NewExpander(comp.registry, c.limits, logger).Expand(app)
	if err != nil {
		return nil, withPath(err, path)
	}

	body := expansion.Body
	if c.minify {
		body = Minify(body)
	}

	styles := comp.styles.String()
	out, err := document.Assemble(styles, body, c.resetCSS)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrUnknown, "failed to assemble %s", path)
	}

	logger.Debug().
		Int("components", comp.registry.Len()).
		Int("passes", expansion.Passes).
		Int("substitutions", expansion.Substitutions).
		Int("bytes", len(out)).
		Msg("Compiled")

	return &Result{
		HTML:       out,
		Body:       body,
		Styles:     styles,
		Components: comp.registry.Names(),
		Sources:    comp.sources,
		Passes:     expansion.Passes,
	}, nil
}

// withPath records the entry path on the first coded error in err's chain.
func withPath(err error, path string) error {
	var e *errors.Error
	if stderrors.As(err, &e) {
		e.WithDetail("path", path)
	}
	return err
}

func (comp *compilation) readFile(path string) (string, error) {
	data, err := comp.fsys.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIO, "failed to open file: %s", path).WithDetail("path", path)
	}
	comp.sources = append(comp.sources, path)
	return string(data), nil
}
