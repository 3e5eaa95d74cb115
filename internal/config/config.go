// Package config loads compiler and CLI settings from layered sources:
// built-in defaults, the user config file, the project config file,
// ELX_ environment variables and command line overrides.
package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	tomlenc "github.com/pelletier/go-toml/v2"

	"github.com/gnituy18/elysiumx/internal/errors"
)

const envPrefix = "ELX_"

// ProjectFiles are looked up, in order, in the project directory.
var ProjectFiles = []string{"elysiumx.toml", "elysiumx.yaml", "elysiumx.yml"}

//go:embed embedded/defaults.toml
var defaultConfig []byte

type Config struct {
	Source SourceConfig `koanf:"source"`
	Expand ExpandConfig `koanf:"expand"`
	Output OutputConfig `koanf:"output"`
	Build  BuildConfig  `koanf:"build"`
	Watch  WatchConfig  `koanf:"watch"`
	Log    LogConfig    `koanf:"log"`

	raw map[string]interface{}
}

type SourceConfig struct {
	Extension string `koanf:"extension"`
}

type ExpandConfig struct {
	MaxPasses int `koanf:"max_passes"`
	MaxBytes  int `koanf:"max_bytes"`
}

type OutputConfig struct {
	Minify   bool `koanf:"minify"`
	ResetCSS bool `koanf:"reset_css"`
}

type BuildConfig struct {
	Pages string `koanf:"pages"`
	Gen   string `koanf:"gen"`
	Jobs  int    `koanf:"jobs"`
}

type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

type LogConfig struct {
	File bool `koanf:"file"`
}

// Options select the sources Load reads beyond the built-in defaults.
type Options struct {
	// File is an explicit config file. It must exist when set.
	File string
	// Dir is searched for ProjectFiles when File is empty. Defaults to ".".
	Dir string
	// Overrides are dotted keys applied last, e.g. "expand.max_passes".
	Overrides map[string]interface{}
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load merges every configuration source and validates the result.
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config
	userPath := UserConfigPath()
	if fileExists(userPath) {
		if err := loadFile(k, userPath); err != nil {
			return nil, err
		}
	}

	// 3. Project config
	projectPath, err := findProjectFile(opts)
	if err != nil {
		return nil, err
	}
	if projectPath != "" {
		if err := loadFile(k, projectPath); err != nil {
			return nil, err
		}
	}

	// 4. Environment: ELX_EXPAND__MAX_PASSES -> expand.max_passes
	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Command line
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.ComposeDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to decode configuration")
	}
	cfg.raw = k.Raw()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges that the compiler relies on.
func (c *Config) Validate() error {
	switch {
	case !strings.HasPrefix(c.Source.Extension, "."):
		return errors.Newf(errors.ErrConfigInvalid, "source.extension must start with a dot, got %q", c.Source.Extension)
	case c.Expand.MaxPasses < 1:
		return errors.Newf(errors.ErrConfigInvalid, "expand.max_passes must be at least 1, got %d", c.Expand.MaxPasses)
	case c.Expand.MaxBytes < 1:
		return errors.Newf(errors.ErrConfigInvalid, "expand.max_bytes must be at least 1, got %d", c.Expand.MaxBytes)
	case c.Build.Jobs < 1:
		return errors.Newf(errors.ErrConfigInvalid, "build.jobs must be at least 1, got %d", c.Build.Jobs)
	case c.Watch.Debounce < 0:
		return errors.Newf(errors.ErrConfigInvalid, "watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	return nil
}

// TOML renders the merged settings as a TOML document.
func (c *Config) TOML() ([]byte, error) {
	return tomlenc.Marshal(c.raw)
}

// UserConfigPath is the per-user config file under the XDG config home.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "elysiumx", "config.toml")
}

func findProjectFile(opts Options) (string, error) {
	if opts.File != "" {
		if !fileExists(opts.File) {
			return "", errors.Newf(errors.ErrConfigLoad, "config file not found: %s", opts.File).WithDetail("path", opts.File)
		}
		return opts.File, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	for _, name := range ProjectFiles {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path, nil
		}
	}
	return "", nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser = toml.Parser()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config from %s", path).WithDetail("path", path)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
