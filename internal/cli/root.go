// Package cli wires the elx commands.
package cli

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gnituy18/elysiumx/internal/compiler"
	"github.com/gnituy18/elysiumx/internal/config"
	"github.com/gnituy18/elysiumx/internal/logging"
)

// flagKeys maps command line flags to the configuration keys they override.
var flagKeys = map[string]string{
	"extension":  "source.extension",
	"max-passes": "expand.max_passes",
	"max-bytes":  "expand.max_bytes",
	"minify":     "output.minify",
	"reset-css":  "output.reset_css",
	"pages":      "build.pages",
	"gen":        "build.gen",
	"jobs":       "build.jobs",
	"debounce":   "watch.debounce",
	"log-file":   "log.file",
}

// app is the state shared by every command of one invocation.
type app struct {
	verbosity  int
	configFile string
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "elx",
		Short: "Compile .elx component files into a single HTML page",
		Long: `elx compiles an .elx entry file, together with the components it imports,
into one self-contained HTML document with all styles inlined.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: elysiumx.toml in the working directory)")
	root.PersistentFlags().Bool("log-file", false, "also write logs to the XDG state directory")

	root.AddCommand(newBuildCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newVersionCmd())

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	overrides := map[string]interface{}{}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			overrides[key] = f.Value.String()
		}
	}

	cfg, err := config.Load(config.Options{File: a.configFile, Overrides: overrides})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.SetupLogger(a.verbosity, cfg.Log.File)
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		pterm.DisableStyling()
	}

	log.Debug().Str("command", cmd.Name()).Interface("overrides", overrides).Msg("Command started")
	return nil
}

func (a *app) compiler() *compiler.Compiler {
	return compiler.New(
		compiler.WithExtension(a.cfg.Source.Extension),
		compiler.WithMaxPasses(a.cfg.Expand.MaxPasses),
		compiler.WithMaxBytes(a.cfg.Expand.MaxBytes),
		compiler.WithMinify(a.cfg.Output.Minify),
		compiler.WithResetCSS(a.cfg.Output.ResetCSS),
	)
}

// addCompileFlags registers the flags that tune a compilation.
func addCompileFlags(cmd *cobra.Command) {
	cmd.Flags().String("extension", compiler.DefaultExtension, "extension appended to import paths")
	cmd.Flags().Int("max-passes", compiler.DefaultMaxPasses, "maximum expansion passes before failing")
	cmd.Flags().Int("max-bytes", compiler.DefaultMaxBytes, "maximum size of the expanded body")
	cmd.Flags().Bool("minify", true, "flatten the body onto a single line")
	cmd.Flags().Bool("reset-css", true, "append the default reset stylesheet")
	cmd.Flags().String("pages", "pages", "pages directory, used when no input is given")
	cmd.Flags().String("gen", "gen", "generation directory, used when no input is given")
	cmd.Flags().Int("jobs", 4, "pages compiled in parallel")
}
