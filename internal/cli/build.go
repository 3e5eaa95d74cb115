package cli

import (
	"io"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/gnituy18/elysiumx/internal/logging"
	"github.com/gnituy18/elysiumx/internal/site"
)

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [input] [output]",
		Short: "Compile an entry file, or every page in the pages directory",
		Long: `With an input and an output, compile input and write the HTML document to output.
With only an input, write the document to stdout.
Without arguments, compile every page under the pages directory into the
generation directory, mirroring relative paths.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch len(args) {
			case 0:
				_, err := a.buildPages(cmd)
				return err
			case 1:
				res, err := a.compiler().CompileFile(args[0])
				if err != nil {
					return err
				}
				_, err = io.WriteString(cmd.OutOrStdout(), res.HTML)
				return err
			default:
				_, err := a.buildFile(cmd, args[0], args[1])
				return err
			}
		},
	}
	addCompileFlags(cmd)
	return cmd
}

// buildFile compiles input into output and returns the files it read.
func (a *app) buildFile(cmd *cobra.Command, input, output string) ([]string, error) {
	res, err := a.compiler().CompileFile(input)
	if err != nil {
		return []string{input}, err
	}
	if err := site.WriteOutput(output, res.HTML); err != nil {
		return res.Sources, err
	}

	pterm.Success.WithWriter(cmd.ErrOrStderr()).Printfln("%s -> %s (%d components, %d passes)",
		input, output, len(res.Components), res.Passes)
	return res.Sources, nil
}

// buildPages compiles every page and returns the files they read.
func (a *app) buildPages(cmd *cobra.Command) ([]string, error) {
	logger := logging.GetLogger("site")
	done := logging.LogOperationStart(logger, "build pages")
	defer done()

	pages, err := site.FindPages(a.cfg.Build.Pages, a.cfg.Source.Extension, logger)
	if err != nil {
		return nil, err
	}

	sources := make([]string, 0, len(pages))
	for _, p := range pages {
		sources = append(sources, p.Source)
	}

	b := &site.Builder{
		Compiler: a.compiler(),
		Gen:      filepath.Clean(a.cfg.Build.Gen),
		Jobs:     a.cfg.Build.Jobs,
		Logger:   logger,
	}
	built, err := b.Build(cmd.Context(), pages)
	if err != nil {
		return sources, err
	}

	printer := pterm.Success.WithWriter(cmd.ErrOrStderr())
	for _, page := range built {
		sources = append(sources, page.Result.Sources[1:]...)
		printer.Printfln("%s -> %s", page.Page.Source, page.Output)
	}
	return sources, nil
}
