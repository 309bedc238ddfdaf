package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/cacik-ui/internal/comment_parser"
	"github.com/denizgursoy/cacik-ui/internal/generator"
)

type GenerateOptions struct {
	*RootOptions
	Code   string
	Dir    string
	Output string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a Go test that registers annotated step functions",
		Long: `Scan Go sources for functions documented with "@cacik" step patterns,
config and hooks providers, and custom parameter types, then write a test
file that registers them all with the runner.

Example:
  cacik-ui generate --code ./steps,./shared --dir ./e2e`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Code, "code", "", "comma-separated directories to scan (default: --dir)")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "directory that receives the generated test (default: current directory)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", generator.DefaultOutputFile, "name of the generated file")

	return cmd
}

func generate(opts *GenerateOptions, cmd *cobra.Command) error {
	log, err := opts.consoleLogger(cmd, "info")
	if err != nil {
		return err
	}

	var dirs []string
	for _, d := range strings.Split(opts.Code, ",") {
		if d = strings.TrimSpace(d); d != "" {
			dirs = append(dirs, d)
		}
	}

	path, err := generator.StartGenerator(cmd.Context(), comment_parser.NewGoSourceFileParser(log), generator.Options{
		Dirs:       dirs,
		WorkDir:    opts.Dir,
		OutputFile: opts.Output,
		Log:        log,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", path)
	return nil
}
