package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

type LocatorsOptions struct {
	*RootOptions
	Keys []string
}

// NewLocatorsCommand creates the locators command group.
func NewLocatorsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locators",
		Short: "Inspect locator tables",
	}
	cmd.AddCommand(newLocatorsCheckCommand(&LocatorsOptions{RootOptions: rootOpts}))
	return cmd
}

func newLocatorsCheckCommand(opts *LocatorsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Resolve every key of a locator table",
		Long: `Resolve each key of a locator table (JSON or YAML) and print the locator
the runner would use. Without a file argument the table from the
configuration is checked. Fails when any key has no usable candidate.

Example:
  cacik-ui locators check features/meta_data/locators_babel.json
  cacik-ui locators check --keys email,password,login-btn`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkLocators(opts, args, cmd)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Keys, "keys", nil, "keys that must resolve (default: every key in the table)")

	return cmd
}

func checkLocators(opts *LocatorsOptions, args []string, cmd *cobra.Command) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := opts.load(cmd)
		if err != nil {
			return err
		}
		path = cfg.Locators
	}

	log, err := opts.consoleLogger(cmd, "error")
	if err != nil {
		return err
	}
	registry, err := locator.LoadFile(path, log)
	if err != nil {
		return err
	}

	keys := opts.Keys
	if len(keys) == 0 {
		keys = registry.Keys()
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSTRATEGY\tSELECTOR\tQUERY")

	var unresolved int
	for _, key := range keys {
		loc, ok := registry.Resolve(key)
		if !ok {
			unresolved++
			fmt.Fprintf(w, "%s\t-\t-\tunresolved (%d candidates)\n", key, len(registry.Candidates(key)))
			continue
		}
		query, err := loc.Compile()
		if err != nil {
			unresolved++
			fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", key, loc.Strategy, loc.Selector, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s=%s\n", key, loc.Strategy, loc.Selector, query.By, query.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if unresolved > 0 {
		return fmt.Errorf("%d of %d locator keys did not resolve", unresolved, len(keys))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d locator keys resolved from %s\n", len(keys), path)
	return nil
}
