// Package cli wires the cacik-ui commands.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/denizgursoy/cacik-ui/internal/config"
	"github.com/denizgursoy/cacik-ui/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	Verbose    bool
}

// NewRootCommand creates the root command for the cacik-ui CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cacik-ui",
		Short: "Run Gherkin UI scenarios against a browser",
		Long: `cacik-ui runs Gherkin feature files against a web application through
Chrome, resolving element keys through a locator table and serving mock
APIs per scenario as tags request them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "path to the TOML configuration")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", config.DefaultEnvFile, "dotenv file with CACIK_* overrides")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewLocatorsCommand(opts))

	return cmd
}

// load reads the configuration. The file is required only when --config was
// given explicitly.
func (o *RootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		Path:     o.ConfigPath,
		Required: cmd.Flags().Changed("config"),
		EnvFile:  o.EnvFile,
	})
	if err != nil {
		return nil, err
	}
	if o.Verbose {
		cfg.LogLevel = logrus.DebugLevel.String()
	}
	return cfg, nil
}

// consoleLogger logs to the command's stderr only.
func (o *RootOptions) consoleLogger(cmd *cobra.Command, level string) (*logrus.Logger, error) {
	if o.Verbose {
		level = logrus.DebugLevel.String()
	}
	log, _, err := logging.New(logging.Options{Level: level, Console: cmd.ErrOrStderr()})
	return log, err
}
