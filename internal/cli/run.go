package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/denizgursoy/cacik-ui/internal/config"
	"github.com/denizgursoy/cacik-ui/internal/logging"
	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/cacik"
	"github.com/denizgursoy/cacik-ui/pkg/fixture"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
	"github.com/denizgursoy/cacik-ui/pkg/runner"
	"github.com/denizgursoy/cacik-ui/pkg/steps/login"
)

// RunOptions holds flags for the run command. Set flags override the file.
type RunOptions struct {
	*RootOptions
	Tags     string
	BaseURL  string
	FailFast bool
	NoColor  bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [feature-dir...]",
		Short: "Run feature files with the built-in login steps",
		Long: `Run every scenario under the configured feature directories, or the ones
given as arguments, with the bundled login and dashboard step library.

Example:
  cacik-ui run
  cacik-ui run --tags "@smoke and not @slow" features/login`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeatures(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Tags, "tags", "t", "", "tag expression selecting scenarios")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "root URL of the application under test")
	cmd.Flags().BoolVar(&opts.FailFast, "fail-fast", false, "stop after the first failed scenario")
	cmd.Flags().BoolVar(&opts.NoColor, "no-color", false, "disable colored console output")

	return cmd
}

func runFeatures(opts *RunOptions, dirs []string, cmd *cobra.Command) (err error) {
	cfg, err := opts.load(cmd)
	if err != nil {
		return err
	}
	if len(dirs) > 0 {
		cfg.Features = dirs
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	log, sinks, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Dir:     cfg.Output.Logs,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, sinks.Close())
	}()

	factory, err := browser.NewFactory(cfg.Browser.Backend)
	if err != nil {
		return err
	}
	locators, err := locator.LoadFile(cfg.Locators, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.NewCucumberRunner().
		WithConfig(cfg.Runner()).
		WithConfig(&cacik.Config{
			Tags:     opts.Tags,
			FailFast: opts.FailFast,
			NoColor:  opts.NoColor,
		}).
		WithFeaturesDirectories(cfg.Features...).
		WithLocators(locators).
		WithFixtures(fixtures(cfg, factory, log)).
		WithLogger(log).
		WithOutput(cmd.OutOrStdout())

	return login.Register(r).RunContext(ctx)
}

// fixtures maps scenario tags to a browser per scenario and a mock API per
// scenario.
func fixtures(cfg *config.Config, factory browser.Factory, log logrus.FieldLogger) *fixture.Manager {
	return fixture.NewManager(log).
		With(fixture.KindBrowser, fixture.BrowserProvider{
			Factory:  factory,
			Options:  cfg.LaunchOptions(),
			StartURL: cfg.BaseURL,
			Log:      log,
		}).
		With(fixture.KindMock, mockProvider(cfg, log))
}

// mockProvider serves the endpoint table on the configured address, or in
// intercept mode answers requests aimed at the application's own base URL.
// Steps reach the interceptor's client through Context.MockAPI.
func mockProvider(cfg *config.Config, log logrus.FieldLogger) fixture.MockProvider {
	baseURL := "http://" + cfg.Mock.Addr
	if cfg.Mock.Mode == fixture.MockModeIntercept {
		baseURL = cfg.BaseURL
	}
	return fixture.MockProvider{
		Mode:          cfg.Mock.Mode,
		Addr:          cfg.Mock.Addr,
		BaseURL:       baseURL,
		EndpointsFile: cfg.Mock.Endpoints,
		Defaults:      cfg.Mock.Defaults,
		Log:           log,
	}
}
