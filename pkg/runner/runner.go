// Package runner discovers feature files, runs their scenarios against the
// registered step definitions and writes the run's reports.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
	tagexpressions "github.com/cucumber/tag-expressions/go/v6"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/logging"
	"github.com/denizgursoy/cacik-ui/pkg/cacik"
	"github.com/denizgursoy/cacik-ui/pkg/executor"
	"github.com/denizgursoy/cacik-ui/pkg/fixture"
	"github.com/denizgursoy/cacik-ui/pkg/gherkin_parser"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

// ErrScenariosFailed is returned by Run when at least one scenario failed.
var ErrScenariosFailed = errors.New("scenarios failed")

type (
	CucumberRunner struct {
		t                  *testing.T
		config             *cacik.Config
		featureDirectories []string
		hooks              []*cacik.Hooks
		executor           *executor.StepExecutor
		locators           *locator.Registry
		fixtures           *fixture.Manager
		log                logrus.FieldLogger
		reporter           cacik.Reporter
		out                io.Writer
	}

	// feature is one parsed file with the pickles selected from it.
	feature struct {
		document *messages.GherkinDocument
		keywords map[string]string
		pickles  []*messages.Pickle
	}
)

func NewCucumberRunner() *CucumberRunner {
	return &CucumberRunner{
		executor: executor.NewStepExecutor(),
		out:      os.Stdout,
	}
}

// WithTestingT runs every scenario as a subtest of t. Failed scenarios fail
// their subtest, and Run no longer reports them as an error.
func (c *CucumberRunner) WithTestingT(t *testing.T) *CucumberRunner {
	c.t = t
	return c
}

// WithConfig merges config over the configuration set so far.
func (c *CucumberRunner) WithConfig(config *cacik.Config) *CucumberRunner {
	c.config = cacik.MergeConfigs(c.config, config)
	return c
}

func (c *CucumberRunner) WithHooks(hooks ...*cacik.Hooks) *CucumberRunner {
	c.hooks = append(c.hooks, hooks...)
	return c
}

func (c *CucumberRunner) WithFeaturesDirectories(directories ...string) *CucumberRunner {
	c.featureDirectories = directories
	return c
}

func (c *CucumberRunner) WithLocators(registry *locator.Registry) *CucumberRunner {
	c.locators = registry
	return c
}

// WithFixtures sets the manager that turns scenario tags into resources.
// Without one only the backend stub is available.
func (c *CucumberRunner) WithFixtures(manager *fixture.Manager) *CucumberRunner {
	c.fixtures = manager
	return c
}

// WithLogger replaces the logger Run would otherwise build from the config,
// console plus <LogsDir>/test_execution.log.
func (c *CucumberRunner) WithLogger(log logrus.FieldLogger) *CucumberRunner {
	c.log = log
	return c
}

func (c *CucumberRunner) WithReporter(reporter cacik.Reporter) *CucumberRunner {
	c.reporter = reporter
	return c
}

// WithOutput sets where the console reporter writes. Defaults to stdout.
func (c *CucumberRunner) WithOutput(out io.Writer) *CucumberRunner {
	c.out = out
	return c
}

// RegisterCustomType panics when underlying is not a supported primitive.
func (c *CucumberRunner) RegisterCustomType(name, underlying string, values map[string]string) *CucumberRunner {
	if err := c.executor.RegisterCustomType(name, underlying, values); err != nil {
		panic(err)
	}
	return c
}

// RegisterStep panics on a duplicate pattern, an invalid regex or a function
// the executor cannot call.
func (c *CucumberRunner) RegisterStep(definition string, function any) *CucumberRunner {
	if err := c.executor.RegisterStep(definition, function); err != nil {
		panic(err)
	}
	return c
}

func (c *CucumberRunner) Run() error {
	return c.RunContext(context.Background())
}

// RunContext runs every selected scenario in order. Cancelling ctx cancels
// the step in flight; later scenarios still run their teardown.
func (c *CucumberRunner) RunContext(ctx context.Context) (err error) {
	cfg := c.resolveConfig()

	log := c.log
	if log == nil {
		logger, sinks, err := logging.New(logging.Options{Dir: cfg.LogsDir})
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, sinks.Close())
		}()
		log = logger
	}

	var evaluator tagexpressions.Evaluatable
	if cfg.Tags != "" {
		evaluator, err = tagexpressions.Parse(cfg.Tags)
		if err != nil {
			return fmt.Errorf("invalid tag expression %q: %w", cfg.Tags, err)
		}
	}

	features, err := c.discover(evaluator, log)
	if err != nil {
		return err
	}

	locators := c.locators
	if locators == nil {
		log.Warn("no locator table configured, every key lookup will fail")
		locators = locator.Load(nil, log)
	}
	fixtures := c.fixtures
	if fixtures == nil {
		fixtures = fixture.NewManager(log)
	}

	reporter := c.reporter
	switch {
	case cfg.DisableReporter:
		reporter = cacik.NoopReporter{}
	case reporter == nil:
		reporter = cacik.NewConsoleReporter(c.out, !cfg.NoColor)
	}

	s := &session{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		hooks:    cacik.NewHookExecutor(c.hooks...),
		executor: c.executor,
		locators: locators,
		fixtures: fixtures,
		reporter: reporter,
	}

	run := cacik.RunResult{ID: uuid.NewString(), StartedAt: time.Now()}
	log = log.WithField("run", run.ID)
	log.WithField("features", len(features)).Info("test run started")

	if err := s.hooks.BeforeAll(); err != nil {
		return fmt.Errorf("before all hooks: %w", err)
	}

	stopped := false
	for _, f := range features {
		if stopped {
			break
		}
		result := cacik.FeatureResult{Name: f.document.Feature.Name, URI: f.document.Uri}
		s.keywords = f.keywords
		reporter.FeatureStart(result.Name)

		for _, pickle := range f.pickles {
			scenario := c.execute(s, pickle)
			result.Add(scenario)
			if !scenario.Passed && cfg.FailFast {
				log.WithField("scenario", scenario.Name).Warn("fail fast: skipping remaining scenarios")
				stopped = true
				break
			}
		}
		run.Features = append(run.Features, result)
	}

	if err := s.hooks.AfterAll(); err != nil {
		log.WithError(err).Error("after all hooks failed")
	}

	run.Duration = time.Since(run.StartedAt)
	run.Summary = cacik.Summarize(run.Features)
	reporter.Summary(run.Summary)

	paths, reportErr := cacik.WriteReports(cfg.ReportsDir, run)
	if reportErr != nil {
		log.WithError(reportErr).Error("could not write reports")
	} else {
		log.WithField("files", paths).Info("reports written")
	}

	log.WithFields(logrus.Fields{
		"scenarios": run.Summary.ScenariosTotal,
		"passed":    run.Summary.ScenariosPassed,
		"failed":    run.Summary.ScenariosFailed,
		"duration":  run.Duration,
	}).Info("test run finished")

	if !run.Passed() && c.t == nil {
		return errors.Join(fmt.Errorf("%w: %d of %d", ErrScenariosFailed,
			run.Summary.ScenariosFailed, run.Summary.ScenariosTotal), reportErr)
	}
	return reportErr
}

// execute runs pickle, as a subtest when a testing.T is attached.
func (c *CucumberRunner) execute(s *session, pickle *messages.Pickle) cacik.ScenarioResult {
	if c.t == nil {
		return s.runScenario(pickle)
	}

	var result cacik.ScenarioResult
	c.t.Run(pickle.Name, func(t *testing.T) {
		result = s.runScenario(pickle)
		if !result.Passed {
			t.Error(result.Error)
		}
	})
	return result
}

// resolveConfig applies --tags from the command line and fills defaults.
func (c *CucumberRunner) resolveConfig() cacik.Config {
	cfg := cacik.MergeConfigs(c.config, &cacik.Config{Tags: parseTagsFromArgs()})
	return cfg.WithDefaults()
}

func (c *CucumberRunner) discover(evaluator tagexpressions.Evaluatable, log logrus.FieldLogger) ([]feature, error) {
	directories := c.featureDirectories
	if len(directories) == 0 {
		directories = []string{"."}
	}

	files, err := gherkin_parser.SearchFeatureFilesIn(directories)
	if err != nil {
		return nil, err
	}

	var features []feature
	for _, file := range files {
		document, err := gherkin_parser.ParseFeatureFile(file)
		if err != nil {
			return nil, err
		}
		if document.Feature == nil {
			log.WithField("file", file).Debug("file has no feature, skipping")
			continue
		}
		if evaluator != nil {
			document = filterDocumentByTags(document, evaluator)
		}

		pickles := gherkin.Pickles(*document, document.Uri, uuid.NewString)
		if evaluator != nil {
			pickles = filterPicklesByTags(pickles, evaluator)
		}
		if len(pickles) == 0 {
			continue
		}
		features = append(features, feature{
			document: document,
			keywords: gherkin_parser.StepKeywords(document),
			pickles:  pickles,
		})
	}
	return features, nil
}
