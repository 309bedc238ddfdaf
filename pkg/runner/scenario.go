package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	messages "github.com/cucumber/messages/go/v21"
	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/cacik"
	"github.com/denizgursoy/cacik-ui/pkg/executor"
	"github.com/denizgursoy/cacik-ui/pkg/fixture"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
	"github.com/denizgursoy/cacik-ui/pkg/validation"
)

// session is the state shared by the scenarios of one run.
type session struct {
	ctx      context.Context
	cfg      cacik.Config
	log      logrus.FieldLogger
	hooks    *cacik.HookExecutor
	executor *executor.StepExecutor
	locators *locator.Registry
	fixtures *fixture.Manager
	reporter cacik.Reporter
	// keywords of the feature being run, by step AST id.
	keywords map[string]string
	// screenshots counts the file names used so far in this run.
	screenshots map[string]int
}

// runScenario acquires the fixtures pickle's tags ask for, runs its steps and
// releases the fixtures, whatever happened in between.
func (s *session) runScenario(pickle *messages.Pickle) (result cacik.ScenarioResult) {
	scenario := cacik.ScenarioFromPickle(pickle)
	log := s.log.WithField("scenario", scenario.Name)
	result = cacik.ScenarioResult{Name: scenario.Name, Tags: scenario.Tags, StartedAt: time.Now()}
	defer func() {
		result.Duration = time.Since(result.StartedAt)
	}()

	s.reporter.ScenarioStart(scenario.Name, scenario.Tags)
	log.Info("scenario started")

	scope := fixture.NewScope(log)
	defer func() {
		if err := scope.Close(); err != nil {
			log.WithError(err).Warn("fixture teardown reported errors")
		}
	}()

	res, err := s.fixtures.Activate(s.ctx, scope, scenario.Tags)
	if err == nil {
		err = s.hooks.BeforeScenario(scenario)
	}
	if err != nil {
		log.WithError(err).Error("scenario could not start")
		result.Error = err.Error()
		result.Steps = s.skipSteps(pickle.Steps)
		return result
	}

	sc := cacik.New(
		cacik.WithContext(s.ctx),
		cacik.WithLogger(log),
		cacik.WithScenario(scenario),
		cacik.WithLocators(s.locators),
		cacik.WithResources(res),
		cacik.WithBaseURL(s.cfg.BaseURL),
		cacik.WithElementTimeout(s.cfg.ElementTimeout),
	)

	var failure error
	for i, ps := range pickle.Steps {
		step, err := s.runStep(sc, log, ps)
		result.Steps = append(result.Steps, step)
		if err != nil {
			failure = err
			result.Steps = append(result.Steps, s.skipSteps(pickle.Steps[i+1:])...)
			break
		}
	}

	if err := s.hooks.AfterScenario(scenario, failure); err != nil && failure == nil {
		log.WithError(err).Error("after scenario hooks failed")
		failure = err
	}

	if failure != nil {
		result.Error = failure.Error()
		if b := sc.Browser(); b != nil {
			result.Screenshot = s.screenshot(b, log, cacik.SanitizeName(scenario.Name))
		}
		log.WithError(failure).Error("scenario failed")
		return result
	}

	result.Passed = true
	log.Info("scenario passed")
	return result
}

func (s *session) runStep(sc *cacik.Context, log logrus.FieldLogger, ps *messages.PickleStep) (cacik.StepResult, error) {
	step := cacik.Step{Keyword: s.keyword(ps), Text: ps.Text}
	log = log.WithField("step", step.Name())
	result := cacik.StepResult{Keyword: step.Keyword, Text: step.Text, StartedAt: time.Now()}
	table := cacik.NewTableFromPickle(dataTable(ps))

	err := s.hooks.BeforeStep(step)
	if err == nil {
		err = s.invoke(sc, log, step, table, &result)
	}
	if hookErr := s.hooks.AfterStep(step, err); hookErr != nil && err == nil {
		err = hookErr
	}
	result.Duration = time.Since(result.StartedAt)

	if err == nil {
		result.Status = cacik.StepPassed
		s.reporter.StepPassed(step.Keyword, step.Text, result.MatchLocs)
		s.reportTable(table)
		log.WithField("duration", result.Duration).Debug("step passed")
		return result, nil
	}

	result.Status = cacik.StepFailed
	result.Error = err.Error()
	log.WithError(err).Error("step failed")
	if b := sc.Browser(); b != nil {
		result.Screenshot = s.screenshot(b, log, "step_fail_"+cacik.SanitizeName(step.Name()))
	}
	s.reporter.StepFailed(step.Keyword, step.Text, result.Error, result.MatchLocs)
	s.reportTable(table)
	return result, err
}

// invoke matches and calls the step under the step timeout.
func (s *session) invoke(sc *cacik.Context, log logrus.FieldLogger, step cacik.Step, table cacik.Table, result *cacik.StepResult) error {
	m, err := s.executor.Match(step.Text)
	if err != nil {
		return err
	}
	result.MatchLocs = m.Locs

	// Pages rendered since the last step carry fresh forms.
	if b := sc.Browser(); b != nil {
		if err := validation.Apply(s.ctx, b); err != nil {
			log.WithError(err).Warn("could not disable form validation")
		}
	}

	if s.cfg.StepTimeout <= 0 {
		return s.executor.Invoke(sc, m, table)
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.StepTimeout)
	defer cancel()
	sc.WithContext(ctx)

	done := make(chan error, 1)
	go func() {
		done <- s.executor.Invoke(sc, m, table)
	}()

	select {
	case err := <-done:
		sc.WithContext(s.ctx)
		if err == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &StepTimeoutError{Step: step.Name(), Timeout: s.cfg.StepTimeout}
		}
		return err
	case <-ctx.Done():
		if s.ctx.Err() != nil {
			return s.ctx.Err()
		}
		// The step goroutine still owns sc; it is abandoned, not joined.
		log.WithField("timeout", s.cfg.StepTimeout).Warn("abandoning step that ignored its deadline")
		return &StepTimeoutError{Step: step.Name(), Timeout: s.cfg.StepTimeout}
	}
}

// StepTimeoutError reports a step that ran past the configured step timeout.
type StepTimeoutError struct {
	Step    string
	Timeout time.Duration
}

func (e *StepTimeoutError) Error() string {
	return fmt.Sprintf("step %q exceeded its %s timeout", e.Step, e.Timeout)
}

// Is classifies the error as a browser timeout and as an expired deadline.
func (e *StepTimeoutError) Is(target error) bool {
	return target == browser.ErrTimeout || target == context.DeadlineExceeded
}

func (s *session) skipSteps(steps []*messages.PickleStep) []cacik.StepResult {
	results := make([]cacik.StepResult, 0, len(steps))
	for _, ps := range steps {
		keyword := s.keyword(ps)
		results = append(results, cacik.StepResult{Keyword: keyword, Text: ps.Text, Status: cacik.StepSkipped})
		s.reporter.StepSkipped(keyword, ps.Text)
	}
	return results
}

func (s *session) keyword(ps *messages.PickleStep) string {
	if len(ps.AstNodeIds) == 0 {
		return "* "
	}
	if kw, ok := s.keywords[ps.AstNodeIds[0]]; ok {
		return kw
	}
	return "* "
}

func (s *session) reportTable(table cacik.Table) {
	if table.Len() > 0 {
		s.reporter.StepDataTable(table.Raw())
	}
}

// screenshot saves the page as <ScreenshotsDir>/<name>.png and returns the
// path, or "" when the capture failed. A name used earlier in the run, as by
// the rows of a Scenario Outline, gets a _2, _3, ... suffix.
func (s *session) screenshot(b browser.Browser, log logrus.FieldLogger, name string) string {
	data, err := b.Screenshot(context.WithoutCancel(s.ctx))
	if err != nil {
		log.WithError(err).Warn("could not capture screenshot")
		return ""
	}
	if err := os.MkdirAll(s.cfg.ScreenshotsDir, 0o755); err != nil {
		log.WithError(err).Warn("could not create screenshot directory")
		return ""
	}
	if s.screenshots == nil {
		s.screenshots = make(map[string]int)
	}
	s.screenshots[name]++
	if n := s.screenshots[name]; n > 1 {
		name = fmt.Sprintf("%s_%d", name, n)
	}
	path := filepath.Join(s.cfg.ScreenshotsDir, name+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.WithError(err).Warn("could not save screenshot")
		return ""
	}
	log.WithField("path", path).Info("screenshot saved")
	return path
}

func dataTable(ps *messages.PickleStep) *messages.PickleTable {
	if ps.Argument == nil {
		return nil
	}
	return ps.Argument.DataTable
}
