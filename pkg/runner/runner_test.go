package runner

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	messages "github.com/cucumber/messages/go/v21"
	tagexpressions "github.com/cucumber/tag-expressions/go/v6"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/browser/browsertest"
	"github.com/denizgursoy/cacik-ui/pkg/cacik"
	"github.com/denizgursoy/cacik-ui/pkg/executor"
	"github.com/denizgursoy/cacik-ui/pkg/fixture"
)

// withArgs temporarily sets os.Args for testing and restores it after
func withArgs(args []string, fn func()) {
	oldArgs := os.Args
	os.Args = args
	defer func() { os.Args = oldArgs }()
	fn()
}

// newTestRunner returns a runner over dirs that writes its reports to a
// temporary directory and logs nowhere.
func newTestRunner(t *testing.T, tags string, dirs ...string) (*CucumberRunner, string) {
	t.Helper()
	dir := t.TempDir()
	log, _ := logtest.NewNullLogger()
	r := NewCucumberRunner().
		WithFeaturesDirectories(dirs...).
		WithLogger(log).
		WithOutput(io.Discard).
		WithConfig(&cacik.Config{
			Tags:           tags,
			NoColor:        true,
			ReportsDir:     dir,
			ScreenshotsDir: filepath.Join(dir, "screenshots"),
			LogsDir:        dir,
		})
	return r, dir
}

type report struct {
	Summary  cacik.Summary `json:"summary"`
	Features []struct {
		Name      string `json:"name"`
		Scenarios []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
			Error  string `json:"error"`
			Steps  []struct {
				Name   string `json:"name"`
				Status string `json:"status"`
				Error  string `json:"error"`
			} `json:"steps"`
		} `json:"scenarios"`
	} `json:"features"`
}

func readReport(t *testing.T, dir string) report {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, cacik.JSONReportName))
	require.NoError(t, err)
	var r report
	require.NoError(t, json.Unmarshal(data, &r))
	return r
}

func (r report) scenarioNames() []string {
	var names []string
	for _, f := range r.Features {
		for _, s := range f.Scenarios {
			names = append(names, s.Name)
		}
	}
	return names
}

// =============================================================================
// Tag Helper Tests
// =============================================================================

func Test_extractTagNames(t *testing.T) {
	t.Run("extracts tag names with @ prefix", func(t *testing.T) {
		tags := []*messages.Tag{
			{Name: "@smoke"},
			{Name: "@fast"},
		}
		names := extractTagNames(tags)
		require.Equal(t, []string{"@smoke", "@fast"}, names)
	})

	t.Run("returns empty slice for no tags", func(t *testing.T) {
		names := extractTagNames([]*messages.Tag{})
		require.Empty(t, names)
	})
}

func Test_mergeTags(t *testing.T) {
	t.Run("merges parent and child tags", func(t *testing.T) {
		parent := []string{"@feature"}
		child := []string{"@scenario"}
		merged := mergeTags(parent, child)
		require.Equal(t, []string{"@feature", "@scenario"}, merged)
	})
}

func Test_parseTagsFromArgs(t *testing.T) {
	t.Run("parses --tags with space", func(t *testing.T) {
		withArgs([]string{"cmd", "--tags", "@smoke"}, func() {
			result := parseTagsFromArgs()
			require.Equal(t, "@smoke", result)
		})
	})

	t.Run("parses --tags= format", func(t *testing.T) {
		withArgs([]string{"cmd", "--tags=@smoke and @fast"}, func() {
			result := parseTagsFromArgs()
			require.Equal(t, "@smoke and @fast", result)
		})
	})

	t.Run("returns empty string when no tags", func(t *testing.T) {
		withArgs([]string{"cmd"}, func() {
			result := parseTagsFromArgs()
			require.Equal(t, "", result)
		})
	})

	t.Run("handles complex expression", func(t *testing.T) {
		withArgs([]string{"cmd", "--tags", "(@smoke or @ui) and not @slow"}, func() {
			result := parseTagsFromArgs()
			require.Equal(t, "(@smoke or @ui) and not @slow", result)
		})
	})
}

func Test_filterDocumentByTags(t *testing.T) {
	t.Run("filters scenarios by tag", func(t *testing.T) {
		evaluator, _ := tagexpressions.Parse("@smoke")

		doc := &messages.GherkinDocument{
			Feature: &messages.Feature{
				Tags: []*messages.Tag{},
				Children: []*messages.FeatureChild{
					{
						Scenario: &messages.Scenario{
							Name: "Smoke Test",
							Tags: []*messages.Tag{{Name: "@smoke"}},
						},
					},
					{
						Scenario: &messages.Scenario{
							Name: "Other Test",
							Tags: []*messages.Tag{{Name: "@other"}},
						},
					},
				},
			},
		}

		filtered := filterDocumentByTags(doc, evaluator)
		require.Len(t, filtered.Feature.Children, 1)
		require.Equal(t, "Smoke Test", filtered.Feature.Children[0].Scenario.Name)
	})

	t.Run("inherits feature tags", func(t *testing.T) {
		evaluator, _ := tagexpressions.Parse("@feature")

		doc := &messages.GherkinDocument{
			Feature: &messages.Feature{
				Tags: []*messages.Tag{{Name: "@feature"}},
				Children: []*messages.FeatureChild{
					{
						Scenario: &messages.Scenario{
							Name: "Test",
							Tags: []*messages.Tag{},
						},
					},
				},
			},
		}

		filtered := filterDocumentByTags(doc, evaluator)
		require.Len(t, filtered.Feature.Children, 1)
	})

	t.Run("handles AND expression", func(t *testing.T) {
		evaluator, _ := tagexpressions.Parse("@smoke and @fast")

		doc := &messages.GherkinDocument{
			Feature: &messages.Feature{
				Children: []*messages.FeatureChild{
					{
						Scenario: &messages.Scenario{
							Name: "Both Tags",
							Tags: []*messages.Tag{{Name: "@smoke"}, {Name: "@fast"}},
						},
					},
					{
						Scenario: &messages.Scenario{
							Name: "Only Smoke",
							Tags: []*messages.Tag{{Name: "@smoke"}},
						},
					},
				},
			},
		}

		filtered := filterDocumentByTags(doc, evaluator)
		require.Len(t, filtered.Feature.Children, 1)
		require.Equal(t, "Both Tags", filtered.Feature.Children[0].Scenario.Name)
	})

	t.Run("handles OR expression", func(t *testing.T) {
		evaluator, _ := tagexpressions.Parse("@smoke or @fast")

		doc := &messages.GherkinDocument{
			Feature: &messages.Feature{
				Children: []*messages.FeatureChild{
					{
						Scenario: &messages.Scenario{
							Name: "Has Smoke",
							Tags: []*messages.Tag{{Name: "@smoke"}},
						},
					},
					{
						Scenario: &messages.Scenario{
							Name: "Has Fast",
							Tags: []*messages.Tag{{Name: "@fast"}},
						},
					},
					{
						Scenario: &messages.Scenario{
							Name: "Has Neither",
							Tags: []*messages.Tag{{Name: "@other"}},
						},
					},
				},
			},
		}

		filtered := filterDocumentByTags(doc, evaluator)
		require.Len(t, filtered.Feature.Children, 2)
	})

	t.Run("handles NOT expression", func(t *testing.T) {
		evaluator, _ := tagexpressions.Parse("not @slow")

		doc := &messages.GherkinDocument{
			Feature: &messages.Feature{
				Children: []*messages.FeatureChild{
					{
						Scenario: &messages.Scenario{
							Name: "Fast Test",
							Tags: []*messages.Tag{{Name: "@fast"}},
						},
					},
					{
						Scenario: &messages.Scenario{
							Name: "Slow Test",
							Tags: []*messages.Tag{{Name: "@slow"}},
						},
					},
				},
			},
		}

		filtered := filterDocumentByTags(doc, evaluator)
		require.Len(t, filtered.Feature.Children, 1)
		require.Equal(t, "Fast Test", filtered.Feature.Children[0].Scenario.Name)
	})

	t.Run("handles complex expression with parentheses", func(t *testing.T) {
		evaluator, _ := tagexpressions.Parse("(@smoke or @ui) and not @slow")

		doc := &messages.GherkinDocument{
			Feature: &messages.Feature{
				Children: []*messages.FeatureChild{
					{
						Scenario: &messages.Scenario{
							Name: "Smoke Fast",
							Tags: []*messages.Tag{{Name: "@smoke"}},
						},
					},
					{
						Scenario: &messages.Scenario{
							Name: "UI Fast",
							Tags: []*messages.Tag{{Name: "@ui"}},
						},
					},
					{
						Scenario: &messages.Scenario{
							Name: "Smoke Slow",
							Tags: []*messages.Tag{{Name: "@smoke"}, {Name: "@slow"}},
						},
					},
					{
						Scenario: &messages.Scenario{
							Name: "Other",
							Tags: []*messages.Tag{{Name: "@other"}},
						},
					},
				},
			},
		}

		filtered := filterDocumentByTags(doc, evaluator)
		require.Len(t, filtered.Feature.Children, 2)
		require.Equal(t, "Smoke Fast", filtered.Feature.Children[0].Scenario.Name)
		require.Equal(t, "UI Fast", filtered.Feature.Children[1].Scenario.Name)
	})

	t.Run("preserves background", func(t *testing.T) {
		evaluator, _ := tagexpressions.Parse("@smoke")

		doc := &messages.GherkinDocument{
			Feature: &messages.Feature{
				Children: []*messages.FeatureChild{
					{
						Background: &messages.Background{
							Name: "Setup",
						},
					},
					{
						Scenario: &messages.Scenario{
							Name: "Smoke Test",
							Tags: []*messages.Tag{{Name: "@smoke"}},
						},
					},
				},
			},
		}

		filtered := filterDocumentByTags(doc, evaluator)
		require.Len(t, filtered.Feature.Children, 2)
		require.NotNil(t, filtered.Feature.Children[0].Background)
	})

	t.Run("filters scenarios within rules with tag inheritance", func(t *testing.T) {
		evaluator, _ := tagexpressions.Parse("@feature and @rule")

		doc := &messages.GherkinDocument{
			Feature: &messages.Feature{
				Tags: []*messages.Tag{{Name: "@feature"}},
				Children: []*messages.FeatureChild{
					{
						Rule: &messages.Rule{
							Tags: []*messages.Tag{{Name: "@rule"}},
							Children: []*messages.RuleChild{
								{
									Scenario: &messages.Scenario{
										Name: "Rule Scenario",
										Tags: []*messages.Tag{},
									},
								},
							},
						},
					},
				},
			},
		}

		filtered := filterDocumentByTags(doc, evaluator)
		require.Len(t, filtered.Feature.Children, 1)
		require.NotNil(t, filtered.Feature.Children[0].Rule)
		require.Len(t, filtered.Feature.Children[0].Rule.Children, 1)
	})
}


func Test_filterPicklesByTags(t *testing.T) {
	pickle := func(name string, tags ...string) *messages.Pickle {
		p := &messages.Pickle{Name: name}
		for _, tag := range tags {
			p.Tags = append(p.Tags, &messages.PickleTag{Name: tag})
		}
		return p
	}

	t.Run("keeps pickles whose tags match", func(t *testing.T) {
		evaluator, err := tagexpressions.Parse("@billing and not @slow")
		require.NoError(t, err)

		kept := filterPicklesByTags([]*messages.Pickle{
			pickle("logout", "@billing"),
			pickle("links", "@billing", "@slow"),
			pickle("plain"),
		}, evaluator)

		require.Len(t, kept, 1)
		require.Equal(t, "logout", kept[0].Name)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		evaluator, err := tagexpressions.Parse("@missing")
		require.NoError(t, err)
		require.Empty(t, filterPicklesByTags([]*messages.Pickle{pickle("plain")}, evaluator))
	})
}

// =============================================================================
// Run Tests
// =============================================================================

// billingSteps registers the steps of testdata/with-tag and records every
// clicked link.
func billingSteps(r *CucumberRunner, clicked *[]string) *CucumberRunner {
	return r.
		RegisterStep(`^hello$`, func() {}).
		RegisterStep(`^user is logged in$`, func() {}).
		RegisterStep(`^user clicks (\w+)$`, func(link string) {
			*clicked = append(*clicked, link)
		}).
		RegisterStep(`^user will be logged out$`, func() {})
}

func TestCucumberRunner_Run(t *testing.T) {
	t.Run("runs only scenarios matching the tag expression", func(t *testing.T) {
		var clicked []string
		executed := false
		r, _ := newTestRunner(t, "@billing", "testdata/with-tag", "testdata/without-tag")
		billingSteps(r, &clicked).
			RegisterStep(`^something happens$`, func() { executed = true })

		require.NoError(t, r.Run())
		require.Equal(t, []string{"logout", "invoices", "payments"}, clicked)
		require.False(t, executed, "untagged scenario should not run")
	})

	t.Run("runs nothing when no scenario matches", func(t *testing.T) {
		executed := false
		r, dir := newTestRunner(t, "@nonexistent", "testdata/without-tag")
		r.RegisterStep(`^something happens$`, func() { executed = true })

		require.NoError(t, r.Run())
		require.False(t, executed)
		require.Zero(t, readReport(t, dir).Summary.ScenariosTotal)
	})

	t.Run("runs every scenario without tags", func(t *testing.T) {
		var clicked []string
		executed := false
		r, dir := newTestRunner(t, "", "testdata/with-tag", "testdata/without-tag")
		billingSteps(r, &clicked).
			RegisterStep(`^something happens$`, func() { executed = true })

		require.NoError(t, r.Run())
		require.True(t, executed)
		require.Len(t, clicked, 3)

		rep := readReport(t, dir)
		require.Equal(t, 4, rep.Summary.ScenariosPassed)
		require.FileExists(t, filepath.Join(dir, cacik.HTMLReportName))
		require.FileExists(t, filepath.Join(dir, cacik.TextReportName))
	})

	t.Run("rejects an invalid tag expression", func(t *testing.T) {
		r, _ := newTestRunner(t, "@billing and", "testdata/with-tag")
		err := r.Run()
		require.ErrorContains(t, err, "invalid tag expression")
	})

	t.Run("command line tags override the config", func(t *testing.T) {
		var clicked []string
		r, _ := newTestRunner(t, "@billing", "testdata/with-tag")
		billingSteps(r, &clicked)

		withArgs([]string{"cmd", "--tags", "@fast"}, func() {
			require.NoError(t, r.Run())
		})
		require.Equal(t, []string{"payments"}, clicked)
	})

	t.Run("examples tags narrow an outline", func(t *testing.T) {
		var clicked []string
		r, dir := newTestRunner(t, "@slow and not @fast", "testdata/with-tag")
		billingSteps(r, &clicked)

		require.NoError(t, r.Run())
		require.Equal(t, []string{"invoices"}, clicked)
		require.Equal(t, []string{"Users click links"}, readReport(t, dir).scenarioNames())
	})

	t.Run("rule scenarios run with the rule background", func(t *testing.T) {
		greeted := 0
		r, dir := newTestRunner(t, "@account", "testdata/with-rule")
		r.RegisterStep(`^hello$`, func() { greeted++ }).
			RegisterStep(`^user is logged in$`, func() {})

		require.NoError(t, r.Run())
		require.Equal(t, 1, greeted)

		rep := readReport(t, dir)
		require.Equal(t, []string{"Create account"}, rep.scenarioNames())
		require.Equal(t, "Given hello", rep.Features[0].Scenarios[0].Steps[0].Name)
	})

	t.Run("passes data tables and fails on undefined steps", func(t *testing.T) {
		var names []string
		r, dir := newTestRunner(t, "", "testdata/table")
		r.RegisterStep(`^the following users:$`, func(c *cacik.Context, table cacik.Table) {
			for _, row := range table.SkipHeader() {
				names = append(names, row.Get("name"))
			}
			c.Data().Set("users", len(names))
		}).RegisterStep(`^there should be (\d+) users$`, func(c *cacik.Context, n int) error {
			c.Assert().Equal(n, c.Data().MustGet("users"))
			return nil
		})

		err := r.Run()
		require.ErrorIs(t, err, ErrScenariosFailed)
		require.Equal(t, []string{"Alice", "Bob"}, names)

		rep := readReport(t, dir)
		require.Equal(t, 1, rep.Summary.ScenariosPassed)
		require.Equal(t, 1, rep.Summary.ScenariosFailed)

		failed := rep.Features[0].Scenarios[1]
		require.Equal(t, "failed", failed.Status)
		require.Contains(t, failed.Error, executor.ErrUndefinedStep.Error())
		require.Contains(t, failed.Error, "a step nobody wrote")
		require.Equal(t, "failed", failed.Steps[0].Status)
		require.Equal(t, "skipped", failed.Steps[1].Status)
	})

	t.Run("fail fast stops after the first failed scenario", func(t *testing.T) {
		r, dir := newTestRunner(t, "", "testdata/with-tag")
		r.WithConfig(&cacik.Config{FailFast: true}).
			RegisterStep(`^hello$`, func() {}).
			RegisterStep(`^user is logged in$`, func() error { return errors.New("session expired") })

		require.ErrorIs(t, r.Run(), ErrScenariosFailed)

		rep := readReport(t, dir)
		require.Equal(t, 1, rep.Summary.ScenariosTotal)
		require.Equal(t, "session expired", rep.Features[0].Scenarios[0].Error)
	})

	t.Run("step timeout fails a slow step", func(t *testing.T) {
		r, dir := newTestRunner(t, "", "testdata/without-tag")
		r.WithConfig(&cacik.Config{StepTimeout: 20 * time.Millisecond}).
			RegisterStep(`^something happens$`, func(ctx context.Context) {
				<-ctx.Done()
			})

		require.ErrorIs(t, r.Run(), ErrScenariosFailed)
		require.Contains(t, readReport(t, dir).Features[0].Scenarios[0].Error, "timeout")
	})

	t.Run("step timeout abandons a step that ignores its context", func(t *testing.T) {
		r, dir := newTestRunner(t, "", "testdata/without-tag")
		r.WithConfig(&cacik.Config{StepTimeout: 50 * time.Millisecond}).
			RegisterStep(`^something happens$`, func() {
				time.Sleep(3 * time.Second)
			})

		started := time.Now()
		require.ErrorIs(t, r.Run(), ErrScenariosFailed)
		require.Less(t, time.Since(started), 2*time.Second)

		scenario := readReport(t, dir).Features[0].Scenarios[0]
		require.Equal(t, "failed", scenario.Status)
		require.Equal(t, `step "Given something happens" exceeded its 50ms timeout`, scenario.Error)
	})

	t.Run("step timeout error is a browser timeout", func(t *testing.T) {
		err := error(&StepTimeoutError{Step: "Given x", Timeout: time.Second})
		require.ErrorIs(t, err, browser.ErrTimeout)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("outline rows keep separate screenshots", func(t *testing.T) {
		var apps []*browsertest.Fake
		log, _ := logtest.NewNullLogger()
		manager := fixture.NewManager(log).
			With(fixture.KindBrowser, fixture.BrowserProvider{
				Factory: func(context.Context, browser.LaunchOptions, logrus.FieldLogger) (browser.Browser, error) {
					app := browsertest.New()
					apps = append(apps, app)
					return app, nil
				},
			})

		r, dir := newTestRunner(t, "", "testdata/outline")
		r.WithFixtures(manager).
			RegisterStep(`^the row breaks$`, func() error { return errors.New("broken") })

		require.ErrorIs(t, r.Run(), ErrScenariosFailed)
		require.Len(t, apps, 2)

		shots := filepath.Join(dir, "screenshots")
		for _, name := range []string{
			"Broken_row.png", "Broken_row_2.png",
			"step_fail_Given_the_row_breaks.png", "step_fail_Given_the_row_breaks_2.png",
		} {
			require.FileExists(t, filepath.Join(shots, name))
		}
	})

	t.Run("releases fixtures after every scenario", func(t *testing.T) {
		released := 0
		log, _ := logtest.NewNullLogger()
		manager := fixture.NewManager(log).
			With(fixture.KindBackend, fixture.AcquirerFunc(func(_ context.Context, scope *fixture.Scope, _ *fixture.Resources) error {
				scope.Register("backend", func() error {
					released++
					return nil
				})
				return nil
			}))

		r, dir := newTestRunner(t, "", "testdata/backend")
		r.WithFixtures(manager).
			RegisterStep(`^the backend is ready$`, func() {}).
			RegisterStep(`^it panics$`, func() { panic("boom") })

		require.ErrorIs(t, r.Run(), ErrScenariosFailed)
		require.Equal(t, 2, released)

		failed := readReport(t, dir).Features[0].Scenarios[1]
		require.Contains(t, failed.Error, "boom")
		var statuses []string
		for _, s := range failed.Steps {
			statuses = append(statuses, s.Status)
		}
		require.Equal(t, []string{"passed", "failed", "skipped"}, statuses)
	})

	t.Run("runs hooks around scenarios and steps", func(t *testing.T) {
		var events []string
		r, _ := newTestRunner(t, "", "testdata/without-tag")
		r.WithHooks(&cacik.Hooks{
			BeforeAll:      func() { events = append(events, "before all") },
			AfterAll:       func() { events = append(events, "after all") },
			BeforeScenario: func(s cacik.Scenario) { events = append(events, "before "+s.Name) },
			AfterScenario:  func(s cacik.Scenario, err error) { events = append(events, "after "+s.Name) },
			BeforeStep:     func(s cacik.Step) { events = append(events, "before "+s.Name()) },
			AfterStep:      func(s cacik.Step, err error) { events = append(events, "after "+s.Name()) },
		}).RegisterStep(`^something happens$`, func() { events = append(events, "step") })

		require.NoError(t, r.Run())
		require.Equal(t, []string{
			"before all",
			"before Anything",
			"before Given something happens",
			"step",
			"after Given something happens",
			"after Anything",
			"after all",
		}, events)
	})

	t.Run("before all failure aborts the run", func(t *testing.T) {
		executed := false
		r, _ := newTestRunner(t, "", "testdata/without-tag")
		r.WithHooks(&cacik.Hooks{BeforeAll: func() { panic("no database") }}).
			RegisterStep(`^something happens$`, func() { executed = true })

		err := r.Run()
		require.ErrorContains(t, err, "before all hooks")
		require.False(t, executed)
	})

	t.Run("scenarios do not share context data", func(t *testing.T) {
		leaked := 0
		r, _ := newTestRunner(t, "@billing", "testdata/with-tag")
		r.RegisterStep(`^hello$`, func(c *cacik.Context) {
			if _, ok := c.Data().Get("seen"); ok {
				leaked++
			}
			c.Data().Set("seen", true)
		}).
			RegisterStep(`^user is logged in$`, func() {}).
			RegisterStep(`^user clicks (\w+)$`, func(string) {}).
			RegisterStep(`^user will be logged out$`, func() {})

		require.NoError(t, r.Run())
		require.Zero(t, leaked)
	})

	t.Run("runs scenarios as subtests", func(t *testing.T) {
		executed := false
		r, _ := newTestRunner(t, "", "testdata/without-tag")
		r.WithTestingT(t).
			RegisterStep(`^something happens$`, func() { executed = true })

		require.NoError(t, r.Run())
		require.True(t, executed)
	})

	t.Run("cancelled context cancels the running step", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r, dir := newTestRunner(t, "", "testdata/without-tag")
		r.RegisterStep(`^something happens$`, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return ctx.Err()
		})

		require.ErrorIs(t, r.RunContext(ctx), ErrScenariosFailed)
		require.Contains(t, readReport(t, dir).Features[0].Scenarios[0].Error, context.Canceled.Error())
	})
}

// =============================================================================
// Registration Tests
// =============================================================================

func TestCucumberRunner_RegisterStep(t *testing.T) {
	t.Run("panics on duplicate pattern", func(t *testing.T) {
		r := NewCucumberRunner().RegisterStep(`^hello$`, func() {})
		require.Panics(t, func() {
			r.RegisterStep(`^hello$`, func() {})
		})
	})

	t.Run("panics on invalid regex", func(t *testing.T) {
		require.Panics(t, func() {
			NewCucumberRunner().RegisterStep(`^hello(`, func() {})
		})
	})

	t.Run("panics when the handler is not a function", func(t *testing.T) {
		require.Panics(t, func() {
			NewCucumberRunner().RegisterStep(`^hello$`, "hello")
		})
	})
}

func TestCucumberRunner_RegisterCustomType(t *testing.T) {
	t.Run("panics on unsupported underlying type", func(t *testing.T) {
		require.Panics(t, func() {
			NewCucumberRunner().RegisterCustomType("Color", "complex128", nil)
		})
	})

	t.Run("converts captured values", func(t *testing.T) {
		type Color string
		var got Color
		r, _ := newTestRunner(t, "", "testdata/without-tag")
		r.RegisterCustomType("Color", "string", map[string]string{"something": "red"}).
			RegisterStep(`^(\w+) happens$`, func(c Color) { got = c })

		require.NoError(t, r.Run())
		require.Equal(t, Color("red"), got)
	})
}
