package cacik

import (
	"strings"

	messages "github.com/cucumber/messages/go/v21"
)

// Scenario holds metadata about the currently executing scenario.
// Passed to BeforeScenario/AfterScenario hooks.
type Scenario struct {
	// Name is the scenario name. For expanded outlines it is the name of the
	// outline, once per example row.
	Name string

	// Tags includes tags inherited from the Feature and Examples blocks, with
	// the leading '@'.
	Tags []string

	// URI is the feature file the scenario came from.
	URI string
}

// HasTag reports whether the scenario carries tag, with or without '@'.
func (s Scenario) HasTag(tag string) bool {
	want := strings.ToLower(strings.TrimPrefix(tag, "@"))
	for _, t := range s.Tags {
		if strings.ToLower(strings.TrimPrefix(t, "@")) == want {
			return true
		}
	}
	return false
}

// Step holds metadata about the currently executing step.
type Step struct {
	// Keyword includes trailing whitespace ("Given ", "And ").
	Keyword string
	Text    string
}

// Name is the step as written, keyword included.
func (s Step) Name() string {
	return strings.TrimSpace(s.Keyword) + " " + s.Text
}

func ScenarioFromPickle(p *messages.Pickle) Scenario {
	tags := make([]string, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = t.Name
	}
	return Scenario{Name: p.Name, Tags: tags, URI: p.Uri}
}
