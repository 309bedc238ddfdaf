package cacik

import (
	"encoding/json"
	"fmt"
	"time"
)

// StepStatus represents the execution outcome of a step.
type StepStatus int

const (
	StepPassed StepStatus = iota
	StepFailed
	// StepSkipped marks steps after a failure, and every step of a scenario
	// whose fixtures could not be acquired.
	StepSkipped
)

func (s StepStatus) String() string {
	switch s {
	case StepPassed:
		return "passed"
	case StepFailed:
		return "failed"
	case StepSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

func (s StepStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StepStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "passed":
		*s = StepPassed
	case "failed":
		*s = StepFailed
	case "skipped":
		*s = StepSkipped
	default:
		return fmt.Errorf("unknown step status %q", b)
	}
	return nil
}

// StepResult holds the execution result of a single step.
type StepResult struct {
	Keyword string
	Text    string
	Status  StepStatus
	// Error is the failure message. Empty for passed and skipped steps.
	Error string
	// Screenshot is the path of the capture taken when the step failed.
	Screenshot string
	Duration   time.Duration
	StartedAt  time.Time
	// MatchLocs holds [start, end] byte offsets of each capture group within
	// Text, for parameter highlighting.
	MatchLocs []int
}

// Name is the step as written, keyword included.
func (s StepResult) Name() string {
	return Step{Keyword: s.Keyword, Text: s.Text}.Name()
}

// MarshalJSON renders {name, status, durationSeconds} and the optional
// error and screenshot.
func (s StepResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name            string     `json:"name"`
		Status          StepStatus `json:"status"`
		DurationSeconds float64    `json:"durationSeconds"`
		Error           string     `json:"error,omitempty"`
		Screenshot      string     `json:"screenshot,omitempty"`
	}{s.Name(), s.Status, s.Duration.Seconds(), s.Error, s.Screenshot})
}

// ScenarioResult holds the execution result of a single scenario.
type ScenarioResult struct {
	Name       string        `json:"name"`
	Tags       []string      `json:"tags"`
	Passed     bool          `json:"passed"`
	Error      string        `json:"error,omitempty"`
	Screenshot string        `json:"screenshot,omitempty"`
	Duration   time.Duration `json:"-"`
	StartedAt  time.Time     `json:"startedAt"`
	Steps      []StepResult  `json:"steps"`
}

func (s ScenarioResult) MarshalJSON() ([]byte, error) {
	type plain ScenarioResult
	return json.Marshal(struct {
		plain
		Status          string  `json:"status"`
		DurationSeconds float64 `json:"durationSeconds"`
	}{plain(s), passWord(s.Passed), s.Duration.Seconds()})
}

// FeatureResult groups the scenarios of one feature file.
type FeatureResult struct {
	Name      string           `json:"name"`
	URI       string           `json:"uri"`
	Passed    bool             `json:"passed"`
	Duration  time.Duration    `json:"-"`
	Scenarios []ScenarioResult `json:"scenarios"`
}

func (f FeatureResult) MarshalJSON() ([]byte, error) {
	type plain FeatureResult
	return json.Marshal(struct {
		plain
		Status          string  `json:"status"`
		DurationSeconds float64 `json:"durationSeconds"`
	}{plain(f), passWord(f.Passed), f.Duration.Seconds()})
}

// Add appends a scenario. A feature passes only while all its scenarios do.
func (f *FeatureResult) Add(s ScenarioResult) {
	if len(f.Scenarios) == 0 {
		f.Passed = true
	}
	f.Scenarios = append(f.Scenarios, s)
	f.Passed = f.Passed && s.Passed
	f.Duration += s.Duration
}

// Summary holds aggregate pass/fail/skip counters.
type Summary struct {
	Features        int `json:"features"`
	ScenariosTotal  int `json:"scenariosTotal"`
	ScenariosPassed int `json:"scenariosPassed"`
	ScenariosFailed int `json:"scenariosFailed"`
	StepsTotal      int `json:"stepsTotal"`
	StepsPassed     int `json:"stepsPassed"`
	StepsFailed     int `json:"stepsFailed"`
	StepsSkipped    int `json:"stepsSkipped"`
}

// Summarize counts the results in features.
func Summarize(features []FeatureResult) Summary {
	s := Summary{Features: len(features)}
	for _, f := range features {
		for _, sc := range f.Scenarios {
			s.ScenariosTotal++
			if sc.Passed {
				s.ScenariosPassed++
			} else {
				s.ScenariosFailed++
			}
			for _, st := range sc.Steps {
				s.StepsTotal++
				switch st.Status {
				case StepPassed:
					s.StepsPassed++
				case StepFailed:
					s.StepsFailed++
				case StepSkipped:
					s.StepsSkipped++
				}
			}
		}
	}
	return s
}

// RunResult is the complete, immutable outcome of a run.
type RunResult struct {
	ID        string          `json:"id"`
	StartedAt time.Time       `json:"startedAt"`
	Duration  time.Duration   `json:"-"`
	Summary   Summary         `json:"summary"`
	Features  []FeatureResult `json:"features"`
}

func (r RunResult) MarshalJSON() ([]byte, error) {
	type plain RunResult
	return json.Marshal(struct {
		plain
		DurationSeconds float64 `json:"durationSeconds"`
	}{plain(r), r.Duration.Seconds()})
}

// Passed reports whether every scenario passed.
func (r RunResult) Passed() bool {
	return r.Summary.ScenariosFailed == 0
}

func passWord(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
