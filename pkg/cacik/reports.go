package cacik

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Report file names written by WriteReports.
const (
	JSONReportName = "cacik_report.json"
	HTMLReportName = "cacik_report.html"
	TextReportName = "cacik_report.txt"
)

// WriteJSONReport encodes the run as indented JSON.
func WriteJSONReport(w io.Writer, result RunResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("could not encode JSON report: %w", err)
	}
	return nil
}

// RenderText writes a plain-text rendering of the run: one block per
// feature, one line per step, the failure message under failed steps and
// the summary counters last.
func RenderText(w io.Writer, result RunResult) error {
	var b strings.Builder
	for _, f := range result.Features {
		fmt.Fprintf(&b, "Feature: %s  # %s\n", f.Name, f.URI)
		for _, s := range f.Scenarios {
			b.WriteString("\n")
			if len(s.Tags) > 0 {
				fmt.Fprintf(&b, "  %s\n", strings.Join(s.Tags, " "))
			}
			fmt.Fprintf(&b, "  Scenario: %s  # %s\n", s.Name, passWord(s.Passed))
			for _, st := range s.Steps {
				fmt.Fprintf(&b, "    %-56s %s\n", st.Name(), st.Status)
				if st.Error != "" {
					for _, line := range strings.Split(st.Error, "\n") {
						fmt.Fprintf(&b, "      %s\n", line)
					}
				}
				if st.Screenshot != "" {
					fmt.Fprintf(&b, "      screenshot: %s\n", st.Screenshot)
				}
			}
			if s.Error != "" && !hasFailedStep(s) {
				fmt.Fprintf(&b, "    error: %s\n", s.Error)
			}
		}
		b.WriteString("\n")
	}

	sum := result.Summary
	fmt.Fprintf(&b, "%d feature(s)\n", sum.Features)
	fmt.Fprintf(&b, "%d scenario(s): %d passed, %d failed\n", sum.ScenariosTotal, sum.ScenariosPassed, sum.ScenariosFailed)
	fmt.Fprintf(&b, "%d step(s): %d passed, %d failed, %d skipped\n", sum.StepsTotal, sum.StepsPassed, sum.StepsFailed, sum.StepsSkipped)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("could not write text report: %w", err)
	}
	return nil
}

func hasFailedStep(s ScenarioResult) bool {
	for _, st := range s.Steps {
		if st.Status == StepFailed {
			return true
		}
	}
	return false
}

// WriteReports writes the JSON, HTML and text reports into dir, creating it
// if needed, and returns the written paths.
func WriteReports(dir string, result RunResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create report directory %q: %w", dir, err)
	}

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{JSONReportName, func(w io.Writer) error { return WriteJSONReport(w, result) }},
		{HTMLReportName, func(w io.Writer) error { return GenerateHTMLReport(w, dir, result) }},
		{TextReportName, func(w io.Writer) error { return RenderText(w, result) }},
	}

	paths := make([]string, 0, len(writers))
	for _, rw := range writers {
		path := filepath.Join(dir, rw.name)
		if err := writeFile(path, rw.write); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create report file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f)
}
