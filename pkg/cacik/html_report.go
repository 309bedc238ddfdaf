package cacik

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// htmlParamColors cycle over the captured parameters of a step.
var htmlParamColors = []string{
	"#5C92FF",
	"#00CED1",
	"#E5C07B",
	"#C0A0FF",
	"#98C379",
}

// reportData is the view model passed to the HTML template.
type reportData struct {
	ID         string
	Summary    Summary
	Duration   time.Duration
	ExecutedAt time.Time
	Features   []FeatureResult
}

// colorizeStepText returns safe HTML for a step's text with capture-group
// parameters wrapped in colored spans.
func colorizeStepText(step StepResult) template.HTML {
	statusCls := step.Status.String()
	span := func(s string) string {
		return fmt.Sprintf(`<span class="step-text %s">%s</span>`, statusCls, html.EscapeString(s))
	}
	if len(step.MatchLocs) < 2 || step.Status == StepSkipped {
		return template.HTML(span(step.Text))
	}

	var b strings.Builder
	cursor := 0
	for i := 0; i+1 < len(step.MatchLocs); i += 2 {
		start, end := step.MatchLocs[i], step.MatchLocs[i+1]
		if start < cursor || end > len(step.Text) || start >= end {
			continue
		}
		if cursor < start {
			b.WriteString(span(step.Text[cursor:start]))
		}
		color := htmlParamColors[(i/2)%len(htmlParamColors)]
		fmt.Fprintf(&b, `<span class="step-param" style="color:%s">%s</span>`, color, html.EscapeString(step.Text[start:end]))
		cursor = end
	}
	if cursor < len(step.Text) {
		b.WriteString(span(step.Text[cursor:]))
	}
	return template.HTML(b.String())
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%.0fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

func statusSymbol(s StepStatus) string {
	switch s {
	case StepPassed:
		return symbolPass
	case StepFailed:
		return symbolFail
	default:
		return "–"
	}
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"colorizeStepText": colorizeStepText,
	"formatDuration":   formatDuration,
	"statusSymbol":     statusSymbol,
	"passWord":         passWord,
	"formatTime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	},
	"summaryClass": func(failed int) string {
		if failed > 0 {
			return "has-failures"
		}
		return "all-passed"
	},
}).Parse(htmlTemplate))

// GenerateHTMLReport renders a self-contained HTML report of the run to w.
// Features nest their scenarios, scenarios nest their steps; failed
// scenarios start expanded and link their screenshots. Screenshot links are
// made relative to base when possible.
func GenerateHTMLReport(w io.Writer, base string, result RunResult) error {
	data := reportData{
		ID:         result.ID,
		Summary:    result.Summary,
		Duration:   result.Duration,
		ExecutedAt: result.StartedAt,
		Features:   relativeScreenshots(base, result.Features),
	}
	if err := htmlReport.Execute(w, data); err != nil {
		return fmt.Errorf("could not render HTML report: %w", err)
	}
	return nil
}

func relativeScreenshots(base string, features []FeatureResult) []FeatureResult {
	if base == "" {
		return features
	}
	rel := func(p string) string {
		if p == "" {
			return ""
		}
		if r, err := filepath.Rel(base, p); err == nil {
			return filepath.ToSlash(r)
		}
		return p
	}
	out := make([]FeatureResult, len(features))
	for i, f := range features {
		scenarios := make([]ScenarioResult, len(f.Scenarios))
		for j, s := range f.Scenarios {
			steps := make([]StepResult, len(s.Steps))
			for k, st := range s.Steps {
				st.Screenshot = rel(st.Screenshot)
				steps[k] = st
			}
			s.Steps = steps
			s.Screenshot = rel(s.Screenshot)
			scenarios[j] = s
		}
		f.Scenarios = scenarios
		out[i] = f
	}
	return out
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>UI Test Report</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #f8f9fa; color: #212529; line-height: 1.6; padding: 2rem;
  }
  h1 { font-size: 1.5rem; font-weight: 700; }
  .executed-at { font-size: 0.8rem; color: #868e96; margin-bottom: 1.5rem; }

  .summary {
    display: flex; gap: 1rem; flex-wrap: wrap; margin-bottom: 2rem;
    padding: 1rem 1.25rem; background: #fff; border-radius: 10px;
  }
  .summary.all-passed { border: 2px solid #2b8a3e; }
  .summary.has-failures { border: 2px solid #c92a2a; }
  .summary-item { text-align: center; min-width: 90px; }
  .summary-item .number { font-size: 1.8rem; font-weight: 700; }
  .summary-item .label { font-size: 0.7rem; text-transform: uppercase; color: #868e96; }
  .number.green { color: #2b8a3e; }
  .number.red { color: #c92a2a; }
  .number.yellow { color: #e67700; }
  .number.blue { color: #1864ab; }

  .feature { margin-bottom: 2rem; }
  .feature-header {
    font-size: 1.1rem; font-weight: 700; margin-bottom: 0.75rem;
    padding-bottom: 0.4rem; border-bottom: 2px solid #dee2e6;
  }
  .feature.failed .feature-header { color: #c92a2a; }
  .feature.passed .feature-header { color: #2b8a3e; }
  .feature-meta { font-size: 0.8rem; font-weight: 500; color: #868e96; }

  .scenario {
    margin-bottom: 0.5rem; background: #fff; border-radius: 8px;
    border: 1px solid #e9ecef; overflow: hidden;
  }
  .scenario.passed { border-left: 4px solid #69db7c; }
  .scenario.failed { border-left: 4px solid #ff6b6b; }
  .scenario-header {
    display: flex; justify-content: space-between; align-items: center;
    padding: 0.6rem 1rem; cursor: pointer; user-select: none;
  }
  .scenario-name { font-weight: 600; font-size: 0.9rem; }
  .scenario-meta { font-size: 0.78rem; color: #868e96; }
  .tag {
    background: #e9ecef; border-radius: 4px; padding: 0.1rem 0.45rem;
    font-size: 0.68rem; color: #495057;
  }

  .steps { padding: 0.5rem 1rem 0.75rem; display: none; background: #1e1f22; }
  .scenario.open .steps { display: block; }
  .step {
    display: flex; align-items: baseline; gap: 0.5rem; padding: 0.2rem 0;
    font-family: "JetBrains Mono", "Fira Code", monospace; font-size: 0.82rem;
  }
  .step-symbol { width: 1.2rem; text-align: center; font-weight: 700; }
  .step-symbol.passed { color: #32cd32; }
  .step-symbol.failed { color: #ff4444; }
  .step-symbol.skipped { color: #e6b800; }
  .step-keyword { color: #CF8E6D; font-weight: 600; white-space: pre; }
  .step-text { color: #BCBEC4; }
  .step-text.skipped, .step-keyword.skipped { color: #6F737A; }
  .step-param { font-weight: 600; }
  .step-duration { margin-left: auto; color: #6F737A; font-size: 0.72rem; }
  .step-error {
    color: #ff4444; background: #2c1a1a; border-radius: 4px;
    padding: 0.3rem 0.5rem; margin: 0.15rem 0 0.15rem 1.7rem;
    font-size: 0.78rem; white-space: pre-wrap;
  }
  .screenshot { margin: 0.3rem 0 0.3rem 1.7rem; }
  .screenshot img { max-width: 480px; border: 1px solid #4a2020; }
  .empty-msg { color: #868e96; font-style: italic; padding: 1rem 0; text-align: center; }
</style>
</head>
<body>
<h1>UI Test Report</h1>
<div class="executed-at">Run {{.ID}}{{if not .ExecutedAt.IsZero}} executed at {{formatTime .ExecutedAt}}{{end}}</div>

<div class="summary {{summaryClass .Summary.ScenariosFailed}}">
  <div class="summary-item"><div class="number blue">{{.Summary.Features}}</div><div class="label">Features</div></div>
  <div class="summary-item"><div class="number blue">{{.Summary.ScenariosTotal}}</div><div class="label">Scenarios</div></div>
  <div class="summary-item"><div class="number green">{{.Summary.ScenariosPassed}}</div><div class="label">Passed</div></div>
  <div class="summary-item"><div class="number red">{{.Summary.ScenariosFailed}}</div><div class="label">Failed</div></div>
  <div class="summary-item"><div class="number blue">{{.Summary.StepsTotal}}</div><div class="label">Steps</div></div>
  <div class="summary-item"><div class="number green">{{.Summary.StepsPassed}}</div><div class="label">Steps Passed</div></div>
  <div class="summary-item"><div class="number red">{{.Summary.StepsFailed}}</div><div class="label">Steps Failed</div></div>
  <div class="summary-item"><div class="number yellow">{{.Summary.StepsSkipped}}</div><div class="label">Steps Skipped</div></div>
  <div class="summary-item"><div class="number blue">{{formatDuration .Duration}}</div><div class="label">Duration</div></div>
</div>

{{range .Features}}
<div class="feature {{passWord .Passed}}">
  <div class="feature-header">Feature: {{.Name}} <span class="feature-meta">{{.URI}} ({{len .Scenarios}} scenarios, {{formatDuration .Duration}})</span></div>
  {{range .Scenarios}}
  <div class="scenario {{passWord .Passed}}{{if not .Passed}} open{{end}}">
    <div class="scenario-header" onclick="this.parentElement.classList.toggle('open')">
      <div>
        <span class="scenario-name">{{.Name}}</span>
        {{range .Tags}}<span class="tag">{{.}}</span> {{end}}
      </div>
      <div class="scenario-meta">{{formatDuration .Duration}}</div>
    </div>
    <div class="steps">
      {{range .Steps}}
      <div class="step">
        <span class="step-symbol {{.Status}}">{{statusSymbol .Status}}</span>
        <span class="step-keyword {{.Status}}">{{.Keyword}}</span>
        {{colorizeStepText .}}
        <span class="step-duration">{{formatDuration .Duration}}</span>
      </div>
      {{if .Error}}<div class="step-error">{{.Error}}</div>{{end}}
      {{if .Screenshot}}<div class="screenshot"><a href="{{.Screenshot}}"><img src="{{.Screenshot}}" alt="step screenshot"></a></div>{{end}}
      {{end}}
      {{if .Error}}<div class="step-error scenario-error">{{.Error}}</div>{{end}}
      {{if .Screenshot}}<div class="screenshot"><a href="{{.Screenshot}}"><img src="{{.Screenshot}}" alt="scenario screenshot"></a></div>{{end}}
    </div>
  </div>
  {{end}}
</div>
{{else}}
<div class="empty-msg">No scenarios were executed.</div>
{{end}}
</body>
</html>
`
