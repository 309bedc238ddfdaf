package cacik

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"

	colorKeyword = "\033[38;2;207;142;109m" // keywords (Feature:, Scenario:, Given, etc.)
	colorText    = "\033[38;2;188;190;196m" // step text, feature/scenario names
	colorParam   = "\033[38;2;92;146;255m"  // captured step parameters, table data cells
	colorHeader  = "\033[38;2;199;125;187m" // tags, table header cells
	colorSkipped = "\033[38;2;111;115;122m"
)

const (
	symbolPass = "✓"
	symbolFail = "✗"
	symbolSkip = "-"
)

// Reporter receives execution events as they happen.
type Reporter interface {
	FeatureStart(name string)
	ScenarioStart(name string, tags []string)

	// matchLocs holds [start, end] byte offsets of each capture group within
	// text. Pass nil when match info is unavailable.
	StepPassed(keyword, text string, matchLocs []int)
	StepFailed(keyword, text, errMsg string, matchLocs []int)
	StepSkipped(keyword, text string)

	// StepDataTable prints a DataTable attached to the step reported last.
	StepDataTable(rows [][]string)

	// Summary prints the final counters.
	Summary(s Summary)
}

// ConsoleReporter prints steps as they finish, colored when enabled.
type ConsoleReporter struct {
	mu        sync.Mutex
	out       io.Writer
	useColors bool
}

func NewConsoleReporter(out io.Writer, useColors bool) *ConsoleReporter {
	return &ConsoleReporter{out: out, useColors: useColors}
}

func (r *ConsoleReporter) writeln(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = io.WriteString(r.out, s+"\n")
}

func (r *ConsoleReporter) color(c, s string) string {
	if r.useColors {
		return c + s + colorReset
	}
	return s
}

func (r *ConsoleReporter) FeatureStart(name string) {
	r.writeln("")
	r.writeln(r.color(colorKeyword, "Feature:") + " " + r.color(colorText, name))
}

func (r *ConsoleReporter) ScenarioStart(name string, tags []string) {
	r.writeln("")
	if len(tags) > 0 {
		r.writeln("  " + r.color(colorHeader, strings.Join(tags, " ")))
	}
	r.writeln("  " + r.color(colorKeyword, "Scenario:") + " " + r.color(colorText, name))
}

func (r *ConsoleReporter) formatStep(keyword, text string, matchLocs []int) string {
	return "    " + r.color(colorKeyword, keyword) + r.colorizeStepText(text, matchLocs)
}

// colorizeStepText highlights capture-group regions with the parameter
// color.
func (r *ConsoleReporter) colorizeStepText(text string, matchLocs []int) string {
	if !r.useColors || len(matchLocs) < 2 {
		return r.color(colorText, text)
	}

	var b strings.Builder
	prev := 0
	for i := 0; i+1 < len(matchLocs); i += 2 {
		start, end := matchLocs[i], matchLocs[i+1]
		if start < prev || end > len(text) || start >= end {
			continue
		}
		if start > prev {
			b.WriteString(colorText + text[prev:start] + colorReset)
		}
		b.WriteString(colorParam + text[start:end] + colorReset)
		prev = end
	}
	if prev < len(text) {
		b.WriteString(colorText + text[prev:] + colorReset)
	}
	return b.String()
}

func (r *ConsoleReporter) StepPassed(keyword, text string, matchLocs []int) {
	r.writeln(fmt.Sprintf("%-60s %s", r.formatStep(keyword, text, matchLocs), r.color(colorGreen, symbolPass)))
}

// StepFailed prints the step followed by the indented error message.
func (r *ConsoleReporter) StepFailed(keyword, text, errMsg string, matchLocs []int) {
	r.writeln(fmt.Sprintf("%-60s %s", r.formatStep(keyword, text, matchLocs), r.color(colorRed, symbolFail)))
	if errMsg == "" {
		return
	}
	for _, line := range strings.Split(errMsg, "\n") {
		r.writeln(r.color(colorRed, "      "+line))
	}
}

func (r *ConsoleReporter) StepSkipped(keyword, text string) {
	step := "    " + r.color(colorSkipped, keyword) + r.color(colorSkipped, text)
	r.writeln(fmt.Sprintf("%-60s %s", step, r.color(colorYellow, symbolSkip)))
}

// StepDataTable prints rows with aligned columns. The first row is the
// header.
func (r *ConsoleReporter) StepDataTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}

	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], len(cell))
		}
	}

	pipe := r.color(colorKeyword, "|")
	for rowIdx, row := range rows {
		var b strings.Builder
		b.WriteString("      " + pipe + " ")
		for i, cell := range row {
			padded := fmt.Sprintf("%-*s", widths[i], cell)
			if rowIdx == 0 {
				b.WriteString(r.color(colorHeader, padded))
			} else {
				b.WriteString(r.color(colorParam, padded))
			}
			b.WriteString(" " + pipe + " ")
		}
		r.writeln(strings.TrimRight(b.String(), " "))
	}
}

func (r *ConsoleReporter) Summary(s Summary) {
	r.writeln("")
	r.writeln(r.countLine("scenario(s)", s.ScenariosTotal, s.ScenariosPassed, s.ScenariosFailed, 0))
	r.writeln(r.countLine("step(s)", s.StepsTotal, s.StepsPassed, s.StepsFailed, s.StepsSkipped))
}

func (r *ConsoleReporter) countLine(noun string, total, passed, failed, skipped int) string {
	line := fmt.Sprintf("%d %s", total, noun)
	var parts []string
	if passed > 0 {
		parts = append(parts, r.color(colorGreen, fmt.Sprintf("%d passed", passed)))
	}
	if failed > 0 {
		parts = append(parts, r.color(colorRed, fmt.Sprintf("%d failed", failed)))
	}
	if skipped > 0 {
		parts = append(parts, r.color(colorYellow, fmt.Sprintf("%d skipped", skipped)))
	}
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, ", ") + ")"
	}
	return line
}

// NoopReporter discards every event.
type NoopReporter struct{}

func (NoopReporter) FeatureStart(string) {}
func (NoopReporter) ScenarioStart(string, []string) {}
func (NoopReporter) StepPassed(string, string, []int) {}
func (NoopReporter) StepFailed(string, string, string, []int) {}
func (NoopReporter) StepSkipped(string, string) {}
func (NoopReporter) StepDataTable([][]string) {}
func (NoopReporter) Summary(Summary) {}
