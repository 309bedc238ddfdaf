package cacik

import "time"

// Config holds runtime configuration settings.
// Settings are merged from all discovered config functions (last wins).
// Command line flags override code config.
type Config struct {
	// FailFast stops execution on first scenario failure.
	FailFast bool

	NoColor bool

	// DisableReporter silences the console reporter. Report files are still
	// written.
	DisableReporter bool

	// BaseURL is the root of the application under test.
	BaseURL string

	// ElementTimeout bounds element waits that do not name their own.
	ElementTimeout time.Duration

	// StepTimeout cancels a step's context when it runs longer. Zero means
	// no limit.
	StepTimeout time.Duration

	ScreenshotsDir string
	ReportsDir     string
	LogsDir        string

	// Tags is a cucumber tag expression selecting scenarios.
	Tags string
}

// Defaults used when a Config leaves a field empty.
const (
	DefaultBaseURL        = "http://localhost:3000"
	DefaultScreenshotsDir = "features/screenshots"
	DefaultReportsDir     = "features/reports"
	DefaultLogsDir        = "features/logs"
)

// WithDefaults fills empty fields.
func (c Config) WithDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.ElementTimeout <= 0 {
		c.ElementTimeout = DefaultElementTimeout
	}
	if c.ScreenshotsDir == "" {
		c.ScreenshotsDir = DefaultScreenshotsDir
	}
	if c.ReportsDir == "" {
		c.ReportsDir = DefaultReportsDir
	}
	if c.LogsDir == "" {
		c.LogsDir = DefaultLogsDir
	}
	return c
}

// MergeConfigs combines multiple configs into one. Later non-zero values
// override earlier ones.
func MergeConfigs(configs ...*Config) *Config {
	result := &Config{}
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		result.FailFast = result.FailFast || cfg.FailFast
		result.NoColor = result.NoColor || cfg.NoColor
		result.DisableReporter = result.DisableReporter || cfg.DisableReporter
		override(&result.BaseURL, cfg.BaseURL)
		override(&result.ScreenshotsDir, cfg.ScreenshotsDir)
		override(&result.ReportsDir, cfg.ReportsDir)
		override(&result.LogsDir, cfg.LogsDir)
		override(&result.Tags, cfg.Tags)
		override(&result.ElementTimeout, cfg.ElementTimeout)
		override(&result.StepTimeout, cfg.StepTimeout)
	}
	return result
}

func override[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
