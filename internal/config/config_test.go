package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/cacik"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// =============================================================================
// Load Tests
// =============================================================================

func TestLoad(t *testing.T) {
	t.Run("defaults when the file is missing", func(t *testing.T) {
		cfg, err := Load(Options{Path: "testdata/missing.toml", Lookup: env(nil)})
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
		require.Equal(t, "http://localhost:3000", cfg.BaseURL)
		require.Equal(t, "localhost:8000", cfg.Mock.Addr)
		require.Equal(t, "config/endpoints.json", cfg.Mock.Endpoints)
	})

	t.Run("missing required file", func(t *testing.T) {
		_, err := Load(Options{Path: "testdata/missing.toml", Required: true, Lookup: env(nil)})
		require.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("reads every section", func(t *testing.T) {
		cfg, err := Load(Options{Path: "testdata/cacik-ui.toml", Lookup: env(nil)})
		require.NoError(t, err)

		require.Equal(t, "http://staging.example.com", cfg.BaseURL)
		require.Equal(t, []string{"features", "more-features"}, cfg.Features)
		require.Equal(t, "@smoke and not @slow", cfg.Tags)
		require.True(t, cfg.FailFast)
		require.Equal(t, "out/reports", cfg.Output.Reports)
		require.Equal(t, "selenium", cfg.Browser.Backend)
		require.False(t, cfg.Browser.Headless)
		require.Equal(t, "intercept", cfg.Mock.Mode)
		require.False(t, cfg.Mock.Defaults)
	})

	t.Run("keeps defaults for keys the file omits", func(t *testing.T) {
		cfg, err := Load(Options{Path: "testdata/invalid.toml", Lookup: env(map[string]string{EnvBrowser: "chromedp"})})
		require.NoError(t, err)
		require.Equal(t, 1920, cfg.Browser.Width)
		require.True(t, cfg.Browser.Headless)
	})

	t.Run("rejects malformed toml", func(t *testing.T) {
		_, err := Load(Options{Path: "testdata/broken.toml", Lookup: env(nil)})
		require.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("rejects values outside their range", func(t *testing.T) {
		_, err := Load(Options{Path: "testdata/invalid.toml", Lookup: env(nil)})
		require.ErrorContains(t, err, "invalid configuration")
		require.ErrorContains(t, err, "Backend")
	})

	t.Run("rejects unparsable durations", func(t *testing.T) {
		_, err := Load(Options{Path: "testdata/bad-duration.toml", Lookup: env(nil)})
		require.ErrorContains(t, err, "element_timeout")
	})
}

func TestLoad_Environment(t *testing.T) {
	t.Run("environment overrides the file", func(t *testing.T) {
		cfg, err := Load(Options{
			Path: "testdata/cacik-ui.toml",
			Lookup: env(map[string]string{
				EnvBaseURL:  "http://ci.example.com",
				EnvBrowser:  "chromedp",
				EnvHeadless: "true",
				EnvLogLevel: "warn",
			}),
		})
		require.NoError(t, err)
		require.Equal(t, "http://ci.example.com", cfg.BaseURL)
		require.Equal(t, "chromedp", cfg.Browser.Backend)
		require.True(t, cfg.Browser.Headless)
		require.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("env file fills what the environment leaves unset", func(t *testing.T) {
		cfg, err := Load(Options{
			EnvFile: "testdata/test.env",
			Lookup:  env(map[string]string{EnvBaseURL: "http://process.example.com"}),
		})
		require.NoError(t, err)
		require.Equal(t, "http://process.example.com", cfg.BaseURL)
		require.False(t, cfg.Browser.Headless)
	})

	t.Run("missing env file is ignored", func(t *testing.T) {
		_, err := Load(Options{EnvFile: "testdata/none.env", Lookup: env(nil)})
		require.NoError(t, err)
	})

	t.Run("invalid headless value", func(t *testing.T) {
		_, err := Load(Options{Lookup: env(map[string]string{EnvHeadless: "sometimes"})})
		require.ErrorContains(t, err, EnvHeadless)
	})

	t.Run("unknown browser backend", func(t *testing.T) {
		_, err := Load(Options{Lookup: env(map[string]string{EnvBrowser: "netscape"})})
		require.ErrorContains(t, err, "invalid configuration")
	})
}

// =============================================================================
// Conversion Tests
// =============================================================================

func TestConfig_Runner(t *testing.T) {
	cfg, err := Load(Options{Path: "testdata/cacik-ui.toml", Lookup: env(nil)})
	require.NoError(t, err)

	require.Equal(t, &cacik.Config{
		FailFast:       true,
		BaseURL:        "http://staging.example.com",
		ElementTimeout: 3 * time.Second,
		StepTimeout:    time.Minute,
		ScreenshotsDir: "out/screenshots",
		ReportsDir:     "out/reports",
		LogsDir:        "out/logs",
		Tags:           "@smoke and not @slow",
	}, cfg.Runner())

	require.Zero(t, Default().Runner().StepTimeout)
}

func TestConfig_LaunchOptions(t *testing.T) {
	t.Run("defaults match the browser defaults", func(t *testing.T) {
		require.Equal(t, browser.DefaultLaunchOptions(), Default().LaunchOptions())
	})

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(Options{Path: "testdata/cacik-ui.toml", Lookup: env(nil)})
		require.NoError(t, err)

		opts := cfg.LaunchOptions()
		require.False(t, opts.Headless)
		require.Equal(t, 1280, opts.Width)
		require.Equal(t, 2*time.Second, opts.ImplicitWait)
		require.Equal(t, "http://grid:4444/wd/hub", opts.RemoteURL)
		require.Equal(t, []string{"--lang=en-US"}, opts.ExtraArgs)
	})
}
