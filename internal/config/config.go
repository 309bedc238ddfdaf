// Package config loads cacik-ui.toml, applies environment overrides and
// validates the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/cacik"
)

const (
	DefaultPath    = "cacik-ui.toml"
	DefaultEnvFile = ".env"
)

// Environment variables that override the file.
const (
	EnvBaseURL  = "CACIK_BASE_URL"
	EnvBrowser  = "CACIK_BROWSER"
	EnvHeadless = "CACIK_HEADLESS"
	EnvLogLevel = "CACIK_LOG_LEVEL"
)

// Config is the file layout of cacik-ui.toml.
type Config struct {
	BaseURL  string   `toml:"base_url" validate:"required,url"`
	LogLevel string   `toml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`
	Features []string `toml:"features" validate:"min=1,dive,required"`
	Locators string   `toml:"locators" validate:"required"`
	Tags     string   `toml:"tags"`
	FailFast bool     `toml:"fail_fast"`
	NoColor  bool     `toml:"no_color"`

	ElementTimeout string `toml:"element_timeout"` // e.g. "10s"
	StepTimeout    string `toml:"step_timeout"`    // empty means no limit

	Output  OutputConfig  `toml:"output"`
	Browser BrowserConfig `toml:"browser"`
	Mock    MockConfig    `toml:"mock"`
}

type OutputConfig struct {
	Screenshots string `toml:"screenshots" validate:"required"`
	Reports     string `toml:"reports" validate:"required"`
	Logs        string `toml:"logs" validate:"required"`
}

type BrowserConfig struct {
	Backend      string   `toml:"backend" validate:"oneof=chromedp selenium"`
	Headless     bool     `toml:"headless"`
	Width        int      `toml:"width" validate:"gt=0"`
	Height       int      `toml:"height" validate:"gt=0"`
	ImplicitWait string   `toml:"implicit_wait"`
	ExecPath     string   `toml:"exec_path"`
	DriverPath   string   `toml:"driver_path"`
	DriverPort   int      `toml:"driver_port" validate:"gte=0,lte=65535"`
	RemoteURL    string   `toml:"remote_url" validate:"omitempty,url"`
	Args         []string `toml:"args"`
}

type MockConfig struct {
	Mode      string `toml:"mode" validate:"oneof=server intercept"`
	Addr      string `toml:"addr" validate:"required,hostname_port"`
	Endpoints string `toml:"endpoints"`
	// Defaults serves the built-in login endpoints when the file is missing
	// or empty.
	Defaults bool `toml:"defaults"`
}

// Default mirrors the layout of a features/ checkout.
func Default() *Config {
	launch := browser.DefaultLaunchOptions()
	return &Config{
		BaseURL:        cacik.DefaultBaseURL,
		LogLevel:       "info",
		Features:       []string{"features"},
		Locators:       "features/meta_data/locators_babel.json",
		ElementTimeout: cacik.DefaultElementTimeout.String(),
		Output: OutputConfig{
			Screenshots: cacik.DefaultScreenshotsDir,
			Reports:     cacik.DefaultReportsDir,
			Logs:        cacik.DefaultLogsDir,
		},
		Browser: BrowserConfig{
			Backend:      browser.BackendChromedp,
			Headless:     launch.Headless,
			Width:        launch.Width,
			Height:       launch.Height,
			ImplicitWait: launch.ImplicitWait.String(),
			DriverPort:   launch.DriverPort,
		},
		Mock: MockConfig{
			Mode:      "server",
			Addr:      "localhost:8000",
			Endpoints: "config/endpoints.json",
			Defaults:  true,
		},
	}
}

type Options struct {
	// Path of the TOML file. A missing file is an error only when Required.
	Path     string
	Required bool
	// EnvFile is read for overrides the process environment does not set.
	// A missing file is ignored.
	EnvFile string
	// Lookup replaces os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load resolves configuration with priority: environment > .env > file >
// defaults.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !opts.Required:
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.Path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", opts.Path, err)
			}
		}
	}

	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if opts.EnvFile != "" {
		dotenv, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read env file %s: %w", opts.EnvFile, err)
		}
		lookup = chain(lookup, dotenv)
	}

	if err := applyEnvOverrides(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func chain(lookup func(string) (string, bool), fallback map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := fallback[key]
		return v, ok
	}
}

func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := lookup(EnvBrowser); ok && v != "" {
		cfg.Browser.Backend = v
	}
	if v, ok := lookup(EnvHeadless); ok && v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHeadless, err)
		}
		cfg.Browser.Headless = headless
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and that every duration parses.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for name, value := range map[string]string{
		"element_timeout":       c.ElementTimeout,
		"step_timeout":          c.StepTimeout,
		"browser.implicit_wait": c.Browser.ImplicitWait,
	} {
		if _, err := parseDuration(value); err != nil {
			return fmt.Errorf("invalid configuration: %s: %w", name, err)
		}
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

// Runner converts the file settings into the runner's configuration.
// Durations were checked by Validate.
func (c *Config) Runner() *cacik.Config {
	elementTimeout, _ := parseDuration(c.ElementTimeout)
	stepTimeout, _ := parseDuration(c.StepTimeout)
	return &cacik.Config{
		FailFast:       c.FailFast,
		NoColor:        c.NoColor,
		BaseURL:        c.BaseURL,
		ElementTimeout: elementTimeout,
		StepTimeout:    stepTimeout,
		ScreenshotsDir: c.Output.Screenshots,
		ReportsDir:     c.Output.Reports,
		LogsDir:        c.Output.Logs,
		Tags:           c.Tags,
	}
}

func (c *Config) LaunchOptions() browser.LaunchOptions {
	implicitWait, _ := parseDuration(c.Browser.ImplicitWait)
	return browser.LaunchOptions{
		Headless:     c.Browser.Headless,
		Width:        c.Browser.Width,
		Height:       c.Browser.Height,
		ImplicitWait: implicitWait,
		ExecPath:     c.Browser.ExecPath,
		DriverPath:   c.Browser.DriverPath,
		DriverPort:   c.Browser.DriverPort,
		RemoteURL:    c.Browser.RemoteURL,
		ExtraArgs:    c.Browser.Args,
	}
}
