//go:generate mockgen -source=browser.go -destination=browser_mock.go -package=browser

// Package browser drives a real browser session for UI scenarios. Two
// backends are provided: chromedp (CDP, the default) and a WebDriver client.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

// Condition is the DOM state a wait is satisfied by.
type Condition int

const (
	// Present means the element is attached to the DOM.
	Present Condition = iota
	// Visible means present and rendered.
	Visible
	// Clickable means visible and enabled.
	Clickable
)

func (c Condition) String() string {
	switch c {
	case Present:
		return "present"
	case Visible:
		return "visible"
	case Clickable:
		return "clickable"
	default:
		return "unknown"
	}
}

type Cookie struct {
	Name   string
	Value  string
	Path   string
	Domain string
}

// Browser is one exclusively owned browser session.
type Browser interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)
	// WaitFor blocks until the element satisfies cond or the timeout expires,
	// in which case the error matches ErrTimeout.
	WaitFor(ctx context.Context, loc locator.Locator, cond Condition, timeout time.Duration) error
	// WaitURL blocks until match accepts the current URL and returns it.
	WaitURL(ctx context.Context, match func(string) bool, timeout time.Duration) (string, error)
	Click(ctx context.Context, loc locator.Locator) error
	// Fill clears the element and types text into it.
	Fill(ctx context.Context, loc locator.Locator, text string) error
	Text(ctx context.Context, loc locator.Locator) (string, error)
	Value(ctx context.Context, loc locator.Locator) (string, error)
	// Visible reports whether the element exists and is rendered, without waiting.
	Visible(ctx context.Context, loc locator.Locator) (bool, error)
	Enabled(ctx context.Context, loc locator.Locator) (bool, error)
	// Execute runs script in the page and decodes its return value into result
	// when result is non-nil.
	Execute(ctx context.Context, script string, result any) error
	Screenshot(ctx context.Context) ([]byte, error)
	ClearCookies(ctx context.Context) error
	SetCookie(ctx context.Context, cookie Cookie) error
	Refresh(ctx context.Context) error
	// Close ends the session. Calling it again is a no-op.
	Close() error
}

const (
	BackendChromedp = "chromedp"
	BackendSelenium = "selenium"
)

// LaunchOptions is the deterministic launch configuration shared by backends.
type LaunchOptions struct {
	Headless      bool
	Width, Height int
	ImplicitWait  time.Duration
	// ExecPath overrides the Chrome binary.
	ExecPath string
	// DriverPath starts a managed chromedriver for the WebDriver backend.
	DriverPath string
	DriverPort int
	// RemoteURL points the WebDriver backend at an existing server instead.
	RemoteURL string
	ExtraArgs []string
}

// DefaultLaunchOptions returns the CI-friendly defaults: headless, 1920x1080,
// sandbox and GPU disabled, 5s implicit wait.
func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		Headless:     true,
		Width:        1920,
		Height:       1080,
		ImplicitWait: 5 * time.Second,
		DriverPort:   9515,
	}
}

// Args returns the Chrome command line switches without leading dashes.
func (o LaunchOptions) Args() []string {
	args := []string{
		"disable-gpu",
		"no-sandbox",
		"disable-dev-shm-usage",
		fmt.Sprintf("window-size=%d,%d", o.Width, o.Height),
	}
	if o.Headless {
		args = append(args, "headless")
	}
	return append(args, o.ExtraArgs...)
}

// Factory constructs a session. The fixture layer calls it once per scenario.
type Factory func(ctx context.Context, opts LaunchOptions, log logrus.FieldLogger) (Browser, error)

// NewFactory returns the factory for a backend name.
func NewFactory(backend string) (Factory, error) {
	switch backend {
	case "", BackendChromedp:
		return func(ctx context.Context, opts LaunchOptions, log logrus.FieldLogger) (Browser, error) {
			return NewChromedp(ctx, opts, log)
		}, nil
	case BackendSelenium:
		return func(ctx context.Context, opts LaunchOptions, log logrus.FieldLogger) (Browser, error) {
			return NewSelenium(opts, log)
		}, nil
	}
	return nil, fmt.Errorf("unknown browser backend %q", backend)
}

var (
	ErrTimeout = errors.New("timed out")
	ErrClosed  = errors.New("browser session closed")
)

// TimeoutError is returned when a bounded wait expires. It is distinct from
// a locator missing from the registry.
type TimeoutError struct {
	What      string
	Condition Condition
	Timeout   time.Duration
	URL       string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s to be %s (url: %s)", e.Timeout, e.What, e.Condition, e.URL)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
