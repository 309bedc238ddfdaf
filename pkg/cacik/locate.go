package cacik

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

// EmptySentinel in step input means "an empty string on purpose".
const EmptySentinel = "<empty>"

var ErrNoBrowser = errors.New("scenario has no browser session")

// Input normalizes a captured step argument: surrounding space and quotes
// are trimmed and EmptySentinel becomes "".
func Input(s string) string {
	s = strings.Trim(strings.TrimSpace(s), `"'`)
	if s == EmptySentinel {
		return ""
	}
	return s
}

// ElementNotFoundError is returned by Find when no key produced an element.
// It matches browser.ErrTimeout when at least one key was waited on and
// locator.ErrNotFound otherwise.
type ElementNotFoundError struct {
	Keys     []string
	Timeout  time.Duration
	URL      string
	TimedOut bool
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("no element found for keys [%s] within %s (url: %s)", strings.Join(e.Keys, ", "), e.Timeout, e.URL)
}

func (e *ElementNotFoundError) Is(target error) bool {
	if e.TimedOut {
		return target == browser.ErrTimeout
	}
	return target == locator.ErrNotFound
}

// GetLocator resolves key, failing with a classified not-found error.
func (c *Context) GetLocator(key string) (locator.Locator, error) {
	return c.locators.MustResolve(key)
}

// TryLocator resolves key without failing.
func (c *Context) TryLocator(key string) (locator.Locator, bool) {
	return c.locators.Resolve(key)
}

// RequireBrowser returns the browser session or ErrNoBrowser.
func (c *Context) RequireBrowser() (browser.Browser, error) {
	if c.resources.Browser == nil {
		return nil, fmt.Errorf("%w: tag the scenario @ui", ErrNoBrowser)
	}
	return c.resources.Browser, nil
}

// Find returns the first of keys whose element reaches cond. Keys are tried
// in order, each for up to timeout (the element timeout when zero); keys the
// registry cannot resolve are skipped without waiting.
func (c *Context) Find(ctx context.Context, cond browser.Condition, timeout time.Duration, keys ...string) (locator.Locator, error) {
	b, err := c.RequireBrowser()
	if err != nil {
		return locator.Locator{}, err
	}
	if timeout <= 0 {
		timeout = c.elementTimeout
	}

	notFound := &ElementNotFoundError{Keys: keys, Timeout: timeout}
	for _, key := range keys {
		loc, ok := c.TryLocator(key)
		if !ok {
			continue
		}
		err := b.WaitFor(ctx, loc, cond, timeout)
		if err == nil {
			return loc, nil
		}
		if ctx.Err() != nil {
			return locator.Locator{}, ctx.Err()
		}
		if !errors.Is(err, browser.ErrTimeout) {
			return locator.Locator{}, fmt.Errorf("wait for %s: %w", key, err)
		}
		notFound.TimedOut = true
		c.log.WithFields(logrus.Fields{"key": key, "timeout": timeout}).Debug("element did not appear, trying next key")
	}

	notFound.URL, _ = b.CurrentURL(ctx)
	c.log.WithFields(logrus.Fields{
		"keys":    keys,
		"timeout": timeout,
		"url":     notFound.URL,
	}).Error("element not found")
	return locator.Locator{}, notFound
}
