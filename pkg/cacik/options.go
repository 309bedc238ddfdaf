package cacik

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/pkg/fixture"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logrus logger behind both Logger() and the context's
// own diagnostics.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Context) {
		if log != nil {
			c.log = log
		}
	}
}

// WithStepLogger overrides the Logger handed to step functions.
func WithStepLogger(logger Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

func WithContext(ctx context.Context) Option {
	return func(c *Context) {
		c.ctx = ctx
	}
}

// WithData sets initial data for the context.
func WithData(data map[string]any) Option {
	return func(c *Context) {
		c.data.values = data
	}
}

func WithScenario(s Scenario) Option {
	return func(c *Context) {
		c.scenario = s
	}
}

func WithLocators(r *locator.Registry) Option {
	return func(c *Context) {
		c.locators = r
	}
}

// WithResources attaches the fixtures acquired for the scenario.
func WithResources(res *fixture.Resources) Option {
	return func(c *Context) {
		if res != nil {
			c.resources = *res
		}
	}
}

func WithBaseURL(url string) Option {
	return func(c *Context) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithElementTimeout sets the wait used by Find when none is given.
func WithElementTimeout(d time.Duration) Option {
	return func(c *Context) {
		if d > 0 {
			c.elementTimeout = d
		}
	}
}
