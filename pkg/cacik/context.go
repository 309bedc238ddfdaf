// Package cacik provides the execution context for BDD step functions and
// the result types and reports of a run.
package cacik

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/logging"
	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/fixture"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
	"github.com/denizgursoy/cacik-ui/pkg/mockapi"
)

// DefaultElementTimeout bounds element waits that do not name a timeout.
const DefaultElementTimeout = 10 * time.Second

// Data provides scenario-scoped state management.
// Use this to store and retrieve values across steps within a scenario.
type Data struct {
	values map[string]any
}

func (d *Data) Set(key string, value any) {
	d.values[key] = value
}

// Get retrieves a value and reports whether it was set.
func (d *Data) Get(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// MustGet retrieves a value or fails the step.
func (d *Data) MustGet(key string) any {
	v, ok := d.values[key]
	if !ok {
		fail("key %q not found in context data", key)
	}
	return v
}

// Context is the execution context passed to all step functions. One is
// created per scenario and holds the fixtures that scenario acquired.
type Context struct {
	ctx            context.Context
	log            logrus.FieldLogger
	logger         Logger
	assert         *Assert
	data           *Data
	scenario       Scenario
	locators       *locator.Registry
	resources      fixture.Resources
	baseURL        string
	elementTimeout time.Duration
}

// New creates a new Context with the given options.
func New(opts ...Option) *Context {
	c := &Context{
		ctx:            context.Background(),
		log:            logging.Discard(),
		assert:         &Assert{},
		data:           &Data{values: make(map[string]any)},
		elementTimeout: DefaultElementTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = NewLogger(c.log)
	}
	if c.locators == nil {
		c.locators = locator.Load(nil, c.log)
	}
	return c
}

// Context returns the underlying context.Context. Browser calls made with it
// are cancelled when the step times out.
func (c *Context) Context() context.Context {
	return c.ctx
}

// WithContext updates the underlying context.Context.
func (c *Context) WithContext(ctx context.Context) {
	c.ctx = ctx
}

func (c *Context) Logger() Logger {
	return c.logger
}

// Assert returns the assertion helper. Failed assertions end the step.
func (c *Context) Assert() *Assert {
	return c.assert
}

func (c *Context) Data() *Data {
	return c.data
}

func (c *Context) Scenario() Scenario {
	return c.scenario
}

// Browser is the scenario's browser session, or nil when the scenario was
// not tagged for one.
func (c *Context) Browser() browser.Browser {
	return c.resources.Browser
}

// MockAPI is the scenario's HTTP mock, or nil.
func (c *Context) MockAPI() mockapi.Mock {
	return c.resources.Mock
}

// Backend is the scenario's backend fixture, or nil.
func (c *Context) Backend() fixture.Backend {
	return c.resources.Backend
}

func (c *Context) Locators() *locator.Registry {
	return c.locators
}

// BaseURL is the application root, without a trailing slash.
func (c *Context) BaseURL() string {
	return c.baseURL
}

// URL joins path onto BaseURL.
func (c *Context) URL(path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Context) ElementTimeout() time.Duration {
	return c.elementTimeout
}
