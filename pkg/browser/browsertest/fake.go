// Package browsertest provides an in-memory browser.Browser with a scripted
// DOM, for tests that exercise steps and fixtures without Chrome.
package browsertest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

var ErrNoSuchElement = errors.New("no such element")

// PNG is what Screenshot returns.
var PNG = []byte("\x89PNG\r\n\x1a\nfake")

// Element is a node of the fake DOM, addressed by its selector.
type Element struct {
	Text     string
	Value    string
	Hidden   bool
	Disabled bool
	// OnClick runs after a click, without the fake's lock held.
	OnClick func(f *Fake)
}

// Page populates the DOM when its path is loaded.
type Page func(f *Fake)

// Fake is a scripted browser. Elements are keyed by locator selector.
type Fake struct {
	mu          sync.Mutex
	url         string
	routes      map[string]Page
	elements    map[string]*Element
	cookies     map[string]browser.Cookie
	scripts     []string
	screenshots int
	closes      int
	navigations []string

	// ExecuteFunc answers Execute. The returned value is decoded into the
	// caller's result.
	ExecuteFunc func(script string) (any, error)
}

func New() *Fake {
	return &Fake{
		routes:   make(map[string]Page),
		elements: make(map[string]*Element),
		cookies:  make(map[string]browser.Cookie),
	}
}

// Factory hands out f for every acquisition.
func Factory(f *Fake) browser.Factory {
	return func(context.Context, browser.LaunchOptions, logrus.FieldLogger) (browser.Browser, error) {
		return f, nil
	}
}

// FailingFactory simulates a browser that cannot be launched.
func FailingFactory(err error) browser.Factory {
	return func(context.Context, browser.LaunchOptions, logrus.FieldLogger) (browser.Browser, error) {
		return nil, err
	}
}

// Route registers the page shown for a URL path.
func (f *Fake) Route(path string, page Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = page
}

// Set places or replaces an element.
func (f *Fake) Set(selector string, el *Element) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.elements[selector] = el
}

func (f *Fake) Remove(selector string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.elements, selector)
}

// Element returns a copy of the element at selector.
func (f *Fake) Element(selector string) (Element, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el, ok := f.elements[selector]
	if !ok {
		return Element{}, false
	}
	return *el, true
}

func (f *Fake) Scripts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.scripts...)
}

func (f *Fake) Screenshots() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.screenshots
}

func (f *Fake) CloseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

func (f *Fake) Navigations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.navigations...)
}

func (f *Fake) Cookie(name string) (browser.Cookie, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cookies[name]
	return c, ok
}

// Load switches the page to rawURL and renders its route. It is what
// Navigate does, usable from OnClick handlers.
func (f *Fake) Load(rawURL string) {
	f.mu.Lock()
	f.url = rawURL
	f.navigations = append(f.navigations, rawURL)
	f.elements = make(map[string]*Element)
	var page Page
	if u, err := url.Parse(rawURL); err == nil {
		page = f.routes[u.Path]
	}
	f.mu.Unlock()

	if page != nil {
		page(f)
	}
}

func (f *Fake) Navigate(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.Load(rawURL)
	return nil
}

func (f *Fake) CurrentURL(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url, nil
}

func (f *Fake) satisfied(loc locator.Locator, cond browser.Condition) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	el, ok := f.elements[loc.Selector]
	if !ok {
		return false
	}
	switch cond {
	case browser.Visible:
		return !el.Hidden
	case browser.Clickable:
		return !el.Hidden && !el.Disabled
	}
	return true
}

func (f *Fake) WaitFor(ctx context.Context, loc locator.Locator, cond browser.Condition, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if f.satisfied(loc, cond) {
			return nil
		}
		if !time.Now().Before(deadline) {
			u, _ := f.CurrentURL(ctx)
			return &browser.TimeoutError{What: loc.Key, Condition: cond, Timeout: timeout, URL: u}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (f *Fake) WaitURL(ctx context.Context, match func(string) bool, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for {
		u, _ := f.CurrentURL(ctx)
		if match(u) {
			return u, nil
		}
		if !time.Now().Before(deadline) {
			return u, &browser.TimeoutError{What: "url", Condition: browser.Present, Timeout: timeout, URL: u}
		}
		select {
		case <-ctx.Done():
			return u, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (f *Fake) lookup(loc locator.Locator) (*Element, error) {
	el, ok := f.elements[loc.Selector]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchElement, loc)
	}
	return el, nil
}

func (f *Fake) Click(_ context.Context, loc locator.Locator) error {
	f.mu.Lock()
	el, err := f.lookup(loc)
	if err == nil && (el.Hidden || el.Disabled) {
		err = fmt.Errorf("element not interactable: %s", loc)
	}
	var onClick func(*Fake)
	if err == nil {
		onClick = el.OnClick
	}
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if onClick != nil {
		onClick(f)
	}
	return nil
}

func (f *Fake) Fill(_ context.Context, loc locator.Locator, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	el, err := f.lookup(loc)
	if err != nil {
		return err
	}
	el.Value = text
	return nil
}

func (f *Fake) Text(_ context.Context, loc locator.Locator) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el, err := f.lookup(loc)
	if err != nil {
		return "", err
	}
	return el.Text, nil
}

func (f *Fake) Value(_ context.Context, loc locator.Locator) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el, err := f.lookup(loc)
	if err != nil {
		return "", err
	}
	return el.Value, nil
}

func (f *Fake) Visible(_ context.Context, loc locator.Locator) (bool, error) {
	return f.satisfied(loc, browser.Visible), nil
}

func (f *Fake) Enabled(_ context.Context, loc locator.Locator) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	el, err := f.lookup(loc)
	if err != nil {
		return false, err
	}
	return !el.Disabled, nil
}

func (f *Fake) Execute(_ context.Context, script string, result any) error {
	f.mu.Lock()
	f.scripts = append(f.scripts, script)
	fn := f.ExecuteFunc
	f.mu.Unlock()

	if fn == nil {
		return nil
	}
	out, err := fn(script)
	if err != nil || result == nil {
		return err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}

func (f *Fake) Screenshot(context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.screenshots++
	return PNG, nil
}

func (f *Fake) ClearCookies(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookies = make(map[string]browser.Cookie)
	return nil
}

func (f *Fake) SetCookie(_ context.Context, c browser.Cookie) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookies[c.Name] = c
	return nil
}

func (f *Fake) Refresh(ctx context.Context) error {
	u, _ := f.CurrentURL(ctx)
	f.Load(u)
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
	return nil
}
