package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/logging"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

const (
	navigationTimeout = 30 * time.Second
	pollInterval      = 100 * time.Millisecond
)

// Chromedp is a Browser backed by a Chrome DevTools Protocol session.
type Chromedp struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	opts        LaunchOptions
	log         logrus.FieldLogger

	mu     sync.Mutex
	closed bool
}

// NewChromedp launches Chrome and forces the session to start so launch
// failures surface here instead of on the first step.
func NewChromedp(ctx context.Context, opts LaunchOptions, log logrus.FieldLogger) (*Chromedp, error) {
	log = logging.OrDiscard(log).WithField("backend", BackendChromedp)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoSandbox,
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	for _, arg := range opts.ExtraArgs {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if hasValue {
			allocOpts = append(allocOpts, chromedp.Flag(name, value))
		} else {
			allocOpts = append(allocOpts, chromedp.Flag(name, true))
		}
	}

	// The session outlives the acquisition call; only Close ends it.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Debugf), chromedp.WithErrorf(log.Errorf))

	startCtx, stop := context.WithTimeout(browserCtx, navigationTimeout)
	defer stop()
	if err := chromedp.Run(startCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	log.WithFields(logrus.Fields{"headless": opts.Headless, "width": opts.Width, "height": opts.Height}).Debug("chrome session started")
	return &Chromedp{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		opts:        opts,
		log:         log,
	}, nil
}

// run executes actions on the session bounded by timeout and by the caller's
// context.
func (c *Chromedp) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(c.ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(c.ctx)
	}
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (c *Chromedp) actionTimeout() time.Duration {
	if c.opts.ImplicitWait > 0 {
		return c.opts.ImplicitWait
	}
	return navigationTimeout
}

func selectorFor(loc locator.Locator) (string, chromedp.QueryOption, error) {
	if css, err := loc.CSS(); err == nil {
		return css, chromedp.ByQuery, nil
	}
	xp, err := loc.XPath()
	if err != nil {
		return "", nil, err
	}
	return xp, chromedp.BySearch, nil
}

// elementExpr is a JS expression yielding the element or null without waiting.
func elementExpr(loc locator.Locator) (string, error) {
	if css, err := loc.CSS(); err == nil {
		q, _ := json.Marshal(css)
		return fmt.Sprintf("document.querySelector(%s)", q), nil
	}
	xp, err := loc.XPath()
	if err != nil {
		return "", err
	}
	q, _ := json.Marshal(xp)
	return fmt.Sprintf("document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue", q), nil
}

func (c *Chromedp) Navigate(ctx context.Context, url string) error {
	c.log.WithField("url", url).Debug("navigating")
	return c.run(ctx, navigationTimeout, chromedp.Navigate(url))
}

func (c *Chromedp) CurrentURL(ctx context.Context) (string, error) {
	var u string
	err := c.run(ctx, c.actionTimeout(), chromedp.Location(&u))
	return u, err
}

func (c *Chromedp) WaitFor(ctx context.Context, loc locator.Locator, cond Condition, timeout time.Duration) error {
	sel, by, err := selectorFor(loc)
	if err != nil {
		return err
	}

	var actions []chromedp.Action
	switch cond {
	case Present:
		actions = append(actions, chromedp.WaitReady(sel, by))
	case Visible:
		actions = append(actions, chromedp.WaitVisible(sel, by))
	case Clickable:
		actions = append(actions, chromedp.WaitVisible(sel, by), chromedp.WaitEnabled(sel, by))
	}

	err = c.run(ctx, timeout, actions...)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return &TimeoutError{What: loc.Key, Condition: cond, Timeout: timeout, URL: c.urlForError()}
	}
	return err
}

func (c *Chromedp) WaitURL(ctx context.Context, match func(string) bool, timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	for {
		u, err := c.CurrentURL(ctx)
		if err != nil {
			return "", err
		}
		if match(u) {
			return u, nil
		}
		if time.Now().After(deadline) {
			return u, &TimeoutError{What: "url", Condition: Present, Timeout: timeout, URL: u}
		}
		select {
		case <-ctx.Done():
			return u, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

func (c *Chromedp) Click(ctx context.Context, loc locator.Locator) error {
	sel, by, err := selectorFor(loc)
	if err != nil {
		return err
	}
	return c.run(ctx, c.actionTimeout(), chromedp.Click(sel, by, chromedp.NodeVisible))
}

func (c *Chromedp) Fill(ctx context.Context, loc locator.Locator, text string) error {
	sel, by, err := selectorFor(loc)
	if err != nil {
		return err
	}
	actions := []chromedp.Action{chromedp.Clear(sel, by)}
	if text != "" {
		actions = append(actions, chromedp.SendKeys(sel, text, by))
	}
	return c.run(ctx, c.actionTimeout(), actions...)
}

func (c *Chromedp) Text(ctx context.Context, loc locator.Locator) (string, error) {
	sel, by, err := selectorFor(loc)
	if err != nil {
		return "", err
	}
	var s string
	err = c.run(ctx, c.actionTimeout(), chromedp.Text(sel, &s, by))
	return strings.TrimSpace(s), err
}

func (c *Chromedp) Value(ctx context.Context, loc locator.Locator) (string, error) {
	sel, by, err := selectorFor(loc)
	if err != nil {
		return "", err
	}
	var s string
	err = c.run(ctx, c.actionTimeout(), chromedp.Value(sel, &s, by))
	return s, err
}

func (c *Chromedp) Visible(ctx context.Context, loc locator.Locator) (bool, error) {
	expr, err := elementExpr(loc)
	if err != nil {
		return false, err
	}
	script := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		const style = window.getComputedStyle(el);
		const rect = el.getBoundingClientRect();
		return style.display !== 'none' && style.visibility !== 'hidden' && rect.width > 0 && rect.height > 0;
	})()`, expr)
	var visible bool
	err = c.run(ctx, c.actionTimeout(), chromedp.Evaluate(script, &visible))
	return visible, err
}

func (c *Chromedp) Enabled(ctx context.Context, loc locator.Locator) (bool, error) {
	expr, err := elementExpr(loc)
	if err != nil {
		return false, err
	}
	var enabled bool
	err = c.run(ctx, c.actionTimeout(), chromedp.Evaluate(fmt.Sprintf(`(() => { const el = %s; return !!el && !el.disabled; })()`, expr), &enabled))
	return enabled, err
}

func (c *Chromedp) Execute(ctx context.Context, script string, result any) error {
	return c.run(ctx, c.actionTimeout(), chromedp.Evaluate(script, result))
}

func (c *Chromedp) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := c.run(ctx, c.actionTimeout(), chromedp.CaptureScreenshot(&buf))
	return buf, err
}

func (c *Chromedp) ClearCookies(ctx context.Context) error {
	return c.run(ctx, c.actionTimeout(), network.ClearBrowserCookies())
}

func (c *Chromedp) SetCookie(ctx context.Context, cookie Cookie) error {
	return c.run(ctx, c.actionTimeout(), chromedp.ActionFunc(func(ctx context.Context) error {
		params := network.SetCookie(cookie.Name, cookie.Value)
		if cookie.Path != "" {
			params = params.WithPath(cookie.Path)
		}
		if cookie.Domain != "" {
			return params.WithDomain(cookie.Domain).Do(ctx)
		}
		var u string
		if err := chromedp.Location(&u).Do(ctx); err != nil {
			return err
		}
		return params.WithURL(u).Do(ctx)
	}))
}

func (c *Chromedp) Refresh(ctx context.Context) error {
	return c.run(ctx, navigationTimeout, chromedp.Reload())
}

func (c *Chromedp) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	err := chromedp.Cancel(c.ctx)
	c.cancel()
	c.allocCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close chrome: %w", err)
	}
	c.log.Debug("chrome session closed")
	return nil
}

// urlForError fetches the current URL for diagnostics; failures yield "".
func (c *Chromedp) urlForError() string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	u, _ := c.CurrentURL(ctx)
	return u
}
