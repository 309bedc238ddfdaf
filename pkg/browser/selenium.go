package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"github.com/denizgursoy/cacik-ui/internal/logging"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

// Selenium is a Browser backed by a WebDriver session, optionally with a
// chromedriver process it manages itself.
type Selenium struct {
	wd      selenium.WebDriver
	service *selenium.Service
	opts    LaunchOptions
	log     logrus.FieldLogger

	mu     sync.Mutex
	closed bool
}

// NewSelenium connects to opts.RemoteURL, or starts chromedriver from
// opts.DriverPath (or $PATH) when no remote is configured.
func NewSelenium(opts LaunchOptions, log logrus.FieldLogger) (*Selenium, error) {
	log = logging.OrDiscard(log).WithField("backend", BackendSelenium)

	var service *selenium.Service
	remote := opts.RemoteURL
	if remote == "" {
		driverPath := opts.DriverPath
		if driverPath == "" {
			found, err := exec.LookPath("chromedriver")
			if err != nil {
				return nil, fmt.Errorf("chromedriver not found: set a driver path or remote url: %w", err)
			}
			driverPath = found
		}
		log.WithField("driver", driverPath).Debug("starting chromedriver")

		var err error
		service, err = selenium.NewChromeDriverService(driverPath, opts.DriverPort)
		if err != nil {
			return nil, fmt.Errorf("failed to start chromedriver: %w", err)
		}
		remote = fmt.Sprintf("http://localhost:%d/wd/hub", opts.DriverPort)
	}

	args := make([]string, 0, len(opts.Args()))
	for _, a := range opts.Args() {
		args = append(args, "--"+a)
	}
	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chrome.Capabilities{Args: args, Path: opts.ExecPath})

	wd, err := selenium.NewRemote(caps, remote)
	if err != nil {
		if service != nil {
			_ = service.Stop()
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}
	if opts.ImplicitWait > 0 {
		if err := wd.SetImplicitWaitTimeout(opts.ImplicitWait); err != nil {
			log.WithError(err).Warn("could not set implicit wait")
		}
	}

	return &Selenium{wd: wd, service: service, opts: opts, log: log}, nil
}

func (s *Selenium) check(ctx context.Context) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}
	return ctx.Err()
}

func (s *Selenium) find(ctx context.Context, loc locator.Locator) (selenium.WebElement, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	q, err := loc.Compile()
	if err != nil {
		return nil, err
	}
	return s.wd.FindElement(q.By, q.Value)
}

func (s *Selenium) Navigate(ctx context.Context, url string) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	s.log.WithField("url", url).Debug("navigating")
	return s.wd.Get(url)
}

func (s *Selenium) CurrentURL(ctx context.Context) (string, error) {
	if err := s.check(ctx); err != nil {
		return "", err
	}
	return s.wd.CurrentURL()
}

func (s *Selenium) WaitFor(ctx context.Context, loc locator.Locator, cond Condition, timeout time.Duration) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	q, err := loc.Compile()
	if err != nil {
		return err
	}

	satisfied := func(wd selenium.WebDriver) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		el, err := wd.FindElement(q.By, q.Value)
		if err != nil {
			return false, nil
		}
		switch cond {
		case Visible:
			return el.IsDisplayed()
		case Clickable:
			displayed, err := el.IsDisplayed()
			if err != nil || !displayed {
				return false, nil
			}
			return el.IsEnabled()
		}
		return true, nil
	}

	if err := s.wd.WaitWithTimeoutAndInterval(satisfied, timeout, pollInterval); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u, _ := s.wd.CurrentURL()
		return &TimeoutError{What: loc.Key, Condition: cond, Timeout: timeout, URL: u}
	}
	return nil
}

func (s *Selenium) WaitURL(ctx context.Context, match func(string) bool, timeout time.Duration) (string, error) {
	if err := s.check(ctx); err != nil {
		return "", err
	}
	var last string
	err := s.wd.WaitWithTimeoutAndInterval(func(wd selenium.WebDriver) (bool, error) {
		u, err := wd.CurrentURL()
		if err != nil {
			return false, err
		}
		last = u
		return match(u), nil
	}, timeout, pollInterval)
	if err != nil {
		return last, &TimeoutError{What: "url", Condition: Present, Timeout: timeout, URL: last}
	}
	return last, nil
}

func (s *Selenium) Click(ctx context.Context, loc locator.Locator) error {
	el, err := s.find(ctx, loc)
	if err != nil {
		return err
	}
	return el.Click()
}

func (s *Selenium) Fill(ctx context.Context, loc locator.Locator, text string) error {
	el, err := s.find(ctx, loc)
	if err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	return el.SendKeys(text)
}

func (s *Selenium) Text(ctx context.Context, loc locator.Locator) (string, error) {
	el, err := s.find(ctx, loc)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	return strings.TrimSpace(text), err
}

func (s *Selenium) Value(ctx context.Context, loc locator.Locator) (string, error) {
	el, err := s.find(ctx, loc)
	if err != nil {
		return "", err
	}
	return el.GetAttribute("value")
}

func (s *Selenium) Visible(ctx context.Context, loc locator.Locator) (bool, error) {
	if err := s.check(ctx); err != nil {
		return false, err
	}
	q, err := loc.Compile()
	if err != nil {
		return false, err
	}
	els, err := s.wd.FindElements(q.By, q.Value)
	if err != nil || len(els) == 0 {
		return false, nil
	}
	return els[0].IsDisplayed()
}

func (s *Selenium) Enabled(ctx context.Context, loc locator.Locator) (bool, error) {
	el, err := s.find(ctx, loc)
	if err != nil {
		return false, err
	}
	return el.IsEnabled()
}

// Execute wraps script in a return statement; WebDriver only hands back the
// values scripts return explicitly.
func (s *Selenium) Execute(ctx context.Context, script string, result any) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	out, err := s.wd.ExecuteScript("return "+strings.TrimSpace(script), nil)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}

func (s *Selenium) Screenshot(ctx context.Context) ([]byte, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	return s.wd.Screenshot()
}

func (s *Selenium) ClearCookies(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.wd.DeleteAllCookies()
}

func (s *Selenium) SetCookie(ctx context.Context, cookie Cookie) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.wd.AddCookie(&selenium.Cookie{
		Name:   cookie.Name,
		Value:  cookie.Value,
		Path:   cookie.Path,
		Domain: cookie.Domain,
	})
}

func (s *Selenium) Refresh(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	return s.wd.Refresh()
}

func (s *Selenium) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.wd.Quit()
	if s.service != nil {
		if stopErr := s.service.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}
	if err != nil {
		return fmt.Errorf("close webdriver: %w", err)
	}
	return nil
}
