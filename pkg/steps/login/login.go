// Package login holds the step definitions for the login form and the
// dashboard behind it. Each step resolves elements through the scenario's
// locator table, so the same steps serve any application whose metadata
// names these keys.
package login

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/cacik"
	"github.com/denizgursoy/cacik-ui/pkg/runner"
)

// Locator keys, most specific first. Find tries them in order.
var (
	EmailKeys    = []string{"email-input", "email"}
	PasswordKeys = []string{"password-input", "password"}
	ButtonKeys   = []string{"login-button", "login-btn", "submit"}
)

const (
	FormKey          = "login-form"
	EmailErrorKey    = "email-error"
	PasswordErrorKey = "password-error"
	ErrorMessageKey  = "error-message"
	DashboardKey     = "dashboard"
	WelcomeKey       = "welcome-message"

	SessionCookie = "session_token"
)

// absenceWait bounds how long a "no error" step watches for an error to
// appear. The element timeout caps it.
const absenceWait = 3 * time.Second

// dashboardWait is how long a submitted login may take to land: half again
// the element timeout, 15s by default.
func dashboardWait(c *cacik.Context) time.Duration {
	return c.ElementTimeout() * 3 / 2
}

// TokenState is the session a scenario starts with.
type TokenState string

const (
	TokenValid   TokenState = "valid"
	TokenInvalid TokenState = "invalid"
	TokenExpired TokenState = "expired"
	TokenNone    TokenState = "<empty>"
)

// Token values written to the session cookie for each state.
var tokens = map[TokenState]string{
	TokenValid:   "validtoken123",
	TokenInvalid: "invalidtoken123",
	TokenExpired: "expiredtoken123",
}

// OpenLoginPage navigates to /login and waits for the form.
// @cacik `^(?:the user (?:navigates to|is on) the login page|the login page is displayed|I open the login page)$`
func OpenLoginPage(c *cacik.Context) error {
	b, err := c.RequireBrowser()
	if err != nil {
		return err
	}
	if err := b.Navigate(c.Context(), c.URL("/login")); err != nil {
		return err
	}
	_, err = c.Find(c.Context(), browser.Visible, 0, FormKey)
	return err
}

// @cacik `^the login form is visible$`
func LoginFormVisible(c *cacik.Context) error {
	_, err := c.Find(c.Context(), browser.Visible, 0, FormKey)
	return err
}

// @cacik `^the email input field is present$`
func EmailFieldPresent(c *cacik.Context) error {
	_, err := c.Find(c.Context(), browser.Present, 0, EmailKeys...)
	return err
}

// @cacik `^the password input field is present$`
func PasswordFieldPresent(c *cacik.Context) error {
	_, err := c.Find(c.Context(), browser.Present, 0, PasswordKeys...)
	return err
}

// @cacik `^the login button is (?:present|visible and enabled)$`
func LoginButtonPresent(c *cacik.Context) error {
	_, err := c.Find(c.Context(), browser.Clickable, 0, ButtonKeys...)
	return err
}

// EnterEmail types into the email field. "<empty>" clears it.
// @cacik `^the user enters "([^"]*)" into the email field$`
func EnterEmail(c *cacik.Context, text string) error {
	return fill(c, cacik.Input(text), EmailKeys...)
}

// @cacik `^the user enters "([^"]*)" into the password field$`
func EnterPassword(c *cacik.Context, text string) error {
	return fill(c, cacik.Input(text), PasswordKeys...)
}

// @cacik `^the user enters email "([^"]*)" and password "([^"]*)"$`
func EnterCredentials(c *cacik.Context, email, password string) error {
	if err := EnterEmail(c, email); err != nil {
		return err
	}
	return EnterPassword(c, password)
}

// @cacik `^(?:the user clicks the login button|submits the login form)$`
func ClickLogin(c *cacik.Context) error {
	b, err := c.RequireBrowser()
	if err != nil {
		return err
	}
	loc, err := c.Find(c.Context(), browser.Clickable, 0, ButtonKeys...)
	if err != nil {
		return err
	}
	return b.Click(c.Context(), loc)
}

// EmailErrorIs checks the email field's message. "<empty>" asserts there is
// none.
// @cacik `^the error message for the email field is "([^"]*)"$`
func EmailErrorIs(c *cacik.Context, message string) error {
	return fieldErrorIs(c, EmailErrorKey, cacik.Input(message))
}

// @cacik `^the error message for the password field is "([^"]*)"$`
func PasswordErrorIs(c *cacik.Context, message string) error {
	return fieldErrorIs(c, PasswordErrorKey, cacik.Input(message))
}

// @cacik `^no email field error is displayed$`
func NoEmailError(c *cacik.Context) error {
	return absent(c, EmailErrorKey)
}

// @cacik `^no password field error is displayed$`
func NoPasswordError(c *cacik.Context) error {
	return absent(c, PasswordErrorKey)
}

// @cacik `^(?:no error messages are shown|I should not see any error messages related to email or password)$`
func NoErrorMessages(c *cacik.Context) error {
	for _, key := range []string{EmailErrorKey, PasswordErrorKey, ErrorMessageKey} {
		if err := absent(c, key); err != nil {
			return err
		}
	}
	return nil
}

// UserAuthenticated waits for the dashboard route and its content.
// @cacik `^the user is authenticated successfully$`
func UserAuthenticated(c *cacik.Context) error {
	b, err := c.RequireBrowser()
	if err != nil {
		return err
	}
	target := c.URL("/dashboard")
	if _, err := b.WaitURL(c.Context(), func(u string) bool {
		return strings.HasPrefix(u, target)
	}, c.ElementTimeout()); err != nil {
		return fmt.Errorf("not redirected to %s: %w", target, err)
	}
	_, err = c.Find(c.Context(), browser.Visible, 0, DashboardKey)
	return err
}

// LoggedIn signs in through the form and waits for the dashboard.
// @cacik `^the user is logged in with email "([^"]*)" and password "([^"]*)"$`
func LoggedIn(c *cacik.Context, email, password string) error {
	if err := OpenLoginPage(c); err != nil {
		return err
	}
	if err := EnterCredentials(c, email, password); err != nil {
		return err
	}
	if err := ClickLogin(c); err != nil {
		return err
	}
	if _, err := c.Find(c.Context(), browser.Present, dashboardWait(c), DashboardKey); err != nil {
		return fmt.Errorf("login failed: dashboard page did not load after login attempt: %w", err)
	}
	return nil
}

// SetTokenState replaces the session cookie and reloads the page.
// @cacik `^the user has a "([^"]*)" token/session$`
func SetTokenState(c *cacik.Context, state TokenState) error {
	b, err := c.RequireBrowser()
	if err != nil {
		return err
	}
	ctx := c.Context()
	if err := b.ClearCookies(ctx); err != nil {
		return err
	}

	if token, ok := tokens[TokenState(cacik.Input(string(state)))]; ok {
		// Cookies can only be set for the page's own origin.
		if err := b.Navigate(ctx, c.URL("/")); err != nil {
			return err
		}
		if err := b.SetCookie(ctx, browser.Cookie{Name: SessionCookie, Value: token, Path: "/"}); err != nil {
			return err
		}
	} else if cacik.Input(string(state)) != "" {
		c.Logger().Warn("unknown token state, leaving cookies cleared", "state", state)
	}
	return b.Refresh(ctx)
}

// @cacik `^the user (?:navigates to|requests) the /dashboard route$`
func NavigateDashboard(c *cacik.Context) error {
	b, err := c.RequireBrowser()
	if err != nil {
		return err
	}
	return b.Navigate(c.Context(), c.URL("/dashboard"))
}

// @cacik `^the dashboard page is displayed with personalized content for "([^"]*)"$`
func DashboardPersonalized(c *cacik.Context, email string) error {
	if _, err := c.Find(c.Context(), browser.Present, dashboardWait(c), DashboardKey); err != nil {
		return err
	}
	text, err := visibleText(c, WelcomeKey)
	if err != nil {
		return err
	}
	c.Assert().ContainsFold(text, cacik.Input(email), "dashboard does not contain personalized email")
	return nil
}

// @cacik `^the user is redirected to the login page with message "([^"]*)"$`
func RedirectedToLogin(c *cacik.Context, message string) error {
	b, err := c.RequireBrowser()
	if err != nil {
		return err
	}
	target := c.URL("/login")
	if _, err := b.WaitURL(c.Context(), func(u string) bool {
		return strings.HasPrefix(u, target)
	}, c.ElementTimeout()); err != nil {
		return fmt.Errorf("not redirected to %s: %w", target, err)
	}
	text, err := visibleText(c, ErrorMessageKey)
	if err != nil {
		return err
	}
	c.Assert().Contains(text, cacik.Input(message))
	return nil
}

// LoginFails checks the message in the element the message is about: field
// errors for email or password problems, the generic message otherwise.
// @cacik `^the login fails with error message "([^"]*)"$`
func LoginFails(c *cacik.Context, message string) error {
	message = cacik.Input(message)
	text, err := visibleText(c, ErrorKeyFor(c, message))
	if err != nil {
		return err
	}
	c.Assert().Contains(text, message)
	return nil
}

var fieldProblem = regexp.MustCompile(`\b(?:required|valid)\b`)

// ErrorKeyFor picks the error element for message, falling back to the
// generic error element when the table lacks the field-specific key.
func ErrorKeyFor(c *cacik.Context, message string) string {
	lower := strings.ToLower(message)
	var key string
	switch {
	case strings.Contains(lower, "email"):
		if fieldProblem.MatchString(lower) {
			key = EmailErrorKey
		}
	case strings.Contains(lower, "password"):
		key = PasswordErrorKey
	}
	if key == "" {
		return ErrorMessageKey
	}
	if _, ok := c.TryLocator(key); !ok {
		return ErrorMessageKey
	}
	return key
}

func fill(c *cacik.Context, text string, keys ...string) error {
	b, err := c.RequireBrowser()
	if err != nil {
		return err
	}
	loc, err := c.Find(c.Context(), browser.Clickable, 0, keys...)
	if err != nil {
		return err
	}
	return b.Fill(c.Context(), loc, text)
}

func visibleText(c *cacik.Context, key string) (string, error) {
	b, err := c.RequireBrowser()
	if err != nil {
		return "", err
	}
	loc, err := c.Find(c.Context(), browser.Visible, 0, key)
	if err != nil {
		return "", err
	}
	text, err := b.Text(c.Context(), loc)
	return strings.TrimSpace(text), err
}

func fieldErrorIs(c *cacik.Context, key, message string) error {
	if message == "" {
		return absent(c, key)
	}
	text, err := visibleText(c, key)
	if err != nil {
		return err
	}
	c.Assert().Equal(message, text)
	return nil
}

// absent fails when key becomes visible within the absence wait. Keys the
// table does not know cannot be displayed and pass.
func absent(c *cacik.Context, key string) error {
	b, err := c.RequireBrowser()
	if err != nil {
		return err
	}
	loc, ok := c.TryLocator(key)
	if !ok {
		return nil
	}

	err = b.WaitFor(c.Context(), loc, browser.Visible, min(absenceWait, c.ElementTimeout()))
	switch {
	case err == nil:
		text, _ := b.Text(c.Context(), loc)
		c.Assert().Fail(fmt.Sprintf("%s is displayed but should not be: %q", key, strings.TrimSpace(text)))
		return nil
	case errors.Is(err, browser.ErrTimeout):
		return nil
	default:
		return err
	}
}

// Register adds every login step to r.
func Register(r *runner.CucumberRunner) *runner.CucumberRunner {
	r.RegisterCustomType("TokenState", "string", map[string]string{
		"tokenvalid":   string(TokenValid),
		"valid":        string(TokenValid),
		"tokeninvalid": string(TokenInvalid),
		"invalid":      string(TokenInvalid),
		"tokenexpired": string(TokenExpired),
		"expired":      string(TokenExpired),
		"tokennone":    string(TokenNone),
		"<empty>":      string(TokenNone),
		"":             string(TokenNone),
	})
	for _, s := range steps {
		r.RegisterStep(s.pattern, s.function)
	}
	return r
}

var steps = []struct {
	pattern  string
	function any
}{
	{`^(?:the user (?:navigates to|is on) the login page|the login page is displayed|I open the login page)$`, OpenLoginPage},
	{`^the login form is visible$`, LoginFormVisible},
	{`^the email input field is present$`, EmailFieldPresent},
	{`^the password input field is present$`, PasswordFieldPresent},
	{`^the login button is (?:present|visible and enabled)$`, LoginButtonPresent},
	{`^the user enters "([^"]*)" into the email field$`, EnterEmail},
	{`^the user enters "([^"]*)" into the password field$`, EnterPassword},
	{`^the user enters email "([^"]*)" and password "([^"]*)"$`, EnterCredentials},
	{`^(?:the user clicks the login button|submits the login form)$`, ClickLogin},
	{`^the error message for the email field is "([^"]*)"$`, EmailErrorIs},
	{`^the error message for the password field is "([^"]*)"$`, PasswordErrorIs},
	{`^no email field error is displayed$`, NoEmailError},
	{`^no password field error is displayed$`, NoPasswordError},
	{`^(?:no error messages are shown|I should not see any error messages related to email or password)$`, NoErrorMessages},
	{`^the user is authenticated successfully$`, UserAuthenticated},
	{`^the user is logged in with email "([^"]*)" and password "([^"]*)"$`, LoggedIn},
	{`^the user has a "([^"]*)" token/session$`, SetTokenState},
	{`^the user (?:navigates to|requests) the /dashboard route$`, NavigateDashboard},
	{`^the dashboard page is displayed with personalized content for "([^"]*)"$`, DashboardPersonalized},
	{`^the user is redirected to the login page with message "([^"]*)"$`, RedirectedToLogin},
	{`^the login fails with error message "([^"]*)"$`, LoginFails},
}
