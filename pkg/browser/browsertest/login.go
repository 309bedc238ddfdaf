package browsertest

import (
	"strings"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

// Credentials accepted by the scripted login app.
const (
	ValidEmail    = "user@example.com"
	ValidPassword = "secret123"
	ValidToken    = "validtoken123"

	EmailRequired  = "Email is required"
	EmailInvalid   = "Please enter a valid email address"
	PasswordNeeded = "Password is required"
	BadCredentials = "Invalid email or password"
	LoginRequired  = "Please login to continue"
)

// LoginLocators is a locator table for the login app, in the shape the
// metadata scraper produces.
func LoginLocators() []locator.Entry {
	keys := []string{
		"login-form", "email-input", "password-input", "login-button",
		"email-error", "password-error", "error-message", "dashboard",
		"welcome-message",
	}
	entries := make([]locator.Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, locator.Entry{Key: k, By: "data-testid", Selector: k})
	}
	return entries
}

// NewLoginApp returns a Fake that behaves like a small login application:
// /login validates input on submit and /dashboard requires a valid session
// cookie.
func NewLoginApp(baseURL string) *Fake {
	f := New()
	base := strings.TrimRight(baseURL, "/")

	f.Route("/login", func(f *Fake) {
		f.Set("login-form", &Element{})
		f.Set("email-input", &Element{})
		f.Set("password-input", &Element{})
		f.Set("login-button", &Element{Text: "Login", OnClick: func(f *Fake) {
			submitLogin(f, base)
		}})
	})

	f.Route("/dashboard", func(f *Fake) {
		c, ok := f.Cookie("session_token")
		if !ok || c.Value != ValidToken {
			f.Load(base + "/login")
			f.Set("error-message", &Element{Text: LoginRequired})
			return
		}
		email, _ := f.Cookie("email")
		f.Set("dashboard", &Element{})
		f.Set("welcome-message", &Element{Text: "Welcome, " + email.Value})
	})

	return f
}

func submitLogin(f *Fake, base string) {
	email, _ := f.Element("email-input")
	password, _ := f.Element("password-input")

	for _, sel := range []string{"email-error", "password-error", "error-message"} {
		f.Remove(sel)
	}

	invalid := false
	switch {
	case email.Value == "":
		f.Set("email-error", &Element{Text: EmailRequired})
		invalid = true
	case !strings.Contains(email.Value, "@"):
		f.Set("email-error", &Element{Text: EmailInvalid})
		invalid = true
	}
	if password.Value == "" {
		f.Set("password-error", &Element{Text: PasswordNeeded})
		invalid = true
	}
	if invalid {
		return
	}

	if email.Value != ValidEmail || password.Value != ValidPassword {
		f.Set("error-message", &Element{Text: BadCredentials})
		return
	}

	f.mu.Lock()
	f.cookies["session_token"] = cookie("session_token", ValidToken)
	f.cookies["email"] = cookie("email", email.Value)
	f.mu.Unlock()
	f.Load(base + "/dashboard")
}

func cookie(name, value string) browser.Cookie {
	return browser.Cookie{Name: name, Value: value, Path: "/"}
}
