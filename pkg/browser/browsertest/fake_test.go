package browsertest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/locator"
)

func loc(key string) locator.Locator {
	return locator.Locator{Key: key, Strategy: locator.DataTestID, Selector: key}
}

func TestFakeWaitFor(t *testing.T) {
	ctx := context.Background()

	t.Run("times out with a classified error", func(t *testing.T) {
		f := New()
		f.Load("http://localhost:3000/login")

		err := f.WaitFor(ctx, loc("dashboard"), browser.Visible, 20*time.Millisecond)
		require.True(t, errors.Is(err, browser.ErrTimeout))

		var te *browser.TimeoutError
		require.True(t, errors.As(err, &te))
		require.Equal(t, "http://localhost:3000/login", te.URL)
	})

	t.Run("sees elements that appear later", func(t *testing.T) {
		f := New()
		go func() {
			time.Sleep(10 * time.Millisecond)
			f.Set("late", &Element{})
		}()
		require.NoError(t, f.WaitFor(ctx, loc("late"), browser.Present, time.Second))
	})

	t.Run("hidden elements are present but not visible", func(t *testing.T) {
		f := New()
		f.Set("ghost", &Element{Hidden: true})
		require.NoError(t, f.WaitFor(ctx, loc("ghost"), browser.Present, 0))
		require.Error(t, f.WaitFor(ctx, loc("ghost"), browser.Visible, 0))
	})

	t.Run("disabled elements are not clickable", func(t *testing.T) {
		f := New()
		f.Set("btn", &Element{Disabled: true})
		require.NoError(t, f.WaitFor(ctx, loc("btn"), browser.Visible, 0))
		require.Error(t, f.WaitFor(ctx, loc("btn"), browser.Clickable, 0))
	})
}

func TestLoginApp(t *testing.T) {
	ctx := context.Background()
	base := "http://localhost:3000"

	t.Run("valid credentials land on the dashboard", func(t *testing.T) {
		app := NewLoginApp(base)
		require.NoError(t, app.Navigate(ctx, base+"/login"))
		require.NoError(t, app.Fill(ctx, loc("email-input"), ValidEmail))
		require.NoError(t, app.Fill(ctx, loc("password-input"), ValidPassword))
		require.NoError(t, app.Click(ctx, loc("login-button")))

		u, err := app.CurrentURL(ctx)
		require.NoError(t, err)
		require.Equal(t, base+"/dashboard", u)

		text, err := app.Text(ctx, loc("welcome-message"))
		require.NoError(t, err)
		require.Contains(t, text, ValidEmail)
	})

	t.Run("empty email shows the validation message", func(t *testing.T) {
		app := NewLoginApp(base)
		require.NoError(t, app.Navigate(ctx, base+"/login"))
		require.NoError(t, app.Fill(ctx, loc("password-input"), ValidPassword))
		require.NoError(t, app.Click(ctx, loc("login-button")))

		text, err := app.Text(ctx, loc("email-error"))
		require.NoError(t, err)
		require.Equal(t, EmailRequired, text)

		u, _ := app.CurrentURL(ctx)
		require.Equal(t, base+"/login", u)
	})

	t.Run("dashboard without a session redirects to login", func(t *testing.T) {
		app := NewLoginApp(base)
		require.NoError(t, app.Navigate(ctx, base+"/dashboard"))

		u, _ := app.CurrentURL(ctx)
		require.Equal(t, base+"/login", u)
		text, err := app.Text(ctx, loc("error-message"))
		require.NoError(t, err)
		require.Equal(t, LoginRequired, text)
	})

	t.Run("clicking a missing element fails", func(t *testing.T) {
		app := NewLoginApp(base)
		err := app.Click(ctx, loc("login-button"))
		require.True(t, errors.Is(err, ErrNoSuchElement))
	})
}

func TestFakeExecute(t *testing.T) {
	t.Run("records scripts and decodes results", func(t *testing.T) {
		f := New()
		f.ExecuteFunc = func(string) (any, error) { return 1, nil }

		var n int
		require.NoError(t, f.Execute(context.Background(), "1", &n))
		require.Equal(t, 1, n)
		require.Equal(t, []string{"1"}, f.Scripts())
	})
}
