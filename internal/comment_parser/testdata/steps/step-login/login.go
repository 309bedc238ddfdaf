package step_login

import (
	"github.com/denizgursoy/cacik-ui/pkg/cacik"
)

type TokenState string

const (
	TokenValid   TokenState = "valid"
	TokenExpired TokenState = "expired"
	TokenNone    TokenState = "<empty>"
)

// EnterEmail types into the email field
// @cacik `^the user enters {string} into the email field$`
func EnterEmail(ctx *cacik.Context, email string) error {
	ctx.Logger().Info("entering email", "email", email)
	return nil
}

// SetToken plants a session cookie
// @cacik `^the user has a {tokenstate} token$`
func SetToken(ctx *cacik.Context, state TokenState) {
	ctx.Logger().Info("token", "state", state)
}

// OpenLogin opens the login page
// @cacik `^the user opens the login page$`
func OpenLogin(ctx *cacik.Context) error {
	return nil
}

// ClickKey clicks an element by its locator key
// @cacik `^the user clicks {key}$`
func ClickKey(ctx *cacik.Context, key string) error {
	return nil
}

// helper has no annotation.
func helper() {}
