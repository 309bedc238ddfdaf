// Package validation disables client-side form validation in the page under
// test so scenarios can submit invalid input and assert on the application's
// own error messages.
package validation

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
)

// Script overrides the constraint validation API on form controls, marks
// every form novalidate and keeps doing so for nodes added later through a
// single MutationObserver on document.body. It evaluates to the number of
// observers it installed, which is 0 once the page already carries one.
//
//go:embed validation.js
var Script string

// GuardFlag is the window property holding the installed observer.
const GuardFlag = "__cacikValidationObserver"

// Apply runs Script in the current page. It is safe to call before every
// step; repeated calls only re-apply the overrides.
func Apply(ctx context.Context, b browser.Browser) error {
	var installed int
	if err := b.Execute(ctx, Script, &installed); err != nil {
		return fmt.Errorf("apply validation patch: %w", err)
	}
	return nil
}

// Installed reports whether the current page carries the observer.
func Installed(ctx context.Context, b browser.Browser) (bool, error) {
	var ok bool
	if err := b.Execute(ctx, "!!window."+GuardFlag, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
