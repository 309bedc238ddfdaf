package steps

import "github.com/denizgursoy/cacik-ui/pkg/cacik"

// LoginConfig returns configuration settings
func LoginConfig() *cacik.Config {
	return &cacik.Config{
		BaseURL:  "http://localhost:3000",
		FailFast: true,
	}
}

// LoginHooks returns lifecycle hooks
func LoginHooks() *cacik.Hooks {
	return &cacik.Hooks{
		Order: 10,
		BeforeAll: func() {
			// setup
		},
	}
}

// NotAProvider takes arguments, so it is not picked up.
func NotAProvider(base string) *cacik.Config {
	return &cacik.Config{BaseURL: base}
}
