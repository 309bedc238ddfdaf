// Package fixture acquires the external resources a scenario's tags ask for
// and guarantees their release.
package fixture

import "strings"

// Kind names a fixture category.
type Kind string

const (
	KindBrowser Kind = "browser"
	KindMock    Kind = "mock"
	KindBackend Kind = "backend"
)

// activation maps tags to fixtures. Its order is the acquisition order.
var activation = []struct {
	Kind Kind
	Tags []string
}{
	{KindBrowser, []string{"ui", "visual", "ux"}},
	{KindMock, []string{"api", "service", "integration"}},
	{KindBackend, []string{"backend", "db", "stateful"}},
}

// informational tags categorize scenarios without acquiring anything.
var informational = map[string]bool{
	"validation": true,
	"success":    true,
	"negative":   true,
}

// NormalizeTag lower-cases a tag and strips the Gherkin '@'.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "@"))
}

// Kinds returns the fixtures tags activate, in acquisition order. Unknown
// tags are ignored.
func Kinds(tags []string) []Kind {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[NormalizeTag(t)] = true
	}

	var kinds []Kind
	for _, row := range activation {
		for _, t := range row.Tags {
			if set[t] {
				kinds = append(kinds, row.Kind)
				break
			}
		}
	}
	return kinds
}

// Informational returns the recognized tags that acquire nothing.
func Informational(tags []string) []string {
	var out []string
	for _, t := range tags {
		if n := NormalizeTag(t); informational[n] {
			out = append(out, n)
		}
	}
	return out
}

// Has reports whether kinds contains k.
func Has(kinds []Kind, k Kind) bool {
	for _, kind := range kinds {
		if kind == k {
			return true
		}
	}
	return false
}
