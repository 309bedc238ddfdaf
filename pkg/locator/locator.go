// Package locator maps symbolic element keys ("email-input", "login-button")
// to strategy-typed locators scraped from the application under test.
package locator

import (
	"errors"
	"fmt"
	"strings"
)

// WebDriver "By" names used in compiled queries.
const (
	ByID              = "id"
	ByCSSSelector     = "css selector"
	ByXPath           = "xpath"
	ByClassName       = "class name"
	ByTagName         = "tag name"
	ByName            = "name"
	ByLinkText        = "link text"
	ByPartialLinkText = "partial link text"
)

var (
	ErrNotFound               = errors.New("locator not found")
	ErrUnrecognizedStrategy   = errors.New("unrecognized locator strategy")
	errSelectorNotExpressible = errors.New("selector not expressible")
)

// NotFoundError names the key that could not be resolved.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("locator key %q not found", e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Entry is one raw record from a locator table. Several entries may share a key.
type Entry struct {
	Key      string `json:"key" yaml:"key"`
	By       string `json:"by" yaml:"by"`
	Selector string `json:"selector" yaml:"selector"`
}

// Locator is a structurally valid candidate: a recognized strategy and a
// non-empty selector. It says nothing about whether the element exists.
type Locator struct {
	Key      string
	Strategy Strategy
	Selector string
}

// Query is a locator compiled to a WebDriver By name and value.
type Query struct {
	By    string
	Value string
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Selector)
}

// Compile maps the locator onto WebDriver By names. Attribute aliases become
// CSS attribute selectors.
func (l Locator) Compile() (Query, error) {
	switch l.Strategy {
	case ID:
		return Query{ByID, l.Selector}, nil
	case CSSSelector:
		return Query{ByCSSSelector, l.Selector}, nil
	case XPath:
		return Query{ByXPath, l.Selector}, nil
	case ClassName:
		return Query{ByClassName, l.Selector}, nil
	case TagName:
		return Query{ByTagName, l.Selector}, nil
	case Name:
		return Query{ByName, l.Selector}, nil
	case LinkText:
		return Query{ByLinkText, l.Selector}, nil
	case PartialLinkText:
		return Query{ByPartialLinkText, l.Selector}, nil
	case DataTestID, Type, Placeholder:
		return Query{ByCSSSelector, attributeSelector(string(l.Strategy), l.Selector)}, nil
	}
	return Query{}, fmt.Errorf("%w: %q", ErrUnrecognizedStrategy, l.Strategy)
}

// CSS returns an equivalent CSS selector. Link text and XPath locators have
// none.
func (l Locator) CSS() (string, error) {
	switch l.Strategy {
	case CSSSelector:
		return l.Selector, nil
	case ID:
		return attributeSelector("id", l.Selector), nil
	case Name:
		return attributeSelector("name", l.Selector), nil
	case ClassName:
		return fmt.Sprintf("[class~=%s]", cssString(l.Selector)), nil
	case TagName:
		return l.Selector, nil
	case DataTestID, Type, Placeholder:
		return attributeSelector(string(l.Strategy), l.Selector), nil
	case XPath, LinkText, PartialLinkText:
		return "", fmt.Errorf("%w: %s", errSelectorNotExpressible, l.Strategy)
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedStrategy, l.Strategy)
}

// XPath returns an equivalent XPath expression. Every strategy except a raw
// CSS selector has one.
func (l Locator) XPath() (string, error) {
	switch l.Strategy {
	case XPath:
		return l.Selector, nil
	case ID:
		return fmt.Sprintf("//*[@id=%s]", xpathString(l.Selector)), nil
	case Name:
		return fmt.Sprintf("//*[@name=%s]", xpathString(l.Selector)), nil
	case ClassName:
		return fmt.Sprintf("//*[contains(concat(' ', normalize-space(@class), ' '), %s)]", xpathString(" "+l.Selector+" ")), nil
	case TagName:
		return "//" + l.Selector, nil
	case LinkText:
		return fmt.Sprintf("//a[normalize-space(.)=%s]", xpathString(l.Selector)), nil
	case PartialLinkText:
		return fmt.Sprintf("//a[contains(normalize-space(.), %s)]", xpathString(l.Selector)), nil
	case DataTestID, Type, Placeholder:
		if strings.HasPrefix(strings.TrimSpace(l.Selector), "[") {
			return "", fmt.Errorf("%w: %s is already a css selector", errSelectorNotExpressible, l.Selector)
		}
		return fmt.Sprintf("//*[@%s=%s]", l.Strategy, xpathString(l.Selector)), nil
	case CSSSelector:
		return "", fmt.Errorf("%w: css selector has no xpath form", errSelectorNotExpressible)
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedStrategy, l.Strategy)
}

// attributeSelector builds [attr="value"]. Scrapers sometimes emit the full
// attribute selector already; those pass through unchanged.
func attributeSelector(attr, value string) string {
	if strings.HasPrefix(strings.TrimSpace(value), "[") {
		return value
	}
	return fmt.Sprintf("[%s=%s]", attr, cssString(value))
}

func cssString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// xpathString quotes s as an XPath 1.0 literal, falling back to concat()
// when s contains both quote kinds.
func xpathString(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		if p != "" {
			quoted = append(quoted, `"`+p+`"`)
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}
