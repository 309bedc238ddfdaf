package locator

import "strings"

// Strategy is the way a candidate locates an element.
type Strategy string

const (
	ID              Strategy = "id"
	CSSSelector     Strategy = "css-selector"
	XPath           Strategy = "xpath"
	ClassName       Strategy = "class-name"
	TagName         Strategy = "tag-name"
	Name            Strategy = "name"
	LinkText        Strategy = "link-text"
	PartialLinkText Strategy = "partial-link-text"

	// Attribute aliases, compiled into CSS attribute selectors.
	DataTestID  Strategy = "data-testid"
	Type        Strategy = "type"
	Placeholder Strategy = "placeholder"
)

// Strategies lists the closed strategy set in declaration order.
var Strategies = []Strategy{
	ID, CSSSelector, XPath, ClassName, TagName, Name, LinkText, PartialLinkText,
	DataTestID, Type, Placeholder,
}

// ParseStrategy normalizes a raw "by" value. Surrounding space is trimmed,
// case is ignored and a single '_' or ' ' stands for '-', so "css selector",
// "CSS_SELECTOR" and "css-selector" all map to CSSSelector. Anything else,
// abbreviations included, is unrecognized.
func ParseStrategy(raw string) (Strategy, bool) {
	key := normalize(raw)
	if key == "" {
		return "", false
	}
	for _, s := range Strategies {
		if string(s) == key {
			return s, true
		}
	}
	return "", false
}

func normalize(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer("_", "-", " ", "-").Replace(key)
}

// IsAttribute reports whether the strategy is an attribute alias.
func (s Strategy) IsAttribute() bool {
	return s == DataTestID || s == Type || s == Placeholder
}

func (s Strategy) String() string {
	return string(s)
}
