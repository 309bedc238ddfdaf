package cacik

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stretchr/testify/assert"
)

var ErrAssertion = errors.New("assertion failed")

// AssertionError carries a failed assertion out of a step. Assertions panic
// with it and the executor turns the panic back into this error.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string { return e.Message }

func (e *AssertionError) Is(target error) bool { return target == ErrAssertion }

// failT is the assert.TestingT behind Assert. Every failure ends the step.
type failT struct{}

func (failT) Errorf(format string, args ...any) {
	panic(&AssertionError{Message: cleanMessage(fmt.Sprintf(format, args...))})
}

func fail(format string, args ...any) {
	failT{}.Errorf(format, args...)
}

// cleanMessage drops testify's trace section, which points into this package
// rather than at the step.
func cleanMessage(msg string) string {
	var out []string
	skipping := false
	for _, line := range strings.Split(msg, "\n") {
		label, rest, found := strings.Cut(strings.TrimLeft(line, "\t"), "\t")
		if found {
			label = strings.TrimSpace(label)
			if label != "" {
				skipping = label == "Error Trace:"
				line = label + " " + rest
			} else {
				line = rest
			}
		}
		if line = strings.TrimSpace(line); skipping || line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// Assert provides assertion methods for steps. All assertions fail
// immediately.
type Assert struct{}

func (a *Assert) Equal(expected, actual any, msgAndArgs ...any) {
	assert.Equal(failT{}, expected, actual, msgAndArgs...)
}

func (a *Assert) NotEqual(expected, actual any, msgAndArgs ...any) {
	assert.NotEqual(failT{}, expected, actual, msgAndArgs...)
}

func (a *Assert) True(condition bool, msgAndArgs ...any) {
	assert.True(failT{}, condition, msgAndArgs...)
}

func (a *Assert) False(condition bool, msgAndArgs ...any) {
	assert.False(failT{}, condition, msgAndArgs...)
}

func (a *Assert) Nil(value any, msgAndArgs ...any) {
	assert.Nil(failT{}, value, msgAndArgs...)
}

func (a *Assert) NotNil(value any, msgAndArgs ...any) {
	assert.NotNil(failT{}, value, msgAndArgs...)
}

func (a *Assert) NoError(err error, msgAndArgs ...any) {
	assert.NoError(failT{}, err, msgAndArgs...)
}

func (a *Assert) Error(err error, msgAndArgs ...any) {
	assert.Error(failT{}, err, msgAndArgs...)
}

func (a *Assert) ErrorIs(err, target error, msgAndArgs ...any) {
	assert.ErrorIs(failT{}, err, target, msgAndArgs...)
}

// Contains checks substrings, slice elements and map keys.
func (a *Assert) Contains(s, contains any, msgAndArgs ...any) {
	assert.Contains(failT{}, s, contains, msgAndArgs...)
}

func (a *Assert) NotContains(s, contains any, msgAndArgs ...any) {
	assert.NotContains(failT{}, s, contains, msgAndArgs...)
}

// ContainsFold checks for a substring ignoring case.
func (a *Assert) ContainsFold(s, substr string, msgAndArgs ...any) {
	if !strings.Contains(strings.ToLower(s), strings.ToLower(substr)) {
		assert.Fail(failT{}, fmt.Sprintf("%q does not contain %q (case-insensitive)", s, substr), msgAndArgs...)
	}
}

func (a *Assert) HasPrefix(s, prefix string, msgAndArgs ...any) {
	if !strings.HasPrefix(s, prefix) {
		assert.Fail(failT{}, fmt.Sprintf("%q does not start with %q", s, prefix), msgAndArgs...)
	}
}

func (a *Assert) Len(collection any, length int, msgAndArgs ...any) {
	assert.Len(failT{}, collection, length, msgAndArgs...)
}

func (a *Assert) Empty(collection any, msgAndArgs ...any) {
	assert.Empty(failT{}, collection, msgAndArgs...)
}

func (a *Assert) NotEmpty(collection any, msgAndArgs ...any) {
	assert.NotEmpty(failT{}, collection, msgAndArgs...)
}

// Fail fails the step unconditionally.
func (a *Assert) Fail(msgAndArgs ...any) {
	assert.Fail(failT{}, "step failed", msgAndArgs...)
}
