package cacik

import (
	"errors"
	"fmt"
	"slices"
)

// Hooks holds lifecycle hooks for test execution.
// All discovered hook functions are executed, sorted by Order.
type Hooks struct {
	// Order determines execution order (lower = runs first). Hooks with the
	// same Order run in discovery order.
	Order int

	BeforeAll func()
	AfterAll  func()

	// BeforeScenario runs after the scenario's fixtures are acquired.
	BeforeScenario func(Scenario)
	// AfterScenario runs before fixtures are released. The error is nil when
	// the scenario passed.
	AfterScenario func(Scenario, error)

	BeforeStep func(Step)
	AfterStep  func(Step, error)
}

// SortHooks returns hooks sorted by Order, keeping discovery order for ties.
func SortHooks(hooks []*Hooks) []*Hooks {
	sorted := slices.Clone(hooks)
	slices.SortStableFunc(sorted, func(a, b *Hooks) int {
		return a.Order - b.Order
	})
	return sorted
}

// HookExecutor runs hooks in order. A panicking hook is reported as an
// error and does not stop the hooks after it.
type HookExecutor struct {
	hooks []*Hooks
}

func NewHookExecutor(hooks ...*Hooks) *HookExecutor {
	valid := make([]*Hooks, 0, len(hooks))
	for _, h := range hooks {
		if h != nil {
			valid = append(valid, h)
		}
	}
	return &HookExecutor{hooks: SortHooks(valid)}
}

func (e *HookExecutor) each(stage string, call func(*Hooks) func()) error {
	var errs []error
	for i, h := range e.hooks {
		fn := call(h)
		if fn == nil {
			continue
		}
		if err := guard(fn); err != nil {
			errs = append(errs, fmt.Errorf("%s hook %d: %w", stage, i, err))
		}
	}
	return errors.Join(errs...)
}

func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Recovered(r)
		}
	}()
	fn()
	return nil
}

// Recovered converts a recovered panic value into an error, keeping
// assertion failures classified.
func Recovered(r any) error {
	switch v := r.(type) {
	case *AssertionError:
		return v
	case error:
		return fmt.Errorf("panic: %w", v)
	default:
		return fmt.Errorf("panic: %v", v)
	}
}

func (e *HookExecutor) BeforeAll() error {
	return e.each("BeforeAll", func(h *Hooks) func() {
		if h.BeforeAll == nil {
			return nil
		}
		return h.BeforeAll
	})
}

func (e *HookExecutor) AfterAll() error {
	return e.each("AfterAll", func(h *Hooks) func() {
		if h.AfterAll == nil {
			return nil
		}
		return h.AfterAll
	})
}

func (e *HookExecutor) BeforeScenario(s Scenario) error {
	return e.each("BeforeScenario", func(h *Hooks) func() {
		if h.BeforeScenario == nil {
			return nil
		}
		return func() { h.BeforeScenario(s) }
	})
}

func (e *HookExecutor) AfterScenario(s Scenario, err error) error {
	return e.each("AfterScenario", func(h *Hooks) func() {
		if h.AfterScenario == nil {
			return nil
		}
		return func() { h.AfterScenario(s, err) }
	})
}

func (e *HookExecutor) BeforeStep(s Step) error {
	return e.each("BeforeStep", func(h *Hooks) func() {
		if h.BeforeStep == nil {
			return nil
		}
		return func() { h.BeforeStep(s) }
	})
}

func (e *HookExecutor) AfterStep(s Step, err error) error {
	return e.each("AfterStep", func(h *Hooks) func() {
		if h.AfterStep == nil {
			return nil
		}
		return func() { h.AfterStep(s, err) }
	})
}
