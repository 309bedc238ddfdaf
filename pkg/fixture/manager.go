package fixture

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/logging"
	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/mockapi"
)

var ErrAcquisition = errors.New("fixture acquisition failed")

// AcquisitionError is returned when a fixture could not be started. The
// scenario must not run its steps.
type AcquisitionError struct {
	Kind Kind
	Err  error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.Kind, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

func (e *AcquisitionError) Is(target error) bool { return target == ErrAcquisition }

// Resources are the fixtures held by one scenario. Unacquired kinds are nil.
type Resources struct {
	Browser browser.Browser
	Mock    mockapi.Mock
	Backend Backend
}

// Acquirer starts one kind of fixture, stores it in res and registers its
// release on scope before returning.
type Acquirer interface {
	Acquire(ctx context.Context, scope *Scope, res *Resources) error
}

// AcquirerFunc adapts a function to Acquirer.
type AcquirerFunc func(ctx context.Context, scope *Scope, res *Resources) error

func (f AcquirerFunc) Acquire(ctx context.Context, scope *Scope, res *Resources) error {
	return f(ctx, scope, res)
}

// Manager turns a tag set into acquired Resources.
type Manager struct {
	acquirers map[Kind]Acquirer
	log       logrus.FieldLogger
}

func NewManager(log logrus.FieldLogger) *Manager {
	return &Manager{
		acquirers: map[Kind]Acquirer{KindBackend: BackendProvider{}},
		log:       logging.OrDiscard(log),
	}
}

// With sets the acquirer for kind.
func (m *Manager) With(kind Kind, a Acquirer) *Manager {
	m.acquirers[kind] = a
	return m
}

// Activate acquires the fixtures tags ask for, in table order, stopping at
// the first failure. Whatever was acquired before the failure is already on
// scope, so closing scope releases it.
func (m *Manager) Activate(ctx context.Context, scope *Scope, tags []string) (*Resources, error) {
	res := &Resources{}
	if info := Informational(tags); len(info) > 0 {
		m.log.WithField("tags", info).Debug("informational tags, nothing to acquire")
	}

	for _, kind := range Kinds(tags) {
		a, ok := m.acquirers[kind]
		if !ok {
			m.log.WithField("fixture", kind).Warn("no provider configured, skipping")
			continue
		}
		if err := a.Acquire(ctx, scope, res); err != nil {
			m.log.WithError(err).WithField("fixture", kind).Error("fixture acquisition failed")
			return res, &AcquisitionError{Kind: kind, Err: err}
		}
		m.log.WithField("fixture", kind).Debug("fixture acquired")
	}
	return res, nil
}
