package fixture

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/logging"
)

type release struct {
	name string
	fn   func() error
}

// Scope is a scenario's teardown stack. Releases run in reverse order of
// registration, each exactly once, and a failing or panicking release does
// not prevent the others.
type Scope struct {
	mu       sync.Mutex
	releases []release
	closed   bool
	log      logrus.FieldLogger
}

func NewScope(log logrus.FieldLogger) *Scope {
	return &Scope{log: logging.OrDiscard(log)}
}

// Register pushes a release. Registering on a closed scope releases
// immediately.
func (s *Scope) Register(name string, fn func() error) {
	s.mu.Lock()
	if !s.closed {
		s.releases = append(s.releases, release{name: name, fn: fn})
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.log.WithField("fixture", name).Warn("registered on a closed scope, releasing now")
	if err := s.run(release{name: name, fn: fn}); err != nil {
		s.log.WithError(err).WithField("fixture", name).Error("fixture release failed")
	}
}

// Len is the number of pending releases.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.releases)
}

// Close runs every pending release and joins their errors. Later calls
// return nil.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	pending := s.releases
	s.releases = nil
	s.mu.Unlock()

	var errs []error
	for i := len(pending) - 1; i >= 0; i-- {
		r := pending[i]
		if err := s.run(r); err != nil {
			s.log.WithError(err).WithField("fixture", r.name).Error("fixture release failed")
			errs = append(errs, err)
			continue
		}
		s.log.WithField("fixture", r.name).Debug("fixture released")
	}
	return errors.Join(errs...)
}

func (s *Scope) run(r release) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("release %s panicked: %v", r.name, p)
		}
	}()
	if err := r.fn(); err != nil {
		return fmt.Errorf("release %s: %w", r.name, err)
	}
	return nil
}
