package fixture

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/browser/browsertest"
	"github.com/denizgursoy/cacik-ui/pkg/mockapi"
	"github.com/denizgursoy/cacik-ui/pkg/validation"
)

// =============================================================================
// Tags Tests
// =============================================================================

func TestKinds(t *testing.T) {
	t.Run("table order regardless of tag order", func(t *testing.T) {
		require.Equal(t, []Kind{KindBrowser, KindMock, KindBackend}, Kinds([]string{"@db", "@api", "@ui"}))
	})

	t.Run("case-insensitive and deduplicated", func(t *testing.T) {
		require.Equal(t, []Kind{KindBrowser}, Kinds([]string{"@UI", "@visual", "ux"}))
	})

	t.Run("unknown and informational tags acquire nothing", func(t *testing.T) {
		require.Empty(t, Kinds([]string{"@validation", "@success", "@negative", "@smoke"}))
		require.Equal(t, []string{"validation", "negative"}, Informational([]string{"@validation", "@smoke", "@Negative"}))
	})
}

// =============================================================================
// Scope Tests
// =============================================================================

func TestScope(t *testing.T) {
	t.Run("releases in reverse order exactly once", func(t *testing.T) {
		var order []string
		s := NewScope(nil)
		for _, name := range []string{"browser", "mock", "backend"} {
			s.Register(name, func() error {
				order = append(order, name)
				return nil
			})
		}

		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		require.Equal(t, []string{"backend", "mock", "browser"}, order)
		require.Zero(t, s.Len())
	})

	t.Run("a failing release does not skip the others", func(t *testing.T) {
		boom := errors.New("boom")
		var released []string
		s := NewScope(nil)
		s.Register("first", func() error { released = append(released, "first"); return nil })
		s.Register("panics", func() error { panic("driver gone") })
		s.Register("fails", func() error { return boom })

		err := s.Close()
		require.Error(t, err)
		require.True(t, errors.Is(err, boom))
		require.Contains(t, err.Error(), "driver gone")
		require.Equal(t, []string{"first"}, released)
	})

	t.Run("register after close releases immediately", func(t *testing.T) {
		var calls int32
		s := NewScope(nil)
		require.NoError(t, s.Close())

		s.Register("late", func() error { atomic.AddInt32(&calls, 1); return nil })
		require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

// =============================================================================
// Manager Tests
// =============================================================================

type countingFactory struct {
	calls atomic.Int32
	fake  *browsertest.Fake
}

func (c *countingFactory) factory() browser.Factory {
	return func(ctx context.Context, opts browser.LaunchOptions, log logrus.FieldLogger) (browser.Browser, error) {
		c.calls.Add(1)
		return c.fake, nil
	}
}

func newManager(t *testing.T, cf *countingFactory) *Manager {
	t.Helper()
	return NewManager(nil).
		With(KindBrowser, BrowserProvider{Factory: cf.factory(), Options: browser.DefaultLaunchOptions()}).
		With(KindMock, MockProvider{Addr: "127.0.0.1:0", EndpointsFile: filepath.Join(t.TempDir(), "none.json")})
}

func TestActivate(t *testing.T) {
	ctx := context.Background()

	t.Run("api only never launches a browser", func(t *testing.T) {
		cf := &countingFactory{fake: browsertest.New()}
		scope := NewScope(nil)

		res, err := newManager(t, cf).Activate(ctx, scope, []string{"@api"})
		require.NoError(t, err)
		require.Nil(t, res.Browser)
		require.NotNil(t, res.Mock)
		require.Zero(t, cf.calls.Load())
		require.NoError(t, scope.Close())
	})

	t.Run("ui and api acquire both", func(t *testing.T) {
		cf := &countingFactory{fake: browsertest.New()}
		scope := NewScope(nil)

		res, err := newManager(t, cf).Activate(ctx, scope, []string{"@ui", "@api"})
		require.NoError(t, err)
		require.NotNil(t, res.Browser)
		require.NotNil(t, res.Mock)
		require.Nil(t, res.Backend)
		require.Equal(t, int32(1), cf.calls.Load())
		require.Equal(t, 2, scope.Len())
		require.NoError(t, scope.Close())
	})

	t.Run("browser gets the validation patch once at acquisition", func(t *testing.T) {
		cf := &countingFactory{fake: browsertest.New()}
		scope := NewScope(nil)

		_, err := newManager(t, cf).Activate(ctx, scope, []string{"@ui"})
		require.NoError(t, err)
		require.Equal(t, []string{validation.Script}, cf.fake.Scripts())
		require.NoError(t, scope.Close())
	})

	t.Run("each fixture is released exactly once", func(t *testing.T) {
		cf := &countingFactory{fake: browsertest.New()}
		scope := NewScope(nil)

		res, err := newManager(t, cf).Activate(ctx, scope, []string{"@ui", "@api", "@db"})
		require.NoError(t, err)
		require.NotNil(t, res.Backend)

		require.NoError(t, scope.Close())
		require.NoError(t, scope.Close())
		require.Equal(t, 1, cf.fake.CloseCount())
		require.Empty(t, res.Mock.Endpoints())
		require.NoError(t, res.Mock.Stop())
	})

	t.Run("browser failure is classified and logged", func(t *testing.T) {
		log, hook := logtest.NewNullLogger()
		launchErr := errors.New("chrome not reachable")
		scope := NewScope(nil)

		m := NewManager(log).With(KindBrowser, BrowserProvider{Factory: browsertest.FailingFactory(launchErr), Log: log})
		res, err := m.Activate(ctx, scope, []string{"@ui", "@api"})
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrAcquisition))
		require.True(t, errors.Is(err, launchErr))

		var ae *AcquisitionError
		require.True(t, errors.As(err, &ae))
		require.Equal(t, KindBrowser, ae.Kind)
		require.Nil(t, res.Browser)
		require.Nil(t, res.Mock)

		var errorsLogged int
		for _, e := range hook.AllEntries() {
			if e.Level == logrus.ErrorLevel {
				errorsLogged++
			}
		}
		require.Equal(t, 2, errorsLogged)
		require.NoError(t, scope.Close())
	})

	t.Run("failure after a success still lets scope release the earlier fixture", func(t *testing.T) {
		cf := &countingFactory{fake: browsertest.New()}
		scope := NewScope(nil)

		m := newManager(t, cf).With(KindMock, AcquirerFunc(func(context.Context, *Scope, *Resources) error {
			return errors.New("port in use")
		}))
		res, err := m.Activate(ctx, scope, []string{"@ui", "@api"})
		require.True(t, errors.Is(err, ErrAcquisition))
		require.NotNil(t, res.Browser)

		require.NoError(t, scope.Close())
		require.Equal(t, 1, cf.fake.CloseCount())
	})
}

func TestMockProviderIntercept(t *testing.T) {
	scope := NewScope(nil)
	res := &Resources{}
	var got *mockapi.Interceptor

	p := MockProvider{
		Mode:          MockModeIntercept,
		BaseURL:       "http://localhost:3000",
		EndpointsFile: filepath.Join(t.TempDir(), "absent.json"),
		Defaults:      true,
		OnIntercept:   func(ic *mockapi.Interceptor) { got = ic },
	}
	require.NoError(t, p.Acquire(context.Background(), scope, res))
	require.NotNil(t, got)
	require.Len(t, res.Mock.Endpoints(), len(mockapi.DefaultEndpoints()))

	require.NoError(t, scope.Close())
	require.Empty(t, res.Mock.Endpoints())
}
