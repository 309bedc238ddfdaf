package fixture

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/logging"
	"github.com/denizgursoy/cacik-ui/pkg/browser"
	"github.com/denizgursoy/cacik-ui/pkg/mockapi"
	"github.com/denizgursoy/cacik-ui/pkg/validation"
)

// BrowserProvider launches a browser session per scenario.
type BrowserProvider struct {
	Factory browser.Factory
	Options browser.LaunchOptions
	// StartURL is opened right after launch when set. A failed navigation is
	// logged, not fatal.
	StartURL string
	Log      logrus.FieldLogger
}

func (p BrowserProvider) Acquire(ctx context.Context, scope *Scope, res *Resources) error {
	log := logging.OrDiscard(p.Log).WithField("fixture", KindBrowser)
	if p.Factory == nil {
		return fmt.Errorf("no browser factory configured")
	}

	b, err := p.Factory(ctx, p.Options, log)
	if err != nil {
		log.WithError(err).Error("error initializing browser session")
		return err
	}
	scope.Register(string(KindBrowser), b.Close)
	res.Browser = b
	log.Info("browser session initialized")

	if p.StartURL != "" {
		if err := b.Navigate(ctx, p.StartURL); err != nil {
			log.WithError(err).WithField("url", p.StartURL).Warn("could not open start url")
		}
	}
	if err := validation.Apply(ctx, b); err != nil {
		log.WithError(err).Warn("could not disable form validation")
	}
	return nil
}

const (
	MockModeServer    = "server"
	MockModeIntercept = "intercept"
)

// MockProvider starts an HTTP mock per scenario from an endpoint file.
type MockProvider struct {
	// Mode is MockModeServer (default) or MockModeIntercept.
	Mode          string
	Addr          string
	BaseURL       string
	EndpointsFile string
	// Defaults serves mockapi.DefaultEndpoints when the file yields nothing.
	Defaults bool
	Log      logrus.FieldLogger
	// OnIntercept receives the interceptor so callers can route their HTTP
	// clients through it.
	OnIntercept func(*mockapi.Interceptor)
}

func (p MockProvider) Acquire(ctx context.Context, scope *Scope, res *Resources) error {
	log := logging.OrDiscard(p.Log).WithField("fixture", KindMock)

	endpoints, err := mockapi.LoadEndpoints(p.EndpointsFile, log)
	if err != nil {
		return err
	}
	if len(endpoints) == 0 && p.Defaults {
		endpoints = mockapi.DefaultEndpoints()
	}

	switch strings.ToLower(p.Mode) {
	case "", MockModeServer:
		srv := mockapi.NewServer(p.Addr, log)
		if err := srv.Register(endpoints...); err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return err
		}
		scope.Register(string(KindMock), func() error {
			err := srv.Stop()
			srv.Reset()
			return err
		})
		res.Mock = srv

	case MockModeIntercept:
		ic, err := mockapi.NewInterceptor(p.BaseURL, nil, log)
		if err != nil {
			return err
		}
		if err := ic.Register(endpoints...); err != nil {
			return err
		}
		scope.Register(string(KindMock), func() error {
			err := ic.Stop()
			ic.Reset()
			return err
		})
		res.Mock = ic
		if p.OnIntercept != nil {
			p.OnIntercept(ic)
		}
		log.WithField("count", len(endpoints)).Info("mock interceptor started")

	default:
		return fmt.Errorf("unknown mock mode %q", p.Mode)
	}
	return nil
}

// Backend is the extension point for stateful backend fixtures.
type Backend interface {
	Reset(ctx context.Context) error
	Close() error
}

// NoopBackend is the inert backend every backend-tagged scenario gets.
type NoopBackend struct{}

func (NoopBackend) Reset(context.Context) error { return nil }
func (NoopBackend) Close() error                { return nil }

// BackendProvider hands out a NoopBackend.
type BackendProvider struct{}

func (BackendProvider) Acquire(_ context.Context, scope *Scope, res *Resources) error {
	b := NoopBackend{}
	scope.Register(string(KindBackend), b.Close)
	res.Backend = b
	return nil
}
