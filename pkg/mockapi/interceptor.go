package mockapi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/denizgursoy/cacik-ui/internal/logging"
)

var (
	ErrUnmatched = errors.New("no mocked endpoint for request")
	ErrStopped   = errors.New("mock interceptor stopped")
)

// Interceptor is an http.RoundTripper that answers requests to baseURL from
// the endpoint table without touching the network. Requests for other hosts
// go to next; with a nil next they fail with ErrUnmatched. Requests for
// baseURL that match no endpoint get the same 404 body the Server sends.
type Interceptor struct {
	table
	base    *url.URL
	next    http.RoundTripper
	log     logrus.FieldLogger
	stopped atomic.Bool
}

var _ Mock = (*Interceptor)(nil)

func NewInterceptor(baseURL string, next http.RoundTripper, log logrus.FieldLogger) (*Interceptor, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid interceptor base url %q", baseURL)
	}
	return &Interceptor{
		base: base,
		next: next,
		log:  logging.OrDiscard(log).WithFields(logrus.Fields{"mock": "intercept", "url": base.String()}),
	}, nil
}

// Client returns an http.Client routed through the interceptor.
func (i *Interceptor) Client() *http.Client {
	return &http.Client{Transport: i}
}

func (i *Interceptor) owns(u *url.URL) bool {
	return strings.EqualFold(u.Scheme, i.base.Scheme) && strings.EqualFold(u.Host, i.base.Host) &&
		strings.HasPrefix(u.Path, i.base.Path)
}

func (i *Interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	if i.stopped.Load() {
		return nil, ErrStopped
	}
	if !i.owns(req.URL) {
		if i.next == nil {
			return nil, fmt.Errorf("%w: %s %s", ErrUnmatched, req.Method, req.URL)
		}
		return i.next.RoundTrip(req)
	}

	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
	}
	path := strings.TrimPrefix(req.URL.Path, i.base.Path)
	if path == "" {
		path = "/"
	}
	status, payload := i.answer(req.Method, path, req.URL.RawQuery, body)
	i.log.WithFields(logrus.Fields{
		"method": req.Method,
		"path":   path,
		"status": status,
	}).Debug("intercepted request")

	return &http.Response{
		Status:        strconv.Itoa(status) + " " + http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        http.Header{"Content-Type": []string{"application/json"}},
		Body:          io.NopCloser(bytes.NewReader(payload)),
		ContentLength: int64(len(payload)),
		Request:       req,
	}, nil
}

func (i *Interceptor) Register(endpoints ...Endpoint) error { return i.register(endpoints...) }
func (i *Interceptor) Endpoints() []Endpoint                { return i.snapshotEndpoints() }
func (i *Interceptor) Requests() []Request                  { return i.snapshotRequests() }
func (i *Interceptor) Reset()                               { i.reset() }

// Stop makes every later request fail with ErrStopped.
func (i *Interceptor) Stop() error {
	if i.stopped.CompareAndSwap(false, true) {
		i.log.Info("mock interceptor stopped")
	}
	return nil
}
