// Package mockapi serves a fixed table of JSON endpoints to the application
// under test, either from a real listener or by intercepting an HTTP client.
package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/denizgursoy/cacik-ui/internal/logging"
)

// Endpoint is one canned response.
type Endpoint struct {
	Path     string `json:"path" yaml:"path" validate:"required,startswith=/"`
	Method   string `json:"method,omitempty" yaml:"method,omitempty" validate:"omitempty,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	Status   int    `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,min=100,max=599"`
	Response any    `json:"response,omitempty" yaml:"response,omitempty"`
}

// Normalized fills in the defaults: GET, 200 and an empty JSON object.
func (e Endpoint) Normalized() Endpoint {
	e.Method = strings.ToUpper(strings.TrimSpace(e.Method))
	if e.Method == "" {
		e.Method = http.MethodGet
	}
	if e.Status == 0 {
		e.Status = http.StatusOK
	}
	if e.Response == nil {
		e.Response = map[string]any{}
	}
	return e
}

func (e Endpoint) String() string {
	return e.Method + " " + e.Path
}

// DefaultEndpoints is the table served when no endpoint file exists and the
// caller asks for defaults.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Path: "/api/login", Method: http.MethodPost, Status: http.StatusOK, Response: map[string]any{"success": true, "token": "validtoken123"}},
		{Path: "/api/dashboard", Method: http.MethodGet, Status: http.StatusOK, Response: map[string]any{"user": "admin@example.com", "dashboardData": map[string]any{}}},
		{Path: "/api/unauthorized", Method: http.MethodGet, Status: http.StatusUnauthorized, Response: map[string]any{"error": "Unauthorized"}},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate normalizes every endpoint and checks it.
func Validate(endpoints []Endpoint) ([]Endpoint, error) {
	out := make([]Endpoint, 0, len(endpoints))
	var errs []error
	for i, ep := range endpoints {
		ep = ep.Normalized()
		if err := validate.Struct(ep); err != nil {
			errs = append(errs, fmt.Errorf("endpoint %d (%s): %w", i, ep, err))
			continue
		}
		out = append(out, ep)
	}
	return out, errors.Join(errs...)
}

// LoadEndpoints reads a JSON or YAML endpoint table. A missing file is not an
// error: it yields no endpoints and a warning.
func LoadEndpoints(path string, log logrus.FieldLogger) ([]Endpoint, error) {
	log = logging.OrDiscard(log).WithField("path", path)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("endpoint file not found, serving no endpoints")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read endpoints: %w", err)
	}

	var raw []Endpoint
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse endpoints %s: %w", path, err)
	}

	endpoints, err := Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoints in %s: %w", path, err)
	}
	log.WithField("count", len(endpoints)).Info("loaded mocked endpoints")
	return endpoints, nil
}
