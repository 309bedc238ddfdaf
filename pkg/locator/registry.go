package locator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/denizgursoy/cacik-ui/internal/logging"
)

// Registry maps keys to their ordered candidates. It is safe for concurrent
// readers; Extend is the only mutation after load.
type Registry struct {
	mu     sync.RWMutex
	groups map[string][]Entry
	keys   []string
	log    logrus.FieldLogger
}

// Load builds a registry from raw records. Records without a key are dropped.
// Records sharing a key are grouped in the order they are encountered.
// Unrecognized strategies are kept; they are skipped at resolution time.
func Load(records []Entry, log logrus.FieldLogger) *Registry {
	r := &Registry{
		groups: make(map[string][]Entry),
		log:    logging.OrDiscard(log),
	}
	r.Extend(records)
	return r
}

// LoadFile reads a JSON or YAML sequence of records. A missing file yields an
// empty registry and a warning.
func LoadFile(path string, log logrus.FieldLogger) (*Registry, error) {
	log = logging.OrDiscard(log)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Warn("locators file not found, continuing with an empty registry")
		return Load(nil, log), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read locators %s: %w", path, err)
	}

	records, err := decodeEntries(path, data)
	if err != nil {
		return nil, err
	}

	r := Load(records, log)
	log.WithFields(logrus.Fields{"path": path, "records": len(records), "keys": r.Len()}).Info("loaded locators")
	return r, nil
}

func decodeEntries(path string, data []byte) ([]Entry, error) {
	var records []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse locators %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse locators %s: %w", path, err)
		}
	}
	return records, nil
}

// Extend appends records in place, e.g. after a scraper re-run.
func (r *Registry) Extend(records []Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range records {
		key := strings.TrimSpace(rec.Key)
		if key == "" {
			r.log.WithFields(logrus.Fields{"by": rec.By, "selector": rec.Selector}).Debug("dropping locator record without key")
			continue
		}
		rec.Key = key
		if _, ok := r.groups[key]; !ok {
			r.keys = append(r.keys, key)
		}
		r.groups[key] = append(r.groups[key], rec)
	}
}

// Resolve returns the first usable candidate for key. It never fails: an
// absent key, or a key whose candidates are all unusable, reports false.
func (r *Registry) Resolve(key string) (Locator, bool) {
	r.mu.RLock()
	candidates := r.groups[key]
	r.mu.RUnlock()

	log := r.log.WithField("key", key)
	if len(candidates) == 0 {
		log.Warn("locator key not found")
		return Locator{}, false
	}

	for i, c := range candidates {
		selector := strings.TrimSpace(c.Selector)
		if selector == "" {
			log.WithField("candidate", i).Debug("skipping locator candidate with empty selector")
			continue
		}
		strategy, ok := ParseStrategy(c.By)
		if !ok {
			log.WithFields(logrus.Fields{"candidate": i, "by": c.By}).Warn("skipping locator candidate with unrecognized strategy")
			continue
		}
		return Locator{Key: key, Strategy: strategy, Selector: selector}, true
	}

	log.WithField("candidates", len(candidates)).Error("no valid locator found")
	return Locator{}, false
}

// MustResolve is Resolve with a classified error naming the key.
func (r *Registry) MustResolve(key string) (Locator, error) {
	if loc, ok := r.Resolve(key); ok {
		return loc, nil
	}
	return Locator{}, &NotFoundError{Key: key}
}

// Candidates returns a copy of the raw records registered under key.
func (r *Registry) Candidates(key string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.groups[key]))
	copy(out, r.groups[key])
	return out
}

// Keys returns the registered keys in first-seen order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}
