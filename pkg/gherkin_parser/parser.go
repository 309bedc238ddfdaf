// Package gherkin_parser finds and parses feature files.
package gherkin_parser

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"
)

const (
	FeatureExtension = ".feature"
)

// SearchFeatureFilesIn walks every directory and returns the feature files
// found, in lexical order per directory.
func SearchFeatureFilesIn(directories []string) ([]string, error) {
	featureFiles := make([]string, 0)

	for _, directory := range directories {
		err := filepath.WalkDir(directory, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(d.Name(), FeatureExtension) {
				featureFiles = append(featureFiles, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("search feature files in %s: %w", directory, err)
		}
	}
	return featureFiles, nil
}

func ParseGherkinFile(reader io.Reader) (*messages.GherkinDocument, error) {
	id := (&messages.Incrementing{}).NewId
	document, err := gherkin.ParseGherkinDocument(reader, id)
	if err != nil {
		return nil, err
	}
	return document, nil
}

// ParseFeatureFile reads and parses path. The document's Uri is set to path.
func ParseFeatureFile(path string) (*messages.GherkinDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", path, err)
	}
	document, err := ParseGherkinFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gherkin parse error in file %s: %w", path, err)
	}
	document.Uri = path
	return document, nil
}

// StepKeywords maps the AST id of every step in document to its keyword,
// trailing space included. Pickle steps reference these ids through
// AstNodeIds[0].
func StepKeywords(document *messages.GherkinDocument) map[string]string {
	keywords := make(map[string]string)
	if document == nil || document.Feature == nil {
		return keywords
	}

	addSteps := func(steps []*messages.Step) {
		for _, s := range steps {
			keywords[s.Id] = s.Keyword
		}
	}
	for _, child := range document.Feature.Children {
		switch {
		case child.Background != nil:
			addSteps(child.Background.Steps)
		case child.Scenario != nil:
			addSteps(child.Scenario.Steps)
		case child.Rule != nil:
			for _, rc := range child.Rule.Children {
				if rc.Background != nil {
					addSteps(rc.Background.Steps)
				}
				if rc.Scenario != nil {
					addSteps(rc.Scenario.Steps)
				}
			}
		}
	}
	return keywords
}
