package runner

import (
	"os"
	"strings"

	messages "github.com/cucumber/messages/go/v21"
	tagexpressions "github.com/cucumber/tag-expressions/go/v6"
)

// parseTagsFromArgs reads a tag expression from os.Args, given as
// "--tags <expr>" or "--tags=<expr>". go test passes unknown flags through
// after -args.
func parseTagsFromArgs() string {
	args := os.Args[1:]
	for i, arg := range args {
		if arg == "--tags" && i+1 < len(args) {
			return args[i+1]
		}
		if value, ok := strings.CutPrefix(arg, "--tags="); ok {
			return value
		}
	}
	return ""
}

func extractTagNames(tags []*messages.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func mergeTags(parent, child []string) []string {
	merged := make([]string, 0, len(parent)+len(child))
	merged = append(merged, parent...)
	return append(merged, child...)
}

// filterDocumentByTags returns a copy of doc keeping backgrounds and the
// scenarios whose inherited tags satisfy evaluator. An outline is kept when
// any of its Examples blocks matches. Rules left without scenarios are
// dropped.
func filterDocumentByTags(doc *messages.GherkinDocument, evaluator tagexpressions.Evaluatable) *messages.GherkinDocument {
	if doc.Feature == nil {
		return doc
	}
	featureTags := extractTagNames(doc.Feature.Tags)

	feature := *doc.Feature
	feature.Children = nil
	for _, child := range doc.Feature.Children {
		switch {
		case child.Background != nil:
			feature.Children = append(feature.Children, child)
		case child.Scenario != nil:
			if scenarioMatches(child.Scenario, featureTags, evaluator) {
				feature.Children = append(feature.Children, child)
			}
		case child.Rule != nil:
			ruleTags := mergeTags(featureTags, extractTagNames(child.Rule.Tags))
			rule := *child.Rule
			rule.Children = nil
			kept := 0
			for _, rc := range child.Rule.Children {
				if rc.Background != nil {
					rule.Children = append(rule.Children, rc)
					continue
				}
				if rc.Scenario != nil && scenarioMatches(rc.Scenario, ruleTags, evaluator) {
					rule.Children = append(rule.Children, rc)
					kept++
				}
			}
			if kept > 0 {
				feature.Children = append(feature.Children, &messages.FeatureChild{Rule: &rule})
			}
		}
	}

	filtered := *doc
	filtered.Feature = &feature
	return &filtered
}

func scenarioMatches(scenario *messages.Scenario, inherited []string, evaluator tagexpressions.Evaluatable) bool {
	tags := mergeTags(inherited, extractTagNames(scenario.Tags))
	if evaluator.Evaluate(tags) {
		return true
	}
	for _, examples := range scenario.Examples {
		if evaluator.Evaluate(mergeTags(tags, extractTagNames(examples.Tags))) {
			return true
		}
	}
	return false
}

// filterPicklesByTags keeps pickles whose own tags, which already include
// every inherited tag, satisfy evaluator. It narrows outlines to the
// matching Examples rows.
func filterPicklesByTags(pickles []*messages.Pickle, evaluator tagexpressions.Evaluatable) []*messages.Pickle {
	kept := pickles[:0:0]
	for _, p := range pickles {
		tags := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			tags[i] = t.Name
		}
		if evaluator.Evaluate(tags) {
			kept = append(kept, p)
		}
	}
	return kept
}
