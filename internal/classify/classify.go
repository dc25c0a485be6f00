package classify

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	gitshipErrors "github.com/gitship/gitship/internal/errors"
)

// Category names used by the default rule set. Advisory output tags lines
// with the upper-cased category, e.g. [DATA] and [API].
const (
	CategoryData = "data"
	CategoryAPI  = "api"
)

// Rule associates a path pattern with a category tag.
//
// A pattern ending in "/" matches every path under that directory. Any other
// pattern matches the exact path, or any path under it when it names a
// directory. Matching is purely lexical; no filesystem access happens here.
type Rule struct {
	Category string `yaml:"category"`
	Pattern  string `yaml:"pattern"`
}

// Matches reports whether the changed path is covered by this rule.
func (r Rule) Matches(path string) bool {
	if strings.HasSuffix(r.Pattern, "/") {
		return strings.HasPrefix(path, r.Pattern)
	}
	return path == r.Pattern || strings.HasPrefix(path, r.Pattern+"/")
}

// RuleSet is an ordered list of classification rules. Order matters only for
// the order in which advisories are reported, never for matching: every rule
// is tested against every path.
type RuleSet struct {
	rules []Rule
}

// DefaultRules returns the built-in rule set: backend data directories, the
// frontend application entry file and the top-level data directory feed the
// "data" advisory; the backend API and services directories feed "api".
func DefaultRules() *RuleSet {
	return NewRuleSet([]Rule{
		{Category: CategoryData, Pattern: "backend/data/"},
		{Category: CategoryData, Pattern: "frontend/src/App.js"},
		{Category: CategoryData, Pattern: "data/"},
		{Category: CategoryAPI, Pattern: "backend/api/"},
		{Category: CategoryAPI, Pattern: "backend/services/"},
	})
}

// NewRuleSet creates a RuleSet from an explicit rule list.
func NewRuleSet(rules []Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// rulesFile mirrors the structure of an optional .gitship.yaml.
type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRulesFile reads a YAML rules file and returns the rule set it defines.
// The file's rule list fully replaces the defaults. A rule without a category
// or pattern is a configuration error, not a silent no-op.
func LoadRulesFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gitshipErrors.Wrapf(err, "failed to read rules file %s", path)
	}

	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, gitshipErrors.NewConfigError("rules", path,
			gitshipErrors.Wrap(gitshipErrors.ErrInvalidConfiguration, err.Error()))
	}

	for i, r := range f.Rules {
		if r.Category == "" || r.Pattern == "" {
			return nil, gitshipErrors.NewConfigError("rules", path,
				gitshipErrors.Wrapf(gitshipErrors.ErrInvalidConfiguration,
					"rule %d must set both category and pattern", i))
		}
	}

	return NewRuleSet(f.Rules), nil
}

// Result holds the outcome of classifying one run's changed paths.
type Result struct {
	// matched maps category -> paths that matched at least one rule of
	// that category, in the order the paths were supplied.
	matched map[string][]string

	// order preserves first-match category order for stable reporting.
	order []string
}

// Categories returns the categories with at least one matching path, in the
// order they first matched.
func (r *Result) Categories() []string {
	return r.order
}

// Paths returns the changed paths that matched the given category.
func (r *Result) Paths(category string) []string {
	return r.matched[category]
}

// Has reports whether any path matched the given category.
func (r *Result) Has(category string) bool {
	return len(r.matched[category]) > 0
}

// Classify tests every changed path against the rule set. It tolerates zero
// matches in any or all categories; classification is advisory only and never
// fails.
func (s *RuleSet) Classify(paths []string) *Result {
	res := &Result{matched: make(map[string][]string)}

	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		seen := make(map[string]bool)
		for _, rule := range s.rules {
			if seen[rule.Category] || !rule.Matches(path) {
				continue
			}
			seen[rule.Category] = true
			if _, ok := res.matched[rule.Category]; !ok {
				res.order = append(res.order, rule.Category)
			}
			res.matched[rule.Category] = append(res.matched[rule.Category], path)
		}
	}

	return res
}
