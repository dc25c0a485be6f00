package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitshipErrors "github.com/gitship/gitship/internal/errors"
)

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		path    string
		matches bool
	}{
		{
			name:    "directory pattern matches nested file",
			rule:    Rule{Category: CategoryData, Pattern: "backend/data/"},
			path:    "backend/data/models.py",
			matches: true,
		},
		{
			name:    "directory pattern does not match sibling",
			rule:    Rule{Category: CategoryData, Pattern: "backend/data/"},
			path:    "backend/database.py",
			matches: false,
		},
		{
			name:    "exact file pattern matches",
			rule:    Rule{Category: CategoryData, Pattern: "frontend/src/App.js"},
			path:    "frontend/src/App.js",
			matches: true,
		},
		{
			name:    "exact file pattern does not match prefix",
			rule:    Rule{Category: CategoryData, Pattern: "frontend/src/App.js"},
			path:    "frontend/src/App.jsx",
			matches: false,
		},
		{
			name:    "bare directory name matches contents",
			rule:    Rule{Category: CategoryAPI, Pattern: "backend/api"},
			path:    "backend/api/views.py",
			matches: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.rule.Matches(tt.path))
		})
	}
}

func TestClassifyDataOnly(t *testing.T) {
	result := DefaultRules().Classify([]string{
		"backend/data/models.py",
		"data/seed.json",
		"README.md",
	})

	assert.True(t, result.Has(CategoryData))
	assert.False(t, result.Has(CategoryAPI))
	assert.Equal(t, []string{CategoryData}, result.Categories())
	assert.Equal(t, []string{"backend/data/models.py", "data/seed.json"}, result.Paths(CategoryData))
}

func TestClassifyAPIOnly(t *testing.T) {
	result := DefaultRules().Classify([]string{"backend/api/views.py"})

	assert.False(t, result.Has(CategoryData))
	assert.True(t, result.Has(CategoryAPI))
}

func TestClassifyBothCategories(t *testing.T) {
	result := DefaultRules().Classify([]string{
		"frontend/src/App.js",
		"backend/services/billing.py",
	})

	assert.True(t, result.Has(CategoryData))
	assert.True(t, result.Has(CategoryAPI))
	assert.Len(t, result.Categories(), 2)
}

func TestClassifyNoMatches(t *testing.T) {
	result := DefaultRules().Classify([]string{"README.md", "Makefile"})

	assert.Empty(t, result.Categories())
	assert.False(t, result.Has(CategoryData))
	assert.False(t, result.Has(CategoryAPI))
}

func TestClassifyEmptyInput(t *testing.T) {
	result := DefaultRules().Classify(nil)
	assert.Empty(t, result.Categories())
}

func TestClassifyPathCountedOncePerCategory(t *testing.T) {
	// A path under data/ must not be double-counted even if several data
	// rules could match it.
	rules := NewRuleSet([]Rule{
		{Category: CategoryData, Pattern: "data/"},
		{Category: CategoryData, Pattern: "data/seed/"},
	})

	result := rules.Classify([]string{"data/seed/users.json"})
	assert.Equal(t, []string{"data/seed/users.json"}, result.Paths(CategoryData))
}

func TestLoadRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `rules:
  - category: data
    pattern: migrations/
  - category: api
    pattern: handlers/
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rules, err := LoadRulesFile(path)
	require.NoError(t, err)

	// The loaded rules fully replace the defaults.
	result := rules.Classify([]string{"migrations/0001_init.py", "backend/api/views.py"})
	assert.True(t, result.Has(CategoryData))
	assert.False(t, result.Has(CategoryAPI))
}

func TestLoadRulesFileInvalidRule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := `rules:
  - category: data
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := LoadRulesFile(path)
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrInvalidConfiguration))
}

func TestLoadRulesFileMissing(t *testing.T) {
	_, err := LoadRulesFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadRulesFileMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules: [what"), 0644))

	_, err := LoadRulesFile(path)
	require.Error(t, err)
	assert.True(t, gitshipErrors.Is(err, gitshipErrors.ErrInvalidConfiguration))
}
