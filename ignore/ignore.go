package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Names of the ignore files read from the root directory, in load order.
const (
	GitignoreName  = ".gitignore"
	LensignoreName = ".lensignore"
)

// Matcher decides whether a root-relative path is excluded from listings and
// searches. Rules come from .gitignore, .lensignore, and CLI exclude patterns,
// in that order; the first matching rule wins.
//
// Only a subset of the gitignore syntax is supported: a trailing "/" scopes a
// rule to directory segment runs, a leading "/" anchors it to the root, and
// "*" matches any run of characters except "/". There is no "**", no
// character classes, and no "!" negation; such rules degrade to literal or
// wildcard matching.
//
// Rules are loaded once when the matcher is built and never reloaded, so the
// matcher needs no locking.
type Matcher struct {
	enabled  bool
	rules    []rule
	patterns []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir        string
	Enabled        bool
	CustomPatterns []string
}

// NewMatcher builds a matcher from the ignore files under RootDir plus any
// custom patterns. Malformed lines (blank, comments, bare separators) are
// dropped at load time.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		enabled: options.Enabled,
	}

	var sources []string
	sources = append(sources, loadIgnoreFile(filepath.Join(options.RootDir, GitignoreName))...)
	sources = append(sources, loadIgnoreFile(filepath.Join(options.RootDir, LensignoreName))...)
	sources = append(sources, options.CustomPatterns...)

	for _, pattern := range sources {
		r, ok := compileRule(pattern)
		if !ok {
			continue
		}
		matcher.rules = append(matcher.rules, r)
		matcher.patterns = append(matcher.patterns, pattern)
	}

	return matcher
}

// ShouldIgnore returns true if the given root-relative path (forward slashes)
// matches any loaded rule. The root itself ("." or "") is never ignored.
func (m *Matcher) ShouldIgnore(relativePath string) bool {
	if !m.enabled || len(m.rules) == 0 {
		return false
	}
	relativePath = filepath.ToSlash(relativePath)
	if relativePath == "" || relativePath == "." {
		return false
	}

	for _, r := range m.rules {
		if r.matches(relativePath) {
			return true
		}
	}
	return false
}

// Enabled reports whether ignore filtering is active.
func (m *Matcher) Enabled() bool { return m.enabled }

// RuleCount returns the number of compiled rules.
func (m *Matcher) RuleCount() int { return len(m.rules) }

// Patterns returns the source pattern strings in rule order.
func (m *Matcher) Patterns() []string { return m.patterns }

// rule is one compiled ignore pattern.
type rule struct {
	dir    bool // trailing "/" in the source: matches directory segment runs
	rooted bool // leading "/" in the source: matches from the root only
	re     *regexp.Regexp
}

// compileRule translates a pattern into a rule. Returns ok=false for
// patterns with no matchable body.
func compileRule(pattern string) (rule, bool) {
	body := pattern
	var r rule

	if strings.HasSuffix(body, "/") {
		r.dir = true
		body = strings.TrimSuffix(body, "/")
	}
	if strings.HasPrefix(body, "/") {
		r.rooted = true
		body = strings.TrimPrefix(body, "/")
	}
	if body == "" {
		return rule{}, false
	}

	re, err := regexp.Compile(wildcardRegexp(body))
	if err != nil {
		return rule{}, false
	}
	r.re = re
	return r, true
}

// wildcardRegexp converts a pattern body to an anchored regexp source:
// "*" becomes "[^/]*", everything else is quoted literally.
func wildcardRegexp(body string) string {
	parts := strings.Split(body, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return "^" + strings.Join(parts, "[^/]*") + "$"
}

// matches applies the rule to a root-relative slash-separated path.
func (r rule) matches(relativePath string) bool {
	if r.dir {
		// Directory-scoped: the rule must equal some contiguous run of
		// path segments (a run starting at the root when anchored).
		parts := strings.Split(relativePath, "/")
		starts := len(parts)
		if r.rooted {
			starts = 1
		}
		for i := 0; i < starts; i++ {
			joined := parts[i]
			if r.re.MatchString(joined) {
				return true
			}
			for j := i + 1; j < len(parts); j++ {
				joined += "/" + parts[j]
				if r.re.MatchString(joined) {
					return true
				}
			}
		}
		return false
	}

	if r.rooted {
		return r.re.MatchString(relativePath)
	}

	// Free-floating: try the full path, every suffix obtained by dropping
	// leading segments, and every bare segment.
	if r.re.MatchString(relativePath) {
		return true
	}
	parts := strings.Split(relativePath, "/")
	for i := range parts {
		if r.re.MatchString(parts[i]) {
			return true
		}
		if i > 0 && r.re.MatchString(strings.Join(parts[i:], "/")) {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads pattern lines from an ignore file, skipping blank
// lines and "#" comments. A missing or unreadable file yields no patterns.
func loadIgnoreFile(filePath string) []string {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}
