package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"csscleaner/config"
)

// percentage selectors of keyframes are never removed
var keyframesPercent = regexp.MustCompile(`\d*%`)

// IgnoreRule exempts selector from corpus lookup. It is either a literal text
// or a regular expression, never both.
type IgnoreRule struct {
	literal string
	pattern *regexp.Regexp
}

// Literal creates rule matching selectors which contain (or equal, depending
// on match mode) the text.
func Literal(text string) IgnoreRule {
	return IgnoreRule{literal: text}
}

// Pattern creates rule matching selectors the expression finds a match in.
func Pattern(re *regexp.Regexp) IgnoreRule {
	return IgnoreRule{pattern: re}
}

// IsPattern reports if rule is a regular expression.
func (r IgnoreRule) IsPattern() bool {
	return r.pattern != nil
}

func (r IgnoreRule) String() string {
	if r.pattern != nil {
		return "/" + r.pattern.String() + "/"
	}
	return r.literal
}

// Match tests raw selector against the rule.
func (r IgnoreRule) Match(selector string, mode config.LiteralMatchMode) bool {
	if r.pattern != nil {
		return r.pattern.MatchString(selector)
	}
	if mode == config.LiteralMatchModeExact {
		return stripMarker(selector) == stripMarker(r.literal)
	}
	return strings.Contains(selector, r.literal)
}

func stripMarker(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '.' || s[0] == '#') {
		return s[1:]
	}
	return s
}

// DefaultIgnoreRules returns rules which are always in effect.
func DefaultIgnoreRules() []IgnoreRule {
	return []IgnoreRule{Pattern(keyframesPercent)}
}

// ParseIgnoreRules converts configured ignore entries to rules and appends
// them after default ones. Entry surrounded by slashes is a regular
// expression, anything else is a literal.
func ParseIgnoreRules(entries []string) ([]IgnoreRule, error) {
	rules := DefaultIgnoreRules()
	for _, e := range entries {
		if len(e) > 2 && strings.HasPrefix(e, "/") && strings.HasSuffix(e, "/") {
			re, err := regexp.Compile(e[1 : len(e)-1])
			if err != nil {
				return nil, fmt.Errorf("bad ignore expression %s: %w", e, err)
			}
			rules = append(rules, Pattern(re))
			continue
		}
		rules = append(rules, Literal(e))
	}
	return rules, nil
}
