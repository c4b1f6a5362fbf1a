package cleaner

import (
	"regexp"
	"strings"
)

var (
	// attribute name together with operator, value is kept as separate token
	attrClause = regexp.MustCompile(`\[[^=\]]*=`)
	notClause  = regexp.MustCompile(`:not\([^)]*\)`)
	pseudo     = regexp.MustCompile(`::?[^\s:]*`)

	structural = strings.NewReplacer(".", " ", "#", " ", "=", " ", "[", " ", "]", " ", ">", " ", "+", " ", "~", " ")
	noise      = strings.NewReplacer("/", "", `"`, "", "'", "", "\n", "", "\t", "", "*", "")
	newlines   = strings.NewReplacer("\r\n", "", "\n", "", "\r", "")
)

// SplitSelectors breaks selector list of a rule into raw selectors. New
// lines are removed first, selectors are not trimmed.
func SplitSelectors(list string) []string {
	return strings.Split(newlines.Replace(list), ",")
}

// Fragments derives tokens to look for in the corpus from a single selector:
// class, id, tag names and attribute values stripped of CSS syntax. Tokens
// starting with a digit are dropped.
func Fragments(selector string) []string {
	s := attrClause.ReplaceAllString(selector, " ")
	s = structural.Replace(s)

	s = noise.Replace(s)
	s = notClause.ReplaceAllString(s, "")
	s = pseudo.ReplaceAllString(s, "")

	var out []string
	for _, f := range strings.Fields(s) {
		if f[0] >= '0' && f[0] <= '9' {
			continue
		}
		out = append(out, f)
	}
	return out
}

// fragmentExpr builds expression which finds fragment in the corpus as a
// separate token: preceded by class/id marker, space, quote, tag or
// attribute opening and followed by similar delimiter or word character.
func fragmentExpr(fragment string) *regexp.Regexp {
	return regexp.MustCompile(`(\.|#| |"|'|<|\[)(` + regexp.QuoteMeta(fragment) + `)(\.|#| |"|'|>|\]|\n|[\d\w])`)
}
