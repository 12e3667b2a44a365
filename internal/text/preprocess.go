package text

import (
	"regexp"
	"strings"
)

var (
	crlfRe      = regexp.MustCompile(`\r\n?`)
	manyBlankRe = regexp.MustCompile(`\n{3,}`)
	spaceRunRe  = regexp.MustCompile(`[ \t]+`)
	paraBreakRe = regexp.MustCompile(`\n\s*\n`)
)

// Normalize cleans raw document text before chunking. The rules are applied
// in order: unify line endings, cap blank-line runs at one, collapse runs of
// spaces and tabs, and squash whitespace-only lines into clean paragraph
// breaks. Normalize is total: any input (including empty) yields a result,
// and applying it twice yields the same output as applying it once.
func Normalize(raw string) string {
	s := crlfRe.ReplaceAllString(raw, "\n")
	s = manyBlankRe.ReplaceAllString(s, "\n\n")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = paraBreakRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
