package nodes

import (
	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
)

const DefaultMaxReentries = 1

// normalizeMaxReentries returns a sane default when the provided value is invalid.
func normalizeMaxReentries(n int) int {
	if n <= 0 {
		return DefaultMaxReentries
	}
	return n
}

// incrementReentryAndCheck counts one router self-transition and reports
// whether the turn is now past the limit.
func incrementReentryAndCheck(t *model.Turn, max int) bool {
	max = normalizeMaxReentries(max)
	t.Reentries++
	return t.Reentries > max
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// joinWithAnd renders ["a","b","c"] as "a, b, and c".
func joinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	out := ""
	for i, it := range items {
		switch {
		case i == len(items)-1:
			out += ", and " + it
		case i > 0:
			out += ", " + it
		default:
			out = it
		}
	}
	return out
}
