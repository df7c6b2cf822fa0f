package pipeline

import (
	"regexp"
	"strings"
)

// A sublistMatcher recognizes one naming convention by which the notes column
// announces a sub-list. Matchers are tried in order; the first hit wins.
// Adding a new spreadsheet convention means appending a matcher here and a
// fixture in matchers_test.go, not rewriting the row scanner.
type sublistMatcher struct {
	// convention names the pattern for logs and test fixtures.
	convention string
	re         *regexp.Regexp
	// hasPali marks whether capture group 2 carries the Pali name.
	hasPali bool
}

// Both conventions require a numeral-word prefix ("Three", "Four", ...) so
// that ordinary prose in the notes column never opens a sub-list.
const numeralPrefix = `(?:Three|Four|Five|Six|Seven|Eight|Nine|Ten|Twelve|Thirty.?seven)`

var sublistMatchers = []sublistMatcher{
	{
		// "Five Aggregates (Pañca-khandha) ..."
		convention: "pali-parenthetical",
		re:         regexp.MustCompile(`^(` + numeralPrefix + `\s+[\w\s&/]+?)\s*\(([^)]+)\)`),
		hasPali:    true,
	},
	{
		// "Four Stages of Enlightenment — breaks down the path ..."
		convention: "dash-description",
		re:         regexp.MustCompile(`^(` + numeralPrefix + `\s+[\w\s&/]+?)\s*[—–-]\s`),
		hasPali:    false,
	},
}

// matchSublist scans the notes text against all conventions and returns the
// announced sub-list name and Pali name, if any.
func matchSublist(notes string) (name, pali string, ok bool) {
	for _, m := range sublistMatchers {
		groups := m.re.FindStringSubmatch(notes)
		if groups == nil {
			continue
		}
		name = strings.TrimSpace(groups[1])
		if m.hasPali {
			pali = strings.TrimSpace(groups[2])
		}
		return name, pali, true
	}
	return "", "", false
}
