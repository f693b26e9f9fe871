package names

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// minPrefixLen is the shortest token length at which prefix compatibility
	// applies between tokens of multi-token names ("chris" ~ "christopher").
	minPrefixLen = 4
	// minSingleTokenPrefixLen is the shortest length for prefix matching a
	// single-token name against the tokens of a longer name.
	minSingleTokenPrefixLen = 3
)

// Match reports whether two normalized names refer to the same person. Rules are
// evaluated in order and the first rule that decides returns:
//
//  1. identical strings
//  2. one string contains the other
//  3. same tokens in any order
//  4. both have two or more tokens: first/last token compatibility, including
//     fully reversed names and middle-name tolerance for longer names
//  5. exactly one is a single token: it equals or prefix-matches a token of the other
//
// Empty names never match. The result is symmetric in its arguments.
func Match(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}
	if sameTokens(ta, tb) {
		return true
	}

	switch {
	case len(ta) >= 2 && len(tb) >= 2:
		return matchMultiToken(ta, tb)
	case len(ta) == 1 && len(tb) >= 2:
		return matchSingleToken(ta[0], tb)
	case len(tb) == 1 && len(ta) >= 2:
		return matchSingleToken(tb[0], ta)
	default:
		return false
	}
}

func matchMultiToken(ta, tb []string) bool {
	firstA, lastA := ta[0], ta[len(ta)-1]
	firstB, lastB := tb[0], tb[len(tb)-1]
	long := len(ta) > 2 || len(tb) > 2

	if compatible(firstA, firstB) {
		if compatible(lastA, lastB) {
			return true
		}
		return long && (anyCompatible(tb, lastA) || anyCompatible(ta, lastB))
	}

	if compatible(firstA, lastB) && compatible(lastA, firstB) {
		return true
	}

	if long {
		return containsEnds(tb, firstA, lastA) || containsEnds(ta, firstB, lastB)
	}
	return false
}

func matchSingleToken(token string, others []string) bool {
	tokenLen := utf8.RuneCountInString(token)
	for _, other := range others {
		if token == other {
			return true
		}
		if tokenLen >= minSingleTokenPrefixLen &&
			utf8.RuneCountInString(other) >= minSingleTokenPrefixLen &&
			isPrefixEither(token, other) {
			return true
		}
	}
	return false
}

// compatible reports whether two tokens are equal or, when both are at least
// minPrefixLen long, one is a prefix of the other.
func compatible(x, y string) bool {
	if x == y {
		return true
	}
	if utf8.RuneCountInString(x) < minPrefixLen || utf8.RuneCountInString(y) < minPrefixLen {
		return false
	}
	return isPrefixEither(x, y)
}

func anyCompatible(tokens []string, target string) bool {
	for _, token := range tokens {
		if compatible(token, target) {
			return true
		}
	}
	return false
}

func containsEnds(tokens []string, first, last string) bool {
	return anyCompatible(tokens, first) && anyCompatible(tokens, last)
}

func isPrefixEither(x, y string) bool {
	return strings.HasPrefix(x, y) || strings.HasPrefix(y, x)
}

func sameTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	sa := append([]string(nil), a...)
	sb := append([]string(nil), b...)
	sort.Strings(sa)
	sort.Strings(sb)
	for i := range sa {
		if sa[i] != sb[i] {
			return false
		}
	}
	return true
}
