package layout

import (
	"slices"
	"strings"
)

// NaturalLess orders strings so that embedded digit runs compare by numeric
// value: "n2" sorts before "n10". Non-digit runs compare bytewise. Equal
// numeric values with different zero padding fall back to the shorter run.
func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// NaturalCompare returns -1, 0 or +1 using the ordering of [NaturalLess].
func NaturalCompare(a, b string) int {
	for a != "" && b != "" {
		da, db := isDigit(a[0]), isDigit(b[0])
		switch {
		case da && db:
			ra, restA := digitRun(a)
			rb, restB := digitRun(b)
			if c := compareDigits(ra, rb); c != 0 {
				return c
			}
			a, b = restA, restB
		case da != db:
			if da {
				return -1
			}
			return 1
		default:
			if a[0] != b[0] {
				if a[0] < b[0] {
					return -1
				}
				return 1
			}
			a, b = a[1:], b[1:]
		}
	}
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// SortNatural sorts ids in place by [NaturalCompare].
func SortNatural(ids []string) {
	slices.SortStableFunc(ids, NaturalCompare)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func digitRun(s string) (run, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func compareDigits(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		if len(ta) < len(tb) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
