package interp

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator is built once and shared across str_compare calls (SPEC_FULL
// §11). CompareString reuses the Collator's internal iterators, so it is
// not safe for concurrent use.
var collator = collate.New(language.Und)

// collatedCompare returns -1, 0, or 1, giving str_compare a locale-stable
// tie-breaker beyond spec §4.4's plain byte-lexicographic rule.
func collatedCompare(a, b string) int {
	return collator.CompareString(a, b)
}
