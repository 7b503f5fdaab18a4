package rules

import (
	"sort"

	"github.com/lox/bigtwo/internal/deck"
)

// Beats reports whether candidate is a legal play on top of table. It is
// pure and total: an invalid candidate, an arity mismatch, a too-weak hand
// and an exact tie all collapse to false, which is all the engine needs.
//
// An empty table means a free lead; any valid combination may open it.
func Beats(table, candidate []deck.Card) bool {
	if !Valid(candidate) {
		return false
	}
	if len(table) == 0 {
		return true
	}
	if len(table) != len(candidate) {
		return false
	}

	switch len(candidate) {
	case 1, 2, 3:
		return maxFixed(candidate) > maxFixed(table)
	case 5:
		tc, cc := CategoryOf(table), CategoryOf(candidate)
		if tc == CategoryNone {
			// An invalid shape is never beaten; the engine keeps the
			// table valid, so this only guards adversarial callers.
			return false
		}
		if cc != tc {
			return cc > tc
		}
		switch cc {
		case CategoryStraight, CategoryStraightFlush:
			return maxFixed(candidate) > maxFixed(table)
		case CategoryFlush:
			return flushBeats(table, candidate)
		default: // full house, four of a kind
			return Mode(candidate) > Mode(table)
		}
	}
	return false
}

// flushBeats compares two flushes by fixed rank groups, highest card first.
// Identical rank sequences are a tie, which loses.
func flushBeats(table, candidate []deck.Card) bool {
	tg, cg := fixedGroupsDesc(table), fixedGroupsDesc(candidate)
	for i := range cg {
		if cg[i] != tg[i] {
			return cg[i] > tg[i]
		}
	}
	return false
}

func fixedGroupsDesc(h []deck.Card) []int {
	groups := make([]int, len(h))
	for i, c := range h {
		groups[i] = c.FixedGroup()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(groups)))
	return groups
}

func maxFixed(h []deck.Card) deck.Card {
	max := h[0].Fixed()
	for _, c := range h[1:] {
		if f := c.Fixed(); f > max {
			max = f
		}
	}
	return max
}
