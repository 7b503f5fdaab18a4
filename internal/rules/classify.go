// Package rules implements hand classification and comparison for the
// Big-Two variant played here. Hands are unordered sets of 1, 2, 3 or 5
// cards; every predicate guards its own arity and reports false on a
// mismatch rather than erroring.
package rules

import (
	"sort"

	"github.com/lox/bigtwo/internal/deck"
)

// Category ranks the five-card hand shapes. Cross-category comparisons use
// this order directly: a higher category beats a lower one regardless of
// rank.
type Category int

const (
	CategoryNone Category = iota
	CategoryStraight
	CategoryFlush
	CategoryFullHouse
	CategoryFourOfKind
	CategoryStraightFlush
)

// String returns the string representation of a category
func (c Category) String() string {
	switch c {
	case CategoryStraight:
		return "straight"
	case CategoryFlush:
		return "flush"
	case CategoryFullHouse:
		return "full house"
	case CategoryFourOfKind:
		return "four of a kind"
	case CategoryStraightFlush:
		return "straight flush"
	default:
		return "none"
	}
}

// IsPair reports whether h is exactly two cards of the same rank group.
func IsPair(h []deck.Card) bool {
	return len(h) == 2 && h[0].RankGroup() == h[1].RankGroup()
}

// IsTriple reports whether h is exactly three cards of the same rank group.
func IsTriple(h []deck.Card) bool {
	return len(h) == 3 &&
		h[0].RankGroup() == h[1].RankGroup() &&
		h[1].RankGroup() == h[2].RankGroup()
}

// IsFlush reports whether h is exactly five cards of the same suit.
func IsFlush(h []deck.Card) bool {
	if len(h) != 5 {
		return false
	}
	suit := h[0].Suit()
	for _, c := range h[1:] {
		if c.Suit() != suit {
			return false
		}
	}
	return true
}

// IsStraight reports whether h is five consecutive rank groups. Rank groups
// are indexed Ace=0, Two=1, Three=2 ... King=12, so the only runs through
// an Ace or Two are the low ones anchored at the Three (A-2-3-4-5,
// 2-3-4-5-6). J-Q-K-A-2 is not a straight, and neither is any Ace-high run.
func IsStraight(h []deck.Card) bool {
	if len(h) != 5 {
		return false
	}
	groups := make([]int, 5)
	for i, c := range h {
		groups[i] = c.RankGroup()
	}
	sort.Ints(groups)
	for i := 1; i < 5; i++ {
		if groups[i] != groups[i-1]+1 {
			return false
		}
	}
	return true
}

// IsFullHouse reports whether h is a triple plus a pair.
func IsFullHouse(h []deck.Card) bool {
	sizes := groupSizes(h)
	return len(sizes) == 2 && sizes[0] == 2 && sizes[1] == 3
}

// IsFourOfKind reports whether h is four of a rank plus one other card.
func IsFourOfKind(h []deck.Card) bool {
	sizes := groupSizes(h)
	return len(sizes) == 2 && sizes[0] == 1 && sizes[1] == 4
}

// CategoryOf classifies a five-card hand. Straight and flush are computed
// independently; holding both makes a straight flush. Any other length, or
// a shapeless five cards, is CategoryNone.
func CategoryOf(h []deck.Card) Category {
	if len(h) != 5 {
		return CategoryNone
	}
	straight, flush := IsStraight(h), IsFlush(h)
	switch {
	case straight && flush:
		return CategoryStraightFlush
	case IsFourOfKind(h):
		return CategoryFourOfKind
	case IsFullHouse(h):
		return CategoryFullHouse
	case flush:
		return CategoryFlush
	case straight:
		return CategoryStraight
	default:
		return CategoryNone
	}
}

// Valid reports whether h is any legal combination: a single, pair, triple,
// or categorized five-card hand.
func Valid(h []deck.Card) bool {
	switch len(h) {
	case 1:
		return true
	case 2:
		return IsPair(h)
	case 3:
		return IsTriple(h)
	case 5:
		return CategoryOf(h) != CategoryNone
	default:
		return false
	}
}

// Mode returns the fixed rank group with the largest card count, ties going
// to the numerically greater group. It decides between two full houses or
// two four-of-a-kinds.
func Mode(h []deck.Card) int {
	counts := make(map[int]int, len(h))
	for _, c := range h {
		counts[c.FixedGroup()]++
	}
	best, bestCount := -1, 0
	for group, count := range counts {
		if count > bestCount || (count == bestCount && group > best) {
			best, bestCount = group, count
		}
	}
	return best
}

// groupSizes returns the sorted multiset of rank-group sizes for a five-card
// hand, or nil for any other arity.
func groupSizes(h []deck.Card) []int {
	if len(h) != 5 {
		return nil
	}
	counts := make(map[int]int, 5)
	for _, c := range h {
		counts[c.RankGroup()]++
	}
	sizes := make([]int, 0, len(counts))
	for _, n := range counts {
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)
	return sizes
}
