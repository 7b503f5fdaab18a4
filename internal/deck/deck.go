package deck

import (
	rand "math/rand/v2"
	"sort"
)

// Size is the number of cards in a standard deck.
const Size = 52

// New returns the ordered 52-card deck.
func New() []Card {
	cards := make([]Card, Size)
	for i := range cards {
		cards[i] = Card(i)
	}
	return cards
}

// Shuffle randomizes the order of cards in place using Fisher-Yates.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// SortByFixed orders cards ascending by fixed rank, so Threes come first
// and Twos last.
func SortByFixed(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Fixed() < cards[j].Fixed()
	})
}

// Remove returns hand without the given cards. The caller guarantees every
// card is present; missing cards are ignored.
func Remove(hand []Card, cards []Card) []Card {
	out := make([]Card, 0, len(hand))
	drop := make(map[Card]bool, len(cards))
	for _, c := range cards {
		drop[c] = true
	}
	for _, c := range hand {
		if !drop[c] {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether hand holds every one of the given cards, with no
// duplicates among them.
func Contains(hand []Card, cards []Card) bool {
	held := make(map[Card]bool, len(hand))
	for _, c := range hand {
		held[c] = true
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if !held[c] || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}
