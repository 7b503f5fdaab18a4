package deck

import "fmt"

// Card identifies one of the 52 playing cards as an integer in [0,51].
// The rank group is card/4 (0=Ace, 1=Two, 2=Three ... 12=King) and the
// suit is card%4. Values outside [0,51] are a caller contract violation.
type Card int

// Suit represents a card suit
type Suit int

const (
	Diamonds Suit = iota
	Clubs
	Hearts
	Spades
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// rankLabels is indexed by rank group (0=Ace, 1=Two, 2=Three ... 12=King).
var rankLabels = [13]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "T", "J", "Q", "K"}

// fixBoundary is the highest card value that gets remapped by Fixed. Cards
// below it are Aces and Twos, which outrank everything else in play.
const fixBoundary Card = 8

// RankGroup returns the card's rank group (0=Ace, 1=Two, 2=Three ... 12=King).
// The modulus makes the helper total over fixed values as well as raw ones.
func (c Card) RankGroup() int {
	return (int(c) % 52) / 4
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	return Suit(int(c) % 4)
}

// Fixed remaps Aces and Twos above Kings for ordinal comparison. All rank
// comparisons in the classifier, comparator and engine go through this one
// function so the remapping cannot drift between them.
func (c Card) Fixed() Card {
	if c < fixBoundary {
		return c + 52
	}
	return c
}

// FixedGroup returns the comparison rank group: Three=2 ... King=12,
// Ace=13, Two=14.
func (c Card) FixedGroup() int {
	return int(c.Fixed()) / 4
}

// String returns the string representation of a card (e.g. "3♦", "A♠").
func (c Card) String() string {
	return fmt.Sprintf("%s%s", rankLabels[c.RankGroup()], c.Suit())
}
