package deck

import (
	"fmt"
	"strings"
)

// ParseCard parses a two-character card like "3d", "Th" or "As"
// (rank A23456789TJQK, suit d/c/h/s). Case-insensitive.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("card must be 2 characters, got %q", s)
	}
	upper := strings.ToUpper(s)

	rank := -1
	for i, label := range rankLabels {
		if label == upper[:1] {
			rank = i
			break
		}
	}
	if rank < 0 {
		return 0, fmt.Errorf("invalid rank %q", s[:1])
	}

	var suit Suit
	switch upper[1] {
	case 'D':
		suit = Diamonds
	case 'C':
		suit = Clubs
	case 'H':
		suit = Hearts
	case 'S':
		suit = Spades
	default:
		return 0, fmt.Errorf("invalid suit %q", s[1:])
	}

	return Card(rank*4 + int(suit)), nil
}

// ParseCards parses a concatenated card list like "3d4h5sAc2d".
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("card string must have even length, got %q", s)
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals in tests; it panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
