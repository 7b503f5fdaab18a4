package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardMapping(t *testing.T) {
	tests := []struct {
		name  string
		card  Card
		group int
		suit  Suit
		str   string
	}{
		{name: "ace of diamonds", card: 0, group: 0, suit: Diamonds, str: "A♦"},
		{name: "ace of spades", card: 3, group: 0, suit: Spades, str: "A♠"},
		{name: "two of diamonds", card: 4, group: 1, suit: Diamonds, str: "2♦"},
		{name: "three of diamonds", card: 8, group: 2, suit: Diamonds, str: "3♦"},
		{name: "seven of hearts", card: 26, group: 6, suit: Hearts, str: "7♥"},
		{name: "king of spades", card: 51, group: 12, suit: Spades, str: "K♠"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.group, tt.card.RankGroup())
			assert.Equal(t, tt.suit, tt.card.Suit())
			assert.Equal(t, tt.str, tt.card.String())
		})
	}
}

func TestFixedRemapsAcesAndTwos(t *testing.T) {
	// Aces and Twos (cards 0..7) move above everything else
	for c := Card(0); c < 8; c++ {
		assert.Equal(t, c+52, c.Fixed(), "card %d", c)
	}
	// The Three of Diamonds onward stays put
	for c := Card(8); c < 52; c++ {
		assert.Equal(t, c, c.Fixed(), "card %d", c)
	}

	// Resulting order: Three lowest, then ... King, Ace, Two highest
	three, _ := ParseCard("3d")
	king, _ := ParseCard("Ks")
	ace, _ := ParseCard("Ad")
	two, _ := ParseCard("2d")
	assert.Less(t, three.Fixed(), king.Fixed())
	assert.Less(t, king.Fixed(), ace.Fixed())
	assert.Less(t, ace.Fixed(), two.Fixed())
}

func TestFixedGroupTotalOverFixedValues(t *testing.T) {
	// RankGroup and FixedGroup stay correct when handed already-fixed values
	assert.Equal(t, 0, Card(52).RankGroup()) // fixed Ace of Diamonds
	assert.Equal(t, 1, Card(56).RankGroup()) // fixed Two of Diamonds
	assert.Equal(t, 13, Card(0).FixedGroup())
	assert.Equal(t, 14, Card(4).FixedGroup())
	assert.Equal(t, 2, Card(8).FixedGroup())
	assert.Equal(t, 12, Card(48).FixedGroup())
}

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Card
		wantErr  bool
	}{
		{
			name:     "low straight",
			input:    "3d4h5s6c7d",
			expected: []Card{8, 14, 19, 21, 24},
		},
		{
			name:     "aces and twos",
			input:    "Ad2s",
			expected: []Card{0, 7},
		},
		{
			name:     "case insensitive",
			input:    "tHqS",
			expected: []Card{38, 47},
		},
		{
			name:    "invalid rank",
			input:   "Xd",
			wantErr: true,
		},
		{
			name:    "invalid suit",
			input:   "3x",
			wantErr: true,
		},
		{
			name:    "odd length",
			input:   "3d4",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
