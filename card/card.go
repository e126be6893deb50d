package card

import (
	"fmt"
	"strings"
)

// Card packs a suit and a rank into one byte.
//
// Encoding:
// - high 4 bits: suit (0:Heart, 1:Diamond, 2:Club, 3:Spade)
// - low 4 bits: rank (7..10, 11:J, 12:Q, 13:K, 14:A)
type Card byte

// String returns the wire id of the card, e.g. "♥10" or "♠A".
func (c Card) String() string {
	if !c.Valid() {
		return "Invalid"
	}
	return c.Suit().String() + rankLabel(c.Rank())
}

// ID is an alias of String kept for call sites that talk about card identities.
func (c Card) ID() string { return c.String() }

// Rank returns 7..14 (A=14), or 0 for an invalid card.
func (c Card) Rank() byte {
	if c == CardInvalid {
		return 0
	}
	return byte(c & 0x0F)
}

// Suit returns the suit stored in the high nibble.
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// Valid reports whether c is one of the 32 deck cards.
func (c Card) Valid() bool {
	r := c.Rank()
	return r >= RankSeven && r <= RankAce && c.Suit() <= Spade
}

// Beats reports whether c outranks other within the same suit.
func (c Card) Beats(other Card) bool {
	return c.Rank() > other.Rank()
}

// New builds a card from suit and rank, returning CardInvalid when out of range.
func New(s Suit, rank byte) Card {
	if s > Spade || rank < RankSeven || rank > RankAce {
		return CardInvalid
	}
	return Card(byte(s)<<4 | rank)
}

func rankLabel(r byte) string {
	switch r {
	case RankJack:
		return "J"
	case RankQueen:
		return "Q"
	case RankKing:
		return "K"
	case RankAce:
		return "A"
	default:
		return fmt.Sprintf("%d", r)
	}
}

// Parse converts a card id ("♥7", "♦10", "♣J", "♠A", or the ASCII form "h7", "DT", "sA") into a Card.
func Parse(id string) (Card, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return CardInvalid, fmt.Errorf("invalid card string: %q", id)
	}

	suit, rest, ok := cutSuit(id)
	if !ok {
		return CardInvalid, fmt.Errorf("invalid suit in card: %q", id)
	}

	var rank byte
	switch strings.ToUpper(rest) {
	case "7":
		rank = RankSeven
	case "8":
		rank = RankEight
	case "9":
		rank = RankNine
	case "10", "T":
		rank = RankTen
	case "J":
		rank = RankJack
	case "Q":
		rank = RankQueen
	case "K":
		rank = RankKing
	case "A":
		rank = RankAce
	default:
		return CardInvalid, fmt.Errorf("invalid rank in card: %q", id)
	}
	return New(suit, rank), nil
}

func cutSuit(id string) (Suit, string, bool) {
	for _, s := range AllSuits {
		if rest, found := strings.CutPrefix(id, s.Symbol()); found {
			return s, rest, true
		}
	}
	if s, err := ParseSuit(id[:1]); err == nil {
		return s, id[1:], true
	}
	return 0, "", false
}
