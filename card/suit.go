package card

import (
	"fmt"
	"strings"
)

type Suit byte

const (
	Heart   Suit = iota // ♥
	Diamond             // ♦
	Club                // ♣
	Spade               // ♠
)

// AllSuits lists the suits in canonical deck order.
var AllSuits = []Suit{Heart, Diamond, Club, Spade}

// Symbol is the single-rune form used on the wire.
func (s Suit) Symbol() string {
	switch s {
	case Heart:
		return "♥"
	case Diamond:
		return "♦"
	case Club:
		return "♣"
	case Spade:
		return "♠"
	}
	return "?"
}

func (s Suit) String() string { return s.Symbol() }

// ParseSuit accepts the symbol, the English name, or its first letter.
func ParseSuit(raw string) (Suit, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "♥", "h", "heart", "hearts":
		return Heart, nil
	case "♦", "d", "diamond", "diamonds":
		return Diamond, nil
	case "♣", "c", "club", "clubs":
		return Club, nil
	case "♠", "s", "spade", "spades":
		return Spade, nil
	}
	return 0, fmt.Errorf("invalid suit: %q", raw)
}
