package ladis

import (
	"fmt"

	"ladis-lite/card"
)

const DefaultCountdownTicks = 5

type Config struct {
	// Vakhaai countdown length in ticks (one tick per second in production).
	CountdownTicks int

	// Keep equal-sized leftover hands for the next round instead of reshuffling.
	CarryOverHands bool

	// RNG seed (0 => time-based)
	Seed int64

	// DeckOverride fixes the deck order of the first round. Must be a
	// permutation of the 32-card deck. Later rounds shuffle from Seed.
	DeckOverride card.CardList
}

func (c Config) validate() error {
	if c.CountdownTicks < 0 {
		return fmt.Errorf("CountdownTicks must be >= 0")
	}
	if len(c.DeckOverride) > 0 {
		if len(c.DeckOverride) != card.DeckSize {
			return fmt.Errorf("DeckOverride must hold %d cards, got %d", card.DeckSize, len(c.DeckOverride))
		}
		seen := make(map[card.Card]bool, card.DeckSize)
		for _, cd := range c.DeckOverride {
			if !cd.Valid() || seen[cd] {
				return fmt.Errorf("DeckOverride: invalid or duplicate card %s", cd)
			}
			seen[cd] = true
		}
	}
	return nil
}
