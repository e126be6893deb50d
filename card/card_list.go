package card

import "math/rand"

type CardList []Card

// NewDeck returns a fresh copy of the canonical deck.
func NewDeck() CardList {
	ds := make(CardList, len(Deck))
	copy(ds, Deck)
	return ds
}

// Count returns the number of cards in the list.
func (ds CardList) Count() int {
	return len(ds)
}

// Shuffled returns an independent Fisher-Yates permutation of ds; ds itself is untouched.
func (ds CardList) Shuffled(rng *rand.Rand) CardList {
	out := make(CardList, len(ds))
	copy(out, ds)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}

// Index returns the position of c, or -1.
func (ds CardList) Index(c Card) int {
	for i, cc := range ds {
		if cc == c {
			return i
		}
	}
	return -1
}

// Remove deletes the first occurrence of c and reports whether it was present.
func (ds *CardList) Remove(c Card) bool {
	i := ds.Index(c)
	if i < 0 {
		return false
	}
	*ds = append((*ds)[:i], (*ds)[i+1:]...)
	return true
}

// HasSuit reports whether any card of suit s is present.
func (ds CardList) HasSuit(s Suit) bool {
	for _, c := range ds {
		if c.Suit() == s {
			return true
		}
	}
	return false
}

// IDs returns the wire ids in order.
func (ds CardList) IDs() []string {
	out := make([]string, 0, len(ds))
	for _, c := range ds {
		out = append(out, c.ID())
	}
	return out
}
