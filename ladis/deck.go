package ladis

import "ladis-lite/card"

// dealFirst hands out deck[0:16], one card per seat per pass, four passes.
func dealFirst(deck card.CardList, players [NumSeats]*Player) {
	dealRange(deck, players, 0)
}

// dealSecond hands out deck[16:32] the same way.
func dealSecond(deck card.CardList, players [NumSeats]*Player) {
	dealRange(deck, players, firstDealSize)
}

func dealRange(deck card.CardList, players [NumSeats]*Player, from int) {
	idx := from
	for pass := 0; pass < cardsPerDeal; pass++ {
		for _, p := range players {
			p.AddHandCard(deck[idx])
			idx++
		}
	}
}
