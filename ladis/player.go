package ladis

import "ladis-lite/card"

type Player struct {
	ID   string
	Name string
	Seat uint16
	Team Team

	// Away is set once the player disconnects after the game started.
	Away bool

	hand card.CardList
}

func (p *Player) Hand() card.CardList {
	return p.hand
}

func (p *Player) AddHandCard(cards ...card.Card) {
	p.hand = append(p.hand, cards...)
}

func (p *Player) clearHand() {
	p.hand = make(card.CardList, 0, 2*cardsPerDeal)
}
