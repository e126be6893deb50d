package card

const (
	CardInvalid Card = 0
)

const (
	RankSeven byte = iota + 7
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
	RankAce
)

// Heart ♥
const (
	CardHeart7 Card = iota + 0x07
	CardHeart8
	CardHeart9
	CardHeartT
	CardHeartJ
	CardHeartQ
	CardHeartK
	CardHeartA
)

// Diamond ♦
const (
	CardDiamond7 Card = iota + 0x17
	CardDiamond8
	CardDiamond9
	CardDiamondT
	CardDiamondJ
	CardDiamondQ
	CardDiamondK
	CardDiamondA
)

// Club ♣
const (
	CardClub7 Card = iota + 0x27
	CardClub8
	CardClub9
	CardClubT
	CardClubJ
	CardClubQ
	CardClubK
	CardClubA
)

// Spade ♠
const (
	CardSpade7 Card = iota + 0x37
	CardSpade8
	CardSpade9
	CardSpadeT
	CardSpadeJ
	CardSpadeQ
	CardSpadeK
	CardSpadeA
)

// DeckSize is the number of cards in a piquet deck.
const DeckSize = 32

// Deck is the canonical 32-card order: suits ♥♦♣♠, ranks 7..A within each suit.
var Deck = []Card{
	CardHeart7, CardHeart8, CardHeart9, CardHeartT, CardHeartJ, CardHeartQ, CardHeartK, CardHeartA,
	CardDiamond7, CardDiamond8, CardDiamond9, CardDiamondT, CardDiamondJ, CardDiamondQ, CardDiamondK, CardDiamondA,
	CardClub7, CardClub8, CardClub9, CardClubT, CardClubJ, CardClubQ, CardClubK, CardClubA,
	CardSpade7, CardSpade8, CardSpade9, CardSpadeT, CardSpadeJ, CardSpadeQ, CardSpadeK, CardSpadeA,
}
