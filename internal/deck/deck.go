package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lox/headsup/internal/randutil"
)

// ErrInsufficientCards is returned when more cards are requested than remain.
var ErrInsufficientCards = errors.New("insufficient cards")

// Deck represents a deck of playing cards. Cards are dealt from the top and
// never returned until Reset, so a deck never yields a duplicate within a hand.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewDeck creates a full 52-card deck shuffled with rng. A nil rng is seeded
// from the clock.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: All(),
		rng:   rng,
	}
	d.Shuffle()
	return d
}

// NewOrderedDeck creates a full deck in All order, unshuffled.
func NewOrderedDeck() *Deck {
	return &Deck{cards: All()}
}

// Shuffle randomizes the order of the remaining cards (Fisher-Yates)
func (d *Deck) Shuffle() {
	if d.rng == nil {
		d.rng, _ = randutil.NewFromTime()
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top card from the deck
func (d *Deck) Deal() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}

	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// DealN deals n cards from the deck. It deals nothing when fewer than n remain.
func (d *Deck) DealN(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientCards, n, len(d.cards))
	}

	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards, nil
}

// Remove takes the given cards out of the deck wherever they are. Cards that
// are not present are ignored.
func (d *Deck) Remove(cards ...Card) {
	if len(cards) == 0 {
		return
	}
	var gone [NumSuits * NumRanks]bool
	for _, c := range cards {
		if c.Valid() {
			gone[c.Index()] = true
		}
	}
	kept := d.cards[:0]
	for _, c := range d.cards {
		if !gone[c.Index()] {
			kept = append(kept, c)
		}
	}
	d.cards = kept
}

// Cards returns a copy of the remaining cards in deal order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards)
}

// Reset restores the deck to a full 52-card deck and shuffles it
func (d *Deck) Reset() {
	d.cards = append(d.cards[:0], All()...)
	d.Shuffle()
}
