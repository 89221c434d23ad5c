package phh

import (
	"fmt"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/game"
)

func playerTag(player int) string {
	return fmt.Sprintf("p%d", player)
}

// DealHole records the hole cards dealt to a player.
func DealHole(player int, hole []deck.Card) string {
	return fmt.Sprintf("d dh %s %s", playerTag(player), deck.FormatCards(hole))
}

// DealBoard records board cards dealt at the start of a street.
func DealBoard(cards []deck.Card) string {
	return "d db " + deck.FormatCards(cards)
}

// ShowHand records a player showing down.
func ShowHand(player int, hole []deck.Card) string {
	return fmt.Sprintf("%s sm %s", playerTag(player), deck.FormatCards(hole))
}

// FormatAction renders an engine action. PHH raises name the street total
// the player raises to, not the chips added.
func FormatAction(player int, action game.Action, streetTotal int) string {
	switch action.Type {
	case game.Fold:
		return playerTag(player) + " f"
	case game.Raise:
		return fmt.Sprintf("%s cbr %d", playerTag(player), streetTotal)
	default:
		return playerTag(player) + " cc"
	}
}
