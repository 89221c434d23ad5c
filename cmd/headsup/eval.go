package main

import (
	"fmt"

	"github.com/lox/headsup/internal/deck"
	"github.com/lox/headsup/internal/evaluator"
)

type EvalCmd struct {
	Cards string `arg:"" help:"5 to 7 cards, e.g. 'AsKsQsJsTs' or 'Ah Kh 7c 7d 2s'"`
}

func (c *EvalCmd) Run() error {
	cards, err := deck.ParseCards(c.Cards)
	if err != nil {
		return fmt.Errorf("parse cards: %w", err)
	}

	hand, err := evaluator.BestHand(cards)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Cards: ") + handStyle.Render(deck.FormatCards(cards)))
	fmt.Println(headerStyle.Render("Hand:  ") + categoryStyle.Render(hand.Rank.String()))
	fmt.Println(headerStyle.Render("Best:  ") + handStyle.Render(deck.FormatCards(hand.Cards[:])))
	return nil
}
