package main

import (
	"fmt"
	"strings"

	"card-casino-go/internal/game/blackjack"
	"card-casino-go/internal/game/common"
	"card-casino-go/internal/game/highlow"
	"card-casino-go/internal/game/poker"
	"card-casino-go/internal/game/table"
	"card-casino-go/internal/session"

	"github.com/pterm/pterm"
)

func render(snap session.Snapshot) {
	var body string
	var info table.Info
	switch v := snap.State.(type) {
	case blackjack.View:
		info, body = v.Info, blackjackBody(v)
	case poker.View:
		info, body = v.Info, pokerBody(v)
	case highlow.View:
		info, body = v.Info, highlowBody(v)
	}

	box := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	title := pterm.LightYellow(fmt.Sprintf("|%s|", strings.ToUpper(snap.Game)))
	board := pterm.Panel{Data: box.WithTitle(title).WithTitleTopCenter().Sprint(body)}
	status := pterm.Panel{Data: box.WithTitle("Table").WithTitleTopLeft().Sprint(tableLine(info))}
	_ = pterm.DefaultPanel.WithPanels([][]pterm.Panel{{board, status}}).Render()

	if snap.Error != "" {
		pterm.Error.Println(snap.Error)
	}
}

func tableLine(info table.Info) string {
	deck := pterm.LightRed("no deck")
	if info.DeckReady {
		deck = fmt.Sprintf("%d cards left", info.Remaining)
	}
	return fmt.Sprintf("Chips: %s\nStake: %d\nDeck:  %s", pterm.LightGreen(info.Chips), info.Stake, deck)
}

func cards(cs []common.Card) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = pterm.BgGreen.Sprint(" " + c.String() + " ")
	}
	return strings.Join(parts, " ")
}

func dealerLine(snap session.Snapshot) string {
	v, ok := snap.State.(blackjack.View)
	if !ok {
		return ""
	}
	parts := make([]string, len(v.Dealer))
	for i, c := range v.Dealer {
		if c == nil {
			parts[i] = "??"
		} else {
			parts[i] = c.String()
		}
	}
	line := strings.Join(parts, " ")
	if v.DealerTotal != nil {
		line += fmt.Sprintf(" (%d)", *v.DealerTotal)
	}
	return line
}

func blackjackBody(v blackjack.View) string {
	if v.Phase == blackjack.PhaseAwaitingBet {
		return "Place a bet to deal."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Bet: %d\n\n", v.Bet)
	fmt.Fprintf(&b, "Dealer: %s\n", dealerLine(session.Snapshot{State: v}))
	fmt.Fprintf(&b, "You:    %s (%d)\n", cards(v.Player), v.PlayerTotal)
	if v.Message != "" {
		fmt.Fprintf(&b, "\n%s", pterm.LightCyan(v.Message))
		if v.Payout > 0 {
			fmt.Fprintf(&b, "  +%d", v.Payout)
		}
	}
	return b.String()
}

func pokerBody(v poker.View) string {
	if v.Phase == poker.PhaseAwaitingBet {
		return "Place a bet to deal five cards."
	}
	selected := map[int]bool{}
	for _, i := range v.Selected {
		selected[i] = true
	}
	parts := make([]string, len(v.Hand))
	for i, c := range v.Hand {
		if selected[i] {
			parts[i] = pterm.BgRed.Sprintf(" %s ", c)
		} else {
			parts[i] = pterm.BgGreen.Sprintf(" %s ", c)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Bet: %d   Exchanges: %d / %d\n\n", v.Bet, v.Exchanges, v.MaxExchanges)
	b.WriteString(strings.Join(parts, " "))
	if v.Rank != nil {
		fmt.Fprintf(&b, "\n\n%s", pterm.LightCyan(v.Rank.String()))
		if v.Description != "" {
			fmt.Fprintf(&b, " (%s)", v.Description)
		}
		fmt.Fprintf(&b, "  pays %d", v.Payout)
	}
	return b.String()
}

func highlowBody(v highlow.View) string {
	var b strings.Builder
	if v.Last != nil {
		fmt.Fprintf(&b, "Last round: %s then %s, guessed %s. %s\n\n",
			v.Last.Previous, v.Last.Drawn, v.Last.Guess, v.Last.Message)
	}
	if v.Phase == highlow.PhaseAwaitingBet {
		b.WriteString("Place a bet to draw a card.")
		return b.String()
	}
	fmt.Fprintf(&b, "Bet: %d\n\n", v.Bet)
	if v.Previous != nil {
		fmt.Fprintf(&b, "Previous: %s\n", cards([]common.Card{*v.Previous}))
	}
	if v.Current != nil {
		fmt.Fprintf(&b, "Current:  %s\n", cards([]common.Card{*v.Current}))
	}
	if v.Message != "" {
		fmt.Fprintf(&b, "\n%s", pterm.LightCyan(v.Message))
		if v.Payout > 0 {
			fmt.Fprintf(&b, "  pending %d", v.Payout)
		}
	}
	return b.String()
}
