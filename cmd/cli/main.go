// Command cli plays the casino games in a terminal against a local or remote deck.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"card-casino-go/internal/config"
	"card-casino-go/internal/deck"
	"card-casino-go/internal/game"
	"card-casino-go/internal/game/blackjack"
	"card-casino-go/internal/game/highlow"
	"card-casino-go/internal/game/poker"
	"card-casino-go/internal/game/table"
	"card-casino-go/internal/session"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/sirupsen/logrus"
)

const (
	actQuit      = "Quit"
	actRetryDeck = "Retry deck"
	actBet       = "Bet"
	actNewRound  = "New round"
)

func main() {
	providerFlag := flag.String("deck", config.DeckProviderLocal, "deck provider: local or remote")
	apiFlag := flag.String("api", config.DefaultDeckAPIBase, "remote deck API base URL")
	seedFlag := flag.Uint64("seed", 0, "local deck seed (0 = random)")
	delayFlag := flag.Duration("dealer-delay", 800*time.Millisecond, "pause between dealer draws")
	gameFlag := flag.String("game", "", "game to play: blackjack, poker or highlow")
	flag.Parse()

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	var provider deck.Provider
	switch *providerFlag {
	case config.DeckProviderLocal:
		local, err := deck.NewLocal(*seedFlag)
		if err != nil {
			pterm.Fatal.Println(err)
		}
		provider = local
	case config.DeckProviderRemote:
		provider = deck.NewClient(*apiFlag, 10*time.Second, log)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [-deck local|remote] [-game name]\n", os.Args[0])
		os.Exit(2)
	}

	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Card ", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("Casino", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}

	mgr := session.NewManager(session.Config{Provider: provider, DealerDelay: *delayFlag, Logger: log})
	ctx := context.Background()

	gameType := *gameFlag
	for {
		if gameType == "" {
			gameType, _ = pterm.DefaultInteractiveSelect.
				WithDefaultText("Pick a game").
				WithOptions(append(mgr.Types(), actQuit)).
				Show()
		}
		if gameType == actQuit {
			return
		}
		s, err := mgr.Create(ctx, gameType)
		if err != nil {
			pterm.Error.Println(err)
			gameType = ""
			continue
		}
		play(ctx, mgr, s)
		_ = mgr.End(s.ID)
		gameType = ""
	}
}

// play runs one session until the player quits it.
func play(ctx context.Context, mgr *session.Manager, s *session.Session) {
	snap := s.Snapshot()
	for {
		render(snap)
		actions := actionsFor(snap)
		choice, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Your move").WithOptions(actions).Show()
		if choice == actQuit {
			return
		}

		var err error
		if choice == actRetryDeck {
			snap, err = mgr.RetryDeck(ctx, s.ID)
		} else {
			snap, err = apply(ctx, s, choice)
		}
		if err != nil {
			pterm.Warning.Println(session.ErrorMessage(err))
		}
		snap = waitForDealer(s, snap)
	}
}

// waitForDealer polls while the dealer plays out a paced turn.
func waitForDealer(s *session.Session, snap session.Snapshot) session.Snapshot {
	if !snap.Busy {
		return snap
	}
	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Dealer is playing...")
	version := snap.Version
	for snap.Busy {
		time.Sleep(100 * time.Millisecond)
		snap = s.Snapshot()
		if snap.Version != version && snap.Busy {
			version = snap.Version
			spinner.UpdateText(fmt.Sprintf("Dealer shows %s", dealerLine(snap)))
		}
	}
	_ = spinner.Stop()
	return snap
}

func apply(ctx context.Context, s *session.Session, choice string) (session.Snapshot, error) {
	switch s.Game {
	case game.TypeBlackjack:
		return session.Apply(ctx, s, choice, func(ctx context.Context, e *blackjack.Engine) error {
			switch choice {
			case actBet:
				return withBet(s, func(bet int) error { return e.PlaceBetAndDeal(ctx, bet) })
			case "Hit":
				return e.Hit(ctx)
			case "Stand":
				return e.Stand(ctx)
			case "Resume dealer":
				// The session plays any dealer turn left open after an operation.
				return nil
			case actNewRound:
				return e.NewRound(ctx)
			}
			return nil
		})
	case game.TypePoker:
		return session.Apply(ctx, s, choice, func(ctx context.Context, e *poker.Engine) error {
			switch choice {
			case actBet:
				return withBet(s, func(bet int) error { return e.PlaceBetAndDeal(ctx, bet) })
			case "Select cards":
				return selectCards(e)
			case "Exchange":
				return e.Exchange(ctx)
			case "Stand pat":
				return e.Finalize(ctx)
			case actNewRound:
				return e.NewRound(ctx)
			}
			return nil
		})
	case game.TypeHighLow:
		return session.Apply(ctx, s, choice, func(ctx context.Context, e *highlow.Engine) error {
			switch choice {
			case actBet:
				return withBet(s, func(bet int) error { return e.PlaceBetAndDraw(ctx, bet) })
			case "Higher":
				return e.Guess(ctx, highlow.Higher)
			case "Lower":
				return e.Guess(ctx, highlow.Lower)
			case "Double up":
				return e.ContinueDoubleUp(ctx)
			case "Cash out":
				return e.CashOut(ctx)
			case "Restart":
				return e.Restart(ctx)
			}
			return nil
		})
	}
	return s.Snapshot(), errors.New("unknown game")
}

// withBet asks for the stake, defaulting to the whole stack.
func withBet(s *session.Session, place func(bet int) error) error {
	snap := s.Snapshot()
	text, _ := pterm.DefaultInteractiveTextInput.
		WithDefaultText(fmt.Sprintf("Bet (1-%d)", snap.Chips)).
		WithDefaultValue(strconv.Itoa(table.ClampBet(snap.Chips, snap.Chips))).
		Show()
	bet, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		bet = 0
	}
	return place(bet)
}

func selectCards(e *poker.Engine) error {
	v, ok := e.View().(poker.View)
	if !ok {
		return nil
	}
	options := make([]string, len(v.Hand))
	var defaults []string
	for i, c := range v.Hand {
		options[i] = fmt.Sprintf("%d: %s", i+1, c)
		for _, sel := range v.Selected {
			if sel == i {
				defaults = append(defaults, options[i])
			}
		}
	}
	picked, _ := pterm.DefaultInteractiveMultiselect.
		WithDefaultText("Cards to exchange").
		WithOptions(options).
		WithDefaultOptions(defaults).
		Show()
	want := map[int]bool{}
	for _, p := range picked {
		n, err := strconv.Atoi(strings.SplitN(p, ":", 2)[0])
		if err == nil {
			want[n-1] = true
		}
	}
	current := map[int]bool{}
	for _, i := range v.Selected {
		current[i] = true
	}
	for i := range v.Hand {
		if want[i] != current[i] {
			if err := e.ToggleSelection(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func actionsFor(snap session.Snapshot) []string {
	var out []string
	switch v := snap.State.(type) {
	case blackjack.View:
		if !v.DeckReady {
			out = append(out, actRetryDeck)
		}
		switch v.Phase {
		case blackjack.PhaseAwaitingBet:
			out = append(out, actBet)
		case blackjack.PhasePlayerTurn:
			out = append(out, "Hit", "Stand", actNewRound)
		case blackjack.PhaseDealerTurn:
			out = append(out, "Resume dealer", actNewRound)
		case blackjack.PhaseResolved:
			out = append(out, actNewRound)
		}
	case poker.View:
		if !v.DeckReady {
			out = append(out, actRetryDeck)
		}
		switch v.Phase {
		case poker.PhaseAwaitingBet:
			out = append(out, actBet)
		case poker.PhaseInitialHand, poker.PhaseExchange:
			if v.CanExchange {
				out = append(out, "Select cards", "Exchange")
			}
			out = append(out, "Stand pat", actNewRound)
		case poker.PhaseFinal:
			out = append(out, actNewRound)
		}
	case highlow.View:
		if !v.DeckReady {
			out = append(out, actRetryDeck)
		}
		switch v.Phase {
		case highlow.PhaseAwaitingBet:
			out = append(out, actBet)
		case highlow.PhaseCardDrawn:
			out = append(out, "Higher", "Lower")
		case highlow.PhaseWinChoice, highlow.PhaseDraw:
			out = append(out, "Double up", "Cash out")
		case highlow.PhaseGameOver:
			out = append(out, "Restart")
		}
	}
	return append(out, actQuit)
}
