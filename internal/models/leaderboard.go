package models

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// LeaderboardDay is one day of settled rounds for a game.
type LeaderboardDay struct {
	Date    string `json:"date"` // YYYY-MM-DD, UTC
	Rounds  int64  `json:"rounds"`
	Wagered int64  `json:"wagered"`
	Paid    int64  `json:"paid"`
}

// LeaderboardGame aggregates every session's rounds of one game inside the window.
// ReturnRate is Paid / Wagered, 0 when nothing was wagered.
type LeaderboardGame struct {
	Game       string           `json:"game"`
	Rounds     int64            `json:"rounds"`
	Wagered    int64            `json:"wagered"`
	Paid       int64            `json:"paid"`
	ReturnRate float64          `json:"return_rate"`
	BestPayout int64            `json:"best_payout"`
	Series     []LeaderboardDay `json:"series"`
}

type LeaderboardResponse struct {
	Days  int64             `json:"days"`
	Items []LeaderboardGame `json:"items"`
}

// BuildLeaderboard summarizes the rounds settled in the last days days, per game. days is
// normalized to [1, 365] with 30 as the default.
func BuildLeaderboard(ctx context.Context, db *sql.DB, days int64, now time.Time) (*LeaderboardResponse, error) {
	if days <= 0 {
		days = 30
	}
	if days > 365 {
		days = 365
	}
	cutoff := now.UTC().AddDate(0, 0, -int(days))

	rows, err := db.QueryContext(ctx,
		`SELECT game, bet, payout, settled_at FROM rounds WHERE settled_at >= ? ORDER BY id ASC`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("BuildLeaderboard: querying rounds: %w", err)
	}
	defer rows.Close()

	byGame := map[string]*LeaderboardGame{}
	byDay := map[string]map[string]*LeaderboardDay{}
	for rows.Next() {
		var (
			game        string
			bet, payout int64
			settled     time.Time
		)
		if err := rows.Scan(&game, &bet, &payout, &settled); err != nil {
			return nil, fmt.Errorf("BuildLeaderboard: scanning round: %w", err)
		}
		if settled.Before(cutoff) {
			continue
		}
		g := byGame[game]
		if g == nil {
			g = &LeaderboardGame{Game: game}
			byGame[game] = g
			byDay[game] = map[string]*LeaderboardDay{}
		}
		g.Rounds++
		g.Wagered += bet
		g.Paid += payout
		g.BestPayout = max(g.BestPayout, payout)

		date := settled.UTC().Format(time.DateOnly)
		d := byDay[game][date]
		if d == nil {
			d = &LeaderboardDay{Date: date}
			byDay[game][date] = d
		}
		d.Rounds++
		d.Wagered += bet
		d.Paid += payout
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("BuildLeaderboard: iterating rounds: %w", err)
	}

	resp := &LeaderboardResponse{Days: days, Items: make([]LeaderboardGame, 0, len(byGame))}
	for game, g := range byGame {
		if g.Wagered > 0 {
			g.ReturnRate = float64(g.Paid) / float64(g.Wagered)
		}
		g.Series = make([]LeaderboardDay, 0, len(byDay[game]))
		for _, d := range byDay[game] {
			g.Series = append(g.Series, *d)
		}
		sort.Slice(g.Series, func(i, j int) bool { return g.Series[i].Date < g.Series[j].Date })
		resp.Items = append(resp.Items, *g)
	}
	sort.Slice(resp.Items, func(i, j int) bool { return resp.Items[i].Game < resp.Items[j].Game })
	return resp, nil
}
