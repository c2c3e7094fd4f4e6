package models

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// RoundRecord is one settled round in the history table.
type RoundRecord struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	Game       string    `json:"game"`
	Bet        int       `json:"bet"`
	Payout     int       `json:"payout"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	ChipsAfter int       `json:"chips_after"`
	SettledAt  time.Time `json:"settled_at"`
}

// SessionStats aggregates a session's history. BestPayout is the largest single payout.
type SessionStats struct {
	Rounds     int `json:"rounds"`
	Wagered    int `json:"wagered"`
	Paid       int `json:"paid"`
	Net        int `json:"net"`
	BestPayout int `json:"best_payout"`
}

func InsertRound(ctx context.Context, db *sql.DB, r *RoundRecord) error {
	if r.SettledAt.IsZero() {
		r.SettledAt = time.Now().UTC()
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO rounds(session_id, game, bet, payout, outcome, detail, chips_after, settled_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.Game, r.Bet, r.Payout, r.Outcome, r.Detail, r.ChipsAfter, r.SettledAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = id
	return nil
}

// ListRoundsBySession returns the newest rounds first. limit <= 0 means 50.
func ListRoundsBySession(ctx context.Context, db *sql.DB, sessionID string, limit int) ([]RoundRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, session_id, game, bet, payout, outcome, detail, chips_after, settled_at
		 FROM rounds WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RoundRecord{}
	for rows.Next() {
		var r RoundRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Game, &r.Bet, &r.Payout, &r.Outcome, &r.Detail, &r.ChipsAfter, &r.SettledAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func GetRoundByID(ctx context.Context, db *sql.DB, id int64) (*RoundRecord, error) {
	var r RoundRecord
	err := db.QueryRowContext(ctx,
		`SELECT id, session_id, game, bet, payout, outcome, detail, chips_after, settled_at FROM rounds WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.SessionID, &r.Game, &r.Bet, &r.Payout, &r.Outcome, &r.Detail, &r.ChipsAfter, &r.SettledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetSessionStats(ctx context.Context, db *sql.DB, sessionID string) (SessionStats, error) {
	var s SessionStats
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(bet), 0), COALESCE(SUM(payout), 0), COALESCE(MAX(payout), 0)
		 FROM rounds WHERE session_id = ?`,
		sessionID,
	).Scan(&s.Rounds, &s.Wagered, &s.Paid, &s.BestPayout)
	if err != nil {
		return SessionStats{}, err
	}
	s.Net = s.Paid - s.Wagered
	return s, nil
}
