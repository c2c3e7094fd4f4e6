package session

import (
	"context"
	"database/sql"

	"card-casino-go/internal/game"
	"card-casino-go/internal/models"
)

// SQLRecorder appends settled rounds to the rounds table.
type SQLRecorder struct {
	DB *sql.DB
}

func (r SQLRecorder) RecordRound(ctx context.Context, sessionID string, res game.Result) error {
	return models.InsertRound(ctx, r.DB, &models.RoundRecord{
		SessionID:  sessionID,
		Game:       res.Game,
		Bet:        res.Bet,
		Payout:     res.Payout,
		Outcome:    res.Outcome,
		Detail:     res.Detail,
		ChipsAfter: res.ChipsAfter,
		SettledAt:  res.SettledAt,
	})
}
