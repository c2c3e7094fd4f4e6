package models_test

import (
	"context"
	"testing"
	"time"

	"card-casino-go/internal/database"
	"card-casino-go/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundHistory(t *testing.T) {
	ctx := context.Background()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	db, err := database.OpenAndMigrate(ctx, database.MemoryPath, log)
	require.NoError(t, err)
	defer db.Close()

	rounds := []models.RoundRecord{
		{SessionID: "a", Game: "blackjack", Bet: 10, Payout: 15, Outcome: "blackjack", ChipsAfter: 25},
		{SessionID: "a", Game: "blackjack", Bet: 5, Payout: 0, Outcome: "dealer_wins", ChipsAfter: 20},
		{SessionID: "b", Game: "poker", Bet: 5, Payout: 0, Outcome: "High Card", ChipsAfter: 95},
	}
	for i := range rounds {
		require.NoError(t, models.InsertRound(ctx, db, &rounds[i]))
		assert.NotZero(t, rounds[i].ID)
	}

	list, err := models.ListRoundsBySession(ctx, db, "a", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "dealer_wins", list[0].Outcome, "newest first")

	got, err := models.GetRoundByID(ctx, db, rounds[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "poker", got.Game)

	_, err = models.GetRoundByID(ctx, db, 9999)
	assert.ErrorIs(t, err, models.ErrNotFound)

	stats, err := models.GetSessionStats(ctx, db, "a")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStats{Rounds: 2, Wagered: 15, Paid: 15, Net: 0, BestPayout: 15}, stats)

	empty, err := models.GetSessionStats(ctx, db, "nobody")
	require.NoError(t, err)
	assert.Zero(t, empty.Rounds)

	none, err := models.ListRoundsBySession(ctx, db, "nobody", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBuildLeaderboard(t *testing.T) {
	ctx := context.Background()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	db, err := database.OpenAndMigrate(ctx, database.MemoryPath, log)
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rounds := []models.RoundRecord{
		{SessionID: "a", Game: "poker", Bet: 100, Payout: 200, Outcome: "Two Pair", ChipsAfter: 200, SettledAt: now.Add(-time.Hour)},
		{SessionID: "b", Game: "poker", Bet: 100, Payout: 0, Outcome: "High Card", ChipsAfter: 0, SettledAt: now.Add(-26 * time.Hour)},
		{SessionID: "a", Game: "highlow", Bet: 20, Payout: 40, Outcome: "cash out", ChipsAfter: 120, SettledAt: now.Add(-2 * time.Hour)},
		{SessionID: "c", Game: "poker", Bet: 50, Payout: 50, Outcome: "Jacks or Better", ChipsAfter: 50, SettledAt: now.AddDate(0, 0, -40)},
	}
	for i := range rounds {
		require.NoError(t, models.InsertRound(ctx, db, &rounds[i]))
	}

	resp, err := models.BuildLeaderboard(ctx, db, 0, now)
	require.NoError(t, err)
	assert.EqualValues(t, 30, resp.Days)
	require.Len(t, resp.Items, 2)

	hl, pk := resp.Items[0], resp.Items[1]
	assert.Equal(t, "highlow", hl.Game)
	assert.Equal(t, "poker", pk.Game)
	assert.EqualValues(t, 2, pk.Rounds, "round older than the window is excluded")
	assert.EqualValues(t, 200, pk.Wagered)
	assert.EqualValues(t, 200, pk.BestPayout)
	assert.InDelta(t, 1.0, pk.ReturnRate, 1e-9)
	require.Len(t, pk.Series, 2)
	assert.Equal(t, "2026-03-09", pk.Series[0].Date)
	assert.Equal(t, "2026-03-10", pk.Series[1].Date)

	wide, err := models.BuildLeaderboard(ctx, db, 1000, now)
	require.NoError(t, err)
	assert.EqualValues(t, 365, wide.Days)
	assert.EqualValues(t, 3, wide.Items[1].Rounds)
}
