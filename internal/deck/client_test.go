package deck

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"card-casino-go/internal/game/common"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second, logrus.New())
}

func TestClientCreateDeck(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deck/new/shuffle/", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("deck_count"))
		fmt.Fprint(w, `{"success": true, "deck_id": "3p40paa87x90", "shuffled": true, "remaining": 52}`)
	})

	d, err := c.CreateDeck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Deck{ID: "3p40paa87x90", Remaining: 52}, d)
}

func TestClientCreateDeckUnsuccessful(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false}`)
	})
	_, err := c.CreateDeck(context.Background())
	assert.Error(t, err)
}

func TestClientCreateDeckHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.CreateDeck(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientDraw(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deck/abc/draw/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("count"))
		fmt.Fprint(w, `{"success": true, "deck_id": "abc", "remaining": 50, "cards": [
			{"code": "0H", "image": "https://img/0H.png", "value": "10", "suit": "HEARTS"},
			{"code": "AS", "image": "https://img/AS.png", "value": "ACE", "suit": "SPADES"}
		]}`)
	})

	d, err := c.Draw(context.Background(), "abc", 2)
	require.NoError(t, err)
	assert.Equal(t, 50, d.Remaining)
	require.Len(t, d.Cards, 2)
	assert.Equal(t, common.Card{Rank: common.Ten, Suit: common.Hearts, Image: "https://img/0H.png"}, d.Cards[0])
	assert.Equal(t, common.Ace, d.Cards[1].Rank)
	assert.Equal(t, common.Spades, d.Cards[1].Suit)
}

func TestClientDrawNotEnoughCards(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false, "deck_id": "abc", "cards": [], "remaining": 0, "error": "Not enough cards remaining to draw 2 additional"}`)
	})
	_, err := c.Draw(context.Background(), "abc", 2)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Not enough cards"))
}

func TestClientDrawMalformedCard(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": true, "remaining": 51, "cards": [{"code": "XX", "value": "JOKER", "suit": "HEARTS"}]}`)
	})
	_, err := c.Draw(context.Background(), "abc", 1)
	assert.Error(t, err)
}

func TestClientDrawMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})
	_, err := c.Draw(context.Background(), "abc", 1)
	assert.Error(t, err)
}

func TestClientReshuffle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deck/abc/shuffle/", r.URL.Path)
		fmt.Fprint(w, `{"success": true, "deck_id": "abc", "shuffled": true, "remaining": 52}`)
	})
	n, err := c.Reshuffle(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 52, n)
}
