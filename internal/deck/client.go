package deck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"card-casino-go/internal/game/common"
	"card-casino-go/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseURL = "https://deckofcardsapi.com/api"

// Client talks to a deckofcardsapi.com compatible service.
type Client struct {
	base string
	http *http.Client
	log  logrus.FieldLogger
}

func NewClient(base string, timeout time.Duration, log logrus.FieldLogger) *Client {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  log.WithField("component", "deck_client"),
	}
}

type apiCard struct {
	Code  string `json:"code"`
	Image string `json:"image"`
	Value string `json:"value"`
	Suit  string `json:"suit"`
}

type apiResponse struct {
	Success   bool      `json:"success"`
	DeckID    string    `json:"deck_id"`
	Remaining int       `json:"remaining"`
	Cards     []apiCard `json:"cards"`
	Error     string    `json:"error"`
}

func (c *Client) CreateDeck(ctx context.Context) (Deck, error) {
	ctx, span := tracing.StartSpan(ctx, "deck.create")
	defer span.End()

	var res apiResponse
	if err := c.get(ctx, c.base+"/deck/new/shuffle/?deck_count=1", &res); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Deck{}, err
	}
	if res.DeckID == "" {
		err := errors.New("deck: create response missing deck_id")
		span.SetStatus(codes.Error, err.Error())
		return Deck{}, err
	}
	span.SetAttributes(attribute.String("deck.id", res.DeckID), attribute.Int("deck.remaining", res.Remaining))
	c.log.WithFields(logrus.Fields{"deck_id": res.DeckID, "remaining": res.Remaining}).Debug("deck created")
	return Deck{ID: res.DeckID, Remaining: res.Remaining}, nil
}

func (c *Client) Draw(ctx context.Context, deckID string, count int) (Draw, error) {
	ctx, span := tracing.StartSpan(ctx, "deck.draw")
	defer span.End()
	span.SetAttributes(attribute.String("deck.id", deckID), attribute.Int("deck.count", count))

	if count <= 0 {
		return Draw{}, fmt.Errorf("deck: invalid draw count %d", count)
	}
	u := fmt.Sprintf("%s/deck/%s/draw/?count=%s", c.base, url.PathEscape(deckID), strconv.Itoa(count))
	var res apiResponse
	if err := c.get(ctx, u, &res); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Draw{}, err
	}

	cards := make([]common.Card, 0, len(res.Cards))
	for _, ac := range res.Cards {
		card, err := parseAPICard(ac)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return Draw{}, err
		}
		cards = append(cards, card)
	}
	span.SetAttributes(attribute.Int("deck.remaining", res.Remaining))
	return Draw{Cards: cards, Remaining: res.Remaining}, nil
}

func (c *Client) Reshuffle(ctx context.Context, deckID string) (int, error) {
	ctx, span := tracing.StartSpan(ctx, "deck.reshuffle")
	defer span.End()
	span.SetAttributes(attribute.String("deck.id", deckID))

	var res apiResponse
	if err := c.get(ctx, fmt.Sprintf("%s/deck/%s/shuffle/", c.base, url.PathEscape(deckID)), &res); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return res.Remaining, nil
}

func (c *Client) get(ctx context.Context, u string, out *apiResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("deck: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("url", u).Warn("deck request failed")
		return fmt.Errorf("deck: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("deck: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deck: http status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("deck: decode response: %w", err)
	}
	if !out.Success {
		msg := strings.TrimSpace(out.Error)
		if msg == "" {
			msg = "unsuccessful response"
		}
		return fmt.Errorf("deck: %s", msg)
	}
	return nil
}

func parseAPICard(ac apiCard) (common.Card, error) {
	rank, err := common.ParseRankName(ac.Value)
	if err != nil {
		return common.Card{}, fmt.Errorf("deck: card %q: %w", ac.Code, err)
	}
	suit, err := common.ParseSuitName(ac.Suit)
	if err != nil {
		return common.Card{}, fmt.Errorf("deck: card %q: %w", ac.Code, err)
	}
	return common.Card{Rank: rank, Suit: suit, Image: ac.Image}, nil
}
