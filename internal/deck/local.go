package deck

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"sync"

	"card-casino-go/internal/game/common"

	"golang.org/x/crypto/chacha20"
)

const imageBase = "https://deckofcardsapi.com/static/img/"

// Local is an in-process Provider. Each deck shuffles from its own ChaCha20 keystream, so a
// non-zero seed reproduces the same deal order across runs.
type Local struct {
	mu    sync.Mutex
	key   [chacha20.KeySize]byte
	next  uint64
	decks map[string]*localDeck
}

type localDeck struct {
	cards  []common.Card
	stream *chacha20.Cipher
}

// NewLocal returns a local provider. seed == 0 picks a random key.
func NewLocal(seed uint64) (*Local, error) {
	l := &Local{decks: map[string]*localDeck{}}
	if seed == 0 {
		if _, err := rand.Read(l.key[:]); err != nil {
			return nil, fmt.Errorf("deck: seed local provider: %w", err)
		}
	} else {
		binary.LittleEndian.PutUint64(l.key[:8], seed)
	}
	return l, nil
}

func (l *Local) CreateDeck(ctx context.Context) (Deck, error) {
	if err := ctx.Err(); err != nil {
		return Deck{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	var nonce [chacha20.NonceSize]byte
	binary.LittleEndian.PutUint64(nonce[:8], l.next)
	stream, err := chacha20.NewUnauthenticatedCipher(l.key[:], nonce[:])
	if err != nil {
		return Deck{}, fmt.Errorf("deck: init stream: %w", err)
	}

	d := &localDeck{stream: stream}
	d.reset()
	id := fmt.Sprintf("local-%d", l.next)
	l.decks[id] = d
	return Deck{ID: id, Remaining: len(d.cards)}, nil
}

func (l *Local) Draw(ctx context.Context, deckID string, count int) (Draw, error) {
	if err := ctx.Err(); err != nil {
		return Draw{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	d, ok := l.decks[deckID]
	if !ok {
		return Draw{}, fmt.Errorf("deck: unknown deck %q", deckID)
	}
	if count <= 0 {
		return Draw{}, fmt.Errorf("deck: invalid draw count %d", count)
	}
	if count > len(d.cards) {
		return Draw{}, fmt.Errorf("deck: not enough cards remaining to draw %d additional", count)
	}
	out := append([]common.Card(nil), d.cards[:count]...)
	d.cards = d.cards[count:]
	return Draw{Cards: out, Remaining: len(d.cards)}, nil
}

func (l *Local) Reshuffle(ctx context.Context, deckID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	d, ok := l.decks[deckID]
	if !ok {
		return 0, fmt.Errorf("deck: unknown deck %q", deckID)
	}
	d.reset()
	return len(d.cards), nil
}

// Release forgets a deck. Unknown ids are ignored.
func (l *Local) Release(deckID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.decks, deckID)
}

// Len reports how many decks are held.
func (l *Local) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.decks)
}

func (d *localDeck) reset() {
	cards := common.NewStandardDeck()
	for i := range cards {
		cards[i].Image = imageBase + imageCode(cards[i]) + ".png"
	}
	common.Shuffle(cards, d.intn)
	d.cards = cards
}

// intn draws a uniform value in [0, n) from the keystream by rejection sampling.
func (d *localDeck) intn(n int) int {
	bound := uint64(n)
	limit := math.MaxUint64 - math.MaxUint64%bound
	var buf [8]byte
	for {
		clear(buf[:])
		d.stream.XORKeyStream(buf[:], buf[:])
		v := binary.LittleEndian.Uint64(buf[:])
		if v < limit {
			return int(v % bound)
		}
	}
}

// imageCode is the provider's card code, which spells ten as "0".
func imageCode(c common.Card) string {
	return strings.Replace(c.String(), "10", "0", 1)
}
