// Package history records finished games as TOML documents.
package history

import (
	"fmt"
	"time"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/game"
)

// GameHistory is one finished game.
type GameHistory struct {
	GameID    string     `toml:"game"`
	Seed      int64      `toml:"seed"`
	Days      int        `toml:"days"`
	Suitors   []string   `toml:"suitors"`
	Played    time.Time  `toml:"played"`
	Standings []Standing `toml:"standings"`
	Rounds    []Round    `toml:"rounds"`
}

// Standing is a suitor's summary line.
type Standing struct {
	Suitor   int     `toml:"suitor"`
	Strategy string  `toml:"strategy"`
	Total    float64 `toml:"total"`
	Final    float64 `toml:"final"`
}

// Round holds the pools dealt and the gifts given in one round.
type Round struct {
	Number   int    `toml:"number"`
	Rejected []int  `toml:"rejected,omitempty"`
	Pools    []Pool `toml:"pools"`
	Gifts    []Gift `toml:"gifts"`
}

// Pool is the flowers one suitor was dealt.
type Pool struct {
	Suitor  int      `toml:"suitor"`
	Flowers []string `toml:"flowers"`
}

// Gift is one bouquet and its reception.
type Gift struct {
	From    int      `toml:"from"`
	To      int      `toml:"to"`
	Flowers []string `toml:"flowers"`
	Score   float64  `toml:"score"`
	Rank    int      `toml:"rank"`
	Ties    int      `toml:"ties"`
}

// Bouquet parses the gift's flowers back into a bouquet.
func (g Gift) Bouquet() (flower.Bouquet, error) {
	b, err := flower.ParseBouquet(g.Flowers)
	if err != nil {
		return flower.Bouquet{}, fmt.Errorf("history: gift %d->%d: %w", g.From, g.To, err)
	}
	return b, nil
}

// FromResult converts an engine result into a history with a fresh id.
// names labels each suitor by id.
func FromResult(res *game.Result, names []string, played time.Time) (*GameHistory, error) {
	if res == nil {
		return nil, fmt.Errorf("history: result is nil")
	}
	if len(names) != len(res.Standings) {
		return nil, fmt.Errorf("history: %d names for %d suitors", len(names), len(res.Standings))
	}
	id, err := NewID()
	if err != nil {
		return nil, err
	}

	h := &GameHistory{
		GameID:  id,
		Seed:    res.Seed,
		Days:    res.Days,
		Suitors: append([]string(nil), names...),
		Played:  played.UTC().Truncate(time.Millisecond),
	}
	for _, st := range res.Standings {
		h.Standings = append(h.Standings, Standing{
			Suitor:   st.ID,
			Strategy: st.Strategy,
			Total:    st.Total,
			Final:    st.Final,
		})
	}
	for _, r := range res.Rounds {
		round := Round{
			Number:   r.Number,
			Rejected: r.Rejected,
			Pools:    make([]Pool, 0, len(r.Pools)),
			Gifts:    make([]Gift, 0, len(r.Gifts)),
		}
		for id, pool := range r.Pools {
			round.Pools = append(round.Pools, Pool{Suitor: id, Flowers: flower.NewBouquet(pool).Strings()})
		}
		for _, g := range r.Gifts {
			round.Gifts = append(round.Gifts, Gift{
				From:    g.From,
				To:      g.To,
				Flowers: g.Bouquet.Strings(),
				Score:   g.Score,
				Rank:    g.Rank,
				Ties:    g.Ties,
			})
		}
		h.Rounds = append(h.Rounds, round)
	}
	return h, nil
}
