package game

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lox/flowersforbots/internal/randutil"
	"github.com/lox/flowersforbots/internal/suitor"
)

// Seat describes one suitor in a lineup.
type Seat struct {
	Name string
	Kind suitor.Kind
}

// Label is the seat's display name, falling back to "kind-id".
func (s Seat) Label(id int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%s-%d", s.Kind, id)
}

// BuildSuitors constructs one strategy per seat. Seat i gets id i and a
// generator derived from seed and i+1; stream 0 is reserved for the engine.
func BuildSuitors(seats []Seat, days int, seed int64, order suitor.ExploitOrder, logger *log.Logger) ([]suitor.Strategy, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("need at least 2 suitors, got %d", len(seats))
	}
	out := make([]suitor.Strategy, 0, len(seats))
	for id, seat := range seats {
		s, err := suitor.New(seat.Kind, suitor.Config{
			Days:         days,
			Suitors:      len(seats),
			ID:           id,
			Rand:         randutil.Child(seed, id+1),
			ExploitOrder: order,
			Logger:       logger,
		})
		if err != nil {
			return nil, fmt.Errorf("seat %d (%s): %w", id, seat.Label(id), err)
		}
		out = append(out, s)
	}
	return out, nil
}
