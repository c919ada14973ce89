package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/suitor"
)

type SelfcheckCmd struct {
	Strategy string `short:"s" default:"queue" help:"Strategy kind (queue, phased, random)"`
	Seed     int64  `help:"Seed for the strategy's private preferences"`
}

func (c *SelfcheckCmd) Run(logger *log.Logger) error {
	kind, err := suitor.ParseKind(c.Strategy)
	if err != nil {
		return err
	}
	s, err := suitor.New(kind, suitor.Config{Days: 1, Suitors: 2, Seed: c.Seed, Logger: logger})
	if err != nil {
		return err
	}
	return selfcheck(os.Stdout, s)
}

// selfcheck prints both boundary bouquets with their axis scores and fails
// unless they score exactly 0 and 1.
func selfcheck(w io.Writer, s suitor.Strategy) error {
	header(w, fmt.Sprintf("%s self-evaluation", s.Name()))

	check := func(label string, b flower.Bouquet, want float64) error {
		colors, types, sizes := s.ScoreColors(b.Colors()), s.ScoreTypes(b.Types()), s.ScoreSizes(b.Sizes())
		row(w, label, "%s", b)
		row(w, "  scores", "colors %.3f, types %.3f, sizes %.3f", colors, types, sizes)
		if colors != want || types != want || sizes != want {
			return fmt.Errorf("%s bouquet scored (%.3f, %.3f, %.3f), want %.0f on every axis", label, colors, types, sizes, want)
		}
		if b.Len() > flower.MaxBouquetSize {
			return fmt.Errorf("%s bouquet holds %d flowers (max %d)", label, b.Len(), flower.MaxBouquetSize)
		}
		return nil
	}

	if err := check("Zero-score", s.ZeroScoreBouquet(), 0); err != nil {
		return err
	}
	return check("One-score", s.OneScoreBouquet(), 1)
}
