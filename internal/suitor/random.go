package suitor

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/flowersforbots/flower"
	"github.com/lox/flowersforbots/internal/inventory"
	"github.com/lox/flowersforbots/internal/preference"
)

// Random gives every recipient a random bouquet every round and ignores
// feedback.
type Random struct {
	preference.Model

	id         int
	recipients []int
	rng        *rand.Rand
	logger     *log.Logger
}

// NewRandom builds the random baseline.
func NewRandom(cfg Config) (*Random, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == nil {
		model = preference.NewWeighted(cfg.Rand)
	}
	return &Random{
		Model:      model,
		id:         cfg.ID,
		recipients: cfg.recipients(),
		rng:        cfg.Rand,
		logger:     cfg.Logger.WithPrefix(fmt.Sprintf("%s-%d", KindRandom, cfg.ID)),
	}, nil
}

func (r *Random) Name() string { return string(KindRandom) }
func (r *Random) ID() int      { return r.id }

func (r *Random) ZeroScoreBouquet() flower.Bouquet { return r.Model.ZeroScore() }
func (r *Random) OneScoreBouquet() flower.Bouquet  { return r.Model.OneScore() }

func (r *Random) PrepareBouquets(counts flower.Counts) []Gift {
	table, err := inventory.Tabulate(counts)
	if err != nil {
		r.logger.Error("Rejecting malformed flower counts", "error", err)
		table = &inventory.Table{}
	}
	gifts := make([]Gift, 0, len(r.recipients))
	for _, to := range r.recipients {
		gifts = append(gifts, Gift{From: r.id, To: to, Bouquet: table.RandomBouquet(r.rng, flower.MaxBouquetSize)})
	}
	return gifts
}

func (r *Random) ReceiveFeedback(Feedback) {}
