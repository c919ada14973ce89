package suitor

import "github.com/lox/flowersforbots/flower"

// Experiment names the axis a bouquet was built to probe.
type Experiment uint8

const (
	// ExperimentNone tags bouquets that probe nothing, such as random
	// fallbacks and final-round picks.
	ExperimentNone Experiment = iota
	ExperimentColor
	ExperimentType
	ExperimentSize
)

func (e Experiment) String() string {
	switch e {
	case ExperimentColor:
		return "color"
	case ExperimentType:
		return "type"
	case ExperimentSize:
		return "size"
	default:
		return "none"
	}
}

func experimentFor(a flower.Attribute) Experiment {
	switch a {
	case flower.AttrColor:
		return ExperimentColor
	case flower.AttrType:
		return ExperimentType
	default:
		return ExperimentSize
	}
}

// Phase is where a round falls in the game's turn budget.
type Phase uint8

const (
	PhaseColor Phase = iota
	PhaseType
	PhaseSize
	PhaseFinal
)

func (p Phase) String() string {
	switch p {
	case PhaseColor:
		return "color"
	case PhaseType:
		return "type"
	case PhaseSize:
		return "size"
	default:
		return "final"
	}
}

// Attribute returns the axis probed during the phase. It is meaningless
// for PhaseFinal.
func (p Phase) Attribute() flower.Attribute {
	switch p {
	case PhaseType:
		return flower.AttrType
	case PhaseSize:
		return flower.AttrSize
	default:
		return flower.AttrColor
	}
}

// PhaseFor splits the turn budget into thirds: color while at least two
// thirds of the turns remain, type while at least one third remains, size
// after that. remaining is the count after the current round was taken.
// A budget of zero or one turn is all final round.
func PhaseFor(remaining, total int) Phase {
	switch {
	case remaining <= 0 || total <= 1:
		return PhaseFinal
	case 3*remaining >= 2*total:
		return PhaseColor
	case 3*remaining >= total:
		return PhaseType
	default:
		return PhaseSize
	}
}
