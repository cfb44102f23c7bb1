package algorithms

// Phase identifies one step of a generation. Workers rendezvous at the
// barrier after every phase.
type Phase int

const (
	PhaseSeed Phase = iota
	PhaseEvaluate
	PhaseSort
	PhaseElite
	PhaseMutateSegmented
	PhaseMutateStrided
	PhaseCrossoverPrep
	PhaseCrossover
	PhaseSwap
	PhaseReindex
	PhaseReport
)

var phaseNames = [...]string{
	PhaseSeed:            "Seed",
	PhaseEvaluate:        "Evaluate",
	PhaseSort:            "Sort",
	PhaseElite:           "Elite",
	PhaseMutateSegmented: "MutateSegmented",
	PhaseMutateStrided:   "MutateStrided",
	PhaseCrossoverPrep:   "CrossoverPrep",
	PhaseCrossover:       "Crossover",
	PhaseSwap:            "Swap",
	PhaseReindex:         "Reindex",
	PhaseReport:          "Report",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}
