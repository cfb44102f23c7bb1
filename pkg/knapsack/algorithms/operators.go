package algorithms

import (
	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

// Cohorts splits a population of N individuals into the slots each operator
// fills in the next generation: [0,Elite) elite copies, then two mutation
// cohorts of Mutation individuals each, then Crossover children.
type Cohorts struct {
	Elite     int
	Mutation  int
	Crossover int
}

// NewCohorts returns the cohort sizes for a population of n. The sizes only
// add up to n when n is a multiple of 10.
func NewCohorts(n int) Cohorts {
	return Cohorts{
		Elite:     n * 3 / 10,
		Mutation:  n * 2 / 10,
		Crossover: n * 3 / 10,
	}
}

// Total returns the number of slots covered by all cohorts.
func (c Cohorts) Total() int {
	return c.Elite + 2*c.Mutation + c.Crossover
}

// MutationStart is the first slot of the first mutation cohort.
func (c Cohorts) MutationStart() int {
	return c.Elite
}

// StridedStart is the first slot of the second mutation cohort.
func (c Cohorts) StridedStart() int {
	return c.Elite + c.Mutation
}

// CrossoverStart is the first slot of the crossover cohort.
func (c Cohorts) CrossoverStart() int {
	return c.Elite + 2*c.Mutation
}

// Pairs is the number of parent pairs recombined per generation.
func (c Cohorts) Pairs() int {
	return c.Crossover / 2
}

// MutationStep is the stride used by both mutation operators in the given
// generation for chromosomes of length n.
func MutationStep(generation, n int) int {
	return 1 + generation%(n-2)
}

// CutPoint is the one-point crossover position for the given generation.
func CutPoint(generation, n int) int {
	return 1 + generation%n
}

// MutateSegmented flips every step-th bit of one segment of the chromosome.
// Individuals whose sourceIndex is even get the first 40% mutated starting at
// bit 0; odd ones get the last 80% mutated starting at n - n*8/10.
func MutateSegmented(ind *framework.Individual, sourceIndex, generation int) {
	n := ind.Chromosome.Len()
	step := MutationStep(generation, n)

	if sourceIndex%2 == 0 {
		size := n * 4 / 10
		for i := 0; i < size; i += step {
			ind.Flip(i)
		}
		return
	}

	for i := n - n*8/10; i < n; i += step {
		ind.Flip(i)
	}
}

// MutateStrided flips every step-th bit across the whole chromosome.
func MutateStrided(ind *framework.Individual, generation int) {
	n := ind.Chromosome.Len()
	step := MutationStep(generation, n)
	for i := 0; i < n; i += step {
		ind.Flip(i)
	}
}

// Crossover performs one-point crossover of parent1 and parent2 into child1
// and child2. The children's OnesCount is recounted since the slots may hold
// a count from an unrelated individual.
func Crossover(parent1, parent2, child1, child2 *framework.Individual, generation int) {
	cut := CutPoint(generation, parent1.Chromosome.Len())

	child1.Chromosome.Splice(&parent1.Chromosome, &parent2.Chromosome, cut)
	child2.Chromosome.Splice(&parent2.Chromosome, &parent1.Chromosome, cut)

	child1.Recount()
	child2.Recount()
}
