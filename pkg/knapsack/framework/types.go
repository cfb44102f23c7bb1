package framework

// Individual represents a candidate solution in the population
type Individual struct {
	Chromosome Chromosome

	// OnesCount caches Chromosome.Count(). Operators that flip bits keep it
	// in step incrementally; crossover recounts.
	OnesCount int
	// Fitness is only valid between evaluation and the next operator
	// touching the chromosome.
	Fitness int
	// OriginalIndex is the position the individual held when the round
	// started. Only used as the last ranking tie-break.
	OriginalIndex int
}

// Flip toggles bit pos and adjusts OnesCount by one.
func (ind *Individual) Flip(pos int) {
	if ind.Chromosome.Flip(pos) {
		ind.OnesCount++
	} else {
		ind.OnesCount--
	}
}

// CopyFrom copies the chromosome, OnesCount and Fitness of src.
// OriginalIndex belongs to the slot and is left untouched.
func (ind *Individual) CopyFrom(src *Individual) {
	ind.Chromosome.CopyFrom(&src.Chromosome)
	ind.OnesCount = src.OnesCount
	ind.Fitness = src.Fitness
}

// Recount recomputes OnesCount from the chromosome.
func (ind *Individual) Recount() {
	ind.OnesCount = ind.Chromosome.Count()
}

// Population is one generation buffer.
type Population []Individual

// NewPopulation allocates size individuals with chromosomes of the given length.
func NewPopulation(size, length int) Population {
	pop := make(Population, size)
	for i := range pop {
		pop[i].Chromosome = NewChromosome(length)
		pop[i].OriginalIndex = i
	}
	return pop
}

// Generations owns the two population buffers and tracks which one holds the
// current generation.
type Generations struct {
	buffers [2]Population
	current int
}

// NewGenerations allocates both buffers, each holding size individuals.
func NewGenerations(size int) *Generations {
	return &Generations{
		buffers: [2]Population{
			NewPopulation(size, size),
			NewPopulation(size, size),
		},
	}
}

// Current returns the buffer holding the generation being evaluated.
func (g *Generations) Current() Population {
	return g.buffers[g.current]
}

// Next returns the buffer the operators write into.
func (g *Generations) Next() Population {
	return g.buffers[1-g.current]
}

// Swap exchanges the current and next roles. No data is copied.
func (g *Generations) Swap() {
	g.current = 1 - g.current
}

// Release drops both buffers.
func (g *Generations) Release() {
	g.buffers = [2]Population{}
}
