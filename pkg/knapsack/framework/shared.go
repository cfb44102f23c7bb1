package framework

import "sort"

// Range returns the slice [start, end) of [0, size) owned by worker id out of
// workers. The ranges of all ids cover [0, size) exactly once; ids past size
// get empty ranges.
func Range(id, workers, size int) (start, end int) {
	start = id * size / workers
	end = min((id+1)*size/workers, size)
	return start, end
}

// Measure returns the total profit and weight of the items selected by ch.
func (c *Catalog) Measure(ch *Chromosome) (profit, weight int) {
	ch.ForEachSet(func(j int) {
		profit += c.Items[j].Profit
		weight += c.Items[j].Weight
	})
	return profit, weight
}

// Fitness is the total profit of the selection, or zero when it does not fit.
func (c *Catalog) Fitness(ch *Chromosome) int {
	profit, weight := c.Measure(ch)
	if weight > c.Capacity {
		return 0
	}
	return profit
}

// EvaluateRange computes the fitness of pop[start:end]. Individuals are
// independent, so disjoint ranges can be evaluated concurrently.
func (c *Catalog) EvaluateRange(pop Population, start, end int) {
	for i := start; i < end; i++ {
		pop[i].Fitness = c.Fitness(&pop[i].Chromosome)
	}
}

// Outranks reports whether a comes before b: higher fitness first, then
// fewer selected items, then the higher original index.
func Outranks(a, b *Individual) bool {
	if a.Fitness != b.Fitness {
		return a.Fitness > b.Fitness
	}
	if a.OnesCount != b.OnesCount {
		return a.OnesCount < b.OnesCount
	}
	return a.OriginalIndex > b.OriginalIndex
}

// SortByRank sorts pop in place, best first.
func SortByRank(pop Population) {
	sort.Slice(pop, func(i, j int) bool {
		return Outranks(&pop[i], &pop[j])
	})
}

// Snapshot detaches ind from the population buffers.
func (c *Catalog) Snapshot(ind *Individual) Solution {
	profit, weight := c.Measure(&ind.Chromosome)
	items := make([]int, 0, ind.OnesCount)
	ind.Chromosome.ForEachSet(func(j int) {
		items = append(items, j)
	})
	return Solution{
		Chromosome: ind.Chromosome.String(),
		Items:      items,
		Profit:     profit,
		Weight:     weight,
		Fitness:    ind.Fitness,
	}
}
