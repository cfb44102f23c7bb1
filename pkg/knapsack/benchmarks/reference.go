package benchmarks

import (
	"fmt"
	"math/rand/v2"

	"github.com/mihai-snyk/knapsack-ga/pkg/knapsack/framework"
)

const (
	ReferenceName = "Reference10"
)

// Reference is the small hand-written instance used to check the engine end
// to end: ten items and a capacity of 20.
type Reference struct{}

func NewReference() *Reference {
	return &Reference{}
}

func (p *Reference) Name() string {
	return ReferenceName
}

func (p *Reference) Catalog() framework.Catalog {
	weights := []int{2, 3, 4, 5, 9, 7, 6, 1, 8, 2}
	profits := []int{3, 4, 5, 8, 10, 6, 9, 2, 7, 5}

	items := make([]framework.Item, len(weights))
	for i := range items {
		items[i] = framework.Item{Profit: profits[i], Weight: weights[i]}
	}
	return framework.Catalog{Items: items, Capacity: 20}
}

// Synthetic is a pseudo-random instance. The same size and seed always yield
// the same catalog.
type Synthetic struct {
	size int
	seed uint64
}

// NewSynthetic returns a synthetic instance with size items. Capacity is set
// to roughly a third of the total weight.
func NewSynthetic(size int, seed uint64) *Synthetic {
	return &Synthetic{size: size, seed: seed}
}

func (p *Synthetic) Name() string {
	return fmt.Sprintf("Synthetic%d-%d", p.size, p.seed)
}

func (p *Synthetic) Catalog() framework.Catalog {
	rng := rand.New(rand.NewPCG(p.seed, p.seed))

	items := make([]framework.Item, p.size)
	total := 0
	for i := range items {
		items[i] = framework.Item{
			Profit: 1 + rng.IntN(100),
			Weight: 1 + rng.IntN(50),
		}
		total += items[i].Weight
	}
	return framework.Catalog{Items: items, Capacity: total / 3}
}

// OptimalProfit solves the instance exactly with the classic dynamic program
// over capacities. It is only meant for small capacities.
func OptimalProfit(c framework.Catalog) int {
	if c.Capacity < 0 {
		return 0
	}
	best := make([]int, c.Capacity+1)
	for _, it := range c.Items {
		for w := c.Capacity; w >= it.Weight; w-- {
			if v := best[w-it.Weight] + it.Profit; v > best[w] {
				best[w] = v
			}
		}
	}
	return best[c.Capacity]
}
