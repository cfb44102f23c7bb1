package framework

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

func TestRangeCoversExactlyOnce(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 4, 7, 10, 16, 33} {
		for _, size := range []int{0, 1, 3, 9, 10, 20, 31, 100} {
			seen := make([]int, size)
			prevEnd := 0
			for id := 0; id < workers; id++ {
				start, end := Range(id, workers, size)
				require.LessOrEqual(t, start, end, "workers=%d size=%d id=%d", workers, size, id)
				assert.Equal(t, prevEnd, start, "ranges must be contiguous (workers=%d size=%d id=%d)", workers, size, id)
				for i := start; i < end; i++ {
					seen[i]++
				}
				prevEnd = end
			}
			assert.Equal(t, size, prevEnd)
			for i, n := range seen {
				assert.Equal(t, 1, n, "index %d covered %d times (workers=%d size=%d)", i, n, workers, size)
			}
		}
	}
}

func TestRangeMoreWorkersThanItems(t *testing.T) {
	nonEmpty := 0
	for id := 0; id < 8; id++ {
		start, end := Range(id, 8, 3)
		assert.LessOrEqual(t, end-start, 1)
		if end > start {
			nonEmpty++
		}
	}
	assert.Equal(t, 3, nonEmpty)
}

func TestFitness(t *testing.T) {
	catalog := Catalog{
		Items: []Item{
			{Profit: 3, Weight: 2},
			{Profit: 4, Weight: 3},
			{Profit: 5, Weight: 4},
			{Profit: 8, Weight: 5},
		},
		Capacity: 9,
	}

	tests := []struct {
		name       string
		chromosome string
		want       int
	}{
		{name: "empty", chromosome: "0000", want: 0},
		{name: "single item", chromosome: "0100", want: 4},
		{name: "exactly at capacity", chromosome: "0011", want: 13},
		{name: "two items", chromosome: "0101", want: 12},
		{name: "under capacity", chromosome: "1100", want: 7},
		{name: "over capacity", chromosome: "0111", want: 0},
		{name: "everything", chromosome: "1111", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ch, err := ChromosomeFromString(tc.chromosome)
			require.NoError(t, err)
			assert.Equal(t, tc.want, catalog.Fitness(&ch))
		})
	}
}

func TestEvaluateRangeOnlyTouchesRange(t *testing.T) {
	catalog := Catalog{Items: make([]Item, 4), Capacity: 100}
	for i := range catalog.Items {
		catalog.Items[i] = Item{Profit: i + 1, Weight: 1}
	}
	pop := NewPopulation(4, 4)
	for i := range pop {
		pop[i].Chromosome.Set(i)
		pop[i].Fitness = -1
	}

	catalog.EvaluateRange(pop, 1, 3)

	got := []int{pop[0].Fitness, pop[1].Fitness, pop[2].Fitness, pop[3].Fitness}
	if diff := cmp.Diff([]int{-1, 2, 3, -1}, got); diff != "" {
		t.Errorf("unexpected fitness values (-want +got):\n%s", diff)
	}
}

func TestOutranks(t *testing.T) {
	tests := []struct {
		name string
		a, b Individual
		want bool
	}{
		{
			name: "higher fitness wins",
			a:    Individual{Fitness: 10, OnesCount: 5, OriginalIndex: 0},
			b:    Individual{Fitness: 9, OnesCount: 1, OriginalIndex: 9},
			want: true,
		},
		{
			name: "fewer items wins on equal fitness",
			a:    Individual{Fitness: 10, OnesCount: 2, OriginalIndex: 0},
			b:    Individual{Fitness: 10, OnesCount: 3, OriginalIndex: 9},
			want: true,
		},
		{
			name: "larger original index wins on full tie",
			a:    Individual{Fitness: 10, OnesCount: 2, OriginalIndex: 7},
			b:    Individual{Fitness: 10, OnesCount: 2, OriginalIndex: 3},
			want: true,
		},
		{
			name: "smaller original index loses on full tie",
			a:    Individual{Fitness: 10, OnesCount: 2, OriginalIndex: 3},
			b:    Individual{Fitness: 10, OnesCount: 2, OriginalIndex: 7},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Outranks(&tc.a, &tc.b))
			assert.Equal(t, !tc.want, Outranks(&tc.b, &tc.a))
		})
	}
}

func TestSortByRank(t *testing.T) {
	pop := Population{
		{Fitness: 5, OnesCount: 2, OriginalIndex: 0},
		{Fitness: 7, OnesCount: 3, OriginalIndex: 1},
		{Fitness: 5, OnesCount: 1, OriginalIndex: 2},
		{Fitness: 5, OnesCount: 2, OriginalIndex: 3},
		{Fitness: 0, OnesCount: 0, OriginalIndex: 4},
	}

	SortByRank(pop)

	order := make([]int, len(pop))
	for i := range pop {
		order[i] = pop[i].OriginalIndex
	}
	if diff := cmp.Diff([]int{1, 2, 3, 0, 4}, order); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestCatalogValidate(t *testing.T) {
	tenItems := make([]Item, 10)

	tests := []struct {
		name    string
		catalog Catalog
		wantErr int
	}{
		{name: "valid", catalog: Catalog{Items: tenItems, Capacity: 5}},
		{name: "empty", catalog: Catalog{Capacity: 5}, wantErr: 1},
		{name: "not a multiple of ten", catalog: Catalog{Items: make([]Item, 12), Capacity: 5}, wantErr: 1},
		{name: "negative capacity", catalog: Catalog{Items: tenItems, Capacity: -1}, wantErr: 1},
		{
			name: "negative profit and weight",
			catalog: Catalog{
				Items:    append([]Item{{Profit: -1, Weight: -2}}, make([]Item, 9)...),
				Capacity: 5,
			},
			wantErr: 2,
		},
		{
			name: "values at the bound",
			catalog: Catalog{
				Items:    append([]Item{{Profit: MaxItemValue, Weight: MaxItemValue}}, make([]Item, 9)...),
				Capacity: MaxItemValue,
			},
		},
		{
			name: "values past the bound",
			catalog: Catalog{
				Items:    append([]Item{{Profit: MaxItemValue + 1, Weight: MaxItemValue + 1}}, make([]Item, 9)...),
				Capacity: MaxItemValue + 1,
			},
			wantErr: 3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.catalog.Validate(field.NewPath("catalog"))
			assert.Len(t, errs, tc.wantErr, "errors: %v", errs)
		})
	}
}

func TestGenerationsSwap(t *testing.T) {
	g := NewGenerations(10)
	cur, next := g.Current(), g.Next()
	require.Len(t, cur, 10)
	require.Len(t, next, 10)

	cur[0].Fitness = 42
	g.Swap()
	assert.Equal(t, 42, g.Next()[0].Fitness)
	assert.Same(t, &cur[0], &g.Next()[0], "swap must not copy data")

	g.Swap()
	assert.Same(t, &cur[0], &g.Current()[0])
}

func TestSnapshot(t *testing.T) {
	catalog := Catalog{
		Items:    []Item{{Profit: 1, Weight: 1}, {Profit: 2, Weight: 2}, {Profit: 4, Weight: 3}},
		Capacity: 4,
	}
	ch, err := ChromosomeFromString("101")
	require.NoError(t, err)
	ind := Individual{Chromosome: ch, OnesCount: 2, Fitness: 5}

	sol := catalog.Snapshot(&ind)

	want := Solution{Chromosome: "101", Items: []int{0, 2}, Profit: 5, Weight: 4, Fitness: 5}
	if diff := cmp.Diff(want, sol); diff != "" {
		t.Errorf("unexpected snapshot (-want +got):\n%s", diff)
	}

	ind.Chromosome.Clear(0)
	assert.Equal(t, "101", sol.Chromosome, "snapshot must not alias the chromosome")
}

func TestMeasureAtTheValueBound(t *testing.T) {
	items := make([]Item, MaxItems)
	for i := range items {
		items[i] = Item{Profit: MaxItemValue, Weight: MaxItemValue}
	}
	c := Catalog{Items: items, Capacity: MaxItemValue}
	require.Empty(t, c.Validate(field.NewPath("catalog")))

	ch := NewChromosome(MaxItems)
	for i := 0; i < MaxItems; i++ {
		ch.Set(i)
	}
	profit, weight := c.Measure(&ch)
	assert.Equal(t, MaxItems*MaxItemValue, profit)
	assert.Equal(t, MaxItems*MaxItemValue, weight)
	assert.Zero(t, c.Fitness(&ch), "an overfull selection must not fit")
}
