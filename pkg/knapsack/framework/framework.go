package framework

import (
	"context"
	"errors"
	"fmt"
	"math"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// MaxItems bounds the catalog size. Both buffers hold MaxItems^2 bits at the
// bound, which is 1GiB.
const MaxItems = 1 << 16

// MaxWorkers bounds the worker count. Every worker is a goroutine started
// before the first generation.
const MaxWorkers = MaxItems

// MaxItemValue bounds profits, weights and the capacity so that the sums over
// a full catalog cannot overflow an int.
const MaxItemValue = math.MaxInt / MaxItems

var (
	// ErrInvalidConfiguration is wrapped by every error reported before the
	// engine starts because of bad input.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrResourceExhausted is returned when the population would not fit the
	// allocation bound.
	ErrResourceExhausted = errors.New("resource exhausted")
	// ErrWorkerFailure is returned when a worker dies mid-run.
	ErrWorkerFailure = errors.New("worker failure")
)

// Problem describes a knapsack instance the engine can be run on.
type Problem interface {
	Name() string
	Catalog() Catalog
}

// Algorithm describes the contract an evolver needs to implement.
type Algorithm interface {
	Name() string
	Run(ctx context.Context) (*Result, error)
}

// Item is a single object that can be placed in the sack.
type Item struct {
	Profit int `json:"profit"`
	Weight int `json:"weight"`
}

// Catalog is the immutable problem instance shared by all workers.
type Catalog struct {
	Items    []Item `json:"items"`
	Capacity int    `json:"capacity"`
}

// Len returns the number of items, which is also the population size.
func (c *Catalog) Len() int {
	return len(c.Items)
}

// Validate checks the catalog against the constraints the engine relies on.
func (c *Catalog) Validate(fldPath *field.Path) field.ErrorList {
	var allErrs field.ErrorList

	n := len(c.Items)
	itemsPath := fldPath.Child("items")
	switch {
	case n == 0:
		allErrs = append(allErrs, field.Required(itemsPath, "at least 10 items are needed"))
	case n%10 != 0:
		allErrs = append(allErrs, field.Invalid(itemsPath, n, "item count must be a multiple of 10"))
	case n > MaxItems:
		allErrs = append(allErrs, field.TooMany(itemsPath, n, MaxItems))
	}

	allErrs = append(allErrs, validateValue(fldPath.Child("capacity"), c.Capacity)...)
	for i, it := range c.Items {
		allErrs = append(allErrs, validateValue(itemsPath.Index(i).Child("profit"), it.Profit)...)
		allErrs = append(allErrs, validateValue(itemsPath.Index(i).Child("weight"), it.Weight)...)
	}

	return allErrs
}

func validateValue(fldPath *field.Path, v int) field.ErrorList {
	switch {
	case v < 0:
		return field.ErrorList{field.Invalid(fldPath, v, "must be non-negative")}
	case v > MaxItemValue:
		return field.ErrorList{field.Invalid(fldPath, v, fmt.Sprintf("must not exceed %d", MaxItemValue))}
	}
	return nil
}

// Report is emitted by the engine with the best fitness of a ranked generation.
type Report struct {
	Generation int
	// BestFitness is the fitness of the top individual as ranked in round
	// Generation. Elites keep their fitness when copied, so the value is not
	// the one of the previous round.
	BestFitness   int
	MeanFitness   float64
	StdDevFitness float64
	// Final marks the unconditional report after the last generation.
	Final bool
}

func (r Report) String() string {
	return fmt.Sprintf("generation %d: best=%d mean=%.2f", r.Generation, r.BestFitness, r.MeanFitness)
}

// Reporter receives reports. Calls are made from a single goroutine, in
// generation order.
type Reporter interface {
	Report(Report)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Report)

func (f ReporterFunc) Report(r Report) {
	f(r)
}

// Solution is a detached snapshot of an individual, safe to keep after the
// population buffers are released.
type Solution struct {
	Chromosome string
	Items      []int
	Profit     int
	Weight     int
	Fitness    int
}

// Result is what a finished run hands back.
type Result struct {
	Reports []Report
	Best    Solution
}
