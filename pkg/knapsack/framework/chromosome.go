package framework

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

const (
	wordShift uint = 6
	wordMask  uint = 63
)

// Chromosome is a fixed-length bit string where bit j selects item j.
// Bits past Len() are always zero. The zero value has length zero.
type Chromosome struct {
	bits *bitset.BitSet
}

// NewChromosome returns an all-zero chromosome of the given length.
func NewChromosome(length int) Chromosome {
	return Chromosome{bits: bitset.New(uint(length))}
}

// Len returns the number of bits in the chromosome.
func (c *Chromosome) Len() int {
	if c.bits == nil {
		return 0
	}
	return int(c.bits.Len())
}

// Has tests whether the bit at pos is set.
func (c *Chromosome) Has(pos int) bool {
	return c.bits.Test(uint(pos))
}

// Set sets the bit at pos to one.
func (c *Chromosome) Set(pos int) {
	c.bits.Set(uint(pos))
}

// Clear sets the bit at pos to zero.
func (c *Chromosome) Clear(pos int) {
	c.bits.Clear(uint(pos))
}

// Flip toggles the bit at pos and reports its new value.
func (c *Chromosome) Flip(pos int) bool {
	return c.bits.Flip(uint(pos)).Test(uint(pos))
}

// Reset clears every bit.
func (c *Chromosome) Reset() {
	c.bits.ClearAll()
}

// Count returns the number of set bits.
func (c *Chromosome) Count() int {
	return int(c.bits.Count())
}

// CopyFrom overwrites c with the bits of src. Both must have the same length.
func (c *Chromosome) CopyFrom(src *Chromosome) {
	src.bits.Copy(c.bits)
}

// Splice overwrites c with prefix[0,cut) followed by suffix[cut,Len()).
// Whole words are copied; only the word holding cut is merged bit by bit.
func (c *Chromosome) Splice(prefix, suffix *Chromosome, cut int) {
	dst, lo, hi := c.bits.Bytes(), prefix.bits.Bytes(), suffix.bits.Bytes()
	full := cut >> wordShift
	copy(dst[:full], lo[:full])
	copy(dst[full:], hi[full:])
	if rem := uint(cut) & wordMask; rem != 0 {
		low := uint64(1)<<rem - 1
		dst[full] = lo[full]&low | hi[full]&^low
	}
}

// ForEachSet calls fn with the position of every set bit in increasing order.
func (c *Chromosome) ForEachSet(fn func(pos int)) {
	if c.bits == nil {
		return
	}
	for i, ok := c.bits.NextSet(0); ok; i, ok = c.bits.NextSet(i + 1) {
		fn(int(i))
	}
}

// String renders the chromosome with bit 0 first.
func (c *Chromosome) String() string {
	n := c.Len()
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		if c.Has(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ChromosomeFromString parses a chromosome rendered by String.
func ChromosomeFromString(s string) (Chromosome, error) {
	c := NewChromosome(len(s))
	for i, r := range s {
		switch r {
		case '1':
			c.Set(i)
		case '0':
		default:
			return Chromosome{}, fmt.Errorf("invalid character %q at position %d in chromosome encoding", r, i)
		}
	}
	return c, nil
}
