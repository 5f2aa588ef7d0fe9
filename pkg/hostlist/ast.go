package hostlist

import (
	"fmt"
	"math"
)

// Part is one building block of a hostlist entry.
type Part interface {
	partType() string
}

// Literal is a run of plain hostname characters.
type Literal struct {
	Text string
}

func (p *Literal) partType() string { return "Literal" }

// RangeGroup is a bracketed group of numeric fragments.
type RangeGroup struct {
	Fragments []Fragment
}

func (p *RangeGroup) partType() string { return "RangeGroup" }

// HostlistEntry is one comma-separated expression of a hostlist. It
// holds at least one part.
type HostlistEntry struct {
	Parts []Part
}

// Fragment is one item of a range group: a range in either direction, or
// a list of individually written numbers.
type Fragment interface {
	fragmentType() string
	// appendValues appends every name segment the fragment produces, in
	// production order.
	appendValues(dst []string) []string
	// count returns how many segments appendValues produces.
	count() uint64
}

// AscendingRange produces Low through High, counting up.
type AscendingRange struct {
	Padding   int
	SameWidth bool
	Low       uint64
	High      uint64
}

func (f *AscendingRange) fragmentType() string { return "AscendingRange" }

func (f *AscendingRange) appendValues(dst []string) []string {
	for v := f.Low; ; v++ {
		dst = append(dst, formatValue(f.Padding, f.SameWidth, v))
		if v == f.High {
			break
		}
	}
	return dst
}

func (f *AscendingRange) count() uint64 {
	n := f.High - f.Low
	if n == math.MaxUint64 {
		return n // saturated; the true count does not fit
	}
	return n + 1
}

// DescendingRange produces High down through Low. Low is still the
// numerically smaller endpoint.
type DescendingRange struct {
	Padding   int
	SameWidth bool
	Low       uint64
	High      uint64
}

func (f *DescendingRange) fragmentType() string { return "DescendingRange" }

func (f *DescendingRange) appendValues(dst []string) []string {
	for v := f.High; ; v-- {
		dst = append(dst, formatValue(f.Padding, f.SameWidth, v))
		if v == f.Low {
			break
		}
	}
	return dst
}

func (f *DescendingRange) count() uint64 {
	n := f.High - f.Low
	if n == math.MaxUint64 {
		return n
	}
	return n + 1
}

// DisjointNumbers is a list of individually written numbers. Each item
// keeps its own padding.
type DisjointNumbers struct {
	Items []NumberToken
}

func (f *DisjointNumbers) fragmentType() string { return "DisjointNumbers" }

func (f *DisjointNumbers) appendValues(dst []string) []string {
	for _, it := range f.Items {
		dst = append(dst, formatValue(it.Padding, false, it.Value))
	}
	return dst
}

func (f *DisjointNumbers) count() uint64 { return uint64(len(f.Items)) }

// newRangeFragment builds the fragment for a low-high item. The padding
// of the produced names follows the numerically smaller endpoint; the
// larger endpoint may not carry more padding than the smaller one.
func newRangeFragment(a, b NumberToken, offset int) (Fragment, error) {
	small, large := a, b
	if small.Value > large.Value {
		small, large = large, small
	}
	if large.Padding > small.Padding {
		return nil, newParseError(offset, "inconsistent end padding")
	}
	sameWidth := a.Padding == b.Padding
	if a.Value <= b.Value {
		return &AscendingRange{Padding: small.Padding, SameWidth: sameWidth, Low: small.Value, High: large.Value}, nil
	}
	return &DescendingRange{Padding: small.Padding, SameWidth: sameWidth, Low: small.Value, High: large.Value}, nil
}

// formatValue renders one number of a fragment. The width floor is the
// padding plus a single digit, or the padding plus the value's full
// digit count when both range endpoints were written with the same
// padding. Values wider than the floor are never cut.
func formatValue(padding int, sameWidth bool, v uint64) string {
	width := padding + 1
	if sameWidth {
		width = padding + digitCount(v)
	}
	return fmt.Sprintf("%0*d", width, v)
}

func digitCount(v uint64) int {
	n := 1
	for v >= 10 {
		v /= 10
		n++
	}
	return n
}
