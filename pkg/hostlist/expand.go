// Package hostlist expands cluster hostname expressions such as
// "node[01-03,05].cluster" into the hostnames they describe, and folds
// hostname lists back into that syntax.
package hostlist

import (
	"fmt"
	"math"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Expand resolves a hostlist expression into hostnames. Names keep the
// order in which the expression produces them; a name produced more
// than once is kept at its first position only. The empty expression
// yields a single empty name.
//
// Memory grows with the number of produced names. Use ExpandLimit to
// bound untrusted input.
func Expand(input string) ([]string, error) {
	return ExpandLimit(input, 0)
}

// ExpandLimit is Expand with a ceiling on the number of produced names,
// counted before deduplication. A limit of zero or less means no
// ceiling. The total is computed up front, so an oversized expression
// fails before any names are materialized.
func ExpandLimit(input string, limit int) ([]string, error) {
	if input == "" {
		return []string{""}, nil
	}
	entries, err := Parse(input)
	if err != nil {
		return nil, err
	}
	if limit > 0 {
		total := uint64(0)
		for _, e := range entries {
			total = satAdd(total, e.count())
		}
		if total > uint64(limit) {
			return nil, fmt.Errorf("%w: %d names over limit %d", ErrTooManyResults, total, limit)
		}
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	for _, e := range entries {
		for _, h := range e.hosts() {
			if seen.Add(h) {
				out = append(out, h)
			}
		}
	}
	return out, nil
}

// Count returns how many names an expression produces before
// deduplication, without materializing any of them. The count saturates
// at the uint64 ceiling.
func Count(input string) (uint64, error) {
	if input == "" {
		return 1, nil
	}
	entries, err := Parse(input)
	if err != nil {
		return 0, err
	}
	total := uint64(0)
	for _, e := range entries {
		total = satAdd(total, e.count())
	}
	return total, nil
}

// hosts produces the entry's names: the cartesian product of its range
// groups, substituted in part order, with the rightmost group advancing
// fastest.
func (e *HostlistEntry) hosts() []string {
	var groups [][]string
	for _, part := range e.Parts {
		if g, ok := part.(*RangeGroup); ok {
			groups = append(groups, g.segments())
		}
	}
	idx := make([]int, len(groups))
	var out []string
	for {
		var sb strings.Builder
		gi := 0
		for _, part := range e.Parts {
			switch pt := part.(type) {
			case *Literal:
				sb.WriteString(pt.Text)
			case *RangeGroup:
				sb.WriteString(groups[gi][idx[gi]])
				gi++
			}
		}
		out = append(out, sb.String())
		k := len(idx) - 1
		for k >= 0 && idx[k] == len(groups[k])-1 {
			idx[k] = 0
			k--
		}
		if k < 0 {
			break
		}
		idx[k]++
	}
	return out
}

// count returns the number of names the entry produces.
func (e *HostlistEntry) count() uint64 {
	total := uint64(1)
	for _, part := range e.Parts {
		if g, ok := part.(*RangeGroup); ok {
			total = satMul(total, g.count())
		}
	}
	return total
}

// segments flattens the group's fragments in written order.
func (g *RangeGroup) segments() []string {
	var segs []string
	for _, f := range g.Fragments {
		segs = f.appendValues(segs)
	}
	return segs
}

func (g *RangeGroup) count() uint64 {
	total := uint64(0)
	for _, f := range g.Fragments {
		total = satAdd(total, f.count())
	}
	return total
}

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func satMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint64/b {
		return math.MaxUint64
	}
	return a * b
}
