package generator

import (
	"sort"
	"unicode"
)

// Range is an inclusive interval of runes.
type Range struct {
	Lo, Hi rune
}

// RangeSet is a set of runes kept as sorted, disjoint, non-adjacent ranges.
// The zero value is the empty set.
type RangeSet []Range

// NewRangeSet normalizes the given ranges into a RangeSet. Ranges with
// Lo > Hi are dropped.
func NewRangeSet(ranges ...Range) RangeSet {
	rs := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Lo <= r.Hi {
			rs = append(rs, r)
		}
	}
	if len(rs) == 0 {
		return nil
	}
	sort.Slice(rs, func(i, j int) bool { return rs[i].Lo < rs[j].Lo })

	out := RangeSet{rs[0]}
	for _, r := range rs[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// RunesOf builds a set holding exactly the given runes.
func RunesOf(runes ...rune) RangeSet {
	ranges := make([]Range, len(runes))
	for i, r := range runes {
		ranges[i] = Range{r, r}
	}
	return NewRangeSet(ranges...)
}

// FromTable converts a unicode range table into a RangeSet. Strided entries
// are expanded into single-rune ranges.
func FromTable(t *unicode.RangeTable) RangeSet {
	if t == nil {
		return nil
	}
	var ranges []Range
	for _, r := range t.R16 {
		ranges = appendStrided(ranges, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range t.R32 {
		ranges = appendStrided(ranges, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	return NewRangeSet(ranges...)
}

func appendStrided(ranges []Range, lo, hi, stride rune) []Range {
	if stride == 1 {
		return append(ranges, Range{lo, hi})
	}
	for r := lo; r <= hi; r += stride {
		ranges = append(ranges, Range{r, r})
	}
	return ranges
}

// Len returns the number of runes in the set.
func (s RangeSet) Len() int {
	n := 0
	for _, r := range s {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// At returns the i-th rune of the set in ascending order.
// It panics if i is out of range.
func (s RangeSet) At(i int) rune {
	if i >= 0 {
		for _, r := range s {
			size := int(r.Hi-r.Lo) + 1
			if i < size {
				return r.Lo + rune(i)
			}
			i -= size
		}
	}
	panic("generator: RangeSet index out of range")
}

// Union returns the runes in s or o.
func (s RangeSet) Union(o RangeSet) RangeSet {
	ranges := make([]Range, 0, len(s)+len(o))
	ranges = append(ranges, s...)
	ranges = append(ranges, o...)
	return NewRangeSet(ranges...)
}

// Subtract returns the runes in s that are not in o.
func (s RangeSet) Subtract(o RangeSet) RangeSet {
	var out RangeSet
	j := 0
	for _, r := range s {
		lo := r.Lo
		for j < len(o) && o[j].Hi < lo {
			j++
		}
		k := j
		for k < len(o) && o[k].Lo <= r.Hi {
			if o[k].Lo > lo {
				out = append(out, Range{lo, o[k].Lo - 1})
			}
			if o[k].Hi+1 > lo {
				lo = o[k].Hi + 1
			}
			k++
		}
		if lo <= r.Hi {
			out = append(out, Range{lo, r.Hi})
		}
	}
	return out
}
