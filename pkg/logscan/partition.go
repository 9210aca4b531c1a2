package logscan

import "fmt"

// Range is a contiguous [Start, Start+Count) slice of a line set.
type Range struct {
	Start int
	Count int
}

func (r Range) End() int {
	return r.Start + r.Count
}

func (r Range) Empty() bool {
	return r.Count == 0
}

// Slice returns the lines covered by r. The result aliases lines.
func (r Range) Slice(lines LineSet) LineSet {
	return lines[r.Start:r.End():r.End()]
}

// Partition splits n items into w contiguous ranges. The first n%w ranges
// hold n/w+1 items and the rest hold n/w, so sizes never differ by more
// than one and the ranges cover [0, n) without gaps.
func Partition(n, w int) ([]Range, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative item count %d", ErrArgument, n)
	}
	if w < 1 {
		return nil, fmt.Errorf("%w: partition count must be positive, got %d", ErrArgument, w)
	}

	base, remainder := n/w, n%w
	ranges := make([]Range, w)
	for rank := range ranges {
		ranges[rank] = Range{
			Start: rank*base + min(rank, remainder),
			Count: base,
		}
		if rank < remainder {
			ranges[rank].Count++
		}
	}
	return ranges, nil
}
