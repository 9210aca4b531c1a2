package logscan

// Line is a single record of the input file. The trailing newline is kept
// exactly as it appears on disk, so the last line of a file may lack one.
// A Line is never mutated once created.
type Line []byte

// LineSet is an ordered sequence of lines indexed from 0.
type LineSet []Line

// Bytes returns the total size of all lines.
func (ls LineSet) Bytes() int {
	total := 0
	for _, line := range ls {
		total += len(line)
	}
	return total
}

// Clone returns a deep copy whose lines share no memory with ls.
func (ls LineSet) Clone() LineSet {
	out := make(LineSet, len(ls))
	for i, line := range ls {
		out[i] = append(Line(nil), line...)
	}
	return out
}

// Counts is a (warnings, errors) pair.
type Counts struct {
	Warnings int
	Errors   int
}

func (c Counts) Add(other Counts) Counts {
	return Counts{
		Warnings: c.Warnings + other.Warnings,
		Errors:   c.Errors + other.Errors,
	}
}

// Fragment is the share of the line set owned by one worker rank.
type Fragment struct {
	Rank  int
	Start int
	Lines LineSet
}

// Range returns the partition range the fragment covers.
func (f Fragment) Range() Range {
	return Range{Start: f.Start, Count: len(f.Lines)}
}

// Scanner counts marker lines in a line set.
type Scanner interface {
	Scan(lines LineSet) Counts
	Parallelism() int
}
