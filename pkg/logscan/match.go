package logscan

import "bytes"

var (
	WarningMarker = []byte("WARNING")
	ErrorMarker   = []byte("ERROR")
)

// CountLine reports whether the line contains each marker. Matching is an
// exact, case-sensitive substring search; a line may match both markers.
func CountLine(line Line) Counts {
	var c Counts
	if bytes.Contains(line, WarningMarker) {
		c.Warnings = 1
	}
	if bytes.Contains(line, ErrorMarker) {
		c.Errors = 1
	}
	return c
}

// CountLines scans lines sequentially.
func CountLines(lines LineSet) Counts {
	var c Counts
	for _, line := range lines {
		c = c.Add(CountLine(line))
	}
	return c
}

// Reduce sums count pairs. The order of pairs does not affect the result.
func Reduce(pairs ...Counts) Counts {
	var total Counts
	for _, p := range pairs {
		total = total.Add(p)
	}
	return total
}
