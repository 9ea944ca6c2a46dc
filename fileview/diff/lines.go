package diff

// Line is a single row of a rendered diff.
//
//   - For Equal, A and B are the 1-based line numbers in the left and right text
//   - For Delete, A is set and B is zero
//   - For Insert, B is set and A is zero
//
// Across a sequence of lines, the non-zero A's and B's are strictly increasing.
type Line struct {
	Op   Op
	A, B int
	Text string
}

// Diff compares the lines of a and b and returns one row per edit.
func Diff(a, b string) []Line {
	return Lines(Edits(Split(a), Split(b)))
}

// Lines numbers the edits of an edit script.
func Lines(edits []Edit) []Line {
	ret := make([]Line, 0, len(edits))
	a, b := 1, 1
	for _, edit := range edits {
		switch edit.Op {
		case Equal:
			ret = append(ret, Line{Equal, a, b, edit.Line})
			a++
			b++
		case Delete:
			ret = append(ret, Line{Delete, a, 0, edit.Line})
			a++
		case Insert:
			ret = append(ret, Line{Insert, 0, b, edit.Line})
			b++
		}
	}
	return ret
}

// Stats counts the operations of an edit script.
type Stats struct {
	Equal, Delete, Insert int
}

// Count returns the stats for edits.
func Count(edits []Edit) Stats {
	var s Stats
	for _, edit := range edits {
		switch edit.Op {
		case Equal:
			s.Equal++
		case Delete:
			s.Delete++
		case Insert:
			s.Insert++
		}
	}
	return s
}

// Rows is the number of rows the edit script renders to.
func (s Stats) Rows() int { return s.Equal + s.Delete + s.Insert }

// Distance is the number of insertions and deletions.
func (s Stats) Distance() int { return s.Delete + s.Insert }

// MinRows is a lower bound for the number of rows of a diff between texts with n and m lines.
func MinRows(n, m int) int { return max(n, m) }

// MaxRows is an upper bound for the number of rows of a diff between texts with n and m lines.
func MaxRows(n, m int) int { return n + m }

// MaxDistance returns the largest edit distance for which a diff between texts with n and m
// lines renders to at most rows rows. It's negative if no diff fits.
//
// A diff with distance D has (n+m-D)/2 equal rows and D changed rows, i.e. (n+m+D)/2 rows.
func MaxDistance(n, m, rows int) int {
	return min(2*rows-n-m, n+m)
}
