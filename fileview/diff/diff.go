// Package diff computes line based diffs between two texts.
//
// The edit script is the one found by Myers' greedy O(ND) algorithm with the classic tie-break:
// on the outermost diagonals the only available neighbour is used, everywhere else the path is
// extended from the neighbour that reaches further along x, preferring a deletion on a tie. The
// script is therefore not just some shortest edit script but a specific one, and identical input
// always produces identical output.
package diff

// Implementation note: The following links are a good explanation of the algorithm, working on
// this code will likely require re-reading how it works:
//
// https://blog.jcoglan.com/2017/02/12/the-myers-diff-algorithm-part-1/
// https://blog.jcoglan.com/2017/02/15/the-myers-diff-algorithm-part-2/
// https://blog.jcoglan.com/2017/02/17/the-myers-diff-algorithm-part-3/

import (
	"fmt"
	"slices"
	"strings"
)

const debug bool = false

// Op describes an edit operation.
type Op int

const (
	Equal  Op = iota // Line is present in both texts
	Delete           // Line of the left text that's missing in the right one
	Insert           // Line of the right text that's missing in the left one
)

func (op Op) String() string {
	switch op {
	case Equal:
		return "Equal"
	case Delete:
		return "Delete"
	case Insert:
		return "Insert"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Edit is a single operation of an edit script.
type Edit struct {
	Op   Op
	Line string
}

// Split normalizes line endings (CRLF and lone CR become LF) and splits text into lines. A
// trailing newline results in a trailing empty line. The empty text has no lines.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(normalize(text), "\n")
}

func normalize(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	return strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
}

// Edits returns the edit script transforming x into y.
//
// Replaying the Equal and Delete edits in order yields x, replaying the Equal and Insert edits in
// order yields y.
func Edits(x, y []string) []Edit {
	edits, _ := EditsWithin(x, y, len(x)+len(y))
	return edits
}

// EditsWithin is like Edits, but gives up as soon as it's clear that more than maxDist insertions
// and deletions are needed. In that case it returns false. The work and memory required by the
// search grow quadratically with the distance, so this is the way to bound both.
func EditsWithin(x, y []string, maxDist int) ([]Edit, bool) {
	if maxDist < 0 {
		return nil, false
	}

	var edits []Edit

	// Try to reduce the amount of work necessary by skipping a common prefix. The greedy search
	// would consume exactly the same lines as its very first snake.
	if n := longestCommonPrefix(x, y); n > 0 {
		edits = slices.Grow(edits, n)
		for i := range n {
			edits = append(edits, Edit{Equal, x[i]})
		}
		x = x[n:]
		y = y[n:]
	}

	switch {
	case len(x) == 0 && len(y) == 0:
		// nothing left to do
	case len(x) == 0:
		if len(y) > maxDist {
			return nil, false
		}
		edits = slices.Grow(edits, len(y))
		for i := range y {
			edits = append(edits, Edit{Insert, y[i]})
		}
	case len(y) == 0:
		if len(x) > maxDist {
			return nil, false
		}
		edits = slices.Grow(edits, len(x))
		for i := range x {
			edits = append(edits, Edit{Delete, x[i]})
		}
	default:
		v, ok := computeMyersGraph(x, y, maxDist)
		if !ok {
			return nil, false
		}
		edits = backtrack(edits, v, x, y)
	}
	return edits, true
}

func longestCommonPrefix(x, y []string) int {
	n := min(len(x), len(y))
	for i := range n {
		if x[i] != y[i] {
			return i
		}
	}
	return n
}

// backtrack appends the edits in reverse order by walking the edges of the graph back from
// (len(x), len(y)) to the origin and then reverses the appended edits in place.
func backtrack(edits []Edit, v myersGraph, x, y []string) []Edit {
	preexistingEdits := len(edits) // Used to reverse the appended edits.
	s := len(x)
	t := len(y)

	for d := v.maxDepth; ; d-- {
		k := s - t
		if debug {
			if max(k, -k)%2 != d%2 {
				panic("invariant violation")
			}
		}

		var prevK int
		switch {
		case d == 0:
			prevK = 0
		case k == -d || (k != d && v.get(d-1, k-1) < v.get(d-1, k+1)):
			prevK = k + 1
		default:
			prevK = k - 1
		}

		prevS := 0
		if d > 0 {
			prevS = v.get(d-1, prevK)
		}
		prevT := prevS - prevK

		// Unwind the snake that followed the step from the previous depth.
		for prevS < s && prevT < t {
			edits = append(edits, Edit{Equal, x[s-1]})
			s--
			t--
		}

		if d == 0 {
			break
		}

		if debug {
			if prevS == s && prevT == t {
				panic("invariant violation")
			}
		}
		if prevS == s {
			edits = append(edits, Edit{Insert, y[prevT]})
		} else {
			if debug {
				if prevT != t {
					panic("invariant violation")
				}
			}
			edits = append(edits, Edit{Delete, x[prevS]})
		}

		s = prevS
		t = prevT
	}

	slices.Reverse(edits[preexistingEdits:])
	return edits
}

// myersGraph stores the furthest reaching x for every (d, k) visited by computeMyersGraph. The
// graph is stored in a flat slice and by storing the full graph, it's not necessary to record a
// trace at every depth iteration. Values are stored as int32 to halve the footprint of the
// quadratic graph.
type myersGraph struct {
	v        []int32
	maxDepth int
}

func (g *myersGraph) upgradeMaxDepth(maxDepth int) {
	if maxDepth < g.maxDepth {
		return
	}
	n := (maxDepth + 2) * (maxDepth + 1) / 2
	g.v = slices.Grow(g.v, n-len(g.v))
	g.v = g.v[:n]
	g.maxDepth = maxDepth
}

func (g *myersGraph) get(d, k int) int    { return int(g.v[g.index(d, k)]) }
func (g *myersGraph) set(d, k int, v int) { g.v[g.index(d, k)] = int32(v) }

func (g *myersGraph) index(d, k int) int {
	if debug {
		if d < 0 || d > g.maxDepth {
			panic(fmt.Sprintf("d must be in [0, %v] but is %v", g.maxDepth, d))
		}
		if k < -d || k > d {
			panic(fmt.Sprintf("k must be in [%v, %v] but is %v", -d, d, k))
		}
		if k&1 != d&1 {
			panic(fmt.Sprintf("d and k must have same parity: %v vs %v", d, k))
		}
	}
	// The number of k's is always equal to d + 1. Therefore, we know how many k's were before
	// this d: (d + 1) * d / 2. We can then pack the k's into the next d slots.
	i := (d + 1) * d / 2
	j := k
	if k < 0 {
		j = -k - 1
	}
	return i + j
}

func computeMyersGraph(x, y []string, maxDist int) (myersGraph, bool) {
	v := myersGraph{maxDepth: -1}
	dMax := min(len(x)+len(y), maxDist)
	for d := range dMax + 1 {
		v.upgradeMaxDepth(d)
		for k := -d; k <= d; k += 2 {
			var s int
			if d == 0 {
				s = 0
			} else if k == -d || (k != d && v.get(d-1, k-1) < v.get(d-1, k+1)) {
				s = v.get(d-1, k+1)
			} else {
				s = v.get(d-1, k-1) + 1
			}
			t := s - k

			if s < len(x) && t < len(y) {
				lcp := longestCommonPrefix(x[s:], y[t:])
				s += lcp
				t += lcp
			}

			v.set(d, k, s)

			if s >= len(x) && t >= len(y) {
				return v, true
			}
		}
	}
	return myersGraph{}, false
}
