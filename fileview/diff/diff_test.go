package diff

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestEdits(t *testing.T) {
	tests := []struct {
		name string
		x, y []string
		want []Edit
	}{
		{
			name: "identical",
			x:    []string{"foo", "bar", "baz"},
			y:    []string{"foo", "bar", "baz"},
			want: []Edit{
				{Equal, "foo"},
				{Equal, "bar"},
				{Equal, "baz"},
			},
		},
		{
			name: "empty",
		},
		{
			name: "x_empty",
			y:    []string{"foo", "bar", "baz"},
			want: []Edit{
				{Insert, "foo"},
				{Insert, "bar"},
				{Insert, "baz"},
			},
		},
		{
			name: "y_empty",
			x:    []string{"foo", "bar", "baz"},
			want: []Edit{
				{Delete, "foo"},
				{Delete, "bar"},
				{Delete, "baz"},
			},
		},
		{
			name: "ABCABBA_to_CBABAC",
			x:    strings.Split("ABCABBA", ""),
			y:    strings.Split("CBABAC", ""),
			want: []Edit{
				{Delete, "A"},
				{Delete, "B"},
				{Equal, "C"},
				{Insert, "B"},
				{Equal, "A"},
				{Equal, "B"},
				{Delete, "B"},
				{Equal, "A"},
				{Insert, "C"},
			},
		},
		{
			name: "substitution",
			x:    []string{"a", "b", "c"},
			y:    []string{"a", "x", "c"},
			want: []Edit{
				{Equal, "a"},
				{Delete, "b"},
				{Insert, "x"},
				{Equal, "c"},
			},
		},
		{
			name: "same_suffix",
			x:    []string{"foo", "bar"},
			y:    []string{"loo", "bar"},
			want: []Edit{
				{Delete, "foo"},
				{Insert, "loo"},
				{Equal, "bar"},
			},
		},
		{
			// Without any sliding of groups, the insertions end up where the greedy search
			// puts them.
			name: "no_sliding",
			x:    []string{"a", "a"},
			y:    []string{"a", "b", "a", "b", "a"},
			want: []Edit{
				{Equal, "a"},
				{Insert, "b"},
				{Equal, "a"},
				{Insert, "b"},
				{Insert, "a"},
			},
		},
		{
			name: "realistic_example",
			x: []string{
				"func f() int {",
				"\treturn 0",
				"}",
			},
			y: []string{
				"func f() int {",
				"\treturn 0",
				"}",
				"",
				"func g() int {",
				"\treturn 42",
				"}",
			},
			want: []Edit{
				{Equal, "func f() int {"},
				{Equal, "\treturn 0"},
				{Equal, "}"},
				{Insert, ""},
				{Insert, "func g() int {"},
				{Insert, "\treturn 42"},
				{Insert, "}"},
			},
		},
		{
			name: "whitespace_is_significant",
			x:    []string{"a ", "B"},
			y:    []string{"a", "b"},
			want: []Edit{
				{Delete, "a "},
				{Delete, "B"},
				{Insert, "a"},
				{Insert, "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Edits(tt.x, tt.y)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Edits result is different (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "empty",
			in:   "",
			want: nil,
		},
		{
			name: "single_line",
			in:   "foo",
			want: []string{"foo"},
		},
		{
			name: "trailing_newline_is_kept",
			in:   "foo\nbar\n",
			want: []string{"foo", "bar", ""},
		},
		{
			name: "only_newline",
			in:   "\n",
			want: []string{"", ""},
		},
		{
			name: "crlf",
			in:   "foo\r\nbar\r\n",
			want: []string{"foo", "bar", ""},
		},
		{
			name: "lone_cr",
			in:   "foo\rbar",
			want: []string{"foo", "bar"},
		},
		{
			name: "mixed",
			in:   "a\r\n\rb\n",
			want: []string{"a", "", "b", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want []Line
	}{
		{
			name: "both_empty",
			want: nil,
		},
		{
			name: "substitution",
			a:    "a\nb\nc",
			b:    "a\nx\nc",
			want: []Line{
				{Equal, 1, 1, "a"},
				{Delete, 2, 0, "b"},
				{Insert, 0, 2, "x"},
				{Equal, 3, 3, "c"},
			},
		},
		{
			name: "line_endings_are_normalized",
			a:    "a\r\nb\r\n",
			b:    "a\nb\n",
			want: []Line{
				{Equal, 1, 1, "a"},
				{Equal, 2, 2, "b"},
				{Equal, 3, 3, ""},
			},
		},
		{
			name: "added_trailing_newline",
			a:    "a",
			b:    "a\n",
			want: []Line{
				{Equal, 1, 1, "a"},
				{Insert, 0, 2, ""},
			},
		},
		{
			name: "left_empty",
			a:    "",
			b:    "x\ny",
			want: []Line{
				{Insert, 0, 1, "x"},
				{Insert, 0, 2, "y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.a, tt.b)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Diff mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDiffIdentical(t *testing.T) {
	text := "alpha\nbeta\n\ngamma\n"
	lines := Diff(text, text)
	if len(lines) != len(Split(text)) {
		t.Fatalf("got %d rows, want %d", len(lines), len(Split(text)))
	}
	for i, l := range lines {
		if l.Op != Equal {
			t.Errorf("row %d: got %v, want Equal", i, l.Op)
		}
		if l.A != i+1 || l.B != i+1 {
			t.Errorf("row %d: got line numbers (%d, %d), want (%d, %d)", i, l.A, l.B, i+1, i+1)
		}
	}
}

// randomLines generates inputs from a tiny alphabet so that the inputs share many lines.
func randomLines(r *rand.Rand) []string {
	n := r.IntN(12)
	if n == 0 {
		return nil
	}
	lines := make([]string, n)
	for i := range lines {
		lines[i] = string(rune('a' + r.IntN(4)))
	}
	return lines
}

func lcsLength(x, y []string) int {
	dp := make([][]int, len(x)+1)
	for i := range dp {
		dp[i] = make([]int, len(y)+1)
	}
	for i := len(x) - 1; i >= 0; i-- {
		for j := len(y) - 1; j >= 0; j-- {
			if x[i] == y[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else {
				dp[i][j] = max(dp[i+1][j], dp[i][j+1])
			}
		}
	}
	return dp[0][0]
}

func replay(edits []Edit) (x, y []string) {
	for _, e := range edits {
		if e.Op != Insert {
			x = append(x, e.Line)
		}
		if e.Op != Delete {
			y = append(y, e.Line)
		}
	}
	return x, y
}

func TestEditsProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := range 2000 {
		x, y := randomLines(r), randomLines(r)
		edits := Edits(x, y)

		gotX, gotY := replay(edits)
		if diff := cmp.Diff(x, gotX, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("case %d: replaying %v against %v doesn't yield x (-want +got):\n%s", i, x, y, diff)
		}
		if diff := cmp.Diff(y, gotY, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("case %d: replaying %v against %v doesn't yield y (-want +got):\n%s", i, x, y, diff)
		}

		stats := Count(edits)
		if want := len(x) + len(y) - 2*lcsLength(x, y); stats.Distance() != want {
			t.Fatalf("case %d: %v vs %v: got distance %d, want %d", i, x, y, stats.Distance(), want)
		}

		reverse := Count(Edits(y, x))
		if stats.Delete != reverse.Insert || stats.Insert != reverse.Delete {
			t.Fatalf("case %d: %v vs %v: asymmetric stats %+v and %+v", i, x, y, stats, reverse)
		}

		if diff := cmp.Diff(edits, Edits(x, y)); diff != "" {
			t.Fatalf("case %d: non-deterministic result (-first +second):\n%s", i, diff)
		}

		rows := Lines(edits)
		if got := len(rows); got != stats.Rows() {
			t.Fatalf("case %d: got %d rows, stats say %d", i, got, stats.Rows())
		}
		if len(rows) < MinRows(len(x), len(y)) || len(rows) > MaxRows(len(x), len(y)) {
			t.Fatalf("case %d: %d rows outside of [%d, %d]", i, len(rows), MinRows(len(x), len(y)), MaxRows(len(x), len(y)))
		}
		lastA, lastB := 0, 0
		for _, row := range rows {
			if (row.A != 0) != (row.Op != Insert) || (row.B != 0) != (row.Op != Delete) {
				t.Fatalf("case %d: line numbers %d/%d don't match op %v", i, row.A, row.B, row.Op)
			}
			if row.A != 0 {
				if row.A != lastA+1 {
					t.Fatalf("case %d: left line number %d follows %d", i, row.A, lastA)
				}
				lastA = row.A
			}
			if row.B != 0 {
				if row.B != lastB+1 {
					t.Fatalf("case %d: right line number %d follows %d", i, row.B, lastB)
				}
				lastB = row.B
			}
		}
	}
}

func TestEditsWithin(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := range 500 {
		x, y := randomLines(r), randomLines(r)
		want := Edits(x, y)
		dist := Count(want).Distance()

		got, ok := EditsWithin(x, y, dist)
		if !ok {
			t.Fatalf("case %d: %v vs %v: EditsWithin(%d) gave up", i, x, y, dist)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("case %d: EditsWithin differs from Edits (-want +got):\n%s", i, diff)
		}

		if dist > 0 {
			if _, ok := EditsWithin(x, y, dist-1); ok {
				t.Fatalf("case %d: %v vs %v: EditsWithin(%d) succeeded with distance %d", i, x, y, dist-1, dist)
			}
		}
	}
}

func TestMaxDistance(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for i := range 500 {
		x, y := randomLines(r), randomLines(r)
		rows := len(Lines(Edits(x, y)))
		for limit := range 25 {
			_, ok := EditsWithin(x, y, MaxDistance(len(x), len(y), limit))
			if fits := rows <= limit; ok != fits {
				t.Fatalf("case %d: %v vs %v with %d rows: limit %d gave ok=%v", i, x, y, rows, limit, ok)
			}
		}
	}
}
