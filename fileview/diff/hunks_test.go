package diff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHunks(t *testing.T) {
	a := "1\n2\n3\n4\n5\n6\n7\n8"
	b := "1\n2\nX\n4\n5\n6\n7\nY"

	tests := []struct {
		name    string
		context int
		want    []Hunk
	}{
		{
			name:    "context_1",
			context: 1,
			want: []Hunk{
				{
					PosA: 1, EndA: 4, PosB: 1, EndB: 4,
					Lines: []Line{
						{Equal, 2, 2, "2"},
						{Delete, 3, 0, "3"},
						{Insert, 0, 3, "X"},
						{Equal, 4, 4, "4"},
					},
				},
				{
					PosA: 6, EndA: 8, PosB: 6, EndB: 8,
					Lines: []Line{
						{Equal, 7, 7, "7"},
						{Delete, 8, 0, "8"},
						{Insert, 0, 8, "Y"},
					},
				},
			},
		},
		{
			name:    "context_2_merges",
			context: 2,
			want: []Hunk{
				{
					PosA: 0, EndA: 8, PosB: 0, EndB: 8,
					Lines: []Line{
						{Equal, 1, 1, "1"},
						{Equal, 2, 2, "2"},
						{Delete, 3, 0, "3"},
						{Insert, 0, 3, "X"},
						{Equal, 4, 4, "4"},
						{Equal, 5, 5, "5"},
						{Equal, 6, 6, "6"},
						{Equal, 7, 7, "7"},
						{Delete, 8, 0, "8"},
						{Insert, 0, 8, "Y"},
					},
				},
			},
		},
		{
			name:    "no_context",
			context: 0,
			want: []Hunk{
				{
					PosA: 2, EndA: 3, PosB: 2, EndB: 3,
					Lines: []Line{
						{Delete, 3, 0, "3"},
						{Insert, 0, 3, "X"},
					},
				},
				{
					PosA: 7, EndA: 8, PosB: 7, EndB: 8,
					Lines: []Line{
						{Delete, 8, 0, "8"},
						{Insert, 0, 8, "Y"},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hunks(Diff(a, b), tt.context)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Hunks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHunksIdentical(t *testing.T) {
	if got := Hunks(Diff("a\nb", "a\nb"), 3); got != nil {
		t.Errorf("got %d hunks for identical input, want none", len(got))
	}
}

func TestUnified(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{
			name: "two_hunks",
			a:    "1\n2\n3\n4\n5\n6\n7\n8",
			b:    "1\n2\nX\n4\n5\n6\n7\nY",
			want: "--- a.txt\n" +
				"+++ b.txt\n" +
				"@@ -2,3 +2,3 @@\n" +
				" 2\n" +
				"-3\n" +
				"+X\n" +
				" 4\n" +
				"@@ -7,2 +7,2 @@\n" +
				" 7\n" +
				"-8\n" +
				"+Y\n",
		},
		{
			name: "insert_into_empty",
			a:    "",
			b:    "x",
			want: "--- a.txt\n" +
				"+++ b.txt\n" +
				"@@ -0,0 +1 @@\n" +
				"+x\n",
		},
		{
			name: "identical",
			a:    "x",
			b:    "x",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			if err := Unified(&sb, "a.txt", "b.txt", Hunks(Diff(tt.a, tt.b), 1)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, sb.String()); diff != "" {
				t.Errorf("Unified mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
