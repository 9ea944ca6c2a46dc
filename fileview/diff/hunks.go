package diff

import (
	"bytes"
	"fmt"
	"io"
)

// Hunk is a sequence of consecutive rows with changes and up to context unchanged rows around
// them.
type Hunk struct {
	PosA, EndA int    // Start and end line in the left text (zero-based, half open)
	PosB, EndB int    // Start and end line in the right text (zero-based, half open)
	Lines      []Line // Rows of the hunk
}

// Hunks groups the changed rows of lines into hunks. Changes separated by no more than 2*context
// unchanged rows end up in the same hunk.
func Hunks(lines []Line, context int) []Hunk {
	context = max(context, 0)

	// posA[i] and posB[i] are the number of left and right lines before lines[i].
	posA := make([]int, len(lines)+1)
	posB := make([]int, len(lines)+1)
	for i, l := range lines {
		posA[i+1], posB[i+1] = posA[i], posB[i]
		if l.Op != Insert {
			posA[i+1]++
		}
		if l.Op != Delete {
			posB[i+1]++
		}
	}

	var hunks []Hunk
	for i := 0; i < len(lines); {
		for i < len(lines) && lines[i].Op == Equal {
			i++
		}
		if i == len(lines) {
			break
		}

		start := max(i-context, 0)
		end := i
		for {
			for end < len(lines) && lines[end].Op != Equal {
				end++
			}
			next := end
			for next < len(lines) && lines[next].Op == Equal {
				next++
			}
			if next < len(lines) && next-end <= 2*context {
				end = next
				continue
			}
			end = min(end+context, len(lines))
			break
		}

		hunks = append(hunks, Hunk{
			PosA:  posA[start],
			EndA:  posA[end],
			PosB:  posB[start],
			EndB:  posB[end],
			Lines: lines[start:end],
		})
		i = end
	}
	return hunks
}

// Unified writes hunks in unified diff format with the file names aName and bName.
func Unified(w io.Writer, aName, bName string, hunks []Hunk) error {
	if len(hunks) == 0 {
		return nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "--- %s\n+++ %s\n", aName, bName)
	for _, h := range hunks {
		fmt.Fprintf(&buf, "@@ -%s +%s @@\n", unifiedRange(h.PosA, h.EndA), unifiedRange(h.PosB, h.EndB))
		for _, l := range h.Lines {
			switch l.Op {
			case Equal:
				buf.WriteByte(' ')
			case Delete:
				buf.WriteByte('-')
			case Insert:
				buf.WriteByte('+')
			}
			buf.WriteString(l.Text)
			buf.WriteByte('\n')
		}
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing diff: %v", err)
	}
	return nil
}

func unifiedRange(pos, end int) string {
	switch n := end - pos; n {
	case 0:
		return fmt.Sprintf("%d,0", pos)
	case 1:
		return fmt.Sprintf("%d", pos+1)
	default:
		return fmt.Sprintf("%d,%d", pos+1, n)
	}
}
