package preview

import (
	"errors"
	"fmt"
)

// ErrTooLarge is returned, wrapped in a [*LimitError], when an operation is declined because its
// input exceeds a limit.
var ErrTooLarge = errors.New("too large to display")

// LimitError describes a declined operation.
type LimitError struct {
	What  string // "diff" or "file"
	Size  int    // Size of the input; zero if only known to exceed Limit
	Limit int
}

func (e *LimitError) Error() string {
	if e.Size == 0 {
		return fmt.Sprintf("%s %v (limit is %d)", e.What, ErrTooLarge, e.Limit)
	}
	return fmt.Sprintf("%s %v (%d, limit is %d)", e.What, ErrTooLarge, e.Size, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrTooLarge }

// Limits are the size guards applied before any work is done.
type Limits struct {
	MaxDiffRows       int // Maximum number of rows of a rendered diff
	MaxHighlightChars int // Maximum number of characters of a highlighted file
}

// DefaultLimits returns the default limits: 20000 rows and 200000 characters.
func DefaultLimits() Limits {
	return Limits{
		MaxDiffRows:       20000,
		MaxHighlightChars: 200000,
	}
}
