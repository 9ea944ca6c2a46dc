package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gamepanel.dev/fileview/diff"
	"gamepanel.dev/fileview/files"
)

// View is the result of a successful comparison or file view.
type View struct {
	Title string
	Lines []Line // Set for file views
	Rows  []Row  // Set for comparisons
	Stats diff.Stats
}

// Session holds the state of a file view: the last successfully rendered view and a status
// message. A failed operation updates the status message but keeps the previous view. It's safe
// for concurrent use.
type Session struct {
	renderer *Renderer

	mu     sync.Mutex
	view   *View
	status string
}

// NewSession returns an empty session rendering with r.
func NewSession(r *Renderer) *Session {
	return &Session{renderer: r}
}

// View returns the last successfully rendered view, or nil if there is none.
func (s *Session) View() *View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Status returns the status message of the last operation.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Open reads the file at path and renders it.
func (s *Session) Open(ctx context.Context, reader files.Reader, path string) error {
	text, err := reader.ReadText(ctx, path)
	if err != nil {
		return s.fail(fmt.Errorf("reading %s: %w", path, err))
	}
	lines, err := s.renderer.Highlight(path, text)
	if err != nil {
		return s.fail(fmt.Errorf("rendering %s: %w", path, err))
	}
	s.succeed(&View{Title: path, Lines: lines}, fmt.Sprintf("%s: %d lines", path, len(lines)))
	return nil
}

// CompareFiles compares the files at the paths a and b.
func (s *Session) CompareFiles(ctx context.Context, reader files.Reader, a, b string) error {
	ta, err := reader.ReadText(ctx, a)
	if err != nil {
		return s.fail(fmt.Errorf("reading %s: %w", a, err))
	}
	tb, err := reader.ReadText(ctx, b)
	if err != nil {
		return s.fail(fmt.Errorf("reading %s: %w", b, err))
	}
	return s.compare(a+" vs "+b, b, ta, tb)
}

// CompareBuffer compares the file at path, as the left text, with the unsaved content of an
// editor buffer.
func (s *Session) CompareBuffer(ctx context.Context, reader files.Reader, buffer, path string) error {
	saved, err := reader.ReadText(ctx, path)
	if err != nil {
		return s.fail(fmt.Errorf("reading %s: %w", path, err))
	}
	return s.compare(path+" (unsaved changes)", path, saved, buffer)
}

func (s *Session) compare(title, name, a, b string) error {
	rows, stats, err := s.renderer.Diff(name, a, b)
	if err != nil {
		return s.fail(fmt.Errorf("comparing %s: %w", title, err))
	}

	status := "no differences"
	if stats.Distance() > 0 {
		status = fmt.Sprintf("%s, %s", plural(stats.Delete, "deletion"), plural(stats.Insert, "insertion"))
	}
	s.succeed(&View{Title: title, Rows: rows, Stats: stats}, status)
	return nil
}

func (s *Session) succeed(v *View, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
	s.status = status
}

func (s *Session) fail(err error) error {
	// Size rejections are reported without the context of the failed operation.
	status := err.Error()
	var lerr *LimitError
	if errors.As(err, &lerr) {
		status = lerr.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	return err
}

// plural formats a count of things, e.g. "1 deletion" or "2 deletions".
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
