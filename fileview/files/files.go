// Package files reads text files below a root directory.
package files

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	// ErrOutsideRoot is returned for paths that point outside of the root directory.
	ErrOutsideRoot = errors.New("path outside of root")

	// ErrNotText is returned for files that aren't valid UTF-8 text.
	ErrNotText = errors.New("not a text file")

	// ErrFileTooLarge is returned for files exceeding the size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// Reader provides the text content of files.
type Reader interface {
	// ReadText returns the content of the file at path.
	ReadText(ctx context.Context, path string) (string, error)
}

// Dir reads files from a file system.
type Dir struct {
	fsys     fs.FS
	maxBytes int64
}

var _ Reader = (*Dir)(nil)

// NewDir returns a Dir reading files from fsys. Files larger than maxBytes are rejected.
func NewDir(fsys fs.FS, maxBytes int64) *Dir {
	return &Dir{fsys: fsys, maxBytes: maxBytes}
}

// OpenDir returns a Dir reading files below the directory root.
func OpenDir(root string, maxBytes int64) (*Dir, error) {
	stat, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("opening root: %w", err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("opening root: %s is not a directory", root)
	}
	return NewDir(os.DirFS(root), maxBytes), nil
}

// ReadText returns the content of the file at path, relative to the root. A leading slash is
// ignored.
func (d *Dir) ReadText(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p, err := Clean(name)
	if err != nil {
		return "", err
	}

	f, err := d.fsys.Open(p)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	if stat.IsDir() {
		return "", fmt.Errorf("reading %s: is a directory", p)
	}
	if stat.Size() > d.maxBytes {
		return "", fmt.Errorf("reading %s: %w (%d bytes, limit is %d)", p, ErrFileTooLarge, stat.Size(), d.maxBytes)
	}

	// The size reported by stat isn't necessarily accurate, e.g. for files that are still growing.
	b, err := io.ReadAll(io.LimitReader(f, d.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	if int64(len(b)) > d.maxBytes {
		return "", fmt.Errorf("reading %s: %w (limit is %d bytes)", p, ErrFileTooLarge, d.maxBytes)
	}
	if !utf8.Valid(b) || bytes.IndexByte(b, 0) >= 0 {
		return "", fmt.Errorf("reading %s: %w", p, ErrNotText)
	}
	return string(b), nil
}

// List returns the paths of all files below the root, skipping hidden files and directories.
// With a non-empty query, only paths fuzzy matching the query are returned, best match first.
func (d *Dir) List(ctx context.Context, query string) ([]string, error) {
	var paths []string
	err := fs.WalkDir(d.fsys, ".", func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != "." && strings.HasPrefix(e.Name(), ".") {
			if e.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if e.Type().IsRegular() {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	if query == "" {
		return paths, nil
	}

	ranks := fuzzy.RankFindFold(query, paths)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return cmp.Or(cmp.Compare(a.Distance, b.Distance), cmp.Compare(a.Target, b.Target))
	})
	ret := make([]string, 0, len(ranks))
	for _, r := range ranks {
		ret = append(ret, r.Target)
	}
	return ret, nil
}

// Clean turns name into a path valid for an [fs.FS]. It returns [ErrOutsideRoot] for paths
// escaping the root.
func Clean(name string) (string, error) {
	p := strings.TrimPrefix(strings.ReplaceAll(name, `\`, "/"), "/")
	if p == "" {
		return ".", nil
	}
	p = path.Clean(p)
	if p == ".." || strings.HasPrefix(p, "../") || !fs.ValidPath(p) {
		return "", fmt.Errorf("invalid path %q: %w", name, ErrOutsideRoot)
	}
	return p, nil
}
