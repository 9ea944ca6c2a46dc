// Package site renders the pages of the file browser: the file index, file views and diffs.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"slices"
	"strconv"

	"gamepanel.dev/fileview/diff"
	"gamepanel.dev/fileview/files"
	"gamepanel.dev/fileview/markdown"
	"gamepanel.dev/fileview/preview"
)

// ErrNotFound is returned for files that don't exist or that are outside of the root.
var ErrNotFound = errors.New("not found")

//go:embed templates
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Style returns the style sheet referenced by all pages.
func Style() []byte {
	b, err := templatesFS.ReadFile("templates/style.css")
	if err != nil {
		panic(err)
	}
	return b
}

// Site is an in-memory snapshot of the files below a root directory.
type Site struct {
	dir      *files.Dir
	renderer *preview.Renderer
	paths    []string
}

// Load lists the files of dir.
func Load(ctx context.Context, dir *files.Dir, renderer *preview.Renderer) (*Site, error) {
	paths, err := dir.List(ctx, "")
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return &Site{
		dir:      dir,
		renderer: renderer,
		paths:    paths,
	}, nil
}

// Paths returns the paths of all files in sorted order.
func (s *Site) Paths() []string { return slices.Clone(s.paths) }

// Has reports whether the file with the given path is part of the site.
func (s *Site) Has(path string) bool {
	_, ok := slices.BinarySearch(s.paths, path)
	return ok
}

type page struct {
	Title  string
	Base   string       // Relative or absolute URL of the site root, ending in a slash
	Style  template.CSS // Inlined style sheet of standalone pages
	Status string
}

type indexPage struct {
	page
	Query string
	Paths []string
}

// RenderIndex renders the list of files. With a non-empty query, only the files matching the
// query are listed, best match first. base is the URL of the site root.
func (s *Site) RenderIndex(ctx context.Context, base, query string) ([]byte, error) {
	paths := s.paths
	if query != "" {
		var err error
		paths, err = s.dir.List(ctx, query)
		if err != nil {
			return nil, err
		}
	}

	return execute("index", indexPage{
		page:  page{Base: base},
		Query: query,
		Paths: paths,
	})
}

type filePage struct {
	page
	Markdown template.HTML
	Lines    []preview.Line
}

// RenderFile renders the file at path. Markdown files are rendered as documents, all other
// files as highlighted source. Files that can't be displayed result in a page explaining why.
func (s *Site) RenderFile(ctx context.Context, base, path string) ([]byte, error) {
	data := filePage{page: page{Title: path, Base: base}}

	if markdown.IsMarkdown(path) {
		text, err := s.dir.ReadText(ctx, path)
		if err := notFound(err); err != nil {
			return nil, err
		}
		if err != nil {
			data.Status = err.Error()
			return execute("file", data)
		}
		html, err := markdown.Render([]byte(text))
		if err != nil {
			data.Status = err.Error()
			return execute("file", data)
		}
		data.Markdown = template.HTML(html)
		return execute("file", data)
	}

	session := preview.NewSession(s.renderer)
	err := session.Open(ctx, s.dir, path)
	if err := notFound(err); err != nil {
		return nil, err
	}
	if err != nil {
		data.Status = session.Status()
	} else {
		data.Lines = session.View().Lines
	}
	return execute("file", data)
}

// DiffRequest selects the files to compare and the window of rows to render. A zero Limit
// renders all rows.
type DiffRequest struct {
	A, B   string
	Offset int
	Limit  int
}

func (r DiffRequest) query(offset int) string {
	v := url.Values{}
	v.Set("a", r.A)
	v.Set("b", r.B)
	v.Set("offset", strconv.Itoa(offset))
	v.Set("limit", strconv.Itoa(r.Limit))
	return "diff?" + v.Encode()
}

type diffPage struct {
	page
	Rows       []preview.Row
	Stats      diff.Stats
	Prev, Next string
}

// RenderDiff renders the diff between two files. If the files can't be compared, the page
// explains why.
func (s *Site) RenderDiff(ctx context.Context, base string, req DiffRequest) ([]byte, error) {
	session := preview.NewSession(s.renderer)
	if err := notFound(session.CompareFiles(ctx, s.dir, req.A, req.B)); err != nil {
		return nil, err
	}

	data := diffPage{
		page: page{Title: req.A + " vs " + req.B, Base: base},
	}
	if v := session.View(); v == nil {
		data.Status = session.Status()
	} else {
		data.Stats = v.Stats
		data.Rows = v.Rows
		if req.Limit > 0 {
			data.Rows = s.renderer.Window(v.Rows, req.Offset, req.Limit)
			if req.Offset > 0 {
				data.Prev = base + req.query(max(req.Offset-req.Limit, 0))
			}
			if req.Offset+req.Limit < len(v.Rows) {
				data.Next = base + req.query(req.Offset+req.Limit)
			}
		}
	}
	return execute("diff", data)
}

// StandaloneFile renders a self-contained page for the lines of a file, with the style sheet
// inlined and without links to a site.
func StandaloneFile(title string, lines []preview.Line) ([]byte, error) {
	return execute("file", filePage{
		page:  page{Title: title, Style: template.CSS(Style())},
		Lines: lines,
	})
}

// StandaloneDiff renders a self-contained page for the rows of a diff, with the style sheet
// inlined and without links to a site.
func StandaloneDiff(title string, rows []preview.Row, stats diff.Stats) ([]byte, error) {
	return execute("diff", diffPage{
		page:  page{Title: title, Style: template.CSS(Style())},
		Rows:  rows,
		Stats: stats,
	})
}

func notFound(err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, files.ErrOutsideRoot) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return nil
}

func execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering template %s: %v", name, err)
	}
	return buf.Bytes(), nil
}
