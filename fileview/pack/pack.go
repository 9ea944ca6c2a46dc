// Package pack writes a static snapshot of a site to a tar archive.
package pack

import (
	"archive/tar"
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"

	"gamepanel.dev/fileview/site"
)

// Pack writes the index, a view of every file and the style sheet of s to a tar archive. File
// views are stored as view/<path>/index.html, all links are relative. Diffs aren't included.
func Pack(ctx context.Context, filename string, s *site.Site, minifyPages bool) error {
	minifier := minify.New()
	minifier.AddFunc("text/css", css.Minify)
	minifier.AddFunc("text/html", html.Minify)

	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening file: %v", err)
	}
	defer file.Close()

	w := &writer{
		tw:   tar.NewWriter(file),
		dirs: make(map[string]bool),
	}

	add := func(name, mimeType string, b []byte) error {
		if minifyPages {
			b, err = minifier.Bytes(mimeType, b)
			if err != nil {
				return fmt.Errorf("minification failed for %s: %v", name, err)
			}
		}
		return w.file(name, b)
	}

	b, err := s.RenderIndex(ctx, "./", "")
	if err != nil {
		return err
	}
	if err := add("index.html", "text/html", b); err != nil {
		return err
	}

	for _, p := range s.Paths() {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := path.Join("view", p, "index.html")
		b, err := s.RenderFile(ctx, strings.Repeat("../", strings.Count(name, "/")), p)
		if err != nil {
			return err
		}
		if err := add(name, "text/html", b); err != nil {
			return err
		}
	}

	if err := add("style.css", "text/css", site.Style()); err != nil {
		return err
	}

	if err := w.tw.Close(); err != nil {
		return fmt.Errorf("writing archive: %v", err)
	}
	return file.Close()
}

type writer struct {
	tw   *tar.Writer
	dirs map[string]bool
}

// dir writes the headers of dir and all of its parents that haven't been written yet.
func (w *writer) dir(dir string) error {
	if w.dirs[dir] {
		return nil
	}
	if dir != "." {
		if err := w.dir(path.Dir(dir)); err != nil {
			return err
		}
	}

	name := "./" + dir + "/"
	if dir == "." {
		name = "./"
	}
	hdr := &tar.Header{
		Typeflag: tar.TypeDir,
		Name:     name,
		Mode:     int64(0755),
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header: %v", err)
	}
	w.dirs[dir] = true
	return nil
}

func (w *writer) file(name string, b []byte) error {
	if err := w.dir(path.Dir(name)); err != nil {
		return err
	}
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     "./" + name,
		Mode:     int64(0644),
		Size:     int64(len(b)),
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header: %v", err)
	}
	if _, err := w.tw.Write(b); err != nil {
		return fmt.Errorf("writing body: %v", err)
	}
	return nil
}
