package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/justestif/go-spotify-taste-profile/internal/profile"
)

// Templates renders the HTML pages. Every page is a clone of the shared
// layout and partial set with the page's own "content" and "scripts"
// definitions parsed on top.
type Templates struct {
	pages map[string]*template.Template
}

// NewTemplates parses layouts/, partials/ and pages/ from templatesFS.
func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	shared, err := parseShared(templatesFS)
	if err != nil {
		return nil, err
	}

	pageFiles, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("finding pages: %w", err)
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	t := &Templates{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, file := range pageFiles {
		page, err := shared.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning layout for %s: %w", file, err)
		}
		if _, err := page.ParseFS(templatesFS, file); err != nil {
			return nil, fmt.Errorf("parsing page %s: %w", file, err)
		}
		t.pages[strings.TrimSuffix(path.Base(file), ".html")] = page
	}
	return t, nil
}

func parseShared(templatesFS fs.FS) (*template.Template, error) {
	var files []string
	for _, pattern := range []string{"layouts/*.html", "partials/*.html"} {
		matches, err := fs.Glob(templatesFS, pattern)
		if err != nil {
			return nil, fmt.Errorf("finding %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no layout templates found")
	}

	shared, err := template.New("shared").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
	if err != nil {
		return nil, fmt.Errorf("parsing layouts: %w", err)
	}
	return shared, nil
}

// Render executes the "base" layout for page. Output is buffered so a
// failing template writes nothing.
func (t *Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t.pages[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("executing template %q: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// lines splits the explanation into paragraphs.
		"lines": func(s string) []string {
			return strings.Split(strings.TrimSpace(s), "\n")
		},
		"groupImage": groupImage,
		"groups": func() []string {
			gs := profile.Groups()
			labels := make([]string, len(gs))
			for i, g := range gs {
				labels[i] = g.String()
			}
			return labels
		},
	}
}

// PageData is shared by every page.
type PageData struct {
	Title       string
	CurrentPath string
}

// IndexPageData feeds the track picker.
type IndexPageData struct {
	PageData
	MaxTracks int
}

// ResultPageData feeds the result page.
type ResultPageData struct {
	PageData
	Group       string
	Explanation string
	ImageURL    string
}
