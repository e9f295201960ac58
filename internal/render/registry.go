// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package render implements the RenderWorker pool (spec §4.2): a fixed-size
fleet of goroutines pulling planner.Job values from a channel, projecting
store data into view models, executing the named html/template for the
job's Kind, and pushing the resulting artifact.Artifact(s) onto the
ArtifactQueue.

Templates are embedded at build time (go:embed) rather than read from
disk, matching spec.md §1's framing of the build stage as a self-contained
CLI artifact with no runtime dependency on a template directory.
*/
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	internaltemplates "github.com/imaybeabitshy/zimfiction/internal/templates"
	"github.com/imaybeabitshy/zimfiction/web"
)

var templateFS = web.TemplatesFS

// Registry holds the parsed layout plus one independent *template.Template
// per named content page, keyed by the file's base name (e.g.
// "story_chapter" for pages/story_chapter.tmpl). Pages are parsed
// independently of one another, each defining its own "content" block, so
// loading many pages never triggers html/template's "multiple definitions
// of template" error that a single shared template set would.
type Registry struct {
	layout *template.Template
	pages  map[string]*template.Template
}

// LayoutData is what every page is wrapped in.
type LayoutData struct {
	Title string
	Body  template.HTML
}

// NewRegistry parses the embedded layout and every page template.
func NewRegistry() (*Registry, error) {
	funcs := template.FuncMap(internaltemplates.FuncMap())

	layout, err := template.New("layout").Funcs(funcs).ParseFS(templateFS, "templates/layout.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	// ParseFS names the template after the base file name, so the layout
	// we execute is the one named "layout.tmpl", not the "layout" root.
	layout = layout.Lookup("layout.tmpl")

	entries, err := fs.ReadDir(templateFS, "templates/pages")
	if err != nil {
		return nil, fmt.Errorf("read pages dir: %w", err)
	}

	pages := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}
		content, err := templateFS.ReadFile("templates/pages/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read page %s: %w", entry.Name(), err)
		}
		t, err := template.New("content").Funcs(funcs).Parse(string(content))
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), ".tmpl")
		pages[name] = t
	}

	return &Registry{layout: layout, pages: pages}, nil
}

// Render executes the named page template against data, then wraps the
// result in the shared layout under title.
func (r *Registry) Render(page, title string, data any) ([]byte, error) {
	tmpl, ok := r.pages[page]
	if !ok {
		return nil, fmt.Errorf("render: unknown page template %q", page)
	}

	var body bytes.Buffer
	if err := tmpl.ExecuteTemplate(&body, "content", data); err != nil {
		return nil, fmt.Errorf("render page %q: %w", page, err)
	}

	var out bytes.Buffer
	layoutData := LayoutData{Title: title, Body: template.HTML(body.String())}
	if err := r.layout.Execute(&out, layoutData); err != nil {
		return nil, fmt.Errorf("render layout for %q: %w", page, err)
	}
	return out.Bytes(), nil
}
