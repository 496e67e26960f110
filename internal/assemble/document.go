// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"fmt"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

// Part is the extracted text of one source file.
type Part struct {
	Path    string
	Content string
}

// Document is an assembled specification: the non-empty parts in source
// order plus every source that was read successfully.
type Document struct {
	Parts   []Part
	Sources []string
}

func (d *Document) add(path, content string) {
	d.Parts = append(d.Parts, Part{Path: path, Content: content})
	d.Sources = append(d.Sources, path)
}

// RenderOptions controls Document.Render.
type RenderOptions struct {
	// Frontmatter prepends a YAML header.
	Frontmatter bool

	// Title is the front matter title; omitted when empty.
	Title string

	// Now stamps generated_at. Defaults to time.Now.
	Now func() time.Time
}

type frontmatter struct {
	Title       string   `yaml:"title,omitempty"`
	GeneratedAt string   `yaml:"generated_at"`
	Sources     []string `yaml:"sources"`
}

// Body concatenates the parts, leaving exactly one blank line between
// consecutive parts.
func (d *Document) Body() string {
	var b strings.Builder
	for i, p := range d.Parts {
		if i > 0 {
			b.WriteString(partBreak(b.String()))
		}
		b.WriteString(p.Content)
	}
	return b.String()
}

// partBreak returns the text needed after prev so that the next part starts
// after a blank line.
func partBreak(prev string) string {
	switch {
	case strings.HasSuffix(prev, "\n\n"):
		return ""
	case strings.HasSuffix(prev, "\n"):
		return "\n"
	default:
		return "\n\n"
	}
}

// Render returns the final document text.
func (d *Document) Render(opts RenderOptions) (string, error) {
	body := d.Body()
	if !opts.Frontmatter {
		return body, nil
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	sources := d.Sources
	if sources == nil {
		sources = []string{}
	}
	fm := frontmatter{
		Title:       opts.Title,
		GeneratedAt: now().UTC().Format(time.RFC3339),
		Sources:     sources,
	}
	data, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("marshaling front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}
