// Package render turns templates into per-repository artifacts: start
// code files and desired issue/milestone documents.
package render

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/idlab-discover/ghtt/pkg/roster"
)

// TemplateExt marks files that are rendered during repo creation. The
// rendered result is written without the extension and the template
// file is removed.
const TemplateExt = ".tmpl"

// Context is the data every template sees.
type Context struct {
	CloneURL string
	Group    string
	Students []roster.Person
	Mentors  []roster.Person
	Repo     *roster.RepoTarget
}

func (c Context) data() map[string]any {
	return map[string]any{
		"clone_url": c.CloneURL,
		"group":     c.Group,
		"students":  c.Students,
		"mentors":   c.Mentors,
		"repo":      c.Repo,
	}
}

// Render executes one template text against the context. A missing
// context key is an error so typos in templates do not silently render
// empty strings.
func Render(text string, ctx Context) (string, error) {
	tmpl, err := template.New("artifact").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("malformed template: %w", err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, ctx.data()); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return sb.String(), nil
}

// RenderFile renders the template at path in place: the result is
// written next to it without the template extension and the template
// file is removed.
func RenderFile(path string, ctx Context) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", path, err)
	}

	out, err := Render(string(raw), ctx)
	if err != nil {
		return fmt.Errorf("template %s: %w", path, err)
	}

	destination := strings.TrimSuffix(path, TemplateExt)
	if destination != path {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove template %s: %w", path, err)
		}
	}
	return os.WriteFile(destination, []byte(out), 0644)
}

// RenderTree renders every *.tmpl file under dir. A failing template
// aborts that one file, reported through the returned error slice, not
// the whole walk.
func RenderTree(dir string, ctx Context) []error {
	var errs []error
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, TemplateExt) {
			return nil
		}
		if err := RenderFile(path, ctx); err != nil {
			errs = append(errs, err)
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, walkErr)
	}
	return errs
}
