// Package address maps document file paths to the structured context the
// menu is scoped to. A path is first anchored to an addressing root (the
// project configuration boundary found by walking up the directory tree),
// then matched against the project's location patterns to derive an entity.
package address

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileNames are the project marker files, in lookup priority order.
var ConfigFileNames = []string{"pipemenu.yaml", "pipemenu.yml"}

// maxUpwardSearchLevels limits how far up the directory tree to search for
// a project marker.
const maxUpwardSearchLevels = 10

// Location declares one entity pattern under a project root, e.g.
// {Type: "shot", Pattern: "shots/{name}"}. Pattern segments are matched
// literally except for the "{name}" placeholder, which captures the entity
// name.
type Location struct {
	Type    string `koanf:"type"`
	Pattern string `koanf:"pattern"`
}

// Project is the slice of project configuration the resolver needs: the
// project's display name and its location patterns.
type Project struct {
	Name      string
	Locations []Location
}

// Context is the structured address the menu and commands are scoped to.
// Equality is by address identity, never by pointer.
type Context struct {
	ProjectName string
	ProjectRoot string
	EntityType  string
	EntityName  string

	// EntityDir is the directory the matched location pattern covered.
	// It is derived data, not part of the context's identity.
	EntityDir string
}

// Equal reports whether two contexts address the same project and entity.
// A nil context equals only another nil context.
func (c *Context) Equal(o *Context) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.ProjectName == o.ProjectName &&
		c.ProjectRoot == o.ProjectRoot &&
		c.EntityType == o.EntityType &&
		c.EntityName == o.EntityName
}

// IsProjectOnly reports whether the context carries no entity.
func (c *Context) IsProjectOnly() bool {
	return c.EntityType == ""
}

// Display returns a human-readable form, e.g. "demo: shot SH010".
func (c *Context) Display() string {
	if c == nil {
		return "no context"
	}
	if c.IsProjectOnly() {
		return fmt.Sprintf("Project %s", c.ProjectName)
	}
	return fmt.Sprintf("%s %s (Project %s)", c.EntityType, c.EntityName, c.ProjectName)
}

// Locations returns the filesystem paths reachable from this context,
// most specific first. Only paths that exist on disk are returned.
func (c *Context) Locations() []string {
	if c == nil {
		return nil
	}
	candidates := []string{c.ProjectRoot}
	if c.EntityDir != "" {
		candidates = append([]string{c.EntityDir}, candidates...)
	}

	var out []string
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			out = append(out, p)
		}
	}
	return out
}

// FindRoot walks upward from dir looking for a project marker file.
// It returns the directory containing the marker, or false when no marker
// exists within the search depth.
func FindRoot(dir string) (string, bool) {
	current := dir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		for _, name := range ConfigFileNames {
			if _, err := os.Stat(filepath.Join(current, name)); err == nil {
				return current, true
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root
			break
		}
		current = parent
	}
	return "", false
}

// ConfigFileIn returns the path of the project marker inside dir, if any.
func ConfigFileIn(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return "", false
}
