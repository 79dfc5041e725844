package address

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// OutcomeKind classifies the result of a resolution attempt.
type OutcomeKind int

const (
	// NoChange means nothing needs to happen: there was no path to resolve
	// from, or the path maps to the current context.
	NoChange OutcomeKind = iota
	// Resolved means a new context was derived and a switch should occur.
	Resolved
	// Ambiguous means the path sits under a known root but matches no
	// location pattern; the caller keeps the current context.
	Ambiguous
	// Failed means no addressing root exists for the path; the caller keeps
	// the current context.
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case NoChange:
		return "no change"
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of Resolver.Resolve.
type Outcome struct {
	Kind OutcomeKind

	// Context is set when Kind is Resolved.
	Context *Context

	// DisplayContext is the root's own project-level context, provided on
	// Ambiguous outcomes for display purposes only. It must never be used
	// to switch.
	DisplayContext *Context

	// Err carries detail on Failed outcomes.
	Err error
}

// Resolver derives contexts from document paths. LoadProject is injected so
// the resolver stays decoupled from any particular configuration store; it
// receives the addressing root directory and returns the project slice of
// that root's configuration.
type Resolver struct {
	LoadProject func(rootDir string) (Project, error)
	Logger      *slog.Logger
}

// Resolve maps a document path to a resolution outcome against the current
// context. The policy, in order:
//
//  1. no path                          -> NoChange
//  2. no addressing root for the path  -> Failed (error logged)
//  3. root found, no pattern match     -> Ambiguous (warning logged)
//  4. derived context equals current   -> NoChange
//  5. otherwise                        -> Resolved(new context)
//
// Resolve never mutates current and is safe to call repeatedly; the same
// inputs always produce the same outcome.
func (r *Resolver) Resolve(path string, current *Context) Outcome {
	logger := r.logger()

	if path == "" {
		logger.Info("no document path, keeping current context")
		return Outcome{Kind: NoChange}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		logger.Error("could not resolve document path",
			slog.String("path", path), "error", err)
		return Outcome{Kind: Failed, Err: err}
	}

	rootDir, ok := FindRoot(filepath.Dir(abs))
	if !ok {
		err := fmt.Errorf("no project found above %s", abs)
		logger.Error("could not detect a context from the active document, menus stay in the current context",
			slog.String("path", abs),
			slog.String("current", current.Display()))
		return Outcome{Kind: Failed, Err: err}
	}

	project, err := r.LoadProject(rootDir)
	if err != nil {
		logger.Error("could not load project configuration",
			slog.String("root", rootDir), "error", err)
		return Outcome{Kind: Failed, Err: err}
	}

	derived := deriveContext(project, rootDir, abs, current)
	if derived == nil {
		projectCtx := &Context{ProjectName: project.Name, ProjectRoot: rootDir}
		logger.Warn("could not extract an entity from the active document path, keeping the current context",
			slog.String("path", abs),
			slog.String("project", project.Name))
		return Outcome{Kind: Ambiguous, DisplayContext: projectCtx}
	}

	if derived.Equal(current) {
		return Outcome{Kind: NoChange}
	}

	return Outcome{Kind: Resolved, Context: derived}
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// deriveContext matches the document path, relative to the root, against the
// project's location patterns. When several patterns match, the current
// context's entity type is used as a tie-break hint; failing that, the first
// matching pattern in configuration order wins.
func deriveContext(project Project, rootDir, absPath string, current *Context) *Context {
	rel, err := filepath.Rel(rootDir, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	segments := strings.Split(filepath.ToSlash(rel), "/")

	var matches []*Context
	for _, loc := range project.Locations {
		if ctx := matchLocation(loc, project.Name, rootDir, segments); ctx != nil {
			matches = append(matches, ctx)
		}
	}

	switch len(matches) {
	case 0:
		return nil
	case 1:
		return matches[0]
	default:
		if current != nil {
			for _, m := range matches {
				if m.EntityType == current.EntityType {
					return m
				}
			}
		}
		return matches[0]
	}
}

// matchLocation matches a pattern such as "shots/{name}" against the leading
// segments of the document's relative path. Literal segments must match
// exactly; the "{name}" placeholder captures the entity name.
func matchLocation(loc Location, projectName, rootDir string, segments []string) *Context {
	pattern := strings.Split(strings.Trim(loc.Pattern, "/"), "/")
	if len(pattern) == 0 || len(segments) < len(pattern) {
		return nil
	}

	name := ""
	for i, p := range pattern {
		if p == "{name}" {
			name = segments[i]
			continue
		}
		if p != segments[i] {
			return nil
		}
	}
	if name == "" {
		return nil
	}

	return &Context{
		ProjectName: projectName,
		ProjectRoot: rootDir,
		EntityType:  loc.Type,
		EntityName:  name,
		EntityDir:   filepath.Join(rootDir, filepath.Join(segments[:len(pattern)]...)),
	}
}
