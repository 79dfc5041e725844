// Package command defines command descriptors and the per-build-cycle
// registry the menu builder consumes. Descriptors are value records: all
// behavior lives in free functions and in the packages that consume them.
package command

import (
	"fmt"
	"strings"
)

// Kind describes how a command is routed in the menu.
type Kind string

const (
	// KindDefault routes a command into the main app-grouped tree.
	KindDefault Kind = "default"
	// KindContextMenu routes a command into the "current context" sub-tree.
	KindContextMenu Kind = "context_menu"
)

// AppHandle identifies the app that registered a command.
// InstanceName is the stable configuration key (e.g. "pipeline"),
// DisplayName is what menus show (e.g. "Pipeline").
type AppHandle struct {
	InstanceName string
	DisplayName  string
}

// Properties holds the optional registration properties of a command.
type Properties struct {
	// App is the owning app, or nil for commands registered without one.
	App *AppHandle
	// Type defaults to KindDefault when empty.
	Type Kind
	// Tooltip is shown next to the menu entry.
	Tooltip string
	// EnableWhen is an optional predicate expression evaluated against the
	// active context; an empty string means always enabled.
	EnableWhen string
	// Checkable marks the command as a toggle entry.
	Checkable bool
}

// Descriptor is an immutable command registration record.
// Name is a slash-delimited hierarchical path such as "Apps/Loader".
type Descriptor struct {
	Name       string
	Callback   func()
	Properties Properties
}

// Identity uniquely identifies a descriptor within one build cycle.
type Identity struct {
	Name        string
	AppInstance string
}

func (id Identity) String() string {
	if id.AppInstance == "" {
		return id.Name
	}
	return id.AppInstance + ":" + id.Name
}

// Identity returns the (name, app instance) pair identifying this descriptor.
func (d *Descriptor) Identity() Identity {
	return Identity{Name: d.Name, AppInstance: d.AppInstance()}
}

// AppInstance returns the owning app's instance name, or "" when absent.
func (d *Descriptor) AppInstance() string {
	if d.Properties.App == nil {
		return ""
	}
	return d.Properties.App.InstanceName
}

// AppDisplayName returns the owning app's display name, or "" when absent.
func (d *Descriptor) AppDisplayName() string {
	if d.Properties.App == nil {
		return ""
	}
	return d.Properties.App.DisplayName
}

// Type returns the routing kind, defaulting to KindDefault.
func (d *Descriptor) Type() Kind {
	if d.Properties.Type == "" {
		return KindDefault
	}
	return d.Properties.Type
}

// PathSegments splits the name on "/" into its menu path segments.
func (d *Descriptor) PathSegments() []string {
	return strings.Split(d.Name, "/")
}

// LeafLabel returns the last path segment, the label shown on the leaf entry.
func (d *Descriptor) LeafLabel() string {
	segs := d.PathSegments()
	return segs[len(segs)-1]
}

// NormalizeName trims a single leading and trailing slash and validates the
// result: it must be non-empty and contain no empty interior segments.
func NormalizeName(name string) (string, error) {
	trimmed := strings.TrimPrefix(name, "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return "", fmt.Errorf("command name %q is empty after trimming slashes", name)
	}
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" {
			return "", fmt.Errorf("command name %q contains an empty path segment", name)
		}
	}
	return trimmed, nil
}
