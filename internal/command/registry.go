package command

import "fmt"

// RegistrationError reports a malformed or colliding command descriptor.
// It is the only fail-fast error in the menu pipeline: registration data is
// static, so a bad descriptor is caught before any menu is shown.
type RegistrationError struct {
	Name        string
	AppInstance string
	Reason      string
}

func (e *RegistrationError) Error() string {
	if e.AppInstance != "" {
		return fmt.Sprintf("command registration failed for %q (app %q): %s", e.Name, e.AppInstance, e.Reason)
	}
	return fmt.Sprintf("command registration failed for %q: %s", e.Name, e.Reason)
}

// Registry collects the descriptors supplied for one menu-build cycle.
// It preserves registration order and rejects identity collisions.
type Registry struct {
	descriptors []*Descriptor
	byIdentity  map[Identity]*Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byIdentity: make(map[Identity]*Descriptor),
	}
}

// Add validates and registers a descriptor. The stored descriptor carries the
// normalized name; the caller's value is not mutated.
func (r *Registry) Add(d *Descriptor) error {
	name, err := NormalizeName(d.Name)
	if err != nil {
		return &RegistrationError{Name: d.Name, AppInstance: d.AppInstance(), Reason: err.Error()}
	}

	stored := *d
	stored.Name = name

	id := stored.Identity()
	if _, exists := r.byIdentity[id]; exists {
		return &RegistrationError{Name: name, AppInstance: id.AppInstance, Reason: "duplicate registration"}
	}

	r.byIdentity[id] = &stored
	r.descriptors = append(r.descriptors, &stored)
	return nil
}

// Lookup returns the descriptor registered under the given identity.
func (r *Registry) Lookup(id Identity) (*Descriptor, bool) {
	d, ok := r.byIdentity[id]
	return d, ok
}

// Descriptors returns the registered descriptors in registration order.
// The returned slice is a copy; the descriptors themselves are shared.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Count returns the number of registered descriptors.
func (r *Registry) Count() int {
	return len(r.descriptors)
}
