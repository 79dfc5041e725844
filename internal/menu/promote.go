package menu

import (
	"github.com/stagecraft-labs/pipemenu/internal/command"
)

// Favourite selects a command for promotion to the favourites section.
// Order in the configured favourites list is display order.
type Favourite struct {
	AppInstance string `koanf:"app_instance"`
	Name        string `koanf:"name"`
}

// Promote resolves favourites against the registered descriptors.
// It returns the matched descriptors in configuration order plus the set of
// promoted identities, which the builder consults for root suppression.
// Entries that match no descriptor are skipped: commands may be conditionally
// registered by optional apps, so a stale favourite is not an error.
func Promote(descriptors []*command.Descriptor, favourites []Favourite) ([]*command.Descriptor, map[command.Identity]struct{}) {
	byIdentity := make(map[command.Identity]*command.Descriptor, len(descriptors))
	for _, d := range descriptors {
		byIdentity[d.Identity()] = d
	}

	promoted := make([]*command.Descriptor, 0, len(favourites))
	marked := make(map[command.Identity]struct{}, len(favourites))

	for _, f := range favourites {
		id := command.Identity{Name: f.Name, AppInstance: f.AppInstance}
		d, ok := byIdentity[id]
		if !ok {
			continue
		}
		if _, seen := marked[id]; seen {
			continue
		}
		marked[id] = struct{}{}
		promoted = append(promoted, d)
	}

	return promoted, marked
}
