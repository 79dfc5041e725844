package menu

import (
	"log/slog"
	"sort"

	"github.com/stagecraft-labs/pipemenu/internal/command"
)

// otherItemsLabel is the bucket for commands registered without an owning app.
const otherItemsLabel = "Other Items"

// defaultContextLabel is used for the context sub-tree when no context
// display name is supplied.
const defaultContextLabel = "Current Context"

// Builder converts registered descriptors into a menu tree.
// The zero value is usable; all fields are optional.
type Builder struct {
	// ContextLabel is the label of the "current context" sub-tree. When
	// empty, a generic label is used.
	ContextLabel string

	// DedupeFavourites also suppresses promoted commands from multi-command
	// app sub-menus. The historical behavior (false) only suppresses the
	// root duplicate of single-command apps, so a multi-command app's
	// favourite appears both under favourites and under its sub-menu.
	DedupeFavourites bool

	Logger *slog.Logger
}

// Build constructs a fresh tree for the given descriptors and favourites.
// The previous tree, if any, is simply discarded by the caller; no diffing
// or incremental mutation happens here.
//
// A malformed name or an identity collision aborts the build with a
// *command.RegistrationError.
func (b *Builder) Build(descriptors []*command.Descriptor, favourites []Favourite) (*Node, error) {
	reg := command.NewRegistry()
	for _, d := range descriptors {
		if err := reg.Add(d); err != nil {
			return nil, err
		}
	}

	var contextItems, defaultItems []*command.Descriptor
	for _, d := range reg.Descriptors() {
		switch d.Type() {
		case command.KindContextMenu:
			contextItems = append(contextItems, d)
		default:
			defaultItems = append(defaultItems, d)
		}
	}

	sortByName(contextItems)
	sortByName(defaultItems)

	promoted, marked := Promote(defaultItems, favourites)

	root := NewRoot("")

	// Context sub-tree first, mirroring the host menu layout.
	if len(contextItems) > 0 {
		label := b.ContextLabel
		if label == "" {
			label = defaultContextLabel
		}
		ctxGroup := root.ensureGroup(label)
		for _, d := range contextItems {
			if err := placeByPath(ctxGroup, d); err != nil {
				return nil, err
			}
		}
	}
	root.attachDivider()

	// Favourites from different apps may share a leaf label; the later one
	// is qualified with its app display name so root children stay unique.
	for _, d := range promoted {
		label := d.LeafLabel()
		if _, taken := root.Child(label); taken {
			if app := d.AppDisplayName(); app != "" {
				label = label + " (" + app + ")"
			}
		}
		root.attach(newLeaf(label, d))
	}
	root.attachDivider()

	byApp := make(map[string][]*command.Descriptor)
	for _, d := range defaultItems {
		app := d.AppDisplayName()
		if app == "" {
			app = otherItemsLabel
		}
		byApp[app] = append(byApp[app], d)
	}

	appNames := make([]string, 0, len(byApp))
	for name := range byApp {
		appNames = append(appNames, name)
	}
	sort.Strings(appNames)

	// Single-command apps are inlined at the root, unless the command was
	// already promoted, in which case the root copy is suppressed.
	inlined := false
	for _, app := range appNames {
		cmds := byApp[app]
		if len(cmds) != 1 {
			continue
		}
		d := cmds[0]
		if _, isFavourite := marked[d.Identity()]; isFavourite {
			continue
		}
		root.attach(newLeaf(d.LeafLabel(), d))
		inlined = true
	}
	if inlined {
		root.attachDivider()
	}

	// Multi-command apps keep all of their commands grouped. Commands with a
	// nested path are walked from the root so sibling apps sharing a path
	// prefix land in one group; plain names go under an app-labelled group.
	for _, app := range appNames {
		cmds := byApp[app]
		if len(cmds) < 2 {
			continue
		}
		for _, d := range cmds {
			if b.DedupeFavourites {
				if _, isFavourite := marked[d.Identity()]; isFavourite {
					continue
				}
			}
			target := root
			if len(d.PathSegments()) == 1 {
				target = root.ensureGroup(app)
				if target.Kind != KindGroup {
					return nil, &command.RegistrationError{
						Name:        d.Name,
						AppInstance: d.AppInstance(),
						Reason:      "app group label conflicts with an existing entry",
					}
				}
			}
			if err := placeByPath(target, d); err != nil {
				return nil, err
			}
		}
	}

	trimTrailingDivider(root)

	if b.Logger != nil {
		b.Logger.Debug("menu tree built",
			slog.Int("commands", len(descriptors)),
			slog.Int("favourites", len(promoted)),
			slog.Int("context_items", len(contextItems)))
	}

	return root, nil
}

// BuildDisabled constructs the tree shown when a context switch fails: a
// single disabled entry explaining why, with no invocable commands.
func (b *Builder) BuildDisabled(reason string) *Node {
	root := NewRoot("")
	root.Disabled = true
	root.attach(&Node{
		Label:    "Menu unavailable",
		Kind:     KindLeaf,
		Tooltip:  reason,
		Disabled: true,
	})
	return root
}

// placeByPath walks the descriptor's path segments from parent, creating or
// reusing group nodes for every segment but the last, then attaches the leaf.
func placeByPath(parent *Node, d *command.Descriptor) error {
	segs := d.PathSegments()
	node := parent
	for _, seg := range segs[:len(segs)-1] {
		next := node.ensureGroup(seg)
		if next.Kind != KindGroup {
			return &command.RegistrationError{
				Name:        d.Name,
				AppInstance: d.AppInstance(),
				Reason:      "path segment " + seg + " conflicts with an existing entry",
			}
		}
		node = next
	}

	label := segs[len(segs)-1]
	if existing, ok := node.Child(label); ok && existing.Kind == KindGroup {
		return &command.RegistrationError{
			Name:        d.Name,
			AppInstance: d.AppInstance(),
			Reason:      "leaf label " + label + " conflicts with an existing sub-menu",
		}
	}
	node.attach(newLeaf(label, d))
	return nil
}

func sortByName(descriptors []*command.Descriptor) {
	sort.SliceStable(descriptors, func(i, j int) bool {
		return descriptors[i].Name < descriptors[j].Name
	})
}

func trimTrailingDivider(n *Node) {
	for len(n.children) > 0 && n.children[len(n.children)-1].Kind == KindDivider {
		n.children = n.children[:len(n.children)-1]
	}
}
