// Package enable evaluates command enable predicates against the active
// context. Predicates are small Starlark expressions declared in app
// configuration, e.g.:
//
//	enabled_when: 'ctx.entity_type == "shot"'
//
// An empty expression always enables. Evaluation errors disable the command
// and are reported to the caller; they never abort a menu build.
package enable

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/stagecraft-labs/pipemenu/internal/address"
)

// Eval runs the predicate expression with the context exposed as the "ctx"
// global and returns its truth value.
func Eval(expr string, ctx *address.Context) (bool, error) {
	if expr == "" {
		return true, nil
	}

	thread := &starlark.Thread{
		Name: "enable",
		Print: func(_ *starlark.Thread, _ string) {
			// Predicates have no output channel.
		},
	}

	value, err := starlark.Eval(thread, "enabled_when", expr, starlark.StringDict{
		"ctx": contextValue(ctx),
	})
	if err != nil {
		return false, fmt.Errorf("enable predicate %q: %w", expr, err)
	}

	return bool(value.Truth()), nil
}

// contextValue converts the context to a Starlark struct. A nil context is
// exposed as a struct with empty fields so predicates stay total.
func contextValue(ctx *address.Context) starlark.Value {
	if ctx == nil {
		ctx = &address.Context{}
	}
	return starlarkstruct.FromStringDict(starlark.String("ctx"), starlark.StringDict{
		"project":     starlark.String(ctx.ProjectName),
		"root":        starlark.String(ctx.ProjectRoot),
		"entity_type": starlark.String(ctx.EntityType),
		"entity_name": starlark.String(ctx.EntityName),
	})
}
