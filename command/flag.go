package command

import (
	"log/slog"
	"slices"
	"strings"
)

// Flag declares one boolean switch by its canonical short identifier and its
// long alias, for example {"g", "greater"}.
type Flag struct {
	Short string
	Long  string
}

// Flags validates the flag set given to a command against a declared
// vocabulary and conflict groups.
//
// A Flags is immutable once created and may be shared by many nodes.
type Flags struct {
	declared  []Flag
	conflicts [][]string
}

// NewFlags declares the vocabulary and the conflict groups of a command.
// Each conflict group lists canonical short identifiers of which at most one
// may be given.
func NewFlags(declared []Flag, conflicts ...[]string) *Flags {
	f := &Flags{
		declared:  slices.Clone(declared),
		conflicts: make([][]string, 0, len(conflicts)),
	}

	for _, group := range conflicts {
		f.conflicts = append(f.conflicts, slices.Clone(group))
	}

	return f
}

// Declared returns the declared flag pairs in declaration order.
func (f *Flags) Declared() []Flag { return slices.Clone(f.declared) }

// Conflicts returns the declared conflict groups.
func (f *Flags) Conflicts() [][]string {
	out := make([][]string, len(f.conflicts))
	for i, g := range f.conflicts {
		out[i] = slices.Clone(g)
	}

	return out
}

// Validate normalizes raw to canonical short identifiers. It fails with
// [ErrDuplicateFlag] if both aliases of a pair are given, [ErrUnknownFlag] if
// any identifier is not declared, and [ErrIncompatibleFlags] if two members
// of one conflict group are accepted. raw is not modified.
func (f *Flags) Validate(raw FlagSet) (FlagSet, error) {
	rest := FlagSet{}
	for id := range raw {
		rest[id] = struct{}{}
	}

	accepted := FlagSet{}

	for _, d := range f.declared {
		_, short := rest[d.Short]
		_, long := rest[d.Long]

		if !short && !long {
			continue
		}

		if (short && long && d.Short != d.Long) || accepted.Has(d.Short) {
			return nil, ErrDuplicateFlag.
				Detail("-" + d.Short + " and --" + d.Long).
				With(slog.String("short", d.Short), slog.String("long", d.Long))
		}

		delete(rest, d.Short)
		delete(rest, d.Long)
		accepted[d.Short] = struct{}{}
	}

	if len(rest) > 0 {
		return nil, ErrUnknownFlag.Detail(rest.String())
	}

	for _, group := range f.conflicts {
		var met []string

		for _, id := range group {
			if accepted.Has(id) {
				met = append(met, id)
			}
		}

		if len(met) > 1 {
			return nil, ErrIncompatibleFlags.
				Detail("-" + strings.Join(met, ", -")).
				With(slog.Any("flags", met))
		}
	}

	return accepted, nil
}
