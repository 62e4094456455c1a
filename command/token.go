package command

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// FlagSet is a set of flag identifiers with their leading dashes removed.
type FlagSet map[string]struct{}

// NewFlagSet returns a set containing ids.
func NewFlagSet(ids ...string) FlagSet {
	s := make(FlagSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Has reports whether id is in the set.
func (s FlagSet) Has(id string) bool {
	_, ok := s[id]

	return ok
}

// Sorted returns the identifiers in lexical order.
func (s FlagSet) Sorted() []string { return slices.Sorted(maps.Keys(s)) }

// String formats the set as space-separated identifiers, for example "g s".
func (s FlagSet) String() string { return strings.Join(s.Sorted(), " ") }

// Tokens is one input line split into flags and positional arguments.
type Tokens struct {
	Flags FlagSet
	Args  []string
}

// Tokenize splits line on whitespace. Tokens starting with "-" or "--" are
// collected into the flag set with the dashes removed. All other tokens,
// including a bare "-" or "--", are positional arguments kept verbatim and in
// order. A flag that appears twice is an [ErrDuplicateFlag].
//
// Combined short flags are not split: "-fs" is the single identifier "fs".
func Tokenize(line string) (Tokens, error) {
	t := Tokens{Flags: FlagSet{}}

	for _, tok := range strings.Fields(line) {
		id, ok := flagID(tok)
		if !ok {
			t.Args = append(t.Args, tok)

			continue
		}

		if t.Flags.Has(id) {
			return Tokens{}, ErrDuplicateFlag.Detail(tok).With(slog.String("flag", id))
		}

		t.Flags[id] = struct{}{}
	}

	return t, nil
}

func flagID(tok string) (string, bool) {
	switch {
	case strings.HasPrefix(tok, "--"):
		tok = tok[2:]
	case strings.HasPrefix(tok, "-"):
		tok = tok[1:]
	default:
		return "", false
	}

	return tok, tok != ""
}
