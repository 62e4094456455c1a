package command

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the "did you mean" list for unknown commands.
const maxSuggestions = 3

// Tree owns the root commands of a dispatch tree.
type Tree struct {
	index map[string]*Node
	roots []*Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{index: map[string]*Node{}}
}

// Add registers root commands. Roots must be literal nodes with distinct
// names; violations are [pkg.ClassBuild] errors and leave the tree
// unchanged.
func (t *Tree) Add(roots ...*Node) error {
	seen := map[string]bool{}

	for _, r := range roots {
		if r.kind != Literal {
			return ErrInvalidRoot.Detail(r.name)
		}

		if _, ok := t.index[r.name]; ok || seen[r.name] {
			return ErrDuplicateCommand.Detail(r.name)
		}

		seen[r.name] = true
	}

	for _, r := range roots {
		t.index[r.name] = r
		t.roots = append(t.roots, r)
	}

	return nil
}

// MustAdd is like [Tree.Add] but panics on error. It is meant for command
// registration at startup, where a failure is a programming error.
func (t *Tree) MustAdd(roots ...*Node) *Tree {
	if err := t.Add(roots...); err != nil {
		panic(err)
	}

	return t
}

// Lookup returns the root command named name.
func (t *Tree) Lookup(name string) (*Node, bool) {
	n, ok := t.index[name]

	return n, ok
}

// Names returns the root command names in registration order.
func (t *Tree) Names() []string {
	names := make([]string, len(t.roots))
	for i, r := range t.roots {
		names[i] = r.name
	}

	return names
}

// Suggest returns up to three root command names resembling name, best
// match first.
func (t *Tree) Suggest(name string) []string {
	if name == "" {
		return nil
	}

	var out []string

	for _, m := range fuzzy.Find(name, t.Names()) {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}

	return out
}

// Resolve walks tok.Args through the tree and returns the call that would be
// run. The first argument selects a root command. Each further argument
// descends into the first child that matches it (literals before
// wildcards), capturing the argument if that child is a wildcard. When no
// child matches, the remaining arguments are appended verbatim to the
// captured ones.
//
// The node where the walk stops must have an action, and its validator must
// accept tok.Flags. A node without a validator accepts no flags.
func (t *Tree) Resolve(tok Tokens) (Call, error) {
	if len(tok.Args) == 0 {
		return Call{}, ErrCommandNotFound.With(slog.String("flags", tok.Flags.String()))
	}

	name := tok.Args[0]

	node, ok := t.index[name]
	if !ok {
		return Call{}, t.notFound(name)
	}

	var args []string

	rest := tok.Args[1:]
	for len(rest) > 0 {
		child := node.next(rest[0])
		if child == nil {
			break
		}

		if child.kind == Wildcard {
			args = append(args, rest[0])
		}

		node, rest = child, rest[1:]
	}

	args = append(args, rest...)

	flags, err := node.accept(tok.Flags)
	if err != nil {
		return Call{}, err
	}

	return Call{Flags: flags, Args: args, Node: node, Name: name}, nil
}

// Execute resolves tok and runs the resolved action once.
func (t *Tree) Execute(ctx context.Context, tok Tokens) error {
	call, err := t.Resolve(tok)
	if err != nil {
		return err
	}

	return call.Node.action(ctx, call)
}

// Dispatch tokenizes line and executes it. A blank line does nothing.
func (t *Tree) Dispatch(ctx context.Context, line string) error {
	tok, err := Tokenize(line)
	if err != nil {
		return err
	}

	if len(tok.Args) == 0 && len(tok.Flags) == 0 {
		return nil
	}

	return t.Execute(ctx, tok)
}

func (t *Tree) notFound(name string) error {
	err := ErrCommandNotFound.With(slog.String("command", name))

	if s := t.Suggest(name); len(s) > 0 {
		return err.Detail(name + " (did you mean " + strings.Join(s, ", ") + "?)").
			With(slog.Any("suggest", s))
	}

	return err.Detail(name)
}

// Usage returns one line per path through the subtree of the root command
// name that ends at a runnable node, for example "count <mark> <delta>".
// Flags are not included.
func (t *Tree) Usage(name string) []string {
	root, ok := t.index[name]
	if !ok {
		return nil
	}

	var lines []string

	var walk func(n *Node, path []string)
	walk = func(n *Node, path []string) {
		label := n.name
		if n.kind == Wildcard {
			label = "<" + n.name + ">"
		}

		path = append(slices.Clip(path), label)
		if n.action != nil {
			lines = append(lines, strings.Join(path, " "))
		}

		for _, c := range n.children {
			walk(c, path)
		}
	}
	walk(root, nil)

	return lines
}
