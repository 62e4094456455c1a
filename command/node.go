package command

import (
	"context"
	"slices"
)

// Kind discriminates the two shapes of [Node].
type Kind uint8

const (
	// Literal nodes match exactly one fixed token.
	Literal Kind = iota
	// Wildcard nodes match any single token and capture it as an argument.
	Wildcard
)

// String returns "literal" or "wildcard".
func (k Kind) String() string {
	if k == Literal {
		return "literal"
	}

	return "wildcard"
}

// Call carries everything an [Action] receives for one input line.
type Call struct {
	// Flags holds the canonical short identifiers accepted by the validator.
	Flags FlagSet
	// Args holds the tokens captured by wildcard nodes followed by any
	// tokens left over when no child matched, all verbatim.
	Args []string
	// Node is the node whose action runs.
	Node *Node
	// Name is the root command name.
	Name string
}

// Has reports whether the flag with canonical identifier id was given.
func (c Call) Has(id string) bool { return c.Flags.Has(id) }

// Action executes a resolved command.
type Action func(ctx context.Context, call Call) error

// Node is one element of a dispatch tree.
//
// Nodes are assembled once with [NewLiteral], [NewWildcard], [Node.Then],
// [Node.Executes] and [Node.WithFlags], and are read-only afterwards.
type Node struct {
	action   Action
	flags    *Flags
	name     string
	children []*Node
	kind     Kind
}

// NewLiteral returns a node matching only token.
func NewLiteral(token string) *Node {
	return &Node{kind: Literal, name: token}
}

// NewWildcard returns a node capturing any token. The name only appears in
// usage text.
func NewWildcard(name string) *Node {
	return &Node{kind: Wildcard, name: name}
}

// Kind returns the shape of n.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the literal token or the wildcard's display name.
func (n *Node) Name() string { return n.name }

// Children returns the children of n in match order.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Flags returns the validator of n, or nil if n accepts no flags.
func (n *Node) Flags() *Flags { return n.flags }

// Runnable reports whether n has an action.
func (n *Node) Runnable() bool { return n.action != nil }

// Then attaches children to n. Literal children are placed after existing
// literal children and ahead of every wildcard child, so a branch tries
// literal matches before wildcard capture. Wildcard children are appended.
func (n *Node) Then(children ...*Node) *Node {
	for _, c := range children {
		if c.kind == Wildcard {
			n.children = append(n.children, c)

			continue
		}

		i := slices.IndexFunc(n.children, func(x *Node) bool {
			return x.kind == Wildcard
		})
		if i < 0 {
			i = len(n.children)
		}

		n.children = slices.Insert(n.children, i, c)
	}

	return n
}

// Executes sets the action run when the walk stops at n.
func (n *Node) Executes(action Action) *Node {
	n.action = action

	return n
}

// WithFlags sets the validator of n and of every descendant attached so far.
// Children attached later do not inherit it, so declare flags after the
// subtree is complete.
func (n *Node) WithFlags(flags *Flags) *Node {
	n.flags = flags

	for _, c := range n.children {
		c.WithFlags(flags)
	}

	return n
}

func (n *Node) match(tok string) bool {
	return n.kind == Wildcard || n.name == tok
}

// next returns the first child matching tok, or nil.
func (n *Node) next(tok string) *Node {
	for _, c := range n.children {
		if c.match(tok) {
			return c
		}
	}

	return nil
}

// accept checks that n can run with raw flags and returns the canonical set.
func (n *Node) accept(raw FlagSet) (FlagSet, error) {
	if n.action == nil {
		return nil, ErrIncomplete
	}

	if n.flags != nil {
		return n.flags.Validate(raw)
	}

	if len(raw) > 0 {
		return nil, ErrNoFlags.Detail(raw.String())
	}

	return FlagSet{}, nil
}
