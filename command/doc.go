// Package command resolves input lines to executable actions.
//
// A line is split by [Tokenize] into a [FlagSet] and positional arguments.
// The arguments are walked through a [Tree] of [Node] values: literal nodes
// match one exact token, wildcard nodes capture any single token. Literal
// children are always tried before wildcard children. The node where the
// walk stops validates the flag set with its [Flags] and runs its [Action].
//
//	tree := command.NewTree()
//	tree.MustAdd(
//		command.NewLiteral("remove").
//			Then(command.NewWildcard("value").Executes(remove)).
//			WithFlags(command.NewFlags(
//				[]command.Flag{{"l", "lower"}, {"g", "greater"}},
//				[]string{"l", "g"},
//			)),
//	)
//	err := tree.Dispatch(ctx, "remove 10 --greater")
package command
