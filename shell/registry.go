package shell

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/cohort/command"
)

// option documents one flag of a command.
type option struct {
	command.Flag

	help string
}

// entry describes one root command: its documentation, its flags, the
// wildcard arguments it accepts and the function running it.
type entry struct {
	run       func(s *Session, ctx context.Context, call command.Call) error
	name      string
	summary   string
	about     string
	args      []string
	options   []option
	conflicts [][]string
}

var helpOption = option{command.Flag{Short: "h", Long: "help"}, "Show this menu"}

var (
	compareOptions = []option{
		helpOption,
		{command.Flag{Short: "l", Long: "lower"}, "Select values lower than the argument"},
		{command.Flag{Short: "g", Long: "greater"}, "Select values greater than the argument"},
		{command.Flag{Short: "s", Long: "students"}, "Compare the students count"},
		{command.Flag{Short: "e", Long: "expelled"}, "Compare the expelled students count"},
		{command.Flag{Short: "a", Long: "avg-mark"}, "Compare the average mark"},
	}
	comparisonModes = []string{"g", "l"}
	comparisonAttrs = []string{"s", "e", "a"}
)

func commands() []*entry {
	return []*entry{
		{
			name:    "help",
			summary: "List all commands (use -h with any command for details)",
			about:   "Shows the list of all commands",
			options: []option{helpOption},
			run:     (*Session).help,
		},
		{
			name:    "info",
			summary: "Show information about the collection",
			about:   "Outputs the creation time, size, element type and storage of the collection",
			options: []option{helpOption},
			run:     (*Session).info,
		},
		{
			name:    "show",
			summary: "Output every element of the collection",
			about:   "Shows the elements of the collection ordered by id",
			options: []option{helpOption},
			run:     (*Session).show,
		},
		{
			name:    "insert",
			summary: "Insert a new element",
			about:   "Reads the fields of a new group and adds it to the collection",
			options: []option{
				helpOption,
				{command.Flag{Short: "r", Long: "random"}, "Generate the group instead of reading it"},
			},
			run: (*Session).insert,
		},
		{
			name:    "update",
			summary: "Update the element with the given id",
			about:   "Reads new fields for the group with the given id, keeping its id",
			args:    []string{"id"},
			options: []option{helpOption},
			run:     (*Session).update,
		},
		{
			name:    "remove",
			summary: "Remove elements matching a value",
			about:   "Removes every group whose attribute compares to the value (default: id equal to value)",
			args:    []string{"value"},
			options: append(
				compareOptions,
				option{command.Flag{Short: "d", Long: "admin"}, "Read an admin and remove one group administered by them"},
			),
			conflicts: [][]string{comparisonModes, append(comparisonAttrs, "d")},
			run:       (*Session).remove,
		},
		{
			name:    "clear",
			summary: "Clear the collection",
			about:   "Removes every element of the collection",
			options: []option{
				helpOption,
				{command.Flag{Short: "f", Long: "force"}, "Skip the confirmation"},
			},
			run: (*Session).clear,
		},
		{
			name:    "save",
			summary: "Save the collection",
			about:   "Writes the whole collection to its storage",
			options: []option{helpOption},
			run:     (*Session).save,
		},
		{
			name:    "execute",
			summary: "Execute the script in the given file",
			about:   "Runs every line of a script file as a command",
			args:    []string{"file"},
			options: []option{helpOption},
			run:     (*Session).execute,
		},
		{
			name:    "exit",
			summary: "Stop the program",
			about:   "Stops the interpreter",
			options: []option{
				helpOption,
				{command.Flag{Short: "s", Long: "save"}, "Save the collection first and stay if saving fails"},
				{command.Flag{Short: "f", Long: "force"}, "Skip the confirmation and ignore save failures"},
			},
			run: (*Session).exit,
		},
		{
			name:      "replace",
			summary:   "Replace the element with the given id if a condition holds",
			about:     "Reads a new group and puts it in place of the group with the given id if its attribute compares to the id (default: equal)",
			args:      []string{"id"},
			options:   compareOptions,
			conflicts: [][]string{comparisonModes, comparisonAttrs},
			run:       (*Session).replace,
		},
		{
			name:    "count",
			summary: "Count elements with the given average mark",
			about:   "Counts the groups whose average mark equals mark, or is within delta of it",
			args:    []string{"mark", "delta"},
			options: []option{helpOption},
			run:     (*Session).count,
		},
		{
			name:    "filter",
			summary: "Output elements whose name matches a pattern",
			about:   "Shows the groups whose name contains the pattern",
			args:    []string{"pattern"},
			options: []option{
				helpOption,
				{command.Flag{Short: "r", Long: "regex"}, "Interpret the pattern as a regular expression"},
				{command.Flag{Short: "x", Long: "expr"}, "Interpret the pattern as a boolean expression over group fields"},
			},
			conflicts: [][]string{{"r", "x"}},
			run:       (*Session).filter,
		},
		{
			name:    "getenv",
			summary: "Output the collection path environment variable",
			about:   "Shows the value of the environment variable naming the collection file",
			options: []option{helpOption},
			run:     (*Session).getenv,
		},
		{
			name:    "fill",
			summary: "Insert random elements",
			about:   "Adds n generated groups to the collection (default 1)",
			args:    []string{"n"},
			options: []option{helpOption},
			run:     (*Session).fill,
		},
	}
}

// register builds the dispatch tree. Each wildcard argument is optional:
// the command node and every wildcard below it run the same action, which
// checks its own arity.
func (s *Session) register() {
	s.commands = commands()
	s.tree = command.NewTree()

	for _, e := range s.commands {
		action := s.action(e)

		root := command.NewLiteral(e.name).Executes(action)

		parent := root
		for _, arg := range e.args {
			child := command.NewWildcard(arg).Executes(action)
			parent.Then(child)
			parent = child
		}

		declared := make([]command.Flag, len(e.options))
		for i, o := range e.options {
			declared[i] = o.Flag
		}

		root.WithFlags(command.NewFlags(declared, e.conflicts...))

		s.tree.MustAdd(root)
	}
}

// action wraps e.run so that -h prints the syntax block instead.
func (s *Session) action(e *entry) command.Action {
	return func(ctx context.Context, call command.Call) error {
		if call.Has("h") {
			s.usage(e)

			return nil
		}

		return e.run(s, ctx, call)
	}
}

func (s *Session) usage(e *entry) {
	s.out.WriteLine("Syntax:")

	for _, u := range s.tree.Usage(e.name) {
		s.out.WriteLine("> " + u)
	}

	s.out.WriteLine(e.about)
	s.out.WriteLine("PARAMS:")

	width := 0
	for _, o := range e.options {
		width = max(width, len(o.Long))
	}

	for _, o := range e.options {
		s.out.WriteLine(fmt.Sprintf("  -%s / --%-*s  %s", o.Short, width, o.Long, o.help))
	}
}

func (s *Session) help(_ context.Context, call command.Call) error {
	if err := arity(call, 0, 0); err != nil {
		return err
	}

	s.out.WriteLine("List of all commands:")

	rows := make([][2]string, len(s.commands))
	width := 0

	for i, e := range s.commands {
		syntax := e.name
		for _, a := range e.args {
			syntax += " [<" + a + ">]"
		}

		rows[i] = [2]string{syntax, e.summary}
		width = max(width, len(syntax))
	}

	for _, r := range rows {
		s.out.WriteLine(fmt.Sprintf("  %-*s  %s", width, r[0], strings.TrimSpace(r[1])))
	}

	return nil
}
