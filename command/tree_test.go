package command

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ardnew/cohort/pkg"
)

// recorder returns an action that stores its call under tag.
func recorder(calls map[string]Call, tag string) Action {
	return func(_ context.Context, c Call) error {
		calls[tag] = c

		return nil
	}
}

func newTestTree(calls map[string]Call) *Tree {
	help := NewFlags([]Flag{{"h", "help"}})

	return NewTree().MustAdd(
		NewLiteral("show").Executes(recorder(calls, "show")).WithFlags(help),
		NewLiteral("clear").
			Executes(recorder(calls, "clear")).
			WithFlags(NewFlags([]Flag{{"h", "help"}, {"f", "force"}})),
		NewLiteral("remove").
			Executes(recorder(calls, "remove")).
			Then(NewWildcard("value").Executes(recorder(calls, "remove <value>"))).
			WithFlags(compareFlags),
		NewLiteral("count").
			Then(
				NewWildcard("mark").
					Executes(recorder(calls, "count <mark>")).
					Then(NewWildcard("delta").Executes(recorder(calls, "count <mark> <delta>"))),
			).
			WithFlags(help),
		NewLiteral("pick").
			Then(
				NewWildcard("any").Executes(recorder(calls, "pick <any>")),
				NewLiteral("4").Executes(recorder(calls, "pick 4")),
			),
		NewLiteral("bare").Executes(recorder(calls, "bare")),
	)
}

func TestTreeDispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line  string
		tag   string
		args  []string
		flags []string
	}{
		{"show", "show", nil, nil},
		{"show --help", "show", nil, []string{"h"}},
		{"clear -f", "clear", nil, []string{"f"}},
		{"remove 10 --greater", "remove <value>", []string{"10"}, []string{"g"}},
		{"remove -l -s 7", "remove <value>", []string{"7"}, []string{"l", "s"}},
		{"remove -d", "remove", nil, []string{"d"}},
		{"remove 1 2 3", "remove <value>", []string{"1", "2", "3"}, nil},
		{"count 4", "count <mark>", []string{"4"}, nil},
		{"count 4 1", "count <mark> <delta>", []string{"4", "1"}, nil},
		{"count 4 1 9", "count <mark> <delta>", []string{"4", "1", "9"}, nil},
		{"pick 4", "pick 4", nil, nil},
		{"pick 5", "pick <any>", []string{"5"}, nil},
		{"pick -4x", "", nil, nil},
		{"bare extra", "bare", []string{"extra"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			calls := map[string]Call{}
			tree := newTestTree(calls)

			err := tree.Dispatch(t.Context(), tt.line)
			if tt.tag == "" {
				if err == nil {
					t.Fatalf("Dispatch(%q) succeeded, calls: %v", tt.line, calls)
				}

				return
			}

			if err != nil {
				t.Fatalf("Dispatch(%q) error: %v", tt.line, err)
			}

			if len(calls) != 1 {
				t.Fatalf("Dispatch(%q) ran %d actions, want 1", tt.line, len(calls))
			}

			c, ok := calls[tt.tag]
			if !ok {
				t.Fatalf("Dispatch(%q) ran %v, want %q", tt.line, calls, tt.tag)
			}

			if diff := cmp.Diff(tt.args, c.Args, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}

			if diff := cmp.Diff(NewFlagSet(tt.flags...), c.Flags); diff != "" {
				t.Errorf("flags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTreeDispatchErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		err  error
	}{
		{"bogus", ErrCommandNotFound},
		{"-h", ErrCommandNotFound},
		{"clear -f -x", ErrUnknownFlag},
		{"clear -f --force", ErrDuplicateFlag},
		{"clear -f -f", ErrDuplicateFlag},
		{"remove 1 -g -l", ErrIncompatibleFlags},
		{"count", ErrIncomplete},
		{"count -h", ErrIncomplete},
		{"bare -x", ErrNoFlags},
		{"pick", ErrIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			calls := map[string]Call{}

			err := newTestTree(calls).Dispatch(t.Context(), tt.line)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Dispatch(%q) error = %v, want %v", tt.line, err, tt.err)
			}

			if pkg.ClassOf(err) != pkg.ClassArgument {
				t.Errorf("class = %v, want argument", pkg.ClassOf(err))
			}

			if len(calls) != 0 {
				t.Errorf("actions ran despite error: %v", calls)
			}
		})
	}
}

func TestTreeBlankLine(t *testing.T) {
	t.Parallel()

	calls := map[string]Call{}
	if err := newTestTree(calls).Dispatch(t.Context(), "   "); err != nil || len(calls) != 0 {
		t.Errorf("blank line: err = %v, calls = %v", err, calls)
	}
}

func TestTreeActionError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tree := NewTree().MustAdd(NewLiteral("fail").Executes(
		func(context.Context, Call) error { return boom },
	))

	if err := tree.Dispatch(t.Context(), "fail"); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

func TestTreeAdd(t *testing.T) {
	t.Parallel()

	tree := NewTree()

	if err := tree.Add(NewLiteral("a"), NewLiteral("b")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := tree.Add(NewLiteral("c"), NewLiteral("a")); !errors.Is(err, ErrDuplicateCommand) {
		t.Errorf("duplicate root error = %v", err)
	}

	if err := tree.Add(NewLiteral("d"), NewLiteral("d")); !errors.Is(err, ErrDuplicateCommand) {
		t.Errorf("duplicate in one call error = %v", err)
	}

	if err := tree.Add(NewWildcard("x")); !errors.Is(err, ErrInvalidRoot) {
		t.Errorf("wildcard root error = %v", err)
	}

	if pkg.ClassOf(tree.Add(NewLiteral("a"))) != pkg.ClassBuild {
		t.Error("duplicate root is not a build error")
	}

	if diff := cmp.Diff([]string{"a", "b"}, tree.Names()); diff != "" {
		t.Errorf("failed Add changed the tree (-want +got):\n%s", diff)
	}
}

func TestTreeMustAddPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustAdd did not panic on duplicate root")
		}
	}()

	NewTree().MustAdd(NewLiteral("x"), NewLiteral("x"))
}

func TestNodeThenOrdersLiteralsFirst(t *testing.T) {
	t.Parallel()

	n := NewLiteral("root").Then(
		NewWildcard("w1"),
		NewLiteral("a"),
		NewWildcard("w2"),
		NewLiteral("b"),
	)

	var names []string
	for _, c := range n.Children() {
		names = append(names, c.Name())
	}

	if diff := cmp.Diff([]string{"a", "b", "w1", "w2"}, names); diff != "" {
		t.Errorf("children order (-want +got):\n%s", diff)
	}
}

func TestNodeWithFlagsPushesOnce(t *testing.T) {
	t.Parallel()

	flags := NewFlags([]Flag{{"f", "force"}})
	early := NewWildcard("early")
	late := NewWildcard("late")

	root := NewLiteral("cmd").Then(early).WithFlags(flags)
	early.Then(late)

	if root.Flags() != flags || early.Flags() != flags {
		t.Error("validator not pushed to existing children")
	}

	if late.Flags() != nil {
		t.Error("validator reached a child attached after declaration")
	}
}

func TestTreeSuggest(t *testing.T) {
	t.Parallel()

	tree := newTestTree(map[string]Call{})

	if s := tree.Suggest("shw"); !slices.Contains(s, "show") {
		t.Errorf("Suggest(shw) = %v, want show", s)
	}

	err := tree.Dispatch(t.Context(), "shw")
	if err == nil || err.Error() != "command not found: shw (did you mean show?)" {
		t.Errorf("error = %v", err)
	}
}

func TestTreeUsage(t *testing.T) {
	t.Parallel()

	got := newTestTree(map[string]Call{}).Usage("count")
	want := []string{"count <mark>", "count <mark> <delta>"}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Usage mismatch (-want +got):\n%s", diff)
	}
}
