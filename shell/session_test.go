package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/cohort/collection"
	"github.com/ardnew/cohort/console"
	"github.com/ardnew/cohort/log"
)

var epoch = time.Date(2024, time.February, 1, 9, 30, 0, 0, time.UTC)

type memStorage struct {
	snap    collection.Snapshot
	saveErr error
	saves   int
}

func (m *memStorage) Load(context.Context) (collection.Snapshot, error) { return m.snap, nil }

func (m *memStorage) Save(_ context.Context, snap collection.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}

	m.snap = snap
	m.saves++

	return nil
}

func (*memStorage) Location() string { return "memory" }

func newStore(storage collection.Storage, groups ...collection.Group) *collection.Store {
	opts := []collection.StoreOption{collection.WithClock(func() time.Time { return epoch })}
	if storage != nil {
		opts = append(opts, collection.WithStorage(storage))
	}

	s := collection.NewStore(opts...)
	for _, g := range groups {
		if err := s.Add(g); err != nil {
			panic(err)
		}
	}

	return s
}

func fixture(id int32, name string, students int64, mark float64) collection.Group {
	g := collection.Random(rand.New(rand.NewPCG(uint64(id), 7)), id, epoch)
	g.Name, g.StudentsCount, g.AverageMark = name, students, mark

	return g
}

func fixtures() []collection.Group {
	return []collection.Group{
		fixture(1, "P3110", 12, 4.5),
		fixture(2, "P3111", 8, 3),
		fixture(3, "M3200", 25, 4.75),
	}
}

// groupInput answers every field prompt of a group named name.
func groupInput(name string) string {
	return strings.Join([]string{
		name, "10", "5", "25", "2", "4.5", "THIRD", adminInput,
	}, "\n") + "\n"
}

const adminInput = "Alice\n170.5\nGREEN\nBLACK\nCHINA\n1\n2.5\n3"

type harness struct {
	env   map[string]string
	store *collection.Store
}

func (h harness) run(t *testing.T, input string) (*Session, string) {
	t.Helper()

	var out bytes.Buffer

	s := New(
		h.store,
		WithInput(console.NewReader(strings.NewReader(input))),
		WithOutput(console.NewWriter(&out)),
		WithLogger(log.Make(nil)),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithLookupEnv(func(key string) (string, bool) {
			v, ok := h.env[key]

			return v, ok
		}),
	)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	return s, out.String()
}

func TestRunEndOfInput(t *testing.T) {
	t.Parallel()

	s, out := harness{store: newStore(nil)}.run(t, "show\n")

	if want := "$ Collection is empty\n$ "; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if s.Running() {
		t.Error("session still running after end of input")
	}
}

// stepInput returns its lines in order, with an empty entry read as [io.EOF].
// Reading past the end also yields [io.EOF], the way an interactive
// terminal reports each Ctrl-D and keeps reading.
type stepInput []string

func (l *stepInput) ReadLine(context.Context) (string, error) {
	if len(*l) == 0 {
		return "", io.EOF
	}

	line := (*l)[0]
	*l = (*l)[1:]

	if line == "" {
		return "", io.EOF
	}

	return line, nil
}

func (*stepInput) Close() error { return nil }

func TestRunInputClosedDuringPrompt(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	store := newStore(nil, fixtures()...)
	in := stepInput{"insert", "", "fill 5"}

	s := New(store,
		WithInput(&in),
		WithOutput(console.NewWriter(&out)),
		WithLogger(log.Make(nil)),
	)

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if store.Len() != 3 {
		t.Errorf("store has %d elements, want 3", store.Len())
	}

	if len(in) != 1 || strings.Contains(out.String(), "Inserted") {
		t.Errorf("session kept reading after input closed:\n%s", out.String())
	}

	if !strings.Contains(out.String(), "input ended") {
		t.Errorf("output missing closed input error:\n%s", out.String())
	}
}

func TestRunAlreadyRunning(t *testing.T) {
	t.Parallel()

	s := New(newStore(nil), WithInput(console.NewReader(strings.NewReader(""))))
	s.Start()

	if err := s.Run(context.Background()); !errors.Is(err, ErrRunning) {
		t.Errorf("Run() error = %v, want %v", err, ErrRunning)
	}
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(
		newStore(nil),
		WithInput(console.NewReader(strings.NewReader("show\n"))),
		WithOutput(console.NewWriter(nil)),
	)

	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}

func TestErrorsDoNotStopLoop(t *testing.T) {
	t.Parallel()

	_, out := harness{store: newStore(nil)}.run(t, "bogus\nclear -f -x\nshow extra\nupdate\ninfo\n")

	for _, want := range []string{
		"error: command not found: bogus",
		"error: unknown parameter option",
		"error: too many arguments",
		"error: argument wasn't provided",
		"Collection statistics:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "Clearing the collection") {
		t.Error("clear ran despite an unknown flag")
	}
}

func TestExitStopsLoop(t *testing.T) {
	t.Parallel()

	h := harness{store: newStore(nil)}
	s, out := h.run(t, "fill 2\nexit -f\nfill 1\n")

	if !strings.Contains(out, "Stopping") {
		t.Errorf("output missing Stopping:\n%s", out)
	}

	if s.Running() {
		t.Error("session running after exit")
	}

	if got := h.store.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestExitConfirmation(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	h := harness{store: newStore(storage)}

	_, out := h.run(t, "fill\nexit\nno\ninfo\nexit -s\nshow\n")

	if !strings.Contains(out, "Operation aborted") {
		t.Errorf("unconfirmed exit not aborted:\n%s", out)
	}

	if !strings.Contains(out, "Collection statistics:") {
		t.Errorf("loop stopped after aborted exit:\n%s", out)
	}

	if strings.Contains(out, "Collection elements:") {
		t.Errorf("loop continued after exit -s:\n%s", out)
	}

	if storage.saves != 1 || len(storage.snap.Groups) != 1 {
		t.Errorf("saves = %d, groups = %d, want 1 and 1", storage.saves, len(storage.snap.Groups))
	}
}

func TestExitCleanSkipsConfirmation(t *testing.T) {
	t.Parallel()

	_, out := harness{store: newStore(nil)}.run(t, "exit\nshow\n")

	if strings.Contains(out, "Are you sure") || strings.Contains(out, "Collection is empty") {
		t.Errorf("clean exit asked or continued:\n%s", out)
	}
}

func TestExitSaveFailure(t *testing.T) {
	t.Parallel()

	storage := &memStorage{saveErr: errors.New("disk full")}

	s, out := harness{store: newStore(storage)}.run(t, "fill\nexit -s\ninfo\n")
	if !strings.Contains(out, "Operation aborted") || !strings.Contains(out, "disk full") {
		t.Errorf("failed save did not abort exit:\n%s", out)
	}

	if !strings.Contains(out, "Collection statistics:") {
		t.Errorf("loop stopped after failed save:\n%s", out)
	}

	s, out = harness{store: newStore(storage)}.run(t, "fill\nexit -s -f\ninfo\n")
	if s.Running() || strings.Contains(out, "Collection statistics:") {
		t.Errorf("forced exit did not stop:\n%s", out)
	}
}

func TestInsertInteractive(t *testing.T) {
	t.Parallel()

	h := harness{store: newStore(nil)}
	_, out := h.run(t, "insert\n"+groupInput("P3333")+"\n")

	if !strings.Contains(out, "Input group name (String): ") ||
		!strings.Contains(out, "Input average mark (Double): ") ||
		!strings.Contains(out, "Input admin eye color (Variants: GREEN/YELLOW/WHITE): ") {
		t.Errorf("missing field prompts:\n%s", out)
	}

	g, ok := h.store.Get(1)
	if !ok {
		t.Fatalf("group not inserted:\n%s", out)
	}

	want := collection.Group{
		ID:               1,
		Name:             "P3333",
		Coordinates:      collection.Coordinates{X: 10, Y: 5},
		CreatedAt:        epoch,
		StudentsCount:    25,
		ExpelledStudents: 2,
		AverageMark:      4.5,
		Semester:         collection.SemesterOf(collection.SemesterThird),
		Admin: collection.Person{
			Name:        "Alice",
			Height:      170.5,
			EyeColor:    collection.ColorGreen,
			HairColor:   collection.ColorBlack,
			Nationality: collection.CountryChina,
			Location:    collection.Location{X: 1, Y: 2.5, Z: 3},
		},
	}

	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("group mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertRetryUntilConfirmed(t *testing.T) {
	t.Parallel()

	h := harness{store: newStore(nil)}
	h.run(t, "insert\n"+groupInput("FIRST")+"no\n"+groupInput("SECOND")+"\n")

	g, ok := h.store.Get(1)
	if !ok || g.Name != "SECOND" {
		t.Errorf("Get(1) = %v, %v; want group SECOND", g.Name, ok)
	}

	if h.store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.store.Len())
	}
}

func TestInsertFieldErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"null_name", "insert\n\n", "value can't be null: group name"},
		{"bad_number", "insert\nP1\nten\n", "incorrect input format"},
		{"bad_enum", "insert\n" + strings.Replace(groupInput("P1"), "GREEN", "BLUE", 1), "incorrect value for admin eye color"},
		{"constraint", "insert\nP1\n1\n-300\n", "coordinate y must be greater than -266"},
		{"input_ended", "insert\nP1\n", "input ended"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := harness{store: newStore(nil)}
			_, out := h.run(t, tt.input)

			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}

			if h.store.Len() != 0 {
				t.Errorf("Len() = %d after failed insert", h.store.Len())
			}
		})
	}
}

func TestInsertRandom(t *testing.T) {
	t.Parallel()

	h := harness{store: newStore(nil)}
	_, out := h.run(t, "insert -r\ninsert --random\nfill 3\nfill 0\n")

	if got := h.store.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}

	if !strings.Contains(out, "count must be greater than 0") {
		t.Errorf("fill 0 accepted:\n%s", out)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	h := harness{store: newStore(nil, fixtures()...)}
	_, out := h.run(t, "update 2\n"+groupInput("RENAMED")+"\nupdate 9\nupdate two\n")

	g, _ := h.store.Get(2)
	if g.Name != "RENAMED" || g.ID != 2 || !g.CreatedAt.Equal(epoch) {
		t.Errorf("updated group = %v", g)
	}

	for _, want := range []string{
		"Element updated",
		"collection doesn't have element with such id: 9",
		"incorrect value type",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	_, out = harness{store: newStore(nil, fixtures()...)}.run(t, "count NaN\ncount 4.50\n")
	if want := "Count: 0\n$ Count: 1\n"; !strings.Contains(out, want) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		want    string
		wantIDs []int32
	}{
		{"remove 2", "Removed 1 element(s)", []int32{1, 3}},
		{"remove 1 --greater", "Removed 2 element(s)", []int32{1}},
		{"remove -s -l 12", "Removed 1 element(s)", []int32{1, 3}},
		{"remove --avg-mark -g 4.5", "Removed 1 element(s)", []int32{1, 2}},
		{"remove -e 0 -g", "Removed 3 element(s)", nil},
		{"remove 2.5", "incorrect value type", []int32{1, 2, 3}},
		{"remove -g -l 1", "incompatible parameters met", []int32{1, 2, 3}},
		{"remove -g --greater 1", "duplicate parameters met", []int32{1, 2, 3}},
		{"remove -d 1", "too many arguments", []int32{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			h := harness{store: newStore(nil, fixtures()...)}
			_, out := h.run(t, tt.line+"\n")

			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}

			var ids []int32
			for _, g := range h.store.All() {
				ids = append(ids, g.ID)
			}

			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("remaining ids (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRemoveByAdmin(t *testing.T) {
	t.Parallel()

	h := harness{store: newStore(nil, fixtures()...)}
	_, out := h.run(t,
		"insert\n"+groupInput("ADMINISTERED")+"\n"+
			"remove -d\n"+adminInput+"\n"+
			"remove --admin\n"+adminInput+"\n")

	if !strings.Contains(out, "Successfully removed element") ||
		!strings.Contains(out, "Unable to find element with matching group admin") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if h.store.Has(4) || h.store.Len() != 3 {
		t.Errorf("Len() = %d, Has(4) = %v", h.store.Len(), h.store.Has(4))
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	h := harness{store: newStore(nil, fixtures()...)}
	_, out := h.run(t,
		"replace 1 -s -g\n"+groupInput("REPLACED")+
			"replace 2 --students --lower\n"+groupInput("IGNORED")+
			"replace 7\n")

	if g, _ := h.store.Get(1); g.Name != "REPLACED" {
		t.Errorf("group 1 name = %q, want REPLACED", g.Name)
	}

	if g, _ := h.store.Get(2); g.Name != "P3111" {
		t.Errorf("group 2 name = %q, want P3111", g.Name)
	}

	for _, want := range []string{
		"Element updated",
		"Element wasn't updated",
		"collection doesn't have element with such id: 7",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	h := harness{store: newStore(nil, fixtures()...)}
	_, out := h.run(t, "clear\nkeep\n")

	if !strings.Contains(out, "Operation aborted") || h.store.Len() != 3 {
		t.Errorf("declined clear changed the store:\n%s", out)
	}

	h.run(t, "clear\n\n")

	if h.store.Len() != 0 {
		t.Errorf("Len() = %d after confirmed clear", h.store.Len())
	}
}

func TestSave(t *testing.T) {
	t.Parallel()

	storage := &memStorage{}
	h := harness{store: newStore(storage, fixtures()...)}
	_, out := h.run(t, "save\ninfo\n")

	if storage.saves != 1 || len(storage.snap.Groups) != 3 {
		t.Errorf("saves = %d, groups = %d", storage.saves, len(storage.snap.Groups))
	}

	if !strings.Contains(out, "Unsaved:   no") || !strings.Contains(out, "Storage:   memory") {
		t.Errorf("info after save:\n%s", out)
	}

	_, out = harness{store: newStore(nil)}.run(t, "save\n")
	if !strings.Contains(out, "no storage configured") {
		t.Errorf("save without storage:\n%s", out)
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	_, out := harness{store: newStore(nil, fixtures()...)}.run(t,
		"count 4.5\ncount 4.5 0.25\ncount 1\ncount\ncount x\n")

	for _, want := range []string{
		"Count: 1\n",
		"Count: 2\n",
		"Count: 0\n",
		"argument wasn't provided",
		"incorrect value type",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want int
		err  string
	}{
		{"filter P31", 2, ""},
		{"filter -r ^M", 1, ""},
		{"filter --regex 3(1|2)", 3, ""},
		{"filter -x students > 10 && avgMark >= 4.5", 2, ""},
		{"filter --expr name startsWith \"M\"", 1, ""},
		{"filter nothing", 0, ""},
		{"filter -r (", 0, "invalid regular expression"},
		{"filter -x students +", 0, "invalid filter expression"},
		{"filter -x name", 0, "invalid filter expression"},
		{"filter -x int(name) > 0", 0, "invalid filter expression"},
		{"filter -r -x P", 0, "incompatible parameters met"},
		{"filter a b", 0, "too many arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			_, out := harness{store: newStore(nil, fixtures()...)}.run(t, tt.line+"\n")

			if got := strings.Count(out, "Group{"); got != tt.want {
				t.Errorf("matched %d groups, want %d:\n%s", got, tt.want, out)
			}

			if tt.err != "" && !strings.Contains(out, tt.err) {
				t.Errorf("output missing %q:\n%s", tt.err, out)
			}

			if tt.err != "" && strings.Contains(out, "Filtering results") {
				t.Errorf("failed filter printed results:\n%s", out)
			}
		})
	}
}

func TestGetenv(t *testing.T) {
	t.Parallel()

	_, out := harness{store: newStore(nil)}.run(t, "getenv\n")
	if want := "Environment variable '" + EnvCollectionPath + "' is not set"; !strings.Contains(out, want) {
		t.Errorf("output missing %q:\n%s", want, out)
	}

	h := harness{store: newStore(nil), env: map[string]string{EnvCollectionPath: "groups.yaml"}}

	_, out = h.run(t, "getenv\n")
	if want := "value: 'groups.yaml'"; !strings.Contains(out, want) {
		t.Errorf("output missing %q:\n%s", want, out)
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()

	_, out := harness{store: newStore(nil)}.run(t, "help\ncount -h\nremove --help 3\n")

	for _, want := range []string{
		"List of all commands:",
		"count [<mark>] [<delta>]",
		"> count <mark>\n",
		"> count <mark> <delta>\n",
		"-h / --help",
		"-d / --admin",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if strings.Contains(out, "Removed") {
		t.Errorf("remove ran with -h:\n%s", out)
	}
}

func TestComplete(t *testing.T) {
	t.Parallel()

	s := New(newStore(nil), WithOutput(console.NewWriter(nil)))

	names := s.Complete(nil)
	if len(names) != 15 || names[0] != "help" {
		t.Errorf("Complete(nil) = %v", names)
	}

	want := []string{"--help", "--regex", "--expr"}
	if diff := cmp.Diff(want, s.Complete([]string{"filter"})); diff != "" {
		t.Errorf("Complete(filter) mismatch (-want +got):\n%s", diff)
	}

	if got := s.Complete([]string{"bogus"}); got != nil {
		t.Errorf("Complete(bogus) = %v, want nil", got)
	}
}

func writeScript(t *testing.T, path string, lines ...string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestExecute(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	main := filepath.Join(dir, "main.txt")
	nested := filepath.Join(dir, "nested.txt")

	writeScript(t, main,
		"fill 2",
		"bogus",
		"execute nested.txt",
		"insert",
		strings.TrimSuffix(groupInput("SCRIPTED"), "\n"),
		"",
		"count 4.5",
	)
	writeScript(t, nested, "remove 1")

	h := harness{store: newStore(nil)}
	_, out := h.run(t, "execute "+main+"\nshow\n")

	if !strings.Contains(out, "command not found: bogus") {
		t.Errorf("script error not reported:\n%s", out)
	}

	if strings.Contains(out, "Input group name") {
		t.Errorf("field prompts printed while running a script:\n%s", out)
	}

	var names []string
	for _, g := range h.store.All() {
		names = append(names, g.Name)
	}

	if len(names) != 2 || names[1] != "SCRIPTED" || h.store.Has(1) {
		t.Errorf("groups after script = %v", names)
	}

	if !strings.Contains(out, "Collection elements:") {
		t.Errorf("loop did not continue after script:\n%s", out)
	}
}

func TestExecuteErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	writeScript(t, a, "execute "+b)
	writeScript(t, b, "execute "+a, "fill")

	h := harness{store: newStore(nil)}
	_, out := h.run(t, "execute "+a+"\nexecute "+filepath.Join(dir, "missing.txt")+"\nexecute\n")

	for _, want := range []string{
		"script is already executing: " + a,
		"script not found",
		"argument wasn't provided",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if h.store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", h.store.Len())
	}
}

func TestExecuteDepth(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := func(i int) string { return filepath.Join(dir, fmt.Sprintf("s%02d.txt", i)) }

	for i := range MaxScriptDepth + 1 {
		writeScript(t, path(i), "fill", "execute "+path(i+1))
	}

	h := harness{store: newStore(nil)}
	_, out := h.run(t, "execute "+path(0)+"\n")

	if !strings.Contains(out, "script nesting too deep") {
		t.Errorf("depth limit not reported:\n%s", out)
	}

	if got := h.store.Len(); got != MaxScriptDepth {
		t.Errorf("Len() = %d, want %d", got, MaxScriptDepth)
	}
}

func TestExecuteExit(t *testing.T) {
	t.Parallel()

	script := filepath.Join(t.TempDir(), "exit.txt")
	writeScript(t, script, "exit -f", "fill")

	h := harness{store: newStore(nil)}
	s, _ := h.run(t, "execute "+script+"\nfill\n")

	if s.Running() || h.store.Len() != 0 {
		t.Errorf("running = %v, Len() = %d after exit in script", s.Running(), h.store.Len())
	}
}
