package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/term"

	"github.com/ardnew/cohort/collection"
	"github.com/ardnew/cohort/console"
	"github.com/ardnew/cohort/log"
	"github.com/ardnew/cohort/shell"
	"github.com/ardnew/cohort/snapshot"
)

// Run starts an interpreter session over the collection file named by the
// COHORT_PATH environment variable.
type Run struct{}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	stdio := streams{in: os.Stdin, out: os.Stdout}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		stdio.history = filepath.Join(vars(ctx)[CacheIdentifier], console.HistoryFile)
		stdio.tty = true
	}

	return serve(ctx, os.Getenv(shell.EnvCollectionPath), stdio)
}

// streams describes the process's standard input and output.
type streams struct {
	in      io.Reader
	out     io.Writer
	history string // history file; only used with tty
	tty     bool
}

// serve opens the collection at path and runs a session on stdio until the
// input ends or the session exits. Failures to open or load the collection
// are reported on the output and leave the collection empty.
func serve(ctx context.Context, path string, stdio streams) error {
	var (
		in      console.Input
		out     console.Output
		session *shell.Session
	)

	if stdio.tty {
		hist := console.NewHistory(stdio.history)
		if err := hist.Load(); err != nil {
			log.WarnContext(ctx, "history unavailable",
				slog.String("path", hist.Path()),
				slog.Any("error", err),
			)
		}

		t := console.NewTerminal(stdio.in, stdio.out,
			console.WithHistory(hist),
			console.WithCompleter(func(fields []string) []string {
				return session.Complete(fields)
			}),
			console.WithLogger(log.Default()),
		)
		in, out = t, t
	} else {
		in, out = console.NewReader(stdio.in), console.NewWriter(stdio.out)
	}

	session = shell.New(open(ctx, path, out),
		shell.WithInput(in),
		shell.WithOutput(out),
		shell.WithLogger(log.Default()),
	)

	return session.Run(ctx)
}

// open returns a store backed by the snapshot file at path and loaded from
// it. Without a usable path the store has no storage.
func open(ctx context.Context, path string, out console.Output) *collection.Store {
	if path == "" {
		log.WarnContext(ctx, "collection is not persisted",
			slog.String("variable", shell.EnvCollectionPath),
		)

		return collection.NewStore()
	}

	storage, err := snapshot.Open(path)
	if err != nil {
		out.Error(err)

		return collection.NewStore()
	}

	store := collection.NewStore(collection.WithStorage(storage))

	skipped, err := store.Load(ctx)
	if err != nil {
		out.Error(err)

		return store
	}

	if skipped > 0 {
		out.WriteLine("Skipped " + strconv.Itoa(skipped) + " invalid element(s) in " + path)
	}

	log.DebugContext(ctx, "collection loaded",
		slog.String("path", path),
		slog.Int("elements", store.Len()),
		slog.Int("skipped", skipped),
	)

	return store
}
