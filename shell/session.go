package shell

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/ardnew/cohort/collection"
	"github.com/ardnew/cohort/command"
	"github.com/ardnew/cohort/console"
	"github.com/ardnew/cohort/log"
)

// Prompt is printed before every command line read interactively.
const Prompt = "$ "

// MaxScriptDepth bounds how many scripts may be executing at once.
const MaxScriptDepth = 16

// Session is one run of the interpreter over a collection store.
type Session struct {
	tree     *command.Tree
	store    *collection.Store
	in       console.Input
	out      console.Output
	logger   log.Logger
	rand     *rand.Rand
	lookup   func(string) (string, bool)
	commands []*entry
	scripts  []string
	running  bool
	asking   bool
}

// Option configures a [Session].
type Option func(*Session)

// WithInput sets the source of command lines. The default reads standard
// input.
func WithInput(in console.Input) Option {
	return func(s *Session) { s.in = in }
}

// WithOutput sets where results are printed. The default writes standard
// output.
func WithOutput(out console.Output) Option {
	return func(s *Session) { s.out = out }
}

// WithLogger sets the session logger.
func WithLogger(l log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithRand sets the source used to generate random groups.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rand = r }
}

// WithLookupEnv sets the environment lookup used by getenv and execute.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(s *Session) { s.lookup = lookup }
}

// New returns a stopped session over store with every command registered.
func New(store *collection.Store, opts ...Option) *Session {
	s := &Session{
		store:  store,
		in:     console.NewReader(os.Stdin),
		out:    console.NewWriter(os.Stdout),
		logger: log.Default(),
		rand:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		lookup: os.LookupEnv,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.register()

	return s
}

// Tree returns the dispatch tree of the session.
func (s *Session) Tree() *command.Tree { return s.tree }

// Store returns the collection the session operates on.
func (s *Session) Store() *collection.Store { return s.store }

// Running reports whether the read loop is active.
func (s *Session) Running() bool { return s.running }

// Start marks the session running. It reports false if it already was.
func (s *Session) Start() bool {
	if s.running {
		return false
	}

	s.running = true

	return true
}

// Stop ends the read loop after the current line.
func (s *Session) Stop() { s.running = false }

// Run reads and executes lines until the input ends, the session is
// stopped, or ctx is done. Errors from individual lines are reported on the
// output and do not end the loop.
func (s *Session) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if !s.Start() {
		return ErrRunning
	}

	defer s.Stop()

	s.logger.DebugContext(ctx, "session start",
		slog.Int("elements", s.store.Len()),
		slog.String("storage", s.store.Location()),
	)

	for s.Running() {
		s.out.Prompt(Prompt)

		line, err := s.in.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			s.logger.DebugContext(ctx, "session end of input")

			return nil
		}

		if err != nil {
			return err
		}

		if r, ok := s.in.(console.Recorder); ok && strings.TrimSpace(line) != "" {
			if err := r.Remember(line); err != nil {
				s.logger.WarnContext(ctx, "history", slog.Any("error", err))
			}
		}

		if err := s.Execute(ctx, line); errors.Is(err, ErrInputClosed) && len(s.scripts) == 0 {
			s.logger.DebugContext(ctx, "session input closed during prompt")

			return nil
		}
	}

	s.logger.DebugContext(ctx, "session stopped")

	return nil
}

// Execute dispatches one line. A failure is logged, printed on the output
// and returned.
func (s *Session) Execute(ctx context.Context, line string) error {
	s.logger.TraceContext(ctx, "dispatch", slog.String("line", line))

	err := s.tree.Dispatch(ctx, line)
	if err != nil {
		s.logger.DebugContext(ctx, "command failed",
			slog.String("line", line),
			slog.Any("error", err),
		)
		s.out.Error(err)
	}

	return err
}

// Complete offers command names for the first word of a line and long flag
// names of the command for later words. Nothing is offered while a command
// is asking for field values or a script is running.
func (s *Session) Complete(fields []string) []string {
	if s.asking || len(s.scripts) > 0 {
		return nil
	}

	if len(fields) == 0 {
		return s.tree.Names()
	}

	root, ok := s.tree.Lookup(fields[0])
	if !ok || root.Flags() == nil {
		return nil
	}

	var out []string

	for _, f := range root.Flags().Declared() {
		out = append(out, "--"+f.Long)
	}

	return out
}
