package shell

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mung"
	"github.com/klauspost/readahead"

	"github.com/ardnew/cohort/command"
	"github.com/ardnew/cohort/console"
	"github.com/ardnew/cohort/pkg"
)

// EnvScriptPath names the environment variable listing directories searched
// for scripts given by relative path.
var EnvScriptPath = pkg.EnvName("script-path")

// searchPath returns the directories searched for a relative script name:
// the directory of the running script, if any, followed by the entries of
// [EnvScriptPath].
func (s *Session) searchPath() []string {
	var prefix []string
	if n := len(s.scripts); n > 0 {
		prefix = append(prefix, filepath.Dir(s.scripts[n-1]))
	}

	list, _ := s.lookup(EnvScriptPath)

	joined := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()

	var dirs []string

	for _, dir := range filepath.SplitList(joined) {
		if dir != "" && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// locate resolves name to the absolute path of a regular file. A relative
// name is tried in the working directory first, then along [searchPath].
func (s *Session) locate(name string) (string, error) {
	candidates := []string{name}

	if !filepath.IsAbs(name) {
		for _, dir := range s.searchPath() {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, path := range candidates {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}

		return filepath.Abs(path)
	}

	return "", ErrScriptNotFound.Detail(name).With(slog.String("script", name))
}

func (s *Session) execute(ctx context.Context, call command.Call) error {
	if err := arity(call, 1, 1); err != nil {
		return err
	}

	path, err := s.locate(call.Args[0])
	if err != nil {
		return err
	}

	return s.runScript(ctx, path)
}

// runScript executes every line of the script at path. Lines that fail are
// reported and skipped. The script stops early if a line stops a running
// session.
func (s *Session) runScript(ctx context.Context, path string) (err error) {
	if slices.Contains(s.scripts, path) {
		return ErrScriptCycle.Detail(path).With(slog.Any("stack", s.scripts))
	}

	if len(s.scripts) >= MaxScriptDepth {
		return ErrScriptDepth.Detail(path).With(slog.Int("depth", len(s.scripts)))
	}

	f, err := os.Open(path)
	if err != nil {
		return ErrScriptNotFound.Wrap(err).With(slog.String("script", path))
	}

	defer func() { err = errors.Join(err, f.Close()) }()

	in := console.NewReader(readahead.NewReader(f))
	defer in.Close()

	prev := s.in
	s.in = in
	s.scripts = append(s.scripts, path)

	defer func() {
		s.in = prev
		s.scripts = s.scripts[:len(s.scripts)-1]
	}()

	s.logger.DebugContext(ctx, "script start",
		slog.String("script", path),
		slog.Int("depth", len(s.scripts)),
	)
	s.out.WriteLine("Executing script " + path)

	lines := 0
	active := s.Running()

	for !active || s.Running() {
		line, err := in.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return err
		}

		lines++

		_ = s.Execute(ctx, line)
	}

	s.logger.DebugContext(ctx, "script end",
		slog.String("script", path),
		slog.Int("lines", lines),
	)

	return nil
}
