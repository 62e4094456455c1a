package shell

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/cohort/collection"
	"github.com/ardnew/cohort/command"
)

// programs caches compiled filter expressions by the hash of their source.
var programs sync.Map

// groupEnv exposes the fields of g to filter expressions.
func groupEnv(g collection.Group) map[string]any {
	semester := ""
	if g.Semester != nil {
		semester = string(*g.Semester)
	}

	return map[string]any{
		"id":       int(g.ID),
		"name":     g.Name,
		"x":        int(g.Coordinates.X),
		"y":        int(g.Coordinates.Y),
		"created":  g.CreatedAt,
		"students": int(g.StudentsCount),
		"expelled": int(g.ExpelledStudents),
		"avgMark":  g.AverageMark,
		"semester": semester,
		"admin": map[string]any{
			"name":        g.Admin.Name,
			"height":      float64(g.Admin.Height),
			"eyeColor":    string(g.Admin.EyeColor),
			"hairColor":   string(g.Admin.HairColor),
			"nationality": string(g.Admin.Nationality),
		},
	}
}

// compileFilter compiles source as a boolean expression over [groupEnv].
func compileFilter(source string) (*vm.Program, error) {
	key := xxh3.HashString(source)

	if p, ok := programs.Load(key); ok {
		return p.(*vm.Program), nil
	}

	program, err := expr.Compile(
		source,
		expr.Env(groupEnv(collection.Group{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, ErrInvalidExpr.Wrap(err).With(slog.String("source", source))
	}

	programs.Store(key, program)

	return program, nil
}

// matcher returns the name test selected by the flags of call. Only
// expressions can fail to evaluate.
func matcher(call command.Call, pattern string) (func(collection.Group) (bool, error), string, error) {
	switch {
	case call.Has("r"):
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, "", ErrInvalidPattern.Wrap(err).With(slog.String("pattern", pattern))
		}

		return func(g collection.Group) (bool, error) { return re.MatchString(g.Name), nil }, " (regex)", nil

	case call.Has("x"):
		program, err := compileFilter(pattern)
		if err != nil {
			return nil, "", err
		}

		return func(g collection.Group) (bool, error) {
			out, err := vm.Run(program, groupEnv(g))
			if err != nil {
				return false, ErrInvalidExpr.Wrap(err).With(
					slog.String("source", pattern),
					slog.Int("id", int(g.ID)),
				)
			}

			ok, _ := out.(bool)

			return ok, nil
		}, " (expr)", nil
	}

	return func(g collection.Group) (bool, error) { return strings.Contains(g.Name, pattern), nil }, "", nil
}

// filter lists matching groups. An expression may span several arguments,
// which are joined with single spaces.
func (s *Session) filter(ctx context.Context, call command.Call) error {
	high := 1
	if call.Has("x") {
		high = max(len(call.Args), 1)
	}

	if err := arity(call, 1, high); err != nil {
		return err
	}

	pattern := strings.Join(call.Args, " ")

	match, mode, err := matcher(call, pattern)
	if err != nil {
		return err
	}

	var failed error

	groups := s.store.Select(func(g collection.Group) bool {
		if failed != nil {
			return false
		}

		ok, err := match(g)
		failed = err

		return ok
	})
	if failed != nil {
		return failed
	}

	s.logger.DebugContext(ctx, "filter",
		slog.String("pattern", pattern),
		slog.Int("matched", len(groups)),
	)

	s.out.WriteLine("Filtering results" + mode)

	if len(groups) == 0 {
		s.out.WriteLine("No matching elements")

		return nil
	}

	for _, g := range groups {
		s.out.WriteLine(g.String())
	}

	return nil
}
