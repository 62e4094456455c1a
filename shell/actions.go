package shell

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/ardnew/cohort/collection"
	"github.com/ardnew/cohort/command"
	"github.com/ardnew/cohort/pkg"
	"github.com/ardnew/cohort/predicate"
)

// EnvCollectionPath names the environment variable holding the collection
// file path.
var EnvCollectionPath = pkg.EnvName("path")

// arity checks that call captured between low and high arguments.
func arity(call command.Call, low, high int) error {
	switch n := len(call.Args); {
	case n < low:
		return command.ErrIncomplete.With(slog.String("command", call.Name))
	case n > high:
		return command.ErrTooManyArguments.Detail(fmt.Sprint(call.Args[high:])).
			With(slog.String("command", call.Name))
	}

	return nil
}

// selector builds the predicate chosen by the comparison flags of call.
func selector(call command.Call, raw string) (predicate.Selector, error) {
	attr := predicate.ID

	switch {
	case call.Has("s"):
		attr = predicate.Students
	case call.Has("e"):
		attr = predicate.Expelled
	case call.Has("a"):
		attr = predicate.AverageMark
	}

	mode := predicate.Equal

	switch {
	case call.Has("g"):
		mode = predicate.Greater
	case call.Has("l"):
		mode = predicate.Less
	}

	return predicate.Build(attr, raw, mode)
}

// parseID parses raw as a group id.
func parseID(raw string) (int32, error) {
	v, err := predicate.Int.Parse(raw)
	if err != nil {
		return 0, err
	}

	return int32(v.Int64()), nil
}

func (s *Session) info(_ context.Context, call command.Call) error {
	if err := arity(call, 0, 0); err != nil {
		return err
	}

	location := s.store.Location()
	if location == "" {
		location = "none"
	}

	unsaved := "no"
	if s.store.Dirty() {
		unsaved = "yes"
	}

	s.out.WriteLine("Collection statistics:")
	s.out.WriteLine("  Init time: " + s.store.CreatedAt().Format(time.RFC3339))
	s.out.WriteLine("  Elements:  " + strconv.Itoa(s.store.Len()))
	s.out.WriteLine("  Type:      " + s.store.Type())
	s.out.WriteLine("  Storage:   " + location)
	s.out.WriteLine("  Unsaved:   " + unsaved)

	return nil
}

func (s *Session) show(_ context.Context, call command.Call) error {
	if err := arity(call, 0, 0); err != nil {
		return err
	}

	groups := s.store.All()
	if len(groups) == 0 {
		s.out.WriteLine("Collection is empty")

		return nil
	}

	s.out.WriteLine("Collection elements:")

	for _, g := range groups {
		s.out.WriteLine(g.String())
	}

	return nil
}

func (s *Session) insert(ctx context.Context, call command.Call) error {
	if err := arity(call, 0, 0); err != nil {
		return err
	}

	id, err := s.store.GenerateID()
	if err != nil {
		return err
	}

	if call.Has("r") {
		g := collection.Random(s.rand, id, s.store.Now())
		if err := s.store.Add(g); err != nil {
			return err
		}

		s.logger.DebugContext(ctx, "insert random", slog.Int("id", int(id)))
		s.out.WriteLine("Inserted random element with id " + strconv.Itoa(int(id)))

		return nil
	}

	s.out.WriteLine("Inserting new element")

	g, err := s.confirmGroup(ctx, id, "You want to add group: ")
	if err != nil {
		return err
	}

	if err := s.store.Add(g); err != nil {
		return err
	}

	s.out.WriteLine("Element added with id " + strconv.Itoa(int(id)))

	return nil
}

// confirmGroup reads groups until the user accepts one.
func (s *Session) confirmGroup(ctx context.Context, id int32, lead string) (collection.Group, error) {
	for {
		g, err := s.readGroup(ctx, id)
		if err != nil {
			return collection.Group{}, err
		}

		s.out.WriteLine(lead + g.String())

		ok, err := s.confirm(ctx, "Proceed?")
		if err != nil {
			return collection.Group{}, err
		}

		if ok {
			return g, nil
		}
	}
}

func (s *Session) update(ctx context.Context, call command.Call) error {
	if err := arity(call, 1, 1); err != nil {
		return err
	}

	id, err := parseID(call.Args[0])
	if err != nil {
		return err
	}

	if !s.store.Has(id) {
		return collection.ErrNoSuchID.Detail(call.Args[0]).With(slog.Int("id", int(id)))
	}

	s.out.WriteLine("Updating element with id " + strconv.Itoa(int(id)))

	g, err := s.confirmGroup(ctx, id,
		"You want to update group with id "+strconv.Itoa(int(id))+" with the following group: ")
	if err != nil {
		return err
	}

	ok, err := s.store.UpdateByID(id, g)
	if err != nil {
		return err
	}

	if !ok {
		return collection.ErrNoSuchID.Detail(call.Args[0]).With(slog.Int("id", int(id)))
	}

	s.out.WriteLine("Element updated")

	return nil
}

func (s *Session) remove(ctx context.Context, call command.Call) error {
	if call.Has("d") {
		if err := arity(call, 0, 0); err != nil {
			return err
		}

		admin, err := s.readAdmin(ctx)
		if err != nil {
			return err
		}

		if s.store.RemoveFirst(func(g collection.Group) bool { return g.Admin == admin }) {
			s.out.WriteLine("Successfully removed element")
		} else {
			s.out.WriteLine("Unable to find element with matching group admin")
		}

		return nil
	}

	if err := arity(call, 1, 1); err != nil {
		return err
	}

	sel, err := selector(call, call.Args[0])
	if err != nil {
		return err
	}

	n := s.store.RemoveWhere(sel.Match)

	s.logger.DebugContext(ctx, "remove", slog.Any("selector", sel), slog.Int("removed", n))
	s.out.WriteLine("Removed " + strconv.Itoa(n) + " element(s)")

	return nil
}

func (s *Session) clear(ctx context.Context, call command.Call) error {
	if err := arity(call, 0, 0); err != nil {
		return err
	}

	if !call.Has("f") {
		ok, err := s.confirm(ctx, "Are you sure, all unsaved data will be lost?")
		if err != nil {
			return err
		}

		if !ok {
			s.out.WriteLine("Operation aborted")

			return nil
		}
	}

	s.out.WriteLine("Clearing the collection")
	s.store.Clear()

	return nil
}

func (s *Session) save(ctx context.Context, call command.Call) error {
	if err := arity(call, 0, 0); err != nil {
		return err
	}

	s.out.WriteLine("Saving the collection")

	if err := s.store.Save(ctx); err != nil {
		return err
	}

	s.out.WriteLine("Done")

	return nil
}

func (s *Session) exit(ctx context.Context, call command.Call) error {
	if err := arity(call, 0, 0); err != nil {
		return err
	}

	switch {
	case call.Has("s"):
		s.out.WriteLine("Saving the collection")

		if err := s.store.Save(ctx); err != nil {
			if !call.Has("f") {
				s.out.WriteLine("Operation aborted")

				return err
			}

			s.logger.WarnContext(ctx, "exit without saving", slog.Any("error", err))
			s.out.Error(err)
		}

	case !call.Has("f") && s.store.Dirty():
		ok, err := s.confirm(ctx, "Are you sure, all unsaved data will be lost?")
		if err != nil {
			return err
		}

		if !ok {
			s.out.WriteLine("Operation aborted")

			return nil
		}
	}

	s.out.WriteLine("Stopping")
	s.Stop()

	return nil
}

func (s *Session) replace(ctx context.Context, call command.Call) error {
	if err := arity(call, 1, 1); err != nil {
		return err
	}

	id, err := parseID(call.Args[0])
	if err != nil {
		return err
	}

	sel, err := selector(call, call.Args[0])
	if err != nil {
		return err
	}

	if !s.store.Has(id) {
		return collection.ErrNoSuchID.Detail(call.Args[0]).With(slog.Int("id", int(id)))
	}

	g, err := s.readGroup(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.store.ReplaceWhere(sel.Match, id, g)
	if err != nil {
		return err
	}

	if ok {
		s.out.WriteLine("Element updated")
	} else {
		s.out.WriteLine("Element wasn't updated")
	}

	return nil
}

func (s *Session) count(_ context.Context, call command.Call) error {
	if err := arity(call, 1, 2); err != nil {
		return err
	}

	sel, err := predicate.Build(predicate.AverageMark, call.Args[0], predicate.Equal)
	if err != nil {
		return err
	}

	match := sel.Match

	if len(call.Args) > 1 {
		delta, err := predicate.Double.Parse(call.Args[1])
		if err != nil {
			return err
		}

		m, d := sel.Threshold().Float64(), delta.Float64()
		match = func(g collection.Group) bool { return math.Abs(g.AverageMark-m) <= d }
	}

	s.out.WriteLine("Count: " + strconv.Itoa(s.store.CountWhere(match)))

	return nil
}

func (s *Session) getenv(_ context.Context, call command.Call) error {
	if err := arity(call, 0, 0); err != nil {
		return err
	}

	value, ok := s.lookup(EnvCollectionPath)
	if !ok {
		s.out.WriteLine("Environment variable '" + EnvCollectionPath + "' is not set")

		return nil
	}

	s.out.WriteLine("Environment variable '" + EnvCollectionPath + "' value: '" + value + "'")

	return nil
}

func (s *Session) fill(ctx context.Context, call command.Call) error {
	if err := arity(call, 0, 1); err != nil {
		return err
	}

	n := 1

	if len(call.Args) > 0 {
		v, err := predicate.Int.Parse(call.Args[0])
		if err != nil {
			return err
		}

		n = int(v.Int64())
		if n <= 0 {
			return ErrInvalidCount.Detail(call.Args[0])
		}
	}

	for range n {
		id, err := s.store.GenerateID()
		if err != nil {
			return err
		}

		g := collection.Random(s.rand, id, s.store.Now())
		if err := s.store.Add(g); err != nil {
			return err
		}
	}

	s.logger.DebugContext(ctx, "fill", slog.Int("count", n))
	s.out.WriteLine("Inserted " + strconv.Itoa(n) + " random element(s)")

	return nil
}
