package shell

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/ardnew/cohort/collection"
	"github.com/ardnew/cohort/predicate"
)

// ask prints prompt and reads one answer. Prompts are not printed while a
// script supplies the answers.
func (s *Session) ask(ctx context.Context, prompt string) (string, error) {
	s.asking = true
	defer func() { s.asking = false }()

	if len(s.scripts) == 0 {
		s.out.Prompt(prompt)
	}

	line, err := s.in.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrInputClosed.Detail(strings.TrimSpace(prompt))
	}

	return line, err
}

// confirm asks prompt and reports whether the answer was empty.
func (s *Session) confirm(ctx context.Context, prompt string) (bool, error) {
	answer, err := s.ask(ctx, prompt+" (Input empty line if yes) ")
	if err != nil {
		return false, err
	}

	return strings.TrimSpace(answer) == "", nil
}

// text reads a required string field.
func (s *Session) text(ctx context.Context, label string) (string, error) {
	answer, err := s.ask(ctx, "Input "+label+" (String): ")
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(answer) == "" {
		return "", ErrNullField.Detail(label)
	}

	return answer, nil
}

// number reads a required numeric field of the given kind.
func (s *Session) number(ctx context.Context, label string, kind predicate.Kind) (predicate.Value, error) {
	answer, err := s.ask(ctx, "Input "+label+" ("+kind.String()+"): ")
	if err != nil {
		return predicate.Value{}, err
	}

	if strings.TrimSpace(answer) == "" {
		return predicate.Value{}, ErrNullField.Detail(label)
	}

	v, err := kind.Parse(answer)
	if err != nil {
		return predicate.Value{}, ErrInvalidInput.Wrap(err).With(slog.String("field", label))
	}

	return v, nil
}

// variant reads one of the values in choices. An empty answer yields the
// zero value when nullable is set.
func variant[T ~string](
	ctx context.Context,
	s *Session,
	label string,
	choices []T,
	nullable bool,
) (T, bool, error) {
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = string(c)
	}

	prompt := "Input " + label + " (Variants: " + strings.Join(names, "/")
	if nullable {
		prompt += ", value can be empty"
	}

	answer, err := s.ask(ctx, prompt+"): ")
	if err != nil {
		return "", false, err
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		if nullable {
			return "", false, nil
		}

		return "", false, ErrNullField.Detail(label)
	}

	if i := slices.Index(names, strings.ToUpper(answer)); i >= 0 {
		return choices[i], true, nil
	}

	return "", false, ErrInvalidInput.Detail("incorrect value for " + label).
		With(slog.String("value", answer))
}

// readGroup reads every field of a group. The group gets id and the current
// time of the store. Coordinates are checked as soon as they are read and
// everything else once the group is complete. Nothing is kept from a failed
// attempt.
func (s *Session) readGroup(ctx context.Context, id int32) (collection.Group, error) {
	var g collection.Group

	steps := []func() error{
		func() (err error) {
			g.Name, err = s.text(ctx, "group name")

			return err
		},
		func() error {
			v, err := s.number(ctx, "group x coordinate", predicate.Int)
			g.Coordinates.X = int32(v.Int64())

			return err
		},
		func() error {
			v, err := s.number(ctx, "group y coordinate", predicate.Long)
			if err != nil {
				return err
			}

			g.Coordinates.Y = v.Int64()

			return g.Coordinates.Validate()
		},
		func() error {
			v, err := s.number(ctx, "students count", predicate.Long)
			g.StudentsCount = v.Int64()

			return err
		},
		func() error {
			v, err := s.number(ctx, "expelled students count", predicate.Int)
			g.ExpelledStudents = int32(v.Int64())

			return err
		},
		func() error {
			v, err := s.number(ctx, "average mark", predicate.Double)
			g.AverageMark = v.Float64()

			return err
		},
		func() error {
			sem, ok, err := variant(ctx, s, "current semester", collection.Semesters, true)
			if ok {
				g.Semester = collection.SemesterOf(sem)
			}

			return err
		},
		func() (err error) {
			g.Admin, err = s.readAdmin(ctx)

			return err
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return collection.Group{}, err
		}
	}

	g.ID = id
	g.CreatedAt = s.store.Now()

	if err := g.Validate(); err != nil {
		return collection.Group{}, err
	}

	return g, nil
}

// readAdmin reads every field of a group administrator.
func (s *Session) readAdmin(ctx context.Context) (collection.Person, error) {
	var p collection.Person

	steps := []func() error{
		func() (err error) {
			p.Name, err = s.text(ctx, "group admin name")

			return err
		},
		func() error {
			v, err := s.number(ctx, "group admin height", predicate.Float)
			p.Height = float32(v.Float64())

			return err
		},
		func() (err error) {
			p.EyeColor, _, err = variant(ctx, s, "admin eye color", collection.EyeColors, false)

			return err
		},
		func() (err error) {
			p.HairColor, _, err = variant(ctx, s, "admin hair color", collection.HairColors, false)

			return err
		},
		func() (err error) {
			p.Nationality, _, err = variant(ctx, s, "admin nationality", collection.Countries, false)

			return err
		},
		func() error {
			v, err := s.number(ctx, "admin x coordinate", predicate.Long)
			p.Location.X = v.Int64()

			return err
		},
		func() error {
			v, err := s.number(ctx, "admin y coordinate", predicate.Double)
			p.Location.Y = v.Float64()

			return err
		},
		func() error {
			v, err := s.number(ctx, "admin z coordinate", predicate.Long)
			p.Location.Z = v.Int64()

			return err
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return collection.Person{}, err
		}
	}

	if err := p.Validate(); err != nil {
		return collection.Person{}, err
	}

	return p, nil
}
