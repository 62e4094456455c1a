package predicate

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/cohort/collection"
)

// Attribute identifies a numeric field of [collection.Group].
type Attribute uint8

const (
	ID Attribute = iota
	Students
	Expelled
	AverageMark
)

type accessor struct {
	get  func(collection.Group) Value
	name string
	kind Kind
}

var attributes = map[Attribute]accessor{
	ID: {
		name: "id", kind: Int,
		get: func(g collection.Group) Value { return IntValue(g.ID) },
	},
	Students: {
		name: "students", kind: Long,
		get: func(g collection.Group) Value { return LongValue(g.StudentsCount) },
	},
	Expelled: {
		name: "expelled", kind: Int,
		get: func(g collection.Group) Value { return IntValue(g.ExpelledStudents) },
	},
	AverageMark: {
		name: "avg-mark", kind: Double,
		get: func(g collection.Group) Value { return DoubleValue(g.AverageMark) },
	},
}

// Attributes lists every attribute in declaration order.
func Attributes() []Attribute { return []Attribute{ID, Students, Expelled, AverageMark} }

func lookup(a Attribute) (accessor, error) {
	acc, ok := attributes[a]
	if !ok {
		return accessor{}, ErrNoSuchAttribute.
			Detail(strconv.Itoa(int(a))).
			With(slog.Int("attribute", int(a)))
	}

	return acc, nil
}

// ParseAttribute returns the attribute named name, such as "students".
func ParseAttribute(name string) (Attribute, error) {
	for a, acc := range attributes {
		if acc.name == name {
			return a, nil
		}
	}

	return 0, ErrNoSuchAttribute.Detail(name)
}

// Kind returns the numeric kind of a. It fails with [ErrNoSuchAttribute]
// for identifiers outside the table.
func (a Attribute) Kind() (Kind, error) {
	acc, err := lookup(a)

	return acc.kind, err
}

// String returns the attribute name.
func (a Attribute) String() string {
	if acc, ok := attributes[a]; ok {
		return acc.name
	}

	return "Attribute(" + strconv.Itoa(int(a)) + ")"
}

// Of returns the value of a in g.
func (a Attribute) Of(g collection.Group) (Value, error) {
	acc, err := lookup(a)
	if err != nil {
		return Value{}, err
	}

	return acc.get(g), nil
}
