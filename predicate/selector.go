package predicate

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/cohort/collection"
)

// Mode is the expected sign of attribute minus threshold.
type Mode int8

const (
	Less    Mode = -1
	Equal   Mode = 0
	Greater Mode = +1
)

// String returns "<", "=" or ">".
func (m Mode) String() string {
	switch m {
	case Less:
		return "<"
	case Equal:
		return "="
	case Greater:
		return ">"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Selector is a reusable test over groups. It holds no reference to any
// collection and is safe for concurrent use.
type Selector struct {
	get       func(collection.Group) Value
	threshold Value
	attr      Attribute
	mode      Mode
}

// Build parses raw as the attribute's own kind and returns a selector
// comparing attr against it with mode.
func Build(attr Attribute, raw string, mode Mode) (Selector, error) {
	kind, err := attr.Kind()
	if err != nil {
		return Selector{}, err
	}

	return BuildAs(attr, kind, raw, mode)
}

// BuildAs is like [Build] but parses raw as kind. Values of different kinds
// are compared exactly when both are integral and as float64 otherwise.
func BuildAs(attr Attribute, kind Kind, raw string, mode Mode) (Selector, error) {
	acc, err := lookup(attr)
	if err != nil {
		return Selector{}, err
	}

	if mode < Less || mode > Greater {
		return Selector{}, ErrInvalidMode.With(slog.Int("mode", int(mode)))
	}

	threshold, err := kind.Parse(raw)
	if err != nil {
		return Selector{}, err
	}

	return Selector{get: acc.get, threshold: threshold, attr: attr, mode: mode}, nil
}

// Match reports whether sign(attribute - threshold) equals the mode. A NaN
// operand never matches.
func (s Selector) Match(g collection.Group) bool {
	sign, ok := s.get(g).Compare(s.threshold)

	return ok && Mode(sign) == s.mode
}

// Attribute returns the attribute under test.
func (s Selector) Attribute() Attribute { return s.attr }

// Threshold returns the parsed threshold.
func (s Selector) Threshold() Value { return s.threshold }

// Mode returns the comparison mode.
func (s Selector) Mode() Mode { return s.mode }

// String describes s, for example "students > 10".
func (s Selector) String() string {
	return s.attr.String() + " " + s.mode.String() + " " + s.threshold.String()
}

// LogValue implements [slog.LogValuer].
func (s Selector) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("attribute", s.attr.String()),
		slog.String("mode", s.mode.String()),
		slog.String("threshold", s.threshold.String()),
		slog.String("kind", s.threshold.Kind().String()),
	)
}
