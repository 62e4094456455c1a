package command

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var compareFlags = NewFlags(
	[]Flag{
		{"h", "help"},
		{"l", "lower"},
		{"g", "greater"},
		{"s", "students"},
		{"e", "expelled"},
		{"a", "avg-mark"},
		{"d", "admin"},
	},
	[]string{"g", "l"},
	[]string{"s", "e", "a", "d"},
)

func TestFlagsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []string
		want []string
		err  error
	}{
		{"none", nil, nil, nil},
		{"short", []string{"g"}, []string{"g"}, nil},
		{"long", []string{"greater"}, []string{"g"}, nil},
		{"mixed", []string{"lower", "s"}, []string{"l", "s"}, nil},
		{"long with dash", []string{"avg-mark"}, []string{"a"}, nil},
		{"both aliases", []string{"g", "greater"}, nil, ErrDuplicateFlag},
		{"unknown", []string{"x"}, nil, ErrUnknownFlag},
		{"unknown with known", []string{"g", "x"}, nil, ErrUnknownFlag},
		{"conflict", []string{"g", "l"}, nil, ErrIncompatibleFlags},
		{"conflict long", []string{"greater", "lower"}, nil, ErrIncompatibleFlags},
		{"conflict second group", []string{"students", "d"}, nil, ErrIncompatibleFlags},
		{"one per group", []string{"l", "expelled"}, []string{"e", "l"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := NewFlagSet(tt.raw...)
			got, err := compareFlags.Validate(raw)

			if !errors.Is(err, tt.err) {
				t.Fatalf("Validate(%v) error = %v, want %v", tt.raw, err, tt.err)
			}

			if err == nil {
				if diff := cmp.Diff(NewFlagSet(tt.want...), got); diff != "" {
					t.Errorf("accepted mismatch (-want +got):\n%s", diff)
				}
			}

			if diff := cmp.Diff(NewFlagSet(tt.raw...), raw); diff != "" {
				t.Errorf("input mutated (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlagsAliasesEquivalent(t *testing.T) {
	t.Parallel()

	for _, d := range compareFlags.Declared() {
		short, err := compareFlags.Validate(NewFlagSet(d.Short))
		if err != nil {
			t.Fatalf("short %q: %v", d.Short, err)
		}

		long, err := compareFlags.Validate(NewFlagSet(d.Long))
		if err != nil {
			t.Fatalf("long %q: %v", d.Long, err)
		}

		if diff := cmp.Diff(short, long); diff != "" {
			t.Errorf("%s/%s differ (-short +long):\n%s", d.Short, d.Long, diff)
		}

		if _, err := compareFlags.Validate(NewFlagSet(d.Short, d.Long)); !errors.Is(err, ErrDuplicateFlag) {
			t.Errorf("%s and %s together: error = %v", d.Short, d.Long, err)
		}
	}
}

func TestFlagsConflictsAnyPair(t *testing.T) {
	t.Parallel()

	for _, group := range compareFlags.Conflicts() {
		for i := range group {
			for j := range group {
				if i == j {
					continue
				}

				_, err := compareFlags.Validate(NewFlagSet(group[i], group[j]))
				if !errors.Is(err, ErrIncompatibleFlags) {
					t.Errorf("%s with %s: error = %v", group[i], group[j], err)
				}
			}
		}
	}
}
