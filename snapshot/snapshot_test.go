package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/cohort/collection"
	"github.com/ardnew/cohort/pkg"
)

func sampleSnapshot() collection.Snapshot {
	created := time.Date(2024, time.March, 1, 9, 30, 15, 0, time.UTC)

	return collection.Snapshot{
		CreatedAt: created,
		Groups: []collection.Group{
			{
				ID:               1,
				Name:             "P3110",
				Coordinates:      collection.Coordinates{X: -4, Y: -265},
				CreatedAt:        created,
				StudentsCount:    25,
				ExpelledStudents: 3,
				AverageMark:      4.25,
				Semester:         collection.SemesterOf(collection.SemesterSecond),
				Admin: collection.Person{
					Name:        "Hyun",
					Height:      181.5,
					EyeColor:    collection.ColorYellow,
					HairColor:   collection.ColorOrange,
					Nationality: collection.CountrySouthKorea,
					Location:    collection.Location{X: 10, Y: -2.75, Z: 0},
				},
			},
			{
				ID:               7,
				Name:             "group with spaces",
				Coordinates:      collection.Coordinates{X: 2147483647, Y: 9000000000},
				CreatedAt:        created.Add(48 * time.Hour),
				StudentsCount:    1,
				ExpelledStudents: 1,
				AverageMark:      0.5,
				Admin: collection.Person{
					Name:        "Giulia",
					Height:      160,
					EyeColor:    collection.ColorGreen,
					HairColor:   collection.ColorBlack,
					Nationality: collection.CountryVatican,
				},
			},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, ext := range Formats {
		t.Run(ext, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "nested", "groups"+ext)

			st, err := Open(path)
			if err != nil {
				t.Fatalf("Open(%q): %v", path, err)
			}

			if st.Location() != path {
				t.Errorf("Location() = %q, want %q", st.Location(), path)
			}

			want := sampleSnapshot()
			if err := st.Save(t.Context(), want); err != nil {
				t.Fatalf("Save: %v", err)
			}

			// Saving twice replaces rather than appends.
			if err := st.Save(t.Context(), want); err != nil {
				t.Fatalf("second Save: %v", err)
			}

			got, err := st.Load(t.Context())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	for _, ext := range Formats {
		st, err := Open(filepath.Join(t.TempDir(), "absent"+ext))
		if err != nil {
			t.Fatal(err)
		}

		snap, err := st.Load(t.Context())
		if err != nil || len(snap.Groups) != 0 || !snap.CreatedAt.IsZero() {
			t.Errorf("%s: Load of missing file = %+v, %v", ext, snap, err)
		}
	}
}

func TestLoadCorrupt(t *testing.T) {
	t.Parallel()

	for _, ext := range []string{".yaml", ".json", ".cbor"} {
		path := filepath.Join(t.TempDir(), "bad"+ext)
		if err := os.WriteFile(path, []byte("{groups: [unterminated"), 0o600); err != nil {
			t.Fatal(err)
		}

		st, _ := Open(path)

		_, err := st.Load(t.Context())
		if !errors.Is(err, ErrDecode) {
			t.Errorf("%s: Load error = %v, want %v", ext, err, ErrDecode)
		}

		if pkg.ClassOf(err) != pkg.ClassStorage {
			t.Errorf("%s: class = %v", ext, pkg.ClassOf(err))
		}
	}
}

func TestOpenUnknown(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"groups.xml", "groups", "groups.yaml.bak"} {
		if _, err := Open(path); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Open(%q) error = %v", path, err)
		}
	}
}

func TestSaveIntoFileFails(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	st, err := Open(filepath.Join(blocker, "groups.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	if err := st.Save(t.Context(), sampleSnapshot()); !errors.Is(err, ErrWrite) {
		t.Errorf("Save error = %v, want %v", err, ErrWrite)
	}
}

func TestStoreIntegration(t *testing.T) {
	t.Parallel()

	st, err := Open(filepath.Join(t.TempDir(), "groups.yml"))
	if err != nil {
		t.Fatal(err)
	}

	store := collection.NewStore(collection.WithStorage(st))
	for _, g := range sampleSnapshot().Groups {
		if err := store.Add(g); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.Save(t.Context()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := collection.NewStore(collection.WithStorage(st))
	if _, err := reloaded.Load(t.Context()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(store.All(), reloaded.All()); diff != "" {
		t.Errorf("reloaded groups (-want +got):\n%s", diff)
	}
}
