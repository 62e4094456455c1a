package collection

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// Snapshot is the complete persisted state of a [Store].
type Snapshot struct {
	CreatedAt time.Time `json:"creationDate" yaml:"creationDate"`
	Groups    []Group   `json:"groups"       yaml:"groups"`
}

// Storage loads and saves whole snapshots.
type Storage interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
	// Location describes where snapshots are kept, such as a file path.
	Location() string
}

// Store owns the groups of one session. Every mutation is validated, and
// failed mutations leave the store unchanged.
type Store struct {
	storage Storage
	now     func() time.Time
	groups  map[int32]Group
	created time.Time
	mu      sync.RWMutex
	saved   uint64 // digest of the last loaded or saved state
	top     int32  // highest id added since the last load
}

// StoreOption configures a [Store].
type StoreOption func(*Store)

// WithStorage sets the snapshot storage used by [Store.Load] and
// [Store.Save].
func WithStorage(s Storage) StoreOption {
	return func(st *Store) { st.storage = s }
}

// WithClock sets the time source for creation timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(st *Store) { st.now = now }
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{now: time.Now, groups: map[int32]Group{}}

	for _, opt := range opts {
		opt(s)
	}

	s.created = s.now()
	s.saved = s.digest()

	return s
}

// Now returns the current time of the store's clock, truncated to seconds.
func (s *Store) Now() time.Time { return s.now().Truncate(time.Second) }

// CreatedAt returns when the collection was created.
func (s *Store) CreatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.created
}

// Len returns the number of groups.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.groups)
}

// Type returns the element type name.
func (*Store) Type() string { return TypeName }

// Location returns where the store is persisted, or "" without storage.
func (s *Store) Location() string {
	if s.storage == nil {
		return ""
	}

	return s.storage.Location()
}

// GenerateID returns an identifier above every id added since the last
// load. Ids are not reused after removal or [Store.Clear].
func (s *Store) GenerateID() (int32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.top == math.MaxInt32 {
		return 0, ErrIDExhausted.With(slog.Int("top", int(s.top)))
	}

	return s.top + 1, nil
}

// Has reports whether a group with id exists.
func (s *Store) Has(id int32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.groups[id]

	return ok
}

// Get returns the group with id.
func (s *Store) Get(id int32) (Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.groups[id]

	return g, ok
}

// Add inserts g after validating it. The id must be unused.
func (s *Store) Add(g Group) error {
	if err := g.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[g.ID]; ok {
		return ErrDuplicateID.With(slog.Int("id", int(g.ID)))
	}

	s.groups[g.ID] = g
	s.top = max(s.top, g.ID)

	return nil
}

// UpdateByID replaces the group with id by g, keeping the id and the
// original creation date. It reports false if no such group exists.
func (s *Store) UpdateByID(id int32, g Group) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.groups[id]
	if !ok {
		return false, nil
	}

	g.ID, g.CreatedAt = id, old.CreatedAt
	if err := g.Validate(); err != nil {
		return false, err
	}

	s.groups[id] = g

	return true, nil
}

// RemoveWhere deletes every group matching pred and returns how many were
// deleted.
func (s *Store) RemoveWhere(pred func(Group) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.groups)
	maps.DeleteFunc(s.groups, func(_ int32, g Group) bool { return pred(g) })

	return n - len(s.groups)
}

// RemoveFirst deletes the matching group with the lowest id and reports
// whether one was found.
func (s *Store) RemoveFirst(pred func(Group) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range s.sorted() {
		if pred(g) {
			delete(s.groups, g.ID)

			return true
		}
	}

	return false
}

// ReplaceWhere replaces the group with id by g if that group matches pred.
// The id and creation date of the old group are kept. It reports whether the
// group was replaced, and fails with [ErrNoSuchID] if no group has id.
func (s *Store) ReplaceWhere(pred func(Group) bool, id int32, g Group) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.groups[id]
	if !ok {
		return false, ErrNoSuchID.With(slog.Int("id", int(id)))
	}

	if !pred(old) {
		return false, nil
	}

	g.ID, g.CreatedAt = id, old.CreatedAt
	if err := g.Validate(); err != nil {
		return false, err
	}

	s.groups[id] = g

	return true, nil
}

// CountWhere returns how many groups match pred.
func (s *Store) CountWhere(pred func(Group) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0

	for _, g := range s.groups {
		if pred(g) {
			n++
		}
	}

	return n
}

// Select returns the groups matching pred ordered by id.
func (s *Store) Select(pred func(Group) bool) []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.DeleteFunc(s.sorted(), func(g Group) bool { return !pred(g) })
}

// All returns every group ordered by id.
func (s *Store) All() []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted()
}

// Clear removes every group.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.groups)
}

// Dirty reports whether the groups differ from the last loaded or saved
// state.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.digest() != s.saved
}

// Save writes a full snapshot to storage. On failure the in-memory state is
// unchanged and the error is an [ErrStorage] or [ErrNoStorage].
func (s *Store) Save(ctx context.Context) error {
	if s.storage == nil {
		return ErrNoStorage
	}

	s.mu.RLock()
	snap := Snapshot{CreatedAt: s.created, Groups: s.sorted()}
	sum := s.digest()
	s.mu.RUnlock()

	if err := s.storage.Save(ctx, snap); err != nil {
		return ErrStorage.Wrap(err).With(slog.String("location", s.storage.Location()))
	}

	s.mu.Lock()
	s.saved = sum
	s.mu.Unlock()

	return nil
}

// Load replaces the groups with the snapshot from storage. Groups that fail
// validation or repeat an id are skipped; their number is returned. On
// failure the store is unchanged.
func (s *Store) Load(ctx context.Context) (skipped int, err error) {
	if s.storage == nil {
		return 0, ErrNoStorage
	}

	snap, err := s.storage.Load(ctx)
	if err != nil {
		return 0, ErrStorage.Wrap(err).With(slog.String("location", s.storage.Location()))
	}

	groups := make(map[int32]Group, len(snap.Groups))

	var top int32

	for _, g := range snap.Groups {
		if _, dup := groups[g.ID]; dup || g.Validate() != nil {
			skipped++

			continue
		}

		groups[g.ID] = g
		top = max(top, g.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups, s.top = groups, top
	if !snap.CreatedAt.IsZero() {
		s.created = snap.CreatedAt
	}

	s.saved = s.digest()

	return skipped, nil
}

func (s *Store) sorted() []Group {
	return slices.SortedFunc(maps.Values(s.groups), func(a, b Group) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

func (s *Store) digest() uint64 {
	h := xxh3.New()
	for _, g := range s.sorted() {
		g.digest(h)
	}

	return h.Sum64()
}
