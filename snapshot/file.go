package snapshot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/readahead"

	"github.com/ardnew/cohort/collection"
)

// File stores snapshots in a single file.
type File struct {
	codec codec
	path  string
	perm  fs.FileMode
}

// Location returns the file path.
func (f *File) Location() string { return f.path }

// Load reads and decodes the file. A missing or empty file yields an empty
// snapshot.
func (f *File) Load(ctx context.Context) (collection.Snapshot, error) {
	var snap collection.Snapshot

	fd, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return snap, nil
	}

	if err != nil {
		return snap, ErrRead.Wrap(err)
	}
	defer fd.Close()

	ra := readahead.NewReader(fd)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return snap, ErrRead.Wrap(err).With(slog.String("path", f.path))
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return snap, nil
	}

	if err := f.codec.unmarshal(ctx, data, &snap); err != nil {
		return collection.Snapshot{}, ErrDecode.Wrap(err).With(slog.String("path", f.path))
	}

	return snap, nil
}

// Save encodes snap and atomically replaces the file. The parent directory
// is created if needed.
func (f *File) Save(ctx context.Context, snap collection.Snapshot) error {
	data, err := f.codec.marshal(ctx, snap)
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	if err := ctx.Err(); err != nil {
		return ErrWrite.Wrap(err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ErrWrite.Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return ErrWrite.Wrap(err)
	}

	name := tmp.Name()

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(f.perm)
	}

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Rename(name, f.path)
	}

	if err != nil {
		_ = os.Remove(name)

		return ErrWrite.Wrap(err).With(slog.String("path", f.path))
	}

	return nil
}
