package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/ardnew/cohort/collection"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS study_groups (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		coord_x INTEGER NOT NULL,
		coord_y INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		students INTEGER NOT NULL,
		expelled INTEGER NOT NULL,
		avg_mark REAL NOT NULL,
		semester TEXT,
		admin_name TEXT NOT NULL,
		admin_height REAL NOT NULL,
		eye_color TEXT NOT NULL,
		hair_color TEXT NOT NULL,
		nationality TEXT NOT NULL,
		loc_x INTEGER NOT NULL,
		loc_y REAL NOT NULL,
		loc_z INTEGER NOT NULL
	);
`

const groupColumns = `id, name, coord_x, coord_y, created_at, students, expelled,
	avg_mark, semester, admin_name, admin_height, eye_color, hair_color,
	nationality, loc_x, loc_y, loc_z`

const metaCreatedAt = "created_at"

// SQLite stores snapshots in a SQLite database file. Each save replaces all
// rows in one transaction.
type SQLite struct {
	path string
}

// Location returns the database path.
func (s *SQLite) Location() string { return s.path }

func (s *SQLite) open(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, err
	}

	// SQLite doesn't support concurrent writes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()

		return nil, err
	}

	return db, nil
}

// Load reads every group. A missing database yields an empty snapshot.
func (s *SQLite) Load(ctx context.Context) (collection.Snapshot, error) {
	var snap collection.Snapshot

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return snap, nil
	}

	db, err := s.open(ctx)
	if err != nil {
		return snap, ErrRead.Wrap(err).With(slog.String("path", s.path))
	}
	defer db.Close()

	var created string

	err = db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = ?`, metaCreatedAt,
	).Scan(&created)

	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return snap, ErrRead.Wrap(err)
	default:
		if snap.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return snap, ErrDecode.Wrap(err)
		}
	}

	rows, err := db.QueryContext(ctx, `SELECT `+groupColumns+` FROM study_groups ORDER BY id`)
	if err != nil {
		return snap, ErrRead.Wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return collection.Snapshot{}, ErrDecode.Wrap(err)
		}

		snap.Groups = append(snap.Groups, g)
	}

	if err := rows.Err(); err != nil {
		return collection.Snapshot{}, ErrRead.Wrap(err)
	}

	return snap, nil
}

func scanGroup(rows *sql.Rows) (collection.Group, error) {
	var (
		g        collection.Group
		created  string
		semester sql.NullString
		height   float64
	)

	err := rows.Scan(
		&g.ID, &g.Name, &g.Coordinates.X, &g.Coordinates.Y, &created,
		&g.StudentsCount, &g.ExpelledStudents, &g.AverageMark, &semester,
		&g.Admin.Name, &height, &g.Admin.EyeColor, &g.Admin.HairColor,
		&g.Admin.Nationality, &g.Admin.Location.X, &g.Admin.Location.Y,
		&g.Admin.Location.Z,
	)
	if err != nil {
		return g, err
	}

	if g.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return g, err
	}

	if semester.Valid {
		g.Semester = collection.SemesterOf(collection.Semester(semester.String))
	}

	g.Admin.Height = float32(height)

	return g, nil
}

// Save replaces the stored snapshot with snap.
func (s *SQLite) Save(ctx context.Context, snap collection.Snapshot) error {
	db, err := s.open(ctx)
	if err != nil {
		return ErrWrite.Wrap(err).With(slog.String("path", s.path))
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ErrWrite.Wrap(err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM study_groups`); err != nil {
		return ErrWrite.Wrap(err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaCreatedAt, snap.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return ErrWrite.Wrap(err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO study_groups (`+groupColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ErrWrite.Wrap(err)
	}
	defer stmt.Close()

	for _, g := range snap.Groups {
		var semester sql.NullString
		if g.Semester != nil {
			semester = sql.NullString{String: string(*g.Semester), Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			g.ID, g.Name, g.Coordinates.X, g.Coordinates.Y,
			g.CreatedAt.Format(time.RFC3339Nano), g.StudentsCount,
			g.ExpelledStudents, g.AverageMark, semester, g.Admin.Name,
			float64(g.Admin.Height), string(g.Admin.EyeColor),
			string(g.Admin.HairColor), string(g.Admin.Nationality),
			g.Admin.Location.X, g.Admin.Location.Y, g.Admin.Location.Z,
		)
		if err != nil {
			return ErrWrite.Wrap(err).With(slog.Int("id", int(g.ID)))
		}
	}

	if err := tx.Commit(); err != nil {
		return ErrWrite.Wrap(err)
	}

	return nil
}
