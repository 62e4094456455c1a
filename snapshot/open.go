package snapshot

import (
	"path/filepath"
	"strings"

	"github.com/ardnew/cohort/collection"
)

// Formats lists the recognized file extensions.
var Formats = []string{".yaml", ".yml", ".json", ".cbor", ".db", ".sqlite"}

// Open returns the storage for path chosen by its extension. The file is
// not touched until the storage is loaded or saved.
func Open(path string) (collection.Storage, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return &File{path: path, perm: 0o644, codec: yamlCodec{indent: 2}}, nil

	case ".json":
		return &File{path: path, perm: 0o644, codec: jsonCodec{indent: "  "}}, nil

	case ".cbor":
		c, err := newCBORCodec()
		if err != nil {
			return nil, ErrUnknownFormat.Wrap(err)
		}

		return &File{path: path, perm: 0o644, codec: c}, nil

	case ".db", ".sqlite":
		return &SQLite{path: path}, nil

	default:
		return nil, ErrUnknownFormat.Detail(
			"extension " + ext + " (want one of " + strings.Join(Formats, " ") + ")")
	}
}
