package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/jsonc"

	"github.com/ardnew/cohort/log"
	"github.com/ardnew/cohort/pkg"
)

// Configuration file names in [pkg.ConfigDir].
const (
	yamlConfig = "config.yaml"
	jsonConfig = "config.json"
)

const defaultDirMode os.FileMode = 0o700

func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

// loadJSONC is a [kong.ConfigurationLoader] for JSON files that may contain
// comments and trailing commas.
func loadJSONC(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return kong.JSON(bytes.NewReader(jsonc.ToJSON(data)))
}

// resolve returns a [kong.ConfigurationLoader] for YAML files. Flag values
// are read from the top-level mapping called name:
//
//	config:
//	  log-level: debug
//	  log_pretty: false
//
// Keys may use hyphens or underscores. A file that does not parse, or that
// lacks the mapping, sets nothing. Command-line flags override file values.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).Decode(&doc)
		if err != nil && err != io.EOF {
			log.Warn("ignoring configuration file", slog.Any("error", err))

			return config{}, nil
		}

		scope, ok := doc[name].(map[string]any)
		if !ok {
			return config{}, nil
		}

		cfg := make(config, len(scope))
		for key, val := range scope {
			cfg[strings.ReplaceAll(key, "_", "-")] = scalar(val)
		}

		return cfg, nil
	}
}

// scalar renders numbers as strings, which kong decodes with the flag's own
// type.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return v
	}
}

// config implements [kong.Resolver] over flag names with hyphens.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	return c[strings.ReplaceAll(flag.Name, "_", "-")], nil
}
