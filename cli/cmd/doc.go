// Package cmd implements the cohort subcommands: run, which starts the
// interpreter session, and init, which writes a default configuration file.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file. It is also the name of the top-level
	// mapping in that file.
	ConfigIdentifier = "config"
)
