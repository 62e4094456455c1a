// Package cli contains the command line interface for cohort.
//
// # Usage
//
//	cohort [flags] [run]   start the interpreter (default)
//	cohort init [-f]       write the current flags to config.yaml
//
// The interpreter reads the collection from the file named by COHORT_PATH.
// Its extension selects the format: .yaml, .yml, .json, .cbor, .db or
// .sqlite. A .env file in the working directory is loaded first.
//
// # Configuration
//
// Flag defaults are read from the configuration directory, for example
// ~/.config/cohort. config.json may contain comments and trailing commas;
// config.yaml holds a "config" mapping of flag names:
//
//	config:
//	  log-level: debug
//	  log-pretty: false
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/cohort/pprof)
package cli
