// Package console provides the line-oriented input and output used by the
// interpreter session.
//
// Two input sources exist. [Reader] scans lines from any [io.Reader] and is
// used for pipes and script files. [Terminal] runs a small bubbletea line
// editor for each line, with history navigation and fuzzy completion.
//
// [Writer] renders output lines, prompts and errors with lipgloss styles.
// Colors are dropped automatically when the destination is not a terminal.
package console
