// Package shell runs the interpreter session.
//
// A [Session] reads lines from a [console.Input], dispatches each one through
// a [command.Tree] holding the study group commands, and prints results to a
// [console.Output]. Errors from a line are reported and the loop continues.
// The loop ends on end of input or when the exit command stops the session.
//
// Scripts run through the same tree. While a script runs, commands that ask
// for field values read them from the following script lines.
package shell
