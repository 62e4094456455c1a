package shell

import "github.com/ardnew/cohort/pkg"

var (
	ErrRunning        = pkg.NewError(pkg.ClassRuntime, "session already running")
	ErrInputClosed    = pkg.NewError(pkg.ClassRuntime, "input ended")
	ErrNullField      = pkg.NewError(pkg.ClassRuntime, "value can't be null")
	ErrInvalidInput   = pkg.NewError(pkg.ClassRuntime, "incorrect input format")
	ErrInvalidPattern = pkg.NewError(pkg.ClassRuntime, "invalid regular expression")
	ErrInvalidExpr    = pkg.NewError(pkg.ClassRuntime, "invalid filter expression")
	ErrInvalidCount   = pkg.NewError(pkg.ClassRuntime, "count must be greater than 0")
	ErrScriptNotFound = pkg.NewError(pkg.ClassRuntime, "script not found")
	ErrScriptCycle    = pkg.NewError(pkg.ClassRuntime, "script is already executing")
	ErrScriptDepth    = pkg.NewError(pkg.ClassRuntime, "script nesting too deep")
)
