package command

import "github.com/ardnew/cohort/pkg"

var (
	ErrDuplicateFlag     = pkg.NewError(pkg.ClassArgument, "duplicate parameters met")
	ErrUnknownFlag       = pkg.NewError(pkg.ClassArgument, "unknown parameter option")
	ErrIncompatibleFlags = pkg.NewError(pkg.ClassArgument, "incompatible parameters met")
	ErrNoFlags           = pkg.NewError(pkg.ClassArgument, "command doesn't have parameters")
	ErrCommandNotFound   = pkg.NewError(pkg.ClassArgument, "command not found")
	ErrIncomplete        = pkg.NewError(pkg.ClassArgument, "argument wasn't provided")
	ErrTooManyArguments  = pkg.NewError(pkg.ClassArgument, "too many arguments")
	ErrDuplicateCommand  = pkg.NewError(pkg.ClassBuild, "duplicate root command")
	ErrInvalidRoot       = pkg.NewError(pkg.ClassBuild, "root command must be a literal")
)
