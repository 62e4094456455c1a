package predicate

import "github.com/ardnew/cohort/pkg"

var (
	ErrIncorrectValue  = pkg.NewError(pkg.ClassRuntime, "incorrect value type")
	ErrNoSuchAttribute = pkg.NewError(pkg.ClassRuntime, "no such attribute")
	ErrInvalidMode     = pkg.NewError(pkg.ClassRuntime, "invalid comparison mode")
)
