package collection

import "github.com/ardnew/cohort/pkg"

var (
	ErrInvalidField = pkg.NewError(pkg.ClassRuntime, "invalid field value")
	ErrDuplicateID  = pkg.NewError(pkg.ClassRuntime, "element with such id already exists")
	ErrNoSuchID     = pkg.NewError(pkg.ClassRuntime, "collection doesn't have element with such id")
	ErrIDExhausted  = pkg.NewError(pkg.ClassRuntime, "no free id left")
	ErrNoStorage    = pkg.NewError(pkg.ClassStorage, "no storage configured")
	ErrStorage      = pkg.NewError(pkg.ClassStorage, "storage failure")
)
