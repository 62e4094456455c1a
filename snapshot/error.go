package snapshot

import "github.com/ardnew/cohort/pkg"

var (
	ErrUnknownFormat = pkg.NewError(pkg.ClassStorage, "unknown snapshot format")
	ErrRead          = pkg.NewError(pkg.ClassStorage, "read snapshot")
	ErrWrite         = pkg.NewError(pkg.ClassStorage, "write snapshot")
	ErrDecode        = pkg.NewError(pkg.ClassStorage, "decode snapshot")
	ErrEncode        = pkg.NewError(pkg.ClassStorage, "encode snapshot")
)
