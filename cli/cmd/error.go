package cmd

import "github.com/ardnew/cohort/pkg"

var (
	ErrWriteConfig   = pkg.NewError(pkg.ClassStorage, "write configuration file")
	ErrFileExists    = pkg.NewError(pkg.ClassArgument, "file exists (use --force to overwrite)")
	ErrNoCommandLine = pkg.NewError(pkg.ClassBuild, "command line not parsed")
)
