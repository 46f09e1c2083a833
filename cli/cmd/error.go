package cmd

import "github.com/ardnew/dumbo/lang"

// Sentinel errors returned by commands. Each is a [*lang.Error]; use
// [errors.Is] to test for them.
var (
	ErrOpenSource    = lang.NewError("open source")
	ErrIsDirectory   = lang.NewError("is a directory")
	ErrStdinConflict = lang.NewError("stdin named by more than one input")
	ErrLoadData      = lang.NewError("load data")
	ErrParse         = lang.NewError("parse template")
	ErrBindValue     = lang.NewError("bind --set value")
	ErrRender        = lang.NewError("render template")
	ErrWriteOutput   = lang.NewError("write output")
	ErrWriteConfig   = lang.NewError("write configuration file")
	ErrFileExists    = lang.NewError("file exists (use --force to overwrite)")
	ErrNoConfigPath  = lang.NewError("configuration file path undefined")
)
