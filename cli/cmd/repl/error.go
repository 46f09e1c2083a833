package repl

import "github.com/ardnew/dumbo/lang"

// Sentinel errors.
var (
	ErrOutOfBounds    = lang.NewError("history index out of range")
	ErrEditDeclined   = lang.NewError("decline edit")
	ErrUnknownCommand = lang.NewError("unknown command")
	ErrUsage          = lang.NewError("usage")
	ErrUndefinedName  = lang.NewError("no such binding")
)
