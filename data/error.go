package data

import "github.com/ardnew/dumbo/lang"

// Sentinel errors. Each is a [*lang.Error] and carries structured attributes
// when returned.
var (
	ErrUnsupportedValue = lang.NewError("unsupported data value")
	ErrInvalidName      = lang.NewError("invalid variable name")
	ErrNotMapping       = lang.NewError("data document is not a mapping")
	ErrDecode           = lang.NewError("decode data document")
	ErrNotLiteral       = lang.NewError("data value must be a literal")
	ErrStrayText        = lang.NewError("text outside data block")
	ErrExpression       = lang.NewError("evaluate expression")
)
