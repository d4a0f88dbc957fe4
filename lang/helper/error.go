package helper

import "github.com/ardnew/hbind/lang/bind"

// Errors returned by the built-in helpers.
var (
	ErrArgs    = bind.NewError("wrong number of helper arguments")
	ErrArgType = bind.NewError("invalid helper argument type")
	ErrEval    = bind.NewError("expression evaluation failed")
	ErrJQ      = bind.NewError("jq query failed")
)
