package repl

import "github.com/ardnew/hbind/lang/bind"

// Predefined errors (sentinel values).
var (
	ErrOutOfBounds  = bind.NewError("history index out of range")
	ErrEditDeclined = bind.NewError("decline edit")
	ErrAtRoot       = bind.NewError("already at the root scope")
	ErrNoScope      = bind.NewError("scope path is undefined")
)
