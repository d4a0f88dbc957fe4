package cmd

import "github.com/ardnew/hbind/lang/bind"

// Predefined errors (sentinel values).
var (
	ErrCreateDir     = bind.NewError("create directory")
	ErrOpenData      = bind.NewError("open data file")
	ErrDecodeData    = bind.NewError("decode data")
	ErrMergeData     = bind.NewError("cannot merge non-map data")
	ErrDataFormat    = bind.NewError("unsupported data format")
	ErrStdinConflict = bind.NewError("stdin cannot supply both template and data")
	ErrStdinRepl     = bind.NewError("stdin is read by the REPL and cannot supply data")
	ErrOpenTemplate  = bind.NewError("open template")
	ErrWriteOutput   = bind.NewError("write output")
	ErrUndefined     = bind.NewError("path is undefined")
	ErrMarshal       = bind.NewError("marshal result")
)
