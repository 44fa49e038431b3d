package ioexport

import (
	"fmt"
	"runtime"

	"github.com/Don-Green-Here/npdb/pkg/errcode"
	"github.com/gnames/gn"
)

func OpenError(path string, err error) error {
	msg := "Cannot open snapshot file %s"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open snapshot %s: %w",
			fn, path, err),
	}
}

func WriteError(what string, err error) error {
	msg := "Cannot write snapshot data for %s"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write snapshot %s: %w",
			fn, what, err),
	}
}
