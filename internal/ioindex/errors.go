package ioindex

import (
	"fmt"
	"runtime"

	"github.com/Don-Green-Here/npdb/pkg/errcode"
	"github.com/gnames/gn"
)

func RebuildError(symbol string, err error) error {
	msg := "Cannot rebuild filter index for %s"
	vars := []any{symbol}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IndexRebuildError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot rebuild index for %s: %w",
			fn, symbol, err),
	}
}

func MissingCanonicalError(symbol string) error {
	msg := "No canonical plant %s to index"
	vars := []any{symbol}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IndexMissingCanonicalError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no canonical plant %s", fn, symbol),
	}
}

func SearchError(key string, err error) error {
	msg := "Cannot search the filter index"
	var vars []any
	if key != "" {
		msg = "Bad search filter %s"
		vars = []any{key}
	}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IndexSearchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: index search: %w", fn, err),
	}
}
