package iocanon

import (
	"fmt"
	"runtime"

	"github.com/Don-Green-Here/npdb/pkg/errcode"
	"github.com/gnames/gn"
)

func MergeError(fetchID int64, err error) error {
	msg := "Cannot canonicalize fetch %d"
	vars := []any{fetchID}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CanonMergeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot canonicalize fetch %d: %w",
			fn, fetchID, err),
	}
}

func QueryError(err error) error {
	msg := "Cannot query canonical plants"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CanonQueryError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot query canonical data: %w",
			fn, err),
	}
}
