package ioingest

import (
	"fmt"
	"runtime"

	"github.com/Don-Green-Here/npdb/pkg/errcode"
	"github.com/gnames/gn"
)

func UnusableFetchError(fetchID int64, reason string) error {
	msg := "Fetch %d cannot be ingested: %s"
	vars := []any{fetchID, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestFetchUnusableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: fetch %d unusable: %s",
			fn, fetchID, reason),
	}
}

func InsertError(err error) error {
	msg := "Cannot insert raw checklist rows"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestInsertError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot insert raw rows: %w",
			fn, err),
	}
}
