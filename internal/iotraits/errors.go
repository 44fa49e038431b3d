package iotraits

import (
	"fmt"
	"runtime"

	"github.com/Don-Green-Here/npdb/pkg/errcode"
	"github.com/gnames/gn"
)

func StatusError(symbol, pageType string, err error) error {
	msg := "Cannot update page status for %s/%s"
	vars := []any{symbol, pageType}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TraitStatusError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot update page status: %w",
			fn, err),
	}
}

func ExtractError(fetchID int64, err error) error {
	msg := "Cannot extract traits from fetch %d"
	vars := []any{fetchID}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TraitExtractError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot extract traits: %w",
			fn, err),
	}
}

func NormalizeError(symbol string, err error) error {
	msg := "Cannot normalize traits for %s"
	vars := []any{symbol}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TraitNormalizeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot normalize traits for %s: %w",
			fn, symbol, err),
	}
}

func QueryError(err error) error {
	msg := "Cannot query trait data"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TraitExtractError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot query traits: %w", fn, err),
	}
}
