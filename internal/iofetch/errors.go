package iofetch

import (
	"fmt"
	"runtime"

	"github.com/Don-Green-Here/npdb/pkg/errcode"
	"github.com/gnames/gn"
)

func LedgerError(op string, err error) error {
	msg := "Cannot %s fetch ledger row"
	vars := []any{op}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchLedgerError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: ledger %s failed: %w",
			fn, op, err),
	}
}

func NotFoundError(id int64) error {
	msg := "Fetch %d does not exist"
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: fetch %d not found", fn, id),
	}
}

func UnknownStateError(code string) error {
	msg := "State %s is not in the registry"
	vars := []any{code}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StatesUnknownStateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown state %q", fn, code),
	}
}

func TransportError(url, reason string) error {
	msg := "Cannot retrieve %s"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchTransportError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot retrieve %s: %s",
			fn, url, reason),
	}
}

func HTTPStatusError(url string, status int) error {
	msg := "Got HTTP %d from %s"
	vars := []any{status, url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FetchTransportError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: got HTTP %d from %s",
			fn, status, url),
	}
}

func PageURLError(symbol, pageType string, err error) error {
	msg := "Cannot build page URL for %s/%s"
	vars := []any{symbol, pageType}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TraitPageURLError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot build page URL: %w",
			fn, err),
	}
}
