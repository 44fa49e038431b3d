package ioschema

import (
	"fmt"
	"runtime"

	"github.com/Don-Green-Here/npdb/pkg/errcode"
	"github.com/gnames/gn"
)

func NotConnectedError() error {
	msg := "Database is not connected"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: database is not connected", fn),
	}
}

func GORMConnectionError(err error) error {
	msg := "Cannot initialize GORM over the database pool"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot open gorm: %w", fn, err),
	}
}

func CreateSchemaError(err error) error {
	msg := "Cannot create database schema"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot create schema: %w", fn, err),
	}
}

func MigrateSchemaError(err error) error {
	msg := "Cannot migrate database schema"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot migrate schema: %w", fn, err),
	}
}

func ConstraintError(stmt string, err error) error {
	msg := "Cannot apply schema constraint"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaConstraintError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: cannot apply %q: %w",
			fn, stmt, err),
	}
}

func CollationError(table, column string, err error) error {
	msg := "Cannot set collation on %s.%s"
	vars := []any{table, column}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaCollationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot set collation on %s.%s: %w",
			fn, table, column, err),
	}
}

func SeedStatesError(code string, err error) error {
	msg := "Cannot seed state %s"
	vars := []any{code}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SchemaSeedStatesError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot seed state %s: %w",
			fn, code, err),
	}
}
