package iodb

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when a database cannot be opened.
func ConnectionError(driver, target string, err error) error {
	msg := `Cannot connect to <em>%s</em> database <em>%s</em>

Check the database section of config.yaml or DICTMATRIX_DATABASE_*
environment variables.`
	vars := []any{driver, target}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot connect to %s %s: %w",
			fn.Name(), driver, target, err),
	}
}

func UnknownDriverError(driver string) error {
	msg := "Unknown database driver <em>%s</em>, use sqlite or postgres"
	vars := []any{driver}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBUnknownDriverError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("unknown driver "+driver)),
	}
}

func NotConnectedError() error {
	msg := "Database is not connected"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("not connected")),
	}
}

func QueryTablesError(err error) error {
	msg := "Cannot list database tables"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: list tables: %w", fn.Name(), err),
	}
}

func DropTableError(table string, err error) error {
	msg := "Cannot drop table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: drop %s: %w", fn.Name(), table, err),
	}
}
