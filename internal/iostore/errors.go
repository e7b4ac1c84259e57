package iostore

import (
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/dictmatrix/pkg/store"
	"github.com/gnames/gn"
)

func NotFoundError(kind, id string) error {
	msg := "Cannot find %s <em>%s</em>"
	vars := []any{kind, id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s %q: %w",
			fn.Name(), kind, id, store.ErrNotFound),
	}
}

func QueryError(what string, err error) error {
	msg := "Cannot read %s from the database"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot query %s: %w", fn.Name(), what, err),
	}
}

func SaveError(kind, id string, err error) error {
	msg := "Cannot save %s <em>%s</em>"
	vars := []any{kind, id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreSaveError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot save %s %q: %w",
			fn.Name(), kind, id, err),
	}
}

func ReplaceError(dictID string, err error) error {
	msg := "Cannot replace dictionary <em>%s</em>"
	vars := []any{dictID}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.StoreReplaceError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot replace dictionary %q: %w",
			fn.Name(), dictID, err),
	}
}
