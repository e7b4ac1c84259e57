package model

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
)

func InvalidEntryError(lemma, reason string) error {
	msg := "Entry <em>%s</em> is invalid: %s"
	vars := []any{lemma, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelInvalidEntryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: invalid entry %q: %w",
			fn.Name(), lemma, errors.New(reason)),
	}
}

func InvalidMetaError(reason string) error {
	msg := "Dictionary metadata is invalid: %s"
	vars := []any{reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ModelInvalidMetaError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: invalid metadata: %w",
			fn.Name(), errors.New(reason)),
	}
}
