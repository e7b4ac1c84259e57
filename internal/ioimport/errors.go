package ioimport

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/gn"
)

func JobStateError(id string, state jobs.ImportState) error {
	msg := "Import job <em>%s</em> is %s, expected %s"
	vars := []any{id, state, jobs.Scheduled}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportJobStateError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: job %s: unexpected state %s",
			fn.Name(), id, state),
	}
}

func DownloadError(url string, err error) error {
	msg := "Cannot download <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportDownloadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: download %s: %w", fn.Name(), url, err),
	}
}

func SizeMismatchError(url string, expected, got int64) error {
	msg := "Download of <em>%s</em> is incomplete: %d of %d bytes"
	vars := []any{url, got, expected}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportSizeMismatchError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %s: expected %d bytes, got %d",
			fn.Name(), url, expected, got),
	}
}

func ForbiddenError(dictID string) error {
	msg := "E403, forbidden: the access key does not own dictionary <em>%s</em>"
	vars := []any{dictID}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportForbiddenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w", fn.Name(),
			errors.New("E403, forbidden")),
	}
}

func NoEntriesError(dictID string) error {
	msg := "No entries in dictionary <em>%s</em>"
	vars := []any{dictID}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportNoEntriesError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w", fn.Name(),
			errors.New("no entries in dictionary")),
	}
}
