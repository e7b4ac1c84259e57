package iofederation

import (
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
)

func RequestError(url string, err error) error {
	msg := "Request to <em>%s</em> failed"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FederationRequestError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: GET %s: %w", fn.Name(), url, err),
	}
}

func StatusError(url string, status int) error {
	msg := "Remote service returned status %d for <em>%s</em>"
	vars := []any{status, url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FederationStatusError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: GET %s: status %d", fn.Name(), url, status),
	}
}

func DecodeError(url string, err error) error {
	msg := "Cannot decode the response of <em>%s</em>"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FederationDecodeError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: decode %s: %w", fn.Name(), url, err),
	}
}

func NoFormatError(dictID, entryID string, err error) error {
	msg := "Cannot fetch entry <em>%s/%s</em> in any format"
	vars := []any{dictID, entryID}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	if err == nil {
		err = fmt.Errorf("no formats advertised")
	}
	return &gn.Error{
		Code: errcode.FederationNoFormatError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: entry %s/%s: %w",
			fn.Name(), dictID, entryID, err),
	}
}
