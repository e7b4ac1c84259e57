package iolink

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/dictmatrix/pkg/jobs"
	"github.com/gnames/gn"
)

func JobStateError(id string, state jobs.LinkingState) error {
	msg := "Linking job <em>%s</em> is %s, expected %s"
	vars := []any{id, state, jobs.Processing}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LinkingJobStateError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: job %s: unexpected state %s",
			fn.Name(), id, state),
	}
}

func NoBackendError(target string) error {
	msg := "No linking service is configured for target <em>%s</em>"
	vars := []any{target}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LinkingNoBackendError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w", fn.Name(),
			errors.New("no linking backend")),
	}
}

func DictNotFoundError(dictID string, err error) error {
	msg := "Dictionary <em>%s</em> not found here"
	vars := []any{dictID}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LinkingDictNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: dictionary %s: %w", fn.Name(), dictID, err),
	}
}

func ExecError(exe, stderr string, err error) error {
	msg := "Linking executable <em>%s</em> failed"
	vars := []any{exe}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	if stderr != "" {
		err = fmt.Errorf("%w\n%s", err, stderr)
	}
	return &gn.Error{
		Code: errcode.LinkingExecError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), exe, err),
	}
}

func RemoteError(url string, err error) error {
	msg := "Linking service <em>%s</em> failed"
	vars := []any{url}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LinkingRemoteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %s: %w", fn.Name(), url, err),
	}
}
