package iodispatch

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
)

func ClosedError(kind, id string) error {
	msg := "Cannot accept %s job <em>%s</em>, the queue is closed"
	vars := []any{kind, id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DispatchClosedError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w", fn.Name(),
			errors.New("dispatcher is closed")),
	}
}

func TimeoutError(kind, id string, timeout time.Duration) error {
	msg := "The %s job <em>%s</em> did not finish in %s"
	vars := []any{kind, id, timeout}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DispatchTimeoutError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: job %s killed after %s",
			fn.Name(), id, timeout),
	}
}

func ChildError(kind, id, stderr string, err error) error {
	msg := "The %s job <em>%s</em> failed"
	vars := []any{kind, id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DispatchChildError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: worker process: %s: %w",
			fn.Name(), stderr, err),
	}
}
