package jobs

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
)

func InvalidJobError(id, reason string) error {
	msg := "Job <em>%s</em> is invalid: %s"
	vars := []any{id, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.JobInvalidError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: invalid job %s: %w",
			fn.Name(), id, errors.New(reason)),
	}
}
