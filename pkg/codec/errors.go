package codec

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
)

func JSONLDError(id string, err error) error {
	msg := "Cannot convert entry <em>%s</em> to JSON-LD"
	vars := []any{id}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CodecJSONLDError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: json-ld of %s: %w", fn.Name(), id, err),
	}
}

func TurtleError(err error) error {
	msg := "Cannot serialize entries as Turtle"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CodecTurtleError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: turtle: %w", fn.Name(), err),
	}
}

func NaiscOutputError(line int, text, reason string) error {
	msg := "Malformed linking output at line %d: %s"
	vars := []any{line, reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CodecNaiscOutputError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: line %d %q: %w",
			fn.Name(), line, text, errors.New(reason)),
	}
}
