package tree

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
)

func ParseError(err error) error {
	msg := "Cannot parse XML document"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TreeParseError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: cannot parse XML: %w", fn.Name(), err),
	}
}

func EmptyDocumentError() error {
	msg := "XML document has no root element"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TreeEmptyDocumentError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("no root element")),
	}
}
