package ioingest

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
)

func FileMissingError(path string, err error) error {
	msg := "Cannot open <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestFileMissingError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn.Name(), path, err),
	}
}

func TEINamespaceError(path string) error {
	msg := "TEI document <em>%s</em> does not declare the TEI namespace"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestTEINamespaceError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w", fn.Name(),
			errors.New("Could not parse TEI document, "+
				"TEI namespace is missing")),
	}
}

func NotRDFError(root string) error {
	msg := "Expected RDF/XML document, the root element is <em>%s</em>"
	vars := []any{root}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestNotRDFError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w", fn.Name(),
			fmt.Errorf("document root is %q, not RDF", root)),
	}
}

func TransformError(stylesheet string, stderr string, err error) error {
	msg := "Cannot transform TEI with <em>%s</em>"
	vars := []any{stylesheet}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestTransformError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: xslt failed: %s: %w",
			fn.Name(), stderr, err),
	}
}

func TurtleError(err error) error {
	msg := "Cannot parse Turtle document"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.IngestTurtleError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: turtle: %w", fn.Name(), err),
	}
}

func JSONError(reason string, err error) error {
	msg := "Invalid JSON dictionary: %s"
	vars := []any{reason}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	if err == nil {
		err = errors.New(reason)
	}
	return &gn.Error{
		Code: errcode.IngestJSONError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: json dictionary: %w", fn.Name(), err),
	}
}
