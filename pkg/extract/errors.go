package extract

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
)

func NoLanguageError() error {
	msg := "Need language for the dictionary. " +
		"Either via lime:language, xml:lang, or an explicit language"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExtractNoLanguageError,
		Msg:  msg,
		Err: fmt.Errorf("from %s: %w",
			fn.Name(), errors.New("cannot determine dictionary language")),
	}
}

// NoEntriesError reports a document without any valid entry. Its
// message lists the problems of the skipped entries.
func NoEntriesError(problems []string) error {
	msg := "No valid entries found. Errors:%s"
	vars := []any{strings.Join(problems, "\n")}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExtractNoEntriesError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w", fn.Name(),
			errors.New("No valid entries found. Errors:"+
				strings.Join(problems, "\n"))),
	}
}
