package jobs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/gn"
)

var emTags = strings.NewReplacer("<em>", "", "</em>", "")

// Diagnostic renders an error into the text stored on a failed job:
// the user message of the outermost gn.Error, if any, followed by the
// chain of wrapped errors.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	var gnErr *gn.Error
	if !errors.As(err, &gnErr) {
		return err.Error()
	}
	msg := emTags.Replace(fmt.Sprintf(gnErr.Msg, gnErr.Vars...))
	if gnErr.Err == nil {
		return msg
	}
	return msg + "\n" + gnErr.Err.Error()
}
