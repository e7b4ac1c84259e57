package iorest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gnames/dictmatrix/pkg/store"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

var emTags = strings.NewReplacer("<em>", "", "</em>", "")

func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	enc := gnfmt.GNjson{}
	bs, err := enc.Encode(v)
	if err != nil {
		fail(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(bs)
}

func writeText(w http.ResponseWriter, status int, contentType, body string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// message is the user-facing part of an error.
func message(err error) string {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return emTags.Replace(fmt.Sprintf(gnErr.Msg, gnErr.Vars...))
	}
	return err.Error()
}


// fail answers with 404 for missing records and with 500 otherwise.
func fail(w http.ResponseWriter, err error) {
	if store.IsNotFound(err) {
		http.Error(w, message(err), http.StatusNotFound)
		return
	}
	slog.Error("Request failed", "error", err)
	http.Error(w, message(err), http.StatusInternalServerError)
}

func badRequest(w http.ResponseWriter, err error) {
	http.Error(w, message(err), http.StatusBadRequest)
}

func forbidden(w http.ResponseWriter) {
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

// intParam reads a non-negative integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	res, err := strconv.Atoi(s)
	if err != nil || res < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return res, nil
}
