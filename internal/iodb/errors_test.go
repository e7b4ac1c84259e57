package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/dictmatrix/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("postgres", "u@localhost:5432/db", originalErr)
	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Equal(t, []any{"postgres", "u@localhost:5432/db"}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

func TestErrorCodes(t *testing.T) {
	orig := errors.New("boom")
	tests := []struct {
		msg  string
		err  error
		code gn.ErrorCode
	}{
		{"driver", UnknownDriverError("mysql"), errcode.DBUnknownDriverError},
		{"not connected", NotConnectedError(), errcode.DBNotConnectedError},
		{"tables", QueryTablesError(orig), errcode.DBQueryTablesError},
		{"drop", DropTableError("entries", orig), errcode.DBDropTableError},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			gnErr, ok := v.err.(*gn.Error)
			require.True(t, ok)
			assert.Equal(t, v.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
		})
	}
}
