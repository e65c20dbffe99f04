package state

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormat(t *testing.T) {
	err := newError(OpSaveData, ErrWrite, "/data/settings.json", fs.ErrPermission)
	assert.Equal(t, "save_data: write failed: /data/settings.json: permission denied", err.Error())
}

func TestErrorFormatNoPathNoCause(t *testing.T) {
	err := newError(OpSaveScreenshot, ErrInvalidPath, "", nil)
	assert.Equal(t, "save_screenshot: invalid path", err.Error())
}

func TestErrorMatchesKindAndCause(t *testing.T) {
	err := newError(OpDeleteScreenshot, ErrNotFound, "/x", fs.ErrNotExist)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.False(t, errors.Is(err, ErrWrite))

	var se *Error
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, OpDeleteScreenshot, se.Op)
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, CodeUnknown},
		{errors.New("boom"), CodeUnknown},
		{newError(OpLoadData, ErrRead, "", nil), CodeRead},
		{newError(OpListScreenshots, ErrEnumeration, "", nil), CodeEnumeration},
		{newError(OpEnsureDataFolder, ErrDirectoryCreation, "", nil), CodeDirectoryCreation},
		{fmt.Errorf("wrapped: %w", newError(OpLoadScreenshot, ErrNotFound, "", nil)), CodeNotFound},
		{fmt.Errorf("bare: %w", ErrInvalidPath), CodeInvalidPath},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, CodeOf(c.err), "err=%v", c.err)
	}
}
