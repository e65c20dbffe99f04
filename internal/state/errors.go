package state

import (
	"errors"
)

// Error kinds. Every failure returned by the facade wraps exactly one.
var (
	ErrDirectoryResolution = errors.New("cannot resolve app data directory")
	ErrDirectoryCreation   = errors.New("cannot create directory")
	ErrWrite               = errors.New("write failed")
	ErrRead                = errors.New("read failed")
	ErrNotFound            = errors.New("not found")
	ErrEnumeration         = errors.New("cannot enumerate directory")
	ErrInvalidPath         = errors.New("invalid path")
)

// Error carries the command, the kind and the path of a failed operation
// together with the underlying OS error.
type Error struct {
	Op   string // command name, e.g. "save_screenshot"
	Kind error  // one of the Err* kinds above
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op string, kind error, path string, err error) *Error {
	return &Error{Op: op, Kind: kind, Path: path, Err: err}
}

// Code is a stable, machine-readable error category for the host boundary.
type Code string

const (
	CodeUnknown             Code = "UNKNOWN"
	CodeDirectoryResolution Code = "DIRECTORY_RESOLUTION"
	CodeDirectoryCreation   Code = "DIRECTORY_CREATION"
	CodeWrite               Code = "WRITE"
	CodeRead                Code = "READ"
	CodeNotFound            Code = "NOT_FOUND"
	CodeEnumeration         Code = "ENUMERATION"
	CodeInvalidPath         Code = "INVALID_PATH"
)

var codes = []struct {
	kind error
	code Code
}{
	{ErrNotFound, CodeNotFound},
	{ErrInvalidPath, CodeInvalidPath},
	{ErrDirectoryResolution, CodeDirectoryResolution},
	{ErrDirectoryCreation, CodeDirectoryCreation},
	{ErrWrite, CodeWrite},
	{ErrRead, CodeRead},
	{ErrEnumeration, CodeEnumeration},
}

// CodeOf returns the Code for err, or CodeUnknown if err wraps no kind.
func CodeOf(err error) Code {
	if err == nil {
		return CodeUnknown
	}
	var se *Error
	if errors.As(err, &se) {
		for _, c := range codes {
			if se.Kind == c.kind {
				return c.code
			}
		}
	}
	for _, c := range codes {
		if errors.Is(err, c.kind) {
			return c.code
		}
	}
	return CodeUnknown
}
