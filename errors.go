package fatdir

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// Kind identifies the variant of an Error.
type Kind uint8

// All kinds an Error may have. KindIo is the only kind which wraps an error
// of the underlying storage.
const (
	KindIo Kind = iota
	KindUnexpectedEOF
	KindWriteZero
	KindInvalidInput
	KindNotFound
	KindAlreadyExists
	KindDirectoryIsNotEmpty
	KindCorruptedFileSystem
	KindNotEnoughSpace
	KindInvalidFileNameLength
	KindUnsupportedFileNameCharacter
)

var kindNames = [...]string{
	KindIo:                           "i/o error",
	KindUnexpectedEOF:                "unexpected end of file",
	KindWriteZero:                    "write zero",
	KindInvalidInput:                 "invalid input",
	KindNotFound:                     "not found",
	KindAlreadyExists:                "already exists",
	KindDirectoryIsNotEmpty:          "directory is not empty",
	KindCorruptedFileSystem:          "corrupted file system",
	KindNotEnoughSpace:               "not enough space",
	KindInvalidFileNameLength:        "invalid file name length",
	KindUnsupportedFileNameCharacter: "unsupported file name character",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Class is the generic classification of an error used by host file system
// APIs.
type Class uint8

const (
	ClassOther Class = iota
	ClassNotFound
	ClassAlreadyExists
	ClassInvalidInput
)

// Class maps the kind to one of the four host classes.
// KindIo is always ClassOther here, use ClassOf to inspect the wrapped error.
func (k Kind) Class() Class {
	switch k {
	case KindNotFound:
		return ClassNotFound
	case KindAlreadyExists:
		return ClassAlreadyExists
	case KindInvalidInput, KindInvalidFileNameLength, KindUnsupportedFileNameCharacter, KindDirectoryIsNotEmpty:
		return ClassInvalidInput
	default:
		return ClassOther
	}
}

// sentinel returns the io/fs error matching the class, or nil for ClassOther.
func (c Class) sentinel() error {
	switch c {
	case ClassNotFound:
		return fs.ErrNotExist
	case ClassAlreadyExists:
		return fs.ErrExist
	case ClassInvalidInput:
		return fs.ErrInvalid
	default:
		return nil
	}
}

// Error is the error type returned by every directory operation.
// Err holds the storage error for KindIo and optional detail for all other kinds.
type Error struct {
	Kind Kind
	Err  error
}

// These errors can be used with errors.Is to check the kind of an error.
var (
	ErrUnexpectedEOF                = &Error{Kind: KindUnexpectedEOF}
	ErrWriteZero                    = &Error{Kind: KindWriteZero}
	ErrInvalidInput                 = &Error{Kind: KindInvalidInput}
	ErrNotFound                     = &Error{Kind: KindNotFound}
	ErrAlreadyExists                = &Error{Kind: KindAlreadyExists}
	ErrDirectoryIsNotEmpty          = &Error{Kind: KindDirectoryIsNotEmpty}
	ErrCorruptedFileSystem          = &Error{Kind: KindCorruptedFileSystem}
	ErrNotEnoughSpace               = &Error{Kind: KindNotEnoughSpace}
	ErrInvalidFileNameLength        = &Error{Kind: KindInvalidFileNameLength}
	ErrUnsupportedFileNameCharacter = &Error{Kind: KindUnsupportedFileNameCharacter}
)

// NewIoError wraps an error returned by the storage.
// It returns nil if err is nil and err itself if it already is an *Error.
func NewIoError(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindIo, Err: err}
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

// Unwrap returns the wrapped error and the io/fs sentinel of the error's class.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Kind != KindIo {
		if s := e.Kind.Class().sentinel(); s != nil {
			errs = append(errs, s)
		}
	}
	return errs
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Err == nil || errors.Is(e.Err, t.Err))
}

// Interrupted reports whether the error is a storage error which was only
// interrupted and may succeed when retried. It is always false for kinds other than KindIo.
func (e *Error) Interrupted() bool {
	if e.Kind != KindIo || e.Err == nil {
		return false
	}
	var ie interface{ Interrupted() bool }
	if errors.As(e.Err, &ie) {
		return ie.Interrupted()
	}
	return errors.Is(e.Err, syscall.EINTR)
}

// Interrupted reports whether err is an interrupted storage error.
func Interrupted(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Interrupted()
	}
	return false
}

// ClassOf returns the host class of any error. Errors which are no *Error and
// wrapped storage errors are classified by the io/fs sentinel they match.
func ClassOf(err error) Class {
	if err == nil {
		return ClassOther
	}
	var e *Error
	if errors.As(err, &e) && e.Kind != KindIo {
		return e.Kind.Class()
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ClassNotFound
	case errors.Is(err, fs.ErrExist):
		return ClassAlreadyExists
	case errors.Is(err, fs.ErrInvalid):
		return ClassInvalidInput
	default:
		return ClassOther
	}
}

// ToHost converts err to an error suitable for host file system APIs:
// the io/fs sentinel of its class (fs.ErrNotExist, fs.ErrExist, fs.ErrInvalid)
// or, for the other class, the wrapped storage error or err itself.
func ToHost(err error) error {
	if err == nil {
		return nil
	}
	if s := ClassOf(err).sentinel(); s != nil {
		return s
	}
	var e *Error
	if errors.As(err, &e) && e.Kind == KindIo && e.Err != nil {
		return e.Err
	}
	return err
}
