// Package checkpoint decorates errors with the location they passed through,
// which results in something similar to a stacktrace.
// Each error added to a checkpoint can be checked by errors.Is and retrieved by errors.As.
package checkpoint

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
)

// From wraps err by a checkpoint at the location of the caller.
// It returns nil if err is nil.
func From(err error) error {
	if err == nil || isSentinelEOF(err) {
		return err
	}
	return newCheckpoint(err, nil)
}

// Wrap adds a checkpoint for prev, described by err.
// Both errors stay visible to errors.Is and errors.As, so predefined errors
// can be used as description:
//
//	var ErrReadDir = errors.New("could not read the directory")
//
//	func readDir() error {
//		err := list()
//		return checkpoint.Wrap(err, ErrReadDir)
//	}
//
// Afterwards errors.Is(err, ErrReadDir) is true, and so is any check for the
// error returned by list.
// Wrap returns nil if prev is nil.
func Wrap(prev, err error) error {
	if prev == nil || isSentinelEOF(prev) {
		return prev
	}
	return newCheckpoint(prev, err)
}

// io.EOF and io.ErrUnexpectedEOF must be returned unwrapped as callers compare them directly.
// https://github.com/golang/go/issues/39155
func isSentinelEOF(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}

func newCheckpoint(prev, err error) *checkpoint {
	// Skip newCheckpoint and From / Wrap.
	_, file, line, ok := runtime.Caller(2)
	cp := &checkpoint{
		err:  err,
		prev: prev,
		file: "unknown",
	}
	if ok {
		cp.file = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	return cp
}

type checkpoint struct {
	// err describes the checkpoint and may be nil.
	err  error
	prev error
	file string
}

func (c *checkpoint) Error() string {
	if c.err == nil {
		return c.prev.Error()
	}
	return c.err.Error() + ": " + c.prev.Error()
}

func (c *checkpoint) Unwrap() []error {
	if c.err == nil {
		return []error{c.prev}
	}
	return []error{c.err, c.prev}
}

// Trace returns one line per checkpoint err passed, outermost first,
// each with the location and the description of the checkpoint.
func Trace(err error) []string {
	var lines []string
	for err != nil {
		var cp *checkpoint
		if !errors.As(err, &cp) {
			break
		}
		desc := "-"
		if cp.err != nil {
			desc = cp.err.Error()
		}
		lines = append(lines, cp.file+": "+desc)
		err = cp.prev
	}
	return lines
}

// Format is like Error but adds the trace of all checkpoints when used with %+v.
func (c *checkpoint) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n\t%s", c.Error(), strings.Join(Trace(c), "\n\t"))
		return
	}
	fmt.Fprint(s, c.Error())
}
