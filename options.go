package fatdir

import (
	"time"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DefaultMaxDepth is the default maximum number of path components a path
// may have to be resolved.
const DefaultMaxDepth = 64

type options struct {
	maxDepth      int
	codePage      encoding.Encoding
	retryAttempts uint
	retryDelay    time.Duration
	skipChecks    bool
}

// Option configures a Volume or a Dir created with NewDir.
type Option func(*options)

func defaultOptions() options {
	return options{
		maxDepth:      DefaultMaxDepth,
		codePage:      charmap.CodePage437,
		retryAttempts: 3,
		retryDelay:    time.Millisecond,
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMaxDepth limits the number of path components Dir.Find resolves.
// A depth <= 0 disables the limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithCodePage sets the OEM code page used to decode short names.
// The default is code page 437, which is the identity for ASCII names.
func WithCodePage(enc encoding.Encoding) Option {
	return func(o *options) {
		if enc != nil {
			o.codePage = enc
		}
	}
}

// WithRetry sets how often a read of the storage is attempted if it fails
// with an interrupted error. Attempts <= 1 disables retrying.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(o *options) {
		o.retryAttempts = attempts
		o.retryDelay = delay
	}
}

// WithSkipChecks skips some filesystem validations when opening a Volume which
// may allow you to open not perfectly standard FAT filesystems.
// Use with caution!
func WithSkipChecks() Option {
	return func(o *options) {
		o.skipChecks = true
	}
}
