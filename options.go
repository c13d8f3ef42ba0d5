// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"os"

	"github.com/saferwall/nrbf/log"
)

// defaultMaxDepth bounds recursive resolution of nested objects and arrays
// against a maliciously or accidentally deeply-nested stream.
const defaultMaxDepth = 64

// Options configures Parse and Open.
type Options struct {
	// MaxDepth caps how deeply nested objects/arrays may resolve before
	// parsing fails with ErrRecursionLimitExceeded. Zero means
	// defaultMaxDepth.
	MaxDepth int

	// Logger receives non-fatal diagnostics. Defaults to a logger that
	// discards everything below LevelError.
	Logger log.Logger
}

// Option configures an Options value.
type Option func(*Options)

// WithMaxDepth overrides the default recursion depth limit.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithLogger supplies a custom logger.
func WithLogger(logger log.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

func newOptions(opts ...Option) *Options {
	o := &Options{MaxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = defaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewFilter(log.NewStdLogger(os.Stdout), log.FilterLevel(log.LevelError))
	}
	return o
}
