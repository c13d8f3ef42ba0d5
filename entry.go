// Copyright 2022 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package nrbf

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/saferwall/nrbf/log"
)

// Parse deserializes an in-memory .NET Remoting Binary Format stream into a
// RemotingMessage. The returned value owns its own copies of every string
// and byte-derived field, so data may be reused or discarded once Parse
// returns.
func Parse(data []byte, opts ...Option) (*RemotingMessage, error) {
	o := newOptions(opts...)
	helper := log.NewHelper(o.Logger)
	p := newParser(data, o.MaxDepth)
	msg, err := p.parseRemotingMessage()
	if err != nil {
		helper.Debugf("nrbf: parse failed at offset %d: %v", p.d.offset(), err)
		return nil, err
	}
	return msg, nil
}

// Open memory-maps the file at name and parses it as a .NET Remoting Binary
// Format stream. The file is unmapped before Open returns, which is safe
// because Parse always copies string and primitive data out of the
// underlying buffer.
func Open(name string, opts ...Option) (*RemotingMessage, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer data.Unmap()

	return Parse(data, opts...)
}
