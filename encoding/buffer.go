// Copyright (c) 2019 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package encoding

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/uber-go/tally"

	"github.com/m3db/protoenc/alloc"
	"github.com/m3db/protoenc/wire"
)

const defaultInitialCapacity = 128

// encodeBuffer is a single growable allocation written back to front.
// buf is the whole allocation, ptr the index of the first live byte;
// bytes written so far occupy buf[ptr:]. Writing backwards lets nested
// length prefixes be emitted after their payloads in a single pass.
type encodeBuffer struct {
	allocator   alloc.Allocator
	minCapacity int
	grows       tally.Counter

	buf []byte
	ptr int
}

func (e *encodeBuffer) used() int {
	return len(e.buf) - e.ptr
}

// reserve guarantees n free bytes below ptr and claims them: on return
// the caller owns buf[ptr : ptr+n].
func (e *encodeBuffer) reserve(n int) error {
	if e.ptr < n {
		if err := e.grow(n); err != nil {
			return err
		}
	}
	e.ptr -= n
	return nil
}

func (e *encodeBuffer) grow(n int) error {
	used := e.used()
	newCap := e.minCapacity
	if newCap <= 0 {
		newCap = defaultInitialCapacity
	}
	for newCap < used+n {
		newCap *= 2
	}

	newBuf, err := e.allocator.Realloc(e.buf, newCap)
	if err != nil {
		return errors.Wrap(err, "protoenc: growing encode buffer")
	}

	// Realloc leaves prior contents at the front of the new allocation;
	// live bytes must sit at the end so their position relative to the
	// limit is preserved.
	oldLen := len(e.buf)
	copy(newBuf[newCap-used:], newBuf[e.ptr:oldLen])
	e.buf = newBuf
	e.ptr = newCap - used
	if e.grows != nil {
		e.grows.Inc(1)
	}
	return nil
}

func (e *encodeBuffer) putBytes(data []byte) error {
	if err := e.reserve(len(data)); err != nil {
		return err
	}
	copy(e.buf[e.ptr:], data)
	return nil
}

func (e *encodeBuffer) putFixed32(v uint32) error {
	if err := e.reserve(4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(e.buf[e.ptr:], v)
	return nil
}

func (e *encodeBuffer) putFixed64(v uint64) error {
	if err := e.reserve(8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(e.buf[e.ptr:], v)
	return nil
}

// putVarint reserves the maximum varint width, encodes forward into the
// reserved region, then slides the encoding down to abut the bytes
// already written.
func (e *encodeBuffer) putVarint(v uint64) error {
	if err := e.reserve(wire.MaxVarintLen); err != nil {
		return err
	}
	n := wire.PutVarint(e.buf[e.ptr:], v)
	start := e.ptr + wire.MaxVarintLen - n
	copy(e.buf[start:], e.buf[e.ptr:e.ptr+n])
	e.ptr = start
	return nil
}

func (e *encodeBuffer) putTag(fieldNum int32, wireType int) error {
	return e.putVarint(wire.Tag(fieldNum, wireType))
}

// bytes returns the encoded contents. The slice aliases the buffer's
// allocation; ownership passes to the caller.
func (e *encodeBuffer) bytes() []byte {
	return e.buf[e.ptr:]
}
