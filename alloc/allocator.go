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

// Package alloc provides the growable-memory capability consumed by the
// encoder's output buffer.
package alloc

import (
	"errors"

	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/m3db/protoenc/instrument"
)

// ErrLimitExceeded is returned by a capped allocator when a growth request
// would exceed its byte limit.
var ErrLimitExceeded = errors.New("alloc: byte limit exceeded")

// Allocator grows byte buffers on behalf of a caller. Realloc returns a
// slice of length newCap whose front is the contents of b, or an error if
// the request cannot be satisfied. On error the original b is untouched.
type Allocator interface {
	Realloc(b []byte, newCap int) ([]byte, error)
}

type heapAllocator struct{}

// NewHeapAllocator returns an allocator backed directly by the heap. It
// never fails.
func NewHeapAllocator() Allocator {
	return heapAllocator{}
}

func (heapAllocator) Realloc(b []byte, newCap int) ([]byte, error) {
	if newCap <= len(b) {
		return b[:newCap], nil
	}
	newB := make([]byte, newCap)
	copy(newB, b)
	return newB, nil
}

type cappedAllocator struct {
	limit    int
	logger   *zap.Logger
	rejected tally.Counter
}

// NewCappedAllocator returns an allocator that refuses to grow any buffer
// beyond limit bytes, bounding the memory a single encode can consume.
func NewCappedAllocator(limit int, iopts instrument.Options) Allocator {
	if iopts == nil {
		iopts = instrument.NewOptions()
	}
	return &cappedAllocator{
		limit:    limit,
		logger:   iopts.Logger(),
		rejected: iopts.MetricsScope().Counter("alloc-rejected"),
	}
}

func (c *cappedAllocator) Realloc(b []byte, newCap int) ([]byte, error) {
	if newCap > c.limit {
		c.rejected.Inc(1)
		c.logger.Debug("allocation rejected",
			zap.Int("requested", newCap), zap.Int("limit", c.limit))
		return nil, ErrLimitExceeded
	}
	if newCap <= len(b) {
		return b[:newCap], nil
	}
	newB := make([]byte, newCap)
	copy(newB, b)
	return newB, nil
}
