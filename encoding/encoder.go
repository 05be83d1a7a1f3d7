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

// Package encoding implements a one-pass serializer for the protobuf
// binary wire format. Output is produced back to front so that the length
// prefix of every nested message can be written after its payload without
// a separate sizing pass.
package encoding

import (
	"errors"

	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/m3db/protoenc/alloc"
	"github.com/m3db/protoenc/message"
	"github.com/m3db/protoenc/schema"
)

var errNilMessage = errors.New("protoenc: cannot encode a nil top-level message")

// emptyResult distinguishes "encoded to nothing" from failure at the
// public boundary: an empty encode returns this non-nil zero-length slice.
var emptyResult = make([]byte, 0)

// Encoder serializes messages into the protobuf binary wire format. An
// Encoder is safe for concurrent use; each Encode call works on its own
// buffer.
type Encoder struct {
	allocator  alloc.Allocator
	initialCap int
	logger     *zap.Logger
	metrics    encoderMetrics
}

type encoderMetrics struct {
	encodes      tally.Counter
	encodeErrors tally.Counter
	bufferGrows  tally.Counter
}

// NewEncoder creates a new encoder.
func NewEncoder(opts Options) *Encoder {
	if opts == nil {
		opts = NewOptions()
	}
	scope := opts.InstrumentOptions().MetricsScope().SubScope("encoder")
	return &Encoder{
		allocator:  opts.Allocator(),
		initialCap: opts.InitialCapacity(),
		logger:     opts.InstrumentOptions().Logger(),
		metrics: encoderMetrics{
			encodes:      scope.Counter("encodes"),
			encodeErrors: scope.Counter("encode-errors"),
			bufferGrows:  scope.Counter("buffer-grows"),
		},
	}
}

// Encode serializes m and returns the encoded bytes. A message that
// encodes to nothing yields a non-nil empty slice; on failure the result
// is nil and the partially written buffer is discarded.
func (enc *Encoder) Encode(m *message.Message) ([]byte, error) {
	if m == nil {
		return nil, errNilMessage
	}

	e := &encodeBuffer{
		allocator:   enc.allocator,
		minCapacity: enc.initialCap,
		grows:       enc.metrics.bufferGrows,
	}
	if _, err := encodeMessage(e, m); err != nil {
		enc.metrics.encodeErrors.Inc(1)
		enc.logger.Error("encode failed", zap.Error(err))
		return nil, err
	}

	enc.metrics.encodes.Inc(1)
	if e.used() == 0 {
		return emptyResult, nil
	}
	return e.bytes(), nil
}

// encodeMessage writes m's fields and returns the number of bytes it
// wrote, which callers use as the delimited length prefix. A nil message
// writes nothing.
//
// Fields are visited in reverse declared order so the finished stream
// reads in ascending field order. The wire format does not require this,
// but some consumers expect it.
func encodeMessage(e *encodeBuffer, m *message.Message) (int, error) {
	if m == nil {
		return 0, nil
	}

	var (
		l     = m.Layout()
		start = e.used()
	)
	for i := l.NumFields() - 1; i >= 0; i-- {
		f := l.FieldAt(i)
		if f.Repeated {
			if err := encodeArray(e, m.ArrayAt(i), f); err != nil {
				return 0, err
			}
			continue
		}
		if !scalarFieldPresent(m, l, i, f) {
			continue
		}
		if err := encodeScalar(e, m, i, f, !l.Proto2()); err != nil {
			return 0, err
		}
	}
	return e.used() - start, nil
}

// scalarFieldPresent resolves presence for a singular field: the oneof
// discriminator decides for oneof members, the explicit presence flag for
// proto2 fields. Proto3 fields are always considered present here and
// rely on zero-value elision at write time.
func scalarFieldPresent(m *message.Message, l *schema.Layout, i int, f schema.Field) bool {
	if f.OneofIndex != schema.NoOneof {
		return m.Case(f.OneofIndex) == f.Number
	}
	if l.Proto2() {
		return m.Present(i)
	}
	return true
}
