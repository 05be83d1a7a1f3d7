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
	"github.com/m3db/protoenc/alloc"
	"github.com/m3db/protoenc/instrument"
)

// Options represents the options for the encoder.
type Options interface {
	// SetAllocator sets the allocator encode buffers grow through.
	SetAllocator(value alloc.Allocator) Options

	// Allocator returns the allocator encode buffers grow through.
	Allocator() alloc.Allocator

	// SetInitialCapacity sets the capacity of the first buffer growth.
	SetInitialCapacity(value int) Options

	// InitialCapacity returns the capacity of the first buffer growth.
	InitialCapacity() int

	// SetInstrumentOptions sets the instrumentation options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrumentation options.
	InstrumentOptions() instrument.Options
}

type options struct {
	allocator       alloc.Allocator
	initialCapacity int
	iopts           instrument.Options
}

// NewOptions creates new encoder options with a heap allocator and the
// default initial buffer capacity.
func NewOptions() Options {
	return &options{
		allocator:       alloc.NewHeapAllocator(),
		initialCapacity: defaultInitialCapacity,
		iopts:           instrument.NewOptions(),
	}
}

func (o *options) SetAllocator(value alloc.Allocator) Options {
	opts := *o
	opts.allocator = value
	return &opts
}

func (o *options) Allocator() alloc.Allocator {
	return o.allocator
}

func (o *options) SetInitialCapacity(value int) Options {
	opts := *o
	opts.initialCapacity = value
	return &opts
}

func (o *options) InitialCapacity() int {
	return o.initialCapacity
}

func (o *options) SetInstrumentOptions(value instrument.Options) Options {
	opts := *o
	opts.iopts = value
	return &opts
}

func (o *options) InstrumentOptions() instrument.Options {
	return o.iopts
}
