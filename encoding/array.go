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
	"fmt"

	dpb "github.com/golang/protobuf/protoc-gen-go/descriptor"

	"github.com/m3db/protoenc/message"
	"github.com/m3db/protoenc/schema"
	"github.com/m3db/protoenc/wire"
)

// encodeArray writes one repeated field. Numeric, bool and enum elements
// are always emitted as a single packed delimited block regardless of any
// unpacked preference in the schema. Elements are iterated last to first
// so the backward-written stream reads in original order. A nil or empty
// array contributes nothing.
func encodeArray(e *encodeBuffer, arr *message.Array, f schema.Field) error {
	if arr == nil || arr.Len() == 0 {
		return nil
	}

	n := arr.Len()
	switch f.Type {
	case dpb.FieldDescriptorProto_TYPE_DOUBLE,
		dpb.FieldDescriptorProto_TYPE_FIXED64,
		dpb.FieldDescriptorProto_TYPE_SFIXED64:
		for i := n - 1; i >= 0; i-- {
			if err := e.putFixed64(arr.Bits(i)); err != nil {
				return err
			}
		}
		if err := e.putVarint(uint64(8 * n)); err != nil {
			return err
		}

	case dpb.FieldDescriptorProto_TYPE_FLOAT,
		dpb.FieldDescriptorProto_TYPE_FIXED32,
		dpb.FieldDescriptorProto_TYPE_SFIXED32:
		for i := n - 1; i >= 0; i-- {
			if err := e.putFixed32(uint32(arr.Bits(i))); err != nil {
				return err
			}
		}
		if err := e.putVarint(uint64(4 * n)); err != nil {
			return err
		}

	case dpb.FieldDescriptorProto_TYPE_INT32,
		dpb.FieldDescriptorProto_TYPE_INT64,
		dpb.FieldDescriptorProto_TYPE_UINT32,
		dpb.FieldDescriptorProto_TYPE_UINT64,
		dpb.FieldDescriptorProto_TYPE_ENUM,
		dpb.FieldDescriptorProto_TYPE_BOOL:
		preLen := e.used()
		for i := n - 1; i >= 0; i-- {
			if err := e.putVarint(arr.Bits(i)); err != nil {
				return err
			}
		}
		if err := e.putVarint(uint64(e.used() - preLen)); err != nil {
			return err
		}

	case dpb.FieldDescriptorProto_TYPE_SINT32:
		preLen := e.used()
		for i := n - 1; i >= 0; i-- {
			if err := e.putVarint(uint64(wire.Zigzag32(int32(arr.Bits(i))))); err != nil {
				return err
			}
		}
		if err := e.putVarint(uint64(e.used() - preLen)); err != nil {
			return err
		}

	case dpb.FieldDescriptorProto_TYPE_SINT64:
		preLen := e.used()
		for i := n - 1; i >= 0; i-- {
			if err := e.putVarint(wire.Zigzag64(int64(arr.Bits(i)))); err != nil {
				return err
			}
		}
		if err := e.putVarint(uint64(e.used() - preLen)); err != nil {
			return err
		}

	case dpb.FieldDescriptorProto_TYPE_STRING,
		dpb.FieldDescriptorProto_TYPE_BYTES:
		// Never packed: one tag+length+data occurrence per element.
		for i := n - 1; i >= 0; i-- {
			view := arr.View(i)
			if err := e.putBytes(view); err != nil {
				return err
			}
			if err := e.putVarint(uint64(len(view))); err != nil {
				return err
			}
			if err := e.putTag(f.Number, wire.TypeDelimited); err != nil {
				return err
			}
		}
		return nil

	case dpb.FieldDescriptorProto_TYPE_MESSAGE:
		for i := n - 1; i >= 0; i-- {
			size, err := encodeMessage(e, arr.MessageAt(i))
			if err != nil {
				return err
			}
			if err := e.putVarint(uint64(size)); err != nil {
				return err
			}
			if err := e.putTag(f.Number, wire.TypeDelimited); err != nil {
				return err
			}
		}
		return nil

	case dpb.FieldDescriptorProto_TYPE_GROUP:
		for i := n - 1; i >= 0; i-- {
			if err := e.putTag(f.Number, wire.TypeEndGroup); err != nil {
				return err
			}
			if _, err := encodeMessage(e, arr.MessageAt(i)); err != nil {
				return err
			}
			if err := e.putTag(f.Number, wire.TypeStartGroup); err != nil {
				return err
			}
		}
		return nil

	default:
		panic(fmt.Sprintf("protoenc: unhandled repeated field type %v", f.Type))
	}

	// Single tag for the whole packed block.
	return e.putTag(f.Number, wire.TypeDelimited)
}
