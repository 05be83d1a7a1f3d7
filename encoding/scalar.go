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
	"math"

	dpb "github.com/golang/protobuf/protoc-gen-go/descriptor"

	"github.com/m3db/protoenc/message"
	"github.com/m3db/protoenc/schema"
	"github.com/m3db/protoenc/wire"
)

// encodeScalar writes one singular field as payload then tag, which reads
// as tag then payload in the finished stream. Zero-value elision applies
// only to proto3 fields outside of oneofs; presence for everything else
// was already resolved by the caller.
func encodeScalar(
	e *encodeBuffer,
	m *message.Message,
	i int,
	f schema.Field,
	proto3 bool,
) error {
	skipZero := proto3 && f.OneofIndex == schema.NoOneof

	switch f.Type {
	case dpb.FieldDescriptorProto_TYPE_DOUBLE:
		bits := m.Bits(i)
		if skipZero && math.Float64frombits(bits) == 0 {
			return nil
		}
		if err := e.putFixed64(bits); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeFixed64)

	case dpb.FieldDescriptorProto_TYPE_FLOAT:
		bits := uint32(m.Bits(i))
		if skipZero && math.Float32frombits(bits) == 0 {
			return nil
		}
		if err := e.putFixed32(bits); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeFixed32)

	case dpb.FieldDescriptorProto_TYPE_INT32,
		dpb.FieldDescriptorProto_TYPE_INT64,
		dpb.FieldDescriptorProto_TYPE_UINT32,
		dpb.FieldDescriptorProto_TYPE_UINT64,
		dpb.FieldDescriptorProto_TYPE_ENUM,
		dpb.FieldDescriptorProto_TYPE_BOOL:
		bits := m.Bits(i)
		if skipZero && bits == 0 {
			return nil
		}
		if err := e.putVarint(bits); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeVarint)

	case dpb.FieldDescriptorProto_TYPE_SINT32:
		v := int32(m.Bits(i))
		if skipZero && v == 0 {
			return nil
		}
		if err := e.putVarint(uint64(wire.Zigzag32(v))); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeVarint)

	case dpb.FieldDescriptorProto_TYPE_SINT64:
		v := int64(m.Bits(i))
		if skipZero && v == 0 {
			return nil
		}
		if err := e.putVarint(wire.Zigzag64(v)); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeVarint)

	case dpb.FieldDescriptorProto_TYPE_FIXED64,
		dpb.FieldDescriptorProto_TYPE_SFIXED64:
		bits := m.Bits(i)
		if skipZero && bits == 0 {
			return nil
		}
		if err := e.putFixed64(bits); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeFixed64)

	case dpb.FieldDescriptorProto_TYPE_FIXED32,
		dpb.FieldDescriptorProto_TYPE_SFIXED32:
		bits := m.Bits(i)
		if skipZero && uint32(bits) == 0 {
			return nil
		}
		if err := e.putFixed32(uint32(bits)); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeFixed32)

	case dpb.FieldDescriptorProto_TYPE_STRING,
		dpb.FieldDescriptorProto_TYPE_BYTES:
		view := m.View(i)
		if skipZero && len(view) == 0 {
			return nil
		}
		if err := e.putBytes(view); err != nil {
			return err
		}
		if err := e.putVarint(uint64(len(view))); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeDelimited)

	case dpb.FieldDescriptorProto_TYPE_MESSAGE:
		sub := m.MessageAt(i)
		if skipZero && sub == nil {
			return nil
		}
		size, err := encodeMessage(e, sub)
		if err != nil {
			return err
		}
		if err := e.putVarint(uint64(size)); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeDelimited)

	case dpb.FieldDescriptorProto_TYPE_GROUP:
		// Groups carry no length prefix. Written backwards: end tag,
		// body, start tag.
		sub := m.MessageAt(i)
		if skipZero && sub == nil {
			return nil
		}
		if err := e.putTag(f.Number, wire.TypeEndGroup); err != nil {
			return err
		}
		if _, err := encodeMessage(e, sub); err != nil {
			return err
		}
		return e.putTag(f.Number, wire.TypeStartGroup)

	default:
		// Layouts are validated at construction, all declarable types are
		// handled above.
		panic(fmt.Sprintf("protoenc: unhandled field type %v", f.Type))
	}
}
