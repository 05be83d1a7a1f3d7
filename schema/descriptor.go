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

package schema

import (
	"errors"
	"fmt"

	dpb "github.com/golang/protobuf/protoc-gen-go/descriptor"
	"github.com/jhump/protoreflect/desc"
)

var errNilDescriptor = errors.New("schema: message descriptor is nil")

// FromDescriptor compiles a message descriptor into a Layout, recursively
// building layouts for referenced message types. Mutually recursive message
// types share a single layout each, so layout construction always
// terminates even when the type graph is cyclic.
func FromDescriptor(md *desc.MessageDescriptor) (*Layout, error) {
	if md == nil {
		return nil, errNilDescriptor
	}
	return fromDescriptor(md, map[string]*Layout{})
}

func fromDescriptor(md *desc.MessageDescriptor, seen map[string]*Layout) (*Layout, error) {
	name := md.GetFullyQualifiedName()
	if l, ok := seen[name]; ok {
		return l, nil
	}

	// Register the layout before visiting fields so recursive references
	// resolve to the layout under construction.
	l := &Layout{
		name:      name,
		proto2:    !md.GetFile().IsProto3(),
		numOneofs: len(md.GetOneOfs()),
	}
	seen[name] = l

	fds := md.GetFields()
	fields := make([]Field, 0, len(fds))
	byNumber := make(map[int32]int, len(fds))
	for i, fd := range fds {
		f := Field{
			Number:     fd.GetNumber(),
			Type:       fd.GetType(),
			Repeated:   fd.GetLabel() == dpb.FieldDescriptorProto_LABEL_REPEATED,
			OneofIndex: NoOneof,
		}
		if fd.GetOneOf() != nil {
			f.OneofIndex = int(fd.AsFieldDescriptorProto().GetOneofIndex())
		}
		switch f.Type {
		case dpb.FieldDescriptorProto_TYPE_MESSAGE, dpb.FieldDescriptorProto_TYPE_GROUP:
			sub, err := fromDescriptor(fd.GetMessageType(), seen)
			if err != nil {
				return nil, err
			}
			f.SubLayout = sub
		}
		if _, ok := byNumber[f.Number]; ok {
			return nil, fmt.Errorf("schema: duplicate field number %d in %s", f.Number, name)
		}
		byNumber[f.Number] = i
		fields = append(fields, f)
	}

	l.fields = fields
	l.byNumber = byNumber
	return l, nil
}
