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

package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutVarint(t *testing.T) {
	testCases := []struct {
		value    uint64
		expected []byte
	}{
		{
			value:    0,
			expected: []byte{0x00},
		},
		{
			value:    1,
			expected: []byte{0x01},
		},
		{
			value:    127,
			expected: []byte{0x7F},
		},
		{
			value:    128,
			expected: []byte{0x80, 0x01},
		},
		{
			value:    300,
			expected: []byte{0xAC, 0x02},
		},
		{
			value:    math.MaxUint64,
			expected: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01},
		},
	}

	for _, tc := range testCases {
		var buf [MaxVarintLen]byte
		n := PutVarint(buf[:], tc.value)
		require.Equal(t, tc.expected, buf[:n])
		require.Equal(t, len(tc.expected), VarintLen(tc.value))
	}
}

func TestPutVarintSingleByteRange(t *testing.T) {
	// Every value below 128 encodes as a single byte equal to itself.
	for v := uint64(0); v < 128; v++ {
		var buf [MaxVarintLen]byte
		n := PutVarint(buf[:], v)
		require.Equal(t, 1, n)
		require.Equal(t, byte(v), buf[0])
	}
}

func TestZigzag32(t *testing.T) {
	testCases := []struct {
		input    int32
		expected uint32
	}{
		{input: 0, expected: 0},
		{input: -1, expected: 1},
		{input: 1, expected: 2},
		{input: -2, expected: 3},
		{input: 2, expected: 4},
		{input: math.MaxInt32, expected: math.MaxUint32 - 1},
		{input: math.MinInt32, expected: math.MaxUint32},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, Zigzag32(tc.input))
	}
}

func TestZigzag64(t *testing.T) {
	testCases := []struct {
		input    int64
		expected uint64
	}{
		{input: 0, expected: 0},
		{input: -1, expected: 1},
		{input: 1, expected: 2},
		{input: -2, expected: 3},
		{input: math.MaxInt64, expected: math.MaxUint64 - 1},
		{input: math.MinInt64, expected: math.MaxUint64},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expected, Zigzag64(tc.input))
	}
}

func TestTag(t *testing.T) {
	require.Equal(t, uint64(0x08), Tag(1, TypeVarint))
	require.Equal(t, uint64(0x0A), Tag(1, TypeDelimited))
	require.Equal(t, uint64(0x11), Tag(2, TypeFixed64))
	require.Equal(t, uint64(0x1D), Tag(3, TypeFixed32))
	require.Equal(t, uint64(0x0B), Tag(1, TypeStartGroup))
	require.Equal(t, uint64(0x0C), Tag(1, TypeEndGroup))
}
