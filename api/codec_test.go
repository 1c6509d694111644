// Copyright 2025 The Provenance-Log Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

import (
	"testing"
)

func TestUvarintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40} {
		buf := WriteUvarint(nil, v)
		got, rest, err := ReadUvarint(buf)
		if err != nil {
			t.Fatalf("ReadUvarint(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("ReadUvarint(%d) = %d", v, got)
		}
		if len(rest) != 0 {
			t.Errorf("ReadUvarint(%d) left %d trailing bytes", v, len(rest))
		}
	}
}

func TestVarbytesRoundTrip(t *testing.T) {
	cases := [][]byte{nil, {}, []byte("hello"), make([]byte, 300)}
	for _, c := range cases {
		buf := WriteVarbytes(nil, c)
		got, rest, err := ReadVarbytes(buf)
		if err != nil {
			t.Fatalf("ReadVarbytes(%x): %v", c, err)
		}
		if len(got) != len(c) {
			t.Errorf("ReadVarbytes(%x) = %x", c, got)
		}
		if len(rest) != 0 {
			t.Errorf("ReadVarbytes(%x) left trailing bytes", c)
		}
	}
}

func TestReadVarbytesTruncated(t *testing.T) {
	buf := WriteUvarint(nil, 10)
	if _, _, err := ReadVarbytes(buf); err == nil {
		t.Fatal("expected error decoding truncated varbytes")
	}
}
