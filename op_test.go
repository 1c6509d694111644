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

package provenance

import "testing"

func TestOpRoundTrip(t *testing.T) {
	ops := []Op{
		NoopOp(RootKey),
		DeleteOp(MustParseKey("/a/b")),
		UpdateOp(MustParseKey("/a/b"), StrValue("v")),
	}
	for _, o := range ops {
		data, err := o.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(%v): %v", o, err)
		}
		var got Op
		if err := got.UnmarshalBinary(data); err != nil {
			t.Fatalf("UnmarshalBinary(%v): %v", o, err)
		}
		if got.Kind() != o.Kind() || !got.Path().Equal(o.Path()) {
			t.Errorf("round trip = %v, want %v", got, o)
		}
	}
}
