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

func TestValueRoundTrip(t *testing.T) {
	vals := []Value{NilValue(), StrValue("hello"), DataValue([]byte{1, 2, 3})}
	for _, v := range vals {
		data, err := v.MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary(%v): %v", v, err)
		}
		var got Value
		if err := got.UnmarshalBinary(data); err != nil {
			t.Fatalf("UnmarshalBinary(%v): %v", v, err)
		}
		if got.Kind() != v.Kind() || string(got.Bytes()) != string(v.Bytes()) {
			t.Errorf("round trip = %v, want %v", got, v)
		}
	}
}

func TestValueInvalidKind(t *testing.T) {
	var v Value
	if err := v.UnmarshalBinary([]byte{0xff}); err == nil {
		t.Fatal("expected error for invalid value kind")
	}
}
