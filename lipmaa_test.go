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

// lipmaaFixture is the published lipmaa(n)/is_lipmaa(n) table for seqno
// 0..40, taken from the certificate-pool skip list this module's Lipmaa
// ports (seqno is 0-indexed; the genesis entry is seqno 0).
var lipmaaFixture = []struct {
	n        uint64
	lipmaa   uint64
	isLipmaa bool
}{
	{0, 0, false}, {1, 0, false}, {2, 1, false}, {3, 2, false},
	{4, 1, true}, {5, 4, false}, {6, 5, false}, {7, 6, false},
	{8, 4, true}, {9, 8, false}, {10, 9, false}, {11, 10, false},
	{12, 8, true}, {13, 4, true}, {14, 13, false}, {15, 14, false},
	{16, 15, false}, {17, 13, true}, {18, 17, false}, {19, 18, false},
	{20, 19, false}, {21, 17, true}, {22, 21, false}, {23, 22, false},
	{24, 23, false}, {25, 21, true}, {26, 13, true}, {27, 26, false},
	{28, 27, false}, {29, 28, false}, {30, 26, true}, {31, 30, false},
	{32, 31, false}, {33, 32, false}, {34, 30, true}, {35, 34, false},
	{36, 35, false}, {37, 36, false}, {38, 34, true}, {39, 26, true},
	{40, 13, true},
}

func TestLipmaaFixtureTable(t *testing.T) {
	for _, f := range lipmaaFixture {
		if got := Lipmaa(f.n); got != f.lipmaa {
			t.Errorf("Lipmaa(%d) = %d, want %d", f.n, got, f.lipmaa)
		}
		if got := IsLipmaa(f.n); got != f.isLipmaa {
			t.Errorf("IsLipmaa(%d) = %v, want %v", f.n, got, f.isLipmaa)
		}
	}
}

func TestLipmaaNeverExceedsOrEqualsN(t *testing.T) {
	for n := uint64(1); n <= 200; n++ {
		if l := Lipmaa(n); l >= n {
			t.Errorf("Lipmaa(%d) = %d, want strictly less than n", n, l)
		}
	}
}

func TestLipmaaGenesisIsZero(t *testing.T) {
	if got := Lipmaa(0); got != 0 {
		t.Errorf("Lipmaa(0) = %d, want 0", got)
	}
}

func TestIsLipmaaZeroIsFalse(t *testing.T) {
	if IsLipmaa(0) {
		t.Error("IsLipmaa(0) should be false")
	}
}

func TestIsLipmaaConsistentWithLipmaa(t *testing.T) {
	for n := uint64(1); n <= 200; n++ {
		want := Lipmaa(n)+1 != n
		if got := IsLipmaa(n); got != want {
			t.Errorf("IsLipmaa(%d) = %v, want %v", n, got, want)
		}
	}
}
