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

// Lipmaa computes the skip-link backlink target for entry n: the seqno an
// entry at position n should additionally link to, besides its immediate
// predecessor, so that any entry can be reached from the head in O(log n)
// hops. n is the entry's own (0-indexed) seqno; Lipmaa(0) is 0, the
// genesis entry having nothing to skip back to.
func Lipmaa(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	m := uint64(1)
	po3 := uint64(3)
	for m < n {
		po3 *= 3
		m = (po3 - 1) / 2
	}
	po3 /= 3
	if m != n {
		x := n
		for x != 0 {
			m = (po3 - 1) / 2
			po3 /= 3
			x %= m
		}
		if m != po3 {
			po3 = m
		}
	}
	return n - po3
}

// IsLipmaa reports whether n's lipmaa backlink is a genuine skip (further
// back than the immediately preceding entry), i.e. whether n is a
// certificate-pool node worth indexing specially. Seqno 0 (the genesis
// entry) is never a lipmaa node.
func IsLipmaa(n uint64) bool {
	if n == 0 {
		return false
	}
	return Lipmaa(n)+1 != n
}

// NodeZ returns the smallest value of the form (3^x-1)/2, x >= 1, that is
// not less than n (so NodeZ(4) is 4 and NodeZ(5) is 13).
func NodeZ(n uint64) uint64 {
	m := uint64(1)
	po3 := uint64(3)
	for m < n {
		po3 *= 3
		m = (po3 - 1) / 2
	}
	return po3 / 2
}
