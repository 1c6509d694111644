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

// Package crypto holds the Hasher/Signer capabilities a script runner may
// use while checking a proof, plus helpers that build a log's Vlad from
// either a nonce or a signer's public key. Content-addressing itself
// (computing an Entry's Cid) is fixed at sha3-512/CIDv1 in the root
// package, since letting it vary per caller would desynchronize it from
// the hash baked into every Entry; what varies here is how a log chooses
// to prove authorship of its first entry.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	provenance "github.com/plogdev/provenance-log"
	"golang.org/x/crypto/sha3"
)

// Hasher computes a digest over arbitrary bytes.
type Hasher interface {
	Sum(data []byte) []byte
}

// Sha3512 is the default Hasher, matching the hash this module's Cid
// computation uses.
type Sha3512 struct{}

// Sum implements Hasher.
func (Sha3512) Sum(data []byte) []byte {
	h := sha3.Sum512(data)
	return h[:]
}

// Signer produces a signature over a message and exposes the public key
// that verifies it.
type Signer interface {
	Sign(msg []byte) ([]byte, error)
	Public() []byte
}

// Verifier checks a signature against a message and a public key.
type Verifier interface {
	Verify(pub, msg, sig []byte) bool
}

// Ed25519Signer is the default Signer implementation.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
}

// NewEd25519Signer generates a fresh ed25519 keypair.
func NewEd25519Signer() (*Ed25519Signer, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("crypto: generating ed25519 key: %w", err)
	}
	return &Ed25519Signer{priv: priv}, nil
}

// Sign implements Signer.
func (s *Ed25519Signer) Sign(msg []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, msg), nil
}

// Public implements Signer, returning the raw public key bytes.
func (s *Ed25519Signer) Public() []byte {
	pub, ok := s.priv.Public().(ed25519.PublicKey)
	if !ok {
		return nil
	}
	return []byte(pub)
}

// Ed25519Verifier is the default Verifier implementation.
type Ed25519Verifier struct{}

// Verify implements Verifier.
func (Ed25519Verifier) Verify(pub, msg, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig)
}

// NewVladFromNonce builds a log address that binds a random nonce to the
// content id of targetBytes (typically the log's first lock script,
// canonically encoded).
func NewVladFromNonce(nonce, targetBytes []byte) (provenance.Vlad, error) {
	target, err := provenance.NewCid(targetBytes)
	if err != nil {
		return provenance.Vlad{}, err
	}
	return provenance.NewVladFromNonce(nonce, target), nil
}

// NewVladFromSigner builds a log address that carries s's public key and
// the content id of targetBytes; nothing is signed in the process.
func NewVladFromSigner(s Signer, targetBytes []byte) (provenance.Vlad, error) {
	target, err := provenance.NewCid(targetBytes)
	if err != nil {
		return provenance.Vlad{}, err
	}
	return provenance.NewVladFromSigner(s.Public(), target), nil
}
