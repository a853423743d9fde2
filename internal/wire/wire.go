// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package wire holds the shared, dependency-free encoding primitives the
// bytecode serializer and the string-encryption pass both need: Latin-1
// byte projection of Go strings, and little-endian integer serialization.
// Neither the bytecode stream nor the encrypted-string format in this
// project is big-endian-portable, so every multi-byte value goes through
// these helpers rather than through ad hoc binary.Write calls.
package wire

import "math"

// Latin1 returns the ISO-8859-1 byte projection of s: each rune is
// truncated to its low 8 bits. Lua source and constant strings in this
// project are treated as opaque byte sequences rather than UTF-8 text, so
// this is a straight byte-for-byte reinterpretation for ASCII and
// single-byte-clean input, and a lossy (but deterministic) truncation for
// runes above U+00FF.
func Latin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		out = append(out, byte(r))
	}
	return out
}

// PutUint32LE appends the little-endian encoding of v to dst and returns
// the extended slice.
func PutUint32LE(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// PutInt32LE appends the little-endian two's-complement encoding of v.
func PutInt32LE(dst []byte, v int32) []byte {
	return PutUint32LE(dst, uint32(v))
}

// PutFloat64LE appends the little-endian IEEE-754 encoding of v.
func PutFloat64LE(dst []byte, v float64) []byte {
	bits := math.Float64bits(v)
	for i := 0; i < 8; i++ {
		dst = append(dst, byte(bits>>(8*i)))
	}
	return dst
}

// Uint32LE decodes a little-endian uint32 from the first 4 bytes of b.
func Uint32LE(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Int32LE decodes a little-endian int32 from the first 4 bytes of b.
func Int32LE(b []byte) int32 {
	return int32(Uint32LE(b))
}

// Float64LE decodes a little-endian IEEE-754 double from the first 8
// bytes of b.
func Float64LE(b []byte) float64 {
	_ = b[7]
	var bits uint64
	for i := 0; i < 8; i++ {
		bits |= uint64(b[i]) << (8 * i)
	}
	return math.Float64frombits(bits)
}
