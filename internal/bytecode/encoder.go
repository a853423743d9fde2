// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package bytecode

import (
	"fmt"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/luacode"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/wire"
)

// whiteningMultiplier is the per-instruction whitening constant. The
// multiplication is defined over 32-bit wraparound.
const whiteningMultiplier = 0x07654321

// asBxOffset re-biases a signed AsBx operand into its unsigned field.
const asBxOffset = 131071

// encodeWord packs a single instruction into its 32-bit obfuscated word
// and returns the little-endian bytes:
//
//   - bits [0,5]:  permuted 6-bit opcode index
//   - bits [6,13]: operand A (8 bits)
//   - ABC:  bits [14,22] hold C (9 bits), bits [23,31] hold B (9 bits) —
//     note C occupies the LOW field and B the HIGH field, the reverse of
//     standard Lua; this swap is intentional and must not be "fixed".
//   - ABx:  bits [14,31] hold B unbiased (18 bits)
//   - AsBx: bits [14,31] hold B+131071 (18 bits)
//
// The assembled word is then XORed with (A * 0x07654321 mod 2^32) before
// being returned.
func encodeWord(perm permutation, in luacode.Instruction) ([4]byte, error) {
	if err := in.Validate(); err != nil {
		return [4]byte{}, err
	}

	opIdx := uint32(perm.encode(in.Op))
	a := uint32(in.A)

	var word uint32
	switch in.Type {
	case luacode.TypeABC:
		b := uint32(in.B)
		c := uint32(in.C)
		word = opIdx | a<<6 | c<<14 | b<<23
	case luacode.TypeABx:
		b := uint32(in.B)
		word = opIdx | a<<6 | b<<14
	case luacode.TypeAsBx:
		b := uint32(in.B + asBxOffset)
		word = opIdx | a<<6 | b<<14
	default:
		return [4]byte{}, fmt.Errorf("bytecode: instruction %s has unrecognized type %d", in.Op, in.Type)
	}

	word ^= a * whiteningMultiplier

	var out [4]byte
	buf := wire.PutUint32LE(out[:0], word)
	copy(out[:], buf)
	return out, nil
}

// decodeWord reverses encodeWord, given the operand A that was used to
// whiten it. The whitening XOR covers the whole word, including the
// bits [6,13] that otherwise carry A, so A cannot be recovered from a
// single word in isolation: f(A) = A XOR (A*whiteningMultiplier)[6,13]
// is not a bijection over [0,255], and decoding those bits directly
// reads back the whitened value, not A. A real decoder must already
// know A out-of-band (the same way it already knows the permutation);
// this package's own tests pass it in for that reason. decodeWord
// exists only so this package's own tests can exercise the round-trip
// property; production consumers implement their own decoder against
// the out-of-band permutation.
func decodeWord(perm permutation, typ luacode.InstructionType, knownA int, word [4]byte) luacode.Instruction {
	raw := wire.Uint32LE(word[:])
	a := uint32(knownA)
	unwhitened := raw ^ (a * whiteningMultiplier)

	opIdx := byte(unwhitened & 0x3F)
	op := perm.decode(opIdx)

	in := luacode.Instruction{Type: typ, Op: op, A: knownA}
	switch typ {
	case luacode.TypeABC:
		c := (unwhitened >> 14) & 0x1FF
		b := (unwhitened >> 23) & 0x1FF
		in.B, in.C = int(b), int(c)
	case luacode.TypeABx:
		in.B = int((unwhitened >> 14) & 0x3FFFF)
	case luacode.TypeAsBx:
		in.B = int((unwhitened>>14)&0x3FFFF) - asBxOffset
	}
	return in
}
