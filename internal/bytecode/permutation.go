// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package bytecode

import (
	"fmt"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/luacode"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
)

// permutation is a bijection from the 40 canonical opcodes to the 6-bit
// range [0,39]. It is built once per Serializer and never emitted into
// the bytecode stream (Serializer.Permutation exposes it in-process
// only): the inverse is kept only so round-trip tests can decode what
// they just encoded; production consumers of the bytecode stream must
// already hold the inverse mapping out-of-band.
type permutation struct {
	forward [luacode.NumOpCodes]byte
	inverse [luacode.NumOpCodes]byte
}

// newPermutation draws a uniformly random permutation of [0,39] keyed by
// src: shuffle identity indices with a Fisher-Yates walk seeded from
// random bytes.
func newPermutation(src randsrc.Source) (permutation, error) {
	var p permutation
	for i := range p.forward {
		p.forward[i] = byte(i)
	}
	for i := len(p.forward) - 1; i > 0; i-- {
		j, err := randsrc.Intn(src, i+1)
		if err != nil {
			return permutation{}, fmt.Errorf("bytecode: building opcode permutation: %w", err)
		}
		p.forward[i], p.forward[j] = p.forward[j], p.forward[i]
	}
	for i, v := range p.forward {
		p.inverse[v] = byte(i)
	}
	return p, nil
}

// encode maps a canonical opcode to its obfuscated 6-bit index.
func (p permutation) encode(op luacode.OpCode) byte {
	return p.forward[op]
}

// decode maps an obfuscated 6-bit index back to its canonical opcode.
func (p permutation) decode(idx byte) luacode.OpCode {
	return luacode.OpCode(p.inverse[idx])
}

// isBijection reports whether forward is a bijection on [0,39]. Used by
// tests; production code never needs to check its own construction.
func (p permutation) isBijection() bool {
	var seen [luacode.NumOpCodes]bool
	for _, v := range p.forward {
		if int(v) >= len(seen) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
