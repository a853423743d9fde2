// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package bytecode

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/luacode"
)

// TestChunkInstructionsRoundTripViaDecodeWord round-trips every
// instruction of a small multi-type chunk through encodeWord/decodeWord
// and compares the decoded instruction list against the original with
// github.com/google/go-cmp for a deep structural diff (this package's
// own decodeWord stands in for the paired runtime's real decoder, fed
// each instruction's own A out-of-band since the whitened word alone
// cannot recover it).
func TestChunkInstructionsRoundTripViaDecodeWord(t *testing.T) {
	s := newTestSerializer(t, "chunk-roundtrip")

	want := []luacode.Instruction{
		{Type: luacode.TypeABC, Op: luacode.OpAdd, A: 1, B: 2, C: 3},
		{Type: luacode.TypeABx, Op: luacode.OpLoadK, A: 0, B: 500},
		{Type: luacode.TypeAsBx, Op: luacode.OpForLoop, A: 4, B: -100},
		{Type: luacode.TypeABC, Op: luacode.OpReturn, A: 0, B: 1, C: 0},
	}

	got := make([]luacode.Instruction, len(want))
	for i, in := range want {
		word, err := encodeWord(s.perm, in)
		if err != nil {
			t.Fatalf("encodeWord(%v): %v", in, err)
		}
		got[i] = decodeWord(s.perm, in.Type, in.A, word)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("decoded instructions differ from originals (-want +got):\n%s", diff)
	}
}
