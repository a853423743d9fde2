// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package protect

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/luacode"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
)

func TestPipelineEmitBytecode(t *testing.T) {
	var logBuf bytes.Buffer
	p := New(Settings{}, randsrc.Deterministic([]byte("pipeline-bytecode")), log.New(&logBuf, "", 0))

	chunk := &luacode.Chunk{
		Source: "@test.lua",
		Instructions: []luacode.Instruction{
			{Op: luacode.OpMove, A: 0, B: 1},
		},
	}
	out, err := p.EmitBytecode(chunk)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(len(out) > 0))
	qt.Assert(t, qt.IsTrue(strings.Contains(logBuf.String(), "emitted")))
}

func TestPipelineEncryptSource(t *testing.T) {
	var logBuf bytes.Buffer
	p := New(Settings{EncryptStrings: true, DecryptTableLen: 16}, randsrc.Deterministic([]byte("pipeline-source")), log.New(&logBuf, "", 0))

	out, err := p.EncryptSource(`print("hi")`)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsFalse(strings.Contains(out, `"hi"`)))
	qt.Assert(t, qt.IsTrue(strings.Contains(logBuf.String(), "rewritten")))
}

func TestPipelineEncryptSourceNoopWhenDisabled(t *testing.T) {
	p := New(Settings{}, randsrc.Deterministic([]byte("pipeline-noop")), nil)
	src := `local a = "untouched"`
	out, err := p.EncryptSource(src)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(out, src))
}

func TestPipelineEncryptSourcePropagatesScanError(t *testing.T) {
	p := New(Settings{EncryptStrings: true}, randsrc.Deterministic([]byte("pipeline-error")), nil)
	_, err := p.EncryptSource(`local a = "bad \256"`)
	qt.Assert(t, qt.IsNotNil(err))
}
