// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

// Package bytecode implements the obfuscating Lua 5.1 bytecode writer:
// opcode permutation, instruction encoding, and the chunk serializer
// that walks a parsed IR tree into a byte-exact, non-standard stream.
package bytecode

import (
	"bytes"
	"fmt"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/luacode"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/wire"
)

// Header bytes for the bytecode stream.
var (
	magic   = [4]byte{0xDE, 0xAD, 0xBE, 0xEF}
	junkInt = int32(-0x21524111) // bit pattern 0xDEADBEEF as a signed int32
)

const (
	versionByte     = 0x80
	formatByte      = 0x00
	endiannessByte  = 0xAA
	intSizeByte     = 0x04
	sizeTSizeByte   = 0x04
	instrSizeByte   = 0x04
	numberSizeByte  = 0x08
	numberFmtByte   = 0x00
	tagNil          = 0x00
	tagBoolean      = 0x01
	tagNumber       = 0xCA
	tagString       = 0xAB
	tagUnrecognized = 0xCC
)

// Serializer emits a byte-exact obfuscated bytecode stream for a chunk
// tree. A Serializer owns one opcode permutation, drawn once at
// construction time, and is otherwise stateless between calls to
// Serialize.
type Serializer struct {
	perm permutation
}

// NewSerializer builds a Serializer with a freshly drawn opcode
// permutation, read from src. Production callers should pass
// randsrc.Secure(); tests should pass a randsrc.Deterministic seam so
// failures reproduce.
func NewSerializer(src randsrc.Source) (*Serializer, error) {
	perm, err := newPermutation(src)
	if err != nil {
		return nil, err
	}
	return &Serializer{perm: perm}, nil
}

// Permutation returns the serializer's forward and inverse opcode maps.
// The inverse is never emitted into the wire format; this accessor
// exists only for this package's (and its callers') own round-trip
// tests.
func (s *Serializer) Permutation() (forward, inverse [luacode.NumOpCodes]byte) {
	return s.perm.forward, s.perm.inverse
}

// writer accumulates serialized bytes and the first error encountered:
// every write method is a no-op once err is set, so the walk below
// reads as straight-line code instead of an error check per field.
type writer struct {
	buf *bytes.Buffer
	err error
}

func (w *writer) bytes(b []byte) {
	if w.err != nil {
		return
	}
	w.buf.Write(b)
}

func (w *writer) byteVal(b byte) {
	if w.err != nil {
		return
	}
	w.buf.WriteByte(b)
}

func (w *writer) int32(v int32) {
	if w.err != nil {
		return
	}
	w.bytes(wire.PutInt32LE(nil, v))
}

func (w *writer) float64(v float64) {
	if w.err != nil {
		return
	}
	w.bytes(wire.PutFloat64LE(nil, v))
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

// encryptedString emits the encrypted string wire format for a Go
// string, first projecting it to Latin-1 bytes.
func (w *writer) encryptedString(s string) {
	w.encryptedBytes(wire.Latin1(s))
}

// encryptedBytes emits the encrypted string wire format for an
// already-raw byte payload (a Constant's string bytes are not re-decoded
// as runes, unlike a chunk's source name): the length L+1 as an Int, the
// L XOR'd payload bytes, then the single trailing key byte (key = L mod
// 256).
func (w *writer) encryptedBytes(payload []byte) {
	if w.err != nil {
		return
	}
	key := byte(len(payload) % 256)
	w.int32(int32(len(payload) + 1))
	ciphertext := make([]byte, len(payload))
	for i, b := range payload {
		ciphertext[i] = b ^ key
	}
	w.bytes(ciphertext)
	w.byteVal(key)
}

// Serialize walks chunk depth-first and returns the obfuscated bytecode
// stream. Any opcode outside the permutation's domain, or any operand
// exceeding its field width, is a programming error in the IR and
// aborts emission with a non-nil error; Serialize never panics on
// caller-supplied data itself, but the instruction encoder it calls
// into treats IR invariant violations as bugs to be reported, not
// recovered from silently.
func (s *Serializer) Serialize(chunk *luacode.Chunk) ([]byte, error) {
	if chunk == nil {
		return nil, fmt.Errorf("bytecode: cannot serialize a nil chunk")
	}
	w := &writer{buf: new(bytes.Buffer)}
	s.writeHeader(w)
	s.writeChunk(w, chunk)
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}

func (s *Serializer) writeHeader(w *writer) {
	w.bytes(magic[:])
	w.byteVal(versionByte)
	w.byteVal(formatByte)
	w.byteVal(endiannessByte)
	w.byteVal(intSizeByte)
	w.byteVal(sizeTSizeByte)
	w.byteVal(instrSizeByte)
	w.byteVal(numberSizeByte)
	w.byteVal(numberFmtByte)
}

func (s *Serializer) writeChunk(w *writer, chunk *luacode.Chunk) {
	if w.err != nil {
		return
	}

	if chunk.Source != "" {
		w.encryptedString(chunk.Source)
	} else {
		w.int32(0)
	}

	w.int32(chunk.FirstLine)
	w.int32(chunk.LastLine)
	w.byteVal(chunk.NumUpvalues)
	w.byteVal(chunk.NumParams)
	w.byteVal(chunk.IsVararg)
	w.byteVal(chunk.MaxStackSize)

	chunk.RecomputeDerivedState()
	if err := chunk.Validate(); err != nil {
		w.fail(fmt.Errorf("bytecode: invalid chunk: %w", err))
		return
	}

	w.int32(int32(len(chunk.Instructions)))
	for _, in := range chunk.Instructions {
		word, err := encodeWord(s.perm, in)
		if err != nil {
			w.fail(fmt.Errorf("bytecode: encoding instruction: %w", err))
			return
		}
		w.bytes(word[:])
	}

	w.int32(int32(len(chunk.Constants)))
	for _, c := range chunk.Constants {
		s.writeConstant(w, c)
	}

	w.int32(int32(len(chunk.Children)))
	for _, child := range chunk.Children {
		s.writeChunk(w, child)
	}

	// Junk debug trailer: three sentinel ints no consumer parses,
	// present only to defeat generic disassemblers expecting a real
	// debug section.
	w.int32(junkInt)
	w.int32(junkInt)
	w.int32(junkInt)
}

func (s *Serializer) writeConstant(w *writer, c luacode.Constant) {
	if w.err != nil {
		return
	}
	switch c.Kind {
	case luacode.KindNil:
		w.byteVal(tagNil)
	case luacode.KindBoolean:
		w.byteVal(tagBoolean)
		if c.Boolean {
			w.byteVal(0x01)
		} else {
			w.byteVal(0x00)
		}
	case luacode.KindNumber:
		w.byteVal(tagNumber)
		w.float64(c.Number)
	case luacode.KindString:
		w.byteVal(tagString)
		w.encryptedBytes(c.Bytes)
	default:
		// Defensive fallback: unreachable given the intended IR, kept
		// so an unrecognized constant kind never silently drops data.
		w.byteVal(tagUnrecognized)
	}
}
