// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package luacode

// Chunk is a parsed Lua function prototype: the unit the (external)
// parser hands to the serializer. Constructed by the parser; mutated
// only by RecomputeDerivedState, which the serializer calls exactly
// once per chunk before emission.
type Chunk struct {
	Source string

	FirstLine int32
	LastLine  int32

	NumUpvalues  uint8
	NumParams    uint8
	IsVararg     uint8
	MaxStackSize uint8

	Instructions []Instruction
	Constants    []Constant
	Children     []*Chunk
}

// RecomputeDerivedState normalizes every instruction's Type field to
// match its opcode's canonical layout. The parser that builds the IR is
// not required to have set Type correctly; the serializer depends on it
// being correct and calls this once, immediately before walking the
// instruction list.
func (c *Chunk) RecomputeDerivedState() {
	for i := range c.Instructions {
		c.Instructions[i].recomputeType()
	}
}

// Validate walks the chunk (but not its children) and reports the first
// instruction that violates an opcode or operand-width invariant. The
// serializer calls this after RecomputeDerivedState and before emitting
// the chunk's instructions; on failure it discards everything written so
// far, so that a malformed chunk never produces a partial, truncated
// stream.
func (c *Chunk) Validate() error {
	for _, in := range c.Instructions {
		if err := in.Validate(); err != nil {
			return err
		}
	}
	return nil
}
