// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/luacode"
)

// jsonChunk is the on-disk side-channel shape -chunk-json reads: a
// JSON-friendly mirror of luacode.Chunk that spells opcodes and constant
// kinds as names instead of the internal numeric encoding, since the IR
// itself has no JSON tags (it isn't meant to round-trip through JSON in
// the core packages).
type jsonChunk struct {
	Source       string          `json:"source"`
	FirstLine    int32           `json:"first_line"`
	LastLine     int32           `json:"last_line"`
	NumUpvalues  uint8           `json:"num_upvalues"`
	NumParams    uint8           `json:"num_params"`
	IsVararg     uint8           `json:"is_vararg"`
	MaxStackSize uint8           `json:"max_stack_size"`
	Instructions []jsonInstr     `json:"instructions"`
	Constants    []jsonConstant  `json:"constants"`
	Children     []jsonChunk     `json:"children"`
}

type jsonInstr struct {
	Op string `json:"op"`
	A  int    `json:"a"`
	B  int    `json:"b"`
	C  int    `json:"c"`
}

type jsonConstant struct {
	Kind    string  `json:"kind"` // "nil", "boolean", "number", "string"
	Boolean bool    `json:"boolean,omitempty"`
	Number  float64 `json:"number,omitempty"`
	String  string  `json:"string,omitempty"`
}

func loadChunkJSON(path string) (*luacode.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("1nferno-obf: read %s: %w", path, err)
	}
	var jc jsonChunk
	if err := json.Unmarshal(data, &jc); err != nil {
		return nil, fmt.Errorf("1nferno-obf: parse %s: %w", path, err)
	}
	return jc.toChunk()
}

func (jc jsonChunk) toChunk() (*luacode.Chunk, error) {
	chunk := &luacode.Chunk{
		Source:       jc.Source,
		FirstLine:    jc.FirstLine,
		LastLine:     jc.LastLine,
		NumUpvalues:  jc.NumUpvalues,
		NumParams:    jc.NumParams,
		IsVararg:     jc.IsVararg,
		MaxStackSize: jc.MaxStackSize,
	}

	opByName := make(map[string]luacode.OpCode, luacode.NumOpCodes)
	for _, op := range luacode.AllOpCodes() {
		opByName[op.String()] = op
	}

	for _, ji := range jc.Instructions {
		op, ok := opByName[ji.Op]
		if !ok {
			return nil, fmt.Errorf("1nferno-obf: unrecognized opcode %q", ji.Op)
		}
		chunk.Instructions = append(chunk.Instructions, luacode.Instruction{
			Op: op,
			A:  ji.A,
			B:  ji.B,
			C:  ji.C,
		})
	}

	for _, jcst := range jc.Constants {
		c, err := jcst.toConstant()
		if err != nil {
			return nil, err
		}
		chunk.Constants = append(chunk.Constants, c)
	}

	for _, childJSON := range jc.Children {
		child, err := childJSON.toChunk()
		if err != nil {
			return nil, err
		}
		chunk.Children = append(chunk.Children, child)
	}

	return chunk, nil
}

func (jcst jsonConstant) toConstant() (luacode.Constant, error) {
	switch jcst.Kind {
	case "nil", "":
		return luacode.Nil(), nil
	case "boolean":
		return luacode.Bool(jcst.Boolean), nil
	case "number":
		return luacode.Num(jcst.Number), nil
	case "string":
		return luacode.Str([]byte(jcst.String)), nil
	default:
		return luacode.Constant{}, fmt.Errorf("1nferno-obf: unrecognized constant kind %q", jcst.Kind)
	}
}
