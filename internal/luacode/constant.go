// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package luacode

import "fmt"

// ConstantKind tags the variant held by a Constant.
type ConstantKind uint8

const (
	KindNil ConstantKind = iota
	KindBoolean
	KindNumber
	KindString
)

// Constant is one entry in a chunk's constant pool. Only the field
// matching Kind is meaningful; the zero value is KindNil.
type Constant struct {
	Kind    ConstantKind
	Boolean bool
	Number  float64
	Bytes   []byte
}

// Nil returns the nil constant.
func Nil() Constant { return Constant{Kind: KindNil} }

// Bool returns a boolean constant.
func Bool(b bool) Constant { return Constant{Kind: KindBoolean, Boolean: b} }

// Num returns a number constant.
func Num(f float64) Constant { return Constant{Kind: KindNumber, Number: f} }

// Str returns a string constant holding the given raw (Latin-1) bytes.
func Str(b []byte) Constant { return Constant{Kind: KindString, Bytes: b} }

func (c Constant) String() string {
	switch c.Kind {
	case KindNil:
		return "nil"
	case KindBoolean:
		return fmt.Sprintf("%v", c.Boolean)
	case KindNumber:
		return fmt.Sprintf("%v", c.Number)
	case KindString:
		return fmt.Sprintf("%q", c.Bytes)
	default:
		return "<unrecognized constant>"
	}
}
