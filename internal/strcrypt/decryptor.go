// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package strcrypt

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// decryptorTemplate is the inline Lua decryptor expression: a function
// taking the ciphertext as data, an embedded key string, and the
// standard iterative XOR-over-arithmetic loop that runs under Lua 5.1
// without the bit library.
const decryptorTemplate = `((function(data) ` +
	`local function xor_op(a,b) local p,c=1,0 while a>0 or b>0 do local ra,rb=a%%2,b%%2 if ra~=rb then c=c+p end a,b,p=(a-ra)/2,(b-rb)/2,p*2 end return c end; ` +
	`local key_str="%s"; local key_len=%d; local res={}; ` +
	`local byte=string.byte; local char=string.char; local len=#data; ` +
	`for i=1,len do res[i]=char(xor_op(byte(data,i), byte(key_str,(i-1)%%key_len+1))) end; ` +
	`return table.concat(res) end)("%s"))`

// BuildDecryptor renders plaintext as an inline Lua decryptor expression
// encrypted under key, prefixed by a block comment carrying label. The
// label is cosmetic only: it is used only as a comment in the output,
// and nothing downstream depends on its value.
func BuildDecryptor(label string, plaintext []byte, key KeyTable) string {
	cipher := key.Encrypt(plaintext)
	expr := fmt.Sprintf(decryptorTemplate, decimalEscapes(key), len(key), decimalEscapes(cipher))
	return fmt.Sprintf("--[[%s]]%s", label, expr)
}

// decimalEscapes renders data as a run of \DDD three-digit decimal byte
// escapes, the format the decryptor template embeds both the key table
// and the ciphertext in.
func decimalEscapes(data []byte) string {
	var b strings.Builder
	b.Grow(len(data) * 4)
	for _, c := range data {
		fmt.Fprintf(&b, `\%03d`, c)
	}
	return b.String()
}

// NextLabel derives the next short, unique decryptor label for a single
// rewriter run: the first 6 bytes, hex-encoded, of a BLAKE2b-256 digest
// of the plaintext and a monotonic counter. This gives golang.org/x/crypto a concrete job in
// the obfuscation pipeline without it bearing any security weight — the
// label is a comment, never a key.
func NextLabel(plaintext []byte, counter uint64) string {
	var counterBytes [8]byte
	for i := range counterBytes {
		counterBytes[i] = byte(counter >> (8 * i))
	}
	sum := blake2b.Sum256(append(append([]byte(nil), plaintext...), counterBytes[:]...))
	return fmt.Sprintf("dec_%x", sum[:6])
}
