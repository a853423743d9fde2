// Copyright (c) 2025, The Garble Authors.
// See LICENSE for licensing information.

package strcrypt

import (
	"fmt"
	"io"

	"github.com/1NFERNO-HUB/1NFERNO-OBF/internal/randsrc"
)

// DefaultCeiling is the key-table length cap used when the
// configuration surface leaves DecryptTableLen unset (zero or
// negative).
const DefaultCeiling = 32

// KeyTable is a byte array used to XOR-encrypt one or more literals. The
// same table must not be reused across independently generated
// decryptors when isolation is desired: callers that want a fresh table
// per literal should call NewKeyTable again.
type KeyTable []byte

// NewKeyTable allocates a KeyTable of length min(requestedMax, ceiling),
// with a floor of 1 so an empty literal still gets a well-formed (if
// trivial) key, filled from src. If ceiling is not positive,
// DefaultCeiling is used.
func NewKeyTable(src randsrc.Source, requestedMax, ceiling int) (KeyTable, error) {
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	length := requestedMax
	if length > ceiling {
		length = ceiling
	}
	if length < 1 {
		length = 1
	}

	table := make(KeyTable, length)
	if _, err := io.ReadFull(randsrc.AsReader(src), table); err != nil {
		return nil, fmt.Errorf("strcrypt: generating key table: %w", err)
	}
	return table, nil
}

// Encrypt XOR-encrypts data against the key table, cycling the table
// once it is exhausted: C[i] = P[i] XOR K[i mod len(K)].
// Encrypt is its own inverse, so it is also used to decrypt in tests.
func (k KeyTable) Encrypt(data []byte) []byte {
	if len(k) == 0 {
		panic("strcrypt: KeyTable must not be empty")
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ k[i%len(k)]
	}
	return out
}

