// Package crypto implements the ClearKey sample cipher: AES-128 applied to a
// 16-byte counter block whose low 64 bits are a big-endian block counter.
package crypto

import (
	"crypto/aes"
	"encoding/binary"
	"fmt"

	"github.com/pion/transport/v3/utils/xor"

	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// DecryptAES decrypts data in place under key, starting from the counter block iv.
//
// For every 16-byte block the current iv is encrypted, the result is XORed into the
// block, and iv is advanced with IncrementIV. On return iv holds the counter for the
// block after the last one processed, so consecutive calls continue the stream.
//
// data must be a multiple of 16 bytes long and key and iv exactly 16 bytes; anything
// else fails with types.ErrPrecondition before data or iv are touched.
func DecryptAES(key, data, iv []byte) error {
	if len(key) != types.KeyLen {
		return fmt.Errorf("%w: key is %d bytes, want %d", types.ErrPrecondition, len(key), types.KeyLen)
	}
	if len(iv) != types.IVLen {
		return fmt.Errorf("%w: iv is %d bytes, want %d", types.ErrPrecondition, len(iv), types.IVLen)
	}
	if len(data)%types.BlockSize != 0 {
		return fmt.Errorf("%w: data length %d is not a multiple of %d", types.ErrPrecondition, len(data), types.BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create AES cipher: %w", err)
	}

	var keystream [types.BlockSize]byte
	for i := 0; i < len(data); i += types.BlockSize {
		block.Encrypt(keystream[:], iv)

		chunk := data[i : i+types.BlockSize]
		xor.XorBytes(chunk, chunk, keystream[:])

		incrementCounter(iv)
	}

	return nil
}

// IncrementIV adds one to bytes 8-15 of iv read as a big-endian uint64, wrapping on
// overflow. Bytes 0-7 never change, even when the counter wraps. An iv that is not
// exactly 16 bytes fails with types.ErrPrecondition and is left untouched.
func IncrementIV(iv []byte) error {
	if len(iv) != types.IVLen {
		return fmt.Errorf("%w: iv is %d bytes, want %d", types.ErrPrecondition, len(iv), types.IVLen)
	}
	incrementCounter(iv)
	return nil
}

func incrementCounter(iv []byte) {
	counter := iv[8:types.IVLen]
	binary.BigEndian.PutUint64(counter, binary.BigEndian.Uint64(counter)+1)
}
