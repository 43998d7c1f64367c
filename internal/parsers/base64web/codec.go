// Package base64web implements the unpadded web-safe base64 variant used by ClearKey
// license requests and responses (RFC 4648 section 5 without padding).
package base64web

import (
	"fmt"

	"github.com/deploymenttheory/go-clearkey/internal/types"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	sixBits  = 0x3f
)

// EncodedLen returns the number of characters Encode produces for n input bytes.
func EncodedLen(n int) int {
	return (n*8 + 5) / 6
}

// Encode returns the unpadded web-safe base64 encoding of src.
func Encode(src []byte) string {
	out := make([]byte, EncodedLen(len(src)))

	// The final character may straddle the end of src; a trailing zero byte keeps
	// that read in bounds and contributes only zero bits.
	data := make([]byte, len(src)+1)
	copy(data, src)

	// Bits of data[pos] already consumed by the previous character.
	var shift uint
	pos := 0
	for i := range out {
		var v byte
		if shift != 0 {
			v = (data[pos] << (6 - shift)) & sixBits
			pos++
		}
		v += (data[pos] >> (shift + 2)) & sixBits
		shift = (shift + 2) % 8

		out[i] = alphabet[v]
	}

	return string(out)
}

// Decode decodes a web-safe base64 string. Padding truncates the input at the first '='.
// Any other character outside the alphabet fails the decode.
func Decode(s string) ([]byte, error) {
	values, err := decode6Bit(s)
	if err != nil {
		return nil, err
	}

	n := len(values) * 6 / 8
	// One spare byte receives the leftover low bits of the last character.
	out := make([]byte, n+1)

	var shift uint
	pos := 0
	for _, v := range values {
		if shift == 0 {
			out[pos] = v << 2
		} else {
			out[pos] |= v >> (6 - shift)
			pos++
			out[pos] = v << (shift + 2)
		}
		shift = (shift + 2) % 8
	}

	return out[:n], nil
}

// DecodeKey decodes s and checks that it holds exactly one AES-128 key.
func DecodeKey(s string) (types.Key, error) {
	var key types.Key

	b, err := Decode(s)
	if err != nil {
		return key, err
	}
	if len(b) != types.KeyLen {
		return key, fmt.Errorf("%w: key decodes to %d bytes, want %d", types.ErrInvalid, len(b), types.KeyLen)
	}

	copy(key[:], b)
	return key, nil
}

// decode6Bit maps every character of s to its 6-bit value, stopping at the first '='.
func decode6Bit(s string) ([]byte, error) {
	values := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			values = append(values, c-'A')
		case c >= 'a' && c <= 'z':
			values = append(values, c-'a'+26)
		case c >= '0' && c <= '9':
			values = append(values, c-'0'+52)
		case c == '-':
			values = append(values, 62)
		case c == '_':
			values = append(values, 63)
		case c == '=':
			return values, nil
		default:
			return nil, fmt.Errorf("%w: invalid base64 character %q at offset %d", types.ErrInvalid, c, i)
		}
	}
	return values, nil
}
