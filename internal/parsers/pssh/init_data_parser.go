// Package pssh extracts ClearKey key IDs from common encryption init data: a
// concatenation of protection system specific header (pssh) boxes.
//
//	[size:4][type "pssh":4][version<<24|flags:4][system id:16][kid count:4][kid:16]...
package pssh

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-clearkey/internal/interfaces"
	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// Field offsets within a pssh box.
const (
	boxTypeOffset   = 4
	fullBoxOffset   = 8
	systemIDOffset  = 12
	kidCountOffset  = 28
	kidsOffset      = 32
	boxHeaderLength = 4
)

// ParseInitData walks the boxes in data and returns the key IDs of every version 1
// ClearKey pssh box.
//
// Boxes that are too small to carry key IDs, have another version, or belong to
// another protection system are skipped. A size or key ID count that reaches past
// the end of data, or a box that is not a pssh box, stops the walk: the key IDs
// collected so far are returned together with an error wrapping types.ErrMalformed.
func ParseInitData(data []byte, log interfaces.Logger) ([]types.KeyID, error) {
	log = interfaces.OrNop(log)

	keys := []types.KeyID{}
	end := uint64(len(data))

	for offset := uint64(0); offset+boxHeaderLength < end; {
		box := data[offset:]
		size := uint64(binary.BigEndian.Uint32(box[0:4]))

		log.Logf("looking for pssh at offset %d", offset)

		if offset+size > end {
			log.Logf("box size %d overflows init data buffer", size)
			return keys, fmt.Errorf("%w: box size %d at offset %d overflows %d bytes of init data", types.ErrMalformed, size, offset, end)
		}

		if size == 0 {
			return keys, fmt.Errorf("%w: zero box size at offset %d", types.ErrMalformed, offset)
		}

		if size < types.PsshBoxMinSize {
			// Too small to be a cenc v2 pssh box
			offset += size
			continue
		}

		if !bytes.Equal(box[boxTypeOffset:fullBoxOffset], []byte(types.PsshBoxType)) {
			log.Logf("non-pssh box %q in init data", box[boxTypeOffset:fullBoxOffset])
			return keys, fmt.Errorf("%w: box type %q at offset %d is not pssh", types.ErrMalformed, box[boxTypeOffset:fullBoxOffset], offset)
		}

		head := binary.BigEndian.Uint32(box[fullBoxOffset:systemIDOffset])
		version, flags := head>>24, head&0x00ffffff
		log.Logf("got version %d pssh box, flags 0x%06x, length %d", version, flags, size)

		if version != types.PsshBoxVersion {
			log.Logf("ignoring pssh box with wrong version")
			offset += size
			continue
		}

		if !bytes.Equal(box[systemIDOffset:kidCountOffset], types.ClearKeySystemID[:]) {
			log.Logf("ignoring pssh box with foreign system id")
			offset += size
			continue
		}

		kidCount := uint64(binary.BigEndian.Uint32(box[kidCountOffset:kidsOffset]))
		kidStart := offset + kidsOffset
		if kidStart+kidCount*types.KeyLen > end {
			log.Logf("pssh key IDs overflow init data buffer")
			return keys, fmt.Errorf("%w: %d key IDs at offset %d overflow %d bytes of init data", types.ErrMalformed, kidCount, kidStart, end)
		}

		for i := uint64(0); i < kidCount; i++ {
			var id types.KeyID
			at := kidStart + i*types.KeyLen
			copy(id[:], data[at:at+types.KeyLen])
			keys = append(keys, id)
		}

		offset += size
	}

	return keys, nil
}
