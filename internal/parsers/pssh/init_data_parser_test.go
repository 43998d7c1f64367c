package pssh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-clearkey/internal/types"
)

var (
	kid1 = types.KeyID{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
	kid2 = types.KeyID{0xfe, 0xdc, 0xba, 0x98, 0x76, 0x54, 0x32, 0x10, 0xfe, 0xdc, 0xba, 0x98, 0x76, 0x54, 0x32, 0x10}
	kid3 = types.KeyID{0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17, 0x18, 0x19}

	// Widevine system ID
	foreignSystemID = [16]byte{0xed, 0xef, 0x8b, 0xa9, 0x79, 0xd6, 0x4a, 0xce, 0xa3, 0xc8, 0x27, 0xdc, 0xd5, 0x1d, 0x21, 0xed}
)

// createPsshBox builds a pssh box with a trailing zero length data field
func createPsshBox(version byte, systemID [16]byte, kids ...types.KeyID) []byte {
	size := 32 + len(kids)*types.KeyLen + 4
	box := make([]byte, size)

	binary.BigEndian.PutUint32(box[0:4], uint32(size))
	copy(box[4:8], types.PsshBoxType)
	box[8] = version
	copy(box[12:28], systemID[:])
	binary.BigEndian.PutUint32(box[28:32], uint32(len(kids)))
	for i, kid := range kids {
		copy(box[32+i*types.KeyLen:], kid[:])
	}

	return box
}

func clearKeyBox(kids ...types.KeyID) []byte {
	return createPsshBox(1, types.ClearKeySystemID, kids...)
}

// createBox builds an arbitrary box of the given type and total size
func createBox(boxType string, size int) []byte {
	box := make([]byte, size)
	binary.BigEndian.PutUint32(box[0:4], uint32(size))
	copy(box[4:8], boxType)
	return box
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

func TestParseInitData(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expected    []types.KeyID
		expectError bool
	}{
		{
			name:     "single box with two key IDs in order",
			data:     clearKeyBox(kid1, kid2),
			expected: []types.KeyID{kid1, kid2},
		},
		{
			name:     "key IDs from consecutive boxes",
			data:     concat(clearKeyBox(kid1), clearKeyBox(kid2, kid3)),
			expected: []types.KeyID{kid1, kid2, kid3},
		},
		{
			name:     "zero key ID box accepted",
			data:     concat(clearKeyBox(), clearKeyBox(kid1)),
			expected: []types.KeyID{kid1},
		},
		{
			name:     "version 0 box skipped",
			data:     concat(createPsshBox(0, types.ClearKeySystemID, kid2), clearKeyBox(kid1)),
			expected: []types.KeyID{kid1},
		},
		{
			name:     "foreign system box skipped",
			data:     concat(createPsshBox(1, foreignSystemID, kid2), clearKeyBox(kid1)),
			expected: []types.KeyID{kid1},
		},
		{
			name:     "small box skipped without type check",
			data:     concat(createBox("free", 20), clearKeyBox(kid1)),
			expected: []types.KeyID{kid1},
		},
		{
			name:     "trailing bytes shorter than a header ignored",
			data:     concat(clearKeyBox(kid1), []byte{0, 0, 0, 0}),
			expected: []types.KeyID{kid1},
		},
		{
			name:     "empty data",
			data:     nil,
			expected: []types.KeyID{},
		},
		{
			name:        "size beyond buffer",
			data:        clearKeyBox(kid1)[:40],
			expected:    []types.KeyID{},
			expectError: true,
		},
		{
			name:        "size overflow after a good box keeps earlier key IDs",
			data:        concat(clearKeyBox(kid1), []byte{0xff, 0xff, 0xff, 0xff, 'p', 's', 's', 'h'}),
			expected:    []types.KeyID{kid1},
			expectError: true,
		},
		{
			name:        "zero size",
			data:        concat(make([]byte, 8), clearKeyBox(kid1)),
			expected:    []types.KeyID{},
			expectError: true,
		},
		{
			name:        "non-pssh box",
			data:        concat(createBox("moov", 40), clearKeyBox(kid1)),
			expected:    []types.KeyID{},
			expectError: true,
		},
		{
			name: "key ID count beyond buffer",
			data: func() []byte {
				box := clearKeyBox(kid1)
				binary.BigEndian.PutUint32(box[28:32], 3)
				return box
			}(),
			expected:    []types.KeyID{},
			expectError: true,
		},
		{
			name: "huge key ID count does not wrap",
			data: func() []byte {
				box := clearKeyBox(kid1)
				binary.BigEndian.PutUint32(box[28:32], 0xffffffff)
				return box
			}(),
			expected:    []types.KeyID{},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := ParseInitData(tt.data, nil)

			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, types.IsMalformed(err))
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, keys)
		})
	}
}

func TestParseInitData_Mp4ffBoxes(t *testing.T) {
	pssh := &mp4.PsshBox{
		Version:  1,
		SystemID: mp4.UUID(types.ClearKeySystemID[:]),
		KIDs:     []mp4.UUID{mp4.UUID(kid1[:]), mp4.UUID(kid2[:])},
	}

	var buf bytes.Buffer
	require.NoError(t, pssh.Encode(&buf))

	keys, err := ParseInitData(buf.Bytes(), nil)
	require.NoError(t, err)
	assert.Equal(t, []types.KeyID{kid1, kid2}, keys)
}

func TestParseInitData_Logs(t *testing.T) {
	log := &recordingLogger{}

	_, err := ParseInitData(createPsshBox(1, foreignSystemID, kid1), log)
	require.NoError(t, err)
	assert.Contains(t, log.lines, "ignoring pssh box with foreign system id")
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Logf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
