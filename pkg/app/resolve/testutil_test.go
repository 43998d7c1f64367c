package resolve

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-clearkey/internal/parsers/base64web"
	"github.com/deploymenttheory/go-clearkey/internal/types"
)

var (
	testKeyID  = types.KeyID{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
	otherKeyID = types.KeyID{0xfe, 0xdc, 0xba, 0x98, 0x76, 0x54, 0x32, 0x10, 0xfe, 0xdc, 0xba, 0x98, 0x76, 0x54, 0x32, 0x10}
	testKey    = types.Key{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
)

// createPsshBox builds a version 1 ClearKey pssh box carrying kids
func createPsshBox(kids ...types.KeyID) []byte {
	size := 32 + len(kids)*types.KeyLen + 4
	box := make([]byte, size)
	binary.BigEndian.PutUint32(box[0:4], uint32(size))
	copy(box[4:8], types.PsshBoxType)
	box[8] = 1
	copy(box[12:28], types.ClearKeySystemID[:])
	binary.BigEndian.PutUint32(box[28:32], uint32(len(kids)))
	for i, kid := range kids {
		copy(box[32+i*types.KeyLen:], kid[:])
	}
	return box
}

// createLicense builds a license response granting testKey for each kid
func createLicense(kids ...types.KeyID) []byte {
	objects := ""
	for i, kid := range kids {
		if i > 0 {
			objects += ","
		}
		objects += fmt.Sprintf(`{"kty":"oct","alg":"A128KW","k":%q,"kid":%q}`,
			base64web.Encode(testKey[:]), base64web.Encode(kid[:]))
	}
	return []byte(`{"keys":[` + objects + `],"type":"temporary"}`)
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}
