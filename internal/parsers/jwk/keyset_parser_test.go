package jwk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-clearkey/internal/types"
)

const (
	testKeyB64   = "ABEiM0RVZneImaq7zN3u_w"
	testKeyIDB64 = "ASNFZ4mrze8BI0VniavN7w"
)

var (
	testKey   = types.Key{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	testKeyID = []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef, 0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Logf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// keyObjectJSON builds a key object with the given kty, alg, k and kid members
func keyObjectJSON(kty, alg, k, kid string) string {
	return fmt.Sprintf(`{"kty":%q,"alg":%q,"k":%q,"kid":%q}`, kty, alg, k, kid)
}

func TestParseKeySet(t *testing.T) {
	validKey := keyObjectJSON("oct", "A128KW", testKeyB64, testKeyIDB64)

	tests := []struct {
		name         string
		input        string
		expectedKeys int
		expectError  bool
		errorCheck   func(error) bool
	}{
		{
			name:         "single valid key",
			input:        `{"keys":[` + validKey + `],"type":"temporary"}`,
			expectedKeys: 1,
		},
		{
			name:         "members in any order with whitespace",
			input:        "{ \"type\" : \"temporary\" ,\n \"keys\" : [ {\"kid\":\"" + testKeyIDB64 + "\", \"k\":\"" + testKeyB64 + "\", \"alg\":\"A128KW\", \"kty\":\"oct\"} ] }",
			expectedKeys: 1,
		},
		{
			name:         "unknown members skipped",
			input:        `{"extra":{"a":[1,2,{"b":null}]},"keys":[{"use":"enc","kty":"oct","x5c":["a"],"alg":"A128KW","k":"` + testKeyB64 + `","kid":"` + testKeyIDB64 + `"}],"n":12,"type":"temporary"}`,
			expectedKeys: 1,
		},
		{
			name:         "type member optional",
			input:        `{"keys":[` + validKey + `]}`,
			expectedKeys: 1,
		},
		{
			name:         "multiple keys",
			input:        `{"keys":[` + validKey + `,` + keyObjectJSON("oct", "A128KW", testKeyB64, "AAAAAAAAAAAAAAAAAAAAAA") + `],"type":"temporary"}`,
			expectedKeys: 2,
		},
		{
			name:         "wrong algorithm dropped",
			input:        `{"keys":[` + keyObjectJSON("oct", "A128CBC", testKeyB64, testKeyIDB64) + `],"type":"temporary"}`,
			expectedKeys: 0,
		},
		{
			name:         "wrong key type dropped",
			input:        `{"keys":[` + keyObjectJSON("RSA", "A128KW", testKeyB64, testKeyIDB64) + `],"type":"temporary"}`,
			expectedKeys: 0,
		},
		{
			name:         "short key dropped",
			input:        `{"keys":[` + keyObjectJSON("oct", "A128KW", "ABEiM0RVZneImaq7zN3u", testKeyIDB64) + `],"type":"temporary"}`,
			expectedKeys: 0,
		},
		{
			name:         "undecodable kid dropped",
			input:        `{"keys":[` + keyObjectJSON("oct", "A128KW", testKeyB64, "not/base64") + `],"type":"temporary"}`,
			expectedKeys: 0,
		},
		{
			name:         "missing kid dropped",
			input:        `{"keys":[{"kty":"oct","alg":"A128KW","k":"` + testKeyB64 + `"}],"type":"temporary"}`,
			expectedKeys: 0,
		},
		{
			name:         "non-string k dropped",
			input:        `{"keys":[{"kty":"oct","alg":"A128KW","k":123,"kid":"` + testKeyIDB64 + `"}],"type":"temporary"}`,
			expectedKeys: 0,
		},
		{
			name:         "invalid key beside valid key",
			input:        `{"keys":[` + keyObjectJSON("oct", "A128CBC", testKeyB64, testKeyIDB64) + `,` + validKey + `],"type":"temporary"}`,
			expectedKeys: 1,
		},
		{
			name:         "empty key object tolerated",
			input:        `{"keys":[{},` + validKey + `],"type":"temporary"}`,
			expectedKeys: 1,
		},
		{
			name:         "empty keys array",
			input:        `{"keys":[],"type":"temporary"}`,
			expectedKeys: 0,
		},
		{
			name:         "empty document",
			input:        `{}`,
			expectedKeys: 0,
		},
		{
			name:        "persistent session type",
			input:       `{"keys":[` + validKey + `],"type":"persistent"}`,
			expectError: true,
			errorCheck:  types.IsInvalid,
		},
		{
			name:        "persistent type before keys",
			input:       `{"type":"persistent-license","keys":[` + validKey + `]}`,
			expectError: true,
			errorCheck:  types.IsInvalid,
		},
		{
			name:        "not an object",
			input:       `[]`,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
		{
			name:        "empty input",
			input:       ``,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
		{
			name:        "keys not an array",
			input:       `{"keys":{},"type":"temporary"}`,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
		{
			name:        "missing colon",
			input:       `{"keys" [` + validKey + `]}`,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
		{
			name:        "missing comma between keys",
			input:       `{"keys":[` + validKey + validKey + `]}`,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
		{
			name:        "missing comma between members",
			input:       `{"keys":[` + validKey + `] "type":"temporary"}`,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
		{
			name:        "truncated keys array",
			input:       `{"keys":[` + validKey,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
		{
			name:        "truncated document",
			input:       `{"keys":[` + validKey + `]`,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
		{
			name:        "malformed unknown member",
			input:       `{"extra":[1 2],"keys":[` + validKey + `]}`,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
		{
			name:        "malformed key object member",
			input:       `{"keys":[{"kty" "oct"}]}`,
			expectError: true,
			errorCheck:  types.IsMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys, err := ParseKeySet([]byte(tt.input), nil)

			if tt.expectError {
				require.Error(t, err)
				assert.True(t, tt.errorCheck(err), "unexpected error kind: %v", err)
				assert.Nil(t, keys)
			} else {
				require.NoError(t, err)
				assert.Len(t, keys, tt.expectedKeys)
			}
		})
	}
}

func TestParseKeySet_DecodesPair(t *testing.T) {
	input := `{"keys":[` + keyObjectJSON("oct", "A128KW", testKeyB64, testKeyIDB64) + `],"type":"temporary"}`

	keys, err := ParseKeySet([]byte(input), nil)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	assert.Equal(t, testKey, keys[0].Key)
	assert.Equal(t, testKeyID, keys[0].KeyID)

	id, ok := keys[0].ID()
	assert.True(t, ok)
	assert.Equal(t, "01234567-89ab-cdef-0123-456789abcdef", id.String())
}

func TestParseKeySet_ShortKeyIDKept(t *testing.T) {
	// kid may decode to any length
	input := `{"keys":[` + keyObjectJSON("oct", "A128KW", testKeyB64, "AQID") + `]}`

	keys, err := ParseKeySet([]byte(input), nil)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	assert.Equal(t, []byte{0x01, 0x02, 0x03}, keys[0].KeyID)
	_, ok := keys[0].ID()
	assert.False(t, ok)
}

func TestParseKeySet_LogsDroppedKeys(t *testing.T) {
	log := &recordingLogger{}
	input := `{"keys":[` + keyObjectJSON("oct", "A128CBC", testKeyB64, testKeyIDB64) + `]}`

	keys, err := ParseKeySet([]byte(input), log)
	require.NoError(t, err)
	assert.Empty(t, keys)

	found := false
	for _, line := range log.lines {
		if strings.Contains(line, "dropping key object") && strings.Contains(line, "A128CBC") {
			found = true
		}
	}
	assert.True(t, found, "expected a dropped key diagnostic, got %v", log.lines)
}
