// Package types defines the data model shared by the ClearKey parsers, cipher and session layer.
package types

import (
	"encoding/hex"

	"github.com/google/uuid"
)

// Sizes and limits of the ClearKey data model.
const (
	// KeyLen is the length of both key IDs and AES-128 keys.
	KeyLen = 16

	// BlockSize is the AES block size used by the counter cipher.
	BlockSize = 16

	// IVLen is the length of the counter block handed to the cipher.
	IVLen = 16

	// PsshBoxMinSize is the smallest pssh box that can carry a key ID list:
	// size(4) + type(4) + version/flags(4) + system id(16) + kid count(4) + one byte of payload.
	PsshBoxMinSize = 36

	// PsshBoxVersion is the only pssh box version that carries key IDs.
	PsshBoxVersion = 1

	// PsshBoxType is the four character code of a protection system specific header box.
	PsshBoxType = "pssh"
)

// ClearKeySystemID identifies the common encryption v2 pssh box format used by ClearKey.
// https://w3c.github.io/encrypted-media/format-registry/initdata/cenc.html
var ClearKeySystemID = uuid.MustParse("1077efec-c0b2-4d02-ace3-3c1e52e2fb4b")

// KeyID is an opaque 16 byte key identifier.
type KeyID [KeyLen]byte

// String returns the key ID in canonical UUID form.
func (k KeyID) String() string {
	return uuid.UUID(k).String()
}

// Hex returns the key ID as 32 lowercase hex digits.
func (k KeyID) Hex() string {
	return hex.EncodeToString(k[:])
}

// Key is a raw AES-128 content key.
type Key [KeyLen]byte

// Hex returns the key as 32 lowercase hex digits.
func (k Key) Hex() string {
	return hex.EncodeToString(k[:])
}

// KeyIDPair associates a key ID with its content key.
// The key ID keeps whatever length the license server sent; ClearKey servers
// normally send 16 bytes but the license format does not require it.
type KeyIDPair struct {
	KeyID []byte
	Key   Key
}

// ID returns the pair's key ID as a KeyID and whether it had the canonical length.
func (p KeyIDPair) ID() (KeyID, bool) {
	var id KeyID
	if len(p.KeyID) != KeyLen {
		return id, false
	}
	copy(id[:], p.KeyID)
	return id, true
}

// SessionType is the license session type carried in requests and responses.
type SessionType string

const (
	// SessionTypeTemporary is the only supported session type.
	SessionTypeTemporary SessionType = "temporary"

	// SessionTypePersistent is recognised only so it can be rejected.
	SessionTypePersistent SessionType = "persistent"
)

// JWK member values accepted in a key object.
const (
	JwkKeyTypeOct   = "oct"
	JwkAlgA128KW    = "A128KW"
	JwkMemberKeys   = "keys"
	JwkMemberType   = "type"
	JwkMemberKty    = "kty"
	JwkMemberAlg    = "alg"
	JwkMemberKey    = "k"
	JwkMemberKeyID  = "kid"
	RequestMemberID = "kids"
)
