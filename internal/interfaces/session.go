package interfaces

import (
	"context"
	"time"

	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// KeyStore holds the content keys resolved for one session
type KeyStore interface {
	// Put stores key under id, replacing any previous key
	Put(id types.KeyID, key types.Key)

	// Get returns the key stored for id
	Get(id types.KeyID) (types.Key, bool)

	// Remove drops the key stored for id
	Remove(id types.KeyID)

	// Len returns the number of keys currently held
	Len() int

	// Clear drops every key
	Clear()
}

// LicenseFetcher sends a license request and returns the raw license response
type LicenseFetcher interface {
	// FetchLicense posts request to the license server and returns the response body
	FetchLicense(ctx context.Context, request []byte) ([]byte, error)
}

// SessionReader exposes read-only session state
type SessionReader interface {
	// ID returns the session identifier
	ID() string

	// Type returns the session type
	Type() types.SessionType

	// CreatedAt returns the session creation time
	CreatedAt() time.Time

	// KeyIDs returns the key IDs extracted from the last init data
	KeyIDs() []types.KeyID

	// HasKey reports whether a usable key is held for id
	HasKey(id types.KeyID) bool
}
