package decrypt

import (
	"time"

	"github.com/deploymenttheory/go-clearkey/internal/types"
)

// Request represents a sample decryption request
type Request struct {
	InputPath  string
	OutputPath string

	// Either a content key, or a license response plus the key ID to use from it
	KeyHex       string
	ResponsePath string
	KeyIDHex     string

	// Initial counter block
	IVHex string

	// Lifetime of keys loaded from the license response, zero keeps them for the whole run
	KeyTTL time.Duration

	// Decoded by Validate
	key   []byte
	keyID types.KeyID
	iv    []byte
}

// Response represents the outcome of a decryption
type Response struct {
	OutputPath string        `json:"output_path" yaml:"output_path"`
	Bytes      int           `json:"bytes" yaml:"bytes"`
	Blocks     int           `json:"blocks" yaml:"blocks"`
	KeyID      string        `json:"kid,omitempty" yaml:"kid,omitempty"`
	NextIV     string        `json:"next_iv" yaml:"next_iv"`
	Elapsed    time.Duration `json:"elapsed" yaml:"elapsed"`
}
